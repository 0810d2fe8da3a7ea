package project_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/sentry-mcp/internal/domain/project"
	"github.com/rpggio/sentry-mcp/internal/payload"
	"github.com/rpggio/sentry-mcp/internal/repository"
	"github.com/rpggio/sentry-mcp/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

var projectObjects = []payload.Object{
	{"slug": "web-frontend", "name": "Web Frontend", "platform": "javascript"},
	{"slug": "api-gateway", "name": "API Gateway", "platform": "go"},
	{"slug": "api-worker", "name": "API Worker", "platform": "python"},
	{"slug": "mobile", "name": "Mobile App"},
}

func TestCache_FetchesOncePerTTL(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	source := &mocks.Gateway{}
	source.On("ListProjects", ctx).Return(projectObjects, nil)

	cache := project.NewCache(source, project.CacheConfig{Now: clock.Now})

	for range 3 {
		projects, err := cache.Projects(ctx)
		require.NoError(t, err)
		require.Len(t, projects, 4)
		clock.Advance(time.Minute)
	}
	source.AssertNumberOfCalls(t, "ListProjects", 1)

	// age is now exactly 300s, still fresh
	clock.Advance(2 * time.Minute)
	_, err := cache.Projects(ctx)
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "ListProjects", 1)

	clock.Advance(time.Second)
	_, err = cache.Projects(ctx)
	require.NoError(t, err)
	_, err = cache.Projects(ctx)
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "ListProjects", 2)
}

func TestCache_RefreshFailureReturnsError(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	source := &mocks.Gateway{}
	source.On("ListProjects", ctx).Return(projectObjects, nil).Once()
	source.On("ListProjects", ctx).Return(nil, errors.New("sentry down")).Once()
	source.On("ListProjects", ctx).Return(projectObjects[:1], nil).Once()

	cache := project.NewCache(source, project.CacheConfig{TTL: time.Minute, Now: clock.Now})

	_, err := cache.Projects(ctx)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = cache.Projects(ctx)
	require.ErrorContains(t, err, "sentry down")

	projects, err := cache.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	source.AssertExpectations(t)
}

func TestCache_SkipsProjectsWithoutSlug(t *testing.T) {
	ctx := context.Background()
	source := &mocks.Gateway{}
	source.On("ListProjects", ctx).Return([]payload.Object{{"name": "orphan"}, nil, {"slug": "web"}}, nil)

	projects, err := project.NewCache(source, project.CacheConfig{}).Projects(ctx)
	require.NoError(t, err)
	require.Equal(t, []project.Project{{Slug: "web"}}, projects)
}

func TestCache_DuplicateSlugsKeptOnce(t *testing.T) {
	ctx := context.Background()
	source := &mocks.Gateway{}
	source.On("ListProjects", ctx).Return([]payload.Object{
		{"slug": "web", "name": "Web"},
		{"slug": "api", "name": "API"},
		{"slug": "web", "name": "Web (old)"},
	}, nil)

	projects, err := project.NewCache(source, project.CacheConfig{}).Projects(ctx)
	require.NoError(t, err)
	require.Equal(t, []project.Project{{Slug: "web", Name: "Web"}, {Slug: "api", Name: "API"}}, projects)
}

func TestCache_InvalidateReusesFreshSnapshot(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	source := &mocks.Gateway{}
	store := &mocks.SnapshotStore{}
	source.On("ListProjects", ctx).Return(projectObjects, nil)
	store.On("LoadSnapshot", ctx, "org").Return(nil, repository.ErrNotFound).Once()
	store.On("SaveSnapshot", ctx, mock.Anything).Return(nil)
	store.On("LoadSnapshot", ctx, "org").Return(&project.Snapshot{
		Key:       "org",
		Projects:  []project.Project{{Slug: "web", Name: "Web"}},
		FetchedAt: clock.Now(),
	}, nil)

	cache := project.NewCache(source, project.CacheConfig{Store: store, StoreKey: "org", Now: clock.Now})
	_, err := cache.Projects(ctx)
	require.NoError(t, err)

	cache.Invalidate()
	projects, err := cache.Projects(ctx)
	require.NoError(t, err)
	require.Equal(t, []project.Project{{Slug: "web", Name: "Web"}}, projects)
	source.AssertNumberOfCalls(t, "ListProjects", 1)
}

func TestCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	source := &mocks.Gateway{}
	source.On("ListProjects", ctx).Return(projectObjects, nil)

	cache := project.NewCache(source, project.CacheConfig{})
	_, err := cache.Projects(ctx)
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.Projects(ctx)
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "ListProjects", 2)
}

func TestCache_UsesFreshSnapshot(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	source := &mocks.Gateway{}
	store := &mocks.SnapshotStore{}
	store.On("LoadSnapshot", ctx, "org").Return(&project.Snapshot{
		Key:       "org",
		Projects:  []project.Project{{Slug: "web", Name: "Web"}},
		FetchedAt: clock.Now().Add(-time.Minute),
	}, nil).Once()
	store.On("LoadSnapshot", ctx, "org").Return(nil, repository.ErrNotFound)
	store.On("SaveSnapshot", ctx, mock.Anything).Return(nil)
	source.On("ListProjects", ctx).Return(projectObjects, nil)

	cache := project.NewCache(source, project.CacheConfig{Store: store, StoreKey: "org", Now: clock.Now})
	projects, err := cache.Projects(ctx)
	require.NoError(t, err)
	require.Equal(t, []project.Project{{Slug: "web", Name: "Web"}}, projects)
	source.AssertNotCalled(t, "ListProjects", mock.Anything)

	// the snapshot keeps its original age
	clock.Advance(5 * time.Minute)
	projects, err = cache.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 4)
	source.AssertNumberOfCalls(t, "ListProjects", 1)
	store.AssertNumberOfCalls(t, "SaveSnapshot", 1)
}

func TestCache_StaleSnapshotRefetchesAndSaves(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	source := &mocks.Gateway{}
	store := &mocks.SnapshotStore{}
	store.On("LoadSnapshot", ctx, "org").Return(&project.Snapshot{
		Key:       "org",
		Projects:  []project.Project{{Slug: "old"}},
		FetchedAt: clock.Now().Add(-time.Hour),
	}, nil)
	source.On("ListProjects", ctx).Return(projectObjects, nil)
	store.On("SaveSnapshot", ctx, mock.MatchedBy(func(snap *project.Snapshot) bool {
		return snap.Key == "org" && len(snap.Projects) == 4 && snap.FetchedAt.Equal(clock.Now())
	})).Return(errors.New("disk full"))

	projects, err := project.NewCache(source, project.CacheConfig{Store: store, StoreKey: "org", Now: clock.Now}).Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 4)
	store.AssertExpectations(t)
}
