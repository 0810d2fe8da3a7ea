package project_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rpggio/sentry-mcp/internal/domain/project"
	"github.com/rpggio/sentry-mcp/internal/payload"
	"github.com/rpggio/sentry-mcp/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T, objects []payload.Object) (*project.Resolver, *mocks.Completer) {
	t.Helper()
	source := &mocks.Gateway{}
	source.On("ListProjects", mock.Anything).Return(objects, nil)
	completer := &mocks.Completer{}
	return project.NewResolver(project.NewCache(source, project.CacheConfig{}), completer, nil), completer
}

func TestResolver_ExactSlugSkipsModel(t *testing.T) {
	resolver, completer := newResolver(t, projectObjects)

	match, err := resolver.Resolve(context.Background(), "MOBILE")
	require.NoError(t, err)
	require.Equal(t, &project.Match{Slug: "mobile", Name: "Mobile App"}, match)

	match, err = resolver.Resolve(context.Background(), "api-gateway")
	require.NoError(t, err)
	require.Equal(t, "api-gateway", match.Slug)

	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestResolver_SinglePartialMatch(t *testing.T) {
	resolver, completer := newResolver(t, projectObjects)

	match, err := resolver.Resolve(context.Background(), "frontend")
	require.NoError(t, err)
	require.Equal(t, &project.Match{Slug: "web-frontend", Name: "Web Frontend"}, match)

	match, err = resolver.Resolve(context.Background(), "worker")
	require.NoError(t, err)
	require.Equal(t, "api-worker", match.Slug)

	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestResolver_ModelPicksAmongPartialMatches(t *testing.T) {
	resolver, completer := newResolver(t, projectObjects)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "- API Gateway (slug: api-gateway)") &&
			strings.Contains(prompt, "- API Worker (slug: api-worker)") &&
			!strings.Contains(prompt, "web-frontend")
	})).Return("api-worker", nil)

	match, err := resolver.Resolve(context.Background(), "api")
	require.NoError(t, err)
	require.Equal(t, &project.Match{Slug: "api-worker", Name: "API Worker"}, match)
	completer.AssertExpectations(t)
}

func TestResolver_ModelPicksFromFullListWhenNothingMatches(t *testing.T) {
	resolver, completer := newResolver(t, projectObjects)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, `"storefront"`) &&
			strings.Contains(prompt, "web-frontend") &&
			strings.Contains(prompt, "mobile")
	})).Return("The best match is `web-frontend`.", nil)

	match, err := resolver.Resolve(context.Background(), "storefront")
	require.NoError(t, err)
	require.Equal(t, "web-frontend", match.Slug)
}

func TestResolver_FallsBackToFirstCandidate(t *testing.T) {
	t.Run("model error", func(t *testing.T) {
		resolver, completer := newResolver(t, projectObjects)
		completer.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("rate limited"))

		match, err := resolver.Resolve(context.Background(), "api")
		require.NoError(t, err)
		require.Equal(t, "api-gateway", match.Slug)
	})

	t.Run("unrecognized reply", func(t *testing.T) {
		resolver, completer := newResolver(t, projectObjects)
		completer.On("Complete", mock.Anything, mock.Anything).Return("no idea", nil)

		match, err := resolver.Resolve(context.Background(), "billing")
		require.NoError(t, err)
		require.Equal(t, "web-frontend", match.Slug)
	})

	t.Run("no model configured", func(t *testing.T) {
		source := &mocks.Gateway{}
		source.On("ListProjects", mock.Anything).Return(projectObjects, nil)
		resolver := project.NewResolver(project.NewCache(source, project.CacheConfig{}), nil, nil)

		match, err := resolver.Resolve(context.Background(), "api")
		require.NoError(t, err)
		require.Equal(t, "api-gateway", match.Slug)
	})
}

func TestResolver_ReplyScannedInListingOrder(t *testing.T) {
	resolver, completer := newResolver(t, []payload.Object{
		{"slug": "web", "name": "Web"},
		{"slug": "web-admin", "name": "Web Admin"},
	})
	completer.On("Complete", mock.Anything, mock.Anything).Return("I'd go with web-admin", nil)

	match, err := resolver.Resolve(context.Background(), "admin panel")
	require.NoError(t, err)
	require.Equal(t, "web", match.Slug)
}

func TestResolver_Errors(t *testing.T) {
	resolver, _ := newResolver(t, nil)

	_, err := resolver.Resolve(context.Background(), "  ")
	require.ErrorIs(t, err, project.ErrNameRequired)

	_, err = resolver.Resolve(context.Background(), "anything")
	var noMatch *project.NoMatchError
	require.ErrorAs(t, err, &noMatch)
	require.EqualError(t, err, "no project found matching 'anything'")

	source := &mocks.Gateway{}
	source.On("ListProjects", mock.Anything).Return(nil, errors.New("unauthorized"))
	resolver = project.NewResolver(project.NewCache(source, project.CacheConfig{}), nil, nil)
	_, err = resolver.Resolve(context.Background(), "web")
	require.ErrorContains(t, err, "unauthorized")
}

func TestBuildPrompt(t *testing.T) {
	prompt := project.BuildPrompt("shop", []project.Project{{Slug: "web", Name: "Web"}, {Slug: "api", Name: "API"}})
	require.Contains(t, prompt, `"shop"`)
	require.Contains(t, prompt, "- Web (slug: web)\n- API (slug: api)\n")
}
