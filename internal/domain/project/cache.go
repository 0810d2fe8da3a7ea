package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/rpggio/sentry-mcp/internal/payload"
	"github.com/rpggio/sentry-mcp/internal/repository"
)

// DefaultTTL is how long a fetched project list stays fresh.
const DefaultTTL = 300 * time.Second

// CacheConfig configures a Cache.
type CacheConfig struct {
	TTL time.Duration
	// Store, when set, is consulted before hitting the source and written after.
	Store    SnapshotStore
	StoreKey string
	Now      func() time.Time
	Logger   *slog.Logger
}

// Cache holds the organization's project list for a fixed TTL.
type Cache struct {
	source   Source
	store    SnapshotStore
	storeKey string
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu        sync.Mutex
	projects  []Project
	fetchedAt time.Time
}

// NewCache creates a project cache over source.
func NewCache(source Source, cfg CacheConfig) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		source:   source,
		store:    cfg.Store,
		storeKey: cfg.StoreKey,
		ttl:      cfg.TTL,
		now:      cfg.Now,
		logger:   cfg.Logger,
	}
}

// Projects returns the cached list, refreshing it once it is older than the TTL.
// A failed refresh is returned as an error and leaves the previous list in place.
func (c *Cache) Projects(ctx context.Context) ([]Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.projects != nil && now.Sub(c.fetchedAt) <= c.ttl {
		return slices.Clone(c.projects), nil
	}

	if c.loadSnapshot(ctx, now) {
		return slices.Clone(c.projects), nil
	}

	objects, err := c.source.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("refreshing project cache: %w", err)
	}
	c.projects = FromObjects(objects)
	c.fetchedAt = now
	c.logger.Debug("project cache refreshed", "count", len(c.projects))

	c.saveSnapshot(ctx)
	return slices.Clone(c.projects), nil
}

// Invalidate drops the in-memory list. The next Projects call refetches
// unless the snapshot store still holds a fresh copy, which is reused.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects = nil
	c.fetchedAt = time.Time{}
}

func (c *Cache) loadSnapshot(ctx context.Context, now time.Time) bool {
	if c.store == nil {
		return false
	}
	snap, err := c.store.LoadSnapshot(ctx, c.storeKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			c.logger.Warn("loading project snapshot", "key", c.storeKey, "error", err)
		}
		return false
	}
	if snap == nil || now.Sub(snap.FetchedAt) > c.ttl {
		return false
	}
	c.projects = snap.Projects
	if c.projects == nil {
		c.projects = []Project{}
	}
	c.fetchedAt = snap.FetchedAt
	return true
}

func (c *Cache) saveSnapshot(ctx context.Context) {
	if c.store == nil {
		return
	}
	snap := &Snapshot{Key: c.storeKey, Projects: c.projects, FetchedAt: c.fetchedAt}
	if err := c.store.SaveSnapshot(ctx, snap); err != nil {
		c.logger.Warn("saving project snapshot", "key", c.storeKey, "error", err)
	}
}

// FromObjects converts raw project payloads, skipping entries without a slug.
// A slug listed more than once keeps its first entry.
func FromObjects(objects []payload.Object) []Project {
	projects := make([]Project, 0, len(objects))
	seen := make(map[string]bool, len(objects))
	for _, obj := range objects {
		slug := obj.String("slug")
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		projects = append(projects, Project{
			Slug:     slug,
			Name:     obj.String("name"),
			Platform: obj.String("platform"),
		})
	}
	return projects
}
