package project

import (
	"context"

	"github.com/rpggio/sentry-mcp/internal/payload"
	"github.com/rpggio/sentry-mcp/internal/sentry"
)

// Source lists the organization's projects.
type Source interface {
	ListProjects(ctx context.Context) ([]payload.Object, error)
}

// Completer answers a free-form prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SnapshotStore persists project lists between process restarts.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, key string) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
}

// Gateway is the slice of the Sentry API the project service reads.
type Gateway interface {
	ProjectDetails(ctx context.Context, projectSlug string) (payload.Object, error)
	ProjectIssues(ctx context.Context, projectSlug string, opts sentry.IssuesOptions) ([]payload.Object, error)
	ProjectStats(ctx context.Context, projectSlug string, opts sentry.StatsOptions) (any, error)
	ProjectEvents(ctx context.Context, projectSlug string, opts sentry.EventsOptions) ([]payload.Object, error)
	ReleaseHealth(ctx context.Context, projectSlug, release string) ([]payload.Object, error)
}
