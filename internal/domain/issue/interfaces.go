package issue

import (
	"context"

	"github.com/rpggio/sentry-mcp/internal/payload"
	"github.com/rpggio/sentry-mcp/internal/sentry"
)

// Gateway is the slice of the Sentry API the issue service reads.
type Gateway interface {
	IssueDetails(ctx context.Context, issueID string) (payload.Object, error)
	IssueLatestEvent(ctx context.Context, issueID string) (payload.Object, error)
	IssueEvents(ctx context.Context, issueID string, limit int) ([]payload.Object, error)
	IssueNotes(ctx context.Context, issueID string) ([]payload.Object, error)
	IssueHashes(ctx context.Context, issueID string) ([]payload.Object, error)
	ProjectIssues(ctx context.Context, projectSlug string, opts sentry.IssuesOptions) ([]payload.Object, error)
	IssuesBySort(ctx context.Context, projectSlug, sort string, opts sentry.IssuesOptions) ([]payload.Object, error)
}
