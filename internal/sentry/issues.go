package sentry

import (
	"context"

	"github.com/rpggio/sentry-mcp/internal/payload"
)

// IssueDetails returns a single issue, including its 24h/30d stats.
func (c *Client) IssueDetails(ctx context.Context, issueID string) (payload.Object, error) {
	return c.getObject(ctx, issuePath(issueID, ""), nil)
}

// IssueLatestEvent returns the most recent event of an issue.
func (c *Client) IssueLatestEvent(ctx context.Context, issueID string) (payload.Object, error) {
	return c.getObject(ctx, issuePath(issueID, "events/latest/"), nil)
}

// IssueEvents lists events of an issue.
func (c *Client) IssueEvents(ctx context.Context, issueID string, limit int) ([]payload.Object, error) {
	return c.getList(ctx, issuePath(issueID, "events/"), limitParams{Limit: limitOrDefault(limit)})
}

// IssueNotes lists the comments on an issue.
func (c *Client) IssueNotes(ctx context.Context, issueID string) ([]payload.Object, error) {
	return c.getList(ctx, issuePath(issueID, "notes/"), nil)
}

// IssueHashes lists the fingerprint hashes grouped into an issue.
func (c *Client) IssueHashes(ctx context.Context, issueID string) ([]payload.Object, error) {
	return c.getList(ctx, issuePath(issueID, "hashes/"), nil)
}
