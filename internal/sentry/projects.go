package sentry

import (
	"context"

	"github.com/rpggio/sentry-mcp/internal/payload"
)

// ListProjects returns every project visible to the token.
func (c *Client) ListProjects(ctx context.Context) ([]payload.Object, error) {
	return c.getList(ctx, "/projects/", nil)
}

// ProjectDetails returns a single project.
func (c *Client) ProjectDetails(ctx context.Context, projectSlug string) (payload.Object, error) {
	return c.getObject(ctx, c.projectPath(projectSlug, ""), nil)
}

// ProjectStats returns a [[timestamp, count], ...] series. Stat defaults to
// "received".
func (c *Client) ProjectStats(ctx context.Context, projectSlug string, opts StatsOptions) (any, error) {
	stat := opts.Stat
	if stat == "" {
		stat = "received"
	}
	since, until := opts.Window.bounds()
	return c.getValue(ctx, c.projectPath(projectSlug, "stats/"), statsParams{
		Stat:  stat,
		Since: since,
		Until: until,
	})
}

// ProjectEvents lists events of a project.
func (c *Client) ProjectEvents(ctx context.Context, projectSlug string, opts EventsOptions) ([]payload.Object, error) {
	since, until := opts.Window.bounds()
	params := eventsParams{
		Limit: limitOrDefault(opts.Limit),
		Query: opts.Query,
		Since: since,
		Until: until,
	}
	if opts.Transactions {
		params.Field = "transaction"
		params.Sort = "-timestamp"
	}
	return c.getList(ctx, c.projectPath(projectSlug, "events/"), params)
}

// ProjectIssues lists issues of a project. The stats period follows the
// requested window; the window itself is not sent.
func (c *Client) ProjectIssues(ctx context.Context, projectSlug string, opts IssuesOptions) ([]payload.Object, error) {
	return c.getList(ctx, c.projectPath(projectSlug, "issues/"), issuesParams{
		Limit:       limitOrDefault(opts.Limit),
		StatsPeriod: StatsPeriod(opts.Window),
	})
}

// Issue sort orders understood by IssuesBySort.
const (
	SortFrequency = "freq"
	SortUsers     = "users"
)

// IssuesBySort lists issues of the last day ordered by sort.
func (c *Client) IssuesBySort(ctx context.Context, projectSlug, sort string, opts IssuesOptions) ([]payload.Object, error) {
	since, until := opts.Window.bounds()
	return c.getList(ctx, c.projectPath(projectSlug, "issues/"), sortedIssuesParams{
		Limit:       limitOrDefault(opts.Limit),
		Sort:        sort,
		StatsPeriod: StatsPeriod24h,
		Since:       since,
		Until:       until,
	})
}

// ReleaseHealth lists releases of a project, optionally filtered by version.
func (c *Client) ReleaseHealth(ctx context.Context, projectSlug, release string) ([]payload.Object, error) {
	return c.getList(ctx, c.projectPath(projectSlug, "releases/"), releaseParams{Query: release})
}
