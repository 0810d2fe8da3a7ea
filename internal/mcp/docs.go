package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `sentry-mcp answers questions about one Sentry organization.

Projects are named loosely: pass whatever the user called the project as project_name.
The server matches it against the organization's project slugs and names, and asks a
language model to pick when the name is ambiguous. Call resolve_project to see which
project a name maps to.

Typical flow:
1) get_project_health for an overview of a project.
2) get_recent_issues or get_top_issues to find interesting issues.
3) get_issue_summary for a quick look, get_issue_analysis or get_issue_details for depth.
4) get_issue_trends to see how an issue's volume changed over 24 hours and 30 days.

Every tool returns a JSON object. Failures come back as {"error": "..."} rather than
protocol errors, so check for an error key before using the result.

Docs: sentry://docs/tools
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "sentry://docs/tools",
		Name:        "docs_tools",
		Title:       "sentry-mcp tool reference",
		Description: "Inputs, outputs and failure behavior of every sentry-mcp tool.",
		Content: `# sentry-mcp tools

## Project tools

All project tools take ` + "`project_name`" + `. Resolution order:

1. exact slug (case-insensitive)
2. the only project whose slug or name contains the text
3. a language model choosing among the partial matches, or among all projects when nothing matched
4. the first candidate when the model is unavailable or its reply names no candidate

- ` + "`resolve_project`" + ` returns ` + "`{project_slug, project_name}`" + `.
- ` + "`get_project_health`" + ` returns status, platform, latest release, the number of issues
  seen in the last 24 hours and, when available, events received in the last 24 hours.
  If listing issues fails the count is 0 and ` + "`issues_error`" + ` explains why.
- ` + "`get_recent_issues`" + ` takes ` + "`time_range_minutes`" + ` (default 60). Windows up to 30 minutes
  are "real-time" (up to 100 issues), up to 120 minutes "recent" (75), anything longer
  "extended" (50). Only issues last seen inside the window are returned.
- ` + "`get_top_issues`" + ` orders the last 24 hours of issues by ` + "`freq`" + ` or ` + "`users`" + `.
- ` + "`get_release_health`" + ` lists releases, optionally filtered by ` + "`release`" + `.
- ` + "`get_project_events`" + ` lists recent events; ` + "`transactions_only`" + ` restricts the list to
  performance transactions.

## Issue tools

All issue tools take ` + "`issue_id`" + ` (the numeric Sentry id).

- ` + "`get_issue_summary`" + `: title, level, status, counts and the latest error message.
- ` + "`get_issue_details`" + `: everything in the summary plus user impact, notes and hashes.
  Sections that could not be fetched carry an ` + "`error`" + ` field instead of failing the call.
- ` + "`get_issue_analysis`" + `: metadata, priority, event count and the release of the latest event.
- ` + "`get_issue_trends`" + `: totals, peaks and active buckets for the 24h and 30d series.
  Peak times are null when the series is empty.

## Errors

Failures return ` + "`{\"error\": \"...\"}`" + `. Bad input (empty project name, unknown project,
out-of-range limits) is reported verbatim; upstream failures are prefixed with the tool's
action, for example "Failed to get project health: ...".
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
