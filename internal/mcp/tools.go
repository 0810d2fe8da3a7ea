package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var projectNameProperty = map[string]any{
	"type":        "string",
	"description": "Project name or slug; fuzzy names are matched against the organization's projects",
}

var issueIDProperty = map[string]any{
	"type":        "string",
	"description": "Numeric Sentry issue ID",
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Projects
		{
			Name:        "get_project_health",
			Title:       "Project health",
			Description: "Get overall project health: status, platform, latest release and the number of issues seen in the last 24 hours",
			ErrorPrefix: "Failed to get project health",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_name": projectNameProperty,
				},
				"required": []string{"project_name"},
			},
		},
		{
			Name:        "get_recent_issues",
			Title:       "Recent issues",
			Description: "List issues of a project last seen within the given window. 1-30 minutes is real-time monitoring, 31-120 recent, 121+ extended",
			ErrorPrefix: "Failed to get recent issues",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_name": projectNameProperty,
					"time_range_minutes": map[string]any{
						"type":        "integer",
						"description": "Window length in minutes (default 60)",
						"minimum":     1,
					},
				},
				"required": []string{"project_name"},
			},
		},
		{
			Name:        "get_top_issues",
			Title:       "Top issues",
			Description: "List the project's issues of the last 24 hours ranked by event frequency or by affected users",
			ErrorPrefix: "Failed to get top issues",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_name": projectNameProperty,
					"sort": map[string]any{
						"type":        "string",
						"description": "Ranking: freq (events) or users (affected users). Default freq",
						"enum":        []string{"freq", "users"},
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of issues (default 10, max 100)",
						"minimum":     1,
						"maximum":     100,
					},
				},
				"required": []string{"project_name"},
			},
		},
		{
			Name:        "get_release_health",
			Title:       "Release health",
			Description: "List the project's releases with their first/last event and new issue counts, optionally filtered by version",
			ErrorPrefix: "Failed to get release health",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_name": projectNameProperty,
					"release": map[string]any{
						"type":        "string",
						"description": "Version filter (substring match)",
					},
				},
				"required": []string{"project_name"},
			},
		},
		{
			Name:        "get_project_events",
			Title:       "Project events",
			Description: "Search a project's events by query, optionally restricted to a trailing window or to performance transactions",
			ErrorPrefix: "Failed to get project events",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_name": projectNameProperty,
					"query": map[string]any{
						"type":        "string",
						"description": "Sentry search query, e.g. level:error",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of events (default 100)",
						"minimum":     1,
						"maximum":     100,
					},
					"time_range_minutes": map[string]any{
						"type":        "integer",
						"description": "Only events from the last N minutes",
						"minimum":     1,
					},
					"transactions_only": map[string]any{
						"type":        "boolean",
						"description": "Return performance transactions, newest first",
					},
				},
				"required": []string{"project_name"},
			},
		},
		{
			Name:        "resolve_project",
			Title:       "Resolve project",
			Description: "Resolve a free-text project name to its slug and display name",
			ErrorPrefix: "Failed to resolve project",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_name": projectNameProperty,
				},
				"required": []string{"project_name"},
			},
		},

		// Issues
		{
			Name:        "get_issue_analysis",
			Title:       "Issue analysis",
			Description: "Analyze an issue: details, exception location, latest error message, release of the latest event and event count",
			ErrorPrefix: "Failed to get issue analysis",
			InputSchema: issueSchema(),
		},
		{
			Name:        "get_issue_trends",
			Title:       "Issue trends",
			Description: "Summarize an issue's event volume over the last 24 hours (hourly) and 30 days (daily): totals, peaks and active buckets",
			ErrorPrefix: "Failed to get issue trends",
			InputSchema: issueSchema(),
		},
		{
			Name:        "get_issue_summary",
			Title:       "Issue summary",
			Description: "Get the essentials of an issue in a compact form, including the latest error message and affected user when available",
			ErrorPrefix: "Failed to get issue essentials",
			InputSchema: issueSchema(),
		},
		{
			Name:        "get_issue_details",
			Title:       "Issue details",
			Description: "Get comprehensive issue details: latest event, user impact (user, geo, browser, runtime, trace) and event/note/hash counts",
			ErrorPrefix: "Failed to get comprehensive issue details",
			InputSchema: issueSchema(),
		},
	}
}

func issueSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"issue_id": issueIDProperty,
		},
		"required": []string{"issue_id"},
	}
}

// registerTools adds every catalog tool to server, dispatching through handler.
func registerTools(server *sdkmcp.Server, handler *Handler, logger *slog.Logger) {
	for _, def := range buildToolCatalog() {
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
			Annotations: &sdkmcp.ToolAnnotations{
				Title:          def.Title,
				ReadOnlyHint:   true,
				IdempotentHint: true,
				OpenWorldHint:  boolPtr(true),
			},
		}, toolHandler(handler, def, logger))
	}
}

func toolHandler(handler *Handler, def ToolDefinition, logger *slog.Logger) sdkmcp.ToolHandler {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}

		result, err := handler.Handle(ctx, def.Name, args)
		if err != nil {
			msg := toolErrorMessage(def.ErrorPrefix, err)
			level := slog.LevelError
			if isCallerError(err) {
				level = slog.LevelWarn
			}
			if logger != nil {
				logger.Log(ctx, level, "tool call failed", "tool", def.Name, "request_id", getRequestID(ctx), "error", err)
			}
			return jsonResult(ErrorResponse{Error: msg}), nil
		}
		return jsonResult(result), nil
	}
}

func boolPtr(b bool) *bool {
	return &b
}
