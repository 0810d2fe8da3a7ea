package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/sentry-mcp/internal/domain/issue"
	"github.com/rpggio/sentry-mcp/internal/domain/project"
)

// ProjectResolver maps free-text project names to projects.
type ProjectResolver interface {
	Resolve(ctx context.Context, name string) (*project.Match, error)
}

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Health(ctx context.Context, m project.Match) (*project.Health, error)
	Releases(ctx context.Context, m project.Match, query string) (*project.ReleaseList, error)
	Events(ctx context.Context, m project.Match, req project.EventsRequest) (*project.EventList, error)
}

// IssueService defines issue operations needed by MCP.
type IssueService interface {
	Essentials(ctx context.Context, issueID string) (*issue.Summary, error)
	Comprehensive(ctx context.Context, issueID string) (*issue.Details, error)
	Analysis(ctx context.Context, issueID string) (*issue.Analysis, error)
	Trends(ctx context.Context, issueID string) (*issue.Trends, error)
	Recent(ctx context.Context, m project.Match, minutes int) (*issue.RecentIssues, error)
	Top(ctx context.Context, m project.Match, sort string, limit int) (*issue.TopIssues, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Resolver ProjectResolver
	Projects ProjectService
	Issues   IssueService
}

// Handler dispatches MCP tool calls.
type Handler struct {
	resolver ProjectResolver
	projects ProjectService
	issues   IssueService
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services) *Handler {
	return &Handler{
		resolver: services.Resolver,
		projects: services.Projects,
		issues:   services.Issues,
	}
}

// Handle dispatches a tool call to domain services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "get_project_health":
		var req ProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		m, err := h.resolver.Resolve(ctx, req.ProjectName)
		if err != nil {
			return nil, err
		}
		return h.projects.Health(ctx, *m)
	case "get_recent_issues":
		var req RecentIssuesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		m, err := h.resolver.Resolve(ctx, req.ProjectName)
		if err != nil {
			return nil, err
		}
		return h.issues.Recent(ctx, *m, req.TimeRangeMinutes)
	case "get_top_issues":
		var req TopIssuesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		m, err := h.resolver.Resolve(ctx, req.ProjectName)
		if err != nil {
			return nil, err
		}
		return h.issues.Top(ctx, *m, req.Sort, req.Limit)
	case "get_release_health":
		var req ReleaseHealthParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		m, err := h.resolver.Resolve(ctx, req.ProjectName)
		if err != nil {
			return nil, err
		}
		return h.projects.Releases(ctx, *m, req.Release)
	case "get_project_events":
		var req ProjectEventsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		m, err := h.resolver.Resolve(ctx, req.ProjectName)
		if err != nil {
			return nil, err
		}
		return h.projects.Events(ctx, *m, project.EventsRequest{
			Query:         req.Query,
			Limit:         req.Limit,
			WindowMinutes: req.TimeRangeMinutes,
			Transactions:  req.TransactionsOnly,
		})
	case "resolve_project":
		var req ProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.resolver.Resolve(ctx, req.ProjectName)
	case "get_issue_analysis":
		id, err := issueID(params)
		if err != nil {
			return nil, err
		}
		return h.issues.Analysis(ctx, id)
	case "get_issue_trends":
		id, err := issueID(params)
		if err != nil {
			return nil, err
		}
		return h.issues.Trends(ctx, id)
	case "get_issue_summary":
		id, err := issueID(params)
		if err != nil {
			return nil, err
		}
		return h.issues.Essentials(ctx, id)
	case "get_issue_details":
		id, err := issueID(params)
		if err != nil {
			return nil, err
		}
		return h.issues.Comprehensive(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

func issueID(params json.RawMessage) (string, error) {
	var req IssueParams
	if err := decodeParams(params, &req); err != nil {
		return "", err
	}
	return req.IssueID, nil
}
