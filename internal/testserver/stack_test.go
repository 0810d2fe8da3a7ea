package testserver_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/rpggio/sentry-mcp/internal/testserver"
	"github.com/stretchr/testify/require"
)

func TestStack_ProjectHealth(t *testing.T) {
	s := testserver.New(t)

	out := s.Call(t, "get_project_health", map[string]any{"project_name": "web"})
	require.Equal(t, "web-frontend", out["project_slug"])
	require.Equal(t, "Web Frontend", out["project_name"])
	require.Equal(t, "active", out["health_status"])
	require.Equal(t, "javascript", out["platform"])
	require.Equal(t, map[string]any{"version": "2.4.0"}, out["latestRelease"])
	require.Equal(t, float64(2), out["recent_issues_count"])
	require.Equal(t, float64(42), out["events_received_24h"])
	require.NotContains(t, out, "issues_error")
	require.Empty(t, s.API.Prompts())
}

func TestStack_ProjectListCachedAndPersisted(t *testing.T) {
	s := testserver.New(t)

	s.Call(t, "get_project_health", map[string]any{"project_name": "web-frontend"})
	s.Call(t, "resolve_project", map[string]any{"project_name": "Web"})
	require.Equal(t, 1, s.API.Hits(testserver.ProjectsPath))

	snap, err := s.Snapshots.LoadSnapshot(context.Background(), s.StoreKey)
	require.NoError(t, err)
	require.Len(t, snap.Projects, 3)
	require.Equal(t, "web-frontend", snap.Projects[0].Slug)
	require.True(t, snap.FetchedAt.Equal(testserver.Now))

	s.Cache.Invalidate()
	s.Call(t, "resolve_project", map[string]any{"project_name": "web"})
	require.Equal(t, 1, s.API.Hits(testserver.ProjectsPath), "fresh snapshot should be reused")
}

func TestStack_AmbiguousNameAsksModel(t *testing.T) {
	s := testserver.New(t)
	s.API.SetModelReply("api-worker")

	out := s.Call(t, "resolve_project", map[string]any{"project_name": "api"})
	require.Equal(t, map[string]any{"project_slug": "api-worker", "project_name": "API Worker"}, out)

	prompts := s.API.Prompts()
	require.Len(t, prompts, 1)
	require.Contains(t, prompts[0], "- API Gateway (slug: api-gateway)")
	require.Contains(t, prompts[0], "- API Worker (slug: api-worker)")
	require.NotContains(t, prompts[0], "web-frontend")
}

func TestStack_UnhelpfulModelFallsBackToFirstCandidate(t *testing.T) {
	s := testserver.New(t)
	s.API.SetModelReply("no idea")

	out := s.Call(t, "resolve_project", map[string]any{"project_name": "api"})
	require.Equal(t, "api-gateway", out["project_slug"])
}

func TestStack_RecentIssues(t *testing.T) {
	s := testserver.New(t)

	out := s.Call(t, "get_recent_issues", map[string]any{"project_name": "web"})
	require.Equal(t, float64(60), out["time_range_minutes"])
	require.Equal(t, "1 hours", out["time_range_display"])
	require.Equal(t, "recent", out["monitoring_type"])
	require.Equal(t, float64(1), out["issues_count"])
	require.Equal(t, []any{map[string]any{"issue_id": "101", "lastSeen": "2024-05-01T11:50:00Z"}}, out["issues"])

	out = s.Call(t, "get_recent_issues", map[string]any{"project_name": "web", "time_range_minutes": 240})
	require.Equal(t, "extended", out["monitoring_type"])
	require.Equal(t, "4 hours", out["time_range_display"])
	require.Equal(t, float64(2), out["issues_count"])
}

func TestStack_IssueTrends(t *testing.T) {
	s := testserver.New(t)

	out := s.Call(t, "get_issue_trends", map[string]any{"issue_id": "101"})
	require.Equal(t, "101", out["issue_id"])
	require.Equal(t, map[string]any{
		"total_events": float64(21),
		"peak_hour":    "2024-05-01 09:00:00",
		"peak_events":  float64(9),
		"active_hours": float64(3),
	}, out["24h_summary"])
	require.Equal(t, map[string]any{
		"total_events": float64(57),
		"peak_day":     "2024-04-25",
		"peak_events":  float64(37),
		"active_days":  float64(2),
	}, out["30d_summary"])
}

func TestStack_IssueAnalysis(t *testing.T) {
	s := testserver.New(t)

	out := s.Call(t, "get_issue_analysis", map[string]any{"issue_id": "101"})
	require.Equal(t, "WEB-1", out["shortId"])
	require.Equal(t, "high", out["priority"])
	require.Equal(t, "x is undefined", out["error_message"])
	require.Equal(t, "web@2.4.0", out["release_version_of_latest_issue"])
	require.Equal(t, float64(3), out["events_count"])
	require.Equal(t, map[string]any{"filename": "app/render.js", "function": "render", "error_type": "TypeError"}, out["metadata"])
}

func TestStack_IssueDetailsDegradePerSection(t *testing.T) {
	s := testserver.New(t)
	s.API.Respond(testserver.IssueHashesPath, http.StatusInternalServerError, `{"detail":"boom"}`)

	out := s.Call(t, "get_issue_details", map[string]any{"issue_id": "101"})
	require.Equal(t, []any{"latest_event", "events", "notes"}, out["available_data"])
	require.Equal(t, float64(1), out["notes_count"])
	require.NotContains(t, out, "hashes_count")
	require.Contains(t, out["hashes_summary"].(map[string]any)["error"], "HTTP 500")

	impact := out["user_impact_summary"].(map[string]any)
	require.Equal(t, float64(3), impact["total_events"])
	require.Equal(t, "t-1", impact["trace_id"])
	require.Equal(t, "ada@example.com", impact["user"].(map[string]any)["email"])
}

func TestStack_IssueSummary(t *testing.T) {
	s := testserver.New(t)

	out := s.Call(t, "get_issue_summary", map[string]any{"issue_id": "101"})
	require.Equal(t, "101", out["issue_id"])
	require.Equal(t, "web-frontend", out["project"])
	require.Equal(t, "x is undefined", out["latest_error_message"])
	require.Equal(t, "production", out["environment"])
	require.NotContains(t, out["user_info"], "email")
}

func TestStack_Errors(t *testing.T) {
	s := testserver.New(t)

	out := s.Call(t, "get_project_health", map[string]any{"project_name": "  "})
	require.Equal(t, map[string]any{"error": "name required"}, out)

	// api-gateway has no details fixture, so Sentry answers 404.
	out = s.Call(t, "get_project_health", map[string]any{"project_name": "api-gateway"})
	require.Contains(t, out["error"], "Failed to get project health: HTTP 404")
	require.Contains(t, out["error"], "(check the Sentry organization and project slug)")

	out = s.Call(t, "get_issue_trends", map[string]any{"issue_id": "999"})
	require.Contains(t, out["error"], "Failed to get issue trends: ")

	out = s.Call(t, "get_top_issues", map[string]any{"project_name": "web", "sort": "date"})
	require.Equal(t, `invalid input: sort must be "freq" or "users"`, out["error"])
}

func TestStack_ProjectListFailure(t *testing.T) {
	s := testserver.New(t)
	s.API.Respond(testserver.ProjectsPath, http.StatusBadGateway, `bad gateway`)

	out := s.Call(t, "resolve_project", map[string]any{"project_name": "web"})
	require.Contains(t, out["error"], "Failed to resolve project: refreshing project cache: HTTP 502")
}

func TestStack_TopIssues(t *testing.T) {
	s := testserver.New(t)

	out := s.Call(t, "get_top_issues", map[string]any{"project_name": "web", "sort": "users", "limit": 5})
	require.Equal(t, "users", out["sort_by"])
	require.Equal(t, float64(2), out["count"])
	first := out["issues"].([]any)[0].(map[string]any)
	require.Equal(t, "WEB-1", first["short_id"])
	require.Equal(t, float64(12), first["user_count"])
}
