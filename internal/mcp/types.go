package mcp

type ProjectParams struct {
	ProjectName string `json:"project_name"`
}

type RecentIssuesParams struct {
	ProjectName      string `json:"project_name"`
	TimeRangeMinutes int    `json:"time_range_minutes,omitempty"`
}

type IssueParams struct {
	IssueID string `json:"issue_id"`
}

type TopIssuesParams struct {
	ProjectName string `json:"project_name"`
	Sort        string `json:"sort,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

type ReleaseHealthParams struct {
	ProjectName string `json:"project_name"`
	Release     string `json:"release,omitempty"`
}

type ProjectEventsParams struct {
	ProjectName      string `json:"project_name"`
	Query            string `json:"query,omitempty"`
	Limit            int    `json:"limit,omitempty"`
	TimeRangeMinutes int    `json:"time_range_minutes,omitempty"`
	TransactionsOnly bool   `json:"transactions_only,omitempty"`
}

// ErrorResponse is the body of every failed tool call.
type ErrorResponse struct {
	Error string `json:"error"`
}
