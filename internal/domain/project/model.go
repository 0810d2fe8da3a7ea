package project

import "time"

// Project is the subset of a Sentry project the resolver works with.
type Project struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Platform string `json:"platform,omitempty"`
}

// Match is the outcome of resolving a free-text project name.
type Match struct {
	Slug string `json:"project_slug"`
	Name string `json:"project_name"`
}

// Snapshot is a persisted copy of the organization's project list.
type Snapshot struct {
	Key       string
	Projects  []Project
	FetchedAt time.Time
}

// Health summarizes a project's state.
type Health struct {
	ProjectName       string `json:"project_name"`
	ProjectSlug       string `json:"project_slug"`
	HealthStatus      any    `json:"health_status"`
	Platform          any    `json:"platform"`
	LatestRelease     any    `json:"latestRelease"`
	RecentIssuesCount int    `json:"recent_issues_count"`
	EventsReceived24h *int64 `json:"events_received_24h,omitempty"`
	IssuesError       string `json:"issues_error,omitempty"`
}

// Release is one entry from the project's release list.
type Release struct {
	Version      any `json:"version"`
	ShortVersion any `json:"short_version"`
	DateCreated  any `json:"date_created"`
	DateReleased any `json:"date_released"`
	FirstEvent   any `json:"first_event"`
	LastEvent    any `json:"last_event"`
	NewGroups    any `json:"new_groups"`
}

// ReleaseList is the result of a release lookup.
type ReleaseList struct {
	ProjectName string    `json:"project_name"`
	ProjectSlug string    `json:"project_slug"`
	Query       string    `json:"query,omitempty"`
	Count       int       `json:"count"`
	Releases    []Release `json:"releases"`
}

// Event is a condensed project event.
type Event struct {
	EventID     any `json:"event_id"`
	Title       any `json:"title"`
	Message     any `json:"message"`
	DateCreated any `json:"date_created"`
	Platform    any `json:"platform"`
	Transaction any `json:"transaction,omitempty"`
}

// EventList is the result of an event search.
type EventList struct {
	ProjectName   string  `json:"project_name"`
	ProjectSlug   string  `json:"project_slug"`
	Query         string  `json:"query,omitempty"`
	WindowMinutes int     `json:"time_range_minutes,omitempty"`
	Count         int     `json:"count"`
	Events        []Event `json:"events"`
}
