package issue

// UserInfo identifies the user attached to an event.
type UserInfo struct {
	ID        any `json:"id"`
	Username  any `json:"username"`
	Email     any `json:"email,omitempty"`
	IPAddress any `json:"ip_address"`
}

// LatestError carries fields lifted from the most recent event.
type LatestError struct {
	Message     any       `json:"latest_error_message"`
	Platform    any       `json:"platform"`
	Environment any       `json:"environment"`
	UserInfo    *UserInfo `json:"user_info,omitempty"`
}

// Summary is the compact view of an issue.
type Summary struct {
	IssueID             string `json:"issue_id"`
	Title               any    `json:"title"`
	Culprit             any    `json:"culprit"`
	Level               any    `json:"level"`
	Status              any    `json:"status"`
	Type                any    `json:"type"`
	Project             any    `json:"project"`
	LastSeen            any    `json:"last_seen"`
	FirstSeen           any    `json:"first_seen"`
	TotalOccurrences    any    `json:"total_occurrences"`
	UniqueUsersAffected any    `json:"unique_users_affected"`
	Permalink           any    `json:"permalink"`
	*LatestError
}

// BasicDetails mirrors the issue's own fields.
type BasicDetails struct {
	ID          any `json:"id"`
	ShortID     any `json:"shortId"`
	Title       any `json:"title"`
	Culprit     any `json:"culprit"`
	Permalink   any `json:"permalink"`
	Level       any `json:"level"`
	Status      any `json:"status"`
	Type        any `json:"type"`
	NumComments any `json:"numComments"`
	AssignedTo  any `json:"assignedTo"`
	Project     any `json:"project"`
	LastSeen    any `json:"lastSeen"`
	FirstSeen   any `json:"firstSeen"`
	Count       any `json:"count"`
	UserCount   any `json:"userCount"`
}

// EventSummary describes the latest event, or why it could not be read.
type EventSummary struct {
	EventID     any    `json:"event_id,omitempty"`
	Message     any    `json:"message,omitempty"`
	Platform    any    `json:"platform,omitempty"`
	Environment any    `json:"environment,omitempty"`
	Release     any    `json:"release,omitempty"`
	Dist        any    `json:"dist,omitempty"`
	Timestamp   any    `json:"timestamp,omitempty"`
	Size        any    `json:"size,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Geo is the location context of an event.
type Geo struct {
	Country any `json:"country"`
	City    any `json:"city"`
	Region  any `json:"region"`
}

// NameVersion is a browser or runtime context.
type NameVersion struct {
	Name    any `json:"name"`
	Version any `json:"version"`
}

// UserImpact collects who and where an issue hit.
type UserImpact struct {
	User        *UserInfo    `json:"user,omitempty"`
	GeoLocation *Geo         `json:"geo_location,omitempty"`
	Browser     *NameVersion `json:"browser,omitempty"`
	Runtime     *NameVersion `json:"runtime,omitempty"`
	TraceID     any          `json:"trace_id,omitempty"`
	TotalEvents *int         `json:"total_events,omitempty"`
}

// SectionError reports a sub-fetch that failed without failing the summary.
type SectionError struct {
	Error string `json:"error"`
}

// Details is the comprehensive view of an issue.
type Details struct {
	BasicDetails       BasicDetails  `json:"basic_details"`
	LatestEventSummary EventSummary  `json:"latest_event_summary"`
	UserImpactSummary  UserImpact    `json:"user_impact_summary"`
	AvailableData      []string      `json:"available_data"`
	NotesCount         *int          `json:"notes_count,omitempty"`
	HashesCount        *int          `json:"hashes_count,omitempty"`
	EventsSummary      *SectionError `json:"events_summary,omitempty"`
	NotesSummary       *SectionError `json:"notes_summary,omitempty"`
	HashesSummary      *SectionError `json:"hashes_summary,omitempty"`
}

// Metadata is the exception location recorded on an issue.
type Metadata struct {
	Filename  any `json:"filename"`
	Function  any `json:"function"`
	ErrorType any `json:"error_type"`
}

// Analysis is the triage view of an issue.
type Analysis struct {
	IssueID        string   `json:"issue_id"`
	ShortID        any      `json:"shortId"`
	Title          any      `json:"title"`
	Culprit        any      `json:"culprit"`
	Level          any      `json:"level"`
	Status         any      `json:"status"`
	Priority       any      `json:"priority"`
	Count          any      `json:"count"`
	UserCount      any      `json:"userCount"`
	FirstSeen      any      `json:"firstSeen"`
	LastSeen       any      `json:"lastSeen"`
	AssignedTo     any      `json:"assignedTo"`
	Permalink      any      `json:"permalink"`
	Metadata       Metadata `json:"metadata"`
	ErrorMessage   any      `json:"error_message"`
	EventsCount    int      `json:"events_count"`
	ReleaseVersion any      `json:"release_version_of_latest_issue"`
}

// HourlyTrend summarizes the 24h series.
type HourlyTrend struct {
	TotalEvents int64   `json:"total_events"`
	PeakHour    *string `json:"peak_hour"`
	PeakEvents  int64   `json:"peak_events"`
	ActiveHours int     `json:"active_hours"`
}

// DailyTrend summarizes the 30d series.
type DailyTrend struct {
	TotalEvents int64   `json:"total_events"`
	PeakDay     *string `json:"peak_day"`
	PeakEvents  int64   `json:"peak_events"`
	ActiveDays  int     `json:"active_days"`
}

// Trends is the event volume of an issue over the last day and month.
type Trends struct {
	IssueID string      `json:"issue_id"`
	Title   any         `json:"title"`
	Hourly  HourlyTrend `json:"24h_summary"`
	Daily   DailyTrend  `json:"30d_summary"`
}

// Monitoring types, chosen by the requested window.
const (
	MonitoringRealTime = "real-time"
	MonitoringRecent   = "recent"
	MonitoringExtended = "extended"
)

// RecentIssue is an issue seen inside the requested window.
type RecentIssue struct {
	IssueID  any `json:"issue_id"`
	LastSeen any `json:"lastSeen"`
}

// RecentIssues is the result of a recent-issues query.
type RecentIssues struct {
	ProjectName      string        `json:"project_name"`
	ProjectSlug      string        `json:"project_slug"`
	TimeRangeMinutes int           `json:"time_range_minutes"`
	TimeRangeDisplay string        `json:"time_range_display"`
	MonitoringType   string        `json:"monitoring_type"`
	IssuesCount      int           `json:"issues_count"`
	Issues           []RecentIssue `json:"issues"`
}

// TopIssue is one entry of a ranked issue list.
type TopIssue struct {
	IssueID   any `json:"issue_id"`
	ShortID   any `json:"short_id"`
	Title     any `json:"title"`
	Level     any `json:"level"`
	Count     any `json:"count"`
	UserCount any `json:"user_count"`
	LastSeen  any `json:"last_seen"`
}

// TopIssues is a ranked issue list.
type TopIssues struct {
	ProjectName string     `json:"project_name"`
	ProjectSlug string     `json:"project_slug"`
	SortBy      string     `json:"sort_by"`
	Count       int        `json:"count"`
	Issues      []TopIssue `json:"issues"`
}
