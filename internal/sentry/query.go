package sentry

import "time"

// Stats periods accepted by the issues endpoint.
const (
	StatsPeriod24h       = "24h"
	StatsPeriod14d       = "14d"
	StatsPeriodUnlimited = ""
)

// Window is a time range in UNIX epoch seconds.
type Window struct {
	Since int64
	Until int64
}

// WindowEnding returns the window of length d that ends at end.
func WindowEnding(end time.Time, d time.Duration) Window {
	return Window{Since: end.Add(-d).Unix(), Until: end.Unix()}
}

// Start returns the beginning of the window.
func (w Window) Start() time.Time {
	return time.Unix(w.Since, 0).UTC()
}

// StatsPeriod picks the server-side aggregation window covering w.
// A nil window means "last day".
func StatsPeriod(w *Window) string {
	if w == nil || w.Since == 0 || w.Until == 0 {
		return StatsPeriod24h
	}
	hours := (w.Until - w.Since) / 3600
	switch {
	case hours <= 24:
		return StatsPeriod24h
	case hours <= 336:
		return StatsPeriod14d
	default:
		return StatsPeriodUnlimited
	}
}

// IssuesOptions narrows an issue listing.
type IssuesOptions struct {
	Limit  int
	Window *Window
}

// EventsOptions narrows a project event listing.
type EventsOptions struct {
	Query  string
	Limit  int
	Window *Window
	// Transactions restricts the listing to performance transactions,
	// newest first.
	Transactions bool
}

// StatsOptions selects a project stats series.
type StatsOptions struct {
	Stat   string
	Window *Window
}

const defaultLimit = 100

type issuesParams struct {
	Limit       int    `url:"limit"`
	StatsPeriod string `url:"statsPeriod"`
}

type sortedIssuesParams struct {
	Limit       int    `url:"limit"`
	Sort        string `url:"sort"`
	StatsPeriod string `url:"statsPeriod"`
	Since       int64  `url:"since,omitempty"`
	Until       int64  `url:"until,omitempty"`
}

type eventsParams struct {
	Limit int    `url:"limit"`
	Query string `url:"query,omitempty"`
	Since int64  `url:"since,omitempty"`
	Until int64  `url:"until,omitempty"`
	Field string `url:"field,omitempty"`
	Sort  string `url:"sort,omitempty"`
}

type statsParams struct {
	Stat  string `url:"stat"`
	Since int64  `url:"since,omitempty"`
	Until int64  `url:"until,omitempty"`
}

type limitParams struct {
	Limit int `url:"limit"`
}

type releaseParams struct {
	Query string `url:"query,omitempty"`
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

func (w *Window) bounds() (int64, int64) {
	if w == nil {
		return 0, 0
	}
	return w.Since, w.Until
}
