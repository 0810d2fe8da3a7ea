package project

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/sentry-mcp/internal/payload"
	"github.com/rpggio/sentry-mcp/internal/sentry"
)

const unknown = "unknown"

// MaxEventLimit caps event searches.
const MaxEventLimit = 100

// Service builds project-level summaries.
type Service struct {
	gateway Gateway
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new project service.
func NewService(gateway Gateway, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{gateway: gateway, logger: logger, now: time.Now}
}

// Health reports project status, platform, latest release and recent issue volume.
// Failing to list issues does not fail the call; the count drops to zero and
// the failure is reported alongside.
func (s *Service) Health(ctx context.Context, m Match) (*Health, error) {
	details, err := s.gateway.ProjectDetails(ctx, m.Slug)
	if err != nil {
		return nil, err
	}

	health := &Health{
		ProjectName:   m.Name,
		ProjectSlug:   m.Slug,
		HealthStatus:  details.GetOr("status", unknown),
		Platform:      details.GetOr("platform", unknown),
		LatestRelease: details.GetOr("latestRelease", unknown),
	}

	issues, err := s.gateway.ProjectIssues(ctx, m.Slug, sentry.IssuesOptions{})
	if err != nil {
		s.logger.Warn("listing project issues for health", "project", m.Slug, "error", err)
		health.IssuesError = err.Error()
	} else {
		health.RecentIssuesCount = len(issues)
	}

	window := sentry.WindowEnding(s.now(), 24*time.Hour)
	stats, err := s.gateway.ProjectStats(ctx, m.Slug, sentry.StatsOptions{Window: &window})
	if err != nil {
		s.logger.Debug("project stats unavailable", "project", m.Slug, "error", err)
	} else {
		total := payload.Total(payload.Points(stats))
		health.EventsReceived24h = &total
	}

	return health, nil
}

// Releases lists releases, optionally filtered by a version query.
func (s *Service) Releases(ctx context.Context, m Match, query string) (*ReleaseList, error) {
	items, err := s.gateway.ReleaseHealth(ctx, m.Slug, query)
	if err != nil {
		return nil, err
	}

	releases := make([]Release, 0, len(items))
	for _, r := range items {
		if r == nil {
			continue
		}
		releases = append(releases, Release{
			Version:      r.Get("version"),
			ShortVersion: r.Get("shortVersion"),
			DateCreated:  r.Get("dateCreated"),
			DateReleased: r.Get("dateReleased"),
			FirstEvent:   r.Get("firstEvent"),
			LastEvent:    r.Get("lastEvent"),
			NewGroups:    r.Get("newGroups"),
		})
	}

	return &ReleaseList{
		ProjectName: m.Name,
		ProjectSlug: m.Slug,
		Query:       query,
		Count:       len(releases),
		Releases:    releases,
	}, nil
}

// EventsRequest describes an event search.
type EventsRequest struct {
	Query string
	Limit int
	// WindowMinutes restricts results to the trailing window; zero means the API default.
	WindowMinutes int
	Transactions  bool
}

// Events searches the project's events.
func (s *Service) Events(ctx context.Context, m Match, req EventsRequest) (*EventList, error) {
	if req.Limit < 0 || req.Limit > MaxEventLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxEventLimit)
	}
	if req.WindowMinutes < 0 {
		return nil, fmt.Errorf("%w: time_range_minutes must be positive", ErrInvalidInput)
	}

	opts := sentry.EventsOptions{Query: req.Query, Limit: req.Limit, Transactions: req.Transactions}
	if req.WindowMinutes > 0 {
		window := sentry.WindowEnding(s.now(), time.Duration(req.WindowMinutes)*time.Minute)
		opts.Window = &window
	}

	items, err := s.gateway.ProjectEvents(ctx, m.Slug, opts)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(items))
	for _, e := range items {
		if e == nil {
			continue
		}
		id := e.Get("eventID")
		if id == nil {
			id = e.Get("id")
		}
		events = append(events, Event{
			EventID:     id,
			Title:       e.Get("title"),
			Message:     e.Get("message"),
			DateCreated: e.Get("dateCreated"),
			Platform:    e.Get("platform"),
			Transaction: e.Get("transaction"),
		})
	}

	return &EventList{
		ProjectName:   m.Name,
		ProjectSlug:   m.Slug,
		Query:         req.Query,
		WindowMinutes: req.WindowMinutes,
		Count:         len(events),
		Events:        events,
	}, nil
}
