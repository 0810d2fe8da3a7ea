package issue

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/sentry-mcp/internal/payload"
)

// EventPageSize is how many events are read when counting an issue's events.
const EventPageSize = 100

// Service builds issue summaries from raw Sentry payloads.
type Service struct {
	gateway  Gateway
	logger   *slog.Logger
	now      func() time.Time
	location *time.Location
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the wall clock used for time windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone trend peaks are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

// NewService creates a new issue service.
func NewService(gateway Gateway, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{gateway: gateway, logger: logger, now: time.Now, location: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) details(ctx context.Context, issueID string) (payload.Object, error) {
	if strings.TrimSpace(issueID) == "" {
		return nil, ErrIssueIDRequired
	}
	return s.gateway.IssueDetails(ctx, issueID)
}

// Essentials returns the compact summary of an issue. Fields from the latest
// event are added when it can be read and carries a message.
func (s *Service) Essentials(ctx context.Context, issueID string) (*Summary, error) {
	issue, err := s.details(ctx, issueID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		IssueID:             issueID,
		Title:               issue.Get("title"),
		Culprit:             issue.Get("culprit"),
		Level:               issue.Get("level"),
		Status:              issue.Get("status"),
		Type:                issue.Get("type"),
		Project:             projectSlug(issue),
		LastSeen:            issue.Get("lastSeen"),
		FirstSeen:           issue.Get("firstSeen"),
		TotalOccurrences:    issue.Get("count"),
		UniqueUsersAffected: issue.Get("userCount"),
		Permalink:           issue.Get("permalink"),
	}

	latest, err := s.gateway.IssueLatestEvent(ctx, issueID)
	if err != nil {
		s.logger.Warn("latest event unavailable", "issue_id", issueID, "error", err)
		return summary, nil
	}
	if latest.Has("message") {
		summary.LatestError = &LatestError{
			Message:     latest.Get("message"),
			Platform:    latest.Get("platform"),
			Environment: latest.Get("environment"),
		}
		if user := userEntry(latest); user != nil {
			summary.LatestError.UserInfo = &UserInfo{
				ID:        user.Get("id"),
				Username:  user.Get("username"),
				IPAddress: user.Get("ip_address"),
			}
		}
	}
	return summary, nil
}

// Comprehensive returns the full view of an issue. The latest event, events,
// notes and hashes are fetched independently; a failure in one is reported
// in its own section and does not affect the others.
func (s *Service) Comprehensive(ctx context.Context, issueID string) (*Details, error) {
	issue, err := s.details(ctx, issueID)
	if err != nil {
		return nil, err
	}

	d := &Details{
		BasicDetails: BasicDetails{
			ID:          issue.Get("id"),
			ShortID:     issue.Get("shortId"),
			Title:       issue.Get("title"),
			Culprit:     issue.Get("culprit"),
			Permalink:   issue.Get("permalink"),
			Level:       issue.Get("level"),
			Status:      issue.Get("status"),
			Type:        issue.Get("type"),
			NumComments: issue.Get("numComments"),
			AssignedTo:  issue.Get("assignedTo"),
			Project:     projectSlug(issue),
			LastSeen:    issue.Get("lastSeen"),
			FirstSeen:   issue.Get("firstSeen"),
			Count:       issue.Get("count"),
			UserCount:   issue.Get("userCount"),
		},
		AvailableData: []string{},
	}

	if latest, err := s.gateway.IssueLatestEvent(ctx, issueID); err != nil {
		s.logger.Warn("latest event unavailable", "issue_id", issueID, "error", err)
		d.LatestEventSummary.Error = err.Error()
	} else if latest.Has("id") {
		d.LatestEventSummary = EventSummary{
			EventID:     latest.Get("id"),
			Message:     latest.Get("message"),
			Platform:    latest.Get("platform"),
			Environment: latest.Get("environment"),
			Release:     latest.Get("release"),
			Dist:        latest.Get("dist"),
			Timestamp:   latest.Get("timestamp"),
			Size:        latest.Get("size"),
		}
		d.AvailableData = append(d.AvailableData, "latest_event")
		d.UserImpactSummary = userImpact(latest)
	}

	if events, err := s.gateway.IssueEvents(ctx, issueID, EventPageSize); err != nil {
		s.logger.Warn("issue events unavailable", "issue_id", issueID, "error", err)
		d.EventsSummary = &SectionError{Error: err.Error()}
	} else {
		n := len(events)
		d.UserImpactSummary.TotalEvents = &n
		d.AvailableData = append(d.AvailableData, "events")
	}

	if notes, err := s.gateway.IssueNotes(ctx, issueID); err != nil {
		s.logger.Warn("issue notes unavailable", "issue_id", issueID, "error", err)
		d.NotesSummary = &SectionError{Error: err.Error()}
	} else {
		n := len(notes)
		d.NotesCount = &n
		d.AvailableData = append(d.AvailableData, "notes")
	}

	if hashes, err := s.gateway.IssueHashes(ctx, issueID); err != nil {
		s.logger.Warn("issue hashes unavailable", "issue_id", issueID, "error", err)
		d.HashesSummary = &SectionError{Error: err.Error()}
	} else {
		n := len(hashes)
		d.HashesCount = &n
		d.AvailableData = append(d.AvailableData, "hashes")
	}

	return d, nil
}

// Analysis returns the triage view of an issue: its details, the latest
// error message and release, and how many events a single page holds.
func (s *Service) Analysis(ctx context.Context, issueID string) (*Analysis, error) {
	issue, err := s.details(ctx, issueID)
	if err != nil {
		return nil, err
	}

	events, err := s.gateway.IssueEvents(ctx, issueID, EventPageSize)
	if err != nil {
		return nil, err
	}

	meta := issue.Object("metadata")
	a := &Analysis{
		IssueID:    issueID,
		ShortID:    issue.Get("shortId"),
		Title:      issue.Get("title"),
		Culprit:    issue.Get("culprit"),
		Level:      issue.Get("level"),
		Status:     issue.Get("status"),
		Priority:   issue.Get("priority"),
		Count:      issue.Get("count"),
		UserCount:  issue.Get("userCount"),
		FirstSeen:  issue.Get("firstSeen"),
		LastSeen:   issue.Get("lastSeen"),
		AssignedTo: issue.Get("assignedTo"),
		Permalink:  issue.Get("permalink"),
		Metadata: Metadata{
			Filename:  meta.Get("filename"),
			Function:  meta.Get("function"),
			ErrorType: meta.Get("type"),
		},
		EventsCount: len(events),
	}

	latest, err := s.gateway.IssueLatestEvent(ctx, issueID)
	if err != nil {
		s.logger.Warn("latest event unavailable", "issue_id", issueID, "error", err)
		return a, nil
	}
	a.ErrorMessage = latest.Get("message")
	a.ReleaseVersion = latest.Object("release").Get("version")
	return a, nil
}

func projectSlug(issue payload.Object) any {
	proj := issue.Object("project")
	if proj == nil {
		return nil
	}
	return proj.Get("slug")
}

// userEntry returns the data of the first "user" entry of an event.
func userEntry(event payload.Object) payload.Object {
	for _, raw := range event.Slice("entries") {
		entry, ok := payload.AsObject(raw)
		if !ok || entry.String("type") != "user" {
			continue
		}
		data := entry.Object("data")
		if data == nil {
			data = payload.Object{}
		}
		return data
	}
	return nil
}

func userImpact(event payload.Object) UserImpact {
	var impact UserImpact
	if user := userEntry(event); user != nil {
		impact.User = &UserInfo{
			ID:        user.Get("id"),
			Username:  user.Get("username"),
			Email:     user.Get("email"),
			IPAddress: user.Get("ip_address"),
		}
	}

	contexts := event.Object("contexts")
	if geo := contexts.Object("geo"); geo != nil {
		impact.GeoLocation = &Geo{
			Country: geo.Get("country_code"),
			City:    geo.Get("city"),
			Region:  geo.Get("region"),
		}
	}
	if browser := contexts.Object("browser"); browser != nil {
		impact.Browser = &NameVersion{Name: browser.Get("name"), Version: browser.Get("version")}
	}
	if runtime := contexts.Object("runtime"); runtime != nil {
		impact.Runtime = &NameVersion{Name: runtime.Get("name"), Version: runtime.Get("version")}
	}
	impact.TraceID = contexts.Object("trace").Get("trace_id")
	return impact
}
