package issue

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/sentry-mcp/internal/domain/project"
	"github.com/rpggio/sentry-mcp/internal/sentry"
)

// DefaultWindowMinutes is used when no window is requested.
const DefaultWindowMinutes = 60

// Monitoring classifies a window and returns how many issues to fetch for it.
func Monitoring(minutes int) (string, int) {
	switch {
	case minutes <= 30:
		return MonitoringRealTime, 100
	case minutes <= 120:
		return MonitoringRecent, 75
	default:
		return MonitoringExtended, 50
	}
}

// WindowDisplay renders a window length for humans.
func WindowDisplay(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes%60 == 0:
		return fmt.Sprintf("%d hours", minutes/60)
	default:
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
}

// Recent lists issues of the project last seen within the trailing window.
// Issues whose lastSeen cannot be parsed are kept; issues without one are dropped.
func (s *Service) Recent(ctx context.Context, m project.Match, minutes int) (*RecentIssues, error) {
	if minutes == 0 {
		minutes = DefaultWindowMinutes
	}
	if minutes < 0 {
		return nil, fmt.Errorf("%w: time_range_minutes must be positive", ErrInvalidInput)
	}

	kind, limit := Monitoring(minutes)
	end := s.now().UTC()
	window := sentry.WindowEnding(end, time.Duration(minutes)*time.Minute)
	start := end.Add(-time.Duration(minutes) * time.Minute)

	s.logger.Debug("fetching recent issues",
		"project", m.Slug,
		"minutes", minutes,
		"monitoring_type", kind,
		"limit", limit)

	issues, err := s.gateway.ProjectIssues(ctx, m.Slug, sentry.IssuesOptions{Limit: limit, Window: &window})
	if err != nil {
		return nil, err
	}

	recent := make([]RecentIssue, 0, len(issues))
	for _, issue := range issues {
		if issue == nil {
			continue
		}
		lastSeen := issue.String("lastSeen")
		if lastSeen == "" {
			continue
		}
		seen, err := time.Parse(time.RFC3339Nano, lastSeen)
		if err != nil {
			s.logger.Warn("unparseable lastSeen, keeping issue", "issue_id", issue.Get("id"), "last_seen", lastSeen)
		} else if seen.Before(start) {
			continue
		}
		recent = append(recent, RecentIssue{IssueID: issue.Get("id"), LastSeen: issue.Get("lastSeen")})
	}

	s.logger.Debug("recent issues filtered", "project", m.Slug, "kept", len(recent), "fetched", len(issues))

	return &RecentIssues{
		ProjectName:      m.Name,
		ProjectSlug:      m.Slug,
		TimeRangeMinutes: minutes,
		TimeRangeDisplay: WindowDisplay(minutes),
		MonitoringType:   kind,
		IssuesCount:      len(recent),
		Issues:           recent,
	}, nil
}

// DefaultTopLimit is used when no limit is requested.
const DefaultTopLimit = 10

// MaxTopLimit caps ranked issue lists.
const MaxTopLimit = 100

// Top lists the project's issues of the last day ranked by sort
// (sentry.SortFrequency or sentry.SortUsers).
func (s *Service) Top(ctx context.Context, m project.Match, sort string, limit int) (*TopIssues, error) {
	if sort == "" {
		sort = sentry.SortFrequency
	}
	if sort != sentry.SortFrequency && sort != sentry.SortUsers {
		return nil, fmt.Errorf("%w: sort must be %q or %q", ErrInvalidInput, sentry.SortFrequency, sentry.SortUsers)
	}
	if limit == 0 {
		limit = DefaultTopLimit
	}
	if limit < 0 || limit > MaxTopLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxTopLimit)
	}

	window := sentry.WindowEnding(s.now(), 24*time.Hour)
	items, err := s.gateway.IssuesBySort(ctx, m.Slug, sort, sentry.IssuesOptions{Limit: limit, Window: &window})
	if err != nil {
		return nil, err
	}

	issues := make([]TopIssue, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		issues = append(issues, TopIssue{
			IssueID:   item.Get("id"),
			ShortID:   item.Get("shortId"),
			Title:     item.Get("title"),
			Level:     item.Get("level"),
			Count:     item.Get("count"),
			UserCount: item.Get("userCount"),
			LastSeen:  item.Get("lastSeen"),
		})
	}

	return &TopIssues{
		ProjectName: m.Name,
		ProjectSlug: m.Slug,
		SortBy:      sort,
		Count:       len(issues),
		Issues:      issues,
	}, nil
}
