package issue

import (
	"context"
	"time"

	"github.com/rpggio/sentry-mcp/internal/payload"
)

const (
	hourLayout = "2006-01-02 15:04:05"
	dayLayout  = "2006-01-02"
)

// Trends summarizes the 24h and 30d event series embedded in the issue.
func (s *Service) Trends(ctx context.Context, issueID string) (*Trends, error) {
	issue, err := s.details(ctx, issueID)
	if err != nil {
		return nil, err
	}

	stats := issue.Object("stats")
	hourly := summarizeSeries(payload.Points(stats.Get("24h")))
	daily := summarizeSeries(payload.Points(stats.Get("30d")))

	return &Trends{
		IssueID: issueID,
		Title:   issue.Get("title"),
		Hourly: HourlyTrend{
			TotalEvents: hourly.total,
			PeakHour:    s.formatPeak(hourly.peak, hourLayout),
			PeakEvents:  hourly.peak.Count,
			ActiveHours: hourly.active,
		},
		Daily: DailyTrend{
			TotalEvents: daily.total,
			PeakDay:     s.formatPeak(daily.peak, dayLayout),
			PeakEvents:  daily.peak.Count,
			ActiveDays:  daily.active,
		},
	}, nil
}

type seriesSummary struct {
	total  int64
	peak   payload.Point
	active int
}

// summarizeSeries totals a series and finds its first highest bucket.
// An empty series yields the zero summary.
func summarizeSeries(points []payload.Point) seriesSummary {
	var sum seriesSummary
	for i, p := range points {
		sum.total += p.Count
		if p.Count > 0 {
			sum.active++
		}
		if i == 0 || p.Count > sum.peak.Count {
			sum.peak = p
		}
	}
	return sum
}

func (s *Service) formatPeak(p payload.Point, layout string) *string {
	if p.Timestamp == 0 {
		return nil
	}
	formatted := time.Unix(p.Timestamp, 0).In(s.location).Format(layout)
	return &formatted
}
