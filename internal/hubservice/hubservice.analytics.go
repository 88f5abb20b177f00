// FilePath: internal/hubservice/hubservice.analytics.go
package hubservice

import (
	"context"
	"fmt"

	"github.com/luzhub/luzhub/internal/models"
)

// Analytics summarizes transitions into the configured "empty" status:
// the weekday and hour-of-day on which modules most often run empty,
// plus the recent event history for the dashboard.
type Analytics struct {
	EmptyStatus  string                `json:"empty_status"`
	TotalEmpty   int                   `json:"total_empty"`
	CriticalDay  string                `json:"critical_day"`
	CriticalHour string                `json:"critical_hour"`
	Recent       []*models.StatusEvent `json:"recent"`
}

// EventAnalytics computes transition frequency aggregates over the
// whole event log. Plain counting, evaluated on demand.
func (s *HubService) EventAnalytics(ctx context.Context) (*Analytics, error) {
	events, err := s.Events.ListByNewStatus(ctx, s.analytics.EmptyStatus)
	if err != nil {
		return nil, err
	}

	days := make(map[string]int)
	hours := make(map[string]int)
	for _, e := range events {
		days[e.Timestamp.Weekday().String()]++
		hours[fmt.Sprintf("%dh", e.Timestamp.Hour())]++
	}

	recent, err := s.Events.List(ctx, s.analytics.RecentLimit)
	if err != nil {
		return nil, err
	}

	return &Analytics{
		EmptyStatus:  s.analytics.EmptyStatus,
		TotalEmpty:   len(events),
		CriticalDay:  mostFrequent(days),
		CriticalHour: mostFrequent(hours),
		Recent:       recent,
	}, nil
}

// ListEvents returns the event log ordered by recency.
func (s *HubService) ListEvents(ctx context.Context, limit int) ([]*models.StatusEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = s.analytics.RecentLimit
	}
	return s.Events.List(ctx, limit)
}

func mostFrequent(counts map[string]int) string {
	best := "-"
	bestCount := 0
	for key, count := range counts {
		if count > bestCount || (count == bestCount && key < best) {
			best = key
			bestCount = count
		}
	}
	return best
}
