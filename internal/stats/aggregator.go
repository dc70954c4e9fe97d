// Package stats folds complaints into a point-in-time statistics snapshot.
package stats

import (
	"strings"
	"time"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

// Snapshot is the derived, unpersisted statistics view. Nil averages mean
// there was nothing to average.
type Snapshot struct {
	Total                int            `json:"total"`
	ByStatus             map[string]int `json:"by_status"`
	ByCategory           map[string]int `json:"by_category"`
	ByEntity             map[string]int `json:"by_entity"`
	AverageRating        *float64       `json:"average_rating"`
	RatedCount           int            `json:"rated_count"`
	AverageResponseHours *float64       `json:"average_response_hours"`
	RespondedCount       int            `json:"responded_count"`
	ThisWeek             int            `json:"reports_this_week"`
	ThisMonth            int            `json:"reports_this_month"`
	TotalEntities        int            `json:"total_entities"`
	GeneratedAt          time.Time      `json:"generated_at"`
}

// Aggregator accumulates complaints one at a time. It is not safe for
// concurrent use.
type Aggregator struct {
	total         int
	byStatus      map[string]int
	byCategory    map[string]int
	byEntity      map[string]int
	ratingSum     float64
	ratedCount    int
	responseHours float64
	responded     int
	thisWeek      int
	thisMonth     int

	now        time.Time
	weekStart  time.Time
	monthStart time.Time
}

// NewAggregator returns an empty fold taken at now. Weeks start on Monday
// and months on the first, both in UTC.
func NewAggregator(now time.Time) *Aggregator {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	sinceMonday := (int(day.Weekday()) + 6) % 7
	return &Aggregator{
		byStatus:   make(map[string]int),
		byCategory: make(map[string]int),
		byEntity:   make(map[string]int),
		now:        now,
		weekStart:  day.AddDate(0, 0, -sinceMonday),
		monthStart: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
}

// Add folds one complaint. Blank category or entity names and
// non-positive ratings count as absent.
func (a *Aggregator) Add(c *domain.Complaint) {
	a.total++
	a.byStatus[string(c.Status)]++

	if category := strings.TrimSpace(c.Category); category != "" {
		a.byCategory[category]++
	}
	if entity := strings.TrimSpace(c.EntityName); entity != "" {
		a.byEntity[entity]++
	}
	if !c.CreatedAt.Before(a.weekStart) {
		a.thisWeek++
	}
	if !c.CreatedAt.Before(a.monthStart) {
		a.thisMonth++
	}
	if c.Rating != nil && *c.Rating > 0 {
		a.ratingSum += float64(*c.Rating)
		a.ratedCount++
	}

	// complaints still in the initial state have not been worked on
	if c.Status != domain.InitialStatus && !c.CreatedAt.IsZero() && !c.UpdatedAt.Before(c.CreatedAt) {
		a.responseHours += c.UpdatedAt.Sub(c.CreatedAt).Hours()
		a.responded++
	}
}

// Snapshot returns the aggregate so far. The maps are copies.
func (a *Aggregator) Snapshot() Snapshot {
	s := Snapshot{
		Total:          a.total,
		ByStatus:       copyCounts(a.byStatus),
		ByCategory:     copyCounts(a.byCategory),
		ByEntity:       copyCounts(a.byEntity),
		RatedCount:     a.ratedCount,
		RespondedCount: a.responded,
		ThisWeek:       a.thisWeek,
		ThisMonth:      a.thisMonth,
		GeneratedAt:    a.now,
	}
	if a.ratedCount > 0 {
		avg := a.ratingSum / float64(a.ratedCount)
		s.AverageRating = &avg
	}
	if a.responded > 0 {
		avg := a.responseHours / float64(a.responded)
		s.AverageResponseHours = &avg
	}
	return s
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
