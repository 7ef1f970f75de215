package dashboard

import (
	"context"
	"time"

	"github.com/bhardwajvivekkumar/JobSync/internal/applications"
)

// MonthCount is one bar of the Jan..Dec trend chart.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Engine derives the dashboard views from the application store. Each view
// is an independent grouping pass; the dashboard renders them as separate
// widgets, so there is no combined cube.
type Engine struct {
	Store applications.Store
}

func NewEngine(store applications.Store) *Engine {
	return &Engine{Store: store}
}

func (e *Engine) Count(ctx context.Context, userID string) (int, error) {
	return e.Store.CountByOwner(ctx, userID)
}

// TrendsByMonth always returns exactly 12 entries, Jan through Dec, with
// zero counts for empty months. Records from different years land in the
// same month bucket; the widget is a calendar-month chart, not a timeline.
func (e *Engine) TrendsByMonth(ctx context.Context, userID string) ([]MonthCount, error) {
	raw, err := e.Store.MonthlyCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	trends := make([]MonthCount, 12)
	for m := 1; m <= 12; m++ {
		trends[m-1] = MonthCount{
			Month: time.Month(m).String()[:3],
			Count: raw[m],
		}
	}
	return trends, nil
}

// PerDay maps appliedAt day (YYYY-MM-DD) to count. JSON object keys
// serialize sorted, which for this date format is ascending date order.
func (e *Engine) PerDay(ctx context.Context, userID string) (map[string]int, error) {
	days, err := e.Store.DailyCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int, len(days))
	for _, d := range days {
		out[d.Date] = d.Count
	}
	return out, nil
}

// ByStatus groups owned records by status; records without one are
// reported under "Unknown".
func (e *Engine) ByStatus(ctx context.Context, userID string) (map[string]int, error) {
	raw, err := e.Store.StatusCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int, len(raw))
	for status, n := range raw {
		if status == "" {
			status = "Unknown"
		}
		out[status] += n
	}
	return out, nil
}
