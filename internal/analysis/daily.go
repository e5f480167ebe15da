package analysis

import (
	"sort"
	"time"

	"tricoach/internal/store"
)

// DailyLoad is one day of aggregated training stress. A dense daily series
// has exactly one entry per calendar day, including zero-stress rest days.
type DailyLoad struct {
	Date time.Time
	TSS  float64
}

const dateKeyFormat = "2006-01-02"

// DailyLoads buckets activities by calendar day, sums the per-day stress,
// and returns a dense zero-filled series of exactly `days` entries ending
// at `end` (inclusive). The input order doesn't matter; activities are
// sorted internally. The dense shape is mandatory for the performance
// management recurrence, which tolerates no gaps.
func DailyLoads(activities []store.Activity, scorer Scorer, end time.Time, days int) []DailyLoad {
	if days <= 0 {
		return nil
	}

	sorted := make([]store.Activity, len(activities))
	copy(sorted, activities)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartDateLocal.Before(sorted[j].StartDateLocal)
	})

	loadByDay := make(map[string]float64)
	for _, a := range sorted {
		loadByDay[a.StartDateLocal.Format(dateKeyFormat)] += scorer.Score(a)
	}

	endDay := dayOf(end)
	loads := make([]DailyLoad, 0, days)
	for d := endDay.AddDate(0, 0, -(days - 1)); !d.After(endDay); d = d.AddDate(0, 0, 1) {
		loads = append(loads, DailyLoad{
			Date: d,
			TSS:  loadByDay[d.Format(dateKeyFormat)], // 0 on rest days
		})
	}

	return loads
}

// dayOf truncates a time to midnight in its own location.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
