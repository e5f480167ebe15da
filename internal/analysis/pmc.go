package analysis

import (
	"math"
	"time"

	"tricoach/internal/store"
)

// TrainingMetrics is one day of the performance management series.
// TSB is always CTL minus ATL; it is derived, never stored independently.
type TrainingMetrics struct {
	Date     time.Time
	TSS      float64
	CTL      float64 // chronic training load ("fitness")
	ATL      float64 // acute training load ("fatigue")
	TSB      float64 // training stress balance ("form")
	RampRate float64 // CTL change over the trailing short window
}

// PMCOptions configures the performance management recurrence.
// WarmupDays extends the computed window before the reporting range so the
// exponential averages have settled by day one; without it the early days
// under-report fitness. That extension is a correctness requirement, not
// an optimization, which is why it lives here and not in caller convention.
type PMCOptions struct {
	LTSDays    int // long time constant, fitness
	STSDays    int // short time constant, fatigue
	WarmupDays int
}

// DefaultPMCOptions returns the standard 42/7 day constants with a 56-day
// warmup window.
func DefaultPMCOptions() PMCOptions {
	return PMCOptions{LTSDays: 42, STSDays: 7, WarmupDays: 56}
}

func (o PMCOptions) withDefaults() PMCOptions {
	d := DefaultPMCOptions()
	if o.LTSDays <= 0 {
		o.LTSDays = d.LTSDays
	}
	if o.STSDays <= 0 {
		o.STSDays = d.STSDays
	}
	if o.WarmupDays < 0 {
		o.WarmupDays = d.WarmupDays
	}
	return o
}

// CalculatePMC runs the fitness/fatigue recurrence over a dense daily
// series. Both averages use exponential decay e^(-1/N) and are seeded at
// zero. An empty input yields an empty result; the function never fails.
func CalculatePMC(loads []DailyLoad, opts PMCOptions) []TrainingMetrics {
	if len(loads) == 0 {
		return nil
	}
	opts = opts.withDefaults()

	lte := math.Exp(-1.0 / float64(opts.LTSDays))
	ste := math.Exp(-1.0 / float64(opts.STSDays))

	metrics := make([]TrainingMetrics, len(loads))
	var ctl, atl float64
	for i, dl := range loads {
		ctl = dl.TSS*(1-lte) + ctl*lte
		atl = dl.TSS*(1-ste) + atl*ste
		metrics[i] = TrainingMetrics{
			Date: dl.Date,
			TSS:  dl.TSS,
			CTL:  ctl,
			ATL:  atl,
			TSB:  ctl - atl,
		}
	}

	// Ramp rate: sum of day-over-day CTL deltas across the trailing short
	// window, or all deltas since the zero seed near the start.
	for i := range metrics {
		if i >= opts.STSDays {
			metrics[i].RampRate = metrics[i].CTL - metrics[i-opts.STSDays].CTL
		} else {
			metrics[i].RampRate = metrics[i].CTL
		}
	}

	return metrics
}

// TrainingLoadSeries computes the daily metrics for a reporting window of
// `days` days ending at `end`, extending the computation by WarmupDays so
// the recurrence has warmed up before the first reported day. Only the
// reporting range is returned.
func TrainingLoadSeries(activities []store.Activity, scorer Scorer, end time.Time, days int, opts PMCOptions) []TrainingMetrics {
	if days <= 0 {
		return nil
	}
	opts = opts.withDefaults()

	loads := DailyLoads(activities, scorer, end, days+opts.WarmupDays)
	series := CalculatePMC(loads, opts)
	if len(series) > days {
		series = series[len(series)-days:]
	}
	return series
}

// CurrentMetrics returns the most recent day with nonzero fitness,
// scanning backward from the end of the series. Trailing rest days carry
// decayed-but-unreported load, so "current" is deliberately not the final
// index. The boolean is false when the whole series is zero.
func CurrentMetrics(series []TrainingMetrics) (TrainingMetrics, bool) {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].CTL > 0 {
			return series[i], true
		}
	}
	return TrainingMetrics{}, false
}

// FormDescription interprets a TSB value. This is the single threshold
// table used everywhere form is shown.
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "Peaked - very fresh, race ready (or detraining)"
	case tsb > 5:
		return "Fresh - good day for a hard effort"
	case tsb > -10:
		return "Neutral - absorbing training"
	case tsb > -30:
		return "Fatigued - productive overload"
	default:
		return "High risk - overreached, recovery needed"
	}
}
