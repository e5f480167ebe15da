package analysis

import (
	"math"

	"tricoach/internal/store"
)

// AthleteZones holds the per-sport thresholds the scorer normalizes against.
// Zones are always passed in explicitly; the engine never looks them up.
type AthleteZones struct {
	RunThresholdPace float64 // threshold running pace, seconds per km
	BikeFTP          float64 // functional threshold power, watts
	SwimCSSPace      float64 // critical swim speed pace, seconds per 100m
	MaxHR            float64 // bpm, optional
	RestingHR        float64 // bpm, optional
}

// NewZones creates AthleteZones from raw threshold values. Zero values mean
// "not configured" and degrade the scorer to its fallback estimate.
func NewZones(runThresholdPace, bikeFTP, swimCSSPace, maxHR, restingHR float64) AthleteZones {
	return AthleteZones{
		RunThresholdPace: runThresholdPace,
		BikeFTP:          bikeFTP,
		SwimCSSPace:      swimCSSPace,
		MaxHR:            maxHR,
		RestingHR:        restingHR,
	}
}

const (
	// Piecewise intensity-factor rule shared by run and swim scoring.
	// Below easyEffortRatio the intensity is clamped to a flat easy-effort
	// floor; above superThresholdRatio efforts faster than threshold are
	// scored super-linearly.
	easyEffortRatio     = 0.85
	superThresholdRatio = 1.05
	easyEffortIF        = 0.5

	// FallbackHourlyTSS is the moderate-effort estimate used when an
	// activity has no usable power or pace signal.
	FallbackHourlyTSS = 50.0
)

// Scorer assigns a training stress score to a single activity.
// Scores are non-negative; 0.0 means "unscoreable", not an error.
type Scorer interface {
	Score(a store.Activity) float64
}

// ThresholdScorer is the canonical TSS model: intensity factor squared
// against the athlete's per-sport threshold, scaled so one hour at
// threshold scores ~100. When the required signal or zone is absent it
// falls back to a flat moderate-effort estimate.
type ThresholdScorer struct {
	Zones AthleteZones
}

// NewThresholdScorer creates the canonical scorer for the given zones.
func NewThresholdScorer(zones AthleteZones) *ThresholdScorer {
	return &ThresholdScorer{Zones: zones}
}

// Score computes the training stress score for one activity.
func (s *ThresholdScorer) Score(a store.Activity) float64 {
	if a.MovingTime <= 0 {
		return 0
	}

	switch NormalizeSport(a.Type) {
	case SportBike:
		return s.bikeTSS(a)
	case SportRun:
		return s.runTSS(a)
	case SportSwim:
		return s.swimTSS(a)
	default:
		return fallbackTSS(a)
	}
}

// bikeTSS scores a ride from power and FTP. Normalized power is preferred
// over average power when both are present.
func (s *ThresholdScorer) bikeTSS(a store.Activity) float64 {
	var power float64
	if a.NormalizedPower != nil && *a.NormalizedPower > 0 {
		power = *a.NormalizedPower
	} else if a.AveragePower != nil && *a.AveragePower > 0 {
		power = *a.AveragePower
	}

	if power == 0 || s.Zones.BikeFTP <= 0 {
		return fallbackTSS(a)
	}

	hours := float64(a.MovingTime) / 3600
	intensity := power / s.Zones.BikeFTP
	return hours * intensity * intensity * 100
}

// runTSS scores a run from its average pace against the threshold pace.
// A nonpositive distance under a configured threshold is invalid input
// and scores exactly 0; an unconfigured threshold degrades to fallback.
func (s *ThresholdScorer) runTSS(a store.Activity) float64 {
	if s.Zones.RunThresholdPace <= 0 {
		return fallbackTSS(a)
	}
	if a.Distance <= 0 {
		return 0
	}

	pace := float64(a.MovingTime) / (a.Distance / 1000) // sec per km
	intensity := pacedIntensity(s.Zones.RunThresholdPace / pace)
	minutes := float64(a.MovingTime) / 60
	return minutes * intensity * intensity * 100 / 60
}

// swimTSS scores a swim from its pace per 100m against the critical swim
// speed pace, using the same piecewise rule as running.
func (s *ThresholdScorer) swimTSS(a store.Activity) float64 {
	if s.Zones.SwimCSSPace <= 0 {
		return fallbackTSS(a)
	}
	if a.Distance <= 0 {
		return 0
	}

	pace := float64(a.MovingTime) / (a.Distance / 100) // sec per 100m
	intensity := pacedIntensity(s.Zones.SwimCSSPace / pace)
	minutes := float64(a.MovingTime) / 60
	return minutes * intensity * intensity * 100 / 60
}

// pacedIntensity applies the piecewise intensity-factor rule to the ratio
// of threshold pace to actual pace (r > 1 means faster than threshold).
func pacedIntensity(r float64) float64 {
	switch {
	case r < easyEffortRatio:
		return easyEffortIF
	case r > superThresholdRatio:
		return math.Pow(r, 1.5)
	default:
		return r
	}
}

// fallbackTSS estimates a moderate-effort score from duration alone.
func fallbackTSS(a store.Activity) float64 {
	if a.MovingTime <= 0 {
		return 0
	}
	return float64(a.MovingTime) / 3600 * FallbackHourlyTSS
}
