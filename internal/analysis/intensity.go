package analysis

import (
	"strings"

	"tricoach/internal/store"
)

// IntensityBand is a coarse effort classification used when an activity
// carries no direct power or pace signal.
type IntensityBand int

const (
	IntensityRecovery IntensityBand = iota
	IntensityEasy
	IntensityModerate
	IntensityTempo
	IntensityHard
	IntensityVeryHard
)

// String returns the band's wire name.
func (b IntensityBand) String() string {
	switch b {
	case IntensityRecovery:
		return "recovery"
	case IntensityEasy:
		return "easy"
	case IntensityModerate:
		return "moderate"
	case IntensityTempo:
		return "tempo"
	case IntensityHard:
		return "hard"
	default:
		return "very_hard"
	}
}

// IntensityEstimator infers how hard an activity was. Implementations are
// swappable strategies: a heart-rate based estimator, a title-keyword
// estimator, or a chain of both. The boolean reports whether the strategy
// had enough signal to produce an estimate.
type IntensityEstimator interface {
	EstimateIntensity(a store.Activity) (IntensityBand, bool)
}

// HRPercentEstimator classifies effort by average heart rate as a
// percentage of the athlete's max.
type HRPercentEstimator struct {
	MaxHR float64
}

// EstimateIntensity maps %max-HR to one of six bands.
func (e HRPercentEstimator) EstimateIntensity(a store.Activity) (IntensityBand, bool) {
	if e.MaxHR <= 0 || a.AverageHeartrate == nil || *a.AverageHeartrate <= 0 {
		return IntensityModerate, false
	}

	pct := *a.AverageHeartrate / e.MaxHR * 100
	switch {
	case pct < 60:
		return IntensityRecovery, true
	case pct < 70:
		return IntensityEasy, true
	case pct < 78:
		return IntensityModerate, true
	case pct < 85:
		return IntensityTempo, true
	case pct < 90:
		return IntensityHard, true
	default:
		return IntensityVeryHard, true
	}
}

// titleKeywords is checked in order; more specific efforts first so
// "easy tempo shakeout" lands in recovery rather than tempo.
var titleKeywords = []struct {
	band     IntensityBand
	keywords []string
}{
	{IntensityRecovery, []string{"recovery", "shakeout"}},
	{IntensityVeryHard, []string{"interval", "vo2", "track", "race", "sprint"}},
	{IntensityHard, []string{"threshold", "fartlek", "hill"}},
	{IntensityTempo, []string{"tempo", "steady"}},
	{IntensityEasy, []string{"easy", "z2"}},
	{IntensityModerate, []string{"long"}},
}

// TitleKeywordEstimator classifies effort from the workout title. It always
// produces an estimate, defaulting to moderate when no keyword matches.
type TitleKeywordEstimator struct{}

// EstimateIntensity matches the activity name against intensity keywords.
func (TitleKeywordEstimator) EstimateIntensity(a store.Activity) (IntensityBand, bool) {
	title := strings.ToLower(a.Name)
	for _, set := range titleKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(title, kw) {
				return set.band, true
			}
		}
	}
	return IntensityModerate, true
}

// ChainEstimator tries each strategy in order and returns the first
// estimate produced.
type ChainEstimator []IntensityEstimator

// EstimateIntensity delegates to the first strategy with enough signal.
func (c ChainEstimator) EstimateIntensity(a store.Activity) (IntensityBand, bool) {
	for _, e := range c {
		if band, ok := e.EstimateIntensity(a); ok {
			return band, true
		}
	}
	return IntensityModerate, false
}

// intensityMultipliers maps each band to a per-sport hourly TSS multiplier.
// Sports without their own table use the run table.
var intensityMultipliers = map[Sport][6]float64{
	SportRun:  {0.3, 0.5, 0.7, 0.85, 1.0, 1.2},
	SportBike: {0.25, 0.45, 0.65, 0.8, 0.95, 1.15},
	SportSwim: {0.35, 0.55, 0.75, 0.9, 1.05, 1.25},
}

// HeuristicScorer estimates TSS from inferred intensity bands instead of
// threshold ratios. It is NOT the canonical model: the pipeline scores with
// ThresholdScorer, and this scorer exists as the swappable strategy for
// contexts where no zones are configured at all.
type HeuristicScorer struct {
	Estimator IntensityEstimator
}

// NewHeuristicScorer creates a heuristic scorer with the default strategy
// chain: heart rate first, title keywords as the terminal fallback.
func NewHeuristicScorer(maxHR float64) *HeuristicScorer {
	return &HeuristicScorer{
		Estimator: ChainEstimator{
			HRPercentEstimator{MaxHR: maxHR},
			TitleKeywordEstimator{},
		},
	}
}

// Score computes TSS as duration_hours x 100 x band multiplier.
func (s *HeuristicScorer) Score(a store.Activity) float64 {
	if a.MovingTime <= 0 {
		return 0
	}

	band, ok := s.Estimator.EstimateIntensity(a)
	if !ok {
		band = IntensityModerate
	}

	sport := NormalizeSport(a.Type)
	table, found := intensityMultipliers[sport]
	if !found {
		table = intensityMultipliers[SportRun]
	}

	hours := float64(a.MovingTime) / 3600
	return hours * 100 * table[band]
}
