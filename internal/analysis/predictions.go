package analysis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoBestEfforts means no qualifying run exists to predict from.
	ErrNoBestEfforts = errors.New("no best efforts available for prediction")
	// ErrInvalidTargetTime means a goal time string could not be parsed.
	ErrInvalidTargetTime = errors.New("invalid target time")
)

// riegelExponent is the fatigue exponent of Riegel's endurance model.
const riegelExponent = 1.06

// RacePrediction is a projected race result with a confidence grade and,
// when a goal time is set, the probability of hitting it.
type RacePrediction struct {
	Race               RaceDistance
	PredictedSeconds   int
	Confidence         int // 0-100
	TargetSeconds      int // 0 when no goal time is set
	SuccessProbability int // 0-95, meaningful only when TargetSeconds > 0
	SourceRace         RaceDistance
	SourceSeconds      int
	ComputedAt         time.Time
}

// PredictRace projects a finishing time for the target race from the best
// effort at the closest available distance, then adjusts for current form.
// TSB is the athlete's training stress balance on race-prediction day.
func PredictRace(efforts map[RaceDistance]BestEffort, target RaceDistance, tsb float64, now time.Time) (RacePrediction, error) {
	targetKM, ok := RaceDistanceKM[target]
	if !ok {
		return RacePrediction{}, fmt.Errorf("unknown race distance %q", target)
	}
	if len(efforts) == 0 {
		return RacePrediction{}, ErrNoBestEfforts
	}

	// Bucket selection uses nominal race distances; the Riegel ratio uses
	// the effort's actual distance, which may sit anywhere in the bucket.
	source := closestEffort(efforts, targetKM)
	sourceKM := source.DistanceKM

	predicted := float64(source.Seconds) * math.Pow(targetKM/sourceKM, riegelExponent)
	predicted *= formAdjustment(tsb)

	return RacePrediction{
		Race:             target,
		PredictedSeconds: int(math.Round(predicted)),
		Confidence:       predictionConfidence(source.Race, target, targetKM/RaceDistanceKM[source.Race]),
		SourceRace:       source.Race,
		SourceSeconds:    source.Seconds,
		ComputedAt:       now,
	}, nil
}

// closestEffort picks the effort whose race distance is nearest the target
// on a log scale, so a 10K projects a half better than a 5K does.
func closestEffort(efforts map[RaceDistance]BestEffort, targetKM float64) BestEffort {
	var best BestEffort
	bestDiff := math.MaxFloat64
	for _, e := range efforts {
		diff := math.Abs(math.Log(RaceDistanceKM[e.Race] / targetKM))
		if diff < bestDiff {
			bestDiff = diff
			best = e
		}
	}
	return best
}

// predictionConfidence grades how trustworthy the extrapolation is based
// on the ratio between source and target distance.
func predictionConfidence(source, target RaceDistance, ratio float64) int {
	switch {
	case source == target:
		return 95
	case ratio >= 0.5 && ratio <= 2:
		return 85
	case ratio >= 0.3 && ratio <= 3:
		return 70
	default:
		return 50
	}
}

// formAdjustment scales a predicted time by current training stress
// balance. A fresh athlete races slightly faster than raw fitness
// suggests, a deeply fatigued one much slower.
func formAdjustment(tsb float64) float64 {
	switch {
	case tsb > 20:
		// Deep taper usually means lost fitness, small penalty.
		return 1.015
	case tsb > 5:
		return 1.0
	case tsb > -10:
		return 1.01
	case tsb > -30:
		return 1.04
	default:
		return 1.10
	}
}

// SuccessProbability estimates the chance of beating targetSeconds given
// the predicted time. The gap is the prediction's overshoot relative to
// the target: negative means predicted faster than the goal. Never
// returns more than 95; races are never certain.
func SuccessProbability(predictedSeconds, targetSeconds, confidence int) int {
	if predictedSeconds <= 0 || targetSeconds <= 0 {
		return 0
	}

	gap := float64(predictedSeconds-targetSeconds) / float64(targetSeconds) * 100

	var base int
	switch {
	case gap <= -10:
		base = 95
	case gap <= -5:
		base = 85
	case gap <= -2:
		base = 75
	case gap <= 0:
		base = 65
	case gap <= 2:
		base = 50
	case gap <= 5:
		base = 35
	case gap <= 10:
		base = 20
	default:
		base = 10
	}

	p := base * confidence / 100
	if p > 95 {
		p = 95
	}
	return p
}

// raceAliases maps free-form race names from config to canonical
// distances. Checked in order, most specific first, so "half marathon"
// resolves before the bare "marathon" substring does. Triathlon run legs
// map to their standalone run distance.
var raceAliases = []struct {
	alias string
	race  RaceDistance
}{
	{"half marathon", RaceHalf},
	{"half ironman", RaceHalf},
	{"70.3", RaceHalf},
	{"half", RaceHalf},
	{"140.6", RaceMarathon},
	{"ironman", RaceMarathon},
	{"marathon", RaceMarathon},
	{"full", RaceMarathon},
	{"10000", Race10K},
	{"10k", Race10K},
	{"olympic", Race10K},
	{"5000", Race5K},
	{"5k", Race5K},
	{"sprint", Race5K},
}

// NormalizeRaceType resolves a user-supplied race name to a canonical
// distance. Unrecognized names fall back to 10K.
func NormalizeRaceType(name string) RaceDistance {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, ra := range raceAliases {
		if strings.Contains(key, ra.alias) {
			return ra.race
		}
	}
	return Race10K
}

// ParseTargetTime parses "MM:SS" or "H:MM:SS" into seconds.
func ParseTargetTime(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTargetTime, s)
	}

	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTargetTime, s)
		}
		if i > 0 && n > 59 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTargetTime, s)
		}
		total = total*60 + n
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTargetTime, s)
	}
	return total, nil
}

// FormatDuration renders seconds as H:MM:SS, or MM:SS under an hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
