package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tricoach/internal/store"
)

// IndicatorType identifies which fatigue heuristic fired.
type IndicatorType string

const (
	IndicatorHRDrift       IndicatorType = "hr_drift"
	IndicatorChronicHighHR IndicatorType = "chronic_high_hr"
	IndicatorPaceDecline   IndicatorType = "pace_decline"
	IndicatorNoRest        IndicatorType = "no_rest"
)

// Severity grades a fatigue indicator.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

// String returns the severity's wire name.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	default:
		return "high"
	}
}

// severityWeights are the contribution of each severity to the combined
// fatigue score.
var severityWeights = map[Severity]int{
	SeverityLow:    15,
	SeverityMedium: 30,
	SeverityHigh:   50,
}

// FatigueIndicator is one detected fatigue signal. Indicators are produced
// fresh on every analysis call; deduplication across calls is the store's
// responsibility.
type FatigueIndicator struct {
	Type           IndicatorType
	Severity       Severity
	Description    string
	Recommendation string
	DetectedDate   time.Time
}

// FatigueReport combines all detected indicators into one score and level.
type FatigueReport struct {
	Indicators        []FatigueIndicator
	Score             int    // 0-100
	Level             string // low, moderate, high, severe
	NeedsRecoveryWeek bool
	Recommendations   []string
}

const (
	hrDriftBaselineDays = 28
	hrDriftRecentDays   = 7
	hrDriftThresholdBPM = 5.0
	chronicHighHRRatio  = 0.75
	chronicStreakMin    = 3
	paceDeclineWindow   = 14
	paceDeclineSecPerKm = 9.0
	equalEffortBPM      = 5.0
	noRestMediumDays    = 7
	noRestHighDays      = 10
)

// recommendations by indicator type. An indicator's presence always adds
// its recommendation, independent of the combined score.
var indicatorRecommendations = map[IndicatorType]string{
	IndicatorHRDrift:       "Cut intensity for 2-3 days and watch morning heart rate",
	IndicatorChronicHighHR: "Prioritize sleep and keep all efforts strictly aerobic",
	IndicatorPaceDecline:   "Swap the next quality session for an easy day",
	IndicatorNoRest:        "Take a full rest day",
}

// DetectFatigue runs the four fatigue heuristics over the activity history
// and combines the results. `today` anchors all trailing windows and must
// be injected by the caller for determinism.
func DetectFatigue(activities []store.Activity, zones AthleteZones, today time.Time) FatigueReport {
	sorted := make([]store.Activity, len(activities))
	copy(sorted, activities)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartDateLocal.Before(sorted[j].StartDateLocal)
	})

	var indicators []FatigueIndicator
	if ind := detectHRDrift(sorted, today); ind != nil {
		indicators = append(indicators, *ind)
	}
	if ind := detectChronicHighHR(sorted, zones, today); ind != nil {
		indicators = append(indicators, *ind)
	}
	if ind := detectPaceDecline(sorted, today); ind != nil {
		indicators = append(indicators, *ind)
	}

	restStreak := consecutiveTrainingDays(sorted, today)
	if ind := noRestIndicator(restStreak, today); ind != nil {
		indicators = append(indicators, *ind)
	}

	return buildReport(indicators, restStreak)
}

func buildReport(indicators []FatigueIndicator, restStreak int) FatigueReport {
	score := 0
	anyHigh := false
	var recommendations []string
	for _, ind := range indicators {
		score += severityWeights[ind.Severity]
		if ind.Severity == SeverityHigh {
			anyHigh = true
		}
		recommendations = append(recommendations, ind.Recommendation)
	}
	if score > 100 {
		score = 100
	}

	var level string
	switch {
	case score < 20:
		level = "low"
	case score < 50:
		level = "moderate"
	case score < 75:
		level = "high"
	default:
		level = "severe"
	}

	return FatigueReport{
		Indicators:        indicators,
		Score:             score,
		Level:             level,
		NeedsRecoveryWeek: score >= 50 || anyHigh || restStreak >= noRestHighDays,
		Recommendations:   recommendations,
	}
}

// detectHRDrift compares recent average heart rates against a 28-day
// per-sport baseline. Run and bike baselines are kept separate; each
// elevated recent activity counts toward one combined tally.
func detectHRDrift(sorted []store.Activity, today time.Time) *FatigueIndicator {
	baselineStart := today.AddDate(0, 0, -hrDriftBaselineDays)
	recentStart := today.AddDate(0, 0, -hrDriftRecentDays)

	type sportStats struct {
		sum   float64
		count int
	}
	baselines := map[Sport]*sportStats{
		SportRun:  {},
		SportBike: {},
	}

	for _, a := range sorted {
		if a.AverageHeartrate == nil || *a.AverageHeartrate <= 0 {
			continue
		}
		if a.StartDateLocal.Before(baselineStart) || a.StartDateLocal.After(today.AddDate(0, 0, 1)) {
			continue
		}
		if stats, ok := baselines[NormalizeSport(a.Type)]; ok {
			stats.sum += *a.AverageHeartrate
			stats.count++
		}
	}

	elevated := 0
	for _, a := range sorted {
		if a.AverageHeartrate == nil || *a.AverageHeartrate <= 0 {
			continue
		}
		if a.StartDateLocal.Before(recentStart) {
			continue
		}
		stats, ok := baselines[NormalizeSport(a.Type)]
		if !ok || stats.count < 3 {
			continue
		}
		baseline := stats.sum / float64(stats.count)
		if *a.AverageHeartrate > baseline+hrDriftThresholdBPM {
			elevated++
		}
	}

	if elevated < 2 {
		return nil
	}

	severity := SeverityMedium
	if elevated >= 4 {
		severity = SeverityHigh
	}

	return &FatigueIndicator{
		Type:     IndicatorHRDrift,
		Severity: severity,
		Description: fmt.Sprintf("%d activities in the last %d days ran more than %.0f bpm above your %d-day baseline",
			elevated, hrDriftRecentDays, hrDriftThresholdBPM, hrDriftBaselineDays),
		Recommendation: indicatorRecommendations[IndicatorHRDrift],
		DetectedDate:   today,
	}
}

// detectChronicHighHR walks backward day by day from today counting
// consecutive days where some activity averaged above 75% of max HR.
// Any day without such an activity, rest day included, ends the streak.
func detectChronicHighHR(sorted []store.Activity, zones AthleteZones, today time.Time) *FatigueIndicator {
	if zones.MaxHR <= 0 {
		return nil
	}
	threshold := zones.MaxHR * chronicHighHRRatio

	highByDay := make(map[string]bool)
	for _, a := range sorted {
		if a.AverageHeartrate != nil && *a.AverageHeartrate > threshold {
			highByDay[a.StartDateLocal.Format(dateKeyFormat)] = true
		}
	}

	streak := 0
	for d := dayOf(today); highByDay[d.Format(dateKeyFormat)]; d = d.AddDate(0, 0, -1) {
		streak++
	}

	if streak < chronicStreakMin {
		return nil
	}

	return &FatigueIndicator{
		Type:     IndicatorChronicHighHR,
		Severity: SeverityHigh,
		Description: fmt.Sprintf("heart rate above %.0f%% of max on %d consecutive days",
			chronicHighHRRatio*100, streak),
		Recommendation: indicatorRecommendations[IndicatorChronicHighHR],
		DetectedDate:   today,
	}
}

// qualityRunKeywords marks runs whose titles indicate a structured hard
// session, where pace at equal heart rate is comparable across workouts.
var qualityRunKeywords = []string{"interval", "tempo", "threshold"}

// detectPaceDecline compares the two most recent quality runs inside the
// trailing two weeks: same heart rate but meaningfully slower pace is a
// muscular fatigue signal.
func detectPaceDecline(sorted []store.Activity, today time.Time) *FatigueIndicator {
	windowStart := today.AddDate(0, 0, -paceDeclineWindow)

	var quality []store.Activity
	for _, a := range sorted {
		if NormalizeSport(a.Type) != SportRun || a.StartDateLocal.Before(windowStart) {
			continue
		}
		if a.Distance <= 0 || a.MovingTime <= 0 || a.AverageHeartrate == nil {
			continue
		}
		title := strings.ToLower(a.Name)
		for _, kw := range qualityRunKeywords {
			if strings.Contains(title, kw) {
				quality = append(quality, a)
				break
			}
		}
	}

	if len(quality) < 2 {
		return nil
	}

	// Input is sorted ascending; compare the two most recent.
	earlier := quality[len(quality)-2]
	recent := quality[len(quality)-1]

	hrDelta := *recent.AverageHeartrate - *earlier.AverageHeartrate
	if hrDelta < 0 {
		hrDelta = -hrDelta
	}
	if hrDelta >= equalEffortBPM {
		return nil
	}

	earlierPace := float64(earlier.MovingTime) / (earlier.Distance / 1000)
	recentPace := float64(recent.MovingTime) / (recent.Distance / 1000)
	if recentPace-earlierPace <= paceDeclineSecPerKm {
		return nil
	}

	return &FatigueIndicator{
		Type:     IndicatorPaceDecline,
		Severity: SeverityMedium,
		Description: fmt.Sprintf("pace dropped %.0f sec/km at equal heart rate between your last two quality runs",
			recentPace-earlierPace),
		Recommendation: indicatorRecommendations[IndicatorPaceDecline],
		DetectedDate:   today,
	}
}

// consecutiveTrainingDays counts days with at least one activity, scanning
// backward from today. A rest day today means the streak is zero.
func consecutiveTrainingDays(sorted []store.Activity, today time.Time) int {
	activeByDay := make(map[string]bool)
	for _, a := range sorted {
		activeByDay[a.StartDateLocal.Format(dateKeyFormat)] = true
	}

	streak := 0
	for d := dayOf(today); activeByDay[d.Format(dateKeyFormat)]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

func noRestIndicator(streak int, today time.Time) *FatigueIndicator {
	if streak < noRestMediumDays {
		return nil
	}

	severity := SeverityMedium
	if streak >= noRestHighDays {
		severity = SeverityHigh
	}

	return &FatigueIndicator{
		Type:           IndicatorNoRest,
		Severity:       severity,
		Description:    fmt.Sprintf("%d consecutive days of training without a rest day", streak),
		Recommendation: indicatorRecommendations[IndicatorNoRest],
		DetectedDate:   today,
	}
}
