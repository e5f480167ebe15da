package service

import (
	"time"

	"tricoach/internal/analysis"
	"tricoach/internal/store"
)

// QueryService provides read-only queries for the TUI. It reads the
// persisted analysis caches; the engine only reruns during sync.
type QueryService struct {
	store *store.Store
}

// NewQueryService creates a new query service
func NewQueryService(st *store.Store) *QueryService {
	return &QueryService{store: st}
}

// DashboardData contains all data needed for the dashboard
type DashboardData struct {
	// Current snapshot
	Fitness         float64 // CTL
	Fatigue         float64 // ATL
	Form            float64 // TSB
	RampRate        float64
	FormDescription string
	AsOf            string // date of the snapshot, YYYY-MM-DD
	HasMetrics      bool
	WeekTSS         float64 // total load over the trailing 7 days

	// Chart series, oldest first
	CTLHistory []float64
	ATLHistory []float64
	TSBHistory []float64
	ChartDates []string

	// Totals
	TotalActivities  int
	RecentActivities []store.Activity
}

// GetDashboardData assembles the dashboard from the daily metrics cache.
func (q *QueryService) GetDashboardData() (*DashboardData, error) {
	data := &DashboardData{}

	metrics, err := q.store.GetDailyMetrics(ChartDays)
	if err != nil {
		return nil, err
	}

	for i, m := range metrics {
		data.CTLHistory = append(data.CTLHistory, m.CTL)
		data.ATLHistory = append(data.ATLHistory, m.ATL)
		data.TSBHistory = append(data.TSBHistory, m.TSB)
		data.ChartDates = append(data.ChartDates, m.Date)
		if i >= len(metrics)-7 {
			data.WeekTSS += m.TSS
		}
	}

	if m, ok := currentSnapshot(metrics); ok {
		data.Fitness = m.CTL
		data.Fatigue = m.ATL
		data.Form = m.TSB
		data.RampRate = m.RampRate
		data.FormDescription = analysis.FormDescription(m.TSB)
		data.AsOf = m.Date
		data.HasMetrics = true
	}

	data.TotalActivities, err = q.store.CountActivities()
	if err != nil {
		return nil, err
	}

	data.RecentActivities, err = q.store.ListActivities(RecentActivitiesLimit, 0)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// currentSnapshot picks the most recent day that carries accumulated
// fitness. Trailing rest days still decay the averages, so zeros are
// scanned past; a fully zero series means there is no data at all.
func currentSnapshot(metrics []store.DailyMetrics) (store.DailyMetrics, bool) {
	for i := len(metrics) - 1; i >= 0; i-- {
		if metrics[i].CTL > 0 {
			return metrics[i], true
		}
	}
	return store.DailyMetrics{}, false
}

// ActivityPage returns one page of activities, newest first.
func (q *QueryService) ActivityPage(page int) ([]store.Activity, error) {
	if page < 0 {
		page = 0
	}
	return q.store.ListActivities(ActivityPageSize, page*ActivityPageSize)
}

// FatigueData contains all data needed for the fatigue screen
type FatigueData struct {
	Score           int
	Level           string
	NeedsRecovery   bool
	Indicators      []analysis.FatigueIndicator
	Recommendations []string
	AlertHistory    []store.FatigueAlert
}

// GetFatigueData reruns the detectors on cached activities for the live
// view and pairs the result with the persisted alert history.
func (q *QueryService) GetFatigueData(zones analysis.AthleteZones, today time.Time) (*FatigueData, error) {
	activities, err := q.store.ListActivitiesSince(today.AddDate(0, 0, -FatigueHistoryDays))
	if err != nil {
		return nil, err
	}

	report := analysis.DetectFatigue(activities, zones, today)

	history, err := q.store.ListFatigueAlerts(20)
	if err != nil {
		return nil, err
	}

	return &FatigueData{
		Score:           report.Score,
		Level:           report.Level,
		NeedsRecovery:   report.NeedsRecoveryWeek,
		Indicators:      report.Indicators,
		Recommendations: report.Recommendations,
		AlertHistory:    history,
	}, nil
}

// PredictionDisplay is one formatted race prediction row
type PredictionDisplay struct {
	Race          string // "5k", "10k", "half", "marathon"
	Label         string // "5K", "Half Marathon"
	PredictedTime string
	Pace          string // per km
	Confidence    int
	TargetTime    string // empty when no goal set
	SuccessChance int    // 0 when no goal set
	SourceLabel   string // "from 10K best effort"
	ComputedAt    string
}

// PredictionsData contains all data needed for the predictions screen
type PredictionsData struct {
	Predictions    []PredictionDisplay
	HasPredictions bool
}

// raceLabels maps canonical race names to display labels
var raceLabels = map[string]string{
	"5k":       "5K",
	"10k":      "10K",
	"half":     "Half Marathon",
	"marathon": "Marathon",
}

// GetPredictionsData retrieves all race predictions formatted for display
func (q *QueryService) GetPredictionsData() (*PredictionsData, error) {
	rows, err := q.store.GetAllRacePredictions()
	if err != nil {
		return nil, err
	}

	data := &PredictionsData{HasPredictions: len(rows) > 0}
	for _, p := range rows {
		display := PredictionDisplay{
			Race:          p.Race,
			Label:         raceLabel(p.Race),
			PredictedTime: analysis.FormatDuration(p.PredictedSeconds),
			Pace:          predictionPace(p),
			Confidence:    int(p.Confidence),
			SourceLabel:   "from " + raceLabel(p.SourceRace) + " best effort",
			ComputedAt:    p.ComputedAt.Format("Jan 02, 2006"),
		}
		if p.TargetSeconds > 0 {
			display.TargetTime = analysis.FormatDuration(p.TargetSeconds)
			display.SuccessChance = int(p.SuccessProbability)
		}
		data.Predictions = append(data.Predictions, display)
	}

	return data, nil
}

func raceLabel(race string) string {
	if label, ok := raceLabels[race]; ok {
		return label
	}
	return race
}

// predictionPace renders the per-km pace implied by a predicted time.
func predictionPace(p store.RacePrediction) string {
	km, ok := analysis.RaceDistanceKM[analysis.RaceDistance(p.Race)]
	if !ok || km <= 0 || p.PredictedSeconds <= 0 {
		return ""
	}
	perKM := int(float64(p.PredictedSeconds)/km + 0.5)
	return analysis.FormatDuration(perKM) + "/km"
}
