package service

import (
	"context"
	"testing"
	"time"

	"tricoach/internal/analysis"
	"tricoach/internal/config"
	"tricoach/internal/store"
	"tricoach/internal/strava"
)

var syncToday = time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

// fakeFetcher serves canned activities instead of calling the API.
type fakeFetcher struct {
	activities []strava.Activity
	calls      int
}

func (f *fakeFetcher) GetAllActivities(ctx context.Context, after time.Time, onProgress func(int)) ([]strava.Activity, error) {
	f.calls++
	var out []strava.Activity
	for _, a := range f.activities {
		if after.IsZero() || a.StartDate.After(after) {
			out = append(out, a)
		}
	}
	if onProgress != nil {
		onProgress(len(out))
	}
	return out, nil
}

func apiRun(id int64, name string, distance float64, movingTime int, day time.Time) strava.Activity {
	return strava.Activity{
		ID:             id,
		Athlete:        strava.Athlete{ID: 7},
		Name:           name,
		SportType:      "Run",
		StartDate:      day,
		StartDateLocal: day,
		Distance:       distance,
		MovingTime:     movingTime,
		ElapsedTime:    movingTime,
	}
}

func testSyncService(t *testing.T, fetcher *fakeFetcher, goals []config.GoalConfig) (*SyncService, *store.Store) {
	t.Helper()

	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return &SyncService{
		client: fetcher,
		store:  st,
		zones:  analysis.NewZones(255, 250, 105, 185, 50),
		goals:  goals,
		now:    func() time.Time { return syncToday },
	}, st
}

func TestSyncAllPipeline(t *testing.T) {
	// An every-other-day training history plus one fast 10k to predict from.
	var activities []strava.Activity
	id := int64(1)
	for i := 60; i > 0; i -= 2 {
		activities = append(activities, apiRun(id, "Easy Run", 8000, 2700, syncToday.AddDate(0, 0, -i)))
		id++
	}
	activities = append(activities, apiRun(id, "10K race effort", 10000, 2400, syncToday.AddDate(0, 0, -5)))

	fetcher := &fakeFetcher{activities: activities}
	goals := []config.GoalConfig{{Race: "5k", TargetTime: "21:00"}}
	svc, st := testSyncService(t, fetcher, goals)

	result, err := svc.SyncAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}

	if result.ActivitiesStored != len(activities) {
		t.Errorf("ActivitiesStored = %d, want %d", result.ActivitiesStored, len(activities))
	}
	if result.DaysComputed != SeriesDays {
		t.Errorf("DaysComputed = %d, want %d", result.DaysComputed, SeriesDays)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	// Daily metrics cache should cover the chart window with sane values.
	metrics, err := st.GetDailyMetrics(30)
	if err != nil {
		t.Fatalf("GetDailyMetrics() error = %v", err)
	}
	if len(metrics) != 30 {
		t.Fatalf("expected 30 cached days, got %d", len(metrics))
	}
	last := metrics[len(metrics)-1]
	if last.Date != "2026-05-10" {
		t.Errorf("last cached day = %s, want 2026-05-10", last.Date)
	}
	if last.CTL <= 0 {
		t.Errorf("CTL = %v, want accumulated fitness", last.CTL)
	}

	// The 10k effort should seed a 5k prediction against the goal.
	if result.PredictionsComputed != 1 {
		t.Fatalf("PredictionsComputed = %d, want 1", result.PredictionsComputed)
	}
	pred, err := st.GetRacePrediction("5k")
	if err != nil {
		t.Fatalf("GetRacePrediction() error = %v", err)
	}
	if pred.SourceRace != "10k" {
		t.Errorf("SourceRace = %s, want 10k", pred.SourceRace)
	}
	if pred.PredictedSeconds <= 0 || pred.PredictedSeconds >= 2400 {
		t.Errorf("PredictedSeconds = %d, want a positive time under the 10k source", pred.PredictedSeconds)
	}
	if pred.TargetSeconds != 21*60 {
		t.Errorf("TargetSeconds = %d, want 1260", pred.TargetSeconds)
	}
	if pred.SuccessProbability < 0 || pred.SuccessProbability > 95 {
		t.Errorf("SuccessProbability = %v, outside [0, 95]", pred.SuccessProbability)
	}

	// Sync watermark recorded for the next incremental run.
	watermark, err := st.GetSyncState(lastActivitySyncKey)
	if err != nil || watermark == "" {
		t.Errorf("sync watermark = (%q, %v), want recorded", watermark, err)
	}
}

func TestSyncAllNoGoalsPredictsAllDistances(t *testing.T) {
	fetcher := &fakeFetcher{activities: []strava.Activity{
		apiRun(1, "Parkrun", 5000, 1300, syncToday.AddDate(0, 0, -3)),
	}}
	svc, st := testSyncService(t, fetcher, nil)

	result, err := svc.SyncAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}

	if result.PredictionsComputed != 4 {
		t.Errorf("PredictionsComputed = %d, want all four distances", result.PredictionsComputed)
	}
	rows, err := st.GetAllRacePredictions()
	if err != nil {
		t.Fatalf("GetAllRacePredictions() error = %v", err)
	}
	for _, p := range rows {
		if p.TargetSeconds != 0 || p.SuccessProbability != 0 {
			t.Errorf("%s: target fields should be zero without goals, got %+v", p.Race, p)
		}
	}
}

func TestSyncAllDedupesFatigueAlerts(t *testing.T) {
	// Ten straight training days ending today trip the no-rest detector.
	var activities []strava.Activity
	for i := 0; i < 10; i++ {
		activities = append(activities, apiRun(int64(i+1), "Easy Run", 8000, 2700, syncToday.AddDate(0, 0, -i)))
	}
	fetcher := &fakeFetcher{activities: activities}
	svc, st := testSyncService(t, fetcher, nil)

	first, err := svc.SyncAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("first SyncAll() error = %v", err)
	}
	if first.AlertsRaised != 1 {
		t.Fatalf("AlertsRaised = %d, want 1 no-rest alert", first.AlertsRaised)
	}

	second, err := svc.SyncAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("second SyncAll() error = %v", err)
	}
	if second.AlertsRaised != 0 {
		t.Errorf("second run AlertsRaised = %d, want 0 within the dedupe window", second.AlertsRaised)
	}

	alerts, err := st.ListFatigueAlerts(10)
	if err != nil {
		t.Fatalf("ListFatigueAlerts() error = %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("stored alerts = %d, want 1", len(alerts))
	}
}

func TestSyncAllNoActivities(t *testing.T) {
	svc, st := testSyncService(t, &fakeFetcher{}, nil)

	result, err := svc.SyncAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}
	if result.ActivitiesStored != 0 || result.AlertsRaised != 0 || result.PredictionsComputed != 0 {
		t.Errorf("empty sync produced %+v", result)
	}
	// The series is still cached, all zeros.
	if result.DaysComputed != SeriesDays {
		t.Errorf("DaysComputed = %d, want %d", result.DaysComputed, SeriesDays)
	}
	metrics, err := st.GetDailyMetrics(7)
	if err != nil || len(metrics) != 7 {
		t.Fatalf("GetDailyMetrics() = (%d rows, %v)", len(metrics), err)
	}
	for _, m := range metrics {
		if m.CTL != 0 {
			t.Errorf("day %s: CTL = %v, want 0", m.Date, m.CTL)
		}
	}
}
