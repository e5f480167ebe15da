package service

import (
	"testing"
	"time"

	"tricoach/internal/store"
)

func testQueryStore(t *testing.T) (*QueryService, *store.Store) {
	t.Helper()

	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewQueryService(st), st
}

func seedDailyMetrics(t *testing.T, st *store.Store, days int, lastDate time.Time) {
	t.Helper()

	metrics := make([]store.DailyMetrics, days)
	for i := range metrics {
		d := lastDate.AddDate(0, 0, i-days+1)
		metrics[i] = store.DailyMetrics{
			Date: d.Format("2006-01-02"),
			TSS:  50,
			CTL:  30 + float64(i)*0.1,
			ATL:  35,
			TSB:  -5,
		}
	}
	if err := st.ReplaceDailyMetrics(metrics); err != nil {
		t.Fatalf("seeding daily metrics: %v", err)
	}
}

func TestCurrentSnapshot(t *testing.T) {
	metric := func(date string, ctl float64) store.DailyMetrics {
		return store.DailyMetrics{Date: date, CTL: ctl, ATL: ctl / 2, TSB: ctl / 2}
	}

	tests := []struct {
		name     string
		metrics  []store.DailyMetrics
		wantOK   bool
		wantDate string
	}{
		{
			name:   "empty series",
			wantOK: false,
		},
		{
			name:    "all-zero series",
			metrics: []store.DailyMetrics{metric("2026-05-08", 0), metric("2026-05-09", 0)},
			wantOK:  false,
		},
		{
			name: "last day has fitness",
			metrics: []store.DailyMetrics{
				metric("2026-05-09", 30),
				metric("2026-05-10", 31),
			},
			wantOK:   true,
			wantDate: "2026-05-10",
		},
		{
			name: "zero tail is skipped",
			metrics: []store.DailyMetrics{
				metric("2026-05-08", 30),
				metric("2026-05-09", 0),
				metric("2026-05-10", 0),
			},
			wantOK:   true,
			wantDate: "2026-05-08",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := currentSnapshot(tt.metrics)
			if ok != tt.wantOK {
				t.Fatalf("currentSnapshot() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Date != tt.wantDate {
				t.Errorf("currentSnapshot() date = %q, want %q", got.Date, tt.wantDate)
			}
		})
	}
}

func TestGetDashboardData(t *testing.T) {
	q, st := testQueryStore(t)
	last := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	seedDailyMetrics(t, st, 120, last)

	a := &store.Activity{
		ID:             1,
		Name:           "Morning Run",
		Type:           "Run",
		StartDate:      last,
		StartDateLocal: last,
		Distance:       10000,
		MovingTime:     3000,
	}
	if err := st.UpsertActivity(a); err != nil {
		t.Fatalf("seeding activity: %v", err)
	}

	data, err := q.GetDashboardData()
	if err != nil {
		t.Fatalf("GetDashboardData() error = %v", err)
	}

	if !data.HasMetrics {
		t.Fatal("expected metrics")
	}
	if data.WeekTSS != 350 {
		t.Errorf("WeekTSS = %v, want 350", data.WeekTSS)
	}
	if data.AsOf != "2026-05-10" {
		t.Errorf("AsOf = %s, want 2026-05-10", data.AsOf)
	}
	if data.Form != -5 {
		t.Errorf("Form = %v, want -5", data.Form)
	}
	if data.FormDescription == "" {
		t.Error("expected a form description")
	}
	if len(data.CTLHistory) != ChartDays {
		t.Errorf("chart length = %d, want %d", len(data.CTLHistory), ChartDays)
	}
	// Ascending: the newest CTL is the highest in the seeded ramp.
	if data.CTLHistory[0] >= data.CTLHistory[len(data.CTLHistory)-1] {
		t.Error("chart should be oldest first")
	}
	if data.TotalActivities != 1 || len(data.RecentActivities) != 1 {
		t.Errorf("activity counts = (%d, %d), want (1, 1)", data.TotalActivities, len(data.RecentActivities))
	}
}

func TestGetDashboardDataEmpty(t *testing.T) {
	q, _ := testQueryStore(t)

	data, err := q.GetDashboardData()
	if err != nil {
		t.Fatalf("GetDashboardData() error = %v", err)
	}
	if data.HasMetrics {
		t.Error("empty store should have no current metrics")
	}
	if data.TotalActivities != 0 {
		t.Errorf("TotalActivities = %d, want 0", data.TotalActivities)
	}
}

func TestGetPredictionsData(t *testing.T) {
	q, st := testQueryStore(t)

	rows := []store.RacePrediction{
		{
			Race:             "marathon",
			PredictedSeconds: 12600,
			Confidence:       70,
			SourceRace:       "half",
			SourceSeconds:    5700,
			ComputedAt:       time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			Race:               "5k",
			PredictedSeconds:   1150,
			Confidence:         85,
			TargetSeconds:      1200,
			SuccessProbability: 80,
			SourceRace:         "10k",
			SourceSeconds:      2400,
			ComputedAt:         time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		},
	}
	for i := range rows {
		if err := st.UpsertRacePrediction(&rows[i]); err != nil {
			t.Fatalf("seeding prediction: %v", err)
		}
	}

	data, err := q.GetPredictionsData()
	if err != nil {
		t.Fatalf("GetPredictionsData() error = %v", err)
	}
	if !data.HasPredictions || len(data.Predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %+v", data)
	}

	// Store orders by race distance: 5k first.
	first := data.Predictions[0]
	if first.Race != "5k" || first.Label != "5K" {
		t.Errorf("first row = %s/%s, want 5k/5K", first.Race, first.Label)
	}
	if first.PredictedTime != "19:10" {
		t.Errorf("PredictedTime = %s, want 19:10", first.PredictedTime)
	}
	if first.TargetTime != "20:00" || first.SuccessChance != 80 {
		t.Errorf("target = (%s, %d), want (20:00, 80)", first.TargetTime, first.SuccessChance)
	}
	if first.SourceLabel != "from 10K best effort" {
		t.Errorf("SourceLabel = %q", first.SourceLabel)
	}

	second := data.Predictions[1]
	if second.Race != "marathon" || second.PredictedTime != "3:30:00" {
		t.Errorf("second row = %s %s, want marathon 3:30:00", second.Race, second.PredictedTime)
	}
	if second.TargetTime != "" || second.SuccessChance != 0 {
		t.Errorf("marathon has no goal, got target %q chance %d", second.TargetTime, second.SuccessChance)
	}
}

func TestActivityPage(t *testing.T) {
	q, st := testQueryStore(t)
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < ActivityPageSize+5; i++ {
		a := &store.Activity{
			ID:             int64(i + 1),
			Name:           "Run",
			Type:           "Run",
			StartDate:      base.AddDate(0, 0, -i),
			StartDateLocal: base.AddDate(0, 0, -i),
			Distance:       5000,
			MovingTime:     1500,
		}
		if err := st.UpsertActivity(a); err != nil {
			t.Fatalf("seeding activity %d: %v", i, err)
		}
	}

	page0, err := q.ActivityPage(0)
	if err != nil {
		t.Fatalf("ActivityPage(0) error = %v", err)
	}
	if len(page0) != ActivityPageSize {
		t.Errorf("page 0 size = %d, want %d", len(page0), ActivityPageSize)
	}
	// Newest first
	if page0[0].ID != 1 {
		t.Errorf("first activity ID = %d, want the newest", page0[0].ID)
	}

	page1, err := q.ActivityPage(1)
	if err != nil {
		t.Fatalf("ActivityPage(1) error = %v", err)
	}
	if len(page1) != 5 {
		t.Errorf("page 1 size = %d, want 5", len(page1))
	}
}
