package strava

import (
	"testing"
	"time"
)

func TestSportLabel(t *testing.T) {
	a := Activity{Type: "Run", SportType: "TrailRun"}
	if got := a.SportLabel(); got != "TrailRun" {
		t.Errorf("SportLabel() = %q, want sport_type to win", got)
	}

	a.SportType = ""
	if got := a.SportLabel(); got != "Run" {
		t.Errorf("SportLabel() = %q, want legacy type fallback", got)
	}
}

func TestToStoreActivity(t *testing.T) {
	start := time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC)
	a := Activity{
		ID:                   42,
		Athlete:              Athlete{ID: 7},
		Name:                 "Morning Ride",
		Type:                 "Ride",
		StartDate:            start,
		StartDateLocal:       start.Add(-5 * time.Hour),
		Timezone:             "America/New_York",
		Distance:             40000,
		MovingTime:           5400,
		ElapsedTime:          5600,
		TotalElevationGain:   350,
		AverageSpeed:         7.4,
		AverageHeartrate:     152,
		MaxHeartrate:         175,
		AverageWatts:         210,
		WeightedAverageWatts: 225,
		DeviceWatts:          true,
		HasHeartrate:         true,
	}

	rec := a.ToStoreActivity()
	if rec.ID != 42 || rec.AthleteID != 7 {
		t.Errorf("IDs = (%d, %d), want (42, 7)", rec.ID, rec.AthleteID)
	}
	if rec.AverageHeartrate == nil || *rec.AverageHeartrate != 152 {
		t.Errorf("AverageHeartrate = %v, want 152", rec.AverageHeartrate)
	}
	if rec.AveragePower == nil || *rec.AveragePower != 210 {
		t.Errorf("AveragePower = %v, want 210", rec.AveragePower)
	}
	if rec.NormalizedPower == nil || *rec.NormalizedPower != 225 {
		t.Errorf("NormalizedPower = %v, want 225", rec.NormalizedPower)
	}
}

func TestToStoreActivityAbsentSignals(t *testing.T) {
	a := Activity{
		ID:           1,
		Type:         "Ride",
		Distance:     20000,
		MovingTime:   3000,
		AverageWatts: 180, // estimated, not from a meter
		DeviceWatts:  false,
	}

	rec := a.ToStoreActivity()
	if rec.AverageHeartrate != nil || rec.MaxHeartrate != nil {
		t.Error("heart rate should be nil without has_heartrate")
	}
	if rec.AveragePower != nil || rec.NormalizedPower != nil {
		t.Error("estimated watts should not survive conversion")
	}
}
