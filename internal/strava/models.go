package strava

import (
	"time"

	"tricoach/internal/store"
)

// Activity is the summary shape the Strava API returns from the activity
// list endpoint. Power fields are only present on rides recorded with a
// power meter; weighted_average_watts is Strava's normalized power.
type Activity struct {
	ID                   int64     `json:"id"`
	Athlete              Athlete   `json:"athlete"`
	Name                 string    `json:"name"`
	Type                 string    `json:"type"`
	SportType            string    `json:"sport_type"`
	StartDate            time.Time `json:"start_date"`
	StartDateLocal       time.Time `json:"start_date_local"`
	Timezone             string    `json:"timezone"`
	Distance             float64   `json:"distance"`             // meters
	MovingTime           int       `json:"moving_time"`          // seconds
	ElapsedTime          int       `json:"elapsed_time"`         // seconds
	TotalElevationGain   float64   `json:"total_elevation_gain"` // meters
	AverageSpeed         float64   `json:"average_speed"`        // m/s
	MaxSpeed             float64   `json:"max_speed"`            // m/s
	AverageHeartrate     float64   `json:"average_heartrate"`    // bpm
	MaxHeartrate         float64   `json:"max_heartrate"`        // bpm
	AverageWatts         float64   `json:"average_watts"`
	WeightedAverageWatts float64   `json:"weighted_average_watts"`
	DeviceWatts          bool      `json:"device_watts"`
	HasHeartrate         bool      `json:"has_heartrate"`
}

// Athlete represents a Strava athlete (minimal info in activity response)
type Athlete struct {
	ID int64 `json:"id"`
}

// SportLabel returns the most specific sport label available. Newer API
// responses carry sport_type ("TrailRun"); type is the legacy field.
func (a Activity) SportLabel() string {
	if a.SportType != "" {
		return a.SportType
	}
	return a.Type
}

// ToStoreActivity converts an API activity to the cached record shape.
// Absent optional signals become nil rather than zero so the engine can
// tell "no power meter" from "zero watts".
func (a Activity) ToStoreActivity() store.Activity {
	rec := store.Activity{
		ID:             a.ID,
		AthleteID:      a.Athlete.ID,
		Name:           a.Name,
		Type:           a.SportLabel(),
		StartDate:      a.StartDate,
		StartDateLocal: a.StartDateLocal,
		Timezone:       a.Timezone,
		Distance:       a.Distance,
		MovingTime:     a.MovingTime,
		ElapsedTime:    a.ElapsedTime,
		ElevationGain:  a.TotalElevationGain,
		AverageSpeed:   a.AverageSpeed,
		HasHeartrate:   a.HasHeartrate,
	}

	if a.HasHeartrate && a.AverageHeartrate > 0 {
		hr := a.AverageHeartrate
		rec.AverageHeartrate = &hr
	}
	if a.HasHeartrate && a.MaxHeartrate > 0 {
		hr := a.MaxHeartrate
		rec.MaxHeartrate = &hr
	}
	// Estimated watts (device_watts=false) are too noisy to score against
	// FTP, so only meter readings survive the conversion.
	if a.DeviceWatts && a.AverageWatts > 0 {
		w := a.AverageWatts
		rec.AveragePower = &w
	}
	if a.DeviceWatts && a.WeightedAverageWatts > 0 {
		w := a.WeightedAverageWatts
		rec.NormalizedPower = &w
	}

	return rec
}
