package store

import "time"

// Auth represents OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64     `db:"athlete_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// Activity is a cached activity summary. This is the record shape the
// analytics engine consumes; it is immutable once fetched.
type Activity struct {
	ID               int64     `db:"id"`
	AthleteID        int64     `db:"athlete_id"`
	Name             string    `db:"name"`
	Type             string    `db:"type"` // raw sport label from the source
	StartDate        time.Time `db:"start_date"`
	StartDateLocal   time.Time `db:"start_date_local"`
	Timezone         string    `db:"timezone"`
	Distance         float64   `db:"distance"`    // meters
	MovingTime       int       `db:"moving_time"` // seconds
	ElapsedTime      int       `db:"elapsed_time"`
	ElevationGain    float64   `db:"elevation_gain"`
	AverageSpeed     float64   `db:"average_speed"` // m/s
	AverageHeartrate *float64  `db:"average_heartrate"`
	MaxHeartrate     *float64  `db:"max_heartrate"`
	AveragePower     *float64  `db:"average_power"`    // watts
	NormalizedPower  *float64  `db:"normalized_power"` // weighted average watts
	HasHeartrate     bool      `db:"has_heartrate"`
}

// DailyMetrics is one day of the persisted performance-management series.
// It is a cache of engine output for charting; the engine recomputes the
// series from activities on every sync.
type DailyMetrics struct {
	Date     string  `db:"date"` // YYYY-MM-DD
	TSS      float64 `db:"tss"`
	CTL      float64 `db:"ctl"`
	ATL      float64 `db:"atl"`
	TSB      float64 `db:"tsb"`
	RampRate float64 `db:"ramp_rate"`
}

// FatigueAlert is a persisted fatigue indicator. The store is responsible
// for not re-alerting on the same indicator type within a time window; the
// engine produces indicators fresh on every run.
type FatigueAlert struct {
	ID             int64     `db:"id"`
	Type           string    `db:"type"`
	Severity       string    `db:"severity"`
	Description    string    `db:"description"`
	Recommendation string    `db:"recommendation"`
	DetectedDate   string    `db:"detected_date"` // YYYY-MM-DD
	CreatedAt      time.Time `db:"created_at"`
}

// RacePrediction is a persisted race time prediction, one row per race type.
type RacePrediction struct {
	Race               string    `db:"race"` // "5k", "10k", "half", "marathon"
	PredictedSeconds   int       `db:"predicted_seconds"`
	Confidence         float64   `db:"confidence"`           // 0-100
	TargetSeconds      int       `db:"target_seconds"`       // 0 when no goal time set
	SuccessProbability float64   `db:"success_probability"`  // 0-95, meaningful when TargetSeconds > 0
	SourceRace         string    `db:"source_race"`          // effort bucket the prediction came from
	SourceSeconds      int       `db:"source_seconds"`
	ComputedAt         time.Time `db:"computed_at"`
}
