package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Store is the application's data access layer over SQLite.
type Store struct {
	db *sql.DB
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced operations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- Auth Methods ---

// GetAuth retrieves the stored authentication tokens.
func (s *Store) GetAuth() (*Auth, error) {
	row := s.db.QueryRow(`SELECT athlete_id, access_token, refresh_token, expires_at FROM auth WHERE id = 1`)

	var a Auth
	var expiresAt int64
	err := row.Scan(&a.AthleteID, &a.AccessToken, &a.RefreshToken, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAuth
	}
	if err != nil {
		return nil, err
	}
	a.ExpiresAt = time.Unix(expiresAt, 0)
	return &a, nil
}

// SaveAuth stores or updates the authentication tokens.
func (s *Store) SaveAuth(auth *Auth) error {
	_, err := s.db.Exec(`
		INSERT INTO auth (id, athlete_id, access_token, refresh_token, expires_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP`,
		auth.AthleteID, auth.AccessToken, auth.RefreshToken, auth.ExpiresAt.Unix())
	return err
}

// UpdateTokens updates just the access and refresh tokens.
func (s *Store) UpdateTokens(accessToken, refreshToken string, expiresAt time.Time) error {
	result, err := s.db.Exec(`
		UPDATE auth SET access_token = ?, refresh_token = ?, expires_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`,
		accessToken, refreshToken, expiresAt.Unix())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoAuth
	}
	return nil
}

// --- Sync State Methods ---

// GetSyncState retrieves a sync state value by key.
// Returns empty string if the key doesn't exist.
func (s *Store) GetSyncState(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM sync_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSyncState sets a sync state value.
func (s *Store) SetSyncState(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}

// --- Activity Methods ---

const activityColumns = `id, athlete_id, name, type, start_date, start_date_local, timezone,
	distance, moving_time, elapsed_time, elevation_gain, average_speed,
	average_heartrate, max_heartrate, average_power, normalized_power, has_heartrate`

// UpsertActivity inserts or updates an activity summary.
func (s *Store) UpsertActivity(a *Activity) error {
	_, err := s.db.Exec(`
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			start_date = excluded.start_date,
			start_date_local = excluded.start_date_local,
			timezone = excluded.timezone,
			distance = excluded.distance,
			moving_time = excluded.moving_time,
			elapsed_time = excluded.elapsed_time,
			elevation_gain = excluded.elevation_gain,
			average_speed = excluded.average_speed,
			average_heartrate = excluded.average_heartrate,
			max_heartrate = excluded.max_heartrate,
			average_power = excluded.average_power,
			normalized_power = excluded.normalized_power,
			has_heartrate = excluded.has_heartrate,
			updated_at = CURRENT_TIMESTAMP`,
		a.ID, a.AthleteID, a.Name, a.Type,
		a.StartDate.Format(time.RFC3339), a.StartDateLocal.Format(time.RFC3339),
		a.Timezone, a.Distance, a.MovingTime, a.ElapsedTime, a.ElevationGain,
		a.AverageSpeed, a.AverageHeartrate, a.MaxHeartrate,
		a.AveragePower, a.NormalizedPower, boolToInt64(a.HasHeartrate))
	return err
}

// GetActivity retrieves an activity by ID.
func (s *Store) GetActivity(id int64) (*Activity, error) {
	row := s.db.QueryRow(`SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	return a, err
}

// ListActivities retrieves activities ordered by start date descending.
func (s *Store) ListActivities(limit, offset int) ([]Activity, error) {
	rows, err := s.db.Query(`
		SELECT `+activityColumns+` FROM activities
		ORDER BY start_date DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActivities(rows)
}

// ListActivitiesSince retrieves all activities starting on or after the
// given time, ordered by start date ascending.
func (s *Store) ListActivitiesSince(since time.Time) ([]Activity, error) {
	rows, err := s.db.Query(`
		SELECT `+activityColumns+` FROM activities
		WHERE start_date >= ? ORDER BY start_date ASC`,
		since.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActivities(rows)
}

// CountActivities returns the total number of cached activities.
func (s *Store) CountActivities() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM activities`).Scan(&count)
	return count, err
}

// --- Daily Metrics Methods ---

// ReplaceDailyMetrics atomically replaces the persisted daily series.
// The series is a cache; the engine rebuilds it in full on every sync.
func (s *Store) ReplaceDailyMetrics(metrics []DailyMetrics) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM daily_metrics`); err != nil {
		return fmt.Errorf("clearing daily metrics: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO daily_metrics (date, tss, ctl, atl, tsb, ramp_rate)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range metrics {
		if _, err := stmt.Exec(m.Date, m.TSS, m.CTL, m.ATL, m.TSB, m.RampRate); err != nil {
			return fmt.Errorf("inserting daily metrics for %s: %w", m.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDailyMetrics retrieves the most recent days of the persisted series,
// ordered by date ascending.
func (s *Store) GetDailyMetrics(days int) ([]DailyMetrics, error) {
	rows, err := s.db.Query(`
		SELECT date, tss, ctl, atl, tsb, ramp_rate FROM (
			SELECT date, tss, ctl, atl, tsb, ramp_rate
			FROM daily_metrics ORDER BY date DESC LIMIT ?
		) ORDER BY date ASC`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []DailyMetrics
	for rows.Next() {
		var m DailyMetrics
		if err := rows.Scan(&m.Date, &m.TSS, &m.CTL, &m.ATL, &m.TSB, &m.RampRate); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// --- Fatigue Alert Methods ---

// InsertFatigueAlert stores a new fatigue alert.
func (s *Store) InsertFatigueAlert(a *FatigueAlert) error {
	_, err := s.db.Exec(`
		INSERT INTO fatigue_alerts (type, severity, description, recommendation, detected_date)
		VALUES (?, ?, ?, ?, ?)`,
		a.Type, a.Severity, a.Description, a.Recommendation, a.DetectedDate)
	return err
}

// RecentAlertExists reports whether an alert of the given type was already
// detected on or after the given date. The sync service uses this to avoid
// re-alerting on the same indicator every run.
func (s *Store) RecentAlertExists(alertType string, since time.Time) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM fatigue_alerts
		WHERE type = ? AND detected_date >= ?`,
		alertType, since.Format("2006-01-02")).Scan(&count)
	return count > 0, err
}

// ListFatigueAlerts retrieves the most recent alerts, newest first.
func (s *Store) ListFatigueAlerts(limit int) ([]FatigueAlert, error) {
	rows, err := s.db.Query(`
		SELECT id, type, severity, description, recommendation, detected_date
		FROM fatigue_alerts ORDER BY detected_date DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []FatigueAlert
	for rows.Next() {
		var a FatigueAlert
		if err := rows.Scan(&a.ID, &a.Type, &a.Severity, &a.Description, &a.Recommendation, &a.DetectedDate); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// --- Race Prediction Methods ---

// UpsertRacePrediction inserts or updates the prediction for one race type.
func (s *Store) UpsertRacePrediction(p *RacePrediction) error {
	_, err := s.db.Exec(`
		INSERT INTO race_predictions (race, predicted_seconds, confidence, target_seconds,
			success_probability, source_race, source_seconds, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(race) DO UPDATE SET
			predicted_seconds = excluded.predicted_seconds,
			confidence = excluded.confidence,
			target_seconds = excluded.target_seconds,
			success_probability = excluded.success_probability,
			source_race = excluded.source_race,
			source_seconds = excluded.source_seconds,
			computed_at = excluded.computed_at`,
		p.Race, p.PredictedSeconds, p.Confidence, p.TargetSeconds,
		p.SuccessProbability, p.SourceRace, p.SourceSeconds,
		p.ComputedAt.Format(time.RFC3339))
	return err
}

// GetRacePrediction retrieves the prediction for one race type.
func (s *Store) GetRacePrediction(race string) (*RacePrediction, error) {
	row := s.db.QueryRow(`
		SELECT race, predicted_seconds, confidence, target_seconds,
			success_probability, source_race, source_seconds, computed_at
		FROM race_predictions WHERE race = ?`, race)

	p, err := scanPrediction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPredictionNotFound
	}
	return p, err
}

// GetAllRacePredictions retrieves all predictions ordered by race distance.
func (s *Store) GetAllRacePredictions() ([]RacePrediction, error) {
	rows, err := s.db.Query(`
		SELECT race, predicted_seconds, confidence, target_seconds,
			success_probability, source_race, source_seconds, computed_at
		FROM race_predictions
		ORDER BY CASE race
			WHEN '5k' THEN 1 WHEN '10k' THEN 2 WHEN 'half' THEN 3 ELSE 4
		END`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []RacePrediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, *p)
	}
	return predictions, rows.Err()
}

// DeleteAllRacePredictions removes all stored predictions.
func (s *Store) DeleteAllRacePredictions() error {
	_, err := s.db.Exec(`DELETE FROM race_predictions`)
	return err
}

// --- Scan Helpers ---

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*Activity, error) {
	var a Activity
	var startDate, startDateLocal string
	var timezone sql.NullString
	var elevationGain, averageSpeed sql.NullFloat64
	var hasHR int64

	err := row.Scan(
		&a.ID, &a.AthleteID, &a.Name, &a.Type, &startDate, &startDateLocal, &timezone,
		&a.Distance, &a.MovingTime, &a.ElapsedTime, &elevationGain, &averageSpeed,
		&a.AverageHeartrate, &a.MaxHeartrate, &a.AveragePower, &a.NormalizedPower, &hasHR,
	)
	if err != nil {
		return nil, err
	}

	a.StartDate, err = time.Parse(time.RFC3339, startDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, err)
	}
	a.StartDateLocal, err = time.Parse(time.RFC3339, startDateLocal)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date_local %q: %w", startDateLocal, err)
	}

	a.Timezone = timezone.String
	a.ElevationGain = elevationGain.Float64
	a.AverageSpeed = averageSpeed.Float64
	a.HasHeartrate = hasHR == 1
	return &a, nil
}

func collectActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

func scanPrediction(row rowScanner) (*RacePrediction, error) {
	var p RacePrediction
	var computedAt string
	err := row.Scan(&p.Race, &p.PredictedSeconds, &p.Confidence, &p.TargetSeconds,
		&p.SuccessProbability, &p.SourceRace, &p.SourceSeconds, &computedAt)
	if err != nil {
		return nil, err
	}
	p.ComputedAt, err = time.Parse(time.RFC3339, computedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing computed_at %q: %w", computedAt, err)
	}
	return &p, nil
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
