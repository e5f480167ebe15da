package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Activity summaries (from /athlete/activities)
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			athlete_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			start_date_local TEXT NOT NULL,
			timezone TEXT,
			distance REAL NOT NULL,
			moving_time INTEGER NOT NULL,
			elapsed_time INTEGER NOT NULL,
			elevation_gain REAL,
			average_speed REAL,
			average_heartrate REAL,
			max_heartrate REAL,
			average_power REAL,
			normalized_power REAL,
			has_heartrate INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_date ON activities(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type)`,

		// Daily performance-management series (engine output cache)
		`CREATE TABLE IF NOT EXISTS daily_metrics (
			date TEXT PRIMARY KEY,
			tss REAL NOT NULL,
			ctl REAL NOT NULL,
			atl REAL NOT NULL,
			tsb REAL NOT NULL,
			ramp_rate REAL NOT NULL,
			computed_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Fatigue alerts (window-deduplicated on insert by the service layer)
		`CREATE TABLE IF NOT EXISTS fatigue_alerts (
			id INTEGER PRIMARY KEY,
			type TEXT NOT NULL,
			severity TEXT NOT NULL,
			description TEXT NOT NULL,
			recommendation TEXT NOT NULL,
			detected_date TEXT NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_fatigue_alerts_type_date ON fatigue_alerts(type, detected_date)`,

		// Race predictions (one row per race type)
		`CREATE TABLE IF NOT EXISTS race_predictions (
			race TEXT PRIMARY KEY,
			predicted_seconds INTEGER NOT NULL,
			confidence REAL NOT NULL,
			target_seconds INTEGER NOT NULL DEFAULT 0,
			success_probability REAL NOT NULL DEFAULT 0,
			source_race TEXT NOT NULL,
			source_seconds INTEGER NOT NULL,
			computed_at TEXT NOT NULL
		)`,

		// Sync state (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
