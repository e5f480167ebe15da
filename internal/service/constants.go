package service

import "time"

const (
	// SeriesDays is the reporting window of the persisted daily metrics.
	SeriesDays = 365

	// FatigueHistoryDays is how much history the fatigue detectors see.
	// The longest baseline any detector uses is 28 days; 90 leaves room.
	FatigueHistoryDays = 90

	// BestEffortDays bounds how old a run may be and still seed a race
	// prediction. Year-old fitness is not current fitness.
	BestEffortDays = 365

	// AlertDedupeWindow suppresses re-raising the same indicator type.
	AlertDedupeWindow = 7 * 24 * time.Hour

	// Pagination limits
	RecentActivitiesLimit = 10
	ActivityPageSize      = 50

	// Dashboard chart window
	ChartDays = 90
)

// lastActivitySyncKey is the sync_state key for incremental fetching.
const lastActivitySyncKey = "last_activity_sync"
