package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tricoach/internal/analysis"
	"tricoach/internal/config"
	"tricoach/internal/store"
	"tricoach/internal/strava"
)

// activityFetcher is the slice of the Strava client the sync needs.
type activityFetcher interface {
	GetAllActivities(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]strava.Activity, error)
}

// SyncService orchestrates a full sync: fetch new activities, recompute
// the training load series, run fatigue detection, refresh predictions.
type SyncService struct {
	client activityFetcher
	store  *store.Store
	zones  analysis.AthleteZones
	goals  []config.GoalConfig

	// now is injected so the whole pipeline computes against one frozen
	// "today" per run.
	now func() time.Time
}

// NewSyncService wires the sync pipeline from config.
func NewSyncService(client *strava.Client, st *store.Store, cfg *config.Config) *SyncService {
	return &SyncService{
		client: client,
		store:  st,
		zones:  analysis.NewZones(cfg.Zones()),
		goals:  cfg.Goals,
		now:    time.Now,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase     string // "activities", "training_load", "fatigue", "predictions"
	Total     int
	Completed int
	Error     error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	ActivitiesFetched   int
	ActivitiesStored    int
	DaysComputed        int
	AlertsRaised        int
	PredictionsComputed int
	Errors              []error
}

// SyncAll runs the full pipeline. Analysis phases run even when no new
// activities arrived, so edited zones or goals take effect on the next
// sync rather than the next new workout.
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}
	today := s.now()

	if err := s.syncActivities(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing activities: %w", err)
	}

	series, err := s.computeTrainingLoad(ctx, progress, result, today)
	if err != nil {
		return result, fmt.Errorf("computing training load: %w", err)
	}

	if err := s.detectFatigue(ctx, progress, result, today); err != nil {
		return result, fmt.Errorf("detecting fatigue: %w", err)
	}

	if err := s.computePredictions(ctx, progress, result, series, today); err != nil {
		return result, fmt.Errorf("computing predictions: %w", err)
	}

	return result, nil
}

// syncActivities fetches everything newer than the last sync watermark and
// upserts it. All sports are kept; the engine decides how to score them.
func (s *SyncService) syncActivities(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	var after time.Time
	if watermark, err := s.store.GetSyncState(lastActivitySyncKey); err == nil && watermark != "" {
		after, _ = time.Parse(time.RFC3339, watermark)
	}

	report := func(fetched int) {
		if progress != nil {
			progress <- SyncProgress{Phase: "activities", Total: fetched, Completed: result.ActivitiesStored}
		}
	}

	activities, err := s.client.GetAllActivities(ctx, after, report)
	if err != nil {
		return err
	}
	result.ActivitiesFetched = len(activities)

	for _, a := range activities {
		rec := a.ToStoreActivity()
		if err := s.store.UpsertActivity(&rec); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing activity %d: %w", a.ID, err))
			continue
		}
		result.ActivitiesStored++
	}

	if err := s.store.SetSyncState(lastActivitySyncKey, s.now().Format(time.RFC3339)); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("saving sync watermark: %w", err))
	}

	report(result.ActivitiesFetched)
	return nil
}

// computeTrainingLoad rebuilds the daily metrics cache for the reporting
// year and returns the computed series for downstream phases.
func (s *SyncService) computeTrainingLoad(ctx context.Context, progress chan<- SyncProgress, result *SyncResult, today time.Time) ([]analysis.TrainingMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if progress != nil {
		progress <- SyncProgress{Phase: "training_load", Total: SeriesDays}
	}

	opts := analysis.DefaultPMCOptions()
	lookback := SeriesDays + opts.WarmupDays
	activities, err := s.store.ListActivitiesSince(today.AddDate(0, 0, -lookback))
	if err != nil {
		return nil, err
	}

	scorer := analysis.NewThresholdScorer(s.zones)
	series := analysis.TrainingLoadSeries(activities, scorer, today, SeriesDays, opts)

	metrics := make([]store.DailyMetrics, len(series))
	for i, m := range series {
		metrics[i] = store.DailyMetrics{
			Date:     m.Date.Format("2006-01-02"),
			TSS:      m.TSS,
			CTL:      m.CTL,
			ATL:      m.ATL,
			TSB:      m.TSB,
			RampRate: m.RampRate,
		}
	}
	if err := s.store.ReplaceDailyMetrics(metrics); err != nil {
		return nil, err
	}
	result.DaysComputed = len(metrics)

	if progress != nil {
		progress <- SyncProgress{Phase: "training_load", Total: SeriesDays, Completed: len(metrics)}
	}
	return series, nil
}

// detectFatigue runs the detectors and persists indicators that have not
// been raised recently.
func (s *SyncService) detectFatigue(ctx context.Context, progress chan<- SyncProgress, result *SyncResult, today time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if progress != nil {
		progress <- SyncProgress{Phase: "fatigue"}
	}

	activities, err := s.store.ListActivitiesSince(today.AddDate(0, 0, -FatigueHistoryDays))
	if err != nil {
		return err
	}

	report := analysis.DetectFatigue(activities, s.zones, today)
	dedupeSince := today.Add(-AlertDedupeWindow)

	for _, ind := range report.Indicators {
		exists, err := s.store.RecentAlertExists(string(ind.Type), dedupeSince)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("checking alert window: %w", err))
			continue
		}
		if exists {
			continue
		}

		alert := &store.FatigueAlert{
			Type:           string(ind.Type),
			Severity:       ind.Severity.String(),
			Description:    ind.Description,
			Recommendation: ind.Recommendation,
			DetectedDate:   ind.DetectedDate.Format("2006-01-02"),
		}
		if err := s.store.InsertFatigueAlert(alert); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("saving %s alert: %w", ind.Type, err))
			continue
		}
		result.AlertsRaised++
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "fatigue", Total: len(report.Indicators), Completed: result.AlertsRaised}
	}
	return nil
}

// computePredictions refreshes the race prediction rows from current best
// efforts and form. Goals come from config; without goals every standard
// distance gets a prediction with no target.
func (s *SyncService) computePredictions(ctx context.Context, progress chan<- SyncProgress, result *SyncResult, series []analysis.TrainingMetrics, today time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if progress != nil {
		progress <- SyncProgress{Phase: "predictions"}
	}

	activities, err := s.store.ListActivitiesSince(today.AddDate(0, 0, -BestEffortDays))
	if err != nil {
		return err
	}
	efforts := analysis.BestEfforts(activities)

	var tsb float64
	if current, ok := analysis.CurrentMetrics(series); ok {
		tsb = current.TSB
	}

	for _, goal := range s.predictionGoals() {
		race := analysis.NormalizeRaceType(goal.Race)

		pred, err := analysis.PredictRace(efforts, race, tsb, today)
		if errors.Is(err, analysis.ErrNoBestEfforts) {
			continue // nothing to predict from yet
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("predicting %s: %w", race, err))
			continue
		}

		if goal.TargetTime != "" {
			target, err := analysis.ParseTargetTime(goal.TargetTime)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("goal %q: %w", goal.Race, err))
			} else {
				pred.TargetSeconds = target
				pred.SuccessProbability = analysis.SuccessProbability(pred.PredictedSeconds, target, pred.Confidence)
			}
		}

		row := &store.RacePrediction{
			Race:               string(pred.Race),
			PredictedSeconds:   pred.PredictedSeconds,
			Confidence:         float64(pred.Confidence),
			TargetSeconds:      pred.TargetSeconds,
			SuccessProbability: float64(pred.SuccessProbability),
			SourceRace:         string(pred.SourceRace),
			SourceSeconds:      pred.SourceSeconds,
			ComputedAt:         today,
		}
		if err := s.store.UpsertRacePrediction(row); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("saving %s prediction: %w", race, err))
			continue
		}
		result.PredictionsComputed++
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "predictions", Total: len(s.predictionGoals()), Completed: result.PredictionsComputed}
	}
	return nil
}

func (s *SyncService) predictionGoals() []config.GoalConfig {
	if len(s.goals) > 0 {
		return s.goals
	}
	return []config.GoalConfig{
		{Race: "5k"},
		{Race: "10k"},
		{Race: "half"},
		{Race: "marathon"},
	}
}
