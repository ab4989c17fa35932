package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/intervals"
	"github.com/myrjola/ridecoach/internal/training"
)

// Source is the fitness API as seen by the [Syncer].
type Source interface {
	Activities(ctx context.Context, oldest time.Time) ([]intervals.Activity, error)
	Wellness(ctx context.Context, oldest time.Time) ([]intervals.Wellness, error)
	PowerCurve(ctx context.Context) (training.PowerCurve, error)
}

// Syncer copies the fitness API's data into the repository.
type Syncer struct {
	source Source
	repo   *Repository
	logger *slog.Logger
}

func NewSyncer(source Source, repo *Repository, logger *slog.Logger) *Syncer {
	return &Syncer{source: source, repo: repo, logger: logger}
}

// SyncResult holds what was stored.
type SyncResult struct {
	Rides    []activity.Ride
	Wellness []activity.Wellness
	Curve    training.PowerCurve
}

// Sync fetches rides since ridesSince, wellness since wellnessSince and the current power curve, one request
// after the other, and stores them together. Nothing is stored when a fetch or a save fails. When dumpPath is set the pruned rides are also written there as JSON.
func (s *Syncer) Sync(ctx context.Context, ridesSince, wellnessSince time.Time, dumpPath string) (SyncResult, error) {
	activities, err := s.source.Activities(ctx, ridesSince)
	if err != nil {
		return SyncResult{}, err
	}
	rides := intervals.SummarizeAll(activities)

	fetched, err := s.source.Wellness(ctx, wellnessSince)
	if err != nil {
		return SyncResult{}, err
	}
	wellness := make([]activity.Wellness, 0, len(fetched))
	for _, w := range fetched {
		wellness = append(wellness, w.ToWellness())
	}

	curve, err := s.source.PowerCurve(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	if err = s.repo.SaveSync(ctx, rides, wellness, curve); err != nil {
		return SyncResult{}, err
	}
	if dumpPath != "" {
		if err = writeJSON(dumpPath, rides); err != nil {
			return SyncResult{}, err
		}
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "synced history",
		slog.Int("rides", len(rides)), slog.Int("wellness", len(wellness)),
		slog.Int("curve_points", len(curve.Seconds)))
	return SyncResult{Rides: rides, Wellness: wellness, Curve: curve}, nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err = os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
