package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/history"
	"github.com/myrjola/ridecoach/internal/ptr"
	"github.com/myrjola/ridecoach/internal/testhelpers"
	"github.com/myrjola/ridecoach/internal/training"
)

func newRepository(t *testing.T) *history.Repository {
	t.Helper()
	db := testhelpers.NewDatabase(t.Context(), t)
	return history.NewRepository(db, testhelpers.NewLogger(testhelpers.NewWriter(t)))
}

func since(date string) time.Time {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRepository_Rides(t *testing.T) {
	ctx := t.Context()
	repo := newRepository(t)

	rides := []activity.Ride{
		{Date: "2025-06-30", FTP: 250, TrainingLoad: 40, Source: activity.SourceIntervals},
		{Date: "2025-07-01", FTP: 250, TrainingLoad: 85, Miles: 30, MovingSeconds: 5400, IntensityFactor: 75,
			Fitness: ptr.Ref(51.5), Zone: 3, Source: activity.SourceIntervals},
		{Date: "2025-07-02", FTP: 250, TrainingLoad: 60, Source: activity.SourceFitFile},
	}
	if err := repo.SaveRides(ctx, rides); err != nil {
		t.Fatalf("SaveRides() error = %v", err)
	}

	// Same date from both sources and an updated version of an existing ride.
	more := []activity.Ride{
		{Date: "2025-07-01", FTP: 250, TrainingLoad: 99, Source: activity.SourceFitFile},
		{Date: "2025-07-02", FTP: 250, TrainingLoad: 65, Source: activity.SourceFitFile},
	}
	if err := repo.SaveRides(ctx, more); err != nil {
		t.Fatalf("SaveRides() error = %v", err)
	}

	got, err := repo.Rides(ctx, since("2025-07-01"))
	if err != nil {
		t.Fatalf("Rides() error = %v", err)
	}
	want := []activity.Ride{rides[1], more[1]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Rides() mismatch (-want +got):\n%s", diff)
	}
}

func TestRepository_Wellness(t *testing.T) {
	ctx := t.Context()
	repo := newRepository(t)

	records := []activity.Wellness{
		{Date: "2025-07-01", Fitness: 50, Fatigue: 60, RampRate: 1.5, RestingHR: 48},
		{Date: "2025-07-02", Fitness: 51, Fatigue: 62},
	}
	if err := repo.SaveWellness(ctx, records); err != nil {
		t.Fatalf("SaveWellness() error = %v", err)
	}
	records[1].Fatigue = 58
	if err := repo.SaveWellness(ctx, records[1:]); err != nil {
		t.Fatalf("SaveWellness() error = %v", err)
	}

	got, err := repo.Wellness(ctx, since("2025-07-02"))
	if err != nil {
		t.Fatalf("Wellness() error = %v", err)
	}
	if diff := cmp.Diff(records[1:], got); diff != "" {
		t.Errorf("Wellness() mismatch (-want +got):\n%s", diff)
	}
}

func TestRepository_PowerCurve(t *testing.T) {
	ctx := t.Context()
	repo := newRepository(t)

	if _, err := repo.LatestPowerCurve(ctx); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("LatestPowerCurve() error = %v, want ErrNotFound", err)
	}

	older := training.PowerCurve{Seconds: []float64{1, 60}, Watts: []float64{900, 400}}
	newer := training.PowerCurve{Seconds: []float64{1, 60, 1200}, Watts: []float64{950, 410, 280}}
	for _, c := range []training.PowerCurve{older, newer} {
		if err := repo.SavePowerCurve(ctx, c); err != nil {
			t.Fatalf("SavePowerCurve() error = %v", err)
		}
	}

	got, err := repo.LatestPowerCurve(ctx)
	if err != nil {
		t.Fatalf("LatestPowerCurve() error = %v", err)
	}
	if diff := cmp.Diff(newer, got); diff != "" {
		t.Errorf("LatestPowerCurve() mismatch (-want +got):\n%s", diff)
	}
}

func TestRepository_closedContext(t *testing.T) {
	repo := newRepository(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, err := repo.Rides(ctx, since("2025-01-01")); err == nil {
		t.Error("Rides() with cancelled context succeeded")
	}
}
