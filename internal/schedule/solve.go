package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/myrjola/ridecoach/internal/logging"
	"github.com/myrjola/ridecoach/internal/ptr"
	"github.com/myrjola/ridecoach/internal/training"
)

// ErrUnsettledStart is returned when the first day of a schedule has no known load, fitness and fatigue to
// start the forward pass from.
var ErrUnsettledStart = errors.New("first day of the schedule is not settled")

const (
	// Loads solved from a form target below this are not worth a ride.
	minRideLoad       = 10
	defaultMinMinutes = 20
	defaultMaxMinutes = 9999999
)

// Solver fills in the training load of the days in a schedule.
type Solver struct {
	Catalog training.Catalog
	FTP     float64
	// Progressions are the interval blocks the athlete currently rides, one per zone.
	Progressions []training.Progression
	Logger       *slog.Logger
}

// Solve walks days in order and settles the load, fitness, fatigue and form of every day after the first,
// which seeds the running fitness and fatigue. The first day must be a past or recorded day with known
// load, fitness and fatigue, otherwise ErrUnsettledStart is returned.
//
// A day's load comes from, in order, its recorded or overridden training load, its target training load,
// its target form percentage, or its target form. Days that need a ride get ride options for that load;
// when nothing fits, or no load could be derived, the day becomes a rest day. Afterwards every day has
// form = fitness - fatigue.
func (s Solver) Solve(ctx context.Context, days []Day) error {
	if len(days) == 0 {
		return nil
	}
	first := &days[0]
	if first.NeedsRide || first.TrainingLoad == nil || first.Fitness == nil || first.Fatigue == nil {
		return fmt.Errorf("%w: %s", ErrUnsettledStart, first.Date)
	}
	fitness, fatigue := *first.Fitness, *first.Fatigue
	first.Form = ptr.Ref(fitness - fatigue)

	for i := 1; i < len(days); i++ {
		d := &days[i]
		dayCtx := logging.WithAttrs(ctx, slog.String("date", d.Date))

		if err := s.resolveTarget(d, days[i-1], fitness, fatigue); err != nil {
			return fmt.Errorf("solve %s: %w", d.Date, err)
		}
		if d.NeedsRide {
			s.planRide(dayCtx, d, fitness, fatigue)
		}
		if d.TrainingLoad == nil {
			s.logger().LogAttrs(dayCtx, slog.LevelWarn, "no training load for day, treating it as rest")
			d.TrainingLoad = ptr.Ref(0.0)
		}

		if d.Fitness == nil {
			d.Fitness = ptr.Ref(training.Fitness(fitness, *d.TrainingLoad))
		}
		if d.Fatigue == nil {
			d.Fatigue = ptr.Ref(training.Fatigue(fatigue, *d.TrainingLoad))
		}
		fitness, fatigue = *d.Fitness, *d.Fatigue
		d.Form = ptr.Ref(fitness - fatigue)
	}
	return nil
}

func (s Solver) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// resolveTarget turns the day's targets into a load, or into a form for the ride step to solve.
func (s Solver) resolveTarget(d *Day, previous Day, fitness, fatigue float64) error {
	if d.TrainingLoad != nil {
		return nil
	}
	switch {
	case d.TargetTrainingLoad != nil:
		settle(d, *d.TargetTrainingLoad, fitness, fatigue)
	case d.TargetFormPercent != nil:
		ratio, err := d.TargetFormPercent.Resolve(ptr.Deref(previous.Form, 0), ptr.Deref(previous.Fitness, 0))
		if err != nil {
			return err
		}
		load, err := training.LoadForFormRatio(fitness, fatigue, ratio)
		if err != nil {
			return fmt.Errorf("form percentage %s: %w", d.TargetFormPercent, err)
		}
		settle(d, math.Round(load), fitness, fatigue)
	case d.TargetForm != nil && d.Form == nil:
		form, ok := d.TargetForm.Resolve(ptr.Deref(previous.Form, 0))
		if !ok {
			settle(d, 0, fitness, fatigue)
			return nil
		}
		d.Form = ptr.Ref(form)
	}
	return nil
}

func settle(d *Day, load, fitness, fatigue float64) {
	d.TrainingLoad = ptr.Ref(load)
	d.Fitness = ptr.Ref(training.Fitness(fitness, load))
	d.Fatigue = ptr.Ref(training.Fatigue(fatigue, load))
	d.Form = ptr.Ref(*d.Fitness - *d.Fatigue)
}

func (s Solver) planRide(ctx context.Context, d *Day, fitness, fatigue float64) {
	load := 0.0
	switch {
	case d.TrainingLoad != nil:
		load = *d.TrainingLoad
	case d.Form != nil:
		load = training.RoundTenth(training.LoadForForm(fitness, fatigue, *d.Form))
		if load < minRideLoad {
			s.logger().LogAttrs(ctx, slog.LevelWarn, "training load below ride threshold, resting",
				slog.Float64("load", load), slog.Float64("form", *d.Form))
			load = 0
		}
	}

	options := training.TargetRides(s.Catalog, s.FTP, load,
		ptr.Deref(d.MinMinutes, defaultMinMinutes), ptr.Deref(d.MaxMinutes, defaultMaxMinutes), s.Progressions)
	d.RideOptions = make([]training.Prescription, 0, len(options))
	for _, o := range options {
		if d.MinZone != nil && *d.MinZone != 0 && o.Zone < *d.MinZone {
			continue
		}
		if d.MaxZone != nil && *d.MaxZone != 0 && o.Zone > *d.MaxZone {
			continue
		}
		d.RideOptions = append(d.RideOptions, o)
	}
	if len(d.RideOptions) == 0 && load != 0 {
		s.logger().LogAttrs(ctx, slog.LevelInfo, "no ride fits training load, resting", slog.Float64("load", load))
		load = 0
	}

	d.TrainingLoad = ptr.Ref(load)
	d.Fitness = ptr.Ref(training.Fitness(fitness, load))
	d.Fatigue = ptr.Ref(training.Fatigue(fatigue, load))
}
