package schedule_test

import (
	"context"
	"errors"
	"testing"

	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/ptr"
	"github.com/myrjola/ridecoach/internal/schedule"
	"github.com/myrjola/ridecoach/internal/testhelpers"
	"github.com/myrjola/ridecoach/internal/training"
)

func newSolver(t *testing.T) schedule.Solver {
	t.Helper()
	return schedule.Solver{
		Catalog:      training.DefaultCatalog(),
		FTP:          250,
		Progressions: []training.Progression{{Zone: 4, Reps: 2, Minutes: 10}},
		Logger:       testhelpers.NewLogger(testhelpers.NewWriter(t)),
	}
}

// seeded returns a settled first day with fitness 50 and fatigue 80 followed by day.
func seeded(day schedule.Day) []schedule.Day {
	day.Offset, day.Date = 1, "2025-07-08"
	return []schedule.Day{
		{Offset: 0, Date: "2025-07-07", Fitness: ptr.Ref(50.0), Fatigue: ptr.Ref(80.0), TrainingLoad: ptr.Ref(0.0)},
		day,
	}
}

func TestSolve_targets(t *testing.T) {
	tests := []struct {
		name     string
		day      schedule.Day
		wantLoad float64
		wantForm float64
	}{
		{
			name:     "target form",
			day:      schedule.Day{NeedsRide: true, TargetForm: ptr.Ref(schedule.AbsoluteForm(-25))},
			wantLoad: 44,
			wantForm: -25,
		},
		{
			name:     "maintain keeps the previous form",
			day:      schedule.Day{NeedsRide: true, TargetForm: ptr.Ref(schedule.MaintainForm())},
			wantLoad: 86,
			wantForm: -30,
		},
		{
			name:     "delta on the previous form",
			day:      schedule.Day{NeedsRide: true, TargetForm: ptr.Ref(schedule.DeltaForm(5))},
			wantLoad: 44,
			wantForm: -25,
		},
		{
			name:     "decay rests",
			day:      schedule.Day{NeedsRide: true, TargetForm: ptr.Ref(schedule.DecayForm())},
			wantLoad: 0,
			wantForm: training.Fitness(50, 0) - training.Fatigue(80, 0),
		},
		{
			name:     "form percentage delta",
			day:      schedule.Day{TargetFormPercent: ptr.Ref(schedule.DeltaPercent(0.1))},
			wantLoad: 43,
			wantForm: training.Fitness(50, 43) - training.Fatigue(80, 43),
		},
		{
			name: "target load beats target form",
			day: schedule.Day{
				NeedsRide: true, TargetTrainingLoad: ptr.Ref(60.0), TargetForm: ptr.Ref(schedule.AbsoluteForm(0)),
			},
			wantLoad: 60,
			wantForm: training.Fitness(50, 60) - training.Fatigue(80, 60),
		},
		{
			name:     "known load beats targets",
			day:      schedule.Day{TrainingLoad: ptr.Ref(30.0), TargetTrainingLoad: ptr.Ref(100.0)},
			wantLoad: 30,
			wantForm: training.Fitness(50, 30) - training.Fatigue(80, 30),
		},
		{
			name:     "small loads become rest",
			day:      schedule.Day{NeedsRide: true, TargetForm: ptr.Ref(schedule.AbsoluteForm(-20.5))},
			wantLoad: 0,
			wantForm: training.Fitness(50, 0) - training.Fatigue(80, 0),
		},
		{
			name:     "unsettled day rests",
			day:      schedule.Day{},
			wantLoad: 0,
			wantForm: training.Fitness(50, 0) - training.Fatigue(80, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := seeded(tt.day)
			if err := newSolver(t).Solve(context.Background(), days); err != nil {
				t.Fatalf("Solve() error = %v", err)
			}
			d := days[1]
			if got := ptr.Deref(d.TrainingLoad, -1); got != tt.wantLoad {
				t.Errorf("TrainingLoad = %v, want %v", got, tt.wantLoad)
			}
			if got := ptr.Deref(d.Form, 999); !approxEqual(got, tt.wantForm) {
				t.Errorf("Form = %v, want %v", got, tt.wantForm)
			}
			if d.NeedsRide && tt.wantLoad > 0 && len(d.RideOptions) == 0 {
				t.Error("no ride options for a ride day")
			}
		})
	}
}

func TestSolve_noFeasibleRide(t *testing.T) {
	days := seeded(schedule.Day{NeedsRide: true, TargetTrainingLoad: ptr.Ref(100.0), MaxMinutes: ptr.Ref(5.0)})
	if err := newSolver(t).Solve(context.Background(), days); err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	d := days[1]
	if ptr.Deref(d.TrainingLoad, -1) != 0 {
		t.Errorf("TrainingLoad = %v, want 0", ptr.Deref(d.TrainingLoad, -1))
	}
	if d.RideOptions == nil || len(d.RideOptions) != 0 {
		t.Errorf("RideOptions = %#v, want an empty list", d.RideOptions)
	}
	if want := training.Fitness(50, 0); !approxEqual(ptr.Deref(d.Fitness, 0), want) {
		t.Errorf("Fitness = %v, want %v", ptr.Deref(d.Fitness, 0), want)
	}
}

func TestSolve_zoneFilter(t *testing.T) {
	days := seeded(schedule.Day{
		NeedsRide: true, TargetTrainingLoad: ptr.Ref(80.0), MinZone: ptr.Ref(2.6), MaxZone: ptr.Ref(4.0),
	})
	if err := newSolver(t).Solve(context.Background(), days); err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if len(days[1].RideOptions) == 0 {
		t.Fatal("no ride options")
	}
	for _, o := range days[1].RideOptions {
		if o.Zone < 2.6 || o.Zone > 4 {
			t.Errorf("option %v outside zones 2.6-4", o)
		}
	}
}

func TestSolve_errors(t *testing.T) {
	tests := []struct {
		name    string
		days    []schedule.Day
		wantErr error
	}{
		{
			name:    "degenerate form percentage",
			days:    seeded(schedule.Day{TargetFormPercent: ptr.Ref(schedule.AbsolutePercent(-5))}),
			wantErr: training.ErrDegenerateTarget,
		},
		{
			name: "relative percentage without fitness",
			days: []schedule.Day{
				{Offset: 0, Date: "2025-07-07", TrainingLoad: ptr.Ref(0.0), Fitness: ptr.Ref(0.0), Fatigue: ptr.Ref(0.0)},
				{Offset: 1, Date: "2025-07-08", TargetFormPercent: ptr.Ref(schedule.DeltaPercent(0.1))},
			},
			wantErr: schedule.ErrNoBaseline,
		},
		{
			name: "first day needs a ride",
			days: []schedule.Day{
				{Offset: 0, Date: "2025-07-07", NeedsRide: true, TargetTrainingLoad: ptr.Ref(80.0)},
				{Offset: 1, Date: "2025-07-08", NeedsRide: true},
			},
			wantErr: schedule.ErrUnsettledStart,
		},
		{
			name: "first day without fitness",
			days: []schedule.Day{
				{Offset: 0, Date: "2025-07-07", TrainingLoad: ptr.Ref(0.0)},
				{Offset: 1, Date: "2025-07-08", NeedsRide: true},
			},
			wantErr: schedule.ErrUnsettledStart,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newSolver(t).Solve(context.Background(), tt.days)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Solve() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSolve_buildOverlaySolve(t *testing.T) {
	opts := schedule.DefaultOptions(date(t, "2025-07-07"), date(t, "2025-07-07"))
	days := schedule.Build(nil, nil, opts)
	days[0].Fitness, days[0].Fatigue = ptr.Ref(60.0), ptr.Ref(55.0)

	unmatched := schedule.Apply(days,
		schedule.Override{Offset: ptr.Ref(0), TargetForm: ptr.Ref(schedule.AbsoluteForm(-10))},
		schedule.Override{Offset: ptr.Ref(1), TargetForm: ptr.Ref(schedule.MaintainForm())},
		schedule.Override{Offset: ptr.Ref(2), TargetForm: ptr.Ref(schedule.DecayForm())},
		schedule.Override{Offset: ptr.Ref(3), TargetTrainingLoad: ptr.Ref(120.0), MinMinutes: ptr.Ref(60.0)},
	)
	if len(unmatched) != 0 {
		t.Fatalf("unmatched overrides %v", unmatched)
	}
	if err := newSolver(t).Solve(context.Background(), days); err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	for _, d := range days {
		if d.TrainingLoad == nil || d.Fitness == nil || d.Fatigue == nil || d.Form == nil {
			t.Fatalf("%s left unsettled: %+v", d.Date, d)
		}
		if !approxEqual(*d.Form, *d.Fitness-*d.Fatigue) {
			t.Errorf("%s: form %v != fitness %v - fatigue %v", d.Date, *d.Form, *d.Fitness, *d.Fatigue)
		}
		if d.NeedsRide && *d.TrainingLoad > 0 && len(d.RideOptions) == 0 {
			t.Errorf("%s: load %v without ride options", d.Date, *d.TrainingLoad)
		}
	}
	if !days[3].Rest() {
		t.Errorf("decay day load = %v, want 0", *days[3].TrainingLoad)
	}
}

func TestSolve_startingToday(t *testing.T) {
	today := date(t, "2025-07-07")
	opts := schedule.DefaultOptions(today, today)
	opts.DaysBack = 0
	wellness := []activity.Wellness{{Date: "2025-07-07", Fitness: 50, Fatigue: 60}}
	days := schedule.Build(nil, wellness, opts)
	schedule.Apply(days, schedule.Override{Offset: ptr.Ref(0), TargetTrainingLoad: ptr.Ref(80.0)})

	err := newSolver(t).Solve(context.Background(), days)
	if !errors.Is(err, schedule.ErrUnsettledStart) {
		t.Errorf("Solve() error = %v, want %v", err, schedule.ErrUnsettledStart)
	}
}

func TestSolve_seedCarriedFromEarlierWellness(t *testing.T) {
	today := date(t, "2025-07-07")
	opts := schedule.DefaultOptions(today, today)
	opts.DaysForward = 1
	wellness := []activity.Wellness{{Date: "2025-07-04", Fitness: 50, Fatigue: 60}}
	rides := []activity.Ride{{Date: "2025-07-05", TrainingLoad: 90}}
	days := schedule.Build(rides, wellness, opts)
	schedule.Apply(days, schedule.Override{Offset: ptr.Ref(0), TargetTrainingLoad: ptr.Ref(80.0)})

	if err := newSolver(t).Solve(context.Background(), days); err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	fitness, fatigue := 50.0, 60.0
	for _, load := range []float64{90, 0} {
		fitness, fatigue = training.Fitness(fitness, load), training.Fatigue(fatigue, load)
	}
	if !approxEqual(ptr.Deref(days[0].Fitness, 0), fitness) || !approxEqual(ptr.Deref(days[0].Fatigue, 0), fatigue) {
		t.Errorf("seed = %v/%v, want %v/%v", ptr.Deref(days[0].Fitness, 0), ptr.Deref(days[0].Fatigue, 0),
			fitness, fatigue)
	}
	d := days[1]
	if ptr.Deref(d.TrainingLoad, -1) != 80 {
		t.Errorf("TrainingLoad = %v, want 80", ptr.Deref(d.TrainingLoad, -1))
	}
	if want := training.Fitness(fitness, 80); !approxEqual(ptr.Deref(d.Fitness, 0), want) {
		t.Errorf("Fitness = %v, want %v", ptr.Deref(d.Fitness, 0), want)
	}
	if !approxEqual(ptr.Deref(d.Form, 999), *d.Fitness-*d.Fatigue) {
		t.Errorf("Form = %v, want fitness - fatigue", ptr.Deref(d.Form, 999))
	}
}
