package schedule_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/ptr"
	"github.com/myrjola/ridecoach/internal/schedule"
	"github.com/myrjola/ridecoach/internal/training"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestBuild(t *testing.T) {
	rides := []activity.Ride{
		{Date: "2025-07-06", TrainingLoad: 80, Fitness: ptr.Ref(50.0), Fatigue: ptr.Ref(60.0), Zone: 2},
	}
	wellness := []activity.Wellness{{Date: "2025-07-06", Fitness: 51, Fatigue: 61}}
	opts := schedule.DefaultOptions(date(t, "2025-07-07"), date(t, "2025-07-07"))
	opts.DaysForward = 2

	got := schedule.Build(rides, wellness, opts)
	want := []schedule.Day{
		{
			Offset: -1, Date: "2025-07-06", Fitness: ptr.Ref(51.0), Fatigue: ptr.Ref(61.0), Form: ptr.Ref(-10.0),
			TrainingLoad: ptr.Ref(80.0), Zone: 2,
		},
		{Offset: 0, Date: "2025-07-07", NeedsRide: true},
		{Offset: 1, Date: "2025-07-08", NeedsRide: true},
		{Offset: 2, Date: "2025-07-09", NeedsRide: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_pastDaysWithoutRideAreRest(t *testing.T) {
	opts := schedule.DefaultOptions(date(t, "2025-07-07"), date(t, "2025-07-09"))
	opts.DaysForward = 3

	days := schedule.Build(nil, nil, opts)
	for _, d := range days[:3] {
		if !d.Rest() || d.NeedsRide {
			t.Errorf("%s: want a rest day, got %+v", d.Date, d)
		}
	}
	for _, d := range days[3:] {
		if !d.NeedsRide || d.TrainingLoad != nil {
			t.Errorf("%s: want a day that needs a ride, got %+v", d.Date, d)
		}
	}
}

func TestBuild_notRidingToday(t *testing.T) {
	opts := schedule.DefaultOptions(date(t, "2025-07-07"), date(t, "2025-07-07"))
	opts.WillRideToday = false
	opts.DaysBack = 0
	opts.DaysForward = 1

	days := schedule.Build(nil, nil, opts)
	if days[0].NeedsRide || days[0].TrainingLoad != nil {
		t.Errorf("today = %+v, want neither a ride nor a known load", days[0])
	}
	if !days[1].NeedsRide {
		t.Errorf("tomorrow = %+v, want a ride", days[1])
	}
}

func TestBuild_recordedRideToday(t *testing.T) {
	rides := []activity.Ride{{Date: "2025-07-07", TrainingLoad: 65, Zone: 3}}
	opts := schedule.DefaultOptions(date(t, "2025-07-07"), date(t, "2025-07-07"))
	opts.DaysBack = 0
	opts.DaysForward = 0

	days := schedule.Build(rides, nil, opts)
	if days[0].NeedsRide || ptr.Deref(days[0].TrainingLoad, -1) != 65 {
		t.Errorf("today = %+v, want the recorded load", days[0])
	}
}

func TestBuild_carriesFitnessForward(t *testing.T) {
	tests := []struct {
		name         string
		rides        []activity.Ride
		wellness     []activity.Wellness
		wantFitness  *float64
		wantFatigue  *float64
		wantFirstDay string
	}{
		{
			name:         "from earlier wellness across a ride and a rest day",
			rides:        []activity.Ride{{Date: "2025-07-05", TrainingLoad: 90}},
			wellness:     []activity.Wellness{{Date: "2025-07-04", Fitness: 50, Fatigue: 60}},
			wantFitness:  ptr.Ref(training.Fitness(training.Fitness(50, 90), 0)),
			wantFatigue:  ptr.Ref(training.Fatigue(training.Fatigue(60, 90), 0)),
			wantFirstDay: "2025-07-06",
		},
		{
			name: "from a ride that carries its own fitness",
			rides: []activity.Ride{
				{Date: "2025-07-05", TrainingLoad: 40, Fitness: ptr.Ref(30.0), Fatigue: ptr.Ref(20.0)},
			},
			wantFitness:  ptr.Ref(training.Fitness(30, 0)),
			wantFatigue:  ptr.Ref(training.Fatigue(20, 0)),
			wantFirstDay: "2025-07-06",
		},
		{
			name: "wellness wins over a ride on the same day",
			rides: []activity.Ride{
				{Date: "2025-07-05", TrainingLoad: 40, Fitness: ptr.Ref(30.0), Fatigue: ptr.Ref(20.0)},
			},
			wellness:     []activity.Wellness{{Date: "2025-07-05", Fitness: 70, Fatigue: 10}},
			wantFitness:  ptr.Ref(training.Fitness(70, 0)),
			wantFatigue:  ptr.Ref(training.Fatigue(10, 0)),
			wantFirstDay: "2025-07-06",
		},
		{
			name:         "no earlier record",
			wellness:     []activity.Wellness{{Date: "2025-07-08", Fitness: 70, Fatigue: 10}},
			wantFirstDay: "2025-07-06",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := schedule.DefaultOptions(date(t, "2025-07-07"), date(t, "2025-07-07"))
			opts.DaysForward = 1

			first := schedule.Build(tt.rides, tt.wellness, opts)[0]
			if first.Date != tt.wantFirstDay {
				t.Fatalf("first day = %s, want %s", first.Date, tt.wantFirstDay)
			}
			if diff := cmp.Diff(tt.wantFitness, first.Fitness, cmpApprox); diff != "" {
				t.Errorf("Fitness mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantFatigue, first.Fatigue, cmpApprox); diff != "" {
				t.Errorf("Fatigue mismatch (-want +got):\n%s", diff)
			}
			if tt.wantFitness != nil && (first.Form == nil || !approxEqual(*first.Form, *first.Fitness-*first.Fatigue)) {
				t.Errorf("Form = %v, want fitness - fatigue", first.Form)
			}
		})
	}
}
