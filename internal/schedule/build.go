package schedule

import (
	"time"

	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/calendar"
	"github.com/myrjola/ridecoach/internal/ptr"
	"github.com/myrjola/ridecoach/internal/training"
)

// Options frame the date range of a schedule.
type Options struct {
	PlanStart time.Time
	Today     time.Time
	// WillRideToday marks today as still to be ridden when no ride is recorded yet.
	WillRideToday bool
	DaysBack      int
	DaysForward   int
}

// DefaultOptions covers the day before planStart and the following two weeks.
// Two weeks including the plan start.
const defaultDaysForward = 13

func DefaultOptions(planStart, today time.Time) Options {
	return Options{
		PlanStart:     planStart,
		Today:         today,
		WillRideToday: true,
		DaysBack:      1,
		DaysForward:   defaultDaysForward,
	}
}

// Build lays out one Day per date from PlanStart-DaysBack to PlanStart+DaysForward and fills in what the
// recorded rides and wellness say about each.
//
// Past days without a ride are rest days. Today without a ride, when the athlete will still ride, and all
// future days need a ride and start with unknown fitness, fatigue, form and load. When the first day is
// settled but has no fitness and fatigue of its own, they are carried forward from the newest earlier record.
func Build(rides []activity.Ride, wellness []activity.Wellness, opts Options) []Day {
	start := calendar.Day(opts.PlanStart)
	today := calendar.Day(opts.Today)

	days := make([]Day, 0, opts.DaysBack+opts.DaysForward+1)
	for offset := -opts.DaysBack; offset <= opts.DaysForward; offset++ {
		date := calendar.AddDays(start, offset)
		d := Day{Offset: offset, Date: calendar.FormatDate(date)}

		ride, hasRide := activity.RideOn(rides, d.Date)
		if w, ok := activity.WellnessOn(wellness, d.Date); ok {
			d.Fitness = ptr.Ref(w.Fitness)
			d.Fatigue = ptr.Ref(w.Fatigue)
		} else if hasRide {
			d.Fitness = ptr.Clone(ride.Fitness)
			d.Fatigue = ptr.Clone(ride.Fatigue)
		}
		if d.Fitness != nil && d.Fatigue != nil {
			d.Form = ptr.Ref(*d.Fitness - *d.Fatigue)
		}
		if hasRide {
			d.TrainingLoad = ptr.Ref(ride.TrainingLoad)
			d.Zone = ride.Zone
		}

		switch {
		case date.Before(today):
			if d.TrainingLoad == nil {
				d.TrainingLoad = ptr.Ref(0.0)
			}
		case date.After(today) || (!hasRide && opts.WillRideToday):
			d.NeedsRide = true
			d.Fitness, d.Fatigue, d.Form, d.TrainingLoad = nil, nil, nil, nil
		}
		days = append(days, d)
	}
	if len(days) > 0 && !days[0].NeedsRide {
		carryForward(&days[0], rides, wellness, calendar.AddDays(start, -opts.DaysBack))
	}
	return days
}

// carryForward fills in the unknown fitness and fatigue of the settled first day from the newest earlier
// wellness record or ride that has them, applying the recorded loads of the days in between.
func carryForward(d *Day, rides []activity.Ride, wellness []activity.Wellness, date time.Time) {
	if d.Fitness != nil && d.Fatigue != nil {
		return
	}
	base, fitness, fatigue, ok := baseline(rides, wellness, date)
	if !ok {
		return
	}
	for day := calendar.AddDays(base, 1); !day.After(date); day = calendar.AddDays(day, 1) {
		load := 0.0
		if r, found := activity.RideOn(rides, calendar.FormatDate(day)); found {
			load = r.TrainingLoad
		}
		fitness, fatigue = training.Fitness(fitness, load), training.Fatigue(fatigue, load)
	}
	d.Fitness, d.Fatigue = ptr.Ref(fitness), ptr.Ref(fatigue)
	d.Form = ptr.Ref(fitness - fatigue)
}

// baseline finds the newest day before date with a known fitness and fatigue. Wellness wins over a ride on
// the same day.
func baseline(rides []activity.Ride, wellness []activity.Wellness, date time.Time) (time.Time, float64, float64, bool) {
	var (
		base             time.Time
		fitness, fatigue float64
		found            bool
	)
	consider := func(dateText string, fit, fat float64, tieWins bool) {
		day, err := calendar.ParseDate(dateText)
		if err != nil || !day.Before(date) {
			return
		}
		if !found || day.After(base) || (tieWins && day.Equal(base)) {
			base, fitness, fatigue, found = day, fit, fat, true
		}
	}
	for _, r := range rides {
		if r.Fitness != nil && r.Fatigue != nil {
			consider(r.Date, *r.Fitness, *r.Fatigue, false)
		}
	}
	for _, w := range wellness {
		consider(w.Date, w.Fitness, w.Fatigue, true)
	}
	return base, fitness, fatigue, found
}
