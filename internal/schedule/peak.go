package schedule

import (
	"time"

	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/calendar"
)

// Peak is the seven day window with the highest total training load.
type Peak struct {
	Load float64
	From string
	To   string
}

// PeakWeek scans every seven day window starting from seasonStart up to the day before today for the
// highest total training load. Rides with unparsable dates are ignored.
func PeakWeek(seasonStart, today time.Time, rides []activity.Ride) Peak {
	start := calendar.Day(seasonStart)
	end := calendar.Day(today)

	dated := make(map[time.Time]float64, len(rides))
	for _, r := range rides {
		d, err := calendar.ParseDate(r.Date)
		if err != nil {
			continue
		}
		dated[d] += r.TrainingLoad
	}

	peak := Peak{Load: 0, From: calendar.FormatDate(start), To: calendar.FormatDate(calendar.AddDays(start, 6))}
	for day := start; day.Before(end); day = calendar.AddDays(day, 1) {
		load := 0.0
		for i := range 7 {
			load += dated[calendar.AddDays(day, i)]
		}
		if load > peak.Load {
			peak = Peak{Load: load, From: calendar.FormatDate(day), To: calendar.FormatDate(calendar.AddDays(day, 6))}
		}
	}
	return peak
}
