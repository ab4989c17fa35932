package coach

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/calendar"
	"github.com/myrjola/ridecoach/internal/training"
)

const daysPerWeek = 7

// WeekBrief is what the rider tells the coach about the week, one bullet per entry.
type WeekBrief struct {
	Restrictions []string `yaml:"restrictions"`
	Notes        []string `yaml:"notes"`
	Goals        []string `yaml:"goals"`
	Food         []string `yaml:"food"`
	// NextWeek plans the following week, for use once the current one is done.
	NextWeek bool `yaml:"nextWeek"`
}

// WeekData builds the placeholder values of the weekly planning prompt.
//
// The days of the week up to today are added to the restrictions as already decided: a ride on the day is
// described by its distance, duration and zone and a day without one is a rest day. Today without a ride is
// left open.
func WeekData(rides []activity.Ride, ftp float64, today time.Time, brief WeekBrief) (map[string]string, error) {
	start := calendar.Monday(today)
	if brief.NextWeek {
		start = calendar.AddDays(start, daysPerWeek)
	}
	activities, err := json.Marshal(rides)
	if err != nil {
		return nil, fmt.Errorf("marshal activities: %w", err)
	}

	restrictions := append([]string{}, brief.Restrictions...)
	restrictions = append(restrictions, PastDayLines(rides, ftp, today, start)...)

	data := map[string]string{
		"activities":   string(activities),
		"today":        calendar.FormatDate(today),
		"startDate":    calendar.FormatDate(start),
		"endDate":      calendar.FormatDate(calendar.AddDays(start, daysPerWeek-1)),
		"ftp":          strconv.FormatFloat(ftp, 'f', -1, 64),
		"restrictions": bullets(restrictions),
		"notes":        bullets(brief.Notes),
		"goals":        bullets(brief.Goals),
		"food":         bullets(brief.Food),
	}
	for key, value := range ZoneStrings(ftp) {
		data[key] = value
	}
	return data, nil
}

// PastDayLines describes the days from start up to today.
func PastDayLines(rides []activity.Ride, ftp float64, today, start time.Time) []string {
	todayDate := calendar.FormatDate(today)
	zones := training.Zones(ftp)
	var lines []string
	for _, day := range calendar.PastDays(today, start) {
		ride, ok := activity.RideOn(rides, day)
		switch {
		case !ok && day == todayDate:
			continue
		case !ok:
			lines = append(lines, fmt.Sprintf("On %s, I will rest.", day))
		default:
			lines = append(lines, fmt.Sprintf("On %s, I will ride %s miles, for %s, in %s.",
				day, strconv.FormatFloat(ride.Miles, 'f', -1, 64), ride.Duration(),
				zoneName(ride.NormalizedWatts, zones)))
		}
	}
	return lines
}

func zoneName(np float64, zones []training.ZoneBand) string {
	z, err := training.ZoneForPower(np, zones)
	if err != nil {
		return "an unknown zone"
	}
	return fmt.Sprintf("Zone %d %s", z.Number, z.Name)
}

// ZoneStrings keys every zone's watt range by its snake case name, for example zone_2_endurance.
func ZoneStrings(ftp float64) map[string]string {
	out := make(map[string]string, len(training.CogganZones))
	for _, z := range training.Zones(ftp) {
		key := fmt.Sprintf("zone_%d_%s", z.Number, strings.ReplaceAll(strings.ToLower(z.Name), " ", "_"))
		if math.IsInf(z.MaxWatts, 1) {
			out[key] = fmt.Sprintf("%.0f+ W", z.MinWatts)
			continue
		}
		out[key] = fmt.Sprintf("%.0f-%.0f W", z.MinWatts, z.MaxWatts)
	}
	return out
}

func bullets(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}
