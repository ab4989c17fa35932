package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/calendar"
	"github.com/myrjola/ridecoach/internal/climb"
	"github.com/myrjola/ridecoach/internal/errors"
	"github.com/myrjola/ridecoach/internal/history"
	"github.com/myrjola/ridecoach/internal/schedule"
	"github.com/myrjola/ridecoach/internal/sqlite"
	"github.com/myrjola/ridecoach/internal/training"
)

const (
	defaultPounds     = 220
	defaultRPM        = 60
	defaultGearInches = 20.7
	defaultCapacity   = 0.95
	ftpLookbackDays   = 90

	defaultFuelZone        = 2
	defaultFuelMinHours    = 2
	defaultFuelHours       = 3
	defaultFeedMinutes     = 45
	defaultFuelHistoryDays = 365
)

var errInvalidFlag = errors.NewSentinel("invalid flag")

// ridesSince reads the stored rides from since onwards.
func (app *application) ridesSince(ctx context.Context, since time.Time) ([]activity.Ride, error) {
	var rides []activity.Ride
	err := app.withHistory(ctx, func(_ *sqlite.Database, repo *history.Repository) error {
		var err error
		rides, err = repo.Rides(ctx, since)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "read rides")
	}
	return rides, nil
}

// ftpFlag resolves --ftp, looking at the last 90 days of rides when it is not given.
func (app *application) ftpFlag(ctx context.Context, ftp float64) (float64, error) {
	if ftp > 0 {
		return ftp, nil
	}
	rides, err := app.ridesSince(ctx, calendar.AddDays(app.now(), -ftpLookbackDays))
	if err != nil {
		return 0, err
	}
	return resolveFTP(0, rides)
}

func runZones(ctx context.Context, app *application, args []string) error {
	fs := app.newFlagSet("zones")
	ftpValue := fs.Float64("ftp", 0, "FTP in watts (default: from the ride history)")
	if done, err := parse(fs, args); done || err != nil {
		return err
	}
	ftp, err := app.ftpFlag(ctx, *ftpValue)
	if err != nil {
		return err
	}

	zones := training.Zones(ftp)
	rows := make([][]string, 0, len(zones))
	for _, z := range zones {
		rows = append(rows, []string{fmt.Sprintf("%d", z.Number), z.Name, z.String()})
	}
	renderTable(app.stdout, []string{"Zone", "Name", "Power"}, rows, nil)

	ranges := training.LoadRanges(training.DefaultCatalog(), ftp)
	rows = make([][]string, 0, len(ranges))
	for _, r := range ranges {
		rows = append(rows, []string{r.Name, fmt.Sprintf("%g", r.Zone), formatFloat(r.Low), formatFloat(r.High)})
	}
	renderTable(app.stdout, []string{"Ride", "Zone", "Min load", "Max load"}, rows, nil)
	return nil
}

func runClimb(ctx context.Context, app *application, args []string) error {
	fs := app.newFlagSet("climb")
	miles := fs.Float64("miles", 0, "length of the climb in miles")
	feet := fs.Float64("feet", 0, "elevation gain in feet")
	pounds := fs.Float64("pounds", defaultPounds, "rider and bike weight in pounds")
	ftpValue := fs.Float64("ftp", 0, "FTP in watts (default: from the ride history)")
	capacity := fs.Float64("capacity", defaultCapacity, "fraction of the best power to ride at")
	model := fs.String("model", "curve", "power at duration model: curve, coggan or powerlaw")
	if done, err := parse(fs, args); done || err != nil {
		return err
	}
	ftp, err := app.ftpFlag(ctx, *ftpValue)
	if err != nil {
		return err
	}

	var powerAt climb.PowerAtDuration
	switch *model {
	case "curve":
		var curve training.PowerCurve
		err = app.withHistory(ctx, func(_ *sqlite.Database, repo *history.Repository) error {
			curve, err = repo.LatestPowerCurve(ctx)
			return err
		})
		if err != nil {
			return errors.Wrap(err, "read power curve")
		}
		powerAt = curve.At
	case "coggan":
		powerAt = func(seconds float64) (float64, error) { return training.CogganPower(ftp, seconds) }
	case "powerlaw":
		powerAt = func(seconds float64) (float64, error) { return training.PowerLaw(ftp, seconds), nil }
	default:
		return errors.Wrap(errInvalidFlag, "unknown --model", slog.String("model", *model))
	}

	course := climb.Course{Miles: *miles, ElevationFeet: *feet}
	rider := climb.Rider{MassPounds: *pounds}
	est, err := climb.FromPowerAtDuration(course, rider, climb.DefaultEnvironment(), powerAt, ftp, *capacity)
	if errors.Is(err, climb.ErrNoConvergence) {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "climb estimate did not converge, showing the last guess")
	} else if err != nil {
		return errors.Wrap(err, "estimate climb")
	}

	renderTable(app.stdout, []string{"Watts", "Time", "Mph", "Grade"}, [][]string{{
		fmt.Sprintf("%.0f", est.Watts),
		activity.FormatMovingTime(int(math.Round(est.Seconds))),
		fmt.Sprintf("%.1f", est.Mph(course)),
		fmt.Sprintf("%.1f%%", course.AverageGrade()),
	}}, nil)
	return nil
}

func runGrades(ctx context.Context, app *application, args []string) error {
	fs := app.newFlagSet("grades")
	ftpValue := fs.Float64("ftp", 0, "FTP in watts (default: from the ride history)")
	pounds := fs.Float64("pounds", defaultPounds, "rider and bike weight in pounds")
	rpm := fs.Float64("rpm", defaultRPM, "lowest cadence you are willing to climb at")
	gear := fs.Float64("gear-inches", defaultGearInches, "lowest gear in gear inches")
	if done, err := parse(fs, args); done || err != nil {
		return err
	}
	ftp, err := app.ftpFlag(ctx, *ftpValue)
	if err != nil {
		return err
	}

	grades, err := climb.MaxGrades(ftp, climb.Rider{MassPounds: *pounds}, climb.DefaultEnvironment(), *rpm, *gear)
	if err != nil {
		return errors.Wrap(err, "max grades")
	}
	printf(app.stdout, "Speed at %.0f rpm in %.1f gear inches: %.2f mph\n", *rpm, *gear,
		climb.MphFromGearInches(*rpm, *gear))
	rows := make([][]string, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, []string{
			fmt.Sprintf("%d", g.Zone), g.Name, fmt.Sprintf("%.0f", g.Watts), fmt.Sprintf("%.2f%%", g.Grade),
		})
	}
	renderTable(app.stdout, []string{"Zone", "Name", "Watts", "Max grade"}, rows, nil)
	return nil
}

func runVolume(_ context.Context, app *application, args []string) error {
	fs := app.newFlagSet("volume")
	fitness := fs.Float64("fitness", 0, "fitness to hold")
	mix := fs.Float64Slice("mix", training.DefaultZoneMix[:], "relative time in zones 1 to 7")
	if done, err := parse(fs, args); done || err != nil {
		return err
	}
	if len(*mix) != len(training.CogganZones) {
		return errors.Wrap(errInvalidFlag, "--mix needs one value per zone", slog.Int("values", len(*mix)))
	}
	var shares [len(training.CogganZones)]float64
	copy(shares[:], *mix)

	v, err := training.PlanWeeklyVolume(*fitness, shares)
	if err != nil {
		return errors.Wrap(err, "plan weekly volume")
	}
	printf(app.stdout, "Weekly load %.0f in %s\n", v.TargetLoad, training.FormatMinutes(v.Minutes))
	rows := make([][]string, 0, len(v.Zones))
	for _, z := range v.Zones {
		rows = append(rows, []string{fmt.Sprintf("%d", z.Zone), training.FormatMinutes(z.Minutes), formatFloat(z.Load)})
	}
	renderTable(app.stdout, []string{"Zone", "Time", "Load"}, rows, nil)
	return nil
}

func runPeak(ctx context.Context, app *application, args []string) error {
	fs := app.newFlagSet("peak")
	seasonFlag := fs.String("season-start", "", "first day of the season (YYYY-MM-DD)")
	todayFlag := fs.String("today", "", "date of today (YYYY-MM-DD, default today)")
	if done, err := parse(fs, args); done || err != nil {
		return err
	}
	season, err := calendar.ParseDate(*seasonFlag)
	if err != nil {
		return errors.Wrap(errInvalidFlag, "--season-start", slog.String("value", *seasonFlag))
	}
	today, err := app.today(*todayFlag)
	if err != nil {
		return err
	}
	rides, err := app.ridesSince(ctx, season)
	if err != nil {
		return err
	}

	peak := schedule.PeakWeek(season, today, rides)
	printf(app.stdout, "Peak week %s to %s with load %.0f\n", peak.From, peak.To, peak.Load)
	return nil
}

func runFuel(ctx context.Context, app *application, args []string) error {
	fs := app.newFlagSet("fuel")
	zone := fs.Int("zone", defaultFuelZone, "zone of the planned ride")
	minHours := fs.Float64("min-hours", defaultFuelMinHours, "only learn from rides at least this long")
	hours := fs.Float64("hours", defaultFuelHours, "length of the planned ride")
	feedMinutes := fs.Float64("feed-minutes", defaultFeedMinutes, "minutes between feeds")
	days := fs.Int("days", defaultFuelHistoryDays, "learn from rides of this many past days")
	if done, err := parse(fs, args); done || err != nil {
		return err
	}
	if *zone < 1 || *zone > len(training.CogganZones) {
		return errors.Wrap(errInvalidFlag, "--zone", slog.Int("zone", *zone))
	}
	rides, err := app.ridesSince(ctx, calendar.AddDays(app.now(), -*days))
	if err != nil {
		return err
	}

	plan, err := training.PlanFuel(rides, training.CogganZones[*zone-1], *minHours, *hours, *feedMinutes)
	if err != nil {
		return errors.Wrap(err, "plan fuel")
	}
	renderTable(app.stdout, []string{"Rides", "Carbs g/h", "Total g", "Per feed g"}, [][]string{{
		fmt.Sprintf("%d", plan.Rides),
		fmt.Sprintf("%.0f", plan.CarbGramsPerHour),
		fmt.Sprintf("%.0f", plan.TotalCarbGrams),
		fmt.Sprintf("%.0f", plan.CarbGramsPerFeed),
	}}, nil)
	return nil
}
