package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/myrjola/ridecoach/internal/calendar"
	"github.com/myrjola/ridecoach/internal/errors"
	"github.com/myrjola/ridecoach/internal/export"
	"github.com/myrjola/ridecoach/internal/history"
	"github.com/myrjola/ridecoach/internal/plan"
	"github.com/myrjola/ridecoach/internal/schedule"
	"github.com/myrjola/ridecoach/internal/sqlite"
)

// historyLookbackDays is how far before the first day of the schedule rides and wellness are read, so its
// fitness and fatigue can be carried forward from an older record.
const historyLookbackDays = 90

func runSchedule(ctx context.Context, app *application, args []string) error {
	fs := app.newFlagSet("schedule")
	planPath := fs.String("plan", "plan.yaml", "plan file")
	todayFlag := fs.String("today", "", "date of today (YYYY-MM-DD, default today)")
	asJSON := fs.Bool("json", false, "print the days as JSON instead of a table")
	parquetPath := fs.String("parquet", "", "also write the schedule to this Parquet file")
	zwoDir := fs.String("zwo-dir", "", "write the first ride option of every day to a Zwift workout in this directory")
	if done, err := parse(fs, args); done || err != nil {
		return err
	}
	today, err := app.today(*todayFlag)
	if err != nil {
		return err
	}
	p, err := plan.Load(*planPath)
	if err != nil {
		return errors.Wrap(err, "load plan")
	}
	catalog, err := p.LoadCatalog()
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	progressions, err := p.ResolveProgressions(catalog)
	if err != nil {
		return errors.Wrap(err, "resolve progressions")
	}
	opts := p.Options(today)

	var days []schedule.Day
	var ftp float64
	err = app.withHistory(ctx, func(_ *sqlite.Database, repo *history.Repository) error {
		since := calendar.AddDays(opts.PlanStart, -opts.DaysBack-historyLookbackDays)
		rides, err := repo.Rides(ctx, since)
		if err != nil {
			return errors.Wrap(err, "read rides")
		}
		wellness, err := repo.Wellness(ctx, since)
		if err != nil {
			return errors.Wrap(err, "read wellness")
		}
		if ftp, err = resolveFTP(p.FTP, rides); err != nil {
			return err
		}
		days = schedule.Build(rides, wellness, opts)
		return nil
	})
	if err != nil {
		return err
	}

	for _, o := range schedule.Apply(days, p.Overrides...) {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "override matches no day of the schedule",
			slog.String("override", o.String()))
	}
	solver := schedule.Solver{Catalog: catalog, FTP: ftp, Progressions: progressions, Logger: app.logger}
	if err = solver.Solve(ctx, days); err != nil {
		return errors.Wrap(err, "solve schedule")
	}

	if *parquetPath != "" {
		if err = export.WriteScheduleParquet(*parquetPath, days); err != nil {
			return errors.Wrap(err, "export parquet")
		}
	}
	if *zwoDir != "" {
		if err = writeWorkouts(*zwoDir, days, export.Workout{ //nolint:exhaustruct // name is set per day.
			Author:          "ridecoach",
			FTP:             ftp,
			WarmupMinutes:   p.WarmupMinutes,
			CooldownMinutes: p.CooldownMinutes,
		}); err != nil {
			return err
		}
	}

	if *asJSON {
		enc := json.NewEncoder(app.stdout)
		enc.SetIndent("", "  ")
		if err = enc.Encode(days); err != nil {
			return errors.Wrap(err, "encode days")
		}
		return nil
	}
	renderSchedule(app, days)
	return nil
}

func writeWorkouts(dir string, days []schedule.Day, w export.Workout) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrap(err, "create workout directory")
	}
	for _, d := range days {
		if len(d.RideOptions) == 0 {
			continue
		}
		ride := d.RideOptions[0]
		w.Name = fmt.Sprintf("%s %s", d.Date, ride.Name)
		b, err := export.ZWO(ride, w)
		if err != nil {
			return errors.Wrap(err, "encode workout", slog.String("date", d.Date))
		}
		path := filepath.Join(dir, d.Date+".zwo")
		if err = os.WriteFile(path, b, 0o600); err != nil {
			return errors.Wrap(err, "write workout", slog.String("path", path))
		}
	}
	return nil
}

func renderSchedule(app *application, days []schedule.Day) {
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		target := ""
		switch {
		case d.TargetTrainingLoad != nil:
			target = "load " + formatFloat(*d.TargetTrainingLoad)
		case d.TargetFormPercent != nil:
			target = "form% " + d.TargetFormPercent.String()
		case d.TargetForm != nil:
			target = "form " + d.TargetForm.String()
		}
		weekday := ""
		if t, err := calendar.ParseDate(d.Date); err == nil {
			weekday = calendar.Weekday(t)[:3]
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", d.Offset),
			d.Date,
			weekday,
			formatOptional(d.TrainingLoad),
			formatOptional(d.Fitness),
			formatOptional(d.Fatigue),
			formatOptional(d.Form),
			target,
			rideOptions(d),
		})
	}
	renderTable(app.stdout,
		[]string{"#", "Date", "Day", "Load", "Fitness", "Fatigue", "Form", "Target", "Ride"},
		rows, func(row int) bool { return days[row].Rest() })
}

func rideOptions(d schedule.Day) string {
	switch {
	case len(d.RideOptions) > 0:
		options := make([]string, 0, len(d.RideOptions))
		for _, o := range d.RideOptions {
			options = append(options, o.String())
		}
		return strings.Join(options, "\n")
	case d.NeedsRide:
		return "rest"
	case d.Zone > 0:
		return fmt.Sprintf("ridden in Z%d", d.Zone)
	default:
		return ""
	}
}
