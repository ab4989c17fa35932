package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/calendar"
	"github.com/myrjola/ridecoach/internal/errors"
	"github.com/myrjola/ridecoach/internal/fitfile"
	"github.com/myrjola/ridecoach/internal/history"
	"github.com/myrjola/ridecoach/internal/intervals"
	"github.com/myrjola/ridecoach/internal/sqlite"
)

const (
	defaultSyncRideDays     = 90
	defaultSyncWellnessDays = 21
)

func runSync(ctx context.Context, app *application, args []string) error {
	fs := app.newFlagSet("sync")
	rideDays := fs.Int("days", defaultSyncRideDays, "fetch rides of this many past days")
	wellnessDays := fs.Int("wellness-days", defaultSyncWellnessDays, "fetch wellness of this many past days")
	dump := fs.String("dump", "", "also write the pruned rides as JSON to this file, e.g. activities.json")
	todayFlag := fs.String("today", "", "date to count back from (YYYY-MM-DD, default today)")
	if done, err := parse(fs, args); done || err != nil {
		return err
	}
	today, err := app.today(*todayFlag)
	if err != nil {
		return err
	}
	client, err := app.intervalsClient()
	if err != nil {
		return err
	}

	return app.withHistory(ctx, func(_ *sqlite.Database, repo *history.Repository) error {
		syncer := history.NewSyncer(client, repo, app.logger)
		res, err := syncer.Sync(ctx, calendar.AddDays(today, -*rideDays), calendar.AddDays(today, -*wellnessDays),
			*dump)
		if err != nil {
			return errors.Wrap(err, "sync history")
		}
		printf(app.stdout, "synced %d rides, %d wellness records and a %d point power curve\n",
			len(res.Rides), len(res.Wellness), len(res.Curve.Seconds))
		renderRides(app, res.Rides)
		return nil
	})
}

func runImportFit(ctx context.Context, app *application, args []string) error {
	fs := app.newFlagSet("import-fit")
	ftp := fs.Float64("ftp", 0, "FTP in watts (default: the threshold power recorded in each file)")
	if done, err := parse(fs, args); done || err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.Wrap(errUsage, "import-fit needs at least one FIT file")
	}

	rides := make([]activity.Ride, 0, fs.NArg())
	for _, path := range fs.Args() {
		ride, err := readFit(path, *ftp)
		if err != nil {
			return errors.Wrap(err, "import", slog.String("path", path))
		}
		app.logger.LogAttrs(ctx, slog.LevelDebug, "read FIT file", slog.String("path", path),
			slog.String("date", ride.Date), slog.Float64("load", ride.TrainingLoad))
		rides = append(rides, ride)
	}

	return app.withHistory(ctx, func(_ *sqlite.Database, repo *history.Repository) error {
		if err := repo.SaveRides(ctx, rides); err != nil {
			return errors.Wrap(err, "save rides")
		}
		printf(app.stdout, "imported %d rides\n", len(rides))
		renderRides(app, rides)
		return nil
	})
}

func readFit(path string, ftp float64) (activity.Ride, error) {
	f, err := os.Open(path)
	if err != nil {
		return activity.Ride{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return fitfile.Read(f, ftp)
}

func renderRides(app *application, rides []activity.Ride) {
	if len(rides) == 0 {
		return
	}
	rows := make([][]string, 0, len(rides))
	for _, r := range rides {
		rows = append(rows, []string{
			r.Date,
			fmt.Sprintf("%.0f", r.Miles),
			r.Duration(),
			fmt.Sprintf("%.0f", r.NormalizedWatts),
			fmt.Sprintf("%d", r.Zone),
			formatFloat(r.TrainingLoad),
			string(r.Source),
		})
	}
	renderTable(app.stdout, []string{"Date", "Miles", "Time", "NP", "Zone", "Load", "Source"}, rows, nil)
}

func runWellness(ctx context.Context, app *application, args []string) error {
	fs := app.newFlagSet("wellness")
	dateFlag := fs.String("date", "", "day of the record (YYYY-MM-DD, default today)")
	restingHR := fs.Int("resting-hr", 0, "set the resting heart rate")
	weight := fs.Float64("weight", 0, "set the body weight in kg")
	if done, err := parse(fs, args); done || err != nil {
		return err
	}
	day, err := app.today(*dateFlag)
	if err != nil {
		return err
	}
	client, err := app.intervalsClient()
	if err != nil {
		return err
	}

	var record intervals.Wellness
	if *restingHR > 0 || *weight > 0 {
		record, err = client.UpdateWellness(ctx, day, intervals.WellnessUpdate{RestingHR: *restingHR, Weight: *weight})
		if err != nil {
			return errors.Wrap(err, "update wellness")
		}
		app.logger.LogAttrs(ctx, slog.LevelInfo, "updated wellness", slog.String("date", record.ID))
	} else if record, err = client.WellnessOn(ctx, day); err != nil {
		return errors.Wrap(err, "fetch wellness")
	}

	w := record.ToWellness()
	renderTable(app.stdout, []string{"Date", "Fitness", "Fatigue", "Form", "Ramp", "Resting HR"}, [][]string{{
		w.Date, formatFloat(w.Fitness), formatFloat(w.Fatigue), formatFloat(w.Form()), formatFloat(w.RampRate),
		fmt.Sprintf("%d", w.RestingHR),
	}}, nil)
	return nil
}
