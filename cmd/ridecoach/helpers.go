package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/calendar"
	"github.com/myrjola/ridecoach/internal/errors"
	"github.com/myrjola/ridecoach/internal/history"
	"github.com/myrjola/ridecoach/internal/intervals"
	"github.com/myrjola/ridecoach/internal/sqlite"
	"github.com/spf13/pflag"
)

var (
	errMissingSetting = errors.NewSentinel("missing setting")
	errNoFTP          = errors.NewSentinel("no FTP given and none found in the ride history")
)

// newFlagSet creates a subcommand flag set that reports problems as errors and prints help to the app's
// stdout.
func (app *application) newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(app.stdout)
	fs.SortFlags = false
	return fs
}

// parse parses args. It returns done when help was requested.
func parse(fs *pflag.FlagSet, args []string) (bool, error) {
	err := fs.Parse(args)
	if errors.Is(err, pflag.ErrHelp) {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "parse flags")
	}
	return false, nil
}

// today resolves a --today flag value, where empty is the current local date.
func (app *application) today(value string) (time.Time, error) {
	if value == "" {
		return calendar.Day(app.now()), nil
	}
	t, err := calendar.ParseDate(value)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse --today")
	}
	return t, nil
}

// withHistory opens the database for the duration of fn.
func (app *application) withHistory(ctx context.Context, fn func(db *sqlite.Database, repo *history.Repository) error) (err error) {
	db, err := sqlite.NewDatabase(ctx, app.cfg.SqliteURL, app.logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", app.cfg.SqliteURL))
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()
	return fn(db, history.NewRepository(db, app.logger))
}

func (app *application) intervalsClient() (*intervals.Client, error) {
	if app.cfg.IntervalsAPIKey == "" {
		return nil, errors.Wrap(errMissingSetting, "INTERVALS_API_KEY is not set")
	}
	return intervals.NewClient(app.cfg.IntervalsURL, app.cfg.IntervalsAPIKey, app.cfg.AthleteID, nil, app.logger), nil
}

// latestFTP is the FTP of the most recent ride that recorded one.
func latestFTP(rides []activity.Ride) float64 {
	for i := len(rides) - 1; i >= 0; i-- {
		if rides[i].FTP > 0 {
			return rides[i].FTP
		}
	}
	return 0
}

// resolveFTP prefers the explicit value and falls back to the ride history.
func resolveFTP(explicit float64, rides []activity.Ride) (float64, error) {
	if explicit > 0 {
		return explicit, nil
	}
	if ftp := latestFTP(rides); ftp > 0 {
		return ftp, nil
	}
	return 0, errNoFTP
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
