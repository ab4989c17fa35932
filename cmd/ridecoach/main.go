package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/myrjola/ridecoach/internal/envstruct"
	"github.com/myrjola/ridecoach/internal/errors"
	"github.com/myrjola/ridecoach/internal/flightrecorder"
	"github.com/myrjola/ridecoach/internal/logging"
)

type config struct {
	// IntervalsAPIKey authenticates against the fitness API. Only sync and wellness need it.
	IntervalsAPIKey string `env:"INTERVALS_API_KEY" envDefault:""`
	// IntervalsURL is the fitness API base URL.
	IntervalsURL string `env:"RIDECOACH_INTERVALS_URL" envDefault:"https://intervals.icu"`
	AthleteID    string `env:"RIDECOACH_ATHLETE_ID" envDefault:"0"`
	// OpenAIAPIKey is needed by coach.
	OpenAIAPIKey string `env:"OPEN_AI_API_KEY" envDefault:""`
	// OpenAIURL overrides the language model API base URL when set.
	OpenAIURL string `env:"RIDECOACH_OPENAI_URL" envDefault:""`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"RIDECOACH_SQLITE_URL" envDefault:"./ridecoach.sqlite3"`
	// AuditPath receives the last language model request and response. Empty disables it.
	AuditPath string `env:"RIDECOACH_AUDIT_PATH" envDefault:"gpt-response.json"`
	// TraceDir receives a runtime trace of every failed command. Empty disables tracing.
	TraceDir string `env:"RIDECOACH_TRACE_DIR" envDefault:""`
}

var errUsage = errors.NewSentinel("usage")

type application struct {
	cfg       config
	logger    *slog.Logger
	stdout    io.Writer
	lookupEnv func(string) (string, bool)
	now       func() time.Time
}

type command struct {
	summary string
	run     func(ctx context.Context, app *application, args []string) error
}

func commands() map[string]command {
	return map[string]command{
		"sync":       {summary: "fetch rides, wellness and the power curve into the local history", run: runSync},
		"import-fit": {summary: "add rides from FIT files to the local history", run: runImportFit},
		"wellness":   {summary: "show or update a day's wellness record", run: runWellness},
		"schedule":   {summary: "plan the training load and ride options of the coming days", run: runSchedule},
		"zones":      {summary: "print the power zones and the load range of every ride category", run: runZones},
		"climb":      {summary: "estimate the sustainable power and time for a climb", run: runClimb},
		"grades":     {summary: "print the steepest grade ridable in every zone", run: runGrades},
		"volume":     {summary: "weekly minutes per zone to hold a fitness level", run: runVolume},
		"peak":       {summary: "find the hardest seven days of the season", run: runPeak},
		"fuel":       {summary: "carbohydrate plan for a long ride from past rides", run: runFuel},
		"coach":      {summary: "ask the language model coach to plan the week", run: runCoach},
	}
}

func usage() string {
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	slices.Sort(names)
	var b strings.Builder
	b.WriteString("usage: ridecoach <command> [flags]\n\ncommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-11s %s\n", name, cmds[name].summary)
	}
	return b.String()
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool), args []string, stdout io.Writer) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		_, _ = io.WriteString(stdout, usage())
		if len(args) == 0 {
			return errors.Wrap(errUsage, "no command given")
		}
		return nil
	}
	cmd, ok := commands()[args[0]]
	if !ok {
		_, _ = io.WriteString(stdout, usage())
		return errors.Wrap(errUsage, "unknown command", slog.String("command", args[0]))
	}

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	app := &application{
		cfg:       cfg,
		logger:    logger,
		stdout:    stdout,
		lookupEnv: lookupEnv,
		now:       time.Now,
	}
	ctx = logging.WithAttrs(ctx, slog.String("command", args[0]))
	if cfg.TraceDir == "" {
		return errors.Wrap(runRecovered(ctx, app, cmd, args[1:]), args[0])
	}

	rec, err := flightrecorder.New(cfg.TraceDir, logger)
	if err != nil {
		return errors.Wrap(err, "create flight recorder")
	}
	if err = rec.Start(); err != nil {
		return errors.Wrap(err, "start flight recorder")
	}
	defer rec.Stop()
	if err = runRecovered(ctx, app, cmd, args[1:]); err != nil {
		if _, traceErr := rec.Capture(ctx, args[0], app.now()); traceErr != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "could not capture trace", errors.SlogError(traceErr))
		}
		return errors.Wrap(err, args[0])
	}
	return nil
}

// runRecovered turns a panic in the command into an error carrying the panic site.
func runRecovered(ctx context.Context, app *application, cmd command, args []string) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = errors.DecoratePanic(recovered)
		}
	}()
	return cmd.run(ctx, app, args)
}

func main() {
	ctx := context.Background()
	logger, closeLog, err := newLogger(os.Stderr, os.LookupEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "configure logging:", err)
		os.Exit(1)
	}
	err = run(ctx, logger, os.LookupEnv, os.Args[1:], os.Stdout)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "command failed", errors.SlogError(err))
	}
	if closeErr := closeLog(); closeErr != nil {
		fmt.Fprintln(os.Stderr, "close log file:", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}
