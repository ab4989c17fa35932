package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/calendar"
	"github.com/myrjola/ridecoach/internal/coach"
	"github.com/myrjola/ridecoach/internal/errors"
	"github.com/myrjola/ridecoach/internal/history"
	"github.com/myrjola/ridecoach/internal/plan"
	"github.com/myrjola/ridecoach/internal/sqlite"
	"github.com/openai/openai-go/v3/option"
)

const defaultCoachDays = 28

func runCoach(ctx context.Context, app *application, args []string) error {
	flags := app.newFlagSet("coach")
	planPath := flags.String("plan", "plan.yaml", "plan file with the coach brief")
	todayFlag := flags.String("today", "", "date of today (YYYY-MM-DD, default today)")
	days := flags.Int("days", defaultCoachDays, "send the rides of this many past days")
	promptName := flags.String("prompt", coach.DefaultPrompt, "prompt template name")
	promptDir := flags.String("prompt-dir", "", "read prompt templates from this directory instead of the built-in ones")
	htmlPath := flags.String("html", "", "also write the answer as HTML to this file")
	historyLimit := flags.Int("history", 0, "print this many earlier answers instead of asking")
	if done, err := parse(flags, args); done || err != nil {
		return err
	}

	if *historyLimit > 0 {
		return app.printExchanges(ctx, *historyLimit)
	}
	if app.cfg.OpenAIAPIKey == "" {
		return errors.Wrap(errMissingSetting, "OPEN_AI_API_KEY is not set")
	}
	today, err := app.today(*todayFlag)
	if err != nil {
		return err
	}
	p, err := plan.Load(*planPath)
	if err != nil {
		return errors.Wrap(err, "load plan")
	}
	prompts := coach.Prompts()
	if *promptDir != "" {
		prompts = os.DirFS(*promptDir)
	}

	var answer string
	err = app.withHistory(ctx, func(db *sqlite.Database, repo *history.Repository) error {
		rides, err := repo.Rides(ctx, calendar.AddDays(today, -*days))
		if err != nil {
			return errors.Wrap(err, "read rides")
		}
		ftp, err := resolveFTP(p.FTP, rides)
		if err != nil {
			return err
		}
		prompt, err := weekPrompt(prompts, *promptName, rides, ftp, today, p.Coach)
		if err != nil {
			return err
		}
		answer, err = app.coachService(db).Ask(ctx, coach.DefaultSystem, prompt)
		return errors.Wrap(err, "ask coach")
	})
	if err != nil {
		return err
	}

	printf(app.stdout, "%s\n", answer)
	if *htmlPath != "" {
		html, err := coach.RenderHTML(answer)
		if err != nil {
			return errors.Wrap(err, "render answer")
		}
		if err = os.WriteFile(*htmlPath, []byte(html), 0o600); err != nil {
			return errors.Wrap(err, "write html", slog.String("path", *htmlPath))
		}
	}
	return nil
}

func weekPrompt(prompts fs.FS, name string, rides []activity.Ride, ftp float64, today time.Time, brief coach.WeekBrief) (string, error) {
	data, err := coach.WeekData(rides, ftp, today, brief)
	if err != nil {
		return "", errors.Wrap(err, "week data")
	}
	prompt, err := coach.LoadPrompt(prompts, name, data)
	if err != nil {
		return "", errors.Wrap(err, "load prompt", slog.String("name", name))
	}
	return prompt, nil
}

func (app *application) coachService(db *sqlite.Database) *coach.Service {
	var opts []option.RequestOption
	if app.cfg.OpenAIURL != "" {
		opts = append(opts, option.WithBaseURL(app.cfg.OpenAIURL))
	}
	client := coach.NewClient(app.cfg.OpenAIAPIKey, opts...)
	return coach.NewService(client, coach.NewExchanges(db, app.logger), app.cfg.AuditPath, app.logger)
}

func (app *application) printExchanges(ctx context.Context, limit int) error {
	return app.withHistory(ctx, func(db *sqlite.Database, _ *history.Repository) error {
		exchanges, err := coach.NewExchanges(db, app.logger).Recent(ctx, limit)
		if err != nil {
			return errors.Wrap(err, "read exchanges")
		}
		for _, e := range exchanges {
			printf(app.stdout, "## %s (%s)\n\n%s\n\n", e.CreatedAt, e.Model, e.Completion)
		}
		return nil
	})
}
