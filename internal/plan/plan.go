// Package plan reads the YAML plan file that configures a schedule run.
package plan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/myrjola/ridecoach/internal/calendar"
	"github.com/myrjola/ridecoach/internal/coach"
	"github.com/myrjola/ridecoach/internal/schedule"
	"github.com/myrjola/ridecoach/internal/training"
	"gopkg.in/yaml.v3"
)

var ErrInvalidPlan = errors.New("invalid plan")

// Progression is the interval block currently ridden in a zone, either given directly or as a zero based step
// of the catalog's ladder.
type Progression struct {
	Zone    float64 `yaml:"zone"`
	Reps    int     `yaml:"reps,omitempty"`
	Minutes float64 `yaml:"minutes,omitempty"`
	Step    *int    `yaml:"step,omitempty"`
}

// Plan is the per run training configuration. Unset optional values take the schedule defaults.
type Plan struct {
	FTP             float64             `yaml:"ftp"`
	PlanStart       string              `yaml:"planStart,omitempty"`
	WillRideToday   *bool               `yaml:"willRideToday,omitempty"`
	DaysBack        *int                `yaml:"daysBack,omitempty"`
	DaysForward     *int                `yaml:"daysForward,omitempty"`
	WarmupMinutes   float64             `yaml:"warmupMinutes,omitempty"`
	CooldownMinutes float64             `yaml:"cooldownMinutes,omitempty"`
	Progressions    []Progression       `yaml:"progressions,omitempty"`
	Overrides       []schedule.Override `yaml:"overrides,omitempty"`
	Coach           coach.WeekBrief     `yaml:"coach,omitempty"`
	// Catalog is the path of a catalog file, relative to the plan file. Empty means the built-in catalog.
	Catalog string `yaml:"catalog,omitempty"`

	dir string
}

// Load reads the plan file at path.
func Load(path string) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, fmt.Errorf("open plan: %w", err)
	}
	defer f.Close()
	p, err := Parse(f)
	if err != nil {
		return Plan{}, fmt.Errorf("%s: %w", path, err)
	}
	p.dir = filepath.Dir(path)
	return p, nil
}

// Parse decodes and validates a plan. Unknown keys are errors.
func Parse(r io.Reader) (Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Plan{}, fmt.Errorf("decode plan: %w", err)
	}
	if err := p.validate(); err != nil {
		return Plan{}, err
	}
	p.dir = "."
	return p, nil
}

func (p Plan) validate() error {
	var errs []error
	if p.FTP < 0 {
		errs = append(errs, fmt.Errorf("%w: negative ftp %v", ErrInvalidPlan, p.FTP))
	}
	if p.PlanStart != "" {
		if _, err := calendar.ParseDate(p.PlanStart); err != nil {
			errs = append(errs, fmt.Errorf("%w: planStart: %w", ErrInvalidPlan, err))
		}
	}
	if p.DaysBack != nil && *p.DaysBack < 1 {
		errs = append(errs, fmt.Errorf("%w: daysBack %d, need at least one settled day", ErrInvalidPlan, *p.DaysBack))
	}
	if p.DaysForward != nil && *p.DaysForward < 0 {
		errs = append(errs, fmt.Errorf("%w: negative daysForward %d", ErrInvalidPlan, *p.DaysForward))
	}
	for _, pr := range p.Progressions {
		direct := pr.Reps > 0 || pr.Minutes > 0
		if direct == (pr.Step != nil) {
			errs = append(errs, fmt.Errorf("%w: zone %v progression needs either reps and minutes or a step",
				ErrInvalidPlan, pr.Zone))
		}
		if direct && (pr.Reps <= 0 || pr.Minutes <= 0) {
			errs = append(errs, fmt.Errorf("%w: zone %v progression needs positive reps and minutes",
				ErrInvalidPlan, pr.Zone))
		}
	}
	for _, o := range p.Overrides {
		if o.Offset == nil && o.Date == "" {
			errs = append(errs, fmt.Errorf("%w: override without offset or date", ErrInvalidPlan))
		}
	}
	return errors.Join(errs...)
}

// Options frames the schedule. Without planStart the plan starts on the Monday of today's week.
func (p Plan) Options(today time.Time) schedule.Options {
	start := calendar.Monday(today)
	if p.PlanStart != "" {
		start, _ = calendar.ParseDate(p.PlanStart) // validated by Parse.
	}
	opts := schedule.DefaultOptions(start, today)
	if p.WillRideToday != nil {
		opts.WillRideToday = *p.WillRideToday
	}
	if p.DaysBack != nil {
		opts.DaysBack = *p.DaysBack
	}
	if p.DaysForward != nil {
		opts.DaysForward = *p.DaysForward
	}
	return opts
}

// LoadCatalog returns the plan's catalog.
func (p Plan) LoadCatalog() (training.Catalog, error) {
	if p.Catalog == "" {
		return training.DefaultCatalog(), nil
	}
	path := p.Catalog
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return training.Catalog{}, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	c, err := training.LoadCatalog(f)
	if err != nil {
		return training.Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ResolveProgressions turns step references into interval blocks of catalog.
func (p Plan) ResolveProgressions(catalog training.Catalog) ([]training.Progression, error) {
	out := make([]training.Progression, 0, len(p.Progressions))
	for _, pr := range p.Progressions {
		if pr.Step == nil {
			out = append(out, training.Progression{Zone: pr.Zone, Reps: pr.Reps, Minutes: pr.Minutes})
			continue
		}
		step, err := catalog.Step(pr.Zone, *pr.Step)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
		}
		out = append(out, step)
	}
	return out, nil
}
