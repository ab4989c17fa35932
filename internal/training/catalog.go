package training

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is returned when a catalog table is inconsistent.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Category is a kind of ride the solver can prescribe. Zones are labels: fractional values mark sub-zones,
// e.g. 3.6 for sweet spot. Zero valued optional fields are unset.
type Category struct {
	Name       string  `yaml:"name"`
	Zone       float64 `yaml:"zone"`
	PercentFTP float64 `yaml:"percentFtp"`
	// MinMinutesInZone and MaxMinutesInZone bound the time spent at PercentFTP.
	MinMinutesInZone float64 `yaml:"minMinutesInZone,omitempty"`
	MaxMinutesInZone float64 `yaml:"maxMinutesInZone,omitempty"`
	// MaxMinutesTotal bounds an interval ride including rests and bookends.
	MaxMinutesTotal        float64 `yaml:"maxMinutesTotal,omitempty"`
	MinIntervalRestMinutes float64 `yaml:"minIntervalRestMinutes,omitempty"`
	// ContinuousZone is the category ridden between and around intervals. Zero for continuous rides.
	ContinuousZone     float64 `yaml:"continuousZone,omitempty"`
	MinIntervalPercent float64 `yaml:"minIntervalPercentage,omitempty"`
}

// IsInterval reports whether the category is ridden as intervals with continuous bookends.
func (c Category) IsInterval() bool {
	return c.ContinuousZone != 0
}

// Interval is a reps x minutes block.
type Interval struct {
	Reps    int     `yaml:"reps"`
	Minutes float64 `yaml:"minutes"`
}

// TotalMinutes is the time spent in the interval zone.
func (i Interval) TotalMinutes() float64 {
	return float64(i.Reps) * i.Minutes
}

// UnmarshalYAML accepts the compact [reps, minutes] form next to a reps/minutes mapping.
func (i *Interval) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var pair []float64
		if err := value.Decode(&pair); err != nil {
			return fmt.Errorf("decode interval pair: %w", err)
		}
		const repsAndMinutes = 2
		if len(pair) != repsAndMinutes {
			return fmt.Errorf("line %d: interval needs [reps, minutes], got %d values", value.Line, len(pair))
		}
		i.Reps = int(pair[0])
		i.Minutes = pair[1]
		return nil
	}
	type plain Interval
	var p plain
	if err := value.Decode(&p); err != nil {
		return fmt.Errorf("decode interval: %w", err)
	}
	*i = Interval(p)
	return nil
}

// IntervalProgression is the ladder of interval blocks for one zone, easiest first.
type IntervalProgression struct {
	Zone  float64    `yaml:"zone"`
	Steps []Interval `yaml:"progressions"`
}

// IntervalLength bounds the length of a single interval in a zone.
type IntervalLength struct {
	Zone       float64 `yaml:"zone"`
	MinMinutes float64 `yaml:"minMinutes"`
	MaxMinutes float64 `yaml:"maxMinutes"`
}

// Progression is the interval block an athlete currently rides in a zone.
type Progression struct {
	Zone    float64
	Reps    int
	Minutes float64
}

// Interval returns the block without its zone.
func (p Progression) Interval() Interval {
	return Interval{Reps: p.Reps, Minutes: p.Minutes}
}

// Catalog is the immutable table of ride categories and interval progressions handed to the solver.
type Catalog struct {
	categories   []Category
	progressions []IntervalProgression
	lengths      []IntervalLength
}

// NewCatalog validates and copies the tables.
func NewCatalog(categories []Category, progressions []IntervalProgression, lengths []IntervalLength) (Catalog, error) {
	c := Catalog{
		categories:   slices.Clone(categories),
		progressions: make([]IntervalProgression, 0, len(progressions)),
		lengths:      slices.Clone(lengths),
	}
	for _, p := range progressions {
		c.progressions = append(c.progressions, IntervalProgression{Zone: p.Zone, Steps: slices.Clone(p.Steps)})
	}
	if err := c.validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) validate() error {
	var errs []error
	seen := make(map[float64]bool, len(c.categories))
	for _, cat := range c.categories {
		if seen[cat.Zone] {
			errs = append(errs, fmt.Errorf("%w: duplicate zone %v", ErrInvalidCatalog, cat.Zone))
		}
		seen[cat.Zone] = true
		if cat.PercentFTP <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s: percentFtp must be positive", ErrInvalidCatalog, cat.Name))
		}
		if cat.MaxMinutesInZone != 0 && cat.MaxMinutesInZone < cat.MinMinutesInZone {
			errs = append(errs, fmt.Errorf("%w: %s: max minutes below min minutes", ErrInvalidCatalog, cat.Name))
		}
	}
	for _, cat := range c.categories {
		if cat.IsInterval() && !seen[cat.ContinuousZone] {
			errs = append(errs, fmt.Errorf("%w: %s: continuous zone %v has no category",
				ErrInvalidCatalog, cat.Name, cat.ContinuousZone))
		}
	}
	for _, p := range c.progressions {
		length, ok := c.IntervalLength(p.Zone)
		for i, step := range p.Steps {
			if step.Reps < 1 || step.Minutes <= 0 {
				errs = append(errs, fmt.Errorf("%w: zone %v step %d: empty interval", ErrInvalidCatalog, p.Zone, i))
			}
			if ok && (step.Minutes < length.MinMinutes || step.Minutes > length.MaxMinutes) {
				errs = append(errs, fmt.Errorf("%w: zone %v step %d: %v minute intervals outside %v-%v",
					ErrInvalidCatalog, p.Zone, i, step.Minutes, length.MinMinutes, length.MaxMinutes))
			}
		}
	}
	return errors.Join(errs...)
}

// Categories returns a copy of the category table.
func (c Catalog) Categories() []Category {
	return slices.Clone(c.categories)
}

// Category looks up the category labelled zone.
func (c Catalog) Category(zone float64) (Category, bool) {
	i := slices.IndexFunc(c.categories, func(cat Category) bool { return cat.Zone == zone })
	if i < 0 {
		return Category{}, false
	}
	return c.categories[i], true
}

// Progression returns a copy of the interval ladder for zone.
func (c Catalog) Progression(zone float64) (IntervalProgression, bool) {
	i := slices.IndexFunc(c.progressions, func(p IntervalProgression) bool { return p.Zone == zone })
	if i < 0 {
		return IntervalProgression{}, false
	}
	p := c.progressions[i]
	return IntervalProgression{Zone: p.Zone, Steps: slices.Clone(p.Steps)}, true
}

// Step returns the index'th block, zero based, of the ladder for zone.
func (c Catalog) Step(zone float64, index int) (Progression, error) {
	p, ok := c.Progression(zone)
	if !ok {
		return Progression{}, fmt.Errorf("no interval progression for zone %v", zone)
	}
	if index < 0 || index >= len(p.Steps) {
		return Progression{}, fmt.Errorf("zone %v has %d progression steps, step %d requested", zone, len(p.Steps), index)
	}
	step := p.Steps[index]
	return Progression{Zone: zone, Reps: step.Reps, Minutes: step.Minutes}, nil
}

// IntervalLength returns the single interval bounds for zone.
func (c Catalog) IntervalLength(zone float64) (IntervalLength, bool) {
	i := slices.IndexFunc(c.lengths, func(l IntervalLength) bool { return l.Zone == zone })
	if i < 0 {
		return IntervalLength{}, false
	}
	return c.lengths[i], true
}

type catalogFile struct {
	Categories      []Category            `yaml:"categories"`
	Progressions    []IntervalProgression `yaml:"intervalProgressions"`
	IntervalLengths []IntervalLength      `yaml:"intervalLengths"`
}

// LoadCatalog reads a catalog table from YAML.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	return NewCatalog(f.Categories, f.Progressions, f.IntervalLengths)
}
