package export

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"

	"github.com/myrjola/ridecoach/internal/training"
)

// ErrInvalidWorkout is returned for a workout that cannot be expressed relative to FTP.
var ErrInvalidWorkout = errors.New("invalid workout")

// Workout describes how a prescription becomes a Zwift workout.
type Workout struct {
	Name            string
	Author          string
	FTP             float64
	WarmupMinutes   float64
	CooldownMinutes float64
}

type zwoFile struct {
	XMLName     xml.Name   `xml:"workout_file"`
	Author      string     `xml:"author"`
	Name        string     `xml:"name"`
	Description string     `xml:"description"`
	SportType   string     `xml:"sportType"`
	Workout     zwoWorkout `xml:"workout"`
	Tags        []zwoTagEl `xml:"tags>tag,omitempty"`
}

type zwoWorkout struct {
	Steps []zwoStep `xml:",any"`
}

type zwoTagEl struct {
	Name string `xml:"name,attr"`
}

type zwoStep struct {
	XMLName     xml.Name
	Duration    int     `xml:"Duration,attr,omitempty"`
	Power       float64 `xml:"Power,attr,omitempty"`
	PowerLow    float64 `xml:"PowerLow,attr,omitempty"`
	PowerHigh   float64 `xml:"PowerHigh,attr,omitempty"`
	Repeat      int     `xml:"Repeat,attr,omitempty"`
	OnDuration  int     `xml:"OnDuration,attr,omitempty"`
	OnPower     float64 `xml:"OnPower,attr,omitempty"`
	OffDuration int     `xml:"OffDuration,attr,omitempty"`
	OffPower    float64 `xml:"OffPower,attr,omitempty"`
}

const (
	easyFraction     = 0.25
	secondsPerMinute = 60
	powerResolution  = 1000
)

// ZWO encodes the prescription as a Zwift workout file. Power is relative to w.FTP. Repeated intervals become
// an IntervalsT block followed by the last interval, so the rest after the last rep is not ridden.
func ZWO(p training.Prescription, w Workout) ([]byte, error) {
	if w.FTP <= 0 {
		return nil, fmt.Errorf("%w: FTP %.0f", ErrInvalidWorkout, w.FTP)
	}
	steps := rideSteps(p, w.FTP)
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: empty ride", ErrInvalidWorkout)
	}

	if w.WarmupMinutes > 0 {
		warmup := ramp("Warmup", w.WarmupMinutes, easyFraction, firstPower(steps))
		steps = append([]zwoStep{warmup}, steps...)
	}
	if w.CooldownMinutes > 0 {
		steps = append(steps, ramp("Cooldown", w.CooldownMinutes, relative(p.ContinuousWatts, w.FTP), easyFraction))
	}

	file := zwoFile{
		XMLName:     xml.Name{Space: "", Local: "workout_file"},
		Author:      w.Author,
		Name:        w.Name,
		Description: p.String(),
		SportType:   "bike",
		Workout:     zwoWorkout{Steps: steps},
		Tags:        []zwoTagEl{{Name: fmt.Sprintf("Z%.0f", math.Floor(p.Zone))}},
	}
	b, err := xml.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal workout: %w", err)
	}
	return append([]byte(xml.Header), b...), nil
}

func rideSteps(p training.Prescription, ftp float64) []zwoStep {
	continuous := relative(p.ContinuousWatts, ftp)
	if p.Intervals == nil {
		return nonEmpty(steady(p.TotalMinutes*secondsPerMinute, continuous))
	}

	set := p.Intervals
	half := p.ContinuousMinutes() * secondsPerMinute / 2 //nolint:mnd // before and after the intervals.
	on := relative(set.Watts, ftp)
	steps := nonEmpty(steady(half, continuous))
	if set.Reps > 1 {
		steps = append(steps, zwoStep{ //nolint:exhaustruct // IntervalsT attributes only.
			XMLName:     xml.Name{Space: "", Local: "IntervalsT"},
			Repeat:      set.Reps - 1,
			OnDuration:  seconds(set.Minutes * secondsPerMinute),
			OnPower:     on,
			OffDuration: seconds(set.RestMinutes * secondsPerMinute),
			OffPower:    continuous,
		})
	}
	if set.Reps > 0 {
		steps = append(steps, steady(set.Minutes*secondsPerMinute, on))
	}
	return append(steps, nonEmpty(steady(half, continuous))...)
}

func steady(secs, power float64) zwoStep {
	return zwoStep{ //nolint:exhaustruct // SteadyState attributes only.
		XMLName:  xml.Name{Space: "", Local: "SteadyState"},
		Duration: seconds(secs),
		Power:    power,
	}
}

func ramp(kind string, minutes, low, high float64) zwoStep {
	return zwoStep{ //nolint:exhaustruct // ramp attributes only.
		XMLName:   xml.Name{Space: "", Local: kind},
		Duration:  seconds(minutes * secondsPerMinute),
		PowerLow:  low,
		PowerHigh: high,
	}
}

func nonEmpty(s zwoStep) []zwoStep {
	if s.Duration <= 0 {
		return nil
	}
	return []zwoStep{s}
}

func firstPower(steps []zwoStep) float64 {
	if steps[0].Power > 0 {
		return steps[0].Power
	}
	return steps[0].OnPower
}

func seconds(s float64) int {
	return int(math.Round(s))
}

func relative(watts, ftp float64) float64 {
	return math.Round(watts/ftp*powerResolution) / powerResolution
}
