package training

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyPowerCurve is returned when a power curve has no points.
	ErrEmptyPowerCurve = errors.New("empty power curve")
	// ErrInvalidDuration is returned for durations that are not positive.
	ErrInvalidDuration = errors.New("duration must be positive")
)

const (
	powerLawExponent = 0.07
	hourSeconds      = 3600
)

// PowerLaw estimates the power sustainable for seconds from ftp with a simple power law anchored at one hour.
// Durations that are not positive give +Inf.
func PowerLaw(ftp, seconds float64) float64 {
	if seconds <= 0 {
		return math.Inf(1)
	}
	return ftp * math.Pow(hourSeconds/seconds, powerLawExponent)
}

// cogganDurationFactors are the fractions of FTP a typical rider holds for a duration in seconds.
//
//nolint:gochecknoglobals,mnd // reference table.
var cogganDurationFactors = [...][2]float64{
	{5, 2.5},
	{60, 1.75},
	{300, 1.2},
	{1200, 1.0},
	{3600, 0.95},
	{7200, 0.85},
	{18000, 0.7},
}

// CogganPower estimates the power sustainable for seconds from ftp by interpolating a reference table on a
// logarithmic time axis. Durations outside the table use the nearest factor.
func CogganPower(ftp, seconds float64) (float64, error) {
	if seconds <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDuration, seconds)
	}
	first, last := cogganDurationFactors[0], cogganDurationFactors[len(cogganDurationFactors)-1]
	if seconds <= first[0] {
		return ftp * first[1], nil
	}
	if seconds >= last[0] {
		return ftp * last[1], nil
	}
	for i := range len(cogganDurationFactors) - 1 {
		lo, hi := cogganDurationFactors[i], cogganDurationFactors[i+1]
		if seconds > hi[0] {
			continue
		}
		f := (math.Log(seconds) - math.Log(lo[0])) / (math.Log(hi[0]) - math.Log(lo[0]))
		return ftp * (lo[1] + f*(hi[1]-lo[1])), nil
	}
	return ftp * last[1], nil
}

// PowerCurve is an athlete's best power for a set of durations in seconds, sorted by duration.
type PowerCurve struct {
	Seconds []float64 `json:"secs"`
	Watts   []float64 `json:"values"`
}

// At returns the curve's power at the point nearest to seconds. Durations beyond either end use the end
// point.
func (c PowerCurve) At(seconds float64) (float64, error) {
	if seconds <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDuration, seconds)
	}
	n := min(len(c.Seconds), len(c.Watts))
	if n == 0 {
		return 0, ErrEmptyPowerCurve
	}
	if seconds <= c.Seconds[0] {
		return c.Watts[0], nil
	}
	if seconds >= c.Seconds[n-1] {
		return c.Watts[n-1], nil
	}
	i := 0
	for i < n-2 && seconds > c.Seconds[i+1] {
		i++
	}
	if seconds-c.Seconds[i] < c.Seconds[i+1]-seconds {
		return c.Watts[i], nil
	}
	return c.Watts[i+1], nil
}
