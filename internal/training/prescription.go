package training

import (
	"fmt"
	"math"
	"strings"
)

// IntervalSet is the hard part of an interval ride.
type IntervalSet struct {
	Reps    int
	Minutes float64
	Watts   float64
	Zone    float64
	// RestMinutes is the rest between two intervals, not the total rest.
	RestMinutes float64
}

// Prescription is a concrete ride that produces a requested training load. Intervals is nil for a continuous
// ride.
type Prescription struct {
	Name            string
	Zone            float64
	ContinuousZone  float64
	ContinuousWatts float64
	TotalMinutes    float64
	Intervals       *IntervalSet
}

// RestMinutes is the total rest between intervals.
func (p Prescription) RestMinutes() float64 {
	if p.Intervals == nil {
		return 0
	}
	return float64(max(p.Intervals.Reps-1, 0)) * p.Intervals.RestMinutes
}

// ContinuousMinutes is the time ridden at ContinuousWatts outside the intervals and rests.
func (p Prescription) ContinuousMinutes() float64 {
	if p.Intervals == nil {
		return p.TotalMinutes
	}
	return p.TotalMinutes - float64(p.Intervals.Reps)*p.Intervals.Minutes - p.RestMinutes()
}

// String formats the ride on one line, e.g. "1h40m|2x20m@195w (rest 4m)|Z4|Threshold|+52mZ2@140w".
func (p Prescription) String() string {
	if p.Intervals == nil {
		return strings.Join([]string{
			FormatMinutes(p.TotalMinutes),
			fmt.Sprintf("%.0fw", p.ContinuousWatts),
			fmt.Sprintf("Z%.0f", math.Floor(p.ContinuousZone)),
			p.Name,
		}, "|")
	}
	rest := ""
	if p.Intervals.Reps > 1 {
		rest = fmt.Sprintf(" (rest %s)", FormatMinutes(p.Intervals.RestMinutes))
	}
	return strings.Join([]string{
		FormatMinutes(p.TotalMinutes),
		fmt.Sprintf("%dx%s@%.0fw%s", p.Intervals.Reps, FormatMinutes(p.Intervals.Minutes), p.Intervals.Watts, rest),
		fmt.Sprintf("Z%.0f", math.Floor(p.Intervals.Zone)),
		p.Name,
		fmt.Sprintf("+%sZ%.0f@%.0fw", FormatMinutes(p.ContinuousMinutes()), math.Floor(p.ContinuousZone),
			p.ContinuousWatts),
	}, "|")
}

// FormatMinutes formats a duration given in minutes as "1h05m", "45m" or "30s".
func FormatMinutes(minutes float64) string {
	switch {
	case minutes > minutesPerHour:
		rounded := int(math.Round(minutes))
		return fmt.Sprintf("%dh%02dm", rounded/minutesPerHour, rounded%minutesPerHour)
	case minutes > 1:
		return fmt.Sprintf("%.0fm", math.Round(minutes))
	default:
		return fmt.Sprintf("%.0fs", math.Round(minutes*secondsPerMinute))
	}
}

// Segment is a steady block of a ride.
type Segment struct {
	Watts   float64
	Seconds float64
}

// Segments lays the ride out in order: half the continuous time, the intervals separated by rests, then the
// other half of the continuous time.
func (p Prescription) Segments() []Segment {
	if p.Intervals == nil {
		return []Segment{{Watts: p.ContinuousWatts, Seconds: p.TotalMinutes * secondsPerMinute}}
	}
	half := Segment{Watts: p.ContinuousWatts, Seconds: midpoint(0, p.ContinuousMinutes()*secondsPerMinute)}
	segments := []Segment{half}
	for i := range p.Intervals.Reps {
		segments = append(segments, Segment{Watts: p.Intervals.Watts, Seconds: p.Intervals.Minutes * secondsPerMinute})
		if i < p.Intervals.Reps-1 {
			rest := Segment{Watts: p.ContinuousWatts, Seconds: p.Intervals.RestMinutes * secondsPerMinute}
			segments = append(segments, rest)
		}
	}
	return append(segments, half)
}

// PowerStream samples the ride's target power once per second.
func (p Prescription) PowerStream() []float64 {
	var stream []float64
	for _, s := range p.Segments() {
		for range int(math.Round(s.Seconds)) {
			stream = append(stream, s.Watts)
		}
	}
	return stream
}

// NormalizedPower of the prescribed ride.
func (p Prescription) NormalizedPower() float64 {
	return NormalizedPower(p.PowerStream())
}

// Fuel estimates the energy cost of the ride for an athlete with ftp.
func (p Prescription) Fuel(ftp float64) FuelEstimate {
	stream := p.PowerStream()
	if len(stream) == 0 || ftp <= 0 {
		return FuelEstimate{Calories: 0, FatCalories: 0, GlycogenCalories: 0}
	}
	return EstimateFuel(average(stream), float64(len(stream)), NormalizedPower(stream)/ftp)
}
