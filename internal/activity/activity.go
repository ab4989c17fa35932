// Package activity holds the ride and wellness summaries shared by the importers, the history store and the
// schedule builder.
package activity

import (
	"fmt"
	"math"
	"time"
)

// Source tells where a ride summary came from.
type Source string

const (
	SourceIntervals Source = "intervals"
	SourceFitFile   Source = "fit"
)

const (
	minutesPerHour     = 60
	secondsPerMinute   = 60
	joulesPerKilojoule = 1000
	fahrenheitPerC     = 1.8
	fahrenheitAtZeroC  = 32
)

// Kilojoules converts joules of work to whole kilojoules.
func Kilojoules(joules float64) float64 {
	return math.Round(joules / joulesPerKilojoule)
}

// Fahrenheit converts a Celsius temperature to whole degrees Fahrenheit.
func Fahrenheit(celsius float64) float64 {
	return math.Round(celsius*fahrenheitPerC + fahrenheitAtZeroC)
}

// Ride is a pruned summary of a single ride in imperial display units.
type Ride struct {
	// Date is the local start date formatted YYYY-MM-DD.
	Date            string  `json:"date"`
	FTP             float64 `json:"currentFtp"`
	TrainingLoad    float64 `json:"trainingLoad"`
	Kilojoules      float64 `json:"kj"`
	NormalizedWatts float64 `json:"normalizedWatts"`
	Miles           float64 `json:"miles"`
	MovingSeconds   int     `json:"movingSeconds"`
	ElevationFeet   float64 `json:"elevationFeet"`
	Mph             float64 `json:"mph"`
	Calories        float64 `json:"calories"`
	TemperatureF    float64 `json:"temperatureF"`
	// IntensityFactor is normalized power as a percentage of FTP.
	IntensityFactor float64  `json:"intensityFactor"`
	Fitness         *float64 `json:"fitness,omitempty"`
	Fatigue         *float64 `json:"fatigue,omitempty"`
	// Zone is the Coggan zone number of the normalized power, 0 when unknown.
	Zone   int    `json:"zone"`
	Source Source `json:"source"`
}

// Hours is the moving time in hours.
func (r Ride) Hours() float64 {
	return time.Duration(r.MovingSeconds * int(time.Second)).Hours()
}

// Duration formats the moving time as "1h 05m 09s".
func (r Ride) Duration() string {
	return FormatMovingTime(r.MovingSeconds)
}

// FormatMovingTime formats seconds as "1h 05m 09s".
func FormatMovingTime(seconds int) string {
	d := time.Duration(seconds) * time.Second
	return fmt.Sprintf("%dh %02dm %02ds", int(d.Hours()), int(d.Minutes())%minutesPerHour,
		int(d.Seconds())%secondsPerMinute)
}

// Wellness is the daily fitness snapshot kept by the fitness API.
type Wellness struct {
	Date        string  `json:"date"`
	Fitness     float64 `json:"fitness"`
	Fatigue     float64 `json:"fatigue"`
	FitnessLoad float64 `json:"fitnessLoad"`
	FatigueLoad float64 `json:"fatigueLoad"`
	RampRate    float64 `json:"rampRate"`
	RestingHR   int     `json:"restingHR"`
}

// Form is fitness minus fatigue.
func (w Wellness) Form() float64 {
	return w.Fitness - w.Fatigue
}

// RideOn returns the first ride on date.
func RideOn(rides []Ride, date string) (Ride, bool) {
	for _, r := range rides {
		if r.Date == date {
			return r, true
		}
	}
	return Ride{}, false
}

// WellnessOn returns the wellness record for date.
func WellnessOn(records []Wellness, date string) (Wellness, bool) {
	for _, w := range records {
		if w.Date == date {
			return w, true
		}
	}
	return Wellness{}, false
}
