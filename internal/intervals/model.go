package intervals

import (
	"math"
	"strings"

	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/ptr"
	"github.com/myrjola/ridecoach/internal/training"
)

const rideType = "Ride"

// Activity is the subset of an API activity the tools use.
type Activity struct {
	ID                  string  `json:"id"`
	Type                string  `json:"type"`
	StartDateLocal      string  `json:"start_date_local"`
	RollingFTP          float64 `json:"icu_rolling_ftp"`
	TrainingLoad        float64 `json:"icu_training_load"`
	Joules              float64 `json:"icu_joules"`
	WeightedAverageWatt float64 `json:"icu_weighted_avg_watts"`
	// Intensity is normalized power as a percentage of FTP.
	Intensity     float64  `json:"icu_intensity"`
	Distance      float64  `json:"distance"`
	MovingTime    int      `json:"moving_time"`
	ElevationGain float64  `json:"total_elevation_gain"`
	AverageSpeed  float64  `json:"average_speed"`
	Calories      float64  `json:"calories"`
	AverageTemp   float64  `json:"average_temp"`
	Fatigue       *float64 `json:"icu_atl"`
	Fitness       *float64 `json:"icu_ctl"`
}

// Wellness is a daily wellness record. ID is the date.
type Wellness struct {
	ID        string  `json:"id"`
	Fitness   float64 `json:"ctl"`
	Fatigue   float64 `json:"atl"`
	CTLLoad   float64 `json:"ctlLoad"`
	ATLLoad   float64 `json:"atlLoad"`
	RampRate  float64 `json:"rampRate"`
	RestingHR int     `json:"restingHR"`
}

// WellnessUpdate holds the fields a wellness update may change.
type WellnessUpdate struct {
	RestingHR int     `json:"restingHR,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
}

const (
	metersPerMile = 1609.34
	feetPerMeter  = 3.28084
	mphPerMps     = 2.23694
)

func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

// Summarize prunes a into a ride summary in imperial units.
func Summarize(a Activity) activity.Ride {
	zone := 0
	if a.RollingFTP > 0 {
		if z, err := training.ZoneForRide(a.RollingFTP, a.WeightedAverageWatt); err == nil {
			zone = z
		}
	}
	date, _, _ := strings.Cut(a.StartDateLocal, "T")
	return activity.Ride{
		Date:            date,
		FTP:             a.RollingFTP,
		TrainingLoad:    a.TrainingLoad,
		Kilojoules:      activity.Kilojoules(a.Joules),
		NormalizedWatts: a.WeightedAverageWatt,
		Miles:           math.Round(a.Distance / metersPerMile),
		MovingSeconds:   a.MovingTime,
		ElevationFeet:   math.Round(a.ElevationGain * feetPerMeter),
		Mph:             roundTo(a.AverageSpeed*mphPerMps, 1),
		Calories:        a.Calories,
		TemperatureF:    activity.Fahrenheit(a.AverageTemp),
		IntensityFactor: math.Round(a.Intensity),
		Fitness:         ptr.Clone(a.Fitness),
		Fatigue:         ptr.Clone(a.Fatigue),
		Zone:            zone,
		Source:          activity.SourceIntervals,
	}
}

// SummarizeAll prunes every activity.
func SummarizeAll(activities []Activity) []activity.Ride {
	rides := make([]activity.Ride, 0, len(activities))
	for _, a := range activities {
		rides = append(rides, Summarize(a))
	}
	return rides
}

// ToWellness converts the API record.
func (w Wellness) ToWellness() activity.Wellness {
	return activity.Wellness{
		Date:        w.ID,
		Fitness:     w.Fitness,
		Fatigue:     w.Fatigue,
		FitnessLoad: w.CTLLoad,
		FatigueLoad: w.ATLLoad,
		RampRate:    w.RampRate,
		RestingHR:   w.RestingHR,
	}
}
