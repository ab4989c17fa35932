package training

import (
	"errors"
	"fmt"

	"github.com/myrjola/ridecoach/internal/activity"
)

// ErrNoRides is returned when no ride qualifies for an estimate.
var ErrNoRides = errors.New("no qualifying rides")

// FatFraction is the share of energy drawn from fat at intensity, a fraction of FTP. The quadratic fit is
// clamped to [0, 1].
func FatFraction(intensity float64) float64 {
	const a, b, c = -0.34648829, -0.28680936, 1.02073278
	f := a*intensity*intensity + b*intensity + c
	return min(max(f, 0), 1)
}

// CarbFraction is the share of energy drawn from carbohydrate at intensity.
func CarbFraction(intensity float64) float64 {
	return 1 - FatFraction(intensity)
}

// FuelEstimate splits a ride's energy cost in kcal by substrate.
type FuelEstimate struct {
	Calories         float64
	FatCalories      float64
	GlycogenCalories float64
}

// EstimateFuel estimates the energy of riding seconds at averageWatts with the given intensity factor. Gross
// efficiency makes one kJ of work cost roughly one kcal.
func EstimateFuel(averageWatts, seconds, intensity float64) FuelEstimate {
	calories := averageWatts * seconds / joulesPerKilojoule
	fat := calories * FatFraction(intensity)
	return FuelEstimate{Calories: calories, FatCalories: fat, GlycogenCalories: calories - fat}
}

// FuelPlan is the carbohydrate intake for a planned ride.
type FuelPlan struct {
	Rides            int
	CarbGramsPerHour float64
	TotalCarbGrams   float64
	CarbGramsPerFeed float64
}

const (
	kcalPerCarbGram    = 4
	joulesPerKilojoule = 1000
)

// PlanFuel averages the carbohydrate burned per hour in past rides of at least minHours whose intensity falls
// in zone, and scales it to a ride of hours with a feed every feedMinutes.
func PlanFuel(rides []activity.Ride, zone ZoneDefinition, minHours, hours, feedMinutes float64) (FuelPlan, error) {
	sum, n := 0.0, 0
	for _, r := range rides {
		h := r.Hours()
		if h < minHours || h <= 0 || r.Calories <= 0 {
			continue
		}
		if r.IntensityFactor < zone.MinPercentFTP || r.IntensityFactor >= zone.MaxPercentFTP {
			continue
		}
		sum += r.Calories / h * CarbFraction(r.IntensityFactor/percent) / kcalPerCarbGram
		n++
	}
	if n == 0 {
		return FuelPlan{}, fmt.Errorf("%w: zone %d, at least %v h", ErrNoRides, zone.Number, minHours)
	}
	perHour := sum / float64(n)
	return FuelPlan{
		Rides:            n,
		CarbGramsPerHour: perHour,
		TotalCarbGrams:   perHour * hours,
		CarbGramsPerFeed: perHour * feedMinutes / minutesPerHour,
	}, nil
}
