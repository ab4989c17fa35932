package training

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotConverged is returned when an iterative search gives up before reaching its tolerance.
var ErrNotConverged = errors.New("search did not converge")

// DefaultZoneMix is the share of weekly time spent in each Coggan zone for a polarized base block.
//
//nolint:gochecknoglobals,mnd // reference table.
var DefaultZoneMix = [len(CogganZones)]float64{8, 30, 19, 12, 5, 2, 1}

// ZoneVolume is the weekly time and load in one zone.
type ZoneVolume struct {
	Zone    int
	Minutes float64
	Load    float64
}

// WeeklyVolume is the riding time needed per week to hold a fitness level.
type WeeklyVolume struct {
	TargetLoad float64
	Minutes    float64
	Zones      []ZoneVolume
}

const (
	volumeTolerance     = 0.1
	volumeMaxIterations = 200
	// Zone 7 has no upper bound; this closes it for the midpoint.
	neuromuscularCeiling = 180
)

func zoneMidpoints() [len(CogganZones)]float64 {
	var mid [len(CogganZones)]float64
	for i, z := range CogganZones {
		upper := z.MaxPercentFTP
		if math.IsInf(upper, 1) {
			upper = neuromuscularCeiling
		}
		mid[i] = midpoint(z.MinPercentFTP, upper)
	}
	return mid
}

// PlanWeeklyVolume finds the weekly minutes that, split by mix and ridden at each zone's midpoint, produce
// seven days of targetFitness load.
func PlanWeeklyVolume(targetFitness float64, mix [len(CogganZones)]float64) (WeeklyVolume, error) {
	total := 0.0
	for _, m := range mix {
		if m < 0 {
			return WeeklyVolume{}, fmt.Errorf("negative zone share %v", m)
		}
		total += m
	}
	if total == 0 {
		return WeeklyVolume{}, errors.New("zone mix is empty")
	}
	if targetFitness <= 0 {
		return WeeklyVolume{}, fmt.Errorf("target fitness must be positive, got %v", targetFitness)
	}

	const ftp = 100
	mid := zoneMidpoints()
	target := daysPerWeek * targetFitness
	loadFor := func(minutes float64) float64 {
		sum := 0.0
		for i := range mix {
			sum += rawTrainingLoad(mix[i]/total*minutes/minutesPerHour, mid[i], ftp)
		}
		return sum
	}

	lower := MinutesForLoad(mid[len(mid)-1], ftp, target)
	upper := MinutesForLoad(mid[0], ftp, target)
	for range volumeMaxIterations {
		minutes := midpoint(lower, upper)
		load := loadFor(minutes)
		if math.Abs(load-target) < volumeTolerance {
			v := WeeklyVolume{TargetLoad: target, Minutes: minutes, Zones: make([]ZoneVolume, 0, len(mix))}
			for i := range mix {
				m := mix[i] / total * minutes
				v.Zones = append(v.Zones, ZoneVolume{
					Zone:    CogganZones[i].Number,
					Minutes: m,
					Load:    rawTrainingLoad(m/minutesPerHour, mid[i], ftp),
				})
			}
			return v, nil
		}
		if load < target {
			lower = minutes
		} else {
			upper = minutes
		}
	}
	return WeeklyVolume{}, fmt.Errorf("%w: weekly volume for fitness %v", ErrNotConverged, targetFitness)
}

func midpoint(a, b float64) float64 {
	return (a + b) / 2 //nolint:mnd // halfway.
}
