package training

import (
	"math"
	"slices"
)

// TargetRides lists the rides from catalog that produce targetLoad for an athlete with ftp and last between
// minMinutes and maxMinutes. Interval categories use the athlete's current block from current; without one
// they are prescribed as continuous rides. An empty result means no ride fits.
func TargetRides(catalog Catalog, ftp, targetLoad, minMinutes, maxMinutes float64, current []Progression) []Prescription {
	var rides []Prescription
	for _, category := range catalog.categories {
		var (
			ride Prescription
			ok   bool
		)
		i := slices.IndexFunc(current, func(p Progression) bool { return p.Zone == category.Zone })
		if category.IsInterval() && i >= 0 {
			ride, ok = intervalRide(catalog, category, current[i].Interval(), ftp, targetLoad)
		} else {
			ride, ok = continuousRide(category, ftp, targetLoad)
		}
		if !ok || ride.TotalMinutes < minMinutes || ride.TotalMinutes > maxMinutes {
			continue
		}
		rides = append(rides, ride)
	}
	return rides
}

func withinZoneBounds(category Category, minutes float64) bool {
	if category.MinMinutesInZone != 0 && minutes < category.MinMinutesInZone {
		return false
	}
	if category.MaxMinutesInZone != 0 && minutes > category.MaxMinutesInZone {
		return false
	}
	return true
}

func continuousRide(category Category, ftp, targetLoad float64) (Prescription, bool) {
	minutes := math.Round(MinutesForLoad(category.PercentFTP, ftp, targetLoad))
	if !withinZoneBounds(category, minutes) {
		return Prescription{}, false
	}
	return Prescription{
		Name:            category.Name,
		Zone:            category.Zone,
		ContinuousZone:  category.Zone,
		ContinuousWatts: category.PercentFTP / percent * ftp,
		TotalMinutes:    minutes,
		Intervals:       nil,
	}, true
}

func intervalRide(catalog Catalog, category Category, block Interval, ftp, targetLoad float64) (Prescription, bool) {
	continuous, ok := catalog.Category(category.ContinuousZone)
	if !ok {
		return Prescription{}, false
	}
	intervalMinutes := block.TotalMinutes()
	if !withinZoneBounds(category, intervalMinutes) {
		return Prescription{}, false
	}
	restMinutes := float64(max(block.Reps-1, 0)) * category.MinIntervalRestMinutes

	intervalWatts := category.PercentFTP / percent * ftp
	continuousWatts := continuous.PercentFTP / percent * ftp
	fixedLoad := TrainingLoad(intervalMinutes/minutesPerHour, intervalWatts, ftp) +
		TrainingLoad(restMinutes/minutesPerHour, continuousWatts, ftp)
	if fixedLoad >= targetLoad {
		return Prescription{}, false
	}

	bookendMinutes := MinutesForLoad(continuous.PercentFTP, ftp, targetLoad-fixedLoad)
	total := math.Round(intervalMinutes + restMinutes + bookendMinutes)
	if category.MaxMinutesTotal != 0 && total > category.MaxMinutesTotal {
		return Prescription{}, false
	}

	return Prescription{
		Name:            category.Name,
		Zone:            category.Zone,
		ContinuousZone:  category.ContinuousZone,
		ContinuousWatts: continuousWatts,
		TotalMinutes:    total,
		Intervals: &IntervalSet{
			Reps:        block.Reps,
			Minutes:     block.Minutes,
			Watts:       intervalWatts,
			Zone:        category.Zone,
			RestMinutes: category.MinIntervalRestMinutes,
		},
	}, true
}

// LoadRange is the training load a category can produce within its time in zone bounds. High is +Inf when
// the category has no upper bound.
type LoadRange struct {
	Name string
	Zone float64
	Low  float64
	High float64
}

// LoadRanges lists the load range of every category in catalog for ftp.
func LoadRanges(catalog Catalog, ftp float64) []LoadRange {
	ranges := make([]LoadRange, 0, len(catalog.categories))
	for _, c := range catalog.categories {
		watts := c.PercentFTP / percent * ftp
		r := LoadRange{Name: c.Name, Zone: c.Zone, Low: 0, High: math.Inf(1)}
		if c.MinMinutesInZone != 0 {
			r.Low = TrainingLoad(c.MinMinutesInZone/minutesPerHour, watts, ftp)
		}
		if c.MaxMinutesInZone != 0 {
			r.High = TrainingLoad(c.MaxMinutesInZone/minutesPerHour, watts, ftp)
		}
		ranges = append(ranges, r)
	}
	return ranges
}
