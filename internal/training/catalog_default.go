package training

// DefaultCatalog returns the stock ride categories and interval ladders.
func DefaultCatalog() Catalog {
	c, err := NewCatalog(defaultCategories(), defaultProgressions(), defaultIntervalLengths())
	if err != nil {
		panic("default catalog: " + err.Error())
	}
	return c
}

//nolint:mnd // reference table.
func defaultCategories() []Category {
	return []Category{
		{Name: "Stroll", Zone: 1.1, PercentFTP: 40, MinMinutesInZone: 1, MaxMinutesInZone: 180},
		{Name: "Recovery", Zone: 1, PercentFTP: 50, MinMinutesInZone: 30, MaxMinutesInZone: 90},
		{Name: "Base Miles", Zone: 2, PercentFTP: 65, MinMinutesInZone: 40, MaxMinutesInZone: 120},
		{Name: "Long Ride", Zone: 2.5, PercentFTP: 69, MinMinutesInZone: 120},
		{Name: "Endurance", Zone: 2.6, PercentFTP: 72, MinMinutesInZone: 40, MaxMinutesInZone: 120},
		{Name: "Tempo", Zone: 3, PercentFTP: 80, MinMinutesInZone: 30, MaxMinutesInZone: 120},
		{
			Name: "Long Ride+Tempo", Zone: 3.2, PercentFTP: 80, MinMinutesInZone: 20, MaxMinutesInZone: 180,
			ContinuousZone: 2.5, MinIntervalRestMinutes: 10,
		},
		{
			Name: "Tempo Intervals", Zone: 3.5, PercentFTP: 85, MinMinutesInZone: 20, MaxMinutesInZone: 90,
			ContinuousZone: 2, MaxMinutesTotal: 150, MinIntervalRestMinutes: 10,
		},
		{
			Name: "Sweet Spot", Zone: 3.6, PercentFTP: 91, MinMinutesInZone: 10, MaxMinutesInZone: 90,
			ContinuousZone: 2, MaxMinutesTotal: 150, MinIntervalRestMinutes: 10,
		},
		{
			Name: "Threshold", Zone: 4, PercentFTP: 97, MinMinutesInZone: 8, MaxMinutesInZone: 50,
			ContinuousZone: 2, MaxMinutesTotal: 150, MinIntervalRestMinutes: 4, MinIntervalPercent: 40,
		},
		{
			Name: "VO2 Max", Zone: 5, PercentFTP: 120, MinMinutesInZone: 3, MaxMinutesInZone: 24,
			ContinuousZone: 2, MaxMinutesTotal: 135, MinIntervalRestMinutes: 3, MinIntervalPercent: 40,
		},
		{
			Name: "Anaerobic", Zone: 6, PercentFTP: 135, MinMinutesInZone: 0.5, MaxMinutesInZone: 3,
			ContinuousZone: 2, MaxMinutesTotal: 135, MinIntervalRestMinutes: 1, MinIntervalPercent: 5,
		},
	}
}

func steps(pairs ...[2]float64) []Interval {
	out := make([]Interval, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Interval{Reps: int(p[0]), Minutes: p[1]})
	}
	return out
}

//nolint:mnd // reference table.
func defaultProgressions() []IntervalProgression {
	return []IntervalProgression{
		{Zone: 3.5, Steps: steps(
			[2]float64{1, 20}, [2]float64{1, 30}, [2]float64{2, 20}, [2]float64{3, 20}, [2]float64{1, 45},
			[2]float64{2, 30}, [2]float64{1, 60}, [2]float64{2, 45}, [2]float64{1, 90},
		)},
		{Zone: 3.6, Steps: steps(
			[2]float64{1, 10}, [2]float64{1, 15}, [2]float64{2, 10}, [2]float64{1, 20}, [2]float64{2, 15},
			[2]float64{1, 30}, [2]float64{2, 20}, [2]float64{3, 15}, [2]float64{2, 25}, [2]float64{1, 50},
			[2]float64{4, 15}, [2]float64{3, 20}, [2]float64{2, 30}, [2]float64{1, 60},
		)},
		{Zone: 4, Steps: steps(
			[2]float64{1, 8}, [2]float64{1, 12}, [2]float64{2, 8}, [2]float64{1, 16}, [2]float64{1, 20},
			[2]float64{2, 10}, [2]float64{1, 20}, [2]float64{3, 8}, [2]float64{2, 12}, [2]float64{1, 24},
			[2]float64{3, 10}, [2]float64{2, 15}, [2]float64{2, 20}, [2]float64{1, 30}, [2]float64{4, 10},
			[2]float64{5, 10}, [2]float64{4, 12}, [2]float64{3, 15}, [2]float64{2, 25}, [2]float64{1, 45},
		)},
		{Zone: 5, Steps: steps(
			[2]float64{1, 3}, [2]float64{1, 5}, [2]float64{2, 3}, [2]float64{1, 6}, [2]float64{2, 4},
			[2]float64{3, 3}, [2]float64{2, 5}, [2]float64{1, 8}, [2]float64{4, 3}, [2]float64{3, 4},
			[2]float64{4, 4}, [2]float64{3, 5}, [2]float64{2, 8}, [2]float64{4, 5}, [2]float64{3, 6},
			[2]float64{4, 6}, [2]float64{3, 8}, [2]float64{4, 8},
		)},
		{Zone: 6, Steps: steps(
			[2]float64{1, 0.5}, [2]float64{2, 0.5}, [2]float64{1, 1}, [2]float64{2, 1}, [2]float64{3, 0.5},
			[2]float64{3, 1}, [2]float64{2, 2}, [2]float64{1, 3}, [2]float64{2, 3}, [2]float64{3, 3},
			[2]float64{4, 3},
		)},
	}
}

//nolint:mnd // reference table.
func defaultIntervalLengths() []IntervalLength {
	return []IntervalLength{
		{Zone: 3, MinMinutes: 10, MaxMinutes: 90},
		{Zone: 3.2, MinMinutes: 20, MaxMinutes: 180},
		{Zone: 3.5, MinMinutes: 20, MaxMinutes: 90},
		{Zone: 3.6, MinMinutes: 10, MaxMinutes: 60},
		{Zone: 4, MinMinutes: 8, MaxMinutes: 45},
		{Zone: 5, MinMinutes: 3, MaxMinutes: 8},
	}
}
