package training_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/ridecoach/internal/training"
)

func ftpOnlyCatalog(t *testing.T) training.Catalog {
	t.Helper()
	c, err := training.NewCatalog([]training.Category{
		{Name: "FTP", Zone: 4, PercentFTP: 100, MinMinutesInZone: 20, MaxMinutesInZone: 120},
	}, nil, nil)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return c
}

func TestTargetRides_continuous(t *testing.T) {
	got := training.TargetRides(ftpOnlyCatalog(t), 200, 100, 0, math.MaxFloat64, nil)
	want := []training.Prescription{{
		Name:            "FTP",
		Zone:            4,
		ContinuousZone:  4,
		ContinuousWatts: 200,
		TotalMinutes:    60,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TargetRides() mismatch (-want +got):\n%s", diff)
	}
	if s := got[0].String(); s != "60m|200w|Z4|FTP" {
		t.Errorf("String() = %q", s)
	}
}

func TestTargetRides_durationWindow(t *testing.T) {
	if got := training.TargetRides(ftpOnlyCatalog(t), 200, 100, 0, 30, nil); len(got) != 0 {
		t.Errorf("TargetRides() = %v, want no rides", got)
	}
	if got := training.TargetRides(ftpOnlyCatalog(t), 200, 100, 61, 90, nil); len(got) != 0 {
		t.Errorf("TargetRides() = %v, want no rides", got)
	}
}

func TestTargetRides_zeroLoad(t *testing.T) {
	if got := training.TargetRides(training.DefaultCatalog(), 250, 0, 0, math.MaxFloat64, nil); len(got) != 0 {
		t.Errorf("TargetRides() = %v, want no rides", got)
	}
}

func TestTargetRides_intervals(t *testing.T) {
	current := []training.Progression{{Zone: 4, Reps: 2, Minutes: 10}}
	rides := training.TargetRides(training.DefaultCatalog(), 200, 100, 20, math.MaxFloat64, current)

	var threshold *training.Prescription
	for i := range rides {
		if rides[i].Name == "Threshold" {
			threshold = &rides[i]
		}
	}
	if threshold == nil {
		t.Fatalf("no threshold ride in %v", rides)
	}
	want := training.Prescription{
		Name:            "Threshold",
		Zone:            4,
		ContinuousZone:  2,
		ContinuousWatts: 130,
		TotalMinutes:    117,
		Intervals:       &training.IntervalSet{Reps: 2, Minutes: 10, Watts: 194, Zone: 4, RestMinutes: 4},
	}
	if diff := cmp.Diff(want, *threshold); diff != "" {
		t.Errorf("threshold ride mismatch (-want +got):\n%s", diff)
	}
	if s := threshold.String(); s != "1h57m|2x10m@194w (rest 4m)|Z4|Threshold|+93mZ2@130w" {
		t.Errorf("String() = %q", s)
	}
}

func TestTargetRides_intervalsExceedingTarget(t *testing.T) {
	current := []training.Progression{{Zone: 4, Reps: 2, Minutes: 10}}
	for _, r := range training.TargetRides(training.DefaultCatalog(), 200, 30, 0, math.MaxFloat64, current) {
		if r.Name == "Threshold" {
			t.Errorf("threshold ride %v offered although the intervals alone exceed the load", r)
		}
	}
}

func TestTargetRides_withinCategoryBounds(t *testing.T) {
	catalog := training.DefaultCatalog()
	current := []training.Progression{
		{Zone: 3.5, Reps: 2, Minutes: 20},
		{Zone: 3.6, Reps: 2, Minutes: 15},
		{Zone: 4, Reps: 3, Minutes: 10},
		{Zone: 5, Reps: 4, Minutes: 4},
		{Zone: 6, Reps: 3, Minutes: 1},
	}
	for load := 5.0; load <= 400; load += 7.5 {
		for _, r := range training.TargetRides(catalog, 230, load, 0, math.MaxFloat64, current) {
			cat, ok := catalog.Category(r.Zone)
			if !ok {
				t.Fatalf("ride %v has no category", r)
			}
			inZone := r.TotalMinutes
			if r.Intervals != nil {
				inZone = float64(r.Intervals.Reps) * r.Intervals.Minutes
				if cat.MaxMinutesTotal != 0 && r.TotalMinutes > cat.MaxMinutesTotal {
					t.Errorf("load %v: %v exceeds total limit %v", load, r, cat.MaxMinutesTotal)
				}
			}
			if cat.MinMinutesInZone != 0 && inZone < cat.MinMinutesInZone {
				t.Errorf("load %v: %v below %v minutes in zone", load, r, cat.MinMinutesInZone)
			}
			if cat.MaxMinutesInZone != 0 && inZone > cat.MaxMinutesInZone {
				t.Errorf("load %v: %v above %v minutes in zone", load, r, cat.MaxMinutesInZone)
			}
		}
	}
}

func TestLoadRanges(t *testing.T) {
	ranges := training.LoadRanges(ftpOnlyCatalog(t), 250)
	want := []training.LoadRange{{Name: "FTP", Zone: 4, Low: 33.3, High: 200}}
	if diff := cmp.Diff(want, ranges); diff != "" {
		t.Errorf("LoadRanges() mismatch (-want +got):\n%s", diff)
	}
}
