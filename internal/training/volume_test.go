package training_test

import (
	"math"
	"testing"

	"github.com/myrjola/ridecoach/internal/training"
)

func TestPlanWeeklyVolume(t *testing.T) {
	v, err := training.PlanWeeklyVolume(50, training.DefaultZoneMix)
	if err != nil {
		t.Fatalf("PlanWeeklyVolume() error = %v", err)
	}
	if v.TargetLoad != 350 {
		t.Errorf("TargetLoad = %v, want 350", v.TargetLoad)
	}
	load, minutes := 0.0, 0.0
	for _, z := range v.Zones {
		load += z.Load
		minutes += z.Minutes
	}
	if math.Abs(load-350) >= 0.1 {
		t.Errorf("zone loads sum to %v, want 350", load)
	}
	if !approxEqual(minutes, v.Minutes, 1e-6) {
		t.Errorf("zone minutes sum to %v, want %v", minutes, v.Minutes)
	}
	// Endurance holds 30 of 77 parts.
	if !approxEqual(v.Zones[1].Minutes, v.Minutes*30/77, 1e-6) {
		t.Errorf("zone 2 minutes = %v, want %v", v.Zones[1].Minutes, v.Minutes*30/77)
	}
}

func TestPlanWeeklyVolume_invalid(t *testing.T) {
	if _, err := training.PlanWeeklyVolume(50, [7]float64{}); err == nil {
		t.Error("empty mix error = nil")
	}
	if _, err := training.PlanWeeklyVolume(0, training.DefaultZoneMix); err == nil {
		t.Error("zero fitness error = nil")
	}
}
