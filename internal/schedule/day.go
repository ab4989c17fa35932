// Package schedule builds a day by day training plan around an athlete's recorded rides and solves the
// training load of the days still to be ridden.
package schedule

import (
	"github.com/myrjola/ridecoach/internal/training"
)

// Day is one day of a schedule. Nil pointers are unknown values.
type Day struct {
	// Offset counts days from the plan start.
	Offset       int      `json:"offset"`
	Date         string   `json:"date"`
	Fitness      *float64 `json:"fitness,omitempty"`
	Fatigue      *float64 `json:"fatigue,omitempty"`
	Form         *float64 `json:"form,omitempty"`
	TrainingLoad *float64 `json:"trainingLoad,omitempty"`

	TargetForm         *FormTarget    `json:"targetForm,omitempty"`
	TargetFormPercent  *PercentTarget `json:"targetFormPercent,omitempty"`
	TargetTrainingLoad *float64       `json:"targetTrainingLoad,omitempty"`
	MinMinutes         *float64       `json:"minMinutes,omitempty"`
	MaxMinutes         *float64       `json:"maxMinutes,omitempty"`
	MinZone            *float64       `json:"minZone,omitempty"`
	MaxZone            *float64       `json:"maxZone,omitempty"`

	NeedsRide   bool                    `json:"needsRide,omitempty"`
	RideOptions []training.Prescription `json:"rideOptions,omitempty"`
	// Zone of the recorded ride, 0 without one.
	Zone int `json:"zone,omitempty"`
}

// Rest reports whether the day is settled without riding.
func (d Day) Rest() bool {
	return d.TrainingLoad != nil && *d.TrainingLoad == 0
}
