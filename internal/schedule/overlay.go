package schedule

import (
	"fmt"

	"github.com/myrjola/ridecoach/internal/ptr"
)

// Override sets preferences for the day matching Offset, or Date when Offset is nil. Only the fields that are
// set overwrite the day.
type Override struct {
	Offset *int   `yaml:"offset,omitempty"`
	Date   string `yaml:"date,omitempty"`

	TrainingLoad       *float64       `yaml:"trainingLoad,omitempty"`
	TargetForm         *FormTarget    `yaml:"targetForm,omitempty"`
	TargetFormPercent  *PercentTarget `yaml:"targetFormPercent,omitempty"`
	TargetTrainingLoad *float64       `yaml:"targetTrainingLoad,omitempty"`
	MinMinutes         *float64       `yaml:"minMinutes,omitempty"`
	MaxMinutes         *float64       `yaml:"maxMinutes,omitempty"`
	MinZone            *float64       `yaml:"minZone,omitempty"`
	MaxZone            *float64       `yaml:"maxZone,omitempty"`
	NeedsRide          *bool          `yaml:"needsRide,omitempty"`
}

func (o Override) String() string {
	if o.Offset != nil {
		return fmt.Sprintf("offset %d", *o.Offset)
	}
	return "date " + o.Date
}

func (o Override) matches(d Day) bool {
	if o.Offset != nil {
		return *o.Offset == d.Offset
	}
	return o.Date != "" && o.Date == d.Date
}

// Apply merges overrides into days in order, so later overrides win. It returns the overrides that matched
// no day.
func Apply(days []Day, overrides ...Override) []Override {
	var unmatched []Override
	for _, o := range overrides {
		found := false
		for i := range days {
			if !o.matches(days[i]) {
				continue
			}
			o.applyTo(&days[i])
			found = true
			break
		}
		if !found {
			unmatched = append(unmatched, o)
		}
	}
	return unmatched
}

func (o Override) applyTo(d *Day) {
	if o.TrainingLoad != nil {
		d.TrainingLoad = ptr.Clone(o.TrainingLoad)
	}
	if o.TargetForm != nil {
		d.TargetForm = ptr.Clone(o.TargetForm)
	}
	if o.TargetFormPercent != nil {
		d.TargetFormPercent = ptr.Clone(o.TargetFormPercent)
	}
	if o.TargetTrainingLoad != nil {
		d.TargetTrainingLoad = ptr.Clone(o.TargetTrainingLoad)
	}
	if o.MinMinutes != nil {
		d.MinMinutes = ptr.Clone(o.MinMinutes)
	}
	if o.MaxMinutes != nil {
		d.MaxMinutes = ptr.Clone(o.MaxMinutes)
	}
	if o.MinZone != nil {
		d.MinZone = ptr.Clone(o.MinZone)
	}
	if o.MaxZone != nil {
		d.MaxZone = ptr.Clone(o.MaxZone)
	}
	if o.NeedsRide != nil {
		d.NeedsRide = *o.NeedsRide
	}
}
