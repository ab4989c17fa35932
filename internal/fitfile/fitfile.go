// Package fitfile summarizes rides recorded in Garmin FIT activity files.
package fitfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/calendar"
	"github.com/myrjola/ridecoach/internal/training"
	"github.com/tormoder/fit"
)

var (
	ErrNotRide   = errors.New("activity is not a ride")
	ErrNoSession = errors.New("activity has no session")
	ErrNoFTP     = errors.New("no FTP given and none recorded in the file")
)

const (
	metersPerMile = 1609.34
	feetPerMeter  = 3.28084
	mphPerMps     = 2.23694
	tenths        = 10
	percent       = 100
)

// Read decodes a FIT activity and summarizes its first session. When ftp is not positive the threshold power
// stored in the session is used.
func Read(r io.Reader, ftp float64) (activity.Ride, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return activity.Ride{}, fmt.Errorf("decode FIT file: %w", err)
	}
	af, err := decoded.Activity()
	if err != nil {
		return activity.Ride{}, fmt.Errorf("activity FIT expected: %w", err)
	}
	if len(af.Sessions) == 0 {
		return activity.Ride{}, ErrNoSession
	}
	return summarize(af.Sessions[0], af.Records, ftp, time.Local)
}

func summarize(session *fit.SessionMsg, records []*fit.RecordMsg, ftp float64, loc *time.Location) (activity.Ride, error) {
	if session.Sport != fit.SportCycling {
		return activity.Ride{}, fmt.Errorf("%w: sport %v", ErrNotRide, session.Sport)
	}
	if ftp <= 0 {
		ftp = float64(validUint16(session.ThresholdPower))
	}
	if ftp <= 0 {
		return activity.Ride{}, ErrNoFTP
	}

	seconds := positive(session.GetTotalMovingTimeScaled())
	if seconds == 0 {
		seconds = positive(session.GetTotalTimerTimeScaled())
	}
	np := float64(validUint16(session.NormalizedPower))
	if np == 0 {
		np = training.NormalizedPower(recordPower(records))
	}
	joules := float64(validUint32(session.TotalWork))
	if joules == 0 {
		joules = float64(validUint16(session.AvgPower)) * seconds
	}
	speed := positive(session.GetEnhancedAvgSpeedScaled())
	if speed == 0 {
		speed = positive(session.GetAvgSpeedScaled())
	}
	var tempF float64
	if session.AvgTemperature != math.MaxInt8 {
		tempF = activity.Fahrenheit(float64(session.AvgTemperature))
	}
	zone, err := training.ZoneForRide(ftp, np)
	if err != nil {
		zone = 0
	}

	hours := seconds / time.Hour.Seconds()
	return activity.Ride{
		Date:            calendar.FormatDate(session.StartTime.In(loc)),
		FTP:             ftp,
		TrainingLoad:    training.TrainingLoad(hours, np, ftp),
		Kilojoules:      activity.Kilojoules(joules),
		NormalizedWatts: math.Round(np),
		Miles:           math.Round(positive(session.GetTotalDistanceScaled()) / metersPerMile),
		MovingSeconds:   int(math.Round(seconds)),
		ElevationFeet:   math.Round(float64(validUint16(session.TotalAscent)) * feetPerMeter),
		Mph:             math.Round(speed*mphPerMps*tenths) / tenths,
		Calories:        float64(validUint16(session.TotalCalories)),
		TemperatureF:    tempF,
		IntensityFactor: math.Round(np / ftp * percent),
		Fitness:         nil,
		Fatigue:         nil,
		Zone:            zone,
		Source:          activity.SourceFitFile,
	}, nil
}

// recordPower returns the per-second power samples, treating dropouts as zero watts.
func recordPower(records []*fit.RecordMsg) []float64 {
	samples := make([]float64, 0, len(records))
	for _, rec := range records {
		samples = append(samples, float64(validUint16(rec.Power)))
	}
	return samples
}

func validUint16(v uint16) uint16 {
	if v == math.MaxUint16 {
		return 0
	}
	return v
}

func validUint32(v uint32) uint32 {
	if v == math.MaxUint32 {
		return 0
	}
	return v
}

func positive(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}
