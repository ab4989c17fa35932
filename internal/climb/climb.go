// Package climb estimates how fast a rider gets up a hill from a simple physics model of gravity, rolling
// resistance and aerodynamic drag.
package climb

import (
	"errors"
	"fmt"
	"math"

	"github.com/myrjola/ridecoach/internal/training"
)

var (
	// ErrInvalidCourse is returned for a course without distance.
	ErrInvalidCourse = errors.New("invalid course")
	// ErrInvalidSpeed is returned for speeds that are not positive.
	ErrInvalidSpeed = errors.New("speed must be positive")
	// ErrNoConvergence is returned when the power search gives up. The estimate returned with it is the last
	// one tried.
	ErrNoConvergence = errors.New("climb estimate did not converge")
)

const (
	gravity        = 9.81
	kgPerPound     = 0.45359
	metersPerMile  = 1609.34
	metersPerFoot  = 0.3048
	mpsPerMph      = 0.44704
	inchesPerMile  = 63360
	feetPerMile    = 5280
	minutesPerHour = 60
	secondsPerHour = 3600
	percent        = 100

	defaultRollingResistance = 0.005
	defaultDragArea          = 0.4
	defaultAirDensity        = 1.225
)

// Course is a climb.
type Course struct {
	Miles         float64 `yaml:"miles"`
	ElevationFeet float64 `yaml:"elevationFeet"`
}

func (c Course) meters() float64          { return c.Miles * metersPerMile }
func (c Course) elevationMeters() float64 { return c.ElevationFeet * metersPerFoot }

// AverageGrade is the climb's elevation gain as a percentage of its length. A course without length has
// no grade.
func (c Course) AverageGrade() float64 {
	if c.Miles <= 0 {
		return 0
	}
	return c.ElevationFeet / (c.Miles * feetPerMile) * percent
}

// Rider carries the total mass of rider and bike.
type Rider struct {
	MassPounds float64 `yaml:"massPounds"`
}

func (r Rider) kg() float64 { return r.MassPounds * kgPerPound }

// Environment holds the resistance coefficients.
type Environment struct {
	RollingResistance float64 `yaml:"rollingResistance"`
	// DragArea is CdA in m².
	DragArea float64 `yaml:"dragArea"`
	// AirDensity in kg/m³.
	AirDensity float64 `yaml:"airDensity"`
}

// DefaultEnvironment is a good road at sea level.
func DefaultEnvironment() Environment {
	return Environment{RollingResistance: defaultRollingResistance, DragArea: defaultDragArea, AirDensity: defaultAirDensity}
}

func (e Environment) rollingPower(kg, mps float64) float64 {
	return e.RollingResistance * kg * gravity * mps
}

func (e Environment) aeroPower(mps float64) float64 {
	return 0.5 * e.DragArea * e.AirDensity * mps * mps * mps //nolint:mnd // ½ρCdAv³.
}

func powerAtSpeed(course Course, rider Rider, env Environment, mps float64) float64 {
	kg := rider.kg()
	seconds := course.meters() / mps
	return kg*gravity*course.elevationMeters()/seconds + env.rollingPower(kg, mps) + env.aeroPower(mps)
}

// Power is the watts needed to ride course at speedMph.
func Power(course Course, rider Rider, env Environment, speedMph float64) (float64, error) {
	if course.Miles <= 0 {
		return 0, fmt.Errorf("%w: %v miles", ErrInvalidCourse, course.Miles)
	}
	if speedMph <= 0 {
		return 0, fmt.Errorf("%w: %v mph", ErrInvalidSpeed, speedMph)
	}
	return powerAtSpeed(course, rider, env, speedMph*mpsPerMph), nil
}

// Grade is the steepest grade in percent that watts holds at speedMph.
func Grade(speedMph float64, rider Rider, env Environment, watts float64) (float64, error) {
	if speedMph <= 0 {
		return 0, fmt.Errorf("%w: %v mph", ErrInvalidSpeed, speedMph)
	}
	v := speedMph * mpsPerMph
	kg := rider.kg()
	climbing := watts - env.rollingPower(kg, v) - env.aeroPower(v)
	return climbing / (kg * gravity * v) * percent, nil
}

const (
	minSpeed          = 0.1
	maxSpeed          = 20.0
	speedIterations   = 100
	speedPowerEpsilon = 0.01
)

// TimeForPower is the seconds it takes to ride course at a steady watts, found by bisecting the speed
// between 0.1 and 20 m/s.
func TimeForPower(course Course, rider Rider, env Environment, watts float64) (float64, error) {
	if course.Miles <= 0 {
		return 0, fmt.Errorf("%w: %v miles", ErrInvalidCourse, course.Miles)
	}
	low, high := minSpeed, maxSpeed
	speed := low
	for range speedIterations {
		speed = (low + high) / 2 //nolint:mnd // bisection.
		p := powerAtSpeed(course, rider, env, speed)
		if math.Abs(p-watts) < speedPowerEpsilon {
			break
		}
		if p < watts {
			low = speed
		} else {
			high = speed
		}
	}
	return course.meters() / speed, nil
}

// Estimate is a sustainable climbing effort.
type Estimate struct {
	Watts   float64
	Seconds float64
}

// Mph is the average speed of the estimate over course.
func (e Estimate) Mph(course Course) float64 {
	if e.Seconds <= 0 {
		return 0
	}
	return course.Miles / (e.Seconds / secondsPerHour)
}

// PowerAtDuration reports the best power a rider holds for seconds.
type PowerAtDuration func(seconds float64) (float64, error)

const (
	powerTolerance      = 1
	maxPowerGuesses     = 64
	initialBoundDivisor = 2
)

// FromPowerCurve finds the power the rider can hold for as long as the climb takes at that power, scaled by
// capacity, e.g. 0.95 for 95 %. The search starts at ftp and halves its step every guess.
func FromPowerCurve(course Course, rider Rider, env Environment, curve training.PowerCurve, ftp, capacity float64) (Estimate, error) {
	return FromPowerAtDuration(course, rider, env, curve.At, ftp, capacity)
}

// FromPowerAtDuration is [FromPowerCurve] for any power at duration model.
func FromPowerAtDuration(course Course, rider Rider, env Environment, powerAt PowerAtDuration, ftp, capacity float64) (Estimate, error) {
	power := ftp
	bound := ftp / initialBoundDivisor
	var est Estimate
	for range maxPowerGuesses {
		seconds, err := TimeForPower(course, rider, env, power)
		if err != nil {
			return Estimate{}, err
		}
		est = Estimate{Watts: power, Seconds: seconds}

		best, err := powerAt(seconds)
		if err != nil {
			return Estimate{}, fmt.Errorf("power for %.0f s: %w", seconds, err)
		}
		sustainable := best * capacity
		if math.Abs(sustainable-power) < powerTolerance {
			return est, nil
		}
		if sustainable > power {
			power += bound
		} else {
			power -= bound
		}
		bound /= 2
	}
	return est, fmt.Errorf("%w after %d guesses", ErrNoConvergence, maxPowerGuesses)
}

// MphFromGearInches is the speed at rpm in a gear of gearInches.
func MphFromGearInches(rpm, gearInches float64) float64 {
	return rpm * gearInches * math.Pi * minutesPerHour / inchesPerMile
}

// ZoneGrade is the steepest grade ridable at the top of a power zone.
type ZoneGrade struct {
	Zone  int
	Name  string
	Watts float64
	Grade float64
}

// MaxGrades lists, for every zone with an upper bound, the steepest grade the rider climbs at the zone's top
// power while spinning rpm in a gear of gearInches.
func MaxGrades(ftp float64, rider Rider, env Environment, rpm, gearInches float64) ([]ZoneGrade, error) {
	speed := MphFromGearInches(rpm, gearInches)
	var grades []ZoneGrade
	for _, z := range training.Zones(ftp) {
		if math.IsInf(z.MaxWatts, 1) {
			continue
		}
		g, err := Grade(speed, rider, env, z.MaxWatts)
		if err != nil {
			return nil, err
		}
		grades = append(grades, ZoneGrade{Zone: z.Number, Name: z.Name, Watts: z.MaxWatts, Grade: g})
	}
	return grades, nil
}
