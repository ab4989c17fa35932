package training

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateTarget is returned when a target cannot be reached by any training load because the inverse
// formula divides by zero.
var ErrDegenerateTarget = errors.New("degenerate training target")

const (
	fitnessDays = 42
	fatigueDays = 7

	// fitnessDays·form' = fitnessKeep·fitness - fatigueKeep·fatigue - loadSpread·load.
	fitnessKeep = fitnessDays - 1
	fatigueKeep = (fatigueDays - 1) * (fitnessDays / fatigueDays)
	loadSpread  = fitnessDays/fatigueDays - 1
	// The same after a rest night, scaled by fitnessDays².
	morningSpread = fatigueKeep*(fatigueDays-1) - fitnessKeep

	percent          = 100
	minutesPerHour   = 60
	secondsPerMinute = 60
	daysPerWeek      = 7
)

// Fitness is the chronic training load after a day with the given load.
func Fitness(fitnessYesterday, load float64) float64 {
	return fitnessYesterday + (load-fitnessYesterday)/fitnessDays
}

// Fatigue is the acute training load after a day with the given load.
func Fatigue(fatigueYesterday, load float64) float64 {
	return fatigueYesterday + (load-fatigueYesterday)/fatigueDays
}

// LoadForForm is the training load that makes the day's form (fitness - fatigue) equal form.
//
// Substituting both recurrences into form = fitness' - fatigue' gives
// 42·form = 41·fitness - 36·fatigue - 5·load.
func LoadForForm(fitnessYesterday, fatigueYesterday, form float64) float64 {
	return (-fitnessDays*form + fitnessKeep*fitnessYesterday - fatigueKeep*fatigueYesterday) / loadSpread
}

// LoadForFormRatio is the training load that makes form'/fitness' equal ratio, e.g. -0.3 for a form of
// minus 30 % of fitness.
func LoadForFormRatio(fitnessYesterday, fatigueYesterday, ratio float64) (float64, error) {
	denominator := ratio + loadSpread
	if denominator == 0 {
		return 0, fmt.Errorf("%w: form ratio %v", ErrDegenerateTarget, ratio)
	}
	return (fitnessKeep*(1-ratio)*fitnessYesterday - fatigueKeep*fatigueYesterday) / denominator, nil
}

// LoadForNextMorningForm is the load that gives form on the morning after the ride.
func LoadForNextMorningForm(fitnessYesterday, fatigueYesterday, form float64) float64 {
	return (fitnessKeep*fitnessKeep*fitnessYesterday - fatigueKeep*fatigueKeep*fatigueYesterday -
		fitnessDays*fitnessDays*form) / morningSpread
}

// LoadForNextMorningFormPercent is the load that gives a next morning form of formPercent % of fitness.
func LoadForNextMorningFormPercent(fitnessYesterday, fatigueYesterday, formPercent float64) (float64, error) {
	p := formPercent / percent
	numerator := fatigueKeep*fatigueKeep*fatigueYesterday - fitnessKeep*fitnessKeep*(1-p)*fitnessYesterday
	denominator := fitnessKeep*(1-p) - fatigueKeep*(fatigueDays-1)
	if denominator == 0 {
		return 0, fmt.Errorf("%w: next morning form %v %%", ErrDegenerateTarget, formPercent)
	}
	return numerator / denominator, nil
}

// LoadForFitness is the rounded load that takes fitness to target in one day.
func LoadForFitness(fitnessYesterday, target float64) float64 {
	return math.Round(fitnessDays*target - (fitnessDays-1)*fitnessYesterday)
}

// LoadForFatigue is the rounded load that takes fatigue to target in one day.
func LoadForFatigue(fatigueYesterday, target float64) float64 {
	return math.Round(fatigueDays*target - (fatigueDays-1)*fatigueYesterday)
}

// TrainingLoad is the training stress of riding hours at normalized power np, rounded to one decimal.
func TrainingLoad(hours, np, ftp float64) float64 {
	return RoundTenth(rawTrainingLoad(hours, np, ftp))
}

func rawTrainingLoad(hours, np, ftp float64) float64 {
	return hours * (np * np) / (ftp * ftp) * percent
}

// MinutesForLoad is how long a ride at percentFTP must last to produce load.
func MinutesForLoad(percentFTP, ftp, load float64) float64 {
	np := percentFTP / percent * ftp
	hours := (load / percent) * (ftp * ftp) / (np * np)
	return hours * minutesPerHour
}

// RoundTenth rounds v to one decimal.
func RoundTenth(v float64) float64 {
	const tenths = 10
	return math.Round(v*tenths) / tenths
}
