package training_test

import (
	"errors"
	"math"
	"testing"

	"github.com/myrjola/ridecoach/internal/training"
)

func TestPowerLaw(t *testing.T) {
	if got := training.PowerLaw(250, 3600); !approxEqual(got, 250, tolerance) {
		t.Errorf("PowerLaw(250, 3600) = %v, want 250", got)
	}
	if got := training.PowerLaw(250, 600); got <= 250 {
		t.Errorf("PowerLaw(250, 600) = %v, want above FTP", got)
	}
	if got := training.PowerLaw(250, 0); !math.IsInf(got, 1) {
		t.Errorf("PowerLaw(250, 0) = %v, want +Inf", got)
	}
}

func TestCogganPower(t *testing.T) {
	tests := []struct {
		seconds float64
		want    float64
	}{
		{seconds: 1, want: 500},
		{seconds: 60, want: 350},
		{seconds: math.Sqrt(60 * 300), want: 295},
		{seconds: 1200, want: 200},
		{seconds: 36000, want: 140},
	}
	for _, tt := range tests {
		got, err := training.CogganPower(200, tt.seconds)
		if err != nil {
			t.Fatalf("CogganPower(200, %v) error = %v", tt.seconds, err)
		}
		if !approxEqual(got, tt.want, 1e-9) {
			t.Errorf("CogganPower(200, %v) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
	if _, err := training.CogganPower(200, -1); !errors.Is(err, training.ErrInvalidDuration) {
		t.Errorf("CogganPower(200, -1) error = %v, want ErrInvalidDuration", err)
	}
}

func TestPowerCurve_At(t *testing.T) {
	curve := training.PowerCurve{Seconds: []float64{1, 5, 60, 300}, Watts: []float64{900, 700, 400, 300}}
	tests := []struct {
		seconds float64
		want    float64
	}{
		{seconds: 0.5, want: 900},
		{seconds: 2, want: 900},
		{seconds: 3, want: 700},
		{seconds: 4, want: 700},
		{seconds: 100, want: 400},
		{seconds: 250, want: 300},
		{seconds: 7200, want: 300},
	}
	for _, tt := range tests {
		got, err := curve.At(tt.seconds)
		if err != nil {
			t.Fatalf("At(%v) error = %v", tt.seconds, err)
		}
		if got != tt.want {
			t.Errorf("At(%v) = %v, want %v", tt.seconds, got, tt.want)
		}
	}

	if _, err := (training.PowerCurve{}).At(60); !errors.Is(err, training.ErrEmptyPowerCurve) {
		t.Errorf("empty curve error = %v, want ErrEmptyPowerCurve", err)
	}
	if _, err := curve.At(0); !errors.Is(err, training.ErrInvalidDuration) {
		t.Errorf("At(0) error = %v, want ErrInvalidDuration", err)
	}
}
