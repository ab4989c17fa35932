package fitfile

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/tormoder/fit"
)

func hourRide() *fit.SessionMsg {
	s := fit.NewSessionMsg()
	s.Sport = fit.SportCycling
	s.StartTime = time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC)
	s.TotalTimerTime = 3_600_000
	s.TotalDistance = 4_828_020
	s.TotalAscent = 300
	s.AvgSpeed = 8890
	s.TotalWork = 720_000
	s.TotalCalories = 750
	s.AvgTemperature = 21
	s.NormalizedPower = 200
	return s
}

func constantPower(watts uint16, n int) []*fit.RecordMsg {
	records := make([]*fit.RecordMsg, 0, n)
	for range n {
		rec := fit.NewRecordMsg()
		rec.Power = watts
		records = append(records, rec)
	}
	return records
}

func Test_summarize(t *testing.T) {
	want := activity.Ride{
		Date:            "2025-07-01",
		FTP:             250,
		TrainingLoad:    64,
		Kilojoules:      720,
		NormalizedWatts: 200,
		Miles:           30,
		MovingSeconds:   3600,
		ElevationFeet:   984,
		Mph:             19.9,
		Calories:        750,
		TemperatureF:    70,
		IntensityFactor: 80,
		Zone:            3,
		Source:          activity.SourceFitFile,
	}

	tests := []struct {
		name    string
		session func() *fit.SessionMsg
		records []*fit.RecordMsg
		ftp     float64
		want    activity.Ride
		wantErr error
	}{
		{
			name:    "session normalized power",
			session: hourRide,
			ftp:     250,
			want:    want,
		},
		{
			name: "normalized power from records",
			session: func() *fit.SessionMsg {
				s := hourRide()
				s.NormalizedPower = 0xFFFF
				return s
			},
			records: constantPower(200, 120),
			ftp:     250,
			want:    want,
		},
		{
			name: "threshold power from file",
			session: func() *fit.SessionMsg {
				s := hourRide()
				s.ThresholdPower = 250
				return s
			},
			want: want,
		},
		{
			name:    "no FTP",
			session: hourRide,
			wantErr: ErrNoFTP,
		},
		{
			name: "run",
			session: func() *fit.SessionMsg {
				s := hourRide()
				s.Sport = fit.SportRunning
				return s
			},
			ftp:     250,
			wantErr: ErrNotRide,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := summarize(tt.session(), tt.records, tt.ftp, time.UTC)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("summarize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("summarize() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("summarize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
