package export_test

import (
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/ridecoach/internal/export"
	"github.com/myrjola/ridecoach/internal/ptr"
	"github.com/myrjola/ridecoach/internal/schedule"
	"github.com/myrjola/ridecoach/internal/training"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

func threshold() training.Prescription {
	return training.Prescription{
		Name:            "Threshold",
		Zone:            4,
		ContinuousZone:  2,
		ContinuousWatts: 130,
		TotalMinutes:    64,
		Intervals:       &training.IntervalSet{Reps: 2, Minutes: 20, Watts: 194, Zone: 4, RestMinutes: 4},
	}
}

func testDays() []schedule.Day {
	maintain := schedule.MaintainForm()
	return []schedule.Day{
		{Offset: 0, Date: "2025-07-01", Fitness: ptr.Ref(50.0), Fatigue: ptr.Ref(80.0), Form: ptr.Ref(-30.0),
			TrainingLoad: ptr.Ref(85.0), Zone: 3},
		{Offset: 1, Date: "2025-07-02", Fitness: ptr.Ref(51.0), Fatigue: ptr.Ref(75.0), Form: ptr.Ref(-24.0),
			TrainingLoad: ptr.Ref(60.0), TargetForm: &maintain, NeedsRide: true,
			RideOptions: []training.Prescription{threshold()}},
		{Offset: 2, Date: "2025-07-03"},
	}
}

func readRows(t *testing.T, path string) []export.DayRow {
	t.Helper()
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		t.Fatalf("open parquet: %v", err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(export.DayRow), 1)
	if err != nil {
		t.Fatalf("new parquet reader: %v", err)
	}
	defer pr.ReadStop()
	rows := make([]export.DayRow, pr.GetNumRows())
	if err = pr.Read(&rows); err != nil {
		t.Fatalf("read rows: %v", err)
	}
	return rows
}

func TestWriteScheduleParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.parquet")
	if err := export.WriteScheduleParquet(path, testDays()); err != nil {
		t.Fatalf("WriteScheduleParquet() error = %v", err)
	}

	got := readRows(t, path)
	if diff := cmp.Diff(export.ScheduleRows(testDays()), got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if got[1].TargetForm != "maintain" || !strings.Contains(got[1].RideOptions, "2x20m@194w") {
		t.Errorf("row 1 = %+v", got[1])
	}
	if got[2].Fitness != nil {
		t.Errorf("unknown fitness became %v", *got[2].Fitness)
	}
}

func TestMarshalScheduleParquet(t *testing.T) {
	b, err := export.MarshalScheduleParquet(testDays())
	if err != nil {
		t.Fatalf("MarshalScheduleParquet() error = %v", err)
	}
	if len(b) < 8 || string(b[:4]) != "PAR1" || string(b[len(b)-4:]) != "PAR1" {
		t.Fatalf("not a parquet file: % x", b[:min(len(b), 8)])
	}

	path := filepath.Join(t.TempDir(), "schedule.parquet")
	if err = os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := readRows(t, path); len(got) != 3 || got[0].Date != "2025-07-01" {
		t.Errorf("rows = %+v", got)
	}
}

type zwoStep struct {
	XMLName     xml.Name
	Duration    int     `xml:"Duration,attr"`
	Power       float64 `xml:"Power,attr"`
	PowerLow    float64 `xml:"PowerLow,attr"`
	PowerHigh   float64 `xml:"PowerHigh,attr"`
	Repeat      int     `xml:"Repeat,attr"`
	OnDuration  int     `xml:"OnDuration,attr"`
	OnPower     float64 `xml:"OnPower,attr"`
	OffDuration int     `xml:"OffDuration,attr"`
	OffPower    float64 `xml:"OffPower,attr"`
}

type zwoFile struct {
	XMLName     xml.Name `xml:"workout_file"`
	Name        string   `xml:"name"`
	Description string   `xml:"description"`
	Workout     struct {
		Steps []zwoStep `xml:",any"`
	} `xml:"workout"`
}

func decodeZWO(t *testing.T, b []byte) zwoFile {
	t.Helper()
	var f zwoFile
	if err := xml.Unmarshal(b, &f); err != nil {
		t.Fatalf("unmarshal ZWO: %v\n%s", err, b)
	}
	return f
}

func TestZWO_intervals(t *testing.T) {
	b, err := export.ZWO(threshold(), export.Workout{Name: "Tuesday", FTP: 250, WarmupMinutes: 10,
		CooldownMinutes: 5})
	if err != nil {
		t.Fatalf("ZWO() error = %v", err)
	}
	f := decodeZWO(t, b)

	step := func(name string) xml.Name { return xml.Name{Local: name} }
	want := []zwoStep{
		{XMLName: step("Warmup"), Duration: 600, PowerLow: 0.25, PowerHigh: 0.52},
		{XMLName: step("SteadyState"), Duration: 600, Power: 0.52},
		{XMLName: step("IntervalsT"), Repeat: 1, OnDuration: 1200, OnPower: 0.776, OffDuration: 240,
			OffPower: 0.52},
		{XMLName: step("SteadyState"), Duration: 1200, Power: 0.776},
		{XMLName: step("SteadyState"), Duration: 600, Power: 0.52},
		{XMLName: step("Cooldown"), Duration: 300, PowerLow: 0.52, PowerHigh: 0.25},
	}
	if diff := cmp.Diff(want, f.Workout.Steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
	if f.Name != "Tuesday" || f.Description != threshold().String() {
		t.Errorf("name = %q, description = %q", f.Name, f.Description)
	}
}

func TestZWO_continuous(t *testing.T) {
	ride := training.Prescription{Name: "Base Miles", Zone: 2, ContinuousZone: 2, ContinuousWatts: 162.5,
		TotalMinutes: 90}
	b, err := export.ZWO(ride, export.Workout{Name: "Base", FTP: 250})
	if err != nil {
		t.Fatalf("ZWO() error = %v", err)
	}
	steps := decodeZWO(t, b).Workout.Steps
	if len(steps) != 1 || steps[0].Duration != 5400 || steps[0].Power != 0.65 {
		t.Errorf("steps = %+v", steps)
	}
	if !strings.HasPrefix(string(b), xml.Header) {
		t.Errorf("missing XML header")
	}
}

func TestZWO_invalid(t *testing.T) {
	if _, err := export.ZWO(threshold(), export.Workout{Name: "x"}); !errors.Is(err, export.ErrInvalidWorkout) {
		t.Errorf("ZWO() without FTP error = %v", err)
	}
	if _, err := export.ZWO(training.Prescription{}, export.Workout{FTP: 250}); !errors.Is(err,
		export.ErrInvalidWorkout) {
		t.Errorf("ZWO() of empty ride error = %v", err)
	}
}
