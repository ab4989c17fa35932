// Package export writes schedules and prescribed rides in formats other tools read.
package export

import (
	"fmt"
	"strings"

	"github.com/myrjola/ridecoach/internal/schedule"
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// DayRow is the Parquet row of one schedule day.
type DayRow struct {
	Offset       int32    `parquet:"name=offset, type=INT32"`
	Date         string   `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Fitness      *float64 `parquet:"name=fitness, type=DOUBLE, repetitiontype=OPTIONAL"`
	Fatigue      *float64 `parquet:"name=fatigue, type=DOUBLE, repetitiontype=OPTIONAL"`
	Form         *float64 `parquet:"name=form, type=DOUBLE, repetitiontype=OPTIONAL"`
	TrainingLoad *float64 `parquet:"name=training_load, type=DOUBLE, repetitiontype=OPTIONAL"`
	TargetForm   string   `parquet:"name=target_form, type=BYTE_ARRAY, convertedtype=UTF8"`
	NeedsRide    bool     `parquet:"name=needs_ride, type=BOOLEAN"`
	Zone         int32    `parquet:"name=zone, type=INT32"`
	RideOptions  string   `parquet:"name=ride_options, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// parallelism is the number of goroutines the writer marshals rows with.
const parallelism = 4

// ScheduleRows flattens days into Parquet rows. Ride options are joined with "; ".
func ScheduleRows(days []schedule.Day) []DayRow {
	rows := make([]DayRow, 0, len(days))
	for _, d := range days {
		target := ""
		switch {
		case d.TargetForm != nil:
			target = d.TargetForm.String()
		case d.TargetFormPercent != nil:
			target = d.TargetFormPercent.String()
		}
		options := make([]string, 0, len(d.RideOptions))
		for _, o := range d.RideOptions {
			options = append(options, o.String())
		}
		rows = append(rows, DayRow{
			Offset:       int32(d.Offset), //nolint:gosec // schedules span days, not years.
			Date:         d.Date,
			Fitness:      d.Fitness,
			Fatigue:      d.Fatigue,
			Form:         d.Form,
			TrainingLoad: d.TrainingLoad,
			TargetForm:   target,
			NeedsRide:    d.NeedsRide,
			Zone:         int32(d.Zone), //nolint:gosec // 0 to 7.
			RideOptions:  strings.Join(options, "; "),
		})
	}
	return rows
}

func writeRows(fw source.ParquetFile, days []schedule.Day) error {
	pw, err := writer.NewParquetWriter(fw, new(DayRow), parallelism)
	if err != nil {
		return fmt.Errorf("new parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, row := range ScheduleRows(days) {
		if err = pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("write row %s: %w", row.Date, err)
		}
	}
	if err = pw.WriteStop(); err != nil {
		return fmt.Errorf("finish parquet: %w", err)
	}
	return nil
}

// MarshalScheduleParquet encodes days as a SNAPPY compressed Parquet file, one row per day.
func MarshalScheduleParquet(days []schedule.Day) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	if err := writeRows(fw, days); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("close parquet buffer: %w", err)
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

// WriteScheduleParquet writes days to a Parquet file at path.
func WriteScheduleParquet(path string, days []schedule.Day) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err = writeRows(fw, days); err != nil {
		_ = fw.Close()
		return err
	}
	if err = fw.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
