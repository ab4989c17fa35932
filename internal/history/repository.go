// Package history stores the rides, wellness records and power curves fetched from the fitness API or
// imported from files, so that later runs can work offline.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/ridecoach/internal/activity"
	"github.com/myrjola/ridecoach/internal/calendar"
	"github.com/myrjola/ridecoach/internal/sqlite"
	"github.com/myrjola/ridecoach/internal/training"
)

// ErrNotFound is returned when nothing has been stored yet.
var ErrNotFound = errors.New("not found")

type Repository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewRepository(db *sqlite.Database, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// SaveRides inserts rides, replacing earlier versions of the same date and source.
func (r *Repository) SaveRides(ctx context.Context, rides []activity.Ride) error {
	if err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return insertRides(ctx, tx, rides)
	}); err != nil {
		return fmt.Errorf("save rides: %w", err)
	}
	return nil
}

// SaveSync stores the rides, wellness records and power curve of one sync in a single transaction, so a
// failure leaves none of them stored.
func (r *Repository) SaveSync(ctx context.Context, rides []activity.Ride, wellness []activity.Wellness,
	curve training.PowerCurve) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := insertRides(ctx, tx, rides); err != nil {
			return err
		}
		if err := insertWellness(ctx, tx, wellness); err != nil {
			return err
		}
		return insertPowerCurve(ctx, tx, curve)
	})
	if err != nil {
		return fmt.Errorf("save sync: %w", err)
	}
	return nil
}

func insertRides(ctx context.Context, tx *sql.Tx, rides []activity.Ride) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rides (date, source, ftp, training_load, kilojoules, normalized_watts, miles, moving_seconds,
		                   elevation_feet, mph, calories, temperature_f, intensity_factor, fitness, fatigue, zone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date, source) DO UPDATE SET
			ftp = excluded.ftp,
			training_load = excluded.training_load,
			kilojoules = excluded.kilojoules,
			normalized_watts = excluded.normalized_watts,
			miles = excluded.miles,
			moving_seconds = excluded.moving_seconds,
			elevation_feet = excluded.elevation_feet,
			mph = excluded.mph,
			calories = excluded.calories,
			temperature_f = excluded.temperature_f,
			intensity_factor = excluded.intensity_factor,
			fitness = excluded.fitness,
			fatigue = excluded.fatigue,
			zone = excluded.zone`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()
	for _, ride := range rides {
		if _, err = stmt.ExecContext(ctx, ride.Date, string(ride.Source), ride.FTP, ride.TrainingLoad,
			ride.Kilojoules, ride.NormalizedWatts, ride.Miles, ride.MovingSeconds, ride.ElevationFeet, ride.Mph,
			ride.Calories, ride.TemperatureF, ride.IntensityFactor, ride.Fitness, ride.Fatigue,
			ride.Zone); err != nil {
			return fmt.Errorf("insert ride %s: %w", ride.Date, err)
		}
	}
	return nil
}

// Rides returns the rides on or after since, oldest first. A day with rides from several sources keeps the
// fitness API version.
func (r *Repository) Rides(ctx context.Context, since time.Time) (_ []activity.Ride, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT date, source, ftp, training_load, kilojoules, normalized_watts, miles, moving_seconds,
		       elevation_feet, mph, calories, temperature_f, intensity_factor, fitness, fatigue, zone
		FROM rides
		WHERE date >= ?
		ORDER BY date, CASE source WHEN 'intervals' THEN 0 ELSE 1 END`, calendar.FormatDate(since))
	if err != nil {
		return nil, fmt.Errorf("query rides: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var rides []activity.Ride
	for rows.Next() {
		var (
			ride   activity.Ride
			source string
		)
		if err = rows.Scan(&ride.Date, &source, &ride.FTP, &ride.TrainingLoad, &ride.Kilojoules,
			&ride.NormalizedWatts, &ride.Miles, &ride.MovingSeconds, &ride.ElevationFeet, &ride.Mph, &ride.Calories,
			&ride.TemperatureF, &ride.IntensityFactor, &ride.Fitness, &ride.Fatigue, &ride.Zone); err != nil {
			return nil, fmt.Errorf("scan ride: %w", err)
		}
		ride.Source = activity.Source(source)
		if n := len(rides); n > 0 && rides[n-1].Date == ride.Date {
			continue
		}
		rides = append(rides, ride)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rides: %w", err)
	}
	return rides, nil
}

// SaveWellness inserts or replaces the records by date.
func (r *Repository) SaveWellness(ctx context.Context, records []activity.Wellness) error {
	if err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return insertWellness(ctx, tx, records)
	}); err != nil {
		return fmt.Errorf("save wellness: %w", err)
	}
	return nil
}

func insertWellness(ctx context.Context, tx *sql.Tx, records []activity.Wellness) error {
	for _, w := range records {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO wellness (date, fitness, fatigue, fitness_load, fatigue_load, ramp_rate, resting_hr)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			w.Date, w.Fitness, w.Fatigue, w.FitnessLoad, w.FatigueLoad, w.RampRate, w.RestingHR); err != nil {
			return fmt.Errorf("insert wellness %s: %w", w.Date, err)
		}
	}
	return nil
}

// Wellness returns the records on or after since, oldest first.
func (r *Repository) Wellness(ctx context.Context, since time.Time) (_ []activity.Wellness, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT date, fitness, fatigue, fitness_load, fatigue_load, ramp_rate, resting_hr
		FROM wellness
		WHERE date >= ?
		ORDER BY date`, calendar.FormatDate(since))
	if err != nil {
		return nil, fmt.Errorf("query wellness: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var records []activity.Wellness
	for rows.Next() {
		var w activity.Wellness
		if err = rows.Scan(&w.Date, &w.Fitness, &w.Fatigue, &w.FitnessLoad, &w.FatigueLoad, &w.RampRate,
			&w.RestingHR); err != nil {
			return nil, fmt.Errorf("scan wellness: %w", err)
		}
		records = append(records, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wellness: %w", err)
	}
	return records, nil
}

// SavePowerCurve stores a newly fetched power curve.
func (r *Repository) SavePowerCurve(ctx context.Context, curve training.PowerCurve) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return insertPowerCurve(ctx, tx, curve)
	})
}

func insertPowerCurve(ctx context.Context, tx *sql.Tx, curve training.PowerCurve) error {
	seconds, err := json.Marshal(curve.Seconds)
	if err != nil {
		return fmt.Errorf("marshal seconds: %w", err)
	}
	watts, err := json.Marshal(curve.Watts)
	if err != nil {
		return fmt.Errorf("marshal watts: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "INSERT INTO power_curves (seconds, watts) VALUES (?, ?)",
		string(seconds), string(watts)); err != nil {
		return fmt.Errorf("insert power curve: %w", err)
	}
	return nil
}

// LatestPowerCurve returns the most recently stored power curve.
func (r *Repository) LatestPowerCurve(ctx context.Context) (training.PowerCurve, error) {
	var seconds, watts string
	err := r.db.ReadOnly.QueryRowContext(ctx,
		"SELECT seconds, watts FROM power_curves ORDER BY id DESC LIMIT 1").Scan(&seconds, &watts)
	if errors.Is(err, sql.ErrNoRows) {
		return training.PowerCurve{}, fmt.Errorf("power curve: %w", ErrNotFound)
	}
	if err != nil {
		return training.PowerCurve{}, fmt.Errorf("query power curve: %w", err)
	}
	var curve training.PowerCurve
	if err = json.Unmarshal([]byte(seconds), &curve.Seconds); err != nil {
		return training.PowerCurve{}, fmt.Errorf("unmarshal seconds: %w", err)
	}
	if err = json.Unmarshal([]byte(watts), &curve.Watts); err != nil {
		return training.PowerCurve{}, fmt.Errorf("unmarshal watts: %w", err)
	}
	return curve, nil
}
