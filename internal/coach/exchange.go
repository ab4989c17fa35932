package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/myrjola/ridecoach/internal/sqlite"
)

// Exchange is one question to the language model and its answer.
type Exchange struct {
	ID         string
	CreatedAt  string
	Model      string
	System     string
	Prompt     string
	Completion string
}

// Exchanges keeps the log of exchanges in the database.
type Exchanges struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewExchanges(db *sqlite.Database, logger *slog.Logger) *Exchanges {
	return &Exchanges{db: db, logger: logger}
}

// Save stores e under a new random ID and returns the stored exchange.
func (r *Exchanges) Save(ctx context.Context, e Exchange) (Exchange, error) {
	e.ID = uuid.NewString()
	err := r.db.ReadWrite.QueryRowContext(ctx, `
		INSERT INTO coach_exchanges (id, model, system, prompt, completion)
		VALUES (?, ?, ?, ?, ?)
		RETURNING created_at`, e.ID, e.Model, e.System, e.Prompt, e.Completion).Scan(&e.CreatedAt)
	if err != nil {
		return Exchange{}, fmt.Errorf("insert exchange: %w", err)
	}
	return e, nil
}

// Recent returns up to limit exchanges, newest first.
func (r *Exchanges) Recent(ctx context.Context, limit int) (_ []Exchange, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, created_at, model, system, prompt, completion
		FROM coach_exchanges
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query exchanges: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var exchanges []Exchange
	for rows.Next() {
		var e Exchange
		if err = rows.Scan(&e.ID, &e.CreatedAt, &e.Model, &e.System, &e.Prompt, &e.Completion); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		exchanges = append(exchanges, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exchanges: %w", err)
	}
	return exchanges, nil
}
