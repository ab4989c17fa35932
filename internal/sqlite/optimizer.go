package sqlite

import (
	"context"
	"log/slog"
	"time"
)

// optimize runs an optimize pragma. Failures are logged since the database stays usable without it.
func (db *Database) optimize(ctx context.Context, pragma string) {
	start := time.Now()
	if _, err := db.ReadWrite.ExecContext(ctx, pragma); err != nil {
		db.logger.LogAttrs(ctx, slog.LevelWarn, "optimize database failed",
			slog.String("pragma", pragma), slog.Any("error", err))
		return
	}
	db.logger.LogAttrs(ctx, slog.LevelDebug, "optimized database",
		slog.String("pragma", pragma), slog.Duration("duration", time.Since(start)))
}
