// Package sqlite opens the local history database.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
)

type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

// NewDatabase opens the database at url, or a private in-memory database for ":memory:", and brings its
// schema up to date.
//
// Writes go through a single connection while reads use a separate read-only pool, see
// https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	migrations, err := loadMigrations(migrationFiles)
	if err != nil {
		return nil, errors.Join(err, db.closePools())
	}
	if err = db.migrate(ctx, migrations); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate: %w", err), db.closePools())
	}

	// Recommended once for new connections, see https://www.sqlite.org/pragma.html#pragma_optimize.
	db.optimize(ctx, "PRAGMA optimize = 0x10002")

	return db, nil
}

//nolint:gochecknoglobals // the driver may only be registered once per process.
var registerDriver sync.Once

const driverName = "sqlite3ridecoach"

func registerTunedDriver() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		Extensions: nil,
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// Temporary tables in memory and memory-mapped pages.
			if _, err := conn.Exec("PRAGMA temp_store = memory; PRAGMA mmap_size = 268435456;", nil); err != nil {
				return fmt.Errorf("exec connection pragmas: %w", err)
			}
			return nil
		},
	})
}

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	// Both pools must see the same in-memory database, so it needs a name and a shared cache. The random name
	// keeps parallel tests apart. See https://www.sqlite.org/inmemorydb.html.
	memoryParams := ""
	if strings.Contains(url, ":memory:") {
		url = rand.Text()
		memoryParams = "&mode=memory&cache=shared"
	}
	// Parameters prefixed with an underscore are driver options, see
	// https://pkg.go.dev/github.com/mattn/go-sqlite3#SQLiteDriver.Open. The rest are SQLite URI parameters.
	params := strings.Join([]string{
		"_loc=auto",
		"_journal_mode=wal",
		"_busy_timeout=5000",
		"_synchronous=normal",
		"_foreign_keys=on",
	}, "&")
	readWriteDSN := fmt.Sprintf("file:%s?mode=rwc&_txlock=immediate&%s%s", url, params, memoryParams)
	readOnlyDSN := fmt.Sprintf("file:%s?mode=ro&_txlock=deferred&_query_only=true&%s%s", url, params, memoryParams)
	if memoryParams != "" {
		// mode=memory has to win over mode=rwc and mode=ro.
		readWriteDSN = fmt.Sprintf("file:%s?_txlock=immediate&%s%s", url, params, memoryParams)
		readOnlyDSN = fmt.Sprintf("file:%s?_txlock=deferred&_query_only=true&%s%s", url, params, memoryParams)
	}

	registerDriver.Do(registerTunedDriver)

	readWrite, err := sql.Open(driverName, readWriteDSN)
	if err != nil {
		return nil, fmt.Errorf("open read-write pool: %w", err)
	}
	readWrite.SetMaxOpenConns(1)
	readWrite.SetMaxIdleConns(1)
	readWrite.SetConnMaxIdleTime(time.Hour)
	// sql.Open is lazy; the first connection creates the file and runs the connect hook.
	if err = readWrite.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("ping read-write pool: %w", err), readWrite.Close())
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "opened database", slog.String("dsn", readWriteDSN))

	readOnly, err := sql.Open(driverName, readOnlyDSN)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open read-only pool: %w", err), readWrite.Close())
	}
	const maxReaders = 4
	readOnly.SetMaxOpenConns(maxReaders)
	readOnly.SetMaxIdleConns(maxReaders)
	readOnly.SetConnMaxIdleTime(time.Hour)

	return &Database{ReadWrite: readWrite, ReadOnly: readOnly, logger: logger}, nil
}

func (db *Database) rollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		db.logger.LogAttrs(ctx, slog.LevelError, "rollback failed", slog.Any("error", err))
	}
}

// WithTx runs fn in a write transaction that is committed when fn returns nil.
func (db *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer db.rollback(ctx, tx)
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (db *Database) closePools() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}

// Close optimizes the database and closes both pools.
func (db *Database) Close() error {
	db.optimize(context.Background(), "PRAGMA optimize")
	return db.closePools()
}
