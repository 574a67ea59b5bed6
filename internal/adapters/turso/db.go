package turso

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
	_ "modernc.org/sqlite"
)

// Driver names registered by the imported SQL drivers.
const (
	DriverLibsql = "libsql"
	DriverSQLite = "sqlite"
)

// DB wraps a SQL database connection with Turso-specific retry logic.
type DB struct {
	*sql.DB
	Driver string
}

// Options configures the database client behavior.
type Options struct {
	Ping bool
}

// Open creates a database client with default options (ping enabled).
func Open(ctx context.Context, databaseURL, authToken string) (*DB, error) {
	return OpenWithOptions(ctx, databaseURL, authToken, Options{Ping: true})
}

// IsRemote reports whether the URL points at a Turso/libsql server.
func IsRemote(databaseURL string) bool {
	for _, scheme := range []string{"libsql://", "https://", "http://", "wss://", "ws://"} {
		if strings.HasPrefix(databaseURL, scheme) {
			return true
		}
	}
	return false
}

// OpenWithOptions opens a remote libsql database for libsql:// and http(s)
// URLs and a local SQLite file (or ":memory:") for anything else.
func OpenWithOptions(ctx context.Context, databaseURL, authToken string, opts Options) (*DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url is required")
	}

	var (
		db     *sql.DB
		driver string
		err    error
	)
	if IsRemote(databaseURL) {
		driver = DriverLibsql
		connStr := databaseURL
		if authToken != "" {
			connStr += "?authToken=" + authToken
		}
		db, err = sql.Open(driver, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		// Turso aggressively closes idle streams, causing "stream not found"
		// errors on stale connections.
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(0)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(0)
	} else {
		driver = DriverSQLite
		dsn := strings.TrimPrefix(databaseURL, "file:")
		db, err = sql.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// One writer; an in-memory database also lives on a single connection.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	if opts.Ping {
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	}

	return &DB{DB: db, Driver: driver}, nil
}

// IsStreamError checks if an error is a Turso "stream not found" error.
func IsStreamError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "stream not found")
}

// WithRetry executes fn, retrying up to maxRetries times on "stream not
// found" errors.
func WithRetry[T any](ctx context.Context, maxRetries int, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}

		if !IsStreamError(err) || attempt == maxRetries {
			return result, err
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	return result, err
}
