// Package db opens the vino-route SQLite database and stores its key-value data.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMS is how long a connection waits on a locked database. The CLI
// and a running server share one file, and the ledger rewrites a user's whole
// history on every mark.
const busyTimeoutMS = 5000

// DefaultPath returns ~/.config/vr/vino-route.db, next to the CLI config.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vr", "vino-route.db"), nil
}

// dsn builds a go-sqlite3 connection string that applies WAL and the busy
// timeout to every pooled connection, not only the first.
func dsn(path string) string {
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", fmt.Sprint(busyTimeoutMS))
	return path + "?" + q.Encode()
}

// Open creates the parent directory if needed, opens the database at path and
// brings its schema up to date.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	d, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if err := d.Ping(); err != nil {
		return nil, closeOnError(d, fmt.Errorf("connecting to %s: %w", path, err))
	}
	if err := migrate(d); err != nil {
		return nil, closeOnError(d, fmt.Errorf("running migrations: %w", err))
	}

	return d, nil
}

func closeOnError(d *sql.DB, err error) error {
	if cerr := d.Close(); cerr != nil {
		return errors.Join(err, fmt.Errorf("closing database: %w", cerr))
	}
	return err
}
