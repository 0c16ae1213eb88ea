// Package registry records editors started by autostart in a SQLite database.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/nvr/internal/ports"
	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// FileName is the database name inside the state directory.
const FileName = "servers.db"

// Registry implements ports.ServerRegistry on SQLite. Writes are serialised
// across processes with a lock file next to the database.
type Registry struct {
	db       *sql.DB
	lockPath string
}

var _ ports.ServerRegistry = (*Registry)(nil)

// Open opens or creates the registry database at dbPath.
func Open(dbPath string) (*Registry, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("registry: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("registry: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("registry: open db: %w", err)
	}
	// One connection so the busy timeout below covers every statement.
	db.SetMaxOpenConns(1)
	r := &Registry{db: db, lockPath: dbPath + ".lock"}
	if err := r.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// OpenInStateDir opens the registry in stateDir.
func OpenInStateDir(stateDir string) (*Registry, error) {
	return Open(filepath.Join(stateDir, FileName))
}

func (r *Registry) init() error {
	if _, err := r.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("registry: set busy timeout: %w", err)
	}
	return r.withLock(func() error {
		if _, err := r.db.Exec(schemaSQL); err != nil {
			return fmt.Errorf("registry: create schema: %w", err)
		}
		return nil
	})
}

// Close closes the database.
func (r *Registry) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Registry) withLock(fn func() error) error {
	lock := flock.New(r.lockPath)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("registry: acquire lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

// Record stores rec, replacing any row with the same address.
func (r *Registry) Record(ctx context.Context, rec ports.ServerRecord) error {
	if rec.Address == "" {
		return fmt.Errorf("registry: address cannot be empty")
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	return r.withLock(func() error {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO servers (address, pid, started_at) VALUES (?, ?, ?)
			 ON CONFLICT(address) DO UPDATE SET pid = excluded.pid, started_at = excluded.started_at`,
			rec.Address, rec.PID, rec.StartedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("registry: record %s: %w", rec.Address, err)
		}
		return nil
	})
}

// List returns all records, oldest first.
func (r *Registry) List(ctx context.Context) ([]ports.ServerRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT address, pid, started_at FROM servers ORDER BY started_at, address`)
	if err != nil {
		return nil, fmt.Errorf("registry: list: %w", err)
	}
	defer rows.Close()

	var out []ports.ServerRecord
	for rows.Next() {
		var (
			rec     ports.ServerRecord
			started string
		)
		if err := rows.Scan(&rec.Address, &rec.PID, &started); err != nil {
			return nil, fmt.Errorf("registry: scan: %w", err)
		}
		rec.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("registry: parse started_at for %s: %w", rec.Address, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry: list: %w", err)
	}
	return out, nil
}

// Remove deletes the record for address. Missing rows are not an error.
func (r *Registry) Remove(ctx context.Context, address string) error {
	return r.withLock(func() error {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM servers WHERE address = ?`, address); err != nil {
			return fmt.Errorf("registry: remove %s: %w", address, err)
		}
		return nil
	})
}
