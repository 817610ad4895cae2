// Package snapshot persists the last fetched task list per scope in SQLite so
// views can render instantly on startup and reports can run offline.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hy4ri/taskboard/internal/api"
)

// ScopeAll is the scope of an unfiltered task list.
const ScopeAll = "all"

// ErrNotFound is returned by Load when no snapshot exists for a scope.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a stored task list.
type Snapshot struct {
	Scope     string
	FetchedAt time.Time
	Tasks     []api.Task
}

// Age returns how old the snapshot is at now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Scope returns the snapshot scope for a workspace filter.
func Scope(workspaceID string) string {
	if workspaceID == "" {
		return ScopeAll
	}
	return "workspace:" + workspaceID
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot db: %w", err)
	}

	// SQLite handles one writer at a time
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate snapshot db: %w", err)
	}

	return &Store{db: db}, nil
}

// migrate is idempotent and safe to run on every open.
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			scope TEXT PRIMARY KEY,
			fetched_at INTEGER NOT NULL,
			task_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_tasks (
			scope TEXT NOT NULL,
			position INTEGER NOT NULL,
			task_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (scope, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshot_tasks_task ON snapshot_tasks(task_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the snapshot for scope, preserving task order.
func (s *Store) Save(ctx context.Context, scope string, tasks []api.Task, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_tasks WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to clear snapshot %s: %w", scope, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_tasks (scope, position, task_id, payload) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for i := range tasks {
		payload, err := json.Marshal(&tasks[i])
		if err != nil {
			return fmt.Errorf("failed to encode task %s: %w", tasks[i].ID, err)
		}
		if _, err := stmt.ExecContext(ctx, scope, i, tasks[i].ID, string(payload)); err != nil {
			return fmt.Errorf("failed to store task %s: %w", tasks[i].ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (scope, fetched_at, task_count) VALUES (?, ?, ?)
		ON CONFLICT(scope) DO UPDATE SET fetched_at = excluded.fetched_at, task_count = excluded.task_count`,
		scope, fetchedAt.UnixMilli(), len(tasks))
	if err != nil {
		return fmt.Errorf("failed to record snapshot %s: %w", scope, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot %s: %w", scope, err)
	}
	return nil
}

// Load returns the stored snapshot for scope, or ErrNotFound.
func (s *Store) Load(ctx context.Context, scope string) (*Snapshot, error) {
	var fetchedMs int64
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT fetched_at, task_count FROM snapshots WHERE scope = ?`, scope).Scan(&fetchedMs, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, scope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", scope, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM snapshot_tasks WHERE scope = ? ORDER BY position`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot tasks %s: %w", scope, err)
	}
	defer rows.Close()

	tasks := make([]api.Task, 0, count)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot task: %w", err)
		}
		var task api.Task
		if err := json.Unmarshal([]byte(payload), &task); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot tasks %s: %w", scope, err)
	}

	return &Snapshot{
		Scope:     scope,
		FetchedAt: time.UnixMilli(fetchedMs),
		Tasks:     tasks,
	}, nil
}

// Scopes lists stored scopes, most recently fetched first.
func (s *Store) Scopes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT scope FROM snapshots ORDER BY fetched_at DESC, scope`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	scopes := make([]string, 0)
	for rows.Next() {
		var scope string
		if err := rows.Scan(&scope); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot scope: %w", err)
		}
		scopes = append(scopes, scope)
	}
	return scopes, rows.Err()
}

// Delete removes the snapshot for scope. Deleting a missing scope is not an
// error.
func (s *Store) Delete(ctx context.Context, scope string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_tasks WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to delete snapshot tasks %s: %w", scope, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", scope, err)
	}
	return tx.Commit()
}
