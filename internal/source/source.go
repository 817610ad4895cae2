// Package source loads task snapshots for the views: live from the API when
// possible, from the local snapshot store otherwise.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/snapshot"
)

// ErrOffline is returned in offline mode when no snapshot exists.
var ErrOffline = errors.New("offline and no stored snapshot")

// Fetcher lists tasks from the backend. *api.Client satisfies it.
type Fetcher interface {
	GetTasks(filter api.TaskFilter) ([]api.Task, error)
}

// Store persists snapshots. *snapshot.Store satisfies it.
type Store interface {
	Save(ctx context.Context, scope string, tasks []api.Task, fetchedAt time.Time) error
	Load(ctx context.Context, scope string) (*snapshot.Snapshot, error)
}

// Result is one loaded task list.
type Result struct {
	Tasks     []api.Task
	FetchedAt time.Time
	// Stale is set when the list came from the snapshot store.
	Stale bool
	// FetchErr is the API error that forced a stale result, if any.
	FetchErr error
}

// Source combines the API and the snapshot store.
type Source struct {
	fetcher Fetcher
	store   Store
	offline bool
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Source.
type Option func(*Source)

// WithStore enables snapshot persistence and fallback.
func WithStore(store Store) Option {
	return func(s *Source) { s.store = store }
}

// WithOffline serves only stored snapshots and never calls the API.
func WithOffline(offline bool) Option {
	return func(s *Source) { s.offline = offline }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) { s.logger = logger }
}

// WithClock overrides the clock used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.now = now }
}

// New creates a Source. fetcher may be nil in offline mode.
func New(fetcher Fetcher, opts ...Option) *Source {
	s := &Source{
		fetcher: fetcher,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks returns the task list for a workspace ("" for every workspace).
// A successful fetch is written to the store; a failed fetch falls back to
// the stored snapshot when one exists.
func (s *Source) Tasks(ctx context.Context, workspaceID string) (*Result, error) {
	scope := snapshot.Scope(workspaceID)

	if s.offline || s.fetcher == nil {
		res, err := s.load(ctx, scope)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOffline, err)
		}
		return res, nil
	}

	tasks, err := s.fetcher.GetTasks(api.TaskFilter{WorkspaceID: workspaceID})
	if err != nil {
		res, loadErr := s.load(ctx, scope)
		if loadErr != nil {
			return nil, err
		}
		s.logger.Warn("serving stored snapshot", "scope", scope, "age", s.now().Sub(res.FetchedAt).Round(time.Second), "error", err)
		res.FetchErr = err
		return res, nil
	}

	fetchedAt := s.now()
	if s.store != nil {
		if err := s.store.Save(ctx, scope, tasks, fetchedAt); err != nil {
			s.logger.Warn("failed to store snapshot", "scope", scope, "error", err)
		}
	}

	return &Result{Tasks: tasks, FetchedAt: fetchedAt}, nil
}

func (s *Source) load(ctx context.Context, scope string) (*Result, error) {
	if s.store == nil {
		return nil, snapshot.ErrNotFound
	}
	snap, err := s.store.Load(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &Result{Tasks: snap.Tasks, FetchedAt: snap.FetchedAt, Stale: true}, nil
}
