package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/auth"
	"github.com/hy4ri/taskboard/internal/config"
	"github.com/hy4ri/taskboard/internal/live"
	"github.com/hy4ri/taskboard/internal/snapshot"
	"github.com/hy4ri/taskboard/internal/source"
)

const (
	logFileName      = "taskboard.log"
	snapshotFileName = "snapshots.db"
)

// runMode selects where logs go.
type runMode int

const (
	// modeTUI logs to a file so the terminal stays clean.
	modeTUI runMode = iota
	// modeReport logs warnings to stderr; stdout carries the report.
	modeReport
	// modeServe logs JSON to stdout.
	modeServe
)

// env holds everything a command needs to read tasks.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	client *api.Client
	store  *snapshot.Store
	source *source.Source

	closers []io.Closer
}

// setup loads config, resolves credentials and opens the snapshot store.
// Offline runs tolerate missing credentials.
func setup(ctx context.Context, flags globalFlags, mode runMode) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	e := &env{cfg: cfg}

	logger, logFile, err := newLogger(cfg, mode)
	if err != nil {
		return nil, err
	}
	if logFile != nil {
		e.closers = append(e.closers, logFile)
	}
	e.logger = logger
	slog.SetDefault(logger)

	token, err := resolveToken(ctx, cfg)
	if err != nil {
		if !flags.offline {
			e.Close()
			return nil, err
		}
		logger.Info("no credentials, running offline", "error", err)
	}
	e.client = cfg.NewClient(token)

	if store, err := openStore(); err != nil {
		logger.Warn("snapshot store unavailable", "error", err)
	} else {
		e.store = store
		e.closers = append(e.closers, store)
	}

	opts := []source.Option{
		source.WithLogger(logger),
		source.WithOffline(flags.offline),
	}
	if e.store != nil {
		opts = append(opts, source.WithStore(e.store))
	}
	e.source = source.New(e.client, opts...)

	return e, nil
}

// stream prepares the live notification stream for the configured backend.
func (e *env) stream() *live.Stream {
	return live.NewStream(e.client.BaseURL(), e.client.AccessToken(), nil, e.logger)
}

// Close releases the store and the log file.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}
	}
}

// resolveToken prefers a stored or env token, then the OAuth token in the
// config, refreshing and saving it when it has expired.
func resolveToken(ctx context.Context, cfg *config.Config) (string, error) {
	token, err := config.ResolveToken(cfg)
	if err == nil && (token != cfg.Auth.AccessToken || cfg.Auth.AccessToken == "") {
		return token, nil
	}
	if err != nil && !errors.Is(err, config.ErrNoAuth) {
		return "", err
	}

	token, changed, err := auth.AccessToken(ctx, cfg)
	if err != nil {
		return "", err
	}
	if changed {
		if err := config.Save(cfg); err != nil {
			slog.Warn("failed to save refreshed token", "error", err)
		}
	}
	return token, nil
}

func openStore() (*snapshot.Store, error) {
	dir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	return snapshot.Open(filepath.Join(dir, snapshotFileName))
}

func newLogger(cfg *config.Config, mode runMode) (*slog.Logger, *os.File, error) {
	opts := &slog.HandlerOptions{Level: cfg.ParseLevel()}

	switch mode {
	case modeServe:
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nil, nil
	case modeReport:
		if opts.Level.Level() < slog.LevelWarn {
			opts.Level = slog.LevelWarn
		}
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil, nil
	}

	path := cfg.Log.File
	if path == "" {
		dir, err := config.DataDir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, logFileName)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}
