package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/dori/promanager/internal/agenda"
	"github.com/dori/promanager/internal/config"
	"github.com/dori/promanager/internal/db"
	"github.com/dori/promanager/internal/gateway"
	"github.com/dori/promanager/internal/notify"
	"github.com/dori/promanager/internal/rpc"
)

// Mode selects how much of the application is wired
type Mode int

const (
	// ModeCLI runs a one-shot command; no lock is taken
	ModeCLI Mode = iota
	// ModeTUI owns the data directory for the lifetime of the UI
	ModeTUI
	// ModeServe owns the data directory and logs to stderr too
	ModeServe
)

var (
	_ gateway.API = (*db.DB)(nil)
	_ gateway.API = (*rpc.Client)(nil)
)

// App holds the application state and dependencies
type App struct {
	Config   config.Config
	Log      zerolog.Logger
	Policy   agenda.Policy
	Store    *db.DB // nil when talking to a remote server
	Backend  gateway.API
	Gateway  *gateway.Gateway
	Notifier *notify.Notifier

	lockFile *flock.Flock
	logFile  io.Closer
}

// PolicyFromConfig builds the today/upcoming policy from configuration
func PolicyFromConfig(cfg config.Config) agenda.Policy {
	return agenda.Policy{
		CountCompletedToday: cfg.CountCompletedToday,
		Upcoming:            agenda.Window{Days: cfg.UpcomingDays},
	}
}

// New creates a new application instance
func New(ctx context.Context, cfg config.Config, mode Mode) (*App, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	var extra []io.Writer
	if mode == ModeServe {
		extra = append(extra, os.Stderr)
	}
	log, logFile := NewLogger(cfg, extra...)

	app := &App{
		Config:   cfg,
		Log:      log,
		Policy:   PolicyFromConfig(cfg),
		Notifier: notify.NewNotifier(cfg.Notifications && mode == ModeTUI),
		logFile:  logFile,
	}

	if mode != ModeCLI && !cfg.IsRemote() {
		if err := app.acquireLock(); err != nil {
			app.Close()
			return nil, err
		}
	}

	if err := app.openBackend(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.Gateway = gateway.New(app.Backend,
		gateway.WithLogger(log),
		gateway.WithTimeout(cfg.RequestTimeout),
	)

	log.Info().
		Bool("remote", cfg.IsRemote()).
		Int("upcoming_days", cfg.UpcomingDays).
		Bool("count_completed_today", cfg.CountCompletedToday).
		Msg("application started")
	return app, nil
}

func (a *App) openBackend(ctx context.Context) error {
	if a.Config.IsRemote() {
		client := rpc.NewClient(a.Config.RemoteURL)
		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach server: %w", err)
		}
		a.Backend = client
		return nil
	}

	store, err := db.Open(a.Config.DBPath,
		db.WithLogger(a.Log.With().Str("component", "db").Logger()),
		db.WithPolicy(a.Policy),
	)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.Store = store
	a.Backend = store
	return nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, "promanager.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of promanager is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
		}
	}

	return errors.Join(errs...)
}
