// Package daemon holds background loops the serve command runs beside the
// host and control servers.
package daemon

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// SessionName is the arrangement the autosaver keeps current.
const SessionName = "last-session"

// Checkpointer persists the current windows under a name, skipping the
// write when nothing changed.
type Checkpointer interface {
	Checkpoint(name string) (bool, error)
}

// AutosaverConfig holds configuration for the autosaver.
type AutosaverConfig struct {
	Interval time.Duration
	// Name defaults to SessionName.
	Name   string
	Logger *slog.Logger
}

// Autosaver periodically checkpoints the desk so the session survives a
// restart.
type Autosaver struct {
	interval time.Duration
	name     string
	desk     Checkpointer
	logger   *slog.Logger
}

// NewAutosaver creates an autosaver for desk.
func NewAutosaver(cfg AutosaverConfig, desk Checkpointer) *Autosaver {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	name := cfg.Name
	if name == "" {
		name = SessionName
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Autosaver{
		interval: interval,
		name:     name,
		desk:     desk,
		logger:   logger,
	}
}

// Run checkpoints every interval and once more on the way out. Blocks until
// ctx is cancelled.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("autosaver started", "interval", a.interval, "name", a.name)

	for {
		select {
		case <-ctx.Done():
			a.SaveNow()
			a.logger.Info("autosaver stopped")
			return
		case <-ticker.C:
			a.SaveNow()
		}
	}
}

// SaveNow performs a single checkpoint and reports whether it wrote.
func (a *Autosaver) SaveNow() (wrote bool) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			a.logger.Error("autosaver panic recovered", "error", err)
			wrote = false
		}
	}()

	wrote, err := a.desk.Checkpoint(a.name)
	if err != nil {
		a.logger.Warn("autosave failed", "name", a.name, "error", err)
		return false
	}
	if wrote {
		a.logger.Debug("session saved", "name", a.name)
	}
	return wrote
}
