package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/dockwm/internal/platform"
)

// WindowLister is a function that returns the ids of the host's live windows.
type WindowLister func() ([]platform.WindowID, error)

// WindowListerFromHost lists the windows the host currently reports.
func WindowListerFromHost(host platform.Placer) WindowLister {
	return func() ([]platform.WindowID, error) {
		windows, err := host.Windows()
		if err != nil {
			return nil, err
		}
		ids := make([]platform.WindowID, len(windows))
		for i, w := range windows {
			ids[i] = w.ID
		}
		return ids, nil
	}
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically checks for drift between the manager and the host
// and corrects it: windows whose destroy notification was lost are forgotten
// and bar windows that appeared or restarted are placed again.
type Reconciler struct {
	interval    time.Duration
	manager     *Manager
	listWindows WindowLister
	logger      *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, manager *Manager, listWindows WindowLister) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Reconciler{
		interval:    interval,
		manager:     manager,
		listWindows: listWindows,
		logger:      logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			if err := r.ReconcileNow(ctx); errors.Is(err, ErrStopped) {
				r.logger.Info("reconciler stopped", "reason", err)
				return
			}
		}
	}
}

// ReconcileNow performs a single reconciliation pass on the manager's
// message loop.
func (r *Reconciler) ReconcileNow(ctx context.Context) error {
	return r.manager.Do(ctx, func() error {
		r.ReconcileOnce()
		return nil
	})
}

// ReconcileOnce runs a pass directly, for callers already on the message
// loop or before it starts.
func (r *Reconciler) ReconcileOnce() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	alive, err := r.listWindows()
	if err != nil {
		r.logger.Error("reconciler: failed to list windows", "error", err)
		return
	}
	if n := r.manager.SweepDestroyed(alive); n > 0 {
		r.logger.Info("reconciler: forgot destroyed windows", "count", n)
	}
	if r.manager.RefreshBars() {
		r.logger.Info("reconciler: bars re-placed")
	}
}
