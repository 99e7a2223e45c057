package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/dockwm/internal/config"
	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/platform/platformtest"
)

func barConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Bars = []config.Bar{{Name: "top", Class: "polybar", Height: 24}}
	cfg.Workspaces[0].BarsTop = []string{"top"}
	return cfg
}

func TestReconcileForgetsDestroyedWindows(t *testing.T) {
	host := platformtest.New()
	host.WindowList = []platform.Window{
		{ID: 1, Class: "xterm"},
		{ID: 2, Class: "xterm"},
	}
	m := newManager(t, host, testConfig(), nil)
	r := NewReconciler(ReconcilerConfig{}, m, WindowListerFromHost(host))

	host.WindowList = host.WindowList[:1]
	r.ReconcileOnce()
	if m.Workspace("main").ContainsWindow(2) {
		t.Fatalf("window missing from the host should be forgotten")
	}
	if !m.Workspace("main").ContainsWindow(1) {
		t.Fatalf("live window was forgotten")
	}
}

func TestReconcilePlacesLateBars(t *testing.T) {
	host := platformtest.New()
	m := newManager(t, host, barConfig(), nil)
	r := NewReconciler(ReconcilerConfig{}, m, WindowListerFromHost(host))

	host.WindowList = append(host.WindowList, platform.Window{ID: 9, Class: "polybar"})
	host.Reset()
	r.ReconcileOnce()

	placed := false
	for _, batch := range host.Batches {
		for _, p := range batch {
			if p.Window == 9 && p.Bounds.Height == 24 && p.ZOrder == platform.ZOrderTopmost {
				placed = true
			}
		}
	}
	if !placed {
		t.Fatalf("late bar should be placed in its reserved space: %+v", host.Batches)
	}
	if !host.Visible[9] {
		t.Fatalf("late bar should be shown")
	}
	if m.Workspace("main").ContainsWindow(9) {
		t.Fatalf("bars are not managed windows")
	}

	// Nothing changed since the last pass.
	host.Reset()
	r.ReconcileOnce()
	if len(host.Batches) != 0 {
		t.Fatalf("unchanged bars were placed again")
	}
}

func TestReconcilerListError(t *testing.T) {
	host := platformtest.New()
	host.WindowList = []platform.Window{{ID: 1, Class: "xterm"}}
	m := newManager(t, host, testConfig(), nil)
	r := NewReconciler(ReconcilerConfig{}, m, func() ([]platform.WindowID, error) {
		return nil, errors.New("display gone")
	})

	r.ReconcileOnce()
	if !m.Workspace("main").ContainsWindow(1) {
		t.Fatalf("a failed listing must not forget windows")
	}
}

func TestReconcilerRunsOnTheMessageLoop(t *testing.T) {
	host := platformtest.New()
	host.WindowList = []platform.Window{
		{ID: 1, Class: "xterm"},
		{ID: 2, Class: "xterm"},
	}
	m := newManager(t, host, testConfig(), nil)
	r := NewReconciler(ReconcilerConfig{Interval: 10 * time.Millisecond}, m, func() ([]platform.WindowID, error) {
		return []platform.WindowID{1}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	if err := r.ReconcileNow(ctx); err != nil {
		t.Fatalf("ReconcileNow: %v", err)
	}
	var contains bool
	if err := m.Do(ctx, func() error {
		contains = m.Workspace("main").ContainsWindow(2)
		return nil
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if contains {
		t.Fatalf("window 2 should be forgotten")
	}

	runDone := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(runDone)
	}()
	cancel()
	<-runDone
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}
