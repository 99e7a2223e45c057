// Package layout holds window arrangement strategies that are not grid based.
package layout

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/workspace"
)

// FullScreenName is the stable name of the full-screen layout.
const FullScreenName = "Full Screen"

// DefaultRestoreDelay is the pause between restoring a maximized window and
// resizing it.
const DefaultRestoreDelay = 50 * time.Millisecond

// FullScreenOptions configures a FullScreen layout.
type FullScreenOptions struct {
	RestoreDelay time.Duration
	Logger       *slog.Logger
	// Sleep replaces time.Sleep for the restore pause.
	Sleep func(time.Duration)
}

// FullScreen makes every window of its workspace cover the monitor's working
// area.
type FullScreen struct {
	host         platform.Placer
	restoreDelay time.Duration
	sleep        func(time.Duration)
	logger       *slog.Logger

	ws          *workspace.Workspace
	workingArea platform.Rect
	unsubscribe []func()
}

var _ workspace.Layout = (*FullScreen)(nil)

// NewFullScreen creates an unbound full-screen layout.
func NewFullScreen(host platform.Placer, opts FullScreenOptions) *FullScreen {
	l := &FullScreen{
		host:         host,
		restoreDelay: opts.RestoreDelay,
		sleep:        opts.Sleep,
		logger:       opts.Logger,
	}
	if l.sleep == nil {
		l.sleep = time.Sleep
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}

func (l *FullScreen) LayoutSymbol() string {
	if l.ws == nil || l.ws.WindowCount() == 0 {
		return "[M]"
	}
	return fmt.Sprintf("[%d]", l.ws.WindowCount())
}

func (l *FullScreen) LayoutName() string { return FullScreenName }

// Initialize binds the layout and re-maximizes windows whose decorations
// are toggled.
func (l *FullScreen) Initialize(ws *workspace.Workspace) {
	l.ws = ws
	l.refreshWorkingArea()
	l.unsubscribe = append(l.unsubscribe,
		ws.TitlebarToggled.Subscribe(l.maximize),
		ws.BorderToggled.Subscribe(l.maximize),
	)
}

// ShouldSaveAndRestoreSharedWindowsPosition is false: every activation
// recomputes the placement anyway.
func (l *FullScreen) ShouldSaveAndRestoreSharedWindowsPosition() bool { return false }

func (l *FullScreen) Reposition() {
	l.refreshWorkingArea()
	for _, w := range l.ws.Windows() {
		l.maximize(w)
	}
}

func (l *FullScreen) WindowMinimized(workspace.Window) {}

func (l *FullScreen) WindowRestored(w workspace.Window) {
	l.maximize(w)
}

func (l *FullScreen) WindowCreated(w workspace.Window) {
	if l.ws.IsVisible() {
		l.maximize(w)
		l.ws.Hub().NotifyLayoutUpdated()
	}
}

func (l *FullScreen) WindowDestroyed(workspace.Window) {
	if l.ws.IsVisible() {
		l.ws.Hub().NotifyLayoutUpdated()
	}
}

func (l *FullScreen) Close() {
	for _, fn := range l.unsubscribe {
		fn()
	}
	l.unsubscribe = nil
}

func (l *FullScreen) refreshWorkingArea() {
	if m := l.ws.Monitor(); m != nil {
		l.workingArea = m.WorkingArea()
	}
}

func (l *FullScreen) maximize(w workspace.Window) {
	id := w.Handle()
	maximized := l.host.IsMaximized(id)

	style, err := l.host.WindowStyle(id)
	if err != nil {
		l.logger.Debug("read window style", "window", id, "error", err)
		return
	}

	// Without a caption the host maximize would cover the dock bars, so the
	// working area is applied directly.
	if !style.Caption || !style.MaximizeBox {
		l.restoreAndFill(id, maximized)
		return
	}

	if bounds, err := l.host.WindowBounds(id); err == nil && !bounds.Intersects(l.workingArea) {
		l.restoreAndFill(id, maximized)
		maximized = false
	}
	if !maximized {
		if err := l.host.Maximize(id); err != nil {
			l.logger.Debug("maximize window", "window", id, "error", err)
		}
	}
}

func (l *FullScreen) restoreAndFill(id platform.WindowID, maximized bool) {
	if maximized {
		if err := l.host.Restore(id); err != nil {
			l.logger.Debug("restore window", "window", id, "error", err)
		}
		// The host animates restores; resizing mid-animation is lost.
		l.sleep(l.restoreDelay)
	}
	if err := l.host.SetWindowBounds(id, l.workingArea); err != nil {
		l.logger.Debug("set window bounds", "window", id, "error", err)
	}
}
