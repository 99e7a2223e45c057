// Package window implements the managed window entity workspaces hold.
package window

import (
	"io"
	"log/slog"

	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/workspace"
)

// Options carries the per-window settings chosen by the program rules.
type Options struct {
	Floating bool
	// Titlebar and Border are the decorations the window should have while
	// managed.
	Titlebar bool
	Border   bool
	// HideFromTaskbar removes the window's taskbar entry while managed.
	HideFromTaskbar bool
	// HideFromAltTabWhenInactive marks windows that should only be
	// reachable while their workspace is shown.
	HideFromAltTabWhenInactive bool
	// Workspaces is how many workspaces share the window.
	Workspaces int
	Logger     *slog.Logger
}

// Window is a managed top-level window as one workspace sees it. A window
// shared by several workspaces has one Window per workspace; the copies share
// what the host knows about the window.
type Window struct {
	host   platform.Placer
	logger *slog.Logger
	state  *hostState

	id    platform.WindowID
	class string
	title string

	floating    bool
	minimized   bool
	hideAltTab  bool
	hideTaskbar bool
	want        platform.Decorations

	saved          platform.Rect
	savedMaximized bool
	hasSaved       bool
}

// hostState is shared by all copies of a window.
type hostState struct {
	workspaces int
	applied    platform.Decorations
	original   platform.Decorations
	// skipping is the taskbar state last sent to the host.
	skipping bool
}

var _ workspace.Window = (*Window)(nil)

// New wraps a host window. The window's current decorations are read once so
// later restyles only happen on a change.
func New(host platform.Placer, w platform.Window, opts Options) *Window {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	original := platform.Decorations{Titlebar: true, Border: true, Menu: true}
	if style, err := host.WindowStyle(w.ID); err == nil {
		original = platform.Decorations{Titlebar: style.Caption, Border: true, Menu: style.Menu}
	} else {
		logger.Debug("read window style", "window", w.ID, "error", err)
	}

	state := &hostState{
		workspaces: max(opts.Workspaces, 1),
		applied:    original,
		original:   original,
	}
	win := &Window{
		host:      host,
		logger:    logger,
		state:     state,
		id:        w.ID,
		class:     w.Class,
		title:     w.Title,
		minimized: w.Minimized,
	}
	win.configure(opts)
	return win
}

// Copy returns another workspace's view of the same window.
func (w *Window) Copy(opts Options) *Window {
	c := &Window{
		host:      w.host,
		logger:    w.logger,
		state:     w.state,
		id:        w.id,
		class:     w.class,
		title:     w.title,
		minimized: w.minimized,
	}
	c.configure(opts)
	return c
}

func (w *Window) configure(opts Options) {
	w.floating = opts.Floating
	w.hideAltTab = opts.HideFromAltTabWhenInactive
	w.hideTaskbar = opts.HideFromTaskbar
	w.want = platform.Decorations{Titlebar: opts.Titlebar, Border: opts.Border, Menu: w.state.original.Menu}
}

func (w *Window) Handle() platform.WindowID         { return w.id }
func (w *Window) Class() string                     { return w.class }
func (w *Window) Title() string                     { return w.title }
func (w *Window) IsFloating() bool                  { return w.floating }
func (w *Window) SetFloating(floating bool)         { w.floating = floating }
func (w *Window) IsMinimized() bool                 { return w.minimized }
func (w *Window) SetMinimized(minimized bool)       { w.minimized = minimized }
func (w *Window) WorkspacesCount() int              { return w.state.workspaces }
func (w *Window) HideFromAltTabWhenInactive() bool  { return w.hideAltTab }
func (w *Window) Decorations() platform.Decorations { return w.want }

// SetWorkspacesCount records how many workspaces share the window, for every
// copy.
func (w *Window) SetWorkspacesCount(n int) { w.state.workspaces = max(n, 1) }

// Initialize applies this workspace's decorations and taskbar state.
func (w *Window) Initialize() {
	w.applyDecorations()
	if w.hideTaskbar != w.state.skipping {
		w.setSkipTaskbar(w.hideTaskbar)
	}
}

func (w *Window) applyDecorations() {
	if w.want == w.state.applied {
		return
	}
	if err := w.host.SetDecorations(w.id, w.want); err != nil {
		w.logger.Debug("set decorations", "window", w.id, "error", err)
		return
	}
	w.state.applied = w.want
}

func (w *Window) setSkipTaskbar(skip bool) {
	if err := w.host.SetSkipTaskbar(w.id, skip); err != nil {
		w.logger.Debug("set skip taskbar", "window", w.id, "error", err)
		return
	}
	w.state.skipping = skip
}

// SavePosition remembers the window's geometry and maximized state.
func (w *Window) SavePosition() {
	bounds, err := w.host.WindowBounds(w.id)
	if err != nil {
		w.logger.Debug("save window position", "window", w.id, "error", err)
		return
	}
	w.saved = bounds
	w.savedMaximized = w.host.IsMaximized(w.id)
	w.hasSaved = true
}

// RestorePosition puts the window back where SavePosition found it and shows
// it unless doNotShow is set.
func (w *Window) RestorePosition(doNotShow bool) {
	if w.hasSaved {
		if w.savedMaximized {
			if !w.host.IsMaximized(w.id) {
				w.logError("maximize", w.host.Maximize(w.id))
			}
		} else {
			if w.host.IsMaximized(w.id) {
				w.logError("restore", w.host.Restore(w.id))
			}
			w.logError("set bounds", w.host.SetWindowBounds(w.id, w.saved))
		}
	}
	if !doNotShow && !w.minimized {
		w.Show()
	}
}

func (w *Window) ToggleTitlebar() {
	w.want.Titlebar = !w.want.Titlebar
	w.applyDecorations()
}

func (w *Window) ToggleBorder() {
	w.want.Border = !w.want.Border
	w.applyDecorations()
}

func (w *Window) ToggleMenu() {
	w.want.Menu = !w.want.Menu
	w.applyDecorations()
}

func (w *Window) ToggleTaskbarVisibility() {
	w.hideTaskbar = !w.hideTaskbar
	w.setSkipTaskbar(w.hideTaskbar)
}

// Show and Hide map or unmap the window.
func (w *Window) Show() { w.logError("show", w.host.SetWindowVisible(w.id, true)) }
func (w *Window) Hide() { w.logError("hide", w.host.SetWindowVisible(w.id, false)) }

// Revert gives the window back its original decorations and taskbar entry.
func (w *Window) Revert() {
	w.want = w.state.original
	w.applyDecorations()
	if w.state.skipping {
		w.setSkipTaskbar(false)
	}
}

func (w *Window) logError(op string, err error) {
	if err != nil {
		w.logger.Debug(op, "window", w.id, "error", err)
	}
}
