// Package bar wraps externally rendered status bars (polybar, lemonbar, a
// panel) so workspaces can reserve space for them and show or hide them.
package bar

import (
	"io"
	"log/slog"

	"github.com/1broseidon/dockwm/internal/config"
	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/workspace"
)

// Host is what a bar needs from the host.
type Host interface {
	FindWindowByClass(class string) (platform.WindowID, bool)
	SetWindowVisible(id platform.WindowID, visible bool) error
}

// Bar is a bar window matched by class name.
type Bar struct {
	host   Host
	logger *slog.Logger

	name    string
	class   string
	height  int
	monitor int

	id    platform.WindowID
	width int
	// shown is the last visibility sent to the host; known is false until
	// the first Show or Hide.
	shown bool
	known bool
}

var _ workspace.Bar = (*Bar)(nil)

// New creates a bar from its configuration. The window is looked up lazily
// since bars often start after the window manager.
func New(host Host, cfg config.Bar, logger *slog.Logger) *Bar {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Bar{
		host:    host,
		logger:  logger,
		name:    cfg.Name,
		class:   cfg.Class,
		height:  cfg.Height,
		monitor: cfg.Monitor,
	}
}

func (b *Bar) Name() string      { return b.name }
func (b *Bar) Class() string     { return b.class }
func (b *Bar) Height() int       { return b.height }
func (b *Bar) MonitorIndex() int { return b.monitor }
func (b *Bar) Width() int        { return b.width }

// Handle returns the bar's window, or 0 while no window matches its class.
func (b *Bar) Handle() platform.WindowID {
	if b.id == 0 {
		b.Resolve()
	}
	return b.id
}

// Resolved reports whether a window was found for the bar, without looking
// it up.
func (b *Bar) Resolved() bool { return b.id != 0 }

// Resolve looks the bar's window up again and reports whether the handle
// changed. A bar whose window went away resolves to 0.
func (b *Bar) Resolve() bool {
	id, ok := b.host.FindWindowByClass(b.class)
	if !ok {
		b.logger.Debug("bar window not found", "bar", b.name, "class", b.class)
		id = 0
	}
	if id == b.id {
		return false
	}
	b.id = id
	b.known = false
	return true
}

// Forget drops the window handle after the bar window was destroyed.
func (b *Bar) Forget() {
	b.id = 0
	b.known = false
}

func (b *Bar) OnClientWidthChanging(width int) { b.width = width }

func (b *Bar) Show() { b.setVisible(true) }
func (b *Bar) Hide() { b.setVisible(false) }

func (b *Bar) setVisible(visible bool) {
	id := b.Handle()
	if id == 0 || (b.known && b.shown == visible) {
		return
	}
	if err := b.host.SetWindowVisible(id, visible); err != nil {
		b.logger.Debug("set bar visibility", "bar", b.name, "visible", visible, "error", err)
		return
	}
	b.shown = visible
	b.known = true
}
