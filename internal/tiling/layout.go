// Package tiling arranges a workspace's windows in grids, columns, rows or a
// master-stack split of the monitor's working area.
package tiling

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/dockwm/internal/config"
	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/workspace"
)

// Layout is a workspace.Layout driven by a configured tiling layout.
type Layout struct {
	name    string
	spec    config.Layout
	gapSize int
	host    platform.Placer
	logger  *slog.Logger

	ws *workspace.Workspace
}

var _ workspace.Layout = (*Layout)(nil)

// New creates an unbound tiling layout. A nil logger discards output.
func New(name string, spec config.Layout, gapSize int, host platform.Placer, logger *slog.Logger) *Layout {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Layout{
		name:    name,
		spec:    spec,
		gapSize: gapSize,
		host:    host,
		logger:  logger,
	}
}

func (l *Layout) LayoutName() string { return l.name }

// LayoutSymbol returns a short glyph for the mode followed by the number of
// tiled windows.
func (l *Layout) LayoutSymbol() string {
	glyph := "[+]"
	switch l.spec.Mode {
	case config.LayoutModeFixed:
		glyph = "[#]"
	case config.LayoutModeVertical:
		glyph = "[-]"
	case config.LayoutModeHorizontal:
		glyph = "[|]"
	case config.LayoutModeMasterStack:
		glyph = "[]="
	}
	if l.ws == nil {
		return glyph
	}
	return fmt.Sprintf("%s %d", glyph, len(l.ws.ManagedWindows()))
}

func (l *Layout) Initialize(ws *workspace.Workspace) { l.ws = ws }

// ShouldSaveAndRestoreSharedWindowsPosition is true: a shared window gets a
// different tile on every workspace it is on.
func (l *Layout) ShouldSaveAndRestoreSharedWindowsPosition() bool { return true }

func (l *Layout) Reposition() { l.arrange() }

func (l *Layout) WindowMinimized(workspace.Window) {
	if l.ws.IsVisible() {
		l.arrange()
	}
}

func (l *Layout) WindowRestored(workspace.Window) {
	if l.ws.IsVisible() {
		l.arrange()
	}
}

func (l *Layout) WindowCreated(workspace.Window) {
	if l.ws.IsVisible() {
		l.arrange()
		l.ws.Hub().NotifyLayoutUpdated()
	}
}

func (l *Layout) WindowDestroyed(workspace.Window) {
	if l.ws.IsVisible() {
		l.arrange()
		l.ws.Hub().NotifyLayoutUpdated()
	}
}

func (l *Layout) Close() {}

// Positions computes the tiles for the managed windows, in tab order.
func (l *Layout) Positions() ([]platform.Rect, error) {
	windows := l.ws.ManagedWindows()
	if len(windows) == 0 || l.ws.Monitor() == nil {
		return nil, nil
	}
	area := Region(l.ws.Monitor().WorkingArea(), l.spec.TileRegion)
	if area.Width < 1 || area.Height < 1 {
		return nil, fmt.Errorf("tile_region leaves no usable space: %dx%d at %d,%d",
			area.Width, area.Height, area.X, area.Y)
	}
	return Tiles(len(windows), area, &l.spec, l.gapSize)
}

// arrange places every managed window in one deferred batch. Windows past the
// layout's capacity keep their position.
func (l *Layout) arrange() {
	positions, err := l.Positions()
	if err != nil {
		l.logger.Warn("compute tiling positions", "workspace", l.ws.Name(), "layout", l.name, "error", err)
		return
	}
	windows := l.ws.ManagedWindows()
	placements := make([]platform.Placement, 0, len(positions))
	for i, pos := range positions {
		id := windows[i].Handle()
		if l.host.IsMaximized(id) {
			if err := l.host.Restore(id); err != nil {
				l.logger.Debug("restore window", "window", id, "error", err)
			}
		}
		placements = append(placements, platform.Placement{Window: id, Bounds: pos})
	}
	if len(placements) == 0 {
		return
	}
	if err := l.host.DeferPositions(placements); err != nil {
		l.logger.Debug("place tiled windows", "workspace", l.ws.Name(), "error", err)
	}
}
