package monitor

import (
	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/workspace"
)

// appBar is one dock registration with the host shell: space reserved along
// one edge of a monitor for a group of bars with a fixed total height.
type appBar struct {
	monitor *Monitor
	id      platform.DockID
	edge    platform.Edge
	height  int

	rect    platform.Rect
	visible bool
	topmost bool
	bars    []workspace.Bar
}

func newAppBar(m *Monitor, height int, edge platform.Edge) *appBar {
	ab := &appBar{monitor: m, height: height, edge: edge}
	id, err := m.shell.host.RegisterDock(edge, ab.handle)
	if err != nil {
		m.shell.logger.Warn("register dock", "monitor", m.index, "edge", edge, "height", height, "error", err)
	}
	ab.id = id
	m.shell.logger.Debug("registered dock", "monitor", m.index, "edge", edge, "height", height, "dock", id)
	return ab
}

func (ab *appBar) destroy() {
	if err := ab.monitor.shell.host.UnregisterDock(ab.id); err != nil {
		ab.monitor.shell.logger.Debug("unregister dock", "dock", ab.id, "error", err)
	}
}

// setPosition reserves the edge strip of the monitor's bounds and reports
// whether the approved rectangle moved.
func (ab *appBar) setPosition() bool {
	host := ab.monitor.shell.host
	b := ab.monitor.bounds

	proposed := platform.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: ab.height}
	if ab.edge == platform.EdgeBottom {
		proposed.Y = b.Bottom() - ab.height
	}

	approved, err := host.QueryDockPos(ab.id, ab.edge, proposed)
	if err != nil {
		ab.monitor.shell.logger.Debug("query dock position", "dock", ab.id, "error", err)
		approved = proposed
	}
	// The host may move the strip but the thickness is ours.
	if ab.edge == platform.EdgeBottom {
		approved.Y = approved.Bottom() - ab.height
	}
	approved.Height = ab.height

	if err := host.SetDockPos(ab.id, ab.edge, approved); err != nil {
		ab.monitor.shell.logger.Debug("set dock position", "dock", ab.id, "error", err)
	}

	changed := approved != ab.rect
	ab.rect = approved
	ab.visible = true
	return changed
}

// hide gives the reserved space back.
func (ab *appBar) hide() {
	host := ab.monitor.shell.host
	empty, err := host.QueryDockPos(ab.id, ab.edge, platform.Rect{})
	if err != nil {
		ab.monitor.shell.logger.Debug("query dock position", "dock", ab.id, "error", err)
	}
	if err := host.SetDockPos(ab.id, ab.edge, empty); err != nil {
		ab.monitor.shell.logger.Debug("set dock position", "dock", ab.id, "error", err)
	}
	ab.visible = false
}

// positionBars stacks bars from the registration's edge inwards and returns
// their placements, all topmost.
func (ab *appBar) positionBars(bars []workspace.Bar) []platform.Placement {
	ab.bars = bars
	host := ab.monitor.shell.host

	top := ab.edge == platform.EdgeTop
	y := ab.rect.Y
	if !top {
		y = ab.rect.Bottom()
	}

	placements := make([]platform.Placement, 0, len(bars))
	for _, bar := range bars {
		if !top {
			y -= bar.Height()
		}
		client := platform.Rect{X: ab.rect.X, Y: y, Width: ab.rect.Width, Height: bar.Height()}
		if top {
			y += bar.Height()
		}

		bar.OnClientWidthChanging(client.Width)
		if bar.Handle() == 0 {
			// Bar window not mapped yet; its space stays reserved.
			continue
		}
		placements = append(placements, platform.Placement{
			Window: bar.Handle(),
			Bounds: host.OuterRect(bar.Handle(), client),
			ZOrder: platform.ZOrderTopmost,
		})
	}

	ab.topmost = true
	return placements
}

func (ab *appBar) restack(z platform.ZOrder) {
	placements := make([]platform.Placement, 0, len(ab.bars))
	for _, bar := range ab.bars {
		if bar.Handle() != 0 {
			placements = append(placements, platform.Placement{Window: bar.Handle(), ZOrder: z, KeepGeometry: true})
		}
	}
	if len(placements) == 0 {
		return
	}
	if err := ab.monitor.shell.host.DeferPositions(placements); err != nil {
		ab.monitor.shell.logger.Debug("restack bars", "dock", ab.id, "error", err)
	}
}

// handle reacts to host notifications while the registration is in use.
func (ab *appBar) handle(ev platform.DockEvent) {
	if !ab.visible {
		return
	}
	switch ev {
	case platform.DockFullScreenClosed:
		if !ab.topmost {
			ab.restack(platform.ZOrderTopmost)
			ab.topmost = true
		}
	case platform.DockFullScreenOpened:
		// The desktop background reports itself as a full-screen window.
		if ab.topmost && !ab.monitor.shell.host.ForegroundIsDesktop() {
			ab.restack(platform.ZOrderBottom)
			ab.topmost = false
		}
	case platform.DockPositionChanged:
		// May arrive before the display change that caused it.
		ab.monitor.SetBoundsAndWorkingArea()
		if ab.setPosition() {
			if err := ab.monitor.shell.host.DeferPositions(ab.positionBars(ab.bars)); err != nil {
				ab.monitor.shell.logger.Debug("reposition bars", "dock", ab.id, "error", err)
			}
		}
	}
}
