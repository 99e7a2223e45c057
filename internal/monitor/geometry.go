package monitor

import (
	"github.com/1broseidon/dockwm/internal/config"
	"github.com/1broseidon/dockwm/internal/platform"
)

// geometry computes a monitor's rectangles from one or more displays.
type geometry interface {
	refresh(m *Monitor)
	physicalCount() int
}

// physical is a single host display.
type physical struct {
	displayID int
}

func (g *physical) refresh(m *Monitor) {
	d, err := m.shell.host.Display(g.displayID)
	if err != nil {
		m.shell.logger.Debug("read display", "monitor", m.index, "display", g.displayID, "error", err)
		return
	}
	m.bounds = d.Bounds
	m.workingArea = d.Usable
	m.primary = d.Primary
}

func (g *physical) physicalCount() int { return 1 }

// composite treats several contiguous displays as one monitor.
type composite struct {
	parts []*Monitor
	span  config.Span
}

func (g *composite) refresh(m *Monitor) {
	bounds := make([]platform.Rect, len(g.parts))
	work := make([]platform.Rect, len(g.parts))
	m.primary = false
	for i, p := range g.parts {
		p.SetBoundsAndWorkingArea()
		bounds[i] = p.bounds
		work[i] = p.workingArea
		m.primary = m.primary || p.primary
	}
	m.bounds = mergeRects(bounds, g.span)
	m.workingArea = mergeRects(work, g.span)
}

func (g *composite) physicalCount() int { return len(g.parts) }

// mergeRects spans the outer edges along the span axis and keeps only the
// overlap on the cross axis.
func mergeRects(rects []platform.Rect, span config.Span) platform.Rect {
	if len(rects) == 0 {
		return platform.Rect{}
	}
	left, top, right, bottom := rects[0].X, rects[0].Y, rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		if span == config.SpanVertical {
			top = min(top, r.Y)
			bottom = max(bottom, r.Bottom())
			left = max(left, r.X)
			right = min(right, r.Right())
		} else {
			left = min(left, r.X)
			right = max(right, r.Right())
			top = max(top, r.Y)
			bottom = min(bottom, r.Bottom())
		}
	}
	return platform.RectFromEdges(left, top, right, bottom)
}

// split is one half of a parent monitor. The parent's rectangles come from
// the shell's per-parent cache, so both halves may briefly disagree with a
// display change that happened inside the cache window.
type split struct {
	parent *Monitor
	side   config.SplitSide
	axis   config.Span
}

func (g *split) refresh(m *Monitor) {
	bounds, work, primary := m.shell.parentGeometry(g.parent)
	m.bounds = halve(bounds, g.side, g.axis)
	m.workingArea = halve(work, g.side, g.axis)
	m.primary = primary
}

func (g *split) physicalCount() int { return 1 }

// halve returns the first or second half of r. The first half gets the floor
// of the split, the second the remainder.
func halve(r platform.Rect, side config.SplitSide, axis config.Span) platform.Rect {
	if axis == config.SpanVertical {
		first := r.Height / 2
		if side == config.SplitSecond {
			return platform.Rect{X: r.X, Y: r.Y + first, Width: r.Width, Height: r.Height - first}
		}
		return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: first}
	}
	first := r.Width / 2
	if side == config.SplitSecond {
		return platform.Rect{X: r.X + first, Y: r.Y, Width: r.Width - first, Height: r.Height}
	}
	return platform.Rect{X: r.X, Y: r.Y, Width: first, Height: r.Height}
}
