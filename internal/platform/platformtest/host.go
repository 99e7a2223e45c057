// Package platformtest provides an in-memory platform.Host that records every
// host call, for tests of the engine packages.
package platformtest

import (
	"context"
	"fmt"

	"github.com/1broseidon/dockwm/internal/platform"
)

// Call is one recorded host call.
type Call struct {
	Op     string
	Window platform.WindowID
	Dock   platform.DockID
	Rect   platform.Rect
	Flag   bool
}

// Dock is the fake's view of a dock registration.
type Dock struct {
	Edge       platform.Edge
	Handler    platform.DockHandler
	Rect       platform.Rect
	Registered bool
}

// Host is a recording fake of platform.Host. The zero value is not usable;
// construct with New.
type Host struct {
	Calls   []Call
	Batches [][]platform.Placement

	DisplayList []platform.Display
	WindowList  []platform.Window
	Bounds      map[platform.WindowID]platform.Rect
	Maximized   map[platform.WindowID]bool
	Styles      map[platform.WindowID]platform.Style
	Visible     map[platform.WindowID]bool
	Decorated   map[platform.WindowID]platform.Decorations
	SkipTaskbar map[platform.WindowID]bool

	// Frame is added on every side by OuterRect.
	Frame int
	// QueryAdjust, when set, rewrites rectangles passed to QueryDockPos.
	QueryAdjust func(platform.Rect) platform.Rect

	Docks             map[platform.DockID]*Dock
	DesktopForeground bool
	// Struts makes dock positions shrink the usable area of the displays
	// they overlap, as a window manager does once it sees the strut.
	Struts bool

	TaskbarExists  bool
	TaskbarShown   bool
	AutoHide       bool
	taskbarWatches map[int]func()
	nextWatch      int

	nextDock platform.DockID
}

var _ platform.Host = (*Host)(nil)

// New returns a fake host with a single 1920x1080 primary display.
func New() *Host {
	return &Host{
		DisplayList: []platform.Display{{
			ID:      0,
			Name:    "fake-0",
			Bounds:  platform.Rect{Width: 1920, Height: 1080},
			Usable:  platform.Rect{Width: 1920, Height: 1080},
			Primary: true,
		}},
		Bounds:         make(map[platform.WindowID]platform.Rect),
		Maximized:      make(map[platform.WindowID]bool),
		Styles:         make(map[platform.WindowID]platform.Style),
		Visible:        make(map[platform.WindowID]bool),
		Decorated:      make(map[platform.WindowID]platform.Decorations),
		SkipTaskbar:    make(map[platform.WindowID]bool),
		Docks:          make(map[platform.DockID]*Dock),
		taskbarWatches: make(map[int]func()),
	}
}

func (h *Host) record(c Call) { h.Calls = append(h.Calls, c) }

// Count returns how many recorded calls have the given op.
func (h *Host) Count(op string) int {
	n := 0
	for _, c := range h.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// CallsFor returns the recorded calls with the given op.
func (h *Host) CallsFor(op string) []Call {
	var out []Call
	for _, c := range h.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls and batches.
func (h *Host) Reset() {
	h.Calls = nil
	h.Batches = nil
}

// FireDock delivers a host notification to a dock registration.
func (h *Host) FireDock(id platform.DockID, ev platform.DockEvent) {
	if d, ok := h.Docks[id]; ok && d.Registered && d.Handler != nil {
		d.Handler(ev)
	}
}

// RegisteredDocks returns the ids of live registrations.
func (h *Host) RegisteredDocks() []platform.DockID {
	var ids []platform.DockID
	for id := platform.DockID(1); id <= h.nextDock; id++ {
		if d, ok := h.Docks[id]; ok && d.Registered {
			ids = append(ids, id)
		}
	}
	return ids
}

// FireTaskbarShown simulates the host showing its taskbar.
func (h *Host) FireTaskbarShown() {
	h.TaskbarShown = true
	for _, fn := range h.taskbarWatches {
		fn()
	}
}

func (h *Host) Displays() ([]platform.Display, error) {
	out := make([]platform.Display, len(h.DisplayList))
	copy(out, h.DisplayList)
	return out, nil
}

func (h *Host) Display(id int) (platform.Display, error) {
	h.record(Call{Op: "Display"})
	for _, d := range h.DisplayList {
		if d.ID == id {
			return d, nil
		}
	}
	return platform.Display{}, fmt.Errorf("display %d not found", id)
}

func (h *Host) Windows() ([]platform.Window, error) {
	out := make([]platform.Window, len(h.WindowList))
	copy(out, h.WindowList)
	return out, nil
}

func (h *Host) FindWindowByClass(class string) (platform.WindowID, bool) {
	for _, w := range h.WindowList {
		if w.Class == class {
			return w.ID, true
		}
	}
	return 0, false
}

func (h *Host) WindowBounds(id platform.WindowID) (platform.Rect, error) {
	r, ok := h.Bounds[id]
	if !ok {
		return platform.Rect{}, fmt.Errorf("window %d unknown", id)
	}
	return r, nil
}

func (h *Host) SetWindowBounds(id platform.WindowID, bounds platform.Rect) error {
	h.record(Call{Op: "SetWindowBounds", Window: id, Rect: bounds})
	h.Bounds[id] = bounds
	return nil
}

func (h *Host) SetWindowVisible(id platform.WindowID, visible bool) error {
	h.record(Call{Op: "SetWindowVisible", Window: id, Flag: visible})
	h.Visible[id] = visible
	return nil
}

func (h *Host) Activate(id platform.WindowID) error {
	h.record(Call{Op: "Activate", Window: id})
	return nil
}

func (h *Host) IsMaximized(id platform.WindowID) bool {
	return h.Maximized[id]
}

func (h *Host) Maximize(id platform.WindowID) error {
	h.record(Call{Op: "Maximize", Window: id})
	h.Maximized[id] = true
	return nil
}

func (h *Host) Restore(id platform.WindowID) error {
	h.record(Call{Op: "Restore", Window: id})
	h.Maximized[id] = false
	return nil
}

func (h *Host) WindowStyle(id platform.WindowID) (platform.Style, error) {
	return h.Styles[id], nil
}

func (h *Host) SetDecorations(id platform.WindowID, d platform.Decorations) error {
	h.record(Call{Op: "SetDecorations", Window: id, Flag: d.Titlebar && d.Border})
	h.Decorated[id] = d
	return nil
}

func (h *Host) SetSkipTaskbar(id platform.WindowID, skip bool) error {
	h.record(Call{Op: "SetSkipTaskbar", Window: id, Flag: skip})
	h.SkipTaskbar[id] = skip
	return nil
}

func (h *Host) OuterRect(_ platform.WindowID, client platform.Rect) platform.Rect {
	return platform.Rect{
		X:      client.X - h.Frame,
		Y:      client.Y - h.Frame,
		Width:  client.Width + 2*h.Frame,
		Height: client.Height + 2*h.Frame,
	}
}

func (h *Host) DeferPositions(placements []platform.Placement) error {
	batch := make([]platform.Placement, len(placements))
	copy(batch, placements)
	h.Batches = append(h.Batches, batch)
	h.record(Call{Op: "DeferPositions"})
	for _, p := range placements {
		if !p.KeepGeometry {
			h.Bounds[p.Window] = p.Bounds
		}
	}
	return nil
}

func (h *Host) RegisterDock(edge platform.Edge, handler platform.DockHandler) (platform.DockID, error) {
	h.nextDock++
	id := h.nextDock
	h.Docks[id] = &Dock{Edge: edge, Handler: handler, Registered: true}
	h.record(Call{Op: "RegisterDock", Dock: id})
	return id, nil
}

func (h *Host) UnregisterDock(id platform.DockID) error {
	h.record(Call{Op: "UnregisterDock", Dock: id})
	if d, ok := h.Docks[id]; ok {
		d.Registered = false
	}
	h.applyStruts()
	return nil
}

func (h *Host) QueryDockPos(id platform.DockID, _ platform.Edge, proposed platform.Rect) (platform.Rect, error) {
	h.record(Call{Op: "QueryDockPos", Dock: id, Rect: proposed})
	if h.QueryAdjust != nil {
		return h.QueryAdjust(proposed), nil
	}
	return proposed, nil
}

func (h *Host) SetDockPos(id platform.DockID, _ platform.Edge, rect platform.Rect) error {
	h.record(Call{Op: "SetDockPos", Dock: id, Rect: rect})
	if d, ok := h.Docks[id]; ok {
		d.Rect = rect
	}
	h.applyStruts()
	return nil
}

// applyStruts recomputes every display's usable area from the live dock
// rectangles when Struts is set.
func (h *Host) applyStruts() {
	if !h.Struts {
		return
	}
	for i := range h.DisplayList {
		d := &h.DisplayList[i]
		top, bottom := 0, 0
		for _, dock := range h.Docks {
			if !dock.Registered || !dock.Rect.Intersects(d.Bounds) {
				continue
			}
			if dock.Edge == platform.EdgeTop {
				top = max(top, dock.Rect.Bottom()-d.Bounds.Y)
			} else {
				bottom = max(bottom, d.Bounds.Bottom()-dock.Rect.Y)
			}
		}
		d.Usable = platform.Rect{
			X:      d.Bounds.X,
			Y:      d.Bounds.Y + top,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height - top - bottom,
		}
	}
}

func (h *Host) ForegroundIsDesktop() bool { return h.DesktopForeground }

func (h *Host) TaskbarPresent() bool { return h.TaskbarExists }

func (h *Host) TaskbarVisible() bool { return h.TaskbarShown }

func (h *Host) TaskbarAutoHide() (bool, error) { return h.AutoHide, nil }

func (h *Host) SetTaskbarAutoHide(autoHide bool) error {
	h.record(Call{Op: "SetTaskbarAutoHide", Flag: autoHide})
	h.AutoHide = autoHide
	return nil
}

func (h *Host) SetTaskbarVisible(visible bool) error {
	h.record(Call{Op: "SetTaskbarVisible", Flag: visible})
	h.TaskbarShown = visible
	return nil
}

func (h *Host) WatchTaskbarShown(fn func()) (func(), error) {
	h.nextWatch++
	id := h.nextWatch
	h.taskbarWatches[id] = fn
	return func() { delete(h.taskbarWatches, id) }, nil
}

// Run executes tasks until ctx is cancelled. It never produces host events.
func (h *Host) Run(ctx context.Context, _ platform.EventSink, tasks <-chan func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case task := <-tasks:
			task()
		}
	}
}
