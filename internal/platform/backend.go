package platform

import "context"

// WindowID is a platform-neutral native window handle.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether r covers no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether r and o share a non-empty area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// RectFromEdges builds a Rect from its four edges.
func RectFromEdges(left, top, right, bottom int) Rect {
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID      int
	Name    string
	Bounds  Rect
	Usable  Rect
	Primary bool
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID        WindowID
	Class     string
	Title     string
	Bounds    Rect
	Minimized bool
}

// Edge is the screen edge a dock registration is anchored to.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
)

func (e Edge) String() string {
	if e == EdgeTop {
		return "top"
	}
	return "bottom"
}

// ZOrder selects where a placement puts a window in the stacking order.
type ZOrder int

const (
	ZOrderUnchanged ZOrder = iota
	ZOrderTopmost
	ZOrderBottom
)

// Placement is one entry of a batched positioning operation.
type Placement struct {
	Window WindowID
	Bounds Rect
	ZOrder ZOrder
	// KeepGeometry leaves position and size untouched and only restacks.
	KeepGeometry bool
}

// Style reports the decoration affordances of a window.
type Style struct {
	Caption     bool
	MaximizeBox bool
	Menu        bool
}

// Decorations is the desired decoration state of a managed window.
type Decorations struct {
	Titlebar bool
	Border   bool
	// Menu is the window menu button; it needs a titlebar to show.
	Menu bool
}

// DockID identifies one dock registration with the host shell.
type DockID uint32

// DockEvent is a host notification delivered to a dock registration.
type DockEvent int

const (
	DockFullScreenOpened DockEvent = iota
	DockFullScreenClosed
	DockPositionChanged
)

// DockHandler receives notifications for a single dock registration.
type DockHandler func(DockEvent)

// Displays enumerates the host's physical displays.
type Displays interface {
	Displays() ([]Display, error)
	Display(id int) (Display, error)
}

// Placer positions and restyles top-level windows.
type Placer interface {
	// Windows lists the top-level windows in z-order, topmost first.
	Windows() ([]Window, error)
	// FindWindowByClass looks up any top-level window, docks included, by
	// its class name.
	FindWindowByClass(class string) (WindowID, bool)
	WindowBounds(id WindowID) (Rect, error)
	SetWindowBounds(id WindowID, bounds Rect) error
	SetWindowVisible(id WindowID, visible bool) error
	// Activate focuses and raises a window.
	Activate(id WindowID) error
	IsMaximized(id WindowID) bool
	Maximize(id WindowID) error
	Restore(id WindowID) error
	WindowStyle(id WindowID) (Style, error)
	SetDecorations(id WindowID, d Decorations) error
	SetSkipTaskbar(id WindowID, skip bool) error
	// OuterRect converts a desired client rectangle into the window
	// rectangle including the window's frame.
	OuterRect(id WindowID, client Rect) Rect
	DeferPositions(placements []Placement) error
}

// Docker is the host shell's dock-bar registration protocol.
type Docker interface {
	RegisterDock(edge Edge, handler DockHandler) (DockID, error)
	UnregisterDock(id DockID) error
	// QueryDockPos asks the host to adjust a proposed rectangle.
	QueryDockPos(id DockID, edge Edge, proposed Rect) (Rect, error)
	SetDockPos(id DockID, edge Edge, rect Rect) error
	// ForegroundIsDesktop reports whether the foreground window is the
	// desktop background window.
	ForegroundIsDesktop() bool
}

// Taskbar controls the host's own taskbar.
type Taskbar interface {
	TaskbarPresent() bool
	TaskbarVisible() bool
	TaskbarAutoHide() (bool, error)
	SetTaskbarAutoHide(autoHide bool) error
	SetTaskbarVisible(visible bool) error
	// WatchTaskbarShown calls fn whenever the taskbar window is shown.
	WatchTaskbarShown(fn func()) (cancel func(), err error)
}

// EventSink receives window and display notifications from the host.
type EventSink interface {
	WindowCreated(w Window)
	WindowDestroyed(id WindowID)
	WindowMinimized(id WindowID)
	WindowRestored(id WindowID)
	WindowActivated(id WindowID)
	DisplaysChanged()
}

// EventSource runs the host message loop.
type EventSource interface {
	// Run pumps host events into sink and executes tasks on the same
	// goroutine until ctx is cancelled.
	Run(ctx context.Context, sink EventSink, tasks <-chan func()) error
}

// Host is the full host call surface consumed by the engine.
type Host interface {
	Displays
	Placer
	Docker
	Taskbar
	EventSource
}
