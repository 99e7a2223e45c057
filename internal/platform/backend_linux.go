//go:build linux

package platform

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/1broseidon/dockwm/internal/x11"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend implements Host over an X11 connection with an EWMH window
// manager. Dock registrations are input-only dock windows carrying partial
// struts.
type LinuxBackend struct {
	conn         *x11.Connection
	taskbarClass string

	mu       sync.Mutex
	docks    map[DockID]*linuxDock
	nextDock DockID

	taskbarAutoHide bool
	taskbarWatchers map[int]func()
	nextWatcher     int

	// Event loop state, touched only from the loop goroutine.
	clients          map[xproto.Window]bool
	hidden           map[xproto.Window]bool
	activeFullscreen bool
	// unmapped holds windows hidden through SetWindowVisible. The window
	// manager may drop them from its client list while they stay alive.
	unmapped map[xproto.Window]bool
}

type linuxDock struct {
	window  xproto.Window
	edge    Edge
	handler DockHandler
}

var _ Host = (*LinuxBackend)(nil)

// NewLinuxBackend opens an X11 connection. taskbarClass names the WM_CLASS of
// the desktop panel treated as the host taskbar; empty means none.
func NewLinuxBackend(taskbarClass string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{
		conn:            conn,
		taskbarClass:    taskbarClass,
		docks:           make(map[DockID]*linuxDock),
		taskbarWatchers: make(map[int]func()),
		clients:         make(map[xproto.Window]bool),
		hidden:          make(map[xproto.Window]bool),
		unmapped:        make(map[xproto.Window]bool),
	}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	return displays, nil
}

// Display returns one display by ID with a freshly computed work area.
func (b *LinuxBackend) Display(id int) (Display, error) {
	displays, err := b.Displays()
	if err != nil {
		return Display{}, err
	}
	for _, d := range displays {
		if d.ID == id {
			return d, nil
		}
	}
	return Display{}, fmt.Errorf("display with id %d not found", id)
}

// Windows lists normal client windows topmost first, followed by live
// windows this backend unmapped.
func (b *LinuxBackend) Windows() ([]Window, error) {
	clients, err := b.conn.StackingOrder()
	if err != nil {
		return nil, err
	}
	windows := make([]Window, 0, len(clients)+len(b.unmapped))
	listed := make(map[xproto.Window]bool, len(clients))
	for _, id := range clients {
		listed[id] = true
		if !b.conn.IsNormalWindow(id) {
			continue
		}
		windows = append(windows, b.describe(id))
	}
	for id := range b.unmapped {
		if !listed[id] && b.conn.Exists(id) {
			windows = append(windows, b.describe(id))
		}
	}
	return windows, nil
}

func (b *LinuxBackend) describe(id xproto.Window) Window {
	w := Window{
		ID:        WindowID(id),
		Class:     b.conn.WindowClass(id),
		Title:     b.conn.WindowTitle(id),
		Minimized: b.conn.IsHidden(id),
	}
	if r, err := b.conn.WindowRect(id); err == nil {
		w.Bounds = rectFromArea(r)
	}
	return w
}

func (b *LinuxBackend) FindWindowByClass(class string) (WindowID, bool) {
	if id, ok := b.conn.FindWindowByClass(class); ok {
		return WindowID(id), true
	}
	if class == "" {
		return 0, false
	}
	for id := range b.unmapped {
		if strings.EqualFold(b.conn.WindowClass(id), class) && b.conn.Exists(id) {
			return WindowID(id), true
		}
	}
	return 0, false
}

func (b *LinuxBackend) WindowBounds(id WindowID) (Rect, error) {
	r, err := b.conn.WindowRect(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	return rectFromArea(r), nil
}

func (b *LinuxBackend) SetWindowBounds(id WindowID, bounds Rect) error {
	return b.conn.MoveResizeWindow(xproto.Window(id), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

func (b *LinuxBackend) SetWindowVisible(id WindowID, visible bool) error {
	b.conn.SetMapped(xproto.Window(id), visible)
	if visible {
		delete(b.unmapped, xproto.Window(id))
	} else {
		b.unmapped[xproto.Window(id)] = true
	}
	return nil
}

func (b *LinuxBackend) Activate(id WindowID) error {
	return b.conn.ActivateWindow(xproto.Window(id))
}

func (b *LinuxBackend) IsMaximized(id WindowID) bool {
	return b.conn.IsMaximized(xproto.Window(id))
}

func (b *LinuxBackend) Maximize(id WindowID) error {
	return b.conn.SetMaximized(xproto.Window(id), true)
}

func (b *LinuxBackend) Restore(id WindowID) error {
	return b.conn.SetMaximized(xproto.Window(id), false)
}

// WindowStyle infers decoration affordances: a window has a caption when its
// frame has a top extent, and a maximize box when the window manager allows
// maximizing it.
func (b *LinuxBackend) WindowStyle(id WindowID) (Style, error) {
	_, _, top, _ := b.conn.GetFrameExtents(xproto.Window(id))
	caption := top > 0
	return Style{
		Caption:     caption,
		MaximizeBox: caption && b.conn.CanMaximize(xproto.Window(id)),
		Menu:        caption,
	}, nil
}

func (b *LinuxBackend) SetDecorations(id WindowID, d Decorations) error {
	return b.conn.SetDecorations(xproto.Window(id), d.Titlebar, d.Border, d.Menu)
}

func (b *LinuxBackend) SetSkipTaskbar(id WindowID, skip bool) error {
	return b.conn.SetSkipTaskbar(xproto.Window(id), skip)
}

func (b *LinuxBackend) OuterRect(id WindowID, client Rect) Rect {
	left, right, top, bottom := b.conn.GetFrameExtents(xproto.Window(id))
	return Rect{
		X:      client.X - left,
		Y:      client.Y - top,
		Width:  client.Width + left + right,
		Height: client.Height + top + bottom,
	}
}

// DeferPositions applies the placements in order and flushes once.
func (b *LinuxBackend) DeferPositions(placements []Placement) error {
	var firstErr error
	for _, p := range placements {
		id := xproto.Window(p.Window)
		if !p.KeepGeometry {
			if err := b.conn.MoveResizeWindow(id, p.Bounds.X, p.Bounds.Y, p.Bounds.Width, p.Bounds.Height); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		var err error
		switch p.ZOrder {
		case ZOrderTopmost:
			err = b.conn.Restack(id, x11.StackAbove)
		case ZOrderBottom:
			err = b.conn.Restack(id, x11.StackBelow)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.conn.Sync()
	return firstErr
}

func (b *LinuxBackend) RegisterDock(edge Edge, handler DockHandler) (DockID, error) {
	wid, err := b.conn.CreateDock()
	if err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextDock++
	b.docks[b.nextDock] = &linuxDock{window: wid, edge: edge, handler: handler}
	return b.nextDock, nil
}

func (b *LinuxBackend) UnregisterDock(id DockID) error {
	b.mu.Lock()
	dock, ok := b.docks[id]
	delete(b.docks, id)
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("dock %d not registered", id)
	}
	b.conn.DestroyDock(dock.window)
	return nil
}

// QueryDockPos accepts the proposed rectangle as-is; the window manager
// resolves overlapping struts itself.
func (b *LinuxBackend) QueryDockPos(id DockID, _ Edge, proposed Rect) (Rect, error) {
	if _, ok := b.dock(id); !ok {
		return Rect{}, fmt.Errorf("dock %d not registered", id)
	}
	return proposed, nil
}

func (b *LinuxBackend) SetDockPos(id DockID, edge Edge, rect Rect) error {
	dock, ok := b.dock(id)
	if !ok {
		return fmt.Errorf("dock %d not registered", id)
	}
	return b.conn.SetDockArea(dock.window, edge == EdgeTop, x11.Area{
		X:      rect.X,
		Y:      rect.Y,
		Width:  rect.Width,
		Height: rect.Height,
	})
}

func (b *LinuxBackend) ForegroundIsDesktop() bool {
	active, err := b.conn.GetActiveWindow()
	if err != nil || active == 0 {
		return true
	}
	return b.conn.HasWindowType(active, "_NET_WM_WINDOW_TYPE_DESKTOP")
}

func (b *LinuxBackend) dock(id DockID) (*linuxDock, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.docks[id]
	return d, ok
}

func (b *LinuxBackend) taskbarWindow() (xproto.Window, bool) {
	return b.conn.FindWindowByClass(b.taskbarClass)
}

func (b *LinuxBackend) TaskbarPresent() bool {
	_, ok := b.taskbarWindow()
	return ok
}

func (b *LinuxBackend) TaskbarVisible() bool {
	win, ok := b.taskbarWindow()
	return ok && b.conn.IsViewable(win)
}

// TaskbarAutoHide reports the last auto-hide state set through this backend.
// X11 panels keep auto-hide in private configuration, so the flag is tracked
// locally.
func (b *LinuxBackend) TaskbarAutoHide() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.taskbarAutoHide, nil
}

func (b *LinuxBackend) SetTaskbarAutoHide(autoHide bool) error {
	b.mu.Lock()
	b.taskbarAutoHide = autoHide
	b.mu.Unlock()
	return nil
}

func (b *LinuxBackend) SetTaskbarVisible(visible bool) error {
	win, ok := b.taskbarWindow()
	if !ok {
		return fmt.Errorf("taskbar window %q not found", b.taskbarClass)
	}
	b.conn.SetMapped(win, visible)
	return nil
}

func (b *LinuxBackend) WatchTaskbarShown(fn func()) (func(), error) {
	if _, ok := b.taskbarWindow(); !ok {
		return nil, fmt.Errorf("taskbar window %q not found", b.taskbarClass)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextWatcher++
	id := b.nextWatcher
	b.taskbarWatchers[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.taskbarWatchers, id)
		b.mu.Unlock()
	}, nil
}

// Run pumps X events into sink until ctx is cancelled.
func (b *LinuxBackend) Run(ctx context.Context, sink EventSink, tasks <-chan func()) error {
	clients, err := b.conn.ClientList()
	if err != nil {
		return fmt.Errorf("read client list: %w", err)
	}
	for _, id := range clients {
		b.track(id)
	}
	activeAtom, _ := b.conn.Atom("_NET_ACTIVE_WINDOW")
	clientListAtom, _ := b.conn.Atom("_NET_CLIENT_LIST")
	stateAtom, _ := b.conn.Atom("_NET_WM_STATE")
	workareaAtom, _ := b.conn.Atom("_NET_WORKAREA")

	return b.conn.Loop(ctx, func(event interface{}) {
		switch ev := event.(type) {
		case xproto.PropertyNotifyEvent:
			switch {
			case ev.Window == b.conn.Root && ev.Atom == clientListAtom:
				b.syncClients(sink)
			case ev.Window == b.conn.Root && ev.Atom == activeAtom:
				b.activeChanged(sink)
			case ev.Window == b.conn.Root && ev.Atom == workareaAtom:
				// The window manager applied a strut change, ours included.
				sink.DisplaysChanged()
				b.notifyDocks(DockPositionChanged)
			case ev.Atom == stateAtom && b.clients[ev.Window]:
				b.stateChanged(sink, ev.Window)
			}
		case xproto.MapNotifyEvent:
			if win, ok := b.taskbarWindow(); ok && ev.Window == win {
				b.notifyTaskbarShown()
			}
		case randr.ScreenChangeNotifyEvent:
			sink.DisplaysChanged()
			b.notifyDocks(DockPositionChanged)
		}
	}, tasks)
}

func (b *LinuxBackend) track(id xproto.Window) bool {
	if !b.conn.IsNormalWindow(id) {
		return false
	}
	_ = b.conn.Listen(id)
	b.clients[id] = true
	b.hidden[id] = b.conn.IsHidden(id)
	return true
}

func (b *LinuxBackend) syncClients(sink EventSink) {
	clients, err := b.conn.ClientList()
	if err != nil {
		return
	}
	current := make(map[xproto.Window]bool, len(clients))
	for _, id := range clients {
		current[id] = true
		if !b.clients[id] && b.track(id) {
			sink.WindowCreated(b.describe(id))
		}
	}
	for id := range b.clients {
		if !current[id] {
			if b.unmapped[id] && b.conn.Exists(id) {
				continue
			}
			delete(b.unmapped, id)
			delete(b.clients, id)
			delete(b.hidden, id)
			sink.WindowDestroyed(WindowID(id))
		}
	}
}

func (b *LinuxBackend) stateChanged(sink EventSink, id xproto.Window) {
	hidden := b.conn.IsHidden(id)
	if hidden == b.hidden[id] {
		return
	}
	b.hidden[id] = hidden
	if hidden {
		sink.WindowMinimized(WindowID(id))
	} else {
		sink.WindowRestored(WindowID(id))
	}
}

func (b *LinuxBackend) activeChanged(sink EventSink) {
	active, err := b.conn.GetActiveWindow()
	if err != nil {
		return
	}
	if active != 0 && b.clients[active] && !b.unmapped[active] {
		sink.WindowActivated(WindowID(active))
	}

	fullscreen := active != 0 && b.conn.IsFullscreen(active)
	if fullscreen == b.activeFullscreen {
		return
	}
	b.activeFullscreen = fullscreen
	if fullscreen {
		b.notifyDocks(DockFullScreenOpened)
	} else {
		b.notifyDocks(DockFullScreenClosed)
	}
}

func (b *LinuxBackend) notifyDocks(ev DockEvent) {
	b.mu.Lock()
	handlers := make([]DockHandler, 0, len(b.docks))
	for _, d := range b.docks {
		if d.handler != nil {
			handlers = append(handlers, d.handler)
		}
	}
	b.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}

func (b *LinuxBackend) notifyTaskbarShown() {
	b.mu.Lock()
	watchers := make([]func(), 0, len(b.taskbarWatchers))
	for _, fn := range b.taskbarWatchers {
		watchers = append(watchers, fn)
	}
	b.mu.Unlock()
	for _, fn := range watchers {
		fn()
	}
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:      m.ID,
		Name:    m.Name,
		Bounds:  rectFromArea(m.Bounds),
		Usable:  rectFromArea(m.Work),
		Primary: m.Primary,
	}
}

func rectFromArea(a x11.Area) Rect {
	return Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
}
