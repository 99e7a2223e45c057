package x11

import (
	"slices"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	stateMaxHorz     = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateMaxVert     = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateHidden      = "_NET_WM_STATE_HIDDEN"
	stateFullscreen  = "_NET_WM_STATE_FULLSCREEN"
	stateAbove       = "_NET_WM_STATE_ABOVE"
	stateBelow       = "_NET_WM_STATE_BELOW"
	stateSkipTaskbar = "_NET_WM_STATE_SKIP_TASKBAR"
	stateSkipPager   = "_NET_WM_STATE_SKIP_PAGER"
)

// Stacking selects a stacking request for Restack.
type Stacking int

const (
	StackAbove Stacking = iota + 1
	StackBelow
)

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// WindowRect returns the client rectangle of a window in root coordinates.
func (c *Connection) WindowRect(windowID xproto.Window) (Area, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Area{}, err
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return Area{}, err
	}

	return Area{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// HasState reports whether the window's _NET_WM_STATE contains state.
func (c *Connection) HasState(windowID xproto.Window, state string) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

// IsMaximized reports whether a window is maximized in both directions.
func (c *Connection) IsMaximized(windowID xproto.Window) bool {
	return c.HasState(windowID, stateMaxHorz) && c.HasState(windowID, stateMaxVert)
}

// IsHidden reports whether a window is minimized.
func (c *Connection) IsHidden(windowID xproto.Window) bool {
	return c.HasState(windowID, stateHidden)
}

// IsFullscreen reports whether a window is in full-screen state.
func (c *Connection) IsFullscreen(windowID xproto.Window) bool {
	return c.HasState(windowID, stateFullscreen)
}

// SetMaximized asks the window manager to maximize or restore a window.
func (c *Connection) SetMaximized(windowID xproto.Window, maximized bool) error {
	action := ewmh.StateRemove
	if maximized {
		action = ewmh.StateAdd
	}
	return ewmh.WmStateReqExtra(c.XUtil, windowID, action, stateMaxHorz, stateMaxVert, 2)
}

// SetSkipTaskbar hides or shows a window in taskbars and pagers.
func (c *Connection) SetSkipTaskbar(windowID xproto.Window, skip bool) error {
	action := ewmh.StateRemove
	if skip {
		action = ewmh.StateAdd
	}
	return ewmh.WmStateReqExtra(c.XUtil, windowID, action, stateSkipTaskbar, stateSkipPager, 2)
}

// Restack raises or lowers a window and pins it with the matching
// _NET_WM_STATE so the window manager keeps it there.
func (c *Connection) Restack(windowID xproto.Window, mode Stacking) error {
	win := xwindow.New(c.XUtil, windowID)
	switch mode {
	case StackAbove:
		_ = ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, stateBelow)
		win.Stack(xproto.StackModeAbove)
		return ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateAdd, stateAbove)
	case StackBelow:
		_ = ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, stateAbove)
		win.Stack(xproto.StackModeBelow)
		return ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateAdd, stateBelow)
	}
	return nil
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		// No frame extents available, return zeros
		return 0, 0, 0, 0
	}

	return extents.Left, extents.Right, extents.Top, extents.Bottom
}

// CanMaximize reports whether the window manager allows maximizing the window.
func (c *Connection) CanMaximize(windowID xproto.Window) bool {
	actions, err := ewmh.WmAllowedActionsGet(c.XUtil, windowID)
	if err != nil {
		// Window managers without _NET_WM_ALLOWED_ACTIONS allow everything.
		return true
	}
	for _, a := range actions {
		if a == "_NET_WM_ACTION_MAXIMIZE_HORZ" || a == "_NET_WM_ACTION_MAXIMIZE_VERT" {
			return true
		}
	}
	return false
}

// SetDecorations requests Motif decorations for a window.
func (c *Connection) SetDecorations(windowID xproto.Window, titlebar, border, menu bool) error {
	var decor uint
	if titlebar {
		decor |= motif.DecorationTitle | motif.DecorationMinimize | motif.DecorationMaximize
		if menu {
			decor |= motif.DecorationMenu
		}
	}
	if border {
		decor |= motif.DecorationBorder | motif.DecorationResizeH
	}
	if titlebar && border && menu {
		decor = motif.DecorationAll
	}
	return motif.WmHintsSet(c.XUtil, windowID, &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: decor,
	})
}

// HasWindowType reports whether a window carries the given _NET_WM_WINDOW_TYPE.
func (c *Connection) HasWindowType(windowID xproto.Window, windowType string) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == windowType {
			return true
		}
	}
	return false
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

// GetActiveWindow returns the window holding _NET_ACTIVE_WINDOW.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// ClientList returns the windows managed by the window manager, oldest
// mapping first.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	return ewmh.ClientListGet(c.XUtil)
}

// StackingOrder returns the managed windows topmost first. Window managers
// without _NET_CLIENT_LIST_STACKING fall back to the reversed mapping order.
func (c *Connection) StackingOrder() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil || len(clients) == 0 {
		if clients, err = ewmh.ClientListGet(c.XUtil); err != nil {
			return nil, err
		}
	}
	slices.Reverse(clients)
	return clients, nil
}

// WindowClass returns the WM_CLASS class name.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// WindowTitle returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// SetMapped maps or unmaps a window.
func (c *Connection) SetMapped(windowID xproto.Window, mapped bool) {
	win := xwindow.New(c.XUtil, windowID)
	if mapped {
		win.Map()
	} else {
		win.Unmap()
	}
}

// IsViewable reports whether a window is currently mapped and viewable.
func (c *Connection) IsViewable(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// Exists reports whether the server still knows windowID.
func (c *Connection) Exists(windowID xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}

// FindWindowByClass returns the first client list window, docks included,
// whose WM_CLASS class equals class.
func (c *Connection) FindWindowByClass(class string) (xproto.Window, bool) {
	if class == "" {
		return 0, false
	}
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, false
	}
	for _, win := range clients {
		if strings.EqualFold(c.WindowClass(win), class) {
			return win, true
		}
	}
	return 0, false
}

// Sync flushes queued requests to the server.
func (c *Connection) Sync() {
	c.XUtil.Sync()
}
