package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// DockClass is the WM_CLASS given to the engine's own dock windows.
const DockClass = "dockwm-dock"

// CreateDock creates an unmapped input-only window typed as a dock. Its strut
// reserves screen space once mapped.
func (c *Connection) CreateDock() (xproto.Window, error) {
	wid, err := xproto.NewWindowId(c.XUtil.Conn())
	if err != nil {
		return 0, fmt.Errorf("allocate window id: %w", err)
	}

	err = xproto.CreateWindowChecked(
		c.XUtil.Conn(),
		0,
		wid,
		c.Root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly,
		0,
		0, nil,
	).Check()
	if err != nil {
		return 0, fmt.Errorf("create dock window: %w", err)
	}

	if err := ewmh.WmWindowTypeSet(c.XUtil, wid, []string{"_NET_WM_WINDOW_TYPE_DOCK"}); err != nil {
		return 0, fmt.Errorf("set dock window type: %w", err)
	}
	_ = icccm.WmClassSet(c.XUtil, wid, &icccm.WmClass{Instance: DockClass, Class: DockClass})
	_ = ewmh.WmStateSet(c.XUtil, wid, []string{stateSkipTaskbar, stateSkipPager})
	return wid, nil
}

// SetDockArea moves a dock window over area and reserves that area with a
// partial strut on the top or bottom screen edge. An empty area releases the
// reservation and unmaps the window.
func (c *Connection) SetDockArea(wid xproto.Window, top bool, area Area) error {
	win := xwindow.New(c.XUtil, wid)
	if area.Width <= 0 || area.Height <= 0 {
		win.Unmap()
		return ewmh.WmStrutPartialSet(c.XUtil, wid, &ewmh.WmStrutPartial{})
	}

	_, rootHeight, err := c.RootSize()
	if err != nil {
		return fmt.Errorf("read root size: %w", err)
	}

	strut := &ewmh.WmStrutPartial{}
	if top {
		strut.Top = uint(area.Y + area.Height)
		strut.TopStartX = uint(area.X)
		strut.TopEndX = uint(area.X + area.Width - 1)
	} else {
		strut.Bottom = uint(rootHeight - area.Y)
		strut.BottomStartX = uint(area.X)
		strut.BottomEndX = uint(area.X + area.Width - 1)
	}
	if err := ewmh.WmStrutPartialSet(c.XUtil, wid, strut); err != nil {
		return fmt.Errorf("set dock strut: %w", err)
	}

	win.MoveResize(area.X, area.Y, area.Width, area.Height)
	win.Map()
	return nil
}

// DestroyDock releases a dock window and its reservation.
func (c *Connection) DestroyDock(wid xproto.Window) {
	xwindow.New(c.XUtil, wid).Destroy()
}
