package x11

import (
	"context"
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	randrReady bool
}

// NewConnection establishes a connection to the X11 server and initializes required extensions
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	if err := randr.Init(xu.Conn()); err == nil {
		c.randrReady = true
	}
	return c, nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// Atom interns an atom by name.
func (c *Connection) Atom(name string) (xproto.Atom, error) {
	return xprop.Atm(c.XUtil, name)
}

// AtomName resolves an atom back to its name.
func (c *Connection) AtomName(atom xproto.Atom) string {
	name, err := xprop.AtomName(c.XUtil, atom)
	if err != nil {
		return ""
	}
	return name
}

// Hook receives every X event before xgbutil's own dispatch.
type Hook func(event interface{})

// Loop subscribes to root window changes and runs the X event loop. Events
// are passed to hook and tasks are executed on the same goroutine, so the
// two never interleave. Loop returns when ctx is cancelled.
func (c *Connection) Loop(ctx context.Context, hook Hook, tasks <-chan func()) error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange, xproto.EventMaskSubstructureNotify); err != nil {
		return fmt.Errorf("listen on root window: %w", err)
	}
	if c.randrReady {
		if err := randr.SelectInputChecked(c.XUtil.Conn(), c.Root, randr.NotifyMaskScreenChange).Check(); err != nil {
			return fmt.Errorf("select randr input: %w", err)
		}
	}

	xevent.HookFun(func(_ *xgbutil.XUtil, event interface{}) bool {
		hook(event)
		return true
	}).Connect(c.XUtil)

	before, after, quit := xevent.MainPing(c.XUtil)
	for {
		select {
		case <-ctx.Done():
			xevent.Quit(c.XUtil)
			return nil
		case <-quit:
			return nil
		case <-before:
			<-after
		case task := <-tasks:
			task()
		}
	}
}

// Listen subscribes to property changes on a client window.
func (c *Connection) Listen(windowID xproto.Window) error {
	return xwindow.New(c.XUtil, windowID).Listen(xproto.EventMaskPropertyChange)
}
