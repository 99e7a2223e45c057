package workspace

import "github.com/1broseidon/dockwm/internal/platform"

// WindowCount returns the number of windows on the workspace.
func (ws *Workspace) WindowCount() int {
	return ws.zorder.Len()
}

// ContainsWindow reports whether the handle belongs to the workspace.
func (ws *Workspace) ContainsWindow(id platform.WindowID) bool {
	_, ok := ws.nodes[id]
	return ok
}

// GetWindow returns the window for a handle, or nil.
func (ws *Workspace) GetWindow(id platform.WindowID) Window {
	n, ok := ws.nodes[id]
	if !ok {
		return nil
	}
	return n.z.Value.(Window)
}

// Windows returns all windows in tab order.
func (ws *Workspace) Windows() []Window {
	out := make([]Window, 0, ws.tabs.Len())
	for e := ws.tabs.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Window))
	}
	return out
}

// ZOrder returns all windows topmost first.
func (ws *Workspace) ZOrder() []Window {
	out := make([]Window, 0, ws.zorder.Len())
	for e := ws.zorder.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Window))
	}
	return out
}

// ManagedWindows returns the windows the layout arranges, in tab order.
func (ws *Workspace) ManagedWindows() []Window {
	var out []Window
	for e := ws.tabs.Front(); e != nil; e = e.Next() {
		if w := e.Value.(Window); !w.IsFloating() && !w.IsMinimized() {
			out = append(out, w)
		}
	}
	return out
}

// GetTopmostZOrderWindow returns the top of the z-order unless it is
// minimized.
func (ws *Workspace) GetTopmostZOrderWindow() Window {
	e := ws.zorder.Front()
	if e == nil {
		return nil
	}
	if w := e.Value.(Window); !w.IsMinimized() {
		return w
	}
	return nil
}

// GetNextWindow returns the window after w in tab order, or nil at the end.
func (ws *Workspace) GetNextWindow(w Window) Window {
	n, ok := ws.nodes[w.Handle()]
	if !ok || n.tab.Next() == nil {
		return nil
	}
	return n.tab.Next().Value.(Window)
}

// GetPreviousWindow returns the window before w in tab order, or nil at the
// start.
func (ws *Workspace) GetPreviousWindow(w Window) Window {
	n, ok := ws.nodes[w.Handle()]
	if !ok || n.tab.Prev() == nil {
		return nil
	}
	return n.tab.Prev().Value.(Window)
}

// ShiftWindowForward moves w up to positions steps towards the end of the tab
// order.
func (ws *Workspace) ShiftWindowForward(w Window, positions int) {
	if positions < 1 || ws.tabs.Len() < 2 {
		return
	}
	n, ok := ws.nodes[w.Handle()]
	if !ok || n.tab == ws.tabs.Back() {
		return
	}

	mark := n.tab
	steps := 0
	for steps < positions && mark.Next() != nil {
		mark = mark.Next()
		steps++
	}
	ws.tabs.MoveAfter(n.tab, mark)

	ws.Reposition()
	ws.hub.WindowOrderChanged.emit(OrderEvent{Workspace: ws, Window: n.tab.Value.(Window), Positions: steps})
}

// ShiftWindowBackwards moves w up to positions steps towards the front of the
// tab order.
func (ws *Workspace) ShiftWindowBackwards(w Window, positions int) {
	if positions < 1 || ws.tabs.Len() < 2 {
		return
	}
	n, ok := ws.nodes[w.Handle()]
	if !ok || n.tab == ws.tabs.Front() {
		return
	}

	mark := n.tab
	steps := 0
	for steps < positions && mark.Prev() != nil {
		mark = mark.Prev()
		steps++
	}
	ws.tabs.MoveBefore(n.tab, mark)

	ws.Reposition()
	ws.hub.WindowOrderChanged.emit(OrderEvent{Workspace: ws, Window: n.tab.Value.(Window), Positions: steps, Backwards: true})
}

// ShiftWindowToMainPosition moves w to the front of the tab order.
func (ws *Workspace) ShiftWindowToMainPosition(w Window) {
	if ws.tabs.Len() < 2 {
		return
	}
	n, ok := ws.nodes[w.Handle()]
	if !ok || n.tab == ws.tabs.Front() {
		return
	}

	distance := 0
	for e := n.tab.Prev(); e != nil; e = e.Prev() {
		distance++
	}
	ws.tabs.MoveToFront(n.tab)

	ws.Reposition()
	ws.hub.WindowOrderChanged.emit(OrderEvent{Workspace: ws, Window: n.tab.Value.(Window), Positions: distance, Backwards: true})
}
