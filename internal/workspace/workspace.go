// Package workspace implements the switchable window collections of the
// window manager: z-order and tab-order bookkeeping, visibility switching, and
// the contract layouts implement.
package workspace

import (
	"container/list"

	"github.com/1broseidon/dockwm/internal/platform"
)

// Options configures a new Workspace.
type Options struct {
	Name   string
	Layout Layout
	// Bars are slotted by their MonitorIndex.
	BarsAtTop    []Bar
	BarsAtBottom []Bar
	// MonitorCount sizes the per-monitor bar slots.
	MonitorCount           int
	ShowTaskbar            bool
	RepositionOnSwitchedTo bool
}

// Workspace is a named collection of windows shown together on one monitor.
type Workspace struct {
	// TitlebarToggled and BorderToggled fire after a window's decoration
	// was toggled through this workspace.
	TitlebarToggled Signal[Window]
	BorderToggled   Signal[Window]

	hub     *Hub
	id      int
	name    string
	monitor Monitor
	layout  Layout

	barsAtTop    [][]Bar
	barsAtBottom [][]Bar

	showTaskbar            bool
	repositionOnSwitchedTo bool

	visible    bool
	current    bool
	hasChanges bool

	hiddenFromAltTab int
	shared           int

	// zorder is topmost first; tabs is the user cycling order.
	zorder *list.List
	tabs   *list.List
	nodes  map[platform.WindowID]*node
}

type node struct {
	z   *list.Element
	tab *list.Element
}

// New creates a workspace on monitor and binds its layout.
func New(hub *Hub, monitor Monitor, opts Options) *Workspace {
	slots := opts.MonitorCount
	for _, b := range opts.BarsAtTop {
		slots = max(slots, b.MonitorIndex()+1)
	}
	for _, b := range opts.BarsAtBottom {
		slots = max(slots, b.MonitorIndex()+1)
	}

	ws := &Workspace{
		hub:                    hub,
		id:                     hub.allocateID(),
		name:                   opts.Name,
		monitor:                monitor,
		layout:                 opts.Layout,
		barsAtTop:              make([][]Bar, slots),
		barsAtBottom:           make([][]Bar, slots),
		showTaskbar:            opts.ShowTaskbar,
		repositionOnSwitchedTo: opts.RepositionOnSwitchedTo,
		zorder:                 list.New(),
		tabs:                   list.New(),
		nodes:                  make(map[platform.WindowID]*node),
	}
	for _, b := range opts.BarsAtTop {
		ws.barsAtTop[b.MonitorIndex()] = append(ws.barsAtTop[b.MonitorIndex()], b)
	}
	for _, b := range opts.BarsAtBottom {
		ws.barsAtBottom[b.MonitorIndex()] = append(ws.barsAtBottom[b.MonitorIndex()], b)
	}
	ws.layout.Initialize(ws)
	return ws
}

func (ws *Workspace) ID() int                      { return ws.id }
func (ws *Workspace) Name() string                 { return ws.name }
func (ws *Workspace) Monitor() Monitor             { return ws.monitor }
func (ws *Workspace) Layout() Layout               { return ws.layout }
func (ws *Workspace) Hub() *Hub                    { return ws.hub }
func (ws *Workspace) ShowTaskbar() bool            { return ws.showTaskbar }
func (ws *Workspace) IsVisible() bool              { return ws.visible }
func (ws *Workspace) IsCurrent() bool              { return ws.current }
func (ws *Workspace) RepositionOnSwitchedTo() bool { return ws.repositionOnSwitchedTo }
func (ws *Workspace) SharedWindowsCount() int      { return ws.shared }
func (ws *Workspace) HiddenFromAltTabCount() int   { return ws.hiddenFromAltTab }

// BarsAtTop returns the top bars declared for a monitor slot.
func (ws *Workspace) BarsAtTop(monitorIndex int) []Bar {
	if monitorIndex < 0 || monitorIndex >= len(ws.barsAtTop) {
		return nil
	}
	return ws.barsAtTop[monitorIndex]
}

// BarsAtBottom returns the bottom bars declared for a monitor slot.
func (ws *Workspace) BarsAtBottom(monitorIndex int) []Bar {
	if monitorIndex < 0 || monitorIndex >= len(ws.barsAtBottom) {
		return nil
	}
	return ws.barsAtBottom[monitorIndex]
}

// BarsForMonitor returns the top bars followed by the bottom bars of a slot.
func (ws *Workspace) BarsForMonitor(monitorIndex int) []Bar {
	top := ws.BarsAtTop(monitorIndex)
	bottom := ws.BarsAtBottom(monitorIndex)
	out := make([]Bar, 0, len(top)+len(bottom))
	out = append(out, top...)
	return append(out, bottom...)
}

// AssignMonitor moves the workspace to m.
func (ws *Workspace) AssignMonitor(m Monitor) {
	old := ws.monitor
	ws.monitor = m
	ws.hub.MonitorChanged.emit(MonitorChange{Workspace: ws, Old: old, New: m})
}

// SetCurrent marks the workspace as the focused monitor's workspace.
func (ws *Workspace) SetCurrent(current bool) {
	ws.current = current
	if current {
		ws.hub.Activated.emit(ws)
	} else {
		ws.hub.Deactivated.emit(ws)
	}
}

// SwitchTo makes the workspace visible, re-applying its state to shared
// windows and laying out if anything changed while it was hidden.
func (ws *Workspace) SwitchTo() {
	if ws.shared > 0 {
		for e := ws.zorder.Front(); e != nil; e = e.Next() {
			if w := e.Value.(Window); w.WorkspacesCount() > 1 {
				ws.restoreSharedWindowState(w, false)
			}
		}
	}

	ws.visible = true

	if ws.NeedsToReposition() {
		ws.Reposition()
	}

	ws.hub.Shown.emit(ws)
}

// Unswitch hides the workspace, saving the positions of shared windows the
// next workspace may rearrange.
func (ws *Workspace) Unswitch() {
	if ws.shared > 0 {
		for e := ws.zorder.Front(); e != nil; e = e.Next() {
			if w := e.Value.(Window); w.WorkspacesCount() > 1 && ws.keepsPosition(w) {
				w.SavePosition()
			}
		}
	}

	ws.visible = false
	ws.hub.Hidden.emit(ws)
}

func (ws *Workspace) restoreSharedWindowState(w Window, doNotShow bool) {
	w.Initialize()
	if ws.keepsPosition(w) {
		w.RestorePosition(doNotShow)
	}
}

func (ws *Workspace) keepsPosition(w Window) bool {
	return w.IsFloating() || ws.layout.ShouldSaveAndRestoreSharedWindowsPosition()
}

// NeedsToReposition reports whether the next SwitchTo lays out.
func (ws *Workspace) NeedsToReposition() bool {
	return ws.hasChanges || ws.repositionOnSwitchedTo
}

// Reposition lays out now when visible, otherwise defers to the next SwitchTo.
func (ws *Workspace) Reposition() {
	ws.hasChanges = !ws.visible
	if ws.visible {
		ws.layout.Reposition()
		ws.hub.NotifyLayoutUpdated()
	}
}

// ChangeLayout replaces the layout unless it has the same name.
func (ws *Workspace) ChangeLayout(layout Layout) {
	if layout.LayoutName() == ws.layout.LayoutName() {
		return
	}
	old := ws.layout
	old.Close()
	layout.Initialize(ws)
	ws.layout = layout
	ws.Reposition()
	ws.hub.LayoutChanged.emit(LayoutChange{Workspace: ws, Old: old})
}

// ToggleShowTaskbar flips host taskbar visibility for this workspace. Only
// workspaces on the primary monitor control the taskbar.
func (ws *Workspace) ToggleShowTaskbar() {
	if ws.monitor == nil || !ws.monitor.Primary() {
		return
	}
	ws.showTaskbar = !ws.showTaskbar
	ws.monitor.ShowHideTaskbar(ws.showTaskbar)
	ws.Reposition()
}

// WindowCreated adds w at the front of both orders.
func (ws *Workspace) WindowCreated(w Window) {
	if _, ok := ws.nodes[w.Handle()]; ok {
		return
	}
	ws.nodes[w.Handle()] = &node{
		z:   ws.zorder.PushFront(w),
		tab: ws.tabs.PushFront(w),
	}
	if w.HideFromAltTabWhenInactive() {
		ws.hiddenFromAltTab++
	}
	if w.WorkspacesCount() > 1 {
		ws.shared++
	}
	if ws.visible || w.WorkspacesCount() == 1 {
		w.Initialize()
	}

	if !w.IsMinimized() && !w.IsFloating() {
		ws.layout.WindowCreated(w)
		ws.hasChanges = ws.hasChanges || !ws.visible
	}

	ws.hub.WindowAdded.emit(WindowEvent{Workspace: ws, Window: w})
}

// WindowDestroyed removes w from both orders.
func (ws *Workspace) WindowDestroyed(w Window) {
	n, ok := ws.nodes[w.Handle()]
	if !ok {
		return
	}
	w = n.z.Value.(Window)
	ws.zorder.Remove(n.z)
	ws.tabs.Remove(n.tab)
	delete(ws.nodes, w.Handle())
	if w.HideFromAltTabWhenInactive() {
		ws.hiddenFromAltTab--
	}
	if w.WorkspacesCount() > 1 {
		ws.shared--
	}

	if !w.IsMinimized() && !w.IsFloating() {
		ws.layout.WindowDestroyed(w)
		ws.hasChanges = ws.hasChanges || !ws.visible
	}

	ws.hub.WindowRemoved.emit(WindowEvent{Workspace: ws, Window: w})
}

// WindowMinimized sends the window to the bottom of the z-order and, on the
// transition to minimized, tells the layout.
func (ws *Workspace) WindowMinimized(id platform.WindowID) {
	n, ok := ws.nodes[id]
	if !ok {
		return
	}
	if n.z != ws.zorder.Back() {
		ws.zorder.MoveToBack(n.z)
	}
	w := n.z.Value.(Window)
	if w.IsMinimized() {
		return
	}
	w.SetMinimized(true)
	if !w.IsFloating() {
		ws.layout.WindowMinimized(w)
	}
	ws.hub.WindowMinimized.emit(WindowEvent{Workspace: ws, Window: w})
}

// WindowRestored brings the window to the top of the z-order and, on the
// transition out of minimized, tells the layout.
func (ws *Workspace) WindowRestored(id platform.WindowID) {
	n, ok := ws.nodes[id]
	if !ok {
		return
	}
	if n.z != ws.zorder.Front() {
		ws.zorder.MoveToFront(n.z)
	}
	w := n.z.Value.(Window)
	if !w.IsMinimized() {
		return
	}
	w.SetMinimized(false)
	if !w.IsFloating() {
		ws.layout.WindowRestored(w)
	}
	ws.hub.WindowRestored.emit(WindowEvent{Workspace: ws, Window: w})
}

// WindowActivated brings the window to the top of the z-order. The
// notification fires even for unknown windows.
func (ws *Workspace) WindowActivated(id platform.WindowID) {
	if n, ok := ws.nodes[id]; ok && n.z != ws.zorder.Front() {
		ws.zorder.MoveToFront(n.z)
	}
	ws.hub.WindowActivated.emit(id)
}

// RemoveFromSharedWindows re-applies this workspace's state to a window that
// is about to stop being shared.
func (ws *Workspace) RemoveFromSharedWindows(w Window) {
	ws.restoreSharedWindowState(w, !ws.visible)
	ws.shared--
}

// ToggleWindowFloating flips the floating flag. Floating windows leave the
// layout's managed set.
func (ws *Workspace) ToggleWindowFloating(id platform.WindowID) {
	w := ws.GetWindow(id)
	if w == nil {
		return
	}
	w.SetFloating(!w.IsFloating())
	if w.IsMinimized() {
		return
	}
	if w.IsFloating() {
		ws.layout.WindowDestroyed(w)
	} else {
		ws.layout.WindowCreated(w)
	}
}

func (ws *Workspace) ToggleWindowTaskbarVisibility(id platform.WindowID) {
	if w := ws.GetWindow(id); w != nil {
		w.ToggleTaskbarVisibility()
	}
}

func (ws *Workspace) ToggleWindowTitlebar(id platform.WindowID) {
	if w := ws.GetWindow(id); w != nil {
		w.ToggleTitlebar()
		ws.TitlebarToggled.emit(w)
	}
}

func (ws *Workspace) ToggleWindowBorder(id platform.WindowID) {
	if w := ws.GetWindow(id); w != nil {
		w.ToggleBorder()
		ws.BorderToggled.emit(w)
	}
}

func (ws *Workspace) ToggleWindowMenu(id platform.WindowID) {
	if w := ws.GetWindow(id); w != nil {
		w.ToggleMenu()
	}
}

// Initialize fixes up windows discovered before the workspace was shown:
// discovery prepends in top-to-bottom enumeration order, so the z-order is
// reversed and each window is moved to the main position in turn.
func (ws *Workspace) Initialize() {
	if ws.zorder.Len() == 0 {
		return
	}
	discovered := ws.ZOrder()
	for _, w := range discovered {
		ws.zorder.MoveToFront(ws.nodes[w.Handle()].z)
	}
	for _, w := range discovered {
		ws.ShiftWindowToMainPosition(w)
	}
}
