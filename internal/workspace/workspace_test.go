package workspace

import (
	"fmt"
	"testing"

	"github.com/1broseidon/dockwm/internal/platform"
)

type fakeWindow struct {
	id          platform.WindowID
	floating    bool
	minimized   bool
	workspaces  int
	hideAltTab  bool
	initialized int
	saved       int
	restored    int
	titlebar    int
	border      int
}

func newWindow(id platform.WindowID) *fakeWindow {
	return &fakeWindow{id: id, workspaces: 1}
}

func (w *fakeWindow) Handle() platform.WindowID        { return w.id }
func (w *fakeWindow) IsFloating() bool                 { return w.floating }
func (w *fakeWindow) SetFloating(v bool)               { w.floating = v }
func (w *fakeWindow) IsMinimized() bool                { return w.minimized }
func (w *fakeWindow) SetMinimized(v bool)              { w.minimized = v }
func (w *fakeWindow) WorkspacesCount() int             { return w.workspaces }
func (w *fakeWindow) HideFromAltTabWhenInactive() bool { return w.hideAltTab }
func (w *fakeWindow) Initialize()                      { w.initialized++ }
func (w *fakeWindow) SavePosition()                    { w.saved++ }
func (w *fakeWindow) RestorePosition(bool)             { w.restored++ }
func (w *fakeWindow) ToggleTitlebar()                  { w.titlebar++ }
func (w *fakeWindow) ToggleBorder()                    { w.border++ }
func (w *fakeWindow) ToggleMenu()                      {}
func (w *fakeWindow) ToggleTaskbarVisibility()         {}

type fakeLayout struct {
	name        string
	saveShared  bool
	ws          *Workspace
	repositions int
	created     []platform.WindowID
	destroyed   []platform.WindowID
	minimized   []platform.WindowID
	restored    []platform.WindowID
	closed      bool
}

func (l *fakeLayout) LayoutSymbol() string { return "[F]" }
func (l *fakeLayout) LayoutName() string {
	if l.name == "" {
		return "fake"
	}
	return l.name
}
func (l *fakeLayout) Initialize(ws *Workspace)                        { l.ws = ws }
func (l *fakeLayout) ShouldSaveAndRestoreSharedWindowsPosition() bool { return l.saveShared }
func (l *fakeLayout) Reposition()                                     { l.repositions++ }
func (l *fakeLayout) WindowMinimized(w Window)                        { l.minimized = append(l.minimized, w.Handle()) }
func (l *fakeLayout) WindowRestored(w Window)                         { l.restored = append(l.restored, w.Handle()) }
func (l *fakeLayout) WindowCreated(w Window)                          { l.created = append(l.created, w.Handle()) }
func (l *fakeLayout) WindowDestroyed(w Window)                        { l.destroyed = append(l.destroyed, w.Handle()) }
func (l *fakeLayout) Close()                                          { l.closed = true }

type fakeMonitor struct {
	primary bool
	taskbar []bool
	area    platform.Rect
}

func (m *fakeMonitor) Index() int                 { return 0 }
func (m *fakeMonitor) Bounds() platform.Rect      { return m.area }
func (m *fakeMonitor) WorkingArea() platform.Rect { return m.area }
func (m *fakeMonitor) Primary() bool              { return m.primary }
func (m *fakeMonitor) ShowHideTaskbar(show bool)  { m.taskbar = append(m.taskbar, show) }

func newTestWorkspace(t *testing.T, opts Options) (*Workspace, *fakeLayout) {
	t.Helper()
	layout, ok := opts.Layout.(*fakeLayout)
	if !ok {
		layout = &fakeLayout{}
		opts.Layout = layout
	}
	ws := New(NewHub(), &fakeMonitor{primary: true}, opts)
	if layout.ws != ws {
		t.Fatalf("layout was not initialized with the workspace")
	}
	return ws, layout
}

func handles(ws []Window) []platform.WindowID {
	out := make([]platform.WindowID, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Handle())
	}
	return out
}

func assertOrder(t *testing.T, label string, got []Window, want ...platform.WindowID) {
	t.Helper()
	if fmt.Sprint(handles(got)) != fmt.Sprint(want) {
		t.Fatalf("%s = %v, want %v", label, handles(got), want)
	}
}

func TestWindowCreatedPrependsToBothOrders(t *testing.T) {
	ws, layout := newTestWorkspace(t, Options{Name: "one"})
	for id := platform.WindowID(1); id <= 3; id++ {
		ws.WindowCreated(newWindow(id))
	}

	assertOrder(t, "z-order", ws.ZOrder(), 3, 2, 1)
	assertOrder(t, "tab order", ws.Windows(), 3, 2, 1)
	if len(layout.created) != 3 {
		t.Fatalf("layout saw %d creations, want 3", len(layout.created))
	}
	if !ws.NeedsToReposition() {
		t.Fatalf("hidden workspace should have pending changes after a window was added")
	}
}

func TestWindowCreatedSkipsLayoutForFloatingAndMinimized(t *testing.T) {
	ws, layout := newTestWorkspace(t, Options{})
	floating := newWindow(1)
	floating.floating = true
	minimized := newWindow(2)
	minimized.minimized = true

	ws.WindowCreated(floating)
	ws.WindowCreated(minimized)

	if len(layout.created) != 0 {
		t.Fatalf("layout saw %v, want no creations", layout.created)
	}
	if ws.NeedsToReposition() {
		t.Fatalf("unmanaged windows must not mark pending changes")
	}
	if ws.WindowCount() != 2 {
		t.Fatalf("WindowCount = %d, want 2", ws.WindowCount())
	}
	if got := ws.ManagedWindows(); len(got) != 0 {
		t.Fatalf("ManagedWindows = %v, want none", handles(got))
	}
}

func TestWindowCreatedInitializesOnlyWhenVisibleOrExclusive(t *testing.T) {
	ws, _ := newTestWorkspace(t, Options{})
	shared := newWindow(1)
	shared.workspaces = 2
	exclusive := newWindow(2)

	ws.WindowCreated(shared)
	ws.WindowCreated(exclusive)
	if shared.initialized != 0 {
		t.Fatalf("shared window on hidden workspace initialized %d times", shared.initialized)
	}
	if exclusive.initialized != 1 {
		t.Fatalf("exclusive window initialized %d times, want 1", exclusive.initialized)
	}
	if ws.SharedWindowsCount() != 1 {
		t.Fatalf("SharedWindowsCount = %d, want 1", ws.SharedWindowsCount())
	}

	ws.SwitchTo()
	late := newWindow(3)
	late.workspaces = 2
	ws.WindowCreated(late)
	if late.initialized != 1 {
		t.Fatalf("shared window on visible workspace initialized %d times, want 1", late.initialized)
	}
}

func TestCreateDestroyKeepsOrdersInSync(t *testing.T) {
	ws, _ := newTestWorkspace(t, Options{})
	windows := map[platform.WindowID]*fakeWindow{}
	ops := []struct {
		create bool
		id     platform.WindowID
	}{
		{true, 1}, {true, 2}, {true, 3}, {false, 2}, {true, 4},
		{false, 9}, {true, 3}, {false, 1}, {true, 5}, {false, 4},
	}
	for _, op := range ops {
		if op.create {
			w, ok := windows[op.id]
			if !ok {
				w = newWindow(op.id)
				windows[op.id] = w
			}
			ws.WindowCreated(w)
		} else {
			ws.WindowDestroyed(newWindow(op.id))
		}

		z := map[platform.WindowID]bool{}
		for _, w := range ws.ZOrder() {
			z[w.Handle()] = true
		}
		tabs := ws.Windows()
		if len(tabs) != len(z) {
			t.Fatalf("after %+v: tab order has %d windows, z-order %d", op, len(tabs), len(z))
		}
		for _, w := range tabs {
			if !z[w.Handle()] {
				t.Fatalf("after %+v: window %d in tab order but not z-order", op, w.Handle())
			}
		}
	}
	assertOrder(t, "final tab order", ws.Windows(), 5, 3)
}

func TestWindowDestroyedReversesCounters(t *testing.T) {
	ws, layout := newTestWorkspace(t, Options{})
	w := newWindow(1)
	w.workspaces = 3
	w.hideAltTab = true

	ws.WindowCreated(w)
	if ws.SharedWindowsCount() != 1 || ws.HiddenFromAltTabCount() != 1 {
		t.Fatalf("counters after create = %d/%d, want 1/1", ws.SharedWindowsCount(), ws.HiddenFromAltTabCount())
	}

	var removed []platform.WindowID
	ws.Hub().WindowRemoved.Subscribe(func(ev WindowEvent) { removed = append(removed, ev.Window.Handle()) })
	ws.WindowDestroyed(w)

	if ws.SharedWindowsCount() != 0 || ws.HiddenFromAltTabCount() != 0 {
		t.Fatalf("counters after destroy = %d/%d, want 0/0", ws.SharedWindowsCount(), ws.HiddenFromAltTabCount())
	}
	if len(layout.destroyed) != 1 || len(removed) != 1 {
		t.Fatalf("destroy notifications: layout %v, hub %v", layout.destroyed, removed)
	}
	if ws.ContainsWindow(1) || ws.GetWindow(1) != nil {
		t.Fatalf("destroyed window still present")
	}
}

func TestMinimizeRestoreTransitions(t *testing.T) {
	ws, layout := newTestWorkspace(t, Options{})
	a, b, c := newWindow(1), newWindow(2), newWindow(3)
	ws.WindowCreated(a)
	ws.WindowCreated(b)
	ws.WindowCreated(c)

	var minimized, restored int
	ws.Hub().WindowMinimized.Subscribe(func(WindowEvent) { minimized++ })
	ws.Hub().WindowRestored.Subscribe(func(WindowEvent) { restored++ })

	ws.WindowMinimized(3)
	assertOrder(t, "z-order after minimize", ws.ZOrder(), 2, 1, 3)
	if !c.minimized || minimized != 1 || len(layout.minimized) != 1 {
		t.Fatalf("minimize not applied: flag=%v hub=%d layout=%v", c.minimized, minimized, layout.minimized)
	}
	if ws.GetTopmostZOrderWindow().Handle() != 2 {
		t.Fatalf("topmost = %d, want 2", ws.GetTopmostZOrderWindow().Handle())
	}

	ws.WindowMinimized(3)
	if minimized != 1 || len(layout.minimized) != 1 {
		t.Fatalf("second minimize was not a no-op: hub=%d layout=%v", minimized, layout.minimized)
	}

	ws.WindowRestored(2)
	if restored != 0 || len(layout.restored) != 0 {
		t.Fatalf("restoring a restored window notified: hub=%d layout=%v", restored, layout.restored)
	}

	ws.WindowRestored(3)
	assertOrder(t, "z-order after restore", ws.ZOrder(), 3, 2, 1)
	if c.minimized || restored != 1 || len(layout.restored) != 1 {
		t.Fatalf("restore not applied: flag=%v hub=%d layout=%v", c.minimized, restored, layout.restored)
	}

	ws.WindowMinimized(42)
	ws.WindowRestored(42)
	if minimized != 1 || restored != 1 {
		t.Fatalf("unknown window produced notifications")
	}
}

func TestTopmostZOrderWindowIsNilWhenMinimized(t *testing.T) {
	ws, _ := newTestWorkspace(t, Options{})
	if ws.GetTopmostZOrderWindow() != nil {
		t.Fatalf("empty workspace returned a topmost window")
	}
	w := newWindow(1)
	ws.WindowCreated(w)
	ws.WindowMinimized(1)
	if ws.GetTopmostZOrderWindow() != nil {
		t.Fatalf("minimized topmost window should not be returned")
	}
}

func TestMinimizedFloatingWindowSkipsLayout(t *testing.T) {
	ws, layout := newTestWorkspace(t, Options{})
	w := newWindow(1)
	w.floating = true
	ws.WindowCreated(w)

	ws.WindowMinimized(1)
	ws.WindowRestored(1)
	if len(layout.minimized) != 0 || len(layout.restored) != 0 {
		t.Fatalf("floating window reached layout: %v %v", layout.minimized, layout.restored)
	}
}

func TestWindowActivatedAlwaysNotifies(t *testing.T) {
	ws, _ := newTestWorkspace(t, Options{})
	ws.WindowCreated(newWindow(1))
	ws.WindowCreated(newWindow(2))

	var activated []platform.WindowID
	ws.Hub().WindowActivated.Subscribe(func(id platform.WindowID) { activated = append(activated, id) })

	ws.WindowActivated(1)
	assertOrder(t, "z-order", ws.ZOrder(), 1, 2)
	ws.WindowActivated(1)
	ws.WindowActivated(7)
	if fmt.Sprint(activated) != "[1 1 7]" {
		t.Fatalf("activations = %v, want [1 1 7]", activated)
	}
	assertOrder(t, "tab order unchanged", ws.Windows(), 2, 1)
}

func TestShiftForwardThenBackwardsRestoresOrder(t *testing.T) {
	tests := []struct {
		name      string
		target    platform.WindowID
		positions int
		wantMid   []platform.WindowID
		wantSteps int
	}{
		{name: "one step", target: 5, positions: 1, wantMid: []platform.WindowID{4, 5, 3, 2, 1}, wantSteps: 1},
		{name: "two steps", target: 4, positions: 2, wantMid: []platform.WindowID{5, 3, 2, 4, 1}, wantSteps: 2},
		{name: "to the end", target: 3, positions: 2, wantMid: []platform.WindowID{5, 4, 2, 1, 3}, wantSteps: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, _ := newTestWorkspace(t, Options{})
			windows := map[platform.WindowID]*fakeWindow{}
			for id := platform.WindowID(1); id <= 5; id++ {
				windows[id] = newWindow(id)
				ws.WindowCreated(windows[id])
			}
			original := fmt.Sprint(handles(ws.Windows()))

			var events []OrderEvent
			ws.Hub().WindowOrderChanged.Subscribe(func(ev OrderEvent) { events = append(events, ev) })

			ws.ShiftWindowForward(windows[tt.target], tt.positions)
			assertOrder(t, "after forward", ws.Windows(), tt.wantMid...)
			ws.ShiftWindowBackwards(windows[tt.target], tt.positions)

			if got := fmt.Sprint(handles(ws.Windows())); got != original {
				t.Fatalf("tab order = %s, want %s", got, original)
			}
			if len(events) != 2 {
				t.Fatalf("got %d order events, want 2", len(events))
			}
			if events[0].Positions != tt.wantSteps || events[0].Backwards {
				t.Fatalf("forward event = %+v", events[0])
			}
			if events[1].Positions != tt.wantSteps || !events[1].Backwards {
				t.Fatalf("backward event = %+v", events[1])
			}
		})
	}
}

func TestShiftReportsClampedSteps(t *testing.T) {
	ws, _ := newTestWorkspace(t, Options{})
	a, b, c := newWindow(1), newWindow(2), newWindow(3)
	ws.WindowCreated(a)
	ws.WindowCreated(b)
	ws.WindowCreated(c)

	var events []OrderEvent
	ws.Hub().WindowOrderChanged.Subscribe(func(ev OrderEvent) { events = append(events, ev) })

	ws.ShiftWindowForward(c, 10)
	assertOrder(t, "tab order", ws.Windows(), 2, 1, 3)
	if len(events) != 1 || events[0].Positions != 2 {
		t.Fatalf("events = %+v, want one event with 2 positions", events)
	}
}

func TestShiftNoOps(t *testing.T) {
	ws, layout := newTestWorkspace(t, Options{})
	single := newWindow(1)
	ws.WindowCreated(single)

	var events int
	ws.Hub().WindowOrderChanged.Subscribe(func(OrderEvent) { events++ })

	ws.ShiftWindowForward(single, 1)
	ws.ShiftWindowBackwards(single, 1)
	ws.ShiftWindowToMainPosition(single)

	second := newWindow(2)
	ws.WindowCreated(second)
	ws.ShiftWindowBackwards(second, 1)      // already first
	ws.ShiftWindowForward(single, 1)        // already last
	ws.ShiftWindowToMainPosition(second)    // already main
	ws.ShiftWindowForward(second, 0)        // no positions
	ws.ShiftWindowForward(newWindow(99), 1) // unknown

	if events != 0 {
		t.Fatalf("no-op shifts fired %d events", events)
	}
	if layout.repositions != 0 {
		t.Fatalf("no-op shifts repositioned %d times", layout.repositions)
	}
}

func TestShiftToMainPositionReportsDistance(t *testing.T) {
	ws, _ := newTestWorkspace(t, Options{})
	windows := []*fakeWindow{newWindow(1), newWindow(2), newWindow(3), newWindow(4)}
	for _, w := range windows {
		ws.WindowCreated(w)
	}

	var got OrderEvent
	ws.Hub().WindowOrderChanged.Subscribe(func(ev OrderEvent) { got = ev })

	ws.ShiftWindowToMainPosition(windows[0])
	assertOrder(t, "tab order", ws.Windows(), 1, 4, 3, 2)
	if got.Positions != 3 || !got.Backwards {
		t.Fatalf("event = %+v, want 3 positions backwards", got)
	}
}

func TestNextPreviousAtEnds(t *testing.T) {
	ws, _ := newTestWorkspace(t, Options{})
	a, b := newWindow(1), newWindow(2)
	ws.WindowCreated(a)
	ws.WindowCreated(b)

	if ws.GetPreviousWindow(b) != nil {
		t.Fatalf("previous of first window should be nil")
	}
	if ws.GetNextWindow(a) != nil {
		t.Fatalf("next of last window should be nil")
	}
	if ws.GetNextWindow(b).Handle() != 1 || ws.GetPreviousWindow(a).Handle() != 2 {
		t.Fatalf("next/previous did not walk tab order")
	}
	if ws.GetNextWindow(newWindow(9)) != nil {
		t.Fatalf("unknown window should have no next window")
	}
}

func TestRepositionDefersWhileHidden(t *testing.T) {
	ws, layout := newTestWorkspace(t, Options{})
	var updates int
	ws.Hub().LayoutUpdated.Subscribe(func(struct{}) { updates++ })

	ws.Reposition()
	if layout.repositions != 0 || updates != 0 {
		t.Fatalf("hidden reposition ran layout %d times, fired %d updates", layout.repositions, updates)
	}
	if !ws.NeedsToReposition() {
		t.Fatalf("hidden reposition should leave pending changes")
	}

	ws.SwitchTo()
	if layout.repositions != 1 || updates != 1 {
		t.Fatalf("SwitchTo ran layout %d times, fired %d updates; want 1/1", layout.repositions, updates)
	}
	if ws.NeedsToReposition() {
		t.Fatalf("pending changes not cleared after layout")
	}

	ws.Unswitch()
	ws.SwitchTo()
	if layout.repositions != 1 {
		t.Fatalf("SwitchTo without changes repositioned")
	}
}

func TestRepositionOnSwitchedToAlwaysLaysOut(t *testing.T) {
	ws, layout := newTestWorkspace(t, Options{RepositionOnSwitchedTo: true})
	for i := 0; i < 3; i++ {
		ws.SwitchTo()
		ws.Unswitch()
	}
	if layout.repositions != 3 {
		t.Fatalf("repositions = %d, want 3", layout.repositions)
	}
}

func TestSharedWindowPositionPersistence(t *testing.T) {
	tests := []struct {
		name       string
		saveShared bool
		floating   bool
		wantSaved  int
	}{
		{name: "layout without memory", saveShared: false, floating: false, wantSaved: 0},
		{name: "floating window", saveShared: false, floating: true, wantSaved: 1},
		{name: "layout with memory", saveShared: true, floating: false, wantSaved: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, _ := newTestWorkspace(t, Options{Layout: &fakeLayout{saveShared: tt.saveShared}})
			shared := newWindow(1)
			shared.workspaces = 2
			shared.floating = tt.floating
			ws.WindowCreated(shared)

			ws.SwitchTo()
			if shared.initialized != 1 {
				t.Fatalf("SwitchTo initialized shared window %d times, want 1", shared.initialized)
			}
			if shared.restored != tt.wantSaved {
				t.Fatalf("RestorePosition called %d times, want %d", shared.restored, tt.wantSaved)
			}

			ws.Unswitch()
			if shared.saved != tt.wantSaved {
				t.Fatalf("SavePosition called %d times, want %d", shared.saved, tt.wantSaved)
			}
		})
	}
}

func TestRemoveFromSharedWindows(t *testing.T) {
	ws, _ := newTestWorkspace(t, Options{Layout: &fakeLayout{saveShared: true}})
	w := newWindow(1)
	w.workspaces = 2
	ws.WindowCreated(w)

	ws.RemoveFromSharedWindows(w)
	if ws.SharedWindowsCount() != 0 {
		t.Fatalf("SharedWindowsCount = %d, want 0", ws.SharedWindowsCount())
	}
	if w.initialized != 1 || w.restored != 1 {
		t.Fatalf("state not re-applied: initialized=%d restored=%d", w.initialized, w.restored)
	}
}

func TestToggleWindowFloatingMovesWindowInAndOutOfLayout(t *testing.T) {
	ws, layout := newTestWorkspace(t, Options{})
	w := newWindow(1)
	ws.WindowCreated(w)

	ws.ToggleWindowFloating(1)
	if !w.floating || len(layout.destroyed) != 1 {
		t.Fatalf("floating toggle did not exclude window: floating=%v destroyed=%v", w.floating, layout.destroyed)
	}
	ws.ToggleWindowFloating(1)
	if w.floating || len(layout.created) != 2 {
		t.Fatalf("floating toggle did not include window: floating=%v created=%v", w.floating, layout.created)
	}

	w.minimized = true
	ws.ToggleWindowFloating(1)
	if len(layout.destroyed) != 1 {
		t.Fatalf("minimized window reached layout on floating toggle")
	}
}

func TestDecorationTogglesFireWorkspaceSignals(t *testing.T) {
	ws, _ := newTestWorkspace(t, Options{})
	w := newWindow(1)
	ws.WindowCreated(w)

	var titlebar, border int
	ws.TitlebarToggled.Subscribe(func(Window) { titlebar++ })
	unsubscribe := ws.BorderToggled.Subscribe(func(Window) { border++ })

	ws.ToggleWindowTitlebar(1)
	ws.ToggleWindowBorder(1)
	unsubscribe()
	ws.ToggleWindowBorder(1)
	ws.ToggleWindowTitlebar(5)

	if titlebar != 1 || border != 1 {
		t.Fatalf("signals fired titlebar=%d border=%d, want 1/1", titlebar, border)
	}
	if w.titlebar != 1 || w.border != 2 {
		t.Fatalf("window toggles titlebar=%d border=%d, want 1/2", w.titlebar, w.border)
	}
}

func TestChangeLayout(t *testing.T) {
	ws, first := newTestWorkspace(t, Options{})
	ws.SwitchTo()

	var changes []LayoutChange
	ws.Hub().LayoutChanged.Subscribe(func(ev LayoutChange) { changes = append(changes, ev) })

	ws.ChangeLayout(&fakeLayout{})
	if len(changes) != 0 || first.closed {
		t.Fatalf("changing to a layout with the same name was not a no-op")
	}

	second := &fakeLayout{name: "other"}
	ws.ChangeLayout(second)
	if !first.closed || second.ws != ws || ws.Layout() != second {
		t.Fatalf("layout not swapped")
	}
	if second.repositions != 1 {
		t.Fatalf("new layout repositioned %d times, want 1", second.repositions)
	}
	if len(changes) != 1 || changes[0].Old != first {
		t.Fatalf("layout change events = %+v", changes)
	}
}

func TestToggleShowTaskbarOnlyOnPrimary(t *testing.T) {
	monitor := &fakeMonitor{primary: false}
	ws := New(NewHub(), monitor, Options{Layout: &fakeLayout{}})
	ws.ToggleShowTaskbar()
	if ws.ShowTaskbar() || len(monitor.taskbar) != 0 {
		t.Fatalf("non-primary workspace toggled the taskbar")
	}

	monitor.primary = true
	ws.ToggleShowTaskbar()
	if !ws.ShowTaskbar() || fmt.Sprint(monitor.taskbar) != "[true]" {
		t.Fatalf("taskbar toggle = %v, calls %v", ws.ShowTaskbar(), monitor.taskbar)
	}
}

func TestInitializeReversesDiscoveryOrder(t *testing.T) {
	ws, _ := newTestWorkspace(t, Options{})
	// Discovery enumerates top to bottom: 1 is topmost.
	for id := platform.WindowID(1); id <= 4; id++ {
		ws.WindowCreated(newWindow(id))
	}
	assertOrder(t, "z-order before", ws.ZOrder(), 4, 3, 2, 1)

	ws.Initialize()
	assertOrder(t, "z-order after", ws.ZOrder(), 1, 2, 3, 4)
	assertOrder(t, "tab order after", ws.Windows(), 1, 2, 3, 4)
}

func TestWorkspaceIDsIncrease(t *testing.T) {
	hub := NewHub()
	a := New(hub, &fakeMonitor{}, Options{Layout: &fakeLayout{}})
	b := New(hub, &fakeMonitor{}, Options{Layout: &fakeLayout{}})
	if b.ID() <= a.ID() {
		t.Fatalf("ids %d then %d are not increasing", a.ID(), b.ID())
	}
}

func TestActivationAndMonitorSignals(t *testing.T) {
	ws, _ := newTestWorkspace(t, Options{})
	var log []string
	ws.Hub().Activated.Subscribe(func(*Workspace) { log = append(log, "activated") })
	ws.Hub().Deactivated.Subscribe(func(*Workspace) { log = append(log, "deactivated") })
	ws.Hub().MonitorChanged.Subscribe(func(ev MonitorChange) {
		if ev.Old == ev.New {
			t.Fatalf("monitor change reported identical monitors")
		}
		log = append(log, "monitor")
	})

	ws.SetCurrent(true)
	ws.SetCurrent(false)
	ws.AssignMonitor(&fakeMonitor{})

	if fmt.Sprint(log) != "[activated deactivated monitor]" {
		t.Fatalf("signals = %v", log)
	}
}

func TestBarsSlottedByMonitor(t *testing.T) {
	top0 := &fakeBar{monitor: 0, height: 20}
	top1 := &fakeBar{monitor: 1, height: 18}
	bottom0 := &fakeBar{monitor: 0, height: 30}
	ws, _ := newTestWorkspace(t, Options{
		BarsAtTop:    []Bar{top0, top1},
		BarsAtBottom: []Bar{bottom0},
		MonitorCount: 1,
	})

	if got := ws.BarsForMonitor(0); len(got) != 2 || got[0] != top0 || got[1] != bottom0 {
		t.Fatalf("BarsForMonitor(0) = %v", got)
	}
	if got := ws.BarsAtTop(1); len(got) != 1 || got[0] != top1 {
		t.Fatalf("BarsAtTop(1) = %v", got)
	}
	if ws.BarsAtBottom(5) != nil {
		t.Fatalf("out-of-range slot returned bars")
	}
}

type fakeBar struct {
	monitor int
	height  int
}

func (b *fakeBar) Handle() platform.WindowID { return platform.WindowID(1000 + b.height) }
func (b *fakeBar) Height() int               { return b.height }
func (b *fakeBar) MonitorIndex() int         { return b.monitor }
func (b *fakeBar) OnClientWidthChanging(int) {}
func (b *fakeBar) Show()                     {}
func (b *fakeBar) Hide()                     {}
