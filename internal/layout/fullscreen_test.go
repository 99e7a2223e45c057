package layout

import (
	"testing"
	"time"

	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/platform/platformtest"
	"github.com/1broseidon/dockwm/internal/workspace"
)

type testWindow struct {
	id        platform.WindowID
	floating  bool
	minimized bool
}

func (w *testWindow) Handle() platform.WindowID        { return w.id }
func (w *testWindow) IsFloating() bool                 { return w.floating }
func (w *testWindow) SetFloating(v bool)               { w.floating = v }
func (w *testWindow) IsMinimized() bool                { return w.minimized }
func (w *testWindow) SetMinimized(v bool)              { w.minimized = v }
func (w *testWindow) WorkspacesCount() int             { return 1 }
func (w *testWindow) HideFromAltTabWhenInactive() bool { return false }
func (w *testWindow) Initialize()                      {}
func (w *testWindow) SavePosition()                    {}
func (w *testWindow) RestorePosition(bool)             {}
func (w *testWindow) ToggleTitlebar()                  {}
func (w *testWindow) ToggleBorder()                    {}
func (w *testWindow) ToggleMenu()                      {}
func (w *testWindow) ToggleTaskbarVisibility()         {}

type testMonitor struct {
	work platform.Rect
}

func (m *testMonitor) Index() int                 { return 0 }
func (m *testMonitor) Bounds() platform.Rect      { return platform.Rect{Width: 1920, Height: 1080} }
func (m *testMonitor) WorkingArea() platform.Rect { return m.work }
func (m *testMonitor) Primary() bool              { return true }
func (m *testMonitor) ShowHideTaskbar(bool)       {}

var workArea = platform.Rect{X: 0, Y: 24, Width: 1920, Height: 1056}

type fixture struct {
	host   *platformtest.Host
	layout *FullScreen
	ws     *workspace.Workspace
	sleeps []time.Duration
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{host: platformtest.New()}
	f.layout = NewFullScreen(f.host, FullScreenOptions{
		RestoreDelay: 30 * time.Millisecond,
		Sleep:        func(d time.Duration) { f.sleeps = append(f.sleeps, d) },
	})
	f.ws = workspace.New(workspace.NewHub(), &testMonitor{work: workArea}, workspace.Options{
		Name:   "full",
		Layout: f.layout,
	})
	return f
}

func (f *fixture) addWindow(id platform.WindowID, style platform.Style, bounds platform.Rect, maximized bool) *testWindow {
	f.host.Styles[id] = style
	f.host.Bounds[id] = bounds
	f.host.Maximized[id] = maximized
	w := &testWindow{id: id}
	f.ws.WindowCreated(w)
	return w
}

var captioned = platform.Style{Caption: true, MaximizeBox: true, Menu: true}

func TestFullScreenPlacement(t *testing.T) {
	onScreen := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}
	offScreen := platform.Rect{X: 4000, Y: 100, Width: 400, Height: 300}

	tests := []struct {
		name          string
		style         platform.Style
		bounds        platform.Rect
		maximized     bool
		wantMaximize  int
		wantRestore   int
		wantSetBounds int
		wantSleeps    int
	}{
		{name: "captioned window is maximized", style: captioned, bounds: onScreen, wantMaximize: 1},
		{name: "already maximized is left alone", style: captioned, bounds: onScreen, maximized: true},
		{name: "off-monitor maximized window is restored then moved", style: captioned, bounds: offScreen, maximized: true, wantMaximize: 1, wantRestore: 1, wantSetBounds: 1, wantSleeps: 1},
		{name: "off-monitor window is moved then maximized", style: captioned, bounds: offScreen, wantMaximize: 1, wantSetBounds: 1},
		{name: "no caption fills the working area", style: platform.Style{}, bounds: onScreen, wantSetBounds: 1},
		{name: "caption without maximize box fills the working area", style: platform.Style{Caption: true}, bounds: onScreen, wantSetBounds: 1},
		{name: "maximized captionless window is restored first", style: platform.Style{}, bounds: onScreen, maximized: true, wantRestore: 1, wantSetBounds: 1, wantSleeps: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ws.SwitchTo()
			f.addWindow(1, tt.style, tt.bounds, tt.maximized)

			if got := f.host.Count("Maximize"); got != tt.wantMaximize {
				t.Fatalf("Maximize calls = %d, want %d", got, tt.wantMaximize)
			}
			if got := f.host.Count("Restore"); got != tt.wantRestore {
				t.Fatalf("Restore calls = %d, want %d", got, tt.wantRestore)
			}
			if got := f.host.Count("SetWindowBounds"); got != tt.wantSetBounds {
				t.Fatalf("SetWindowBounds calls = %d, want %d", got, tt.wantSetBounds)
			}
			if len(f.sleeps) != tt.wantSleeps {
				t.Fatalf("sleeps = %v, want %d", f.sleeps, tt.wantSleeps)
			}
			for _, c := range f.host.CallsFor("SetWindowBounds") {
				if c.Rect != workArea {
					t.Fatalf("window placed at %+v, want working area %+v", c.Rect, workArea)
				}
			}
			for _, d := range f.sleeps {
				if d != 30*time.Millisecond {
					t.Fatalf("slept %v, want the configured restore delay", d)
				}
			}
		})
	}
}

func TestFullScreenRestoreCallPrecedesResize(t *testing.T) {
	f := newFixture(t)
	f.ws.SwitchTo()
	f.addWindow(1, platform.Style{}, platform.Rect{Width: 10, Height: 10}, true)

	var ops []string
	for _, c := range f.host.Calls {
		ops = append(ops, c.Op)
	}
	if len(ops) != 2 || ops[0] != "Restore" || ops[1] != "SetWindowBounds" {
		t.Fatalf("host calls = %v, want [Restore SetWindowBounds]", ops)
	}
}

func TestFullScreenHiddenWorkspaceDefersPlacement(t *testing.T) {
	f := newFixture(t)
	var updates int
	f.ws.Hub().LayoutUpdated.Subscribe(func(struct{}) { updates++ })

	f.addWindow(1, platform.Style{}, platform.Rect{Width: 10, Height: 10}, false)
	if len(f.host.Calls) != 0 || updates != 0 {
		t.Fatalf("hidden workspace placed windows: calls=%v updates=%d", f.host.Calls, updates)
	}

	f.ws.SwitchTo()
	if f.host.Count("SetWindowBounds") != 1 {
		t.Fatalf("SwitchTo did not lay out pending window")
	}
	if updates != 1 {
		t.Fatalf("layout updates = %d, want 1", updates)
	}
}

func TestFullScreenVisibleCreateDestroyNotify(t *testing.T) {
	f := newFixture(t)
	f.ws.SwitchTo()
	var updates int
	f.ws.Hub().LayoutUpdated.Subscribe(func(struct{}) { updates++ })

	w := f.addWindow(1, captioned, platform.Rect{Width: 10, Height: 10}, false)
	f.ws.WindowDestroyed(w)
	if updates != 2 {
		t.Fatalf("layout updates = %d, want 2", updates)
	}
}

func TestFullScreenMinimizeIsNoOpAndRestoreReapplies(t *testing.T) {
	f := newFixture(t)
	f.ws.SwitchTo()
	f.addWindow(1, platform.Style{}, platform.Rect{Width: 10, Height: 10}, false)
	f.host.Reset()

	f.ws.WindowMinimized(1)
	if len(f.host.Calls) != 0 {
		t.Fatalf("minimize produced host calls %v", f.host.Calls)
	}
	f.ws.WindowRestored(1)
	if f.host.Count("SetWindowBounds") != 1 {
		t.Fatalf("restore did not re-apply placement")
	}
}

func TestFullScreenReactsToDecorationToggles(t *testing.T) {
	f := newFixture(t)
	f.ws.SwitchTo()
	f.addWindow(1, platform.Style{}, platform.Rect{Width: 10, Height: 10}, false)
	f.host.Reset()

	f.ws.ToggleWindowTitlebar(1)
	f.ws.ToggleWindowBorder(1)
	if got := f.host.Count("SetWindowBounds"); got != 2 {
		t.Fatalf("decoration toggles placed %d times, want 2", got)
	}

	f.layout.Close()
	f.ws.ToggleWindowTitlebar(1)
	if got := f.host.Count("SetWindowBounds"); got != 2 {
		t.Fatalf("closed layout still reacted to toggles")
	}
}

func TestFullScreenSymbolAndName(t *testing.T) {
	f := newFixture(t)
	if got := f.layout.LayoutSymbol(); got != "[M]" {
		t.Fatalf("empty symbol = %q, want [M]", got)
	}
	f.addWindow(1, captioned, platform.Rect{}, false)
	f.addWindow(2, captioned, platform.Rect{}, false)
	if got := f.layout.LayoutSymbol(); got != "[2]" {
		t.Fatalf("symbol = %q, want [2]", got)
	}
	if f.layout.LayoutName() != FullScreenName {
		t.Fatalf("name = %q", f.layout.LayoutName())
	}
	if f.layout.ShouldSaveAndRestoreSharedWindowsPosition() {
		t.Fatalf("full-screen layout must not keep shared window positions")
	}
}
