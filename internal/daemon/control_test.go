package daemon

import (
	"testing"

	"github.com/1broseidon/dockwm/internal/config"
	"github.com/1broseidon/dockwm/internal/layout"
	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/platform/platformtest"
)

func TestParseShiftDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    ShiftDirection
		wantErr bool
	}{
		{"forward", ShiftForward, false},
		{"backward", ShiftBackward, false},
		{"main", ShiftMain, false},
		{"", "", true},
		{"sideways", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShiftDirection(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShiftWindow(t *testing.T) {
	host := platformtest.New()
	m := newManager(t, host, testConfig(), nil)
	for id := platform.WindowID(1); id <= 3; id++ {
		m.WindowCreated(platform.Window{ID: id, Class: "xterm"})
	}
	tabOrder := func() []platform.WindowID {
		var ids []platform.WindowID
		for _, w := range m.Workspace("main").Windows() {
			ids = append(ids, w.Handle())
		}
		return ids
	}
	start := tabOrder()

	if err := m.ShiftWindow(start[2], ShiftMain, 0); err != nil {
		t.Fatalf("ShiftWindow: %v", err)
	}
	if got := tabOrder(); got[0] != start[2] {
		t.Fatalf("tab order = %v, want %d first", got, start[2])
	}

	if err := m.ShiftWindow(42, ShiftForward, 1); err == nil {
		t.Fatalf("expected error for an unmanaged window")
	}
	if err := m.ShiftWindow(1, ShiftDirection("up"), 1); err == nil {
		t.Fatalf("expected error for an unknown direction")
	}
}

func TestToggleWindowState(t *testing.T) {
	host := platformtest.New()
	m := newManager(t, host, testConfig(), nil)
	m.WindowCreated(platform.Window{ID: 1, Class: "xterm"})
	m.WindowCreated(platform.Window{ID: 2, Class: "xterm"})
	m.WindowActivated(1)

	// Id 0 is the topmost window of the current workspace.
	if err := m.ToggleFloating(0); err != nil {
		t.Fatalf("ToggleFloating: %v", err)
	}
	if !m.Workspace("main").GetWindow(1).IsFloating() || m.Workspace("main").GetWindow(2).IsFloating() {
		t.Fatalf("only the active window should float")
	}
	if got := len(m.Workspace("main").ManagedWindows()); got != 1 {
		t.Fatalf("managed windows = %d, want 1", got)
	}

	if err := m.ToggleBorder(2); err != nil {
		t.Fatalf("ToggleBorder: %v", err)
	}
	if host.Decorated[2].Border {
		t.Fatalf("border should be hidden")
	}
	if err := m.ToggleTitlebar(2); err != nil {
		t.Fatalf("ToggleTitlebar: %v", err)
	}
	if !host.Decorated[2].Titlebar {
		t.Fatalf("titlebar should be shown")
	}

	if err := m.ToggleFloating(9); err == nil {
		t.Fatalf("expected error for an unmanaged window")
	}
}

func TestToggleFloatingWithoutWindows(t *testing.T) {
	m := newManager(t, platformtest.New(), testConfig(), nil)
	if err := m.ToggleFloating(0); err == nil {
		t.Fatalf("expected error on an empty workspace")
	}
}

func TestToggleTaskbar(t *testing.T) {
	host := platformtest.New()
	host.TaskbarExists = true
	host.TaskbarShown = true
	m := newManager(t, host, testConfig(), nil)
	if host.TaskbarShown {
		t.Fatalf("main does not show the taskbar")
	}

	if err := m.ToggleTaskbar(""); err != nil {
		t.Fatalf("ToggleTaskbar: %v", err)
	}
	if !host.TaskbarShown || !m.Workspace("main").ShowTaskbar() {
		t.Fatalf("taskbar should be shown for main")
	}

	if err := m.ToggleTaskbar("web"); err == nil {
		t.Fatalf("expected error for a hidden workspace")
	}
	if err := m.ToggleTaskbar("nope"); err == nil {
		t.Fatalf("expected error for an unknown workspace")
	}
}

func TestChangeLayout(t *testing.T) {
	m := newManager(t, platformtest.New(), testConfig(), nil)

	if err := m.ChangeLayout("", config.FullScreenLayout); err != nil {
		t.Fatalf("ChangeLayout: %v", err)
	}
	if got := m.Workspace("main").Layout().LayoutName(); got != layout.FullScreenName {
		t.Fatalf("layout = %q, want %q", got, layout.FullScreenName)
	}

	if err := m.ChangeLayout("misc", "columns"); err != nil {
		t.Fatalf("ChangeLayout: %v", err)
	}
	if got := m.Workspace("misc").Layout().LayoutName(); got != "columns" {
		t.Fatalf("layout = %q, want columns", got)
	}

	if err := m.ChangeLayout("", "nope"); err == nil {
		t.Fatalf("expected error for an unknown layout")
	}
	if err := m.ChangeLayout("nope", "columns"); err == nil {
		t.Fatalf("expected error for an unknown workspace")
	}
}

func TestStatusAndListings(t *testing.T) {
	host := platformtest.New()
	host.WindowList = []platform.Window{{ID: 1, Class: "xterm"}}
	m := newManager(t, host, testConfig(), nil)

	st := m.Status()
	if st.CurrentWorkspace != "main" || st.Monitors != 1 || st.Workspaces != 3 || st.Windows != 1 {
		t.Fatalf("Status() = %+v", st)
	}

	mons := m.Monitors()
	if len(mons) != 1 || !mons[0].Primary || mons[0].Workspace != "main" || mons[0].Displays != 1 {
		t.Fatalf("Monitors() = %+v", mons)
	}
	if mons[0].Bounds.Width != 1920 {
		t.Fatalf("bounds = %+v", mons[0].Bounds)
	}

	wss := m.Workspaces()
	if len(wss) != 3 {
		t.Fatalf("Workspaces() = %+v", wss)
	}
	if !wss[0].Current || !wss[0].Visible || wss[0].Windows != 1 || wss[0].Layout != config.DefaultBuiltinLayout {
		t.Fatalf("main = %+v", wss[0])
	}
	if wss[1].Visible || wss[1].Layout != layout.FullScreenName {
		t.Fatalf("web = %+v", wss[1])
	}
}

func TestToggleMenuAndTaskbarEntry(t *testing.T) {
	host := platformtest.New()
	host.Styles[1] = platform.Style{Caption: true, Menu: true}
	m := newManager(t, host, testConfig(), nil)
	m.WindowCreated(platform.Window{ID: 1, Class: "xterm"})

	if err := m.ToggleMenu(1); err != nil {
		t.Fatalf("ToggleMenu: %v", err)
	}
	if d := host.Decorated[1]; d.Menu || !d.Titlebar {
		t.Fatalf("decorations = %+v, want the menu hidden and the titlebar kept", d)
	}

	if err := m.ToggleTaskbarEntry(0); err != nil {
		t.Fatalf("ToggleTaskbarEntry: %v", err)
	}
	if !host.SkipTaskbar[1] {
		t.Fatalf("taskbar entry should be dropped")
	}
	if err := m.ToggleTaskbarEntry(1); err != nil {
		t.Fatalf("ToggleTaskbarEntry: %v", err)
	}
	if host.SkipTaskbar[1] {
		t.Fatalf("taskbar entry should be back")
	}

	if err := m.ToggleMenu(9); err == nil {
		t.Fatalf("expected error for an unmanaged window")
	}
}

func twoDisplayHost() *platformtest.Host {
	host := platformtest.New()
	host.DisplayList = append(host.DisplayList, platform.Display{
		ID:     1,
		Bounds: platform.Rect{X: 1920, Width: 1280, Height: 1024},
		Usable: platform.Rect{X: 1920, Width: 1280, Height: 1024},
	})
	return host
}

func TestMoveWorkspaceToMonitor(t *testing.T) {
	host := twoDisplayHost()
	host.WindowList = []platform.Window{
		{ID: 1, Class: "xterm"},
		{ID: 2, Class: "firefox"},
	}
	m := newManager(t, host, testConfig(config.Rule{Class: "^firefox$", Workspaces: []int{2}}), nil)
	monitorOf := func(name string) int {
		for _, ws := range m.Workspaces() {
			if ws.Name == name {
				return ws.Monitor
			}
		}
		t.Fatalf("workspace %q not listed", name)
		return -1
	}

	if err := m.MoveWorkspaceToMonitor("web", 1); err != nil {
		t.Fatalf("MoveWorkspaceToMonitor: %v", err)
	}
	if got := monitorOf("web"); got != 1 {
		t.Fatalf("web listed on monitor %d, want 1", got)
	}
	if got := m.Workspace("web").Monitor().Index(); got != 1 {
		t.Fatalf("web assigned to monitor %d, want 1", got)
	}

	if err := m.SwitchWorkspace("web"); err != nil {
		t.Fatalf("SwitchWorkspace: %v", err)
	}
	mons := m.Monitors()
	if mons[0].Workspace != "main" || mons[1].Workspace != "web" {
		t.Fatalf("shown workspaces = %q, %q; want main, web", mons[0].Workspace, mons[1].Workspace)
	}
	if b := host.Bounds[2]; b.X < 1920 {
		t.Fatalf("window 2 laid out at %+v, want it on the second display", b)
	}

	// A shown workspace hands its monitor over; focus stays where it was.
	host.Reset()
	if err := m.MoveWorkspaceToMonitor("main", 1); err != nil {
		t.Fatalf("MoveWorkspaceToMonitor: %v", err)
	}
	if got := m.Monitors()[0].Workspace; got != "misc" {
		t.Fatalf("monitor 0 shows %q, want misc", got)
	}
	if m.CurrentWorkspace().Name() != "web" {
		t.Fatalf("current = %q, want web", m.CurrentWorkspace().Name())
	}
	if visible, called := lastVisible(host, 1); !called || visible {
		t.Fatalf("window of the moved workspace should be hidden")
	}
	if got := monitorOf("main"); got != 1 {
		t.Fatalf("main listed on monitor %d, want 1", got)
	}

	tests := []struct {
		name      string
		workspace string
		monitor   int
	}{
		{"last on its monitor", "misc", 1},
		{"unknown workspace", "nope", 1},
		{"unknown monitor", "web", 2},
		{"negative monitor", "web", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.MoveWorkspaceToMonitor(tt.workspace, tt.monitor); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
	if err := m.MoveWorkspaceToMonitor("web", 1); err != nil {
		t.Fatalf("moving to the same monitor should be a no-op: %v", err)
	}
}

func TestRemoveWindowFromWorkspace(t *testing.T) {
	host := platformtest.New()
	host.WindowList = []platform.Window{{ID: 7, Class: "slack"}}
	m := newManager(t, host, testConfig(config.Rule{Class: "^slack$", Workspaces: []int{1, 2, 3}}), nil)
	main, web, misc := m.Workspace("main"), m.Workspace("web"), m.Workspace("misc")

	if err := m.RemoveWindowFromWorkspace(7, "misc"); err != nil {
		t.Fatalf("RemoveWindowFromWorkspace: %v", err)
	}
	if misc.ContainsWindow(7) || misc.SharedWindowsCount() != 0 {
		t.Fatalf("misc should drop the window and its shared count")
	}
	if main.SharedWindowsCount() != 1 || web.SharedWindowsCount() != 1 {
		t.Fatalf("remaining copies are still shared: %d, %d", main.SharedWindowsCount(), web.SharedWindowsCount())
	}
	if got := main.GetWindow(7).WorkspacesCount(); got != 2 {
		t.Fatalf("workspaces count = %d, want 2", got)
	}
	if _, called := lastVisible(host, 7); called {
		t.Fatalf("removing from a hidden workspace should not touch visibility")
	}

	if err := m.SwitchWorkspace("web"); err != nil {
		t.Fatalf("SwitchWorkspace: %v", err)
	}
	host.Reset()
	if err := m.RemoveWindowFromWorkspace(7, "web"); err != nil {
		t.Fatalf("RemoveWindowFromWorkspace: %v", err)
	}
	if visible, called := lastVisible(host, 7); !called || visible {
		t.Fatalf("window removed from the shown workspace should be hidden")
	}
	if main.SharedWindowsCount() != 0 || web.SharedWindowsCount() != 0 {
		t.Fatalf("last copy should no longer count as shared")
	}
	if got := main.GetWindow(7).WorkspacesCount(); got != 1 {
		t.Fatalf("workspaces count = %d, want 1", got)
	}

	if err := m.SwitchWorkspace("main"); err != nil {
		t.Fatalf("SwitchWorkspace: %v", err)
	}
	if !host.Visible[7] {
		t.Fatalf("window should come back with its remaining workspace")
	}

	tests := []struct {
		name      string
		id        platform.WindowID
		workspace string
	}{
		{"last copy", 7, "main"},
		{"not on workspace", 7, "web"},
		{"unknown workspace", 7, "nope"},
		{"unmanaged window", 9, "main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.RemoveWindowFromWorkspace(tt.id, tt.workspace); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestHideFromAltTabRule(t *testing.T) {
	host := platformtest.New()
	host.WindowList = []platform.Window{{ID: 7, Class: "slack"}, {ID: 8, Class: "xterm"}}
	m := newManager(t, host, testConfig(config.Rule{Class: "^slack$", Workspaces: []int{1, 2}, HideFromAltTab: true}), nil)

	if got := m.Workspace("main").HiddenFromAltTabCount(); got != 1 {
		t.Fatalf("main hidden-from-alt-tab = %d, want 1", got)
	}
	listed := m.Workspaces()
	if listed[0].HiddenFromAltTab != 1 || listed[1].HiddenFromAltTab != 1 || listed[0].Shared != 1 {
		t.Fatalf("listing = %+v", listed[:2])
	}

	if err := m.RemoveWindowFromWorkspace(7, "web"); err != nil {
		t.Fatalf("RemoveWindowFromWorkspace: %v", err)
	}
	if got := m.Workspace("web").HiddenFromAltTabCount(); got != 0 {
		t.Fatalf("web hidden-from-alt-tab = %d, want 0", got)
	}
	m.WindowDestroyed(7)
	if got := m.Workspace("main").HiddenFromAltTabCount(); got != 0 {
		t.Fatalf("main hidden-from-alt-tab = %d, want 0", got)
	}
}
