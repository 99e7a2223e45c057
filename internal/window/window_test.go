package window

import (
	"testing"

	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/platform/platformtest"
)

func newHost() *platformtest.Host {
	host := platformtest.New()
	host.Styles[1] = platform.Style{Caption: true, MaximizeBox: true, Menu: true}
	return host
}

func TestInitializeAppliesOnlyChangedDecorations(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCall bool
	}{
		{"matching host state", Options{Titlebar: true, Border: true}, false},
		{"hidden titlebar", Options{Titlebar: false, Border: true}, true},
		{"hidden border", Options{Titlebar: true, Border: false}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newHost()
			w := New(host, platform.Window{ID: 1}, tt.opts)
			w.Initialize()
			w.Initialize()

			calls := host.Count("SetDecorations")
			if tt.wantCall && calls != 1 {
				t.Fatalf("expected one restyle, got %d", calls)
			}
			if !tt.wantCall && calls != 0 {
				t.Fatalf("expected no restyle, got %d", calls)
			}
		})
	}
}

func TestToggleDecorations(t *testing.T) {
	host := newHost()
	w := New(host, platform.Window{ID: 1}, Options{Titlebar: true, Border: true})

	w.ToggleTitlebar()
	if got := host.Decorated[1]; got.Titlebar || !got.Border {
		t.Fatalf("after titlebar toggle: %+v", got)
	}
	w.ToggleBorder()
	if got := host.Decorated[1]; got.Titlebar || got.Border {
		t.Fatalf("after border toggle: %+v", got)
	}
	w.ToggleMenu()
	if got := host.Decorated[1]; got.Menu {
		t.Fatalf("after menu toggle: %+v", got)
	}
	if host.Count("SetDecorations") != 3 {
		t.Fatalf("expected one restyle per toggle, got %d", host.Count("SetDecorations"))
	}

	w.Revert()
	if got := host.Decorated[1]; !got.Titlebar || !got.Border || !got.Menu {
		t.Fatalf("revert should restore original decorations: %+v", got)
	}
}

func TestTaskbarVisibility(t *testing.T) {
	host := newHost()
	w := New(host, platform.Window{ID: 1}, Options{Titlebar: true, Border: true, HideFromTaskbar: true})
	w.Initialize()
	if !host.SkipTaskbar[1] {
		t.Fatalf("window should be hidden from the taskbar")
	}
	w.Initialize()
	if host.Count("SetSkipTaskbar") != 1 {
		t.Fatalf("unchanged taskbar state re-applied")
	}

	w.ToggleTaskbarVisibility()
	if host.SkipTaskbar[1] {
		t.Fatalf("toggle should show the taskbar entry")
	}
	w.ToggleTaskbarVisibility()
	w.Revert()
	if host.SkipTaskbar[1] {
		t.Fatalf("revert should restore the taskbar entry")
	}
}

func TestSaveAndRestorePosition(t *testing.T) {
	host := newHost()
	saved := platform.Rect{X: 10, Y: 20, Width: 300, Height: 200}
	host.Bounds[1] = saved
	w := New(host, platform.Window{ID: 1}, Options{Titlebar: true, Border: true})

	w.SavePosition()
	host.Bounds[1] = platform.Rect{Width: 1920, Height: 1080}
	host.Maximized[1] = true

	w.RestorePosition(true)
	if host.Bounds[1] != saved {
		t.Fatalf("bounds = %+v, want %+v", host.Bounds[1], saved)
	}
	if host.Maximized[1] {
		t.Fatalf("window should be restored before resizing")
	}
	if host.Count("SetWindowVisible") != 0 {
		t.Fatalf("doNotShow must not map the window")
	}

	w.RestorePosition(false)
	if !host.Visible[1] {
		t.Fatalf("window should be shown")
	}
}

func TestRestoreMaximizedPosition(t *testing.T) {
	host := newHost()
	host.Bounds[1] = platform.Rect{Width: 1920, Height: 1080}
	host.Maximized[1] = true
	w := New(host, platform.Window{ID: 1}, Options{Titlebar: true, Border: true})
	w.SavePosition()

	host.Maximized[1] = false
	w.RestorePosition(false)
	if !host.Maximized[1] {
		t.Fatalf("window should be maximized again")
	}
	if host.Count("SetWindowBounds") != 0 {
		t.Fatalf("maximized windows are not resized")
	}
}

func TestCopiesShareHostState(t *testing.T) {
	host := newHost()
	w := New(host, platform.Window{ID: 1}, Options{Titlebar: false, Border: true, Workspaces: 2})
	c := w.Copy(Options{Titlebar: false, Border: true, Floating: true})

	w.Initialize()
	c.Initialize()
	if host.Count("SetDecorations") != 1 {
		t.Fatalf("copy re-applied decorations the host already has")
	}
	if !c.IsFloating() || w.IsFloating() {
		t.Fatalf("floating is per workspace")
	}

	c.SetMinimized(true)
	if w.IsMinimized() {
		t.Fatalf("minimized is per workspace")
	}

	c.SetWorkspacesCount(3)
	if w.WorkspacesCount() != 3 {
		t.Fatalf("workspaces count should be shared, got %d", w.WorkspacesCount())
	}
}

func TestRestoreWithoutSaveOnlyShows(t *testing.T) {
	host := newHost()
	w := New(host, platform.Window{ID: 1, Minimized: true}, Options{})
	w.RestorePosition(false)
	if len(host.Calls) != 0 {
		t.Fatalf("minimized window without a saved position: %+v", host.Calls)
	}
	if w.WorkspacesCount() != 1 {
		t.Fatalf("workspaces count defaults to 1")
	}
}
