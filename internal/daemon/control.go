package daemon

import (
	"errors"
	"fmt"
	"slices"

	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/workspace"
)

// Status summarizes the running window manager.
type Status struct {
	CurrentWorkspace string
	Monitors         int
	Workspaces       int
	Windows          int
	TaskbarShown     bool
}

// MonitorInfo describes one logical monitor.
type MonitorInfo struct {
	Index       int
	Bounds      platform.Rect
	WorkingArea platform.Rect
	Primary     bool
	Displays    int
	Workspace   string
}

// WorkspaceInfo describes one workspace.
type WorkspaceInfo struct {
	Name        string
	Monitor     int
	Layout      string
	Symbol      string
	Windows     int
	Visible     bool
	Current     bool
	ShowTaskbar bool

	// Shared counts windows also on other workspaces.
	Shared           int
	HiddenFromAltTab int
}

// ShiftDirection names a tab-order move.
type ShiftDirection string

const (
	ShiftForward  ShiftDirection = "forward"
	ShiftBackward ShiftDirection = "backward"
	ShiftMain     ShiftDirection = "main"
)

// ParseShiftDirection validates a direction name.
func ParseShiftDirection(s string) (ShiftDirection, error) {
	switch d := ShiftDirection(s); d {
	case ShiftForward, ShiftBackward, ShiftMain:
		return d, nil
	default:
		return "", fmt.Errorf("unknown direction %q (want forward, backward or main)", s)
	}
}

func (m *Manager) Status() Status {
	st := Status{
		Monitors:     len(m.monitors),
		Workspaces:   len(m.workspaces),
		Windows:      len(m.windows),
		TaskbarShown: m.shell.TaskbarShown(),
	}
	if m.current != nil {
		st.CurrentWorkspace = m.current.Name()
	}
	return st
}

func (m *Manager) Monitors() []MonitorInfo {
	out := make([]MonitorInfo, 0, len(m.monitors))
	for _, mon := range m.monitors {
		info := MonitorInfo{
			Index:       mon.Index(),
			Bounds:      mon.Bounds(),
			WorkingArea: mon.WorkingArea(),
			Primary:     mon.Primary(),
			Displays:    mon.PhysicalMonitorCount(),
		}
		if ws := mon.CurrentVisibleWorkspace(); ws != nil {
			info.Workspace = ws.Name()
		}
		out = append(out, info)
	}
	return out
}

func (m *Manager) Workspaces() []WorkspaceInfo {
	out := make([]WorkspaceInfo, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		out = append(out, WorkspaceInfo{
			Name:        ws.Name(),
			Monitor:     m.monitorOf[ws].Index(),
			Layout:      ws.Layout().LayoutName(),
			Symbol:      ws.Layout().LayoutSymbol(),
			Windows:     ws.WindowCount(),
			Visible:     ws.IsVisible(),
			Current:     ws == m.current,
			ShowTaskbar: ws.ShowTaskbar(),

			Shared:           ws.SharedWindowsCount(),
			HiddenFromAltTab: ws.HiddenFromAltTabCount(),
		})
	}
	return out
}

// ShiftWindow moves a window of the current workspace in the tab order. Id 0
// is the topmost window.
func (m *Manager) ShiftWindow(id platform.WindowID, dir ShiftDirection, positions int) error {
	ws, w, err := m.lookup(id)
	if err != nil {
		return err
	}
	switch dir {
	case ShiftForward:
		ws.ShiftWindowForward(w, max(positions, 1))
	case ShiftBackward:
		ws.ShiftWindowBackwards(w, max(positions, 1))
	case ShiftMain:
		ws.ShiftWindowToMainPosition(w)
	default:
		return fmt.Errorf("unknown direction %q", dir)
	}
	return nil
}

func (m *Manager) ToggleFloating(id platform.WindowID) error {
	ws, w, err := m.lookup(id)
	if err != nil {
		return err
	}
	ws.ToggleWindowFloating(w.Handle())
	return nil
}

func (m *Manager) ToggleTitlebar(id platform.WindowID) error {
	ws, w, err := m.lookup(id)
	if err != nil {
		return err
	}
	ws.ToggleWindowTitlebar(w.Handle())
	return nil
}

func (m *Manager) ToggleBorder(id platform.WindowID) error {
	ws, w, err := m.lookup(id)
	if err != nil {
		return err
	}
	ws.ToggleWindowBorder(w.Handle())
	return nil
}

func (m *Manager) ToggleMenu(id platform.WindowID) error {
	ws, w, err := m.lookup(id)
	if err != nil {
		return err
	}
	ws.ToggleWindowMenu(w.Handle())
	return nil
}

// ToggleTaskbarEntry flips whether the window keeps its taskbar entry.
func (m *Manager) ToggleTaskbarEntry(id platform.WindowID) error {
	ws, w, err := m.lookup(id)
	if err != nil {
		return err
	}
	ws.ToggleWindowTaskbarVisibility(w.Handle())
	return nil
}

// MoveWorkspaceToMonitor reassigns a workspace to the monitor with the given
// index. A shown workspace first hands its old monitor to the next workspace
// there, so the monitor is never left empty.
func (m *Manager) MoveWorkspaceToMonitor(name string, index int) error {
	ws := m.Workspace(name)
	if ws == nil {
		return fmt.Errorf("workspace %q not found", name)
	}
	if index < 0 || index >= len(m.monitors) {
		return fmt.Errorf("monitor %d not found", index)
	}
	from, to := m.monitorOf[ws], m.monitors[index]
	if from == to {
		return nil
	}

	if ws.IsVisible() {
		var next *workspace.Workspace
		for _, other := range m.workspaces {
			if other != ws && m.monitorOf[other] == from {
				next = other
				break
			}
		}
		if next == nil {
			return fmt.Errorf("workspace %q is the only one on monitor %d", name, from.Index())
		}
		current := m.current
		m.switchTo(next, ws == current)
		if ws != current {
			m.makeCurrent(current)
		}
	}

	from.RemoveWorkspace(ws)
	ws.AssignMonitor(to)
	to.AddWorkspace(ws)
	// Lay out against the new working area on the next switch.
	ws.Reposition()
	return nil
}

// RemoveWindowFromWorkspace drops one copy of a shared window. The last copy
// cannot be removed; the window leaves management only when it closes.
func (m *Manager) RemoveWindowFromWorkspace(id platform.WindowID, name string) error {
	ws := m.Workspace(name)
	if ws == nil {
		return fmt.Errorf("workspace %q not found", name)
	}
	entries := m.windows[id]
	i := slices.IndexFunc(entries, func(p placed) bool { return p.ws == ws })
	if i < 0 {
		return fmt.Errorf("window %d is not on workspace %q", id, name)
	}
	if len(entries) == 1 {
		return fmt.Errorf("window %d is only on workspace %q", id, name)
	}

	removed := entries[i]
	removed.ws.WindowDestroyed(removed.win)
	rest := slices.Delete(slices.Clone(entries), i, i+1)
	m.windows[id] = rest
	if len(rest) == 1 {
		rest[0].ws.RemoveFromSharedWindows(rest[0].win)
	}
	rest[0].win.SetWorkspacesCount(len(rest))

	if removed.ws.IsVisible() && !m.shownElsewhere(id, removed.ws) {
		m.setVisible(id, false)
	}
	return nil
}

// ToggleTaskbar flips whether a shown workspace on the primary monitor keeps
// the host taskbar visible. An empty name is the current workspace.
func (m *Manager) ToggleTaskbar(name string) error {
	ws, err := m.workspaceOrCurrent(name)
	if err != nil {
		return err
	}
	if !m.monitorOf[ws].Primary() {
		return fmt.Errorf("workspace %q is not on the primary monitor", ws.Name())
	}
	if !ws.IsVisible() {
		return fmt.Errorf("workspace %q is not shown", ws.Name())
	}
	ws.ToggleShowTaskbar()
	return nil
}

// ChangeLayout gives a workspace another layout. An empty name is the
// current workspace.
func (m *Manager) ChangeLayout(name, layoutName string) error {
	ws, err := m.workspaceOrCurrent(name)
	if err != nil {
		return err
	}
	if !m.cfg.HasLayout(layoutName) {
		return fmt.Errorf("layout %q not found", layoutName)
	}
	l, err := m.newLayout(layoutName)
	if err != nil {
		return err
	}
	ws.ChangeLayout(l)
	return nil
}

func (m *Manager) workspaceOrCurrent(name string) (*workspace.Workspace, error) {
	if name == "" {
		return m.current, nil
	}
	ws := m.Workspace(name)
	if ws == nil {
		return nil, fmt.Errorf("workspace %q not found", name)
	}
	return ws, nil
}

// lookup finds a managed window, preferring the current workspace's copy.
// Id 0 is the current workspace's topmost window.
func (m *Manager) lookup(id platform.WindowID) (*workspace.Workspace, workspace.Window, error) {
	if id == 0 {
		if w := m.current.GetTopmostZOrderWindow(); w != nil {
			return m.current, w, nil
		}
		return nil, nil, errors.New("no active window on the current workspace")
	}
	if w := m.current.GetWindow(id); w != nil {
		return m.current, w, nil
	}
	entries := m.windows[id]
	for _, p := range entries {
		if p.ws.IsVisible() {
			return p.ws, p.win, nil
		}
	}
	if len(entries) > 0 {
		return entries[0].ws, entries[0].win, nil
	}
	return nil, nil, fmt.Errorf("window %d is not managed", id)
}
