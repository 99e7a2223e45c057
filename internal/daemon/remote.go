package daemon

import (
	"context"

	"github.com/1broseidon/dockwm/internal/ipc"
	"github.com/1broseidon/dockwm/internal/platform"
)

// Remote serves IPC requests by running them on the manager's message loop.
type Remote struct {
	m *Manager
}

var _ ipc.Controller = Remote{}

// Remote returns the manager's IPC controller.
func (m *Manager) Remote() Remote { return Remote{m: m} }

func (r Remote) Status(ctx context.Context) (ipc.StatusData, error) {
	var out ipc.StatusData
	err := r.m.Do(ctx, func() error {
		st := r.m.Status()
		out = ipc.StatusData{
			CurrentWorkspace: st.CurrentWorkspace,
			Monitors:         st.Monitors,
			Workspaces:       st.Workspaces,
			Windows:          st.Windows,
			TaskbarShown:     st.TaskbarShown,
		}
		return nil
	})
	return out, err
}

func (r Remote) Monitors(ctx context.Context) ([]ipc.MonitorInfo, error) {
	var out []ipc.MonitorInfo
	err := r.m.Do(ctx, func() error {
		for _, mon := range r.m.Monitors() {
			out = append(out, ipc.MonitorInfo{
				Index:      mon.Index,
				X:          mon.Bounds.X,
				Y:          mon.Bounds.Y,
				Width:      mon.Bounds.Width,
				Height:     mon.Bounds.Height,
				WorkX:      mon.WorkingArea.X,
				WorkY:      mon.WorkingArea.Y,
				WorkWidth:  mon.WorkingArea.Width,
				WorkHeight: mon.WorkingArea.Height,
				Primary:    mon.Primary,
				Displays:   mon.Displays,
				Workspace:  mon.Workspace,
			})
		}
		return nil
	})
	return out, err
}

func (r Remote) Workspaces(ctx context.Context) ([]ipc.WorkspaceInfo, error) {
	var out []ipc.WorkspaceInfo
	err := r.m.Do(ctx, func() error {
		for _, ws := range r.m.Workspaces() {
			out = append(out, ipc.WorkspaceInfo(ws))
		}
		return nil
	})
	return out, err
}

func (r Remote) SwitchWorkspace(ctx context.Context, name string) error {
	return r.m.Do(ctx, func() error { return r.m.SwitchWorkspace(name) })
}

func (r Remote) ChangeLayout(ctx context.Context, workspace, layout string) error {
	return r.m.Do(ctx, func() error { return r.m.ChangeLayout(workspace, layout) })
}

func (r Remote) ToggleTaskbar(ctx context.Context, workspace string) error {
	return r.m.Do(ctx, func() error { return r.m.ToggleTaskbar(workspace) })
}

func (r Remote) ShiftWindow(ctx context.Context, windowID uint32, direction string, positions int) error {
	dir, err := ParseShiftDirection(direction)
	if err != nil {
		return err
	}
	return r.m.Do(ctx, func() error {
		return r.m.ShiftWindow(platform.WindowID(windowID), dir, positions)
	})
}

func (r Remote) ToggleFloating(ctx context.Context, windowID uint32) error {
	return r.m.Do(ctx, func() error { return r.m.ToggleFloating(platform.WindowID(windowID)) })
}

func (r Remote) ToggleTitlebar(ctx context.Context, windowID uint32) error {
	return r.m.Do(ctx, func() error { return r.m.ToggleTitlebar(platform.WindowID(windowID)) })
}

func (r Remote) ToggleBorder(ctx context.Context, windowID uint32) error {
	return r.m.Do(ctx, func() error { return r.m.ToggleBorder(platform.WindowID(windowID)) })
}

func (r Remote) ToggleMenu(ctx context.Context, windowID uint32) error {
	return r.m.Do(ctx, func() error { return r.m.ToggleMenu(platform.WindowID(windowID)) })
}

func (r Remote) ToggleTaskbarEntry(ctx context.Context, windowID uint32) error {
	return r.m.Do(ctx, func() error { return r.m.ToggleTaskbarEntry(platform.WindowID(windowID)) })
}

func (r Remote) MoveWorkspace(ctx context.Context, workspace string, monitor int) error {
	return r.m.Do(ctx, func() error { return r.m.MoveWorkspaceToMonitor(workspace, monitor) })
}

func (r Remote) RemoveWindow(ctx context.Context, windowID uint32, workspace string) error {
	return r.m.Do(ctx, func() error {
		return r.m.RemoveWindowFromWorkspace(platform.WindowID(windowID), workspace)
	})
}
