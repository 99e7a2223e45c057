package mcp

import "github.com/1broseidon/dockwm/internal/ipc"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	CurrentWorkspace string `json:"current_workspace"`
	Monitors         int    `json:"monitors"`
	Workspaces       int    `json:"workspaces"`
	Windows          int    `json:"windows"`
	TaskbarShown     bool   `json:"taskbar_shown"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []ipc.MonitorInfo `json:"monitors"`
}

// ListWorkspacesInput is the input for the list_workspaces tool.
type ListWorkspacesInput struct {
	VisibleOnly bool `json:"visible_only,omitempty" jsonschema:"When true, only list workspaces currently shown on a monitor"`
}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Workspaces []ipc.WorkspaceInfo `json:"workspaces"`
}

// SwitchWorkspaceInput is the input for the switch_workspace tool.
type SwitchWorkspaceInput struct {
	Workspace string `json:"workspace" jsonschema:"required,Name of the workspace to show"`
}

// ChangeLayoutInput is the input for the change_layout tool.
type ChangeLayoutInput struct {
	Layout    string `json:"layout" jsonschema:"required,Layout name from config (e.g. full-screen, grid, columns)"`
	Workspace string `json:"workspace,omitempty" jsonschema:"Workspace name (default: current workspace)"`
}

// ToggleTaskbarInput is the input for the toggle_taskbar tool.
type ToggleTaskbarInput struct {
	Workspace string `json:"workspace,omitempty" jsonschema:"Workspace name (default: current workspace)"`
}

// ShiftWindowInput is the input for the shift_window tool.
type ShiftWindowInput struct {
	Direction string `json:"direction" jsonschema:"required,One of forward, backward or main"`
	WindowID  uint32 `json:"window_id,omitempty" jsonschema:"Window to move (default: active window of the current workspace)"`
	Positions int    `json:"positions,omitempty" jsonschema:"How many positions to move for forward and backward (default: 1)"`
}

// ToggleWindowInput is the input for the toggle_window tool.
type ToggleWindowInput struct {
	Property string `json:"property" jsonschema:"required,One of floating, titlebar, border, menu or taskbar"`
	WindowID uint32 `json:"window_id,omitempty" jsonschema:"Window to change (default: active window of the current workspace)"`
}

// MoveWorkspaceInput is the input for the move_workspace tool.
type MoveWorkspaceInput struct {
	Workspace string `json:"workspace" jsonschema:"required,Name of the workspace to move"`
	Monitor   int    `json:"monitor" jsonschema:"required,Index of the target monitor as listed by list_monitors"`
}

// RemoveWindowInput is the input for the remove_window tool.
type RemoveWindowInput struct {
	WindowID  uint32 `json:"window_id" jsonschema:"required,Shared window to remove"`
	Workspace string `json:"workspace" jsonschema:"required,Workspace to remove the window from"`
}

// ActionOutput is the output for tools that change window manager state.
type ActionOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
