package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/dockwm/internal/ipc"
)

const (
	ServerName    = "dockwm"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools drive.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	ListWorkspaces() (*ipc.WorkspacesData, error)
	SwitchWorkspace(name string) error
	ChangeLayout(workspace, layoutName string) error
	ToggleTaskbar(workspace string) error
	ShiftWindow(windowID uint32, direction string, positions int) error
	ToggleFloating(windowID uint32) error
	ToggleTitlebar(windowID uint32) error
	ToggleBorder(windowID uint32) error
	ToggleMenu(windowID uint32) error
	ToggleTaskbarEntry(windowID uint32) error
	MoveWorkspace(workspace string, monitor int) error
	RemoveWindow(windowID uint32, workspace string) error
}

var _ Daemon = (*ipc.Client)(nil)

// Server exposes the running window manager as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates an MCP server that forwards tool calls to the daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the current workspace and how many monitors, workspaces and managed windows the window manager has.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List logical monitors with their bounds, the work area left after docks and bars, and the workspace each one shows.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_workspaces",
		Description: "List every workspace in configuration order with its monitor, layout, window count and visibility.",
	}, s.handleListWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_workspace",
		Description: "Show a workspace on its monitor and make it the current workspace. Windows of the workspace it replaces are hidden unless they are shared with a visible workspace.",
	}, s.handleSwitchWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "change_layout",
		Description: "Replace a workspace's layout with one of the configured layouts. Uses the current workspace when workspace is omitted.",
	}, s.handleChangeLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_taskbar",
		Description: "Show or hide the taskbar for a workspace shown on the primary monitor. Uses the current workspace when workspace is omitted.",
	}, s.handleToggleTaskbar)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "shift_window",
		Description: "Move a window in its workspace's tab order: forward, backward, or to the main position. A window_id of 0 targets the active window of the current workspace.",
	}, s.handleShiftWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_window",
		Description: "Toggle a window's floating state, titlebar, border, window menu or taskbar entry. A window_id of 0 targets the active window of the current workspace.",
	}, s.handleToggleWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_workspace",
		Description: "Assign a workspace to another monitor by index. A shown workspace hands its old monitor to the next workspace there.",
	}, s.handleMoveWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_window",
		Description: "Remove a window shared by several workspaces from one of them. The last workspace of a window cannot be removed.",
	}, s.handleRemoveWindow)
}
