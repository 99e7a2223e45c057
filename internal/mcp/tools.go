package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/dockwm/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		CurrentWorkspace: status.CurrentWorkspace,
		Monitors:         status.Monitors,
		Workspaces:       status.Workspaces,
		Windows:          status.Windows,
		TaskbarShown:     status.TaskbarShown,
		UptimeSeconds:    status.UptimeSeconds,
	}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}
	monitors := data.Monitors
	if monitors == nil {
		monitors = []ipc.MonitorInfo{}
	}
	return nil, ListMonitorsOutput{Monitors: monitors}, nil
}

func (s *Server) handleListWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWorkspacesInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	data, err := s.daemon.ListWorkspaces()
	if err != nil {
		return nil, ListWorkspacesOutput{}, err
	}

	workspaces := make([]ipc.WorkspaceInfo, 0, len(data.Workspaces))
	for _, ws := range data.Workspaces {
		if args.VisibleOnly && !ws.Visible {
			continue
		}
		workspaces = append(workspaces, ws)
	}
	return nil, ListWorkspacesOutput{Workspaces: workspaces}, nil
}

func (s *Server) handleSwitchWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchWorkspaceInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	name := strings.TrimSpace(args.Workspace)
	if name == "" {
		return nil, ActionOutput{}, fmt.Errorf("workspace is required")
	}
	if err := s.daemon.SwitchWorkspace(name); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{
		Success: true,
		Message: fmt.Sprintf("switched to workspace %q", name),
	}, nil
}

func (s *Server) handleChangeLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args ChangeLayoutInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	layoutName := strings.TrimSpace(args.Layout)
	if layoutName == "" {
		return nil, ActionOutput{}, fmt.Errorf("layout is required")
	}
	if err := s.daemon.ChangeLayout(args.Workspace, layoutName); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{
		Success: true,
		Message: fmt.Sprintf("%s now uses layout %q", describeWorkspace(args.Workspace), layoutName),
	}, nil
}

func (s *Server) handleToggleTaskbar(_ context.Context, _ *mcpsdk.CallToolRequest, args ToggleTaskbarInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := s.daemon.ToggleTaskbar(args.Workspace); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{
		Success: true,
		Message: fmt.Sprintf("toggled the taskbar for %s", describeWorkspace(args.Workspace)),
	}, nil
}

func (s *Server) handleShiftWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ShiftWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	direction := strings.ToLower(strings.TrimSpace(args.Direction))
	switch direction {
	case "forward", "backward", "main":
	default:
		return nil, ActionOutput{}, fmt.Errorf("invalid direction %q (expected forward, backward or main)", args.Direction)
	}
	if args.Positions < 0 {
		return nil, ActionOutput{}, fmt.Errorf("positions must be positive, got %d", args.Positions)
	}

	if err := s.daemon.ShiftWindow(args.WindowID, direction, args.Positions); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{
		Success: true,
		Message: fmt.Sprintf("shifted %s %s", describeWindow(args.WindowID), direction),
	}, nil
}

func (s *Server) handleToggleWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ToggleWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	var toggle func(uint32) error
	property := strings.ToLower(strings.TrimSpace(args.Property))
	switch property {
	case "floating":
		toggle = s.daemon.ToggleFloating
	case "titlebar":
		toggle = s.daemon.ToggleTitlebar
	case "border":
		toggle = s.daemon.ToggleBorder
	case "menu":
		toggle = s.daemon.ToggleMenu
	case "taskbar":
		toggle = s.daemon.ToggleTaskbarEntry
	default:
		return nil, ActionOutput{}, fmt.Errorf("invalid property %q (expected floating, titlebar, border, menu or taskbar)", args.Property)
	}

	if err := toggle(args.WindowID); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{
		Success: true,
		Message: fmt.Sprintf("toggled %s of %s", property, describeWindow(args.WindowID)),
	}, nil
}

func (s *Server) handleMoveWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWorkspaceInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	name := strings.TrimSpace(args.Workspace)
	if name == "" {
		return nil, ActionOutput{}, fmt.Errorf("workspace is required")
	}
	if args.Monitor < 0 {
		return nil, ActionOutput{}, fmt.Errorf("monitor must not be negative, got %d", args.Monitor)
	}
	if err := s.daemon.MoveWorkspace(name, args.Monitor); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{
		Success: true,
		Message: fmt.Sprintf("moved workspace %q to monitor %d", name, args.Monitor),
	}, nil
}

func (s *Server) handleRemoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args RemoveWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	name := strings.TrimSpace(args.Workspace)
	if args.WindowID == 0 || name == "" {
		return nil, ActionOutput{}, fmt.Errorf("window_id and workspace are required")
	}
	if err := s.daemon.RemoveWindow(args.WindowID, name); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{
		Success: true,
		Message: fmt.Sprintf("removed %s from workspace %q", describeWindow(args.WindowID), name),
	}, nil
}

func describeWorkspace(name string) string {
	if name == "" {
		return "the current workspace"
	}
	return fmt.Sprintf("workspace %q", name)
}

func describeWindow(id uint32) string {
	if id == 0 {
		return "the active window"
	}
	return fmt.Sprintf("window 0x%x", id)
}
