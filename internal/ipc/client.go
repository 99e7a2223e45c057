package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/dockwm/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    2 * commandTimeout,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// send marshals payload into a request and discards the response data.
func (c *Client) send(command CommandType, payload any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	_, err := c.sendRequest(req)
	return err
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.send(CommandReload, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	req := &Request{
		Command: CommandGetStatus,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// GetMonitors retrieves logical monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	req := &Request{
		Command: CommandGetMonitors,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}

	return &monitors, nil
}

// ListWorkspaces retrieves every workspace in configuration order.
func (c *Client) ListWorkspaces() (*WorkspacesData, error) {
	req := &Request{
		Command: CommandListWorkspaces,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var data WorkspacesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse workspaces data: %w", err)
	}

	return &data, nil
}

// SwitchWorkspace shows a workspace on its monitor and makes it current.
func (c *Client) SwitchWorkspace(name string) error {
	return c.send(CommandSwitchWorkspace, WorkspacePayload{Workspace: name})
}

// ChangeLayout replaces a workspace's layout. An empty workspace is the
// current one.
func (c *Client) ChangeLayout(workspace, layoutName string) error {
	return c.send(CommandChangeLayout, ChangeLayoutPayload{Workspace: workspace, LayoutName: layoutName})
}

// ToggleTaskbar flips the taskbar setting of a shown workspace.
func (c *Client) ToggleTaskbar(workspace string) error {
	return c.send(CommandToggleTaskbar, WorkspacePayload{Workspace: workspace})
}

// ShiftWindow moves a window in its workspace's tab order.
func (c *Client) ShiftWindow(windowID uint32, direction string, positions int) error {
	return c.send(CommandShiftWindow, ShiftWindowPayload{
		WindowID:  windowID,
		Direction: direction,
		Positions: positions,
	})
}

func (c *Client) ToggleFloating(windowID uint32) error {
	return c.send(CommandToggleFloating, WindowPayload{WindowID: windowID})
}

func (c *Client) ToggleTitlebar(windowID uint32) error {
	return c.send(CommandToggleTitlebar, WindowPayload{WindowID: windowID})
}

func (c *Client) ToggleBorder(windowID uint32) error {
	return c.send(CommandToggleBorder, WindowPayload{WindowID: windowID})
}

func (c *Client) ToggleMenu(windowID uint32) error {
	return c.send(CommandToggleMenu, WindowPayload{WindowID: windowID})
}

// ToggleTaskbarEntry flips whether a window keeps its taskbar entry.
func (c *Client) ToggleTaskbarEntry(windowID uint32) error {
	return c.send(CommandToggleTaskbarEntry, WindowPayload{WindowID: windowID})
}

// MoveWorkspace reassigns a workspace to the monitor with the given index.
func (c *Client) MoveWorkspace(workspace string, monitor int) error {
	return c.send(CommandMoveWorkspace, MoveWorkspacePayload{Workspace: workspace, Monitor: monitor})
}

// RemoveWindow drops a shared window from one of its workspaces.
func (c *Client) RemoveWindow(windowID uint32, workspace string) error {
	return c.send(CommandRemoveWindow, RemoveWindowPayload{WindowID: windowID, Workspace: workspace})
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
