package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload             CommandType = "RELOAD"
	CommandGetStatus          CommandType = "GET_STATUS"
	CommandGetMonitors        CommandType = "GET_MONITORS"
	CommandListWorkspaces     CommandType = "LIST_WORKSPACES"
	CommandSwitchWorkspace    CommandType = "SWITCH_WORKSPACE"
	CommandChangeLayout       CommandType = "CHANGE_LAYOUT"
	CommandToggleTaskbar      CommandType = "TOGGLE_TASKBAR"
	CommandShiftWindow        CommandType = "SHIFT_WINDOW"
	CommandToggleFloating     CommandType = "TOGGLE_FLOATING"
	CommandToggleTitlebar     CommandType = "TOGGLE_TITLEBAR"
	CommandToggleBorder       CommandType = "TOGGLE_BORDER"
	CommandToggleMenu         CommandType = "TOGGLE_MENU"
	CommandToggleTaskbarEntry CommandType = "TOGGLE_TASKBAR_ENTRY"
	CommandMoveWorkspace      CommandType = "MOVE_WORKSPACE"
	CommandRemoveWindow       CommandType = "REMOVE_WINDOW"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	CurrentWorkspace string `json:"current_workspace"`
	Monitors         int    `json:"monitors"`
	Workspaces       int    `json:"workspaces"`
	Windows          int    `json:"windows"`
	TaskbarShown     bool   `json:"taskbar_shown"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
	DaemonRunning    bool   `json:"daemon_running"`
}

// MonitorInfo represents information about a single logical monitor. The
// work area is what is left after docks and bars.
type MonitorInfo struct {
	Index      int    `json:"index"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	WorkX      int    `json:"work_x"`
	WorkY      int    `json:"work_y"`
	WorkWidth  int    `json:"work_width"`
	WorkHeight int    `json:"work_height"`
	Primary    bool   `json:"primary"`
	Displays   int    `json:"displays"`
	Workspace  string `json:"workspace"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// WorkspaceInfo represents information about a single workspace
type WorkspaceInfo struct {
	Name        string `json:"name"`
	Monitor     int    `json:"monitor"`
	Layout      string `json:"layout"`
	Symbol      string `json:"symbol"`
	Windows     int    `json:"windows"`
	Visible     bool   `json:"visible"`
	Current     bool   `json:"current"`
	ShowTaskbar bool   `json:"show_taskbar"`

	Shared           int `json:"shared"`
	HiddenFromAltTab int `json:"hidden_from_alt_tab"`
}

// WorkspacesData represents the data returned by LIST_WORKSPACES
type WorkspacesData struct {
	Workspaces []WorkspaceInfo `json:"workspaces"`
}

// WorkspacePayload names a workspace. An empty name is the current one.
type WorkspacePayload struct {
	Workspace string `json:"workspace,omitempty"`
}

type ChangeLayoutPayload struct {
	Workspace  string `json:"workspace,omitempty"`
	LayoutName string `json:"layout_name"`
}

// WindowPayload names a managed window. Zero is the active window of the
// current workspace.
type WindowPayload struct {
	WindowID uint32 `json:"window_id,omitempty"`
}

type ShiftWindowPayload struct {
	WindowID  uint32 `json:"window_id,omitempty"`
	Direction string `json:"direction"`
	Positions int    `json:"positions,omitempty"`
}

// MoveWorkspacePayload reassigns a workspace to a monitor index.
type MoveWorkspacePayload struct {
	Workspace string `json:"workspace"`
	Monitor   int    `json:"monitor"`
}

// RemoveWindowPayload drops a shared window from one workspace.
type RemoveWindowPayload struct {
	WindowID  uint32 `json:"window_id"`
	Workspace string `json:"workspace"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
