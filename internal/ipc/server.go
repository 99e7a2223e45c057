package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/dockwm/internal/config"
	"github.com/1broseidon/dockwm/internal/runtimepath"
)

// Controller is what the server drives. Implementations run each call on the
// window manager's message loop.
type Controller interface {
	Status(ctx context.Context) (StatusData, error)
	Monitors(ctx context.Context) ([]MonitorInfo, error)
	Workspaces(ctx context.Context) ([]WorkspaceInfo, error)
	SwitchWorkspace(ctx context.Context, name string) error
	ChangeLayout(ctx context.Context, workspace, layout string) error
	ToggleTaskbar(ctx context.Context, workspace string) error
	ShiftWindow(ctx context.Context, windowID uint32, direction string, positions int) error
	ToggleFloating(ctx context.Context, windowID uint32) error
	ToggleTitlebar(ctx context.Context, windowID uint32) error
	ToggleBorder(ctx context.Context, windowID uint32) error
	ToggleMenu(ctx context.Context, windowID uint32) error
	ToggleTaskbarEntry(ctx context.Context, windowID uint32) error
	MoveWorkspace(ctx context.Context, workspace string, monitor int) error
	RemoveWindow(ctx context.Context, windowID uint32, workspace string) error
}

// commandTimeout bounds how long a request waits for the message loop.
const commandTimeout = 5 * time.Second

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	ctrl         Controller
	startTime    time.Time
	reloadChan   chan *config.Config
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server. Reloaded configurations are handed to
// the daemon over reloadChan.
func NewServer(cfg *config.Config, ctrl Controller, reloadChan chan *config.Config) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		ctrl:       ctrl,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	resp := s.handleCommand(ctx, req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandGetMonitors:
		return s.handleGetMonitors(ctx)
	case CommandListWorkspaces:
		return s.handleListWorkspaces(ctx)
	case CommandSwitchWorkspace:
		return s.handleSwitchWorkspace(ctx, req.Payload)
	case CommandChangeLayout:
		return s.handleChangeLayout(ctx, req.Payload)
	case CommandToggleTaskbar:
		return s.handleToggleTaskbar(ctx, req.Payload)
	case CommandShiftWindow:
		return s.handleShiftWindow(ctx, req.Payload)
	case CommandToggleFloating:
		return s.handleWindowToggle(ctx, req.Payload, "floating", s.ctrl.ToggleFloating)
	case CommandToggleTitlebar:
		return s.handleWindowToggle(ctx, req.Payload, "titlebar", s.ctrl.ToggleTitlebar)
	case CommandToggleBorder:
		return s.handleWindowToggle(ctx, req.Payload, "border", s.ctrl.ToggleBorder)
	case CommandToggleMenu:
		return s.handleWindowToggle(ctx, req.Payload, "menu", s.ctrl.ToggleMenu)
	case CommandToggleTaskbarEntry:
		return s.handleWindowToggle(ctx, req.Payload, "taskbar entry", s.ctrl.ToggleTaskbarEntry)
	case CommandMoveWorkspace:
		return s.handleMoveWorkspace(ctx, req.Payload)
	case CommandRemoveWindow:
		return s.handleRemoveWindow(ctx, req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	// Load new config
	newCfg, err := config.Load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	// Update config atomically
	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- newCfg:
	default:
	}

	log.Println("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus(ctx context.Context) *Response {
	status, err := s.ctrl.Status(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get status: %v", err))
	}
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	status.DaemonRunning = true

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetMonitors returns information about all logical monitors
func (s *Server) handleGetMonitors(ctx context.Context) *Response {
	monitors, err := s.ctrl.Monitors(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	resp, _ := NewOKResponse(MonitorsData{Monitors: monitors})
	return resp
}

func (s *Server) handleListWorkspaces(ctx context.Context) *Response {
	workspaces, err := s.ctrl.Workspaces(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list workspaces: %v", err))
	}

	resp, _ := NewOKResponse(WorkspacesData{Workspaces: workspaces})
	return resp
}

func (s *Server) handleSwitchWorkspace(ctx context.Context, payload json.RawMessage) *Response {
	var req WorkspacePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid switch payload: %v", err))
	}
	if req.Workspace == "" {
		return NewErrorResponse("workspace is required")
	}

	if err := s.ctrl.SwitchWorkspace(ctx, req.Workspace); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to switch workspace: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleChangeLayout(ctx context.Context, payload json.RawMessage) *Response {
	var req ChangeLayoutPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid layout payload: %v", err))
	}
	if req.LayoutName == "" {
		return NewErrorResponse("layout_name is required")
	}

	s.cfgMu.RLock()
	known := s.cfg.HasLayout(req.LayoutName)
	s.cfgMu.RUnlock()
	if !known {
		return NewErrorResponse(fmt.Sprintf("Unknown layout: %s", req.LayoutName))
	}

	if err := s.ctrl.ChangeLayout(ctx, req.Workspace, req.LayoutName); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to change layout: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleToggleTaskbar(ctx context.Context, payload json.RawMessage) *Response {
	var req WorkspacePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid taskbar payload: %v", err))
		}
	}

	if err := s.ctrl.ToggleTaskbar(ctx, req.Workspace); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to toggle taskbar: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleShiftWindow(ctx context.Context, payload json.RawMessage) *Response {
	var req ShiftWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid shift payload: %v", err))
	}
	if req.Direction == "" {
		return NewErrorResponse("direction is required")
	}

	if err := s.ctrl.ShiftWindow(ctx, req.WindowID, req.Direction, req.Positions); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to shift window: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleWindowToggle(ctx context.Context, payload json.RawMessage, what string, toggle func(context.Context, uint32) error) *Response {
	var req WindowPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid %s payload: %v", what, err))
		}
	}

	if err := toggle(ctx, req.WindowID); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to toggle %s: %v", what, err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleMoveWorkspace(ctx context.Context, payload json.RawMessage) *Response {
	var req MoveWorkspacePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	if req.Workspace == "" {
		return NewErrorResponse("workspace is required")
	}

	if err := s.ctrl.MoveWorkspace(ctx, req.Workspace, req.Monitor); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to move workspace: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleRemoveWindow(ctx context.Context, payload json.RawMessage) *Response {
	var req RemoveWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid remove payload: %v", err))
	}
	if req.WindowID == 0 || req.Workspace == "" {
		return NewErrorResponse("window_id and workspace are required")
	}

	if err := s.ctrl.RemoveWindow(ctx, req.WindowID, req.Workspace); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to remove window: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
