package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/desk"
	"github.com/1broseidon/floatdesk/internal/runtimepath"
	"github.com/1broseidon/floatdesk/internal/viewer"
)

// ReloadFunc loads a fresh configuration for RELOAD.
type ReloadFunc func() (*config.Config, error)

// ServerOptions configures a Server. Zero values use the runtime socket
// path and config.Load.
type ServerOptions struct {
	SocketPath string
	// ConfigPath is where SET_DEFAULT_LAYOUT persists the new default. Empty
	// keeps the change in memory.
	ConfigPath string
	Reload     ReloadFunc
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	configPath   string
	listener     net.Listener
	desk         *desk.Desk
	reload       ReloadFunc
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(d *desk.Desk, opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	reload := opts.Reload
	if reload == nil {
		reload = config.Load
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		configPath: opts.ConfigPath,
		desk:       d,
		reload:     reload,
	}, nil
}

func (s *Server) SocketPath() string { return s.socketPath }

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

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

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
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return ok(WindowsData{Windows: s.desk.Windows()})
	case CommandOpenViewer:
		return s.handleOpenViewer(req.Payload)
	case CommandCloseWindow:
		return s.handleWindow(req.Payload, "close", s.desk.Close)
	case CommandFocusWindow:
		return s.handleWindow(req.Payload, "focus", s.desk.Focus)
	case CommandListLayouts:
		return s.handleListLayouts()
	case CommandApplyLayout:
		return s.handleApplyLayout(req.Payload)
	case CommandPreviewLayout:
		return s.handlePreviewLayout(req.Payload)
	case CommandSetDefaultLayout:
		return s.handleSetDefaultLayout(req.Payload)
	case CommandUndo:
		return s.handleUndo()
	case CommandListArrangements:
		return s.handleListArrangements()
	case CommandSaveArrangement:
		return s.handleSaveArrangement(req.Payload)
	case CommandRestoreArrangement:
		return s.handleRestoreArrangement(req.Payload)
	case CommandDeleteArrangement:
		return s.handleDeleteArrangement(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	newCfg, err := s.reload()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	if err := s.desk.SetConfig(newCfg); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply config: %v", err))
	}

	log.Println("IPC: Config reloaded successfully")
	return ok(nil)
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	return ok(StatusData{
		Status:        s.desk.Status(),
		DaemonRunning: true,
		Listen:        s.desk.Config().Listen,
	})
}

func (s *Server) handleOpenViewer(payload json.RawMessage) *Response {
	var req OpenViewerPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid open payload: %v", err))
	}
	log.Printf("IPC: Open %s viewer for %s", req.Kind, req.Ref)

	id, err := s.desk.Open(viewer.Request{Kind: req.Kind, Title: req.Title, Ref: req.Ref, Popup: req.Popup})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to open viewer: %v", err))
	}
	return ok(OpenViewerData{ID: id})
}

func (s *Server) handleWindow(payload json.RawMessage, op string, fn func(string) error) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid %s payload: %v", op, err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	if err := fn(req.ID); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to %s window: %v", op, err))
	}
	return ok(nil)
}

func (s *Server) handleListLayouts() *Response {
	status := s.desk.Status()
	return ok(LayoutsData{
		Layouts:       s.desk.Layouts(),
		DefaultLayout: status.DefaultLayout,
		ActiveLayout:  status.ActiveLayout,
	})
}

func (s *Server) handleApplyLayout(payload json.RawMessage) *Response {
	var req ApplyLayoutPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid apply payload: %v", err))
	}
	if req.LayoutName == "" {
		return NewErrorResponse("layout_name is required")
	}

	var targets []string
	if len(req.WindowIDs) > 0 {
		targets = req.WindowIDs
	}
	res, err := s.desk.ApplyLayout(req.LayoutName, targets)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply layout: %v", err))
	}
	return ok(res)
}

// handlePreviewLayout temporarily applies a layout for preview
func (s *Server) handlePreviewLayout(payload json.RawMessage) *Response {
	var req PreviewLayoutPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid preview payload: %v", err))
	}

	duration := time.Duration(req.DurationSeconds) * time.Second
	if duration <= 0 {
		duration = 3 * time.Second
	}
	if duration > 60*time.Second {
		duration = 60 * time.Second
	}

	log.Printf("IPC: Preview layout '%s' for %s", req.LayoutName, duration)

	res, err := s.desk.PreviewLayout(req.LayoutName, duration)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to preview layout: %v", err))
	}
	return ok(res)
}

func (s *Server) handleSetDefaultLayout(payload json.RawMessage) *Response {
	var req SetDefaultLayoutPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid set default payload: %v", err))
	}
	if req.LayoutName == "" {
		return NewErrorResponse("layout_name is required")
	}
	if err := s.desk.SetDefaultLayout(req.LayoutName, s.configPath); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set default layout: %v", err))
	}
	if req.TileNow {
		if _, err := s.desk.ApplyLayout(req.LayoutName, nil); err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to tile with default layout: %v", err))
		}
	}
	return ok(nil)
}

func (s *Server) handleUndo() *Response {
	n, err := s.desk.UndoLayout()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to undo: %v", err))
	}
	return ok(UndoData{Restored: n})
}

func (s *Server) handleListArrangements() *Response {
	names, err := s.desk.ListArrangements()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list arrangements: %v", err))
	}
	return ok(ArrangementsData{Names: names})
}

func parseArrangement(payload json.RawMessage) (string, *Response) {
	var req ArrangementPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return "", NewErrorResponse(fmt.Sprintf("Invalid arrangement payload: %v", err))
	}
	if req.Name == "" {
		return "", NewErrorResponse("name is required")
	}
	return req.Name, nil
}

func (s *Server) handleSaveArrangement(payload json.RawMessage) *Response {
	name, errResp := parseArrangement(payload)
	if errResp != nil {
		return errResp
	}
	log.Printf("IPC: Save arrangement '%s'", name)
	a, err := s.desk.SaveArrangement(name)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to save arrangement: %v", err))
	}
	return ok(SaveArrangementData{Name: a.Name, Windows: len(a.Windows)})
}

func (s *Server) handleRestoreArrangement(payload json.RawMessage) *Response {
	name, errResp := parseArrangement(payload)
	if errResp != nil {
		return errResp
	}
	log.Printf("IPC: Restore arrangement '%s'", name)
	res, err := s.desk.RestoreArrangement(name)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to restore arrangement: %v", err))
	}
	return ok(res)
}

func (s *Server) handleDeleteArrangement(payload json.RawMessage) *Response {
	name, errResp := parseArrangement(payload)
	if errResp != nil {
		return errResp
	}
	if err := s.desk.DeleteArrangement(name); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to delete arrangement: %v", err))
	}
	return ok(nil)
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
