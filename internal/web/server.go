// Package web serves the host page and bridges its websocket to the desk.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/1broseidon/floatdesk/internal/autosnap"
	"github.com/1broseidon/floatdesk/internal/desk"
	"github.com/1broseidon/floatdesk/internal/viewer"
	"github.com/1broseidon/floatdesk/internal/window"
)

//go:embed static/*
var staticFS embed.FS

const (
	codeUnknownMethod = -32601
	codeInvalidParams = -32602
	codeFailed        = -32000
)

// writeWait bounds a single websocket write. Pushes run under the desk lock.
const writeWait = 5 * time.Second

// Server is the HTTP + WebSocket host. It implements desk.Host by
// broadcasting every push to all connected pages.
type Server struct {
	desk         *desk.Desk
	logger       *slog.Logger
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	mu           sync.Mutex
	clients      []*wsClient
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(messageType int, data []byte, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

type rpcRequest struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	ID     any       `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewServer creates a host server for d and installs itself as d's host.
func NewServer(d *desk.Desk, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		desk:         d,
		logger:       logger,
		writeTimeout: writeWait,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	d.SetHost(s)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/ws" {
		s.handleWebSocket(w, r)
		return
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		http.Error(w, "static files unavailable", http.StatusInternalServerError)
		return
	}
	http.FileServer(http.FS(sub)).ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("host server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	client := &wsClient{conn: conn}
	s.mu.Lock()
	s.clients = append(s.clients, client)
	s.mu.Unlock()
	s.logger.Debug("page connected", "remote", r.RemoteAddr)

	defer func() {
		conn.Close()
		s.mu.Lock()
		for i, c := range s.clients {
			if c == client {
				s.clients = append(s.clients[:i], s.clients[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		s.logger.Debug("page disconnected", "remote", r.RemoteAddr)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req rpcRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			continue
		}
		resp := s.handleRPC(req)
		data, err := json.Marshal(resp)
		if err != nil {
			s.logger.Error("failed to marshal response", "method", req.Method, "err", err)
			continue
		}
		if err := client.write(websocket.TextMessage, data, s.writeTimeout); err != nil {
			s.logger.Debug("response write failed", "method", req.Method, "err", err)
			return
		}
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	clients := append([]*wsClient(nil), s.clients...)
	s.mu.Unlock()
	for _, c := range clients {
		_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), s.writeTimeout)
		c.conn.Close()
	}
}

// Clients reports how many pages are connected.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast sends a notification to all connected WebSocket clients.
func (s *Server) Broadcast(method string, params any) {
	msg, err := json.Marshal(map[string]any{
		"method": method,
		"params": params,
	})
	if err != nil {
		s.logger.Error("failed to marshal push", "method", method, "err", err)
		return
	}
	s.mu.Lock()
	clients := append([]*wsClient(nil), s.clients...)
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.write(websocket.TextMessage, msg, s.writeTimeout); err != nil {
			// The read loop sees the closed conn and unregisters the page.
			s.logger.Warn("dropping unresponsive page", "method", method, "err", err)
			c.conn.Close()
		}
	}
}

func (s *Server) Render(windows []window.Window) {
	s.Broadcast("render", map[string]any{"windows": windows})
}

func (s *Server) Notify(message string, severity desk.Severity) {
	s.Broadcast("notify", map[string]any{"message": message, "severity": severity})
}

func (s *Server) ShowSuggestion(sg autosnap.Suggestion) {
	s.Broadcast("suggest", map[string]any{"suggestion": sg, "message": sg.Message()})
}

func (s *Server) HideSuggestion(windowID string) {
	s.Broadcast("withdraw", map[string]any{"windowId": windowID})
}

func (s *Server) ShowOverlay(o desk.Overlay) {
	s.Broadcast("overlay", o)
}

// OpenPopup asks the pages to open a separate browser window. With no page
// connected there is nobody to open it.
func (s *Server) OpenPopup(kind window.Kind, title, ref string) error {
	if s.Clients() == 0 {
		return viewer.ErrPopupBlocked
	}
	s.Broadcast("popup", map[string]any{"kind": kind, "title": title, "ref": ref})
	return nil
}
