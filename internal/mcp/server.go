// Package mcp exposes the running desk to MCP clients over stdio. Every
// tool forwards to the daemon through the IPC socket.
package mcp

import (
	"context"
	"io"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/floatdesk/internal/ipc"
	"github.com/1broseidon/floatdesk/internal/window"
)

const (
	ServerName    = "floatdesk"
	ServerVersion = "0.1.0"
)

// DeskClient is the subset of the IPC client the tools call.
type DeskClient interface {
	ListWindows() ([]window.Window, error)
	OpenViewer(p ipc.OpenViewerPayload) (string, error)
	CloseWindow(id string) error
	FocusWindow(id string) error
	ListLayouts() (*ipc.LayoutsData, error)
	ApplyLayout(layoutName string, windowIDs []string) (*ipc.ApplyLayoutData, error)
	Undo() (int, error)
	ListArrangements() ([]string, error)
	SaveArrangement(name string) (*ipc.SaveArrangementData, error)
	RestoreArrangement(name string) (*ipc.RestoreArrangementData, error)
}

// Server is the MCP server for desk automation.
type Server struct {
	mcpServer *mcpsdk.Server
	client    DeskClient
	logger    *slog.Logger
}

// NewServer creates an MCP server that drives the desk through client.
func NewServer(client DeskClient, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		client: client,
		logger: logger,
	}

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
		Name:        "list_windows",
		Description: "List open viewer windows bottom to top with their geometry, flags and linked peer.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_viewer",
		Description: "Open a viewer window for a resource. kind is one of image, audio, video, folder, text-editor or generic. Returns the new window id; the id is empty when the viewer opened as a popup.",
	}, s.handleOpenViewer)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window by id. A linked peer is unlinked and keeps its geometry.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Raise a window to the top of the stack, restoring it when minimized.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_layouts",
		Description: "List configured layouts with their cell counts, fallbacks and which one is the default.",
	}, s.handleListLayouts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_layout",
		Description: "Arrange windows with a layout. window_ids fills slots in order; omit it to arrange every window. Layouts needing more windows than are open degrade along their fallback chain.",
	}, s.handleApplyLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "undo_layout",
		Description: "Restore the geometry windows had before the last layout was applied.",
	}, s.handleUndoLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_arrangements",
		Description: "List saved window arrangements.",
	}, s.handleListArrangements)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_arrangement",
		Description: "Save the open windows, their viewport-relative geometry and links under a name.",
	}, s.handleSaveArrangement)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_arrangement",
		Description: "Restore a saved arrangement, reusing open windows that show the same resource and opening the rest.",
	}, s.handleRestoreArrangement)
}
