package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/floatdesk/internal/arrangement"
	"github.com/1broseidon/floatdesk/internal/desk"
	"github.com/1broseidon/floatdesk/internal/tiling"
	"github.com/1broseidon/floatdesk/internal/window"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload             CommandType = "RELOAD"
	CommandGetStatus          CommandType = "GET_STATUS"
	CommandListWindows        CommandType = "LIST_WINDOWS"
	CommandOpenViewer         CommandType = "OPEN_VIEWER"
	CommandCloseWindow        CommandType = "CLOSE_WINDOW"
	CommandFocusWindow        CommandType = "FOCUS_WINDOW"
	CommandListLayouts        CommandType = "LIST_LAYOUTS"
	CommandApplyLayout        CommandType = "APPLY_LAYOUT"
	CommandPreviewLayout      CommandType = "PREVIEW_LAYOUT"
	CommandSetDefaultLayout   CommandType = "SET_DEFAULT_LAYOUT"
	CommandUndo               CommandType = "UNDO_LAYOUT"
	CommandListArrangements   CommandType = "LIST_ARRANGEMENTS"
	CommandSaveArrangement    CommandType = "SAVE_ARRANGEMENT"
	CommandRestoreArrangement CommandType = "RESTORE_ARRANGEMENT"
	CommandDeleteArrangement  CommandType = "DELETE_ARRANGEMENT"
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
	desk.Status
	DaemonRunning bool   `json:"daemon_running"`
	Listen        string `json:"listen"`
}

type WindowsData struct {
	Windows []window.Window `json:"windows"`
}

type OpenViewerPayload struct {
	Kind  window.Kind `json:"kind"`
	Title string      `json:"title,omitempty"`
	Ref   string      `json:"ref"`
	Popup bool        `json:"popup,omitempty"`
}

type OpenViewerData struct {
	// ID is empty when the viewer opened as a popup.
	ID string `json:"id"`
}

type WindowPayload struct {
	ID string `json:"id"`
}

type LayoutsData struct {
	Layouts       []desk.LayoutInfo `json:"layouts"`
	DefaultLayout string            `json:"default_layout"`
	ActiveLayout  string            `json:"active_layout"`
}

type ApplyLayoutPayload struct {
	LayoutName string `json:"layout_name"`
	// WindowIDs, when set, are the windows to arrange in slot order.
	WindowIDs []string `json:"window_ids,omitempty"`
}

// PreviewLayoutPayload represents the payload for PREVIEW_LAYOUT command
type PreviewLayoutPayload struct {
	LayoutName      string `json:"layout_name"`
	DurationSeconds int    `json:"duration_seconds"`
}

type SetDefaultLayoutPayload struct {
	LayoutName string `json:"layout_name"`
	TileNow    bool   `json:"tile_now,omitempty"`
}

type UndoData struct {
	Restored int `json:"restored"`
}

type ArrangementPayload struct {
	Name string `json:"name"`
}

type ArrangementsData struct {
	Names []string `json:"names"`
}

type SaveArrangementData struct {
	Name    string `json:"name"`
	Windows int    `json:"windows"`
}

type (
	ApplyLayoutData        = tiling.Result
	RestoreArrangementData = arrangement.Result
)

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
