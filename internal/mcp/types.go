package mcp

import (
	"github.com/1broseidon/floatdesk/internal/desk"
	"github.com/1broseidon/floatdesk/internal/tiling"
)

type ListWindowsInput struct{}

// WindowInfo describes one window for list_windows.
type WindowInfo struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Title        string `json:"title"`
	SourceRef    string `json:"source_ref"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ZIndex       int    `json:"z_index"`
	Pinned       bool   `json:"pinned"`
	Minimized    bool   `json:"minimized"`
	Fullscreen   bool   `json:"fullscreen"`
	LinkedPeerID string `json:"linked_peer_id,omitempty"`
}

type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

type OpenViewerInput struct {
	Kind  string `json:"kind" jsonschema:"Viewer kind: image, audio, video, folder, text-editor or generic"`
	Ref   string `json:"ref" jsonschema:"Resource path or URL"`
	Title string `json:"title,omitempty" jsonschema:"Window title (default: last path element of ref)"`
	Popup bool   `json:"popup,omitempty" jsonschema:"Open in a separate host window when the display allows it"`
}

type OpenViewerOutput struct {
	ID    string `json:"id"`
	Popup bool   `json:"popup"`
}

type WindowInput struct {
	ID string `json:"id" jsonschema:"Window id from list_windows"`
}

type WindowOutput struct {
	ID string `json:"id"`
	OK bool   `json:"ok"`
}

type ListLayoutsInput struct{}

type ListLayoutsOutput struct {
	Layouts       []desk.LayoutInfo `json:"layouts"`
	DefaultLayout string            `json:"default_layout"`
	ActiveLayout  string            `json:"active_layout,omitempty"`
}

type ApplyLayoutInput struct {
	Layout    string   `json:"layout" jsonschema:"Layout name from list_layouts"`
	WindowIDs []string `json:"window_ids,omitempty" jsonschema:"Windows to arrange in slot order (default: all windows)"`
}

type ApplyLayoutOutput struct {
	Requested string             `json:"requested"`
	Layout    string             `json:"layout"`
	Degraded  bool               `json:"degraded"`
	Linked    bool               `json:"linked"`
	Placed    []tiling.Placement `json:"placed"`
}

type UndoLayoutInput struct{}

type UndoLayoutOutput struct {
	Restored int `json:"restored"`
}

type ListArrangementsInput struct{}

type ListArrangementsOutput struct {
	Names []string `json:"names"`
}

type ArrangementInput struct {
	Name string `json:"name" jsonschema:"Arrangement name (letters, digits, dot, dash, underscore)"`
}

type SaveArrangementOutput struct {
	Name    string `json:"name"`
	Windows int    `json:"windows"`
}

type RestoreArrangementOutput struct {
	Name   string   `json:"name"`
	Reused int      `json:"reused"`
	Opened int      `json:"opened"`
	Failed int      `json:"failed"`
	IDs    []string `json:"ids"`
}
