// Package window owns the set of open floating windows: their identity,
// geometry, stacking order and resize pairing.
package window

import (
	"errors"
	"fmt"

	"github.com/1broseidon/floatdesk/internal/geom"
)

var (
	// ErrNotFound means the id is not (or no longer) open. Callers treat it
	// as a no-op.
	ErrNotFound = errors.New("window not found")
	// ErrInvalidGeometry means a rect could not be corrected into a usable
	// one; the window keeps its previous geometry.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidOperation means the request was rejected and nothing changed.
	ErrInvalidOperation = errors.New("invalid operation")
)

// Kind is the content variant a window renders.
type Kind string

const (
	KindImage      Kind = "image"
	KindAudio      Kind = "audio"
	KindVideo      Kind = "video"
	KindFolder     Kind = "folder"
	KindTextEditor Kind = "text-editor"
	KindGeneric    Kind = "generic"
)

// Kinds lists every known kind.
func Kinds() []Kind {
	return []Kind{KindImage, KindAudio, KindVideo, KindFolder, KindTextEditor, KindGeneric}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown window kind %q", s)
}

// Window is a snapshot of one open window. Mutations go through Registry.
type Window struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	Title        string    `json:"title"`
	SourceRef    string    `json:"source_ref"`
	Geometry     geom.Rect `json:"geometry"`
	ZIndex       int       `json:"z_index"`
	Pinned       bool      `json:"pinned"`
	Minimized    bool      `json:"minimized"`
	Magnetic     bool      `json:"magnetic"`
	LinkedPeerID string    `json:"linked_peer_id,omitempty"`

	// Restore is the geometry to return to when leaving fullscreen.
	Restore *geom.Rect `json:"restore,omitempty"`
}

// Linked reports whether the window has a resize peer.
func (w Window) Linked() bool { return w.LinkedPeerID != "" }

// Fullscreen reports whether the window holds a saved restore rect.
func (w Window) Fullscreen() bool { return w.Restore != nil }

func (w *Window) clone() Window {
	c := *w
	if w.Restore != nil {
		r := *w.Restore
		c.Restore = &r
	}
	return c
}
