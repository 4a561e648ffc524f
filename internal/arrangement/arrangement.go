// Package arrangement saves and restores named sets of window placements.
package arrangement

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/viewer"
	"github.com/1broseidon/floatdesk/internal/window"
)

// Arrangement is a persisted snapshot of the open windows.
type Arrangement struct {
	Name     string        `json:"name"`
	SavedAt  time.Time     `json:"saved_at"`
	Viewport geom.Rect     `json:"viewport"`
	Windows  []WindowState `json:"windows"`
}

// WindowState is one saved window. Frame is relative to the saved viewport
// so it rescales on restore. Windows are stored bottom to top.
type WindowState struct {
	Kind      window.Kind   `json:"kind"`
	Title     string        `json:"title"`
	SourceRef string        `json:"source_ref"`
	Frame     geom.Fraction `json:"frame"`
	Pinned    bool          `json:"pinned,omitempty"`
	Minimized bool          `json:"minimized,omitempty"`
	Magnetic  bool          `json:"magnetic"`
	// Peer is the index of the linked window, -1 when unlinked.
	Peer int `json:"peer"`
}

// Validate checks kinds, frames and peer indexes.
func (a *Arrangement) Validate() error {
	for i, w := range a.Windows {
		if _, err := window.ParseKind(string(w.Kind)); err != nil {
			return fmt.Errorf("windows[%d]: %w", i, err)
		}
		f := w.Frame
		if !geom.Finite(f.X, f.Y, f.W, f.H) || f.W <= 0 || f.H <= 0 {
			return fmt.Errorf("windows[%d]: invalid frame", i)
		}
		if w.Peer == -1 {
			continue
		}
		if w.Peer < 0 || w.Peer >= len(a.Windows) || w.Peer == i || a.Windows[w.Peer].Peer != i {
			return fmt.Errorf("windows[%d]: invalid peer %d", i, w.Peer)
		}
	}
	return nil
}

// Capture snapshots every window in reg in paint order.
func Capture(name string, reg *window.Registry) (*Arrangement, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	view := reg.Viewport()
	if view.Empty() {
		return nil, fmt.Errorf("capture %q: %w", name, window.ErrInvalidGeometry)
	}

	windows := reg.Snapshot()
	index := make(map[string]int, len(windows))
	for i, w := range windows {
		index[w.ID] = i
	}

	a := &Arrangement{
		Name:     name,
		SavedAt:  time.Now().UTC(),
		Viewport: view,
		Windows:  make([]WindowState, 0, len(windows)),
	}
	for _, w := range windows {
		geometry := w.Geometry
		if w.Restore != nil {
			geometry = *w.Restore
		}
		peer := -1
		if i, ok := index[w.LinkedPeerID]; ok {
			peer = i
		}
		a.Windows = append(a.Windows, WindowState{
			Kind:      w.Kind,
			Title:     w.Title,
			SourceRef: w.SourceRef,
			Frame:     geom.FractionOf(geometry, view),
			Pinned:    w.Pinned,
			Minimized: w.Minimized,
			Magnetic:  w.Magnetic,
			Peer:      peer,
		})
	}
	return a, nil
}

// Opener opens a viewer window; viewer.Creator implements it.
type Opener interface {
	Open(req viewer.Request) (string, error)
}

// Result counts what a restore did. IDs line up with Arrangement.Windows;
// an empty entry is a window that could not be opened.
type Result struct {
	Reused int      `json:"reused"`
	Opened int      `json:"opened"`
	Failed int      `json:"failed"`
	IDs    []string `json:"ids"`
}

// Restore replays a onto reg. Open windows with the same kind and source
// are reused before new ones are opened. Windows not in the arrangement
// are left alone.
func Restore(a *Arrangement, reg *window.Registry, opener Opener, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := a.Validate(); err != nil {
		return Result{}, err
	}
	view := reg.Viewport()
	if view.Empty() {
		return Result{}, fmt.Errorf("restore %q: %w", a.Name, window.ErrInvalidGeometry)
	}

	used := make(map[string]bool)
	res := Result{IDs: make([]string, len(a.Windows))}
	for i, ws := range a.Windows {
		id := findReusable(reg, ws, used)
		if id != "" {
			res.Reused++
		} else {
			var err error
			id, err = opener.Open(viewer.Request{Kind: ws.Kind, Title: ws.Title, Ref: ws.SourceRef})
			if err != nil || id == "" {
				logger.Warn("arrangement window not restored", "arrangement", a.Name, "title", ws.Title, "err", err)
				res.Failed++
				continue
			}
			res.Opened++
		}
		used[id] = true
		res.IDs[i] = id
	}

	// Break old pairings first so re-linking cannot hit a third party.
	for _, id := range res.IDs {
		if id != "" {
			reg.Unlink(id)
		}
	}
	for i, ws := range a.Windows {
		id := res.IDs[i]
		if id == "" {
			continue
		}
		_ = reg.SetRestore(id, nil)
		if _, err := reg.UpdateGeometry(id, ws.Frame.Resolve(view)); err != nil {
			logger.Warn("arrangement geometry dropped", "id", id, "err", err)
		}
		_ = reg.SetPinned(id, ws.Pinned)
		_ = reg.SetMinimized(id, ws.Minimized)
		_ = reg.SetMagnetic(id, ws.Magnetic)
		reg.Focus(id)
	}
	for i, ws := range a.Windows {
		if ws.Peer <= i {
			continue
		}
		first, second := res.IDs[i], res.IDs[ws.Peer]
		if first == "" || second == "" {
			continue
		}
		if err := reg.Link(first, second); err != nil {
			logger.Warn("arrangement link dropped", "a", first, "b", second, "err", err)
		}
	}
	return res, nil
}

func findReusable(reg *window.Registry, ws WindowState, used map[string]bool) string {
	for w := range reg.List() {
		if !used[w.ID] && w.Kind == ws.Kind && w.SourceRef == ws.SourceRef {
			return w.ID
		}
	}
	return ""
}
