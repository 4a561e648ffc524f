package tiling

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/window"
)

var (
	// ErrUnknownLayout is returned alongside window.ErrInvalidOperation.
	ErrUnknownLayout = errors.New("unknown layout")
	// ErrNoWindows means there was nothing to arrange.
	ErrNoWindows = errors.New("no windows open")
)

// SplitLayout is the two-up side-by-side preset used to pair windows.
const SplitLayout = "split-h"

const (
	// restoreMargin keeps a restored window this far inside the viewport.
	restoreMargin = 10
	// pairTolerance is how far a half-zone window may be off and still
	// count as the other half of a split.
	pairTolerance = 5
)

// Placement is one window assigned to one cell.
type Placement struct {
	ID   string    `json:"id"`
	Rect geom.Rect `json:"rect"`
}

// Result describes an applied layout.
type Result struct {
	Requested string      `json:"requested"`
	Layout    string      `json:"layout"`
	Placed    []Placement `json:"placed"`
	Linked    bool        `json:"linked"`
}

// Degraded reports whether a fallback layout was used.
func (r Result) Degraded() bool { return r.Requested != r.Layout }

// Tiler applies layouts and zone snaps through the registry.
type Tiler struct {
	reg    *window.Registry
	cfg    *config.Config
	logger *slog.Logger

	// previous holds the state from before the last ApplyLayout for Undo.
	previous map[string]savedState
}

type savedState struct {
	rect geom.Rect
	peer string
}

// NewTiler creates a tiler bound to reg.
func NewTiler(reg *window.Registry, cfg *config.Config, logger *slog.Logger) *Tiler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tiler{reg: reg, cfg: cfg, logger: logger}
}

// SetConfig swaps the layout library.
func (t *Tiler) SetConfig(cfg *config.Config) {
	t.cfg = cfg
}

// Resolve follows the fallback chain of layoutID until a layout fits n
// windows.
func (t *Tiler) Resolve(layoutID string, n int) (string, *config.Layout, error) {
	return ResolveLayout(t.cfg, layoutID, n)
}

// Preview computes where n windows would go under layoutID without touching
// any window.
func (t *Tiler) Preview(layoutID string, n int, area geom.Rect) (string, []geom.Rect, error) {
	return PreviewLayout(t.cfg, layoutID, n, area)
}

// ResolveLayout follows the fallback chain of layoutID in cfg until a
// layout fits n windows.
func ResolveLayout(cfg *config.Config, layoutID string, n int) (string, *config.Layout, error) {
	name := layoutID
	for {
		layout, err := cfg.GetLayout(name)
		if err != nil {
			return "", nil, fmt.Errorf("%w %q: %w", ErrUnknownLayout, name, window.ErrInvalidOperation)
		}
		if layout.Mode != config.LayoutModeTemplates || len(layout.Templates) <= n || layout.Fallback == "" {
			return name, layout, nil
		}
		name = layout.Fallback
	}
}

// PreviewLayout resolves layoutID for n windows and computes their rects in
// area.
func PreviewLayout(cfg *config.Config, layoutID string, n int, area geom.Rect) (string, []geom.Rect, error) {
	name, layout, err := ResolveLayout(cfg, layoutID, n)
	if err != nil {
		return "", nil, err
	}
	rects, err := CalculatePositionsWithLayout(n, area, layout, cfg.GapSize)
	return name, rects, err
}

// ApplyLayout arranges targets (default: every window, most recently focused
// first) into layoutID. Unknown target ids are skipped. Too few windows
// degrade the layout along its fallback chain.
func (t *Tiler) ApplyLayout(layoutID string, targets []string) (Result, error) {
	ids := t.selectTargets(targets)
	if len(ids) == 0 {
		return Result{}, ErrNoWindows
	}

	name, layout, err := t.Resolve(layoutID, len(ids))
	if err != nil {
		return Result{}, err
	}
	view := t.reg.Viewport()
	rects, err := CalculatePositionsWithLayout(len(ids), view, layout, t.cfg.GapSize)
	if err != nil {
		return Result{}, fmt.Errorf("apply layout %q: %w", name, err)
	}
	ids = ids[:len(rects)]

	t.logger.Debug("applying layout", "requested", layoutID, "layout", name, "windows", len(ids))

	t.previous = make(map[string]savedState, len(ids))
	res := Result{Requested: layoutID, Layout: name}
	for i, id := range ids {
		w, _ := t.reg.Get(id)
		t.previous[id] = savedState{rect: w.Geometry, peer: w.LinkedPeerID}
		_ = t.reg.SetMinimized(id, false)
		_ = t.reg.SetRestore(id, nil)
		applied, err := t.reg.UpdateGeometry(id, rects[i])
		if err != nil {
			t.logger.Warn("layout placement dropped", "id", id, "err", err)
			continue
		}
		res.Placed = append(res.Placed, Placement{ID: id, Rect: applied})
	}

	if layout.Mode == config.LayoutModeCascade {
		// Oldest first so the most recent window ends on top.
		for i := len(ids) - 1; i >= 0; i-- {
			t.reg.Focus(ids[i])
		}
	}

	if layout.Split && len(res.Placed) == 2 {
		a, b := res.Placed[0].ID, res.Placed[1].ID
		if err := t.pair(a, b); err != nil {
			return res, err
		}
		res.Linked = true
	}
	return res, nil
}

func (t *Tiler) selectTargets(targets []string) []string {
	if targets == nil {
		return t.reg.ByRecency()
	}
	ids := make([]string, 0, len(targets))
	for _, id := range targets {
		if _, ok := t.reg.Get(id); !ok || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// pair links a and b, first breaking any link either has to a third window.
func (t *Tiler) pair(a, b string) error {
	for _, id := range []string{a, b} {
		w, _ := t.reg.Get(id)
		if w.Linked() && w.LinkedPeerID != a && w.LinkedPeerID != b {
			t.reg.Unlink(id)
		}
	}
	return t.reg.Link(a, b)
}

// Undo restores the geometry and links windows had before the last
// ApplyLayout.
func (t *Tiler) Undo() (int, error) {
	if len(t.previous) == 0 {
		return 0, fmt.Errorf("nothing to undo: %w", window.ErrInvalidOperation)
	}
	restored := 0
	for id, st := range t.previous {
		if _, err := t.reg.UpdateGeometry(id, st.rect); err == nil {
			restored++
		}
	}
	for id, st := range t.previous {
		if w, ok := t.reg.Get(id); ok && w.LinkedPeerID != st.peer {
			t.reg.Unlink(id)
		}
	}
	for id, st := range t.previous {
		w, ok := t.reg.Get(id)
		if !ok || st.peer == "" || w.LinkedPeerID == st.peer {
			continue
		}
		if err := t.reg.Link(id, st.peer); err != nil {
			t.logger.Debug("link not restored", "id", id, "peer", st.peer, "err", err)
		}
	}
	t.previous = nil
	return restored, nil
}

// SnapTo moves id into zone. Snapping into a half next to a window filling
// the other half links the two; snapping anywhere else breaks an existing
// link.
func (t *Tiler) SnapTo(id string, zone geom.Zone) error {
	frac, ok := zone.Fraction()
	if !ok {
		return fmt.Errorf("snap to %v: %w", zone, window.ErrInvalidOperation)
	}
	if _, ok := t.reg.Get(id); !ok {
		return fmt.Errorf("snap %q: %w", id, window.ErrNotFound)
	}
	view := t.reg.Viewport()
	target := frac.Resolve(view)

	_ = t.reg.SetRestore(id, nil)
	if _, err := t.reg.UpdateGeometry(id, target); err != nil {
		return err
	}
	t.reg.Focus(id)
	t.logger.Debug("window snapped", "id", id, "zone", zone)

	var other geom.Zone
	switch zone {
	case geom.ZoneHalfLeft:
		other = geom.ZoneHalfRight
	case geom.ZoneHalfRight:
		other = geom.ZoneHalfLeft
	default:
		t.reg.Unlink(id)
		return nil
	}

	otherFrac, _ := other.Fraction()
	want := otherFrac.Resolve(view)
	for w := range t.reg.List() {
		if w.ID == id || w.Minimized || !near(w.Geometry, want, pairTolerance) {
			continue
		}
		return t.pair(id, w.ID)
	}
	t.reg.Unlink(id)
	return nil
}

func near(a, b geom.Rect, tol int) bool {
	return abs(a.X-b.X) <= tol && abs(a.Y-b.Y) <= tol &&
		abs(a.Width-b.Width) <= tol && abs(a.Height-b.Height) <= tol
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// RestoreDefault breaks any split, shrinks a window that fills a full or
// half viewport width back to the policy default, and pulls it fully inside
// the viewport.
func (t *Tiler) RestoreDefault(id string) error {
	w, ok := t.reg.Get(id)
	if !ok {
		return fmt.Errorf("restore %q: %w", id, window.ErrNotFound)
	}
	t.reg.Unlink(id)
	_ = t.reg.SetRestore(id, nil)

	view := t.reg.Viewport()
	rect := w.Geometry
	if abs(rect.Width-view.Width) <= pairTolerance || abs(rect.Width-view.Width/2) <= pairTolerance {
		size := defaultRestoreSize
		rect.Width = min(size.Width, view.Width-2*restoreMargin)
		rect.Height = min(size.Height, view.Height-2*restoreMargin)
	}
	rect.X = geom.Clamp(rect.X, view.X+restoreMargin, view.Right()-rect.Width-restoreMargin)
	rect.Y = geom.Clamp(rect.Y, view.Y+restoreMargin, view.Bottom()-rect.Height-restoreMargin)
	_, err := t.reg.UpdateGeometry(id, rect)
	return err
}

var defaultRestoreSize = window.Size{Width: 400, Height: 500}

// ToggleFullscreen fills the viewport with id, or returns it to the rect it
// had before.
func (t *Tiler) ToggleFullscreen(id string) error {
	w, ok := t.reg.Get(id)
	if !ok {
		return fmt.Errorf("fullscreen %q: %w", id, window.ErrNotFound)
	}
	if w.Restore != nil {
		if _, err := t.reg.UpdateGeometry(id, *w.Restore); err != nil {
			return err
		}
		return t.reg.SetRestore(id, nil)
	}
	prev := w.Geometry
	if _, err := t.reg.UpdateGeometry(id, t.reg.Viewport()); err != nil {
		return err
	}
	t.reg.Focus(id)
	return t.reg.SetRestore(id, &prev)
}
