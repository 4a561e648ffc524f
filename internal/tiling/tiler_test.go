package tiling

import (
	"errors"
	"fmt"
	"testing"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/window"
)

func newTestTiler(t *testing.T) (*Tiler, *window.Registry) {
	t.Helper()
	n := 0
	reg := window.NewRegistry(window.Options{
		Viewport: geom.Rect{Width: 1200, Height: 800},
		NewID: func() string {
			n++
			return fmt.Sprintf("w%d", n)
		},
	})
	return NewTiler(reg, config.DefaultConfig(), nil), reg
}

func openN(reg *window.Registry, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = reg.Open(window.KindImage, fmt.Sprintf("f%d", i), fmt.Sprintf("/p/f%d.png", i)).ID
	}
	return ids
}

func TestApplyLayout_QuadWithTwoDegradesToSplit(t *testing.T) {
	tl, reg := newTestTiler(t)
	ids := openN(reg, 2)

	res, err := tl.ApplyLayout("quad", nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Layout != "split-h" || !res.Degraded() {
		t.Fatalf("expected degrade to split-h, got %q", res.Layout)
	}
	if len(res.Placed) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(res.Placed))
	}

	// Most recent first: ids[1] on the left.
	left, _ := reg.Get(ids[1])
	right, _ := reg.Get(ids[0])
	if left.Geometry != (geom.Rect{X: 0, Y: 0, Width: 600, Height: 800}) {
		t.Fatalf("unexpected left geometry %+v", left.Geometry)
	}
	if right.Geometry != (geom.Rect{X: 600, Y: 0, Width: 600, Height: 800}) {
		t.Fatalf("unexpected right geometry %+v", right.Geometry)
	}
	if left.LinkedPeerID != right.ID || right.LinkedPeerID != left.ID {
		t.Fatalf("expected split pair to be linked")
	}
}

func TestApplyLayout_QuadWithThreeUsesOnePlusTwo(t *testing.T) {
	tl, reg := newTestTiler(t)
	openN(reg, 3)
	res, err := tl.ApplyLayout("quad", nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Layout != "one-plus-two" || len(res.Placed) != 3 {
		t.Fatalf("expected one-plus-two with 3 windows, got %q with %d", res.Layout, len(res.Placed))
	}
	if res.Linked {
		t.Fatalf("expected no link for a 3-up layout")
	}
}

func TestApplyLayout_CapsAtCardinality(t *testing.T) {
	tl, reg := newTestTiler(t)
	ids := openN(reg, 5)
	res, err := tl.ApplyLayout("quad", nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(res.Placed) != 4 {
		t.Fatalf("expected 4 placed, got %d", len(res.Placed))
	}
	for _, p := range res.Placed {
		if p.ID == ids[0] {
			t.Fatalf("expected the oldest window to be left out")
		}
	}
}

func TestApplyLayout_NoWindows(t *testing.T) {
	tl, _ := newTestTiler(t)
	if _, err := tl.ApplyLayout("grid", nil); !errors.Is(err, ErrNoWindows) {
		t.Fatalf("expected ErrNoWindows, got %v", err)
	}
}

func TestApplyLayout_UnknownLayout(t *testing.T) {
	tl, reg := newTestTiler(t)
	openN(reg, 1)
	_, err := tl.ApplyLayout("spiral", nil)
	if !errors.Is(err, ErrUnknownLayout) || !errors.Is(err, window.ErrInvalidOperation) {
		t.Fatalf("expected unknown layout invalid operation, got %v", err)
	}
}

func TestApplyLayout_ExplicitTargetsAndRelink(t *testing.T) {
	tl, reg := newTestTiler(t)
	ids := openN(reg, 3)
	if err := reg.Link(ids[0], ids[1]); err != nil {
		t.Fatalf("link: %v", err)
	}

	res, err := tl.ApplyLayout("split-h", []string{ids[2], ids[0], "missing", ids[2]})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Placed[0].ID != ids[2] || res.Placed[1].ID != ids[0] {
		t.Fatalf("expected explicit order, got %+v", res.Placed)
	}
	a, _ := reg.Get(ids[0])
	b, _ := reg.Get(ids[1])
	if a.LinkedPeerID != ids[2] || b.Linked() {
		t.Fatalf("expected old link broken and new one made, got a->%q b->%q", a.LinkedPeerID, b.LinkedPeerID)
	}
}

func TestApplyLayout_LeavesLinksForNonSplit(t *testing.T) {
	tl, reg := newTestTiler(t)
	ids := openN(reg, 4)
	_ = reg.Link(ids[0], ids[1])
	if _, err := tl.ApplyLayout("quad", nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	a, _ := reg.Get(ids[0])
	if a.LinkedPeerID != ids[1] {
		t.Fatalf("expected existing link untouched")
	}
}

func TestApplyLayout_Grid(t *testing.T) {
	tl, reg := newTestTiler(t)
	openN(reg, 3)
	res, err := tl.ApplyLayout("grid", nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	// 3 windows -> 2x2 grid, last row of 1 expands to full width.
	last := res.Placed[2].Rect
	if last.Width != 1200 || last.Y != 400 {
		t.Fatalf("expected full-width last row, got %+v", last)
	}
}

func TestApplyLayout_CascadeStacksMostRecentOnTop(t *testing.T) {
	tl, reg := newTestTiler(t)
	ids := openN(reg, 3)
	reg.Focus(ids[0])

	if _, err := tl.ApplyLayout("cascade", nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	top, _ := reg.Top()
	if top.ID != ids[0] {
		t.Fatalf("expected %s to stay on top, got %s", ids[0], top.ID)
	}
	w, _ := reg.Get(ids[0])
	if w.Geometry.X != 100 || w.Geometry.Y != 80 {
		t.Fatalf("expected first cascade slot at 100,80, got %+v", w.Geometry)
	}
}

func TestUndo(t *testing.T) {
	tl, reg := newTestTiler(t)
	ids := openN(reg, 2)
	before, _ := reg.Get(ids[0])

	if _, err := tl.ApplyLayout("split-v", nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if n, err := tl.Undo(); err != nil || n != 2 {
		t.Fatalf("expected 2 restored, got %d (%v)", n, err)
	}
	after, _ := reg.Get(ids[0])
	if after.Geometry != before.Geometry {
		t.Fatalf("expected %+v, got %+v", before.Geometry, after.Geometry)
	}
	if _, err := tl.Undo(); err == nil {
		t.Fatalf("expected second undo to fail")
	}
}

func TestUndo_RestoresLinks(t *testing.T) {
	tl, reg := newTestTiler(t)
	ids := openN(reg, 2)

	if _, err := tl.ApplyLayout("split-h", nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := tl.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	for _, id := range ids {
		if w, _ := reg.Get(id); w.Linked() {
			t.Fatalf("expected %s unlinked after undo, got peer %q", id, w.LinkedPeerID)
		}
	}
}

func TestUndo_RelinksPreviousPeer(t *testing.T) {
	tl, reg := newTestTiler(t)
	ids := openN(reg, 3)
	if err := reg.Link(ids[0], ids[2]); err != nil {
		t.Fatalf("link: %v", err)
	}

	// Pairing ids[0] with ids[1] breaks its link to ids[2].
	if _, err := tl.ApplyLayout("split-h", []string{ids[0], ids[1]}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if w, _ := reg.Get(ids[0]); w.LinkedPeerID != ids[1] {
		t.Fatalf("expected %s linked to %s, got %q", ids[0], ids[1], w.LinkedPeerID)
	}

	if _, err := tl.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	a, _ := reg.Get(ids[0])
	b, _ := reg.Get(ids[1])
	c, _ := reg.Get(ids[2])
	if a.LinkedPeerID != ids[2] || c.LinkedPeerID != ids[0] {
		t.Fatalf("expected %s relinked to %s, got %q/%q", ids[0], ids[2], a.LinkedPeerID, c.LinkedPeerID)
	}
	if b.Linked() {
		t.Fatalf("expected %s unlinked, got %q", ids[1], b.LinkedPeerID)
	}
}

func TestSnapTo_HalvesPair(t *testing.T) {
	tl, reg := newTestTiler(t)
	ids := openN(reg, 3)

	if err := tl.SnapTo(ids[0], geom.ZoneHalfRight); err != nil {
		t.Fatalf("snap: %v", err)
	}
	if err := tl.SnapTo(ids[1], geom.ZoneHalfLeft); err != nil {
		t.Fatalf("snap: %v", err)
	}
	a, _ := reg.Get(ids[0])
	if a.LinkedPeerID != ids[1] {
		t.Fatalf("expected halves to link, got %q", a.LinkedPeerID)
	}

	// Moving one half into a quarter breaks the pair.
	if err := tl.SnapTo(ids[1], geom.ZoneQuarterTL); err != nil {
		t.Fatalf("snap: %v", err)
	}
	a, _ = reg.Get(ids[0])
	if a.Linked() {
		t.Fatalf("expected pair broken")
	}
}

func TestSnapTo_Errors(t *testing.T) {
	tl, reg := newTestTiler(t)
	ids := openN(reg, 1)
	if err := tl.SnapTo("missing", geom.ZoneFull); !errors.Is(err, window.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := tl.SnapTo(ids[0], geom.ZoneNone); !errors.Is(err, window.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestRestoreDefault(t *testing.T) {
	tl, reg := newTestTiler(t)
	ids := openN(reg, 2)
	if _, err := tl.ApplyLayout("split-h", nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := tl.RestoreDefault(ids[1]); err != nil {
		t.Fatalf("restore: %v", err)
	}
	w, _ := reg.Get(ids[1])
	if w.Linked() {
		t.Fatalf("expected unlink on restore")
	}
	if w.Geometry.Width != 400 || w.Geometry.Height != 500 {
		t.Fatalf("expected 400x500, got %dx%d", w.Geometry.Width, w.Geometry.Height)
	}
	if w.Geometry.X < 10 || w.Geometry.Y < 10 {
		t.Fatalf("expected window inside the 10px margin, got %+v", w.Geometry)
	}
}

func TestToggleFullscreen(t *testing.T) {
	tl, reg := newTestTiler(t)
	ids := openN(reg, 1)
	before, _ := reg.Get(ids[0])

	if err := tl.ToggleFullscreen(ids[0]); err != nil {
		t.Fatalf("fullscreen: %v", err)
	}
	w, _ := reg.Get(ids[0])
	if w.Geometry != reg.Viewport() || !w.Fullscreen() {
		t.Fatalf("expected fullscreen geometry, got %+v", w.Geometry)
	}

	if err := tl.ToggleFullscreen(ids[0]); err != nil {
		t.Fatalf("fullscreen: %v", err)
	}
	w, _ = reg.Get(ids[0])
	if w.Geometry != before.Geometry || w.Fullscreen() {
		t.Fatalf("expected restored geometry %+v, got %+v", before.Geometry, w.Geometry)
	}
}

func TestPreview(t *testing.T) {
	tl, _ := newTestTiler(t)
	name, rects, err := tl.Preview("quad-focus", 4, geom.Rect{Width: 300, Height: 300})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if name != "quad-focus" || len(rects) != 4 {
		t.Fatalf("expected 4 quad-focus cells, got %q %d", name, len(rects))
	}
	if rects[0].Width != 200 || rects[1].Height != 100 {
		t.Fatalf("unexpected cells %+v", rects)
	}
}

func TestCalculateGrid(t *testing.T) {
	tests := []struct{ n, rows, cols int }{
		{0, 0, 0}, {1, 1, 1}, {2, 1, 2}, {3, 2, 2}, {5, 2, 3}, {9, 3, 3},
	}
	for _, tt := range tests {
		rows, cols := CalculateGrid(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Errorf("CalculateGrid(%d) = %d,%d, want %d,%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestCalculatePositions_WithGap(t *testing.T) {
	positions := CalculatePositions(2, geom.Rect{Width: 1000, Height: 500}, 10)
	// 1x2 grid, cell width (1000-30)/2 = 485
	if positions[0].X != 10 || positions[0].Width != 485 || positions[1].X != 505 {
		t.Fatalf("unexpected positions %+v", positions)
	}
}
