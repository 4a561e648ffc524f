package interact

import (
	"testing"

	"github.com/1broseidon/floatdesk/internal/geom"
)

func TestRelayout_LinkedPairKeepsRatio(t *testing.T) {
	_, reg := newTestController(t, Options{})
	left := openAt(reg, geom.Rect{X: 0, Y: 0, Width: 400, Height: 800})
	right := openAt(reg, geom.Rect{X: 400, Y: 0, Width: 800, Height: 800})
	_ = reg.Link(left, right)

	Relayout(reg, geom.Rect{Width: 1600, Height: 1000})

	l := geometry(t, reg, left)
	r := geometry(t, reg, right)
	if l != (geom.Rect{X: 0, Y: 0, Width: 533, Height: 1000}) {
		t.Fatalf("unexpected left pane %+v", l)
	}
	if r != (geom.Rect{X: 533, Y: 0, Width: 1067, Height: 1000}) {
		t.Fatalf("unexpected right pane %+v", r)
	}
	if w, _ := reg.Get(left); w.LinkedPeerID != right {
		t.Fatalf("expected pair to stay linked")
	}
}

func TestRelayout_UnpairedMovedOnScreen(t *testing.T) {
	_, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 900, Y: 500, Width: 300, Height: 200})
	b := openAt(reg, geom.Rect{X: 100, Y: 100, Width: 300, Height: 200})

	Relayout(reg, geom.Rect{Width: 1000, Height: 600})

	if got := geometry(t, reg, a); got != (geom.Rect{X: 690, Y: 390, Width: 300, Height: 200}) {
		t.Fatalf("expected window pulled back on screen, got %+v", got)
	}
	if got := geometry(t, reg, b); got != (geom.Rect{X: 100, Y: 100, Width: 300, Height: 200}) {
		t.Fatalf("expected on-screen window untouched, got %+v", got)
	}
}

func TestRelayout_FullscreenRefills(t *testing.T) {
	_, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{Width: viewW, Height: viewH})
	prev := geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}
	_ = reg.SetRestore(a, &prev)

	view := geom.Rect{Width: 1400, Height: 900}
	Relayout(reg, view)
	if got := geometry(t, reg, a); got != view {
		t.Fatalf("expected %+v, got %+v", view, got)
	}
}

func TestRelayout_MobileColumnUnlinks(t *testing.T) {
	_, reg := newTestController(t, Options{})
	left := openAt(reg, geom.Rect{X: 0, Y: 0, Width: 600, Height: 400})
	right := openAt(reg, geom.Rect{X: 600, Y: 0, Width: 600, Height: 400})
	low := openAt(reg, geom.Rect{X: 300, Y: 350, Width: 500, Height: 400})
	_ = reg.Link(left, right)

	Relayout(reg, geom.Rect{Width: 600, Height: 600})

	for _, id := range []string{left, right, low} {
		w, _ := reg.Get(id)
		if w.Linked() {
			t.Fatalf("expected %s unlinked on a narrow viewport", id)
		}
		if w.Geometry.X != 10 || w.Geometry.Width != 580 {
			t.Fatalf("expected full-width column for %s, got %+v", id, w.Geometry)
		}
		if w.Geometry.Bottom() > 600 {
			t.Fatalf("expected %s inside the viewport, got %+v", id, w.Geometry)
		}
	}
	if g := geometry(t, reg, left); g.Y != 0 {
		t.Fatalf("expected on-screen window to keep its Y, got %+v", g)
	}
	// Pulled up to leave a 10px margin below.
	if g := geometry(t, reg, low); g.Y != 190 || g.Height != 400 {
		t.Fatalf("expected overflowing window pulled up to y=190, got %+v", g)
	}
}

func TestHandleViewportResize_AbortsGesture(t *testing.T) {
	c, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 100, Y: 100, Width: 300, Height: 200})
	_ = c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 110, 110)

	c.HandleViewportResize(geom.Rect{Width: 1000, Height: 700})
	if c.State() != StateIdle {
		t.Fatalf("expected resize to abort the drag, got %v", c.State())
	}
	if reg.Viewport().Width != 1000 {
		t.Fatalf("expected viewport recorded, got %+v", reg.Viewport())
	}
}

func TestShareOf_FallsBackToEvenSplit(t *testing.T) {
	tests := []struct {
		size, total int
		want        float64
	}{
		{400, 1200, 400.0 / 1200},
		{100, 1200, 0.5},
		{1100, 1200, 0.5},
		{600, 1200, 0.5},
	}
	for _, tt := range tests {
		if got := shareOf(tt.size, tt.total); got != tt.want {
			t.Errorf("shareOf(%d, %d) = %v, want %v", tt.size, tt.total, got, tt.want)
		}
	}
}
