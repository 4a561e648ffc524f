package interact

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/window"
)

const viewW, viewH = 1200, 800

func newTestController(t *testing.T, opts Options) (*Controller, *window.Registry) {
	t.Helper()
	n := 0
	reg := window.NewRegistry(window.Options{
		Viewport: geom.Rect{Width: viewW, Height: viewH},
		NewID: func() string {
			n++
			return fmt.Sprintf("w%d", n)
		},
	})
	if opts.SnapThreshold == 0 {
		opts.SnapThreshold = 20
	}
	return NewController(reg, opts), reg
}

func openAt(reg *window.Registry, r geom.Rect) string {
	return reg.Open(window.KindImage, "f", "/p/f.png", window.WithGeometry(r)).ID
}

func geometry(t *testing.T, reg *window.Registry, id string) geom.Rect {
	t.Helper()
	w, ok := reg.Get(id)
	if !ok {
		t.Fatalf("window %s not found", id)
	}
	return w.Geometry
}

type recordingSnapper struct {
	id   string
	zone geom.Zone
}

func (s *recordingSnapper) SnapTo(id string, zone geom.Zone) error {
	s.id, s.zone = id, zone
	return nil
}

func TestDrag_MovesAndFocuses(t *testing.T) {
	c, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 100, Y: 100, Width: 300, Height: 200})
	openAt(reg, geom.Rect{X: 500, Y: 300, Width: 300, Height: 200})

	if err := c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 150, 110); err != nil {
		t.Fatalf("down: %v", err)
	}
	if c.State() != StateDragging {
		t.Fatalf("expected dragging, got %v", c.State())
	}
	top, _ := reg.Top()
	if top.ID != a {
		t.Fatalf("expected drag to focus %s, got %s", a, top.ID)
	}

	if err := c.PointerMove(250, 210); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := geometry(t, reg, a); got.X != 200 || got.Y != 200 {
		t.Fatalf("expected 200,200, got %+v", got)
	}
	if err := c.PointerUp(250, 210); err != nil {
		t.Fatalf("up: %v", err)
	}
	if c.State() != StateIdle {
		t.Fatalf("expected idle, got %v", c.State())
	}
}

func TestDrag_DoesNotMoveLinkedPeer(t *testing.T) {
	c, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 0, Y: 0, Width: 600, Height: 800})
	b := openAt(reg, geom.Rect{X: 600, Y: 0, Width: 600, Height: 800})
	_ = reg.Link(a, b)
	peerBefore := geometry(t, reg, b)

	_ = c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 100, 10)
	_ = c.PointerMove(300, 200)
	_ = c.PointerMove(350, 250)

	if got := geometry(t, reg, b); got != peerBefore {
		t.Fatalf("expected peer untouched, got %+v", got)
	}
	_ = c.PointerUp(350, 250)
	if got := geometry(t, reg, b); got != peerBefore {
		t.Fatalf("expected peer untouched after release, got %+v", got)
	}
}

func TestDrag_EdgeSnapOnRelease(t *testing.T) {
	c, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 300, Y: 300, Width: 300, Height: 200})

	_ = c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 310, 310)
	// Window origin ends at 15,295: 15px from the left edge.
	_ = c.PointerMove(25, 305)
	if got := geometry(t, reg, a); got.X != 15 {
		t.Fatalf("expected no snap while dragging, got x=%d", got.X)
	}
	_ = c.PointerUp(25, 305)
	if got := geometry(t, reg, a); got.X != 0 || got.Y != 295 {
		t.Fatalf("expected snap to left edge, got %+v", got)
	}
}

func TestDrag_EdgeSnapToOtherWindow(t *testing.T) {
	c, reg := newTestController(t, Options{})
	other := openAt(reg, geom.Rect{X: 100, Y: 100, Width: 300, Height: 300})
	a := openAt(reg, geom.Rect{X: 600, Y: 150, Width: 200, Height: 200})
	_ = other

	_ = c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 610, 160)
	_ = c.PointerUp(420, 160) // origin 410: 10px right of other's right edge
	if got := geometry(t, reg, a); got.X != 400 {
		t.Fatalf("expected snap to 400, got %d", got.X)
	}
}

func TestDrag_NonMagneticDoesNotSnap(t *testing.T) {
	c, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 300, Y: 300, Width: 300, Height: 200})
	_ = reg.SetMagnetic(a, false)

	_ = c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 310, 310)
	_ = c.PointerUp(25, 305)
	if got := geometry(t, reg, a); got.X != 15 {
		t.Fatalf("expected no snap, got x=%d", got.X)
	}
}

func TestDrag_ZoneSnapWhenEnabled(t *testing.T) {
	snapper := &recordingSnapper{}
	c, reg := newTestController(t, Options{
		ZonesOnDrag: true,
		Zones:       geom.DefaultZoneMetrics,
		Snapper:     snapper,
	})
	a := openAt(reg, geom.Rect{X: 300, Y: 300, Width: 300, Height: 200})

	_ = c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 310, 310)
	_ = c.PointerMove(5, 400)
	if c.Zone() != geom.ZoneHalfLeft {
		t.Fatalf("expected half-left zone hint, got %v", c.Zone())
	}
	_ = c.PointerUp(5, 400)
	if snapper.id != a || snapper.zone != geom.ZoneHalfLeft {
		t.Fatalf("expected zone snap of %s, got %+v", a, snapper)
	}
}

func TestDrag_PinnedOnlyFocuses(t *testing.T) {
	c, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 300, Y: 300, Width: 300, Height: 200})
	_ = reg.SetPinned(a, true)

	if err := c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 310, 310); err != nil {
		t.Fatalf("down: %v", err)
	}
	if c.State() != StateIdle {
		t.Fatalf("expected pinned window to stay idle, got %v", c.State())
	}
}

func TestResize_RightEdgeEnforcesMinimum(t *testing.T) {
	c, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 100, Y: 100, Width: 400, Height: 300})

	_ = c.PointerDown(Target{WindowID: a, Region: RegionHandle, Edge: EdgeRight | EdgeBottom}, 500, 400)
	if c.State() != StateResizing {
		t.Fatalf("expected resizing, got %v", c.State())
	}
	_ = c.PointerMove(600, 450)
	if got := geometry(t, reg, a); got.Width != 500 || got.Height != 350 || got.X != 100 {
		t.Fatalf("expected 500x350 at 100, got %+v", got)
	}
	_ = c.PointerMove(0, 0)
	if got := geometry(t, reg, a); got.Width != 150 || got.Height != 100 {
		t.Fatalf("expected minimum 150x100, got %+v", got)
	}
	_ = c.PointerUp(0, 0)
}

func TestResize_LeftEdgeKeepsRightAnchor(t *testing.T) {
	c, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 300, Y: 100, Width: 400, Height: 300})

	_ = c.PointerDown(Target{WindowID: a, Region: RegionHandle, Edge: EdgeLeft}, 300, 200)
	_ = c.PointerMove(200, 200)
	if got := geometry(t, reg, a); got.X != 200 || got.Right() != 700 {
		t.Fatalf("expected left edge at 200 and right at 700, got %+v", got)
	}
	_ = c.PointerMove(900, 200)
	if got := geometry(t, reg, a); got.Width != 150 || got.Right() != 700 {
		t.Fatalf("expected minimum width anchored at 700, got %+v", got)
	}
}

func TestResize_LinkedPairSpansViewportAtEveryStep(t *testing.T) {
	c, reg := newTestController(t, Options{})
	self := openAt(reg, geom.Rect{X: 0, Y: 0, Width: 600, Height: 800})
	peer := openAt(reg, geom.Rect{X: 600, Y: 0, Width: 600, Height: 800})
	_ = reg.Link(self, peer)

	_ = c.PointerDown(Target{WindowID: self, Region: RegionHandle, Edge: EdgeRight}, 600, 400)
	for _, x := range []float64{650, 700, 420, 10, 1190, 1000.4, 333.6} {
		if err := c.PointerMove(x, 400); err != nil {
			t.Fatalf("move to %v: %v", x, err)
		}
		s := geometry(t, reg, self)
		p := geometry(t, reg, peer)
		if s.Width+p.Width != viewW {
			t.Fatalf("at x=%v: widths %d+%d != %d", x, s.Width, p.Width, viewW)
		}
		if p.X != s.Width {
			t.Fatalf("at x=%v: peer.x=%d, self.width=%d", x, p.X, s.Width)
		}
		if s.Width < 150 || p.Width < 150 {
			t.Fatalf("at x=%v: pane below minimum: %d / %d", x, s.Width, p.Width)
		}
	}
	_ = c.PointerUp(333.6, 400)
	if c.State() != StateIdle {
		t.Fatalf("expected idle after release")
	}
}

func TestResize_LinkedRightPaneLeftEdge(t *testing.T) {
	c, reg := newTestController(t, Options{})
	left := openAt(reg, geom.Rect{X: 0, Y: 0, Width: 600, Height: 800})
	right := openAt(reg, geom.Rect{X: 600, Y: 0, Width: 600, Height: 800})
	_ = reg.Link(left, right)

	_ = c.PointerDown(Target{WindowID: right, Region: RegionHandle, Edge: EdgeLeft}, 600, 400)
	_ = c.PointerMove(400, 400)

	l := geometry(t, reg, left)
	r := geometry(t, reg, right)
	if l.Width != 400 || r.X != 400 || r.Width != 800 {
		t.Fatalf("expected split at 400, got left %+v right %+v", l, r)
	}
}

func TestResize_LinkedVerticalPair(t *testing.T) {
	c, reg := newTestController(t, Options{})
	top := openAt(reg, geom.Rect{X: 0, Y: 0, Width: 1200, Height: 400})
	bottom := openAt(reg, geom.Rect{X: 0, Y: 400, Width: 1200, Height: 400})
	_ = reg.Link(top, bottom)

	_ = c.PointerDown(Target{WindowID: top, Region: RegionHandle, Edge: EdgeBottom}, 600, 400)
	_ = c.PointerMove(600, 500)

	tp := geometry(t, reg, top)
	bt := geometry(t, reg, bottom)
	if tp.Height != 500 || bt.Y != 500 || bt.Height != 300 {
		t.Fatalf("expected split at 500, got top %+v bottom %+v", tp, bt)
	}
}

func TestCancel_KeepsLastAppliedGeometry(t *testing.T) {
	c, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 300, Y: 300, Width: 300, Height: 200})

	_ = c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 310, 310)
	_ = c.PointerMove(25, 305)
	c.PointerCancel()

	if c.State() != StateIdle {
		t.Fatalf("expected idle after cancel")
	}
	// Last move applied, release snap not applied.
	if got := geometry(t, reg, a); got.X != 15 {
		t.Fatalf("expected x=15, got %d", got.X)
	}
}

func TestClose_AbortsGesture(t *testing.T) {
	c, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 300, Y: 300, Width: 300, Height: 200})

	_ = c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 310, 310)
	_ = reg.Close(a)
	if c.State() != StateIdle {
		t.Fatalf("expected close to abort the drag")
	}
	if err := c.PointerMove(500, 500); err != nil {
		t.Fatalf("expected move after abort to be ignored, got %v", err)
	}
}

func TestPointer_NonFiniteRejected(t *testing.T) {
	c, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 300, Y: 300, Width: 300, Height: 200})

	if err := c.PointerDown(Target{WindowID: a, Region: RegionTitle}, math.NaN(), 0); !errors.Is(err, window.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
	_ = c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 310, 310)
	before := geometry(t, reg, a)
	if err := c.PointerMove(math.Inf(1), 0); !errors.Is(err, window.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
	if got := geometry(t, reg, a); got != before {
		t.Fatalf("expected geometry kept, got %+v", got)
	}
	if c.State() != StateDragging {
		t.Fatalf("expected gesture to continue")
	}
}

func TestPointerDown_Errors(t *testing.T) {
	c, reg := newTestController(t, Options{})
	a := openAt(reg, geom.Rect{X: 300, Y: 300, Width: 300, Height: 200})

	if err := c.PointerDown(Target{WindowID: "missing", Region: RegionTitle}, 0, 0); !errors.Is(err, window.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := c.PointerDown(Target{WindowID: a, Region: RegionHandle}, 0, 0); !errors.Is(err, window.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for edgeless handle, got %v", err)
	}
	_ = c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 310, 310)
	if err := c.PointerDown(Target{WindowID: a, Region: RegionTitle}, 310, 310); !errors.Is(err, window.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for second down, got %v", err)
	}
}

func TestParseEdge(t *testing.T) {
	tests := []struct {
		in   string
		want Edge
	}{
		{"e", EdgeRight},
		{"sw", EdgeBottom | EdgeLeft},
		{"NE", EdgeTop | EdgeRight},
	}
	for _, tt := range tests {
		got, err := ParseEdge(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseEdge(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"", "ns", "x", "ew"} {
		if _, err := ParseEdge(bad); err == nil {
			t.Errorf("ParseEdge(%q): expected error", bad)
		}
	}
}
