package interact

import (
	"math"

	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/window"
)

const (
	// ratioGuard: a left pane narrower than this, or leaving less than this
	// for its peer, resets the pair to an even split.
	ratioGuard = 100
	// edgeInset is how far a window pushed back on screen sits from the edge.
	edgeInset = 10
)

// HandleViewportResize records the new viewport and refits every window.
// Any active gesture is aborted first.
func (c *Controller) HandleViewportResize(view geom.Rect) {
	if c.state != StateIdle {
		c.logger.Debug("gesture aborted by viewport resize", "state", c.state, "id", c.windowID)
		c.reset()
	}
	Relayout(c.reg, view)
}

// Relayout refits windows after a viewport change. Linked pairs keep their
// split ratio, fullscreen windows refill the viewport, and other windows are
// only moved back on screen. Narrow viewports force a single full-width
// column and drop pairings.
func Relayout(reg *window.Registry, view geom.Rect) {
	old := reg.Viewport()
	reg.SetViewport(view)
	if view.Empty() {
		return
	}
	policy := reg.Policy()
	windows := reg.Snapshot()

	if policy.Mobile(view) {
		for _, w := range windows {
			reg.Unlink(w.ID)
			_ = reg.SetRestore(w.ID, nil)
			height := min(w.Geometry.Height, view.Height-2*policy.MobileGutter)
			col := policy.Column(view, w.Geometry.Y, height)
			_, _ = reg.UpdateGeometry(w.ID, keepOnScreen(col, view))
		}
		return
	}

	done := make(map[string]bool, len(windows))
	for _, w := range windows {
		if done[w.ID] {
			continue
		}
		done[w.ID] = true

		if w.Fullscreen() {
			_, _ = reg.UpdateGeometry(w.ID, view)
			continue
		}
		if peer, ok := reg.Get(w.LinkedPeerID); ok && !old.Empty() {
			if axis := geom.PairAxis(w.Geometry, peer.Geometry); axis != geom.AxisNone {
				done[peer.ID] = true
				a, b := rescalePair(w.Geometry, peer.Geometry, axis, old, view, policy)
				_, _ = reg.UpdateGeometry(w.ID, a)
				_, _ = reg.UpdateGeometry(peer.ID, b)
				continue
			}
		}
		_, _ = reg.UpdateGeometry(w.ID, keepOnScreen(w.Geometry, view))
	}
}

// rescalePair keeps the first pane's share of the old viewport along the
// split axis and scales the other axis proportionally.
func rescalePair(a, b geom.Rect, axis geom.Axis, old, view geom.Rect, policy window.Policy) (geom.Rect, geom.Rect) {
	first, second := a, b
	swapped := false
	if (axis == geom.AxisHorizontal && b.X < a.X) || (axis == geom.AxisVertical && b.Y < a.Y) {
		first, second = b, a
		swapped = true
	}

	if axis == geom.AxisHorizontal {
		ratio := shareOf(first.Width, old.Width)
		w := splitSize(int(math.Round(float64(view.Width)*ratio)), view.Width, policy.MinWidth)
		y, h := scaleSpan(first.Y-old.Y, first.Height, old.Height, view.Height)
		first = geom.Rect{X: view.X, Y: view.Y + y, Width: w, Height: h}
		second = geom.Rect{X: view.X + w, Y: view.Y + y, Width: view.Width - w, Height: h}
	} else {
		ratio := shareOf(first.Height, old.Height)
		h := splitSize(int(math.Round(float64(view.Height)*ratio)), view.Height, policy.MinHeight)
		x, w := scaleSpan(first.X-old.X, first.Width, old.Width, view.Width)
		first = geom.Rect{X: view.X + x, Y: view.Y, Width: w, Height: h}
		second = geom.Rect{X: view.X + x, Y: view.Y + h, Width: w, Height: view.Height - h}
	}

	if swapped {
		return second, first
	}
	return first, second
}

func shareOf(size, total int) float64 {
	if size <= ratioGuard || size >= total-ratioGuard {
		return 0.5
	}
	return float64(size) / float64(total)
}

func scaleSpan(offset, size, oldTotal, newTotal int) (int, int) {
	if oldTotal <= 0 {
		return offset, size
	}
	f := float64(newTotal) / float64(oldTotal)
	return int(math.Round(float64(offset) * f)), int(math.Round(float64(size) * f))
}

// keepOnScreen moves r back inside view without resizing it.
func keepOnScreen(r, view geom.Rect) geom.Rect {
	if r.Right() > view.Right() {
		r.X = max(view.X+edgeInset, view.Right()-r.Width-edgeInset)
	}
	if r.Bottom() > view.Bottom() {
		r.Y = max(view.Y+edgeInset, view.Bottom()-r.Height-edgeInset)
	}
	return r
}
