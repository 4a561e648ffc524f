package interact

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/window"
)

// ZoneSnapper tiles a window into a viewport zone.
type ZoneSnapper interface {
	SnapTo(id string, zone geom.Zone) error
}

// Options configures a Controller.
type Options struct {
	// SnapThreshold is the edge-snap distance applied on drag release.
	SnapThreshold int
	// ZonesOnDrag, with Zones and Snapper set, tiles a released window into
	// the zone under the pointer instead of edge snapping.
	ZonesOnDrag bool
	Zones       geom.ZoneMetrics
	Snapper     ZoneSnapper
	Logger      *slog.Logger
}

// Controller is the pointer gesture state machine. It is not safe for
// concurrent use; events must arrive one at a time in order.
type Controller struct {
	reg    *window.Registry
	opts   Options
	logger *slog.Logger

	state    State
	windowID string

	// Dragging: pointer offset from the window origin.
	grabX, grabY float64
	zone         geom.Zone

	// Resizing: the rects when the gesture started.
	edge           Edge
	startX, startY float64
	anchor         geom.Rect
	peerID         string
	peerAnchor     geom.Rect
	axis           geom.Axis
}

// NewController creates an idle controller. A window closing mid-gesture
// aborts the gesture.
func NewController(reg *window.Registry, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Controller{reg: reg, opts: opts, logger: logger}
	reg.OnClose(func(w window.Window) {
		if c.state != StateIdle {
			c.logger.Debug("gesture aborted by close", "closed", w.ID, "window", c.windowID)
			c.reset()
		}
	})
	return c
}

// SetOptions replaces the snap settings. The gesture in progress, if any,
// picks them up on its next event.
func (c *Controller) SetOptions(opts Options) {
	if opts.Logger == nil {
		opts.Logger = c.logger
	}
	c.opts = opts
	c.logger = opts.Logger
}

func (c *Controller) State() State { return c.state }

// WindowID is the window under gesture, empty when idle.
func (c *Controller) WindowID() string { return c.windowID }

// Zone is the snap zone under the pointer during a drag when zone snapping
// is enabled.
func (c *Controller) Zone() geom.Zone { return c.zone }

func (c *Controller) reset() {
	c.state = StateIdle
	c.windowID = ""
	c.zone = geom.ZoneNone
	c.edge = 0
	c.peerID = ""
	c.axis = geom.AxisNone
}

// PointerDown starts a gesture. A title hit focuses and starts a drag
// (pinned windows only focus), a handle hit starts a resize, and a body hit
// only focuses.
func (c *Controller) PointerDown(t Target, x, y float64) error {
	if !geom.Finite(x, y) {
		return fmt.Errorf("pointer down: %w", window.ErrInvalidGeometry)
	}
	if c.state != StateIdle {
		return fmt.Errorf("pointer down during %s: %w", c.state, window.ErrInvalidOperation)
	}
	w, ok := c.reg.Get(t.WindowID)
	if !ok {
		return fmt.Errorf("pointer down %q: %w", t.WindowID, window.ErrNotFound)
	}
	c.reg.Focus(w.ID)

	switch t.Region {
	case RegionTitle:
		if w.Pinned {
			return nil
		}
		c.state = StateDragging
		c.windowID = w.ID
		c.grabX = x - float64(w.Geometry.X)
		c.grabY = y - float64(w.Geometry.Y)
		c.logger.Debug("drag started", "id", w.ID, "grab_x", c.grabX, "grab_y", c.grabY)

	case RegionHandle:
		if t.Edge == 0 {
			return fmt.Errorf("resize %q without an edge: %w", w.ID, window.ErrInvalidOperation)
		}
		c.state = StateResizing
		c.windowID = w.ID
		c.edge = t.Edge
		c.startX, c.startY = x, y
		c.anchor = w.Geometry
		c.peerID = ""
		c.axis = geom.AxisNone
		if peer, ok := c.reg.Get(w.LinkedPeerID); ok {
			c.peerID = peer.ID
			c.peerAnchor = peer.Geometry
			c.axis = geom.PairAxis(w.Geometry, peer.Geometry)
			if c.axis == geom.AxisNone {
				if t.Edge.Horizontal() {
					c.axis = geom.AxisHorizontal
				} else {
					c.axis = geom.AxisVertical
				}
			}
		}
		c.logger.Debug("resize started", "id", w.ID, "edge", t.Edge, "peer", c.peerID, "axis", c.axis)
	}
	return nil
}

// PointerMove updates the active gesture. Moves while idle are ignored.
func (c *Controller) PointerMove(x, y float64) error {
	if c.state == StateIdle {
		return nil
	}
	if !geom.Finite(x, y) {
		return fmt.Errorf("pointer move: %w", window.ErrInvalidGeometry)
	}
	switch c.state {
	case StateDragging:
		return c.drag(x, y)
	case StateResizing:
		return c.resize(x, y)
	}
	return nil
}

// PointerUp ends the gesture. A drag release edge-snaps magnetic windows.
func (c *Controller) PointerUp(x, y float64) error {
	if c.state == StateIdle {
		return nil
	}
	defer c.reset()

	finite := geom.Finite(x, y)
	switch c.state {
	case StateDragging:
		if finite {
			if err := c.drag(x, y); err != nil {
				return err
			}
		}
		return c.release()
	case StateResizing:
		if finite {
			return c.resize(x, y)
		}
	}
	return nil
}

// PointerCancel abandons the gesture. Geometry stays at the last applied
// move.
func (c *Controller) PointerCancel() {
	if c.state != StateIdle {
		c.logger.Debug("gesture cancelled", "state", c.state, "id", c.windowID)
	}
	c.reset()
}

func (c *Controller) drag(x, y float64) error {
	w, ok := c.reg.Get(c.windowID)
	if !ok {
		c.reset()
		return fmt.Errorf("drag %q: %w", c.windowID, window.ErrNotFound)
	}
	rect := geom.Rect{
		X:      round(x - c.grabX),
		Y:      round(y - c.grabY),
		Width:  w.Geometry.Width,
		Height: w.Geometry.Height,
	}
	if _, err := c.reg.UpdateGeometry(w.ID, rect); err != nil {
		return err
	}
	if c.opts.ZonesOnDrag {
		c.zone = geom.DetectZone(c.reg.Viewport(), round(x), round(y), c.opts.Zones)
	}
	return nil
}

func (c *Controller) release() error {
	w, ok := c.reg.Get(c.windowID)
	if !ok || !w.Magnetic {
		return nil
	}
	if c.opts.ZonesOnDrag && c.zone != geom.ZoneNone && c.opts.Snapper != nil {
		c.logger.Debug("drag released into zone", "id", w.ID, "zone", c.zone)
		return c.opts.Snapper.SnapTo(w.ID, c.zone)
	}

	var others []geom.Rect
	for o := range c.reg.List() {
		if o.ID != w.ID && !o.Minimized {
			others = append(others, o.Geometry)
		}
	}
	snapped := geom.SnapToEdges(w.Geometry, c.reg.Viewport(), others, c.opts.SnapThreshold)
	if snapped == w.Geometry {
		return nil
	}
	c.logger.Debug("drag released with edge snap", "id", w.ID, "from", w.Geometry, "to", snapped)
	_, err := c.reg.UpdateGeometry(w.ID, snapped)
	return err
}

func (c *Controller) resize(x, y float64) error {
	policy := c.reg.Policy()
	dx := round(x - c.startX)
	dy := round(y - c.startY)
	a := c.anchor
	r := a

	if c.edge&EdgeLeft != 0 {
		left := min(a.X+dx, a.Right()-policy.MinWidth)
		r.X = left
		r.Width = a.Right() - left
	}
	if c.edge&EdgeRight != 0 {
		r.Width = max(a.Width+dx, policy.MinWidth)
	}
	if c.edge&EdgeTop != 0 {
		top := min(a.Y+dy, a.Bottom()-policy.MinHeight)
		r.Y = top
		r.Height = a.Bottom() - top
	}
	if c.edge&EdgeBottom != 0 {
		r.Height = max(a.Height+dy, policy.MinHeight)
	}

	if c.peerID == "" {
		_, err := c.reg.UpdateGeometry(c.windowID, r)
		return c.checkAlive(err)
	}

	self, peer := c.couple(r)
	if _, err := c.reg.UpdateGeometry(c.windowID, self); err != nil {
		return c.checkAlive(err)
	}
	_, err := c.reg.UpdateGeometry(c.peerID, peer)
	return c.checkAlive(err)
}

// couple splits the viewport along the pair axis so self and peer always
// span it exactly.
func (c *Controller) couple(r geom.Rect) (self, peer geom.Rect) {
	view := c.reg.Viewport()
	policy := c.reg.Policy()
	self, peer = r, c.peerAnchor

	switch {
	case c.axis == geom.AxisHorizontal && c.edge.Horizontal():
		w := splitSize(r.Width, view.Width, policy.MinWidth)
		self.Width = w
		peer.Width = view.Width - w
		if c.anchor.X <= c.peerAnchor.X {
			self.X = view.X
			peer.X = view.X + w
		} else {
			peer.X = view.X
			self.X = view.X + peer.Width
		}
	case c.axis == geom.AxisVertical && c.edge.Vertical():
		h := splitSize(r.Height, view.Height, policy.MinHeight)
		self.Height = h
		peer.Height = view.Height - h
		if c.anchor.Y <= c.peerAnchor.Y {
			self.Y = view.Y
			peer.Y = view.Y + h
		} else {
			peer.Y = view.Y
			self.Y = view.Y + peer.Height
		}
	}
	return self, peer
}

func splitSize(want, total, minSize int) int {
	if total < 2*minSize {
		return total / 2
	}
	return geom.Clamp(want, minSize, total-minSize)
}

// checkAlive drops the gesture when its window vanished underneath it.
func (c *Controller) checkAlive(err error) error {
	if errors.Is(err, window.ErrNotFound) {
		c.reset()
	}
	return err
}

func round(v float64) int {
	return int(math.Round(v))
}
