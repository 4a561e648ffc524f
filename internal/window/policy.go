package window

import "github.com/1broseidon/floatdesk/internal/geom"

// Size is a width and height pair.
type Size struct {
	Width  int
	Height int
}

// Policy holds the placement and sizing rules the registry enforces.
type Policy struct {
	MinWidth  int
	MinHeight int
	// VisibleMargin is how much of a window must stay on screen.
	VisibleMargin int
	// CascadeStep offsets a new window from the most recently opened one.
	CascadeStep int
	DefaultSize Size
	// Viewports at most MobileBreakpoint wide get a single full-width
	// column with MobileGutter on each side.
	MobileBreakpoint int
	MobileGutter     int
	FirstZIndex      int
}

// DefaultPolicy returns the stock placement rules.
func DefaultPolicy() Policy {
	return Policy{
		MinWidth:         150,
		MinHeight:        100,
		VisibleMargin:    24,
		CascadeStep:      30,
		DefaultSize:      Size{Width: 400, Height: 300},
		MobileBreakpoint: 768,
		MobileGutter:     10,
		FirstZIndex:      1000,
	}
}

// Mobile reports whether view is narrow enough for the column layout.
func (p Policy) Mobile(view geom.Rect) bool {
	return view.Width > 0 && view.Width <= p.MobileBreakpoint
}

// Column returns the full-width column rect at height y for view.
func (p Policy) Column(view geom.Rect, y, height int) geom.Rect {
	return geom.Rect{
		X:      view.X + p.MobileGutter,
		Y:      y,
		Width:  max(view.Width-2*p.MobileGutter, p.MinWidth),
		Height: height,
	}
}
