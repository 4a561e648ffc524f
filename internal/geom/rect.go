// Package geom holds the pure geometry used by the window manager: viewport
// rectangles, fractional layout templates, snap zones and edge snapping.
package geom

import "math"

// Rect is a window position and size in viewport pixels.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlapping area of r and o. The second result is
// false when they do not overlap.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// OverlapsVertically reports whether the vertical spans of r and o share any
// rows. Used to decide whether two windows face each other horizontally.
func (r Rect) OverlapsVertically(o Rect) bool {
	return r.Y < o.Bottom() && o.Y < r.Bottom()
}

func (r Rect) OverlapsHorizontally(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right()
}

// EdgeDistances is the distance from each edge of r to the matching edge of
// the enclosing area. Negative values mean r sticks out on that side.
type EdgeDistances struct {
	Left, Top, Right, Bottom int
}

func (r Rect) DistancesTo(area Rect) EdgeDistances {
	return EdgeDistances{
		Left:   r.X - area.X,
		Top:    r.Y - area.Y,
		Right:  area.Right() - r.Right(),
		Bottom: area.Bottom() - r.Bottom(),
	}
}

// Clamp limits v to [lo, hi]. When hi < lo, lo wins.
func Clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Finite reports whether every value is a usable coordinate.
func Finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Axis names the direction two paired windows share.
type Axis int

const (
	AxisNone Axis = iota
	// AxisHorizontal is a side-by-side pair sharing a vertical border.
	AxisHorizontal
	// AxisVertical is a stacked pair sharing a horizontal border.
	AxisVertical
)

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	default:
		return "none"
	}
}

// PairAxis classifies how a and b sit relative to each other.
func PairAxis(a, b Rect) Axis {
	if a.Y == b.Y && a.Height == b.Height && !a.OverlapsHorizontally(b) {
		return AxisHorizontal
	}
	if a.X == b.X && a.Width == b.Width && !a.OverlapsVertically(b) {
		return AxisVertical
	}
	return AxisNone
}
