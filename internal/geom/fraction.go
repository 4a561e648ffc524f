package geom

import (
	"fmt"
	"math"
)

// Fraction is a layout template cell expressed as fractions of an area.
type Fraction struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Resolve maps the template onto area. Both edges are rounded independently
// so neighbouring cells share a border with no gap or overlap.
func (f Fraction) Resolve(area Rect) Rect {
	x0 := area.X + round(f.X*float64(area.Width))
	y0 := area.Y + round(f.Y*float64(area.Height))
	x1 := area.X + round((f.X+f.W)*float64(area.Width))
	y1 := area.Y + round((f.Y+f.H)*float64(area.Height))
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Validate checks the cell lies inside the unit square with a positive size.
func (f Fraction) Validate() error {
	if !Finite(f.X, f.Y, f.W, f.H) {
		return fmt.Errorf("non-finite fraction")
	}
	if f.W <= 0 || f.H <= 0 {
		return fmt.Errorf("w and h must be > 0")
	}
	if f.X < 0 || f.Y < 0 || f.X+f.W > 1.0001 || f.Y+f.H > 1.0001 {
		return fmt.Errorf("fraction (%g,%g %gx%g) leaves the unit square", f.X, f.Y, f.W, f.H)
	}
	return nil
}

// FractionOf expresses r relative to area, the inverse of Resolve.
func FractionOf(r, area Rect) Fraction {
	if area.Width <= 0 || area.Height <= 0 {
		return Fraction{}
	}
	w := float64(area.Width)
	h := float64(area.Height)
	return Fraction{
		X: float64(r.X-area.X) / w,
		Y: float64(r.Y-area.Y) / h,
		W: float64(r.Width) / w,
		H: float64(r.Height) / h,
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
