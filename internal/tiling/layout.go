// Package tiling places groups of windows into named layouts and snaps single
// windows into viewport zones.
package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/geom"
)

// Cascade geometry: first window offset from the area origin, per-window
// step, and window size.
const (
	cascadeOriginX = 100
	cascadeOriginY = 80
	cascadeStep    = 40
	cascadeWidth   = 500
	cascadeHeight  = 600
)

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}

	// Calculate columns first (ceiling of square root)
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))

	// Calculate rows needed
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// CalculatePositions computes a grid with gaps. A short last row expands so
// its windows fill the full width.
func CalculatePositions(numWindows int, area geom.Rect, gapSize int) []geom.Rect {
	if numWindows == 0 {
		return nil
	}

	rows, cols := CalculateGrid(numWindows)

	// Gaps: one before each column and one after the last.
	cellWidth := (area.Width - (cols+1)*gapSize) / cols
	cellHeight := (area.Height - (rows+1)*gapSize) / rows

	lastRow := rows - 1
	inLastRow := numWindows - lastRow*cols
	lastCellWidth := cellWidth
	if inLastRow < cols {
		lastCellWidth = (area.Width - (inLastRow+1)*gapSize) / inLastRow
	}

	positions := make([]geom.Rect, numWindows)
	for i := 0; i < numWindows; i++ {
		row := i / cols
		col := i % cols
		width := cellWidth
		if row == lastRow {
			width = lastCellWidth
		}
		positions[i] = geom.Rect{
			X:      area.X + gapSize + col*(width+gapSize),
			Y:      area.Y + gapSize + row*(cellHeight+gapSize),
			Width:  width,
			Height: cellHeight,
		}
	}
	return positions
}

// CalculateCascade stacks windows diagonally, wrapping back to the origin
// when the next window would leave the area.
func CalculateCascade(numWindows int, area geom.Rect) []geom.Rect {
	width := min(cascadeWidth, area.Width)
	height := min(cascadeHeight, area.Height)

	positions := make([]geom.Rect, numWindows)
	offset := 0
	for i := range positions {
		x := area.X + cascadeOriginX + offset
		y := area.Y + cascadeOriginY + offset
		if x+width > area.Right() || y+height > area.Bottom() {
			offset = 0
			x = area.X + min(cascadeOriginX, area.Width-width)
			y = area.Y + min(cascadeOriginY, area.Height-height)
		}
		positions[i] = geom.Rect{X: x, Y: y, Width: width, Height: height}
		offset += cascadeStep
	}
	return positions
}

// CalculatePositionsWithLayout computes rects for numWindows windows. The
// result may be shorter than numWindows when the layout has fewer cells.
func CalculatePositionsWithLayout(
	numWindows int,
	area geom.Rect,
	layout *config.Layout,
	gapSize int,
) ([]geom.Rect, error) {
	if numWindows == 0 {
		return nil, nil
	}
	if area.Width < 1 || area.Height < 1 {
		return nil, fmt.Errorf("insufficient space for layout: area=%dx%d", area.Width, area.Height)
	}

	n := layout.Cardinality(numWindows)
	if n > numWindows {
		n = numWindows
	}

	switch layout.Mode {
	case config.LayoutModeTemplates:
		positions := make([]geom.Rect, n)
		for i := range positions {
			positions[i] = layout.Templates[i].Resolve(area)
		}
		return positions, nil

	case config.LayoutModeGrid:
		return CalculatePositions(n, area, gapSize), nil

	case config.LayoutModeColumns:
		return strip(n, area, gapSize, true), nil

	case config.LayoutModeRows:
		return strip(n, area, gapSize, false), nil

	case config.LayoutModeCascade:
		return CalculateCascade(n, area), nil

	default:
		return nil, fmt.Errorf("unsupported layout mode: %q", layout.Mode)
	}
}

// strip lays n windows in one row (horizontal) or one column.
func strip(n int, area geom.Rect, gapSize int, horizontal bool) []geom.Rect {
	positions := make([]geom.Rect, n)
	for i := range positions {
		var f geom.Fraction
		if horizontal {
			f = geom.Fraction{X: float64(i) / float64(n), W: 1 / float64(n), H: 1}
		} else {
			f = geom.Fraction{Y: float64(i) / float64(n), W: 1, H: 1 / float64(n)}
		}
		r := f.Resolve(area)
		if gapSize > 0 {
			r = inset(r, gapSize)
		}
		positions[i] = r
	}
	return positions
}

func inset(r geom.Rect, by int) geom.Rect {
	half := by / 2
	r.X += half
	r.Y += half
	r.Width = max(r.Width-by, 1)
	r.Height = max(r.Height-by, 1)
	return r
}
