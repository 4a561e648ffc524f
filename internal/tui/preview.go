package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/geom"
	"github.com/1broseidon/floatdesk/internal/tiling"
)

// previewArea is the reference viewport summaries are computed in.
var previewArea = geom.Rect{Width: 1920, Height: 1080}

// layoutRects resolves name for count windows and lays them out in area.
// The returned name differs from name when the layout degraded.
func layoutRects(cfg *config.Config, name string, count int, area geom.Rect) (string, []geom.Rect) {
	if cfg == nil || count < 1 {
		return name, nil
	}
	resolved, rects, err := tiling.PreviewLayout(cfg, name, count, area)
	if err != nil {
		return name, nil
	}
	return resolved, rects
}

func summarizeLayout(cfg *config.Config, name string, count int) string {
	resolved, rects := layoutRects(cfg, name, count, previewArea)
	if len(rects) == 0 {
		return "no windows"
	}

	minW, minH := rects[0].Width, rects[0].Height
	maxW, maxH := rects[0].Width, rects[0].Height
	for _, r := range rects[1:] {
		minW = min(minW, r.Width)
		minH = min(minH, r.Height)
		maxW = max(maxW, r.Width)
		maxH = max(maxH, r.Height)
	}

	var s string
	if minW == maxW && minH == maxH {
		s = fmt.Sprintf("%d windows • %d×%d px each", len(rects), minW, minH)
	} else {
		s = fmt.Sprintf("%d windows • min %d×%d • max %d×%d", len(rects), minW, minH, maxW, maxH)
	}
	if resolved != name {
		s += fmt.Sprintf(" • falls back to %s", resolved)
	}
	return s
}

// renderASCIIPreview draws the layout's windows on a width×height canvas.
func renderASCIIPreview(cfg *config.Config, name string, count, width, height int) []string {
	if width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// Each character stands for a 2×2 block of the simulated viewport.
	area := geom.Rect{Width: width * 2, Height: height * 2}
	_, rects := layoutRects(cfg, name, count, area)

	for i, rect := range rects {
		drawTile(canvas, rect, i+1, area.Width, area.Height, width, height)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawTile(canvas [][]rune, rect geom.Rect, num int, areaW, areaH, canvasW, canvasH int) {
	x1 := rect.X * canvasW / areaW
	y1 := rect.Y * canvasH / areaH
	x2 := rect.Right() * canvasW / areaW
	y2 := rect.Bottom() * canvasH / areaH

	x1 = max(x1, 1)
	y1 = max(y1, 1)
	x2 = min(x2, canvasW-2)
	y2 = min(y2, canvasH-2)

	// Need at least 2x2 for a tile
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		label := fmt.Sprintf("%d", num)
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
