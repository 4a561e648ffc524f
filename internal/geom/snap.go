package geom

// SnapToEdges moves r so that an edge lying within threshold of a viewport
// edge, or of the facing edge of another rect, lines up with it. The size of
// r never changes. Each axis snaps independently to its nearest target; on a
// tie the viewport wins.
func SnapToEdges(r, view Rect, others []Rect, threshold int) Rect {
	if threshold <= 0 {
		return r
	}

	dx, okX := nearest(threshold,
		delta{r.X, view.X},
		delta{r.Right(), view.Right()},
	)
	dy, okY := nearest(threshold,
		delta{r.Y, view.Y},
		delta{r.Bottom(), view.Bottom()},
	)

	for _, o := range others {
		if r.OverlapsVertically(o) {
			if d, ok := nearest(threshold, delta{r.X, o.Right()}, delta{r.Right(), o.X}); ok && (!okX || abs(d) < abs(dx)) {
				dx, okX = d, true
			}
		}
		if r.OverlapsHorizontally(o) {
			if d, ok := nearest(threshold, delta{r.Y, o.Bottom()}, delta{r.Bottom(), o.Y}); ok && (!okY || abs(d) < abs(dy)) {
				dy, okY = d, true
			}
		}
	}

	r.X += dx
	r.Y += dy
	return r
}

type delta struct {
	edge, target int
}

func nearest(threshold int, ds ...delta) (int, bool) {
	best, found := 0, false
	for _, d := range ds {
		diff := d.target - d.edge
		if abs(diff) > threshold {
			continue
		}
		if !found || abs(diff) < abs(best) {
			best, found = diff, true
		}
	}
	return best, found
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
