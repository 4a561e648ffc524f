package geom

import "fmt"

// Zone is a viewport region a window can be snapped into.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneFull
	ZoneHalfLeft
	ZoneHalfRight
	ZoneQuarterTL
	ZoneQuarterTR
	ZoneQuarterBL
	ZoneQuarterBR
)

var zoneNames = map[Zone]string{
	ZoneNone:      "none",
	ZoneFull:      "full",
	ZoneHalfLeft:  "half-left",
	ZoneHalfRight: "half-right",
	ZoneQuarterTL: "quarter-tl",
	ZoneQuarterTR: "quarter-tr",
	ZoneQuarterBL: "quarter-bl",
	ZoneQuarterBR: "quarter-br",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("Zone(%d)", int(z))
}

// ParseZone is the inverse of Zone.String.
func ParseZone(s string) (Zone, error) {
	for z, name := range zoneNames {
		if name == s {
			return z, nil
		}
	}
	return ZoneNone, fmt.Errorf("unknown snap zone %q", s)
}

// Fraction returns the template the zone occupies.
func (z Zone) Fraction() (Fraction, bool) {
	switch z {
	case ZoneFull:
		return Fraction{0, 0, 1, 1}, true
	case ZoneHalfLeft:
		return Fraction{0, 0, 0.5, 1}, true
	case ZoneHalfRight:
		return Fraction{0.5, 0, 0.5, 1}, true
	case ZoneQuarterTL:
		return Fraction{0, 0, 0.5, 0.5}, true
	case ZoneQuarterTR:
		return Fraction{0.5, 0, 0.5, 0.5}, true
	case ZoneQuarterBL:
		return Fraction{0, 0.5, 0.5, 0.5}, true
	case ZoneQuarterBR:
		return Fraction{0.5, 0.5, 0.5, 0.5}, true
	default:
		return Fraction{}, false
	}
}

// ZoneMetrics sizes the hot areas along the viewport border.
type ZoneMetrics struct {
	EdgeMargin int
	CornerSize int
}

// DefaultZoneMetrics matches the hot areas of the browser host.
var DefaultZoneMetrics = ZoneMetrics{EdgeMargin: 50, CornerSize: 150}

// DetectZone maps a pointer position to a snap zone. Corners need the pointer
// near both edges inside the corner square. The top edge maps to full, the
// sides to halves; the bottom edge alone never snaps.
func DetectZone(view Rect, x, y int, m ZoneMetrics) Zone {
	left := x - view.X
	top := y - view.Y
	right := view.Right() - x
	bottom := view.Bottom() - y

	nearTop := top <= m.EdgeMargin
	nearBottom := bottom <= m.EdgeMargin
	nearLeft := left <= m.EdgeMargin
	nearRight := right <= m.EdgeMargin

	inTL := left <= m.CornerSize && top <= m.CornerSize
	inTR := right <= m.CornerSize && top <= m.CornerSize
	inBL := left <= m.CornerSize && bottom <= m.CornerSize
	inBR := right <= m.CornerSize && bottom <= m.CornerSize

	switch {
	case inTL && nearTop && nearLeft:
		return ZoneQuarterTL
	case inTR && nearTop && nearRight:
		return ZoneQuarterTR
	case inBL && nearBottom && nearLeft:
		return ZoneQuarterBL
	case inBR && nearBottom && nearRight:
		return ZoneQuarterBR
	case nearTop && !inTL && !inTR:
		return ZoneFull
	case nearLeft && !inTL && !inBL:
		return ZoneHalfLeft
	case nearRight && !inTR && !inBR:
		return ZoneHalfRight
	}
	return ZoneNone
}
