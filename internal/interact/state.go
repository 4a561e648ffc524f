// Package interact turns pointer gestures into window geometry: dragging,
// edge and corner resizing with linked-peer coupling, and viewport relayout.
package interact

import (
	"fmt"
	"strings"
)

// State is the phase of the current pointer gesture.
type State int

const (
	// StateIdle means no gesture is active
	StateIdle State = iota
	// StateDragging means a window follows the pointer
	StateDragging
	// StateResizing means a window edge or corner follows the pointer
	StateResizing
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Edge is a bit set of the window edges a resize handle moves.
type Edge uint8

const (
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e Edge) Horizontal() bool { return e&(EdgeLeft|EdgeRight) != 0 }
func (e Edge) Vertical() bool   { return e&(EdgeTop|EdgeBottom) != 0 }

func (e Edge) String() string {
	var b strings.Builder
	if e&EdgeTop != 0 {
		b.WriteByte('n')
	}
	if e&EdgeBottom != 0 {
		b.WriteByte('s')
	}
	if e&EdgeRight != 0 {
		b.WriteByte('e')
	}
	if e&EdgeLeft != 0 {
		b.WriteByte('w')
	}
	return b.String()
}

// ParseEdge reads compass notation ("e", "sw", "nw") as sent by the host's
// resize handles.
func ParseEdge(s string) (Edge, error) {
	var e Edge
	for _, c := range strings.ToLower(s) {
		switch c {
		case 'n':
			e |= EdgeTop
		case 's':
			e |= EdgeBottom
		case 'e':
			e |= EdgeRight
		case 'w':
			e |= EdgeLeft
		default:
			return 0, fmt.Errorf("invalid resize edge %q", s)
		}
	}
	if e == 0 || (e&EdgeTop != 0 && e&EdgeBottom != 0) || (e&EdgeLeft != 0 && e&EdgeRight != 0) {
		return 0, fmt.Errorf("invalid resize edge %q", s)
	}
	return e, nil
}

// Region is the part of a window a pointer-down landed on.
type Region int

const (
	RegionBody Region = iota
	RegionTitle
	RegionHandle
)

// ParseRegion maps the host's region names.
func ParseRegion(s string) (Region, error) {
	switch s {
	case "", "body":
		return RegionBody, nil
	case "title":
		return RegionTitle, nil
	case "handle":
		return RegionHandle, nil
	default:
		return RegionBody, fmt.Errorf("invalid pointer region %q", s)
	}
}

// Target identifies what a pointer-down hit.
type Target struct {
	WindowID string
	Region   Region
	// Edge is set for RegionHandle.
	Edge Edge
}
