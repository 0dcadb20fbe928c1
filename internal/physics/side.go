package physics

import (
	"fmt"
	"strings"
)

// Side is the pedal a stroke was made with.
type Side int

const (
	SideNone Side = iota // never pedaled
	SideLeft
	SideRight
)

// String returns the lowercase side name.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// Opposite returns the other pedal. SideNone has no opposite.
func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return SideNone
	}
}

// ParseSide parses "left"/"l" or "right"/"r", case-insensitive.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return SideLeft, nil
	case "right", "r":
		return SideRight, nil
	}
	return SideNone, fmt.Errorf("physics: unknown pedal side %q", s)
}
