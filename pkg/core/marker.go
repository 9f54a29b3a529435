package core

import "strings"

// MarkerType is the polygon drawn at an object's position.
type MarkerType int

const (
	MarkerNone MarkerType = iota
	MarkerTriangle
	MarkerSquare
	MarkerDiamond
	MarkerRing
	MarkerUnknown
)

var markerNames = [...]string{"None", "Triangle", "Square", "Diamond", "Ring"}

func (m MarkerType) String() string {
	if m >= 0 && int(m) < len(markerNames) {
		return markerNames[m]
	}
	return "Unknown"
}

// FindMarker matches a marker name case-insensitively.
func FindMarker(name string) MarkerType {
	for i, n := range markerNames {
		if strings.EqualFold(n, name) {
			return MarkerType(i)
		}
	}
	return MarkerUnknown
}

// Segments is the number of line segments the marker is drawn with.
func (m MarkerType) Segments() int {
	switch m {
	case MarkerTriangle:
		return 3
	case MarkerSquare, MarkerDiamond:
		return 4
	case MarkerRing:
		return 8
	}
	return 0
}
