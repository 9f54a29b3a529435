package core

import "fmt"

// Position3D is a point in world space.
type Position3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// MapSpace converts a world position into the renderer's map space, where
// both horizontal axes are negated.
func (p Position3D) MapSpace() Position3D {
	return Position3D{X: -p.X, Y: -p.Y, Z: p.Z}
}

// Tag returns the truncated integer "y,x,z" identity used for map locations.
func (p Position3D) Tag() string {
	return fmt.Sprintf("%d,%d,%d", int(p.Y), int(p.X), int(p.Z))
}

func (p Position3D) String() string {
	return fmt.Sprintf("%.2f,%.2f,%.2f", p.X, p.Y, p.Z)
}
