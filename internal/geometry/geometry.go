// Package geometry generates the line segments for markers, circles and
// location X-marks. All outputs are in map space: the X and Y of the input
// world position are negated.
package geometry

import (
	"math"

	"github.com/mqmap/overlay/pkg/core"
)

// Segment is one line of generated geometry.
type Segment struct {
	Start core.Position3D
	End   core.Position3D
}

// HeadingToDegrees converts the game's 512-unit heading to degrees.
const HeadingToDegrees = 0.703125

func seg(x0, y0, x1, y1, z float64) Segment {
	return Segment{
		Start: core.Position3D{X: x0, Y: y0, Z: z},
		End:   core.Position3D{X: x1, Y: y1, Z: z},
	}
}

func rad(deg float64) float64 {
	return deg / 180 * math.Pi
}

// Marker returns the outline of marker m centred on pos. Marker sizes are
// integral and halved with integer division, like the host's own markers.
func Marker(m core.MarkerType, pos core.Position3D, heading float64, size int) []Segment {
	switch m {
	case core.MarkerTriangle:
		return Triangle(pos, heading, size)
	case core.MarkerSquare:
		return Square(pos, size)
	case core.MarkerDiamond:
		return Diamond(pos, size)
	case core.MarkerRing:
		return Ring(pos, size)
	}
	return nil
}

// Square is an axis-aligned box with half-side size/2.
func Square(pos core.Position3D, size int) []Segment {
	half := float64(size / 2)
	x0, x1 := -pos.X-half, -pos.X+half
	y0, y1 := -pos.Y-half, -pos.Y+half
	return []Segment{
		seg(x0, y0, x1, y0, pos.Z),
		seg(x1, y0, x1, y1, pos.Z),
		seg(x1, y1, x0, y1, pos.Z),
		seg(x0, y1, x0, y0, pos.Z),
	}
}

// Triangle points in the direction of travel given by heading.
func Triangle(pos core.Position3D, heading float64, size int) []Segment {
	angle := heading * HeadingToDegrees
	r := float64(size) * 1.5 * math.Sqrt(3) / 3
	x := [3]float64{
		-pos.X + r*math.Sin(rad(angle+180)),
		-pos.X - r*math.Sin(rad(angle+210)),
		-pos.X + r*math.Sin(rad(angle+330)),
	}
	y := [3]float64{
		-pos.Y + r*math.Cos(rad(angle+180)),
		-pos.Y - r*math.Cos(rad(angle+210)),
		-pos.Y + r*math.Cos(rad(angle+330)),
	}
	return []Segment{
		seg(x[0], y[0], x[1], y[1], pos.Z),
		seg(x[1], y[1], x[2], y[2], pos.Z),
		seg(x[2], y[2], x[0], y[0], pos.Z),
	}
}

// Diamond is a square rotated 45 degrees.
func Diamond(pos core.Position3D, size int) []Segment {
	s := float64(size)
	x := [3]float64{-pos.X, -pos.X + 0.71*s, -pos.X - 0.71*s}
	y := [3]float64{-pos.Y - 0.71*s, -pos.Y, -pos.Y + 0.71*s}
	return []Segment{
		seg(x[0], y[0], x[1], y[1], pos.Z),
		seg(x[1], y[1], x[0], y[2], pos.Z),
		seg(x[0], y[2], x[2], y[1], pos.Z),
		seg(x[2], y[1], x[0], y[0], pos.Z),
	}
}

// Ring is an octagon of radius size, rotated by half a side.
func Ring(pos core.Position3D, size int) []Segment {
	s := float64(size)
	out := make([]Segment, 8)
	for i := range out {
		a0 := rad(float64(i)*45 + 22.5)
		a1 := rad(float64(i+1)*45 + 22.5)
		out[i] = seg(
			-pos.X+s*math.Sin(a0), -pos.Y+s*math.Cos(a0),
			-pos.X+s*math.Sin(a1), -pos.Y+s*math.Cos(a1),
			pos.Z,
		)
	}
	return out
}

// CircleSegments is the number of lines a circle is tessellated into.
const CircleSegments = 36

// Circle tessellates a circle of the given radius into 10 degree segments.
func Circle(pos core.Position3D, radius float64) []Segment {
	out := make([]Segment, CircleSegments)
	for i := range out {
		a0 := rad(float64(i * 10))
		a1 := rad(float64((i + 1) * 10))
		out[i] = seg(
			-pos.X+radius*math.Cos(a0), -pos.Y+radius*math.Sin(a0),
			-pos.X+radius*math.Cos(a1), -pos.Y+radius*math.Sin(a1),
			pos.Z,
		)
	}
	return out
}

// XMark draws the cross used for location markers. halfLen is the arm
// length. Each width step past the first adds four lines offset inward by
// one unit per step to thicken the cross.
func XMark(pos core.Position3D, halfLen float64, width int) []Segment {
	x, y, l := -pos.X, -pos.Y, halfLen
	out := make([]Segment, 0, 2+4*max(width-1, 0))
	out = append(out,
		seg(x-l, y-l, x+l, y+l, pos.Z),
		seg(x-l, y+l, x+l, y-l, pos.Z),
	)
	for w := 2; w <= width; w++ {
		o := float64(w - 1)
		out = append(out,
			seg(x-l, y-l+o, x+l-o, y+l, pos.Z),
			seg(x-l+o, y+l, x+l, y-l+o, pos.Z),
			seg(x-l+o, y-l, x+l, y+l-o, pos.Z),
			seg(x-l, y+l-o, x+l-o, y-l, pos.Z),
		)
	}
	return out
}
