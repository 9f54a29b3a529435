package geo

import (
	"errors"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/mqmap/overlay/pkg/core"
)

// ErrDegenerateLine is returned for a line whose points all coincide in XY.
var ErrDegenerateLine = errors.New("line string needs two distinct points")

// LineString projects points and joins them into an XYZ line string.
func (pr Projector) LineString(points ...core.Position3D) (geom.LineString, error) {
	if len(points) < 2 {
		return geom.LineString{}, fmt.Errorf("polyline must have at least 2 points, got %d", len(points))
	}
	flat := make([]float64, 0, len(points)*3)
	for _, p := range points {
		q, err := pr.Project(p)
		if err != nil {
			return geom.LineString{}, err
		}
		flat = append(flat, q.X, q.Y, q.Z)
	}
	if !distinctXY(points) {
		return geom.LineString{}, ErrDegenerateLine
	}
	ls, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXYZ))
	if err != nil {
		return geom.LineString{}, fmt.Errorf("building line string: %w", err)
	}
	return ls, nil
}

func distinctXY(points []core.Position3D) bool {
	for _, p := range points[1:] {
		if p.X != points[0].X || p.Y != points[0].Y {
			return true
		}
	}
	return false
}
