// Package geo exports overlay views as GeoJSON.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/mqmap/overlay/pkg/core"
)

// World positions are treated as EPSG:3857 metres, scaled by the exporter.
// Reprojected output is EPSG:4326 longitude/latitude.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// mercatorBound is the extent of EPSG:3857 on both axes.
const mercatorBound = 20037508.342789244

// Position3DFromString parses a "x,y" or "x,y,z" string into a core.Position3D.
func Position3DFromString(coords string) (core.Position3D, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) < 2 {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	var z float64
	if len(coordsSplit) > 2 {
		z, err = strconv.ParseFloat(strings.TrimSpace(coordsSplit[2]), 64)
		if err != nil {
			return core.Position3D{}, ErrInvalidCoordinates
		}
	}
	return core.Position3D{X: x, Y: y, Z: z}, nil
}

// PointFromPosition creates an XYZ point.
func PointFromPosition(p core.Position3D) (geom.Point, error) {
	pt, err := geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: p.X, Y: p.Y},
		Z:    p.Z,
		Type: geom.DimXYZ,
	})
	if err != nil {
		return geom.Point{}, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}
	return pt, nil
}

// Projector maps world positions into output coordinates.
type Projector struct {
	scale     float64
	reproject bool
	transform func(a, b, c float64) (float64, float64, float64)
}

// NewProjector returns a projector that multiplies positions by scale
// and, when reproject is set, converts them from EPSG:3857 to EPSG:4326.
// A non-positive scale means 1.
func NewProjector(scale float64, reproject bool) Projector {
	if scale <= 0 {
		scale = 1
	}
	p := Projector{scale: scale, reproject: reproject}
	if reproject {
		p.transform = wgs84.EPSG().Transform(3857, 4326)
	}
	return p
}

// Project converts p. Positions outside the Mercator extent cannot be
// reprojected.
func (pr Projector) Project(p core.Position3D) (core.Position3D, error) {
	x, y := p.X*pr.scale, p.Y*pr.scale
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	if !pr.reproject {
		return core.Position3D{X: x, Y: y, Z: p.Z}, nil
	}
	if math.Abs(x) > mercatorBound || math.Abs(y) > mercatorBound {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	lon, lat, _ := pr.transform(x, y, 0)
	return core.Position3D{X: lon, Y: lat, Z: p.Z}, nil
}

// Point projects p and wraps it as a point.
func (pr Projector) Point(p core.Position3D) (geom.Point, error) {
	q, err := pr.Project(p)
	if err != nil {
		return geom.Point{}, err
	}
	return PointFromPosition(q)
}
