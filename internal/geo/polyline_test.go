package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqmap/overlay/pkg/core"
)

func TestLineString_Valid(t *testing.T) {
	pr := NewProjector(1, false)
	ls, err := pr.LineString(core.Position3D{X: 1, Y: 2, Z: 3}, core.Position3D{X: 4, Y: 5, Z: 6})
	require.NoError(t, err)

	seq := ls.Coordinates()
	require.Equal(t, 2, seq.Length())
	assert.Equal(t, 1.0, seq.Get(0).X)
	assert.Equal(t, 6.0, seq.Get(1).Z)
}

func TestLineString_TooFewPoints(t *testing.T) {
	_, err := NewProjector(1, false).LineString(core.Position3D{})
	require.Error(t, err)
}

func TestLineString_InvalidPoint(t *testing.T) {
	_, err := NewProjector(1, true).LineString(core.Position3D{}, core.Position3D{Y: 9e7})
	require.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestLineString_CoincidentPoints(t *testing.T) {
	p := core.Position3D{X: 7, Y: 8, Z: 1}
	_, err := NewProjector(1, false).LineString(p, core.Position3D{X: 7, Y: 8, Z: 2})
	require.ErrorIs(t, err, ErrDegenerateLine)
}
