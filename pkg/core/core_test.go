package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColor(t *testing.T) {
	c := RGB(255, 0, 128)
	assert.Equal(t, Color(0xFFFF0080), c)
	assert.Equal(t, uint32(0xFF0080), c.ToRGB())
	assert.Equal(t, Color(0xFF00FF7F), c.Inverted())
	assert.Equal(t, "255 0 128", c.String())
	assert.Equal(t, RGB(255, 0, 0), FromRGB(300, -4, 0))
	assert.Equal(t, Color(0x10FF0080), c.WithAlpha(0x10))
}

func TestConColor(t *testing.T) {
	tests := map[int]Color{0: ColorGrey, 1: ColorGrey, 2: ColorGreen, 3: ColorLightBlue, 4: ColorBlue, 5: ColorWhite, 6: ColorYellow, 7: ColorRed, 42: ColorWhite}
	for level, want := range tests {
		assert.Equal(t, want, ConColor(level), "level %d", level)
	}
}

func TestPositionTag(t *testing.T) {
	p := Position3D{X: 10.9, Y: -20.5, Z: 3.2}
	assert.Equal(t, "-20,10,3", p.Tag())
	assert.Equal(t, Position3D{X: -10.9, Y: 20.5, Z: 3.2}, p.MapSpace())
}

func TestFindMarker(t *testing.T) {
	assert.Equal(t, MarkerRing, FindMarker("RING"))
	assert.Equal(t, MarkerNone, FindMarker("none"))
	assert.Equal(t, MarkerUnknown, FindMarker("hexagon"))
	assert.Equal(t, 3, MarkerTriangle.Segments())
	assert.Equal(t, 8, MarkerRing.Segments())
	assert.Equal(t, 0, MarkerNone.Segments())
}

func TestParseSpawnKind(t *testing.T) {
	k, ok := ParseSpawnKind("NPCCorpse")
	assert.True(t, ok)
	assert.Equal(t, KindNPCCorpse, k)
	_, ok = ParseSpawnKind("item")
	assert.False(t, ok)
	assert.Equal(t, "mercenary", KindMercenary.String())
}
