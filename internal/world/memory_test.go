package world

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mqmap/overlay/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLookups(t *testing.T) {
	m := NewMemory("qeynos")
	m.AddSpawn(Spawn{ID: 1, Name: "Me"})
	m.AddSpawn(Spawn{ID: 2, Name: "a_rat"})
	m.SetLocalPlayer(1)
	m.SetTarget(2)

	me, ok := m.LocalPlayer()
	require.True(t, ok)
	assert.Equal(t, "Me", me.Name)

	tgt, ok := m.Target()
	require.True(t, ok)
	assert.Equal(t, SpawnID(2), tgt.ID)

	m.RemoveSpawn(2)
	_, ok = m.Target()
	assert.False(t, ok)
	_, err := m.Spawn(2)
	assert.ErrorIs(t, err, ErrStaleHandle)

	spawns, err := m.Spawns()
	require.NoError(t, err)
	assert.Len(t, spawns, 1)
}

func TestMemoryStepAndZone(t *testing.T) {
	m := NewMemory("a")
	m.AddSpawn(Spawn{ID: 1, SpeedX: 2, SpeedY: -1})
	m.Step(2 * time.Second)
	s, err := m.Spawn(1)
	require.NoError(t, err)
	assert.Equal(t, core.Position3D{X: 4, Y: -2}, s.Pos)

	m.SetZone("b")
	assert.Equal(t, "b", m.Zone())
	_, ok := m.LocalPlayer()
	assert.False(t, ok)
}

func TestMemoryLineOfSight(t *testing.T) {
	m := NewMemory("a")
	assert.True(t, m.CanSee(3))
	m.SetLineOfSight(3, false)
	assert.False(t, m.CanSee(3))
}

func TestLoadScene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"zone": "freeport",
		"localPlayer": 1,
		"target": 2,
		"spawns": [
			{"id": 1, "name": "Me", "type": 0, "pos": {"x": 1, "y": 2, "z": 3}},
			{"id": 2, "name": "a_guard", "type": 1}
		],
		"groundItems": [{"id": 9, "name": "IT63", "friendlyName": "Sword"}]
	}`), 0644))

	m, err := LoadScene(path)
	require.NoError(t, err)
	assert.Equal(t, "freeport", m.Zone())
	me, ok := m.LocalPlayer()
	require.True(t, ok)
	assert.Equal(t, 3.0, me.Pos.Z)
	g, err := m.GroundItem(9)
	require.NoError(t, err)
	assert.Equal(t, "Sword", g.FriendlyName)

	_, err = LoadScene(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
