package search

import (
	"testing"

	"github.com/mqmap/overlay/internal/world"
	"github.com/mqmap/overlay/pkg/core"
	"github.com/stretchr/testify/assert"
)

type observer struct {
	local   *world.Spawn
	blocked map[world.SpawnID]bool
}

func (o observer) LocalPlayer() (world.Spawn, bool) {
	if o.local == nil {
		return world.Spawn{}, false
	}
	return *o.local, true
}

func (o observer) CanSee(id world.SpawnID) bool { return !o.blocked[id] }

func TestParse(t *testing.T) {
	q := Parse(`npc named "fire giant" range 10 abc loc 100 -50 radius 30 zradius 5 id 7 notid 9 nopet`)
	assert.Equal(t, core.KindNPC, q.Kind)
	assert.True(t, q.Named)
	assert.True(t, q.NoPet)
	assert.Equal(t, 10, q.MinLevel)
	assert.Equal(t, MaxLevel, q.MaxLevel, "non-numeric max falls back to default")
	assert.Equal(t, "fire giant", q.Name)
	assert.True(t, q.KnownLocation)
	assert.Equal(t, 100.0, q.Loc.Y)
	assert.Equal(t, -50.0, q.Loc.X)
	assert.Equal(t, 30.0, q.Radius)
	assert.Equal(t, 5.0, q.ZRadius)
	assert.True(t, q.HasID)
	assert.Equal(t, world.SpawnID(7), q.ID)
	assert.Equal(t, world.SpawnID(9), q.NotID)
}

func TestParseDefaultsAndName(t *testing.T) {
	q := Parse("orc pawn xtarhater")
	assert.Equal(t, core.KindNone, q.Kind)
	assert.Equal(t, "orc pawn", q.Name)
	assert.True(t, q.XTarHater)
	assert.Equal(t, NoRadius, q.Radius)

	assert.Equal(t, New(), Parse(""))
}

func TestMatchesKindLevelAndID(t *testing.T) {
	rat := world.Spawn{ID: 5, RawType: world.RawNPC, Name: "a_rat00", DisplayedName: "a rat", Level: 3}
	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"npc", true},
		{"pc", false},
		{"range 1 5", true},
		{"range 4 10", false},
		{"id 5", true},
		{"id 6", false},
		{"notid 5", false},
		{"RAT", true},
		{"a rat", true},
		{"gnoll", false},
		{"named", false},
		{"gm", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.query).Matches(rat, nil))
		})
	}
}

func TestMatchesCorpseSubtypes(t *testing.T) {
	npcCorpse := world.Spawn{RawType: world.RawCorpse, Name: "a_rat's_corpse"}
	pcCorpse := world.Spawn{RawType: world.RawCorpse, Name: "Bob's_corpse", Deity: 201}

	assert.True(t, Parse("npccorpse").Matches(npcCorpse, nil))
	assert.False(t, Parse("npccorpse").Matches(pcCorpse, nil))
	assert.True(t, Parse("pccorpse").Matches(pcCorpse, nil))
	assert.True(t, Parse("corpse").Matches(pcCorpse, nil))
}

func TestMatchesNoPet(t *testing.T) {
	pet := world.Spawn{RawType: world.RawNPC, MasterID: 1}
	merc := world.Spawn{RawType: world.RawNPC, Mercenary: true}
	q := Parse("nopet")
	assert.False(t, q.Matches(pet, nil))
	assert.False(t, q.Matches(merc, nil))
	assert.True(t, q.Matches(world.Spawn{RawType: world.RawNPC}, nil))
}

func TestMatchesDistance(t *testing.T) {
	me := world.Spawn{ID: 1, Pos: core.Position3D{X: 0, Y: 0, Z: 0}}
	obs := observer{local: &me, blocked: map[world.SpawnID]bool{3: true}}
	near := world.Spawn{ID: 2, Pos: core.Position3D{X: 30, Y: 40, Z: 2}}
	far := world.Spawn{ID: 3, Pos: core.Position3D{X: 300, Y: 400, Z: 50}}

	q := Parse("radius 50")
	assert.True(t, q.Matches(near, obs))
	assert.False(t, q.Matches(far, obs))
	assert.True(t, q.Matches(far, observer{}), "no local player skips the check")

	assert.True(t, Parse("loc 400 300 radius 1").Matches(far, obs))
	assert.False(t, Parse("loc 0 0 radius 1").Matches(far, obs))

	onTop := world.Spawn{ID: 4, Pos: me.Pos}
	assert.True(t, Parse("radius 1").Matches(onTop, obs), "zero distance is inside any radius")
	assert.True(t, Parse("loc 0 0 radius 1").Matches(onTop, obs))

	assert.True(t, Parse("zradius 5").Matches(near, obs))
	assert.False(t, Parse("zradius 5").Matches(far, obs))

	assert.False(t, Parse("los").Matches(far, obs))
	assert.True(t, Parse("los").Matches(near, obs))
}

func TestString(t *testing.T) {
	assert.Equal(t, "", New().String())
	assert.Equal(t, "npc orc range 10 20", Parse("npc orc range 10 20").String())
	assert.Equal(t, "pccorpse", Parse("pccorpse").String())
	assert.Equal(t, "#", Parse("#").String())
}
