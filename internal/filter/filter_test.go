package filter

import (
	"testing"

	"github.com/mqmap/overlay/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryStartupState(t *testing.T) {
	r := NewRegistry()

	for _, id := range []ID{All, PC, NPC, Target, TargetLine, NormalLabels, Corpse, NPCCorpse, PCCorpse} {
		assert.True(t, r.IsEnabled(id), r.Option(id).Name)
	}
	assert.False(t, r.IsEnabled(Ground))
	assert.False(t, r.Option(ContextMenu).Enabled)
	assert.True(t, r.Option(ContextMenu).DefaultEnabled)
	assert.Equal(t, core.RGB(255, 0, 255), r.Option(PC).Color)
	assert.Equal(t, core.Color(0), r.Option(All).Color)
}

func TestOptionOutOfRangeReturnsInvalid(t *testing.T) {
	r := NewRegistry()
	for _, id := range []ID{-1, Invalid, 99} {
		o := r.Option(id)
		assert.Equal(t, Invalid, o.ID)
		assert.Equal(t, "Invalid", o.Name)
		assert.True(t, r.IsEnabled(id))
	}
}

func TestInvalidSentinelIsNotShared(t *testing.T) {
	r := NewRegistry()
	o := r.Option(99)
	o.Name = "Clobbered"
	o.Enabled = true

	fresh := r.Option(-1)
	assert.NotSame(t, o, fresh)
	assert.Equal(t, "Invalid", fresh.Name)
	assert.False(t, fresh.Enabled)
}

func TestChildDisabledWhenParentDisabled(t *testing.T) {
	r := NewRegistry()
	for _, o := range r.Options() {
		o.Enabled = true
	}
	for _, parent := range r.Options() {
		r.Option(parent.ID).Enabled = false
		for _, child := range r.Options() {
			if child.Requires == parent.ID {
				assert.False(t, r.IsEnabled(child.ID), "%s requires %s", child.Name, parent.Name)
			}
		}
		r.Option(parent.ID).Enabled = true
	}
}

func TestIsEnabledTransitive(t *testing.T) {
	r := NewRegistry()
	require.True(t, r.IsEnabled(TargetLine))

	r.SetEnabled(All, false)
	assert.False(t, r.IsEnabled(TargetLine))
	assert.False(t, r.IsEnabled(PC))
	assert.True(t, r.Option(TargetLine).Enabled)
}

func TestRequirementsMet(t *testing.T) {
	r := NewRegistry()
	r.SetEnabled(PCConColor, false)
	assert.True(t, r.RequirementsMet(PCConColor))

	r.SetEnabled(PC, false)
	assert.False(t, r.RequirementsMet(PCConColor))
	assert.True(t, r.RequirementsMet(All))
}

func TestSetEnabledReportsRegenerate(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.SetEnabled(Named, true))
	assert.False(t, r.SetEnabled(Named, true), "unchanged state")
	assert.False(t, r.SetEnabled(Ground, true))
}

func TestSetRadius(t *testing.T) {
	r := NewRegistry()
	r.SetRadius(CastRadius, 100)
	assert.True(t, r.IsEnabled(CastRadius))
	assert.Equal(t, 100.0, r.Option(CastRadius).Radius)

	r.SetRadius(CastRadius, 0)
	assert.False(t, r.IsEnabled(CastRadius))

	r.SetRadius(PC, 50)
	assert.Zero(t, r.Option(PC).Radius)
}

func TestColors(t *testing.T) {
	r := NewRegistry()
	r.SetColor(NPC, core.Color(0x00010203))
	assert.Equal(t, core.Color(0xFF010203), r.Option(NPC).Color)

	r.ResetColor(NPC)
	assert.Equal(t, r.Option(NPC).DefaultColor, r.Option(NPC).Color)

	r.SetColor(Vector, core.ColorRed)
	assert.Zero(t, r.Option(Vector).Color)
}

func TestLookup(t *testing.T) {
	r := NewRegistry()
	id, ok := r.Lookup("targetmelee")
	require.True(t, ok)
	assert.Equal(t, TargetMelee, id)

	_, ok = r.Lookup("nothing")
	assert.False(t, ok)
}

func TestSetMarker(t *testing.T) {
	r := NewRegistry()
	r.SetMarker(NPC, core.MarkerRing, 8)
	assert.Equal(t, core.MarkerRing, r.Option(NPC).Marker)
	assert.Equal(t, 8, r.Option(NPC).MarkerSize)

	r.SetMarker(NPC, core.MarkerUnknown, 8)
	assert.Equal(t, core.MarkerNone, r.Option(NPC).Marker)
}

func TestForKind(t *testing.T) {
	assert.Equal(t, PC, ForKind(core.KindPC))
	assert.Equal(t, Ground, ForKind(core.KindItem))
	assert.Equal(t, Campfire, ForKind(core.KindCampfire))
	assert.Equal(t, Invalid, ForKind(core.KindFlyer))
}

func TestDefaultTableShape(t *testing.T) {
	r := NewRegistry()
	for _, o := range r.Options() {
		assert.NotEmpty(t, o.Name)
		assert.NotEqual(t, o.ID, o.Requires, o.Name)
		assert.True(t, o.Has(Toggle), o.Name)
		if o.Has(IsObject) {
			assert.True(t, o.HasColor(), o.Name)
		}
	}
}
