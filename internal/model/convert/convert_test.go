package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqmap/overlay/internal/engine"
	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/internal/search"
	"github.com/mqmap/overlay/pkg/core"
)

func sampleState() engine.State {
	settings := overlay.DefaultSettings()
	settings.ActiveLayer = 2
	settings.HighlightColor = core.RGB(1, 2, 3)
	settings.NameFormat = "%N (%l)"
	settings.Custom = search.Parse("npc a_rat")
	settings.HideRepeat = true
	settings.HideQuery = search.Parse("corpse")

	params := overlay.DefaultLocationParams()
	params.CircleRadius = 50

	st := engine.State{
		Settings:         settings,
		LocationDefaults: overlay.DefaultLocationParams(),
		Filters: []filter.Option{
			{Name: "NPC", Enabled: true, Color: core.RGB(255, 0, 0)},
			{Name: "CampRadius", Enabled: true, Radius: 100, Center: core.Position3D{X: 1, Y: 2, Z: 3}},
			{Name: "Named", Enabled: true, Marker: core.MarkerDiamond, MarkerSize: 8},
		},
		Locations: []engine.LocationState{
			{Label: "camp", Position: core.Position3D{X: 10, Y: 20}, Params: params},
			{Position: core.Position3D{X: -5, Y: 7, Z: 1}, Params: overlay.DefaultLocationParams(), IsDefault: true},
		},
	}
	st.Clicks.Left[1] = "/echo %x %y"
	st.Clicks.Right[3] = "/target id %i"
	return st
}

func TestStateToProfile(t *testing.T) {
	p := StateToProfile("Me", sampleState())

	assert.Equal(t, "Me", p.Name)
	assert.Equal(t, 2, p.Settings.Data().ActiveLayer)
	assert.Equal(t, "npc a_rat", p.Settings.Data().Custom)
	assert.Equal(t, "corpse", p.Settings.Data().HideQuery)
	require.Len(t, p.Filters, 3)
	assert.Equal(t, "Diamond", p.Filters[2].Marker)
	assert.Equal(t, 100.0, p.Filters[1].Radius)
	require.Len(t, p.Locations, 2)
	assert.Equal(t, 0, p.Locations[0].Seq)
	assert.Equal(t, 1, p.Locations[1].Seq)
	assert.Equal(t, 50.0, p.Locations[0].Params.Data().CircleRadius)
	assert.Len(t, p.Clicks.Data().Left, engine.MaxClickStrings)
}

func TestProfileToState(t *testing.T) {
	in := sampleState()
	out := ProfileToState(StateToProfile("Me", in))

	assert.Equal(t, in.Settings.ActiveLayer, out.Settings.ActiveLayer)
	assert.Equal(t, in.Settings.HighlightColor, out.Settings.HighlightColor)
	assert.Equal(t, in.Settings.NameFormat, out.Settings.NameFormat)
	assert.Equal(t, in.Settings.Custom.Text, out.Settings.Custom.Text)
	assert.Equal(t, in.Settings.Custom.Kind, out.Settings.Custom.Kind)
	assert.True(t, out.Settings.HideRepeat)
	assert.Equal(t, "corpse", out.Settings.HideQuery.Text)
	assert.Equal(t, in.LocationDefaults, out.LocationDefaults)
	assert.Equal(t, in.Locations, out.Locations)
	assert.Equal(t, in.Clicks, out.Clicks)

	require.Len(t, out.Filters, 3)
	assert.Equal(t, core.Position3D{X: 1, Y: 2, Z: 3}, out.Filters[1].Center)
	assert.Equal(t, core.MarkerDiamond, out.Filters[2].Marker)
	assert.Equal(t, 8, out.Filters[2].MarkerSize)
}

func TestFilterFromModel_UnknownMarker(t *testing.T) {
	p := StateToProfile("Me", sampleState())
	p.Filters[0].Marker = "hexagon"

	st := ProfileToState(p)
	assert.Equal(t, core.MarkerNone, st.Filters[0].Marker)
}

func TestStatsToFrameStat(t *testing.T) {
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	fs := StatsToFrameStat(at, engine.Stats{
		Frame:         120,
		Zone:          "Qeynos Hills",
		Objects:       14,
		FrameDuration: 1500 * time.Microsecond,
		Faults:        1,
	})

	assert.Equal(t, at, fs.Time)
	assert.Equal(t, "Qeynos Hills", fs.Zone)
	assert.Equal(t, uint64(120), fs.Frame)
	assert.Equal(t, 14, fs.Objects)
	assert.Equal(t, int64(1500), fs.FrameDurationUs)
	assert.Equal(t, uint64(1), fs.Faults)
}
