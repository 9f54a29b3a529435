package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqmap/overlay/internal/dispatcher"
	"github.com/mqmap/overlay/internal/engine"
	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/internal/scene"
	"github.com/mqmap/overlay/internal/world"
	"github.com/mqmap/overlay/pkg/core"
)

type nopHost struct{}

func (nopHost) Heads() (labels, lines *scene.Handle) { return nil, nil }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type memStore struct {
	saved *engine.State
	err   error
}

func (m *memStore) SaveState(_ context.Context, st engine.State) error {
	if m.err != nil {
		return m.err
	}
	m.saved = &st
	return nil
}

func (m *memStore) LoadState(context.Context) (engine.State, bool, error) {
	if m.saved == nil {
		return engine.State{}, false, m.err
	}
	return *m.saved, true, nil
}

type fakeExporter struct {
	view engine.View
}

func (f *fakeExporter) Export(_ context.Context, v engine.View, dest string) (string, error) {
	f.view = v
	if dest == "" {
		dest = "map.geojson"
	}
	return dest, nil
}

type fixture struct {
	t      *testing.T
	w      *world.Memory
	e      *engine.Engine
	d      *dispatcher.Dispatcher
	store  *memStore
	export *fakeExporter
}

func mob(id world.SpawnID, name string, x, y float64) world.Spawn {
	return world.Spawn{ID: id, Name: name, DisplayedName: name, RawType: world.RawNPC, Pos: core.Position3D{X: x, Y: y}, Level: 10}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := world.NewMemory("testzone")
	w.AddSpawn(world.Spawn{ID: 1, Name: "Me", DisplayedName: "Me", RawType: world.RawPlayer, Pos: core.Position3D{X: 10, Y: 20}, Level: 50})
	w.AddSpawn(mob(2, "a_rat", 5, 5))
	w.AddSpawn(mob(3, "a_rat", 6, 6))
	w.AddSpawn(mob(4, "a_bat", 7, 7))
	w.SetLocalPlayer(1)

	e, err := engine.New(w, nopHost{}, scene.New(), filter.NewRegistry(), engine.Config{
		Settings:  overlay.DefaultSettings(),
		Locations: overlay.DefaultLocationParams(),
	})
	require.NoError(t, err)
	e.SetGameState(true)
	e.Frame(func() {})

	d, err := dispatcher.New(nopLogger{})
	require.NoError(t, err)

	f := &fixture{t: t, w: w, e: e, d: d, store: &memStore{}, export: &fakeExporter{}}
	New(e, WithStore(f.store), WithExporter(f.export)).Register(d)
	return f
}

func (f *fixture) run(line string) []string {
	f.t.Helper()
	res, err := f.d.Exec(line)
	require.NoError(f.t, err, line)
	out, _ := res.([]string)
	return out
}

func (f *fixture) fails(line string) error {
	f.t.Helper()
	_, err := f.d.Exec(line)
	require.Error(f.t, err, line)
	return err
}

func (f *fixture) frame() {
	f.e.Frame(func() {})
}

func TestMapFilterListAndHelp(t *testing.T) {
	f := newFixture(t)

	out := f.run("/mapfilter")
	require.GreaterOrEqual(t, len(out), 3)
	assert.Equal(t, "Map filtering settings:", out[0])
	assert.Contains(t, out, "PC: show (Color: 255 0 255)")
	assert.Contains(t, out, "Vector: hide")
	assert.Contains(t, out, "CastRadius: 0.00 (Color: 128 128 0)")
	assert.Contains(t, out, "Custom: Off")

	help := f.run("/mapfilter help")
	assert.Len(t, help, 1+int(filter.Invalid)+2)
	assert.Contains(t, help, "CastRadius #: Sets radius of cast circle")
	assert.Contains(t, help, "NPC: Displays NPCs")
}

func TestHelpValueHint(t *testing.T) {
	assert.False(t, takesValue(&filter.Option{Flags: filter.Toggle}))
	assert.True(t, takesValue(&filter.Option{Flags: filter.Toggle | filter.UsesRadius}))
	assert.True(t, takesValue(&filter.Option{}))
	assert.True(t, takesValue(&filter.Option{Flags: filter.Regenerate}))

	f := newFixture(t)
	f.e.UpdateFilters(func(r *filter.Registry) bool {
		r.Option(filter.Marker).Flags &^= filter.Toggle
		return false
	})
	help := f.run("/mapfilter help")
	assert.Contains(t, help, "Marker #: Displays markers on spawns")
	assert.Contains(t, help, "TargetLine: Displays a line to your target")
}

func TestMapFilterToggle(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{"NPC is now set to: hide"}, f.run("/mapfilter npc hide"))
	f.frame()
	assert.Equal(t, 1, f.e.Stats().Objects)

	assert.Equal(t, []string{"NPC is now set to: show"}, f.run("/mapfilter NPC"))
	f.e.Regenerate()
	assert.Equal(t, 4, f.e.Stats().Objects)

	assert.ErrorIs(t, f.fails("/mapfilter nosuch"), ErrUsage)
}

func TestMapFilterRequires(t *testing.T) {
	f := newFixture(t)
	f.run("/mapfilter pc hide")
	assert.Equal(t,
		[]string{"'Group' requires 'PC' option.  Please enable this option first."},
		f.run("/mapfilter group show"))
}

func TestMapFilterColor(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{"Option 'NPC' color set to: 1 2 255"}, f.run("/mapfilter npc color 1 2 300"))
	assert.Equal(t, []string{"Option 'NPC' color set to: 64 64 64"}, f.run("/mapfilter npc color"))
	assert.Equal(t, []string{"Option 'Vector' does not have a color."}, f.run("/mapfilter vector color 1 2 3"))
}

func TestMapFilterRadius(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{"CampRadius is now set to: 50.00"}, f.run("/mapfilter campradius 50"))

	f.e.Inspect(func(ix *overlay.Index) {
		o := ix.Filters().Option(filter.CampRadius)
		assert.True(t, o.Enabled)
		assert.Equal(t, core.Position3D{X: 10, Y: 20}, o.Center)
	})

	assert.Equal(t, []string{"CampRadius is now set to: 0.00"}, f.run("/mapfilter campradius 0"))
	f.e.Inspect(func(ix *overlay.Index) {
		assert.False(t, ix.Filters().Option(filter.CampRadius).Enabled)
	})
}

func TestMapFilterMarker(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		line string
		want string
	}{
		{"/mapfilter marker npc triangle", "Marker 'NPC' is now set to 'Triangle' with size 6."},
		{"/mapfilter npc marker ring 9", "Marker 'NPC' is now set to 'Ring' with size 9."},
		{"/mapfilter marker npc hexagon", "Marker unchanged, unknown shape: 'hexagon'"},
		{"/mapfilter marker npc square big", "Marker unchanged, invalid size: 'big'"},
		{"/mapfilter marker dragons square", "Marker unchanged, unknown spawn type: dragons"},
		{"/mapfilter marker npc", "Marker unchanged, no shape given."},
		{"/mapfilter marker hide", "Marker is now set to: hide"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, []string{tt.want}, f.run(tt.line))
		})
	}

	f.e.Inspect(func(ix *overlay.Index) {
		o := ix.Filters().Option(filter.NPC)
		assert.Equal(t, core.MarkerRing, o.Marker)
		assert.Equal(t, 9, o.MarkerSize)
	})
}

func TestMapFilterCustom(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{"Custom is now set to: rat"}, f.run("/mapfilter custom rat"))
	assert.Equal(t, "rat", f.e.Settings().Custom.Text)
	assert.Contains(t, f.run("/mapfilter"), "Custom: rat")

	assert.Equal(t, []string{"Custom is now set to: Off"}, f.run("/mapfilter custom"))
}

func TestMapActiveLayer(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.fails("/mapactivelayer"), ErrUsage)
	assert.ErrorIs(t, f.fails("/mapactivelayer 4"), ErrUsage)
	assert.Equal(t, []string{"Map Active Layer: 1"}, f.run("/mapactivelayer 1"))
	assert.Equal(t, 1, f.e.ActiveLayer())
}

func TestHighlight(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.fails("/highlight"), ErrUsage)
	assert.Equal(t, []string{"Highlight color: 1 2 3"}, f.run("/highlight color 1 2 3"))
	assert.Equal(t, core.RGB(1, 2, 3), f.e.Settings().HighlightColor)
	assert.ErrorIs(t, f.fails("/highlight color 1 2"), ErrUsage)
	assert.ErrorIs(t, f.fails("/highlight color 1 2 256"), ErrUsage)

	assert.Equal(t, []string{"Highlight size: 12"}, f.run("/highlight size 12"))
	assert.ErrorIs(t, f.fails("/highlight size"), ErrUsage)
	assert.Equal(t, []string{"Highlight pulse: ON"}, f.run("/highlight pulse"))
	assert.Equal(t, []string{"Highlight pulse: OFF"}, f.run("/highlight pulse"))

	assert.Equal(t, []string{"2 mapped spawns highlighted"}, f.run("/highlight rat"))
	f.e.Inspect(func(ix *overlay.Index) {
		assert.True(t, ix.FindSpawn(2).Highlighted())
	})
	assert.Equal(t, []string{"Highlighting reset"}, f.run("/highlight reset"))
	f.e.Inspect(func(ix *overlay.Index) {
		assert.False(t, ix.FindSpawn(2).Highlighted())
	})
}

func TestHideShow(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.fails("/maphide"), ErrUsage)
	assert.Equal(t, []string{"2 mapped spawns hidden"}, f.run("/maphide rat"))
	assert.Equal(t, 2, f.e.Stats().Objects)

	assert.Equal(t, []string{"maphide repeat set to: on"}, f.run("/maphide repeat"))
	assert.Equal(t, []string{"Map spawns regenerated"}, f.run("/maphide reset"))
	assert.Equal(t, 2, f.e.Stats().Objects, "repeat re-applies the hide")

	assert.Equal(t, []string{"maphide repeat set to: off"}, f.run("/maphide repeat"))
	assert.Equal(t, []string{"2 previously hidden spawns shown"}, f.run("/mapshow rat"))
	assert.Equal(t, 4, f.e.Stats().Objects)
	assert.Equal(t, []string{"mapshow repeat set to: on"}, f.run("/mapshow repeat"))
}

func TestMapNames(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{"Normal naming string: %N", "Target naming string: %N"}, f.run("/mapnames"))
	assert.Equal(t, []string{"Normal naming string: %N (%l)"}, f.run("/mapnames normal %N (%l)"))
	f.e.Inspect(func(ix *overlay.Index) {
		assert.Equal(t, "a_rat (10)", ix.FindSpawn(2).Text())
	})
	assert.Equal(t, []string{"Normal naming string: %N"}, f.run("/mapnames normal reset"))
	assert.ErrorIs(t, f.fails("/mapnames other x"), ErrUsage)
}

func TestMapClick(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.fails("/mapclick"), ErrUsage)
	assert.Equal(t, []string{"Right Click -- 2: /say %n"}, f.run("/mapclick 2 /say %n"))
	assert.Equal(t, []string{"Left Click -- 3: /loc %y %x"}, f.run("/mapclick left 3 /loc %y %x"))
	assert.Equal(t, []string{"2: /say %n", "1 special click commands"}, f.run("/mapclick list"))
	assert.Equal(t, []string{"3: /loc %y %x", "1 special click commands"}, f.run("/mapclick left list"))
	assert.Equal(t, []string{"2: /say %n"}, f.run("/mapclick 2"))
	assert.Equal(t, []string{"Invalid combo '16'"}, f.run("/mapclick 16 /say"))
	assert.Equal(t, []string{"Right Click -- 2 cleared"}, f.run("/mapclick 2 clear"))
	assert.Empty(t, f.e.ClickTable().Right[2])
}

func TestMapLoc(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t,
		[]string{"MapLoc 1 added at 20,10,0: size=10, width=2, color=255,0,0, radius=0"},
		f.run("/maploc"))
	assert.Equal(t,
		[]string{"MapLoc 2 added at 100,-200,5: size=10, width=2, color=255,0,0, radius=0, label=camp fire"},
		f.run("/maploc 100.7 -200.2 5 label camp fire"))
	assert.Equal(t,
		[]string{"MapLoc 3 added at 1,2,0: size=30, width=2, color=0,255,0, radius=15"},
		f.run("/maploc size 30 color 0 255 0 radius 15 1 2"))
	assert.Equal(t, []string{"No target selected."}, f.run("/maploc target"))
	assert.Len(t, f.run("/maploc help"), 5)
	assert.Len(t, f.run("/maploc bogus"), 5)

	var labels []string
	require.NoError(t, f.e.Locations(func(l *overlay.Locations) error {
		for _, tmpl := range l.All() {
			labels = append(labels, tmpl.Label())
		}
		assert.True(t, l.ByIndex(1).IsDefault())
		assert.False(t, l.ByIndex(3).IsDefault())
		return nil
	}))
	assert.Equal(t, []string{"", "camp fire", ""}, labels)
}

func TestMapLocDefaults(t *testing.T) {
	f := newFixture(t)
	f.run("/maploc")

	assert.Equal(t,
		[]string{"MapLoc Defaults: Width:3, Size:20, Color:255,0,0, Radius:0, Radius Color:0,0,255"},
		f.run("/maploc size 20 width 3"))
	require.NoError(t, f.e.Locations(func(l *overlay.Locations) error {
		assert.InDelta(t, 20, l.ByIndex(1).Params().LineSize, 1e-9, "default instances follow")
		return nil
	}))
}

func TestMapLocRemove(t *testing.T) {
	f := newFixture(t)
	f.run("/maploc 1 1")
	f.run("/maploc 100 200")
	f.run("/maploc 5 5 5")

	assert.Equal(t, []string{"MapLoc removed: Index:2, loc:100,200,0"}, f.run("/maploc remove +100.9 200"))
	assert.Equal(t, []string{"Remove loc by index out of bounds: 9"}, f.run("/maploc remove 9"))
	assert.ErrorIs(t, f.fails("/maploc remove 7 7"), ErrUsage)
	assert.ErrorIs(t, f.fails("/maploc remove 1.5"), ErrUsage)
	assert.Len(t, f.run("/maploc remove x"), 5)
	assert.Equal(t, []string{"MapLoc removed: Index:2, loc:5,5,5"}, f.run("/maploc remove 2"))
	assert.Equal(t, []string{"1 MapLoc(s) removed"}, f.run("/maploc remove"))
	assert.Equal(t, 0, f.e.Stats().Locations)
}

func TestSaveLoadExport(t *testing.T) {
	f := newFixture(t)
	f.run("/maploc 1 1 label home")

	out := f.run("/mapsave")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "1 MapLoc(s)")
	require.NotNil(t, f.store.saved)

	f.run("/maploc remove")
	assert.Equal(t, []string{"Map settings loaded: 1 MapLoc(s)"}, f.run("/mapload"))
	assert.Equal(t, 1, f.e.Stats().Locations)

	assert.Equal(t, []string{"Map exported to out.geojson"}, f.run("/mapexport out.geojson"))
	assert.Len(t, f.export.view.Locations, 1)

	f.store.err = errors.New("disk full")
	_, err := f.d.Exec("/mapsave")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUsage)
}

func TestUnconfiguredSinks(t *testing.T) {
	f := newFixture(t)
	d, err := dispatcher.New(nopLogger{})
	require.NoError(t, err)
	New(f.e).Register(d)

	res, err := d.Exec("/mapsave")
	require.NoError(t, err)
	assert.Equal(t, []string{"Map storage is not configured."}, res)

	res, err = d.Exec("/mapexport")
	require.NoError(t, err)
	assert.Equal(t, []string{"Map export is not configured."}, res)
}
