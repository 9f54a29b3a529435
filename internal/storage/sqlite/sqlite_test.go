package sqlitestorage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqmap/overlay/internal/engine"
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/pkg/core"
)

func TestBackend_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "maps.db")
	profile := func() string { return "Me" }

	b := New(Config{Path: path}, profile, zerolog.Nop())
	require.NoError(t, b.Init(ctx))
	st := engine.State{
		Settings:         overlay.DefaultSettings(),
		LocationDefaults: overlay.DefaultLocationParams(),
		Locations: []engine.LocationState{
			{Label: "camp", Position: core.Position3D{X: 1, Y: 2}, Params: overlay.DefaultLocationParams()},
		},
	}
	require.NoError(t, b.SaveState(ctx, st))
	require.NoError(t, b.Close())

	b2 := New(Config{Path: path}, profile, zerolog.Nop())
	require.NoError(t, b2.Init(ctx))
	t.Cleanup(func() { _ = b2.Close() })

	got, ok, err := b2.LoadState(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Locations, 1)
	assert.Equal(t, "camp", got.Locations[0].Label)
}

func TestBackend_DumpLoop(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "snapshot.db")
	b := New(Config{
		Path:         filepath.Join(dir, "maps.db"),
		DumpInterval: 20 * time.Millisecond,
		DumpPath:     dump,
	}, nil, zerolog.Nop())
	require.NoError(t, b.Init(context.Background()))
	t.Cleanup(func() { _ = b.Close() })

	assert.Eventually(t, func() bool {
		_, err := os.Stat(dump)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBackend_CloseWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "snapshot.db")
	b := New(Config{Path: filepath.Join(dir, "maps.db"), DumpPath: dump}, nil, zerolog.Nop())
	require.NoError(t, b.Init(context.Background()))

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, err := os.Stat(dump)
	assert.NoError(t, err)
}

func TestBackend_CloseBeforeInit(t *testing.T) {
	b := New(Config{}, nil, zerolog.Nop())
	assert.NoError(t, b.Close())
}
