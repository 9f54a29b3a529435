package postgres

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqmap/overlay/internal/config"
	"github.com/mqmap/overlay/internal/engine"
)

func TestInit_FallsBackToSqlite(t *testing.T) {
	ctx := context.Background()
	// Port 1 refuses connections, forcing the SQLite fallback.
	b := New(config.DBConfig{
		Host:     "127.0.0.1",
		Port:     "1",
		Username: "postgres",
		Password: "postgres",
		Database: "mapoverlay",
	}, func() string { return "Me" }, zerolog.Nop())
	require.NoError(t, b.Init(ctx))
	t.Cleanup(func() { _ = b.Close() })

	assert.True(t, b.Local())
	require.NoError(t, b.SaveState(ctx, engine.State{}))
	_, ok, err := b.LoadState(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClose_BeforeInit(t *testing.T) {
	b := New(config.DBConfig{}, nil, zerolog.Nop())
	assert.NoError(t, b.Close())
}
