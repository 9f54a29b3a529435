package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqmap/overlay/internal/model"
)

func TestManager_SqliteSetup(t *testing.T) {
	m := NewManager(zerolog.Nop())
	require.NoError(t, m.ConnectSqlite(filepath.Join(t.TempDir(), "maps.db")))
	t.Cleanup(func() { _ = m.Close() })

	assert.True(t, m.IsLocal)
	require.NoError(t, m.Setup())
	for _, tbl := range model.DatabaseModels {
		assert.True(t, m.DB.Migrator().HasTable(tbl), "%T not migrated", tbl)
	}
}

func TestManager_DumpToDisk(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(zerolog.Nop())
	require.NoError(t, m.ConnectSqlite(filepath.Join(dir, "maps.db")))
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Setup())
	require.NoError(t, m.DB.Create(&model.Profile{Name: "Me"}).Error)

	assert.ErrorIs(t, m.DumpToDisk(), ErrNoDumpPath)

	dump := filepath.Join(dir, "maps.bak.db")
	m.SetDumpPath(dump)
	require.NoError(t, m.DumpToDisk())
	// a second dump replaces the first
	require.NoError(t, m.DumpToDisk())

	info, err := os.Stat(dump)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	copyDB, err := OpenSqlite(dump)
	require.NoError(t, err)
	var n int64
	require.NoError(t, copyDB.Model(&model.Profile{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCloseWithoutConnection(t *testing.T) {
	assert.NoError(t, NewManager(zerolog.Nop()).Close())
}
