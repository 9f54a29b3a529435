package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mqmap/overlay/internal/config"
	"github.com/mqmap/overlay/internal/storage/memory"
	"github.com/mqmap/overlay/internal/storage/postgres"
	sqlitestorage "github.com/mqmap/overlay/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration. profile
// names the profile each save and load applies to.
func NewBackend(cfg config.StorageConfig, profile func() string, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(cfg.DB, profile, log), nil
	case "sqlite":
		dump := ""
		if cfg.SQLite.Path != "" && cfg.SQLite.DumpInterval > 0 {
			dump = cfg.SQLite.Path + ".bak"
		}
		return sqlitestorage.New(sqlitestorage.Config{
			Path:         cfg.SQLite.Path,
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpPath:     dump,
		}, profile, log), nil
	case "memory", "":
		return memory.New(profile), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
