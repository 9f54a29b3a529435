// Package postgres stores profiles in PostgreSQL through the GORM backend.
package postgres

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mqmap/overlay/internal/config"
	"github.com/mqmap/overlay/internal/database"
	gormstorage "github.com/mqmap/overlay/internal/storage/gorm"
)

// Backend implements storage.Backend on Postgres. When the server is
// unreachable at Init it keeps working on an in-memory SQLite database.
type Backend struct {
	*gormstorage.Backend
	db        *database.Manager
	cfg       config.DBConfig
	profile   func() string
	log       zerolog.Logger
	closeOnce sync.Once
}

// New creates a new Postgres storage backend.
func New(cfg config.DBConfig, profile func() string, log zerolog.Logger) *Backend {
	return &Backend{
		db:      database.NewManager(log),
		cfg:     cfg,
		profile: profile,
		log:     log,
	}
}

// Init connects, migrates and starts the sample writer.
func (b *Backend) Init(ctx context.Context) error {
	if err := b.db.ConnectPostgres(b.cfg); err != nil {
		return err
	}
	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:      b.db.DB,
		Profile: b.profile,
		Logger:  b.log,
	})
	return b.Backend.Init(ctx)
}

// Local reports whether the backend fell back to SQLite.
func (b *Backend) Local() bool {
	return b.db.IsLocal
}

// Close stops the writer and closes the connection pool.
func (b *Backend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		if b.Backend != nil {
			_ = b.Backend.Close()
		}
		err = b.db.Close()
	})
	return err
}
