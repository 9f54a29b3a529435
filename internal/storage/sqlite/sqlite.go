// Package sqlitestorage stores profiles in a SQLite file, or in memory when
// no path is set. It wraps the GORM backend via composition and adds
// periodic snapshots via VACUUM INTO.
package sqlitestorage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mqmap/overlay/internal/database"
	gormstorage "github.com/mqmap/overlay/internal/storage/gorm"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path         string
	DumpInterval time.Duration
	DumpPath     string // snapshot target, written every DumpInterval and on Close
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db        *database.Manager
	cfg       Config
	log       zerolog.Logger
	profile   func() string
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a new SQLite storage backend. Nothing is opened until Init.
func New(cfg Config, profile func() string, log zerolog.Logger) *Backend {
	return &Backend{
		db:      database.NewManager(log),
		cfg:     cfg,
		log:     log,
		profile: profile,
		stop:    make(chan struct{}),
	}
}

// Init opens the database, initializes the embedded GORM backend and starts
// the dump goroutine.
func (b *Backend) Init(ctx context.Context) error {
	if err := b.db.ConnectSqlite(b.cfg.Path); err != nil {
		return err
	}
	b.db.SetDumpPath(b.cfg.DumpPath)
	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:      b.db.DB,
		Profile: b.profile,
		Logger:  b.log,
	})
	if err := b.Backend.Init(ctx); err != nil {
		return err
	}
	if b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0 {
		b.wg.Add(1)
		go b.dumpLoop()
	}
	return nil
}

// Close stops the dump goroutine, writes a last snapshot and closes the
// database.
func (b *Backend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.stop)
		b.wg.Wait()
		if b.Backend == nil {
			return
		}
		_ = b.Backend.Close()
		if b.cfg.DumpPath != "" {
			if derr := b.db.DumpToDisk(); derr != nil {
				err = fmt.Errorf("final dump: %w", derr)
			}
		}
		if cerr := b.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	})
	return err
}

func (b *Backend) dumpLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			if err := b.db.DumpToDisk(); err != nil {
				b.log.Error().Err(err).Msg("Error dumping to disk")
			}
		}
	}
}
