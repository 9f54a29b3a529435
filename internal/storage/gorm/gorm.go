// Package gormstorage implements the profile store on any GORM dialect.
// Monitor samples are queued and written by a background goroutine.
package gormstorage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mqmap/overlay/internal/engine"
	"github.com/mqmap/overlay/internal/model"
	"github.com/mqmap/overlay/internal/model/convert"
	"github.com/mqmap/overlay/internal/queue"
)

// ErrNotInitialized is returned when no database was provided.
var ErrNotInitialized = errors.New("storage backend not initialized")

const statsQueueLimit = 10000

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB      *gorm.DB
	Profile func() string
	Logger  zerolog.Logger
	// FlushInterval is how often queued samples are written. Zero means
	// two seconds.
	FlushInterval time.Duration
}

// Backend implements storage.Backend over GORM.
type Backend struct {
	deps  Dependencies
	stats *queue.Queue[model.FrameStat]

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = 2 * time.Second
	}
	return &Backend{
		deps:  deps,
		stats: queue.NewBounded[model.FrameStat](statsQueueLimit),
	}
}

// Init migrates the schema and starts the sample writer.
func (b *Backend) Init(ctx context.Context) error {
	if b.deps.DB == nil {
		return ErrNotInitialized
	}
	if err := b.deps.DB.WithContext(ctx).AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	b.stop = make(chan struct{})
	b.done = make(chan struct{})
	go b.writeLoop()
	return nil
}

// Close stops the writer after a final flush.
func (b *Backend) Close() error {
	b.closeOnce.Do(func() {
		if b.stop != nil {
			close(b.stop)
			<-b.done
		}
	})
	return nil
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// SaveState replaces the current profile with st.
func (b *Backend) SaveState(ctx context.Context, st engine.State) error {
	if b.deps.DB == nil {
		return ErrNotInitialized
	}
	name := model.ProfileName(b.deps.Profile)
	p := convert.StateToProfile(name, st)
	err := b.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Profile
		err := tx.Where("name = ?", name).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("profile_id = ?", existing.ID).Delete(&model.FilterSetting{}).Error; err != nil {
				return err
			}
			if err := tx.Where("profile_id = ?", existing.ID).Delete(&model.LocationTemplate{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Delete(&existing).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", name, err)
	}
	b.deps.Logger.Debug().Str("profile", name).Int("filters", len(p.Filters)).Int("locations", len(p.Locations)).Msg("Saved profile")
	return nil
}

// LoadState reads the current profile. ok is false when none was saved.
func (b *Backend) LoadState(ctx context.Context) (st engine.State, ok bool, err error) {
	if b.deps.DB == nil {
		return st, false, ErrNotInitialized
	}
	name := model.ProfileName(b.deps.Profile)
	var p model.Profile
	err = b.deps.DB.WithContext(ctx).
		Preload("Filters", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Locations", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where("name = ?", name).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return st, false, nil
	}
	if err != nil {
		return st, false, fmt.Errorf("failed to load profile %s: %w", name, err)
	}
	return convert.ProfileToState(p), true, nil
}

// RecordStats queues a monitor sample.
func (b *Backend) RecordStats(_ context.Context, at time.Time, s engine.Stats) error {
	b.stats.Push(convert.StatsToFrameStat(at, s))
	return nil
}

// Flush writes queued samples now.
func (b *Backend) Flush() {
	writeQueue(b.deps.DB, b.stats, "frame stats", b.deps.Logger)
}

func (b *Backend) writeLoop() {
	defer close(b.done)
	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			b.Flush()
			return
		case <-ticker.C:
			b.Flush()
		}
	}
}

// writeQueue writes all items from a queue to the database in a transaction.
// Failed batches are pushed back for the next cycle.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log zerolog.Logger) {
	if db == nil || q.Len() == 0 {
		return
	}
	items := q.Drain()
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
	if err != nil {
		log.Error().Err(err).Str("queue", name).Int("count", len(items)).Msg("Error writing queue")
		q.Push(items...)
	}
}
