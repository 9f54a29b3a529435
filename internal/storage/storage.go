// Package storage persists map profiles: filter settings, presentation
// settings, click bindings and location templates.
package storage

import (
	"context"
	"time"

	"github.com/mqmap/overlay/internal/engine"
)

// Backend is the interface all storage implementations must satisfy. It
// satisfies commands.Store.
type Backend interface {
	Init(ctx context.Context) error
	Close() error

	SaveState(ctx context.Context, st engine.State) error
	LoadState(ctx context.Context) (engine.State, bool, error)
}

// StatsRecorder is implemented by backends that keep monitor samples.
type StatsRecorder interface {
	RecordStats(ctx context.Context, at time.Time, s engine.Stats) error
}
