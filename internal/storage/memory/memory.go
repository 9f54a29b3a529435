// Package memory keeps map profiles in process memory.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mqmap/overlay/internal/engine"
	"github.com/mqmap/overlay/internal/model"
)

// Backend stores profiles in a map. State is copied on the way in and out.
type Backend struct {
	profile  func() string
	mu       sync.RWMutex
	profiles map[string]engine.State
}

// New creates a new memory backend
func New(profile func() string) *Backend {
	return &Backend{
		profile:  profile,
		profiles: make(map[string]engine.State),
	}
}

func (b *Backend) Init(context.Context) error { return nil }

func (b *Backend) Close() error { return nil }

func clone(st engine.State) engine.State {
	st.Filters = slices.Clone(st.Filters)
	st.Locations = slices.Clone(st.Locations)
	return st
}

func (b *Backend) SaveState(_ context.Context, st engine.State) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles[model.ProfileName(b.profile)] = clone(st)
	return nil
}

func (b *Backend) LoadState(_ context.Context) (engine.State, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	st, ok := b.profiles[model.ProfileName(b.profile)]
	if !ok {
		return engine.State{}, false, nil
	}
	return clone(st), true, nil
}

// Profiles lists the saved profile names in order.
func (b *Backend) Profiles() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.profiles))
	for name := range b.profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
