package engine

import (
	"fmt"

	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/internal/search"
	"github.com/mqmap/overlay/internal/world"
)

// Highlight marks every spawn object matching q and returns the count.
// A nil query clears all highlights.
func (e *Engine) Highlight(q *search.Query) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	e.index.Each(func(o *overlay.Object) bool {
		if q == nil {
			o.SetHighlight(false)
			return true
		}
		if s, ok := o.Spawn(); ok && q.Matches(s, e.world) {
			o.SetHighlight(true)
			n++
		}
		return true
	})
	return n
}

// Hide destroys every spawn object matching q and returns the count. The
// query is remembered for repeat mode.
func (e *Engine) Hide(q search.Query) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.index.Settings().HideQuery = q
	return e.hide(q)
}

func (e *Engine) hide(q search.Query) int {
	n := 0
	e.index.Each(func(o *overlay.Object) bool {
		if s, ok := o.Spawn(); ok && q.Matches(s, e.world) {
			e.index.Remove(o)
			n++
		}
		return true
	})
	return n
}

// Show force-creates objects for matching spawns that have none and
// returns the count. The query is remembered for repeat mode.
func (e *Engine) Show(q search.Query) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.index.Settings().ShowQuery = q
	return e.show(q)
}

func (e *Engine) show(q search.Query) (int, error) {
	spawns, err := e.world.Spawns()
	if err != nil {
		return 0, fmt.Errorf("listing spawns: %w", err)
	}
	n := 0
	for _, s := range spawns {
		if e.index.FindSpawn(s.ID) != nil || !q.Matches(s, e.world) {
			continue
		}
		if _, err := e.index.MakeSpawnObject(s, true); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// SetActiveLayer changes the layer new primitives are drawn on and
// regenerates so existing ones move too.
func (e *Engine) SetActiveLayer(layer int) error {
	if layer < 0 || layer > 3 {
		return fmt.Errorf("invalid layer %d", layer)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.index.Settings().ActiveLayer = layer
	if e.active {
		e.regenerate()
	}
	return nil
}

// ActiveLayer returns the current drawing layer.
func (e *Engine) ActiveLayer() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.Settings().ActiveLayer
}

// UpdateFilters runs fn against the filter table. When fn reports that the
// change affects visibility the map is regenerated.
func (e *Engine) UpdateFilters(fn func(r *filter.Registry) (regenerate bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn(e.filters) && e.active {
		e.regenerate()
	}
}

// UpdateSettings runs fn against the presentation settings and forces an
// update of every object.
func (e *Engine) UpdateSettings(fn func(s *overlay.Settings)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.index.Settings())
	e.index.Pulse().Reset(e.index.Settings().HighlightSize)
	e.index.Each(func(o *overlay.Object) bool {
		if err := o.Update(e.index, true); err != nil {
			e.log.Warn("Update after settings change failed", "error", err)
			return false
		}
		return true
	})
}

// Settings returns a copy of the presentation settings.
func (e *Engine) Settings() overlay.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.index.Settings()
}

// Locations runs fn with exclusive access to the location templates.
func (e *Engine) Locations(fn func(l *overlay.Locations) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.locations)
}

// Inspect runs fn with read access to the object index and filters. fn
// must not retain anything it is given.
func (e *Engine) Inspect(fn func(ix *overlay.Index)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.index)
}

// LocalPlayer is a convenience for the command layer.
func (e *Engine) LocalPlayer() (world.Spawn, bool) {
	return e.world.LocalPlayer()
}
