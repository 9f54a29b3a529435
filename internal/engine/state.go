package engine

import (
	"fmt"

	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/pkg/core"
)

// State is the persistable configuration of an engine.
type State struct {
	Filters          []filter.Option
	Settings         overlay.Settings
	LocationDefaults overlay.LocationParams
	Locations        []LocationState
	Clicks           Clicks
}

// LocationState is one saved location template.
type LocationState struct {
	Label     string
	Position  core.Position3D
	Params    overlay.LocationParams
	IsDefault bool
}

// State captures the filters, settings, location templates and click
// bindings.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{
		Settings:         *e.index.Settings(),
		LocationDefaults: e.locations.Defaults,
		Clicks:           e.clicks,
	}
	for _, o := range e.filters.Options() {
		st.Filters = append(st.Filters, *o)
	}
	for _, t := range e.locations.All() {
		st.Locations = append(st.Locations, LocationState{
			Label:     t.Label(),
			Position:  t.Position(),
			Params:    t.Params(),
			IsDefault: t.IsDefault(),
		})
	}
	return st
}

// Restore replaces the current configuration with st. Filters are matched
// by name; unknown names are skipped.
func (e *Engine) Restore(st State) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, saved := range st.Filters {
		id, ok := e.filters.Lookup(saved.Name)
		if !ok {
			e.log.Warn("Skipping unknown filter", "name", saved.Name)
			continue
		}
		o := e.filters.Option(id)
		o.Enabled = saved.Enabled
		if o.HasColor() {
			o.Color = saved.Color
		}
		o.Marker = saved.Marker
		o.MarkerSize = saved.MarkerSize
		o.Radius = saved.Radius
		o.Center = saved.Center
	}

	*e.index.Settings() = st.Settings
	e.index.Pulse().Reset(st.Settings.HighlightSize)
	e.clicks = st.Clicks

	e.locations.DeleteAll()
	e.locations.Defaults = st.LocationDefaults
	e.locations.ResetOverrides()
	for _, l := range st.Locations {
		if _, err := e.locations.Add(l.Params, l.Label, l.Position, l.IsDefault); err != nil {
			return fmt.Errorf("restoring location %q: %w", l.Label, err)
		}
	}

	if e.active {
		e.regenerate()
	}
	return nil
}
