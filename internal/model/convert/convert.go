// Package convert maps engine state to GORM models and back.
package convert

import (
	"time"

	"gorm.io/datatypes"

	"github.com/mqmap/overlay/internal/engine"
	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/model"
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/internal/search"
	"github.com/mqmap/overlay/pkg/core"
)

func settingsToModel(s overlay.Settings) model.Settings {
	return model.Settings{
		ActiveLayer:    s.ActiveLayer,
		HighlightColor: uint32(s.HighlightColor),
		HighlightSize:  s.HighlightSize,
		HighlightPulse: s.HighlightPulse,
		NameFormat:     s.NameFormat,
		TargetFormat:   s.TargetFormat,
		Custom:         s.Custom.Text,
		HideRepeat:     s.HideRepeat,
		HideQuery:      s.HideQuery.Text,
		ShowRepeat:     s.ShowRepeat,
		ShowQuery:      s.ShowQuery.Text,
	}
}

func settingsFromModel(m model.Settings) overlay.Settings {
	s := overlay.DefaultSettings()
	s.ActiveLayer = m.ActiveLayer
	s.HighlightColor = core.Color(m.HighlightColor)
	s.HighlightSize = m.HighlightSize
	s.HighlightPulse = m.HighlightPulse
	s.NameFormat = m.NameFormat
	s.TargetFormat = m.TargetFormat
	s.Custom = search.Parse(m.Custom)
	s.HideRepeat = m.HideRepeat
	s.HideQuery = search.Parse(m.HideQuery)
	s.ShowRepeat = m.ShowRepeat
	s.ShowQuery = search.Parse(m.ShowQuery)
	return s
}

func paramsToModel(p overlay.LocationParams) model.LocParams {
	return model.LocParams{
		LineSize:     p.LineSize,
		Width:        p.Width,
		Color:        uint32(p.Color),
		CircleRadius: p.CircleRadius,
		CircleColor:  uint32(p.CircleColor),
	}
}

func paramsFromModel(m model.LocParams) overlay.LocationParams {
	return overlay.LocationParams{
		LineSize:     m.LineSize,
		Width:        m.Width,
		Color:        core.Color(m.Color),
		CircleRadius: m.CircleRadius,
		CircleColor:  core.Color(m.CircleColor),
	}
}

func filterToModel(o filter.Option) model.FilterSetting {
	return model.FilterSetting{
		Name:       o.Name,
		Enabled:    o.Enabled,
		Color:      uint32(o.Color),
		Marker:     o.Marker.String(),
		MarkerSize: o.MarkerSize,
		Radius:     o.Radius,
		CenterX:    o.Center.X,
		CenterY:    o.Center.Y,
		CenterZ:    o.Center.Z,
	}
}

// Only the fields engine.Restore reads are filled in.
func filterFromModel(m model.FilterSetting) filter.Option {
	marker := core.FindMarker(m.Marker)
	if marker == core.MarkerUnknown {
		marker = core.MarkerNone
	}
	return filter.Option{
		Name:       m.Name,
		Enabled:    m.Enabled,
		Color:      core.Color(m.Color),
		Marker:     marker,
		MarkerSize: m.MarkerSize,
		Radius:     m.Radius,
		Center:     core.Position3D{X: m.CenterX, Y: m.CenterY, Z: m.CenterZ},
	}
}

// StateToProfile converts engine state into a profile row with its
// children. IDs are left zero.
func StateToProfile(name string, st engine.State) model.Profile {
	clicks := model.ClickTable{
		Left:  append([]string(nil), st.Clicks.Left[:]...),
		Right: append([]string(nil), st.Clicks.Right[:]...),
	}
	p := model.Profile{
		Name:             name,
		Settings:         datatypes.NewJSONType(settingsToModel(st.Settings)),
		LocationDefaults: datatypes.NewJSONType(paramsToModel(st.LocationDefaults)),
		Clicks:           datatypes.NewJSONType(clicks),
	}
	for _, o := range st.Filters {
		p.Filters = append(p.Filters, filterToModel(o))
	}
	for i, l := range st.Locations {
		p.Locations = append(p.Locations, model.LocationTemplate{
			Seq:       i,
			Label:     l.Label,
			X:         l.Position.X,
			Y:         l.Position.Y,
			Z:         l.Position.Z,
			Params:    datatypes.NewJSONType(paramsToModel(l.Params)),
			IsDefault: l.IsDefault,
		})
	}
	return p
}

// ProfileToState is the inverse of StateToProfile. Locations must already
// be ordered by Seq.
func ProfileToState(p model.Profile) engine.State {
	st := engine.State{
		Settings:         settingsFromModel(p.Settings.Data()),
		LocationDefaults: paramsFromModel(p.LocationDefaults.Data()),
	}
	clicks := p.Clicks.Data()
	copy(st.Clicks.Left[:], clicks.Left)
	copy(st.Clicks.Right[:], clicks.Right)
	for _, f := range p.Filters {
		st.Filters = append(st.Filters, filterFromModel(f))
	}
	for _, l := range p.Locations {
		st.Locations = append(st.Locations, engine.LocationState{
			Label:     l.Label,
			Position:  core.Position3D{X: l.X, Y: l.Y, Z: l.Z},
			Params:    paramsFromModel(l.Params.Data()),
			IsDefault: l.IsDefault,
		})
	}
	return st
}

// StatsToFrameStat converts a monitor sample.
func StatsToFrameStat(at time.Time, s engine.Stats) model.FrameStat {
	return model.FrameStat{
		Time:            at,
		Zone:            s.Zone,
		Frame:           s.Frame,
		Objects:         s.Objects,
		Labels:          s.Labels,
		Lines:           s.Lines,
		Locations:       s.Locations,
		FrameDurationUs: s.FrameDuration.Microseconds(),
		Faults:          s.Faults,
		Regenerations:   s.Regenerations,
		DroppedEvents:   s.DroppedEvents,
	}
}
