package engine

import (
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/internal/scene"
	"github.com/mqmap/overlay/pkg/core"
)

// ObjectView is a copy of one overlay object for exporters.
type ObjectView struct {
	Variant     string          `json:"variant"`
	ID          uint32          `json:"id,omitempty"`
	Kind        string          `json:"kind,omitempty"`
	Text        string          `json:"text"`
	Pos         core.Position3D `json:"pos"`
	Color       string          `json:"color"`
	Highlighted bool            `json:"highlighted,omitempty"`
}

// LocationView is a copy of one location template.
type LocationView struct {
	Index  int                    `json:"index"`
	Tag    string                 `json:"tag"`
	Label  string                 `json:"label,omitempty"`
	Pos    core.Position3D        `json:"pos"`
	Params overlay.LocationParams `json:"params"`
}

// LineView is one engine line in map space.
type LineView struct {
	Start core.Position3D `json:"start"`
	End   core.Position3D `json:"end"`
	Color string          `json:"color"`
}

// View is a consistent copy of the overlay taken between frames.
type View struct {
	Frame     uint64         `json:"frame"`
	Zone      string         `json:"zone"`
	Objects   []ObjectView   `json:"objects"`
	Locations []LocationView `json:"locations"`
	Lines     []LineView     `json:"lines,omitempty"`
}

// View copies the current overlay state. Lines are included when
// withLines is set.
func (e *Engine) View(withLines bool) View {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := View{Frame: e.frame, Zone: e.world.Zone()}
	e.index.Each(func(o *overlay.Object) bool {
		ov := ObjectView{
			Variant:     o.Variant().String(),
			Text:        o.Text(),
			Pos:         o.Position(),
			Color:       o.Color().String(),
			Highlighted: o.Highlighted(),
		}
		if s, ok := o.Spawn(); ok {
			ov.ID = uint32(s.ID)
			ov.Kind = o.Kind().String()
		}
		if g, ok := o.GroundItem(); ok {
			ov.ID = uint32(g.ID)
		}
		v.Objects = append(v.Objects, ov)
		return true
	})
	for _, t := range e.locations.All() {
		v.Locations = append(v.Locations, LocationView{
			Index:  t.Index(),
			Tag:    t.Tag(),
			Label:  t.Label(),
			Pos:    t.Position(),
			Params: t.Params(),
		})
	}
	if withLines {
		sc := e.scene
		n := sc.LineChain.Len()
		sc.Lines.Walk(sc.LineChain.Head, func(_ scene.Handle, l *scene.Line) bool {
			v.Lines = append(v.Lines, LineView{Start: l.Start, End: l.End, Color: l.Color.String()})
			n--
			return n > 0
		})
	}
	return v
}
