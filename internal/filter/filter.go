// Package filter holds the table of named visibility and appearance options
// that gate which world entities get overlay objects and how they look.
package filter

import (
	"strings"

	"github.com/mqmap/overlay/pkg/core"
)

// ID identifies a filter option.
type ID int

const (
	All ID = iota
	PC
	PCConColor
	Group
	Mount
	NPC
	NPCConColor
	Untargetable
	Pet
	Corpse
	Chest
	Trigger
	Trap
	Timer
	Ground
	Target
	TargetLine
	TargetRadius
	TargetMelee
	Vector
	Custom
	CastRadius
	NormalLabels
	ContextMenu
	SpellRadius
	Aura
	Object
	Banner
	Campfire
	PCCorpse
	NPCCorpse
	Mercenary
	Named
	TargetPath
	Marker
	CampRadius
	PullRadius
	Invalid

	count = int(Invalid)
)

// Flags describe how an option behaves.
type Flags uint8

const (
	Toggle     Flags = 1 << iota // on/off switch
	NoColor                      // option has no color
	Regenerate                   // changing it requires a full regenerate
	UsesRadius                   // enabled iff radius > 0
	IsObject                     // category filter for a kind of entity
)

// Option is one row of the filter table.
type Option struct {
	ID             ID
	Name           string
	Help           string
	Enabled        bool
	DefaultEnabled bool
	Color          core.Color
	DefaultColor   core.Color
	Requires       ID
	Flags          Flags

	Marker     core.MarkerType
	MarkerSize int

	Radius float64
	// Center is used by the radius options anchored to a fixed point
	// (camp and pull) instead of the local player.
	Center core.Position3D
}

// Has reports whether all bits of f are set.
func (o *Option) Has(f Flags) bool {
	return o.Flags&f == f
}

// HasColor reports whether the option carries a color.
func (o *Option) HasColor() bool {
	return !o.Has(NoColor)
}

// Registry is the live filter table.
type Registry struct {
	options [count]Option
}

// NewRegistry returns a registry populated from the default table with the
// startup options enabled.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset restores every option to its default.
func (r *Registry) Reset() {
	for i, d := range defaults {
		o := d
		o.ID = ID(i)
		if o.HasColor() {
			o.Color = o.DefaultColor
		}
		o.Enabled = startupEnabled[o.ID]
		if o.Has(UsesRadius) && o.DefaultEnabled {
			o.Radius = 1
		}
		r.options[i] = o
	}
}

// Option returns the record for id, or a fresh invalid sentinel when id is
// out of range. Changes to the sentinel are never seen by later lookups.
func (r *Registry) Option(id ID) *Option {
	if id < 0 || int(id) >= count {
		return &Option{ID: Invalid, Name: "Invalid", Requires: Invalid, Help: "Invalid filter"}
	}
	return &r.options[id]
}

// IsEnabled reports whether id and every option it requires are enabled.
// Invalid always passes.
func (r *Registry) IsEnabled(id ID) bool {
	for steps := 0; steps <= count; steps++ {
		if id < 0 || int(id) >= count {
			return true
		}
		o := &r.options[id]
		if !o.Enabled {
			return false
		}
		id = o.Requires
	}
	return false
}

// RequirementsMet reports whether the options id depends on are enabled,
// ignoring id's own state.
func (r *Registry) RequirementsMet(id ID) bool {
	if id < 0 || int(id) >= count {
		return true
	}
	return r.IsEnabled(r.options[id].Requires)
}

// Lookup finds an option by name, case-insensitively.
func (r *Registry) Lookup(name string) (ID, bool) {
	for i := range r.options {
		if strings.EqualFold(r.options[i].Name, name) {
			return ID(i), true
		}
	}
	return Invalid, false
}

// Options returns every option in id order.
func (r *Registry) Options() []*Option {
	out := make([]*Option, count)
	for i := range r.options {
		out[i] = &r.options[i]
	}
	return out
}

// SetEnabled sets the toggle state and reports whether the change requires
// a regenerate.
func (r *Registry) SetEnabled(id ID, enabled bool) bool {
	o := r.Option(id)
	if o.ID == Invalid || o.Enabled == enabled {
		return false
	}
	o.Enabled = enabled
	return o.Has(Regenerate)
}

// SetRadius sets a radius option; the option is enabled iff radius > 0.
func (r *Registry) SetRadius(id ID, radius float64) {
	o := r.Option(id)
	if o.ID == Invalid || !o.Has(UsesRadius) {
		return
	}
	o.Radius = radius
	o.Enabled = radius > 0
}

// SetColor sets an option color with full alpha. Options without color are
// left untouched.
func (r *Registry) SetColor(id ID, c core.Color) {
	o := r.Option(id)
	if o.ID == Invalid || !o.HasColor() {
		return
	}
	o.Color = c.WithAlpha(0xFF)
}

// ResetColor restores the default color.
func (r *Registry) ResetColor(id ID) {
	o := r.Option(id)
	if o.ID == Invalid || !o.HasColor() {
		return
	}
	o.Color = o.DefaultColor
}

// SetMarker configures the marker drawn for objects in this category.
func (r *Registry) SetMarker(id ID, m core.MarkerType, size int) {
	o := r.Option(id)
	if o.ID == Invalid {
		return
	}
	if m == core.MarkerUnknown {
		m = core.MarkerNone
	}
	o.Marker = m
	o.MarkerSize = size
}
