package overlay

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/mqmap/overlay/pkg/core"
)

// LocationParams describe how a location marker is drawn.
type LocationParams struct {
	LineSize     float64    `json:"lineSize"`
	Width        int        `json:"width"`
	Color        core.Color `json:"color"`
	CircleRadius float64    `json:"circleRadius"`
	CircleColor  core.Color `json:"circleColor"`
}

// DefaultLocationParams are used when nothing is configured.
func DefaultLocationParams() LocationParams {
	return LocationParams{
		LineSize:    10,
		Width:       2,
		Color:       core.RGB(255, 0, 0),
		CircleColor: core.RGB(0, 0, 255),
	}
}

// CommandString renders p as maploc arguments.
func (p LocationParams) CommandString() string {
	return fmt.Sprintf(" size %.0f width %d color %s radius %.0f rcolor %s",
		p.LineSize, p.Width, p.Color, p.CircleRadius, p.CircleColor)
}

// LocationTemplate is a user placed map location. The template outlives its
// overlay object, which is rebuilt whenever the map is regenerated.
type LocationTemplate struct {
	owner *Locations

	params    LocationParams
	label     string
	tag       string
	pos       core.Position3D
	isDefault bool
	index     int
	selected  bool

	object *Object
}

func (t *LocationTemplate) Params() LocationParams    { return t.params }
func (t *LocationTemplate) Label() string             { return t.label }
func (t *LocationTemplate) Tag() string               { return t.tag }
func (t *LocationTemplate) Position() core.Position3D { return t.pos }
func (t *LocationTemplate) IsDefault() bool           { return t.isDefault }
func (t *LocationTemplate) Index() int                { return t.index }
func (t *LocationTemplate) Selected() bool            { return t.selected }
func (t *LocationTemplate) Object() *Object           { return t.object }

func (t *LocationTemplate) createObject() error {
	if t.object != nil {
		return nil
	}
	if _, err := t.owner.ix.makeLocationObject(t); err != nil {
		return err
	}
	t.updateLabel()
	return nil
}

func (t *LocationTemplate) refresh() error {
	if t.object == nil {
		return nil
	}
	return t.object.Update(t.owner.ix, true)
}

func (t *LocationTemplate) SetSelected(selected bool) error {
	if t.selected == selected {
		return nil
	}
	t.selected = selected
	return t.refresh()
}

func (t *LocationTemplate) SetLabel(label string) {
	if t.label == label {
		return
	}
	t.label = label
	t.updateLabel()
}

func (t *LocationTemplate) setIndex(i int) {
	if t.index == i {
		return
	}
	t.index = i
	t.updateLabel()
}

// UpdateParams replaces the drawing parameters and redraws.
func (t *LocationTemplate) UpdateParams(p LocationParams) error {
	t.params = p
	return t.refresh()
}

func (t *LocationTemplate) updateLabel() {
	if t.object == nil {
		return
	}
	text := strconv.Itoa(t.index)
	if t.label != "" {
		text = fmt.Sprintf("%d: %s", t.index, t.label)
	}
	t.object.setText(t.owner.ix, text)
}

// Locations is the ordered list of location templates. Indexes are 1-based
// and renumbered after every deletion.
type Locations struct {
	ix   *Index
	list []*LocationTemplate

	Defaults  LocationParams
	Overrides LocationParams
}

func NewLocations(ix *Index, defaults LocationParams) *Locations {
	return &Locations{ix: ix, Defaults: defaults, Overrides: defaults}
}

func (l *Locations) Len() int { return len(l.list) }

// All returns the templates in index order.
func (l *Locations) All() []*LocationTemplate {
	return slices.Clone(l.list)
}

// Add appends a template at pos and materializes it.
func (l *Locations) Add(p LocationParams, label string, pos core.Position3D, isDefault bool) (*LocationTemplate, error) {
	t := &LocationTemplate{
		owner:     l,
		params:    p,
		label:     label,
		tag:       pos.Tag(),
		pos:       pos,
		isDefault: isDefault,
		index:     len(l.list) + 1,
	}
	l.list = append(l.list, t)
	if err := t.createObject(); err != nil {
		return t, fmt.Errorf("maploc %s: %w", t.tag, err)
	}
	return t, nil
}

// ByTag returns the first template with the given tag.
func (l *Locations) ByTag(tag string) *LocationTemplate {
	for _, t := range l.list {
		if t.tag == tag {
			return t
		}
	}
	return nil
}

// ByIndex returns the template at a 1-based index.
func (l *Locations) ByIndex(i int) *LocationTemplate {
	if i < 1 || i > len(l.list) {
		return nil
	}
	return l.list[i-1]
}

func (l *Locations) destroy(t *LocationTemplate) {
	if t.object != nil {
		l.ix.Remove(t.object)
	}
	t.owner = nil
}

func (l *Locations) renumber() {
	for i, t := range l.list {
		t.setIndex(i + 1)
	}
}

// Delete removes t and renumbers the rest.
func (l *Locations) Delete(t *LocationTemplate) error {
	i := slices.Index(l.list, t)
	if i < 0 {
		return ErrNotFound
	}
	l.destroy(t)
	l.list = slices.Delete(l.list, i, i+1)
	l.renumber()
	return nil
}

// DeleteAll removes every template and returns how many there were.
func (l *Locations) DeleteAll() int {
	n := len(l.list)
	for _, t := range l.list {
		l.destroy(t)
	}
	l.list = nil
	return n
}

// DeleteSelected removes every selected template.
func (l *Locations) DeleteSelected() int {
	n := 0
	l.list = slices.DeleteFunc(l.list, func(t *LocationTemplate) bool {
		if !t.selected {
			return false
		}
		l.destroy(t)
		n++
		return true
	})
	l.renumber()
	return n
}

// CreateAll materializes templates whose object was cleared.
func (l *Locations) CreateAll() error {
	for _, t := range l.list {
		if err := t.createObject(); err != nil {
			return fmt.Errorf("maploc %s: %w", t.tag, err)
		}
	}
	return nil
}

// UpdateDefaultInstances redraws templates created from the defaults.
func (l *Locations) UpdateDefaultInstances() error {
	for _, t := range l.list {
		if !t.isDefault {
			continue
		}
		if err := t.UpdateParams(l.Defaults); err != nil {
			return err
		}
	}
	return nil
}

func (l *Locations) ResetOverrides() {
	l.Overrides = l.Defaults
}
