package overlay

import (
	"fmt"
	"math"

	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/geometry"
	"github.com/mqmap/overlay/internal/scene"
	"github.com/mqmap/overlay/internal/world"
	"github.com/mqmap/overlay/pkg/core"
)

// Variant tags the kind of entity an Object represents.
type Variant uint8

const (
	VariantSpawn Variant = iota + 1
	VariantGround
	VariantLocation
)

func (v Variant) String() string {
	switch v {
	case VariantSpawn:
		return "spawn"
	case VariantGround:
		return "ground"
	case VariantLocation:
		return "location"
	}
	return "unknown"
}

const (
	labelSize   = 3
	labelWidth  = 20
	labelHeight = 14
	vectorScale = 4
)

// Object is the overlay representation of one spawn, ground item or
// location marker. It owns its label, its optional heading vector and
// marker lines, and for locations the X-mark lines and radius circle.
type Object struct {
	variant Variant
	self    scene.Handle

	pos       core.Position3D
	heading   float64
	text      string
	color     core.Color
	highlight bool

	label       scene.Handle
	vector      scene.Handle
	marker      core.MarkerType
	markerSize  int
	markerLines []scene.Handle

	spawn    world.Spawn
	kind     core.SpawnKind
	explicit bool

	ground world.GroundItem

	location    *LocationTemplate
	initialized bool
	xLines      []scene.Handle
	circle      scene.Circle
}

func (o *Object) Variant() Variant              { return o.variant }
func (o *Object) Position() core.Position3D     { return o.pos }
func (o *Object) Heading() float64              { return o.heading }
func (o *Object) Text() string                  { return o.text }
func (o *Object) Color() core.Color             { return o.color }
func (o *Object) Highlighted() bool             { return o.highlight }
func (o *Object) Label() scene.Handle           { return o.label }
func (o *Object) Vector() scene.Handle          { return o.vector }
func (o *Object) Marker() core.MarkerType       { return o.marker }
func (o *Object) MarkerLines() []scene.Handle   { return o.markerLines }
func (o *Object) Kind() core.SpawnKind          { return o.kind }
func (o *Object) Explicit() bool                { return o.explicit }
func (o *Object) Location() *LocationTemplate   { return o.location }
func (o *Object) LocationLines() []scene.Handle { return o.xLines }
func (o *Object) Circle() *scene.Circle         { return &o.circle }

// Spawn returns the last snapshot of the wrapped spawn.
func (o *Object) Spawn() (world.Spawn, bool) {
	return o.spawn, o.variant == VariantSpawn
}

// GroundItem returns the last snapshot of the wrapped ground item.
func (o *Object) GroundItem() (world.GroundItem, bool) {
	return o.ground, o.variant == VariantGround
}

// SetHighlight marks the object as highlighted. The new color is applied
// on the next Update.
func (o *Object) SetHighlight(on bool) {
	o.highlight = on
}

func (o *Object) generateLabel(ix *Index) {
	o.label = ix.scene.AddLabel(scene.Label{
		Pos:    o.pos.MapSpace(),
		Layer:  ix.settings.ActiveLayer,
		Size:   labelSize,
		Color:  o.color,
		Text:   o.text,
		Width:  labelWidth,
		Height: labelHeight,
	})
	ix.labels[o.label] = o.self
}

func (o *Object) setText(ix *Index, text string) {
	if o.text == text {
		return
	}
	o.text = text
	if l := ix.scene.Label(o.label); l != nil {
		l.Text = text
	}
}

func (o *Object) setColor(ix *Index, c core.Color) {
	if o.color == c {
		return
	}
	o.color = c
	if l := ix.scene.Label(o.label); l != nil {
		l.Color = c
	}
	for _, h := range o.markerLines {
		if l := ix.scene.Line(h); l != nil {
			l.Color = c
		}
	}
	if l := ix.scene.Line(o.vector); l != nil {
		l.Color = c
	}
}

// SetPosition moves the object and forces an update when it changed.
func (o *Object) SetPosition(ix *Index, pos core.Position3D) error {
	if o.pos == pos {
		return nil
	}
	o.pos = pos
	return o.Update(ix, true)
}

func (o *Object) postInit(ix *Index) error {
	if o.variant == VariantLocation {
		o.initialized = true
	}
	o.generateMarker(ix)
	if err := o.Update(ix, true); err != nil {
		return err
	}
	if o.variant == VariantSpawn && ix.filters.IsEnabled(filter.Vector) {
		o.generateVector(ix)
	}
	return nil
}

// Update resyncs the object from the world and the filter table. forced
// recomputes text and color even when nothing tracked has changed.
func (o *Object) Update(ix *Index, forced bool) error {
	switch o.variant {
	case VariantSpawn:
		return o.updateSpawn(ix, forced)
	case VariantGround:
		g, err := ix.world.GroundItem(o.ground.ID)
		if err != nil {
			return fmt.Errorf("ground item %d: %w", o.ground.ID, err)
		}
		o.ground = g
		o.pos, o.heading = g.Pos, g.Heading
		o.updateBase(ix)
	case VariantLocation:
		o.updateBase(ix)
		if forced && o.initialized {
			o.rebuildLocation(ix)
		}
	}
	return nil
}

func (o *Object) updateBase(ix *Index) {
	if l := ix.scene.Label(o.label); l != nil {
		l.Pos = o.pos.MapSpace()
	}
	if o.highlight {
		o.setColor(ix, ix.settings.HighlightColor)
	}
	if ix.filters.IsEnabled(filter.Marker) {
		o.updateMarker(ix)
	} else {
		o.removeMarker(ix)
	}
}

func (o *Object) updateSpawn(ix *Index, forced bool) error {
	s, err := ix.world.Spawn(o.spawn.ID)
	if err != nil {
		return fmt.Errorf("spawn %d: %w", o.spawn.ID, err)
	}
	kind := world.Classify(s)
	changed := kind != o.kind
	o.spawn, o.kind = s, kind
	o.pos, o.heading = s.Pos, s.Heading

	switch {
	case changed || forced, o.text == "":
		// the name may not be populated yet when the spawn first appears
		o.setText(ix, o.Format(ix, ix.settings.NameFormat))
		o.setColor(ix, o.spawnColor(ix))
	case !o.highlight:
		o.setColor(ix, o.spawnColor(ix))
	}

	o.updateBase(ix)
	o.updateVector(ix)

	if ix.lastTarget == o.self {
		o.setColor(ix, ix.filters.Option(filter.Target).Color)
		o.setText(ix, o.Format(ix, ix.settings.TargetFormat))
	}
	return nil
}

func (o *Object) spawnColor(ix *Index) core.Color {
	switch o.kind {
	case core.KindPC:
		if ix.filters.IsEnabled(filter.PCConColor) {
			return core.ConColor(o.spawn.ConLevel)
		}
		return ix.filters.Option(filter.PC).Color
	case core.KindNPC:
		if ix.filters.IsEnabled(filter.NPCConColor) {
			return core.ConColor(o.spawn.ConLevel)
		}
		return ix.filters.Option(filter.NPC).Color
	case core.KindCorpse:
		if o.spawn.Deity == 0 {
			return ix.filters.Option(filter.NPCCorpse).Color
		}
		return ix.filters.Option(filter.PCCorpse).Color
	}
	if id := filter.ForKind(o.kind); id != filter.Invalid {
		return ix.filters.Option(id).Color
	}
	return core.RGB(0, 0, 0)
}

// FilterCategory is the filter option whose marker settings apply to the
// object.
func (o *Object) FilterCategory(ix *Index) filter.ID {
	switch o.variant {
	case VariantSpawn:
		if o.kind == core.KindNPC && ix.filters.IsEnabled(filter.Named) && world.IsNamed(o.spawn) {
			return filter.Named
		}
		return filter.ForKind(o.kind)
	case VariantGround:
		return filter.Ground
	}
	return filter.Invalid
}

// CanDisplay reports whether the object should stay on the map.
func (o *Object) CanDisplay(ix *Index) bool {
	switch o.variant {
	case VariantSpawn:
		return o.explicit || ix.CanDisplaySpawn(o.spawn)
	case VariantGround:
		return ix.filters.IsEnabled(filter.Ground)
	case VariantLocation:
		return true
	}
	return false
}

func (o *Object) markerDrawSize(ix *Index) int {
	if !o.highlight {
		return o.markerSize
	}
	if ix.settings.HighlightPulse {
		return ix.pulse.Size(ix.settings.HighlightSize)
	}
	return ix.settings.HighlightSize
}

func (o *Object) generateMarker(ix *Index) {
	if !ix.filters.IsEnabled(filter.Marker) {
		return
	}
	o.removeMarker(ix)
	opt := ix.filters.Option(o.FilterCategory(ix))
	if opt.Marker == core.MarkerNone || opt.Marker == core.MarkerUnknown {
		return
	}
	o.marker, o.markerSize = opt.Marker, opt.MarkerSize
	segs := geometry.Marker(o.marker, o.pos, o.heading, o.markerDrawSize(ix))
	o.markerLines = ix.scene.AddSegments(segs, o.color, ix.settings.ActiveLayer)
}

func (o *Object) updateMarker(ix *Index) {
	if o.marker == core.MarkerNone {
		return
	}
	segs := geometry.Marker(o.marker, o.pos, o.heading, o.markerDrawSize(ix))
	for i, h := range o.markerLines {
		if l := ix.scene.Line(h); l != nil && i < len(segs) {
			l.Start, l.End, l.Color = segs[i].Start, segs[i].End, o.color
		}
	}
}

func (o *Object) removeMarker(ix *Index) {
	o.markerLines = ix.scene.RemoveLines(o.markerLines)
	o.marker = core.MarkerNone
}

func (o *Object) generateVector(ix *Index) {
	if !o.vector.IsNil() {
		return
	}
	o.vector = ix.scene.AddLine(scene.Line{Color: o.color, Layer: ix.settings.ActiveLayer})
	o.updateVector(ix)
}

func (o *Object) updateVector(ix *Index) {
	l := ix.scene.Line(o.vector)
	if l == nil {
		return
	}
	s := o.spawn
	l.Start = s.Pos.MapSpace()
	l.End = l.Start
	if s.SpeedRun > 0 {
		l.End.X -= s.SpeedX * vectorScale
		l.End.Y -= s.SpeedY * vectorScale
	} else {
		a := s.Heading / 256 * math.Pi
		l.End.X -= math.Sin(a) * vectorScale
		l.End.Y -= math.Cos(a) * vectorScale
	}
}

func (o *Object) removeVector(ix *Index) {
	if !o.vector.IsNil() {
		_ = ix.scene.RemoveLine(o.vector)
		o.vector = scene.Nil
	}
}

func (o *Object) rebuildLocation(ix *Index) {
	o.clearLocation(ix)
	t := o.location
	color := t.params.Color
	if t.selected {
		color = color.Inverted()
	}
	o.setColor(ix, color)
	segs := geometry.XMark(o.pos, t.params.LineSize, t.params.Width)
	o.xLines = ix.scene.AddSegments(segs, color, ix.settings.ActiveLayer)
	if t.params.CircleRadius > 0 {
		o.circle.Update(ix.scene, o.pos, t.params.CircleRadius, t.params.CircleColor, ix.settings.ActiveLayer)
	} else {
		o.circle.Clear(ix.scene)
	}
}

func (o *Object) clearLocation(ix *Index) {
	o.xLines = ix.scene.RemoveLines(o.xLines)
	o.circle.Clear(ix.scene)
}

// destroy frees every primitive the object owns.
func (o *Object) destroy(ix *Index) {
	if !o.label.IsNil() {
		_ = ix.scene.RemoveLabel(o.label)
		delete(ix.labels, o.label)
		o.label = scene.Nil
	}
	o.removeVector(ix)
	o.removeMarker(ix)
	if o.variant == VariantLocation {
		o.clearLocation(ix)
		if o.location != nil {
			o.location.object = nil
			o.location = nil
		}
	}
}
