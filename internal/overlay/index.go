package overlay

import (
	"errors"

	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/geometry"
	"github.com/mqmap/overlay/internal/scene"
	"github.com/mqmap/overlay/internal/world"
	"github.com/mqmap/overlay/pkg/core"
)

var ErrNotFound = errors.New("overlay object not found")

// Index owns every overlay object, the active list linking them, and the
// lookups from world handles and label handles back to objects.
type Index struct {
	scene    *scene.Scene
	filters  *filter.Registry
	world    world.Snapshot
	settings Settings
	pulse    geometry.PulseState

	objects scene.Pool[*Object]
	active  scene.Chain

	spawns map[world.SpawnID]scene.Handle
	ground map[world.GroundID]scene.Handle
	labels map[scene.Handle]scene.Handle

	lastTarget scene.Handle
}

func NewIndex(sc *scene.Scene, filters *filter.Registry, w world.Snapshot, settings Settings) *Index {
	ix := &Index{
		scene:    sc,
		filters:  filters,
		world:    w,
		settings: settings,
		spawns:   make(map[world.SpawnID]scene.Handle),
		ground:   make(map[world.GroundID]scene.Handle),
		labels:   make(map[scene.Handle]scene.Handle),
	}
	ix.pulse.Reset(settings.HighlightSize)
	return ix
}

func (ix *Index) Scene() *scene.Scene         { return ix.scene }
func (ix *Index) Filters() *filter.Registry   { return ix.filters }
func (ix *Index) World() world.Snapshot       { return ix.world }
func (ix *Index) Settings() *Settings         { return &ix.settings }
func (ix *Index) Pulse() *geometry.PulseState { return &ix.pulse }

// Len is the number of live objects.
func (ix *Index) Len() int { return ix.active.Len() }

func (ix *Index) get(h scene.Handle) *Object {
	if p := ix.objects.Get(h); p != nil {
		return *p
	}
	return nil
}

// Each visits the active list from the head. fn may remove the object it
// is given; returning false stops the walk.
func (ix *Index) Each(fn func(*Object) bool) {
	ix.objects.Walk(ix.active.Head, func(_ scene.Handle, o **Object) bool {
		return fn(*o)
	})
}

// Objects returns the live objects in list order.
func (ix *Index) Objects() []*Object {
	out := make([]*Object, 0, ix.active.Len())
	ix.Each(func(o *Object) bool {
		out = append(out, o)
		return true
	})
	return out
}

func (ix *Index) link(o *Object) {
	o.self = ix.objects.Alloc(o)
	_ = ix.objects.PushFront(&ix.active, o.self)
}

// CanDisplaySpawn is the category visibility predicate for a spawn that has
// not been explicitly shown.
func (ix *Index) CanDisplaySpawn(s world.Spawn) bool {
	if t, ok := ix.world.Target(); ok && t.ID == s.ID && ix.filters.IsEnabled(filter.Target) {
		return true
	}
	if ix.filters.IsEnabled(filter.Custom) {
		return ix.settings.Custom.Matches(s, ix.world)
	}

	kind := world.Classify(s)
	switch kind {
	case core.KindNPC:
		if ix.filters.IsEnabled(filter.Named) {
			return world.IsNamed(s)
		}
		return ix.filters.IsEnabled(filter.NPC)
	case core.KindCorpse:
		if s.Deity == 0 {
			return ix.filters.IsEnabled(filter.NPCCorpse)
		}
		return ix.filters.IsEnabled(filter.PCCorpse)
	case core.KindFlyer:
		return false
	}
	return ix.filters.IsEnabled(filter.ForKind(kind))
}

// MakeSpawnObject returns the object for s, creating it when s passes the
// visibility predicate or explicit is set. A nil object with a nil error
// means s was filtered out.
func (ix *Index) MakeSpawnObject(s world.Spawn, explicit bool) (*Object, error) {
	if o := ix.FindSpawn(s.ID); o != nil {
		if explicit {
			o.explicit = true
		}
		return o, nil
	}
	if !explicit && !ix.CanDisplaySpawn(s) {
		return nil, nil
	}

	o := &Object{
		variant:  VariantSpawn,
		spawn:    s,
		kind:     world.Classify(s),
		explicit: explicit,
		pos:      s.Pos,
		heading:  s.Heading,
	}
	ix.link(o)
	o.text = o.Format(ix, ix.settings.NameFormat)
	o.color = o.spawnColor(ix)
	o.generateLabel(ix)
	ix.spawns[s.ID] = o.self

	if err := o.postInit(ix); err != nil {
		ix.Remove(o)
		return nil, err
	}
	return o, nil
}

func (ix *Index) FindSpawn(id world.SpawnID) *Object {
	h, ok := ix.spawns[id]
	if !ok {
		return nil
	}
	return ix.get(h)
}

// RemoveSpawn destroys the object mapped to id, if any.
func (ix *Index) RemoveSpawn(id world.SpawnID) bool {
	o := ix.FindSpawn(id)
	if o == nil {
		return false
	}
	ix.Remove(o)
	return true
}

// MakeGroundObject returns the object for g, or nil when the Ground filter
// is off.
func (ix *Index) MakeGroundObject(g world.GroundItem) (*Object, error) {
	if o := ix.FindGround(g.ID); o != nil {
		return o, nil
	}
	if !ix.filters.IsEnabled(filter.Ground) {
		return nil, nil
	}

	o := &Object{
		variant: VariantGround,
		ground:  g,
		pos:     g.Pos,
		heading: g.Heading,
	}
	ix.link(o)
	o.text = o.Format(ix, ix.settings.NameFormat)
	o.color = ix.filters.Option(filter.Ground).Color
	o.generateLabel(ix)
	ix.ground[g.ID] = o.self

	if err := o.postInit(ix); err != nil {
		ix.Remove(o)
		return nil, err
	}
	return o, nil
}

func (ix *Index) FindGround(id world.GroundID) *Object {
	h, ok := ix.ground[id]
	if !ok {
		return nil
	}
	return ix.get(h)
}

func (ix *Index) RemoveGround(id world.GroundID) bool {
	o := ix.FindGround(id)
	if o == nil {
		return false
	}
	ix.Remove(o)
	return true
}

func (ix *Index) makeLocationObject(t *LocationTemplate) (*Object, error) {
	o := &Object{
		variant:  VariantLocation,
		location: t,
		color:    t.params.Color,
	}
	ix.link(o)
	o.generateLabel(ix)
	t.object = o

	if err := o.SetPosition(ix, t.pos); err != nil {
		ix.Remove(o)
		return nil, err
	}
	if err := o.postInit(ix); err != nil {
		ix.Remove(o)
		return nil, err
	}
	return o, nil
}

// Remove destroys o and erases every lookup pointing at it.
func (ix *Index) Remove(o *Object) {
	if o == nil || !ix.objects.Valid(o.self) {
		return
	}
	switch o.variant {
	case VariantSpawn:
		if h, ok := ix.spawns[o.spawn.ID]; ok && h == o.self {
			delete(ix.spawns, o.spawn.ID)
		}
	case VariantGround:
		if h, ok := ix.ground[o.ground.ID]; ok && h == o.self {
			delete(ix.ground, o.ground.ID)
		}
	}
	if ix.lastTarget == o.self {
		ix.lastTarget = scene.Nil
	}
	o.destroy(ix)
	_ = ix.objects.Unlink(&ix.active, o.self)
	_ = ix.objects.Free(o.self)
	o.self = scene.Nil
}

// ClearAll destroys every object. Location templates survive and can be
// rematerialized with Locations.CreateAll.
func (ix *Index) ClearAll() {
	clear(ix.spawns)
	clear(ix.ground)
	for !ix.active.Empty() {
		o := ix.get(ix.active.Head)
		if o == nil {
			break
		}
		ix.Remove(o)
	}
	clear(ix.labels)
	ix.lastTarget = scene.Nil
}

// ObjectForLabel maps a label handle back to its owning object.
func (ix *Index) ObjectForLabel(h scene.Handle) *Object {
	oh, ok := ix.labels[h]
	if !ok {
		return nil
	}
	return ix.get(oh)
}

// LastTarget is the object tracking the current target, if any.
func (ix *Index) LastTarget() *Object {
	return ix.get(ix.lastTarget)
}

func (ix *Index) SetLastTarget(o *Object) {
	if o == nil {
		ix.lastTarget = scene.Nil
		return
	}
	ix.lastTarget = o.self
}
