// Package engine drives the overlay once per host frame: it applies world
// events, updates every overlay object, splices the engine's primitive
// chains into the host's around the host draw, and recovers from faults.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/internal/queue"
	"github.com/mqmap/overlay/internal/scene"
	"github.com/mqmap/overlay/internal/world"
	"github.com/mqmap/overlay/pkg/core"
)

// FaultCooldown is the number of frames the engine stays out of the host's
// draw after a fault.
const FaultCooldown = 60

// Host is the renderer whose primitive chains the engine splices into.
// Heads returns pointers to the host's label and line list heads, or nil
// while the map view does not exist.
type Host interface {
	Heads() (labels, lines *scene.Handle)
}

// Targeter is implemented by worlds that accept target changes.
type Targeter interface {
	SetTarget(id world.SpawnID)
}

// Config carries the startup settings.
type Config struct {
	Settings  overlay.Settings
	Locations overlay.LocationParams
	Clicks    Clicks
	Logger    *slog.Logger
	// EventLimit bounds the host event queue. Zero means unbounded.
	EventLimit int
}

// Stats is a point-in-time view of the engine for monitoring.
type Stats struct {
	Frame         uint64
	Zone          string
	Active        bool
	Objects       int
	Labels        int
	Lines         int
	Locations     int
	FrameDuration time.Duration
	Faults        uint64
	Regenerations uint64
	DroppedEvents uint64
}

// Engine is safe for concurrent use. Frame and every exported operation
// serialize on one mutex.
type Engine struct {
	mu  sync.Mutex
	log *slog.Logger

	host      Host
	world     world.Snapshot
	scene     *scene.Scene
	filters   *filter.Registry
	index     *overlay.Index
	locations *overlay.Locations
	clicks    Clicks
	events    *queue.Queue[event]
	inst      *instruments

	active          bool
	needsRegenerate bool
	cooldown        int

	castCircle   scene.Circle
	spellCircle  scene.Circle
	campCircle   scene.Circle
	pullCircle   scene.Circle
	targetCircle scene.Circle
	meleeCircle  scene.Circle
	targetLine   scene.Handle

	savedLabelHead scene.Handle
	labelsAttached bool
	linesAttached  bool

	frame         uint64
	lastDuration  time.Duration
	faults        uint64
	regenerations uint64
}

// New builds an inactive engine. Call SetGameState(true) to start tracking.
func New(w world.Snapshot, host Host, sc *scene.Scene, filters *filter.Registry, cfg Config) (*Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	ix := overlay.NewIndex(sc, filters, w, cfg.Settings)
	e := &Engine{
		log:       log.With("component", "engine"),
		host:      host,
		world:     w,
		scene:     sc,
		filters:   filters,
		index:     ix,
		locations: overlay.NewLocations(ix, cfg.Locations),
		clicks:    cfg.Clicks,
		events:    queue.New[event](),
	}
	if cfg.EventLimit > 0 {
		e.events = queue.NewBounded[event](cfg.EventLimit)
	}
	inst, err := newInstruments(e)
	if err != nil {
		return nil, fmt.Errorf("engine metrics: %w", err)
	}
	e.inst = inst
	return e, nil
}

// Stats returns counters for monitoring.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		Frame:         e.frame,
		Zone:          e.world.Zone(),
		Active:        e.active,
		Objects:       e.index.Len(),
		Labels:        e.scene.LabelChain.Len(),
		Lines:         e.scene.LineChain.Len(),
		Locations:     e.locations.Len(),
		FrameDuration: e.lastDuration,
		Faults:        e.faults,
		Regenerations: e.regenerations,
		DroppedEvents: e.events.Dropped(),
	}
}

// World returns the snapshot the engine reads from.
func (e *Engine) World() world.Snapshot { return e.world }

// Active reports whether the map is tracking the world.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// clear destroys every object and engine-owned primitive. It detaches
// first so no spliced node is freed while the host still links to it.
func (e *Engine) clear() {
	e.detach()
	e.index.ClearAll()
	e.index.SetLastTarget(nil)
	if !e.targetLine.IsNil() {
		_ = e.scene.RemoveLine(e.targetLine)
		e.targetLine = scene.Nil
	}
	for _, c := range e.circles() {
		c.Clear(e.scene)
	}
}

func (e *Engine) circles() []*scene.Circle {
	return []*scene.Circle{&e.castCircle, &e.spellCircle, &e.targetCircle, &e.meleeCircle, &e.campCircle, &e.pullCircle}
}

// generate walks the whole world and builds objects for everything that
// passes the filters.
func (e *Engine) generate() error {
	if !e.filters.IsEnabled(filter.All) {
		e.log.Debug("Generate skipped, All filter disabled")
		return nil
	}
	e.regenerations++
	e.inst.regenerated()

	spawns, err := e.world.Spawns()
	if err != nil {
		return fmt.Errorf("listing spawns: %w", err)
	}
	kinds := make(map[core.SpawnKind]int)
	created, rejected := 0, 0
	for _, s := range spawns {
		kinds[world.Classify(s)]++
		o, err := e.index.MakeSpawnObject(s, false)
		if err != nil {
			return err
		}
		if o == nil {
			rejected++
			continue
		}
		created++
	}

	ground := 0
	if e.filters.IsEnabled(filter.Ground) {
		items, err := e.world.GroundItems()
		if err != nil {
			return fmt.Errorf("listing ground items: %w", err)
		}
		for _, g := range items {
			if _, err := e.index.MakeGroundObject(g); err != nil {
				return err
			}
			ground++
		}
	}

	if err := e.locations.CreateAll(); err != nil {
		return err
	}

	st := e.index.Settings()
	if st.HideRepeat && st.HideQuery.Text != "" {
		e.hide(st.HideQuery)
	}
	if st.ShowRepeat && st.ShowQuery.Text != "" {
		if _, err := e.show(st.ShowQuery); err != nil {
			return err
		}
	}

	e.log.Info("Map generated",
		"zone", e.world.Zone(),
		"spawns", len(spawns),
		"objects", created,
		"rejected", rejected,
		"ground", ground,
		"pc", kinds[core.KindPC],
		"npc", kinds[core.KindNPC],
		"corpse", kinds[core.KindCorpse],
	)
	return nil
}

// regenerate is clear followed by generate, guarded like a frame phase.
func (e *Engine) regenerate() {
	e.clear()
	if err := guard(e.generate); err != nil {
		e.fault(PhaseUpdate, err)
	}
}

// Regenerate rebuilds every object from the world.
func (e *Engine) Regenerate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active {
		e.regenerate()
	}
}

// Clear destroys every object. Location templates are kept.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clear()
}

// Shutdown clears the map and stops tracking.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clear()
	e.active = false
	e.events.Clear()
	e.log.Info("Engine shut down")
}
