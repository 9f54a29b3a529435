package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/internal/scene"
	"github.com/mqmap/overlay/internal/world"
	"github.com/mqmap/overlay/pkg/core"
)

// Phase names a step of the frame for fault reporting.
type Phase int

const (
	PhaseUpdate Phase = iota + 1
	PhaseAttach
	PhaseRender
	PhaseDetach
)

func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhaseAttach:
		return "attach"
	case PhaseRender:
		return "render"
	case PhaseDetach:
		return "detach"
	}
	return "unknown"
}

var errPanic = errors.New("panic in frame")

// guard runs fn and turns a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	return fn()
}

// Frame runs one host frame. render is the host's own draw and is always
// called exactly once; the engine's primitives are spliced into the host
// chains only for its duration.
func (e *Engine) Frame(render func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	e.frame++
	defer func() {
		e.lastDuration = time.Since(start)
		e.inst.frameDone(e.lastDuration)
	}()

	populated := e.index.Len() > 0
	removed := e.drainEvents()

	if e.cooldown > 0 {
		e.cooldown--
		if e.cooldown == 0 {
			e.log.Info("Fault cooldown expired, retrying", "frame", e.frame)
		}
		render()
		return
	}
	if !e.active {
		render()
		return
	}

	if _, ok := e.world.LocalPlayer(); !ok {
		if e.index.Len() > 0 || !e.scene.LabelChain.Empty() || !e.scene.LineChain.Empty() {
			e.log.Info("Local player missing, zone transition, clearing map", "frame", e.frame)
			e.clear()
			e.needsRegenerate = true
		}
		render()
		return
	}
	if populated && removed && e.index.Len() == 0 {
		e.log.Info("Active list emptied by world removals, regenerating", "frame", e.frame)
		e.needsRegenerate = true
	}
	if e.needsRegenerate {
		e.log.Info("Regenerating map", "frame", e.frame, "zone", e.world.Zone())
		e.needsRegenerate = false
		e.regenerate()
		if e.cooldown > 0 {
			render()
			return
		}
	}

	if err := guard(e.update); err != nil {
		e.fault(PhaseUpdate, err)
		render()
		return
	}
	if err := guard(func() error { e.attach(); return nil }); err != nil {
		e.fault(PhaseAttach, err)
		render()
		return
	}
	defer func() {
		if err := guard(func() error { e.detach(); return nil }); err != nil {
			e.fault(PhaseDetach, err)
		}
	}()
	render()
}

// fault is the recovery for anything raised inside the frame. Faults in or
// before the update pass discard every object, since any of them may hold a
// stale handle; the map is rebuilt from scratch once the cooldown expires.
func (e *Engine) fault(phase Phase, err error) {
	e.faults++
	e.inst.fault(phase)
	e.log.Error("Frame fault",
		"frame", e.frame,
		"phase", phase.String(),
		"error", err,
	)
	if phase <= PhaseUpdate {
		if cerr := guard(func() error { e.clear(); return nil }); cerr != nil {
			e.log.Error("Clear after fault failed", "error", cerr)
		}
		e.needsRegenerate = true
	}
	e.cooldown = FaultCooldown
	if derr := guard(func() error { e.detach(); return nil }); derr != nil {
		e.log.Error("Detach after fault failed", "error", derr)
	}
}

// update is the per-frame walk over the active list.
func (e *Engine) update() error {
	local, ok := e.world.LocalPlayer()
	if !ok {
		return nil
	}
	ix := e.index
	if ix.Settings().HighlightPulse {
		ix.Pulse().Advance(time.Now())
	}

	target, hasTarget := e.world.Target()
	oldTarget := ix.LastTarget()
	changed := false
	if oldTarget != nil {
		if sp, _ := oldTarget.Spawn(); !hasTarget || sp.ID != target.ID {
			if !oldTarget.CanDisplay(ix) {
				ix.Remove(oldTarget)
				oldTarget = nil
			}
			ix.SetLastTarget(nil)
			changed = true
		}
	}

	if hasTarget && e.filters.IsEnabled(filter.Target) {
		o, err := ix.MakeSpawnObject(target, false)
		if err != nil {
			return fmt.Errorf("target %d: %w", target.ID, err)
		}
		ix.SetLastTarget(o)
	}

	var err error
	total, removed := 0, 0
	ix.Each(func(o *overlay.Object) bool {
		total++
		if err = o.Update(ix, changed && o == oldTarget); err != nil {
			return false
		}
		if !o.CanDisplay(ix) {
			ix.Remove(o)
			removed++
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("update pass: %w", err)
	}
	if removed > 0 {
		e.log.Debug("Update pass removed objects", "total", total, "removed", removed)
	}

	layer := ix.Settings().ActiveLayer
	e.radius(&e.castCircle, filter.CastRadius, local.Pos, layer)
	e.radius(&e.spellCircle, filter.SpellRadius, local.Pos, layer)
	camp := e.filters.Option(filter.CampRadius).Center
	camp.Z = local.Pos.Z
	e.radius(&e.campCircle, filter.CampRadius, camp, layer)
	pull := e.filters.Option(filter.PullRadius).Center
	pull.Z = local.Pos.Z
	e.radius(&e.pullCircle, filter.PullRadius, pull, layer)

	if ix.LastTarget() != nil && hasTarget {
		e.updateTarget(local, target, layer)
	} else {
		e.targetCircle.Clear(e.scene)
		e.meleeCircle.Clear(e.scene)
		e.removeTargetLine()
	}
	return nil
}

func (e *Engine) radius(c *scene.Circle, id filter.ID, center core.Position3D, layer int) {
	if !e.filters.IsEnabled(id) {
		c.Clear(e.scene)
		return
	}
	opt := e.filters.Option(id)
	c.Update(e.scene, center, opt.Radius, opt.Color, layer)
}

func (e *Engine) updateTarget(local, target world.Spawn, layer int) {
	if e.filters.IsEnabled(filter.TargetLine) {
		if e.targetLine.IsNil() {
			e.targetLine = e.scene.AddLine(scene.Line{Layer: layer})
		}
		if l := e.scene.Line(e.targetLine); l != nil {
			l.Color = e.filters.Option(filter.TargetLine).Color
			l.Start = local.Pos.MapSpace()
			l.End = target.Pos.MapSpace()
		}
	} else {
		e.removeTargetLine()
	}

	e.radius(&e.targetCircle, filter.TargetRadius, target.Pos, layer)

	if !e.filters.IsEnabled(filter.TargetMelee) {
		e.meleeCircle.Clear(e.scene)
		return
	}
	opt := e.filters.Option(filter.TargetMelee)
	ref := &target
	if int(opt.Radius) <= 1 {
		ref = nil
		if c, ok := e.world.ControlledPlayer(); ok {
			ref = &c
		}
	}
	e.meleeCircle.Update(e.scene, target.Pos, world.MeleeRange(ref, &target), opt.Color, layer)
}

func (e *Engine) removeTargetLine() {
	if e.targetLine.IsNil() {
		return
	}
	_ = e.scene.RemoveLine(e.targetLine)
	e.targetLine = scene.Nil
}
