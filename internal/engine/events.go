package engine

import "github.com/mqmap/overlay/internal/world"

type eventKind uint8

const (
	eventAddSpawn eventKind = iota + 1
	eventRemoveSpawn
	eventAddGround
	eventRemoveGround
	eventGameState
)

type event struct {
	kind     eventKind
	spawn    world.Spawn
	spawnID  world.SpawnID
	ground   world.GroundItem
	groundID world.GroundID
	inGame   bool
}

// OnAddSpawn queues a spawn that entered the world.
func (e *Engine) OnAddSpawn(s world.Spawn) {
	e.events.Push(event{kind: eventAddSpawn, spawn: s})
}

// OnRemoveSpawn queues a spawn that left the world.
func (e *Engine) OnRemoveSpawn(id world.SpawnID) {
	e.events.Push(event{kind: eventRemoveSpawn, spawnID: id})
}

func (e *Engine) OnAddGroundItem(g world.GroundItem) {
	e.events.Push(event{kind: eventAddGround, ground: g})
}

func (e *Engine) OnRemoveGroundItem(id world.GroundID) {
	e.events.Push(event{kind: eventRemoveGround, groundID: id})
}

// SetGameState queues a game state change. Entering the game regenerates
// the map; leaving it clears the map and stops tracking.
func (e *Engine) SetGameState(inGame bool) {
	e.events.Push(event{kind: eventGameState, inGame: inGame})
}

// drainEvents applies queued events in order and reports whether any
// object was removed.
func (e *Engine) drainEvents() (removed bool) {
	for _, ev := range e.events.Drain() {
		if ev.kind == eventGameState {
			e.applyGameState(ev.inGame)
			continue
		}
		if !e.active {
			continue
		}
		switch ev.kind {
		case eventAddSpawn:
			if _, err := e.index.MakeSpawnObject(ev.spawn, false); err != nil {
				e.log.Warn("Failed to add spawn", "id", ev.spawn.ID, "error", err)
			}
		case eventRemoveSpawn:
			removed = e.index.RemoveSpawn(ev.spawnID) || removed
		case eventAddGround:
			if _, err := e.index.MakeGroundObject(ev.ground); err != nil {
				e.log.Warn("Failed to add ground item", "id", ev.ground.ID, "error", err)
			}
		case eventRemoveGround:
			removed = e.index.RemoveGround(ev.groundID) || removed
		}
	}
	return removed
}

func (e *Engine) applyGameState(inGame bool) {
	if inGame {
		e.log.Info("Game state in game, generating map", "zone", e.world.Zone())
		e.active = true
		e.cooldown = 0
		e.needsRegenerate = false
		e.regenerate()
		return
	}
	e.log.Info("Game state changed, clearing map")
	e.clear()
	e.active = false
}
