package world

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process world used by the terminal host and tests.
// It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	zone    string
	spawns  map[SpawnID]Spawn
	ground  map[GroundID]GroundItem
	local   SpawnID
	control SpawnID
	target  SpawnID
	hidden  map[SpawnID]bool
}

// NewMemory returns an empty world in the named zone.
func NewMemory(zone string) *Memory {
	return &Memory{
		zone:   zone,
		spawns: make(map[SpawnID]Spawn),
		ground: make(map[GroundID]GroundItem),
		hidden: make(map[SpawnID]bool),
	}
}

// SceneFile is the JSON layout accepted by LoadScene.
type SceneFile struct {
	Zone        string       `json:"zone"`
	LocalPlayer SpawnID      `json:"localPlayer"`
	Target      SpawnID      `json:"target"`
	Spawns      []Spawn      `json:"spawns"`
	GroundItems []GroundItem `json:"groundItems"`
}

// LoadScene reads a JSON scene file into a new Memory world.
func LoadScene(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}
	m := NewMemory(sf.Zone)
	for _, s := range sf.Spawns {
		m.AddSpawn(s)
	}
	for _, g := range sf.GroundItems {
		m.AddGroundItem(g)
	}
	m.SetLocalPlayer(sf.LocalPlayer)
	m.SetTarget(sf.Target)
	return m, nil
}

func (m *Memory) AddSpawn(s Spawn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spawns[s.ID] = s
}

func (m *Memory) RemoveSpawn(id SpawnID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.spawns, id)
	if m.target == id {
		m.target = 0
	}
}

// UpdateSpawn applies fn to a stored spawn.
func (m *Memory) UpdateSpawn(id SpawnID, fn func(*Spawn)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.spawns[id]
	if !ok {
		return ErrStaleHandle
	}
	fn(&s)
	m.spawns[id] = s
	return nil
}

func (m *Memory) AddGroundItem(g GroundItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ground[g.ID] = g
}

func (m *Memory) RemoveGroundItem(id GroundID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ground, id)
}

// SetLocalPlayer sets both the local and the controlled player.
func (m *Memory) SetLocalPlayer(id SpawnID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.local, m.control = id, id
}

// SetControlledPlayer overrides the controlled spawn, e.g. a mount.
func (m *Memory) SetControlledPlayer(id SpawnID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.control = id
}

func (m *Memory) SetTarget(id SpawnID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.target = id
}

// SetLineOfSight blocks or unblocks sight of a spawn.
func (m *Memory) SetLineOfSight(id SpawnID, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if visible {
		delete(m.hidden, id)
	} else {
		m.hidden[id] = true
	}
}

// SetZone switches zone and empties the world.
func (m *Memory) SetZone(zone string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zone = zone
	m.spawns = make(map[SpawnID]Spawn)
	m.ground = make(map[GroundID]GroundItem)
	m.local, m.control, m.target = 0, 0, 0
}

// Step advances every moving spawn by its speed over d.
func (m *Memory) Step(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	secs := d.Seconds()
	for id, s := range m.spawns {
		if s.SpeedX == 0 && s.SpeedY == 0 {
			continue
		}
		s.Pos.X += s.SpeedX * secs
		s.Pos.Y += s.SpeedY * secs
		m.spawns[id] = s
	}
}

func (m *Memory) Spawns() ([]Spawn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Spawn, 0, len(m.spawns))
	for _, s := range m.spawns {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Spawn(id SpawnID) (Spawn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.spawns[id]
	if !ok {
		return Spawn{}, ErrStaleHandle
	}
	return s, nil
}

func (m *Memory) GroundItems() ([]GroundItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]GroundItem, 0, len(m.ground))
	for _, g := range m.ground {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GroundItem(id GroundID) (GroundItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.ground[id]
	if !ok {
		return GroundItem{}, ErrStaleHandle
	}
	return g, nil
}

func (m *Memory) lookup(id SpawnID) (Spawn, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id == 0 {
		return Spawn{}, false
	}
	s, ok := m.spawns[id]
	return s, ok
}

func (m *Memory) LocalPlayer() (Spawn, bool) {
	m.mu.RLock()
	id := m.local
	m.mu.RUnlock()
	return m.lookup(id)
}

func (m *Memory) ControlledPlayer() (Spawn, bool) {
	m.mu.RLock()
	id := m.control
	m.mu.RUnlock()
	return m.lookup(id)
}

func (m *Memory) Target() (Spawn, bool) {
	m.mu.RLock()
	id := m.target
	m.mu.RUnlock()
	return m.lookup(id)
}

func (m *Memory) CanSee(id SpawnID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.hidden[id]
}

func (m *Memory) Zone() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.zone
}
