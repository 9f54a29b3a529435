// Package world is the boundary to the game's live state: spawns, ground
// items, the local player and the current target.
package world

import (
	"errors"

	"github.com/mqmap/overlay/pkg/core"
)

// ErrStaleHandle is returned when a spawn or ground item no longer exists.
var ErrStaleHandle = errors.New("world entity no longer exists")

// SpawnID identifies a spawn for as long as it exists.
type SpawnID uint32

// GroundID identifies a ground item for as long as it exists.
type GroundID uint32

// Raw spawn types as reported by the game.
const (
	RawPlayer = 0
	RawNPC    = 1
	RawCorpse = 2
)

// Class and race codes used by classification.
const (
	ClassObject      = 62
	RaceInvisible    = 127
	RaceBanner       = 500
	RaceSpikeTrap    = 513
	RaceTotem        = 514
	RaceBanner0      = 553
	RaceBanner4      = 557
	RaceCampsite     = 567
	RaceTCGBanner    = 586
	BodyNone         = 0
	BodyConstruct    = 5
	BodyMagical      = 7
	BodyUntargetable = 11
	BodyCursed       = 33
	BodyUtility      = 100
	BodyTrap         = 101
	BodyCompanion    = 102
	BodySuicide      = 103
)

// Spawn is a point-in-time copy of one spawn's state.
type Spawn struct {
	ID            SpawnID         `json:"id"`
	Name          string          `json:"name"`
	DisplayedName string          `json:"displayedName"`
	RawType       int             `json:"type"`
	Pos           core.Position3D `json:"pos"`
	Heading       float64         `json:"heading"`
	SpeedX        float64         `json:"speedX"`
	SpeedY        float64         `json:"speedY"`
	SpeedRun      float64         `json:"speedRun"`
	Level         int             `json:"level"`
	Race          int             `json:"race"`
	Class         int             `json:"class"`
	BodyType      int             `json:"bodyType"`
	Deity         int             `json:"deity"`
	HPCurrent     int64           `json:"hp"`
	Height        float64         `json:"height"`
	MasterID      SpawnID         `json:"masterId"`
	Rider         bool            `json:"rider"`
	Mercenary     bool            `json:"mercenary"`
	ConLevel      int             `json:"conLevel"`

	GM         bool `json:"gm"`
	LFG        bool `json:"lfg"`
	Trader     bool `json:"trader"`
	Merchant   bool `json:"merchant"`
	Banker     bool `json:"banker"`
	Grouped    bool `json:"grouped"`
	Targetable bool `json:"targetable"`
}

// GroundItem is a point-in-time copy of one ground item.
type GroundItem struct {
	ID           GroundID        `json:"id"`
	Name         string          `json:"name"`
	FriendlyName string          `json:"friendlyName"`
	Pos          core.Position3D `json:"pos"`
	Heading      float64         `json:"heading"`
}

// Snapshot is read by the engine on the frame thread.
type Snapshot interface {
	// Spawns lists every spawn in the zone.
	Spawns() ([]Spawn, error)
	// Spawn returns ErrStaleHandle when id is gone.
	Spawn(id SpawnID) (Spawn, error)
	GroundItems() ([]GroundItem, error)
	GroundItem(id GroundID) (GroundItem, error)
	// LocalPlayer is the character's own spawn.
	LocalPlayer() (Spawn, bool)
	// ControlledPlayer is the spawn the player is controlling (may be a mount).
	ControlledPlayer() (Spawn, bool)
	Target() (Spawn, bool)
	// CanSee reports line of sight from the local player to id.
	CanSee(id SpawnID) bool
	Zone() string
}
