package core

import "strings"

// SpawnKind is the classified category of a world spawn.
type SpawnKind int

const (
	KindNone SpawnKind = iota
	KindPC
	KindMount
	KindPet
	KindPCPet
	KindNPCPet
	KindXTarHater
	KindNPC
	KindCorpse
	KindTrigger
	KindTrap
	KindTimer
	KindUntargetable
	KindChest
	KindItem
	KindAura
	KindObject
	KindBanner
	KindCampfire
	KindMercenary
	KindFlyer
	KindNPCCorpse SpawnKind = 2000
	KindPCCorpse  SpawnKind = 2001
)

var kindNames = map[SpawnKind]string{
	KindNone:         "any",
	KindPC:           "pc",
	KindMount:        "mount",
	KindPet:          "pet",
	KindPCPet:        "pcpet",
	KindNPCPet:       "npcpet",
	KindXTarHater:    "xtarhater",
	KindNPC:          "npc",
	KindCorpse:       "corpse",
	KindTrigger:      "trigger",
	KindTrap:         "trap",
	KindTimer:        "timer",
	KindUntargetable: "untargetable",
	KindChest:        "chest",
	KindItem:         "item",
	KindAura:         "aura",
	KindObject:       "object",
	KindBanner:       "banner",
	KindCampfire:     "campfire",
	KindMercenary:    "mercenary",
	KindFlyer:        "flyer",
	KindNPCCorpse:    "npccorpse",
	KindPCCorpse:     "pccorpse",
}

func (k SpawnKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseSpawnKind resolves a search keyword to a kind. "item" is not a
// search keyword and is rejected.
func ParseSpawnKind(s string) (SpawnKind, bool) {
	s = strings.ToLower(s)
	if s == "item" {
		return KindNone, false
	}
	for k, n := range kindNames {
		if n == s {
			return k, true
		}
	}
	return KindNone, false
}
