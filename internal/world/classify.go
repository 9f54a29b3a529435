package world

import (
	"math"
	"strings"
	"unicode"

	"github.com/mqmap/overlay/pkg/core"
)

// Classify derives the spawn's category from its raw attributes.
func Classify(s Spawn) core.SpawnKind {
	switch s.RawType {
	case RawPlayer:
		return core.KindPC
	case RawCorpse:
		return core.KindCorpse
	case RawNPC:
		return classifyNPC(s)
	}
	return core.KindItem
}

func classifyNPC(s Spawn) core.SpawnKind {
	if s.Rider || strings.HasSuffix(s.DisplayedName, "`s Mount") {
		return core.KindMount
	}
	if s.MasterID != 0 {
		return core.KindPet
	}
	if s.Mercenary {
		return core.KindMercenary
	}
	if math.IsNaN(s.Pos.X) && math.IsNaN(s.Pos.Y) && math.IsNaN(s.Pos.Z) {
		return core.KindFlyer
	}

	objectOrNPC := core.KindNPC
	if s.Class == ClassObject {
		objectOrNPC = core.KindObject
	}

	switch s.BodyType {
	case BodyNone:
		return objectOrNPC
	case BodyConstruct:
		if s.Race == RaceInvisible && containsAny(s.Name, "Aura", "Circle_of", "Guardian_Circle", "Earthen_Strength", "Pact_of_the_Wolf") {
			return core.KindAura
		}
		if s.Race == RaceSpikeTrap && containsAny(s.Name, "poison", "Poison") {
			return core.KindAura
		}
		if strings.Contains(s.Name, "Rune") {
			return core.KindAura
		}
		return objectOrNPC
	case BodyMagical:
		switch {
		case s.Race == RaceCampsite:
			return core.KindCampfire
		case s.Race == RaceBanner, s.Race >= RaceBanner0 && s.Race <= RaceBanner4, s.Race == RaceTCGBanner:
			return core.KindBanner
		case s.Race == RaceTotem && strings.Contains(s.Name, "Idol"):
			return core.KindAura
		}
		return objectOrNPC
	case BodyUntargetable, BodyUtility:
		return core.KindUntargetable
	case BodyCursed:
		return core.KindChest
	case BodyTrap:
		return core.KindTrap
	case BodyCompanion:
		return core.KindTimer
	case BodySuicide:
		return core.KindTrigger
	}
	return core.KindNPC
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsNamed is the naming heuristic for notable NPCs: a capitalised or
// '#'-prefixed name that is not an "A_"/"An_" common mob.
func IsNamed(s Spawn) bool {
	if Classify(s) != core.KindNPC || s.Class == ClassObject || s.Name == "" {
		return false
	}
	if strings.HasPrefix(s.Name, "A_") || strings.HasPrefix(s.Name, "An_") {
		return false
	}
	first := rune(s.Name[0])
	return first == '#' || (first < unicode.MaxASCII && unicode.IsUpper(first))
}

const (
	minMeleeRange = 14.0
	maxMeleeRange = 75.0
)

// MeleeRange is the combined reach of two spawns clamped to [14, 75].
// Either spawn missing yields the minimum.
func MeleeRange(a, b *Spawn) float64 {
	if a == nil || b == nil {
		return minMeleeRange
	}
	return math.Min(math.Max(a.Height+b.Height, minMeleeRange), maxMeleeRange)
}

// Distance2D is the horizontal distance between two positions.
func Distance2D(a, b core.Position3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

var raceNames = map[int]string{
	1: "Human", 2: "Barbarian", 3: "Erudite", 4: "Wood Elf", 5: "High Elf",
	6: "Dark Elf", 7: "Half Elf", 8: "Dwarf", 9: "Troll", 10: "Ogre",
	11: "Halfling", 12: "Gnome", 13: "Aviak", 14: "Werewolf", 15: "Brownie",
	128: "Iksar", 130: "Vah Shir", 330: "Froglok", 522: "Drakkin",
}

var classNames = [...]struct{ name, code string }{
	{"Unknown", "UNK"},
	{"Warrior", "WAR"}, {"Cleric", "CLR"}, {"Paladin", "PAL"}, {"Ranger", "RNG"},
	{"Shadow Knight", "SHD"}, {"Druid", "DRU"}, {"Monk", "MNK"}, {"Bard", "BRD"},
	{"Rogue", "ROG"}, {"Shaman", "SHM"}, {"Necromancer", "NEC"}, {"Wizard", "WIZ"},
	{"Magician", "MAG"}, {"Enchanter", "ENC"}, {"Beastlord", "BST"}, {"Berserker", "BER"},
}

// RaceName returns the display name of the spawn's race.
func (s Spawn) RaceName() string {
	if n, ok := raceNames[s.Race]; ok {
		return n
	}
	return "Unknown"
}

// ClassName returns the display name of the spawn's class.
func (s Spawn) ClassName() string {
	if s.Class > 0 && s.Class < len(classNames) {
		return classNames[s.Class].name
	}
	return classNames[0].name
}

// ClassCode returns the three letter class abbreviation.
func (s Spawn) ClassCode() string {
	if s.Class > 0 && s.Class < len(classNames) {
		return classNames[s.Class].code
	}
	return classNames[0].code
}
