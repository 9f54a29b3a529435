package filter

import "github.com/mqmap/overlay/pkg/core"

var startupEnabled = map[ID]bool{
	All:          true,
	PC:           true,
	NPC:          true,
	Target:       true,
	TargetLine:   true,
	NormalLabels: true,
	Corpse:       true,
	NPCCorpse:    true,
	PCCorpse:     true,
}

var (
	colorLoot   = core.RGB(192, 128, 0)
	colorMisc   = core.RGB(64, 64, 64)
	colorRadius = core.RGB(128, 128, 0)
	colorCorpse = core.RGB(0, 0, 128)
	colorPet    = core.RGB(128, 0, 128)
)

var defaults = [count]Option{
	All:          {Name: "All", DefaultEnabled: true, Requires: Invalid, Flags: Toggle | NoColor, Help: "Enables/disables map functions"},
	PC:           {Name: "PC", DefaultEnabled: true, DefaultColor: core.RGB(255, 0, 255), Requires: All, Flags: Toggle | IsObject, Help: "Displays PCs"},
	PCConColor:   {Name: "PCConColor", Requires: PC, Flags: Toggle | NoColor | Regenerate, Help: "Displays PCs in consider colors"},
	Group:        {Name: "Group", DefaultColor: core.RGB(0, 128, 192), Requires: PC, Flags: Toggle | IsObject, Help: "Displays group members in a specific color"},
	Mount:        {Name: "Mount", DefaultColor: core.RGB(112, 112, 112), Requires: All, Flags: Toggle | IsObject, Help: "Displays mounts"},
	NPC:          {Name: "NPC", DefaultEnabled: true, DefaultColor: colorMisc, Requires: All, Flags: Toggle | IsObject, Help: "Displays NPCs"},
	NPCConColor:  {Name: "NPCConColor", Requires: NPC, Flags: Toggle | NoColor | Regenerate, Help: "Displays NPCs in consider colors"},
	Untargetable: {Name: "Untargetable", DefaultColor: core.RGB(128, 128, 128), Requires: All, Flags: Toggle | IsObject, Help: "Displays untargetable spawns"},
	Pet:          {Name: "Pet", DefaultColor: colorPet, Requires: All, Flags: Toggle | IsObject, Help: "Displays pets"},
	Corpse:       {Name: "Corpse", DefaultColor: colorCorpse, Requires: All, Flags: Toggle | IsObject, Help: "Displays corpses"},
	Chest:        {Name: "Chest", DefaultColor: colorLoot, Requires: All, Flags: Toggle | IsObject, Help: "Displays chests"},
	Trigger:      {Name: "Trigger", DefaultColor: colorLoot, Requires: All, Flags: Toggle | IsObject, Help: "Displays triggers"},
	Trap:         {Name: "Trap", DefaultColor: colorLoot, Requires: All, Flags: Toggle | IsObject, Help: "Displays traps"},
	Timer:        {Name: "Timer", DefaultColor: colorLoot, Requires: All, Flags: Toggle | IsObject, Help: "Displays timers"},
	Ground:       {Name: "Ground", DefaultColor: colorLoot, Requires: All, Flags: Toggle | IsObject, Help: "Displays ground items"},
	Target:       {Name: "Target", DefaultEnabled: true, DefaultColor: core.RGB(192, 0, 0), Requires: All, Flags: Toggle | Regenerate, Help: "Displays your target"},
	TargetLine:   {Name: "TargetLine", DefaultEnabled: true, DefaultColor: core.RGB(128, 0, 0), Requires: Target, Flags: Toggle, Help: "Displays a line to your target"},
	TargetRadius: {Name: "TargetRadius", DefaultColor: colorRadius, Requires: Target, Flags: Toggle | UsesRadius, Help: "Sets radius of target circle"},
	TargetMelee:  {Name: "TargetMelee", DefaultColor: core.RGB(255, 128, 0), Requires: Target, Flags: Toggle | UsesRadius, Help: "Displays melee range for target"},
	Vector:       {Name: "Vector", Requires: All, Flags: Toggle | NoColor | Regenerate, Help: "Displays heading vectors"},
	Custom:       {Name: "Custom", Requires: All, Flags: Toggle | NoColor | Regenerate, Help: "Sets custom filter"},
	CastRadius:   {Name: "CastRadius", DefaultColor: colorRadius, Requires: All, Flags: Toggle | UsesRadius, Help: "Sets radius of cast circle"},
	NormalLabels: {Name: "NormalLabels", DefaultEnabled: true, Requires: All, Flags: Toggle | NoColor, Help: "Displays normal EQ labels"},
	ContextMenu:  {Name: "ContextMenu", DefaultEnabled: true, Requires: All, Flags: Toggle | NoColor, Help: "Displays context menu"},
	SpellRadius:  {Name: "SpellRadius", DefaultColor: colorRadius, Requires: All, Flags: Toggle | UsesRadius, Help: "Sets radius of spell circle"},
	Aura:         {Name: "Aura", DefaultColor: colorMisc, Requires: All, Flags: Toggle | IsObject, Help: "Displays auras"},
	Object:       {Name: "Object", DefaultColor: colorMisc, Requires: All, Flags: Toggle | IsObject, Help: "Displays objects"},
	Banner:       {Name: "Banner", DefaultColor: colorMisc, Requires: All, Flags: Toggle | IsObject, Help: "Displays banners"},
	Campfire:     {Name: "Campfire", DefaultColor: colorMisc, Requires: All, Flags: Toggle | IsObject, Help: "Displays campfires"},
	PCCorpse:     {Name: "PCCorpse", DefaultColor: colorCorpse, Requires: Corpse, Flags: Toggle | IsObject, Help: "Displays PC corpses"},
	NPCCorpse:    {Name: "NPCCorpse", DefaultColor: colorCorpse, Requires: Corpse, Flags: Toggle | IsObject, Help: "Displays NPC corpses"},
	Mercenary:    {Name: "Mercenary", DefaultColor: colorPet, Requires: All, Flags: Toggle | IsObject, Help: "Displays mercenaries"},
	Named:        {Name: "Named", DefaultColor: colorMisc, Requires: NPC, Flags: Toggle | Regenerate, Help: "Displays named NPCs"},
	TargetPath:   {Name: "TargetPath", DefaultColor: core.RGB(128, 0, 0), Requires: Target, Flags: Toggle, Help: "Displays a path to your target"},
	Marker:       {Name: "Marker", Requires: All, Flags: Toggle | NoColor | Regenerate, Help: "Displays markers on spawns"},
	CampRadius:   {Name: "CampRadius", DefaultColor: colorRadius, Requires: All, Flags: Toggle | UsesRadius, Help: "Sets radius of camp circle"},
	PullRadius:   {Name: "PullRadius", DefaultColor: colorRadius, Requires: All, Flags: Toggle | UsesRadius, Help: "Sets radius of pull circle"},
}

// ForKind returns the category option that governs a spawn kind. Kinds
// without a category map to Invalid.
func ForKind(k core.SpawnKind) ID {
	switch k {
	case core.KindPC:
		return PC
	case core.KindNPC:
		return NPC
	case core.KindCorpse:
		return Corpse
	case core.KindItem:
		return Ground
	case core.KindMount:
		return Mount
	case core.KindPet:
		return Pet
	case core.KindUntargetable:
		return Untargetable
	case core.KindChest:
		return Chest
	case core.KindTrigger:
		return Trigger
	case core.KindTrap:
		return Trap
	case core.KindTimer:
		return Timer
	case core.KindAura:
		return Aura
	case core.KindObject:
		return Object
	case core.KindBanner:
		return Banner
	case core.KindCampfire:
		return Campfire
	case core.KindMercenary:
		return Mercenary
	case core.KindPCCorpse:
		return PCCorpse
	case core.KindNPCCorpse:
		return NPCCorpse
	}
	return Invalid
}
