// Package search parses and evaluates spawn search queries such as
// "npc named range 40 60 radius 200".
package search

import (
	"fmt"
	"math"
	"strings"

	"github.com/mqmap/overlay/internal/util"
	"github.com/mqmap/overlay/internal/world"
	"github.com/mqmap/overlay/pkg/core"
	"golang.org/x/text/cases"
)

const (
	// MaxLevel is the upper bound of the default level range.
	MaxLevel = 200
	// NoRadius disables a distance check. Radii at or above 9999 are
	// treated the same way.
	NoRadius = 10000.0

	radiusOff = 9999.0
)

// Query is a parsed spawn search.
type Query struct {
	// Text is the source the query was parsed from.
	Text string

	Kind     core.SpawnKind
	MinLevel int
	MaxLevel int
	Name     string

	HasID bool
	ID    world.SpawnID
	NotID world.SpawnID

	KnownLocation bool
	Loc           core.Position3D
	Radius        float64
	ZRadius       float64

	Named      bool
	NoPet      bool
	GM         bool
	LFG        bool
	Trader     bool
	Merchant   bool
	Banker     bool
	Group      bool
	NoGroup    bool
	Targetable bool
	LoS        bool

	// Accepted for compatibility; not evaluated.
	XTarHater, Next, Prev, Raid, NoGuild, Tank, Healer, DPS, Slower bool
}

// New returns the match-everything query.
func New() Query {
	return Query{
		MaxLevel: MaxLevel,
		Radius:   NoRadius,
		ZRadius:  NoRadius,
	}
}

// Parse builds a query from its text form. Unknown words are joined into the
// name filter; malformed numbers fall back to their defaults.
func Parse(text string) Query {
	q := New()
	q.Text = strings.TrimSpace(text)
	args := util.Fields(text)
	next := func(i *int) string {
		*i++
		if *i < len(args) {
			return args[*i]
		}
		return ""
	}
	var name []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "" {
			continue
		}
		lower := strings.ToLower(arg)
		if k, ok := core.ParseSpawnKind(lower); ok && lower != "xtarhater" {
			q.Kind = k
			continue
		}
		if f := q.flag(lower); f != nil {
			*f = true
			continue
		}
		switch lower {
		case "range":
			q.MinLevel = util.Int(next(&i), 0)
			q.MaxLevel = util.Int(next(&i), MaxLevel)
		case "loc":
			q.KnownLocation = true
			q.Loc.Y = util.Float(next(&i), 0)
			q.Loc.X = util.Float(next(&i), 0)
		case "id":
			q.ID = world.SpawnID(util.Int(next(&i), 0))
			q.HasID = true
		case "radius":
			q.Radius = util.Float(next(&i), NoRadius)
		case "zradius":
			q.ZRadius = util.Float(next(&i), NoRadius)
		case "notid":
			q.NotID = world.SpawnID(util.Int(next(&i), 0))
		default:
			name = append(name, arg)
		}
	}
	q.Name = strings.Join(name, " ")
	return q
}

func (q *Query) flag(word string) *bool {
	switch word {
	case "xtarhater":
		return &q.XTarHater
	case "nopet":
		return &q.NoPet
	case "next":
		return &q.Next
	case "prev":
		return &q.Prev
	case "lfg":
		return &q.LFG
	case "gm":
		return &q.GM
	case "group":
		return &q.Group
	case "nogroup":
		return &q.NoGroup
	case "raid":
		return &q.Raid
	case "noguild":
		return &q.NoGuild
	case "trader":
		return &q.Trader
	case "named":
		return &q.Named
	case "merchant":
		return &q.Merchant
	case "banker":
		return &q.Banker
	case "tank":
		return &q.Tank
	case "healer":
		return &q.Healer
	case "dps":
		return &q.DPS
	case "slower":
		return &q.Slower
	case "los":
		return &q.LoS
	case "targetable":
		return &q.Targetable
	}
	return nil
}

// Observer supplies the reference point and sight checks for a match.
type Observer interface {
	LocalPlayer() (world.Spawn, bool)
	CanSee(id world.SpawnID) bool
}

var fold = cases.Fold()

func containsFold(s, sub string) bool {
	return strings.Contains(fold.String(s), fold.String(sub))
}

func kindMatches(want core.SpawnKind, s world.Spawn, got core.SpawnKind) bool {
	switch want {
	case core.KindNone:
		return true
	case core.KindNPCCorpse:
		return got == core.KindCorpse && s.Deity == 0
	case core.KindPCCorpse:
		return got == core.KindCorpse && s.Deity != 0
	}
	return want == got
}

// Matches reports whether s satisfies every criterion of q.
func (q Query) Matches(s world.Spawn, obs Observer) bool {
	kind := world.Classify(s)
	if !kindMatches(q.Kind, s, kind) {
		return false
	}
	if s.Level < q.MinLevel || s.Level > q.MaxLevel {
		return false
	}
	if q.HasID && s.ID != q.ID {
		return false
	}
	if q.NotID != 0 && s.ID == q.NotID {
		return false
	}
	if q.Name != "" && s.Name != "" {
		if !strings.EqualFold(s.Name, q.Name) && !containsFold(s.Name, q.Name) && !containsFold(s.DisplayedName, q.Name) {
			return false
		}
	}
	if q.Named && !world.IsNamed(s) {
		return false
	}
	if q.NoPet && (kind == core.KindPet || kind == core.KindMercenary) {
		return false
	}
	if !q.attributesMatch(s) {
		return false
	}
	if q.LoS && obs != nil && !obs.CanSee(s.ID) {
		return false
	}

	var local *world.Spawn
	if obs != nil {
		if l, ok := obs.LocalPlayer(); ok {
			local = &l
		}
	}
	if q.KnownLocation {
		if distance2D(s.Pos, q.Loc) > q.Radius {
			return false
		}
	} else if q.Radius < radiusOff && local != nil {
		if distance2D(s.Pos, local.Pos) > q.Radius {
			return false
		}
	}
	if q.ZRadius < radiusOff && local != nil {
		if math.Abs(local.Pos.Z-s.Pos.Z) > q.ZRadius {
			return false
		}
	}
	return true
}

func (q Query) attributesMatch(s world.Spawn) bool {
	switch {
	case q.GM && !s.GM,
		q.LFG && !s.LFG,
		q.Trader && !s.Trader,
		q.Merchant && !s.Merchant,
		q.Banker && !s.Banker,
		q.Group && !s.Grouped,
		q.NoGroup && s.Grouped,
		q.Targetable && !s.Targetable:
		return false
	}
	return true
}

func distance2D(a, b core.Position3D) float64 {
	return world.Distance2D(a, b)
}

// String renders the query's kind, name and level range.
func (q Query) String() string {
	var parts []string
	if q.Kind != core.KindNone {
		parts = append(parts, q.Kind.String())
	}
	if q.Name != "" {
		parts = append(parts, q.Name)
	}
	if q.MinLevel != 0 || q.MaxLevel != MaxLevel {
		parts = append(parts, fmt.Sprintf("range %d %d", q.MinLevel, q.MaxLevel))
	}
	if q.Named {
		parts = append(parts, "named")
	}
	return strings.Join(parts, " ")
}
