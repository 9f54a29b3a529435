package overlay

import (
	"strconv"
	"strings"

	"github.com/mqmap/overlay/pkg/core"
)

// Format expands a label template for the object.
//
//	%N  display name (spawns get "'s Corpse" appended when dead)
//	%n  raw name
//	%h  current hit points
//	%i  id
//	%x %y %z  position
//	%R %C %c %l  race, class, class code, level
//	%%  literal percent
//
// Unknown specifiers are copied through unchanged.
func (o *Object) Format(ix *Index, tmpl string) string {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(tmpl) {
			b.WriteByte('%')
			break
		}
		i++
		o.formatSpec(&b, tmpl[i])
	}
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

func (o *Object) formatSpec(b *strings.Builder, spec byte) {
	switch o.variant {
	case VariantSpawn:
		if o.formatSpawnSpec(b, spec) {
			return
		}
	case VariantGround:
		if spec == 'N' || spec == 'n' {
			b.WriteString(o.ground.FriendlyName)
			return
		}
	}
	o.formatBaseSpec(b, spec)
}

func (o *Object) formatSpawnSpec(b *strings.Builder, spec byte) bool {
	s := &o.spawn
	switch spec {
	case 'N':
		b.WriteString(s.DisplayedName)
		if o.kind == core.KindCorpse {
			b.WriteString("'s Corpse")
		}
	case 'n':
		b.WriteString(s.Name)
	case 'h':
		b.WriteString(strconv.FormatInt(s.HPCurrent, 10))
	case 'i':
		b.WriteString(strconv.FormatUint(uint64(s.ID), 10))
	case 'x':
		b.WriteString(formatFloat(s.Pos.X))
	case 'y':
		b.WriteString(formatFloat(s.Pos.Y))
	case 'z':
		b.WriteString(formatFloat(s.Pos.Z))
	case 'R':
		b.WriteString(s.RaceName())
	case 'C':
		b.WriteString(s.ClassName())
	case 'c':
		b.WriteString(s.ClassCode())
	case 'l':
		b.WriteString(strconv.Itoa(s.Level))
	default:
		return false
	}
	return true
}

func (o *Object) formatBaseSpec(b *strings.Builder, spec byte) {
	switch spec {
	case 'N', 'n':
		b.WriteString(o.text)
	case 'h':
		b.WriteByte('1')
	case 'i', 'l':
		b.WriteByte('0')
	case 'x':
		b.WriteString(formatFloat(o.pos.X))
	case 'y':
		b.WriteString(formatFloat(o.pos.Y))
	case 'z':
		b.WriteString(formatFloat(o.pos.Z))
	case '%':
		b.WriteByte('%')
	default:
		b.WriteByte('%')
		b.WriteByte(spec)
	}
}
