package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mqmap/overlay/internal/scene"
	"github.com/mqmap/overlay/pkg/core"
)

// MaxClickStrings bounds the modifier key combinations; combo 0 is no
// modifier.
const MaxClickStrings = 16

// Clicks are the commands bound to map clicks per modifier combination.
type Clicks struct {
	Left  [MaxClickStrings]string
	Right [MaxClickStrings]string
}

// SetClick binds cmd to a combo. right selects the spawn click table.
func (e *Engine) SetClick(right bool, combo int, cmd string) error {
	if combo <= 0 || combo >= MaxClickStrings {
		return fmt.Errorf("invalid combo %d", combo)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if right {
		e.clicks.Right[combo] = cmd
	} else {
		e.clicks.Left[combo] = cmd
	}
	return nil
}

// ClickTable returns a copy of the bindings.
func (e *Engine) ClickTable() Clicks {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

func substitute(tmpl string, subs map[byte]string) string {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '%' && i+1 < len(tmpl) {
			if s, ok := subs[tmpl[i+1]]; ok {
				b.WriteString(s)
				i++
				continue
			}
		}
		b.WriteByte(tmpl[i])
	}
	return b.String()
}

func coord(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// ClickMap returns the command bound to a left click at pos, with %x %y %z
// substituted. An empty string means nothing is bound.
func (e *Engine) ClickMap(pos core.Position3D, combo int) string {
	if combo < 0 || combo >= MaxClickStrings {
		return ""
	}
	e.mu.Lock()
	tmpl := e.clicks.Left[combo]
	e.mu.Unlock()
	if tmpl == "" {
		return ""
	}
	return substitute(tmpl, map[byte]string{
		'x': coord(pos.X),
		'y': coord(pos.Y),
		'z': coord(pos.Z),
	})
}

// ClickSpawn handles a click on an engine label. Without modifiers it
// targets the spawn; otherwise it returns the bound command with
// %n %i %x %y %z substituted. ok is false when the label is not a spawn.
func (e *Engine) ClickSpawn(label scene.Handle, combo int) (cmd string, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o := e.index.ObjectForLabel(label)
	if o == nil {
		return "", false
	}
	s, isSpawn := o.Spawn()
	if !isSpawn {
		return "", false
	}
	if live, err := e.world.Spawn(s.ID); err == nil {
		s = live
	}

	if combo == 0 {
		if t, can := e.world.(Targeter); can {
			t.SetTarget(s.ID)
			e.log.Debug("Targeted from map", "name", s.Name, "id", s.ID)
		}
		return "", true
	}
	if combo < 0 || combo >= MaxClickStrings || e.clicks.Right[combo] == "" {
		return "", true
	}
	return substitute(e.clicks.Right[combo], map[byte]string{
		'n': s.Name,
		'i': strconv.FormatUint(uint64(s.ID), 10),
		'x': coord(s.Pos.X),
		'y': coord(s.Pos.Y),
		'z': coord(s.Pos.Z),
	}), true
}
