package commands

import (
	"fmt"
	"strings"

	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/internal/search"
	"github.com/mqmap/overlay/internal/util"
	"github.com/mqmap/overlay/pkg/core"
)

var hideShow = [2]string{"hide", "show"}

func onOff(b bool) string {
	if b {
		return hideShow[1]
	}
	return hideShow[0]
}

func (c *Commands) mapFilter(line string) ([]string, error) {
	arg := util.Arg(line, 1)
	rest := util.Rest(line, 1)

	switch {
	case arg == "":
		out := []string{"Map filtering settings:", "-----------------------"}
		custom := c.engine.Settings().Custom
		c.engine.UpdateFilters(func(r *filter.Registry) bool {
			for _, o := range r.Options() {
				if r.RequirementsMet(o.ID) {
					out = append(out, settingLine(r, o, custom))
				}
			}
			return false
		})
		return out, nil

	case len(arg) >= 4 && strings.EqualFold(arg[:4], "help"):
		out := []string{"Map filtering options:"}
		c.engine.UpdateFilters(func(r *filter.Registry) bool {
			for _, o := range r.Options() {
				suffix := ""
				if takesValue(o) {
					suffix = " #"
				}
				out = append(out, fmt.Sprintf("%s%s: %s", o.Name, suffix, o.Help))
			}
			return false
		})
		out = append(out,
			"'option' color [r g b]: Set display color for 'option' (Omit to reset to default)",
			"'option' marker <shape> [size]: Set marker shape (None, Triangle, Square, Diamond, Ring) for 'option'")
		return out, nil
	}

	var local *core.Position3D
	if p, ok := c.engine.LocalPlayer(); ok {
		local = &p.Pos
	}

	var (
		out   []string
		found bool
	)
	if id, ok := c.lookup(arg); ok && id == filter.Custom {
		return c.customSetting(rest)
	}
	c.engine.UpdateFilters(func(r *filter.Registry) bool {
		id, ok := r.Lookup(arg)
		if !ok {
			return false
		}
		found = true
		o := r.Option(id)
		switch {
		case hasPrefixFold(rest, "color"):
			out = colorSetting(r, o, rest)
			return o.HasColor()
		case hasPrefixFold(rest, "marker") && id != filter.Marker:
			out = []string{fmt.Sprintf("%s %s", r.Option(filter.Marker).Name, formatMarker(r, o.Name+" "+util.Rest(rest, 1)))}
			return true
		case o.Has(filter.UsesRadius):
			out = radiusSetting(r, o, rest, local)
		default:
			out = filterSetting(r, o, rest)
		}
		return o.Has(filter.Regenerate)
	})
	if !found {
		return nil, usage("Usage: /mapfilter [option|help]")
	}
	return out, nil
}

// takesValue reports whether an option is set with a value rather than
// toggled. Radius options take both.
func takesValue(o *filter.Option) bool {
	return !o.Has(filter.Toggle) || o.Has(filter.UsesRadius)
}

func (c *Commands) lookup(name string) (filter.ID, bool) {
	var (
		id filter.ID
		ok bool
	)
	c.engine.UpdateFilters(func(r *filter.Registry) bool {
		id, ok = r.Lookup(name)
		return false
	})
	return id, ok
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func settingLine(r *filter.Registry, o *filter.Option, custom search.Query) string {
	var s string
	switch {
	case o.ID == filter.Custom:
		if !r.IsEnabled(o.ID) {
			s = fmt.Sprintf("%s: Off", o.Name)
		} else {
			s = fmt.Sprintf("%s: %s", o.Name, custom)
		}
	case o.Has(filter.UsesRadius):
		s = fmt.Sprintf("%s: %0.2f", o.Name, o.Radius)
	case o.Has(filter.Toggle):
		s = fmt.Sprintf("%s: %s", o.Name, onOff(o.Enabled))
	default:
		n := 0
		if o.Enabled {
			n = 1
		}
		s = fmt.Sprintf("%s: %d", o.Name, n)
	}
	if o.HasColor() {
		return fmt.Sprintf("%s (Color: %d %d %d)", s, o.Color.Red(), o.Color.Green(), o.Color.Blue())
	}
	return s
}

func requiresAdvisory(r *filter.Registry, o *filter.Option) []string {
	return []string{fmt.Sprintf("'%s' requires '%s' option.  Please enable this option first.", o.Name, r.Option(o.Requires).Name)}
}

func filterSetting(r *filter.Registry, o *filter.Option, value string) []string {
	if !r.RequirementsMet(o.ID) {
		return requiresAdvisory(r, o)
	}
	if o.ID == filter.Marker && value != "" && !strings.EqualFold(value, "hide") && !strings.EqualFold(value, "show") {
		o.Enabled = true
		return []string{fmt.Sprintf("%s %s", o.Name, formatMarker(r, value))}
	}
	switch {
	case strings.EqualFold(value, "hide"):
		o.Enabled = false
	case strings.EqualFold(value, "show"):
		o.Enabled = true
	default:
		o.Enabled = !o.Enabled
	}
	return []string{fmt.Sprintf("%s is now set to: %s", o.Name, onOff(r.IsEnabled(o.ID)))}
}

func (c *Commands) customSetting(value string) ([]string, error) {
	var out []string
	c.engine.UpdateSettings(func(s *overlay.Settings) {
		s.Custom = search.Parse(value)
		if value == "" {
			out = []string{"Custom is now set to: Off"}
		} else {
			out = []string{fmt.Sprintf("Custom is now set to: %s", s.Custom)}
		}
	})
	c.engine.UpdateFilters(func(r *filter.Registry) bool {
		o := r.Option(filter.Custom)
		if !r.RequirementsMet(o.ID) {
			out = requiresAdvisory(r, o)
			return false
		}
		o.Enabled = value != ""
		return true
	})
	return out, nil
}

func colorSetting(r *filter.Registry, o *filter.Option, rest string) []string {
	if !o.HasColor() {
		return []string{fmt.Sprintf("Option '%s' does not have a color.", o.Name)}
	}
	args := util.Fields(rest)
	if len(args) < 2 {
		r.ResetColor(o.ID)
	} else {
		arg := func(i int) string {
			if i < len(args) {
				return args[i]
			}
			return ""
		}
		r.SetColor(o.ID, core.FromRGB(util.Int(arg(1), 255), util.Int(arg(2), 255), util.Int(arg(3), 255)))
	}
	return []string{fmt.Sprintf("Option '%s' color set to: %s", o.Name, o.Color)}
}

func radiusSetting(r *filter.Registry, o *filter.Option, value string, local *core.Position3D) []string {
	r.SetRadius(o.ID, util.Float(util.Arg(value, 1), 0))
	if o.Radius > 0 && local != nil && (o.ID == filter.CampRadius || o.ID == filter.PullRadius) {
		o.Center = *local
	}
	return []string{fmt.Sprintf("%s is now set to: %.2f", o.Name, o.Radius)}
}

// formatMarker applies "<option> <shape> [size]" and describes the result.
func formatMarker(r *filter.Registry, line string) string {
	kind := util.Arg(line, 1)
	shape := util.Arg(line, 2)
	size := util.Arg(line, 3)

	if kind == "" {
		return "unchanged, no spawn type given."
	}
	if shape == "" {
		return "unchanged, no shape given."
	}
	id, ok := r.Lookup(kind)
	if !ok {
		return fmt.Sprintf("unchanged, unknown spawn type: %s", kind)
	}
	m := core.FindMarker(shape)
	if m == core.MarkerUnknown {
		return fmt.Sprintf("unchanged, unknown shape: '%s'", shape)
	}
	n := 6
	if size != "" {
		n = util.Int(size, 0)
		if n <= 0 {
			return fmt.Sprintf("unchanged, invalid size: '%s'", size)
		}
	}
	r.SetMarker(id, m, n)
	return fmt.Sprintf("'%s' is now set to '%s' with size %d.", r.Option(id).Name, m, n)
}
