package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/internal/util"
	"github.com/mqmap/overlay/pkg/core"
)

func mapLocSyntax(d overlay.LocationParams) []string {
	return []string{
		"Usage: /maploc [[size 10-200] | [width 1-10] | [color r g b] | [radius <distance>] | [rcolor r g b] | [yloc xloc (zloc) | target]] | [label text]",
		" -- Omit locs to set defaults",
		" -- Add label to loc by putting 'label <my text here>' only at end of command",
		"Remove maplocs: /maploc remove [index | [yloc xloc (zloc)]]",
		fmt.Sprintf("MapLoc Defaults: Width:%d, Size:%.0f, Color:%d,%d,%d, Radius:%.0f, Radius Color:%d,%d,%d",
			d.Width, d.LineSize,
			d.Color.Red(), d.Color.Green(), d.Color.Blue(),
			d.CircleRadius,
			d.CircleColor.Red(), d.CircleColor.Green(), d.CircleColor.Blue()),
	}
}

func (c *Commands) locationDefaults() overlay.LocationParams {
	var d overlay.LocationParams
	_ = c.engine.Locations(func(l *overlay.Locations) error {
		d = l.Defaults
		return nil
	})
	return d
}

// mapLocRequest is a parsed /maploc line.
type mapLocRequest struct {
	params     overlay.LocationParams
	fromParams bool
	useTarget  bool
	hasCoords  bool
	pos        core.Position3D
	label      string
}

func parseMapLoc(line string, defaults overlay.LocationParams) (mapLocRequest, bool) {
	req := mapLocRequest{params: defaults}
	args := util.Fields(line)
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	rgb := func(i, dr, dg, db int) core.Color {
		return core.FromRGB(util.Int(arg(i), dr), util.Int(arg(i+1), dg), util.Int(arg(i+2), db))
	}

	for i := 0; i < len(args); i++ {
		switch strings.ToLower(args[i]) {
		case "size":
			i++
			if v := util.Float(arg(i), req.params.LineSize); v >= 1 && v <= 200 {
				req.params.LineSize = v
				req.fromParams = true
			}
		case "width":
			i++
			if v := util.Float(arg(i), float64(req.params.Width)); v >= 1 && v <= 10 {
				req.params.Width = int(v)
				req.fromParams = true
			}
		case "color":
			req.params.Color = rgb(i+1, 255, 0, 0)
			req.fromParams = true
			i += 3
		case "radius":
			i++
			req.params.CircleRadius = util.Float(arg(i), 0)
			req.fromParams = true
		case "rcolor":
			req.params.CircleColor = rgb(i+1, 0, 0, 255)
			req.fromParams = true
			i += 3
		case "label":
			req.label = util.Rest(line, i+1)
			return req, true
		case "target":
			req.useTarget = true
		default:
			if !util.IsNumber(args[i]) {
				return req, false
			}
			req.pos.Y = util.Float(args[i], 0)
			if util.IsNumber(arg(i + 1)) {
				i++
				req.pos.X = util.Float(args[i], 0)
				if util.IsNumber(arg(i + 1)) {
					i++
					req.pos.Z = util.Float(args[i], 0)
				}
			}
			req.hasCoords = true
		}
	}
	return req, true
}

func (c *Commands) mapLoc(line string) ([]string, error) {
	defaults := c.locationDefaults()
	switch strings.ToLower(util.Arg(line, 1)) {
	case "help":
		return mapLocSyntax(defaults), nil
	case "remove":
		return c.mapLocRemove(util.Rest(line, 1))
	}

	req, ok := parseMapLoc(line, defaults)
	if !ok {
		return mapLocSyntax(defaults), nil
	}

	if req.fromParams && !req.useTarget && !req.hasCoords && req.label == "" {
		err := c.engine.Locations(func(l *overlay.Locations) error {
			l.Defaults = req.params
			l.ResetOverrides()
			return l.UpdateDefaultInstances()
		})
		if err != nil {
			return nil, err
		}
		return mapLocSyntax(req.params)[4:], nil
	}

	switch {
	case req.useTarget:
		t, ok := c.engine.World().Target()
		if !ok {
			return []string{"No target selected."}, nil
		}
		req.pos = t.Pos
	case req.hasCoords:
	default:
		me, ok := c.engine.LocalPlayer()
		if !ok {
			return []string{"Not in game."}, nil
		}
		req.pos = me.Pos
	}

	var t *overlay.LocationTemplate
	err := c.engine.Locations(func(l *overlay.Locations) error {
		var err error
		t, err = l.Add(req.params, req.label, req.pos, !req.fromParams)
		return err
	})
	if err != nil {
		return nil, err
	}

	label := ""
	if req.label != "" {
		label = ", label=" + req.label
	}
	p := req.params
	return []string{fmt.Sprintf("MapLoc %d added at %s: size=%.0f, width=%d, color=%d,%d,%d, radius=%.0f%s",
		t.Index(), t.Tag(), p.LineSize, p.Width, p.Color.Red(), p.Color.Green(), p.Color.Blue(), p.CircleRadius, label)}, nil
}

// truncateCoord strips '+' signs and drops the fractional part textually.
func truncateCoord(s string) string {
	s = strings.ReplaceAll(s, "+", "")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return s
}

func (c *Commands) mapLocRemove(line string) ([]string, error) {
	args := util.Fields(line)
	defaults := c.locationDefaults()

	if len(args) == 0 {
		var n int
		_ = c.engine.Locations(func(l *overlay.Locations) error {
			n = l.DeleteAll()
			return nil
		})
		return []string{fmt.Sprintf("%d MapLoc(s) removed", n)}, nil
	}
	for i, a := range args {
		if i < 3 && !util.IsNumber(a) {
			return mapLocSyntax(defaults), nil
		}
	}

	var out []string
	err := c.engine.Locations(func(l *overlay.Locations) error {
		var t *overlay.LocationTemplate
		if len(args) >= 2 {
			z := "0"
			if len(args) >= 3 {
				z = args[2]
			}
			tag := strings.Join([]string{truncateCoord(args[0]), truncateCoord(args[1]), truncateCoord(z)}, ",")
			if t = l.ByTag(tag); t == nil {
				return usage(fmt.Sprintf("Could not find MapLoc: %s", tag))
			}
		} else {
			idx, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return usage(fmt.Sprintf("Could not parse index: %s", args[0]))
			}
			if t = l.ByIndex(int(idx)); t == nil {
				out = []string{fmt.Sprintf("Remove loc by index out of bounds: %s", args[0])}
				return nil
			}
		}
		index, tag := t.Index(), t.Tag()
		if err := l.Delete(t); err != nil {
			return err
		}
		out = []string{fmt.Sprintf("MapLoc removed: Index:%d, loc:%s", index, tag)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
