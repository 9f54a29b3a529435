package commands

import (
	"fmt"
	"strings"

	"github.com/mqmap/overlay/internal/engine"
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/internal/search"
	"github.com/mqmap/overlay/internal/util"
	"github.com/mqmap/overlay/pkg/core"
)

func (c *Commands) mapActiveLayer(line string) ([]string, error) {
	layer := util.Int(line, -1)
	if line == "" || layer < 0 || layer > 3 {
		return nil, usage("Usage: /mapactivelayer [0|1|2|3]")
	}
	if err := c.engine.SetActiveLayer(layer); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("Map Active Layer: %d", layer)}, nil
}

func byteArg(s string) (int, bool) {
	v := util.Int(s, -1)
	return v, v >= 0 && v <= 255
}

func (c *Commands) highlight(line string) ([]string, error) {
	if line == "" {
		return nil, usage("Usage: /highlight [reset|spawnfilter|size|pulse|[color # # #]]")
	}
	args := util.Fields(line)

	switch strings.ToLower(args[0]) {
	case "color":
		const colorUsage = "Usage: /highlight color [0-255] [0-255] [0-255]"
		if len(args) < 4 {
			return nil, usage(colorUsage)
		}
		r, okR := byteArg(args[1])
		g, okG := byteArg(args[2])
		b, okB := byteArg(args[3])
		if !okR || !okG || !okB {
			return nil, usage(colorUsage)
		}
		c.engine.UpdateSettings(func(s *overlay.Settings) {
			s.HighlightColor = core.FromRGB(r, g, b)
		})
		return []string{fmt.Sprintf("Highlight color: %d %d %d", r, g, b)}, nil

	case "reset":
		c.engine.Highlight(nil)
		return []string{"Highlighting reset"}, nil

	case "size":
		if len(args) < 2 || util.Int(args[1], -1) == -1 {
			return nil, usage("Usage: /highlight size #")
		}
		size := util.Int(args[1], 0)
		c.engine.UpdateSettings(func(s *overlay.Settings) {
			s.HighlightSize = size
		})
		return []string{fmt.Sprintf("Highlight size: %d", size)}, nil

	case "pulse":
		var on bool
		c.engine.UpdateSettings(func(s *overlay.Settings) {
			s.HighlightPulse = !s.HighlightPulse
			on = s.HighlightPulse
		})
		state := "OFF"
		if on {
			state = "ON"
		}
		return []string{fmt.Sprintf("Highlight pulse: %s", state)}, nil
	}

	if _, ok := c.engine.LocalPlayer(); !ok {
		return nil, nil
	}
	q := search.Parse(line)
	return []string{fmt.Sprintf("%d mapped spawns highlighted", c.engine.Highlight(&q))}, nil
}

func (c *Commands) mapHide(line string) ([]string, error) {
	return c.hideShow(line, "maphide", func(q search.Query) (string, error) {
		return fmt.Sprintf("%d mapped spawns hidden", c.engine.Hide(q)), nil
	}, func(s *overlay.Settings) *bool { return &s.HideRepeat })
}

func (c *Commands) mapShow(line string) ([]string, error) {
	return c.hideShow(line, "mapshow", func(q search.Query) (string, error) {
		n, err := c.engine.Show(q)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d previously hidden spawns shown", n), nil
	}, func(s *overlay.Settings) *bool { return &s.ShowRepeat })
}

func (c *Commands) hideShow(line, name string, apply func(search.Query) (string, error), repeat func(*overlay.Settings) *bool) ([]string, error) {
	if line == "" {
		return nil, usage(fmt.Sprintf("Usage: /%s [spawnfilter|reset|repeat]", name))
	}
	switch strings.ToLower(util.Arg(line, 1)) {
	case "reset":
		c.engine.Regenerate()
		return []string{"Map spawns regenerated"}, nil
	case "repeat":
		var on bool
		c.engine.UpdateSettings(func(s *overlay.Settings) {
			p := repeat(s)
			*p = !*p
			on = *p
		})
		state := "off"
		if on {
			state = "on"
		}
		return []string{fmt.Sprintf("%s repeat set to: %s", name, state)}, nil
	}
	if _, ok := c.engine.LocalPlayer(); !ok {
		return nil, nil
	}
	msg, err := apply(search.Parse(line))
	if err != nil {
		return nil, err
	}
	return []string{msg}, nil
}

func (c *Commands) mapNames(line string) ([]string, error) {
	if line == "" {
		s := c.engine.Settings()
		return []string{
			fmt.Sprintf("Normal naming string: %s", s.NameFormat),
			fmt.Sprintf("Target naming string: %s", s.TargetFormat),
		}, nil
	}

	arg := strings.ToLower(util.Arg(line, 1))
	value := util.Rest(line, 1)
	if strings.EqualFold(value, "reset") {
		value = "%N"
	}

	var out string
	switch arg {
	case "target":
		c.engine.UpdateSettings(func(s *overlay.Settings) { s.TargetFormat = value })
		out = fmt.Sprintf("Target naming string: %s", value)
	case "normal":
		c.engine.UpdateSettings(func(s *overlay.Settings) { s.NameFormat = value })
		out = fmt.Sprintf("Normal naming string: %s", value)
	default:
		return nil, usage("Usage: /mapnames <target|normal> [value|reset]")
	}
	c.engine.Regenerate()
	return []string{out}, nil
}

func (c *Commands) mapClick(line string) ([]string, error) {
	if line == "" {
		return nil, usage("Usage: /mapclick [left] <list|<key[+key[...]]> <clear|command>>")
	}

	right, section := true, "Right Click"
	if strings.EqualFold(util.Arg(line, 1), "left") {
		right, section = false, "Left Click"
		line = util.Rest(line, 1)
	}
	arg := util.Arg(line, 1)
	rest := util.Rest(line, 1)

	table := c.engine.ClickTable()
	bindings := table.Right
	if !right {
		bindings = table.Left
	}

	if strings.EqualFold(arg, "list") {
		var out []string
		for i := 1; i < engine.MaxClickStrings; i++ {
			if bindings[i] != "" {
				out = append(out, fmt.Sprintf("%d: %s", i, bindings[i]))
			}
		}
		return append(out, fmt.Sprintf("%d special click commands", len(out))), nil
	}

	combo := util.Int(arg, 0)
	if combo <= 0 || combo >= engine.MaxClickStrings {
		return []string{fmt.Sprintf("Invalid combo '%s'", arg)}, nil
	}
	if rest == "" {
		return []string{fmt.Sprintf("%d: %s", combo, bindings[combo])}, nil
	}
	if strings.EqualFold(rest, "clear") {
		if err := c.engine.SetClick(right, combo, ""); err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("%s -- %d cleared", section, combo)}, nil
	}
	if err := c.engine.SetClick(right, combo, rest); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("%s -- %d: %s", section, combo, rest)}, nil
}
