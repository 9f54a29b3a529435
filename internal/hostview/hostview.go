// Package hostview is a terminal map window that hosts the overlay. It
// owns the label and line chains the engine splices into and draws
// whatever is reachable from their heads.
package hostview

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/mqmap/overlay/internal/scene"
	"github.com/mqmap/overlay/pkg/core"
)

const (
	defaultScale    = 10
	defaultInterval = 50 * time.Millisecond
	maxMessages     = 5
)

// Driver runs frames and resolves clicks. *engine.Engine satisfies it.
type Driver interface {
	Frame(render func())
	ClickSpawn(label scene.Handle, combo int) (cmd string, ok bool)
	ClickMap(pos core.Position3D, combo int) string
}

// Options configures a View.
type Options struct {
	// Scale is world units per terminal column.
	Scale    float64
	Interval time.Duration
	// Follow returns the world position to centre on each frame.
	Follow func() (core.Position3D, bool)
	// OnCommand runs a typed or click-bound command and returns its output.
	OnCommand func(line string) []string
	// OnTick runs before every frame.
	OnTick func(d time.Duration)
	Logger *slog.Logger
}

type hit struct {
	x, y, w int
	label   scene.Handle
}

// View is not safe for concurrent use. Run owns it once started; Render
// is only called from inside a frame.
type View struct {
	screen tcell.Screen
	sc     *scene.Scene
	opts   Options
	log    *slog.Logger

	labels, lines scene.Handle
	open          bool

	center core.Position3D
	pan    core.Position3D
	scale  float64

	hits     []hit
	input    []rune
	typing   bool
	messages []string
	quit     bool
}

// New creates a closed view over the shared scene pools. The screen must
// already be initialised.
func New(screen tcell.Screen, sc *scene.Scene, opts Options) *View {
	if opts.Scale <= 0 {
		opts.Scale = defaultScale
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &View{
		screen: screen,
		sc:     sc,
		opts:   opts,
		log:    log.With("component", "hostview"),
		scale:  opts.Scale,
	}
}

// Heads returns the host chain heads, or nil while the window is closed.
func (v *View) Heads() (labels, lines *scene.Handle) {
	if !v.open {
		return nil, nil
	}
	return &v.labels, &v.lines
}

// SetOpen shows or hides the map window.
func (v *View) SetOpen(open bool) { v.open = open }

// IsOpen reports whether the map window is shown.
func (v *View) IsOpen() bool { return v.open }

// AddLabel adds a host-owned label at the head of the host chain.
func (v *View) AddLabel(l scene.Label) scene.Handle {
	h := v.sc.Labels.Alloc(l)
	_ = v.sc.Labels.SetNext(h, v.labels)
	v.labels = h
	return h
}

// AddLine adds a host-owned line at the head of the host chain.
func (v *View) AddLine(l scene.Line) scene.Handle {
	h := v.sc.Lines.Alloc(l)
	_ = v.sc.Lines.SetNext(h, v.lines)
	v.lines = h
	return h
}

// Messages returns the most recent output lines, oldest first.
func (v *View) Messages() []string {
	return append([]string(nil), v.messages...)
}

func (v *View) say(lines ...string) {
	v.messages = append(v.messages, lines...)
	if n := len(v.messages); n > maxMessages {
		v.messages = v.messages[n-maxMessages:]
	}
}

// origin is the map-space point drawn at the centre of the screen.
func (v *View) origin() core.Position3D {
	m := v.center.MapSpace()
	return core.Position3D{X: m.X + v.pan.X, Y: m.Y + v.pan.Y}
}

// Cell maps a map-space position to a screen cell. Rows are twice as
// tall as columns are wide.
func (v *View) Cell(p core.Position3D) (x, y int) {
	w, h := v.screen.Size()
	o := v.origin()
	x = w/2 + int(math.Round((p.X-o.X)/v.scale))
	y = h/2 + int(math.Round((p.Y-o.Y)/(2*v.scale)))
	return x, y
}

// PositionAt maps a screen cell back to a world position.
func (v *View) PositionAt(x, y int) core.Position3D {
	w, h := v.screen.Size()
	o := v.origin()
	m := core.Position3D{
		X: o.X + float64(x-w/2)*v.scale,
		Y: o.Y + float64(y-h/2)*2*v.scale,
		Z: v.center.Z,
	}
	return m.MapSpace()
}

// LabelAt returns the topmost label drawn over cell x,y in the last render.
func (v *View) LabelAt(x, y int) (scene.Handle, bool) {
	for i := len(v.hits) - 1; i >= 0; i-- {
		h := v.hits[i]
		if y == h.y && x >= h.x && x < h.x+h.w {
			return h.label, true
		}
	}
	return scene.Nil, false
}

func style(c core.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue())))
}

// Render draws the window. It walks the host chains as they are at call
// time, so spliced engine primitives are drawn along with the host's.
func (v *View) Render() {
	v.screen.Clear()
	v.hits = v.hits[:0]
	w, h := v.screen.Size()

	if v.open {
		v.sc.Lines.Walk(v.lines, func(_ scene.Handle, l *scene.Line) bool {
			x0, y0 := v.Cell(l.Start)
			x1, y1 := v.Cell(l.End)
			v.drawLine(x0, y0, x1, y1, style(l.Color), w, h)
			return true
		})
		v.sc.Labels.Walk(v.labels, func(hd scene.Handle, l *scene.Label) bool {
			if l.Text == "" {
				return true
			}
			x, y := v.Cell(l.Pos)
			v.drawText(x, y, l.Text, style(l.Color))
			v.hits = append(v.hits, hit{x: x, y: y, w: len([]rune(l.Text)), label: hd})
			return true
		})
	}

	row := h - 1 - len(v.messages)
	if v.typing {
		row--
	}
	for _, m := range v.messages {
		v.drawText(0, row, m, tcell.StyleDefault)
		row++
	}
	if v.typing {
		v.drawText(0, h-1, "/"+string(v.input), tcell.StyleDefault.Bold(true))
	}
	v.screen.Show()
}

func (v *View) drawText(x, y int, s string, st tcell.Style) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, st)
	}
}

// drawLine plots a Bresenham line clipped to the screen.
func (v *View) drawLine(x0, y0, x1, y1 int, st tcell.Style, w, h int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	// Lines far off screen are skipped rather than walked.
	if max(abs(x0), abs(x1)) > 4*w+4 || max(abs(y0), abs(y1)) > 4*h+4 {
		return
	}
	err := dx + dy
	for {
		if x0 >= 0 && x0 < w && y0 >= 0 && y0 < h {
			v.screen.SetContent(x0, y0, '·', nil, st)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Combo converts modifier keys into a click combination: shift 1, ctrl 2,
// alt 4, meta 8.
func Combo(mod tcell.ModMask) int {
	c := 0
	if mod&tcell.ModShift != 0 {
		c |= 1
	}
	if mod&tcell.ModCtrl != 0 {
		c |= 2
	}
	if mod&tcell.ModAlt != 0 {
		c |= 4
	}
	if mod&tcell.ModMeta != 0 {
		c |= 8
	}
	return c
}

func (v *View) run(line string) {
	if v.opts.OnCommand == nil || strings.TrimSpace(line) == "" {
		return
	}
	v.say(v.opts.OnCommand(line)...)
}

// HandleEvent applies one terminal event. It reports false once the view
// should stop.
func (v *View) HandleEvent(d Driver, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(d, ev)
	}
	return !v.quit
}

func (v *View) handleKey(ev *tcell.EventKey) {
	if v.typing {
		switch ev.Key() {
		case tcell.KeyEnter:
			line := string(v.input)
			v.typing, v.input = false, v.input[:0]
			v.run(line)
		case tcell.KeyEscape:
			v.typing, v.input = false, v.input[:0]
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if n := len(v.input); n > 0 {
				v.input = v.input[:n-1]
			}
		case tcell.KeyRune:
			v.input = append(v.input, ev.Rune())
		}
		return
	}

	step := 5 * v.scale
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.quit = true
	case tcell.KeyLeft:
		v.pan.X -= step
	case tcell.KeyRight:
		v.pan.X += step
	case tcell.KeyUp:
		v.pan.Y -= 2 * step
	case tcell.KeyDown:
		v.pan.Y += 2 * step
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			v.quit = true
		case '/':
			v.typing = true
		case 'm':
			v.open = !v.open
		case '+', '=':
			v.scale = max(v.scale/2, 0.25)
		case '-':
			v.scale *= 2
		case 'c':
			v.pan = core.Position3D{}
		}
	}
}

func (v *View) handleMouse(d Driver, ev *tcell.EventMouse) {
	if !v.open {
		return
	}
	x, y := ev.Position()
	combo := Combo(ev.Modifiers())
	switch {
	case ev.Buttons()&tcell.Button2 != 0:
		if h, ok := v.LabelAt(x, y); ok {
			if cmd, ok := d.ClickSpawn(h, combo); ok && cmd != "" {
				v.run(cmd)
			}
		}
	case ev.Buttons()&tcell.Button1 != 0:
		if h, ok := v.LabelAt(x, y); ok && combo == 0 {
			_, _ = d.ClickSpawn(h, 0)
			return
		}
		if cmd := d.ClickMap(v.PositionAt(x, y), combo); cmd != "" {
			v.run(cmd)
		}
	}
}

// Run drives frames at the configured interval and applies terminal
// events between them until ctx is done or the user quits.
func (v *View) Run(ctx context.Context, d Driver) error {
	v.screen.EnableMouse()
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		defer close(events)
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(v.opts.Interval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !v.HandleEvent(d, ev) {
				v.log.Info("Map window closed by user")
				return nil
			}
		case now := <-ticker.C:
			if v.opts.OnTick != nil {
				v.opts.OnTick(now.Sub(last))
			}
			last = now
			if v.opts.Follow != nil {
				if p, ok := v.opts.Follow(); ok {
					v.center = p
				}
			}
			d.Frame(v.Render)
		}
	}
}
