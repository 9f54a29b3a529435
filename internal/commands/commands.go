// Package commands implements the slash commands that configure the map
// overlay: filters, highlighting, hide/show, label formats, click bindings,
// location markers, export and save.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mqmap/overlay/internal/dispatcher"
	"github.com/mqmap/overlay/internal/engine"
)

// ErrUsage wraps every syntax error reported to the user.
var ErrUsage = errors.New("syntax error")

func usage(msg string) error {
	return fmt.Errorf("%w: %s", ErrUsage, msg)
}

// Store persists engine state.
type Store interface {
	SaveState(ctx context.Context, st engine.State) error
	LoadState(ctx context.Context) (engine.State, bool, error)
}

// Exporter writes a view of the overlay to dest and returns where it went.
type Exporter interface {
	Export(ctx context.Context, v engine.View, dest string) (string, error)
}

// Commands binds the command handlers to an engine.
type Commands struct {
	engine   *engine.Engine
	store    Store
	exporter Exporter
	log      *slog.Logger
	timeout  time.Duration
}

type Option func(*Commands)

func WithStore(s Store) Option {
	return func(c *Commands) { c.store = s }
}

func WithExporter(x Exporter) Option {
	return func(c *Commands) { c.exporter = x }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Commands) { c.log = l }
}

// New returns the command set for e.
func New(e *engine.Engine, opts ...Option) *Commands {
	c := &Commands{
		engine:  e,
		log:     slog.Default(),
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type handler func(line string) ([]string, error)

func wrap(h handler) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		return h(e.Line)
	}
}

// Register adds every map command to d. Handlers return the lines to show
// the user as a []string.
func (c *Commands) Register(d *dispatcher.Dispatcher) {
	d.Register("mapfilter", wrap(c.mapFilter), dispatcher.Logged(), dispatcher.Usage("[option|help]"))
	d.Register("mapactivelayer", wrap(c.mapActiveLayer), dispatcher.Logged(), dispatcher.Usage("[0|1|2|3]"))
	d.Register("highlight", wrap(c.highlight), dispatcher.Logged(), dispatcher.Usage("[reset|spawnfilter|size|pulse|[color # # #]]"))
	d.Register("maphide", wrap(c.mapHide), dispatcher.Logged(), dispatcher.Usage("[spawnfilter|reset|repeat]"))
	d.Register("mapshow", wrap(c.mapShow), dispatcher.Logged(), dispatcher.Usage("[spawnfilter|reset|repeat]"))
	d.Register("mapnames", wrap(c.mapNames), dispatcher.Logged(), dispatcher.Usage("<target|normal> [value|reset]"))
	d.Register("mapclick", wrap(c.mapClick), dispatcher.Logged(), dispatcher.Usage("[left] <list|<key[+key[...]]> <clear|command>>"))
	d.Register("maploc", wrap(c.mapLoc), dispatcher.Logged(), dispatcher.Usage("[help|remove|options...]"))
	d.Register("mapexport", wrap(c.mapExport), dispatcher.Logged(), dispatcher.Usage("[destination]"))
	d.Register("mapsave", wrap(c.mapSave), dispatcher.Logged())
	d.Register("mapload", wrap(c.mapLoad), dispatcher.Logged())
}

func (c *Commands) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

func (c *Commands) mapExport(line string) ([]string, error) {
	if c.exporter == nil {
		return []string{"Map export is not configured."}, nil
	}
	ctx, cancel := c.context()
	defer cancel()
	where, err := c.exporter.Export(ctx, c.engine.View(true), line)
	if err != nil {
		return nil, fmt.Errorf("exporting map: %w", err)
	}
	return []string{fmt.Sprintf("Map exported to %s", where)}, nil
}

func (c *Commands) mapSave(string) ([]string, error) {
	if c.store == nil {
		return []string{"Map storage is not configured."}, nil
	}
	ctx, cancel := c.context()
	defer cancel()
	st := c.engine.State()
	if err := c.store.SaveState(ctx, st); err != nil {
		return nil, fmt.Errorf("saving map settings: %w", err)
	}
	return []string{fmt.Sprintf("Map settings saved: %d filters, %d MapLoc(s)", len(st.Filters), len(st.Locations))}, nil
}

func (c *Commands) mapLoad(string) ([]string, error) {
	if c.store == nil {
		return []string{"Map storage is not configured."}, nil
	}
	ctx, cancel := c.context()
	defer cancel()
	st, ok, err := c.store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading map settings: %w", err)
	}
	if !ok {
		return []string{"No saved map settings."}, nil
	}
	if err := c.engine.Restore(st); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("Map settings loaded: %d MapLoc(s)", len(st.Locations))}, nil
}
