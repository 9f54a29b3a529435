package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/mqmap/overlay/internal/api"
	"github.com/mqmap/overlay/internal/commands"
	"github.com/mqmap/overlay/internal/config"
	"github.com/mqmap/overlay/internal/dispatcher"
	"github.com/mqmap/overlay/internal/engine"
	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/geo"
	"github.com/mqmap/overlay/internal/hostview"
	"github.com/mqmap/overlay/internal/influx"
	"github.com/mqmap/overlay/internal/logging"
	"github.com/mqmap/overlay/internal/monitor"
	intOtel "github.com/mqmap/overlay/internal/otel"
	"github.com/mqmap/overlay/internal/scene"
	"github.com/mqmap/overlay/internal/session"
	"github.com/mqmap/overlay/internal/storage"
	"github.com/mqmap/overlay/internal/stream"
	"github.com/mqmap/overlay/internal/world"
	"github.com/mqmap/overlay/pkg/core"
)

// streamEvery is the number of frames between streamed views.
const streamEvery = 20

// app holds every service for one run.
type app struct {
	startTime time.Time
	logsDir   string
	logFile   *os.File
	slogs     *logging.SlogManager
	log       *slog.Logger
	otel      *intOtel.Provider

	sess    *session.Context
	world   *world.Memory
	scene   *scene.Scene
	filters *filter.Registry

	screen tcell.Screen
	view   *hostview.View
	eng    *engine.Engine

	backend    storage.Backend
	influx     *influx.Manager
	streamer   *stream.Streamer
	monitor    *monitor.Service
	dispatcher *dispatcher.Dispatcher
	apiClient  *api.Client

	inGame bool
}

// headless never exposes host chains, so the engine tracks without
// splicing.
type headless struct{}

func (headless) Heads() (labels, lines *scene.Handle) { return nil, nil }

func newApp(configDir string, headlessMode bool) (*app, error) {
	a := &app{
		startTime: time.Now(),
		slogs:     logging.NewSlogManager(),
		sess:      session.New(),
	}

	// Console logging until the log file exists.
	a.slogs.Setup(nil, "info", nil)
	a.log = a.slogs.Logger()

	if err := config.Load(configDir); err != nil {
		a.log.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		a.log.Info("Loaded config", "dir", configDir)
	}

	if err := a.setupLogging(); err != nil {
		return nil, err
	}

	if err := a.setupWorld(); err != nil {
		return nil, err
	}

	var host engine.Host = headless{}
	if !headlessMode {
		if err := a.setupScreen(); err != nil {
			return nil, err
		}
		host = a.view
	}

	cfg := config.EngineConfig()
	cfg.Logger = a.log
	eng, err := engine.New(a.world, host, a.scene, a.filters, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	a.eng = eng

	ctx := context.Background()
	a.initStorage(ctx)
	a.setupCommands()
	a.setupMonitoring(ctx)

	go a.checkServerStatus()

	a.log.Info("Map overlay started", "version", CurrentVersion, "buildDate", BuildDate)
	return a, nil
}

func (a *app) setupLogging() error {
	level := config.GetString("logLevel")
	a.logsDir = config.GetString("logsDir")
	if err := os.MkdirAll(a.logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}

	path := logging.LogFilePath(a.logsDir, AppName, a.startTime)
	if _, err := os.Stat(path); err == nil {
		_ = os.Rename(path, path+".old")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		a.log.Error("Failed to create/open log file!", "error", err, "path", path)
	} else {
		a.logFile = f
	}

	otelCfg := config.GetOTelConfig()
	a.otel, err = intOtel.New(intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    a.logFileWriter(),
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
		Logger:       a.log,

		MetricInterval: otelCfg.MetricInterval,
	})
	if err != nil {
		a.log.Error("Failed to initialize OTel provider", "error", err)
		a.otel = nil
	} else if otelCfg.Enabled {
		a.log.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
	}

	if config.GetBool("graylog.enabled") {
		addr := config.GetString("graylog.address")
		w, err := logging.NewGELFWriter(addr)
		if err != nil {
			a.log.Error("Failed to connect to Graylog", "error", err, "address", addr)
		} else {
			a.slogs.WithHandlers(logging.NewGELFHandler(w, level))
		}
	}

	a.slogs.WithContext(a.sess.Attrs).WithComponentLevels(config.GetComponentLevels())
	a.slogs.Setup(a.logFileWriter(), level, a.otel.LoggerProvider())
	a.log = a.slogs.Logger()
	if a.logFile != nil {
		a.log.Info("Logging to file", "path", path)
	}
	return nil
}

// logFileWriter avoids handing a typed nil *os.File to io.Writer fields.
func (a *app) logFileWriter() io.Writer {
	if a.logFile == nil {
		return nil
	}
	return a.logFile
}

func (a *app) componentLog(component string) zerolog.Logger {
	if a.logFile == nil {
		return zerolog.Nop()
	}
	return logging.NewZerolog(config.GetString("logLevel"), component, a.logFile)
}

func (a *app) setupWorld() error {
	a.scene = scene.New()
	a.filters = filter.NewRegistry()
	if unknown := config.ApplyFilters(a.filters); len(unknown) > 0 {
		a.log.Warn("Unknown filters in config", "names", unknown)
	}

	path := config.GetString("world.scene")
	if path == "" {
		a.world = world.NewMemory("")
		a.log.Info("No world scene configured, starting empty")
		return nil
	}
	w, err := world.LoadScene(path)
	if err != nil {
		return fmt.Errorf("failed to load world scene: %w", err)
	}
	a.world = w
	a.log.Info("Loaded world scene", "path", path, "zone", w.Zone())
	return nil
}

func (a *app) setupScreen() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	a.screen = screen
	a.view = hostview.New(screen, a.scene, hostview.Options{
		Scale:     config.GetFloat("view.scale"),
		Interval:  config.GetDuration("frame.interval"),
		Follow:    a.follow,
		OnCommand: a.exec,
		OnTick:    a.tick,
		Logger:    a.log,
	})
	a.view.SetOpen(config.GetBool("view.open"))
	a.view.AddLabel(scene.Label{Text: "+", Color: core.FromRGB(128, 128, 128)})
	return nil
}

func (a *app) setupCommands() {
	a.apiClient = api.New(config.GetString("api.serverUrl"), config.GetString("api.apiKey"))

	opts := geo.Options{
		Dir:       config.GetString("export.dir"),
		Scale:     config.GetFloat("export.scale"),
		Reproject: config.GetBool("export.reproject"),
		Character: a.sess.Character,
		Logger:    a.log,
	}
	if config.GetString("api.apiKey") != "" {
		opts.Uploader = a.apiClient
	}

	cmdOpts := []commands.Option{
		commands.WithExporter(geo.NewExporter(opts)),
		commands.WithLogger(a.log),
	}
	if a.backend != nil {
		cmdOpts = append(cmdOpts, commands.WithStore(a.backend))
	}

	d, err := dispatcher.New(logging.NewCommandLogger(a.componentLog("dispatcher"), a.sess.Attrs))
	if err != nil {
		a.log.Error("Failed to create dispatcher", "error", err)
		return
	}
	commands.New(a.eng, cmdOpts...).Register(d)
	d.Register("maphelp", func(dispatcher.Event) (any, error) {
		return d.Help(), nil
	})
	d.Register("mapstatus", func(dispatcher.Event) (any, error) {
		return monitor.Status(a.eng.Stats()), nil
	})
	a.dispatcher = d
}

func (a *app) setupMonitoring(ctx context.Context) {
	var sinks []monitor.Sink

	if cfg := config.GetInfluxConfig(); cfg.Enabled {
		backup := filepath.Join(a.logsDir, fmt.Sprintf("%s.%s.influx.gz", AppName, a.startTime.Format("20060102_150405")))
		m := influx.NewManager(a.componentLog("influx"), cfg, backup)
		if err := m.Connect(ctx); err != nil {
			a.log.Error("Failed to set up InfluxDB", "error", err)
		} else {
			a.influx = m
			sinks = append(sinks, m)
		}
	}

	if rec, ok := a.backend.(storage.StatsRecorder); ok {
		sinks = append(sinks, rec)
	}

	if cfg := config.GetStreamConfig(); cfg.Enabled {
		s := stream.New(stream.Config{URL: cfg.URL, Secret: cfg.Secret}, a.log)
		if err := s.Connect(); err != nil {
			a.log.Error("Failed to connect overlay stream", "error", err, "url", cfg.URL)
		} else {
			a.streamer = s
			sinks = append(sinks, s)
			a.log.Info("Overlay stream connected", "url", cfg.URL)
		}
	}

	a.monitor = monitor.NewService(monitor.Dependencies{
		Source:     a.eng,
		Sinks:      sinks,
		Interval:   config.GetDuration("monitor.interval"),
		Logger:     a.log,
		StatusPath: filepath.Join(a.logsDir, AppName+".status.json"),
	})
	if err := a.monitor.Start(ctx); err != nil {
		a.log.Error("Failed to start monitor", "error", err)
	}
}

func (a *app) checkServerStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.apiClient.Healthcheck(ctx); err != nil {
		a.log.Info("Map web service is offline", "error", err)
	} else {
		a.log.Info("Map web service is online")
	}
}

func (a *app) follow() (core.Position3D, bool) {
	me, ok := a.eng.LocalPlayer()
	return me.Pos, ok
}

// tick advances the world and follows zone and character changes.
func (a *app) tick(d time.Duration) {
	a.world.Step(d)
	a.trackSession()
}

func (a *app) trackSession() {
	me, ok := a.world.LocalPlayer()
	if !ok {
		if a.inGame {
			a.inGame = false
			a.eng.SetGameState(false)
			a.sess.Leave()
			a.log.Info("Left game")
			if a.streamer != nil {
				go a.streamCall("bye", a.streamer.Bye)
			}
		}
		return
	}
	if !a.inGame {
		a.inGame = true
		a.eng.SetGameState(true)
	}
	zone, character := a.world.Zone(), me.Name
	if !a.sess.Enter(zone, character) {
		return
	}
	a.log.Info("Entered zone", "zone", zone, "character", character)
	a.loadProfile()
	if a.streamer != nil {
		go a.streamCall("hello", func() error { return a.streamer.Hello(zone, character) })
	}
}

func (a *app) streamCall(what string, fn func() error) {
	if err := fn(); err != nil {
		a.log.Warn("Overlay stream handshake failed", "message", what, "error", err)
	}
}

func (a *app) loadProfile() {
	if a.backend == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	st, ok, err := a.backend.LoadState(ctx)
	if err != nil {
		a.log.Error("Failed to load map profile", "error", err)
		return
	}
	if !ok {
		return
	}
	if err := a.eng.Restore(st); err != nil {
		a.log.Error("Failed to apply map profile", "error", err)
		return
	}
	a.log.Info("Map profile loaded", "filters", len(st.Filters), "locations", len(st.Locations))
}

// frame runs one engine frame around render and publishes it.
func (a *app) frame(render func()) {
	a.eng.Frame(render)
	st := a.eng.Stats()
	a.sess.SetFrame(st.Frame)
	if a.streamer != nil && st.Active && st.Frame%streamEvery == 0 {
		if err := a.streamer.SendFrame(a.eng.View(false)); err != nil {
			a.log.Warn("Failed to stream frame", "error", err)
		}
	}
}

// exec runs one command line and returns the lines to show.
func (a *app) exec(line string) []string {
	if a.dispatcher == nil {
		return []string{"Commands are unavailable."}
	}
	res, err := a.dispatcher.Exec(line)
	switch {
	case errors.Is(err, dispatcher.ErrUnknownCommand):
		return []string{fmt.Sprintf("Unknown command: %s", strings.TrimSpace(line))}
	case errors.Is(err, commands.ErrUsage):
		return []string{strings.TrimPrefix(err.Error(), commands.ErrUsage.Error()+": ")}
	case err != nil:
		return []string{err.Error()}
	}
	switch v := res.(type) {
	case nil:
		return nil
	case []string:
		return v
	default:
		return []string{fmt.Sprint(v)}
	}
}

// execLines runs commands headless: one frame to populate the map, each
// command followed by a frame, so exports see their effects.
func (a *app) execLines(ctx context.Context, lines []string) []string {
	a.trackSession()
	a.frame(func() {})
	var out []string
	for _, line := range lines {
		if ctx.Err() != nil {
			break
		}
		out = append(out, a.exec(line)...)
		a.frame(func() {})
	}
	return out
}

// frameDriver routes the window's frames through app.frame.
type frameDriver struct {
	*engine.Engine
	a *app
}

func (d frameDriver) Frame(render func()) { d.a.frame(render) }

func (a *app) runView(ctx context.Context) error {
	a.trackSession()
	return a.view.Run(ctx, frameDriver{Engine: a.eng, a: a})
}

func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.screen != nil {
		a.screen.Fini()
	}
	if a.monitor != nil {
		a.monitor.Stop()
	}
	if a.streamer != nil {
		if a.inGame {
			a.streamCall("bye", a.streamer.Bye)
		}
		_ = a.streamer.Close()
	}
	if a.influx != nil {
		if err := a.influx.Close(); err != nil {
			a.log.Error("Failed to close InfluxDB", "error", err)
		}
	}
	if a.eng != nil {
		a.eng.Shutdown()
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.log.Error("Failed to close storage", "error", err)
		}
	}
	_ = a.slogs.Flush(ctx)
	if err := a.otel.Shutdown(ctx); err != nil {
		a.log.Error("Failed to shut down OTel", "error", err)
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
