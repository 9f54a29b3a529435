// Package config loads mapoverlay.cfg.json through viper and converts the
// map sections into engine settings.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/mqmap/overlay/internal/engine"
	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/internal/search"
	"github.com/mqmap/overlay/pkg/core"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "mapoverlay.cfg.json"

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// SetDefaults registers every default. Load calls it; tests and the demo
// binary call it directly when no file is present.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./maplogs")
	viper.SetDefault("logComponents", map[string]string{})

	viper.SetDefault("map.activeLayer", 3)
	viper.SetDefault("map.highlight.size", 10)
	viper.SetDefault("map.highlight.pulse", false)
	viper.SetDefault("map.highlight.color", []int{112, 0, 112})
	viper.SetDefault("map.names.normal", "%N")
	viper.SetDefault("map.names.target", "%N")
	viper.SetDefault("map.show.query", "")
	viper.SetDefault("map.show.repeat", false)
	viper.SetDefault("map.hide.query", "")
	viper.SetDefault("map.hide.repeat", false)

	viper.SetDefault("maploc.size", 10)
	viper.SetDefault("maploc.width", 2)
	viper.SetDefault("maploc.color", []int{255, 0, 0})
	viper.SetDefault("maploc.radius", 0)
	viper.SetDefault("maploc.radiusColor", []int{0, 0, 255})

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.sqlite.path", "./mapoverlay.db")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "mapoverlay")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "mapoverlay")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
	viper.SetDefault("otel.metricInterval", "30s")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "mapoverlay")
	viper.SetDefault("influx.bucket", "frames")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("stream.enabled", false)
	viper.SetDefault("stream.url", "ws://localhost:5000/api/v1/overlay")
	viper.SetDefault("stream.secret", "")

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("export.dir", "./mapexports")
	viper.SetDefault("export.scale", 1.0)
	viper.SetDefault("export.reproject", false)

	viper.SetDefault("view.scale", 10.0)
	viper.SetDefault("view.open", true)

	viper.SetDefault("frame.interval", "50ms")
	viper.SetDefault("frame.eventLimit", 0)
	viper.SetDefault("monitor.interval", "10s")
	viper.SetDefault("world.scene", "")
}

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// StorageConfig selects and configures the settings backend.
type StorageConfig struct {
	Type   string
	SQLite SQLiteConfig
	DB     DBConfig
}

// SQLiteConfig configures the sqlite backend. An empty Path keeps the
// database in memory and dumps it to DumpPath every DumpInterval.
type SQLiteConfig struct {
	Path         string
	DumpInterval time.Duration
}

// DBConfig holds postgres connection settings.
type DBConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// DSN renders the postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.Username, c.Password, c.Database)
}

func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
}

// OTelConfig mirrors the otel section; the log writer is chosen by the
// caller.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
	// MetricInterval is how often frame metrics are exported.
	MetricInterval time.Duration
}

func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),

		MetricInterval: viper.GetDuration("otel.metricInterval"),
	}
}

// GetComponentLevels returns per-component log level overrides keyed by
// component name (engine, dispatcher, stream).
func GetComponentLevels() map[string]string {
	return viper.GetStringMapString("logComponents")
}

type InfluxConfig struct {
	Enabled bool
	URL     string
	Token   string
	Org     string
	Bucket  string
}

func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled: viper.GetBool("influx.enabled"),
		URL:     viper.GetString("influx.url"),
		Token:   viper.GetString("influx.token"),
		Org:     viper.GetString("influx.org"),
		Bucket:  viper.GetString("influx.bucket"),
	}
}

type StreamConfig struct {
	Enabled bool
	URL     string
	Secret  string
}

func GetStreamConfig() StreamConfig {
	return StreamConfig{
		Enabled: viper.GetBool("stream.enabled"),
		URL:     viper.GetString("stream.url"),
		Secret:  viper.GetString("stream.secret"),
	}
}

// color reads an [r,g,b] list, falling back to def when the key is unset
// or malformed.
func color(key string, def core.Color) core.Color {
	v := viper.GetIntSlice(key)
	if len(v) != 3 {
		return def
	}
	return core.FromRGB(v[0], v[1], v[2])
}

// Settings builds the overlay presentation settings from the map section.
func Settings() overlay.Settings {
	s := overlay.DefaultSettings()
	s.ActiveLayer = viper.GetInt("map.activeLayer")
	s.HighlightSize = viper.GetInt("map.highlight.size")
	s.HighlightPulse = viper.GetBool("map.highlight.pulse")
	s.HighlightColor = color("map.highlight.color", s.HighlightColor)
	s.NameFormat = viper.GetString("map.names.normal")
	s.TargetFormat = viper.GetString("map.names.target")
	s.ShowQuery = search.Parse(viper.GetString("map.show.query"))
	s.ShowRepeat = viper.GetBool("map.show.repeat")
	s.HideQuery = search.Parse(viper.GetString("map.hide.query"))
	s.HideRepeat = viper.GetBool("map.hide.repeat")
	return s
}

// LocationDefaults builds the maploc defaults.
func LocationDefaults() overlay.LocationParams {
	d := overlay.DefaultLocationParams()
	d.LineSize = viper.GetFloat64("maploc.size")
	d.Width = viper.GetInt("maploc.width")
	d.Color = color("maploc.color", d.Color)
	d.CircleRadius = viper.GetFloat64("maploc.radius")
	d.CircleColor = color("maploc.radiusColor", d.CircleColor)
	return d
}

// Clicks reads map.clicks.left.<n> and map.clicks.right.<n>.
func Clicks() engine.Clicks {
	var c engine.Clicks
	for i := 1; i < engine.MaxClickStrings; i++ {
		n := strconv.Itoa(i)
		c.Left[i] = viper.GetString("map.clicks.left." + n)
		c.Right[i] = viper.GetString("map.clicks.right." + n)
	}
	return c
}

// ApplyFilters overrides the registry with map.filters.<Name> entries and
// returns the names that matched no option.
func ApplyFilters(r *filter.Registry) (unknown []string) {
	for name := range viper.GetStringMap("map.filters") {
		id, ok := r.Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		key := "map.filters." + name
		o := r.Option(id)
		if viper.IsSet(key + ".radius") {
			r.SetRadius(id, viper.GetFloat64(key+".radius"))
		} else if viper.IsSet(key + ".enabled") {
			r.SetEnabled(id, viper.GetBool(key+".enabled"))
		}
		if viper.IsSet(key + ".color") {
			r.SetColor(id, color(key+".color", o.Color))
		}
		if viper.IsSet(key + ".marker") {
			size := o.MarkerSize
			if viper.IsSet(key + ".markerSize") {
				size = viper.GetInt(key + ".markerSize")
			}
			r.SetMarker(id, core.FindMarker(viper.GetString(key+".marker")), size)
		}
	}
	return unknown
}

// EngineConfig collects the startup settings for engine.New.
func EngineConfig() engine.Config {
	return engine.Config{
		Settings:   Settings(),
		Locations:  LocationDefaults(),
		Clicks:     Clicks(),
		EventLimit: viper.GetInt("frame.eventLimit"),
	}
}
