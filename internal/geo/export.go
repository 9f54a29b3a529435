package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/mqmap/overlay/internal/api"
	"github.com/mqmap/overlay/internal/engine"
)

// Uploader publishes an exported file.
type Uploader interface {
	Upload(ctx context.Context, filePath string, meta api.UploadMetadata) (api.UploadResult, error)
}

// Options configures an Exporter.
type Options struct {
	Dir       string
	Scale     float64
	Reproject bool
	Uploader  Uploader
	Character func() string
	Logger    *slog.Logger
}

// Exporter writes engine views as GeoJSON feature collections.
type Exporter struct {
	opts Options
	proj Projector
	log  *slog.Logger
}

func NewExporter(opts Options) *Exporter {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{opts: opts, proj: NewProjector(opts.Scale, opts.Reproject), log: log}
}

// Collection converts v into features: one point per object and location
// template, one line string per line.
func (x *Exporter) Collection(v engine.View) (geom.GeoJSONFeatureCollection, error) {
	fc := make(geom.GeoJSONFeatureCollection, 0, len(v.Objects)+len(v.Locations)+len(v.Lines))

	for _, o := range v.Objects {
		pt, err := x.proj.Point(o.Pos)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", o.Text, err)
		}
		props := map[string]interface{}{
			"layer":   "object",
			"variant": o.Variant,
			"text":    o.Text,
			"color":   o.Color,
		}
		if o.Kind != "" {
			props["kind"] = o.Kind
		}
		if o.Highlighted {
			props["highlighted"] = true
		}
		f := geom.GeoJSONFeature{Geometry: pt.AsGeometry(), Properties: props}
		if o.ID != 0 {
			f.ID = o.ID
		}
		fc = append(fc, f)
	}

	for _, l := range v.Locations {
		pt, err := x.proj.Point(l.Pos)
		if err != nil {
			return nil, fmt.Errorf("location %s: %w", l.Tag, err)
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: pt.AsGeometry(),
			ID:       l.Tag,
			Properties: map[string]interface{}{
				"layer":  "location",
				"index":  l.Index,
				"label":  l.Label,
				"color":  l.Params.Color.String(),
				"radius": l.Params.CircleRadius,
			},
		})
	}

	for _, l := range v.Lines {
		props := map[string]interface{}{"layer": "line", "color": l.Color}
		ls, err := x.proj.LineString(l.Start, l.End)
		if errors.Is(err, ErrDegenerateLine) {
			pt, err := x.proj.Point(l.Start)
			if err != nil {
				return nil, fmt.Errorf("line: %w", err)
			}
			fc = append(fc, geom.GeoJSONFeature{Geometry: pt.AsGeometry(), Properties: props})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("line: %w", err)
		}
		fc = append(fc, geom.GeoJSONFeature{Geometry: ls.AsGeometry(), Properties: props})
	}
	return fc, nil
}

// Export writes v to dest and returns the written path. An empty dest
// writes "<zone>-<frame>.geojson" in the export directory. "upload [tag]"
// writes the default file and sends it to the uploader, returning the
// remote URL.
func (x *Exporter) Export(ctx context.Context, v engine.View, dest string) (string, error) {
	dest = strings.TrimSpace(dest)
	upload, tag := false, ""
	if f := strings.Fields(dest); len(f) > 0 && strings.EqualFold(f[0], "upload") {
		upload = true
		tag = strings.TrimSpace(dest[len(f[0]):])
		dest = ""
	}
	if upload && x.opts.Uploader == nil {
		return "", fmt.Errorf("no upload service configured")
	}

	path := dest
	if path == "" {
		path = defaultName(v)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(x.opts.Dir, path)
	}

	fc, err := x.Collection(v)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return "", fmt.Errorf("marshal feature collection: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	x.log.Info("Overlay exported", "path", path, "features", len(fc))

	if !upload {
		return path, nil
	}
	meta := api.UploadMetadata{Zone: v.Zone, Frame: v.Frame, Tag: tag}
	if x.opts.Character != nil {
		meta.Character = x.opts.Character()
	}
	res, err := x.opts.Uploader.Upload(ctx, path, meta)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	x.log.Info("Overlay uploaded", "path", path, "id", res.ID, "url", res.URL)
	if res.URL != "" {
		return res.URL, nil
	}
	return path, nil
}

func defaultName(v engine.View) string {
	zone := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, strings.ToLower(v.Zone))
	if zone == "" {
		zone = "overlay"
	}
	return fmt.Sprintf("%s-%d.geojson", zone, v.Frame)
}
