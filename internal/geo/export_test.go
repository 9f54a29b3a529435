package geo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqmap/overlay/internal/api"
	"github.com/mqmap/overlay/internal/engine"
	"github.com/mqmap/overlay/internal/overlay"
	"github.com/mqmap/overlay/pkg/core"
)

func testView() engine.View {
	return engine.View{
		Frame: 12,
		Zone:  "North Qeynos",
		Objects: []engine.ObjectView{
			{Variant: "spawn", ID: 5, Kind: "NPC", Text: "Guard Bixby", Pos: core.Position3D{X: 10, Y: 20}, Color: "255 0 0", Highlighted: true},
			{Variant: "ground", ID: 9, Text: "Bone Chips", Pos: core.Position3D{X: 1, Y: 1}},
		},
		Locations: []engine.LocationView{
			{Index: 1, Tag: "20,10,0", Label: "camp", Pos: core.Position3D{X: 10, Y: 20}, Params: overlay.DefaultLocationParams()},
		},
		Lines: []engine.LineView{
			{Start: core.Position3D{}, End: core.Position3D{X: 5, Y: 5}, Color: "0 0 255"},
		},
	}
}

func TestCollection(t *testing.T) {
	x := NewExporter(Options{})
	fc, err := x.Collection(testView())
	require.NoError(t, err)
	require.Len(t, fc, 4)

	assert.Equal(t, uint32(5), fc[0].ID)
	assert.Equal(t, "NPC", fc[0].Properties["kind"])
	assert.Equal(t, true, fc[0].Properties["highlighted"])
	assert.Equal(t, geom.TypePoint, fc[0].Geometry.Type())

	assert.Equal(t, "20,10,0", fc[2].ID)
	assert.Equal(t, "location", fc[2].Properties["layer"])
	assert.Equal(t, "camp", fc[2].Properties["label"])

	assert.Equal(t, geom.TypeLineString, fc[3].Geometry.Type())
}

func TestCollection_ZeroLengthLineBecomesPoint(t *testing.T) {
	v := testView()
	v.Lines = append(v.Lines, engine.LineView{Start: core.Position3D{X: 3, Y: 4}, End: core.Position3D{X: 3, Y: 4, Z: 1}, Color: "0 255 0"})

	fc, err := NewExporter(Options{}).Collection(v)
	require.NoError(t, err)
	require.Len(t, fc, 5)
	assert.Equal(t, geom.TypePoint, fc[4].Geometry.Type())
	assert.Equal(t, "line", fc[4].Properties["layer"])
}

func TestCollection_InvalidCoordinates(t *testing.T) {
	v := testView()
	v.Objects[1].Pos.X = 1e9
	_, err := NewExporter(Options{Reproject: true}).Collection(v)
	require.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestExport_DefaultName(t *testing.T) {
	dir := t.TempDir()
	x := NewExporter(Options{Dir: dir})

	path, err := x.Export(context.Background(), testView(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "north_qeynos-12.geojson"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var fc geom.GeoJSONFeatureCollection
	require.NoError(t, fc.UnmarshalJSON(data))
	assert.Len(t, fc, 4)
}

func TestExport_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	x := NewExporter(Options{Dir: dir})

	path, err := x.Export(context.Background(), testView(), "sub/out.geojson")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", "out.geojson"), path)
	assert.FileExists(t, path)
}

type fakeUploader struct {
	path string
	meta api.UploadMetadata
}

func (f *fakeUploader) Upload(_ context.Context, path string, meta api.UploadMetadata) (api.UploadResult, error) {
	f.path, f.meta = path, meta
	return api.UploadResult{ID: "1", URL: "http://maps/1"}, nil
}

func TestExport_Upload(t *testing.T) {
	up := &fakeUploader{}
	x := NewExporter(Options{
		Dir:       t.TempDir(),
		Uploader:  up,
		Character: func() string { return "Fippy" },
	})

	where, err := x.Export(context.Background(), testView(), "upload pull spot")
	require.NoError(t, err)
	assert.Equal(t, "http://maps/1", where)
	assert.FileExists(t, up.path)
	assert.Equal(t, api.UploadMetadata{Zone: "North Qeynos", Character: "Fippy", Frame: 12, Tag: "pull spot"}, up.meta)
}

func TestExport_UploadNotConfigured(t *testing.T) {
	_, err := NewExporter(Options{Dir: t.TempDir()}).Export(context.Background(), testView(), "upload")
	require.Error(t, err)
}
