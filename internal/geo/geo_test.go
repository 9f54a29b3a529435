package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/mqmap/overlay/pkg/core"
)

func TestPosition3DFromString_ValidWithElevation(t *testing.T) {
	p, err := Position3DFromString("100.5,200.25,50.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != 100.5 || p.Y != 200.25 || p.Z != 50.0 {
		t.Errorf("unexpected position %+v", p)
	}
}

func TestPosition3DFromString_ValidWithoutElevation(t *testing.T) {
	p, err := Position3DFromString("-100.5, 200.25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != -100.5 || p.Y != 200.25 || p.Z != 0 {
		t.Errorf("unexpected position %+v", p)
	}
}

func TestPosition3DFromString_Invalid(t *testing.T) {
	for _, in := range []string{"", "100", "abc,200", "100,abc", "100,200,abc"} {
		if _, err := Position3DFromString(in); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("%q: expected ErrInvalidCoordinates, got %v", in, err)
		}
	}
}

func TestPointFromPosition(t *testing.T) {
	pt, err := PointFromPosition(core.Position3D{X: 1, Y: 2, Z: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	coords, ok := pt.Coordinates()
	if !ok {
		t.Fatal("expected valid coordinates")
	}
	if coords.X != 1 || coords.Y != 2 || coords.Z != 3 {
		t.Errorf("unexpected coordinates %+v", coords)
	}
}

func TestProjector_NoReproject(t *testing.T) {
	pr := NewProjector(2, false)
	p, err := pr.Project(core.Position3D{X: 10, Y: -5, Z: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != 20 || p.Y != -10 || p.Z != 7 {
		t.Errorf("unexpected projection %+v", p)
	}
}

func TestProjector_Reproject(t *testing.T) {
	pr := NewProjector(0, true)

	origin, err := pr.Project(core.Position3D{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(origin.X) > 1e-9 || math.Abs(origin.Y) > 1e-9 {
		t.Errorf("expected origin at 0,0, got %+v", origin)
	}

	edge, err := pr.Project(core.Position3D{X: mercatorBound})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// +180 and -180 name the same meridian.
	if math.Abs(math.Abs(edge.X)-180) > 1e-6 {
		t.Errorf("expected longitude on the antimeridian, got %f", edge.X)
	}

	inside, err := pr.Project(core.Position3D{X: mercatorBound / 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(inside.X-90) > 1e-6 {
		t.Errorf("expected longitude 90, got %f", inside.X)
	}
}

func TestPointFromPosition_NaN(t *testing.T) {
	if _, err := PointFromPosition(core.Position3D{X: math.NaN()}); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestProjector_OutOfBounds(t *testing.T) {
	pr := NewProjector(1, true)
	if _, err := pr.Project(core.Position3D{X: 3e7}); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
	if _, err := NewProjector(1, false).Project(core.Position3D{X: math.NaN()}); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates for NaN, got %v", err)
	}
}
