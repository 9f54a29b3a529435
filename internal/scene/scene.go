package scene

import (
	"github.com/mqmap/overlay/internal/geometry"
	"github.com/mqmap/overlay/pkg/core"
)

// Label is a text primitive drawn at a map-space position.
type Label struct {
	Pos    core.Position3D
	Color  core.Color
	Size   int
	Width  int
	Height int
	Offset int
	Text   string
	Layer  int
}

// Line is a segment primitive in map space.
type Line struct {
	Start core.Position3D
	End   core.Position3D
	Color core.Color
	Layer int
}

// Scene owns the label and line pools shared with the host and the engine's
// own chains within them.
type Scene struct {
	Labels Pool[Label]
	Lines  Pool[Line]

	LabelChain Chain
	LineChain  Chain
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// AddLabel allocates a label and links it at the head of the engine chain.
func (s *Scene) AddLabel(l Label) Handle {
	h := s.Labels.Alloc(l)
	_ = s.Labels.PushFront(&s.LabelChain, h)
	return h
}

// RemoveLabel unlinks and frees an engine label.
func (s *Scene) RemoveLabel(h Handle) error {
	if err := s.Labels.Unlink(&s.LabelChain, h); err != nil {
		return err
	}
	return s.Labels.Free(h)
}

// Label returns the label behind h, or nil.
func (s *Scene) Label(h Handle) *Label { return s.Labels.Get(h) }

// AddLine allocates a line and links it at the head of the engine chain.
func (s *Scene) AddLine(l Line) Handle {
	h := s.Lines.Alloc(l)
	_ = s.Lines.PushFront(&s.LineChain, h)
	return h
}

// RemoveLine unlinks and frees an engine line.
func (s *Scene) RemoveLine(h Handle) error {
	if err := s.Lines.Unlink(&s.LineChain, h); err != nil {
		return err
	}
	return s.Lines.Free(h)
}

// Line returns the line behind h, or nil.
func (s *Scene) Line(h Handle) *Line { return s.Lines.Get(h) }

// AddSegments adds one line per segment and returns their handles.
func (s *Scene) AddSegments(segs []geometry.Segment, color core.Color, layer int) []Handle {
	out := make([]Handle, len(segs))
	for i, sg := range segs {
		out[i] = s.AddLine(Line{Start: sg.Start, End: sg.End, Color: color, Layer: layer})
	}
	return out
}

// RemoveLines frees every handle in hs and returns the emptied slice.
func (s *Scene) RemoveLines(hs []Handle) []Handle {
	for _, h := range hs {
		_ = s.RemoveLine(h)
	}
	return hs[:0]
}

// Circle is a lazily allocated ring of line segments. Either all segments
// exist or none do.
type Circle struct {
	segs []Handle
}

// Update draws the circle at pos, allocating the segments on first use.
func (c *Circle) Update(s *Scene, pos core.Position3D, radius float64, color core.Color, layer int) {
	geo := geometry.Circle(pos, radius)
	if len(c.segs) == 0 {
		c.segs = s.AddSegments(geo, color, layer)
		return
	}
	for i, h := range c.segs {
		if l := s.Line(h); l != nil {
			l.Start, l.End, l.Color = geo[i].Start, geo[i].End, color
		}
	}
}

// Clear frees every segment.
func (c *Circle) Clear(s *Scene) {
	c.segs = s.RemoveLines(c.segs)
}

// Len is the number of allocated segments.
func (c *Circle) Len() int { return len(c.segs) }

// Segments returns the segment handles.
func (c *Circle) Segments() []Handle { return c.segs }

// Forget drops the handles without freeing them. Used after the owning
// scene has been reset wholesale.
func (c *Circle) Forget() { c.segs = nil }
