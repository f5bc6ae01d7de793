// Package stroke provides the stroke model, the in-progress stroke builder and
// the undo/redo log.
package stroke

import (
	"image"
	"image/color"
	"time"

	"github.com/ayusman/gesturepaint/internal/canvas"
	"github.com/google/uuid"
)

// Kind distinguishes pen strokes from eraser strokes.
type Kind string

const (
	KindBrush  Kind = "brush"
	KindEraser Kind = "eraser"
)

// Stroke is one continuous drawn path. It is immutable once sealed.
type Stroke struct {
	ID        string
	Kind      Kind
	Points    []image.Point
	Color     color.RGBA
	Thickness int
	CreatedAt time.Time
}

// DrawOn draws the stroke's segments in order.
func (s *Stroke) DrawOn(c *canvas.Canvas) {
	for i := 1; i < len(s.Points); i++ {
		c.DrawLine(s.Points[i-1], s.Points[i], s.Color, s.Thickness)
	}
}

// Bounds returns the rectangle the stroke can touch, including line width.
func (s *Stroke) Bounds() image.Rectangle {
	if len(s.Points) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: s.Points[0], Max: s.Points[0].Add(image.Pt(1, 1))}
	for _, p := range s.Points[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return r.Inset(-(s.Thickness/2 + 2))
}

// Segments returns the number of line segments in the stroke.
func (s *Stroke) Segments() int {
	if len(s.Points) < 2 {
		return 0
	}
	return len(s.Points) - 1
}

// Replay resets c and draws strokes onto it in order.
func Replay(c *canvas.Canvas, strokes []Stroke) {
	c.Reset()
	for i := range strokes {
		strokes[i].DrawOn(c)
	}
}

// Builder accumulates a stroke while the pen is down, drawing each new
// segment onto the canvas as it arrives.
type Builder struct {
	stroke     Stroke
	checkpoint *canvas.Checkpoint
}

// Begin starts a stroke at p. Nothing is drawn until the second point.
func Begin(c *canvas.Canvas, kind Kind, col color.RGBA, thickness int, p image.Point) *Builder {
	return &Builder{
		stroke: Stroke{
			Kind:      kind,
			Points:    []image.Point{p},
			Color:     col,
			Thickness: thickness,
		},
		checkpoint: c.Checkpoint(),
	}
}

// Extend draws a segment from the last point to p.
func (b *Builder) Extend(c *canvas.Canvas, p image.Point) {
	last := b.stroke.Points[len(b.stroke.Points)-1]
	c.DrawLine(last, p, b.stroke.Color, b.stroke.Thickness)
	b.stroke.Points = append(b.stroke.Points, p)
}

// Kind returns the kind of stroke being built.
func (b *Builder) Kind() Kind {
	return b.stroke.Kind
}

// Len returns the number of points collected.
func (b *Builder) Len() int {
	return len(b.stroke.Points)
}

// Seal finishes the stroke. It returns false, and keeps nothing, when the
// stroke never drew a segment.
func (b *Builder) Seal(now time.Time) (Stroke, *canvas.Patch, bool) {
	defer b.checkpoint.Close()

	if b.stroke.Segments() == 0 {
		return Stroke{}, nil, false
	}

	s := b.stroke
	s.ID = uuid.NewString()
	s.CreatedAt = now
	return s, b.checkpoint.Crop(s.Bounds()), true
}

// Discard drops the stroke without touching the canvas.
func (b *Builder) Discard() {
	b.checkpoint.Close()
}
