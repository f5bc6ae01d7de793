// Package canvas provides the fixed-size raster drawing surface.
package canvas

import (
	"bytes"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Default canvas settings, matching the designed capture resolution.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// White is the default background.
var White = color.RGBA{R: 255, G: 255, B: 255, A: 0}

// Canvas is a BGR raster that strokes are drawn onto. It is not safe for
// concurrent use; the main loop owns it.
type Canvas struct {
	mat        gocv.Mat
	size       image.Point
	background color.RGBA
}

// New creates a canvas filled with the background color.
func New(width, height int, background color.RGBA) *Canvas {
	return &Canvas{
		mat:        gocv.NewMatWithSizeFromScalar(scalar(background), height, width, gocv.MatTypeCV8UC3),
		size:       image.Pt(width, height),
		background: background,
	}
}

func scalar(c color.RGBA) gocv.Scalar {
	return gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0)
}

// DrawLine draws a segment from p1 to p2.
func (c *Canvas) DrawLine(p1, p2 image.Point, col color.RGBA, thickness int) {
	gocv.Line(&c.mat, p1, p2, col, thickness)
}

// Reset fills the whole canvas with the background color.
func (c *Canvas) Reset() {
	c.mat.SetTo(scalar(c.background))
}

// Image returns the live raster. Callers must not modify or close it.
func (c *Canvas) Image() *gocv.Mat {
	return &c.mat
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() image.Point {
	return c.size
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rectangle{Max: c.size}
}

// Background returns the background color.
func (c *Canvas) Background() color.RGBA {
	return c.background
}

// Blank returns a new canvas of the same size and background.
func (c *Canvas) Blank() *Canvas {
	return New(c.size.X, c.size.Y, c.background)
}

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	return &Canvas{mat: c.mat.Clone(), size: c.size, background: c.background}
}

// Equal reports whether both canvases hold identical pixels.
func (c *Canvas) Equal(other *Canvas) bool {
	if c.size != other.size {
		return false
	}
	return bytes.Equal(c.mat.ToBytes(), other.mat.ToBytes())
}

// Close releases the raster.
func (c *Canvas) Close() error {
	return c.mat.Close()
}

// Checkpoint is a full copy of the canvas taken before a stroke starts.
type Checkpoint struct {
	mat gocv.Mat
}

// Checkpoint copies the current pixels.
func (c *Canvas) Checkpoint() *Checkpoint {
	return &Checkpoint{mat: c.mat.Clone()}
}

// Crop keeps only the pixels inside rect, clipped to the canvas, as a Patch.
func (cp *Checkpoint) Crop(rect image.Rectangle) *Patch {
	rect = rect.Intersect(image.Rect(0, 0, cp.mat.Cols(), cp.mat.Rows()))
	if rect.Empty() {
		return &Patch{}
	}
	region := cp.mat.Region(rect)
	defer region.Close()
	return &Patch{Rect: rect, pixels: region.Clone()}
}

// Close releases the checkpoint.
func (cp *Checkpoint) Close() error {
	return cp.mat.Close()
}

// Patch holds the pixels of a canvas region as they were before a stroke.
type Patch struct {
	Rect   image.Rectangle
	pixels gocv.Mat
}

// Restore copies a patch back into its region.
func (c *Canvas) Restore(p *Patch) {
	if p == nil || p.Rect.Empty() {
		return
	}
	region := c.mat.Region(p.Rect)
	defer region.Close()
	p.pixels.CopyTo(&region)
}

// Close releases the patch pixels.
func (p *Patch) Close() error {
	if p == nil || p.Rect.Empty() {
		return nil
	}
	return p.pixels.Close()
}
