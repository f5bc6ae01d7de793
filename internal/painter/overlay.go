package painter

import (
	"image"
	"image/color"

	"github.com/ayusman/gesturepaint/internal/stroke"
	"gocv.io/x/gocv"
)

var (
	eraserTextColor = color.RGBA{R: 255}
	savedTextColor  = color.RGBA{G: 255, B: 255}
)

// Annotate draws the pen cursor and status messages for ev onto the camera
// frame. The canvas is never touched.
func (s *Session) Annotate(frame *gocv.Mat, pos image.Point, ev Events) {
	switch ev.Pen {
	case stroke.KindBrush:
		gocv.Circle(frame, pos, 10, s.Color(), -1)
	case stroke.KindEraser:
		gocv.Circle(frame, pos, s.config.EraserSize, s.canvas.Background(), -1)
		putStatus(frame, "Eraser Mode", 100, eraserTextColor)
	}
	if ev.ColorChanged {
		putStatus(frame, "Color Changed", 150, ev.Color)
	}
	if ev.Saved != "" {
		putStatus(frame, "Canvas Saved", 200, savedTextColor)
	}
}

func putStatus(frame *gocv.Mat, text string, y int, col color.RGBA) {
	gocv.PutText(frame, text, image.Pt(50, y), gocv.FontHersheySimplex, 1, col, 3)
}
