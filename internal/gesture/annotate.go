package gesture

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ayusman/gesturepaint/internal/detector"
	"gocv.io/x/gocv"
)

var (
	skeletonColor = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	jointColor    = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	openLidColor  = color.RGBA{R: 0, G: 200, B: 0, A: 0}
	shutLidColor  = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	progressColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// Annotate draws the last seen hand skeleton onto frame.
func (c *HandClassifier) Annotate(frame *gocv.Mat) {
	if len(c.pixels) < detector.NumLandmarks {
		return
	}
	for _, conn := range detector.HandConnections {
		gocv.Line(frame, c.pixels[conn[0]], c.pixels[conn[1]], skeletonColor, 2)
	}
	for _, p := range c.pixels {
		gocv.Circle(frame, p, 4, jointColor, -1)
	}
}

// Annotate draws the calibration progress while the face classifier is not yet
// calibrated.
func (c *FaceClassifier) Annotate(frame *gocv.Mat) {
	if c.cal.Phase() == PhaseCalibrated {
		return
	}
	done, total := c.Progress()
	gocv.PutText(frame, fmt.Sprintf("Calibrating... %d/%d", done, total),
		image.Pt(50, 50), gocv.FontHersheySimplex, 1, progressColor, 3)
}

// Annotate marks the eyelid landmarks, red when the eye is closed.
func (c *EyeClassifier) Annotate(frame *gocv.Mat) {
	if !c.hasLids {
		return
	}
	left, right := openLidColor, openLidColor
	if c.leftClosed {
		left = shutLidColor
	}
	if c.rightClosed {
		right = shutLidColor
	}
	gocv.Circle(frame, c.lids[0], 3, left, -1)
	gocv.Circle(frame, c.lids[1], 3, left, -1)
	gocv.Circle(frame, c.lids[2], 3, right, -1)
	gocv.Circle(frame, c.lids[3], 3, right, -1)
}
