// Package gesture turns per-frame landmark sets into discrete gesture signals.
//
// Classifiers are stateful only where the gesture needs history (smoothing,
// calibration, blink timing); every other output is recomputed from scratch on
// each Update.
package gesture

import (
	"image"

	"github.com/ayusman/gesturepaint/internal/detector"
)

// Default hand classifier settings, tuned for a 1280x720 capture.
const (
	DefaultSmoothing      = 0.2
	DefaultPinchThreshold = 55.0
)

// HandConfig holds hand classifier settings.
type HandConfig struct {
	// Smoothing is the exponential smoothing factor applied to the fingertip.
	Smoothing float64
	// PinchThreshold is the thumb-index distance in pixels below which the
	// hand is pinching. It depends on the capture resolution.
	PinchThreshold float64
}

// DefaultHandConfig returns the default hand settings.
func DefaultHandConfig() HandConfig {
	return HandConfig{
		Smoothing:      DefaultSmoothing,
		PinchThreshold: DefaultPinchThreshold,
	}
}

// HandState is the hand classifier output for one frame.
type HandState struct {
	Present  bool
	Position image.Point // smoothed index fingertip, valid when Present
	Pinching bool
}

// HandClassifier tracks the index fingertip and detects pinches.
type HandClassifier struct {
	config  HandConfig
	state   HandState
	prev    image.Point
	hasPrev bool
	pixels  []image.Point
}

// NewHandClassifier creates a hand classifier.
func NewHandClassifier(config HandConfig) *HandClassifier {
	return &HandClassifier{config: config}
}

// Update classifies one frame. A nil hand clears the smoothing anchor so a
// re-acquired hand does not produce a segment from stale coordinates.
func (c *HandClassifier) Update(hand *detector.HandLandmarks, size image.Point) HandState {
	if hand == nil {
		c.reset()
		return c.state
	}

	raw, err := hand.Pixel(detector.IndexTip, size)
	if err != nil {
		c.reset()
		return c.state
	}
	thumb, err := hand.Pixel(detector.ThumbTip, size)
	if err != nil {
		c.reset()
		return c.state
	}

	pos := raw
	// Smoothing lags the pen, so it is skipped while pinching.
	if !c.state.Pinching && c.hasPrev {
		a := c.config.Smoothing
		pos = image.Point{
			X: int(float64(c.prev.X)*(1-a) + float64(raw.X)*a),
			Y: int(float64(c.prev.Y)*(1-a) + float64(raw.Y)*a),
		}
	}
	c.prev = pos
	c.hasPrev = true

	c.state = HandState{
		Present:  true,
		Position: pos,
		Pinching: detector.Distance(raw, thumb) < c.config.PinchThreshold,
	}

	c.pixels = c.pixels[:0]
	for i := range hand.Points {
		c.pixels = append(c.pixels, hand.Points[i].ToPixel(size))
	}

	return c.state
}

// State returns the result of the last Update.
func (c *HandClassifier) State() HandState {
	return c.state
}

func (c *HandClassifier) reset() {
	c.state = HandState{}
	c.hasPrev = false
	c.pixels = c.pixels[:0]
}
