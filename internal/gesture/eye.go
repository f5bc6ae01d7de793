package gesture

import (
	"image"
	"time"

	"github.com/ayusman/gesturepaint/internal/detector"
)

// Default eye classifier settings.
const (
	DefaultEyeClosedRatio = 0.018
	DefaultBlinkInterval  = 500 * time.Millisecond
)

// EyeConfig holds eye classifier settings.
type EyeConfig struct {
	// ClosedRatio is the eyelid gap, as a fraction of face height, below
	// which an eye counts as closed.
	ClosedRatio float64
	// BlinkInterval is the maximum gap between two blinks of a double blink.
	BlinkInterval time.Duration
}

// DefaultEyeConfig returns the default eye settings.
func DefaultEyeConfig() EyeConfig {
	return EyeConfig{
		ClosedRatio:   DefaultEyeClosedRatio,
		BlinkInterval: DefaultBlinkInterval,
	}
}

// EyeState is the eye classifier output for one frame. All fields are reset on
// every Update.
type EyeState struct {
	DoubleBlink bool
	LeftWink    bool
	RightWink   bool
}

// EyeClassifier detects double blinks and winks.
//
// A blink is counted on the frame both eyes become closed. Two blinks less than
// BlinkInterval apart fire DoubleBlink once and consume the pair. Winks are
// level signals: they fire on every frame exactly one eye is closed.
type EyeClassifier struct {
	config      EyeConfig
	state       EyeState
	bothClosed  bool
	lastBlink   time.Time
	leftClosed  bool
	rightClosed bool
	lids        [4]image.Point
	hasLids     bool
}

// NewEyeClassifier creates an eye classifier.
func NewEyeClassifier(config EyeConfig) *EyeClassifier {
	return &EyeClassifier{config: config}
}

type eyeMeasure struct {
	left       float64
	right      float64
	faceHeight float64
}

func measureEyes(face *detector.FaceLandmarks, size image.Point) (eyeMeasure, error) {
	var m eyeMeasure
	var err error

	if m.left, err = face.PixelDistance(detector.LeftEyeTop, detector.LeftEyeBottom, size); err != nil {
		return m, err
	}
	if m.right, err = face.PixelDistance(detector.RightEyeTop, detector.RightEyeBottom, size); err != nil {
		return m, err
	}
	if m.faceHeight, err = face.PixelDistance(detector.Forehead, detector.Chin, size); err != nil {
		return m, err
	}
	return m, nil
}

// Update classifies one frame observed at now.
func (c *EyeClassifier) Update(face *detector.FaceLandmarks, size image.Point, now time.Time) EyeState {
	c.state = EyeState{}
	if face == nil {
		c.clear()
		return c.state
	}

	m, err := measureEyes(face, size)
	if err != nil {
		c.clear()
		return c.state
	}

	threshold := m.faceHeight * c.config.ClosedRatio
	c.leftClosed = m.left < threshold
	c.rightClosed = m.right < threshold
	c.captureLids(face, size)

	switch {
	case c.leftClosed && c.rightClosed:
		if !c.bothClosed {
			c.blink(now)
		}
		c.bothClosed = true
	case c.leftClosed:
		c.bothClosed = false
		c.state.LeftWink = true
	case c.rightClosed:
		c.bothClosed = false
		c.state.RightWink = true
	default:
		c.bothClosed = false
	}

	return c.state
}

func (c *EyeClassifier) blink(now time.Time) {
	if !c.lastBlink.IsZero() && now.Sub(c.lastBlink) < c.config.BlinkInterval {
		c.state.DoubleBlink = true
		c.lastBlink = time.Time{}
		return
	}
	c.lastBlink = now
}

func (c *EyeClassifier) captureLids(face *detector.FaceLandmarks, size image.Point) {
	ids := [4]int{detector.LeftEyeTop, detector.LeftEyeBottom, detector.RightEyeTop, detector.RightEyeBottom}
	for i, id := range ids {
		p, err := face.Pixel(id, size)
		if err != nil {
			c.hasLids = false
			return
		}
		c.lids[i] = p
	}
	c.hasLids = true
}

// clear drops per-face tracking so the next visible closure counts as a new
// blink. The blink timer is kept.
func (c *EyeClassifier) clear() {
	c.bothClosed = false
	c.leftClosed = false
	c.rightClosed = false
	c.hasLids = false
}

// State returns the result of the last Update.
func (c *EyeClassifier) State() EyeState {
	return c.state
}
