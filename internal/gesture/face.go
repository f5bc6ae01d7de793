package gesture

import (
	"image"

	"github.com/ayusman/gesturepaint/internal/detector"
)

// Default face classifier settings.
const (
	DefaultCalibrationFrames = 60 // about 2s at 30fps
	DefaultEyebrowRaiseRatio = 0.02
	DefaultMouthOpenRatio    = 0.035
)

// FaceConfig holds face classifier settings. Ratios are fractions of the
// forehead-to-chin distance.
type FaceConfig struct {
	CalibrationFrames int
	EyebrowRaiseRatio float64
	MouthOpenRatio    float64
}

// DefaultFaceConfig returns the default face settings.
func DefaultFaceConfig() FaceConfig {
	return FaceConfig{
		CalibrationFrames: DefaultCalibrationFrames,
		EyebrowRaiseRatio: DefaultEyebrowRaiseRatio,
		MouthOpenRatio:    DefaultMouthOpenRatio,
	}
}

// Phase names a calibration state.
type Phase string

const (
	PhaseUncalibrated Phase = "uncalibrated"
	PhaseCalibrating  Phase = "calibrating"
	PhaseCalibrated   Phase = "calibrated"
)

// Calibration is the face classifier's calibration state. It is one of
// Uncalibrated, Calibrating or Calibrated and only ever moves forward.
type Calibration interface {
	Phase() Phase
}

// Uncalibrated is the state before any face has been seen.
type Uncalibrated struct{}

// Calibrating accumulates neutral eyebrow-to-eye distances.
type Calibrating struct {
	Count int
	Sum   float64
}

// Calibrated holds the neutral eyebrow-to-eye distance in pixels.
type Calibrated struct {
	Baseline float64
}

func (Uncalibrated) Phase() Phase { return PhaseUncalibrated }
func (Calibrating) Phase() Phase  { return PhaseCalibrating }
func (Calibrated) Phase() Phase   { return PhaseCalibrated }

// FaceState is the face classifier output for one frame.
type FaceState struct {
	MouthOpen     bool
	EyebrowRaised bool
}

// FaceClassifier detects an open mouth and raised eyebrows relative to a
// per-session neutral baseline.
type FaceClassifier struct {
	config FaceConfig
	cal    Calibration
	state  FaceState
}

// NewFaceClassifier creates an uncalibrated face classifier.
func NewFaceClassifier(config FaceConfig) *FaceClassifier {
	if config.CalibrationFrames < 1 {
		config.CalibrationFrames = 1
	}
	return &FaceClassifier{config: config, cal: Uncalibrated{}}
}

type faceMeasure struct {
	mouth      float64
	eyebrow    float64 // mean of left and right eyebrow-to-eye distances
	faceHeight float64
}

func measureFace(face *detector.FaceLandmarks, size image.Point) (faceMeasure, error) {
	var m faceMeasure
	var err error

	if m.mouth, err = face.PixelDistance(detector.UpperLip, detector.LowerLip, size); err != nil {
		return m, err
	}
	left, err := face.PixelDistance(detector.LeftEyebrowTop, detector.LeftEyeTop, size)
	if err != nil {
		return m, err
	}
	right, err := face.PixelDistance(detector.RightEyebrowTop, detector.RightEyeTop, size)
	if err != nil {
		return m, err
	}
	m.eyebrow = (left + right) / 2
	if m.faceHeight, err = face.PixelDistance(detector.Forehead, detector.Chin, size); err != nil {
		return m, err
	}
	return m, nil
}

// Update classifies one frame. Frames without a usable face emit nothing and
// do not advance calibration.
func (c *FaceClassifier) Update(face *detector.FaceLandmarks, size image.Point) FaceState {
	c.state = FaceState{}
	if face == nil {
		return c.state
	}

	m, err := measureFace(face, size)
	if err != nil {
		return c.state
	}

	switch s := c.cal.(type) {
	case Uncalibrated:
		c.cal = c.advance(Calibrating{}, m.eyebrow)
	case Calibrating:
		c.cal = c.advance(s, m.eyebrow)
	case Calibrated:
		c.state = FaceState{
			EyebrowRaised: m.eyebrow > s.Baseline+m.faceHeight*c.config.EyebrowRaiseRatio,
			MouthOpen:     m.mouth > m.faceHeight*c.config.MouthOpenRatio,
		}
	}

	return c.state
}

func (c *FaceClassifier) advance(s Calibrating, sample float64) Calibration {
	s.Count++
	s.Sum += sample
	if s.Count >= c.config.CalibrationFrames {
		return Calibrated{Baseline: s.Sum / float64(s.Count)}
	}
	return s
}

// Calibration returns the current calibration state.
func (c *FaceClassifier) Calibration() Calibration {
	return c.cal
}

// Progress returns the number of calibration frames collected and needed.
func (c *FaceClassifier) Progress() (int, int) {
	switch s := c.cal.(type) {
	case Calibrating:
		return s.Count, c.config.CalibrationFrames
	case Calibrated:
		return c.config.CalibrationFrames, c.config.CalibrationFrames
	default:
		return 0, c.config.CalibrationFrames
	}
}

// State returns the result of the last Update.
func (c *FaceClassifier) State() FaceState {
	return c.state
}
