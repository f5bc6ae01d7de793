package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns a scripted sequence of observations, repeating the last one once
// the script is exhausted.
type MockDetector struct {
	script []Observation
	next   int
	err    error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetObservation makes every Detect call return obs.
func (m *MockDetector) SetObservation(obs Observation) {
	m.script = []Observation{obs}
	m.next = 0
}

// SetScript sets the observations returned by successive Detect calls.
func (m *MockDetector) SetScript(script []Observation) {
	m.script = script
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the next scripted observation or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) (Observation, error) {
	if m.err != nil {
		return Observation{}, m.err
	}
	if len(m.script) == 0 {
		return Observation{}, nil
	}
	obs := m.script[m.next]
	if m.next < len(m.script)-1 {
		m.next++
	}
	return obs, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenHandLandmarks returns a right hand with all fingers extended and the
// index tip at (x, y). The thumb tip sits well away from the index tip.
func OpenHandLandmarks(x, y float64) HandLandmarks {
	hand := HandLandmarks{Handedness: "Right", Score: 0.95}

	hand.Points[Wrist] = Point2D{X: x - 0.02, Y: y + 0.30}

	hand.Points[ThumbCMC] = Point2D{X: x + 0.03, Y: y + 0.25}
	hand.Points[ThumbMCP] = Point2D{X: x + 0.08, Y: y + 0.20}
	hand.Points[ThumbIP] = Point2D{X: x + 0.12, Y: y + 0.16}
	hand.Points[ThumbTip] = Point2D{X: x + 0.15, Y: y + 0.12}

	hand.Points[IndexMCP] = Point2D{X: x, Y: y + 0.18}
	hand.Points[IndexPIP] = Point2D{X: x, Y: y + 0.11}
	hand.Points[IndexDIP] = Point2D{X: x, Y: y + 0.05}
	hand.Points[IndexTip] = Point2D{X: x, Y: y}

	hand.Points[MiddleMCP] = Point2D{X: x - 0.04, Y: y + 0.17}
	hand.Points[MiddlePIP] = Point2D{X: x - 0.04, Y: y + 0.09}
	hand.Points[MiddleDIP] = Point2D{X: x - 0.04, Y: y + 0.03}
	hand.Points[MiddleTip] = Point2D{X: x - 0.04, Y: y - 0.02}

	hand.Points[RingMCP] = Point2D{X: x - 0.08, Y: y + 0.18}
	hand.Points[RingPIP] = Point2D{X: x - 0.08, Y: y + 0.11}
	hand.Points[RingDIP] = Point2D{X: x - 0.08, Y: y + 0.06}
	hand.Points[RingTip] = Point2D{X: x - 0.08, Y: y + 0.01}

	hand.Points[PinkyMCP] = Point2D{X: x - 0.12, Y: y + 0.20}
	hand.Points[PinkyPIP] = Point2D{X: x - 0.12, Y: y + 0.15}
	hand.Points[PinkyDIP] = Point2D{X: x - 0.12, Y: y + 0.11}
	hand.Points[PinkyTip] = Point2D{X: x - 0.12, Y: y + 0.07}

	return hand
}

// PinchLandmarks returns an open hand whose thumb tip touches the index tip at
// (x, y).
func PinchLandmarks(x, y float64) HandLandmarks {
	hand := OpenHandLandmarks(x, y)
	hand.Points[ThumbIP] = Point2D{X: x + 0.03, Y: y + 0.04}
	hand.Points[ThumbTip] = Point2D{X: x + 0.01, Y: y + 0.01}
	return hand
}

// FaceExpression tunes the synthetic face built by FaceFixture. All values are
// normalized image distances.
type FaceExpression struct {
	MouthGap     float64
	EyebrowLift  float64
	LeftEyeOpen  float64
	RightEyeOpen float64
}

// NeutralExpression is a relaxed face with both eyes open and mouth closed.
func NeutralExpression() FaceExpression {
	return FaceExpression{
		MouthGap:     0.005,
		LeftEyeOpen:  0.02,
		RightEyeOpen: 0.02,
	}
}

// FaceFixture returns a full face mesh centred horizontally with a face
// height (forehead to chin) of 0.5 in normalized units. Points the classifiers
// do not read are left at the centre of the face.
func FaceFixture(e FaceExpression) FaceLandmarks {
	face := FaceLandmarks{Points: make([]Point2D, NumFaceLandmarks)}
	for i := range face.Points {
		face.Points[i] = Point2D{X: 0.5, Y: 0.5}
	}

	face.Points[Forehead] = Point2D{X: 0.5, Y: 0.25}
	face.Points[Chin] = Point2D{X: 0.5, Y: 0.75}

	face.Points[UpperLip] = Point2D{X: 0.5, Y: 0.625}
	face.Points[LowerLip] = Point2D{X: 0.5, Y: 0.625 + e.MouthGap}

	face.Points[LeftEyeTop] = Point2D{X: 0.42, Y: 0.4375}
	face.Points[LeftEyeBottom] = Point2D{X: 0.42, Y: 0.4375 + e.LeftEyeOpen}
	face.Points[RightEyeTop] = Point2D{X: 0.58, Y: 0.4375}
	face.Points[RightEyeBottom] = Point2D{X: 0.58, Y: 0.4375 + e.RightEyeOpen}

	face.Points[LeftEyebrowTop] = Point2D{X: 0.42, Y: 0.375 - e.EyebrowLift}
	face.Points[RightEyebrowTop] = Point2D{X: 0.58, Y: 0.375 - e.EyebrowLift}

	return face
}
