package gesture

import (
	"testing"

	"github.com/ayusman/gesturepaint/internal/detector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neutralFace() *detector.FaceLandmarks {
	f := detector.FaceFixture(detector.NeutralExpression())
	return &f
}

func raisedFace(lift float64) *detector.FaceLandmarks {
	e := detector.NeutralExpression()
	e.EyebrowLift = lift
	f := detector.FaceFixture(e)
	return &f
}

func openMouthFace() *detector.FaceLandmarks {
	e := detector.NeutralExpression()
	e.MouthGap = 0.05
	f := detector.FaceFixture(e)
	return &f
}

func calibrated(t *testing.T) *FaceClassifier {
	t.Helper()
	c := NewFaceClassifier(DefaultFaceConfig())
	for i := 0; i < DefaultCalibrationFrames; i++ {
		c.Update(neutralFace(), hd)
	}
	require.Equal(t, PhaseCalibrated, c.Calibration().Phase())
	return c
}

func TestFaceClassifier_CalibrationStates(t *testing.T) {
	c := NewFaceClassifier(DefaultFaceConfig())
	assert.Equal(t, PhaseUncalibrated, c.Calibration().Phase())

	c.Update(neutralFace(), hd)
	assert.Equal(t, PhaseCalibrating, c.Calibration().Phase())
	done, total := c.Progress()
	assert.Equal(t, 1, done)
	assert.Equal(t, DefaultCalibrationFrames, total)

	for i := 1; i < DefaultCalibrationFrames; i++ {
		c.Update(neutralFace(), hd)
	}

	cal, ok := c.Calibration().(Calibrated)
	require.True(t, ok)
	// eyebrow at y=270, eye top at y=315
	assert.InDelta(t, 45, cal.Baseline, 1e-9)
}

func TestFaceClassifier_NoGesturesWhileCalibrating(t *testing.T) {
	c := NewFaceClassifier(DefaultFaceConfig())

	for i := 0; i < DefaultCalibrationFrames-1; i++ {
		s := c.Update(raisedFace(0.2), hd)
		assert.False(t, s.EyebrowRaised, "frame %d", i)
		assert.False(t, s.MouthOpen, "frame %d", i)
	}
	assert.Equal(t, PhaseCalibrating, c.Calibration().Phase())
}

func TestFaceClassifier_Gestures(t *testing.T) {
	tests := []struct {
		name    string
		face    *detector.FaceLandmarks
		eyebrow bool
		mouth   bool
	}{
		{name: "neutral", face: neutralFace()},
		{name: "small lift below threshold", face: raisedFace(0.005)},
		{name: "eyebrows raised", face: raisedFace(0.02), eyebrow: true},
		{name: "mouth open", face: openMouthFace(), mouth: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := calibrated(t)
			s := c.Update(tt.face, hd)
			assert.Equal(t, tt.eyebrow, s.EyebrowRaised)
			assert.Equal(t, tt.mouth, s.MouthOpen)
		})
	}
}

func TestFaceClassifier_MissingFacePausesCalibration(t *testing.T) {
	c := NewFaceClassifier(DefaultFaceConfig())
	c.Update(neutralFace(), hd)

	for i := 0; i < 100; i++ {
		s := c.Update(nil, hd)
		assert.Equal(t, FaceState{}, s)
	}

	done, _ := c.Progress()
	assert.Equal(t, 1, done)
}

func TestFaceClassifier_GeometryFault(t *testing.T) {
	c := calibrated(t)
	truncated := &detector.FaceLandmarks{Points: openMouthFace().Points[:100]}

	s := c.Update(truncated, hd)
	assert.Equal(t, FaceState{}, s)

	fresh := NewFaceClassifier(DefaultFaceConfig())
	fresh.Update(truncated, hd)
	assert.Equal(t, PhaseUncalibrated, fresh.Calibration().Phase(), "failed frames do not calibrate")
}

func TestFaceClassifier_GesturesResetEachFrame(t *testing.T) {
	c := calibrated(t)

	assert.True(t, c.Update(openMouthFace(), hd).MouthOpen)
	assert.False(t, c.Update(nil, hd).MouthOpen)
	assert.False(t, c.State().MouthOpen)
}
