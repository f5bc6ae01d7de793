package gesture

import (
	"testing"
	"time"

	"github.com/ayusman/gesturepaint/internal/detector"
	"github.com/stretchr/testify/assert"
)

func eyes(left, right bool) *detector.FaceLandmarks {
	e := detector.NeutralExpression()
	if left {
		e.LeftEyeOpen = 0
	}
	if right {
		e.RightEyeOpen = 0
	}
	f := detector.FaceFixture(e)
	return &f
}

type frame struct {
	face *detector.FaceLandmarks
	at   time.Duration
}

func run(c *EyeClassifier, frames []frame) []EyeState {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	out := make([]EyeState, 0, len(frames))
	for _, f := range frames {
		out = append(out, c.Update(f.face, hd, start.Add(f.at)))
	}
	return out
}

func countDoubleBlinks(states []EyeState) int {
	n := 0
	for _, s := range states {
		if s.DoubleBlink {
			n++
		}
	}
	return n
}

func TestEyeClassifier_DoubleBlink(t *testing.T) {
	open := eyes(false, false)
	shut := eyes(true, true)

	tests := []struct {
		name   string
		frames []frame
		want   int
	}{
		{
			name:   "eyes open",
			frames: []frame{{open, 0}, {open, 33 * time.Millisecond}, {open, 66 * time.Millisecond}},
			want:   0,
		},
		{
			name:   "single blink",
			frames: []frame{{open, 0}, {shut, 33 * time.Millisecond}, {open, 66 * time.Millisecond}},
			want:   0,
		},
		{
			name: "single long closure",
			frames: []frame{
				{shut, 0}, {shut, 33 * time.Millisecond}, {shut, 66 * time.Millisecond}, {shut, 100 * time.Millisecond},
			},
			want: 0,
		},
		{
			name: "two blinks within interval",
			frames: []frame{
				{shut, 0}, {open, 100 * time.Millisecond}, {shut, 300 * time.Millisecond},
			},
			want: 1,
		},
		{
			name: "two blinks 0.6s apart",
			frames: []frame{
				{shut, 0}, {open, 100 * time.Millisecond}, {shut, 600 * time.Millisecond},
			},
			want: 0,
		},
		{
			name: "third rapid blink starts a new window",
			frames: []frame{
				{shut, 0}, {open, 100 * time.Millisecond},
				{shut, 200 * time.Millisecond}, {open, 300 * time.Millisecond},
				{shut, 400 * time.Millisecond}, {open, 500 * time.Millisecond},
			},
			want: 1,
		},
		{
			name: "late pair after a miss",
			frames: []frame{
				{shut, 0}, {open, 100 * time.Millisecond},
				{shut, 700 * time.Millisecond}, {open, 800 * time.Millisecond},
				{shut, 900 * time.Millisecond},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewEyeClassifier(DefaultEyeConfig())
			assert.Equal(t, tt.want, countDoubleBlinks(run(c, tt.frames)))
		})
	}
}

func TestEyeClassifier_DoubleBlinkFiresOnce(t *testing.T) {
	c := NewEyeClassifier(DefaultEyeConfig())
	shut := eyes(true, true)
	open := eyes(false, false)

	states := run(c, []frame{
		{shut, 0}, {open, 100 * time.Millisecond},
		{shut, 200 * time.Millisecond}, {shut, 233 * time.Millisecond}, {shut, 266 * time.Millisecond},
	})

	assert.True(t, states[2].DoubleBlink)
	assert.False(t, states[3].DoubleBlink)
	assert.False(t, states[4].DoubleBlink)
}

func TestEyeClassifier_Winks(t *testing.T) {
	c := NewEyeClassifier(DefaultEyeConfig())

	states := run(c, []frame{
		{eyes(true, false), 0},
		{eyes(true, false), 33 * time.Millisecond},
		{eyes(false, true), 66 * time.Millisecond},
		{eyes(false, false), 100 * time.Millisecond},
	})

	assert.Equal(t, EyeState{LeftWink: true}, states[0])
	assert.Equal(t, EyeState{LeftWink: true}, states[1], "winks fire on every frame they persist")
	assert.Equal(t, EyeState{RightWink: true}, states[2])
	assert.Equal(t, EyeState{}, states[3])
}

func TestEyeClassifier_NoFaceOrBrokenFace(t *testing.T) {
	c := NewEyeClassifier(DefaultEyeConfig())
	truncated := &detector.FaceLandmarks{Points: eyes(true, false).Points[:200]}

	states := run(c, []frame{
		{eyes(true, false), 0},
		{nil, 33 * time.Millisecond},
		{truncated, 66 * time.Millisecond},
	})

	assert.Equal(t, EyeState{}, states[1])
	assert.Equal(t, EyeState{}, states[2])
}

func TestEyeClassifier_BlinkAcrossLostFace(t *testing.T) {
	c := NewEyeClassifier(DefaultEyeConfig())
	shut := eyes(true, true)

	// The face drops out between two closures; reappearing closed is a new blink.
	states := run(c, []frame{
		{shut, 0}, {nil, 100 * time.Millisecond}, {shut, 200 * time.Millisecond},
	})

	assert.True(t, states[2].DoubleBlink)
}
