package detector

import (
	"errors"
	"image"
	"math"
	"testing"
)

const epsilon = 1e-9

var hd = image.Point{X: 1280, Y: 720}

func TestPoint2D_ToPixel(t *testing.T) {
	tests := []struct {
		name string
		p    Point2D
		want image.Point
	}{
		{name: "origin", p: Point2D{X: 0, Y: 0}, want: image.Point{X: 0, Y: 0}},
		{name: "centre", p: Point2D{X: 0.5, Y: 0.5}, want: image.Point{X: 640, Y: 360}},
		{name: "truncates", p: Point2D{X: 0.33, Y: 0.33}, want: image.Point{X: 422, Y: 237}},
		{name: "far corner", p: Point2D{X: 1, Y: 1}, want: image.Point{X: 1280, Y: 720}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.ToPixel(hd); got != tt.want {
				t.Errorf("ToPixel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFaceLandmarks_Pixel(t *testing.T) {
	t.Run("in range", func(t *testing.T) {
		face := FaceFixture(NeutralExpression())
		p, err := face.Pixel(Forehead, hd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p != (image.Point{X: 640, Y: 180}) {
			t.Errorf("forehead = %v", p)
		}
	})

	t.Run("dropped index", func(t *testing.T) {
		face := FaceLandmarks{Points: make([]Point2D, 100)}
		_, err := face.Pixel(Chin, hd)
		if !errors.Is(err, ErrLandmarkMissing) {
			t.Errorf("expected ErrLandmarkMissing, got %v", err)
		}
	})

	t.Run("nil face", func(t *testing.T) {
		var face *FaceLandmarks
		_, err := face.PixelDistance(Forehead, Chin, hd)
		if !errors.Is(err, ErrLandmarkMissing) {
			t.Errorf("expected ErrLandmarkMissing, got %v", err)
		}
	})

	t.Run("distance", func(t *testing.T) {
		face := FaceFixture(NeutralExpression())
		d, err := face.PixelDistance(Forehead, Chin, hd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(d-360) > epsilon {
			t.Errorf("face height = %f, want 360", d)
		}
	})
}

func TestHandLandmarks_Pixel(t *testing.T) {
	hand := PinchLandmarks(0.5, 0.5)

	if _, err := hand.Pixel(NumLandmarks, hd); !errors.Is(err, ErrLandmarkMissing) {
		t.Errorf("expected ErrLandmarkMissing for out of range index, got %v", err)
	}

	tip, err := hand.Pixel(IndexTip, hd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tip != (image.Point{X: 640, Y: 360}) {
		t.Errorf("index tip = %v", tip)
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		obs, err := parseResponse([]byte(`{"hands":[],"faces":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !obs.Empty() {
			t.Errorf("expected empty observation, got %+v", obs)
		}
	})

	t.Run("hand and face", func(t *testing.T) {
		line := `{"hands":[{"points":[` + repeatPoint(NumLandmarks) + `],"handedness":"Left","score":0.8}],` +
			`"faces":[{"points":[` + repeatPoint(468) + `]}]}`
		obs, err := parseResponse([]byte(line))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if obs.Hand == nil || obs.Hand.Handedness != "Left" {
			t.Errorf("expected left hand, got %+v", obs.Hand)
		}
		if obs.Face == nil || len(obs.Face.Points) != 468 {
			t.Errorf("expected 468 face points, got %+v", obs.Face)
		}
	})

	t.Run("short hand dropped", func(t *testing.T) {
		obs, err := parseResponse([]byte(`{"hands":[{"points":[` + repeatPoint(5) + `]}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if obs.Hand != nil {
			t.Error("expected malformed hand to be dropped")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := parseResponse([]byte(`{`)); err == nil {
			t.Error("expected parse error")
		}
	})
}

func repeatPoint(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		s += `{"x":0.5,"y":0.5,"z":0}`
	}
	return s
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty observation by default", func(t *testing.T) {
		mock := NewMockDetector()

		obs, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !obs.Empty() {
			t.Errorf("expected empty observation, got %+v", obs)
		}
	})

	t.Run("plays script and repeats last", func(t *testing.T) {
		mock := NewMockDetector()
		hand := PinchLandmarks(0.2, 0.2)
		mock.SetScript([]Observation{{}, {Hand: &hand}})

		first, _ := mock.Detect(nil)
		second, _ := mock.Detect(nil)
		third, _ := mock.Detect(nil)

		if !first.Empty() {
			t.Error("first observation should be empty")
		}
		if second.Hand == nil || third.Hand == nil {
			t.Error("script should repeat its last observation")
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		obs, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if !obs.Empty() {
			t.Errorf("expected empty observation when error is set, got %+v", obs)
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		if err := NewMockDetector().Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestPinchLandmarks(t *testing.T) {
	pinch := PinchLandmarks(0.5, 0.5)
	open := OpenHandLandmarks(0.5, 0.5)

	pinchGap := gap(t, &pinch)
	openGap := gap(t, &open)

	if pinchGap >= 55 {
		t.Errorf("pinch fixture thumb-index gap = %f px, want < 55", pinchGap)
	}
	if openGap <= 55 {
		t.Errorf("open fixture thumb-index gap = %f px, want > 55", openGap)
	}
}

func gap(t *testing.T, h *HandLandmarks) float64 {
	t.Helper()
	thumb, err := h.Pixel(ThumbTip, hd)
	if err != nil {
		t.Fatal(err)
	}
	index, err := h.Pixel(IndexTip, hd)
	if err != nil {
		t.Fatal(err)
	}
	return Distance(thumb, index)
}
