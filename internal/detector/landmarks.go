// Package detector provides the landmark oracle interface and the hand and face
// landmark types it produces.
package detector

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Face mesh landmark indices used by the face and eye classifiers.
const (
	Forehead         = 10
	Chin             = 152
	UpperLip         = 13
	LowerLip         = 14
	LeftEyebrowTop   = 65
	RightEyebrowTop  = 295
	LeftEyeTop       = 159
	LeftEyeBottom    = 145
	RightEyeTop      = 386
	RightEyeBottom   = 374
	NumFaceLandmarks = 478
)

// HandConnections lists the landmark pairs drawn as the hand skeleton.
var HandConnections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

// ErrLandmarkMissing is returned when a landmark index is not present in a set.
var ErrLandmarkMissing = errors.New("landmark missing")

// Point2D is a normalized image coordinate in [0,1]x[0,1].
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToPixel converts a normalized point to pixel coordinates for a frame of the
// given size. Coordinates are truncated toward zero.
func (p Point2D) ToPixel(size image.Point) image.Point {
	return image.Point{X: int(p.X * float64(size.X)), Y: int(p.Y * float64(size.Y))}
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point2D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Pixel returns landmark i in pixel coordinates.
func (h *HandLandmarks) Pixel(i int, size image.Point) (image.Point, error) {
	if h == nil || i < 0 || i >= NumLandmarks {
		return image.Point{}, fmt.Errorf("hand landmark %d: %w", i, ErrLandmarkMissing)
	}
	return h.Points[i].ToPixel(size), nil
}

// FaceLandmarks is a face mesh. The number of points depends on the model
// (468 without iris refinement, 478 with it), so lookups are bounds-checked.
type FaceLandmarks struct {
	Points []Point2D `json:"points"`
}

// Pixel returns landmark i in pixel coordinates.
func (f *FaceLandmarks) Pixel(i int, size image.Point) (image.Point, error) {
	if f == nil || i < 0 || i >= len(f.Points) {
		return image.Point{}, fmt.Errorf("face landmark %d: %w", i, ErrLandmarkMissing)
	}
	return f.Points[i].ToPixel(size), nil
}

// PixelDistance returns the pixel distance between landmarks a and b.
func (f *FaceLandmarks) PixelDistance(a, b int, size image.Point) (float64, error) {
	pa, err := f.Pixel(a, size)
	if err != nil {
		return 0, err
	}
	pb, err := f.Pixel(b, size)
	if err != nil {
		return 0, err
	}
	return Distance(pa, pb), nil
}

// Distance calculates the Euclidean distance between two pixel points.
func Distance(a, b image.Point) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}

// Observation is the oracle output for one frame. Hand and Face are nil when
// nothing was detected, which is the common case rather than a fault.
type Observation struct {
	Hand *HandLandmarks
	Face *FaceLandmarks
}

// Empty reports whether nothing was detected.
func (o Observation) Empty() bool {
	return o.Hand == nil && o.Face == nil
}
