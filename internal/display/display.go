// Package display shows the camera view and the canvas.
package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// Window titles.
const (
	FeedWindow   = "Webcam Feed"
	CanvasWindow = "Drawing Canvas"
)

// KeyQuit ends the main loop.
const KeyQuit = 'q'

// NoKey is returned by PollKey when nothing was pressed.
const NoKey = -1

// Display renders one frame and reports key presses.
type Display interface {
	Show(frame, canvas *gocv.Mat)
	PollKey() int
	Close() error
}

// Windows shows the annotated camera frame and the canvas side by side in two
// highgui windows. highgui must be driven from the main OS thread.
type Windows struct {
	feed   *gocv.Window
	canvas *gocv.Window
}

// NewWindows opens both windows, each half the width of a 1280×720 screen area.
func NewWindows() *Windows {
	feed := gocv.NewWindow(FeedWindow)
	feed.ResizeWindow(640, 720)
	feed.MoveWindow(0, 0)

	canvas := gocv.NewWindow(CanvasWindow)
	canvas.ResizeWindow(640, 720)
	canvas.MoveWindow(650, 0)

	return &Windows{feed: feed, canvas: canvas}
}

// Show displays both images.
func (w *Windows) Show(frame, canvas *gocv.Mat) {
	if frame != nil && !frame.Empty() {
		w.feed.IMShow(*frame)
	}
	if canvas != nil && !canvas.Empty() {
		w.canvas.IMShow(*canvas)
	}
}

// PollKey waits 1ms for a key press, which also lets highgui repaint.
func (w *Windows) PollKey() int {
	k := w.feed.WaitKey(1)
	if k < 0 {
		return NoKey
	}
	return k & 0xFF
}

// Close destroys both windows.
func (w *Windows) Close() error {
	err := w.feed.Close()
	if cerr := w.canvas.Close(); err == nil {
		err = cerr
	}
	return err
}

// Headless discards frames. It can be told to press quit after a number of
// frames, which is how tests and unattended runs stop the loop.
type Headless struct {
	mu        sync.Mutex
	shown     int
	quitAfter int
	keys      []int
}

// NewHeadless creates a headless display. quitAfter <= 0 never quits.
func NewHeadless(quitAfter int) *Headless {
	return &Headless{quitAfter: quitAfter}
}

// Press queues keys to be returned by PollKey, one per call.
func (h *Headless) Press(keys ...int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys = append(h.keys, keys...)
}

// Show counts the frame.
func (h *Headless) Show(frame, canvas *gocv.Mat) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shown++
}

// PollKey returns queued keys first, then quit once enough frames were shown.
func (h *Headless) PollKey() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.keys) > 0 {
		k := h.keys[0]
		h.keys = h.keys[1:]
		return k
	}
	if h.quitAfter > 0 && h.shown >= h.quitAfter {
		return KeyQuit
	}
	return NoKey
}

// Shown returns the number of frames shown.
func (h *Headless) Shown() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shown
}

func (h *Headless) Close() error { return nil }
