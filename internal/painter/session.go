// Package painter applies per-frame gesture signals to the canvas and the
// stroke log.
package painter

import (
	"errors"
	"image/color"
	"time"

	"github.com/ayusman/gesturepaint/internal/canvas"
	"github.com/ayusman/gesturepaint/internal/gesture"
	"github.com/ayusman/gesturepaint/internal/stroke"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gocv.io/x/gocv"
)

// Default session settings.
const (
	DefaultBrushSize     = 15
	DefaultEraserSize    = 50
	DefaultColorDebounce = time.Second
	DefaultUndoDebounce  = 750 * time.Millisecond
	DefaultRedoDebounce  = 750 * time.Millisecond
)

// DefaultPalette is the color cycle: blue, green, red, yellow.
var DefaultPalette = []color.RGBA{
	{B: 255},
	{G: 255},
	{R: 255},
	{R: 255, G: 255},
}

// Config holds session settings.
type Config struct {
	Palette       []color.RGBA
	BrushSize     int
	EraserSize    int
	ColorDebounce time.Duration
	UndoDebounce  time.Duration
	RedoDebounce  time.Duration
}

// DefaultConfig returns the default session settings.
func DefaultConfig() Config {
	return Config{
		Palette:       DefaultPalette,
		BrushSize:     DefaultBrushSize,
		EraserSize:    DefaultEraserSize,
		ColorDebounce: DefaultColorDebounce,
		UndoDebounce:  DefaultUndoDebounce,
		RedoDebounce:  DefaultRedoDebounce,
	}
}

// Saver persists a canvas image and returns where it went.
type Saver interface {
	Save(img *gocv.Mat, now time.Time) (string, error)
}

// Signals are the classifier outputs for one frame.
type Signals struct {
	Hand gesture.HandState
	Face gesture.FaceState
	Eye  gesture.EyeState
}

// Events reports what a frame did to the session.
type Events struct {
	// Pen is the active tool this frame, empty when the pen is up.
	Pen       stroke.Kind
	Committed *stroke.Stroke
	// ColorChanged is set when the palette advanced; Color is the new color.
	ColorChanged bool
	Color        color.RGBA
	Saved        string
	SaveErr      error
	Undone       bool
	Redone       bool
}

// Session is the mutable drawing state of one painter run. It is owned by the
// main loop and is not safe for concurrent use.
type Session struct {
	ID     string
	config Config
	canvas *canvas.Canvas
	log    *stroke.Log
	saver  Saver
	logger zerolog.Logger

	colorIndex int
	active     *stroke.Builder

	colorLimiter *rate.Limiter
	undoLimiter  *rate.Limiter
	redoLimiter  *rate.Limiter
}

// NewSession creates a session drawing onto c. The session does not take
// ownership of c.
func NewSession(config Config, c *canvas.Canvas, saver Saver, logger zerolog.Logger) *Session {
	if len(config.Palette) == 0 {
		config.Palette = DefaultPalette
	}
	id := uuid.NewString()
	return &Session{
		ID:           id,
		config:       config,
		canvas:       c,
		log:          stroke.NewLog(),
		saver:        saver,
		logger:       logger.With().Str("session", id).Logger(),
		colorLimiter: debouncer(config.ColorDebounce),
		undoLimiter:  debouncer(config.UndoDebounce),
		redoLimiter:  debouncer(config.RedoDebounce),
	}
}

// debouncer allows one event, then one more per interval.
func debouncer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Apply applies one frame of signals in a fixed order: draw or erase, color
// change, save, undo, redo. A later step sees the effects of earlier ones.
func (s *Session) Apply(sig Signals, now time.Time) Events {
	var ev Events

	s.applyPen(sig, now, &ev)

	if sig.Face.EyebrowRaised && !sig.Eye.DoubleBlink && s.active == nil &&
		s.colorLimiter.AllowN(now, 1) {
		s.colorIndex = (s.colorIndex + 1) % len(s.config.Palette)
		ev.ColorChanged = true
		ev.Color = s.Color()
		s.logger.Info().Int("index", s.colorIndex).Msg("color changed")
	}

	if sig.Eye.DoubleBlink {
		s.save(now, &ev)
	}

	if sig.Eye.LeftWink && s.active == nil && s.undoLimiter.AllowN(now, 1) {
		st, err := s.log.Undo(s.canvas)
		switch {
		case errors.Is(err, stroke.ErrNothingToUndo):
			s.logger.Debug().Msg("nothing to undo")
		case err == nil:
			ev.Undone = true
			s.logger.Info().Str("stroke", st.ID).Msg("undo")
		}
	}

	if sig.Eye.RightWink && s.active == nil && s.redoLimiter.AllowN(now, 1) {
		st, err := s.log.Redo(s.canvas)
		switch {
		case errors.Is(err, stroke.ErrNothingToRedo):
			s.logger.Debug().Msg("nothing to redo")
		case err == nil:
			ev.Redone = true
			s.logger.Info().Str("stroke", st.ID).Msg("redo")
		}
	}

	return ev
}

func (s *Session) applyPen(sig Signals, now time.Time, ev *Events) {
	var want stroke.Kind
	switch {
	case sig.Face.MouthOpen && sig.Hand.Present:
		want = stroke.KindEraser
	case sig.Hand.Pinching && !sig.Face.MouthOpen:
		want = stroke.KindBrush
	}

	if s.active != nil && s.active.Kind() != want {
		s.seal(now, ev)
	}
	if want == "" {
		return
	}

	ev.Pen = want
	p := sig.Hand.Position
	if s.active == nil {
		col, thickness := s.Color(), s.config.BrushSize
		if want == stroke.KindEraser {
			col, thickness = s.canvas.Background(), s.config.EraserSize
		}
		s.active = stroke.Begin(s.canvas, want, col, thickness, p)
		return
	}
	s.active.Extend(s.canvas, p)
}

func (s *Session) seal(now time.Time, ev *Events) {
	st, patch, ok := s.active.Seal(now)
	s.active = nil
	if !ok {
		return
	}
	s.log.Push(st, patch)
	ev.Committed = &st
	s.logger.Debug().
		Str("stroke", st.ID).
		Str("kind", string(st.Kind)).
		Int("points", len(st.Points)).
		Msg("stroke committed")
}

// save persists the canvas and clears everything. A stroke in progress is
// committed first, so a failed save leaves the log consistent with the canvas
// and the user can try again.
func (s *Session) save(now time.Time, ev *Events) {
	if s.active != nil {
		s.seal(now, ev)
	}
	if s.saver == nil {
		ev.SaveErr = errors.New("no saver configured")
		return
	}

	path, err := s.saver.Save(s.canvas.Image(), now)
	if err != nil {
		ev.SaveErr = err
		s.logger.Error().Err(err).Msg("save artwork")
		return
	}

	s.canvas.Reset()
	s.log.Clear()
	ev.Saved = path
	s.logger.Info().Str("path", path).Msg("artwork saved")
}

// Color returns the active brush color.
func (s *Session) Color() color.RGBA {
	return s.config.Palette[s.colorIndex]
}

// Drawing reports whether a stroke is in progress.
func (s *Session) Drawing() bool {
	return s.active != nil
}

// Log returns the stroke log.
func (s *Session) Log() *stroke.Log {
	return s.log
}

// Canvas returns the canvas the session draws on.
func (s *Session) Canvas() *canvas.Canvas {
	return s.canvas
}

// Close discards any active stroke and releases the log's patches.
func (s *Session) Close() {
	if s.active != nil {
		s.active.Discard()
		s.active = nil
	}
	s.log.Clear()
}
