// Package app wires capture, landmark detection, gesture classification and
// the painter session into the frame loop.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/gesturepaint/internal/canvas"
	"github.com/ayusman/gesturepaint/internal/capture"
	"github.com/ayusman/gesturepaint/internal/config"
	"github.com/ayusman/gesturepaint/internal/detector"
	"github.com/ayusman/gesturepaint/internal/display"
	"github.com/ayusman/gesturepaint/internal/gesture"
	"github.com/ayusman/gesturepaint/internal/painter"
	"github.com/ayusman/gesturepaint/internal/snapshot"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

// Options supplies collaborators. Nil fields are built from the config.
type Options struct {
	Camera        capture.Camera
	Detector      detector.Detector
	Display       display.Display
	Saver         painter.Saver
	Logger        *zerolog.Logger
	MeterProvider metric.MeterProvider
	// Clock returns the frame timestamp; defaults to time.Now.
	Clock func() time.Time
}

// App is the virtual painter. It owns every resource it creates and releases
// them in Close.
type App struct {
	config   config.Config
	camera   capture.Camera
	detector detector.Detector
	display  display.Display
	hand     *gesture.HandClassifier
	face     *gesture.FaceClassifier
	eye      *gesture.EyeClassifier
	canvas   *canvas.Canvas
	session  *painter.Session
	logger   zerolog.Logger
	metrics  *metrics
	clock    func() time.Time

	phase  gesture.Phase
	frames int
}

// New builds an App from cfg. A missing MediaPipe service falls back to the
// mock detector, which never reports a hand or face.
func New(cfg config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	m, err := newMetrics(opts.MeterProvider)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:   cfg,
		camera:   opts.Camera,
		detector: opts.Detector,
		display:  opts.Display,
		logger:   logger,
		metrics:  m,
		clock:    opts.Clock,
		hand: gesture.NewHandClassifier(gesture.HandConfig{
			Smoothing:      cfg.Hand.Smoothing,
			PinchThreshold: cfg.Hand.PinchThreshold,
		}),
		face: gesture.NewFaceClassifier(gesture.FaceConfig{
			CalibrationFrames: cfg.Face.CalibrationFrames,
			EyebrowRaiseRatio: cfg.Face.EyebrowRaiseRatio,
			MouthOpenRatio:    cfg.Face.MouthOpenRatio,
		}),
		eye: gesture.NewEyeClassifier(gesture.EyeConfig{
			ClosedRatio:   cfg.Eye.ClosedRatio,
			BlinkInterval: cfg.Eye.BlinkInterval,
		}),
	}
	if a.clock == nil {
		a.clock = time.Now
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(capture.Config{
			DeviceID: cfg.Camera.Device,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			FPS:      cfg.Camera.FPS,
		})
	}
	a.camera.SetFPS(cfg.Camera.FPS)

	if a.detector == nil {
		a.detector = newDetector(cfg, logger)
	}

	if a.display == nil {
		if cfg.Display.Headless {
			a.display = display.NewHeadless(0)
		} else {
			a.display = display.NewWindows()
		}
	}

	saver := opts.Saver
	if saver == nil {
		saver = snapshot.NewWriter(cfg.Save.Dir, cfg.Save.PDF)
	}

	a.canvas = canvas.New(cfg.Camera.Width, cfg.Camera.Height, canvas.White)
	a.session = painter.NewSession(painter.Config{
		Palette:       painter.DefaultPalette,
		BrushSize:     cfg.Brush.Size,
		EraserSize:    cfg.Eraser.Size,
		ColorDebounce: cfg.Debounce.Color,
		UndoDebounce:  cfg.Debounce.Undo,
		RedoDebounce:  cfg.Debounce.Redo,
	}, a.canvas, saver, logger)
	a.logger = logger.With().Str("session", a.session.ID).Logger()
	a.phase = a.face.Calibration().Phase()

	return a, nil
}

func newDetector(cfg config.Config, logger zerolog.Logger) detector.Detector {
	dc := detector.DefaultConfig()
	dc.MinConfidence = cfg.Detector.MinConfidence
	dc.MinTrackingConf = cfg.Detector.MinConfidence
	dc.ScriptPath = cfg.Detector.Script
	dc.PythonPath = cfg.Detector.Python

	dc.RestartInterval = cfg.Detector.RestartInterval

	mp, err := detector.NewMediaPipeDetector(dc, logger.With().Str("component", "detector").Logger())
	if err != nil {
		logger.Warn().Err(err).Msg("MediaPipe not available, using mock detector")
		return detector.NewMockDetector()
	}
	logger.Info().Msg("using MediaPipe landmark detection")
	return mp
}

// Session returns the painter session.
func (a *App) Session() *painter.Session {
	return a.session
}

// Canvas returns the drawing canvas.
func (a *App) Canvas() *canvas.Canvas {
	return a.canvas
}

// Frames returns the number of frames processed so far.
func (a *App) Frames() int {
	return a.frames
}

// Close releases the camera, detector, display and canvas.
func (a *App) Close() error {
	a.session.Close()

	var errs []error
	if err := a.camera.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close camera: %w", err))
	}
	if err := a.detector.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close detector: %w", err))
	}
	if err := a.display.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close display: %w", err))
	}
	if err := a.canvas.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close canvas: %w", err))
	}
	return errors.Join(errs...)
}
