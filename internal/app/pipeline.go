package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/ayusman/gesturepaint/internal/capture"
	"github.com/ayusman/gesturepaint/internal/detector"
	"github.com/ayusman/gesturepaint/internal/display"
	"github.com/ayusman/gesturepaint/internal/painter"
	"gocv.io/x/gocv"
)

// Run opens the camera and processes frames until the quit key is pressed,
// ctx is cancelled, the configured frame limit is reached or a recorded
// source runs out.
//
// Per frame: read, mirror, detect, classify hand, face and eyes, apply the
// signals to the session, draw overlays, show both views, poll the keyboard.
// A failed read waits camera.retryDelay and tries again without touching the
// canvas. A fault while handling a frame is logged and the frame is dropped.
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	a.logger.Info().
		Int("width", a.config.Camera.Width).
		Int("height", a.config.Camera.Height).
		Msg("virtual painter started, press 'q' to quit")

	for {
		if err := ctx.Err(); err != nil {
			a.logger.Info().Msg("stopping on cancellation")
			return nil
		}

		frame, err := a.camera.ReadFrame()
		switch {
		case errors.Is(err, capture.ErrNoMoreFrames):
			a.logger.Info().Msg("frame source exhausted")
			return nil
		case errors.Is(err, capture.ErrCameraNotOpen):
			return err
		case err != nil:
			a.logger.Warn().Err(err).Msg("empty frame received, retrying")
			a.metrics.frameDropped(ctx, "capture")
			if !sleep(ctx, a.config.Camera.RetryDelay) {
				return nil
			}
			continue
		}

		if err := a.processFrame(ctx, frame); err != nil {
			a.logger.Error().Err(err).Int("frame", a.frames).Msg("processing failed")
			a.metrics.frameDropped(ctx, "processing")
		}
		frame.Close()
		a.frames++

		if a.display.PollKey() == display.KeyQuit {
			a.logger.Info().Msg("exiting virtual painter")
			return nil
		}
		if limit := a.config.Display.MaxFrames; limit > 0 && a.frames >= limit {
			return nil
		}
	}
}

// processFrame runs one capture → classify → mutate → render cycle. A panic
// anywhere in it is turned into an error.
func (a *App) processFrame(ctx context.Context, frame *gocv.Mat) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if a.config.Camera.Mirror {
		capture.Mirror(frame)
	}
	a.fitToCanvas(frame)
	size := a.canvas.Size()
	now := a.clock()

	obs, derr := a.detector.Detect(frame)
	if derr != nil {
		a.logger.Debug().Err(derr).Msg("detection failed, treating frame as empty")
		obs = detector.Observation{}
	}

	sig := painter.Signals{
		Hand: a.hand.Update(obs.Hand, size),
		Face: a.face.Update(obs.Face, size),
		Eye:  a.eye.Update(obs.Face, size, now),
	}
	a.logPhase()

	ev := a.session.Apply(sig, now)
	a.metrics.record(ctx, ev)
	a.metrics.frameProcessed(ctx)

	a.hand.Annotate(frame)
	a.face.Annotate(frame)
	a.eye.Annotate(frame)
	a.session.Annotate(frame, sig.Hand.Position, ev)

	a.display.Show(frame, a.canvas.Image())
	return nil
}

// fitToCanvas resizes frame to the canvas size when the device ignored the
// requested resolution, so landmark pixels line up with the canvas.
func (a *App) fitToCanvas(frame *gocv.Mat) {
	size := a.canvas.Size()
	if frame.Cols() == size.X && frame.Rows() == size.Y {
		return
	}
	resized := gocv.NewMat()
	gocv.Resize(*frame, &resized, image.Pt(size.X, size.Y), 0, 0, gocv.InterpolationLinear)
	frame.Close()
	*frame = resized
}

func (a *App) logPhase() {
	phase := a.face.Calibration().Phase()
	if phase == a.phase {
		return
	}
	done, total := a.face.Progress()
	a.logger.Info().
		Str("from", string(a.phase)).
		Str("to", string(phase)).
		Int("frames", done).
		Int("of", total).
		Msg("face calibration")
	a.phase = phase
}

// sleep waits d or until ctx is done. It reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
