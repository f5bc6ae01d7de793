package app

import (
	"context"
	"fmt"

	"github.com/ayusman/gesturepaint/internal/painter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/ayusman/gesturepaint/internal/app"

type metrics struct {
	processed metric.Int64Counter
	dropped   metric.Int64Counter
	gestures  metric.Int64Counter
	strokes   metric.Int64Counter
	saved     metric.Int64Counter
}

// newMetrics creates the loop counters. A nil provider uses the global one,
// which is a no-op unless an exporter was installed.
func newMetrics(provider metric.MeterProvider) (*metrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	m := provider.Meter(instrumentationName)

	var (
		mt  metrics
		err error
	)
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&mt.processed, "frames.processed", "Frames run through the painter"},
		{&mt.dropped, "frames.dropped", "Frames skipped because capture or processing failed"},
		{&mt.gestures, "gestures.fired", "Gesture actions applied to the canvas"},
		{&mt.strokes, "strokes.committed", "Strokes sealed into the history"},
		{&mt.saved, "artworks.saved", "Canvas snapshots written to disk"},
	}
	for _, c := range counters {
		*c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
	}
	return &mt, nil
}

func (m *metrics) frameProcessed(ctx context.Context) {
	m.processed.Add(ctx, 1)
}

func (m *metrics) frameDropped(ctx context.Context, reason string) {
	m.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// record counts what a frame did.
func (m *metrics) record(ctx context.Context, ev painter.Events) {
	fired := func(name string) {
		m.gestures.Add(ctx, 1, metric.WithAttributes(attribute.String("gesture", name)))
	}
	if ev.ColorChanged {
		fired("color")
	}
	if ev.Saved != "" {
		fired("save")
		m.saved.Add(ctx, 1)
	}
	if ev.Undone {
		fired("undo")
	}
	if ev.Redone {
		fired("redo")
	}
	if ev.Committed != nil {
		m.strokes.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(ev.Committed.Kind))))
	}
}
