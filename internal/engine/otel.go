package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/mqmap/overlay/internal/engine"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type instruments struct {
	frameDuration metric.Float64Histogram
	faults        metric.Int64Counter
	regenerations metric.Int64Counter
	objects       metric.Int64ObservableGauge
}

func newInstruments(e *Engine) (*instruments, error) {
	m := meter()
	in := &instruments{}

	var err error
	in.frameDuration, err = m.Float64Histogram(
		"overlay.frame.duration",
		metric.WithDescription("Time spent in the engine per frame"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame duration histogram: %w", err)
	}

	in.faults, err = m.Int64Counter(
		"overlay.frame.faults",
		metric.WithDescription("Faults caught by the frame boundary"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fault counter: %w", err)
	}

	in.regenerations, err = m.Int64Counter(
		"overlay.regenerations",
		metric.WithDescription("Full clear and regenerate cycles"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating regeneration counter: %w", err)
	}

	in.objects, err = m.Int64ObservableGauge(
		"overlay.objects",
		metric.WithDescription("Live overlay objects and scene primitives"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating objects gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			s := e.Stats()
			o.ObserveInt64(in.objects, int64(s.Objects), metric.WithAttributes(attribute.String("kind", "object")))
			o.ObserveInt64(in.objects, int64(s.Labels), metric.WithAttributes(attribute.String("kind", "label")))
			o.ObserveInt64(in.objects, int64(s.Lines), metric.WithAttributes(attribute.String("kind", "line")))
			return nil
		},
		in.objects,
	)
	if err != nil {
		return nil, fmt.Errorf("registering objects callback: %w", err)
	}

	return in, nil
}

func (in *instruments) fault(phase Phase) {
	in.faults.Add(context.Background(), 1, metric.WithAttributes(attribute.String("phase", phase.String())))
}

func (in *instruments) regenerated() {
	in.regenerations.Add(context.Background(), 1)
}

func (in *instruments) frameDone(d time.Duration) {
	in.frameDuration.Record(context.Background(), float64(d.Microseconds())/1000)
}
