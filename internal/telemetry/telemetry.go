// Package telemetry counts what the bot decides and exports the counts as OTel metrics.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"time"

	agentlogic "github.com/skovsen/D2D_ScanLogic"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	instrumentationName = "github.com/skovsen/D2D_ScanLogic/internal/telemetry"
	serviceName         = "drone-bot"
)

// NewProvider creates a meter provider that exports to w every interval and once more
// on Shutdown. w must not be the protocol channel.
func NewProvider(ctx context.Context, w io.Writer, interval time.Duration) (*sdkmetric.MeterProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(interval))
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
	), nil
}

// Meters holds the instruments updated once per turn.
type Meters struct {
	turns     metric.Int64Counter
	decisions metric.Int64Counter
	flashes   metric.Int64Counter
	latency   metric.Float64Histogram
}

// New creates the instruments on the given provider.
func New(provider metric.MeterProvider) (*Meters, error) {
	m := provider.Meter(instrumentationName)
	t := &Meters{}

	var err error
	t.turns, err = m.Int64Counter(
		"bot.turns",
		metric.WithDescription("Turns played"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating turns counter: %w", err)
	}

	t.decisions, err = m.Int64Counter(
		"bot.decisions",
		metric.WithDescription("Drone commands emitted, by planner mode"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating decisions counter: %w", err)
	}

	t.flashes, err = m.Int64Counter(
		"bot.light.flashes",
		metric.WithDescription("Commands with the light switched on"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flashes counter: %w", err)
	}

	t.latency, err = m.Float64Histogram(
		"bot.turn.duration",
		metric.WithDescription("Time spent deciding one turn"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating latency histogram: %w", err)
	}

	return t, nil
}

// RecordTurn updates every instrument for one turn.
func (t *Meters) RecordTurn(ctx context.Context, cmds []agentlogic.Command, took time.Duration) {
	t.turns.Add(ctx, 1)
	t.latency.Record(ctx, float64(took.Microseconds())/1000)
	for _, c := range cmds {
		attrs := metric.WithAttributes(attribute.String("mode", c.Mode.String()))
		t.decisions.Add(ctx, 1, attrs)
		if c.Light {
			t.flashes.Add(ctx, 1)
		}
	}
}
