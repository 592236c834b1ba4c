package telemetry

import (
	"bytes"
	"context"
	"testing"
	"time"

	agentlogic "github.com/skovsen/D2D_ScanLogic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader sdkmetric.Reader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) map[string]int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)

	out := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		mode, _ := dp.Attributes.Value(attribute.Key("mode"))
		out[mode.AsString()] += dp.Value
	}
	return out
}

func TestRecordTurn_CountsTurnsModesAndFlashes(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := New(provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordTurn(ctx, []agentlogic.Command{
		{DroneID: 0, Mode: agentlogic.Searching, Light: true},
		{DroneID: 2, Mode: agentlogic.Returning},
	}, 3*time.Millisecond)
	m.RecordTurn(ctx, []agentlogic.Command{
		{DroneID: 0, Mode: agentlogic.Searching},
		{DroneID: 2, Mode: agentlogic.Escaping},
	}, time.Millisecond)

	got := collect(t, reader)

	require.Contains(t, got, "bot.turns")
	assert.Equal(t, map[string]int64{"": 2}, sumOf(t, got["bot.turns"]))

	require.Contains(t, got, "bot.decisions")
	assert.Equal(t, map[string]int64{
		"searching": 2,
		"returning": 1,
		"escaping":  1,
	}, sumOf(t, got["bot.decisions"]))

	require.Contains(t, got, "bot.light.flashes")
	assert.Equal(t, map[string]int64{"": 1}, sumOf(t, got["bot.light.flashes"]))

	require.Contains(t, got, "bot.turn.duration")
	hist, ok := got["bot.turn.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.InDelta(t, 4.0, hist.DataPoints[0].Sum, 1e-9)
}

func TestNewProvider_ExportsOnShutdown(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	provider, err := NewProvider(ctx, &buf, time.Hour)
	require.NoError(t, err)

	m, err := New(provider)
	require.NoError(t, err)
	m.RecordTurn(ctx, []agentlogic.Command{{DroneID: 0, Mode: agentlogic.Seeking}}, time.Millisecond)

	require.NoError(t, provider.Shutdown(ctx))
	out := buf.String()
	assert.Contains(t, out, "bot.turns")
	assert.Contains(t, out, "bot.decisions")
	assert.Contains(t, out, "drone-bot")
}
