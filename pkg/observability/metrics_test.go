package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/chartkit/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.REDMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	red, err := observability.NewREDMetrics(meter)
	require.NoError(t, err)

	return red, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()
	red, reader := setupTestMeter(t)
	ctx := context.Background()

	red.RecordRequest(ctx, "POST /render", observability.StatusOK, time.Millisecond*100)

	rm := collectMetrics(t, reader)

	reqTotal := findMetric(rm, "chartkit.requests.total")
	require.NotNil(t, reqTotal, "chartkit.requests.total metric not found")

	reqDuration := findMetric(rm, "chartkit.request.duration.seconds")
	require.NotNil(t, reqDuration, "chartkit.request.duration.seconds metric not found")
}

func TestREDMetrics_RecordRequestError(t *testing.T) {
	t.Parallel()
	red, reader := setupTestMeter(t)
	ctx := context.Background()

	red.RecordRequest(ctx, "POST /render", observability.StatusError, time.Second)

	rm := collectMetrics(t, reader)

	errTotal := findMetric(rm, "chartkit.errors.total")
	require.NotNil(t, errTotal, "chartkit.errors.total metric not found")
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()
	red, reader := setupTestMeter(t)
	ctx := context.Background()

	done := red.TrackInflight(ctx, "POST /render")

	rm := collectMetrics(t, reader)

	inflight := findMetric(rm, "chartkit.inflight.requests")
	require.NotNil(t, inflight, "chartkit.inflight.requests metric not found")

	done()

	rm = collectMetrics(t, reader)
	inflight = findMetric(rm, "chartkit.inflight.requests")
	require.NotNil(t, inflight)
}

func TestNewREDMetrics_WithNoopMeter(t *testing.T) {
	t.Parallel()
	cfg := observability.DefaultConfig()

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	red, err := observability.NewREDMetrics(providers.Meter)
	require.NoError(t, err)
	assert.NotNil(t, red)

	red.RecordRequest(context.Background(), "render", observability.StatusOK, time.Millisecond)
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, observability.StatusOK, observability.StatusOf(nil))
	assert.Equal(t, observability.StatusError, observability.StatusOf(assert.AnError))
}

func TestRenderMetrics_Record(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rm, err := observability.NewRenderMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	rm.Record(ctx, observability.RenderStats{Variant: "LineGraph", Format: "png", Points: 3, Duration: time.Millisecond})
	rm.Record(ctx, observability.RenderStats{Variant: "LineGraph", Format: "png", Points: 4, Err: assert.AnError})

	data := collectMetrics(t, reader)

	charts := findMetric(data, "chartkit.render.charts.total")
	require.NotNil(t, charts)

	sum, ok := charts.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	assert.Equal(t, int64(2), total)

	points := findMetric(data, "chartkit.render.points.total")
	require.NotNil(t, points)

	pointSum, ok := points.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, pointSum.DataPoints, 1)
	assert.Equal(t, int64(3), pointSum.DataPoints[0].Value)

	assert.NotNil(t, findMetric(data, "chartkit.render.duration.seconds"))
}

func TestRenderMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var rm *observability.RenderMetrics

	assert.NotPanics(t, func() {
		rm.Record(context.Background(), observability.RenderStats{Variant: "PointGraph"})
	})
}
