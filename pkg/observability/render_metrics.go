package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRenderCharts   = "chartkit.render.charts.total"
	metricRenderPoints   = "chartkit.render.points.total"
	metricRenderDuration = "chartkit.render.duration.seconds"

	attrVariant = "variant"
	attrFormat  = "format"
)

// RenderStats describes one completed chart render.
type RenderStats struct {
	Variant  string
	Format   string
	Points   int
	Duration time.Duration
	Err      error
}

// RenderMetrics holds the instruments recorded per chart render.
type RenderMetrics struct {
	charts   metric.Int64Counter
	points   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewRenderMetrics creates the render instruments from mt.
func NewRenderMetrics(mt metric.Meter) (*RenderMetrics, error) {
	charts, err := mt.Int64Counter(metricRenderCharts,
		metric.WithDescription("Charts rendered"),
		metric.WithUnit("{chart}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRenderCharts, err)
	}

	points, err := mt.Int64Counter(metricRenderPoints,
		metric.WithDescription("Data points plotted"),
		metric.WithUnit("{point}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRenderPoints, err)
	}

	duration, err := mt.Float64Histogram(metricRenderDuration,
		metric.WithDescription("Chart render duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRenderDuration, err)
	}

	return &RenderMetrics{charts: charts, points: points, duration: duration}, nil
}

// Record adds one render. Points are only counted for successful renders.
// A nil receiver is a no-op.
func (rm *RenderMetrics) Record(ctx context.Context, stats RenderStats) {
	if rm == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrVariant, stats.Variant),
		attribute.String(attrFormat, stats.Format),
		attribute.String(attrStatus, StatusOf(stats.Err)),
	)

	rm.charts.Add(ctx, 1, attrs)
	rm.duration.Record(ctx, stats.Duration.Seconds(), attrs)

	if stats.Err == nil {
		rm.points.Add(ctx, int64(stats.Points), metric.WithAttributes(
			attribute.String(attrVariant, stats.Variant),
		))
	}
}
