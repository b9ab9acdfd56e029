package chart_test

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
)

func TestResolve_Defaults(t *testing.T) {
	t.Parallel()

	cfg := chart.Resolve(chart.Overrides{})

	assert.Equal(t, chart.DefaultConfig(), cfg)
	assert.Equal(t, 500, cfg.Width)
	assert.Equal(t, 500, cfg.Height)
	assert.Equal(t, 5, cfg.TicksY)
	assert.Equal(t, chart.LineGraph, cfg.Type)
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, cfg.AxesColor)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, cfg.DataColor)
	assert.Equal(t, "font-size:24pt; text-align: center;", cfg.TitleStyle)
	assert.Equal(t, "font-size: 14pt; text-align: center;", cfg.CaptionStyle)
}

func TestResolve_IsolatesCalls(t *testing.T) {
	t.Parallel()

	first := chart.Resolve(chart.Overrides{Width: chart.Ptr(800), Title: chart.Ptr("Sales")})
	second := chart.Resolve(chart.Overrides{})

	assert.Equal(t, 800, first.Width)
	assert.Equal(t, "Sales", first.Title)
	assert.Equal(t, chart.DefaultWidth, second.Width)
	assert.Empty(t, second.Title)
}

func TestOverrides_Merge(t *testing.T) {
	t.Parallel()

	base := chart.Overrides{Width: chart.Ptr(300), Title: chart.Ptr("base")}
	top := chart.Overrides{Title: chart.Ptr("top"), Type: chart.Ptr(chart.PointGraph)}

	merged := base.Merge(top)
	cfg := chart.Resolve(merged)

	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, "top", cfg.Title)
	assert.Equal(t, chart.PointGraph, cfg.Type)
	assert.Equal(t, "base", *base.Title)
}

func TestOverrides_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ov   chart.Overrides
		want error
	}{
		{name: "zero width", ov: chart.Overrides{Width: chart.Ptr(0)}, want: chart.ErrInvalidOption},
		{name: "negative height", ov: chart.Overrides{Height: chart.Ptr(-1)}, want: chart.ErrInvalidOption},
		{name: "no y ticks", ov: chart.Overrides{TicksY: chart.Ptr(0)}, want: chart.ErrInvalidOption},
		{name: "zero line width", ov: chart.Overrides{LineWidth: chart.Ptr(0.0)}, want: chart.ErrInvalidOption},
		{name: "negative padding", ov: chart.Overrides{XPadding: chart.Ptr(-5.0)}, want: chart.ErrInvalidOption},
		{name: "unknown type", ov: chart.Overrides{Type: chart.Ptr(chart.Variant(9))}, want: chart.ErrUnknownVariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.ErrorIs(t, tt.ov.Validate(), tt.want)
		})
	}

	require.NoError(t, chart.Overrides{XPadding: chart.Ptr(0.0)}.Validate())
}

func TestParseOverrides(t *testing.T) {
	t.Parallel()

	ov, err := chart.ParseOverrides(map[string]any{
		"type":          "PointGraph",
		"width":         800,
		"height":        json.Number("400"),
		"line_width":    2.5,
		"data_color":    "rgb(255,0,0)",
		"title":         "Sales",
		"ticks_y":       float64(4),
		"not_an_option": true,
	})
	require.NoError(t, err)

	cfg := chart.Resolve(ov)

	assert.Equal(t, chart.PointGraph, cfg.Type)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
	assert.Equal(t, 4, cfg.TicksY)
	assert.InDelta(t, 2.5, cfg.LineWidth, 0)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, cfg.DataColor)
	assert.Equal(t, "Sales", cfg.Title)
}

func TestParseOverrides_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  map[string]any
		want error
	}{
		{name: "string width", raw: map[string]any{"width": "wide"}, want: chart.ErrInvalidOption},
		{name: "fractional width", raw: map[string]any{"width": 10.5}, want: chart.ErrInvalidOption},
		{name: "numeric title", raw: map[string]any{"title": 3}, want: chart.ErrInvalidOption},
		{name: "bad color", raw: map[string]any{"axes_color": "rgb(1,2)"}, want: chart.ErrInvalidOption},
		{name: "bad type", raw: map[string]any{"type": "BarGraph"}, want: chart.ErrUnknownVariant},
		{name: "out of range", raw: map[string]any{"height": -10}, want: chart.ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := chart.ParseOverrides(tt.raw)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConfig_Figure(t *testing.T) {
	t.Parallel()

	cfg := chart.Resolve(chart.Overrides{Title: chart.Ptr("T"), Caption: chart.Ptr("C"), Width: chart.Ptr(320)})
	fig := cfg.Figure()

	assert.Equal(t, "T", fig.Title)
	assert.Equal(t, "C", fig.Caption)
	assert.Equal(t, 320, fig.Width)
	assert.Equal(t, chart.DefaultHeight, fig.Height)
	assert.Equal(t, chart.DefaultTitleStyle, fig.TitleStyle)
}
