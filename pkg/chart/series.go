package chart

import (
	"fmt"
	"math"
)

type seriesRenderer func(s Surface, cfg Config, lay Layout)

func seriesRendererFor(v Variant) (seriesRenderer, error) {
	switch v {
	case PointGraph:
		return drawPoints, nil
	case LineGraph:
		return drawLines, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, v)
	}
}

func drawPoints(s Surface, cfg Config, lay Layout) {
	s.SetLineWidth(cfg.LineWidth)
	s.SetStrokeColor(cfg.DataColor)
	s.SetFillColor(cfg.DataColor)

	for _, marker := range lay.Markers {
		s.BeginPath()
		s.Arc(marker.At.X, marker.At.Y, cfg.PointRadius, 0, 2*math.Pi)
		s.Fill()
	}
}

func drawLines(s Surface, cfg Config, lay Layout) {
	drawPoints(s, cfg, lay)

	if len(lay.Markers) < 2 {
		return
	}

	first := lay.Markers[0].At

	s.BeginPath()
	s.MoveTo(first.X, first.Y)

	for _, marker := range lay.Markers[1:] {
		s.LineTo(marker.At.X, marker.At.Y)
	}

	s.Stroke()
}
