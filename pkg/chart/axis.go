package chart

import "image/color"

const tickFontFamily = "serif"

// labelColor is the fill used for tick labels.
var labelColor = color.RGBA{A: 255}

func drawAxes(s Surface, cfg Config, lay Layout) {
	s.SetStrokeColor(cfg.AxesColor)
	s.SetLineWidth(cfg.LineWidth)

	strokeSegment(s, lay.XAxis)
	strokeSegment(s, lay.YAxis)

	s.SetFillColor(labelColor)
	s.SetFont(Font{Family: tickFontFamily, Size: cfg.TickFontSize})

	for _, tick := range lay.YTicks {
		drawTick(s, tick)
	}

	for _, tick := range lay.XTicks {
		drawTick(s, tick)
	}
}

func drawTick(s Surface, tick Tick) {
	s.FillText(tick.Label, tick.Text.X, tick.Text.Y, tick.MaxWidth)
	strokeSegment(s, tick.Mark)
}

func strokeSegment(s Surface, seg Segment) {
	s.BeginPath()
	s.MoveTo(seg.From.X, seg.From.Y)
	s.LineTo(seg.To.X, seg.To.Y)
	s.Stroke()
}
