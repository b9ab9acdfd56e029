package chart

import (
	"math"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// tickFractionDigits is the maximum number of fractional digits in y tick labels.
const tickFractionDigits = 2

// labelWidthBias shortens the estimated width of an x label by half a glyph.
const labelWidthBias = 0.5

// Segment is a straight line between two surface positions.
type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Tick is an axis reference mark with its label.
type Tick struct {
	Label    string  `json:"label"`
	Mark     Segment `json:"mark"`
	Text     Point   `json:"text"`
	MaxWidth float64 `json:"max_width"`
	Value    float64 `json:"value"`
}

// Marker is a plotted dataset entry.
type Marker struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	At    Point   `json:"at"`
}

// Layout holds every position the renderers draw, computed up front so it
// can be inspected without a surface.
type Layout struct {
	Range   Range    `json:"range"`
	XAxis   Segment  `json:"x_axis"`
	YAxis   Segment  `json:"y_axis"`
	YTicks  []Tick   `json:"y_ticks"`
	XTicks  []Tick   `json:"x_ticks"`
	Markers []Marker `json:"markers"`
	Step    float64  `json:"step"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Type    Variant  `json:"type"`
}

// ComputeLayout analyzes data and maps it onto the geometry of cfg.
func ComputeLayout(cfg Config, data Dataset) (Layout, error) {
	rng, err := AnalyzeRange(data)
	if err != nil {
		return Layout{}, err
	}

	mapper := NewMapper(cfg, rng, data.Len())

	width := float64(cfg.Width)
	height := float64(cfg.Height)
	baseline := height - cfg.YPadding

	lay := Layout{
		Range: rng,
		XAxis: Segment{
			From: Point{X: cfg.XPadding - cfg.TickLength, Y: baseline},
			To:   Point{X: width - cfg.XPadding, Y: baseline},
		},
		YAxis: Segment{
			From: Point{X: cfg.XPadding, Y: cfg.TickLength},
			To:   Point{X: cfg.XPadding, Y: baseline + cfg.TickLength},
		},
		Step:   mapper.Step(),
		Width:  cfg.Width,
		Height: cfg.Height,
		Type:   cfg.Type,
	}

	lay.YTicks = yTicks(cfg, rng, mapper)
	lay.XTicks = xTicks(cfg, data, mapper, baseline)
	lay.Markers = markers(data, mapper)

	return lay, nil
}

func yTicks(cfg Config, rng Range, mapper Mapper) []Tick {
	values := []float64{rng.MinValue}

	if !rng.Flat() {
		values = make([]float64, 0, cfg.TicksY+1)
		for idx := range cfg.TicksY + 1 {
			values = append(values, rng.MinValue+rng.Span*float64(idx)/float64(cfg.TicksY))
		}
	}

	ticks := make([]Tick, 0, len(values))

	for _, value := range values {
		y := mapper.Y(value)

		ticks = append(ticks, Tick{
			Label: FormatTickValue(value),
			Value: value,
			Mark: Segment{
				From: Point{X: cfg.XPadding - cfg.TickLength, Y: y},
				To:   Point{X: cfg.XPadding, Y: y},
			},
			Text:     Point{X: 0, Y: y + cfg.TickFontSize/2},
			MaxWidth: cfg.XPadding - cfg.TickLength,
		})
	}

	return ticks
}

func xTicks(cfg Config, data Dataset, mapper Mapper, baseline float64) []Tick {
	ticks := make([]Tick, 0, data.Len())

	for idx, entry := range data.All() {
		x := mapper.X(idx)
		glyphs := float64(utf8.RuneCountInString(entry.Label)) - labelWidthBias

		ticks = append(ticks, Tick{
			Label: entry.Label,
			Value: float64(idx),
			Mark: Segment{
				From: Point{X: x, Y: baseline + cfg.TickLength},
				To:   Point{X: x, Y: baseline},
			},
			Text: Point{
				X: x - cfg.TickFontSize/2*glyphs,
				Y: baseline + cfg.TickLength + cfg.TickFontSize,
			},
			MaxWidth: cfg.TickFontSize * glyphs,
		})
	}

	return ticks
}

func markers(data Dataset, mapper Mapper) []Marker {
	out := make([]Marker, 0, data.Len())

	for idx, entry := range data.All() {
		out = append(out, Marker{
			Label: entry.Label,
			Value: entry.Value,
			At:    mapper.Point(idx, entry.Value),
		})
	}

	return out
}

// FormatTickValue formats v the way en-US number formatting does with at
// most two fractional digits: rounded, with thousands separators.
func FormatTickValue(v float64) string {
	scale := math.Pow10(tickFractionDigits)

	rounded := math.Round(v*scale) / scale
	if rounded == 0 {
		// Normalizes negative zero.
		rounded = 0
	}

	return humanize.CommafWithDigits(rounded, tickFractionDigits)
}
