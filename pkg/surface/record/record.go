// Package record provides a chart surface that records drawing calls
// instead of producing pixels.
package record

import (
	"errors"
	"fmt"
	"image/color"
	"slices"
	"sync"

	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
)

// OpKind names a recorded drawing call.
type OpKind string

// Recorded drawing calls.
const (
	OpSetSize     OpKind = "set_size"
	OpBeginPath   OpKind = "begin_path"
	OpMoveTo      OpKind = "move_to"
	OpLineTo      OpKind = "line_to"
	OpArc         OpKind = "arc"
	OpStroke      OpKind = "stroke"
	OpFill        OpKind = "fill"
	OpStrokeColor OpKind = "stroke_color"
	OpFillColor   OpKind = "fill_color"
	OpLineWidth   OpKind = "line_width"
	OpFont        OpKind = "font"
	OpFillText    OpKind = "fill_text"
)

// Op is a single recorded call. Colors and font families are kept in Text.
type Op struct {
	Kind OpKind    `json:"op"`
	Text string    `json:"text,omitempty"`
	Args []float64 `json:"args,omitempty"`
}

// Stroked is a line segment that was stroked, with the stroke color in effect.
type Stroked struct {
	Segment chart.Segment
	Color   color.RGBA
}

// Filled is a filled arc, with the fill color in effect.
type Filled struct {
	Center chart.Point
	Radius float64
	Color  color.RGBA
}

// Text is a drawn string.
type Text struct {
	Value    string
	At       chart.Point
	MaxWidth float64
	Color    color.RGBA
}

type pathArc struct {
	center chart.Point
	radius float64
}

// Surface records drawing calls and the shapes they produce.
// SetSize clears everything recorded so far, mirroring a canvas resize.
type Surface struct {
	ops     []Op
	strokes []Stroked
	fills   []Filled
	texts   []Text

	pathSegments []chart.Segment
	pathArcs     []pathArc
	cursor       chart.Point
	hasCursor    bool

	strokeColor color.RGBA
	fillColor   color.RGBA
	lineWidth   float64
	font        chart.Font
	width       int
	height      int
}

var _ chart.Surface = (*Surface)(nil)

// New returns an empty recording surface.
func New() *Surface {
	s := &Surface{}
	s.resetState()

	return s
}

func (s *Surface) resetState() {
	s.strokeColor = color.RGBA{A: 255}
	s.fillColor = color.RGBA{A: 255}
	s.lineWidth = 1
	s.font = chart.Font{Family: "sans-serif", Size: 10}
	s.pathSegments = nil
	s.pathArcs = nil
	s.hasCursor = false
}

func (s *Surface) record(kind OpKind, text string, args ...float64) {
	s.ops = append(s.ops, Op{Kind: kind, Text: text, Args: args})
}

// SetSize implements [chart.Surface].
func (s *Surface) SetSize(width, height int) {
	s.ops = nil
	s.strokes = nil
	s.fills = nil
	s.texts = nil
	s.width, s.height = width, height
	s.resetState()
	s.record(OpSetSize, "", float64(width), float64(height))
}

// BeginPath implements [chart.Surface].
func (s *Surface) BeginPath() {
	s.pathSegments = nil
	s.pathArcs = nil
	s.hasCursor = false
	s.record(OpBeginPath, "")
}

// MoveTo implements [chart.Surface].
func (s *Surface) MoveTo(x, y float64) {
	s.cursor = chart.Point{X: x, Y: y}
	s.hasCursor = true
	s.record(OpMoveTo, "", x, y)
}

// LineTo implements [chart.Surface].
func (s *Surface) LineTo(x, y float64) {
	next := chart.Point{X: x, Y: y}
	if s.hasCursor {
		s.pathSegments = append(s.pathSegments, chart.Segment{From: s.cursor, To: next})
	}

	s.cursor = next
	s.hasCursor = true
	s.record(OpLineTo, "", x, y)
}

// Arc implements [chart.Surface].
func (s *Surface) Arc(x, y, radius, startAngle, endAngle float64) {
	s.pathArcs = append(s.pathArcs, pathArc{center: chart.Point{X: x, Y: y}, radius: radius})
	s.record(OpArc, "", x, y, radius, startAngle, endAngle)
}

// Stroke implements [chart.Surface].
func (s *Surface) Stroke() {
	for _, seg := range s.pathSegments {
		s.strokes = append(s.strokes, Stroked{Segment: seg, Color: s.strokeColor})
	}

	s.record(OpStroke, "")
}

// Fill implements [chart.Surface].
func (s *Surface) Fill() {
	for _, arc := range s.pathArcs {
		s.fills = append(s.fills, Filled{Center: arc.center, Radius: arc.radius, Color: s.fillColor})
	}

	s.record(OpFill, "")
}

// SetStrokeColor implements [chart.Surface].
func (s *Surface) SetStrokeColor(c color.Color) {
	s.strokeColor = toRGBA(c)
	s.record(OpStrokeColor, chart.FormatColor(c))
}

// SetFillColor implements [chart.Surface].
func (s *Surface) SetFillColor(c color.Color) {
	s.fillColor = toRGBA(c)
	s.record(OpFillColor, chart.FormatColor(c))
}

// SetLineWidth implements [chart.Surface].
func (s *Surface) SetLineWidth(width float64) {
	s.lineWidth = width
	s.record(OpLineWidth, "", width)
}

// SetFont implements [chart.Surface].
func (s *Surface) SetFont(font chart.Font) {
	s.font = font
	s.record(OpFont, font.Family, font.Size)
}

// FillText implements [chart.Surface].
func (s *Surface) FillText(text string, x, y, maxWidth float64) {
	s.texts = append(s.texts, Text{Value: text, At: chart.Point{X: x, Y: y}, MaxWidth: maxWidth, Color: s.fillColor})
	s.record(OpFillText, text, x, y, maxWidth)
}

func toRGBA(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// Ops returns the calls recorded since the last SetSize.
func (s *Surface) Ops() []Op { return slices.Clone(s.ops) }

// Count returns how many calls of kind were recorded.
func (s *Surface) Count(kind OpKind) int {
	n := 0

	for _, op := range s.ops {
		if op.Kind == kind {
			n++
		}
	}

	return n
}

// Strokes returns every stroked segment in drawing order.
func (s *Surface) Strokes() []Stroked { return slices.Clone(s.strokes) }

// StrokesIn returns the stroked segments drawn with c.
func (s *Surface) StrokesIn(c color.Color) []chart.Segment {
	want := toRGBA(c)

	var out []chart.Segment

	for _, st := range s.strokes {
		if st.Color == want {
			out = append(out, st.Segment)
		}
	}

	return out
}

// Fills returns every filled arc in drawing order.
func (s *Surface) Fills() []Filled { return slices.Clone(s.fills) }

// Texts returns every drawn string in drawing order.
func (s *Surface) Texts() []Text { return slices.Clone(s.texts) }

// Size returns the dimensions from the last SetSize.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// LineWidth returns the current line width.
func (s *Surface) LineWidth() float64 { return s.lineWidth }

// Font returns the current font.
func (s *Surface) Font() chart.Font { return s.font }

// ErrNoContainer is returned by Host.Mount for ids it does not know.
var ErrNoContainer = errors.New("no such container")

// Host mounts recording surfaces for a fixed set of container ids.
type Host struct {
	mu       sync.Mutex
	ids      map[string]struct{}
	surfaces map[string]*Surface
	figures  map[string]chart.Figure
}

var _ chart.Host = (*Host)(nil)

// NewHost returns a host that accepts the given container ids.
func NewHost(ids ...string) *Host {
	h := &Host{
		ids:      make(map[string]struct{}, len(ids)),
		surfaces: make(map[string]*Surface, len(ids)),
		figures:  make(map[string]chart.Figure, len(ids)),
	}

	for _, id := range ids {
		h.ids[id] = struct{}{}
	}

	return h
}

// Mount implements [chart.Host].
func (h *Host) Mount(id string, fig chart.Figure) (chart.Surface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.ids[id]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoContainer, id)
	}

	surface := New()
	h.surfaces[id] = surface
	h.figures[id] = fig

	return surface, nil
}

// Surface returns the surface mounted for id, or nil.
func (h *Host) Surface(id string) *Surface {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.surfaces[id]
}

// Figure returns the figure attributes passed when id was mounted.
func (h *Host) Figure(id string) (chart.Figure, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fig, ok := h.figures[id]

	return fig, ok
}
