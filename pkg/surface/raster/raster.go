// Package raster implements a pixel chart surface on top of fogleman/gg.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"sync"

	"github.com/fogleman/gg"

	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
)

const (
	defaultFontFamily = "sans-serif"
	defaultFontSize   = 10
	defaultLineWidth  = 1
	filePerm          = 0o600
)

// Surface draws onto an RGBA image. The stroke and fill colors are tracked
// separately and applied when Stroke, Fill or FillText runs. The current
// path survives Stroke and Fill until BeginPath.
type Surface struct {
	dc          *gg.Context
	strokeColor color.Color
	fillColor   color.Color
	font        chart.Font
	fontErr     error
	lineWidth   float64
}

var _ chart.Surface = (*Surface)(nil)

// New returns a surface of the given size.
func New(width, height int) *Surface {
	s := &Surface{}
	s.SetSize(width, height)

	return s
}

// SetSize implements [chart.Surface]. It replaces the image with a blank
// transparent one and resets the drawing state.
func (s *Surface) SetSize(width, height int) {
	s.dc = gg.NewContext(max(width, 1), max(height, 1))
	s.strokeColor = color.Black
	s.fillColor = color.Black
	s.lineWidth = defaultLineWidth
	s.fontErr = nil
	s.SetFont(chart.Font{Family: defaultFontFamily, Size: defaultFontSize})
}

// BeginPath implements [chart.Surface].
func (s *Surface) BeginPath() { s.dc.ClearPath() }

// MoveTo implements [chart.Surface].
func (s *Surface) MoveTo(x, y float64) { s.dc.MoveTo(x, y) }

// LineTo implements [chart.Surface].
func (s *Surface) LineTo(x, y float64) { s.dc.LineTo(x, y) }

// Arc implements [chart.Surface].
func (s *Surface) Arc(x, y, radius, startAngle, endAngle float64) {
	s.dc.DrawArc(x, y, radius, startAngle, endAngle)
}

// Stroke implements [chart.Surface].
func (s *Surface) Stroke() {
	s.dc.SetColor(s.strokeColor)
	s.dc.SetLineWidth(s.lineWidth)
	s.dc.StrokePreserve()
}

// Fill implements [chart.Surface].
func (s *Surface) Fill() {
	s.dc.SetColor(s.fillColor)
	s.dc.FillPreserve()
}

// SetStrokeColor implements [chart.Surface].
func (s *Surface) SetStrokeColor(c color.Color) { s.strokeColor = c }

// SetFillColor implements [chart.Surface].
func (s *Surface) SetFillColor(c color.Color) { s.fillColor = c }

// SetLineWidth implements [chart.Surface].
func (s *Surface) SetLineWidth(width float64) { s.lineWidth = width }

// SetFont implements [chart.Surface]. A font that cannot be loaded is
// reported by Err; text keeps using the previous face.
func (s *Surface) SetFont(f chart.Font) {
	face, err := newFace(f.Family, f.Size)
	if err != nil {
		s.fontErr = err

		return
	}

	s.font = f
	s.dc.SetFontFace(face)
}

// FillText implements [chart.Surface].
func (s *Surface) FillText(text string, x, y, maxWidth float64) {
	s.dc.SetColor(s.fillColor)

	width, _ := s.dc.MeasureString(text)
	if maxWidth <= 0 || width <= maxWidth {
		s.dc.DrawString(text, x, y)

		return
	}

	s.dc.Push()
	s.dc.ScaleAbout(maxWidth/width, 1, x, y)
	s.dc.DrawString(text, x, y)
	s.dc.Pop()
}

// Font returns the font currently in effect.
func (s *Surface) Font() chart.Font { return s.font }

// Err returns the last font loading error since SetSize, if any.
func (s *Surface) Err() error { return s.fontErr }

// Image returns the rendered image. It is invalidated by SetSize.
func (s *Surface) Image() *image.RGBA {
	rgba, ok := s.dc.Image().(*image.RGBA)
	if !ok {
		bounds := s.dc.Image().Bounds()
		rgba = image.NewRGBA(bounds)

		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				rgba.Set(x, y, s.dc.Image().At(x, y))
			}
		}
	}

	return rgba
}

// EncodePNG writes the image to w as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	err := s.dc.EncodePNG(w)
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	return nil
}

// WritePNG writes the image to a PNG file at path.
func (s *Surface) WritePNG(path string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return s.EncodePNG(f)
}

// ErrNoContainer is returned by Host.Mount for an empty container id.
var ErrNoContainer = errors.New("container id is required")

// Host mounts one raster surface per container id.
type Host struct {
	mu       sync.Mutex
	surfaces map[string]*Surface
}

var _ chart.Host = (*Host)(nil)

// NewHost returns an empty host.
func NewHost() *Host {
	return &Host{surfaces: make(map[string]*Surface)}
}

// Mount implements [chart.Host]: a new surface of the figure's size replaces
// any surface previously mounted under id.
func (h *Host) Mount(id string, fig chart.Figure) (chart.Surface, error) {
	if id == "" {
		return nil, ErrNoContainer
	}

	surface := New(fig.Width, fig.Height)

	h.mu.Lock()
	h.surfaces[id] = surface
	h.mu.Unlock()

	return surface, nil
}

// Surface returns the surface mounted under id, or nil.
func (h *Host) Surface(id string) *Surface {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.surfaces[id]
}
