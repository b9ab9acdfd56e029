package chart

import "image/color"

// Font describes the font used for text drawing.
type Font struct {
	Family string
	Size   float64
}

// Surface is an immediate-mode 2D drawing target in the style of an HTML
// canvas context. Implementations keep the current path between Stroke and
// Fill calls; BeginPath discards it. SetSize resizes and clears the surface
// and resets its drawing state.
type Surface interface {
	SetSize(width, height int)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc adds a circular arc centered on (x, y) from startAngle to endAngle,
	// in radians measured clockwise from the positive x axis.
	Arc(x, y, radius, startAngle, endAngle float64)
	Stroke()
	Fill()
	SetStrokeColor(c color.Color)
	SetFillColor(c color.Color)
	SetLineWidth(width float64)
	SetFont(font Font)
	// FillText draws text with its baseline starting at (x, y). When maxWidth
	// is positive the text is condensed horizontally to fit.
	FillText(text string, x, y, maxWidth float64)
}

// Host resolves a container id to a surface sized for fig.
type Host interface {
	Mount(id string, fig Figure) (Surface, error)
}
