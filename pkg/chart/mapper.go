package chart

// Point is a position on the surface in pixels. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Mapper converts dataset positions and values into surface coordinates.
// It is a value type and safe to copy.
type Mapper struct {
	rng        Range
	xPadding   float64
	tickLength float64
	plotWidth  float64
	plotHeight float64
	step       float64
	count      int
}

// NewMapper builds a mapper for count entries spanning rng on a surface
// described by cfg.
func NewMapper(cfg Config, rng Range, count int) Mapper {
	m := Mapper{
		rng:        rng,
		xPadding:   cfg.XPadding,
		tickLength: cfg.TickLength,
		plotWidth:  float64(cfg.Width) - 2*cfg.XPadding,
		plotHeight: float64(cfg.Height) - cfg.YPadding - cfg.TickLength,
		count:      count,
	}

	if count > 1 {
		m.step = m.plotWidth / float64(count-1)
	}

	return m
}

// Step returns the horizontal distance between consecutive labels.
// It is zero when there are fewer than two entries.
func (m Mapper) Step() float64 {
	return m.step
}

// X maps the 0-based rank of a label to its horizontal position.
// A lone entry is centered in the plot area.
func (m Mapper) X(index int) float64 {
	if m.count <= 1 {
		return m.xPadding + m.plotWidth/2
	}

	return m.xPadding + m.step*float64(index)
}

// Y maps a value to its vertical position. Larger values are higher on the
// surface. When every value is equal the result is the vertical center.
func (m Mapper) Y(value float64) float64 {
	if m.rng.Flat() {
		return m.tickLength + m.plotHeight/2
	}

	return m.tickLength + m.plotHeight*(1-(value-m.rng.MinValue)/m.rng.Span)
}

// Point maps an entry rank and value to a surface position.
func (m Mapper) Point(index int, value float64) Point {
	return Point{X: m.X(index), Y: m.Y(value)}
}
