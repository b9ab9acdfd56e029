package chart

import (
	"errors"
	"fmt"
)

var errNilSurface = errors.New("host returned no surface")

// Chart binds a dataset and a resolved configuration to one surface.
// A Chart is not safe for concurrent use; Draw calls must be serialized.
type Chart struct {
	surface Surface
	id      string
	data    Dataset
	cfg     Config
}

// New resolves ov, mounts a surface for container id on host and returns
// the chart. Nothing is drawn until Draw is called.
func New(host Host, id string, data Dataset, ov Overrides) (*Chart, error) {
	if data.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	err := ov.Validate()
	if err != nil {
		return nil, err
	}

	if host == nil {
		return nil, fmt.Errorf("%w %q: no host", ErrMount, id)
	}

	cfg := Resolve(ov)

	surface, err := host.Mount(id, cfg.Figure())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrMount, id, err)
	}

	if surface == nil {
		return nil, fmt.Errorf("%w %q: %w", ErrMount, id, errNilSurface)
	}

	return &Chart{surface: surface, id: id, data: data, cfg: cfg}, nil
}

// ID returns the container id the chart is mounted on.
func (c *Chart) ID() string { return c.id }

// Config returns the resolved configuration.
func (c *Chart) Config() Config { return c.cfg }

// Data returns the dataset.
func (c *Chart) Data() Dataset { return c.data }

// Layout computes the positions Draw would use.
func (c *Chart) Layout() (Layout, error) {
	return ComputeLayout(c.cfg, c.data)
}

// Draw renders the chart onto its surface. Every call runs the full
// pipeline and produces identical output for an unchanged chart.
func (c *Chart) Draw() error {
	return Render(c.surface, c.cfg, c.data)
}

// Render sizes s and draws data onto it with cfg. Validation happens before
// the first drawing call, so a failed render leaves s untouched.
func Render(s Surface, cfg Config, data Dataset) error {
	renderSeries, err := seriesRendererFor(cfg.Type)
	if err != nil {
		return err
	}

	lay, err := ComputeLayout(cfg, data)
	if err != nil {
		return err
	}

	s.SetSize(cfg.Width, cfg.Height)
	drawAxes(s, cfg, lay)
	renderSeries(s, cfg, lay)

	return nil
}
