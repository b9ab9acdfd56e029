package config

import (
	"fmt"

	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
)

// ChartOverrides converts the chart section into engine overrides. Keys the
// engine does not know are ignored, like they are in document options.
func (c *Config) ChartOverrides() (chart.Overrides, error) {
	if len(c.Chart) == 0 {
		return chart.Overrides{}, nil
	}

	ov, err := chart.ParseOverrides(c.Chart)
	if err != nil {
		return chart.Overrides{}, fmt.Errorf("%w: %w", ErrInvalidChart, err)
	}

	return ov, nil
}
