package raster_test

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
	"github.com/Sumatoshi-tech/chartkit/pkg/surface/raster"
)

func monthData() chart.Dataset {
	return chart.MustDataset(
		chart.Entry{Label: "Jan", Value: 7},
		chart.Entry{Label: "Feb", Value: 20},
		chart.Entry{Label: "Dec", Value: 5},
	)
}

func drawn(t *testing.T, ov chart.Overrides) (*raster.Host, *chart.Chart) {
	t.Helper()

	host := raster.NewHost()

	c, err := chart.New(host, "c", monthData(), ov)
	require.NoError(t, err)
	require.NoError(t, c.Draw())

	return host, c
}

func TestSurface_DrawsMarkers(t *testing.T) {
	t.Parallel()

	host, _ := drawn(t, chart.Overrides{Type: chart.Ptr(chart.PointGraph)})
	s := host.Surface("c")
	require.NoError(t, s.Err())

	img := s.Image()
	assert.Equal(t, 500, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())

	// The Feb marker is centered on (250, 10).
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(250, 10))
	// Nothing is painted in the top right corner.
	assert.Equal(t, color.RGBA{}, img.RGBAAt(499, 0))
}

func TestSurface_RedrawIsIdentical(t *testing.T) {
	t.Parallel()

	host, c := drawn(t, chart.Overrides{})
	first := bytes.Clone(host.Surface("c").Image().Pix)

	require.NoError(t, c.Draw())

	assert.Equal(t, first, host.Surface("c").Image().Pix)
}

func TestSurface_EncodePNG(t *testing.T) {
	t.Parallel()

	host, _ := drawn(t, chart.Overrides{Width: chart.Ptr(320), Height: chart.Ptr(240)})

	var buf bytes.Buffer

	require.NoError(t, host.Surface("c").EncodePNG(&buf))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
}

func TestSurface_WritePNG(t *testing.T) {
	t.Parallel()

	host, _ := drawn(t, chart.Overrides{})
	path := filepath.Join(t.TempDir(), "chart.png")

	require.NoError(t, host.Surface("c").WritePNG(path))

	f, err := os.Open(path)
	require.NoError(t, err)

	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 500, img.Bounds().Dx())
}

func TestSurface_SetSizeClears(t *testing.T) {
	t.Parallel()

	s := raster.New(10, 10)
	s.SetFillColor(color.White)
	s.Arc(5, 5, 4, 0, 6.3)
	s.Fill()

	require.NotEqual(t, color.RGBA{}, s.Image().RGBAAt(5, 5))

	s.SetSize(20, 20)

	assert.Equal(t, color.RGBA{}, s.Image().RGBAAt(5, 5))
	assert.Equal(t, 20, s.Image().Bounds().Dx())
}

func TestSurface_Fonts(t *testing.T) {
	t.Parallel()

	s := raster.New(10, 10)
	s.SetFont(chart.Font{Family: "monospace", Size: 12})

	require.NoError(t, s.Err())
	assert.Equal(t, chart.Font{Family: "monospace", Size: 12}, s.Font())
}

func TestHost_EmptyID(t *testing.T) {
	t.Parallel()

	_, err := raster.NewHost().Mount("", chart.Figure{Width: 1, Height: 1})
	require.ErrorIs(t, err, raster.ErrNoContainer)
}
