package figure_test

import (
	"bytes"
	"encoding/base64"
	"html"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
	"github.com/Sumatoshi-tech/chartkit/pkg/figure"
)

const dataURIPrefix = "data:image/png;base64,"

func monthData() chart.Dataset {
	return chart.MustDataset(
		chart.Entry{Label: "Jan", Value: 7},
		chart.Entry{Label: "Feb", Value: 20},
		chart.Entry{Label: "Dec", Value: 5},
	)
}

func render(t *testing.T, page *figure.Page) string {
	t.Helper()

	var buf bytes.Buffer

	require.NoError(t, page.WriteHTML(&buf))

	return buf.String()
}

func TestPage_WriteHTML(t *testing.T) {
	t.Parallel()

	page, err := figure.NewPage("Report", "sales", "unused")
	require.NoError(t, err)

	c, err := chart.New(page, "sales", monthData(), chart.Overrides{
		Title:   chart.Ptr("Monthly sales"),
		Caption: chart.Ptr("Figure 1"),
		Width:   chart.Ptr(300),
		Height:  chart.Ptr(200),
	})
	require.NoError(t, err)
	require.NoError(t, c.Draw())

	out := render(t, page)

	assert.Contains(t, out, "<title>Report</title>")
	assert.Contains(t, out, `<div id="sales"><figure>`)
	assert.Contains(t, out, "Monthly sales</div>")
	assert.Contains(t, out, "width:300px;")
	assert.Contains(t, out, "Figure 1</figcaption>")
	assert.Contains(t, out, `id="sales-content"`)
	assert.NotContains(t, out, `id="unused"`)

	start := strings.Index(out, dataURIPrefix)
	require.GreaterOrEqual(t, start, 0)

	encoded := out[start+len(dataURIPrefix):]
	encoded = encoded[:strings.IndexByte(encoded, '"')]

	// Attribute escaping turns '+' into a character reference.
	raw, err := base64.StdEncoding.DecodeString(html.UnescapeString(encoded))
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestPage_NoTitleOrCaption(t *testing.T) {
	t.Parallel()

	page, err := figure.NewPage("", "c")
	require.NoError(t, err)

	c, err := chart.New(page, "c", monthData(), chart.Overrides{})
	require.NoError(t, err)
	require.NoError(t, c.Draw())

	out := render(t, page)

	assert.NotContains(t, out, "<figcaption")
	assert.Contains(t, out, `alt="chart"`)
	assert.NotNil(t, page.Surface("c"))
}

func TestPage_Errors(t *testing.T) {
	t.Parallel()

	_, err := figure.NewPage("x", "a", "a")
	require.ErrorIs(t, err, figure.ErrDuplicateContainer)

	_, err = figure.NewPage("x", "")
	require.ErrorIs(t, err, figure.ErrEmptyID)

	page, err := figure.NewPage("x", "a")
	require.NoError(t, err)

	_, err = chart.New(page, "b", monthData(), chart.Overrides{})
	require.ErrorIs(t, err, chart.ErrMount)
	require.ErrorIs(t, err, figure.ErrNoContainer)

	require.NoError(t, page.AddContainer("b"))
	require.ErrorIs(t, page.AddContainer("b"), figure.ErrDuplicateContainer)
	assert.Nil(t, page.Surface("missing"))
}
