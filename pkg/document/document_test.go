package document_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
	"github.com/Sumatoshi-tech/chartkit/pkg/document"
)

func TestParse_WrappedYAML(t *testing.T) {
	t.Parallel()

	doc, err := document.Parse([]byte(`
data:
  Jan: 7
  Feb: 20
  Dec: 5
options:
  type: PointGraph
  width: 300
  title: Sales
`), document.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{"Jan", "Feb", "Dec"}, doc.Data.Labels())
	assert.InDelta(t, 20, doc.Data.At(1).Value, 0)

	ov, err := doc.Overrides()
	require.NoError(t, err)

	cfg := chart.Resolve(ov)
	assert.Equal(t, chart.PointGraph, cfg.Type)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, "Sales", cfg.Title)
}

func TestParse_BareMapping(t *testing.T) {
	t.Parallel()

	doc, err := document.Parse([]byte("Zeta: 1\nAlpha: 2.5\nMid: -3\n"), document.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, doc.Data.Labels())
	assert.Empty(t, doc.Options)
}

func TestParse_BareMappingWithDataLabel(t *testing.T) {
	t.Parallel()

	doc, err := document.Parse([]byte("data: 3\nother: 4\n"), document.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{"data", "other"}, doc.Data.Labels())
}

func TestParse_NumericLabels(t *testing.T) {
	t.Parallel()

	doc, err := document.Parse([]byte("2023: 10\n2024: 12\n"), document.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{"2023", "2024"}, doc.Data.Labels())
}

func TestParse_EntriesJSON(t *testing.T) {
	t.Parallel()

	doc, err := document.Parse([]byte(`{
  "data": [
    {"label": "b", "value": 1},
    {"label": 2024, "value": 2}
  ],
  "options": {"height": 250}
}`), document.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "2024"}, doc.Data.Labels())

	ov, err := doc.Overrides()
	require.NoError(t, err)
	assert.Equal(t, 250, chart.Resolve(ov).Height)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want error
	}{
		{name: "empty", in: "", want: document.ErrSchema},
		{name: "empty data", in: "data: {}\n", want: document.ErrSchema},
		{name: "non numeric", in: "Jan: abc\n", want: document.ErrSchema},
		{name: "list of numbers", in: "[1, 2]\n", want: document.ErrSchema},
		{name: "unknown top level key", in: "data: {a: 1}\nextra: {}\n", want: document.ErrSchema},
		{name: "entry without value", in: "data:\n  - label: a\n", want: document.ErrSchema},
		{name: "syntax", in: "data: [1, 2\n", want: document.ErrSyntax},
		{name: "duplicate", in: "a: 1\na: 2\n", want: chart.ErrDuplicateLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := document.Parse([]byte(tt.in), document.FormatYAML)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDocument_BadOptions(t *testing.T) {
	t.Parallel()

	doc, err := document.Parse([]byte("data: {a: 1}\noptions: {width: wide}\n"), document.FormatYAML)
	require.NoError(t, err)

	_, err = doc.Overrides()
	require.ErrorIs(t, err, chart.ErrInvalidOption)
}

func TestParse_CSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		labels []string
	}{
		{name: "header", in: "month,sales\nJan,7\nFeb,20\n", labels: []string{"Jan", "Feb"}},
		{name: "no header", in: "a,1\nb, 2.5\n", labels: []string{"a", "b"}},
		{name: "extra columns", in: "a,1,x\nb,2,y\n", labels: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := document.Parse([]byte(tt.in), document.FormatCSV)
			require.NoError(t, err)
			assert.Equal(t, tt.labels, doc.Data.Labels())
		})
	}
}

func TestParse_CSVErrors(t *testing.T) {
	t.Parallel()

	_, err := document.Parse([]byte("a,1\nb,x\n"), document.FormatCSV)
	require.ErrorIs(t, err, document.ErrCSV)

	_, err = document.Parse([]byte("a\n"), document.FormatCSV)
	require.ErrorIs(t, err, document.ErrCSV)

	_, err = document.Parse([]byte("label,value\n"), document.FormatCSV)
	require.ErrorIs(t, err, chart.ErrEmptyDataset)
}

func TestParse_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := document.Parse([]byte("a: 1"), document.Format("xml"))
	require.ErrorIs(t, err, document.ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := document.ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, document.FormatYAML, f)

	f, err = document.ParseFormat(" csv ")
	require.NoError(t, err)
	assert.Equal(t, document.FormatCSV, f)

	_, err = document.ParseFormat("xml")
	require.ErrorIs(t, err, document.ErrUnknownFormat)

	assert.Equal(t, document.FormatCSV, document.FormatFromPath("sales.csv"))
	assert.Equal(t, document.FormatJSON, document.FormatFromPath("sales.JSON"))
	assert.Equal(t, document.FormatYAML, document.FormatFromPath("sales"))
	assert.Equal(t, document.FormatYAML, document.FormatFromPath("sales.txt"))
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("Jan,7\nFeb,20\n"), 0o600))

	doc, err := document.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Data.Len())

	_, err = document.Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	doc, err := document.Decode(strings.NewReader(`{"x": 1, "y": 2}`), document.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, doc.Data.Labels())
}
