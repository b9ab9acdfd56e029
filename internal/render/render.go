// Package render turns chart documents into PNG, HTML or layout JSON. It is
// shared by the render command, the HTTP server and the MCP tools.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
	"github.com/Sumatoshi-tech/chartkit/pkg/document"
	"github.com/Sumatoshi-tech/chartkit/pkg/figure"
	"github.com/Sumatoshi-tech/chartkit/pkg/observability"
	"github.com/Sumatoshi-tech/chartkit/pkg/surface/raster"
	"github.com/Sumatoshi-tech/chartkit/pkg/surface/record"
)

// Format is an output encoding.
type Format string

// Output formats.
const (
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// DefaultID is the container id used when a request names none.
const DefaultID = "chart"

const defaultPageTitle = "chartkit"

// Sentinel errors.
var (
	// ErrUnknownFormat indicates an unsupported output format.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrNoDocument indicates a request without a document.
	ErrNoDocument = errors.New("no chart document")
)

// ParseFormat returns the format named by s. An empty name is PNG.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPNG, nil
	case FormatPNG, FormatHTML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "image/png"
	}
}

// Extension returns the file extension of f without the dot.
func (f Format) Extension() string { return string(f) }

// Request is one render. Option layers apply in order: Defaults, then the
// document options, then Flags.
type Request struct {
	Document *document.Document
	Defaults chart.Overrides
	Flags    chart.Overrides
	Format   Format
	ID       string
}

// Result is an encoded chart.
type Result struct {
	Format Format
	Body   []byte
	Config chart.Config
	Layout chart.Layout
}

// ContentType is the MIME type of Body.
func (r *Result) ContentType() string { return r.Format.ContentType() }

// Renderer renders requests and records render metrics.
type Renderer struct {
	metrics *observability.RenderMetrics
	tracer  trace.Tracer
}

// New returns a renderer. Nil metrics or tracer disable that signal.
func New(metrics *observability.RenderMetrics, tracer trace.Tracer) *Renderer {
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return &Renderer{metrics: metrics, tracer: tracer}
}

// Overrides merges the option layers of req.
func (req Request) Overrides() (chart.Overrides, error) {
	if req.Document == nil {
		return chart.Overrides{}, ErrNoDocument
	}

	docOv, err := req.Document.Overrides()
	if err != nil {
		return chart.Overrides{}, err
	}

	return req.Defaults.Merge(docOv).Merge(req.Flags), nil
}

// Render draws the document in req and encodes it.
func (r *Renderer) Render(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	format := req.Format
	if format == "" {
		format = FormatPNG
	}

	ctx, span := r.tracer.Start(ctx, "chartkit.render",
		trace.WithAttributes(attribute.String("chartkit.format", string(format))),
	)
	defer span.End()

	res, err := r.render(req, format)

	stats := observability.RenderStats{Format: string(format), Duration: time.Since(start), Err: err}
	if res != nil {
		stats.Variant = res.Config.Type.String()
		stats.Points = len(res.Layout.Markers)

		span.SetAttributes(
			attribute.String("chartkit.variant", stats.Variant),
			attribute.Int("chartkit.points", stats.Points),
		)
	}

	r.metrics.Record(ctx, stats)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	return res, nil
}

func (r *Renderer) render(req Request, format Format) (*Result, error) {
	ov, err := req.Overrides()
	if err != nil {
		return nil, err
	}

	id := req.ID
	if id == "" {
		id = DefaultID
	}

	data := req.Document.Data

	switch format {
	case FormatPNG:
		return renderPNG(id, data, ov)
	case FormatHTML:
		return renderHTML(id, data, ov)
	case FormatJSON:
		return renderJSON(id, data, ov)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func draw(host chart.Host, id string, data chart.Dataset, ov chart.Overrides) (*chart.Chart, chart.Layout, error) {
	c, err := chart.New(host, id, data, ov)
	if err != nil {
		return nil, chart.Layout{}, err
	}

	err = c.Draw()
	if err != nil {
		return nil, chart.Layout{}, fmt.Errorf("draw %q: %w", id, err)
	}

	lay, err := c.Layout()
	if err != nil {
		return nil, chart.Layout{}, err
	}

	return c, lay, nil
}

func renderPNG(id string, data chart.Dataset, ov chart.Overrides) (*Result, error) {
	host := raster.NewHost()

	c, lay, err := draw(host, id, data, ov)
	if err != nil {
		return nil, err
	}

	surface := host.Surface(id)

	err = surface.Err()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	err = surface.EncodePNG(&buf)
	if err != nil {
		return nil, err
	}

	return &Result{Format: FormatPNG, Body: buf.Bytes(), Config: c.Config(), Layout: lay}, nil
}

func renderHTML(id string, data chart.Dataset, ov chart.Overrides) (*Result, error) {
	title := defaultPageTitle
	if ov.Title != nil && *ov.Title != "" {
		title = *ov.Title
	}

	page, err := figure.NewPage(title, id)
	if err != nil {
		return nil, err
	}

	c, lay, err := draw(page, id, data, ov)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	err = page.WriteHTML(&buf)
	if err != nil {
		return nil, err
	}

	return &Result{Format: FormatHTML, Body: buf.Bytes(), Config: c.Config(), Layout: lay}, nil
}

func renderJSON(id string, data chart.Dataset, ov chart.Overrides) (*Result, error) {
	c, lay, err := draw(record.NewHost(id), id, data, ov)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(lay, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}

	return &Result{Format: FormatJSON, Body: body, Config: c.Config(), Layout: lay}, nil
}

// IsInputError reports whether err was caused by the request content rather
// than by the renderer.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrUnknownFormat,
		ErrNoDocument,
		document.ErrSchema,
		document.ErrSyntax,
		document.ErrUnknownFormat,
		document.ErrCSV,
		chart.ErrEmptyDataset,
		chart.ErrDuplicateLabel,
		chart.ErrInvalidValue,
		chart.ErrUnknownVariant,
		chart.ErrInvalidOption,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
