package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/chartkit/internal/render"
	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
	"github.com/Sumatoshi-tech/chartkit/pkg/document"
)

// Tool name constants.
const (
	ToolNameRender = "chart_render"
	ToolNameLayout = "chart_layout"
)

// MaxDocumentBytes is the maximum allowed size for an inline document (1 MB).
const MaxDocumentBytes = 1 << 20

// Sentinel errors for tool input validation.
var (
	// ErrEmptyDocument indicates the document parameter is empty.
	ErrEmptyDocument = errors.New("document parameter is required and must not be empty")
	// ErrDocumentTooLarge indicates the document exceeds the size limit.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size")
)

// ChartInput is the input schema shared by both chart tools.
type ChartInput struct {
	Document string         `json:"document"          jsonschema:"chart document: YAML or JSON with data and optional options, or label,value CSV"`
	Format   string         `json:"format,omitempty"  jsonschema:"document format: yaml, json or csv (default: yaml)"`
	Options  map[string]any `json:"options,omitempty" jsonschema:"option overrides applied over the document options (e.g. type, width, title)"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// request validates input and builds the render request.
func (s *Server) request(input ChartInput, format render.Format) (render.Request, error) {
	if input.Document == "" {
		return render.Request{}, ErrEmptyDocument
	}

	if len(input.Document) > MaxDocumentBytes {
		return render.Request{}, fmt.Errorf("%w: %d bytes (max %d)", ErrDocumentTooLarge, len(input.Document), MaxDocumentBytes)
	}

	docFormat := document.FormatYAML

	if input.Format != "" {
		parsed, err := document.ParseFormat(input.Format)
		if err != nil {
			return render.Request{}, err
		}

		docFormat = parsed
	}

	doc, err := document.Parse([]byte(input.Document), docFormat)
	if err != nil {
		return render.Request{}, err
	}

	flags, err := chart.ParseOverrides(input.Options)
	if err != nil {
		return render.Request{}, fmt.Errorf("options: %w", err)
	}

	return render.Request{Document: doc, Defaults: s.defaults, Flags: flags, Format: format}, nil
}

// handleRender processes chart_render tool calls.
func (s *Server) handleRender(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ChartInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	req, err := s.request(input, render.FormatPNG)
	if err != nil {
		return errorResult(err)
	}

	res, err := s.renderer.Render(ctx, req)
	if err != nil {
		return errorResult(err)
	}

	summary := fmt.Sprintf("%s, %dx%d, %d points", res.Config.Type, res.Config.Width, res.Config.Height, len(res.Layout.Markers))

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.ImageContent{Data: res.Body, MIMEType: res.ContentType()},
			&mcpsdk.TextContent{Text: summary},
		},
	}, ToolOutput{}, nil
}

// handleLayout processes chart_layout tool calls.
func (s *Server) handleLayout(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ChartInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	req, err := s.request(input, render.FormatJSON)
	if err != nil {
		return errorResult(err)
	}

	res, err := s.renderer.Render(ctx, req)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(res.Layout)
}
