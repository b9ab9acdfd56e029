// Package document reads chart documents: an ordered dataset plus optional
// chart options, written as YAML, JSON or CSV.
package document

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
)

//go:embed schema.json
var schemaJSON []byte

const (
	keyData    = "data"
	keyOptions = "options"
	keyLabel   = "label"
	keyValue   = "value"
)

// Sentinel errors.
var (
	// ErrSchema indicates the document does not match the chart document schema.
	ErrSchema = errors.New("document does not match schema")
	// ErrSyntax indicates the document could not be parsed.
	ErrSyntax = errors.New("malformed document")
	// ErrUnknownFormat indicates an unsupported format name.
	ErrUnknownFormat = errors.New("unknown document format")
)

// Format identifies a document encoding.
type Format string

// Supported formats. JSON documents are read by the YAML decoder.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat returns the format named by s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatJSON, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the format from a file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatYAML
	}

	return f
}

// Document is a parsed chart document.
type Document struct {
	// Options are the raw option overrides, keyed as in [chart.ParseOverrides].
	Options map[string]any
	Data    chart.Dataset
}

// Overrides converts the document options.
func (d *Document) Overrides() (chart.Overrides, error) {
	ov, err := chart.ParseOverrides(d.Options)
	if err != nil {
		return chart.Overrides{}, fmt.Errorf("document options: %w", err)
	}

	return ov, nil
}

// Load reads the document at path, choosing the format by extension.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	doc, err := Parse(raw, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Decode reads a whole document from r.
func Decode(r io.Reader, format Format) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	return Parse(raw, format)
}

// Parse decodes raw in the given format.
func Parse(raw []byte, format Format) (*Document, error) {
	switch format {
	case FormatCSV:
		return parseCSV(bytes.NewReader(raw))
	case FormatYAML, FormatJSON:
		return parseTree(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func parseTree(raw []byte) (*Document, error) {
	var root yaml.Node

	err := yaml.Unmarshal(raw, &root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	top := resolve(&root)
	if top == nil || top.Kind == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrSchema)
	}

	generic, err := nodeValue(top)
	if err != nil {
		return nil, err
	}

	err = validate(generic)
	if err != nil {
		return nil, err
	}

	dataNode := mappingValue(top, keyData)

	wrapped := dataNode != nil && (dataNode.Kind == yaml.MappingNode || dataNode.Kind == yaml.SequenceNode)
	if !wrapped {
		// Bare label-to-value mapping.
		dataNode = top
	}

	data, err := datasetFromNode(dataNode)
	if err != nil {
		return nil, err
	}

	doc := &Document{Data: data, Options: map[string]any{}}

	if fields, ok := generic.(map[string]any); ok && wrapped {
		if opts, ok := fields[keyOptions].(map[string]any); ok {
			doc.Options = opts
		}
	}

	return doc, nil
}

func validate(generic any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(generic),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
}

// resolve unwraps document and alias nodes.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}

			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}

	return nil
}

// nodeValue converts n to plain Go values with string mapping keys, so that
// numeric labels such as years survive JSON-schema validation.
func nodeValue(n *yaml.Node) (any, error) {
	n = resolve(n)
	if n == nil {
		return nil, nil
	}

	switch n.Kind {
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)

		for idx := 0; idx+1 < len(n.Content); idx += 2 {
			val, err := nodeValue(n.Content[idx+1])
			if err != nil {
				return nil, err
			}

			out[resolve(n.Content[idx]).Value] = val
		}

		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))

		for _, item := range n.Content {
			val, err := nodeValue(item)
			if err != nil {
				return nil, err
			}

			out = append(out, val)
		}

		return out, nil
	default:
		var val any

		err := n.Decode(&val)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrSyntax, n.Line, err)
		}

		return val, nil
	}
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}

	for idx := 0; idx+1 < len(n.Content); idx += 2 {
		if resolve(n.Content[idx]).Value == key {
			return resolve(n.Content[idx+1])
		}
	}

	return nil
}

// datasetFromNode reads entries in document order.
func datasetFromNode(n *yaml.Node) (chart.Dataset, error) {
	var entries []chart.Entry

	switch n.Kind {
	case yaml.MappingNode:
		entries = make([]chart.Entry, 0, len(n.Content)/2)

		for idx := 0; idx+1 < len(n.Content); idx += 2 {
			entry, err := entryFrom(resolve(n.Content[idx]), resolve(n.Content[idx+1]))
			if err != nil {
				return chart.Dataset{}, err
			}

			entries = append(entries, entry)
		}
	case yaml.SequenceNode:
		entries = make([]chart.Entry, 0, len(n.Content))

		for _, item := range n.Content {
			item = resolve(item)

			entry, err := entryFrom(mappingValue(item, keyLabel), mappingValue(item, keyValue))
			if err != nil {
				return chart.Dataset{}, err
			}

			entries = append(entries, entry)
		}
	default:
		return chart.Dataset{}, fmt.Errorf("%w: data must be a mapping or a list", ErrSchema)
	}

	data, err := chart.NewDataset(entries...)
	if err != nil {
		return chart.Dataset{}, fmt.Errorf("dataset: %w", err)
	}

	return data, nil
}

func entryFrom(label, value *yaml.Node) (chart.Entry, error) {
	if label == nil || value == nil {
		return chart.Entry{}, fmt.Errorf("%w: entry needs a label and a value", ErrSchema)
	}

	var v float64

	err := value.Decode(&v)
	if err != nil {
		return chart.Entry{}, fmt.Errorf("%w: line %d: value for %q: %w", ErrSchema, value.Line, label.Value, err)
	}

	return chart.Entry{Label: label.Value, Value: v}, nil
}
