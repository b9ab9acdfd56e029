package chart

import (
	"fmt"
	"strings"
)

// Variant selects how the series is drawn.
type Variant int

const (
	// PointGraph draws one marker per entry.
	PointGraph Variant = iota + 1
	// LineGraph draws the markers and connects them in dataset order.
	LineGraph
)

const (
	pointGraphName = "PointGraph"
	lineGraphName  = "LineGraph"
)

// ParseVariant returns the variant named by s. Matching ignores case.
func ParseVariant(s string) (Variant, error) {
	switch {
	case strings.EqualFold(s, pointGraphName):
		return PointGraph, nil
	case strings.EqualFold(s, lineGraphName):
		return LineGraph, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// Valid reports whether v names a supported variant.
func (v Variant) Valid() bool {
	return v == PointGraph || v == LineGraph
}

func (v Variant) String() string {
	switch v {
	case PointGraph:
		return pointGraphName
	case LineGraph:
		return lineGraphName
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (v Variant) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}

	return []byte(v.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}
