package chart

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
)

// Option keys accepted by ParseOverrides.
const (
	KeyAxesColor    = "axes_color"
	KeyCaption      = "caption"
	KeyCaptionStyle = "caption_style"
	KeyDataColor    = "data_color"
	KeyHeight       = "height"
	KeyLineWidth    = "line_width"
	KeyXPadding     = "x_padding"
	KeyYPadding     = "y_padding"
	KeyPointRadius  = "point_radius"
	KeyTickLength   = "tick_length"
	KeyTicksY       = "ticks_y"
	KeyTickFontSize = "tick_font_size"
	KeyTitle        = "title"
	KeyTitleStyle   = "title_style"
	KeyType         = "type"
	KeyWidth        = "width"
)

// Default option values.
const (
	DefaultCaption      = ""
	DefaultCaptionStyle = "font-size: 14pt; text-align: center;"
	DefaultHeight       = 500
	DefaultLineWidth    = 1.0
	DefaultXPadding     = 30.0
	DefaultYPadding     = 30.0
	DefaultPointRadius  = 3.0
	DefaultTickLength   = 10.0
	DefaultTicksY       = 5
	DefaultTickFontSize = 10.0
	DefaultTitle        = ""
	DefaultTitleStyle   = "font-size:24pt; text-align: center;"
	DefaultVariant      = LineGraph
	DefaultWidth        = 500
)

var (
	// DefaultAxesColor is rgb(128,128,128).
	DefaultAxesColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	// DefaultDataColor is rgb(0,0,255).
	DefaultDataColor = color.RGBA{B: 255, A: 255}
)

// Config is a fully resolved chart configuration.
type Config struct {
	AxesColor    color.RGBA
	DataColor    color.RGBA
	Caption      string
	CaptionStyle string
	Title        string
	TitleStyle   string
	Width        int
	Height       int
	TicksY       int
	LineWidth    float64
	XPadding     float64
	YPadding     float64
	PointRadius  float64
	TickLength   float64
	TickFontSize float64
	Type         Variant
}

// Overrides holds caller-supplied option values. Nil fields fall back to
// the defaults during Resolve.
type Overrides struct {
	AxesColor    *color.RGBA
	DataColor    *color.RGBA
	Caption      *string
	CaptionStyle *string
	Title        *string
	TitleStyle   *string
	Width        *int
	Height       *int
	TicksY       *int
	LineWidth    *float64
	XPadding     *float64
	YPadding     *float64
	PointRadius  *float64
	TickLength   *float64
	TickFontSize *float64
	Type         *Variant
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		AxesColor:    DefaultAxesColor,
		DataColor:    DefaultDataColor,
		Caption:      DefaultCaption,
		CaptionStyle: DefaultCaptionStyle,
		Title:        DefaultTitle,
		TitleStyle:   DefaultTitleStyle,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		TicksY:       DefaultTicksY,
		LineWidth:    DefaultLineWidth,
		XPadding:     DefaultXPadding,
		YPadding:     DefaultYPadding,
		PointRadius:  DefaultPointRadius,
		TickLength:   DefaultTickLength,
		TickFontSize: DefaultTickFontSize,
		Type:         DefaultVariant,
	}
}

// Resolve merges ov over the defaults. It never fails.
func Resolve(ov Overrides) Config {
	cfg := DefaultConfig()

	pick(&cfg.AxesColor, ov.AxesColor)
	pick(&cfg.DataColor, ov.DataColor)
	pick(&cfg.Caption, ov.Caption)
	pick(&cfg.CaptionStyle, ov.CaptionStyle)
	pick(&cfg.Title, ov.Title)
	pick(&cfg.TitleStyle, ov.TitleStyle)
	pick(&cfg.Width, ov.Width)
	pick(&cfg.Height, ov.Height)
	pick(&cfg.TicksY, ov.TicksY)
	pick(&cfg.LineWidth, ov.LineWidth)
	pick(&cfg.XPadding, ov.XPadding)
	pick(&cfg.YPadding, ov.YPadding)
	pick(&cfg.PointRadius, ov.PointRadius)
	pick(&cfg.TickLength, ov.TickLength)
	pick(&cfg.TickFontSize, ov.TickFontSize)
	pick(&cfg.Type, ov.Type)

	return cfg
}

func pick[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Merge returns ov with every field set in top taking precedence.
func (ov Overrides) Merge(top Overrides) Overrides {
	merged := ov

	prefer(&merged.AxesColor, top.AxesColor)
	prefer(&merged.DataColor, top.DataColor)
	prefer(&merged.Caption, top.Caption)
	prefer(&merged.CaptionStyle, top.CaptionStyle)
	prefer(&merged.Title, top.Title)
	prefer(&merged.TitleStyle, top.TitleStyle)
	prefer(&merged.Width, top.Width)
	prefer(&merged.Height, top.Height)
	prefer(&merged.TicksY, top.TicksY)
	prefer(&merged.LineWidth, top.LineWidth)
	prefer(&merged.XPadding, top.XPadding)
	prefer(&merged.YPadding, top.YPadding)
	prefer(&merged.PointRadius, top.PointRadius)
	prefer(&merged.TickLength, top.TickLength)
	prefer(&merged.TickFontSize, top.TickFontSize)
	prefer(&merged.Type, top.Type)

	return merged
}

func prefer[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

// Validate checks the set fields for values the layout cannot use.
func (ov Overrides) Validate() error {
	if ov.Type != nil && !ov.Type.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownVariant, int(*ov.Type))
	}

	if ov.Width != nil && *ov.Width <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidOption, KeyWidth)
	}

	if ov.Height != nil && *ov.Height <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidOption, KeyHeight)
	}

	if ov.TicksY != nil && *ov.TicksY < 1 {
		return fmt.Errorf("%w: %s must be at least 1", ErrInvalidOption, KeyTicksY)
	}

	positive := []struct {
		key   string
		value *float64
	}{
		{KeyLineWidth, ov.LineWidth},
		{KeyTickFontSize, ov.TickFontSize},
	}

	for _, field := range positive {
		if field.value != nil && !(*field.value > 0) {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidOption, field.key)
		}
	}

	nonNegative := []struct {
		key   string
		value *float64
	}{
		{KeyXPadding, ov.XPadding},
		{KeyYPadding, ov.YPadding},
		{KeyPointRadius, ov.PointRadius},
		{KeyTickLength, ov.TickLength},
	}

	for _, field := range nonNegative {
		if field.value != nil && !(*field.value >= 0) {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidOption, field.key)
		}
	}

	return nil
}

// ParseOverrides converts a loosely typed option mapping, such as one decoded
// from YAML or JSON, into Overrides. Unknown keys are ignored. Values of the
// wrong type are rejected with ErrInvalidOption.
func ParseOverrides(raw map[string]any) (Overrides, error) {
	var ov Overrides

	for key, value := range raw {
		err := ov.set(key, value)
		if err != nil {
			return Overrides{}, err
		}
	}

	err := ov.Validate()
	if err != nil {
		return Overrides{}, err
	}

	return ov, nil
}

//nolint:cyclop // one case per option key.
func (ov *Overrides) set(key string, value any) error {
	var err error

	switch key {
	case KeyAxesColor:
		ov.AxesColor, err = asColor(key, value)
	case KeyDataColor:
		ov.DataColor, err = asColor(key, value)
	case KeyCaption:
		ov.Caption, err = asString(key, value)
	case KeyCaptionStyle:
		ov.CaptionStyle, err = asString(key, value)
	case KeyTitle:
		ov.Title, err = asString(key, value)
	case KeyTitleStyle:
		ov.TitleStyle, err = asString(key, value)
	case KeyWidth:
		ov.Width, err = asInt(key, value)
	case KeyHeight:
		ov.Height, err = asInt(key, value)
	case KeyTicksY:
		ov.TicksY, err = asInt(key, value)
	case KeyLineWidth:
		ov.LineWidth, err = asFloat(key, value)
	case KeyXPadding:
		ov.XPadding, err = asFloat(key, value)
	case KeyYPadding:
		ov.YPadding, err = asFloat(key, value)
	case KeyPointRadius:
		ov.PointRadius, err = asFloat(key, value)
	case KeyTickLength:
		ov.TickLength, err = asFloat(key, value)
	case KeyTickFontSize:
		ov.TickFontSize, err = asFloat(key, value)
	case KeyType:
		ov.Type, err = asVariant(key, value)
	}

	return err
}

func asString(key string, value any) (*string, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidOption, key, value)
	}

	return &s, nil
}

func asColor(key string, value any) (*color.RGBA, error) {
	s, err := asString(key, value)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseColor(*s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	return &parsed, nil
}

func asVariant(key string, value any) (*Variant, error) {
	if v, ok := value.(Variant); ok {
		return &v, nil
	}

	s, err := asString(key, value)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseVariant(*s)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}

func asFloat(key string, value any) (*float64, error) {
	var f float64

	switch num := value.(type) {
	case float64:
		f = num
	case float32:
		f = float64(num)
	case int:
		f = float64(num)
	case int64:
		f = float64(num)
	case uint64:
		f = float64(num)
	case json.Number:
		parsed, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidOption, key, err)
		}

		f = parsed
	default:
		return nil, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidOption, key, value)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s must be finite", ErrInvalidOption, key)
	}

	return &f, nil
}

func asInt(key string, value any) (*int, error) {
	f, err := asFloat(key, value)
	if err != nil {
		return nil, err
	}

	if *f != math.Trunc(*f) || math.Abs(*f) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidOption, key)
	}

	n := int(*f)

	return &n, nil
}

// Figure describes the presentation around the drawing surface: its size
// and the optional title and caption with their pass-through styles.
type Figure struct {
	Title        string
	TitleStyle   string
	Caption      string
	CaptionStyle string
	Width        int
	Height       int
}

// Figure returns the presentation attributes of cfg.
func (c Config) Figure() Figure {
	return Figure{
		Title:        c.Title,
		TitleStyle:   c.TitleStyle,
		Caption:      c.Caption,
		CaptionStyle: c.CaptionStyle,
		Width:        c.Width,
		Height:       c.Height,
	}
}

// Ptr returns a pointer to v. It is a convenience for building Overrides.
func Ptr[T any](v T) *T { return &v }
