package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	rgbPrefix  = "rgb("
	rgbaPrefix = "rgba("
	hexPrefix  = "#"
	maxChannel = 255
	rgbParts   = 3
	rgbaParts  = 4
)

// namedColors covers the CSS keywords commonly used in chart options.
var namedColors = map[string]color.RGBA{
	"black": {A: maxChannel},
	"white": {R: maxChannel, G: maxChannel, B: maxChannel, A: maxChannel},
	"gray":  {R: 128, G: 128, B: 128, A: maxChannel},
	"grey":  {R: 128, G: 128, B: 128, A: maxChannel},
	"red":   {R: maxChannel, A: maxChannel},
	"green": {G: 128, A: maxChannel},
	"blue":  {B: maxChannel, A: maxChannel},
}

// ParseColor parses a CSS-style color: "rgb(r,g,b)", "rgba(r,g,b,a)",
// "#rgb", "#rrggbb" or one of a few color keywords.
func ParseColor(s string) (color.RGBA, error) {
	css := strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.HasPrefix(css, hexPrefix):
		parsed, err := colorful.Hex(css)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: color %q: %w", ErrInvalidOption, s, err)
		}

		r, g, b := parsed.RGB255()

		return color.RGBA{R: r, G: g, B: b, A: maxChannel}, nil
	case strings.HasPrefix(css, rgbaPrefix) && strings.HasSuffix(css, ")"):
		return parseFunctional(s, css[len(rgbaPrefix):len(css)-1], rgbaParts)
	case strings.HasPrefix(css, rgbPrefix) && strings.HasSuffix(css, ")"):
		return parseFunctional(s, css[len(rgbPrefix):len(css)-1], rgbParts)
	}

	if named, ok := namedColors[css]; ok {
		return named, nil
	}

	return color.RGBA{}, fmt.Errorf("%w: color %q", ErrInvalidOption, s)
}

func parseFunctional(orig, body string, parts int) (color.RGBA, error) {
	fields := strings.Split(body, ",")
	if len(fields) != parts {
		return color.RGBA{}, fmt.Errorf("%w: color %q", ErrInvalidOption, orig)
	}

	var channels [rgbParts]uint8

	for idx := range rgbParts {
		channel, err := strconv.Atoi(strings.TrimSpace(fields[idx]))
		if err != nil || channel < 0 || channel > maxChannel {
			return color.RGBA{}, fmt.Errorf("%w: color %q", ErrInvalidOption, orig)
		}

		channels[idx] = uint8(channel)
	}

	alpha := uint8(maxChannel)

	if parts == rgbaParts {
		frac, err := strconv.ParseFloat(strings.TrimSpace(fields[rgbParts]), 64)
		if err != nil || frac < 0 || frac > 1 {
			return color.RGBA{}, fmt.Errorf("%w: color %q", ErrInvalidOption, orig)
		}

		alpha = uint8(frac*maxChannel + 0.5)
	}

	// color.RGBA is alpha-premultiplied.
	return color.RGBA{
		R: premultiply(channels[0], alpha),
		G: premultiply(channels[1], alpha),
		B: premultiply(channels[2], alpha),
		A: alpha,
	}, nil
}

func premultiply(channel, alpha uint8) uint8 {
	return uint8((uint32(channel)*uint32(alpha) + maxChannel/2) / maxChannel)
}

// FormatColor renders c as "rgb(r,g,b)", or "rgba(r,g,b,a)" when translucent.
func FormatColor(c color.Color) string {
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	if nrgba.A == maxChannel {
		return fmt.Sprintf("rgb(%d,%d,%d)", nrgba.R, nrgba.G, nrgba.B)
	}

	return fmt.Sprintf("rgba(%d,%d,%d,%s)", nrgba.R, nrgba.G, nrgba.B,
		strconv.FormatFloat(float64(nrgba.A)/maxChannel, 'f', 2, 64))
}
