package raster

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	familyMonospace = "monospace"
	familyMono      = "mono"
)

type parsedFont struct {
	once sync.Once
	ttf  []byte
	font *truetype.Font
	err  error
}

func (p *parsedFont) get() (*truetype.Font, error) {
	p.once.Do(func() {
		p.font, p.err = truetype.Parse(p.ttf)
	})

	return p.font, p.err
}

// The Go fonts stand in for the generic CSS families.
var (
	regularFont = &parsedFont{ttf: goregular.TTF}
	monoFont    = &parsedFont{ttf: gomono.TTF}
)

func fontFor(family string) *parsedFont {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case familyMonospace, familyMono:
		return monoFont
	default:
		return regularFont
	}
}

// newFace returns a face for family at size pixels.
func newFace(family string, size float64) (font.Face, error) {
	ttf, err := fontFor(family).get()
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", family, err)
	}

	return truetype.NewFace(ttf, &truetype.Options{Size: size}), nil
}
