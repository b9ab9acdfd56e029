// Package figure hosts charts inside HTML figures. Each registered container
// id becomes a figure with an optional title above the chart image and an
// optional caption below it.
package figure

import (
	"bytes"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"sync"

	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
	"github.com/Sumatoshi-tech/chartkit/pkg/surface/raster"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageTemplate    = "page"
	pngDataURIStart = "data:image/png;base64,"
	defaultAlt      = "chart"
)

// Sentinel errors.
var (
	// ErrNoContainer indicates Mount was called with an unregistered id.
	ErrNoContainer = errors.New("no container with this id")
	// ErrDuplicateContainer indicates an id was registered twice.
	ErrDuplicateContainer = errors.New("container id already registered")
	// ErrEmptyID indicates an empty container id.
	ErrEmptyID = errors.New("container id must not be empty")
)

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		var parseErr error

		templates, parseErr = template.New("").ParseFS(templateFS, "templates/*.html")
		if parseErr != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", parseErr)
		}
	})

	return templates, errTemplates
}

type container struct {
	id      string
	fig     chart.Figure
	surface *raster.Surface
}

// Page is a chart host that lays its containers out as HTML figures.
// It is safe for concurrent use; each mounted surface is not.
type Page struct {
	mu         sync.Mutex
	title      string
	containers []*container
	byID       map[string]*container
}

var _ chart.Host = (*Page)(nil)

// NewPage returns a page with the given document title and container ids.
func NewPage(title string, ids ...string) (*Page, error) {
	p := &Page{title: title, byID: make(map[string]*container, len(ids))}

	for _, id := range ids {
		err := p.AddContainer(id)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// AddContainer registers a new container id.
func (p *Page) AddContainer(id string) error {
	if id == "" {
		return ErrEmptyID
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.byID[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateContainer, id)
	}

	c := &container{id: id}
	p.containers = append(p.containers, c)
	p.byID[id] = c

	return nil
}

// Mount implements [chart.Host]. Mounting an id again replaces its surface.
func (p *Page) Mount(id string, fig chart.Figure) (chart.Surface, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoContainer, id)
	}

	c.fig = fig
	c.surface = raster.New(fig.Width, fig.Height)

	return c.surface, nil
}

// Surface returns the raster surface mounted under id, or nil.
func (p *Page) Surface(id string) *raster.Surface {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.byID[id]; ok {
		return c.surface
	}

	return nil
}

type figureView struct {
	ID           string
	Title        string
	TitleStyle   template.CSS
	Caption      string
	CaptionStyle template.CSS
	Alt          string
	Src          template.URL
	Width        int
	Height       int
}

type pageView struct {
	Title   string
	Figures []figureView
}

// WriteHTML writes the page with every mounted chart inlined as a PNG image.
// Containers without a mounted chart are skipped.
func (p *Page) WriteHTML(w io.Writer) error {
	tmpl, err := getTemplates()
	if err != nil {
		return err
	}

	view, err := p.view()
	if err != nil {
		return err
	}

	err = tmpl.ExecuteTemplate(w, pageTemplate, view)
	if err != nil {
		return fmt.Errorf("executing template %s: %w", pageTemplate, err)
	}

	return nil
}

func (p *Page) view() (pageView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	view := pageView{Title: p.title, Figures: make([]figureView, 0, len(p.containers))}

	for _, c := range p.containers {
		if c.surface == nil {
			continue
		}

		var buf bytes.Buffer

		err := c.surface.EncodePNG(&buf)
		if err != nil {
			return pageView{}, fmt.Errorf("container %q: %w", c.id, err)
		}

		alt := c.fig.Title
		if alt == "" {
			alt = defaultAlt
		}

		view.Figures = append(view.Figures, figureView{
			ID:    c.id,
			Title: c.fig.Title,
			// Styles are caller configuration and pass through as written.
			TitleStyle:   template.CSS(withWidth(c.fig.TitleStyle, c.fig.Width)), //nolint:gosec // trusted option.
			Caption:      c.fig.Caption,
			CaptionStyle: template.CSS(withWidth(c.fig.CaptionStyle, c.fig.Width)), //nolint:gosec // trusted option.
			Alt:          alt,
			Src:          template.URL(pngDataURIStart + base64.StdEncoding.EncodeToString(buf.Bytes())), //nolint:gosec // generated.
			Width:        c.fig.Width,
			Height:       c.fig.Height,
		})
	}

	return view, nil
}

func withWidth(style string, width int) string {
	return style + "width:" + strconv.Itoa(width) + "px;"
}
