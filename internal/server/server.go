// Package server exposes the renderer over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/chartkit/internal/render"
	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
	"github.com/Sumatoshi-tech/chartkit/pkg/document"
	"github.com/Sumatoshi-tech/chartkit/pkg/observability"
)

// Routes.
const (
	RouteRender  = "/render"
	RouteHealth  = "/healthz"
	RouteReady   = "/readyz"
	RouteMetrics = "/metrics"
)

const (
	defaultMaxBodyBytes = 1 << 20
	idleTimeout         = 120 * time.Second
	shutdownTimeout     = 5 * time.Second
)

// Options configures the handler and the listening server. Zero-value
// fields use defaults; nil telemetry fields disable that signal.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64

	// Defaults are the configured chart options under every document.
	Defaults chart.Overrides

	Renderer *render.Renderer
	Logger   *slog.Logger
	Tracer   trace.Tracer
	RED      *observability.REDMetrics

	// Metrics serves /metrics when set.
	Metrics http.Handler

	// Ready are the readiness checks behind /readyz.
	Ready []observability.ReadyCheck
}

func (o Options) withDefaults() Options {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBodyBytes
	}

	if o.Renderer == nil {
		o.Renderer = render.New(nil, nil)
	}

	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	if o.Tracer == nil {
		o.Tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return o
}

// NewHandler returns the routed, traced handler.
func NewHandler(opts Options) http.Handler {
	opts = opts.withDefaults()

	mux := http.NewServeMux()
	mux.Handle(RouteRender, &renderHandler{opts: opts})
	mux.Handle(RouteHealth, observability.HealthHandler())
	mux.Handle(RouteReady, observability.ReadyHandler(opts.Ready...))

	if opts.Metrics != nil {
		mux.Handle(RouteMetrics, opts.Metrics)
	}

	return observability.HTTPMiddleware(opts.Tracer, opts.RED, mux)
}

// Server is a listening render server.
type Server struct {
	server   *http.Server
	listener net.Listener
	logger   *slog.Logger
	done     chan error
}

// Start listens on addr and serves in the background.
func Start(ctx context.Context, addr string, opts Options) (*Server, error) {
	opts = opts.withDefaults()

	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &Server{
		server: &http.Server{
			Handler:           NewHandler(opts),
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: opts.ReadTimeout,
			WriteTimeout:      opts.WriteTimeout,
			IdleTimeout:       idleTimeout,
		},
		listener: listener,
		logger:   opts.Logger,
		done:     make(chan error, 1),
	}

	go func() {
		serveErr := srv.server.Serve(listener)
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}

		srv.done <- serveErr
	}()

	return srv, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Wait blocks until ctx is canceled or the server fails, then shuts down.
func (s *Server) Wait(ctx context.Context) error {
	select {
	case err := <-s.done:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	s.logger.InfoContext(ctx, "shutting down", slog.String("addr", s.Addr()))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	return s.Close(shutdownCtx)
}

// Close gracefully shuts the server down.
func (s *Server) Close(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	return nil
}

type renderHandler struct {
	opts Options
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *renderHandler) ServeHTTP(rw http.ResponseWriter, hr *http.Request) {
	ctx := hr.Context()

	if hr.Method != http.MethodPost {
		rw.Header().Set("Allow", http.MethodPost)
		writeError(ctx, rw, http.StatusMethodNotAllowed, errMethodNotAllowed)

		return
	}

	format, err := render.ParseFormat(hr.URL.Query().Get("format"))
	if err != nil {
		writeError(ctx, rw, http.StatusBadRequest, err)

		return
	}

	body := http.MaxBytesReader(rw, hr.Body, h.opts.MaxBodyBytes)

	doc, err := document.Decode(body, documentFormat(hr))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(ctx, rw, http.StatusRequestEntityTooLarge, err)

			return
		}

		writeError(ctx, rw, http.StatusBadRequest, err)

		return
	}

	res, err := h.opts.Renderer.Render(ctx, render.Request{
		Document: doc,
		Defaults: h.opts.Defaults,
		Format:   format,
		ID:       hr.URL.Query().Get("id"),
	})
	if err != nil {
		status := http.StatusInternalServerError
		if render.IsInputError(err) {
			status = http.StatusBadRequest
		} else {
			h.opts.Logger.ErrorContext(ctx, "render failed", slog.Any("error", err))
		}

		writeError(ctx, rw, status, err)

		return
	}

	rw.Header().Set("Content-Type", res.ContentType())
	rw.WriteHeader(http.StatusOK)

	_, err = rw.Write(res.Body)
	if err != nil {
		h.opts.Logger.WarnContext(ctx, "write response", slog.Any("error", err))
	}
}

var errMethodNotAllowed = errors.New("method not allowed")

// documentFormat picks the document decoder from the input query parameter,
// falling back to the Content-Type header and then YAML.
func documentFormat(hr *http.Request) document.Format {
	if f, err := document.ParseFormat(hr.URL.Query().Get("input")); err == nil {
		return f
	}

	mediaType, _, err := mime.ParseMediaType(hr.Header.Get("Content-Type"))
	if err != nil {
		return document.FormatYAML
	}

	switch mediaType {
	case "text/csv":
		return document.FormatCSV
	case "application/json":
		return document.FormatJSON
	default:
		return document.FormatYAML
	}
}

func writeError(ctx context.Context, rw http.ResponseWriter, status int, err error) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	encodeErr := json.NewEncoder(rw).Encode(errorBody{Error: err.Error()})
	if encodeErr != nil {
		slog.Default().ErrorContext(ctx, "failed to encode JSON response", slog.Any("error", encodeErr))
	}
}
