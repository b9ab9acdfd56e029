package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/chartkit/internal/render"
	"github.com/Sumatoshi-tech/chartkit/internal/server"
	"github.com/Sumatoshi-tech/chartkit/pkg/observability"
)

const flagAddr = "addr"

// NewServeCommand creates the HTTP render service command.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP render service",
		Long: `Start an HTTP server that renders chart documents.

Endpoints:
  POST /render    document body; ?format=png|html|json, ?input=yaml|json|csv, ?id=<container>
  GET  /healthz   liveness probe
  GET  /readyz    readiness probe
  GET  /metrics   Prometheus scrape endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, flagAddr, "", "listen address (default: server.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	e, err := setup(cmd, observability.ModeServe)
	if err != nil {
		return err
	}
	defer e.shutdown(cmd)

	if addr == "" {
		addr = e.cfg.Server.Addr
	}

	maxBody, err := e.cfg.Server.MaxBodyBytes()
	if err != nil {
		return err
	}

	prom, err := observability.NewPrometheusMeter()
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := prom.Provider.Shutdown(cmd.Context())
		if shutdownErr != nil {
			e.providers.Logger.Warn("prometheus meter shutdown failed", slog.Any("error", shutdownErr))
		}
	}()

	red, err := observability.NewREDMetrics(prom.Meter)
	if err != nil {
		return err
	}

	renderMetrics, err := observability.NewRenderMetrics(prom.Meter)
	if err != nil {
		return err
	}

	srv, err := server.Start(cmd.Context(), addr, server.Options{
		ReadTimeout:  e.cfg.Server.ReadTimeout,
		WriteTimeout: e.cfg.Server.WriteTimeout,
		MaxBodyBytes: maxBody,
		Defaults:     e.defaults,
		Renderer:     render.New(renderMetrics, e.providers.Tracer),
		Logger:       e.providers.Logger,
		Tracer:       e.providers.Tracer,
		RED:          red,
		Metrics:      prom.Handler,
	})
	if err != nil {
		return err
	}

	e.providers.Logger.InfoContext(cmd.Context(), "render server listening", slog.String("addr", srv.Addr()))

	return srv.Wait(cmd.Context())
}
