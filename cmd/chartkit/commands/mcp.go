package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/chartkit/internal/mcp"
	"github.com/Sumatoshi-tech/chartkit/internal/render"
	"github.com/Sumatoshi-tech/chartkit/pkg/observability"
	"github.com/Sumatoshi-tech/chartkit/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes chart tools that AI agents can discover and invoke:
  - chart_render: Draw a chart document and return it as a PNG image
  - chart_layout: Return the computed range, ticks and point positions as JSON`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer e.shutdown(cmd)

			red, err := observability.NewREDMetrics(e.providers.Meter)
			if err != nil {
				return err
			}

			renderMetrics, err := observability.NewRenderMetrics(e.providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:   e.providers.Logger,
				Metrics:  red,
				Tracer:   e.providers.Tracer,
				Renderer: render.New(renderMetrics, e.providers.Tracer),
				Defaults: e.defaults,
				Version:  version.Version,
			})

			return srv.Run(cmd.Context())
		},
	}
}
