package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/chartkit/internal/render"
	"github.com/Sumatoshi-tech/chartkit/pkg/observability"
)

const (
	renderCmdUse      = "render <document>"
	renderCmdShort    = "Draw a chart document to PNG, HTML or layout JSON"
	renderArgCount    = 1
	renderOutputFlag  = "output"
	renderOutputShort = "o"
	renderOutputUsage = "output file, or - for stdout (default: <output.dir>/<document>.<format>)"
	renderFormatFlag  = "format"
	renderFormatUsage = "output format: png, html or json (default: output.format)"
	renderIDFlag      = "id"
	renderIDUsage     = "container id of the chart in html output"
	renderInputUsage  = "document format: yaml, json or csv (default: from extension)"
	renderDirPerm     = 0o750
	renderFilePerm    = 0o600
)

type renderOptions struct {
	output string
	format string
	input  string
	id     string
	chart  chartFlags
}

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   renderCmdUse,
		Short: renderCmdShort,
		Long: `Draw a chart document.

The document is YAML or JSON with a data mapping (or list of label/value
entries) and optional options, or label,value CSV. Options resolve in order:
built-in defaults, the config file chart section, the document options, then
the command line flags. Use - as the document to read stdin.`,
		Args:          cobra.ExactArgs(renderArgCount),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, renderOutputFlag, renderOutputShort, "", renderOutputUsage)
	cmd.Flags().StringVar(&opts.format, renderFormatFlag, "", renderFormatUsage)
	cmd.Flags().StringVar(&opts.input, flagInput, "", renderInputUsage)
	cmd.Flags().StringVar(&opts.id, renderIDFlag, render.DefaultID, renderIDUsage)
	opts.chart = addChartFlags(cmd)

	return cmd
}

func runRender(cmd *cobra.Command, docPath string, opts *renderOptions) error {
	e, err := setup(cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer e.shutdown(cmd)

	formatName := opts.format
	if formatName == "" {
		formatName = e.cfg.Output.Format
	}

	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	doc, err := loadDocument(cmd.InOrStdin(), docPath, opts.input)
	if err != nil {
		return err
	}

	flags, err := opts.chart.overrides()
	if err != nil {
		return err
	}

	metrics, err := observability.NewRenderMetrics(e.providers.Meter)
	if err != nil {
		return err
	}

	res, err := render.New(metrics, e.providers.Tracer).Render(cmd.Context(), render.Request{
		Document: doc,
		Defaults: e.defaults,
		Flags:    flags,
		Format:   format,
		ID:       opts.id,
	})
	if err != nil {
		return err
	}

	if opts.output == stdioPath {
		_, err = cmd.OutOrStdout().Write(res.Body)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return nil
	}

	outPath := opts.output
	if outPath == "" {
		outPath = defaultOutputPath(e.cfg.Output.Dir, docPath, format)
	}

	err = writeFile(outPath, res.Body)
	if err != nil {
		return err
	}

	e.providers.Logger.InfoContext(cmd.Context(), "chart written",
		slog.String("path", outPath),
		slog.String("type", res.Config.Type.String()),
		slog.Int("points", len(res.Layout.Markers)),
	)

	return nil
}

func defaultOutputPath(dir, docPath string, format render.Format) string {
	base := "chart"
	if docPath != stdioPath {
		base = strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
	}

	return filepath.Join(dir, base+"."+format.Extension())
}

func writeFile(path string, body []byte) error {
	err := os.MkdirAll(filepath.Dir(path), renderDirPerm)
	if err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	err = os.WriteFile(path, body, renderFilePerm)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
