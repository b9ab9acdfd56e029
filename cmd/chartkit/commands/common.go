// Package commands implements the chartkit subcommands.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sumatoshi-tech/chartkit/internal/config"
	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
	"github.com/Sumatoshi-tech/chartkit/pkg/document"
	"github.com/Sumatoshi-tech/chartkit/pkg/observability"
	"github.com/Sumatoshi-tech/chartkit/pkg/version"
)

const (
	flagConfig  = "config"
	flagVerbose = "verbose"
	flagInput   = "input"
	flagType    = "type"
	flagWidth   = "width"
	flagHeight  = "height"
	flagTitle   = "title"
	flagCaption = "caption"

	stdioPath = "-"
)

// AddPersistentFlags registers the flags shared by every subcommand.
func AddPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(flagConfig, "", "config file (default: ./.chartkit.yaml or ~/.chartkit.yaml)")
	cmd.PersistentFlags().BoolP(flagVerbose, "v", false, "debug logging")
}

// env is the state every command starts from.
type env struct {
	cfg       *config.Config
	defaults  chart.Overrides
	providers observability.Providers
}

// setup loads the configuration and initializes observability for mode.
// Logs go to stderr. The caller must shut the providers down.
func setup(cmd *cobra.Command, mode observability.AppMode) (*env, error) {
	path, _ := cmd.Flags().GetString(flagConfig)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	defaults, err := cfg.ChartOverrides()
	if err != nil {
		return nil, err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))

	if verbose, _ := cmd.Flags().GetBool(flagVerbose); verbose {
		obsCfg.LogLevel = slog.LevelDebug
	}

	providers, err := observability.InitWithWriter(obsCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	return &env{cfg: cfg, defaults: defaults, providers: providers}, nil
}

func (e *env) shutdown(cmd *cobra.Command) {
	err := e.providers.Shutdown(cmd.Context())
	if err != nil {
		e.providers.Logger.Warn("observability shutdown failed", slog.Any("error", err))
	}
}

// chartFlags are the option overrides settable from the command line.
type chartFlags struct {
	flags *pflag.FlagSet
}

func addChartFlags(cmd *cobra.Command) chartFlags {
	fs := cmd.Flags()
	fs.String(flagType, "", "chart type: PointGraph or LineGraph")
	fs.Int(flagWidth, 0, "chart width in pixels")
	fs.Int(flagHeight, 0, "chart height in pixels")
	fs.String(flagTitle, "", "title above the chart (html output)")
	fs.String(flagCaption, "", "caption below the chart (html output)")

	return chartFlags{flags: fs}
}

// overrides returns only the flags the user set.
func (cf chartFlags) overrides() (chart.Overrides, error) {
	raw := make(map[string]any)

	if cf.flags.Changed(flagType) {
		raw[chart.KeyType], _ = cf.flags.GetString(flagType)
	}

	if cf.flags.Changed(flagWidth) {
		raw[chart.KeyWidth], _ = cf.flags.GetInt(flagWidth)
	}

	if cf.flags.Changed(flagHeight) {
		raw[chart.KeyHeight], _ = cf.flags.GetInt(flagHeight)
	}

	if cf.flags.Changed(flagTitle) {
		raw[chart.KeyTitle], _ = cf.flags.GetString(flagTitle)
	}

	if cf.flags.Changed(flagCaption) {
		raw[chart.KeyCaption], _ = cf.flags.GetString(flagCaption)
	}

	ov, err := chart.ParseOverrides(raw)
	if err != nil {
		return chart.Overrides{}, fmt.Errorf("flags: %w", err)
	}

	return ov, nil
}

// loadDocument reads path, or stdin for "-". An empty inputFormat infers
// the format from the extension.
func loadDocument(stdin io.Reader, path, inputFormat string) (*document.Document, error) {
	if inputFormat == "" {
		if path == stdioPath {
			return document.Decode(stdin, document.FormatYAML)
		}

		return document.Load(path)
	}

	format, err := document.ParseFormat(inputFormat)
	if err != nil {
		return nil, err
	}

	if path == stdioPath {
		return document.Decode(stdin, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	defer f.Close()

	doc, err := document.Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}
