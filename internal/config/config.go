package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Config is the top-level configuration struct for chartkit.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Chart     map[string]any  `mapstructure:"chart"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// OutputConfig controls where and how the render command writes charts.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Dir    string `mapstructure:"dir"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig holds HTTP render server settings.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxBodySize  string        `mapstructure:"max_body_size"`
}

// TelemetryConfig holds OTLP export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	Environment  string `mapstructure:"environment"`
}

// Output formats accepted by output.format.
const (
	FormatPNG  = "png"
	FormatHTML = "html"
)

// Defaults applied before the config file and environment are read.
const (
	DefaultOutputFormat       = FormatPNG
	DefaultOutputDir          = "."
	DefaultLogLevel           = "info"
	DefaultLogJSON            = false
	DefaultServerAddr         = ":8080"
	DefaultServerReadTimeout  = 10 * time.Second
	DefaultServerWriteTimeout = 30 * time.Second
	DefaultServerMaxBodySize  = "1MiB"
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidOutputFormat indicates output.format is not png or html.
	ErrInvalidOutputFormat = errors.New("output.format must be png or html")
	// ErrInvalidLogLevel indicates logging.level is not a slog level name.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidTimeout indicates a server timeout is negative.
	ErrInvalidTimeout = errors.New("server timeouts must be non-negative")
	// ErrInvalidMaxBodySize indicates server.max_body_size is not a positive size.
	ErrInvalidMaxBodySize = errors.New("server.max_body_size must be a positive size such as 1MiB")
	// ErrInvalidChart indicates the chart section holds an unusable option.
	ErrInvalidChart = errors.New("invalid chart section")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case "", FormatPNG, FormatHTML:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, c.Output.Format)
	}

	_, err := c.LogLevel()
	if err != nil {
		return err
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return ErrInvalidTimeout
	}

	_, err = c.Server.MaxBodyBytes()
	if err != nil {
		return err
	}

	_, err = c.ChartOverrides()
	if err != nil {
		return err
	}

	return nil
}

// MaxBodyBytes parses max_body_size, e.g. "1MiB" or "512 kB".
func (s ServerConfig) MaxBodyBytes() (int64, error) {
	size, err := humanize.ParseBytes(strings.TrimSpace(s.MaxBodySize))
	if err != nil || size == 0 || size > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMaxBodySize, s.MaxBodySize)
	}

	return int64(size), nil
}

// LogLevel parses logging.level. An empty level is info.
func (c *Config) LogLevel() (slog.Level, error) {
	if c.Logging.Level == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level

	err := level.UnmarshalText([]byte(c.Logging.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return level, nil
}
