// Package config loads inflexpoint settings from built-in defaults, an
// optional YAML file, an optional .env file and INFLEX_* environment
// variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"inflexpoint/app/analysis"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "inflexpoint.yaml"

// EnvPrefix prefixes every environment override, e.g. INFLEX_SERVER_PORT.
const EnvPrefix = "INFLEX"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Domain  DomainConfig  `yaml:"domain"`
	Numeric NumericConfig `yaml:"numeric"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

type DomainConfig struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

type NumericConfig struct {
	DerivativeStep       float64 `yaml:"derivative_step" split_words:"true"`
	SecondDerivativeStep float64 `yaml:"second_derivative_step" split_words:"true"`
	ZeroTolerance        float64 `yaml:"zero_tolerance" split_words:"true"`
	FlatTolerance        float64 `yaml:"flat_tolerance" split_words:"true"`
	BisectionIterations  int     `yaml:"bisection_iterations" split_words:"true"`
	BisectionTolerance   float64 `yaml:"bisection_tolerance" split_words:"true"`
	ClusterRadius        float64 `yaml:"cluster_radius" split_words:"true"`
	JumpThreshold        float64 `yaml:"jump_threshold" split_words:"true"`
	MaxSamples           int     `yaml:"max_samples" split_words:"true"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout time.Duration `yaml:"write_timeout" split_words:"true"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in configuration.
func Default() *Config {
	d := analysis.DefaultDomain()
	t := analysis.DefaultTuning()
	return &Config{
		Domain: DomainConfig{Min: d.Min, Max: d.Max, Step: d.Step},
		Numeric: NumericConfig{
			DerivativeStep:       t.DerivativeStep,
			SecondDerivativeStep: t.SecondDerivativeStep,
			ZeroTolerance:        t.ZeroTolerance,
			FlatTolerance:        t.FlatTolerance,
			BisectionIterations:  t.BisectionIterations,
			BisectionTolerance:   t.BisectionTolerance,
			ClusterRadius:        t.ClusterRadius,
			JumpThreshold:        t.JumpThreshold,
			MaxSamples:           t.MaxSamples,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8000,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration. A missing config file or .env file is not
// an error; an explicitly named file that cannot be parsed is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate rejects an unusable domain, non-positive numeric parameters and
// unknown log settings.
func (c *Config) Validate() error {
	if err := c.AnalysisDomain().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	n := c.Numeric
	positive := map[string]float64{
		"derivative_step":        n.DerivativeStep,
		"second_derivative_step": n.SecondDerivativeStep,
		"zero_tolerance":         n.ZeroTolerance,
		"flat_tolerance":         n.FlatTolerance,
		"bisection_tolerance":    n.BisectionTolerance,
		"cluster_radius":         n.ClusterRadius,
		"jump_threshold":         n.JumpThreshold,
	}
	for name, v := range positive {
		if !(v > 0) {
			return fmt.Errorf("%w: numeric.%s must be positive, got %v", ErrInvalidConfig, name, v)
		}
	}
	if n.BisectionIterations <= 0 {
		return fmt.Errorf("%w: numeric.bisection_iterations must be positive, got %d", ErrInvalidConfig, n.BisectionIterations)
	}
	if n.MaxSamples <= 0 {
		return fmt.Errorf("%w: numeric.max_samples must be positive, got %d", ErrInvalidConfig, n.MaxSamples)
	}
	if err := c.AnalysisDomain().ValidateSize(n.MaxSamples); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// AnalysisDomain converts the domain section.
func (c *Config) AnalysisDomain() analysis.Domain {
	return analysis.Domain{Min: c.Domain.Min, Max: c.Domain.Max, Step: c.Domain.Step}
}

// Tuning converts the numeric section.
func (c *Config) Tuning() analysis.Tuning {
	n := c.Numeric
	return analysis.Tuning{
		DerivativeStep:       n.DerivativeStep,
		SecondDerivativeStep: n.SecondDerivativeStep,
		ZeroTolerance:        n.ZeroTolerance,
		FlatTolerance:        n.FlatTolerance,
		BisectionIterations:  n.BisectionIterations,
		BisectionTolerance:   n.BisectionTolerance,
		ClusterRadius:        n.ClusterRadius,
		JumpThreshold:        n.JumpThreshold,
		MaxSamples:           n.MaxSamples,
	}
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// NewLogger builds a logger writing to w in the configured format and level.
func NewLogger(c LogConfig, w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
