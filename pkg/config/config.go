// Package config loads the nodegraph tool configuration from YAML with
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
	"github.com/dd0wney/cluso-nodegraph/pkg/validation"
)

// Environment variables that override file values.
const (
	EnvLogLevel  = "NODEGRAPH_LOG_LEVEL"
	EnvLogFormat = "NODEGRAPH_LOG_FORMAT"
	EnvListen    = "NODEGRAPH_LISTEN"
)

// Defaults
const (
	DefaultListen          = ":8080"
	DefaultGraphQLPath     = "/graphql"
	DefaultMetricsPath     = "/metrics"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxDirtyWarn    = 10000
)

// Config is the full tool configuration.
type Config struct {
	Log         LogConfig         `yaml:"log"`
	Propagation PropagationConfig `yaml:"propagation"`
	Server      ServerConfig      `yaml:"server"`
	Clipboard   ClipboardConfig   `yaml:"clipboard"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PropagationConfig struct {
	// MaxDirtyWarn logs a warning when a flush carries more nodes. 0 disables it.
	MaxDirtyWarn int `yaml:"max_dirty_warn"`
}

type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	GraphQLPath     string        `yaml:"graphql_path"`
	MetricsPath     string        `yaml:"metrics_path"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type ClipboardConfig struct {
	Compress bool `yaml:"compress"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:         LogConfig{Level: "info", Format: "json"},
		Propagation: PropagationConfig{MaxDirtyWarn: DefaultMaxDirtyWarn},
		Server: ServerConfig{
			Listen:          DefaultListen,
			GraphQLPath:     DefaultGraphQLPath,
			MetricsPath:     DefaultMetricsPath,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Clipboard: ClipboardConfig{Compress: true},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path yields the defaults with overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := Parse(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. Keys absent from data keep cfg's values;
// unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields from the environment through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	c.Log.Level = validation.DefaultOr(getenv(EnvLogLevel), c.Log.Level)
	c.Log.Format = validation.DefaultOr(getenv(EnvLogFormat), c.Log.Format)
	c.Server.Listen = validation.DefaultOr(getenv(EnvListen), c.Server.Listen)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	return validation.NewConfigValidator("Config").
		OneOf("log.level", c.Log.Level, []string{"debug", "info", "warn", "error"}).
		OneOf("log.format", c.Log.Format, []string{"json", "text"}).
		NonNegative("propagation.max_dirty_warn", c.Propagation.MaxDirtyWarn).
		ListenAddr("server.listen", c.Server.Listen).
		URLPath("server.graphql_path", c.Server.GraphQLPath).
		URLPath("server.metrics_path", c.Server.MetricsPath).
		DistinctPaths("server.metrics_path", c.Server.MetricsPath, "graphql_path", c.Server.GraphQLPath).
		MinDuration("server.shutdown_timeout", c.Server.ShutdownTimeout, time.Second).
		Validate()
}

// Logger builds the logger described by the log section, writing to w.
func (c *Config) Logger(w io.Writer) logging.Logger {
	format := logging.FormatJSON
	if strings.EqualFold(c.Log.Format, "text") {
		format = logging.FormatText
	}
	return logging.New(w, logging.ParseLevel(c.Log.Level), format)
}
