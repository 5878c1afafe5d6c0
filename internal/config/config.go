package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/vpatch/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vpatch.json"

	// DefaultIndent is the default pretty-print indentation.
	DefaultIndent = "  "

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "vpatch"

	// DefaultAddr is the default listen address of vpatch serve.
	DefaultAddr = "localhost:8080"
)

// Config represents the complete vpatch.json configuration.
type Config struct {
	// Render contains HTML output configuration.
	Render RenderConfig `json:"render"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Server contains configuration for vpatch serve.
	Server ServerConfig `json:"server"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RenderConfig contains HTML output settings.
type RenderConfig struct {
	// Pretty enables indented HTML output.
	Pretty bool `json:"pretty"`

	// Indent is the indentation string used when Pretty is set.
	Indent string `json:"indent,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// ServerConfig contains HTTP service settings.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `json:"addr,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory. A directory
// without vpatch.json yields the defaults.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	if !Exists(dir) {
		cfg := New()
		cfg.configPath = configPath
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeBadConfig).
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeBadConfig).
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeBadConfig).Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeBadConfig).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Render.Indent == "" {
		c.Render.Indent = DefaultIndent
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return errors.New(errors.CodeBadConfig).
			WithDetail("log.level must be one of debug, info, warn, error; got " + c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeBadConfig).
			WithDetail("log.format must be text or json; got " + c.Log.Format)
	}
	if strings.TrimSpace(c.Render.Indent) != "" {
		return errors.New(errors.CodeBadConfig).
			WithDetail("render.indent must contain only whitespace")
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.New(errors.CodeBadConfig).
			WithDetail("server.addr must be host:port").
			Wrap(err)
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	return levels[strings.ToLower(c.Log.Level)]
}

// NewLogger builds a logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindRoot walks up from startDir to the first directory holding
// vpatch.json. It returns startDir when none is found.
func FindRoot(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return startDir
	}
	for {
		if Exists(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}
