// Package config provides configuration management for mathcalc.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/mathcalc/internal/fileutil"
	"github.com/ternarybob/mathcalc/pkg/calc"
	"github.com/ternarybob/mathcalc/pkg/calculator"
	"github.com/ternarybob/mathcalc/pkg/chart"
)

// Config represents the service configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service" toml:"service"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	API      APIConfig      `yaml:"api" toml:"api"`
	MCP      MCPConfig      `yaml:"mcp" toml:"mcp"`
	Chart    ChartConfig    `yaml:"chart" toml:"chart"`
	Calc     CalcConfig     `yaml:"calc" toml:"calc"`
	Settings SettingsConfig `yaml:"settings" toml:"settings"`
}

// ServiceConfig contains service-level settings.
type ServiceConfig struct {
	Host           string        `yaml:"host" toml:"host"`
	Port           int           `yaml:"port" toml:"port"`
	DataDir        string        `yaml:"data_dir" toml:"data_dir"`
	RequestTimeout time.Duration `yaml:"request_timeout" toml:"request_timeout"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	Level      string   `yaml:"level" toml:"level"`
	Format     string   `yaml:"format" toml:"format"` // "json" or "text"
	Output     []string `yaml:"output" toml:"output"` // "console", "file" or "both"
	TimeFormat string   `yaml:"time_format" toml:"time_format"`
	MaxSizeMB  int      `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int      `yaml:"max_backups" toml:"max_backups"`
}

// APIConfig contains API settings.
type APIConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	APIKey  string `yaml:"api_key" toml:"api_key"`
}

// MCPConfig contains MCP server settings.
type MCPConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// ChartConfig controls chart rendering and library acquisition.
type ChartConfig struct {
	Sources      []string      `yaml:"sources" toml:"sources"`
	RichEnabled  bool          `yaml:"rich_enabled" toml:"rich_enabled"`
	FallbackWait time.Duration `yaml:"fallback_wait" toml:"fallback_wait"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" toml:"fetch_timeout"`
	RetryAfter   time.Duration `yaml:"retry_after" toml:"retry_after"`
	Width        int           `yaml:"width" toml:"width"`
	Height       int           `yaml:"height" toml:"height"`
}

// CalcConfig tunes the evaluators.
type CalcConfig struct {
	CubicZeroTolerance  float64 `yaml:"cubic_zero_tolerance" toml:"cubic_zero_tolerance"`
	ExactPowerTolerance float64 `yaml:"exact_power_tolerance" toml:"exact_power_tolerance"`
	SieveLimit          int64   `yaml:"sieve_limit" toml:"sieve_limit"`
	SieveChunk          int64   `yaml:"sieve_chunk" toml:"sieve_chunk"`
	GrowthRate          float64 `yaml:"growth_rate" toml:"growth_rate"`
	Samples             int     `yaml:"samples" toml:"samples"`
}

// SettingsConfig selects the settings store.
type SettingsConfig struct {
	Backend string `yaml:"backend" toml:"backend"` // "sqlite" or "memory"
	Path    string `yaml:"path" toml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Host:           "127.0.0.1",
			Port:           8430,
			DataDir:        DefaultDataDir(),
			RequestTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"console"},
			TimeFormat: "15:04:05.000",
			MaxSizeMB:  100,
			MaxBackups: 5,
		},
		API: APIConfig{
			Enabled: true,
			APIKey:  "", // Empty = no auth for localhost
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Chart: ChartConfig{
			Sources:      append([]string(nil), chart.DefaultSources...),
			RichEnabled:  true,
			FallbackWait: chart.DefaultFallbackWait,
			FetchTimeout: chart.DefaultLoadTimeout,
			RetryAfter:   chart.DefaultRetryAfter,
			Width:        chart.DefaultWidth,
			Height:       chart.DefaultHeight,
		},
		Calc: CalcConfig{
			CubicZeroTolerance:  calc.DefaultCubicZeroTolerance,
			ExactPowerTolerance: calc.DefaultExactPowerTolerance,
			SieveLimit:          calc.DefaultSieveLimit,
			SieveChunk:          calc.DefaultSieveChunk,
			GrowthRate:          calc.DefaultGrowthRate,
		},
		Settings: SettingsConfig{
			Backend: "sqlite",
		},
	}
}

// DefaultDataDir returns the default data directory based on OS.
func DefaultDataDir() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "mathcalc")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "AppData", "Roaming", "mathcalc")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "mathcalc")
	default: // linux and others
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData != "" {
			return filepath.Join(xdgData, "mathcalc")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".mathcalc")
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.toml")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load loads configuration from a TOML (.toml) or YAML file. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables in the config
	expanded := os.ExpandEnv(string(data))

	if isTOML(path) {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	} else if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if strings.HasPrefix(cfg.Service.DataDir, "~/") {
		home, _ := os.UserHomeDir()
		cfg.Service.DataDir = filepath.Join(home, cfg.Service.DataDir[2:])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	if c.Service.Port < 0 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid service port: %d", c.Service.Port)
	}
	switch strings.ToLower(c.Settings.Backend) {
	case "", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid settings backend: %s", c.Settings.Backend)
	}
	if c.Calc.SieveLimit < 0 || c.Calc.SieveChunk < 0 {
		return fmt.Errorf("sieve sizes must not be negative")
	}
	return nil
}

// Save saves the configuration to a file, as TOML when path ends in .toml
// and YAML otherwise.
func (c *Config) Save(path string) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	if err := fileutil.WriteFile(path, data); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Address returns the full address string for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.Port)
}

// LogPath returns the path to the service log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Service.DataDir, "logs", "mathcalc.log")
}

// PIDPath returns the path to the daemon PID file.
func (c *Config) PIDPath() string {
	return filepath.Join(c.Service.DataDir, "mathcalc.pid")
}

// SettingsPath returns the settings database path.
func (c *Config) SettingsPath() string {
	if c.Settings.Path != "" {
		return c.Settings.Path
	}
	return filepath.Join(c.Service.DataDir, "data", "settings.db")
}

// EnsureDirectories creates all necessary directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Service.DataDir,
		filepath.Dir(c.LogPath()),
		filepath.Dir(c.SettingsPath()),
	}

	for _, dir := range dirs {
		if err := fileutil.EnsureDir(dir); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// CalculatorOptions maps the calc section onto page options.
func (c *Config) CalculatorOptions() calculator.Options {
	return calculator.Options{
		Calc: calc.Options{
			CubicZeroTolerance:  c.Calc.CubicZeroTolerance,
			ExactPowerTolerance: c.Calc.ExactPowerTolerance,
			SieveLimit:          c.Calc.SieveLimit,
			SieveChunk:          c.Calc.SieveChunk,
			GrowthRate:          c.Calc.GrowthRate,
		},
		Samples: c.Calc.Samples,
	}
}
