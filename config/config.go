// Package config provides configuration loading and access for the simulator.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulator configuration parameters.
type Config struct {
	Ecosystem  EcosystemConfig  `yaml:"ecosystem"`
	Simulation SimulationConfig `yaml:"simulation"`
	Catalog    []SpeciesConfig  `yaml:"catalog"`
	Search     SearchConfig     `yaml:"search"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// EcosystemConfig holds the starting state of the ecosystem built at startup.
type EcosystemConfig struct {
	Resources   int64   `yaml:"resources"`
	GrowthRate  float64 `yaml:"growth_rate"`  // Resource regeneration factor
	SeedCatalog bool    `yaml:"seed_catalog"` // Populate with the catalog species
}

// SimulationConfig holds generation driver parameters.
type SimulationConfig struct {
	DefaultGenerations int    `yaml:"default_generations"`
	Seed               int64  `yaml:"seed"` // 0 = time-based
	Mode               string `yaml:"mode"` // permanent | safe (headless runs)
}

// SpeciesConfig describes one catalog species.
type SpeciesConfig struct {
	Name         string  `yaml:"name"`
	Population   int64   `yaml:"population"`
	GrowthRate   float64 `yaml:"growth_rate"`
	MutationRate float64 `yaml:"mutation_rate"`
}

// SearchConfig holds species lookup parameters.
type SearchConfig struct {
	MaxSuggestions int `yaml:"max_suggestions"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	OutputDir           string  `yaml:"output_dir"` // "" disables CSV output
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	BoomMultiplier      float64 `yaml:"boom_multiplier"`
	PerfWindow          int     `yaml:"perf_window"`
	LogStats            bool    `yaml:"log_stats"`
}

// LoggingConfig holds logger parameters.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // auto | text | json
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	LogLevel slog.Level
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file. A catalog list replaces the default one.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Ecosystem.Resources < 0 {
		return fmt.Errorf("ecosystem.resources must be >= 0, got %d", c.Ecosystem.Resources)
	}
	if c.Ecosystem.GrowthRate < 0 {
		return fmt.Errorf("ecosystem.growth_rate must be >= 0, got %v", c.Ecosystem.GrowthRate)
	}
	switch strings.ToLower(c.Simulation.Mode) {
	case "", "permanent", "safe":
	default:
		return fmt.Errorf("simulation.mode must be permanent or safe, got %q", c.Simulation.Mode)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("logging.format must be auto, text or json, got %q", c.Logging.Format)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Simulation.DefaultGenerations < 1 {
		c.Simulation.DefaultGenerations = 1
	}
	if c.Search.MaxSuggestions < 0 {
		c.Search.MaxSuggestions = 0
	}
	if c.Telemetry.BookmarkHistorySize < 3 {
		c.Telemetry.BookmarkHistorySize = 3
	}
	if c.Telemetry.BoomMultiplier <= 1 {
		c.Telemetry.BoomMultiplier = 2
	}

	c.Derived.LogLevel = ParseLogLevel(c.Logging.Level)
}

// ParseLogLevel parses a case-insensitive level name, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SafeMode reports whether headless simulations should run on a copy.
func (c *Config) SafeMode() bool {
	return strings.EqualFold(c.Simulation.Mode, "safe")
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
