// Package config loads and validates application configuration from YAML
// files with environment-variable overrides. It provides typed structs
// for every subsystem the CLI touches (corpus location, search defaults,
// logging, metrics, the serve-mode HTTP address).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Corpus  CorpusConfig  `yaml:"corpus"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Server  ServerConfig  `yaml:"server"`
}

// CorpusConfig points at the directory of documents to index and the
// directory the index persists into.
type CorpusConfig struct {
	Directory string `yaml:"directory"`
	DataDir   string `yaml:"dataDir"`
}

// SearchConfig controls default query behavior.
type SearchConfig struct {
	DefaultStrategy string `yaml:"defaultStrategy"`
	DefaultLimit    int    `yaml:"defaultLimit"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the optional Prometheus metrics server used by
// the serve subcommand.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// ServerConfig holds the HTTP address and request timeout the serve
// subcommand binds.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// Load reads a YAML config file (if provided) and applies environment
// variable overrides, returning a Config populated with sensible
// defaults for any missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Directory: "./corpus",
			DataDir:   "./data",
		},
		Search: SearchConfig{
			DefaultStrategy: "and",
			DefaultLimit:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 10 * time.Second,
		},
	}
}

// applyEnvOverrides reads SEARCH100_* environment variables and
// overrides the corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SEARCH100_CORPUS_DIRECTORY"); v != "" {
		cfg.Corpus.Directory = v
	}
	if v := os.Getenv("SEARCH100_CORPUS_DATA_DIR"); v != "" {
		cfg.Corpus.DataDir = v
	}
	if v := os.Getenv("SEARCH100_SEARCH_DEFAULT_STRATEGY"); v != "" {
		cfg.Search.DefaultStrategy = v
	}
	if v := os.Getenv("SEARCH100_SEARCH_DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.DefaultLimit = n
		}
	}
	if v := os.Getenv("SEARCH100_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SEARCH100_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SEARCH100_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("SEARCH100_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = n
		}
	}
	if v := os.Getenv("SEARCH100_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SEARCH100_SERVER_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.RequestTimeout = d
		}
	}
}
