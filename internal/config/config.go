// Package config implements the engine's YAML-loaded configuration,
// grounded on the teacher's own use of gopkg.in/yaml.v3 for its server
// configuration file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nanosql/nanosql/internal/enginelog"
)

// Config is the top-level configuration document.
type Config struct {
	// Tenant is the default tenant namespace new connections use when none
	// is specified explicitly.
	Tenant string `yaml:"tenant"`
	// QueryCacheSize bounds the number of compiled statements kept ready
	// for re-execution without re-parsing.
	QueryCacheSize int `yaml:"query_cache_size"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Tenant:         "default",
		QueryCacheSize: 128,
		LogLevel:       "info",
	}
}

// Load reads and parses a YAML configuration file, filling in Default()
// values for anything left unset.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LogLevelValue maps the configured LogLevel string to an enginelog.Level,
// defaulting to Info for an unrecognized or empty value.
func (c Config) LogLevelValue() enginelog.Level {
	switch c.LogLevel {
	case "debug":
		return enginelog.Debug
	case "warn":
		return enginelog.Warn
	case "error":
		return enginelog.Error
	default:
		return enginelog.Info
	}
}
