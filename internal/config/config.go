// Package config loads gorecon configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/alexiusacademia/gorecon/internal/logging"
)

// EnvPrefix is the prefix of environment variable overrides
const EnvPrefix = "GORECON_"

const maxConfigFileSize = 1024 * 1024 // 1MB

// Matching holds the pairing parameters
type Matching struct {
	MatchThreshold float64 `json:"match_threshold" koanf:"match_threshold"`
}

// Config is the complete run configuration
type Config struct {
	Extraction criteria.Settings   `json:"extraction" koanf:"extraction"`
	Matching   Matching            `json:"matching" koanf:"matching"`
	Tolerances criteria.Tolerances `json:"tolerances" koanf:"tolerances"`
	Logging    logging.Config      `json:"logging" koanf:"logging"`
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Extraction: criteria.DefaultSettings(),
		Matching:   Matching{MatchThreshold: criteria.DefaultMatchThreshold},
		Tolerances: criteria.DefaultTolerances(),
		Logging:    logging.DefaultConfig(),
	}
}

// Settings returns the extraction settings with the matching threshold applied
func (c Config) Settings() criteria.Settings {
	s := c.Extraction
	s.MatchThreshold = c.Matching.MatchThreshold
	return s
}

// Validate checks every section of the configuration
func (c Config) Validate() error {
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Tolerances.Validate(); err != nil {
		return fmt.Errorf("tolerances: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Load reads configuration from a YAML file, then overrides it with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (GORECON_MATCHING_MATCH_THRESHOLD, ...)
//  2. YAML config file
//  3. Defaults
//
// An empty path skips the file. Environment variables map onto keys by
// dropping the prefix, lowercasing and splitting on the first underscore:
//
//	GORECON_MATCHING_MATCH_THRESHOLD -> matching.match_threshold
//	GORECON_EXTRACTION_RDP_EPSILON   -> extraction.rdp_epsilon
//	GORECON_LOGGING_LEVEL            -> logging.level
//
// Nested tables (tolerances, ramp width range) are only read from the file.
func Load(path string) (Config, error) {
	var content []byte
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return Config{}, fmt.Errorf("failed to stat config file: %w", err)
		}
		if info.Size() > maxConfigFileSize {
			return Config{}, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
		}

		content, err = io.ReadAll(f)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return Parse(content)
}

// Parse builds the configuration from YAML content and the environment
func Parse(content []byte) (Config, error) {
	k := koanf.New(".")

	if len(content) > 0 {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps GORECON_SECTION_FIELD_NAME to section.field_name
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}
