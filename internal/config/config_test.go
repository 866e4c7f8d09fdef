package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gorecon/internal/config"
	"github.com/alexiusacademia/gorecon/internal/criteria"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, criteria.DefaultSettings(), cfg.Extraction)
	assert.Equal(t, criteria.DefaultMatchThreshold, cfg.Matching.MatchThreshold)
	assert.Equal(t, criteria.DefaultTolerances(), cfg.Tolerances)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

// TestSettingsUsesMatchingThreshold: the matching section wins over the extraction copy.
func TestSettingsUsesMatchingThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.Extraction.MatchThreshold = 1
	cfg.Matching.MatchThreshold = 6
	assert.Equal(t, 6.0, cfg.Settings().MatchThreshold)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		env      map[string]string
		validate func(*testing.T, config.Config)
	}{
		{
			name: "empty content gives defaults",
			validate: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, config.Default(), cfg)
			},
		},
		{
			name: "yaml overrides",
			yaml: `
extraction:
  rdp_epsilon: 0.25
  ramp_width_range:
    min: 18
    max: 35
matching:
  match_threshold: 5
tolerances:
  berm_width:
    target: 10
    neg: -1.5
    pos: 2.5
    unit: m
logging:
  level: debug
  format: json
`,
			validate: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, 0.25, cfg.Extraction.RDPEpsilon)
				assert.Equal(t, criteria.Range{Min: 18, Max: 35}, cfg.Extraction.RampWidthRange)
				assert.Equal(t, 5.0, cfg.Settings().MatchThreshold)
				assert.Equal(t, criteria.ToleranceSpec{Target: 10, Neg: -1.5, Pos: 2.5, Unit: "m"}, cfg.Tolerances.BermWidth)
				assert.Equal(t, "json", cfg.Logging.Format)

				// untouched keys keep their defaults
				assert.Equal(t, criteria.DefaultFaceThreshold, cfg.Extraction.FaceThreshold)
				assert.Equal(t, criteria.DefaultTolerances().FaceAngle, cfg.Tolerances.FaceAngle)
			},
		},
		{
			name: "environment overrides file",
			yaml: "matching:\n  match_threshold: 5\n",
			env: map[string]string{
				"GORECON_MATCHING_MATCH_THRESHOLD": "3.5",
				"GORECON_EXTRACTION_RDP_EPSILON":   "0.2",
				"GORECON_LOGGING_LEVEL":            "error",
			},
			validate: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, 3.5, cfg.Matching.MatchThreshold)
				assert.Equal(t, 0.2, cfg.Extraction.RDPEpsilon)
				assert.Equal(t, "error", cfg.Logging.Level)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := config.Parse([]byte(tt.yaml))
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "extraction: [", "failed to parse config"},
		{"inverted thresholds", "extraction:\n  berm_threshold: 50\n", "berm_threshold"},
		{"negative epsilon", "extraction:\n  rdp_epsilon: -1\n", "rdp_epsilon"},
		{"unknown log level", "logging:\n  level: loud\n", "invalid log level"},
		{"unknown log format", "logging:\n  format: xml\n", "invalid log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should mention %q", err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gorecon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matching:\n  match_threshold: 4\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.Matching.MatchThreshold)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsLargeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.yaml")
	require.NoError(t, os.WriteFile(path, make([]byte, 1024*1024+1), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}
