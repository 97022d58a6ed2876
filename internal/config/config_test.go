package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cfnslim/internal/optimizer"
	"github.com/dshills/cfnslim/pkg/types"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, optimizer.DefaultLineThreshold, cfg.LineThreshold)
	assert.Len(t, cfg.Sections, 5)
	assert.Equal(t, "Outputs:", cfg.Sections[4].EndMarker)
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "testdata", "sections.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "template.yaml", cfg.Source)
	assert.Equal(t, "split", cfg.OutDir)
	assert.Equal(t, 100, cfg.LineThreshold)
	assert.Equal(t, optimizer.DefaultMaxBlankRun, cfg.MaxBlankRun, "unset keys keep defaults")
	require.Len(t, cfg.Sections, 3)
	assert.Equal(t, "core", cfg.Sections[0].Name)
	assert.Equal(t, "  # ==========================================\n  # Core Infrastructure", cfg.Sections[0].StartMarker)
	assert.Empty(t, cfg.Sections[2].EndMarker)
	assert.Contains(t, cfg.Preamble, "{{ .Description }}")
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Source, cfg.Source)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections: [\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvSource, "/tmp/other.yaml")
	t.Setenv(EnvOutDir, "/tmp/out")
	t.Setenv(EnvLineThreshold, "42")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg, err := Load(filepath.Join("..", "..", "testdata", "sections.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.yaml", cfg.Source)
	assert.Equal(t, "/tmp/out", cfg.OutDir)
	assert.Equal(t, 42, cfg.LineThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvThresholdIgnoredWhenNotNumeric(t *testing.T) {
	t.Setenv(EnvLineThreshold, "many")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, optimizer.DefaultLineThreshold, cfg.LineThreshold)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty source", func(c *Config) { c.Source = " " }, "source path is required"},
		{"empty out dir", func(c *Config) { c.OutDir = "" }, "output directory is required"},
		{"empty optimized", func(c *Config) { c.Optimized = "" }, "optimized output path is required"},
		{"zero threshold", func(c *Config) { c.LineThreshold = 0 }, "line_threshold must be positive"},
		{"negative blank run", func(c *Config) { c.MaxBlankRun = -1 }, "max_blank_run must be >= 0"},
		{"no sections", func(c *Config) { c.Sections = nil }, "at least one section is required"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "unknown log level"},
		{
			"invalid section",
			func(c *Config) { c.Sections = []types.SectionSpec{{Name: "a/b", StartMarker: "x"}} },
			types.ErrInvalidName.Error(),
		},
		{
			"duplicate output",
			func(c *Config) {
				c.Sections = []types.SectionSpec{
					{Name: "core", StartMarker: "x"},
					{Name: "core.yaml", StartMarker: "y"},
				}
			},
			types.ErrDuplicateOutput.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)

	want := DefaultConfig()
	want.LineThreshold = 1234
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
