package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lessonkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "corpus:\n  root: ./docs\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./docs", cfg.Corpus.Root)
	assert.Equal(t, DefaultSiteTitle, cfg.Site.Title)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	assert.Equal(t, DefaultTocDepth, cfg.Lint.TocDepth)
	assert.Equal(t, DefaultPreviewPort, cfg.Preview.Port)
	assert.Equal(t, DefaultDebounce, cfg.Preview.Debounce.Std())
	assert.Equal(t, DefaultEventsSubject, cfg.Events.Subject)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lessonkit init")
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("LESSONS_DIR", "/srv/lessons")
	path := writeConfig(t, "corpus:\n  root: ${LESSONS_DIR}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/lessons", cfg.Corpus.Root)
}

func TestLoad_ParsesDurations(t *testing.T) {
	path := writeConfig(t, `
corpus:
  root: ./lessons
preview:
  debounce: 250ms
  relint_interval: 10m
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Preview.Debounce.Std())
	assert.Equal(t, 10*time.Minute, cfg.Preview.RelintInterval.Std())
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "preview:\n  debounce: soon\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"toc depth too small", func(c *Config) { c.Lint.TocDepth = -1 }, "toc_depth"},
		{"toc depth too large", func(c *Config) { c.Lint.TocDepth = 7 }, "toc_depth"},
		{"port out of range", func(c *Config) { c.Preview.Port = 70000 }, "port"},
		{"events without url", func(c *Config) { c.Events.Enabled = true }, "nats_url"},
		{"negative retention", func(c *Config) { c.History.Keep = -1 }, "history.keep"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lessonkit.yaml")

	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./lessons", cfg.Corpus.Root)
	assert.Equal(t, "Python Lessons", cfg.Site.Title)
	assert.True(t, cfg.Lint.RequireCodeLanguage)

	// Refuses to overwrite without force.
	assert.Error(t, Init(path, false))
	assert.NoError(t, Init(path, true))
}

func TestHistoryPathDefaultOnlyWhenEnabled(t *testing.T) {
	path := writeConfig(t, "history:\n  enabled: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultHistoryPath, cfg.History.Path)

	cfg2 := Default()
	assert.Empty(t, cfg2.History.Path)
}
