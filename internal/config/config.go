// Package config loads and validates the lessonkit.yaml configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Corpus  CorpusConfig  `yaml:"corpus"`
	Site    SiteConfig    `yaml:"site"`
	Output  OutputConfig  `yaml:"output"`
	Lint    LintConfig    `yaml:"lint"`
	History HistoryConfig `yaml:"history"`
	Preview PreviewConfig `yaml:"preview"`
	Events  EventsConfig  `yaml:"events"`
}

// CorpusConfig locates the lesson corpus.
type CorpusConfig struct {
	Root   string   `yaml:"root"`
	Ignore []string `yaml:"ignore,omitempty"` // glob patterns, relative paths or basenames
}

// SiteConfig describes the rendered site.
type SiteConfig struct {
	Title       string `yaml:"title"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// OutputConfig controls where the rendered site goes.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // remove the directory before rendering
}

// LintConfig tunes the lint rules.
type LintConfig struct {
	TocDepth            int  `yaml:"toc_depth"`             // depthFrom default for documents without a marker attribute
	RequireUID          bool `yaml:"require_uid"`           // enable the frontmatter-uid rule
	RequireCodeLanguage bool `yaml:"require_code_language"` // warn on untagged example fences
}

// HistoryConfig controls the lint-run history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"` // sqlite file, ":memory:" for ephemeral
	Keep    int    `yaml:"keep,omitempty"` // runs retained, 0 = unlimited
}

// PreviewConfig tunes the preview server.
type PreviewConfig struct {
	Port           int      `yaml:"port"`
	Debounce       Duration `yaml:"debounce,omitempty"`        // rebuild debounce after file events
	RelintInterval Duration `yaml:"relint_interval,omitempty"` // scheduled full relint, 0 disables
}

// EventsConfig controls NATS publication of lint issues.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
	Stream  string `yaml:"stream,omitempty"`
}

// Duration wraps time.Duration with YAML string parsing ("500ms", "10m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads, expands, defaults, and validates a configuration file.
func Load(path string) (*Config, error) {
	// .env files are optional; existing process env always wins.
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("load %s: %w", envPath, err)
			}
			break
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s (run 'lessonkit init')", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Corpus.Root == "" {
		return fmt.Errorf("corpus.root must be set")
	}
	if c.Lint.TocDepth < 1 || c.Lint.TocDepth > 6 {
		return fmt.Errorf("lint.toc_depth must be between 1 and 6, got %d", c.Lint.TocDepth)
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return fmt.Errorf("preview.port out of range: %d", c.Preview.Port)
	}
	if c.Events.Enabled && c.Events.NATSURL == "" {
		return fmt.Errorf("events.nats_url must be set when events are enabled")
	}
	if c.History.Keep < 0 {
		return fmt.Errorf("history.keep must not be negative")
	}
	return nil
}
