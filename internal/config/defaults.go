package config

import "time"

// Default values applied after unmarshalling. Zero values that have a
// meaningful "off" interpretation (history.keep, relint_interval) are left
// alone.
const (
	DefaultCorpusRoot    = "./lessons"
	DefaultOutputDir     = "./site"
	DefaultSiteTitle     = "Lessons"
	DefaultTocDepth      = 2
	DefaultPreviewPort   = 8080
	DefaultDebounce      = 500 * time.Millisecond
	DefaultHistoryPath   = "./lessonkit.db"
	DefaultEventsSubject = "lessonkit.lint.issue"
	DefaultEventsStream  = "LESSONKIT"
)

func (c *Config) applyDefaults() {
	if c.Corpus.Root == "" {
		c.Corpus.Root = DefaultCorpusRoot
	}
	if c.Site.Title == "" {
		c.Site.Title = DefaultSiteTitle
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Lint.TocDepth == 0 {
		c.Lint.TocDepth = DefaultTocDepth
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPreviewPort
	}
	if c.Preview.Debounce == 0 {
		c.Preview.Debounce = Duration(DefaultDebounce)
	}
	if c.History.Enabled && c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
	if c.Events.Subject == "" {
		c.Events.Subject = DefaultEventsSubject
	}
	if c.Events.Stream == "" {
		c.Events.Stream = DefaultEventsStream
	}
}

// Default returns a configuration with every default applied, used by
// commands that can run without a config file on disk.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
