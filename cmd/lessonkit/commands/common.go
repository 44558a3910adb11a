// Package commands defines the lessonkit CLI surface.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/lessonkit/internal/config"
)

// Global carries state shared by subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command grammar and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"lessonkit.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Lint    LintCmd    `cmd:"" help:"Check corpus structural integrity (ToC sync, anchors, fences, links)"`
	Toc     TocCmd     `cmd:"" help:"Check or regenerate table-of-contents blocks"`
	Render  RenderCmd  `cmd:"" help:"Render the corpus to a static HTML site"`
	Preview PreviewCmd `cmd:"" help:"Serve the rendered site locally with live rebuild"`
	History HistoryCmd `cmd:"" help:"Show recent lint run history"`
}

// AfterApply runs after flag parsing; sets up logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration named by the root -c flag.
func loadConfig(root *CLI) (*config.Config, error) {
	return config.Load(root.Config)
}
