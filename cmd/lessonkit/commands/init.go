package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/lessonkit/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

// Run writes a starter configuration file.
func (cmd *InitCmd) Run(_ *Global, root *CLI) error {
	slog.Info("Initializing configuration", "path", root.Config, "force", cmd.Force)
	return config.Init(root.Config, cmd.Force)
}
