package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/lessonkit/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Port int `short:"p" help:"HTTP port (overrides preview.port from the configuration)"`
}

// Run serves the rendered site with live rebuild until interrupted.
func (cmd *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cmd.Port != 0 {
		cfg.Preview.Port = cmd.Port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := preview.NewService(cfg)
	if err != nil {
		return err
	}

	slog.Info("Starting preview", "port", cfg.Preview.Port, "corpus", cfg.Corpus.Root)
	return svc.Run(ctx)
}
