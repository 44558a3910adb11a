package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/lessonkit/cmd/lessonkit/commands"
	"git.home.luguber.info/inful/lessonkit/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("lessonkit"),
		kong.Description("Maintain a markdown lesson corpus: lint structure, sync ToC blocks, render and preview the site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()})
	ctx.FatalIfErrorf(err)
}
