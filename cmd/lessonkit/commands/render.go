package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/lessonkit/internal/corpus"
	"git.home.luguber.info/inful/lessonkit/internal/htmlcheck"
	"git.home.luguber.info/inful/lessonkit/internal/render"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Output string `short:"o" help:"Output directory (overrides output.directory from the configuration)"`
	Verify bool   `help:"Verify internal links and anchors of the rendered site"`
}

// Run renders the corpus to static HTML. With --verify the exit code is 2
// when the rendered site contains broken internal links.
func (cmd *RenderCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cmd.Output != "" {
		cfg.Output.Directory = cmd.Output
	}

	files, err := corpus.NewDiscovery(cfg.Corpus.Root, cfg.Corpus.Ignore).Discover()
	if err != nil {
		return err
	}

	report, err := render.NewRenderer(cfg).RenderSite(files)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Rendered %d pages to %s in %s\n", report.Pages, report.OutputDir, report.Duration)

	if !cmd.Verify {
		return nil
	}

	problems, err := htmlcheck.VerifySite(report.OutputDir)
	if err != nil {
		return fmt.Errorf("verify site: %w", err)
	}
	if len(problems) == 0 {
		fmt.Fprintln(os.Stdout, "All internal links and anchors resolve.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n%d broken internal link(s):\n", len(problems))
	for _, p := range problems {
		fmt.Fprintf(os.Stdout, "  %s\n", p)
	}
	os.Exit(2)
	return nil
}
