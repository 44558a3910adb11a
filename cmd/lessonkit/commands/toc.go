package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/lessonkit/internal/corpus"
	"git.home.luguber.info/inful/lessonkit/internal/lesson"
	"git.home.luguber.info/inful/lessonkit/internal/toc"
)

// TocCmd implements the 'toc' command: checks ToC blocks against the section
// structure, or regenerates them in place.
type TocCmd struct {
	Write bool   `short:"w" help:"Rewrite stale ToC blocks and insert missing ones"`
	Path  string `arg:"" optional:"" help:"Corpus path (defaults to corpus.root from the configuration)"`
}

// Run executes the toc command. In check mode the exit code is 2 when any
// block is stale or missing.
func (cmd *TocCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	corpusRoot := cfg.Corpus.Root
	if cmd.Path != "" {
		corpusRoot = cmd.Path
	}

	files, err := corpus.NewDiscovery(corpusRoot, cfg.Corpus.Ignore).Discover()
	if err != nil {
		return err
	}

	stale := 0
	for _, f := range files {
		changed, desc, err := cmd.process(f, cfg.Lint.TocDepth)
		if err != nil {
			return fmt.Errorf("%s: %w", f.RelativePath, err)
		}
		if changed {
			stale++
			fmt.Fprintf(os.Stdout, "  %s: %s\n", f.RelativePath, desc)
		}
	}

	switch {
	case stale == 0:
		fmt.Fprintf(os.Stdout, "All %d lessons have up-to-date ToC blocks.\n", len(files))
	case cmd.Write:
		fmt.Fprintf(os.Stdout, "\nUpdated %d lesson(s).\n", stale)
	default:
		fmt.Fprintf(os.Stdout, "\n%d lesson(s) out of date. Run: lessonkit toc --write\n", stale)
		os.Exit(2)
	}
	return nil
}

// process checks one lesson, rewriting it when --write is set. It reports
// whether the lesson's ToC deviates from its sections.
func (cmd *TocCmd) process(f corpus.File, depth int) (bool, string, error) {
	doc, err := lesson.ParseFile(f.Path)
	if err != nil {
		return false, "", err
	}
	content := doc.Raw()

	blk, found, err := toc.Extract(content, depth)
	if err != nil {
		return false, "", err
	}

	var fixed []byte
	var desc string
	if found {
		generated := toc.Generate(doc, blk.DepthFrom)
		if toc.Equal(blk.Entries, generated) {
			return false, "", nil
		}
		fixed = toc.Rewrite(content, blk, generated)
		desc = "ToC block out of date"
	} else {
		generated := toc.Generate(doc, depth)
		if len(generated) == 0 || len(doc.H1Lines) == 0 {
			return false, "", nil
		}
		fixed = toc.Insert(content, doc.H1Lines[0], depth, generated)
		desc = "ToC block missing"
	}

	if !cmd.Write {
		return true, desc, nil
	}
	if err := os.WriteFile(f.Path, fixed, 0o644); err != nil {
		return false, "", err
	}
	return true, desc + " (rewritten)", nil
}
