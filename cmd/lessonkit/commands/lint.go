package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"git.home.luguber.info/inful/lessonkit/internal/config"
	"git.home.luguber.info/inful/lessonkit/internal/corpus"
	"git.home.luguber.info/inful/lessonkit/internal/events"
	"git.home.luguber.info/inful/lessonkit/internal/lint"
	"git.home.luguber.info/inful/lessonkit/internal/runstore"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet  bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
	Fix    bool   `help:"Automatically fix issues where possible (requires confirmation)"`
	DryRun bool   `help:"Show what would be fixed without applying changes (requires --fix)"`
	Yes    bool   `short:"y" help:"Auto-confirm fixes without prompting (for CI/CD)"`

	Path string `arg:"" optional:"" help:"Corpus path to lint (defaults to corpus.root from the configuration)"`
}

// Run executes the lint command. Exit codes: 2 when errors are found, 1 when
// only warnings remain.
func (cmd *LintCmd) Run(_ *Global, root *CLI) error {
	if cmd.DryRun && !cmd.Fix {
		return errors.New("--dry-run requires --fix flag")
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	corpusRoot := cfg.Corpus.Root
	if cmd.Path != "" {
		corpusRoot = cmd.Path
	}
	if _, err := os.Stat(corpusRoot); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", corpusRoot)
	}

	files, err := corpus.NewDiscovery(corpusRoot, cfg.Corpus.Ignore).Discover()
	if err != nil {
		return err
	}

	lintCfg := &lint.Config{
		TocDepth:            cfg.Lint.TocDepth,
		RequireUID:          cfg.Lint.RequireUID,
		RequireCodeLanguage: cfg.Lint.RequireCodeLanguage,
		Quiet:               cmd.Quiet,
	}

	if cmd.Fix {
		return cmd.runFixer(lintCfg, files)
	}

	started := time.Now()
	result, err := lint.NewLinter(lintCfg).LintFiles(files)
	if err != nil {
		return fmt.Errorf("linting failed: %w", err)
	}

	cmd.recordRun(cfg, result, started)

	formatter := lint.NewFormatter(cmd.Format)
	if err := formatter.Format(os.Stdout, result, corpusRoot); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if result.HasErrors() {
		os.Exit(2) // Errors found (blocks publishing)
	} else if result.HasWarnings() && !cmd.Quiet {
		os.Exit(1)
	}
	return nil
}

// recordRun persists the run and publishes events when configured. Failures
// here never fail the lint itself.
func (cmd *LintCmd) recordRun(cfg *config.Config, result *lint.Result, started time.Time) {
	ctx := context.Background()

	if cfg.History.Enabled {
		store, err := runstore.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("Failed to open run history", "path", cfg.History.Path, "error", err)
		} else {
			if _, err := store.RecordResult(ctx, result, started, cfg.History.Keep); err != nil {
				slog.Warn("Failed to record lint run", "error", err)
			}
			_ = store.Close()
		}
	}
	if cfg.Events.Enabled {
		publisher, err := events.NewPublisher(&cfg.Events)
		if err != nil {
			slog.Warn("Failed to connect to event broker", "url", cfg.Events.NATSURL, "error", err)
		} else {
			if err := publisher.PublishResult(ctx, result); err != nil {
				slog.Warn("Failed to publish lint events", "error", err)
			}
			_ = publisher.Close()
		}
	}
}

func (cmd *LintCmd) runFixer(lintCfg *lint.Config, files []corpus.File) error {
	if !cmd.DryRun && !cmd.Yes {
		if !confirm(fmt.Sprintf("Apply automatic fixes to %d lesson files?", len(files))) {
			fmt.Fprintln(os.Stdout, "Aborted, no files changed.")
			return nil
		}
	}

	result, err := lint.NewFixer(lintCfg, cmd.DryRun).Fix(files)
	if err != nil {
		return fmt.Errorf("fixing failed: %w", err)
	}

	if cmd.DryRun {
		fmt.Fprintln(os.Stdout, "DRY RUN: No changes will be applied")
		fmt.Fprintln(os.Stdout)
	}
	for _, op := range result.Ops {
		fmt.Fprintf(os.Stdout, "  %s: %s\n", op.FilePath, op.Description)
	}
	for _, op := range result.Failed {
		fmt.Fprintf(os.Stdout, "  %s: %s (FAILED)\n", op.FilePath, op.Description)
	}
	fmt.Fprintf(os.Stdout, "\n%s\n", result.Summary())

	if result.HasErrors() {
		os.Exit(2)
	}
	return nil
}

// confirm prompts on stdin for a yes/no answer.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stdout, "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
