package lint

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/lessonkit/internal/corpus"
	"git.home.luguber.info/inful/lessonkit/internal/frontmatter"
	"git.home.luguber.info/inful/lessonkit/internal/lesson"
	"git.home.luguber.info/inful/lessonkit/internal/toc"
)

// Fixer applies the automatic fixes the lint rules suggest: regenerating
// stale ToC blocks, inserting missing ones, and adding missing uids.
type Fixer struct {
	cfg    *Config
	dryRun bool
}

// NewFixer creates a fixer. With dryRun set, no file is written.
func NewFixer(cfg *Config, dryRun bool) *Fixer {
	if cfg == nil {
		cfg = &Config{TocDepth: 2}
	}
	return &Fixer{cfg: cfg, dryRun: dryRun}
}

// FixOp records one applied (or planned) fix.
type FixOp struct {
	FilePath    string
	Description string
}

// FixResult summarizes a fixer run.
type FixResult struct {
	DryRun     bool
	FilesTotal int
	Ops        []FixOp
	Failed     []FixOp // ops that could not be written
}

// Summary returns a one-line human summary.
func (r *FixResult) Summary() string {
	verb := "Fixed"
	if r.DryRun {
		verb = "Would fix"
	}
	return fmt.Sprintf("%s %d issue%s across %d file%s",
		verb, len(r.Ops), pluralize(len(r.Ops)), r.FilesTotal, pluralize(r.FilesTotal))
}

// HasErrors reports whether any fix failed to apply.
func (r *FixResult) HasErrors() bool { return len(r.Failed) > 0 }

// Fix parses each file and applies every applicable fix.
func (f *Fixer) Fix(files []corpus.File) (*FixResult, error) {
	result := &FixResult{DryRun: f.dryRun}

	for _, file := range files {
		doc, err := lesson.ParseFile(file.Path)
		if err != nil {
			// Unparseable lessons are lint errors; the fixer has nothing to
			// work with.
			slog.Debug("Skipping unfixable lesson", "path", file.RelativePath, "error", err)
			continue
		}

		content, ops := f.apply(doc)
		if len(ops) == 0 {
			continue
		}
		result.FilesTotal++

		for i := range ops {
			ops[i].FilePath = file.RelativePath
		}

		if f.dryRun {
			result.Ops = append(result.Ops, ops...)
			continue
		}

		if err := os.WriteFile(file.Path, content, 0o644); err != nil {
			slog.Error("Failed to write fixed lesson", "path", file.RelativePath, "error", err)
			result.Failed = append(result.Failed, ops...)
			continue
		}
		result.Ops = append(result.Ops, ops...)
	}

	return result, nil
}

// apply computes the fixed content for one lesson. It reparses between fixes
// so line numbers stay accurate after content shifts.
func (f *Fixer) apply(doc *lesson.Lesson) ([]byte, []FixOp) {
	var ops []FixOp
	content := doc.Raw()

	if f.cfg.RequireUID && doc.Meta.UID == "" {
		fixed, err := addUID(doc)
		if err == nil {
			content = fixed
			ops = append(ops, FixOp{Description: "added frontmatter uid"})
			doc = reparse(doc.Path, content, doc)
		}
	}

	if fixed, op, changed := f.fixToc(doc); changed {
		content = fixed
		ops = append(ops, op)
	}

	return content, ops
}

func (f *Fixer) fixToc(doc *lesson.Lesson) ([]byte, FixOp, bool) {
	content := doc.Raw()

	blk, found, err := toc.Extract(content, f.cfg.TocDepth)
	if err != nil {
		// An unterminated block cannot be rewritten safely.
		return nil, FixOp{}, false
	}

	if found {
		generated := toc.Generate(doc, blk.DepthFrom)
		if toc.Equal(blk.Entries, generated) {
			return nil, FixOp{}, false
		}
		return toc.Rewrite(content, blk, generated),
			FixOp{Description: "regenerated ToC block"}, true
	}

	generated := toc.Generate(doc, f.cfg.TocDepth)
	if len(generated) == 0 || len(doc.H1Lines) == 0 {
		return nil, FixOp{}, false
	}
	return toc.Insert(content, doc.H1Lines[0], f.cfg.TocDepth, generated),
		FixOp{Description: "inserted ToC block"}, true
}

// addUID writes a fresh UUID into the lesson frontmatter, creating the block
// when the lesson has none.
func addUID(doc *lesson.Lesson) ([]byte, error) {
	meta := doc.Meta
	meta.UID = uuid.NewString()

	fm, err := meta.Serialize()
	if err != nil {
		return nil, err
	}

	style := doc.Style()
	if style.Newline == "\r\n" {
		fm = []byte(strings.ReplaceAll(string(fm), "\n", "\r\n"))
	}
	return frontmatter.Join(fm, doc.Body(), true, style), nil
}

func reparse(path string, content []byte, fallback *lesson.Lesson) *lesson.Lesson {
	doc, err := lesson.Parse(path, content)
	if err != nil {
		return fallback
	}
	return doc
}
