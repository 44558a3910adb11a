package lint

import (
	"fmt"
	"path"
	"sort"

	"git.home.luguber.info/inful/lessonkit/internal/corpus"
	"git.home.luguber.info/inful/lessonkit/internal/lesson"
)

// Rule checks a single parsed lesson.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check inspects a lesson and returns any issues found. Findings are
	// Issues, never errors; rules have nothing to fail on once parsing
	// succeeded.
	Check(doc *lesson.Lesson) []Issue
}

// CorpusRule checks properties that span lessons (cross-references).
type CorpusRule interface {
	Name() string
	CheckCorpus(docs []*Document) []Issue
}

// Document pairs a parsed lesson with its corpus-relative path.
type Document struct {
	RelativePath string
	Lesson       *lesson.Lesson
}

// Linter applies structural integrity rules to a lesson corpus.
type Linter struct {
	cfg         *Config
	rules       []Rule
	corpusRules []CorpusRule
}

// NewLinter creates a linter with the rule set implied by cfg.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{TocDepth: 2}
	}

	rules := []Rule{
		&StructureRule{},
		&AnchorUniqueRule{},
		&FenceRule{RequireLanguage: cfg.RequireCodeLanguage},
		&TocSyncRule{DefaultDepth: cfg.TocDepth},
	}
	if cfg.RequireUID {
		rules = append(rules, &FrontmatterUIDRule{})
	}

	return &Linter{
		cfg:         cfg,
		rules:       rules,
		corpusRules: []CorpusRule{&CrossLinkRule{}},
	}
}

// LintFiles parses and lints the given corpus files. A file that fails to
// parse produces a parse-level error issue rather than aborting the run.
func (l *Linter) LintFiles(files []corpus.File) (*Result, error) {
	result := &Result{Issues: []Issue{}}

	docs := make([]*Document, 0, len(files))
	for _, f := range files {
		result.FilesTotal++

		doc, err := lesson.ParseFile(f.Path)
		if err != nil {
			result.Issues = append(result.Issues, Issue{
				FilePath: f.RelativePath,
				Severity: SeverityError,
				Rule:     "parse",
				Message:  "Lesson failed to parse",
				Explanation: fmt.Sprintf(`The file could not be parsed as a lesson document.

%v`, err),
				Fix: "Check the frontmatter delimiters and file encoding",
			})
			continue
		}
		docs = append(docs, &Document{RelativePath: f.RelativePath, Lesson: doc})
	}

	for _, d := range docs {
		for _, rule := range l.rules {
			for _, issue := range rule.Check(d.Lesson) {
				issue.FilePath = d.RelativePath
				result.Issues = append(result.Issues, issue)
			}
		}
	}

	for _, rule := range l.corpusRules {
		result.Issues = append(result.Issues, rule.CheckCorpus(docs)...)
	}

	if l.cfg.Quiet {
		result.Issues = filterErrors(result.Issues)
	}

	sortIssues(result.Issues)
	return result, nil
}

// LintPath discovers lessons under root (respecting ignore patterns) and
// lints them.
func (l *Linter) LintPath(root string, ignore []string) (*Result, error) {
	files, err := corpus.NewDiscovery(root, ignore).Discover()
	if err != nil {
		return nil, err
	}
	return l.LintFiles(files)
}

func filterErrors(issues []Issue) []Issue {
	out := issues[:0]
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			out = append(out, issue)
		}
	}
	return out
}

func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].FilePath != issues[j].FilePath {
			return issues[i].FilePath < issues[j].FilePath
		}
		return issues[i].Line < issues[j].Line
	})
}

// resolveRelative resolves a link destination against the directory of the
// linking document, staying in corpus-relative slash form.
func resolveRelative(fromRel, dest string) string {
	return path.Clean(path.Join(path.Dir(fromRel), dest))
}
