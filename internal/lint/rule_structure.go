package lint

import (
	"fmt"

	"git.home.luguber.info/inful/lessonkit/internal/lesson"
)

// StructureRule validates the basic lesson shape: exactly one H1 title,
// placed before any section, and output blocks paired with a preceding code
// example.
type StructureRule struct{}

// Name returns the rule identifier.
func (r *StructureRule) Name() string { return "lesson-structure" }

// Check validates the lesson structure.
func (r *StructureRule) Check(doc *lesson.Lesson) []Issue {
	var issues []Issue

	if len(doc.H1Lines) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "Lesson has no H1 title",
			Explanation: `Every lesson starts with a single H1 heading that names the lesson.
Without it the corpus index and the rendered page have no title.`,
			Fix: "Add '# <Lesson Title>' as the first heading",
		})
	}

	for _, line := range doc.H1Lines[min(1, len(doc.H1Lines)):] {
		issues = append(issues, Issue{
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     "Duplicate H1 heading",
			Explanation: "A lesson has exactly one H1 title; further top-level headings should be '## Part ...' sections.",
			Fix:         "Demote the extra H1 to an H2 section heading",
			Line:        line,
		})
	}

	if len(doc.H1Lines) > 0 && len(doc.Sections) > 0 && doc.Sections[0].Line < doc.H1Lines[0] {
		issues = append(issues, Issue{
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     fmt.Sprintf("Section %q appears before the lesson title", doc.Sections[0].Heading),
			Explanation: "The H1 title must come first; sections follow it in reading order.",
			Fix:         "Move the H1 title above the first section",
			Line:        doc.Sections[0].Line,
		})
	}

	for _, sec := range doc.Sections {
		for i, b := range sec.Blocks {
			if b.Kind != lesson.BlockOutput {
				continue
			}
			if i > 0 && sec.Blocks[i-1].Kind == lesson.BlockCode {
				continue
			}
			issues = append(issues, Issue{
				Severity: SeverityInfo,
				Rule:     r.Name(),
				Message:  "Output block has no preceding code example",
				Explanation: fmt.Sprintf(`A plain fence in section %q does not follow a code example,
so it reads as expected output of nothing.`, sec.Heading),
				Fix:  "Move the block after its code example, or tag it with a language",
				Line: b.Line,
			})
		}
	}

	return issues
}
