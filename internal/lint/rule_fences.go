package lint

import (
	"fmt"

	"git.home.luguber.info/inful/lessonkit/internal/lesson"
)

// FenceRule validates fenced block integrity: every fence must close, and
// (optionally) example fences must carry a language tag so renderers can
// highlight them. A plain fence directly after a code example is its
// expected-output block and is exempt from the language requirement.
type FenceRule struct {
	// RequireLanguage warns on plain fences that are not expected-output
	// blocks.
	RequireLanguage bool
}

// Name returns the rule identifier.
func (r *FenceRule) Name() string { return "fence-balance" }

// Check validates fence pairing and tagging.
func (r *FenceRule) Check(doc *lesson.Lesson) []Issue {
	var issues []Issue

	for _, f := range doc.Fences {
		if f.Closed {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "Unclosed code fence",
			Explanation: `The fence opened here never closes, so everything after it renders
as one giant code block and later headings disappear from the outline.`,
			Fix:  "Add the closing ``` fence",
			Line: f.Line,
		})
	}

	if !r.RequireLanguage {
		return issues
	}

	for _, sec := range doc.Sections {
		for i, b := range sec.Blocks {
			if b.Kind != lesson.BlockOutput {
				continue
			}
			// Output blocks are legitimate when they follow a code example.
			if i > 0 && sec.Blocks[i-1].Kind == lesson.BlockCode {
				continue
			}
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Rule:     "code-language",
				Message:  "Fenced block has no language tag",
				Explanation: fmt.Sprintf(`A plain fence in section %q is not preceded by a code example,
so it is neither a highlighted snippet nor an expected-output block.`, sec.Heading),
				Fix:  "Tag the fence with a language (e.g. ```py), or move it after its code example",
				Line: b.Line,
			})
		}
	}

	return issues
}
