package lint

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/lessonkit/internal/lesson"
	"git.home.luguber.info/inful/lessonkit/internal/toc"
)

// TocSyncRule validates that a lesson's ToC block mirrors its section
// headings exactly: every indexed heading has an entry with the derived
// anchor, no stale entries linger, and the order matches reading order.
type TocSyncRule struct {
	// DefaultDepth is used when a document has no ToC marker attribute.
	DefaultDepth int
}

// Name returns the rule identifier.
func (r *TocSyncRule) Name() string { return "toc-sync" }

// Check compares the ToC block against the generated canonical entries.
func (r *TocSyncRule) Check(doc *lesson.Lesson) []Issue {
	blk, found, err := toc.Extract(doc.Raw(), r.DefaultDepth)
	if err != nil {
		return []Issue{{
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     "Unterminated ToC block",
			Explanation: err.Error(),
			Fix:         "Add the closing <!-- /TOC --> marker",
		}}
	}

	depth := r.DefaultDepth
	if found {
		depth = blk.DepthFrom
	}
	generated := toc.Generate(doc, depth)

	if !found {
		if len(generated) == 0 {
			return nil
		}
		return []Issue{{
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "Lesson has sections but no ToC block",
			Explanation: fmt.Sprintf(`%d section headings have no table of contents.
Readers navigate lessons through the ToC links at the top.`, len(generated)),
			Fix: "Run: lessonkit toc --write",
		}}
	}

	if toc.Equal(blk.Entries, generated) {
		return nil
	}

	return r.diff(blk, generated)
}

// diff reports granular sync failures: missing entries, stale entries, and
// (when the sets match) ordering or wording drift.
func (r *TocSyncRule) diff(blk toc.Block, generated []toc.Entry) []Issue {
	var issues []Issue

	existing := make(map[string]toc.Entry, len(blk.Entries))
	for _, e := range blk.Entries {
		existing[e.Anchor] = e
	}
	wanted := make(map[string]toc.Entry, len(generated))
	for _, e := range generated {
		wanted[e.Anchor] = e
	}

	for _, e := range generated {
		got, ok := existing[e.Anchor]
		switch {
		case !ok:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("ToC entry missing for heading %q", e.Text),
				Explanation: fmt.Sprintf(`The section exists but no ToC line links to it.
Expected: - [%s](#%s)`, e.Text, e.Anchor),
				Fix: "Run: lessonkit lint --fix",
			})
		case got.Text != e.Text:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("ToC entry text is stale for anchor #%s", e.Anchor),
				Explanation: fmt.Sprintf(`ToC says:     [%s]
Heading says: [%s]`, got.Text, e.Text),
				Fix:  "Run: lessonkit lint --fix",
				Line: got.Line,
			})
		}
	}

	for _, e := range blk.Entries {
		if _, ok := wanted[e.Anchor]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("Stale ToC entry %q", e.Text),
				Explanation: fmt.Sprintf(`No heading derives the anchor #%s.
The section was removed, renamed, or the anchor was hand-written incorrectly.`, e.Anchor),
				Fix:  "Run: lessonkit lint --fix",
				Line: e.Line,
			})
		}
	}

	if len(issues) == 0 {
		// Same entries, wrong order: the renumbering case.
		var want strings.Builder
		for _, line := range toc.Render(generated, blk.DepthFrom) {
			want.WriteString(line)
			want.WriteString("\n")
		}
		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "ToC entries are out of order",
			Explanation: fmt.Sprintf(`ToC entries must follow section reading order. Expected:

%s`, strings.TrimRight(want.String(), "\n")),
			Fix:  "Run: lessonkit lint --fix",
			Line: blk.StartLine,
		})
	}

	return issues
}
