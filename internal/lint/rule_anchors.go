package lint

import (
	"fmt"

	"git.home.luguber.info/inful/lessonkit/internal/lesson"
)

// AnchorUniqueRule validates that derived anchor slugs are unique within a
// single lesson. Renderers disambiguate duplicates with numeric suffixes,
// which silently breaks every ToC link pointing at the base slug.
type AnchorUniqueRule struct{}

// Name returns the rule identifier.
func (r *AnchorUniqueRule) Name() string { return "anchor-unique" }

// Check reports duplicate slugs.
func (r *AnchorUniqueRule) Check(doc *lesson.Lesson) []Issue {
	var issues []Issue

	firstSeen := make(map[string]lesson.Section)
	for _, sec := range doc.Sections {
		if sec.Slug == "" {
			issues = append(issues, Issue{
				Severity:    SeverityWarning,
				Rule:        r.Name(),
				Message:     fmt.Sprintf("Heading %q derives an empty anchor slug", sec.Heading),
				Explanation: "The heading contains no letters or digits, so no anchor can point at it.",
				Fix:         "Reword the heading to include at least one alphanumeric character",
				Line:        sec.Line,
			})
			continue
		}

		prev, dup := firstSeen[sec.Slug]
		if !dup {
			firstSeen[sec.Slug] = sec
			continue
		}

		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("Duplicate anchor slug %q", sec.Slug),
			Explanation: fmt.Sprintf(`The headings %q (line %d) and %q (line %d) derive the same anchor.
Links to #%s will only ever reach the first one.`,
				prev.Heading, prev.Line, sec.Heading, sec.Line, sec.Slug),
			Fix:  "Reword one of the headings so the slugs differ",
			Line: sec.Line,
		})
	}

	return issues
}
