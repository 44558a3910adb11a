package lint

import (
	"fmt"
	"strings"
)

// CrossLinkRule validates the weak references between lessons: relative
// markdown links must point at a file that exists in the corpus, and anchor
// fragments must point at a slug the target document actually derives.
type CrossLinkRule struct{}

// Name returns the rule identifier.
func (r *CrossLinkRule) Name() string { return "cross-links" }

// CheckCorpus resolves every lesson-to-lesson link against the corpus.
func (r *CrossLinkRule) CheckCorpus(docs []*Document) []Issue {
	byPath := make(map[string]*Document, len(docs))
	for _, d := range docs {
		byPath[d.RelativePath] = d
	}

	var issues []Issue
	for _, d := range docs {
		for _, link := range d.Lesson.Links {
			dest := link.Destination
			if isExternal(dest) {
				continue
			}

			// Same-document anchor.
			if frag, ok := strings.CutPrefix(dest, "#"); ok {
				if !hasAnchor(d, frag) {
					issues = append(issues, Issue{
						FilePath: d.RelativePath,
						Severity: SeverityError,
						Rule:     r.Name(),
						Message:  fmt.Sprintf("Anchor #%s does not exist in this lesson", frag),
						Explanation: fmt.Sprintf(`The link [%s](#%s) points at a heading this lesson does not have.
Anchors change when headings are reworded.`, link.Text, frag),
						Fix:  "Update the anchor to match the heading's derived slug",
						Line: link.Line,
					})
				}
				continue
			}

			file, frag, _ := strings.Cut(dest, "#")
			if !isLessonDest(file) {
				continue
			}

			targetRel := resolveRelative(d.RelativePath, file)
			target, ok := byPath[targetRel]
			if !ok {
				issues = append(issues, Issue{
					FilePath: d.RelativePath,
					Severity: SeverityError,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("Broken link to %s", dest),
					Explanation: fmt.Sprintf(`The link [%s](%s) resolves to %q, which is not in the corpus.
The target lesson may have been renamed or deleted.`, link.Text, dest, targetRel),
					Fix:  "Point the link at an existing lesson file",
					Line: link.Line,
				})
				continue
			}

			if frag != "" && !hasAnchor(target, frag) {
				issues = append(issues, Issue{
					FilePath: d.RelativePath,
					Severity: SeverityError,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("Anchor #%s does not exist in %s", frag, targetRel),
					Explanation: fmt.Sprintf(`The link [%s](%s) reaches the lesson, but no heading there
derives the anchor #%s.`, link.Text, dest, frag),
					Fix:  "Update the fragment to the target heading's slug",
					Line: link.Line,
				})
			}
		}
	}

	return issues
}

func hasAnchor(d *Document, anchor string) bool {
	for _, sec := range d.Lesson.Sections {
		if sec.Slug == anchor {
			return true
		}
	}
	return false
}

func isExternal(dest string) bool {
	return strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:")
}

func isLessonDest(file string) bool {
	lower := strings.ToLower(file)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}
