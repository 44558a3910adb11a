package lint

import (
	"fmt"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/lessonkit/internal/lesson"
)

// FrontmatterUIDRule validates that lessons carry a stable uid in their
// frontmatter. The uid survives file renames, which keeps external
// bookmarks and run-history rows attached to the same lesson.
type FrontmatterUIDRule struct{}

const frontmatterUIDRuleName = "frontmatter-uid"

// Name returns the rule identifier.
func (r *FrontmatterUIDRule) Name() string { return frontmatterUIDRuleName }

// Check validates uid presence and format.
func (r *FrontmatterUIDRule) Check(doc *lesson.Lesson) []Issue {
	if doc.Meta.UID == "" {
		return []Issue{{
			Severity:    SeverityWarning,
			Rule:        frontmatterUIDRuleName,
			Message:     "Missing uid in frontmatter",
			Explanation: "Lessons carry a uid so identity survives renames.",
			Fix:         "Run: lessonkit lint --fix",
		}}
	}

	if _, err := uuid.Parse(doc.Meta.UID); err != nil {
		return []Issue{{
			Severity:    SeverityError,
			Rule:        frontmatterUIDRuleName,
			Message:     "Invalid uid format in frontmatter",
			Explanation: fmt.Sprintf("uid must be a valid UUID, got %q", doc.Meta.UID),
			Fix:         "Replace the uid with a freshly generated UUID",
		}}
	}

	return nil
}
