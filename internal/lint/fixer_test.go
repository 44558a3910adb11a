package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lessonkit/internal/corpus"
	"git.home.luguber.info/inful/lessonkit/internal/lesson"
)

func discover(t *testing.T, root string) []corpus.File {
	t.Helper()
	files, err := corpus.NewDiscovery(root, nil).Discover()
	require.NoError(t, err)
	return files
}

func TestFixer_RegeneratesStaleToc(t *testing.T) {
	root := t.TempDir()
	stale := `# T

<!-- TOC depthFrom:2 -->

- [Old Name](#old-name)

<!-- /TOC -->

## New Name
`
	writeLesson(t, root, "l.md", stale)

	fixer := NewFixer(&Config{TocDepth: 2}, false)
	result, err := fixer.Fix(discover(t, root))
	require.NoError(t, err)

	require.Len(t, result.Ops, 1)
	assert.Equal(t, "regenerated ToC block", result.Ops[0].Description)
	assert.False(t, result.HasErrors())

	// The corpus now lints clean.
	lintResult := lintDir(t, nil, root)
	assert.Empty(t, lintResult.Issues)

	content, err := os.ReadFile(filepath.Join(root, "l.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "- [New Name](#new-name)")
	assert.NotContains(t, string(content), "old-name")
}

func TestFixer_InsertsMissingToc(t *testing.T) {
	root := t.TempDir()
	writeLesson(t, root, "l.md", "# T\n\n## Part A\n\n## Part B\n")

	fixer := NewFixer(&Config{TocDepth: 2}, false)
	result, err := fixer.Fix(discover(t, root))
	require.NoError(t, err)

	require.Len(t, result.Ops, 1)
	assert.Equal(t, "inserted ToC block", result.Ops[0].Description)

	doc, err := lesson.ParseFile(filepath.Join(root, "l.md"))
	require.NoError(t, err)
	require.Len(t, doc.Sections, 2)

	lintResult := lintDir(t, nil, root)
	assert.Empty(t, lintResult.Issues)
}

func TestFixer_AddsMissingUID(t *testing.T) {
	root := t.TempDir()
	writeLesson(t, root, "l.md", "# T\n")

	fixer := NewFixer(&Config{TocDepth: 2, RequireUID: true}, false)
	result, err := fixer.Fix(discover(t, root))
	require.NoError(t, err)

	require.Len(t, result.Ops, 1)
	assert.Equal(t, "added frontmatter uid", result.Ops[0].Description)

	doc, err := lesson.ParseFile(filepath.Join(root, "l.md"))
	require.NoError(t, err)
	_, err = uuid.Parse(doc.Meta.UID)
	assert.NoError(t, err)
	assert.Equal(t, "# T\n", string(doc.Body()))
}

func TestFixer_UIDPreservesExistingFrontmatter(t *testing.T) {
	root := t.TempDir()
	writeLesson(t, root, "l.md", "---\ntitle: Dicts\nauthor: someone\n---\n# T\n")

	fixer := NewFixer(&Config{TocDepth: 2, RequireUID: true}, false)
	_, err := fixer.Fix(discover(t, root))
	require.NoError(t, err)

	doc, err := lesson.ParseFile(filepath.Join(root, "l.md"))
	require.NoError(t, err)
	assert.Equal(t, "Dicts", doc.Meta.Title)
	assert.Equal(t, map[string]any{"author": "someone"}, doc.Meta.Extra)
	assert.NotEmpty(t, doc.Meta.UID)
}

func TestFixer_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	original := "# T\n\n## Part A\n"
	writeLesson(t, root, "l.md", original)

	fixer := NewFixer(&Config{TocDepth: 2}, true)
	result, err := fixer.Fix(discover(t, root))
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	require.Len(t, result.Ops, 1)
	assert.Contains(t, result.Summary(), "Would fix")

	content, err := os.ReadFile(filepath.Join(root, "l.md"))
	require.NoError(t, err)
	assert.Equal(t, original, string(content))
}

func TestFixer_CleanCorpusUntouched(t *testing.T) {
	root := t.TempDir()
	writeLesson(t, root, "l.md", goodLesson)

	fixer := NewFixer(&Config{TocDepth: 2}, false)
	result, err := fixer.Fix(discover(t, root))
	require.NoError(t, err)

	assert.Empty(t, result.Ops)
	assert.Zero(t, result.FilesTotal)
}

func TestFixer_SkipsUnterminatedTocBlock(t *testing.T) {
	root := t.TempDir()
	writeLesson(t, root, "l.md", "# T\n\n<!-- TOC depthFrom:2 -->\n\n## Part A\n")

	fixer := NewFixer(&Config{TocDepth: 2}, false)
	result, err := fixer.Fix(discover(t, root))
	require.NoError(t, err)
	assert.Empty(t, result.Ops)
}
