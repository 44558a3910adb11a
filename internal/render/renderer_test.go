package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lessonkit/internal/config"
	"git.home.luguber.info/inful/lessonkit/internal/corpus"
)

func renderFixture(t *testing.T, lessons map[string]string) (*Report, string) {
	t.Helper()

	root := t.TempDir()
	for rel, content := range lessons {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := config.Default()
	cfg.Corpus.Root = root
	cfg.Output.Directory = filepath.Join(t.TempDir(), "site")
	cfg.Site.Title = "Python Lessons"

	files, err := corpus.NewDiscovery(root, nil).Discover()
	require.NoError(t, err)

	report, err := NewRenderer(cfg).RenderSite(files)
	require.NoError(t, err)
	return report, cfg.Output.Directory
}

func TestRenderSite(t *testing.T) {
	report, outDir := renderFixture(t, map[string]string{
		"dicts.md": `# Dictionaries

## Part A: Intro to Dicts

Some prose.

` + "```py\nd = {}\n```\n",
		"advanced/decorators.md": "# Decorators\n\n## Basics\n\nText.\n",
	})

	assert.Equal(t, 3, report.Pages) // two lessons + index

	page, err := os.ReadFile(filepath.Join(outDir, "dicts.html"))
	require.NoError(t, err)
	html := string(page)

	// Heading ids use the corpus anchor derivation, so ToC links keep
	// working in the rendered output.
	assert.Contains(t, html, `id="part-a-intro-to-dicts"`)
	assert.Contains(t, html, "Python Lessons")
	assert.Contains(t, html, `<a href="index.html">`)

	nested, err := os.ReadFile(filepath.Join(outDir, "advanced", "decorators.html"))
	require.NoError(t, err)
	assert.Contains(t, string(nested), `<a href="../index.html">`)
}

func TestRenderSite_Index(t *testing.T) {
	_, outDir := renderFixture(t, map[string]string{
		"b.md": "---\ntitle: Loops\nweight: 2\n---\n\n# Loops\n",
		"a.md": "---\ntitle: Strings\nweight: 1\n---\n\n# Strings\n",
	})

	index, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	require.NoError(t, err)
	html := string(index)

	// Weight controls ordering, not filename.
	assert.Less(t, strings.Index(html, "Strings"), strings.Index(html, "Loops"))
	assert.Contains(t, html, `href="a.html"`)
	assert.Contains(t, html, `href="b.html"`)
}

func TestRenderSite_DuplicateHeadingsGetUniqueIDs(t *testing.T) {
	_, outDir := renderFixture(t, map[string]string{
		"dup.md": "# Lesson\n\n## Setup\n\nFirst.\n\n## Setup\n\nSecond.\n",
	})

	page, err := os.ReadFile(filepath.Join(outDir, "dup.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `id="setup"`)
	assert.Contains(t, string(page), `id="setup-1"`)
}

func TestHtmlPath(t *testing.T) {
	assert.Equal(t, "dicts.html", htmlPath("dicts.md"))
	assert.Equal(t, "a/b.html", htmlPath("a/b.markdown"))
}

func TestHomeHref(t *testing.T) {
	assert.Equal(t, "index.html", homeHref("dicts.html"))
	assert.Equal(t, "../index.html", homeHref("advanced/decorators.html"))
	assert.Equal(t, "../../index.html", homeHref("a/b/c.html"))
}
