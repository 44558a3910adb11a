package htmlcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSite(t *testing.T, pages map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range pages {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestVerifySite_Clean(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html": `<html><body>
			<a href="dicts.html">Dicts</a>
			<a href="advanced/decorators.html#basics">Decorators</a>
		</body></html>`,
		"dicts.html": `<html><body>
			<h2 id="part-a">Part A</h2>
			<a href="#part-a">jump</a>
			<a href="index.html">home</a>
			<a href="https://docs.python.org/">external</a>
		</body></html>`,
		"advanced/decorators.html": `<html><body>
			<h2 id="basics">Basics</h2>
			<a href="../index.html">home</a>
		</body></html>`,
	})

	problems, err := VerifySite(dir)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestVerifySite_MissingPage(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html": `<a href="gone.html">gone</a>`,
	})

	problems, err := VerifySite(dir)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "index.html", problems[0].Page)
	assert.Equal(t, "gone.html", problems[0].Resolved)
	assert.Contains(t, problems[0].Reason, "does not exist")
}

func TestVerifySite_MissingFragment(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html": `<a href="dicts.html#nope">bad</a>`,
		"dicts.html": `<h2 id="part-a">Part A</h2>`,
	})

	problems, err := VerifySite(dir)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Reason, `"nope"`)
}

func TestVerifySite_SamePageFragment(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"a.html": `<h2 id="here">Here</h2><a href="#here">ok</a><a href="#missing">bad</a>`,
	})

	problems, err := VerifySite(dir)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "#missing", problems[0].Href)
}

func TestVerifySite_RelativeTraversal(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"a/page.html":  `<a href="../b/other.html">cross</a>`,
		"b/other.html": `<p>hi</p>`,
	})

	problems, err := VerifySite(dir)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestIsExternal(t *testing.T) {
	assert.True(t, isExternal("https://example.com"))
	assert.True(t, isExternal("mailto:x@example.com"))
	assert.True(t, isExternal("//cdn.example.com/x.js"))
	assert.False(t, isExternal("dicts.html"))
	assert.False(t, isExternal("#anchor"))
}
