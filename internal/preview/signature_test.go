package preview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lessonkit/internal/corpus"
)

func corpusFixture(t *testing.T, lessons map[string]string) (string, []corpus.File) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range lessons {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	files, err := corpus.NewDiscovery(root, nil).Discover()
	require.NoError(t, err)
	return root, files
}

func TestSignature_StableAcrossRuns(t *testing.T) {
	_, files := corpusFixture(t, map[string]string{
		"a.md":        "# A\n",
		"nested/b.md": "# B\n",
	})

	first, err := signature(files)
	require.NoError(t, err)
	second, err := signature(files)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSignature_ChangesWithContent(t *testing.T) {
	root, files := corpusFixture(t, map[string]string{"a.md": "# A\n"})

	before, err := signature(files)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("# A changed\n"), 0o644))
	after, err := signature(files)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestSignature_ChangesWithFileSet(t *testing.T) {
	root, files := corpusFixture(t, map[string]string{"a.md": "# A\n"})

	before, err := signature(files)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "b.md"), []byte("# B\n"), 0o644))
	moreFiles, err := corpus.NewDiscovery(root, nil).Discover()
	require.NoError(t, err)

	after, err := signature(moreFiles)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}
