package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func relPaths(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.RelativePath)
	}
	return out
}

func TestDiscover_FindsLessonsInOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "dicts.md", "# Dicts\n")
	writeFile(t, root, "advanced/decorators.md", "# Decorators\n")
	writeFile(t, root, "notes.txt", "not a lesson")
	writeFile(t, root, "image.png", "")

	files, err := NewDiscovery(root, nil).Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{"advanced/decorators.md", "dicts.md"}, relPaths(files))
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path))
	}
}

func TestDiscover_SkipsHiddenAndMetaFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "dicts.md", "# Dicts\n")
	writeFile(t, root, ".git/objects/readme.md", "not content")
	writeFile(t, root, ".hidden.md", "hidden")
	writeFile(t, root, "LICENSE.md", "license")
	writeFile(t, root, "contributing.md", "meta")

	files, err := NewDiscovery(root, nil).Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{"dicts.md"}, relPaths(files))
}

func TestDiscover_IgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "dicts.md", "# Dicts\n")
	writeFile(t, root, "wip.draft.md", "# WIP\n")
	writeFile(t, root, "archive/old.md", "# Old\n")

	files, err := NewDiscovery(root, []string{"*.draft.md", "archive/*"}).Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{"dicts.md"}, relPaths(files))
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := NewDiscovery(filepath.Join(t.TempDir(), "nope"), nil).Discover()
	assert.Error(t, err)
}

func TestIsLessonFile(t *testing.T) {
	assert.True(t, IsLessonFile("a.md"))
	assert.True(t, IsLessonFile("a.markdown"))
	assert.True(t, IsLessonFile("A.MD"))
	assert.False(t, IsLessonFile("a.txt"))
	assert.False(t, IsLessonFile("a"))
}
