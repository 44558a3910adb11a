package toc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lessonkit/internal/lesson"
)

const docWithToc = `# Dicts

<!-- TOC depthFrom:2 -->

- [Part A: Intro to Dicts](#part-a-intro-to-dicts)
  - [Nested](#nested)
- [Part B](#part-b)

<!-- /TOC -->

## Part A: Intro to Dicts

### Nested

## Part B
`

func TestExtract(t *testing.T) {
	blk, found, err := Extract([]byte(docWithToc), DefaultDepthFrom)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, 2, blk.DepthFrom)
	assert.Equal(t, 3, blk.StartLine)
	assert.Equal(t, 9, blk.EndLine)

	require.Len(t, blk.Entries, 3)
	assert.Equal(t, Entry{Text: "Part A: Intro to Dicts", Anchor: "part-a-intro-to-dicts", Level: 2, Line: 5}, blk.Entries[0])
	assert.Equal(t, Entry{Text: "Nested", Anchor: "nested", Level: 3, Line: 6}, blk.Entries[1])
	assert.Equal(t, Entry{Text: "Part B", Anchor: "part-b", Level: 2, Line: 7}, blk.Entries[2])
}

func TestExtract_NoBlock(t *testing.T) {
	_, found, err := Extract([]byte("# Dicts\n\n## Part A\n"), DefaultDepthFrom)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExtract_UnclosedBlock(t *testing.T) {
	_, _, err := Extract([]byte("<!-- TOC depthFrom:2 -->\n- [a](#a)\n"), DefaultDepthFrom)
	assert.Error(t, err)
}

func TestExtract_DefaultDepth(t *testing.T) {
	blk, found, err := Extract([]byte("<!-- TOC -->\n<!-- /TOC -->\n"), 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, DefaultDepthFrom, blk.DepthFrom)
}

func TestExtract_ConfiguredDepthForBareMarker(t *testing.T) {
	// A bare marker inherits the configured depth; an explicit attribute
	// still wins.
	blk, found, err := Extract([]byte("<!-- TOC -->\n<!-- /TOC -->\n"), 3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, blk.DepthFrom)

	blk, found, err = Extract([]byte("<!-- TOC depthFrom:2 -->\n<!-- /TOC -->\n"), 3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, blk.DepthFrom)
}

func TestExtract_IgnoresMarkersInsideFences(t *testing.T) {
	// A lesson teaching the ToC convention shows the markers inside a code
	// example; those are content, not a block.
	doc := "# T\n\n```md\n<!-- TOC depthFrom:2 -->\n- [x](#x)\n<!-- /TOC -->\n```\n"
	_, found, err := Extract([]byte(doc), DefaultDepthFrom)
	require.NoError(t, err)
	assert.False(t, found)

	// A real block after the fenced example is still extracted.
	doc += "\n<!-- TOC depthFrom:2 -->\n\n- [Part A](#part-a)\n\n<!-- /TOC -->\n"
	blk, found, err := Extract([]byte(doc), DefaultDepthFrom)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, blk.Entries, 1)
	assert.Equal(t, "part-a", blk.Entries[0].Anchor)
}

func TestGenerateAndEqual(t *testing.T) {
	l, err := lesson.Parse("dicts.md", []byte(docWithToc))
	require.NoError(t, err)

	generated := Generate(l, 2)
	blk, found, err := Extract([]byte(docWithToc), DefaultDepthFrom)
	require.NoError(t, err)
	require.True(t, found)

	assert.True(t, Equal(blk.Entries, generated))
}

func TestEqual_DetectsReorder(t *testing.T) {
	a := []Entry{{Text: "Part A", Anchor: "part-a", Level: 2}, {Text: "Part B", Anchor: "part-b", Level: 2}}
	b := []Entry{a[1], a[0]}

	assert.False(t, Equal(a, b), "renumbered sections must fail the sync property")
	assert.True(t, Equal(a, a))
}

func TestRender(t *testing.T) {
	entries := []Entry{
		{Text: "Part A", Anchor: "part-a", Level: 2},
		{Text: "Nested", Anchor: "nested", Level: 3},
	}

	lines := Render(entries, 2)
	assert.Equal(t, []string{
		"- [Part A](#part-a)",
		"  - [Nested](#nested)",
	}, lines)
}

func TestRewrite(t *testing.T) {
	doc := "# T\n<!-- TOC depthFrom:2 -->\nold garbage\n<!-- /TOC -->\ntail\n"
	blk, found, err := Extract([]byte(doc), DefaultDepthFrom)
	require.NoError(t, err)
	require.True(t, found)

	out := Rewrite([]byte(doc), blk, []Entry{{Text: "Part A", Anchor: "part-a", Level: 2}})

	want := strings.Join([]string{
		"# T",
		"<!-- TOC depthFrom:2 -->",
		"",
		"- [Part A](#part-a)",
		"",
		"<!-- /TOC -->",
		"tail",
		"",
	}, "\n")
	assert.Equal(t, want, string(out))

	// Rewriting an already canonical block is a no-op.
	blk2, found2, err := Extract(out, DefaultDepthFrom)
	require.NoError(t, err)
	require.True(t, found2)
	again := Rewrite(out, blk2, []Entry{{Text: "Part A", Anchor: "part-a", Level: 2}})
	assert.Equal(t, string(out), string(again))
}
