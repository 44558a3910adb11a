package lesson

import (
	"fmt"
	"os"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/lessonkit/internal/frontmatter"
	"git.home.luguber.info/inful/lessonkit/internal/slug"
)

// ParseFile reads and parses a lesson from disk.
func ParseFile(path string) (*Lesson, error) {
	// #nosec G304 -- path comes from corpus discovery.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lesson %s: %w", path, err)
	}
	l, err := Parse(path, content)
	if err != nil {
		return nil, fmt.Errorf("parse lesson %s: %w", path, err)
	}
	return l, nil
}

// Parse parses raw lesson file content. The path is recorded for reporting
// only; no file system access happens here.
func Parse(path string, content []byte) (*Lesson, error) {
	fm, body, had, style, err := frontmatter.Split(content)
	if err != nil {
		return nil, err
	}

	meta, err := frontmatter.Parse(fm)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}

	bodyOffset := 0
	if had {
		bodyOffset = 2 + countNewlines(fm)
	}

	l := &Lesson{
		Path:           path,
		Meta:           meta,
		raw:            append([]byte(nil), content...),
		body:           append([]byte(nil), body...),
		bodyOffset:     bodyOffset,
		hadFrontmatter: had,
		style:          style,
	}

	scan := scanBody(body)
	l.Fences = scan.fences
	l.Links = scan.links

	l.buildSections(body, scan)

	// Shift body-relative lines to raw-file lines.
	if bodyOffset > 0 {
		l.shiftLines(bodyOffset)
	}

	return l, nil
}

// buildSections walks the goldmark AST for headings and paragraphs, merges in
// the fence blocks found by the raw scan, and buckets everything into
// sections by line order.
func (l *Lesson) buildSections(body []byte, scan *bodyScan) {
	lines := newLineIndex(body)

	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(body))

	var blocks []Block

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			line := nodeLine(node, lines)
			heading := nodeText(node, body)
			if node.Level == 1 {
				if l.Title == "" {
					l.Title = heading
				}
				l.H1Lines = append(l.H1Lines, line)
				return gmast.WalkSkipChildren, nil
			}
			l.Sections = append(l.Sections, Section{
				Heading: heading,
				Level:   node.Level,
				Slug:    slug.Derive(heading),
				Line:    line,
			})
			return gmast.WalkSkipChildren, nil
		case *gmast.Paragraph:
			blocks = append(blocks, Block{
				Kind: BlockProse,
				Line: nodeLine(node, lines),
				Text: nodeText(node, body),
			})
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})

	blocks = append(blocks, scan.blocks...)
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Line < blocks[j].Line })

	// Bucket blocks into the section they appear under. Content before the
	// first section (the lesson intro) stays outside the section model.
	for _, b := range blocks {
		idx := -1
		for i, sec := range l.Sections {
			if sec.Line < b.Line {
				idx = i
			}
		}
		if idx >= 0 {
			l.Sections[idx].Blocks = append(l.Sections[idx].Blocks, b)
		}
	}
}

func (l *Lesson) shiftLines(offset int) {
	for i := range l.Sections {
		l.Sections[i].Line += offset
		for j := range l.Sections[i].Blocks {
			l.Sections[i].Blocks[j].Line += offset
		}
	}
	for i := range l.Fences {
		l.Fences[i].Line += offset
	}
	for i := range l.Links {
		l.Links[i].Line += offset
	}
	for i := range l.H1Lines {
		l.H1Lines[i] += offset
	}
}

// nodeText collects the plain text of a node's descendants.
func nodeText(n gmast.Node, source []byte) string {
	var out []byte
	var walk func(gmast.Node)
	walk = func(n gmast.Node) {
		if t, ok := n.(*gmast.Text); ok {
			out = append(out, t.Segment.Value(source)...)
			if t.SoftLineBreak() || t.HardLineBreak() {
				out = append(out, ' ')
			}
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)
	return string(out)
}

// nodeLine returns the 1-based line of a block node's first source segment.
func nodeLine(n gmast.Node, idx *lineIndex) int {
	if n.Lines().Len() == 0 {
		return 0
	}
	return idx.lineOf(n.Lines().At(0).Start)
}

func countNewlines(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}
