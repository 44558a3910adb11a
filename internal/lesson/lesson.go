// Package lesson models a single markdown lesson: an H1 title followed by
// ordered "Part" sections containing prose, code examples, and expected
// output blocks. Section order is reading order and is significant.
package lesson

import "git.home.luguber.info/inful/lessonkit/internal/frontmatter"

// BlockKind discriminates the content block variants inside a section.
type BlockKind int

const (
	// BlockProse is a plain paragraph of instructional text.
	BlockProse BlockKind = iota
	// BlockCode is a fenced code example (info string carries the language).
	BlockCode
	// BlockOutput is a plain fenced block holding expected interpreter output.
	BlockOutput
)

// String returns the block kind name.
func (k BlockKind) String() string {
	switch k {
	case BlockProse:
		return "prose"
	case BlockCode:
		return "code"
	case BlockOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Block is one content unit inside a section.
type Block struct {
	Kind BlockKind
	Line int    // 1-based source line (fence line for code/output)
	Text string // paragraph text or fence content
	Info string // fence info string ("py", ...); empty for prose and output
}

// Section is a titled subdivision of a lesson. Slug is derived from the
// heading exactly the way the ToC generator derives it.
type Section struct {
	Heading string
	Level   int
	Slug    string
	Line    int
	Blocks  []Block
}

// Fence records one fence delimiter pair found by the raw scan. The raw scan
// exists because an unclosed fence swallows the rest of the document in the
// AST, which makes balance impossible to check there.
type Fence struct {
	Line   int
	Info   string
	Closed bool
}

// Link is a markdown link occurrence with its source position.
type Link struct {
	Line        int
	Text        string
	Destination string
}

// Example pairs a code block with the expected-output block that immediately
// follows it, if any.
type Example struct {
	Code   Block
	Output *Block
}

// Lesson is a parsed lesson file. It is immutable after Parse.
type Lesson struct {
	Path  string
	Title string // H1 text; empty when the lesson has no H1
	Meta  frontmatter.Meta

	Sections []Section
	Fences   []Fence
	Links    []Link

	// H1Lines holds the source line of every H1 found; the structure rule
	// wants to point at duplicates.
	H1Lines []int

	raw            []byte
	body           []byte
	bodyOffset     int // line offset of body start within the raw file
	hadFrontmatter bool
	style          frontmatter.Style
}

// Raw returns a copy of the original file bytes.
func (l *Lesson) Raw() []byte {
	return append([]byte(nil), l.raw...)
}

// Body returns a copy of the markdown body (frontmatter removed).
func (l *Lesson) Body() []byte {
	return append([]byte(nil), l.body...)
}

// BodyOffset returns the number of raw-file lines preceding the body.
func (l *Lesson) BodyOffset() int { return l.bodyOffset }

// HadFrontmatter reports whether the file carried a frontmatter block.
func (l *Lesson) HadFrontmatter() bool { return l.hadFrontmatter }

// Style returns the newline style detected for the file.
func (l *Lesson) Style() frontmatter.Style { return l.style }

// SectionsAtLevel returns the sections with the given heading level,
// preserving document order.
func (l *Lesson) SectionsAtLevel(level int) []Section {
	var out []Section
	for _, s := range l.Sections {
		if s.Level == level {
			out = append(out, s)
		}
	}
	return out
}

// Examples pairs code blocks with their trailing output blocks across all
// sections, in reading order.
func (l *Lesson) Examples() []Example {
	var out []Example
	for _, sec := range l.Sections {
		for i := 0; i < len(sec.Blocks); i++ {
			if sec.Blocks[i].Kind != BlockCode {
				continue
			}
			ex := Example{Code: sec.Blocks[i]}
			if i+1 < len(sec.Blocks) && sec.Blocks[i+1].Kind == BlockOutput {
				ob := sec.Blocks[i+1]
				ex.Output = &ob
			}
			out = append(out, ex)
		}
	}
	return out
}
