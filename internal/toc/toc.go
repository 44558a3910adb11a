// Package toc locates, generates, and rewrites the table-of-contents comment
// blocks used by the lesson corpus:
//
//	<!-- TOC depthFrom:2 -->
//	- [Part A: Intro to Dicts](#part-a-intro-to-dicts)
//	<!-- /TOC -->
//
// A ToC entry is stale the moment its text or anchor stops matching the
// heading it points at; nothing regenerates these blocks at read time, so
// keeping them synchronized is the linter's job.
package toc

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/lessonkit/internal/lesson"
)

// DefaultDepthFrom is the section level a ToC block indexes from when the
// opening marker does not say otherwise.
const DefaultDepthFrom = 2

var (
	openRe  = regexp.MustCompile(`^<!--\s*TOC(?:\s+depthFrom:(\d+))?\s*-->\s*$`)
	closeRe = regexp.MustCompile(`^<!--\s*/TOC\s*-->\s*$`)
	entryRe = regexp.MustCompile(`^(\s*)-\s+\[([^\]]*)\]\(#([^)]*)\)\s*$`)
	fenceRe = regexp.MustCompile("^ {0,3}(```+|~~~+)(.*)$")
)

// Entry is one ToC line.
type Entry struct {
	Text   string
	Anchor string
	Level  int // heading level this entry represents (depthFrom => top)
	Line   int // source line, 0 for generated entries
}

// Block is a located ToC comment block within a document.
type Block struct {
	DepthFrom int
	Entries   []Entry
	StartLine int // line of the opening marker (1-based)
	EndLine   int // line of the closing marker
}

// Extract finds the first ToC block in the raw document content. Markers
// without a depthFrom attribute assume defaultDepth (the configured
// lint.toc_depth; values below 1 fall back to DefaultDepthFrom). Markers
// inside fenced code blocks are content being shown, not real blocks, and
// are skipped. found is false when the document carries no ToC block; an
// opening marker without a closing marker is an error.
func Extract(content []byte, defaultDepth int) (Block, bool, error) {
	if defaultDepth < 1 {
		defaultDepth = DefaultDepthFrom
	}
	lines := strings.Split(string(content), "\n")

	var blk Block
	open := false
	inFence := false
	fenceMarker := ""
	for i, line := range lines {
		lineNo := i + 1

		if m := fenceRe.FindStringSubmatch(line); m != nil {
			if !inFence {
				inFence = true
				fenceMarker = m[1]
			} else if strings.HasPrefix(m[1], fenceMarker) && strings.TrimSpace(m[2]) == "" {
				inFence = false
			}
			continue
		}
		if inFence {
			continue
		}

		if !open {
			m := openRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			blk.DepthFrom = defaultDepth
			if m[1] != "" {
				fmt.Sscanf(m[1], "%d", &blk.DepthFrom)
			}
			blk.StartLine = lineNo
			open = true
			continue
		}

		if closeRe.MatchString(line) {
			blk.EndLine = lineNo
			return blk, true, nil
		}

		if m := entryRe.FindStringSubmatch(line); m != nil {
			blk.Entries = append(blk.Entries, Entry{
				Text:   m[2],
				Anchor: m[3],
				Level:  blk.DepthFrom + indentLevel(m[1]),
				Line:   lineNo,
			})
		}
	}

	if open {
		return Block{}, false, fmt.Errorf("toc block opened at line %d has no closing marker", blk.StartLine)
	}
	return Block{}, false, nil
}

// Generate derives the canonical ToC entries for a lesson: one entry per
// section at or below depthFrom, in reading order, anchored by the section
// slug.
func Generate(l *lesson.Lesson, depthFrom int) []Entry {
	var entries []Entry
	for _, sec := range l.Sections {
		if sec.Level < depthFrom {
			continue
		}
		entries = append(entries, Entry{
			Text:   sec.Heading,
			Anchor: sec.Slug,
			Level:  sec.Level,
		})
	}
	return entries
}

// Render formats entries as the markdown list lines that sit between the ToC
// markers. Deeper levels indent by two spaces per level.
func Render(entries []Entry, depthFrom int) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		indent := strings.Repeat("  ", max(0, e.Level-depthFrom))
		lines = append(lines, fmt.Sprintf("%s- [%s](#%s)", indent, e.Text, e.Anchor))
	}
	return lines
}

// Rewrite replaces the body of the located block with the rendered entries,
// preserving everything else byte for byte (markers included). A blank line
// pads each side of the list, matching the corpus convention.
func Rewrite(content []byte, blk Block, entries []Entry) []byte {
	lines := strings.Split(string(content), "\n")

	var out []string
	out = append(out, lines[:blk.StartLine]...)
	out = append(out, "")
	out = append(out, Render(entries, blk.DepthFrom)...)
	out = append(out, "")
	out = append(out, lines[blk.EndLine-1:]...)

	return []byte(strings.Join(out, "\n"))
}

// Insert adds a new ToC block after the given 1-based line (typically the H1
// title line), padded with blank lines on both sides.
func Insert(content []byte, afterLine, depthFrom int, entries []Entry) []byte {
	lines := strings.Split(string(content), "\n")
	if afterLine > len(lines) {
		afterLine = len(lines)
	}

	block := []string{"", fmt.Sprintf("<!-- TOC depthFrom:%d -->", depthFrom), ""}
	block = append(block, Render(entries, depthFrom)...)
	block = append(block, "", "<!-- /TOC -->")

	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:afterLine]...)
	out = append(out, block...)
	out = append(out, lines[afterLine:]...)
	return []byte(strings.Join(out, "\n"))
}

// Equal reports whether existing entries match the generated ones in text,
// anchor, and order. Line numbers are ignored.
func Equal(existing, generated []Entry) bool {
	if len(existing) != len(generated) {
		return false
	}
	for i := range existing {
		if existing[i].Text != generated[i].Text ||
			existing[i].Anchor != generated[i].Anchor ||
			existing[i].Level != generated[i].Level {
			return false
		}
	}
	return true
}

func indentLevel(indent string) int {
	spaces := 0
	for _, r := range indent {
		if r == '\t' {
			spaces += 2
		} else {
			spaces++
		}
	}
	return spaces / 2
}
