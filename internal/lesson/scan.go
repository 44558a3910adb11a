package lesson

import (
	"regexp"
	"sort"
	"strings"
)

// bodyScan is the result of the raw line pass over a lesson body.
type bodyScan struct {
	fences []Fence
	blocks []Block // code/output blocks assembled from fence pairs
	links  []Link
}

var (
	fenceRe = regexp.MustCompile("^ {0,3}(```|~~~)(.*)$")
	linkRe  = regexp.MustCompile(`\[([^\]]*)\]\(\s*<?([^)\s>]+)>?(?:\s+"[^"]*")?\s*\)`)
)

// scanBody walks the body line by line tracking fence state. Links are only
// collected outside fences so code examples showing markdown don't produce
// phantom cross-references.
func scanBody(body []byte) *bodyScan {
	scan := &bodyScan{}

	var (
		inFence    bool
		fenceMark  string
		openLine   int
		openInfo   string
		contentBuf []string
	)

	lines := strings.Split(string(body), "\n")
	for i, line := range lines {
		lineNo := i + 1

		m := fenceRe.FindStringSubmatch(line)
		if m != nil {
			marker, info := m[1], strings.TrimSpace(m[2])
			switch {
			case !inFence:
				inFence = true
				fenceMark = marker
				openLine = lineNo
				openInfo = info
				contentBuf = contentBuf[:0]
				continue
			case marker == fenceMark && info == "":
				// Closing fence.
				scan.fences = append(scan.fences, Fence{Line: openLine, Info: openInfo, Closed: true})
				scan.blocks = append(scan.blocks, fenceBlock(openLine, openInfo, contentBuf))
				inFence = false
				continue
			default:
				// A different marker (or an info string) inside an open
				// fence is fence content, not a closer.
				contentBuf = append(contentBuf, line)
				continue
			}
		}

		if inFence {
			contentBuf = append(contentBuf, line)
			continue
		}

		for _, lm := range linkRe.FindAllStringSubmatch(line, -1) {
			scan.links = append(scan.links, Link{
				Line:        lineNo,
				Text:        lm[1],
				Destination: lm[2],
			})
		}
	}

	if inFence {
		scan.fences = append(scan.fences, Fence{Line: openLine, Info: openInfo, Closed: false})
		scan.blocks = append(scan.blocks, fenceBlock(openLine, openInfo, contentBuf))
	}

	sort.SliceStable(scan.fences, func(i, j int) bool { return scan.fences[i].Line < scan.fences[j].Line })
	return scan
}

func fenceBlock(line int, info string, content []string) Block {
	kind := BlockOutput
	if info != "" {
		kind = BlockCode
	}
	return Block{
		Kind: kind,
		Line: line,
		Text: strings.Join(content, "\n"),
		Info: info,
	}
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(body []byte) *lineIndex {
	starts := []int{0}
	for i, c := range body {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (li *lineIndex) lineOf(offset int) int {
	lo, hi := 0, len(li.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if li.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}
