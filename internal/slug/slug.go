// Package slug derives anchor slugs from heading text.
//
// The contract is intentionally narrow: output always matches [a-z0-9-]*,
// whitespace becomes hyphens, everything else is dropped. There are no error
// conditions; a heading made entirely of punctuation yields the empty slug.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes unicode input and removes combining marks, so that
// accented letters survive the ASCII filter ("Déjà" -> "Deja").
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Derive produces the anchor slug for a heading string.
//
// Example: "Part A: Intro to Dicts" -> "part-a-intro-to-dicts".
func Derive(heading string) string {
	s, _, err := transform.String(stripMarks, heading)
	if err != nil {
		// The transform chain cannot fail on valid UTF-8; fall back to the
		// raw heading for anything else.
		s = heading
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingHyphen = true
		default:
			// Punctuation and symbols are dropped without leaving a hyphen.
		}
	}
	return b.String()
}

// Deduper disambiguates repeated slugs within a single document the way most
// renderers do: the first occurrence keeps the base slug, later ones get a
// numeric suffix ("part-a", "part-a-1", "part-a-2", ...).
type Deduper struct {
	seen map[string]int
}

// NewDeduper creates an empty Deduper.
func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]int)}
}

// Take returns the unique slug for heading and records it.
func (d *Deduper) Take(heading string) string {
	base := Derive(heading)
	n, dup := d.seen[base]
	d.seen[base] = n + 1
	if !dup {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
