// Package htmlcheck verifies link integrity of a rendered site: every
// internal href must resolve to a rendered file, and every fragment to an
// anchor id the target page actually carries.
package htmlcheck

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Problem is one broken reference found in the rendered output.
type Problem struct {
	Page     string // site-relative page the link appears on
	Href     string // the offending href as written
	Resolved string // what it resolved to
	Reason   string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: href %q: %s", p.Page, p.Href, p.Reason)
}

// page holds what the checker needs per rendered file.
type page struct {
	ids   map[string]struct{}
	links []string
}

// VerifySite walks a rendered site directory and returns every broken
// internal link. An empty slice means the site is internally consistent.
func VerifySite(siteDir string) ([]Problem, error) {
	pages := make(map[string]*page)

	err := filepath.WalkDir(siteDir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".html") {
			return nil
		}
		rel, err := filepath.Rel(siteDir, p)
		if err != nil {
			return err
		}
		parsed, err := parsePage(p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", rel, err)
		}
		pages[filepath.ToSlash(rel)] = parsed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk site: %w", err)
	}

	var problems []Problem
	for rel, pg := range pages {
		for _, href := range pg.links {
			if prob, bad := checkLink(rel, href, pg, pages); bad {
				problems = append(problems, prob)
			}
		}
	}
	return problems, nil
}

func checkLink(fromRel, href string, from *page, pages map[string]*page) (Problem, bool) {
	if isExternal(href) || href == "" {
		return Problem{}, false
	}

	// Same-page fragment.
	if frag, ok := strings.CutPrefix(href, "#"); ok {
		if _, ok := from.ids[frag]; !ok {
			return Problem{
				Page:   fromRel,
				Href:   href,
				Reason: fmt.Sprintf("no element with id %q on this page", frag),
			}, true
		}
		return Problem{}, false
	}

	file, frag, _ := strings.Cut(href, "#")
	target := path.Clean(path.Join(path.Dir(fromRel), file))

	pg, ok := pages[target]
	if !ok {
		return Problem{
			Page:     fromRel,
			Href:     href,
			Resolved: target,
			Reason:   "target page does not exist",
		}, true
	}
	if frag != "" {
		if _, ok := pg.ids[frag]; !ok {
			return Problem{
				Page:     fromRel,
				Href:     href,
				Resolved: target,
				Reason:   fmt.Sprintf("target page has no element with id %q", frag),
			}, true
		}
	}
	return Problem{}, false
}

func parsePage(path string) (*page, error) {
	// #nosec G304 -- path comes from walking the output directory.
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parseReader(f)
}

func parseReader(r io.Reader) (*page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	pg := &page{ids: make(map[string]struct{})}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				switch attr.Key {
				case "id":
					pg.ids[attr.Val] = struct{}{}
				case "href":
					if n.Data == "a" {
						pg.links = append(pg.links, attr.Val)
					}
				case "name":
					if n.Data == "a" {
						pg.ids[attr.Val] = struct{}{}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return pg, nil
}

func isExternal(href string) bool {
	return strings.Contains(href, "://") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "//")
}
