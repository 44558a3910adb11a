// Package render generates the static HTML site for a lesson corpus.
//
// Code examples are rendered verbatim as highlighted-ready <pre> blocks;
// nothing here executes a snippet.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/lessonkit/internal/config"
	"git.home.luguber.info/inful/lessonkit/internal/corpus"
	"git.home.luguber.info/inful/lessonkit/internal/gitinfo"
	"git.home.luguber.info/inful/lessonkit/internal/lesson"
	"git.home.luguber.info/inful/lessonkit/internal/slug"
)

// Report summarizes a render run.
type Report struct {
	OutputDir string
	Pages     int
	Duration  time.Duration
}

// Renderer converts a lesson corpus into a static site.
type Renderer struct {
	cfg     *config.Config
	md      goldmark.Markdown
	lastmod *gitinfo.Provider // nil when the corpus is not a git work tree
}

// NewRenderer creates a renderer for the given configuration.
func NewRenderer(cfg *config.Config) *Renderer {
	md := goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)

	provider, err := gitinfo.NewProvider(cfg.Corpus.Root)
	if err != nil {
		slog.Debug("Corpus is not a git work tree, using file mtimes", "root", cfg.Corpus.Root)
		provider = nil
	}

	return &Renderer{cfg: cfg, md: md, lastmod: provider}
}

// RenderSite renders every lesson plus the site index into the output
// directory.
func (r *Renderer) RenderSite(files []corpus.File) (*Report, error) {
	start := time.Now()
	outDir := r.cfg.Output.Directory

	if r.cfg.Output.Clean {
		if err := os.RemoveAll(outDir); err != nil {
			return nil, fmt.Errorf("clean output directory: %w", err)
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var pages []indexEntry
	for _, f := range files {
		doc, err := lesson.ParseFile(f.Path)
		if err != nil {
			return nil, err
		}

		page, err := r.renderLesson(doc, f)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f.RelativePath, err)
		}
		pages = append(pages, page)
	}

	if err := r.renderIndex(pages); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}

	report := &Report{
		OutputDir: outDir,
		Pages:     len(pages) + 1,
		Duration:  time.Since(start),
	}
	slog.Info("Site rendered", "output", outDir, "pages", report.Pages, "duration", report.Duration)
	return report, nil
}

func (r *Renderer) renderLesson(doc *lesson.Lesson, f corpus.File) (indexEntry, error) {
	var body bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(newSlugIDs()))
	if err := r.md.Convert(doc.Body(), &body, parser.WithContext(ctx)); err != nil {
		return indexEntry{}, err
	}

	outRel := htmlPath(f.RelativePath)
	outPath := filepath.Join(r.cfg.Output.Directory, filepath.FromSlash(outRel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return indexEntry{}, err
	}

	title := doc.Meta.Title
	if title == "" {
		title = doc.Title
	}
	if title == "" {
		title = f.RelativePath
	}

	page := lessonPage{
		SiteTitle:    r.cfg.Site.Title,
		Title:        title,
		Description:  r.cfg.Site.Description,
		Body:         template.HTML(body.String()), // #nosec G203 -- output of our own markdown conversion
		LastModified: r.lastModified(f.Path),
		HomeHref:     homeHref(outRel),
	}

	out, err := os.Create(outPath)
	if err != nil {
		return indexEntry{}, err
	}
	defer func() { _ = out.Close() }()

	if err := lessonTemplate.Execute(out, page); err != nil {
		return indexEntry{}, err
	}

	return indexEntry{
		Title:  title,
		Href:   outRel,
		Weight: doc.Meta.Weight,
		Tags:   doc.Meta.Tags,
	}, nil
}

func (r *Renderer) renderIndex(pages []indexEntry) error {
	sort.SliceStable(pages, func(i, j int) bool {
		if pages[i].Weight != pages[j].Weight {
			return pages[i].Weight < pages[j].Weight
		}
		return pages[i].Title < pages[j].Title
	})

	out, err := os.Create(filepath.Join(r.cfg.Output.Directory, "index.html"))
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	return indexTemplate.Execute(out, indexPage{
		SiteTitle:   r.cfg.Site.Title,
		Description: r.cfg.Site.Description,
		Lessons:     pages,
	})
}

func (r *Renderer) lastModified(path string) string {
	if r.lastmod != nil {
		if t, err := r.lastmod.LastModified(path); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime().UTC().Format("2006-01-02")
	}
	return ""
}

// htmlPath maps a corpus-relative lesson path to its rendered page path.
func htmlPath(rel string) string {
	ext := filepath.Ext(rel)
	return strings.TrimSuffix(rel, ext) + ".html"
}

// homeHref builds the relative path back to the site index from a page.
func homeHref(outRel string) string {
	depth := strings.Count(outRel, "/")
	if depth == 0 {
		return "index.html"
	}
	return strings.Repeat("../", depth) + "index.html"
}

// slugIDs plugs the corpus anchor derivation into goldmark, so rendered
// heading ids match the anchors the ToC blocks and the linter use.
type slugIDs struct {
	dedup *slug.Deduper
}

func newSlugIDs() parser.IDs {
	return &slugIDs{dedup: slug.NewDeduper()}
}

func (s *slugIDs) Generate(value []byte, _ gmast.NodeKind) []byte {
	derived := s.dedup.Take(string(value))
	if derived == "" {
		derived = "section"
	}
	return []byte(derived)
}

func (s *slugIDs) Put([]byte) {}
