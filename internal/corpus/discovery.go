// Package corpus discovers lesson files under a corpus root.
package corpus

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is one discovered lesson file.
type File struct {
	Path         string // absolute path
	RelativePath string // slash-separated path relative to the corpus root
}

// Discovery walks a corpus root for lesson files.
type Discovery struct {
	root   string
	ignore []string // glob patterns matched against the relative path
}

// NewDiscovery creates a Discovery for the given root. Ignore patterns use
// filepath.Match syntax against slash-separated relative paths.
func NewDiscovery(root string, ignore []string) *Discovery {
	return &Discovery{root: root, ignore: ignore}
}

// Discover walks the root and returns lesson files in stable relative-path
// order. Hidden directories and repository meta files are skipped.
func (d *Discovery) Discover() ([]File, error) {
	absRoot, err := filepath.Abs(d.root)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus root: %w", err)
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, fmt.Errorf("corpus root: %w", err)
	}

	var files []File
	err = filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") && path != absRoot {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if !IsLessonFile(path) || isMetaFile(name) {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.ignored(rel) {
			slog.Debug("Skipping ignored lesson file", "path", rel)
			return nil
		}

		files = append(files, File{Path: path, RelativePath: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })

	slog.Debug("Corpus discovery completed", "root", absRoot, "files", len(files))
	return files, nil
}

func (d *Discovery) ignored(rel string) bool {
	for _, pattern := range d.ignore {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		// Also match against the basename so "*.draft.md" style patterns
		// apply anywhere in the tree.
		if ok, _ := filepath.Match(pattern, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}

// IsLessonFile returns true for markdown lesson files.
func IsLessonFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// isMetaFile filters repository housekeeping documents that are not lessons.
func isMetaFile(filename string) bool {
	upper := strings.ToUpper(filename)
	for _, meta := range []string{
		"LICENSE.MD",
		"CONTRIBUTING.MD",
		"CHANGELOG.MD",
		"CODE_OF_CONDUCT.MD",
		"SECURITY.MD",
	} {
		if upper == meta {
			return true
		}
	}
	return false
}
