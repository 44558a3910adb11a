package preview

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/lessonkit/internal/corpus"
	"git.home.luguber.info/inful/lessonkit/internal/logfields"
)

// CorpusWatcher monitors the corpus tree for lesson file changes and feeds
// the rebuild debouncer.
type CorpusWatcher struct {
	root      string
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
}

// NewCorpusWatcher creates a recursive watcher rooted at the corpus
// directory.
func NewCorpusWatcher(root string, debouncer *Debouncer) (*CorpusWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	cw := &CorpusWatcher{root: root, watcher: watcher, debouncer: debouncer}
	if err := cw.addRecursive(root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return cw, nil
}

// fsnotify watches are not recursive; every directory is added separately.
func (cw *CorpusWatcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if name := entry.Name(); path != dir && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		if err := cw.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run consumes watcher events until ctx is cancelled.
func (cw *CorpusWatcher) Run(ctx context.Context) {
	defer func() { _ = cw.watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handle(event)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Corpus watcher error", logfields.Error(err))
		}
	}
}

func (cw *CorpusWatcher) handle(event fsnotify.Event) {
	// Newly created subdirectories need their own watch.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := cw.addRecursive(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", "path", event.Name, "error", err)
			}
			cw.debouncer.Trigger()
			return
		}
	}

	if !corpus.IsLessonFile(filepath.Base(event.Name)) {
		return
	}
	if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		slog.Debug("Lesson change detected", "file", event.Name, "op", event.Op.String())
		cw.debouncer.Trigger()
	}
}
