package preview

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/lessonkit/internal/corpus"
)

// signature fingerprints the corpus contents. Two corpora with identical
// file sets and bytes produce the same signature, so rebuilds can be skipped
// when editor noise (chmod, touch) fires watcher events without changes.
func signature(files []corpus.File) (string, error) {
	h := sha256.New()
	for _, f := range files {
		fh, err := hashFile(f.Path)
		if err != nil {
			return "", fmt.Errorf("hash %s: %w", f.RelativePath, err)
		}
		fmt.Fprintf(h, "%s\x00%s\x00", f.RelativePath, fh)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(path string) (string, error) {
	// #nosec G304 -- path comes from corpus discovery.
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
