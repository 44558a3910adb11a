package config

import (
	"fmt"
	"os"
)

const starterConfig = `# lessonkit configuration
corpus:
  root: ./lessons
  # ignore:
  #   - "*.draft.md"

site:
  title: Python Lessons
  description: Introductory Python lessons

output:
  directory: ./site
  clean: true

lint:
  toc_depth: 2
  require_uid: false
  require_code_language: true

history:
  enabled: false
  # path: ./lessonkit.db
  # keep: 100

preview:
  port: 8080
  debounce: 500ms
  # relint_interval: 10m

events:
  enabled: false
  # nats_url: nats://localhost:4222
  # subject: lessonkit.lint.issue
`

// Init writes a starter configuration file. It refuses to overwrite an
// existing file unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
