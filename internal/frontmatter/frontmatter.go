// Package frontmatter splits and rejoins YAML frontmatter on lesson files.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Style captures the newline shape needed to rewrite a document without
// churning unrelated bytes.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Meta holds the typed frontmatter fields lessonkit understands. Unknown
// fields are preserved in Extra so a fixer rewrite never drops them.
type Meta struct {
	Title  string         `yaml:"title,omitempty"`
	UID    string         `yaml:"uid,omitempty"`
	Weight int            `yaml:"weight,omitempty"`
	Tags   []string       `yaml:"tags,omitempty"`
	Extra  map[string]any `yaml:"-"`
}

// Split separates a `---` delimited YAML frontmatter block from the body.
//
// If the document does not start with a delimiter, had is false and body is
// the full input.
func Split(content []byte) (fm []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		// Empty frontmatter block.
		return []byte{}, content[start+len(open):], true, style, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	fmEnd := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return content[start:fmEnd], content[bodyStart:], true, style, nil
}

// Join reassembles a document from raw frontmatter and body. If had is false
// the body is returned unchanged.
func Join(fm []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	delim := []byte("---" + nl)
	out := make([]byte, 0, 2*len(delim)+len(fm)+len(body))
	out = append(out, delim...)
	out = append(out, fm...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

// Parse decodes raw frontmatter bytes (without delimiters) into Meta,
// keeping fields it does not model in Extra.
func Parse(fm []byte) (Meta, error) {
	var meta Meta
	if len(fm) == 0 {
		return meta, nil
	}

	if err := yaml.Unmarshal(fm, &meta); err != nil {
		return Meta{}, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(fm, &raw); err != nil {
		return Meta{}, err
	}
	for _, k := range []string{"title", "uid", "weight", "tags"} {
		delete(raw, k)
	}
	if len(raw) > 0 {
		meta.Extra = raw
	}
	return meta, nil
}

// Serialize encodes Meta back to YAML frontmatter bytes, typed fields first,
// Extra fields after. The result has no delimiters.
func (m Meta) Serialize() ([]byte, error) {
	fields := make(map[string]any, len(m.Extra)+4)
	for k, v := range m.Extra {
		fields[k] = v
	}
	if m.Title != "" {
		fields["title"] = m.Title
	}
	if m.UID != "" {
		fields["uid"] = m.UID
	}
	if m.Weight != 0 {
		fields["weight"] = m.Weight
	}
	if len(m.Tags) > 0 {
		fields["tags"] = m.Tags
	}
	return yaml.Marshal(fields)
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
