// Package frontend splits listing documents written as Markdown with a YAML
// frontmatter block: listing fields in the frontmatter, description in the body.
package frontend

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Frontmatter represents parsed frontmatter data
type Frontmatter struct {
	Data map[string]any
	Raw  string
	Body string
}

// HasFrontmatter reports whether content opens with a frontmatter delimiter.
func HasFrontmatter(content string) bool {
	content = strings.TrimPrefix(content, "\ufeff")
	return strings.HasPrefix(strings.TrimLeft(content, " \t"), delimiter)
}

// ParseYAMLFrontmatter extracts YAML frontmatter from markdown content.
// Content without an opening delimiter is all body. An opening delimiter
// without a closing one is an error, since the body would otherwise be
// swallowed into the YAML block.
func ParseYAMLFrontmatter(content string) (*Frontmatter, error) {
	if !HasFrontmatter(content) {
		return &Frontmatter{
			Data: make(map[string]any),
			Body: content,
		}, nil
	}

	content = strings.TrimLeft(strings.TrimPrefix(content, "\ufeff"), " \t")
	rest := strings.TrimPrefix(content, delimiter)

	end := closingDelimiter(rest)
	if end < 0 {
		return nil, fmt.Errorf("unclosed frontmatter (missing closing %s)", delimiter)
	}

	raw := rest[:end]
	body := rest[end+len(delimiter):]
	body = strings.TrimPrefix(strings.TrimPrefix(body, "\r"), "\n")

	data := make(map[string]any)
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("error parsing frontmatter: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}

	return &Frontmatter{
		Data: data,
		Raw:  raw,
		Body: body,
	}, nil
}

// closingDelimiter finds a delimiter that sits on its own line.
func closingDelimiter(rest string) int {
	offset := 0
	for {
		i := strings.Index(rest[offset:], delimiter)
		if i < 0 {
			return -1
		}
		pos := offset + i
		lineStart := pos == 0 || rest[pos-1] == '\n'
		after := rest[pos+len(delimiter):]
		lineEnd := after == "" || after[0] == '\n' || after[0] == '\r'
		if lineStart && lineEnd {
			return pos
		}
		offset = pos + len(delimiter)
	}
}
