package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldOrder is the canonical order of listing fields. Unknown fields follow
// alphabetically.
var FieldOrder = []string{
	"id", "title", "tags", "description_format", "description",
	"materials", "colors", "alt_texts", "autocomplete",
}

// Formatter formats listing files canonically.
type Formatter interface {
	// Format takes raw file content and returns formatted content.
	// Returns original content and error if formatting fails.
	Format(content string) (string, error)
}

// ForPath picks the formatter for a listing file by extension.
func ForPath(path string) (Formatter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return &MarkdownFormatter{}, nil
	case ".yaml", ".yml":
		return &YAMLFormatter{}, nil
	case ".json":
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("no formatter for %s", filepath.Base(path))
	}
}

// parseFrontmatterRaw extracts frontmatter and body without fully parsing YAML.
// Returns frontmatter content (without ---), body content, and error.
func parseFrontmatterRaw(content string) (frontmatter, body string, hasFrontmatter bool, err error) {
	trimmed := strings.TrimLeft(content, " \t")
	if !strings.HasPrefix(trimmed, "---") {
		return "", content, false, nil
	}

	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return "", content, false, fmt.Errorf("unclosed frontmatter (missing closing ---)")
	}

	return parts[1], parts[2], true, nil
}

// normalizeFields reorders listing fields: FieldOrder first, then the rest
// alphabetically. Tags are trimmed and their inner whitespace collapsed.
func normalizeFields(yamlContent string) (string, error) {
	data := make(map[string]interface{})
	if err := yaml.Unmarshal([]byte(yamlContent), &data); err != nil {
		return "", err
	}
	if tags, ok := data["tags"].([]interface{}); ok {
		data["tags"] = tidyTags(tags)
	}

	var orderedKeys []string
	for _, key := range FieldOrder {
		if _, exists := data[key]; exists {
			orderedKeys = append(orderedKeys, key)
		}
	}
	var otherKeys []string
	for key := range data {
		if !isKnownField(key) {
			otherKeys = append(otherKeys, key)
		}
	}
	sort.Strings(otherKeys)
	orderedKeys = append(orderedKeys, otherKeys...)

	// One field per encode keeps the order
	var buf bytes.Buffer
	for _, key := range orderedKeys {
		var fieldBuf bytes.Buffer
		fieldEncoder := yaml.NewEncoder(&fieldBuf)
		fieldEncoder.SetIndent(2)
		if err := fieldEncoder.Encode(map[string]interface{}{key: data[key]}); err != nil {
			return "", err
		}
		buf.WriteString(strings.TrimSuffix(fieldBuf.String(), "\n"))
		buf.WriteString("\n")
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func isKnownField(key string) bool {
	for _, k := range FieldOrder {
		if k == key {
			return true
		}
	}
	return false
}

func tidyTags(tags []interface{}) []interface{} {
	out := make([]interface{}, len(tags))
	for i, tag := range tags {
		if s, ok := tag.(string); ok {
			out[i] = strings.Join(strings.Fields(s), " ")
			continue
		}
		out[i] = tag
	}
	return out
}

// normalizeMarkdown normalizes the description body.
// hasFrontmatter indicates if this body follows frontmatter.
func normalizeMarkdown(body string, hasFrontmatter bool) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	result := strings.Join(lines, "\n")

	if hasFrontmatter {
		result = strings.TrimLeft(result, "\n")
		result = "\n" + result
	}

	return strings.TrimRight(result, "\n") + "\n"
}

// MarkdownFormatter formats Markdown listings with YAML frontmatter.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(content string) (string, error) {
	fm, body, hasFrontmatter, err := parseFrontmatterRaw(content)
	if err != nil {
		return content, err
	}

	if !hasFrontmatter {
		return normalizeMarkdown(content, false), nil
	}

	normalizedFM, err := normalizeFields(fm)
	if err != nil {
		return content, err
	}

	return "---\n" + normalizedFM + "\n---" + normalizeMarkdown(body, true), nil
}

// YAMLFormatter formats plain YAML listings.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(content string) (string, error) {
	normalized, err := normalizeFields(content)
	if err != nil {
		return content, err
	}
	return normalized + "\n", nil
}

// JSONFormatter re-indents JSON listings with two spaces. Key order is kept.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(content string) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(content)), "", "  "); err != nil {
		return content, err
	}
	buf.WriteString("\n")
	return buf.String(), nil
}

// Diff computes a simple line diff between original and formatted content.
// Returns empty string if contents are identical.
func Diff(original, formatted, filename string) string {
	if original == formatted {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("--- %s\n", filename))
	buf.WriteString(fmt.Sprintf("+++ %s (formatted)\n", filename))

	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	maxLen := len(origLines)
	if len(fmtLines) > maxLen {
		maxLen = len(fmtLines)
	}

	for i := 0; i < maxLen; i++ {
		var origLine, fmtLine string
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}

		if origLine != fmtLine {
			if origLine != "" {
				buf.WriteString(fmt.Sprintf("- %s\n", origLine))
			}
			if fmtLine != "" {
				buf.WriteString(fmt.Sprintf("+ %s\n", fmtLine))
			}
		}
	}

	return buf.String()
}
