package format

import (
	"strings"
	"testing"
)

func TestMarkdownFormatter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "reorder listing fields",
			input: `---
materials: [paper, ink]
tags: [japandi wall art, minimalist print]
sku: JP-01
title: Japandi Wall Art
colors:
  secondary: black
  primary: beige
---

Japandi wall art for a calm bedroom.
`,
			expected: `---
title: Japandi Wall Art
tags:
  - japandi wall art
  - minimalist print
materials:
  - paper
  - ink
colors:
  primary: beige
  secondary: black
sku: JP-01
---
Japandi wall art for a calm bedroom.
`,
		},
		{
			name:  "tidy tags and trailing whitespace",
			input: "---\ntitle: Print\ntags:\n  - \"  boho   print \"\n---\nLine one.   \nLine two.\n\n\n",
			expected: `---
title: Print
tags:
  - boho print
---
Line one.
Line two.
`,
		},
		{
			name:     "no frontmatter",
			input:    "Just a description.  \n\n",
			expected: "Just a description.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &MarkdownFormatter{}
			result, err := f.Format(tt.input)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("Format() =\n%s\nexpected:\n%s", result, tt.expected)
			}
		})
	}
}

func TestMarkdownFormatterIdempotent(t *testing.T) {
	input := `---
id: "4213370001"
title: Boho Print
tags:
  - boho print
---
Boho print for the office.
`
	f := &MarkdownFormatter{}
	result, err := f.Format(input)
	if err != nil {
		t.Fatal(err)
	}
	if result != input {
		t.Errorf("Format() changed a formatted file:\n%s", Diff(input, result, "boho.listing.md"))
	}
}

func TestYAMLFormatter(t *testing.T) {
	input := "tags: [boho print]\nid: 1234567\ntitle: Boho Print\n"
	expected := `id: 1234567
title: Boho Print
tags:
  - boho print
`
	result, err := (&YAMLFormatter{}).Format(input)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if result != expected {
		t.Errorf("Format() =\n%s\nexpected:\n%s", result, expected)
	}

	if _, err := (&YAMLFormatter{}).Format("title: [unclosed\n"); err == nil {
		t.Error("expected an error for invalid YAML")
	}
}

func TestJSONFormatter(t *testing.T) {
	input := `  {"title":"Boho Print","id":42,"tags":["boho print"]}`
	expected := "{\n  \"title\": \"Boho Print\",\n  \"id\": 42,\n  \"tags\": [\n    \"boho print\"\n  ]\n}\n"

	result, err := (&JSONFormatter{}).Format(input)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if result != expected {
		t.Errorf("Format() = %q, expected %q", result, expected)
	}

	if _, err := (&JSONFormatter{}).Format(`{"title":`); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"shop/japandi.listing.md", "*format.MarkdownFormatter", false},
		{"boho.YAML", "*format.YAMLFormatter", false},
		{"boho.yml", "*format.YAMLFormatter", false},
		{"boho.json", "*format.JSONFormatter", false},
		{"image.png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, err := ForPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := typeName(f); got != tt.want {
				t.Errorf("ForPath() = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(f Formatter) string {
	switch f.(type) {
	case *MarkdownFormatter:
		return "*format.MarkdownFormatter"
	case *YAMLFormatter:
		return "*format.YAMLFormatter"
	case *JSONFormatter:
		return "*format.JSONFormatter"
	}
	return ""
}

func TestDiff(t *testing.T) {
	original := `---
title: test
---

Content.
`
	formatted := `---
title: test
---
Content.
`

	diff := Diff(original, formatted, "test.listing.md")
	if diff == "" {
		t.Error("Expected non-empty diff")
	}

	if !strings.Contains(diff, "--- test.listing.md") {
		t.Error("Diff should contain file header")
	}
}

func TestDiffIdentical(t *testing.T) {
	content := `---
title: test
---
Content.
`

	diff := Diff(content, content, "test.listing.md")
	if diff != "" {
		t.Errorf("Expected empty diff for identical content, got: %s", diff)
	}
}

func TestNormalizeFields(t *testing.T) {
	tests := []struct {
		name          string
		yaml          string
		expectedOrder []string
	}{
		{
			name: "listing fields first",
			yaml: `alt_texts: [a]
description: Test
title: test
id: x1`,
			expectedOrder: []string{"id", "title", "description", "alt_texts"},
		},
		{
			name: "alphabetical for unknown fields",
			yaml: `zebra: last
title: test
price: 12
alpha: first`,
			expectedOrder: []string{"title", "alpha", "price", "zebra"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := normalizeFields(tt.yaml)
			if err != nil {
				t.Fatalf("normalizeFields() error = %v", err)
			}

			var foundKeys []string
			for _, line := range strings.Split(result, "\n") {
				if strings.HasPrefix(line, " ") || !strings.Contains(line, ":") {
					continue
				}
				foundKeys = append(foundKeys, strings.SplitN(line, ":", 2)[0])
			}

			if strings.Join(foundKeys, ",") != strings.Join(tt.expectedOrder, ",") {
				t.Errorf("key order = %v, expected %v", foundKeys, tt.expectedOrder)
			}
		})
	}
}

func TestParseFrontmatterRaw(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedFM    string
		expectedBody  string
		expectedHasFM bool
		expectError   bool
	}{
		{
			name: "valid frontmatter",
			input: `---
title: test
---
Body content`,
			expectedFM:    "\ntitle: test\n",
			expectedBody:  "\nBody content",
			expectedHasFM: true,
		},
		{
			name:         "no frontmatter",
			input:        "Just body content",
			expectedBody: "Just body content",
		},
		{
			name: "unclosed frontmatter",
			input: `---
title: test
Body without closing`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, hasFM, err := parseFrontmatterRaw(tt.input)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if hasFM != tt.expectedHasFM {
				t.Errorf("hasFrontmatter = %v, expected %v", hasFM, tt.expectedHasFM)
			}
			if fm != tt.expectedFM {
				t.Errorf("frontmatter = %q, expected %q", fm, tt.expectedFM)
			}
			if body != tt.expectedBody {
				t.Errorf("body = %q, expected %q", body, tt.expectedBody)
			}
		})
	}
}
