package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/listingscore/internal/output"
)

const weakListing = "title: Print\n"

const japandiListing = `---
title: Japandi Wall Art | Minimalist Line Drawing | Boho Bedroom Decor
tags:
  - japandi wall art
  - minimalist print
  - boho bedroom decor
  - line drawing print
  - neutral wall art
materials: [paper, ink]
colors:
  primary: beige
  secondary: black
alt_texts:
  - framed print above a bed
  - close up of the line work
---
Japandi wall art for a calm bedroom. A minimalist line drawing printed on
matte paper, ready to frame.
`

const japandiReport = `{"results": [
  {"keyword": "japandi wall art", "found": true, "position": 2},
  {"keyword": "minimalist print", "found": true, "position": 5}
]}`

// inTempDir runs the test from an empty directory so no config file or
// .env is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// runCLI runs one invocation and returns the exit code and both streams.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func decodeReport(t *testing.T, data string) output.JSONReport {
	t.Helper()
	var r output.JSONReport
	require.NoError(t, json.Unmarshal([]byte(data), &r), data)
	return r
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "listingscore version "+output.Version)
}

func TestRunScoreOffline(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, filepath.Join(dir, "weak.listing.yaml"), weakListing)

	code, stdout, stderr := runCLI(t, "score", "weak.listing.yaml", "-f", "json")
	require.Equal(t, 0, code, stderr)

	r := decodeReport(t, stdout)
	require.Len(t, r.Listings, 1)
	l := r.Listings[0]
	assert.Equal(t, "weak", l.ID)
	assert.Equal(t, "weak.listing.yaml", l.Path)
	require.NotNil(t, l.Result)
	assert.False(t, l.Result.Online)
	assert.Equal(t, 77, l.Result.Max)
	assert.Nil(t, r.Summary)
}

func TestRunScoreSiblingReport(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, filepath.Join(dir, "shop", "japandi.listing.md"), japandiListing)
	writeFile(t, filepath.Join(dir, "shop", "japandi.autocomplete.json"), japandiReport)

	code, stdout, stderr := runCLI(t, "score", "shop/japandi.listing.md", "-f", "json")
	require.Equal(t, 0, code, stderr)
	r := decodeReport(t, stdout)
	require.NotNil(t, r.Listings[0].Result)
	assert.True(t, r.Listings[0].Result.Online)
	assert.Equal(t, 100, r.Listings[0].Result.Max)

	code, stdout, _ = runCLI(t, "score", "shop/japandi.listing.md", "--offline", "-f", "json")
	require.Equal(t, 0, code)
	assert.False(t, decodeReport(t, stdout).Listings[0].Result.Online)
}

func TestRunScoreExplicitReportWins(t *testing.T) {
	dir := inTempDir(t)
	embedded := strings.Replace(japandiListing, "alt_texts:", `autocomplete:
  results:
    - keyword: japandi wall art
      found: false
    - keyword: minimalist print
      found: false
alt_texts:`, 1)
	writeFile(t, filepath.Join(dir, "japandi.listing.md"), embedded)
	writeFile(t, filepath.Join(dir, "reports", "japandi.json"), japandiReport)

	code, stdout, stderr := runCLI(t, "score", "japandi.listing.md", "-f", "json")
	require.Equal(t, 0, code, stderr)
	fromEmbedded := decodeReport(t, stdout).Listings[0].Result
	require.NotNil(t, fromEmbedded)
	assert.True(t, fromEmbedded.Online)

	code, stdout, stderr = runCLI(t, "score", "japandi.listing.md", "--report", "reports/japandi.json", "-f", "json")
	require.Equal(t, 0, code, stderr)
	fromFlag := decodeReport(t, stdout).Listings[0].Result
	require.NotNil(t, fromFlag)
	assert.Greater(t, fromFlag.Total, fromEmbedded.Total, "confirmed keywords from --report must be used")
}

func TestRunScoreFailOn(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, filepath.Join(dir, "weak.listing.yaml"), weakListing)

	tests := []struct {
		failOn string
		want   int
	}{
		{"none", 0},
		{"warning", 2},
		{"error", 2},
	}
	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			code, _, stderr := runCLI(t, "score", "weak.listing.yaml", "-q", "--fail-on", tt.failOn)
			assert.Equal(t, tt.want, code)
			assert.NotContains(t, stderr, "Error:", "fail-on exits silently")
		})
	}
}

func TestRunScoreErrors(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, filepath.Join(dir, "bad.listing.yaml"), "title: Print\ntags: 5\n")
	writeFile(t, filepath.Join(dir, "weak.listing.yaml"), weakListing)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"score", "nope.listing.yaml"}, "Error:"},
		{"schema violation", []string{"score", "bad.listing.yaml"}, "Error:"},
		{"unknown format", []string{"score", "weak.listing.yaml", "-f", "html"}, "invalid format"},
		{"unknown rubric", []string{"score", "weak.listing.yaml", "--rubric", "v9"}, "v9"},
		{"bad fail-on", []string{"score", "weak.listing.yaml", "--fail-on", "sometimes"}, "invalid fail-on level"},
		{"no args", []string{"score"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestRunScoreOutputFile(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, filepath.Join(dir, "weak.listing.yaml"), weakListing)

	code, stdout, stderr := runCLI(t, "score", "weak.listing.yaml", "-f", "markdown", "-o", "out/report.md")
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(filepath.Join(dir, "out", "report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Listing Score Report")
}

func TestRunScoreConfigFile(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, filepath.Join(dir, "weak.listing.yaml"), weakListing)
	writeFile(t, filepath.Join(dir, ".listingscorerc.yaml"), "format: json\nrubric: v1\n")

	code, stdout, stderr := runCLI(t, "score", "weak.listing.yaml")
	require.Equal(t, 0, code, stderr)
	r := decodeReport(t, stdout)
	assert.Equal(t, "v1", r.Listings[0].Result.RubricVersion)
}

func TestRunRubric(t *testing.T) {
	dir := inTempDir(t)

	code, stdout, stderr := runCLI(t, "rubric", "--rubric", "v1")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "version: v1")

	path := filepath.Join(dir, "rubric.yaml")
	writeFile(t, path, stdout)
	code, stdout, stderr = runCLI(t, "rubric", "validate", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "✓")

	writeFile(t, path, "version: v3\n")
	code, _, _ = runCLI(t, "rubric", "validate", path)
	assert.Equal(t, 1, code)
}

func TestRunLexicon(t *testing.T) {
	dir := inTempDir(t)

	code, stdout, stderr := runCLI(t, "lexicon")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "buyer_intent:")

	path := filepath.Join(dir, "ceramics.yaml")
	writeFile(t, path, "filler: [nice]\nrooms: [kitchen, dining room]\n")
	code, stdout, stderr = runCLI(t, "lexicon", "validate", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "3 words")

	code, stdout, stderr = runCLI(t, "lexicon", "--lexicon", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "dining room")
	assert.NotContains(t, stdout, "japandi")
}

func TestRunHistoryNeedsDSN(t *testing.T) {
	inTempDir(t)
	code, _, stderr := runCLI(t, "history")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "PostgreSQL DSN")
}

func TestDisplayPath(t *testing.T) {
	root := t.TempDir()
	inside := filepath.Join(root, "shop", "a.listing.md")
	outside := filepath.Join(filepath.Dir(root), "elsewhere.listing.md")

	assert.Equal(t, "shop/a.listing.md", displayPath(root, inside))
	assert.Equal(t, outside, displayPath(root, outside))
	assert.Equal(t, inside, displayPath("", inside))
}
