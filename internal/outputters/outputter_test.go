package outputters

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dotcommander/listingscore/internal/config"
	"github.com/dotcommander/listingscore/internal/output"
	"github.com/dotcommander/listingscore/internal/scoring"
)

type mockFormatter struct {
	formatCalled bool
	formatError  error
	report       *output.Report
}

func (m *mockFormatter) Format(w io.Writer, r *output.Report) error {
	m.formatCalled = true
	m.report = r
	if m.formatError != nil {
		return m.formatError
	}
	_, err := io.WriteString(w, "rendered\n")
	return err
}

type mockFormatterFactory struct {
	requestedFormat string
	formatter       output.Formatter
	createError     error
}

func (m *mockFormatterFactory) CreateFormatter(format string) (output.Formatter, error) {
	m.requestedFormat = format
	if m.createError != nil {
		return nil, m.createError
	}
	return m.formatter, nil
}

func sampleReport() *output.Report {
	return output.Single("a.listing.md", "a", scoring.Result{Total: 70, Max: 77, Percent: 90.9, Grade: "B", RubricVersion: "v2"})
}

func TestFormatUsesConfiguredFormat(t *testing.T) {
	formatter := &mockFormatter{}
	factory := &mockFormatterFactory{formatter: formatter}
	o := NewOutputterWithFactory(&config.Config{Format: "markdown"}, factory)
	var buf bytes.Buffer
	o.SetStdout(&buf)

	r := sampleReport()
	if err := o.Format(r, ""); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if factory.requestedFormat != "markdown" {
		t.Errorf("requested format = %q, want markdown", factory.requestedFormat)
	}
	if !formatter.formatCalled || formatter.report != r {
		t.Error("formatter not called with the report")
	}
	if buf.String() != "rendered\n" {
		t.Errorf("stdout = %q", buf.String())
	}
}

func TestFormatExplicitFormatWins(t *testing.T) {
	factory := &mockFormatterFactory{formatter: &mockFormatter{}}
	o := NewOutputterWithFactory(&config.Config{Format: "console"}, factory)
	o.SetStdout(io.Discard)

	if err := o.Format(sampleReport(), "json"); err != nil {
		t.Fatal(err)
	}
	if factory.requestedFormat != "json" {
		t.Errorf("requested format = %q, want json", factory.requestedFormat)
	}
}

func TestFormatErrors(t *testing.T) {
	createErr := errors.New("no such format")
	o := NewOutputterWithFactory(&config.Config{}, &mockFormatterFactory{createError: createErr})
	if err := o.Format(sampleReport(), "xml"); !errors.Is(err, createErr) {
		t.Errorf("Format() error = %v, want %v", err, createErr)
	}

	formatErr := errors.New("boom")
	o = NewOutputterWithFactory(&config.Config{}, &mockFormatterFactory{formatter: &mockFormatter{formatError: formatErr}})
	o.SetStdout(io.Discard)
	if err := o.Format(sampleReport(), "console"); !errors.Is(err, formatErr) {
		t.Errorf("Format() error = %v, want %v", err, formatErr)
	}
}

func TestFormatWritesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "scores.json")
	o := NewOutputter(&config.Config{Format: "json", Output: path})
	var buf bytes.Buffer
	o.SetStdout(&buf)

	if err := o.Format(sampleReport(), ""); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("stdout should be empty when writing to a file, got %q", buf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"grade": "B"`) {
		t.Errorf("file content = %s", data)
	}
}

func TestDefaultFactory(t *testing.T) {
	f := DefaultFactory{}
	for _, format := range []string{"console", "json", "markdown", ""} {
		if _, err := f.CreateFormatter(format); err != nil {
			t.Errorf("CreateFormatter(%q) error = %v", format, err)
		}
	}
	if _, err := f.CreateFormatter("html"); err == nil {
		t.Error("CreateFormatter(html) should fail")
	}
}
