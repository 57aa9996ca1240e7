// Package outputters picks a formatter from configuration and sends the
// rendered report to stdout or the configured output file.
package outputters

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dotcommander/listingscore/internal/config"
	"github.com/dotcommander/listingscore/internal/output"
)

// FormatterFactory creates formatters by name.
type FormatterFactory interface {
	CreateFormatter(format string) (output.Formatter, error)
}

// DefaultFactory builds the formatters in the output package.
type DefaultFactory struct {
	Quiet   bool
	Verbose bool
}

// CreateFormatter returns the formatter for console, json or markdown.
func (f DefaultFactory) CreateFormatter(format string) (output.Formatter, error) {
	switch format {
	case "console", "":
		return output.NewConsoleFormatter(f.Quiet, f.Verbose), nil
	case "json":
		return output.NewJSONFormatter(true), nil
	case "markdown":
		return output.NewMarkdownFormatter(f.Verbose), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
	stdout  io.Writer
}

// NewOutputter creates an Outputter using the default formatters.
func NewOutputter(cfg *config.Config) *Outputter {
	return NewOutputterWithFactory(cfg, DefaultFactory{Quiet: cfg.Quiet, Verbose: cfg.Verbose})
}

// NewOutputterWithFactory creates an Outputter with a custom factory.
func NewOutputterWithFactory(cfg *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{config: cfg, factory: factory, stdout: os.Stdout}
}

// SetStdout redirects output that would go to stdout.
func (o *Outputter) SetStdout(w io.Writer) {
	o.stdout = w
}

// Format renders the report in the given format. An empty format falls back
// to the configured one. With an output file configured the report is
// written there instead of stdout.
func (o *Outputter) Format(r *output.Report, format string) error {
	if format == "" {
		format = o.config.Format
	}

	formatter, err := o.factory.CreateFormatter(format)
	if err != nil {
		return err
	}

	if o.config.Output == "" {
		return formatter.Format(o.stdout, r)
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, r); err != nil {
		return err
	}
	if dir := filepath.Dir(o.config.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(o.config.Output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing to file %s: %w", o.config.Output, err)
	}
	return nil
}
