package listing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/listingscore/internal/cue"
	"github.com/dotcommander/listingscore/internal/frontend"
	"github.com/dotcommander/listingscore/pkg/errors"
)

// Description formats.
const (
	FormatText = "text"
	FormatHTML = "html"
)

// File is a listing read from disk together with the autocomplete report
// embedded in it, if any.
type File struct {
	Path         string
	Listing      Listing
	Autocomplete *Autocomplete
}

// document is the on-disk shape: listing fields plus an optional report.
type document struct {
	Listing      `yaml:",inline"`
	Autocomplete *Autocomplete `yaml:"autocomplete,omitempty"`
}

// Load reads and validates a listing file. Supported formats are Markdown
// with YAML frontmatter (the body is the description), YAML and JSON.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes listing content; name selects the format by extension.
func Parse(name string, data []byte) (*File, error) {
	raw, body, err := decodeRaw(name, data)
	if err != nil {
		return nil, err
	}

	validator, err := cue.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	if err := check(validator.ValidateListing, raw, name); err != nil {
		return nil, err
	}
	if report, ok := raw["autocomplete"].(map[string]any); ok {
		if err := check(validator.ValidateAutocomplete, report, name); err != nil {
			return nil, err
		}
	}

	normalizeID(raw)

	var doc document
	if err := remarshal(raw, &doc); err != nil {
		return nil, errors.NewInputError("failed to decode listing", name, err)
	}
	if body != "" && strings.TrimSpace(doc.Description) == "" {
		doc.Description = body
	}

	if doc.DescriptionFormat == FormatHTML || (doc.DescriptionFormat == "" && LooksLikeHTML(doc.Description)) {
		text, err := HTMLToText(doc.Description)
		if err != nil {
			return nil, errors.NewInputError("failed to read HTML description", name, err)
		}
		doc.Description = text
		doc.DescriptionFormat = FormatText
	}
	doc.Description = strings.TrimSpace(doc.Description)

	if doc.ID == "" {
		doc.ID = IDFromPath(name)
	}

	return &File{
		Path:         name,
		Listing:      doc.Listing,
		Autocomplete: doc.Autocomplete,
	}, nil
}

// LoadAutocomplete reads a standalone autocomplete report (YAML or JSON).
func LoadAutocomplete(path string) (*Autocomplete, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read autocomplete report: %w", err)
	}

	raw, _, err := decodeRaw(path, data)
	if err != nil {
		return nil, err
	}

	validator, err := cue.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	if err := check(validator.ValidateAutocomplete, raw, path); err != nil {
		return nil, err
	}

	var report Autocomplete
	if err := remarshal(raw, &report); err != nil {
		return nil, errors.NewInputError("failed to decode autocomplete report", path, err)
	}
	return &report, nil
}

// IDFromPath derives a listing id from its file name:
// listings/japandi.listing.md -> japandi.
func IDFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, ".listing")
}

func decodeRaw(name string, data []byte) (map[string]any, string, error) {
	raw := make(map[string]any)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		fm, err := frontend.ParseYAMLFrontmatter(string(data))
		if err != nil {
			return nil, "", errors.NewInputError("invalid frontmatter", name, err)
		}
		return fm.Data, fm.Body, nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, "", errors.NewInputError("invalid YAML", name, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, "", errors.NewInputError("invalid JSON", name, err)
		}
	default:
		return nil, "", errors.NewInputError(
			fmt.Sprintf("unsupported listing format %q: use .md, .yaml, .yml or .json", filepath.Ext(name)), name, nil)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	return raw, "", nil
}

func check(validate func(map[string]any) ([]cue.ValidationError, error), raw map[string]any, name string) error {
	issues, err := validate(raw)
	if err != nil {
		return fmt.Errorf("failed to validate %s: %w", name, err)
	}
	if len(issues) > 0 {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			msgs = append(msgs, issue.Error())
		}
		return errors.NewInputError(strings.Join(msgs, "; "), name, nil)
	}
	return nil
}

// normalizeID turns numeric ids into their decimal text; JSON numbers arrive
// as float64 and would otherwise be rendered in exponent form.
func normalizeID(raw map[string]any) {
	switch id := raw["id"].(type) {
	case float64:
		raw["id"] = strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		raw["id"] = strconv.Itoa(id)
	}
}

// remarshal decodes an already validated generic map into out. Going through
// YAML lets numeric ids land in string fields for every input format.
func remarshal(raw map[string]any, out any) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}
