// Package cue checks listing, report, rubric and lexicon documents against
// embedded CUE schemas before they are decoded into Go types.
package cue

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Schema names, matching the embedded file names.
const (
	SchemaListing      = "listing"
	SchemaAutocomplete = "autocomplete"
	SchemaRubric       = "rubric"
	SchemaLexicon      = "lexicon"
)

// ValidationError is one schema violation.
type ValidationError struct {
	Schema  string
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Validator handles CUE validation. A Validator is not safe for concurrent
// use; create one per goroutine.
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance with no schemas loaded.
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// New creates a Validator with the embedded schemas loaded.
func New() (*Validator, error) {
	v := NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadSchemas compiles all CUE schema files from the embedded filesystem.
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return fmt.Errorf("could not read schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if instErr := inst.Err(); instErr != nil {
			return fmt.Errorf("schema %s does not compile: %w", entry.Name(), instErr)
		}

		// listing.cue -> listing
		v.schemas[strings.TrimSuffix(entry.Name(), ".cue")] = inst.Value()
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas found")
	}
	return nil
}

// ValidateListing validates listing data against the listing schema
func (v *Validator) ValidateListing(data map[string]any) ([]ValidationError, error) {
	return v.Validate(SchemaListing, data)
}

// ValidateAutocomplete validates an autocomplete report
func (v *Validator) ValidateAutocomplete(data map[string]any) ([]ValidationError, error) {
	return v.Validate(SchemaAutocomplete, data)
}

// ValidateRubric validates rubric data against the rubric schema
func (v *Validator) ValidateRubric(data map[string]any) ([]ValidationError, error) {
	return v.Validate(SchemaRubric, data)
}

// ValidateLexicon validates lexicon data against the lexicon schema
func (v *Validator) ValidateLexicon(data map[string]any) ([]ValidationError, error) {
	return v.Validate(SchemaLexicon, data)
}

// Validate checks data against the #Name definition of the named schema.
// Null values are treated as absent fields.
func (v *Validator) Validate(schemaName string, data map[string]any) ([]ValidationError, error) {
	schema, ok := v.schemas[schemaName]
	if !ok {
		return nil, fmt.Errorf("schema %q is not loaded", schemaName)
	}

	dataValue := v.ctx.Encode(prune(data))
	if encErr := dataValue.Err(); encErr != nil {
		return nil, fmt.Errorf("error encoding data: %w", encErr)
	}

	defPath := cue.ParsePath("#" + strings.ToUpper(schemaName[:1]) + schemaName[1:])
	def := schema.LookupPath(defPath)
	if !def.Exists() {
		return nil, fmt.Errorf("schema %q has no %s definition", schemaName, defPath)
	}

	unified := def.Unify(dataValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrors(err, schemaName), nil
	}
	return nil, nil
}

// extractErrors flattens a CUE error list into ValidationErrors.
func extractErrors(err error, schemaName string) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		out = append(out, ValidationError{
			Schema:  schemaName,
			Path:    fieldPath(e.Path()),
			Message: fmt.Sprintf(format, args...),
		})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Schema: schemaName, Message: err.Error()})
	}
	return out
}

// fieldPath joins an error path without its leading #Definition element.
func fieldPath(path []string) string {
	if len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	return strings.Join(path, ".")
}

// prune drops nil values so an empty YAML key reads as an absent field.
func prune(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, val := range data {
		if val == nil {
			continue
		}
		out[k] = pruneValue(val)
	}
	return out
}

func pruneValue(val any) any {
	switch t := val.(type) {
	case map[string]any:
		return prune(t)
	case []any:
		items := make([]any, 0, len(t))
		for _, item := range t {
			items = append(items, pruneValue(item))
		}
		return items
	default:
		return val
	}
}
