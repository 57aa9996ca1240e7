// Package errors defines the typed errors listingscore tooling returns.
// The scoring engine itself never returns errors; these cover the loaders,
// caches and stores around it.
package errors

import "fmt"

// Error codes
const (
	CodeInput = "INPUT_ERROR"
	CodeCache = "CACHE_ERROR"
	CodeStore = "STORE_ERROR"
)

// ToolError is the common shape of every typed error.
type ToolError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *ToolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ToolError) Unwrap() error {
	return e.Cause
}

// InputError reports a listing, report, rubric or lexicon that does not
// have the expected shape. It is a contract violation, not a quality finding.
type InputError struct {
	*ToolError
	Source string
}

func NewInputError(message, source string, cause error) *InputError {
	return &InputError{
		ToolError: &ToolError{
			Message: message,
			Code:    CodeInput,
			Context: map[string]any{
				"source": source,
			},
			Cause: cause,
		},
		Source: source,
	}
}

func (e *InputError) Error() string {
	if e.Source == "" {
		return e.ToolError.Error()
	}
	return fmt.Sprintf("%s: %s", e.Source, e.ToolError.Error())
}

type CacheError struct {
	*ToolError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		ToolError: &ToolError{
			Message: message,
			Code:    CodeCache,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type StoreError struct {
	*ToolError
	Operation string
}

func NewStoreError(message, operation string, cause error) *StoreError {
	return &StoreError{
		ToolError: &ToolError{
			Message: message,
			Code:    CodeStore,
			Context: map[string]any{
				"operation": operation,
			},
			Cause: cause,
		},
		Operation: operation,
	}
}
