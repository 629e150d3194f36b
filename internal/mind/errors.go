package mind

import (
	"errors"
	"fmt"
)

// ErrParameterExtraction means an intent pattern matched but a required
// parameter could not be parsed (e.g. volume outside 0-100). The composer
// answers with a clarification request instead of guessing.
var ErrParameterExtraction = errors.New("parameter extraction failed")

// ParameterError carries which intent stumbled on parameter parsing so the
// clarification can name the right command. Wraps the underlying error,
// which in turn wraps ErrParameterExtraction.
type ParameterError struct {
	Kind IntentKind
	Err  error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ParameterError) Unwrap() error { return e.Err }

// ErrContextNotFound is returned by direct lookups; the switch resolver
// never surfaces it, it creates a new context instead.
var ErrContextNotFound = errors.New("context not found")
