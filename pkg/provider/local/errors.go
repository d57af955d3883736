package local

import "fmt"

// ErrorKind tags the failure class of an adapter error.
type ErrorKind string

const (
	// KindDependencyUnavailable means no engine binding is registered
	// under the configured name.
	KindDependencyUnavailable ErrorKind = "dependency_unavailable"

	// KindConstructionFailed means the engine could not be created.
	KindConstructionFailed ErrorKind = "construction_failed"

	// KindGenerationFailed means the engine failed while generating.
	KindGenerationFailed ErrorKind = "generation_failed"

	// KindNoEngine means no engine handle was available at generate time.
	KindNoEngine ErrorKind = "no_engine_available"
)

// Error is the uniform failure type of the local adapter. StatusCode is
// always 0: there is no HTTP transport between the adapter and the
// engine, and the zero code signals "local failure" to any generic error
// classification in the surrounding gateway. Message preserves the text
// of the underlying cause.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("local %s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, StatusCode: 0, Message: message}
}

// ErrNotImplemented is returned by the embedding stub.
var ErrNotImplemented = fmt.Errorf("local: embedding is not implemented")
