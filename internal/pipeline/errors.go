package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure. Every stage failure carries
// exactly one kind; the orchestrator logs by kind and the stats counter
// buckets by it.
type Kind string

const (
	KindSchemaViolation     Kind = "schema_violation"
	KindUnsupportedEncoding Kind = "unsupported_encoding"
	KindFetch               Kind = "fetch_error"
	KindLengthMismatch      Kind = "length_mismatch"
	KindChecksumMismatch    Kind = "checksum_mismatch"
	KindWrite               Kind = "write_error"
)

// Error is a stage failure tagged with its kind. All pipeline failures
// are local to one message: the orchestrator reports them and moves on.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the failure kind from an error chain. It returns the
// empty kind for errors that did not originate in a pipeline stage.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
