package completion

import "fmt"

// OutOfRangeError reports a cursor offset outside the buffer. This is a
// programmer error in the caller, not a property of the input SQL; malformed
// SQL never produces an error.
type OutOfRangeError struct {
	Cursor int
	Len    int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("completion cursor %d out of range [0, %d]", e.Cursor, e.Len)
}

// NoSchemaError reports a schema-dependent completion request made without a
// schema snapshot. Distinct from an empty schema: the front end uses it to
// tell "not connected" apart from "connected, no tables yet".
type NoSchemaError struct {
	Kind ContextKind
}

func (e *NoSchemaError) Error() string {
	return fmt.Sprintf("no schema snapshot available for %s completion", e.Kind)
}
