package params

import "fmt"

// PreconditionError reports a parameter that violates an invariant. It is
// raised when a component is constructed and is never retried.
type PreconditionError struct {
	Field  string
	Value  any
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("invalid %s = %v: %s", e.Field, e.Value, e.Reason)
}
