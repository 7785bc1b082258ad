package validation

import "fmt"

// FieldError is a user-correctable rejection of one input field. The Reason
// is shown to the candidate verbatim.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Reason)
}
