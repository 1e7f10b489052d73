package ste

import "fmt"

// InvalidParameterError reports a caller-supplied parameter (n, t, tau,
// degree, ...) that violates a precondition of the operation called.
type InvalidParameterError struct {
	Op      string
	Message string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("ste: invalid parameter in %s: %s", e.Op, e.Message)
}

// MalformedInputError reports a structurally invalid input value: wrong
// array length, a public key whose fields don't satisfy the scheme's
// well-formedness checks, and the like.
type MalformedInputError struct {
	Op      string
	Message string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("ste: malformed input in %s: %s", e.Op, e.Message)
}

// SelectorInvalidError reports a decryption-committee selector that fails
// spec.md SS4.7's validation: the dummy party not selected, too few
// participants, or too many.
type SelectorInvalidError struct {
	Message string
}

func (e *SelectorInvalidError) Error() string {
	return fmt.Sprintf("ste: invalid selector: %s", e.Message)
}

// CeremonyStateError reports an operation attempted against a kzg.Ceremony
// in the wrong state (e.g. contributing after finalize).
type CeremonyStateError struct {
	Message string
}

func (e *CeremonyStateError) Error() string {
	return fmt.Sprintf("ste: ceremony state error: %s", e.Message)
}
