package signature

import "fmt"

// VerificationError reports a forged or unverifiable delivery. It is always
// returned as a value, never panicked; there is no partial-credit state
// between authentic and forged.
type VerificationError struct {
	Message string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("signature verification failed: %s", e.Message)
}

// NewVerificationError creates a new verification error
func NewVerificationError(format string, args ...interface{}) *VerificationError {
	return &VerificationError{
		Message: fmt.Sprintf(format, args...),
	}
}

// IsVerificationError reports whether err marks a delivery as forged
func IsVerificationError(err error) bool {
	_, ok := err.(*VerificationError)
	return ok
}
