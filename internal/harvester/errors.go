package harvester

import (
	"errors"
	"fmt"
)

// NotFoundError signals that a named resource does not exist. It is a
// control-flow signal for reconciliation, not a failure: the probe step
// absorbs it to select the existence branch.
type NotFoundError struct {
	Kind      string
	Namespace string
	Name      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s/%s' not found", e.Kind, e.Namespace, e.Name)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// AuthenticationError signals rejected credentials or an expired session.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// APIError is any other transport or server-side failure. StatusCode is zero
// when the request never produced a response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("API error: %s", e.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}
