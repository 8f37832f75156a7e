package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrMisconfigured   = errors.New("server misconfigured")
	ErrProviderFailure = errors.New("provider failure")
)

// Error carries a caller-facing detail message together with its kind and
// the underlying cause, if any.
type Error struct {
	Kind   error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func InvalidInput(detail string, cause error) error {
	return &Error{Kind: ErrInvalidInput, Detail: detail, Err: cause}
}

func Misconfigured(detail string, cause error) error {
	return &Error{Kind: ErrMisconfigured, Detail: detail, Err: cause}
}

func ProviderFailure(detail string, cause error) error {
	return &Error{Kind: ErrProviderFailure, Detail: detail, Err: cause}
}

// Detail returns the caller-facing message for err. Errors that did not come
// from this package fall back to err.Error().
func Detail(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
