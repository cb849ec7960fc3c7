package domain

import "errors"

// Sentinel errors shared between the repository, service, and transport
// layers. Handlers map these onto HTTP statuses with errors.Is; anything
// that is not one of them is reported as a generic server error.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotFound           = errors.New("account not found")
	ErrUnverified         = errors.New("account not verified")
	ErrBadCredentials     = errors.New("invalid credentials")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidResetSecret = errors.New("invalid or expired reset secret")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient privileges")
)

// ValidationError reports malformed or missing input. It is raised before
// any mutation takes place.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Validation(reason string) error {
	return &ValidationError{Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
