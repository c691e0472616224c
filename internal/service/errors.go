package service

import "errors"

var (
	ErrInvalidID          = errors.New("Product is invalid")
	ErrNotFound           = errors.New("No product with that identifier has been found")
	ErrNotAuthorized      = errors.New("User is not authorized")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrUsernameTaken      = errors.New("Username or email already exists")
)

// ValidationError is a rejected write; nothing was persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
