package services

import "errors"

// Sentinel errors mapped to status codes at the handler boundary.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidID          = errors.New("invalid id format")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrDuplicateSKU       = errors.New("sku already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSelfDelete         = errors.New("cannot delete own account")
	ErrSuperadminDelete   = errors.New("cannot delete a superadmin account")
)

// ValidationError reports a client-correctable input problem. Its message
// is safe to return to the client verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }
