package services

import "errors"

// Error kinds. Controllers map these to HTTP statuses.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

func notFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

var (
	ErrUserNotFound    = notFound("User not found")
	ErrMetricsNotFound = notFound("Metrics not found")
	ErrAlreadyLogged   = conflict("Already logged today")
	ErrUsernameTaken   = conflict("Username already taken")
	ErrAccountExists   = conflict("Account already exists. Please log in instead.")
)
