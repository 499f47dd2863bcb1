package domain

import "errors"

// Error taxonomy shared by all services. Services wrap these with context
// (fmt.Errorf("note %d: %w", id, ErrNotFound)); handlers map them to HTTP
// status codes with errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrInvalid   = errors.New("invalid input")
	ErrForbidden = errors.New("forbidden")
)
