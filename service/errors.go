package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordTooShort   = errors.New("password should be at least 6 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSlugTaken          = errors.New("could not find a free slug")
	ErrUnknownSection     = errors.New("unknown portfolio section")
	ErrSectionReadOnly    = errors.New("section cannot be edited directly")
)

// NotReadyError blocks publish and preview while required fields are
// missing; Missing holds the user-facing field labels.
type NotReadyError struct {
	Missing []string
}

func (e *NotReadyError) Error() string {
	return "portfolio is not ready: missing " + strings.Join(e.Missing, ", ")
}
