package service

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"Club_Hub/internal/repository/mysql"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAlreadyMember      = errors.New("user already a member of this club")
	ErrNotMember          = errors.New("user is not a member of this club")
	ErrStoreFailure       = errors.New("store failure")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrBannerUnavailable  = errors.New("banner storage not configured")
)

// ValidationError carries per-field messages that handlers return as-is.
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	return "validation failed"
}

func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// maxLen rejects values longer than n characters.
func (v *ValidationError) maxLen(field, value string, n int) {
	if utf8.RuneCountInString(value) > n {
		v.add(field, fmt.Sprintf("%s must be at most %d characters", field, n))
	}
}

func (v *ValidationError) maxBytes(field, value string, n int) {
	if len(value) > n {
		v.add(field, fmt.Sprintf("%s is too long", field))
	}
}

// orNil lets callers return the accumulator directly without producing a
// non-nil error interface holding an empty value.
func (v *ValidationError) orNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

// StoreError wraps an opaque persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStoreFailure }

// storeErr maps repository errors onto the service taxonomy.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mysql.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, mysql.ErrAlreadyMember):
		return ErrAlreadyMember
	case errors.Is(err, mysql.ErrNotMember):
		return ErrNotMember
	case errors.Is(err, mysql.ErrDuplicateEmail):
		return ErrEmailTaken
	}
	return &StoreError{Op: op, Err: err}
}

// ErrorKind names an error for log fields and metric labels.
func ErrorKind(err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrAlreadyMember):
		return "already_member"
	case errors.Is(err, ErrNotMember):
		return "not_member"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, ErrBannerUnavailable):
		return "banner_unavailable"
	case errors.Is(err, ErrStoreFailure):
		return "store_failure"
	}
	return "internal"
}
