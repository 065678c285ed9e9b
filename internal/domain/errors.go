package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for form lifecycle failures.
var (
	ErrUnknownField  = errors.New("unknown form field")
	ErrSubmitPending = errors.New("a submission is already in progress")
	ErrUnmounted     = errors.New("form has been unmounted")
	ErrFormNotFound  = errors.New("form not found")
)
