package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// FieldChangeRequest is sent by an input on every edit. The edited value
// itself arrives under the field's own name.
type FieldChangeRequest struct {
	FormID string `form:"form_id" validate:"required,uuid"`
	Field  string `form:"field" validate:"required,oneof=username email password"`
}

// SubmitRequest identifies the submitted form. FormID may be empty or stale
// when the page was served by an earlier process; a fresh form is mounted
// then. Field values are read from the posted params by name.
type SubmitRequest struct {
	FormID string `form:"form_id"`
}

// UnmountRequest is sent by the page when it is torn down.
type UnmountRequest struct {
	FormID string `form:"form_id" validate:"required,uuid"`
}
