package domain

import "context"

// Field names one input of the registration form. The string value is the
// input's name attribute and the JSON key sent to the auth endpoint.
type Field string

const (
	FieldUsername Field = "username"
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
)

// Fields lists the form inputs in render order.
var Fields = []Field{FieldUsername, FieldEmail, FieldPassword}

// Valid reports whether f is one of the form's inputs.
func (f Field) Valid() bool {
	switch f {
	case FieldUsername, FieldEmail, FieldPassword:
		return true
	}
	return false
}

// FormState holds the current values of the registration form inputs.
// It is sent as the JSON body of the login request.
type FormState struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Get returns the value stored for f, or "" for an unknown field.
func (s FormState) Get(f Field) string {
	switch f {
	case FieldUsername:
		return s.Username
	case FieldEmail:
		return s.Email
	case FieldPassword:
		return s.Password
	}
	return ""
}

// Set stores value at f and leaves the other fields untouched.
func (s *FormState) Set(f Field, value string) error {
	switch f {
	case FieldUsername:
		s.Username = value
	case FieldEmail:
		s.Email = value
	case FieldPassword:
		s.Password = value
	default:
		return ErrUnknownField
	}
	return nil
}

// AuthClient submits credentials to the remote authentication endpoint.
// It lives in the domain because the form depends on the contract, not on
// the HTTP implementation.
//
// A nil error means the endpoint answered with a success status. Failures are
// reported as *auth_errors.RejectedError or *auth_errors.NetworkError.
type AuthClient interface {
	Login(ctx context.Context, state FormState) error
}

// Navigator requests a client-side transition to route.
type Navigator interface {
	Navigate(ctx context.Context, route string) error
}
