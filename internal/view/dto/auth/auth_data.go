package auth

import "github.com/nfrund/regform/internal/domain"

// RegisterData is a View Model (DTO) used specifically for the registration
// template. Password is never echoed back into the page.
type RegisterData struct {
	FormID       string
	Username     string
	Email        string
	ErrorMessage string
	SubmitLabel  string
	LoginRoute   string
}

// NewRegisterData fills the DTO from the form's current state.
func NewRegisterData(formID string, state domain.FormState, errMsg, submitLabel, loginRoute string) RegisterData {
	return RegisterData{
		FormID:       formID,
		Username:     state.Username,
		Email:        state.Email,
		ErrorMessage: errMsg,
		SubmitLabel:  submitLabel,
		LoginRoute:   loginRoute,
	}
}
