package handlers

// Messages written when a request cannot reach the form at all.
const (
	msgFormExpired      = "This form has expired. Please reload the page."
	msgSubmitInProgress = "A submission is already in progress."
	msgInvalidRequest   = "Invalid request."
)
