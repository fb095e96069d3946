package model

// Error is for errors in the business domain. See the constants below.
type Error string

const (
	ErrorDraftFieldsRequired  = Error("Email, password and role are required.")
	ErrorDraftInvalidEmail    = Error("Please enter a valid email address.")
	ErrorDraftUnknownField    = Error("unknown draft field")
	ErrorDraftInvalidRole     = Error("invalid role")
	ErrorLoginFieldsRequired  = Error("Email and password are required.")
	ErrorModalClosed          = Error("This form has been closed.")
	ErrorSubmissionInProgress = Error("A user is already being created.")
)

// Error satisfies [error].
func (e Error) Error() string {
	return string(e)
}

var _ error = Error("")
