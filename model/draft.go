package model

// Draft of a user being created in the dashboard, before it is sent to the API.
type Draft struct {
	Email    string
	Password string
	FullName string
	Role     Role
}

// Names of the [Draft] fields as used in forms.
const (
	DraftFieldEmail    = "email"
	DraftFieldPassword = "password"
	DraftFieldFullName = "fullName"
	DraftFieldRole     = "role"
)

// DraftFields in the order they are rendered.
var DraftFields = []string{DraftFieldFullName, DraftFieldEmail, DraftFieldPassword, DraftFieldRole}

// SetField by its form name.
func (d *Draft) SetField(name, value string) error {
	switch name {
	case DraftFieldEmail:
		d.Email = value
	case DraftFieldPassword:
		d.Password = value
	case DraftFieldFullName:
		d.FullName = value
	case DraftFieldRole:
		r := Role(value)
		if !r.IsValid() {
			return ErrorDraftInvalidRole
		}
		d.Role = r
	default:
		return ErrorDraftUnknownField
	}
	return nil
}

// ValidateDraft before submitting it. The first failing rule wins.
func ValidateDraft(d Draft) error {
	if d.Email == "" || d.Password == "" || d.Role == RoleNone {
		return ErrorDraftFieldsRequired
	}

	if !EmailAddress(d.Email).IsValid() {
		return ErrorDraftInvalidEmail
	}

	return nil
}

// Request to send to the API for this draft. The username is the email address.
func (d Draft) Request() CreateUserRequest {
	return CreateUserRequest{
		Email:    EmailAddress(d.Email),
		Password: d.Password,
		FullName: d.FullName,
		Username: d.Email,
		Role:     d.Role,
	}
}
