package model

import "unicode"

// Role of a user in the API. The dashboard can create users with [RoleStaff] or [RoleAdmin].
type Role string

const (
	RoleNone  = Role("")
	RoleStaff = Role("Staff")
	RoleAdmin = Role("Admin")
)

// Roles that can be assigned when creating a user, in display order.
var Roles = []Role{RoleStaff, RoleAdmin}

func (r Role) IsValid() bool {
	switch r {
	case RoleNone, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// Pretty formats the role for display, so "admin" as the API sometimes sends it shows as "Admin".
func (r Role) Pretty() string {
	if r == RoleNone {
		return ""
	}
	runes := []rune(string(r))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// User as returned by the API.
type User struct {
	ID             UserID       `json:"id"`
	Email          EmailAddress `json:"email"`
	FullName       string       `json:"fullName"`
	Username       string       `json:"username"`
	Role           Role         `json:"role"`
	SubscriptionID *ID          `json:"subscriptionId"`
	Created        *Time        `json:"createdAt,omitempty"`
}

// Name to show for the user, falling back to the email address.
func (u User) Name() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email.String()
}

// CreateUserRequest is the body sent to the API to create a user.
type CreateUserRequest struct {
	Email          EmailAddress `json:"email"`
	Password       string       `json:"password"`
	FullName       string       `json:"fullName"`
	Username       string       `json:"username"`
	Role           Role         `json:"role"`
	SubscriptionID *ID          `json:"subscriptionId"`
}

// Notification as returned by the API.
type Notification struct {
	ID      NotificationID `json:"id"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Read    bool           `json:"read"`
	Created *Time          `json:"createdAt,omitempty"`
}
