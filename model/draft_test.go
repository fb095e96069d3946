package model_test

import (
	"testing"

	"maragu.dev/is"

	"github.com/glue-apps/dashboard/model"
)

func TestValidateDraft(t *testing.T) {
	valid := model.Draft{Email: "a@b.co", Password: "secret", Role: model.RoleStaff}

	t.Run("requires email, password, and role", func(t *testing.T) {
		tests := []struct {
			name  string
			draft model.Draft
		}{
			{"empty", model.Draft{}},
			{"no email", model.Draft{Password: "secret", Role: model.RoleAdmin}},
			{"no password", model.Draft{Email: "a@b.co", Role: model.RoleAdmin}},
			{"no role", model.Draft{Email: "a@b.co", Password: "secret"}},
			{"invalid email and no role", model.Draft{Email: "nope", Password: "secret"}},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				err := model.ValidateDraft(test.draft)
				is.Error(t, model.ErrorDraftFieldsRequired, err)
				is.Equal(t, "Email, password and role are required.", err.Error())
			})
		}
	})

	t.Run("rejects invalid email addresses", func(t *testing.T) {
		for _, email := range []string{"not-an-email", "a@b", "a b@c.d"} {
			t.Run(email, func(t *testing.T) {
				d := valid
				d.Email = email
				err := model.ValidateDraft(d)
				is.Error(t, model.ErrorDraftInvalidEmail, err)
				is.Equal(t, "Please enter a valid email address.", err.Error())
			})
		}
	})

	t.Run("accepts a complete draft without full name", func(t *testing.T) {
		is.NotError(t, model.ValidateDraft(valid))
	})
}

func TestDraft_SetField(t *testing.T) {
	t.Run("sets fields by form name", func(t *testing.T) {
		var d model.Draft
		is.NotError(t, d.SetField("email", "a@b.co"))
		is.NotError(t, d.SetField("password", "secret"))
		is.NotError(t, d.SetField("fullName", "Ada"))
		is.NotError(t, d.SetField("role", "Admin"))
		is.Equal(t, model.Draft{Email: "a@b.co", Password: "secret", FullName: "Ada", Role: model.RoleAdmin}, d)
	})

	t.Run("rejects unknown fields and roles", func(t *testing.T) {
		var d model.Draft
		is.Error(t, model.ErrorDraftUnknownField, d.SetField("username", "a"))
		is.Error(t, model.ErrorDraftInvalidRole, d.SetField("role", "Owner"))
		is.Equal(t, model.RoleNone, d.Role)
	})
}

func TestDraft_Request(t *testing.T) {
	t.Run("uses the email as username and no subscription", func(t *testing.T) {
		r := model.Draft{Email: "a@b.co", Password: "secret", Role: model.RoleStaff}.Request()
		is.Equal(t, model.EmailAddress("a@b.co"), r.Email)
		is.Equal(t, "a@b.co", r.Username)
		is.Equal(t, "", r.FullName)
		is.Nil(t, r.SubscriptionID)
	})
}
