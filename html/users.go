package html

import (
	"fmt"
	"net/url"
	"time"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/glue-apps/dashboard/model"
)

type UsersPageProps struct {
	// Error loading users from the API, shown instead of the table.
	Error  string
	Flash  string
	Limit  int
	Modal  *CreateUserModalProps
	Offset int
	Query  string
	// Total number of users matching the query.
	Total int
	// Users on the current page.
	Users []model.User
}

func UsersPage(props PageProps, p UsersPageProps) Node {
	props.Title = "Users"

	return Page(props,
		PageHeader("Users",
			A(Href("/users/new"), Class("btn btn-primary"), Text("Create User")),
		),
		Main(
			Container(true, true,
				Flash(p.Flash),
				Form(Method("get"), Action("/users"), Class("search"),
					Input(Type("search"), Name("q"), Value(p.Query), Placeholder("Search users…"), Aria("label", "Search users")),
				),
				If(p.Error != "", Div(Class("form-error"), Attr("role", "alert"), Text(p.Error))),
				If(p.Error == "", UsersTable(p.Users)),
				If(p.Error == "" && p.Total > p.Limit, Pagination(usersHref(p.Query), p.Total, p.Limit, p.Offset)),
			),
		),
		Iff(p.Modal != nil, func() Node { return CreateUserModal(*p.Modal) }),
	)
}

func usersHref(query string) string {
	if query == "" {
		return "/users?"
	}
	vs := url.Values{}
	vs.Set("q", query)
	return "/users?" + vs.Encode() + "&"
}

func UsersTable(users []model.User) Node {
	if len(users) == 0 {
		return P(Class("empty"), Text("No users found."))
	}

	return Div(Class("table-wrapper"),
		Table(Class("table"),
			THead(
				Tr(
					Th(Text("Name")),
					Th(Text("Email")),
					Th(Text("Role")),
					Th(Text("Created")),
				),
			),
			TBody(
				Map(users, func(u model.User) Node {
					return Tr(
						Td(Class("table-strong"), Text(u.Name())),
						Td(Text(u.Email.String())),
						Td(If(u.Role != model.RoleNone, Span(Class("badge badge-"+string(u.Role)), Text(u.Role.Pretty())))),
						Td(Text(u.Created.Pretty())),
					)
				}),
			),
		),
	)
}

type CreateUserModalProps struct {
	ID    string
	Busy  bool
	Draft model.Draft
	// Error to show above the fields, and how long until it clears itself.
	Error          string
	ErrorExpiresIn time.Duration
}

// CreateUserModal form, on an overlay above the page.
// The password the user typed is never put back into the form.
func CreateUserModal(p CreateUserModalProps) Node {
	action := "/users/new/" + p.ID

	submitLabel := "Create User"
	if p.Busy {
		submitLabel = "Creating..."
	}

	return Div(Class("modal-overlay"),
		Div(Class("modal-panel"), Attr("role", "dialog"), Aria("modal", "true"), Aria("labelledby", "create-user-title"),
			Form(Method("post"), Action(action+"/close"), Class("modal-close-form"),
				Button(Type("submit"), Class("modal-close"), Aria("label", "Close"), Text("×")),
			),

			H2(ID("create-user-title"), Class("panel-title"), Text("Create User")),

			If(p.Error != "", modalError(p.Error, p.ErrorExpiresIn)),

			Form(Method("post"), Action(action), Class("form"),
				formField("Full Name", "fullName", false,
					Input(Type("text"), ID("fullName"), Name(model.DraftFieldFullName), Value(p.Draft.FullName)),
				),
				formField("Email", "email", true,
					Input(Type("email"), ID("email"), Name(model.DraftFieldEmail), Value(p.Draft.Email)),
				),
				formField("Password", "password", true,
					Input(Type("password"), ID("password"), Name(model.DraftFieldPassword), AutoComplete("new-password"),
						If(p.Draft.Password != "", Placeholder("Leave empty to keep the password you entered")),
					),
				),
				formField("Role", "role", true,
					Select(ID("role"), Name(model.DraftFieldRole),
						Option(Value(""), Text("Select a role"), If(p.Draft.Role == model.RoleNone, Selected())),
						Map(model.Roles, func(r model.Role) Node {
							return Option(Value(string(r)), Text(r.Pretty()), If(p.Draft.Role == r, Selected()))
						}),
					),
				),
				Div(Class("field"),
					Span(Class("field-label"), Text("Subscription Status")),
					Div(Class("field-static"), Text("None")),
				),
				Button(Type("submit"), Class("btn btn-primary btn-block"), If(p.Busy, Disabled()),
					If(p.Busy, Spinner()),
					Text(submitLabel),
				),
			),
		),
	)
}

// modalError fades in, and fades out just before it would be cleared anyway.
func modalError(message string, expiresIn time.Duration) Node {
	fadeOutAt := max(expiresIn-300*time.Millisecond, 0)

	return Div(Class("modal-error"), Attr("role", "alert"),
		Style(fmt.Sprintf("animation-delay: 0ms, %dms", fadeOutAt.Milliseconds())),
		Text(message),
	)
}
