package html

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type LoginFormProps struct {
	Email string
	Error string
}

// LoginPage with the sign-in form. The password is never put back into the form.
func LoginPage(props PageProps, form LoginFormProps) Node {
	props.Title = "Log in"

	return Page(props,
		Main(Class("login"),
			Div(Class("panel login-panel"),
				H1(Class("panel-title"), Text("Log in")),
				If(form.Error != "", Div(Class("form-error"), Attr("role", "alert"), Text(form.Error))),
				Form(Method("post"), Action("/login"), Class("form"),
					formField("Email", "email", true,
						Input(Type("email"), ID("email"), Name("email"), Value(form.Email), AutoComplete("username"), Required(), AutoFocus()),
					),
					formField("Password", "password", true,
						Input(Type("password"), ID("password"), Name("password"), AutoComplete("current-password"), Required()),
					),
					Button(Type("submit"), Class("btn btn-primary btn-block"), Text("Log in")),
				),
			),
		),
	)
}

// formField with a label above the input. Required fields get a red star.
func formField(label, id string, required bool, input Node) Node {
	return Div(Class("field"),
		Label(For(id), Class("field-label"),
			Text(label),
			If(required, Span(Class("required"), Text(" *"))),
		),
		input,
	)
}
