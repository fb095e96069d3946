package html

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func NotFoundPage(props PageProps) Node {
	props.Title = "Not found"

	return Page(props,
		Main(Class("message-page"),
			H1(Class("page-title"), Text("Not found")),
			P(Text("There's nothing here.")),
			A(Href("/"), Class("btn btn-primary"), Text("Go to the dashboard")),
		),
	)
}

func ErrorPage(props PageProps, message string) Node {
	props.Title = "Error"

	return Page(props,
		Main(Class("message-page"),
			H1(Class("page-title"), Text("Something went wrong")),
			P(Text(message)),
			A(Href("/"), Class("btn btn-primary"), Text("Go to the dashboard")),
		),
	)
}
