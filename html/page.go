package html

import (
	"strings"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"
)

const appName = "Dashboard"

// Page layout for every page: a sidebar with navigation for signed-in users, and the children as content.
func Page(props PageProps, children ...Node) Node {
	title := appName
	if props.Title != "" {
		title = props.Title + " · " + appName
	}

	return HTML5(HTML5Props{
		Title:       title,
		Description: props.Description,
		Language:    "en",
		Head: []Node{
			FavIcons(appName),
			Link(Rel("stylesheet"), Href("/styles.css")),
		},
		Body: []Node{
			Div(Class("app"),
				Iff(props.User != nil, func() Node { return sidebar(props) }),
				Div(Class("content"), Group(children)),
			),
		},
	})
}

func sidebar(props PageProps) Node {
	return Aside(Class("sidebar"),
		Div(Class("sidebar-brand"), Text(appName)),
		Nav(Class("sidebar-nav"),
			navLink(props.Path, "/users", "Users"),
			navLink(props.Path, "/notifications", "Notifications"),
		),
		Div(Class("sidebar-footer"),
			P(Class("sidebar-user"), Text(props.User.Name())),
			If(props.Device != "", P(Class("sidebar-device"), Text(props.Device))),
			Form(Method("post"), Action("/logout"),
				Button(Type("submit"), Class("btn btn-link"), Text("Log out")),
			),
		),
	)
}

func navLink(current, href, text string) Node {
	return A(Href(href),
		Classes{
			"nav-link":   true,
			"nav-active": current == href || strings.HasPrefix(current, href+"/"),
		},
		Text(text),
	)
}

// PageHeader with a title, shown at the top of content pages.
func PageHeader(title string, children ...Node) Node {
	return Header(Class("page-header"),
		Container(true, false,
			Div(Class("page-header-row"),
				H1(Class("page-title"), Text(title)),
				Group(children),
			),
		),
	)
}

// Flash message shown once after a redirect.
func Flash(message string) Node {
	if message == "" {
		return nil
	}
	return Div(Class("flash"), Attr("role", "status"), Text(message))
}
