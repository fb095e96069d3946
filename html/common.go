package html

import (
	"context"
	"net/http"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"github.com/glue-apps/dashboard/model"
)

type PageProps struct {
	Title       string
	Description string
	Ctx         context.Context
	R           *http.Request
	W           http.ResponseWriter
	// User signed in, nil for anonymous visitors.
	User *model.User
	// Device the user signed in from, like "Firefox on macOS".
	Device string
	// Path of the current page, for highlighting navigation.
	Path string
}

type PageFunc = func(props PageProps, children ...Node) Node

func FavIcons(name string) Node {
	return Group{
		Link(Rel("icon"), Type("image/svg+xml"), Href("/favicon.svg")),
		Meta(Name("apple-mobile-web-app-title"), Content(name)),
	}
}

func Container(padX, padY bool, children ...Node) Node {
	return Div(
		Classes{
			"container": true,
			"pad-x":     padX,
			"pad-y":     padY,
		},
		Group(children),
	)
}
