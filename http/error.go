package http

import (
	"net/http"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/http"
	"maragu.dev/httph"

	"github.com/glue-apps/dashboard/html"
)

func NotFound() http.HandlerFunc {
	return Adapt(func(w http.ResponseWriter, r *http.Request) (Node, error) {
		return html.NotFoundPage(getProps(w, r)), httph.HTTPError{Code: http.StatusNotFound}
	})
}
