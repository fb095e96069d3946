package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/http"

	"github.com/glue-apps/dashboard/html"
)

// Router wraps a [chi.Router] so handlers get [html.PageProps] instead of a writer and request.
type Router struct {
	Mux chi.Router
}

func (r *Router) Get(path string, cb func(props html.PageProps) (Node, error)) {
	r.Mux.Get(path, Adapt(func(w http.ResponseWriter, r *http.Request) (Node, error) {
		return cb(getProps(w, r))
	}))
}

func (r *Router) Post(path string, cb func(props html.PageProps) (Node, error)) {
	r.Mux.Post(path, Adapt(func(w http.ResponseWriter, r *http.Request) (Node, error) {
		return cb(getProps(w, r))
	}))
}

func getProps(w http.ResponseWriter, r *http.Request) html.PageProps {
	return html.PageProps{
		Ctx:    r.Context(),
		R:      r,
		W:      w,
		User:   GetUserFromContext(r.Context()),
		Device: GetDeviceFromContext(r.Context()),
		Path:   r.URL.Path,
	}
}

func (r *Router) Group(cb func(r *Router)) {
	r.Mux.Group(func(mux chi.Router) {
		cb(&Router{Mux: mux})
	})
}

func (r *Router) Use(middlewares ...Middleware) {
	r.Mux.Use(middlewares...)
}

func (r *Router) NotFound(h http.HandlerFunc) {
	r.Mux.NotFound(h)
}

// redirect after a form post, always with a GET.
func redirect(props html.PageProps, path string) (Node, error) {
	http.Redirect(props.W, props.R, path, http.StatusSeeOther)
	return nil, nil
}
