package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glue-apps/dashboard/public"
)

// Static files, cached for a day.
func Static(mux chi.Router) {
	files := http.FileServerFS(public.FS())

	mux.Group(func(mux chi.Router) {
		mux.Use(cacheControl("public, max-age=86400"))
		mux.Get("/styles.css", files.ServeHTTP)
		mux.Get("/favicon.svg", files.ServeHTTP)
	})
}
