package http

import "net/http"

type Middleware = func(next http.Handler) http.Handler

// contextKey is a custom type to be used for storing keys in a [context.Context].
type contextKey string

// cacheControl sets the Cache-Control header on all responses.
func cacheControl(value string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", value)
			next.ServeHTTP(w, r)
		})
	}
}
