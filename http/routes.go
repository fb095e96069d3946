package http

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	. "maragu.dev/gomponents"
	"maragu.dev/httph"

	"github.com/glue-apps/dashboard/html"
)

// setupRoutes as well as middleware.
func (s *Server) setupRoutes() {
	r := &Router{Mux: s.mux}

	r.Use(middleware.Compress(5))
	r.Use(middleware.RealIP)
	r.Use(OpenTelemetry)

	protection := http.NewCrossOriginProtection()
	if err := protection.AddTrustedOrigin(s.baseURL); err != nil {
		panic("error adding trusted origin to CrossOriginProtection middleware (with " + s.baseURL + "): " + err.Error())
	}
	r.Use(protection.Handler)

	Health(s.mux, s.log, s.db)
	Static(s.mux)

	// HTML
	r.Group(func(r *Router) {
		r.Use(httph.NoClickjacking)
		r.Use(s.sm.LoadAndSave, Authenticate(s.log, s.sm, s.now))

		r.NotFound(NotFound())

		Login(r, LoginOptions{API: s.api, Log: s.log, RateLimit: s.loginRateLimit, Session: s.sm})
		Logout(r, s.log, s.sm)

		r.Group(func(r *Router) {
			r.Use(RequireUser)

			r.Get("/", func(props html.PageProps) (Node, error) {
				return redirect(props, "/users")
			})

			Users(r, UsersOptions{API: s.api, Log: s.log, Modals: s.modals, Queue: s.queue, Session: s.sm})
			Notifications(r, s.log, s.sm, s.api)
		})
	})
}
