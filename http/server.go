package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"maragu.dev/goqite"

	"github.com/glue-apps/dashboard/apiclient"
	"github.com/glue-apps/dashboard/users"
)

type Server struct {
	api            *apiclient.Client
	baseURL        string
	db             pinger
	log            *slog.Logger
	loginRateLimit int
	modals         *users.Modals
	mux            *chi.Mux
	now            func() time.Time
	port           int
	queue          *goqite.Queue
	server         *http.Server
	sm             *scs.SessionManager
}

type NewServerOptions struct {
	API     *apiclient.Client
	BaseURL string
	// DB is pinged by the health check.
	DB  pinger
	Log *slog.Logger
	// LoginRateLimit is the number of login attempts allowed per minute per IP address.
	LoginRateLimit int
	Modals         *users.Modals
	// Now is used to check token expiry, default [time.Now].
	Now          func() time.Time
	Port         int
	Queue        *goqite.Queue
	SecureCookie bool
	// SessionStore for sessions, default in-memory.
	SessionStore scs.Store
}

func NewServer(opts NewServerOptions) *Server {
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}

	if opts.Port == 0 {
		opts.Port = 8080
	}

	if opts.BaseURL == "" {
		opts.BaseURL = fmt.Sprintf("http://localhost:%d", opts.Port)
	}

	if opts.Modals == nil {
		opts.Modals = users.NewModals(users.NewModalsOptions{Log: opts.Log})
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	mux := chi.NewRouter()

	sm := scs.New()
	if opts.SessionStore != nil {
		sm.Store = opts.SessionStore
	}
	sm.Lifetime = 7 * 24 * time.Hour
	sm.Cookie.Secure = opts.SecureCookie
	sm.Cookie.SameSite = http.SameSiteStrictMode

	s := &Server{
		api:            opts.API,
		baseURL:        opts.BaseURL,
		db:             opts.DB,
		log:            opts.Log,
		loginRateLimit: opts.LoginRateLimit,
		modals:         opts.Modals,
		mux:            mux,
		now:            opts.Now,
		port:           opts.Port,
		queue:          opts.Queue,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", opts.Port),
			Handler:      mux,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		sm: sm,
	}

	s.setupRoutes()

	return s
}

// Handler with all routes and middleware, for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start the server by listening on the configured port.
func (s *Server) Start() error {
	s.log.Info("Starting server", "address", fmt.Sprintf("http://localhost:%d", s.port))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop the Server gracefully, waiting for existing HTTP connections to finish.
func (s *Server) Stop() error {
	s.log.Info("Stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	s.log.Info("Stopped server")

	return nil
}
