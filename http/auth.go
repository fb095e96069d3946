package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/glue-apps/dashboard/model"
)

const (
	contextDeviceKey = contextKey("device")
	contextTokenKey  = contextKey("token")
	contextUserKey   = contextKey("user")
)

// Session keys. Only login writes the token, user, token expiry and device.
const (
	sessionDeviceKey      = "device"
	sessionFlashKey       = "flash"
	sessionTokenExpiryKey = "tokenExpiry"
	sessionTokenKey       = "token"
	sessionUserKey        = "user"
)

type sessionDestroyer interface {
	Destroy(ctx context.Context) error
}

type sessionGetter interface {
	sessionDestroyer
	Exists(ctx context.Context, key string) bool
	GetBytes(ctx context.Context, key string) []byte
	GetInt64(ctx context.Context, key string) int64
	GetString(ctx context.Context, key string) string
}

// Authenticate is [Middleware] to authenticate users.
// After authentication, the user and their API token are stored directly in the request context,
// and can be retrieved using [GetUserFromContext] and [GetTokenFromContext].
// If there is no session, the middleware does nothing.
// If the token has expired, or the stored user can't be read, the middleware destroys the session.
func Authenticate(log *slog.Logger, sg sessionGetter, now func() time.Time) Middleware {
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// If there is no session, do nothing and return
			if !sg.Exists(ctx, sessionTokenKey) {
				next.ServeHTTP(w, r)
				return
			}

			// The expiry is stored as Unix seconds, zero if the token has none
			if expiry := sg.GetInt64(ctx, sessionTokenExpiryKey); expiry > 0 && now().Unix() >= expiry {
				log.Info("Token expired, destroying session", "expiry", time.Unix(expiry, 0))
				destroyAndContinue(w, r, next, log, sg)
				return
			}

			var user model.User
			if err := json.Unmarshal(sg.GetBytes(ctx, sessionUserKey), &user); err != nil {
				log.Info("Error reading user from session, destroying session", "error", err)
				destroyAndContinue(w, r, next, log, sg)
				return
			}

			if span := GetRootSpanFromContext(ctx); span != nil {
				span.SetAttributes(attribute.String("user.id", user.ID.String()))
			}

			// Store the user directly in the request context instead of having to use the session manager
			ctx = context.WithValue(ctx, contextUserKey, &user)
			ctx = context.WithValue(ctx, contextTokenKey, sg.GetString(ctx, sessionTokenKey))
			ctx = context.WithValue(ctx, contextDeviceKey, sg.GetString(ctx, sessionDeviceKey))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// destroyAndContinue destroys the invalid session, and lets the request continue anonymously.
func destroyAndContinue(w http.ResponseWriter, r *http.Request, next http.Handler, log *slog.Logger, sd sessionDestroyer) {
	if err := sd.Destroy(r.Context()); err != nil {
		log.Info("Error destroying session", "error", err)
		http.Error(w, "error destroying session after authentication", http.StatusInternalServerError)
		return
	}

	next.ServeHTTP(w, r)
}

// RequireUser is [Middleware] that redirects anonymous requests to the login page.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext, which may be nil if the user is not authenticated.
func GetUserFromContext(ctx context.Context) *model.User {
	user := ctx.Value(contextUserKey)
	if user == nil {
		return nil
	}

	return user.(*model.User)
}

// GetTokenFromContext is the API bearer token of the authenticated user, or empty.
func GetTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(contextTokenKey).(string)
	return token
}

// GetDeviceFromContext is the device the authenticated user signed in from, or empty.
func GetDeviceFromContext(ctx context.Context) string {
	device, _ := ctx.Value(contextDeviceKey).(string)
	return device
}

// signOutIfUnauthorized destroys the session and redirects to the login page
// if the API no longer accepts the user's token. Returns whether it did.
func signOutIfUnauthorized(w http.ResponseWriter, r *http.Request, log *slog.Logger, sd sessionDestroyer, unauthorized bool) bool {
	if !unauthorized {
		return false
	}

	log.Info("API rejected token, signing out")
	if err := sd.Destroy(r.Context()); err != nil {
		log.Info("Error destroying session", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}
