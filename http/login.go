package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mileusna/useragent"
	. "maragu.dev/gomponents"
	"maragu.dev/httph"

	"github.com/glue-apps/dashboard/apiclient"
	"github.com/glue-apps/dashboard/html"
	"github.com/glue-apps/dashboard/model"
)

// DefaultLoginFailureMessage is shown when logging in fails and the API gives no reason.
const DefaultLoginFailureMessage = "Invalid email or password"

type loginer interface {
	Login(ctx context.Context, email model.EmailAddress, password string) (apiclient.Login, error)
}

type sessionPutter interface {
	sessionDestroyer
	Put(ctx context.Context, key string, val any)
	RenewToken(ctx context.Context) error
}

type LoginOptions struct {
	API loginer
	Log *slog.Logger
	// RateLimit is the number of login attempts per minute from a single IP address.
	RateLimit int
	Session   sessionPutter
}

// Login page and form handler.
// On success, the API token and the user are stored in the session, and the user is redirected to the dashboard.
func Login(r *Router, opts LoginOptions) {
	r.Get("/login", func(props html.PageProps) (Node, error) {
		if props.User != nil {
			return redirect(props, "/")
		}

		return html.LoginPage(props, html.LoginFormProps{}), nil
	})

	r.Group(func(r *Router) {
		r.Use(RateLimit(opts.Log, opts.RateLimit))

		r.Post("/login", func(props html.PageProps) (Node, error) {
			ctx := props.Ctx

			if err := props.R.ParseForm(); err != nil {
				return html.LoginPage(props, html.LoginFormProps{}), httph.HTTPError{Code: http.StatusBadRequest}
			}

			email := model.EmailAddress(props.R.PostForm.Get("email")).ToLower()
			password := props.R.PostForm.Get("password")

			form := html.LoginFormProps{Email: email.String()}

			if email == "" || password == "" {
				form.Error = model.ErrorLoginFieldsRequired.Error()
				return html.LoginPage(props, form), httph.HTTPError{Code: http.StatusUnprocessableEntity}
			}

			login, err := opts.API.Login(ctx, email, password)
			if err != nil {
				opts.Log.Info("Error logging in", "email", email, "error", err)
				form.Error = apiclient.UserMessage(err, DefaultLoginFailureMessage)
				return html.LoginPage(props, form), httph.HTTPError{Code: http.StatusUnprocessableEntity}
			}

			// New session token on privilege change
			if err := opts.Session.RenewToken(ctx); err != nil {
				opts.Log.Info("Error renewing session token", "error", err)
				return html.ErrorPage(props, "Could not log you in. Please try again."), httph.HTTPError{Code: http.StatusInternalServerError}
			}

			opts.Session.Put(ctx, sessionTokenKey, login.Token)
			opts.Session.Put(ctx, sessionUserKey, []byte(login.User))
			opts.Session.Put(ctx, sessionDeviceKey, deviceLabel(props.R.UserAgent()))
			if expiry, ok := apiclient.TokenExpiry(login.Token); ok {
				opts.Session.Put(ctx, sessionTokenExpiryKey, expiry.Unix())
			}

			opts.Log.Info("Logged in", "email", email)

			return redirect(props, "/")
		})
	})
}

// Logout by destroying the session.
func Logout(r *Router, log *slog.Logger, sd sessionDestroyer) {
	r.Post("/logout", func(props html.PageProps) (Node, error) {
		if err := sd.Destroy(props.Ctx); err != nil {
			log.Info("Error destroying session", "error", err)
			return html.ErrorPage(props, "Could not log you out. Please try again."), httph.HTTPError{Code: http.StatusInternalServerError}
		}

		return redirect(props, "/login")
	})
}

// deviceLabel for a user agent string, like "Firefox on macOS".
func deviceLabel(userAgent string) string {
	ua := useragent.Parse(userAgent)

	switch {
	case ua.Name != "" && ua.OS != "":
		return ua.Name + " on " + ua.OS
	case ua.Name != "":
		return ua.Name
	default:
		return ""
	}
}
