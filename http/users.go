package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	. "maragu.dev/gomponents"
	"maragu.dev/goqite"
	"maragu.dev/httph"

	"github.com/glue-apps/dashboard/apiclient"
	"github.com/glue-apps/dashboard/html"
	"github.com/glue-apps/dashboard/jobs"
	"github.com/glue-apps/dashboard/model"
	"github.com/glue-apps/dashboard/users"
)

const (
	defaultUsersLimit = 20
	maxUsersLimit     = 100
)

// UserCreatedFlash is shown on the users page after a user has been created.
const UserCreatedFlash = "User created"

type usersAPI interface {
	CreateUser(ctx context.Context, token string, req model.CreateUserRequest) (json.RawMessage, error)
	ListUsers(ctx context.Context, token string) ([]model.User, error)
}

type sessionFlasher interface {
	sessionDestroyer
	PopString(ctx context.Context, key string) string
	Put(ctx context.Context, key string, val any)
	Token(ctx context.Context) string
}

type UsersOptions struct {
	API    usersAPI
	Log    *slog.Logger
	Modals *users.Modals
	// Queue for the job that welcomes created users. If nil, no job is created.
	Queue   *goqite.Queue
	Session sessionFlasher
}

// Users page, and the create-user modal on top of it.
//
// Each open modal has its own URL under /users/new, and lives in [users.Modals] between requests,
// owned by the session that opened it.
func Users(r *Router, opts UsersOptions) {
	h := &usersHandler{UsersOptions: opts}

	r.Get("/users", func(props html.PageProps) (Node, error) {
		p, ok := h.pageProps(props)
		if !ok {
			return nil, nil
		}
		p.Flash = opts.Session.PopString(props.Ctx, sessionFlashKey)

		return html.UsersPage(props, p), nil
	})

	r.Get("/users/new", func(props html.PageProps) (Node, error) {
		modal := h.open(props.Ctx)
		return redirect(props, "/users/new/"+modal.ID)
	})

	r.Get("/users/new/{id}", func(props html.PageProps) (Node, error) {
		modal, ok := h.get(props)
		if !ok {
			return redirect(props, "/users")
		}

		return h.renderModal(props, modal, nil)
	})

	r.Post("/users/new/{id}", func(props html.PageProps) (Node, error) {
		modal, ok := h.get(props)
		if !ok {
			return redirect(props, "/users")
		}

		if err := props.R.ParseForm(); err != nil {
			return nil, httph.HTTPError{Code: http.StatusBadRequest}
		}

		for _, field := range model.DraftFields {
			if _, ok := props.R.PostForm[field]; !ok {
				continue
			}

			// Email and password are validated as entered
			value := props.R.PostForm.Get(field)
			if field != model.DraftFieldPassword && field != model.DraftFieldEmail {
				value = strings.TrimSpace(value)
			}

			// The password is never rendered back into the form, so an empty one keeps what was entered before
			if field == model.DraftFieldPassword && value == "" {
				continue
			}

			if err := modal.SetField(field, value); err != nil {
				modal.ErrorChannel().Set(err.Error())
				return h.renderModal(props, modal, httph.HTTPError{Code: http.StatusUnprocessableEntity})
			}
		}

		o := modal.Submit(props.Ctx)
		if errors.Is(o.Err(), model.ErrorModalClosed) || modal.Closed() {
			return redirect(props, "/users")
		}
		if !o.OK() {
			return h.renderModal(props, modal, httph.HTTPError{Code: http.StatusUnprocessableEntity})
		}

		return redirect(props, "/users")
	})

	r.Post("/users/new/{id}/close", func(props html.PageProps) (Node, error) {
		if modal, ok := h.get(props); ok {
			modal.Close(props.Ctx)
		}

		return redirect(props, "/users")
	})
}

type usersHandler struct {
	UsersOptions
}

// open a modal for the session. Saving it welcomes the new user and flashes a message.
func (h *usersHandler) open(ctx context.Context) *users.Modal {
	controller := users.NewController(users.NewControllerOptions{
		Creator: h.API,
		Log:     h.Log,
		Token:   GetTokenFromContext(ctx),
	})

	var modal *users.Modal
	modal = h.Modals.Open(users.OpenOptions{
		Controller: controller,
		Owner:      h.Session.Token(ctx),
		OnSave: func(ctx context.Context, created json.RawMessage) {
			d := modal.Draft()
			h.welcome(ctx, d, created)
			h.Session.Put(ctx, sessionFlashKey, UserCreatedFlash)
		},
	})

	return modal
}

func (h *usersHandler) get(props html.PageProps) (*users.Modal, bool) {
	return h.Modals.Get(h.Session.Token(props.Ctx), chi.URLParam(props.R, "id"))
}

// welcome the created user by email, in the background.
// The created user from the API is preferred, falling back to what was entered in the draft.
func (h *usersHandler) welcome(ctx context.Context, d model.Draft, created json.RawMessage) {
	if h.Queue == nil {
		return
	}

	var u model.User
	if err := json.Unmarshal(created, &u); err != nil {
		h.Log.Info("Could not read created user from API response", "error", err)
	}

	m := jobs.UserCreatedMessage{Email: u.Email, Name: u.FullName, Role: u.Role}
	if m.Email == "" {
		m.Email = model.EmailAddress(d.Email)
	}
	if m.Name == "" {
		m.Name = d.FullName
	}
	if m.Role == model.RoleNone {
		m.Role = d.Role
	}

	if err := jobs.CreateUserCreated(ctx, h.Queue, m); err != nil {
		h.Log.Error("Error creating user created job", "error", err)
	}
}

// renderModal on top of the users page. The error is returned as is, for the status code.
func (h *usersHandler) renderModal(props html.PageProps, modal *users.Modal, err error) (Node, error) {
	p, ok := h.pageProps(props)
	if !ok {
		return nil, nil
	}

	mp := html.CreateUserModalProps{
		ID:    modal.ID,
		Busy:  modal.Busy(),
		Draft: modal.Draft(),
	}
	if message, ok := modal.Error(); ok {
		mp.Error = message
		mp.ErrorExpiresIn = time.Until(modal.ErrorChannel().ExpiresAt())
	}
	p.Modal = &mp

	return html.UsersPage(props, p), err
}

// pageProps for the users page, from the API and the query parameters.
// Returns false if the user has been signed out because the API rejected their token.
func (h *usersHandler) pageProps(props html.PageProps) (html.UsersPageProps, bool) {
	q := SanitizeQuery(props.R.URL.Query().Get("q"))
	offset := parseIntParam(props.R, "offset", 0, 0, -1)
	limit := parseIntParam(props.R, "limit", defaultUsersLimit, 1, maxUsersLimit)

	p := html.UsersPageProps{Limit: limit, Offset: offset, Query: q}

	list, err := h.API.ListUsers(props.Ctx, GetTokenFromContext(props.Ctx))
	if err != nil {
		if signOutIfUnauthorized(props.W, props.R, h.Log, h.Session, apiclient.IsUnauthorized(err)) {
			return p, false
		}
		h.Log.Info("Error listing users", "error", err)
		p.Error = apiclient.UserMessage(err, "Failed to load users")
		return p, true
	}

	list = FilterUsers(list, q)
	p.Total = len(list)
	if offset > len(list) {
		offset = len(list)
	}
	p.Users = list[offset:min(offset+limit, len(list))]

	return p, true
}

// FilterUsers whose name, email, username or role contains the query, case-insensitively.
func FilterUsers(list []model.User, query string) []model.User {
	if query == "" {
		return list
	}

	query = strings.ToLower(query)

	var matches []model.User
	for _, u := range list {
		for _, s := range []string{u.FullName, u.Email.String(), u.Username, string(u.Role)} {
			if strings.Contains(strings.ToLower(s), query) {
				matches = append(matches, u)
				break
			}
		}
	}
	return matches
}

// parseIntParam from the URL query, clamped to [lo, hi]. A negative hi means no upper bound.
func parseIntParam(r *http.Request, name string, def, lo, hi int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	if v < lo {
		return lo
	}
	if hi >= 0 && v > hi {
		return hi
	}
	return v
}
