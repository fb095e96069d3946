package http_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"maragu.dev/is"

	ghttp "github.com/glue-apps/dashboard/http"
	"github.com/glue-apps/dashboard/model"
)

func TestUsers(t *testing.T) {
	t.Run("lists users from the API", func(t *testing.T) {
		ts := newTestServer(t, newFakeAPI(), ghttp.NewServerOptions{})
		c := login(t, ts)

		res := get(t, c, ts.URL+"/users")
		is.Equal(t, http.StatusOK, res.Code)
		contains(t, res.Body, "ada@example.com")
		contains(t, res.Body, "Bob Builder")
	})

	t.Run("searches users", func(t *testing.T) {
		ts := newTestServer(t, newFakeAPI(), ghttp.NewServerOptions{})
		c := login(t, ts)

		res := get(t, c, ts.URL+"/users?q=+bob+")
		is.Equal(t, http.StatusOK, res.Code)
		contains(t, res.Body, "Bob Builder")
		notContains(t, res.Body, "ada@example.com")
		contains(t, res.Body, `value="bob"`)
	})

	t.Run("paginates users", func(t *testing.T) {
		ts := newTestServer(t, newFakeAPI(), ghttp.NewServerOptions{})
		c := login(t, ts)

		res := get(t, c, ts.URL+"/users?limit=1&offset=1")
		is.Equal(t, http.StatusOK, res.Code)
		contains(t, res.Body, "Bob Builder")
		notContains(t, res.Body, "ada@example.com")
		contains(t, res.Body, `href="/users?limit=1&amp;offset=0"`)
	})

	t.Run("signs out when the API rejects the token", func(t *testing.T) {
		api := newFakeAPI()
		ts := newTestServer(t, api, ghttp.NewServerOptions{})
		c := login(t, ts)

		api.unauthorized.Store(true)

		res := get(t, c, ts.URL+"/users")
		is.Equal(t, http.StatusSeeOther, res.Code)
		is.Equal(t, "/login", res.Location)

		res = get(t, c, ts.URL+"/users")
		is.Equal(t, http.StatusFound, res.Code)
	})
}

// openModal and return its path.
func openModal(t *testing.T, c *http.Client, baseURL string) string {
	t.Helper()

	res := get(t, c, baseURL+"/users/new")
	is.Equal(t, http.StatusSeeOther, res.Code)
	is.True(t, strings.HasPrefix(res.Location, "/users/new/"))
	return res.Location
}

func validDraft() url.Values {
	return url.Values{
		"fullName": {"New Person"},
		"email":    {"new@example.com"},
		"password": {"hunter22"},
		"role":     {"Staff"},
	}
}

func TestCreateUser(t *testing.T) {
	t.Run("shows an empty form in a modal", func(t *testing.T) {
		ts := newTestServer(t, newFakeAPI(), ghttp.NewServerOptions{})
		c := login(t, ts)
		path := openModal(t, c, ts.URL)

		res := get(t, c, ts.URL+path)
		is.Equal(t, http.StatusOK, res.Code)
		contains(t, res.Body, `action="`+path+`"`)
		contains(t, res.Body, `action="`+path+`/close"`)
		contains(t, res.Body, "Select a role")
		contains(t, res.Body, "Subscription Status")
		contains(t, res.Body, ">Create User</button>")
	})

	t.Run("creates the user, closes the modal, and flashes a message once", func(t *testing.T) {
		api := newFakeAPI()
		ts := newTestServer(t, api, ghttp.NewServerOptions{})
		c := login(t, ts)
		path := openModal(t, c, ts.URL)

		res := post(t, c, ts.URL+path, validDraft())
		is.Equal(t, http.StatusSeeOther, res.Code)
		is.Equal(t, "/users", res.Location)

		created := api.createdRequests()
		is.Equal(t, 1, len(created))
		is.Equal(t, model.EmailAddress("new@example.com"), created[0].Email)
		is.Equal(t, "new@example.com", created[0].Username)
		is.Equal(t, "hunter22", created[0].Password)
		is.Equal(t, "New Person", created[0].FullName)
		is.Equal(t, model.RoleStaff, created[0].Role)
		is.Nil(t, created[0].SubscriptionID)
		is.Equal(t, "Bearer t_123", api.createAuth[0])

		res = get(t, c, ts.URL+"/users")
		contains(t, res.Body, ghttp.UserCreatedFlash)

		res = get(t, c, ts.URL+"/users")
		notContains(t, res.Body, ghttp.UserCreatedFlash)

		res = get(t, c, ts.URL+path)
		is.Equal(t, http.StatusSeeOther, res.Code)
		is.Equal(t, "/users", res.Location)
	})

	t.Run("shows validation errors without calling the API", func(t *testing.T) {
		api := newFakeAPI()
		ts := newTestServer(t, api, ghttp.NewServerOptions{})
		c := login(t, ts)
		path := openModal(t, c, ts.URL)

		vs := validDraft()
		vs.Set("role", "")

		res := post(t, c, ts.URL+path, vs)
		is.Equal(t, http.StatusUnprocessableEntity, res.Code)
		contains(t, res.Body, "Email, password and role are required.")
		contains(t, res.Body, `value="new@example.com"`)
		notContains(t, res.Body, "hunter22")
		is.Equal(t, 0, len(api.createdRequests()))

		vs = validDraft()
		vs.Set("email", "new@example")

		res = post(t, c, ts.URL+path, vs)
		is.Equal(t, http.StatusUnprocessableEntity, res.Code)
		contains(t, res.Body, "Please enter a valid email address.")
		is.Equal(t, 0, len(api.createdRequests()))

		vs = validDraft()
		vs.Set("email", " new@example.com ")

		res = post(t, c, ts.URL+path, vs)
		is.Equal(t, http.StatusUnprocessableEntity, res.Code)
		contains(t, res.Body, "Please enter a valid email address.")
		is.Equal(t, 0, len(api.createdRequests()))
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		api := newFakeAPI()
		ts := newTestServer(t, api, ghttp.NewServerOptions{})
		c := login(t, ts)
		path := openModal(t, c, ts.URL)

		vs := validDraft()
		vs.Set("role", "Owner")

		res := post(t, c, ts.URL+path, vs)
		is.Equal(t, http.StatusUnprocessableEntity, res.Code)
		is.Equal(t, 0, len(api.createdRequests()))
	})

	t.Run("keeps the entered password when resubmitting without one", func(t *testing.T) {
		api := newFakeAPI()
		ts := newTestServer(t, api, ghttp.NewServerOptions{})
		c := login(t, ts)
		path := openModal(t, c, ts.URL)

		vs := validDraft()
		vs.Set("email", "not an email")
		res := post(t, c, ts.URL+path, vs)
		is.Equal(t, http.StatusUnprocessableEntity, res.Code)
		contains(t, res.Body, "keep the password")

		vs = validDraft()
		vs.Set("password", "")
		res = post(t, c, ts.URL+path, vs)
		is.Equal(t, http.StatusSeeOther, res.Code)

		created := api.createdRequests()
		is.Equal(t, 1, len(created))
		is.Equal(t, "hunter22", created[0].Password)
	})

	t.Run("shows the message from the API on failure, and keeps the modal open", func(t *testing.T) {
		api := newFakeAPI()
		api.createStatus = http.StatusConflict
		api.createBody = `{"message":["Email already exists","Try another one"]}`
		ts := newTestServer(t, api, ghttp.NewServerOptions{})
		c := login(t, ts)
		path := openModal(t, c, ts.URL)

		res := post(t, c, ts.URL+path, validDraft())
		is.Equal(t, http.StatusUnprocessableEntity, res.Code)
		contains(t, res.Body, "Email already exists\nTry another one")

		res = get(t, c, ts.URL+path)
		is.Equal(t, http.StatusOK, res.Code)
		contains(t, res.Body, "Email already exists")
	})

	t.Run("shows a default message when the API gives none", func(t *testing.T) {
		api := newFakeAPI()
		api.createStatus = http.StatusInternalServerError
		api.createBody = `{}`
		ts := newTestServer(t, api, ghttp.NewServerOptions{})
		c := login(t, ts)
		path := openModal(t, c, ts.URL)

		res := post(t, c, ts.URL+path, validDraft())
		is.Equal(t, http.StatusUnprocessableEntity, res.Code)
		contains(t, res.Body, "Failed to create user")
	})

	t.Run("shows the busy state while creating, and refuses a second submit", func(t *testing.T) {
		api := newFakeAPI()
		api.started = make(chan struct{})
		api.release = make(chan struct{})
		ts := newTestServer(t, api, ghttp.NewServerOptions{})
		c := login(t, ts)
		path := openModal(t, c, ts.URL)

		done := make(chan response)
		go func() {
			res, err := c.PostForm(ts.URL+path, validDraft())
			if err != nil {
				done <- response{}
				return
			}
			_ = res.Body.Close()
			done <- response{Code: res.StatusCode, Location: res.Header.Get("Location")}
		}()

		<-api.started

		res := get(t, c, ts.URL+path)
		is.Equal(t, http.StatusOK, res.Code)
		contains(t, res.Body, "Creating...")
		contains(t, res.Body, "disabled")
		contains(t, res.Body, `class="spinner"`)

		res = post(t, c, ts.URL+path, validDraft())
		is.Equal(t, http.StatusUnprocessableEntity, res.Code)

		close(api.release)

		res = <-done
		is.Equal(t, http.StatusSeeOther, res.Code)
		is.Equal(t, "/users", res.Location)
		is.Equal(t, 1, len(api.createdRequests()))
	})

	t.Run("closing while creating still creates the user, then closes", func(t *testing.T) {
		api := newFakeAPI()
		api.started = make(chan struct{})
		api.release = make(chan struct{})
		ts := newTestServer(t, api, ghttp.NewServerOptions{})
		c := login(t, ts)
		path := openModal(t, c, ts.URL)

		done := make(chan response)
		go func() {
			res, err := c.PostForm(ts.URL+path, validDraft())
			if err != nil {
				done <- response{}
				return
			}
			_ = res.Body.Close()
			done <- response{Code: res.StatusCode, Location: res.Header.Get("Location")}
		}()

		<-api.started

		res := post(t, c, ts.URL+path+"/close", nil)
		is.Equal(t, http.StatusSeeOther, res.Code)

		close(api.release)

		res = <-done
		is.Equal(t, http.StatusSeeOther, res.Code)
		is.Equal(t, "/users", res.Location)
		is.Equal(t, 1, len(api.createdRequests()))

		res = get(t, c, ts.URL+"/users")
		contains(t, res.Body, ghttp.UserCreatedFlash)

		res = get(t, c, ts.URL+path)
		is.Equal(t, http.StatusSeeOther, res.Code)
		is.Equal(t, "/users", res.Location)
	})

	t.Run("closes the modal without creating a user", func(t *testing.T) {
		api := newFakeAPI()
		ts := newTestServer(t, api, ghttp.NewServerOptions{})
		c := login(t, ts)
		path := openModal(t, c, ts.URL)

		res := post(t, c, ts.URL+path+"/close", nil)
		is.Equal(t, http.StatusSeeOther, res.Code)
		is.Equal(t, "/users", res.Location)

		res = post(t, c, ts.URL+path, validDraft())
		is.Equal(t, http.StatusSeeOther, res.Code)
		is.Equal(t, 0, len(api.createdRequests()))
	})

	t.Run("does not show one session's modal to another", func(t *testing.T) {
		ts := newTestServer(t, newFakeAPI(), ghttp.NewServerOptions{})
		c1 := login(t, ts)
		c2 := login(t, ts)
		path := openModal(t, c1, ts.URL)

		res := get(t, c2, ts.URL+path)
		is.Equal(t, http.StatusSeeOther, res.Code)
		is.Equal(t, "/users", res.Location)
	})
}
