package http_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"maragu.dev/is"

	ghttp "github.com/glue-apps/dashboard/http"
	"github.com/glue-apps/dashboard/model"
)

type mockSessionManager struct {
	destroyed bool
	exists    bool
	expiry    int64
	user      []byte
}

func (m *mockSessionManager) Exists(ctx context.Context, key string) bool {
	return m.exists
}

func (m *mockSessionManager) GetBytes(ctx context.Context, key string) []byte {
	return m.user
}

func (m *mockSessionManager) GetInt64(ctx context.Context, key string) int64 {
	return m.expiry
}

func (m *mockSessionManager) GetString(ctx context.Context, key string) string {
	switch key {
	case "token":
		return "t_123"
	case "device":
		return "Firefox on macOS"
	default:
		return ""
	}
}

func (m *mockSessionManager) Destroy(ctx context.Context) error {
	m.destroyed = true
	return nil
}

func TestAuthenticate(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name                    string
		sessionExists           bool
		user                    string
		expiry                  int64
		expectDestroySession    bool
		expectNextHandlerCalled bool
		expectUserInContext     bool
	}{
		{
			name:                    "no session",
			sessionExists:           false,
			expectDestroySession:    false,
			expectNextHandlerCalled: true,
			expectUserInContext:     false,
		},
		{
			name:                    "session exists, no expiry",
			sessionExists:           true,
			user:                    `{"id":1,"email":"admin@example.com","fullName":"Ada Admin"}`,
			expectDestroySession:    false,
			expectNextHandlerCalled: true,
			expectUserInContext:     true,
		},
		{
			name:                    "session exists, token not expired",
			sessionExists:           true,
			user:                    `{"id":1,"email":"admin@example.com","fullName":"Ada Admin"}`,
			expiry:                  now.Add(time.Minute).Unix(),
			expectDestroySession:    false,
			expectNextHandlerCalled: true,
			expectUserInContext:     true,
		},
		{
			name:                    "session exists, token expired",
			sessionExists:           true,
			user:                    `{"id":1,"email":"admin@example.com","fullName":"Ada Admin"}`,
			expiry:                  now.Unix(),
			expectDestroySession:    true,
			expectNextHandlerCalled: true,
			expectUserInContext:     false,
		},
		{
			name:                    "session exists, user unreadable",
			sessionExists:           true,
			user:                    `not json`,
			expectDestroySession:    true,
			expectNextHandlerCalled: true,
			expectUserInContext:     false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm := &mockSessionManager{exists: test.sessionExists, expiry: test.expiry, user: []byte(test.user)}

			authenticate := ghttp.Authenticate(slog.New(slog.DiscardHandler), sm, func() time.Time { return now })

			var called bool
			var user *model.User
			var token, device string
			h := authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				user = ghttp.GetUserFromContext(r.Context())
				token = ghttp.GetTokenFromContext(r.Context())
				device = ghttp.GetDeviceFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			is.Equal(t, http.StatusOK, rec.Code)
			is.Equal(t, test.expectDestroySession, sm.destroyed)
			is.Equal(t, test.expectNextHandlerCalled, called)
			if test.expectUserInContext {
				is.NotNil(t, user)
				is.Equal(t, "Ada Admin", user.Name())
				is.Equal(t, "t_123", token)
				is.Equal(t, "Firefox on macOS", device)
			} else {
				is.Nil(t, user)
				is.Equal(t, "", token)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	t.Run("redirects anonymous requests to the login page", func(t *testing.T) {
		var called bool
		h := ghttp.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		is.Equal(t, http.StatusFound, rec.Code)
		is.Equal(t, "/login", rec.Header().Get("Location"))
		is.True(t, !called)
	})

	t.Run("lets authenticated requests through", func(t *testing.T) {
		sm := &mockSessionManager{exists: true, user: []byte(`{"email":"admin@example.com"}`)}
		authenticate := ghttp.Authenticate(slog.New(slog.DiscardHandler), sm, nil)

		var called bool
		h := authenticate(ghttp.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})))

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		is.Equal(t, http.StatusOK, rec.Code)
		is.True(t, called)
	})
}
