package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"maragu.dev/errors"

	"github.com/glue-apps/dashboard/model"
)

type loginRequest struct {
	Email    model.EmailAddress `json:"email"`
	Password string             `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Login is the result of signing in to the API.
type Login struct {
	Token string
	// User as sent by the API, kept raw so it can be stored in the session as is.
	User json.RawMessage
}

// Login with email and password, returning the bearer token to use for subsequent calls.
func (c *Client) Login(ctx context.Context, email model.EmailAddress, password string) (Login, error) {
	body, err := c.do(ctx, http.MethodPost, "/Auth/login", "", loginRequest{Email: email, Password: password})
	if err != nil {
		return Login{}, err
	}

	var res loginResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return Login{}, errors.Wrap(err, "error unmarshalling login response body")
	}

	if res.Token == "" {
		return Login{}, errors.Newf("error logging in, got no token")
	}

	if len(res.User) == 0 || string(res.User) == "null" {
		res.User = json.RawMessage(`{}`)
	}

	return Login{Token: res.Token, User: res.User}, nil
}

// TokenExpiry reads the expiry time from a JWT bearer token, without verifying its signature.
// Verification is the API's job; the dashboard only uses the expiry to end sessions in time.
// Returns false if the token is not a JWT or has no expiry.
func TokenExpiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}
