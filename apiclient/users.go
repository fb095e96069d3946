package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"maragu.dev/errors"

	"github.com/glue-apps/dashboard/model"
)

// CreateUser in the API. The created user is returned exactly as the API sent it.
func (c *Client) CreateUser(ctx context.Context, token string, req model.CreateUserRequest) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, "/UserProfile/create", token, req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// ListUsers in the API.
func (c *Client) ListUsers(ctx context.Context, token string) ([]model.User, error) {
	body, err := c.do(ctx, http.MethodGet, "/UserProfile", token, nil)
	if err != nil {
		return nil, err
	}

	users, err := decodeList[model.User](body)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding users")
	}
	return users, nil
}
