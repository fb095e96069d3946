package apiclient

import (
	"context"
	"net/http"

	"maragu.dev/errors"

	"github.com/glue-apps/dashboard/model"
)

// ListNotifications for the signed-in user.
func (c *Client) ListNotifications(ctx context.Context, token string) ([]model.Notification, error) {
	body, err := c.do(ctx, http.MethodGet, "/Notification", token, nil)
	if err != nil {
		return nil, err
	}

	notifications, err := decodeList[model.Notification](body)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding notifications")
	}
	return notifications, nil
}
