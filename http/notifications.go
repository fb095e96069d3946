package http

import (
	"context"
	"log/slog"

	. "maragu.dev/gomponents"

	"github.com/glue-apps/dashboard/apiclient"
	"github.com/glue-apps/dashboard/html"
	"github.com/glue-apps/dashboard/model"
)

type notificationLister interface {
	ListNotifications(ctx context.Context, token string) ([]model.Notification, error)
}

func Notifications(r *Router, log *slog.Logger, sd sessionDestroyer, api notificationLister) {
	r.Get("/notifications", func(props html.PageProps) (Node, error) {
		notifications, err := api.ListNotifications(props.Ctx, GetTokenFromContext(props.Ctx))
		if err != nil {
			if signOutIfUnauthorized(props.W, props.R, log, sd, apiclient.IsUnauthorized(err)) {
				return nil, nil
			}
			log.Info("Error listing notifications", "error", err)
			return html.NotificationsPage(props, nil, apiclient.UserMessage(err, "Failed to load notifications")), nil
		}

		return html.NotificationsPage(props, notifications, ""), nil
	})
}
