package html

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"github.com/glue-apps/dashboard/model"
)

func NotificationsPage(props PageProps, notifications []model.Notification, loadErr string) Node {
	props.Title = "Notifications"

	return Page(props,
		PageHeader("Notifications"),
		Main(
			Container(true, true,
				If(loadErr != "", Div(Class("form-error"), Attr("role", "alert"), Text(loadErr))),
				If(loadErr == "", NotificationsTable(notifications)),
			),
		),
	)
}

func NotificationsTable(notifications []model.Notification) Node {
	if len(notifications) == 0 {
		return P(Class("empty"), Text("No notifications."))
	}

	return Div(Class("table-wrapper"),
		Table(Class("table"),
			THead(
				Tr(
					Th(Text("Notification")),
					Th(Text("Type")),
					Th(Text("Received")),
				),
			),
			TBody(
				Map(notifications, func(n model.Notification) Node {
					return Tr(Classes{"unread": !n.Read},
						Td(
							P(Class("table-strong"), Text(n.Title)),
							If(n.Message != "", P(Class("table-muted"), Text(n.Message))),
						),
						Td(If(n.Type != "", Span(Class("badge"), Text(n.Type)))),
						Td(Title(n.Created.Pretty()), Text(n.Created.Ago())),
					)
				}),
			),
		),
	)
}
