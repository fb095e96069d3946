// Package email has the email templates and the interface for sending emails from the dashboard.
package email

import (
	"context"
	"embed"
	"io/fs"

	"github.com/glue-apps/dashboard/model"
)

//go:embed emails
var emails embed.FS

// GetTemplates for emails. Each template is an HTML body that is put into layout.html.
func GetTemplates() fs.FS {
	emails, err := fs.Sub(emails, "emails")
	if err != nil {
		panic(err)
	}
	return emails
}

type Sender interface {
	SendTransactional(ctx context.Context, name string, email model.EmailAddress, subject, preheader, template string, kw model.Keywords) error
}
