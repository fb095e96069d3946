// Package public has the static files served by the dashboard.
package public

import (
	"embed"
	"io/fs"
)

//go:embed styles.css favicon.svg
var files embed.FS

// FS with the static files at its root.
func FS() fs.FS {
	return files
}
