// Package web provides embedded static assets and templates for the web application.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templatesFS embed.FS

//go:embed all:static
var staticFS embed.FS

// Templates returns the HTML templates rooted at the templates directory.
func Templates() (fs.FS, error) {
	return fs.Sub(templatesFS, "templates")
}

// Static returns the front-end assets rooted at the static directory.
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
