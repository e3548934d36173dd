// Package web carries the HTML templates and static assets compiled into
// the server binary.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var Static embed.FS
