// Package web serves the dataset dashboard as HTML with PNG charts and a
// small JSON API. Binds to localhost by default.
package web

import "embed"

//go:embed templates/index.html
var templateFS embed.FS
