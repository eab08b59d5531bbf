// Package web embeds the static single-page UI served at the root route.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
