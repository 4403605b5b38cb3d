// Package web embeds the single-page UI served at the root route.
package web

import _ "embed"

// Index is the single page: upload form, annotated image and results table.
//
//go:embed index.html
var Index []byte
