package web

import "embed"

// TemplatesFS embeds the page and the partials the UI swaps in.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets (css/js).
//
//go:embed static/*
var StaticFS embed.FS
