package web

import "embed"

// StaticFS embeds the browser client (markup, styles, scripts).
//
//go:embed static/*
var StaticFS embed.FS
