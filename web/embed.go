// Package web holds embedded static assets and templates for vidshare.
package web

import "embed"

// TemplateFS contains all HTML templates.
//
//go:embed templates
var TemplateFS embed.FS

// StaticFS contains CSS and JS assets.
//
//go:embed static
var StaticFS embed.FS
