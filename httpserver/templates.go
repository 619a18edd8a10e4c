package httpserver

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Parsed once at startup; template parse failures are programmer errors.
var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// adminPageData feeds the admin link-generator form.
type adminPageData struct {
	Domain string
}
