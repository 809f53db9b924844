package view

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(
	template.New("page.html").ParseFS(templatesFS, "templates/page.html"),
)

func RenderHTML(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}
