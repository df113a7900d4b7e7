// Package web embeds the HTML templates and static assets served by the blog.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// FuncMap holds the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		// bodies are sanitized before they are stored
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		"year":     func() int { return time.Now().Year() },
	}
}

// Templates parses every page and partial into one set; pages are named by file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// Static exposes the embedded static directory.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
