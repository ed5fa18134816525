// Package render turns view names into HTML pages for echo.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates
var files embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsGlob = "templates/partials/*.html"
	pagesDir     = "templates/pages"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Renderer implements echo.Renderer. Every page is parsed together with the
// shared layout at construction.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	base, err := template.New("layout").Funcs(funcs()).ParseFS(files, layoutFile, partialsGlob)
	if err != nil {
		return nil, fmt.Errorf("render: parse layout: %w", err)
	}

	pages := make(map[string]*template.Template)
	err = fs.WalkDir(files, pagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}
		t, err := template.Must(base.Clone()).ParseFS(files, p)
		if err != nil {
			return fmt.Errorf("render: parse %s: %w", p, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, pagesDir+"/"), ".html")
		pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Renderer{pages: pages}, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("render: unknown view %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

// Has reports whether name is a known view.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string { return printer.Sprintf("$%.0f", v) },
		"miles": func(v int) string { return printer.Sprintf("%d", v) },
	}
}
