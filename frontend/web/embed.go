// Package web holds the page templates and static assets of the frontend.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"
)

const (
	baseTemplate     = "base.html"
	partialsTemplate = "partials.html"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates returns the embedded templates directory.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the embedded static assets.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// LoadTemplates parses every page in fsys together with the base layout and
// the shared partials. Pages are keyed by file name.
func LoadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".html" || name == baseTemplate || name == partialsTemplate {
			continue
		}
		tmpl, err := template.New(baseTemplate).Funcs(FuncMap()).ParseFS(fsys, baseTemplate, name, partialsTemplate)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	return templates, nil
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"sub":        sub,
		"add":        add,
		"dict":       dict,
		"hasPrefix":  strings.HasPrefix,
		"formatTime": formatTime,
		"initial":    initial,
	}
}

func sub(a, b int) int { return a - b }
func add(a, b int) int { return a + b }

func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("invalid dict call: number of arguments must be even")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings")
		}
		m[key] = values[i+1]
	}
	return m, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 15:04")
}

// initial is the letter shown in place of a missing avatar.
func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}
