package render

import (
	"bytes"
	"html/template"
	"log"
	"net/http"

	"github.com/lgarzadev/dealercat/internal/models"
	"github.com/lgarzadev/dealercat/internal/validation"
)

// View is the contract between handlers and the rendering collaborator.
// Fields holds sanitized, already-escaped form values for redisplay; Data
// carries page-specific read models (vehicle details, review lists).
type View struct {
	Title  string
	Nav    []*models.Classification
	Notice string
	Errors *validation.Errors
	Fields map[string]string
	Data   map[string]any
}

// Renderer is the external view collaborator. Handlers never build markup
// themselves.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, view View)
}

// HTML is a deliberately small Renderer: one layout template that prints the
// title, navigation, notice, error list, and redisplayed fields. The field
// values arrive pre-escaped, so the template prints them verbatim.
type HTML struct {
	tmpl *template.Template
}

func NewHTML() *HTML {
	// Field values were entity-escaped once at sanitization time; the "raw"
	// func stops html/template from escaping them a second time.
	funcs := template.FuncMap{
		"raw": func(s string) template.HTML { return template.HTML(s) },
	}
	return &HTML{tmpl: template.Must(template.New("layout").Funcs(funcs).Parse(layoutTemplate))}
}

func (h *HTML) Render(w http.ResponseWriter, status int, page string, view View) {
	var buf bytes.Buffer
	err := h.tmpl.Execute(&buf, struct {
		Page string
		View
	}{Page: page, View: view})
	if err != nil {
		log.Printf("render %q failed: %v", page, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head><title>{{.Title}}</title></head>
<body data-page="{{.Page}}">
<nav><ul>
<li><a href="/">Home</a></li>
{{range .Nav}}<li><a href="/inv/type/{{.ID}}">{{.Name}}</a></li>{{end}}
</ul></nav>
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
{{if .Errors.Len}}<ul class="errors">
{{range .Errors.Array}}<li>{{.Message}}</li>{{end}}
</ul>{{end}}
<main>
<h1>{{.Title}}</h1>
{{with .Data.message}}<p class="message">{{.}}</p>{{end}}
{{range $name, $value := .Fields}}<p data-field="{{$name}}">{{$value | raw}}</p>
{{end}}
</main>
</body>
</html>
`
