// Package templates renders the embedded email templates.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed *.html *.txt
var templateFS embed.FS

// layoutFile only holds shared blocks and has no text variant.
const layoutFile = "layout.html"

// Body is a rendered email in both formats.
type Body struct {
	HTML string
	Text string
}

// Renderer renders a template by name into a Body.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses every embedded template and checks that each HTML
// template has a plain-text twin.
func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	for _, t := range html.Templates() {
		name := t.Name()
		if name == layoutFile || !strings.HasSuffix(name, ".html") {
			continue
		}
		if text.Lookup(strings.TrimSuffix(name, ".html")+".txt") == nil {
			return nil, fmt.Errorf("template %s has no text variant", name)
		}
	}

	return &Renderer{html: html, text: text}, nil
}

// Render executes both variants of name with data.
func (r *Renderer) Render(name string, data any) (Body, error) {
	if r.html.Lookup(name+".html") == nil {
		return Body{}, fmt.Errorf("unknown template %q", name)
	}

	var h, t bytes.Buffer
	if err := r.html.ExecuteTemplate(&h, name+".html", data); err != nil {
		return Body{}, fmt.Errorf("failed to render %s.html: %w", name, err)
	}
	if err := r.text.ExecuteTemplate(&t, name+".txt", data); err != nil {
		return Body{}, fmt.Errorf("failed to render %s.txt: %w", name, err)
	}
	return Body{HTML: h.String(), Text: t.String()}, nil
}
