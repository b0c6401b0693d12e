package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmlTemplate "html/template"
	"path/filepath"
	textTemplate "text/template"
)

const (
	TemplateEmailVerification = "email_verification"
	TemplateWelcome           = "welcome"
)

//go:embed templates/*.html templates/*.txt
var defaultTemplates embed.FS

type TemplateData map[string]any

type renderer struct {
	html *htmlTemplate.Template
	text *textTemplate.Template
}

type rendered struct {
	HTML string
	Text string
}

// newRenderer loads the built-in templates, then lets files in dir replace them by name.
func newRenderer(dir string) (*renderer, error) {
	html, err := htmlTemplate.ParseFS(defaultTemplates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in HTML templates: %w", err)
	}
	text, err := textTemplate.ParseFS(defaultTemplates, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in text templates: %w", err)
	}

	if dir != "" {
		if matches, _ := filepath.Glob(filepath.Join(dir, "*.html")); len(matches) > 0 {
			if html, err = html.ParseFiles(matches...); err != nil {
				return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
			}
		}
		if matches, _ := filepath.Glob(filepath.Join(dir, "*.txt")); len(matches) > 0 {
			if text, err = text.ParseFiles(matches...); err != nil {
				return nil, fmt.Errorf("failed to parse text templates: %w", err)
			}
		}
	}

	return &renderer{html: html, text: text}, nil
}

func (r *renderer) render(name string, data TemplateData) (*rendered, error) {
	out := &rendered{}

	if t := r.html.Lookup(name + ".html"); t != nil {
		var buf bytes.Buffer
		if err := t.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("failed to execute HTML template: %w", err)
		}
		out.HTML = buf.String()
	}
	if t := r.text.Lookup(name + ".txt"); t != nil {
		var buf bytes.Buffer
		if err := t.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("failed to execute text template: %w", err)
		}
		out.Text = buf.String()
	}

	if out.HTML == "" && out.Text == "" {
		return nil, fmt.Errorf("template '%s' not found", name)
	}
	return out, nil
}
