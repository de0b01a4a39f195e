package infra

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// MailTemplates renders the embedded HTML email templates by name
// ("low_stock" -> templates/low_stock.html).
type MailTemplates struct {
	set *template.Template
}

func NewMailTemplates() (*MailTemplates, error) {
	set, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &MailTemplates{set: set}, nil
}

func (t *MailTemplates) Render(name string, data interface{}) (string, error) {
	tmpl := t.set.Lookup(strings.TrimSuffix(name, ".html") + ".html")
	if tmpl == nil {
		return "", fmt.Errorf("mail template %q not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
