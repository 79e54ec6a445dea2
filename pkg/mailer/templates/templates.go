package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
)

//go:embed *.tmpl
var FS embed.FS

// Welcome identifies the welcome email template.
const Welcome = "welcome"

// WelcomeData carries the fields the welcome template renders.
type WelcomeData struct {
	Username string
	AppName  string
}

// Render renders the named template with data and returns the HTML body.
func Render(name string, data any) (string, error) {
	t, err := htmpl.ParseFS(FS, name+".tmpl")
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// SubjectFor returns the subject line for a template name.
func SubjectFor(name string) string {
	switch name {
	case Welcome:
		return "Welcome aboard"
	default:
		return "Notification"
	}
}
