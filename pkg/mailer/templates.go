package mailer

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

const TemplateWelcome = "welcome"

type template struct {
	subject string
	text    *texttpl.Template
	html    *htmpl.Template
}

var templates = map[string]template{
	TemplateWelcome: {
		subject: "Welcome to {{.AppName}}",
		text: texttpl.Must(texttpl.New("welcome.txt").Parse(
			"Hi {{.Name}},\n\nYour {{.AppName}} account is ready. Sign in to start adding tasks.\n")),
		html: htmpl.Must(htmpl.New("welcome.html").Parse(
			`<p>Hi {{.Name}},</p><p>Your <strong>{{.AppName}}</strong> account is ready. Sign in to start adding tasks.</p>`)),
	},
}

// Render resolves a named template against data.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	tpl, ok := templates[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	subj, err := texttpl.New("subject").Parse(tpl.subject)
	if err != nil {
		return "", "", "", err
	}
	var sb, tb, hb bytes.Buffer
	if err := subj.Execute(&sb, data); err != nil {
		return "", "", "", err
	}
	if err := tpl.text.Execute(&tb, data); err != nil {
		return "", "", "", err
	}
	if err := tpl.html.Execute(&hb, data); err != nil {
		return "", "", "", err
	}
	return sb.String(), tb.String(), hb.String(), nil
}

// Resolve fills Subject/Text/HTML from Template when one is set.
func (j *EmailJob) Resolve() error {
	if j.Template == "" {
		return nil
	}
	s, t, h, err := Render(j.Template, j.Data)
	if err != nil {
		return err
	}
	j.Subject, j.Text, j.HTML = s, t, h
	return nil
}
