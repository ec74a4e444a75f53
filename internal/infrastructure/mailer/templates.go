package mailer

import (
	"bytes"
	"fmt"
	htmltmpl "html/template"
	"net/mail"
	"strings"
	texttmpl "text/template"

	"backoffice-review/internal/domain/application"
)

type decisionTemplates struct {
	subject *texttmpl.Template
	text    *texttmpl.Template
	html    *htmltmpl.Template
}

// DecisionData is what the decision templates render from.
type DecisionData struct {
	Name         string
	Organization string
	Entity       string
	Reason       string
	BaseURL      string
}

const htmlLayout = `<!DOCTYPE html><html><body style="font-family:Arial,sans-serif;color:#1f2937">{{template "content" .}}<p>The review team</p></body></html>`

var decisions = map[application.Action]decisionTemplates{
	application.ActionApprove: mustDecision(
		`Your {{.Entity}} application has been approved`,
		`Hello {{.Name}},

Good news: the {{.Entity}} application for {{.Organization}} has been approved and access has been granted to your account.
{{- if .BaseURL}}

You can sign in at {{.BaseURL}}{{end}}

The review team
`,
		`<p>Hello {{.Name}},</p><p>Good news: the {{.Entity}} application for <strong>{{.Organization}}</strong> has been approved and access has been granted to your account.</p>{{if .BaseURL}}<p><a href="{{.BaseURL}}">Sign in</a></p>{{end}}`,
	),
	application.ActionReject: mustDecision(
		`Update on your {{.Entity}} application`,
		`Hello {{.Name}},

Thank you for applying. After review, the {{.Entity}} application for {{.Organization}} was not approved.

Reason: {{.Reason}}

The review team
`,
		`<p>Hello {{.Name}},</p><p>Thank you for applying. After review, the {{.Entity}} application for <strong>{{.Organization}}</strong> was not approved.</p><p><strong>Reason:</strong> {{.Reason}}</p>`,
	),
	application.ActionClarify: mustDecision(
		`Action required: more information needed for your {{.Entity}} application`,
		`Hello {{.Name}},

We need a little more information before we can finish reviewing the {{.Entity}} application for {{.Organization}}.

What we need: {{.Reason}}
{{- if .BaseURL}}

Reply to this email or update your application at {{.BaseURL}}{{end}}

The review team
`,
		`<p>Hello {{.Name}},</p><p>We need a little more information before we can finish reviewing the {{.Entity}} application for <strong>{{.Organization}}</strong>.</p><p><strong>What we need:</strong> {{.Reason}}</p>{{if .BaseURL}}<p><a href="{{.BaseURL}}">Update your application</a></p>{{end}}`,
	),
}

func mustDecision(subject, text, html string) decisionTemplates {
	h := htmltmpl.Must(htmltmpl.New("layout").Parse(htmlLayout))
	htmltmpl.Must(h.New("content").Parse(html))
	return decisionTemplates{
		subject: texttmpl.Must(texttmpl.New("subject").Option("missingkey=error").Parse(subject)),
		text:    texttmpl.Must(texttmpl.New("text").Option("missingkey=error").Parse(text)),
		html:    h,
	}
}

// DecisionEmail renders the notification for a review decision.
func DecisionEmail(action application.Action, kind application.Kind, to application.Contact, reason, baseURL string) (Message, error) {
	tmpl, ok := decisions[action]
	if !ok {
		return Message{}, fmt.Errorf("%w: %q", application.ErrInvalidAction, action)
	}
	name := strings.TrimSpace(to.Name)
	if name == "" {
		name = "there"
	}
	data := DecisionData{
		Name:         name,
		Organization: strings.TrimSpace(to.OrganizationName),
		Entity:       string(kind),
		Reason:       strings.TrimSpace(reason),
		BaseURL:      strings.TrimRight(baseURL, "/"),
	}

	var subj, text, html bytes.Buffer
	if err := tmpl.subject.Execute(&subj, data); err != nil {
		return Message{}, fmt.Errorf("render subject: %w", err)
	}
	if err := tmpl.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render text: %w", err)
	}
	if err := tmpl.html.ExecuteTemplate(&html, "layout", data); err != nil {
		return Message{}, fmt.Errorf("render html: %w", err)
	}
	return Message{
		To:      mail.Address{Name: strings.TrimSpace(to.Name), Address: strings.TrimSpace(to.Email)},
		Subject: subj.String(),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
