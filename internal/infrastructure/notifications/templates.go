package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Email bodies are small enough to keep inline; the set mirrors the
// product's transactional mail surface.
var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "otp"}}
<p>Your one-time password for {{.Purpose}} is:</p>
<h2>{{.Code}}</h2>
<p>It expires in {{.ExpiresIn}}. If you did not request it, ignore this email.</p>
{{end}}

{{define "email-verification"}}
<p>Hi {{.Name}},</p>
<p>Please confirm your email address by following this link:</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>The link is valid for 24 hours.</p>
{{end}}

{{define "password-reset"}}
<p>Hi {{.Name}},</p>
<p>A password reset was requested for your account. Reset it here:</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>The link expires in {{.ExpiresIn}}. If you did not request a reset, no action is needed.</p>
{{end}}

{{define "password-changed"}}
<p>Hi {{.Name}},</p>
<p>Your password was changed at {{.Timestamp}}. If this was not you, reset your password immediately.</p>
{{end}}

{{define "welcome"}}
<p>Hi {{.Name}},</p>
<p>Your email is verified and your account is fully active. Welcome aboard.</p>
{{end}}
`))

type templateData struct {
	Name      string
	Code      string
	Purpose   string
	URL       string
	ExpiresIn string
	Timestamp string
}

func renderTemplate(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func humanDuration(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d.Hours()))
	}
	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}

func humanPurpose(purpose string) string {
	return strings.ReplaceAll(purpose, "_", " ")
}
