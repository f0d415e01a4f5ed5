package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

var verificationHTML = template.Must(template.New("verification").Parse(`<!doctype html>
<html>
  <body style="font-family: sans-serif; color: #111827;">
    <p>Hi {{.Name}},</p>
    <p>Use this code to verify your email address:</p>
    <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
    <p>The code expires in {{.ValidFor}}. If you did not sign up, ignore this email.</p>
  </body>
</html>`))

var invitationHTML = template.Must(template.New("invitation").Parse(`<!doctype html>
<html>
  <body style="font-family: sans-serif; color: #111827;">
    <p>{{.Inviter}} invited you to join <strong>{{.Workspace}}</strong> as {{.Role}}.</p>
    <p><a href="{{.Link}}">Accept the invitation</a></p>
    <p>The link expires on {{.Expires}}.</p>
  </body>
</html>`))

func VerificationEmail(to string, name string, code string, validFor time.Duration) (Message, error) {
	data := struct {
		Name     string
		Code     string
		ValidFor string
	}{Name: name, Code: code, ValidFor: humanDuration(validFor)}

	html, err := render(verificationHTML, data)
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: "Verify your email address",
		HTML:    html,
		Text: fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in %s.\n",
			name, code, data.ValidFor),
	}, nil
}

func InvitationEmail(to string, inviter string, workspace string, role string, link string, expires time.Time) (Message, error) {
	data := struct {
		Inviter   string
		Workspace string
		Role      string
		Link      string
		Expires   string
	}{
		Inviter:   inviter,
		Workspace: workspace,
		Role:      strings.ToLower(role),
		Link:      link,
		Expires:   expires.UTC().Format("Jan 2, 2006 15:04 MST"),
	}

	html, err := render(invitationHTML, data)
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: fmt.Sprintf("You're invited to %s", workspace),
		HTML:    html,
		Text: fmt.Sprintf("%s invited you to join %s as %s.\n\nAccept: %s\n",
			inviter, workspace, data.Role, link),
	}, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func humanDuration(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.String()
}
