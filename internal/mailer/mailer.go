package mailer

import (
	"bytes"
	"embed"
	"html/template"
)

const (
	FromName                = "SkillLinkup"
	maxRetries              = 3
	ReviewReceivedTemplate  = "review_received.tmpl"
	ReviewsRevealedTemplate = "reviews_revealed.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) error
}

// Render executes the "subject" and "body" blocks of an embedded template.
func Render(templateFile string, data any) (subject, body string, err error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	subj := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subj, "subject", data); err != nil {
		return "", "", err
	}

	b := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(b, "body", data); err != nil {
		return "", "", err
	}

	return subj.String(), b.String(), nil
}
