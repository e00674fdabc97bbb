package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/coursin/marketing-api/internal/core/domain"
	"github.com/coursin/marketing-api/internal/core/ports"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer turns contact submissions into ready-to-send emails. HTML bodies
// go through html/template so submitted text is escaped; plain-text
// alternatives go through text/template.
type Renderer struct {
	html        *htmltemplate.Template
	text        *texttemplate.Template
	adminEmail  string
	frontendURL string
	now         func() time.Time
}

// NewRenderer parses the embedded templates. adminEmail receives submission
// notifications; frontendURL is linked from confirmation emails.
func NewRenderer(adminEmail, frontendURL string) (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &Renderer{
		html:        html,
		text:        text,
		adminEmail:  adminEmail,
		frontendURL: frontendURL,
		now:         time.Now,
	}, nil
}

type templateData struct {
	Name           string
	Email          string
	Phone          string
	CourseInterest string
	Message        string
	Subscribe      bool
	ClientIP       string
	SubmittedAt    string
	FrontendURL    string
	Year           int
}

func (r *Renderer) data(msg domain.ContactMessage) templateData {
	now := r.now().UTC()
	phone := msg.Phone
	if phone == "" {
		phone = "Not provided"
	}
	return templateData{
		Name:           msg.Name,
		Email:          msg.Email,
		Phone:          phone,
		CourseInterest: domain.InterestLabel(msg.CourseInterest),
		Message:        msg.Message,
		Subscribe:      msg.Subscribe,
		ClientIP:       msg.ClientIP,
		SubmittedAt:    now.Format(time.RFC1123),
		FrontendURL:    r.frontendURL,
		Year:           now.Year(),
	}
}

// AdminNotification renders the notification sent to the site operators for
// every accepted submission. Reply-To points at the submitter.
func (r *Renderer) AdminNotification(msg domain.ContactMessage) (ports.Email, error) {
	data := r.data(msg)

	html, err := r.render(r.html, "admin_notification.html.tmpl", data)
	if err != nil {
		return ports.Email{}, err
	}
	text, err := r.renderText("admin_notification.txt.tmpl", data)
	if err != nil {
		return ports.Email{}, err
	}

	return ports.Email{
		To:       r.adminEmail,
		ReplyTo:  msg.Email,
		Subject:  fmt.Sprintf("New contact form submission: %s", msg.Name),
		HTMLBody: html,
		TextBody: text,
	}, nil
}

// UserConfirmation renders the thank-you email sent to submitters who
// subscribed to the newsletter.
func (r *Renderer) UserConfirmation(msg domain.ContactMessage) (ports.Email, error) {
	data := r.data(msg)

	html, err := r.render(r.html, "user_confirmation.html.tmpl", data)
	if err != nil {
		return ports.Email{}, err
	}
	text, err := r.renderText("user_confirmation.txt.tmpl", data)
	if err != nil {
		return ports.Email{}, err
	}

	return ports.Email{
		To:       msg.Email,
		Subject:  "Thank you for contacting Coursin!",
		HTMLBody: html,
		TextBody: text,
	}, nil
}

func (r *Renderer) render(t *htmltemplate.Template, name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) renderText(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := r.text.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
