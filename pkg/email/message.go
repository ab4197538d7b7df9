package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"contact-relay-backend/internal/domain"
)

// Identity is the operator side of every contact email
type Identity struct {
	SMTPUser string // envelope sender and From address
	To       string // destination mailbox
}

// contactEmailTemplate renders the HTML body; html/template escapes every field
const contactEmailTemplate = `<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Message:</strong></p>
<pre style="white-space:pre-wrap">{{.Message}}</pre>
`

var contactTmpl = template.Must(template.New("contact").Parse(contactEmailTemplate))

// headerSafe flattens line breaks so user input cannot start a new header line
var headerSafe = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// BuildContactMessage derives the outgoing email from a validated request.
// Bodies carry every field as submitted; only header copies of the name are
// trimmed and flattened.
func BuildContactMessage(req *domain.ContactRequest, id Identity) (*domain.MailMessage, error) {
	headerName := headerSafe.Replace(strings.TrimSpace(req.Name))

	var html bytes.Buffer
	err := contactTmpl.Execute(&html, struct {
		Name, Email, Message string
	}{req.Name, req.Email, req.Message})
	if err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	return &domain.MailMessage{
		FromName:    headerName,
		FromAddress: id.SMTPUser,
		ReplyTo:     req.Email,
		To:          id.To,
		Subject:     fmt.Sprintf("New portfolio contact from %s", headerName),
		Text:        fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s", req.Name, req.Email, req.Message),
		HTML:        html.String(),
	}, nil
}
