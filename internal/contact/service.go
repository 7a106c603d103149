package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/arleipolo/storefront-backend/internal/mailer"
	pkgerrors "github.com/arleipolo/storefront-backend/pkg/errors"
	"github.com/arleipolo/storefront-backend/pkg/logger"
)

// Input is the contact form payload.
type Input struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=5,max=200"`
	Message string `json:"message" validate:"required,min=10,max=1000"`
}

// Service forwards contact form submissions to the configured inbox.
type Service interface {
	Submit(ctx context.Context, input Input) error
}

type service struct {
	sender mailer.Sender
	to     string
	logg   *logger.Logger
}

// NewService builds the contact service.
func NewService(sender mailer.Sender, to string, logg *logger.Logger) (Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if to == "" {
		return nil, fmt.Errorf("contact recipient address required")
	}
	return &service{sender: sender, to: to, logg: logg}, nil
}

func (s *service) Submit(ctx context.Context, input Input) error {
	text, html := composeTemplate(input)
	err := s.sender.Send(ctx, mailer.Message{
		To:      s.to,
		Subject: "Contact form: " + input.Subject,
		Text:    text,
		HTML:    html,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to send contact email")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "from", input.Email), "contact message forwarded")
	}
	return nil
}

func composeTemplate(input Input) (text, html string) {
	var t strings.Builder
	t.WriteString("New contact message:\n\n")
	fmt.Fprintf(&t, "Name: %s\n", input.Name)
	fmt.Fprintf(&t, "Email: %s\n", input.Email)
	fmt.Fprintf(&t, "Subject: %s\n\n", input.Subject)
	fmt.Fprintf(&t, "Message:\n%s\n", input.Message)

	html = fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
<h2 style="color:#0ea5e9;">New contact message</h2>
<div style="background-color:#f3f4f6;padding:20px;border-radius:8px;">
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Subject:</strong> %s</p>
<hr style="border:1px solid #e5e7eb;margin:20px 0;">
<p><strong>Message:</strong></p>
<p style="white-space:pre-wrap;">%s</p>
</div>
<p style="color:#6b7280;font-size:12px;margin-top:20px;">This message was sent from the storefront contact form.</p>
</div>`, esc(input.Name), esc(input.Email), esc(input.Subject), esc(input.Message))

	return t.String(), html
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func esc(s string) string {
	return htmlEscaper.Replace(s)
}
