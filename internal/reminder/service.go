package reminder

import (
	"context"
	"fmt"

	"github.com/arleipolo/storefront-backend/internal/cart"
	"github.com/arleipolo/storefront-backend/internal/mailer"
	pkgerrors "github.com/arleipolo/storefront-backend/pkg/errors"
	"github.com/arleipolo/storefront-backend/pkg/logger"
)

// SendInput is the reminder endpoint's request body. The total is always
// recomputed server-side; a client-supplied total is never trusted.
type SendInput struct {
	Email string          `json:"email" validate:"required,email"`
	Name  string          `json:"name"`
	Cart  []cart.LineItem `json:"cart" validate:"required,min=1,dive"`
}

// Service composes and dispatches cart reminder emails.
type Service interface {
	Send(ctx context.Context, input SendInput) error
}

type service struct {
	sender  mailer.Sender
	cartURL string
	logg    *logger.Logger
}

// ServiceParams configure the reminder service.
type ServiceParams struct {
	Sender  mailer.Sender
	CartURL string
	Logger  *logger.Logger
}

// NewService builds the reminder service.
func NewService(params ServiceParams) (Service, error) {
	if params.Sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	return &service{
		sender:  params.Sender,
		cartURL: params.CartURL,
		logg:    params.Logger,
	}, nil
}

// Send validates the snapshot, composes the message and dispatches it once.
// There is no retry; delivery is at-most-once per call.
func (s *service) Send(ctx context.Context, input SendInput) error {
	if input.Email == "" || len(input.Cart) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and a non-empty cart are required")
	}

	name := input.Name
	if name == "" {
		name = "Customer"
	}

	msg := Compose(input.Cart, name, s.cartURL)
	err := s.sender.Send(ctx, mailer.Message{
		To:      input.Email,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to send reminder email")
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"recipient": input.Email,
			"items":     len(input.Cart),
		})
		s.logg.Info(ctx, "cart reminder sent")
	}
	return nil
}
