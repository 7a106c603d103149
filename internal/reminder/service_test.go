package reminder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arleipolo/storefront-backend/internal/cart"
	"github.com/arleipolo/storefront-backend/internal/mailer"
	pkgerrors "github.com/arleipolo/storefront-backend/pkg/errors"
)

type stubSender struct {
	sent []mailer.Message
	err  error
}

func (s *stubSender) Send(_ context.Context, msg mailer.Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

func newTestService(t *testing.T, sender mailer.Sender) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Sender: sender, CartURL: "https://shop.example.com/cart"})
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestServiceSend(t *testing.T) {
	t.Parallel()

	sender := &stubSender{}
	svc := newTestService(t, sender)

	err := svc.Send(context.Background(), SendInput{
		Email: "ana@example.com",
		Name:  "Ana",
		Cart:  []cart.LineItem{{ID: "p1", Name: "Widget", Price: 9.99, Quantity: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "ana@example.com" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.Text, "$19.98") {
		t.Fatalf("expected server-computed total in body:\n%s", msg.Text)
	}
}

func TestServiceSendDefaultsName(t *testing.T) {
	t.Parallel()

	sender := &stubSender{}
	svc := newTestService(t, sender)

	err := svc.Send(context.Background(), SendInput{
		Email: "ana@example.com",
		Cart:  []cart.LineItem{{ID: "p1", Name: "Widget", Price: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sender.sent[0].Text, "Hi Customer,") {
		t.Fatal("expected fallback recipient name")
	}
}

func TestServiceSendRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	sender := &stubSender{}
	svc := newTestService(t, sender)
	ctx := context.Background()

	cases := []SendInput{
		{Email: "", Cart: []cart.LineItem{{ID: "p1", Name: "Widget", Quantity: 1}}},
		{Email: "ana@example.com", Cart: nil},
	}
	for _, input := range cases {
		err := svc.Send(ctx, input)
		if err == nil {
			t.Fatalf("expected validation error for %+v", input)
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("unexpected error code: %v", err)
		}
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no messages sent, got %d", len(sender.sent))
	}
}

func TestServiceSendWrapsTransportFailure(t *testing.T) {
	t.Parallel()

	sender := &stubSender{err: errors.New("smtp down")}
	svc := newTestService(t, sender)

	err := svc.Send(context.Background(), SendInput{
		Email: "ana@example.com",
		Cart:  []cart.LineItem{{ID: "p1", Name: "Widget", Price: 1, Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected error when the sender fails")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected error code: %v", err)
	}
}
