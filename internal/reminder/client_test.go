package reminder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arleipolo/storefront-backend/internal/cart"
)

func TestClientDispatchPostsSnapshot(t *testing.T) {
	t.Parallel()

	var got SendInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/cart/reminder" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Dispatch(context.Background(), Recipient{Email: "ana@example.com", Name: "Ana"}, []cart.LineItem{
		{ID: "p1", Name: "Widget", Price: 9.99, Quantity: 2},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got.Email != "ana@example.com" || got.Name != "Ana" {
		t.Fatalf("unexpected payload identity: %+v", got)
	}
	if len(got.Cart) != 1 || got.Cart[0].ID != "p1" || got.Cart[0].Quantity != 2 {
		t.Fatalf("unexpected payload cart: %+v", got.Cart)
	}
}

func TestClientDispatchRejectsNon2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Dispatch(context.Background(), Recipient{Email: "ana@example.com"}, []cart.LineItem{
		{ID: "p1", Name: "Widget", Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
