package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	productsvc "github.com/arleipolo/storefront-backend/internal/products"
	"github.com/arleipolo/storefront-backend/pkg/config"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", BaseURL: "http://localhost:3000"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "storefront", ExpirationMinutes: 60},
	}
}

func newTestRouter(t *testing.T, dbErr, redisErr error) http.Handler {
	t.Helper()

	products, err := productsvc.NewService(productsvc.NewMemoryRepository())
	if err != nil {
		t.Fatal(err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	return NewRouter(
		testConfig(),
		nil,
		stubPinger{err: dbErr},
		stubPinger{err: redisErr},
		Services{Products: products},
		registry,
	)
}

func TestRouterHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil, nil)

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestRouterReadyFailsWhenDependencyDown(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, errors.New("connection refused"), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRouterServesMetrics(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatal("expected runtime metrics in exposition")
	}
}

func TestRouterPublicCatalog(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if len(envelope.Data) == 0 {
		t.Fatal("expected a non-empty catalog")
	}
}

func TestRouterAdminRoutesRequireAuth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil, nil)

	body := strings.NewReader(`{"name": "Desk Lamp", "description": "Adjustable LED lamp", "price": 39.99, "category": "Accessories"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}
