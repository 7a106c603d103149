package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	productsvc "github.com/arleipolo/storefront-backend/internal/products"
	pkgerrors "github.com/arleipolo/storefront-backend/pkg/errors"
	"github.com/arleipolo/storefront-backend/pkg/types"
)

func newProductsRouter(t *testing.T) (chi.Router, productsvc.Service) {
	t.Helper()

	svc, err := productsvc.NewService(productsvc.NewMemoryRepository())
	if err != nil {
		t.Fatal(err)
	}

	r := chi.NewRouter()
	r.Get("/products", ListProducts(svc, nil))
	r.Get("/products/{id}", GetProduct(svc, nil))
	r.Post("/products", CreateProduct(svc, nil))
	return r, svc
}

func TestListProductsReturnsCatalog(t *testing.T) {
	t.Parallel()

	r, _ := newProductsRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data []productsvc.ProductDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if len(envelope.Data) != 6 {
		t.Fatalf("expected 6 seeded products, got %d", len(envelope.Data))
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	r, _ := newProductsRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found code, got %q", envelope.Error.Code)
	}
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()

	r, svc := newProductsRouter(t)

	body := `{
		"name": "Desk Lamp",
		"description": "Adjustable LED lamp with USB charging",
		"price": 39.99,
		"category": "Accessories",
		"stock": 12
	}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data productsvc.ProductDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Data.ID == "" || envelope.Data.Name != "Desk Lamp" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}

	if _, err := svc.Get(req.Context(), envelope.Data.ID); err != nil {
		t.Fatalf("expected created product to be retrievable: %v", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	r, _ := newProductsRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name": "x", "price": -1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
