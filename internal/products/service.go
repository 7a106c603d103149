package products

import (
	"context"
	"fmt"

	"github.com/arleipolo/storefront-backend/pkg/db"
	"github.com/arleipolo/storefront-backend/pkg/db/models"
	pkgerrors "github.com/arleipolo/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service exposes catalog operations.
type Service interface {
	List(ctx context.Context) ([]ProductDTO, error)
	Get(ctx context.Context, id string) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

// NewService builds a catalog service over the injected repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	out := make([]ProductDTO, 0, len(list))
	for i := range list {
		out = append(out, *toDTO(&list[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (*ProductDTO, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return toDTO(product), nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	product := &models.Product{
		ID:            uuid.New(),
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		Category:      input.Category,
		ImageURL:      input.ImageURL,
		ImagePublicID: input.ImagePublicID,
		Stock:         input.Stock,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return toDTO(product), nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateProductInput) (*ProductDTO, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.ImagePublicID != nil {
		product.ImagePublicID = *input.ImagePublicID
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return toDTO(product), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}
