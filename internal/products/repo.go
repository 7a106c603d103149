package products

import (
	"context"

	"github.com/arleipolo/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
)

// Repository abstracts product persistence so the service never depends on a
// concrete storage technology.
type Repository interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
