package products

import (
	"time"

	"github.com/arleipolo/storefront-backend/pkg/db/models"
)

// ProductDTO is the public product representation.
type ProductDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"imageUrl"`
	ImagePublicID string    `json:"imagePublicId"`
	Stock         int       `json:"stock"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateProductInput carries the fields an admin submits for a new listing.
type CreateProductInput struct {
	Name          string  `json:"name" validate:"required,min=3,max=100"`
	Description   string  `json:"description" validate:"required,min=10,max=500"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	Category      string  `json:"category" validate:"required"`
	ImageURL      string  `json:"imageUrl"`
	ImagePublicID string  `json:"imagePublicId"`
	Stock         int     `json:"stock" validate:"gte=0"`
}

// UpdateProductInput carries the mutable fields; nil means unchanged.
type UpdateProductInput struct {
	Name          *string  `json:"name" validate:"omitempty,min=3,max=100"`
	Description   *string  `json:"description" validate:"omitempty,min=10,max=500"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
	Category      *string  `json:"category"`
	ImageURL      *string  `json:"imageUrl"`
	ImagePublicID *string  `json:"imagePublicId"`
	Stock         *int     `json:"stock" validate:"omitempty,gte=0"`
}

func toDTO(m *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:            m.ID.String(),
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		Category:      m.Category,
		ImageURL:      m.ImageURL,
		ImagePublicID: m.ImagePublicID,
		Stock:         m.Stock,
		CreatedAt:     m.CreatedAt,
	}
}
