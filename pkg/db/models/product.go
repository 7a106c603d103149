package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog listing.
type Product struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Description   string    `gorm:"column:description;not null"`
	Price         float64   `gorm:"column:price;type:numeric(10,2);not null"`
	Category      string    `gorm:"column:category;not null"`
	ImageURL      string    `gorm:"column:image_url"`
	ImagePublicID string    `gorm:"column:image_public_id"`
	Stock         int       `gorm:"column:stock;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
