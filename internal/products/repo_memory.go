package products

import (
	"context"
	"sync"
	"time"

	"github.com/arleipolo/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemoryRepository keeps the catalog in process memory, seeded with the demo
// listings. Useful for development and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewMemoryRepository builds a repo pre-populated with the demo catalog.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{products: seedCatalog()}
}

func (r *MemoryRepository) List(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.products {
		if r.products[i].ID == id {
			product := r.products[i]
			return &product, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, *product)
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == product.ID {
			r.products[i] = *product
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func seedCatalog() []models.Product {
	now := time.Now()
	seed := []struct {
		name, description, category, image string
		price                              float64
		stock                              int
	}{
		{"Laptop Pro 15\"", "Powerful laptop for professionals with a latest-generation processor", "Electronics", "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=500", 1299.99, 15},
		{"Bluetooth Headphones", "Wireless headphones with noise cancellation", "Electronics", "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500", 199.99, 30},
		{"Smartwatch Pro", "Smart watch with health monitoring and GPS", "Electronics", "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500", 349.99, 20},
		{"DSLR Camera", "Professional 24MP camera with included lens", "Photography", "https://images.unsplash.com/photo-1516035069371-29a1b244cc32?w=500", 899.99, 8},
		{"Tablet 10\"", "Light and powerful tablet for work and entertainment", "Electronics", "https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?w=500", 449.99, 25},
		{"Mechanical Keyboard", "Gaming keyboard with RGB backlight", "Accessories", "https://images.unsplash.com/photo-1587829741301-dc798b83add3?w=500", 129.99, 40},
	}

	catalog := make([]models.Product, 0, len(seed))
	for _, s := range seed {
		catalog = append(catalog, models.Product{
			ID:            uuid.New(),
			Name:          s.name,
			Description:   s.description,
			Price:         s.price,
			Category:      s.category,
			ImageURL:      s.image,
			ImagePublicID: "sample",
			Stock:         s.stock,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return catalog
}
