package users

import (
	"context"
	"strings"
	"sync"

	"github.com/arleipolo/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository abstracts user persistence.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// GormRepository persists users through GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository constructs a users repo bound to the provided GORM DB.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// MemoryRepository keeps users in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	users []models.User
}

// NewMemoryRepository builds an empty in-memory user repo.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, email) {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.users {
		if r.users[i].ID == id {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
