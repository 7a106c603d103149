package users

import (
	"time"

	"github.com/arleipolo/storefront-backend/pkg/db/models"
)

// UserDTO is the public user representation, without credentials.
type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToDTO strips credentials from the model.
func ToDTO(m *models.User) *UserDTO {
	return &UserDTO{
		ID:        m.ID.String(),
		Email:     m.Email,
		Name:      m.Name,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}
