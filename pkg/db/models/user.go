package models

import (
	"time"

	"github.com/google/uuid"
)

// Role values for users.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email        string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Name         string    `gorm:"column:name;not null"`
	Role         string    `gorm:"column:role;not null;default:user"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
