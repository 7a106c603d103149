package auth

import "github.com/arleipolo/storefront-backend/internal/users"

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

// LoginRequest is the credential login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the minted token and the authenticated user.
type LoginResult struct {
	AccessToken string         `json:"accessToken"`
	User        *users.UserDTO `json:"user"`
}
