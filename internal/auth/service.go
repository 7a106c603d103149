package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arleipolo/storefront-backend/internal/users"
	pkgauth "github.com/arleipolo/storefront-backend/pkg/auth"
	"github.com/arleipolo/storefront-backend/pkg/config"
	"github.com/arleipolo/storefront-backend/pkg/db"
	"github.com/arleipolo/storefront-backend/pkg/db/models"
	pkgerrors "github.com/arleipolo/storefront-backend/pkg/errors"
	"github.com/arleipolo/storefront-backend/pkg/security"
	"github.com/google/uuid"
)

// Service exposes credential registration and login.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

type service struct {
	repo        users.Repository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	flags       config.FeatureFlagsConfig
	now         func() time.Time
}

// ServiceParams configure the auth service.
type ServiceParams struct {
	UserRepo    users.Repository
	JWTConfig   config.JWTConfig
	PasswordCfg config.PasswordConfig
	Flags       config.FeatureFlagsConfig
	Now         func() time.Time
}

// NewService builds the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        params.UserRepo,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordCfg,
		flags:       params.Flags,
		now:         now,
	}, nil
}

// Register creates the account. Addresses on the configured admin list get
// the admin role; everyone else is a regular user.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	role := models.RoleUser
	if s.flags.IsAdminEmail(email) {
		role = models.RoleAdmin
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}
	return users.ToDTO(user), nil
}

// Login verifies the credentials and mints an access token.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	if !security.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), user.ID.String(), user.Email, user.Name, user.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	return &LoginResult{AccessToken: token, User: users.ToDTO(user)}, nil
}
