package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"josenian-borrowease/internal/adapters/persistence/models"
	"josenian-borrowease/internal/adapters/persistence/repositories"
	"josenian-borrowease/internal/core/domain"
	"josenian-borrowease/internal/pkg/jwt"
	"josenian-borrowease/internal/pkg/password"
)

// AuthService issues identity tokens for the seeded demo accounts. There is
// no registration flow; users come from the seeder only.
type AuthService struct {
	userRepo      repositories.UserRepository
	jwtSecret     string
	expiryMinutes int
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, expiryMinutes int) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		expiryMinutes: expiryMinutes,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents login response
type LoginResponse struct {
	AccessToken string               `json:"access_token"`
	User        *models.UserResponse `json:"user"`
}

// Login authenticates a demo account and returns an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResponse, error) {
	if input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(user.ID, user.Email, user.DisplayName, user.Department, s.jwtSecret, s.expiryMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("✅ Login: %s", user.Email)

	return &LoginResponse{
		AccessToken: token,
		User:        user.ToResponse(),
	}, nil
}

// GetUser returns a user by ID
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
