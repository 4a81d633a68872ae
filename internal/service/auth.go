package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"todoapi/internal/auth"
	"todoapi/internal/models"
	"todoapi/internal/repository"
)

var ( // Define custom errors
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type RegisterInput struct {
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Password    string
	Role        string
	PhoneNumber string
}

type AuthService interface {
	Register(input RegisterInput) (*models.User, error)
	Login(username, password string) (string, error) // Returns a signed JWT token
}

type authService struct {
	repo   repository.UserRepository
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewAuthService(repo repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) AuthService {
	return &authService{repo: repo, tokens: tokens, logger: logger}
}

func (s *authService) Register(input RegisterInput) (*models.User, error) {
	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: passwordHash,
		IsActive:     true,
		Role:         input.Role,
		PhoneNumber:  input.PhoneNumber,
	}

	if err := s.repo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("username", user.Username), zap.Int64("id", user.ID))
	return user, nil
}

// Login verifies the credentials and mints a bearer token. Unknown username
// and wrong password are indistinguishable to the caller.
func (s *authService) Login(username, password string) (string, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		s.logger.Error("Failed to get user by username", zap.Error(err))
		return "", fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Issue(user.Username, user.ID, user.Role)
	if err != nil {
		s.logger.Error("Failed to generate JWT token", zap.Error(err))
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in successfully.", zap.String("username", user.Username))
	return tokenString, nil
}
