package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"green-kart/internal/auth"
	"green-kart/internal/model"
	"green-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// accountService implements AccountService.
type accountService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenService
	logger   zerolog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(userRepo repository.UserRepository, tokens *auth.TokenService, logger zerolog.Logger) AccountService {
	return &accountService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With().Str("service", "account").Logger(),
	}
}

// Register creates an account with a bcrypt-hashed password and issues a
// session token.
func (s *accountService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	if existing != nil {
		s.logger.Warn().Str("email", email).Msg("registration with taken email")
		return nil, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		Role:         model.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return s.sessionFor(user)
}

// Login authenticates credentials and issues a session token.
func (s *accountService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "email and password are required")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", email).Msg("failed login attempt")
		return nil, model.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, model.ErrAccountDisabled
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	return s.sessionFor(user)
}

// sessionFor issues a fresh token for the user. A refreshed session is
// always a new token.
func (s *accountService) sessionFor(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &model.AuthResponse{
		User:        user,
		Token:       token,
		Permissions: auth.PermissionsFor(user.Role),
	}, nil
}

func validateRegisterRequest(req *model.RegisterRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeValidation, "register request is nil")
	}

	var violations []string
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		violations = append(violations, "a valid email is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		violations = append(violations, "name is required")
	}
	if len(req.Password) < 8 {
		violations = append(violations, "password must be at least 8 characters")
	}

	if len(violations) > 0 {
		return model.NewDomainError(model.ErrCodeValidation, strings.Join(violations, ", "))
	}
	return nil
}
