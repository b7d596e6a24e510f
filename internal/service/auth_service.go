package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/loveeee/ledger/internal/auth"
	"github.com/loveeee/ledger/internal/models"
)

// AuthService registers and logs in users.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Session is a user together with a freshly issued token.
type Session struct {
	User  *models.User
	Token string
}

// RegisterInput is the sign-up request.
type RegisterInput struct {
	Email       string
	DisplayName string
	Password    string
	AvatarURL   string
}

// Register creates a new user account and returns a session for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	s.logger.Info("Register request", "email", email)

	if email == "" || !strings.Contains(email, "@") {
		return nil, validationError("a valid email is required")
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return nil, validationError("displayName is required")
	}

	user, err := s.authenticator.Register(ctx, email, strings.TrimSpace(in.DisplayName), in.Password, strings.TrimSpace(in.AvatarURL))
	if err != nil {
		s.logger.Warn("Registration failed", "email", email, "error", err)
		if errors.Is(err, auth.ErrEmailExists) || errors.Is(err, auth.ErrWeakPassword) {
			return nil, validationError("%v", err)
		}
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return &Session{User: user, Token: token}, nil
}

// Login authenticates a user and returns a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	s.logger.Info("Login request", "email", email)

	if email == "" || password == "" {
		return nil, validationError("email and password are required")
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		return nil, newError(ErrUnauthenticated, "%v", auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}
