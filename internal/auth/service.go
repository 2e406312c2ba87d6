package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"account-service/internal/logging"
	"account-service/internal/user"
	"account-service/internal/validation"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password, so a caller cannot tell registered emails apart from unknown ones.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError carries the ordered list of field-rule violations.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Service orchestrates registration and sign-in
type Service struct {
	userRepo      user.Repository
	tokenService  TokenService
	logger        *logging.Logger
	tokenDuration time.Duration
}

func NewService(userRepo user.Repository, tokenService TokenService, logger *logging.Logger, tokenDuration time.Duration) *Service {
	return &Service{
		userRepo:      userRepo,
		tokenService:  tokenService,
		logger:        logger,
		tokenDuration: tokenDuration,
	}
}

// Register creates a new user account. The photo, when present, is the
// already-stored filename of an upload that accompanied the registration.
// The password is hashed before anything touches the database, so a failed
// registration leaves no partial row behind.
func (s *Service) Register(ctx context.Context, name, email, password string, photo *string) (*user.User, error) {
	if msgs := validation.Registration(name, email, password); len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}

	// Explicit duplicate check; the unique constraint backstops the race
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, user.ErrDuplicateEmail
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	newUser, err := s.userRepo.Create(ctx, name, email, passwordHash, photo)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", newUser.ID)

	return newUser, nil
}

// SignIn authenticates a user and returns a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	if msgs := validation.SignIn(email, password); len(msgs) > 0 {
		return "", &ValidationError{Messages: msgs}
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if !CheckPassword(password, existingUser.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(existingUser.ID, existingUser.Email, s.tokenDuration)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	s.logger.Info("user signed in", "user_id", existingUser.ID)

	return token, nil
}
