package service

import (
	"context"
	"strings"
	"time"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	hasher   ports.HashService
	tokens   ports.TokenService
	log      zerolog.Logger
}

// NewAuthService creates the authentication service.
func NewAuthService(
	userRepo ports.UserRepository,
	hasher ports.HashService,
	tokens ports.TokenService,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		log:      log,
	}
}

// Register creates a new vendor account. Registration always produces a
// vendor; admin accounts are provisioned out of band.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !apperror.Is(err, apperror.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleVendor,
		Status:       domain.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("email", email).Msg("vendor registered")
	return user, nil
}

// Login verifies credentials and issues a JWT. Unknown email and wrong
// password yield the same error so accounts cannot be enumerated.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, time.Time, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || user == nil {
		return "", time.Time{}, nil, apperror.ErrInvalidCredentials()
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil || !ok {
		return "", time.Time{}, nil, apperror.ErrInvalidCredentials()
	}

	if !user.IsActive() {
		return "", time.Time{}, nil, apperror.ErrAccountSuspended()
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return "", time.Time{}, nil, apperror.InternalError(err)
	}

	return token, expiresAt, user, nil
}
