package service

import (
	"context"
	"testing"
	"time"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/internal/core/ports/mocks"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authTestDeps struct {
	svc      *AuthServiceImpl
	userRepo *mocks.MockUserRepository
	hasher   *mocks.MockHashService
	tokens   *mocks.MockTokenService
	ctrl     *gomock.Controller
}

func setupAuthService(t *testing.T) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		userRepo: mocks.NewMockUserRepository(ctrl),
		hasher:   mocks.NewMockHashService(ctrl),
		tokens:   mocks.NewMockTokenService(ctrl),
		ctrl:     ctrl,
	}
	d.svc = NewAuthService(d.userRepo, d.hasher, d.tokens, zerolog.Nop())
	return d
}

func TestAuthService_Register_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.userRepo.EXPECT().GetByEmail(ctx, "ravi@acme.in").Return(nil, apperror.ErrNotFound("user"))
	d.hasher.EXPECT().Hash("s3cret-pass").Return("$argon2id$hash", nil)
	d.userRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u *domain.User) error {
			assert.Equal(t, "ravi@acme.in", u.Email)
			assert.Equal(t, domain.RoleVendor, u.Role)
			assert.Equal(t, domain.UserStatusActive, u.Status)
			assert.Equal(t, "$argon2id$hash", u.PasswordHash)
			return nil
		})

	user, err := d.svc.Register(ctx, ports.RegisterRequest{
		Name:     "Ravi Kumar",
		Email:    "  Ravi@ACME.in ",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi@acme.in", user.Email)
	assert.Equal(t, "Ravi Kumar", user.Name)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.userRepo.EXPECT().GetByEmail(ctx, "ravi@acme.in").Return(
		&domain.User{ID: uuid.New(), Email: "ravi@acme.in"}, nil)

	_, err := d.svc.Register(ctx, ports.RegisterRequest{
		Name:     "Ravi",
		Email:    "ravi@acme.in",
		Password: "whatever",
	})
	assert.True(t, apperror.Is(err, apperror.CodeEmailExists))
}

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	user := &domain.User{
		ID:           userID,
		Email:        "ravi@acme.in",
		PasswordHash: "$argon2id$hash",
		Role:         domain.RoleVendor,
		Status:       domain.UserStatusActive,
	}
	expiry := time.Now().Add(24 * time.Hour)

	d.userRepo.EXPECT().GetByEmail(ctx, "ravi@acme.in").Return(user, nil)
	d.hasher.EXPECT().Verify("s3cret-pass", "$argon2id$hash").Return(true, nil)
	d.tokens.EXPECT().Generate(userID, domain.RoleVendor).Return("jwt-token", expiry, nil)

	token, expiresAt, got, err := d.svc.Login(ctx, "Ravi@acme.in", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, expiry, expiresAt)
	assert.Equal(t, userID, got.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	user := &domain.User{
		ID:           uuid.New(),
		PasswordHash: "$argon2id$hash",
		Status:       domain.UserStatusActive,
	}

	d.userRepo.EXPECT().GetByEmail(ctx, "ravi@acme.in").Return(user, nil)
	d.hasher.EXPECT().Verify("wrong", "$argon2id$hash").Return(false, nil)

	_, _, _, err := d.svc.Login(ctx, "ravi@acme.in", "wrong")
	assert.True(t, apperror.Is(err, apperror.CodeInvalidCredentials))
}

func TestAuthService_Login_UnknownEmailSameError(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.userRepo.EXPECT().GetByEmail(ctx, "nobody@acme.in").Return(nil, apperror.ErrNotFound("user"))

	_, _, _, err := d.svc.Login(ctx, "nobody@acme.in", "whatever")
	// Indistinguishable from a wrong password.
	assert.True(t, apperror.Is(err, apperror.CodeInvalidCredentials))
}

func TestAuthService_Login_SuspendedAccount(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	user := &domain.User{
		ID:           uuid.New(),
		PasswordHash: "$argon2id$hash",
		Status:       domain.UserStatusSuspended,
	}

	d.userRepo.EXPECT().GetByEmail(ctx, "ravi@acme.in").Return(user, nil)
	d.hasher.EXPECT().Verify("s3cret-pass", "$argon2id$hash").Return(true, nil)

	_, _, _, err := d.svc.Login(ctx, "ravi@acme.in", "s3cret-pass")
	assert.True(t, apperror.Is(err, apperror.CodeAccountSuspended))
}
