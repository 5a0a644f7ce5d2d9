package impl

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"passport/config"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/service"
	"passport/internal/infra/auth"
	"passport/internal/infra/persistence/file"
	"passport/internal/usecase"
)

// accountServiceFixtures holds the service under test plus the real
// collaborators it was built with.
type accountServiceFixtures struct {
	service  usecase.AccountUsecase
	tokenSvc service.TokenService
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_secret_key_very_long_for_testing"

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	store := file.NewStoreAtPath(filepath.Join(t.TempDir(), "users.json"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewAccountService(AccountServiceParams{
		UserRepo:     file.NewUserRepository(store),
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokenSvc,
		Logger:       logger,
	})

	return accountServiceFixtures{service: svc, tokenSvc: tokenSvc}
}

func appErrorOf(t *testing.T, err error) domainerrors.AppError {
	t.Helper()

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)

	return appErr
}

func TestAccountService_Register_Success(t *testing.T) {
	fixtures := createTestAccountService(t)
	ctx := context.Background()

	output, err := fixtures.service.Register(ctx, &usecase.RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret1",
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, int64(1), output.User.ID)
	assert.Equal(t, "alice", output.User.Username)
	assert.Equal(t, "a@x.com", output.User.Email)
	assert.NotEqual(t, "secret1", output.User.PasswordHash)
}

func TestAccountService_Register_IDsIncrease(t *testing.T) {
	fixtures := createTestAccountService(t)
	ctx := context.Background()

	first, err := fixtures.service.Register(ctx, &usecase.RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	second, err := fixtures.service.Register(ctx, &usecase.RegisterInput{
		Username: "bob", Email: "b@x.com", Password: "secret2",
	})
	require.NoError(t, err)

	assert.Greater(t, second.User.ID, first.User.ID)
}

func TestAccountService_Register_DuplicateUsername(t *testing.T) {
	fixtures := createTestAccountService(t)
	ctx := context.Background()

	_, err := fixtures.service.Register(ctx, &usecase.RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, err = fixtures.service.Register(ctx, &usecase.RegisterInput{
		Username: "alice", Email: "other@x.com", Password: "secret2",
	})
	require.Error(t, err)

	appErr := appErrorOf(t, err)
	assert.Equal(t, 409, appErr.HTTPCode())
	assert.Equal(t, "Username already exists.", appErr.Message())
}

func TestAccountService_Register_Validation(t *testing.T) {
	fixtures := createTestAccountService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   *usecase.RegisterInput
		message string
	}{
		{
			name:    "short username",
			input:   &usecase.RegisterInput{Username: "al", Email: "a@x.com", Password: "secret1"},
			message: "Username must be at least 3 characters.",
		},
		{
			name:    "missing username",
			input:   &usecase.RegisterInput{Email: "a@x.com", Password: "secret1"},
			message: "Username is required.",
		},
		{
			name:    "bad email",
			input:   &usecase.RegisterInput{Username: "alice", Email: "not-an-email", Password: "secret1"},
			message: "Email is invalid.",
		},
		{
			name:    "short password",
			input:   &usecase.RegisterInput{Username: "alice", Email: "a@x.com", Password: "short"},
			message: "Password must be at least 6 characters.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixtures.service.Register(ctx, tt.input)
			require.Error(t, err)

			appErr := appErrorOf(t, err)
			assert.Equal(t, 400, appErr.HTTPCode())
			assert.Equal(t, tt.message, appErr.Message())
		})
	}
}

func TestAccountService_Login_IssuesVerifiableToken(t *testing.T) {
	fixtures := createTestAccountService(t)
	ctx := context.Background()

	registered, err := fixtures.service.Register(ctx, &usecase.RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	output, err := fixtures.service.Login(ctx, &usecase.LoginInput{
		Username: "alice", Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.Token)

	// The issued token verifies back to the same user.
	userID, err := fixtures.tokenSvc.Verify(output.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, userID)
}

func TestAccountService_Login_GenericFailure(t *testing.T) {
	fixtures := createTestAccountService(t)
	ctx := context.Background()

	_, err := fixtures.service.Register(ctx, &usecase.RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	// Wrong password and unknown username return the same response shape.
	_, wrongPassword := fixtures.service.Login(ctx, &usecase.LoginInput{
		Username: "alice", Password: "wrong",
	})
	_, unknownUser := fixtures.service.Login(ctx, &usecase.LoginInput{
		Username: "nobody", Password: "secret1",
	})

	for _, err := range []error{wrongPassword, unknownUser} {
		require.Error(t, err)
		appErr := appErrorOf(t, err)
		assert.Equal(t, 401, appErr.HTTPCode())
		assert.Equal(t, "Invalid username or password.", appErr.Message())
	}
}

func TestAccountService_Login_Validation(t *testing.T) {
	fixtures := createTestAccountService(t)

	_, err := fixtures.service.Login(context.Background(), &usecase.LoginInput{Username: "alice"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrorOf(t, err).HTTPCode())
}

func TestAccountService_GetProfile_RoundTrip(t *testing.T) {
	fixtures := createTestAccountService(t)
	ctx := context.Background()

	registered, err := fixtures.service.Register(ctx, &usecase.RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	profile, err := fixtures.service.GetProfile(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "a@x.com", profile.Email)
}

func TestAccountService_GetProfile_NotFound(t *testing.T) {
	fixtures := createTestAccountService(t)

	_, err := fixtures.service.GetProfile(context.Background(), 999)
	require.Error(t, err)

	appErr := appErrorOf(t, err)
	assert.Equal(t, 404, appErr.HTTPCode())
	assert.Equal(t, "User not found.", appErr.Message())
}

func TestAccountService_ChangePassword_Flow(t *testing.T) {
	fixtures := createTestAccountService(t)
	ctx := context.Background()

	registered, err := fixtures.service.Register(ctx, &usecase.RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	err = fixtures.service.ChangePassword(ctx, registered.User.ID, &usecase.ChangePasswordInput{
		OldPassword: "secret1",
		NewPassword: "newsecret",
	})
	require.NoError(t, err)

	// The old password no longer logs in; the new one does.
	_, err = fixtures.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "secret1"})
	assert.Error(t, err)

	_, err = fixtures.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "newsecret"})
	assert.NoError(t, err)
}

func TestAccountService_ChangePassword_WrongOldPassword(t *testing.T) {
	fixtures := createTestAccountService(t)
	ctx := context.Background()

	registered, err := fixtures.service.Register(ctx, &usecase.RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	err = fixtures.service.ChangePassword(ctx, registered.User.ID, &usecase.ChangePasswordInput{
		OldPassword: "wrong",
		NewPassword: "newsecret",
	})
	require.Error(t, err)

	appErr := appErrorOf(t, err)
	assert.Equal(t, 400, appErr.HTTPCode())
	assert.Equal(t, "Invalid old password.", appErr.Message())
}

func TestAccountService_ChangePassword_Validation(t *testing.T) {
	fixtures := createTestAccountService(t)
	ctx := context.Background()

	registered, err := fixtures.service.Register(ctx, &usecase.RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	err = fixtures.service.ChangePassword(ctx, registered.User.ID, &usecase.ChangePasswordInput{
		OldPassword: "secret1",
		NewPassword: "short",
	})
	require.Error(t, err)

	appErr := appErrorOf(t, err)
	assert.Equal(t, 400, appErr.HTTPCode())
	assert.Equal(t, "New password must be at least 6 characters.", appErr.Message())
}
