// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/usecase"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	validate     *validator.Validate
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete registration process: shape validation,
// uniqueness check, hashing and persistence.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	if err := srv.validateInput(input); err != nil {
		srv.log(ctx).Warn("Registration input invalid", slog.String("username", input.Username), slog.Any("error", err))

		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			srv.log(ctx).Warn("Username already taken", slog.String("username", input.Username))

			return nil, domainerrors.ErrUsernameTaken.WrapMessage("registration conflict")
		}

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Int64("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Login orchestrates the login process. Unknown username and wrong password
// produce the same error so callers cannot enumerate usernames.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	if err := srv.validateInput(input); err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("username", input.Username))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("unknown username")
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch")
	}

	token, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.Int64("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue token")
	}

	srv.log(ctx).Info("Login successful", slog.Int64("userID", user.ID))

	return &usecase.LoginOutput{Token: token, User: user}, nil
}

// GetProfile retrieves the account for an authenticated user ID.
func (srv *accountService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	srv.log(ctx).Debug("Getting profile", slog.Int64("userID", userID))

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("profile lookup")
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return user, nil
}

// ChangePassword verifies the old password and persists a hash of the new one.
func (srv *accountService) ChangePassword(ctx context.Context, userID int64, input *usecase.ChangePasswordInput) error {
	srv.log(ctx).Info("Changing password", slog.Int64("userID", userID))

	if err := srv.validateInput(input); err != nil {
		return err
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrInvalidOldPassword.WrapMessage("account no longer exists")
		}

		return errors.Wrap(err, "failed to load user for password change")
	}

	if !srv.hasher.Check(input.OldPassword, user.PasswordHash) {
		srv.log(ctx).Warn("Old password mismatch", slog.Int64("userID", userID))

		return domainerrors.ErrInvalidOldPassword.WrapMessage("old password mismatch")
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	user.PasswordHash = hashedPassword
	if err := srv.userRepo.Update(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to persist new password", slog.Int64("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to persist new password")
	}

	srv.log(ctx).Info("Password changed", slog.Int64("userID", userID))

	return nil
}

// validateInput runs struct validation and converts the first violation into
// a field-specific ValidationError message.
func (srv *accountService) validateInput(input any) error {
	err := srv.validate.Struct(input)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) || len(violations) == 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("input validation")
	}

	return domainerrors.ErrValidationFailed.WithMessage(fieldMessage(violations[0]))
}

// fieldMessage renders a single violation as the message the client sees.
func fieldMessage(violation validator.FieldError) string {
	switch violation.Field() {
	case "Username":
		if violation.Tag() == "min" {
			return "Username must be at least 3 characters."
		}

		return "Username is required."
	case "Email":
		if violation.Tag() == "email" {
			return "Email is invalid."
		}

		return "Email is required."
	case "Password":
		if violation.Tag() == "min" {
			return "Password must be at least 6 characters."
		}

		return "Password is required."
	case "OldPassword":
		return "Old password is required."
	case "NewPassword":
		return "New password must be at least 6 characters."
	default:
		return "Invalid input."
	}
}
