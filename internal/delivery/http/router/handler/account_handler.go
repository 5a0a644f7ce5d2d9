// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/delivery/http/response"
	"passport/internal/usecase"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid registration input.")
	}

	output, err := h.uc.Register(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	// The entity strips the password hash on serialization, so the echoed
	// record never exposes the digest.
	return response.Created(c, output.User)
}

// Login handles the login request and returns a bearer token.
func (h *AccountHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid login input.")
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusOK, output)
}

// GetProfile handles the request to get the current user's record.
func (h *AccountHandler) GetProfile(c echo.Context) error {
	userID, ok := subjectID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Failed to authenticate token.")
	}

	user, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusOK, user)
}

// ChangePassword handles the password change request.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	userID, ok := subjectID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Failed to authenticate token.")
	}

	var input usecase.ChangePasswordInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid password change input.")
	}

	if err := h.uc.ChangePassword(c.Request().Context(), userID, &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Password changed successfully.")
}

// subjectID reads the authenticated user ID placed on the context by the
// auth middleware.
func subjectID(c echo.Context) (int64, bool) {
	userID, ok := c.Get(string(deliverycontext.KeyUserID)).(int64)

	return userID, ok
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.JSON(c, http.StatusOK, map[string]string{"status": "ok"})
}
