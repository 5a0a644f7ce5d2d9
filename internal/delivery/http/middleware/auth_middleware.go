package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/delivery/http/response"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/service"
)

const bearerPrefix = "Bearer "

// AuthMiddleware provides middleware for bearer-token authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer token and injects the authenticated user
// ID downstream. A missing or malformed header is a request-shape error
// (403); a present but invalid token is an authentication failure (401).
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Error(c, domainerrors.ErrTokenMissing.HTTPCode(), domainerrors.ErrTokenMissing.Message())
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		if tokenString == authHeader {
			return response.Error(c, domainerrors.ErrTokenMissing.HTTPCode(), domainerrors.ErrTokenMissing.Message())
		}

		userID, err := m.tokenSvc.Verify(tokenString)
		if err != nil {
			return response.Error(c, domainerrors.ErrTokenInvalid.HTTPCode(), domainerrors.ErrTokenInvalid.Message())
		}

		// Set the subject on both the echo context and the request context
		// for handlers and use cases to read.
		c.Set(string(deliverycontext.KeyUserID), userID)

		req := c.Request()
		c.SetRequest(req.WithContext(deliverycontext.WithUserID(req.Context(), userID)))

		return next(c)
	}
}
