package middleware

import (
	"passport/config"
	"passport/internal/delivery/http/response"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/infra/ratelimit"

	"github.com/labstack/echo/v4"
)

// HeaderEnableThrottle is the request marker that opts back into throttling
// when the bypass is active. It lets test suites exercise both the throttled
// and unthrottled paths deterministically.
const HeaderEnableThrottle = "X-Enable-Throttle"

// ThrottleMiddleware rejects requests that exceed the per-address limit
// within the current window.
type ThrottleMiddleware struct {
	limiter *ratelimit.Limiter
	bypass  bool
}

// NewThrottleMiddleware is the constructor for ThrottleMiddleware.
func NewThrottleMiddleware(limiter *ratelimit.Limiter, cfg *config.Config) *ThrottleMiddleware {
	return &ThrottleMiddleware{
		limiter: limiter,
		bypass:  cfg.Throttle.Bypass,
	}
}

// Handle counts the request against its client address and rejects with 429
// once the limit is exceeded.
func (m *ThrottleMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.bypass && c.Request().Header.Get(HeaderEnableThrottle) != "true" {
			return next(c)
		}

		if !m.limiter.Allow(c.RealIP()) {
			return response.Error(c, domainerrors.ErrRateLimited.HTTPCode(), domainerrors.ErrRateLimited.Message())
		}

		return next(c)
	}
}
