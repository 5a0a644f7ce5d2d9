// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"passport/internal/delivery/http/middleware"
	"passport/internal/delivery/http/router/handler"
)

type RouterParams struct {
	fx.In

	AccountHandler      *handler.AccountHandler
	AuthMiddleware      *middleware.AuthMiddleware
	ThrottleMiddleware  *middleware.ThrottleMiddleware
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler      *handler.AccountHandler
	authMiddleware      *middleware.AuthMiddleware
	throttleMiddleware  *middleware.ThrottleMiddleware
	requestIDMiddleware *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:      params.AccountHandler,
		authMiddleware:      params.AuthMiddleware,
		throttleMiddleware:  params.ThrottleMiddleware,
		requestIDMiddleware: params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Handle)

	// Health check endpoint, outside the throttled API surface.
	e.GET("/health", handler.HealthCheck)

	// Every API route passes through the throttle before reaching handlers.
	api := e.Group("/api")
	api.Use(r.throttleMiddleware.Handle)
	{
		api.POST("/register", r.accountHandler.Register)
		api.POST("/login", r.accountHandler.Login)
	}

	// Routes that require authentication.
	authed := api.Group("")
	authed.Use(r.authMiddleware.Authenticate)
	{
		authed.GET("/profile", r.accountHandler.GetProfile)
		authed.PUT("/change-password", r.accountHandler.ChangePassword)
	}
}
