package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                             // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp" // promhttp serves the metrics registry

	"github.com/iliyamo/greenhouse/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/greenhouse/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check and the Prometheus
// metrics endpoint.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems poll this endpoint to
	// verify that the service is up and running.
	e.GET("/healthz", handler.Health)
	// Prometheus scrapes the default registry here.
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware. Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Token issuing endpoints do not require an existing session.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh token in the body or a bearer
	// token in the header, so it does not sit behind the JWT middleware.
	g.POST("/logout", a.Logout)

	// Protected endpoints require a valid access token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)

	// Alias so clients can terminate a session at either path with a
	// valid refresh token in the body.
	e.POST("/v1/logout", a.Logout)
}
