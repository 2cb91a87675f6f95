package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/weekbook/resource-booking-api/internal/handler"    // import the handlers that implement business logic
	"github.com/weekbook/resource-booking-api/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login
	// and refresh.  Each of these handlers generates or exchanges tokens.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token and returns a new pair.
	g.POST("/refresh", a.Refresh)

	// Routes that require a valid access token.
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// Logout revokes either the submitted refresh token or, without a
	// body, every session of the member.
	auth.POST("/auth/logout", a.Logout)
}

// RegisterCalendar registers the booking calendar endpoints.  All of
// them require a valid JWT; extra middleware (e.g. the rate limiter)
// is applied after authentication so limits are counted per member.
func RegisterCalendar(e *echo.Echo, cal *handler.CalendarHandler, book *handler.BookingHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mw := append([]echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret)}, extra...)
	g := e.Group("/v1/calendar", mw...)

	// Session filter state: select resource type, resource and week.
	g.POST("/filter", cal.ApplyFilter)
	// Week jump keeps the selected resource and moves the active week.
	g.POST("/jump", cal.Jump)
	// The weekly grid for the current session selection.
	g.GET("/grid", cal.Grid)

	// Booking lifecycle: dry-run validation, commit, cancellation.
	g.POST("/validate", book.Validate)
	g.POST("/book", book.Book)
	g.POST("/cancel", book.Cancel)
}
