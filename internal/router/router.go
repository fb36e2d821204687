// Package router wires HTTP routes to handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-portal/internal/handler"
)

// RegisterRoutes registers routes that require no authentication beyond
// the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /v1/auth.
// The rate limiter applies to every auth route since they are the
// cheapest target for credential stuffing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse endpoints: catalog
// search and the token-shared borrowing record view.  The response cache
// fronts all of them.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/books", p.SearchBooks)
	g.GET("/books/:id", p.GetBook)
	g.GET("/shared/records/:token", p.GetSharedRecord)
}
