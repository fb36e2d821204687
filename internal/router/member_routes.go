package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-portal/internal/handler"
	"github.com/iliyamo/library-portal/internal/middleware"
	"github.com/iliyamo/library-portal/internal/model"
)

// RegisterMember registers the member-scoped portal endpoints under
// /v1/me.  All routes require a valid JWT with the MEMBER role; the rate
// limiter additionally guards the mutating routes.
func RegisterMember(e *echo.Echo, h *handler.MemberHandler, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/me",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleMember, model.RoleLibrarian, model.RoleAdmin),
	)
	g.GET("", a.Me)
	g.GET("/profile", h.Profile)
	g.PUT("/profile", h.UpdateProfile, limiter)

	// Member-only resources below; staff accounts have no member record
	// and get a 404 from resolveMember.
	g.GET("/borrowings", h.ListBorrowings)
	g.GET("/borrowings/:id", h.GetBorrowing)
	g.GET("/borrowings/:id/eligibility", h.GetBorrowingEligibility)
	g.GET("/borrowings/:id/report", h.GetBorrowingReport)
	g.POST("/borrowings/:id/share", h.ShareBorrowing, limiter)
	g.POST("/borrowings/:id/extensions", h.CreateExtension, limiter)
	g.GET("/extensions", h.ListExtensions)
	g.GET("/extensions/:id", h.GetExtension)
	g.GET("/extensions/:id/report", h.GetExtensionReport)
}
