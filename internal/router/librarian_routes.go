package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-portal/internal/handler"
	"github.com/iliyamo/library-portal/internal/middleware"
	"github.com/iliyamo/library-portal/internal/model"
)

// RegisterLibrarian registers the staff review surface under /v1.  All
// routes require the LIBRARIAN or ADMIN role; rewriting the portal
// settings is ADMIN only.
func RegisterLibrarian(e *echo.Echo, h *handler.LibrarianHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleLibrarian, model.RoleAdmin),
	)
	g.GET("/requests", h.ListRequests)
	g.GET("/requests/:id", h.GetRequest)
	g.GET("/requests/:id/report", h.GetRequestReport)
	g.POST("/requests/:id/approve", h.ApproveRequest, limiter)
	g.POST("/requests/:id/reject", h.RejectRequest, limiter)
	g.GET("/members", h.ListMembers)
	g.GET("/members/:id", h.GetMember)
	g.GET("/settings", h.GetSettings)
	g.PUT("/settings", h.UpdateSettings, middleware.RequireRole(model.RoleAdmin), limiter)
}
