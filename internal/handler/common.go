// Package handler defines the HTTP handlers of the portal API.
package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-portal/internal/repository"
	"github.com/iliyamo/library-portal/internal/service"
)

// pageSize is the fixed page length of every list endpoint.
const pageSize = 20

// getUserID extracts the user_id stored by the JWT middleware and
// converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getActor assembles the acting identity from the JWT claims stored in
// the context.  Name and email may be empty for tokens minted before the
// claims were added; the review path falls back gracefully.
func getActor(c echo.Context) (service.Actor, error) {
	uid, err := getUserID(c)
	if err != nil {
		return service.Actor{}, err
	}
	a := service.Actor{UserID: uid}
	if s, ok := c.Get("role").(string); ok {
		a.Role = s
	}
	if s, ok := c.Get("name").(string); ok {
		a.Name = s
	}
	if s, ok := c.Get("email").(string); ok {
		a.Email = s
	}
	return a, nil
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// pageParams reads the ?page= query parameter (1-based) and returns the
// page number plus the limit/offset pair for the repository call.
func pageParams(c echo.Context) (page, limit, offset int) {
	page = 1
	if raw := c.QueryParam("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	return page, pageSize, (page - 1) * pageSize
}

// listResponse is the common envelope for paginated list endpoints.
func listResponse(items interface{}, total, page int) echo.Map {
	return echo.Map{
		"items":     items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}
}

// writeLifecycleError translates the service and repository sentinels
// into HTTP responses.  Ownership failures on member routes come back as
// 404 so record existence is not leaked.
func writeLifecycleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrNotEligible),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrExtensionTooLong):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicatePending),
		errors.Is(err, service.ErrInvalidStateTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrMissingReason):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
