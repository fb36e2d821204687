package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-portal/internal/report"
)

type createExtensionReq struct {
	RequestedExpiryDate string `json:"requested_expiry_date"` // YYYY-MM-DD
	Reason              string `json:"reason"`
}

// CreateExtension submits a new extension request for one of the
// member's borrowing records.
func (h *MemberHandler) CreateExtension(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req createExtensionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	requested, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.RequestedExpiryDate), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "requested_expiry_date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	m, err := h.resolveMember(ctx, c)
	if err != nil {
		return writeLifecycleError(c, err)
	}
	created, err := h.Svc.Create(ctx, m.ID, id, requested, req.Reason)
	if err != nil {
		return writeLifecycleError(c, err)
	}

	detail, err := h.Extensions.GetDetailForMember(ctx, created.ID, m.ID)
	if err != nil {
		// The row just committed; surface the bare request instead of failing.
		return c.JSON(http.StatusCreated, created)
	}
	return c.JSON(http.StatusCreated, detail)
}

// ListExtensions returns a page of the member's extension requests.
// Query parameters: status (pending|approved|rejected|all), sort
// (request_date|status|book_title), page.
func (h *MemberHandler) ListExtensions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.resolveMember(ctx, c)
	if err != nil {
		return writeLifecycleError(c, err)
	}

	filter := c.QueryParam("status")
	sortKey := c.QueryParam("sort")
	page, limit, offset := pageParams(c)

	total, err := h.Extensions.CountByMember(ctx, m.ID, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items, err := h.Extensions.ListByMember(ctx, m.ID, filter, sortKey, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page))
}

// GetExtension returns one of the member's extension requests.
func (h *MemberHandler) GetExtension(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.resolveMember(ctx, c)
	if err != nil {
		return writeLifecycleError(c, err)
	}
	detail, err := h.Extensions.GetDetailForMember(ctx, id, m.ID)
	if err != nil {
		return writeLifecycleError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// GetExtensionReport renders the printable view of a single request.
func (h *MemberHandler) GetExtensionReport(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.resolveMember(ctx, c)
	if err != nil {
		return writeLifecycleError(c, err)
	}
	detail, err := h.Extensions.GetDetailForMember(ctx, id, m.ID)
	if err != nil {
		return writeLifecycleError(c, err)
	}
	body, err := report.RenderExtension(detail)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render failed"})
	}
	return c.Blob(http.StatusOK, report.ContentType, body)
}
