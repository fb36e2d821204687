package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-portal/internal/model"
	"github.com/iliyamo/library-portal/internal/report"
	"github.com/iliyamo/library-portal/internal/repository"
	"github.com/iliyamo/library-portal/internal/service"
)

// LibrarianHandler serves the staff review surface: the request queue,
// approve/reject actions, the member directory and the portal settings.
type LibrarianHandler struct {
	Members    *repository.MemberRepo
	Extensions *repository.ExtensionRepo
	Svc        *service.ExtensionService
	Rules      *service.RulesProvider
}

// NewLibrarianHandler constructs a LibrarianHandler and panics if any
// dependency is nil.
func NewLibrarianHandler(members *repository.MemberRepo, extensions *repository.ExtensionRepo,
	svc *service.ExtensionService, rules *service.RulesProvider) *LibrarianHandler {
	if members == nil || extensions == nil || svc == nil || rules == nil {
		panic("nil dependency passed to NewLibrarianHandler")
	}
	return &LibrarianHandler{Members: members, Extensions: extensions, Svc: svc, Rules: rules}
}

// ListRequests returns the review queue for one status, oldest first.
// Query parameters: status (pending|approved|rejected, default pending),
// page.
func (h *LibrarianHandler) ListRequests(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = model.RequestPending
	}
	switch status {
	case model.RequestPending, model.RequestApproved, model.RequestRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	page, limit, offset := pageParams(c)
	total, err := h.Extensions.CountByStatus(ctx, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items, err := h.Extensions.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page))
}

// GetRequest returns one request with full display joins.
func (h *LibrarianHandler) GetRequest(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	detail, err := h.Extensions.GetDetail(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

// ApproveRequest grants a pending extension.
func (h *LibrarianHandler) ApproveRequest(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Svc.Approve(ctx, id, actor); err != nil {
		return writeLifecycleError(c, err)
	}
	detail, err := h.Extensions.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

type rejectReq struct {
	Reason string `json:"reason"`
}

// RejectRequest declines a pending extension with a mandatory reason.
func (h *LibrarianHandler) RejectRequest(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Svc.Reject(ctx, id, actor, req.Reason); err != nil {
		return writeLifecycleError(c, err)
	}
	detail, err := h.Extensions.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

// GetRequestReport renders the printable view of a request for staff.
func (h *LibrarianHandler) GetRequestReport(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	detail, err := h.Extensions.GetDetail(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	body, err := report.RenderExtension(detail)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render failed"})
	}
	return c.Blob(http.StatusOK, report.ContentType, body)
}

// ListMembers returns the member directory.  Query parameters: q (name
// or email search), page.
func (h *LibrarianHandler) ListMembers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	search := c.QueryParam("q")
	page, limit, offset := pageParams(c)
	total, err := h.Members.Count(ctx, search)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items, err := h.Members.List(ctx, search, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page))
}

// GetMember returns a single member with derived extension counters.
func (h *LibrarianHandler) GetMember(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	stats, err := h.Members.ExtensionStats(ctx, m.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, profileOf(m, stats))
}

// GetSettings returns the current portal rules.
func (h *LibrarianHandler) GetSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rules, err := h.Rules.Load(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rules)
}

// UpdateSettings writes new portal rules.  All values must be positive;
// the change takes effect on the next eligibility evaluation.
func (h *LibrarianHandler) UpdateSettings(c echo.Context) error {
	var rules service.PortalRules
	if err := c.Bind(&rules); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if rules.ExtensionDays <= 0 || rules.MaxExtensions <= 0 ||
		rules.MinDaysBeforeExpiry <= 0 || rules.MaxExtensionDays <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all settings must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rules.Save(ctx, rules); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, rules)
}
