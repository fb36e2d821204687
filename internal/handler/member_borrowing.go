package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-portal/internal/report"
	"github.com/iliyamo/library-portal/internal/repository"
	"github.com/iliyamo/library-portal/internal/service"
)

// ListBorrowings returns a page of the member's borrowing records.
// Query parameters: status (borrowed|overdue|returned|all), q (title
// search), sort (sequence|borrow_date|expected_return_date|book_title),
// page.
func (h *MemberHandler) ListBorrowings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.resolveMember(ctx, c)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no member record for this account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load member failed"})
	}

	filter := c.QueryParam("status")
	search := c.QueryParam("q")
	sortKey := c.QueryParam("sort")
	page, limit, offset := pageParams(c)

	total, err := h.Borrowings.CountByMember(ctx, m.ID, filter, search)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items, err := h.Borrowings.ListByMember(ctx, m.ID, filter, search, sortKey, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page))
}

// eligibilityView is the eligibility block embedded in the borrowing
// detail response.
type eligibilityView struct {
	Eligible             bool   `json:"eligible"`
	Reason               string `json:"reason,omitempty"`
	DefaultRequestedDate string `json:"default_requested_date,omitempty"`
}

// evaluate builds the eligibility block for a borrowing record: whether a
// request can be submitted now, why not otherwise, and the suggested
// requested date (current expiry plus the configured extension days).
func (h *MemberHandler) evaluate(ctx context.Context, d repository.BorrowingDetail) (eligibilityView, error) {
	rules, err := h.Svc.Rules(ctx)
	if err != nil {
		return eligibilityView{}, err
	}
	hasPending, err := h.Extensions.HasPendingForRecord(ctx, d.ID)
	if err != nil {
		return eligibilityView{}, err
	}

	expiry := d.ExpectedReturnDate
	if d.CurrentExpiryDate != nil {
		expiry = *d.CurrentExpiryDate
	}
	snap := service.BorrowingSnapshot{
		Status:            d.Status,
		CurrentExpiryDate: &expiry,
		ExtensionCount:    d.ExtensionCount,
		HasPendingRequest: hasPending,
	}
	eligible, reason := service.EvaluateEligibility(snap, rules, time.Now().UTC())
	v := eligibilityView{Eligible: eligible, Reason: reason}
	if eligible {
		v.DefaultRequestedDate = expiry.AddDate(0, 0, rules.ExtensionDays).Format("2006-01-02")
	}
	return v, nil
}

// GetBorrowing returns one of the member's borrowing records with its
// book, pending request, eligibility block and prev/next navigation ids.
func (h *MemberHandler) GetBorrowing(c echo.Context) error {
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
	d, err := h.Borrowings.GetByIDForMember(ctx, id, m.ID)
	if err != nil {
		return writeLifecycleError(c, err)
	}

	resp := echo.Map{"record": d}

	if pending, err := h.Extensions.PendingForRecord(ctx, d.ID); err == nil {
		resp["pending_request"] = pending
	} else if err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	elig, err := h.evaluate(ctx, d)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp["eligibility"] = elig

	prev, next, err := h.Borrowings.NeighborIDs(ctx, m.ID, d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if prev != 0 {
		resp["prev_id"] = prev
	}
	if next != 0 {
		resp["next_id"] = next
	}
	return c.JSON(http.StatusOK, resp)
}

// GetBorrowingEligibility returns just the eligibility block, for the
// detail page's request button.
func (h *MemberHandler) GetBorrowingEligibility(c echo.Context) error {
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
	d, err := h.Borrowings.GetByIDForMember(ctx, id, m.ID)
	if err != nil {
		return writeLifecycleError(c, err)
	}
	elig, err := h.evaluate(ctx, d)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, elig)
}

// GetBorrowingReport renders the printable view of a borrowing record
// with its extension history.
func (h *MemberHandler) GetBorrowingReport(c echo.Context) error {
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
	d, err := h.Borrowings.GetByIDForMember(ctx, id, m.ID)
	if err != nil {
		return writeLifecycleError(c, err)
	}
	requests, err := h.Extensions.ListForRecord(ctx, d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	body, err := report.RenderBorrowing(d, requests)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render failed"})
	}
	return c.Blob(http.StatusOK, report.ContentType, body)
}

// ShareBorrowing returns the record's share token, generating one on
// first use.  The token grants read-only access to the record via the
// public endpoint.
func (h *MemberHandler) ShareBorrowing(c echo.Context) error {
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
	// Ownership check before touching the token.
	if _, err := h.Borrowings.GetByIDForMember(ctx, id, m.ID); err != nil {
		return writeLifecycleError(c, err)
	}
	token, err := h.Borrowings.EnsureAccessToken(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": token})
}
