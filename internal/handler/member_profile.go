package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-portal/internal/model"
	"github.com/iliyamo/library-portal/internal/repository"
	"github.com/iliyamo/library-portal/internal/service"
)

// MemberHandler bundles everything the member-facing portal endpoints
// need: the member's own profile, their borrowed books and their
// extension requests.
type MemberHandler struct {
	Members    *repository.MemberRepo
	Users      *repository.UserRepo
	Borrowings *repository.BorrowingRepo
	Extensions *repository.ExtensionRepo
	Svc        *service.ExtensionService
}

// NewMemberHandler constructs a MemberHandler and panics if any
// dependency is nil.
func NewMemberHandler(members *repository.MemberRepo, users *repository.UserRepo, borrowings *repository.BorrowingRepo,
	extensions *repository.ExtensionRepo, svc *service.ExtensionService) *MemberHandler {
	if members == nil || users == nil || borrowings == nil || extensions == nil || svc == nil {
		panic("nil dependency passed to NewMemberHandler")
	}
	return &MemberHandler{Members: members, Users: users, Borrowings: borrowings, Extensions: extensions, Svc: svc}
}

// resolveMember maps the authenticated user to their member record.
func (h *MemberHandler) resolveMember(ctx context.Context, c echo.Context) (model.Member, error) {
	uid, err := getUserID(c)
	if err != nil {
		return model.Member{}, err
	}
	return h.Members.GetByUserID(ctx, uid)
}

type memberProfile struct {
	ID              uint64                     `json:"id"`
	Name            string                     `json:"name"`
	Email           string                     `json:"email"`
	Phone           string                     `json:"phone,omitempty"`
	MemberStatus    string                     `json:"member_status"`
	JoinDate        string                     `json:"join_date"`
	LastPortalLogin *time.Time                 `json:"last_portal_login,omitempty"`
	Stats           model.MemberExtensionStats `json:"extension_stats"`
}

func profileOf(m model.Member, stats model.MemberExtensionStats) memberProfile {
	return memberProfile{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		MemberStatus:    m.MemberStatus,
		JoinDate:        m.JoinDate.Format("2006-01-02"),
		LastPortalLogin: m.LastPortalLogin,
		Stats:           stats,
	}
}

// Profile returns the member's own record plus derived extension
// counters.
func (h *MemberHandler) Profile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.resolveMember(ctx, c)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no member record for this account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load member failed"})
	}
	stats, err := h.Members.ExtensionStats(ctx, m.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stats failed"})
	}
	return c.JSON(http.StatusOK, profileOf(m, stats))
}

type updateProfileReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpdateProfile writes the member-editable fields.  An email change is
// propagated to the login account so the two records stay in sync.
func (h *MemberHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.resolveMember(ctx, c)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no member record for this account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load member failed"})
	}

	if err := h.Members.UpdateProfile(ctx, m.ID, req.Name, req.Email, strings.TrimSpace(req.Phone)); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if m.UserID != nil && req.Email != m.Email {
		if err := h.Users.UpdateEmail(ctx, *m.UserID, req.Email); err != nil {
			if err == repository.ErrEmailExists {
				return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}

	updated, err := h.Members.GetByID(ctx, m.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load member failed"})
	}
	stats, err := h.Members.ExtensionStats(ctx, m.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stats failed"})
	}
	return c.JSON(http.StatusOK, profileOf(updated, stats))
}
