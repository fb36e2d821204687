package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/library-portal/internal/repository"
	"github.com/iliyamo/library-portal/internal/service"
)

func invoke(t *testing.T, fn func(echo.Context) error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, fn(e.NewContext(req, rec)))
	return rec
}

func Test_writeLifecycleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing_record", sql.ErrNoRows, http.StatusNotFound},
		{"foreign_record_hides_existence", repository.ErrForbidden, http.StatusNotFound},
		{"not_eligible", service.ErrNotEligible, http.StatusUnprocessableEntity},
		{"invalid_date_range", service.ErrInvalidDateRange, http.StatusUnprocessableEntity},
		{"extension_too_long", service.ErrExtensionTooLong, http.StatusUnprocessableEntity},
		{"duplicate_pending", service.ErrDuplicatePending, http.StatusConflict},
		{"already_reviewed", service.ErrInvalidStateTransition, http.StatusConflict},
		{"missing_reason", service.ErrMissingReason, http.StatusBadRequest},
		{"non_staff_reviewer", service.ErrPermissionDenied, http.StatusForbidden},
		{"unknown_error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := invoke(t, func(c echo.Context) error {
				return writeLifecycleError(c, tc.err)
			})
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func Test_getUserID(t *testing.T) {
	e := echo.New()
	mk := func(v interface{}) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set("user_id", v)
		return c
	}

	id, err := getUserID(mk(uint64(7)))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)

	id, err = getUserID(mk(float64(42))) // JWT numbers decode as float64
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	id, err = getUserID(mk("13"))
	require.NoError(t, err)
	assert.Equal(t, uint64(13), id)

	_, err = getUserID(mk(nil))
	assert.Error(t, err)
}

func Test_pageParams(t *testing.T) {
	e := echo.New()
	mk := func(target string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	}

	page, limit, offset := pageParams(mk("/"))
	assert.Equal(t, 1, page)
	assert.Equal(t, pageSize, limit)
	assert.Equal(t, 0, offset)

	page, _, offset = pageParams(mk("/?page=3"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 2*pageSize, offset)

	page, _, offset = pageParams(mk("/?page=junk"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, offset)
}
