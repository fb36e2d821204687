package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/library-portal/internal/model"
	"github.com/iliyamo/library-portal/internal/service"
)

func approvedReq(reviewed, newExpiry time.Time) model.ExtensionRequest {
	return model.ExtensionRequest{
		Status:        model.RequestApproved,
		ReviewDate:    ptr(reviewed),
		NewExpiryDate: ptr(newExpiry),
	}
}

func Test_ProjectCurrentExpiry(t *testing.T) {
	expected := day(2026, 3, 12)

	t.Run("no_approvals_falls_back_to_expected_return", func(t *testing.T) {
		got := service.ProjectCurrentExpiry(expected, nil)
		assert.Equal(t, expected, got)
	})

	t.Run("single_approval_wins", func(t *testing.T) {
		got := service.ProjectCurrentExpiry(expected, []model.ExtensionRequest{
			approvedReq(day(2026, 3, 10), day(2026, 3, 26)),
		})
		assert.Equal(t, day(2026, 3, 26), got)
	})

	t.Run("latest_review_wins_regardless_of_order", func(t *testing.T) {
		got := service.ProjectCurrentExpiry(expected, []model.ExtensionRequest{
			approvedReq(day(2026, 4, 1), day(2026, 4, 20)),
			approvedReq(day(2026, 3, 10), day(2026, 3, 26)),
		})
		assert.Equal(t, day(2026, 4, 20), got)

		got = service.ProjectCurrentExpiry(expected, []model.ExtensionRequest{
			approvedReq(day(2026, 3, 10), day(2026, 3, 26)),
			approvedReq(day(2026, 4, 1), day(2026, 4, 20)),
		})
		assert.Equal(t, day(2026, 4, 20), got)
	})

	t.Run("non_approved_rows_are_ignored", func(t *testing.T) {
		rejected := model.ExtensionRequest{
			Status:        model.RequestRejected,
			ReviewDate:    ptr(day(2026, 5, 1)),
			NewExpiryDate: ptr(day(2026, 5, 30)),
		}
		got := service.ProjectCurrentExpiry(expected, []model.ExtensionRequest{
			rejected,
			approvedReq(day(2026, 3, 10), day(2026, 3, 26)),
		})
		assert.Equal(t, day(2026, 3, 26), got)
	})

	t.Run("rows_missing_review_metadata_are_skipped", func(t *testing.T) {
		incomplete := model.ExtensionRequest{Status: model.RequestApproved}
		got := service.ProjectCurrentExpiry(expected, []model.ExtensionRequest{incomplete})
		assert.Equal(t, expected, got)
	})
}
