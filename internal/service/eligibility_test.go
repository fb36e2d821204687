package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/library-portal/internal/model"
	"github.com/iliyamo/library-portal/internal/service"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func Test_EvaluateEligibility(t *testing.T) {
	rules := service.DefaultRules() // max 2 extensions, window 3 days
	today := day(2026, 3, 10)

	tests := []struct {
		name     string
		snapshot service.BorrowingSnapshot
		eligible bool
		reason   string
	}{
		{
			name: "due_in_two_days_is_eligible",
			snapshot: service.BorrowingSnapshot{
				Status:            model.BorrowingBorrowed,
				CurrentExpiryDate: ptr(day(2026, 3, 12)),
			},
			eligible: true,
		},
		{
			name: "due_today_is_eligible",
			snapshot: service.BorrowingSnapshot{
				Status:            model.BorrowingBorrowed,
				CurrentExpiryDate: ptr(day(2026, 3, 10)),
			},
			eligible: true,
		},
		{
			name: "due_in_ten_days_is_outside_the_window",
			snapshot: service.BorrowingSnapshot{
				Status:            model.BorrowingBorrowed,
				CurrentExpiryDate: ptr(day(2026, 3, 20)),
			},
			eligible: false,
			reason:   "extensions can only be requested close to the due date",
		},
		{
			name: "overdue_is_never_eligible",
			snapshot: service.BorrowingSnapshot{
				Status:            model.BorrowingBorrowed,
				CurrentExpiryDate: ptr(day(2026, 3, 9)),
			},
			eligible: false,
			reason:   "this book is overdue; extensions cannot be requested for overdue books",
		},
		{
			name: "overdue_status_is_never_eligible",
			snapshot: service.BorrowingSnapshot{
				Status:            model.BorrowingOverdue,
				CurrentExpiryDate: ptr(day(2026, 3, 12)),
			},
			eligible: false,
			reason:   "this book is not currently borrowed",
		},
		{
			name: "returned_book_is_not_eligible",
			snapshot: service.BorrowingSnapshot{
				Status:            model.BorrowingReturned,
				CurrentExpiryDate: ptr(day(2026, 3, 12)),
			},
			eligible: false,
			reason:   "this book is not currently borrowed",
		},
		{
			name: "missing_expiry_fails_closed",
			snapshot: service.BorrowingSnapshot{
				Status: model.BorrowingBorrowed,
			},
			eligible: false,
			reason:   "this borrowing record has no expiry date",
		},
		{
			name: "extension_limit_reached",
			snapshot: service.BorrowingSnapshot{
				Status:            model.BorrowingBorrowed,
				CurrentExpiryDate: ptr(day(2026, 3, 12)),
				ExtensionCount:    2,
			},
			eligible: false,
			reason:   "the maximum number of extensions has been used for this borrowing",
		},
		{
			name: "one_extension_used_still_eligible",
			snapshot: service.BorrowingSnapshot{
				Status:            model.BorrowingBorrowed,
				CurrentExpiryDate: ptr(day(2026, 3, 12)),
				ExtensionCount:    1,
			},
			eligible: true,
		},
		{
			name: "pending_request_blocks_a_second_one",
			snapshot: service.BorrowingSnapshot{
				Status:            model.BorrowingBorrowed,
				CurrentExpiryDate: ptr(day(2026, 3, 12)),
				HasPendingRequest: true,
			},
			eligible: false,
			reason:   "a pending extension request already exists for this borrowing record",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eligible, reason := service.EvaluateEligibility(tc.snapshot, rules, today)
			assert.Equal(t, tc.eligible, eligible)
			assert.Equal(t, tc.reason, reason)
			assert.Equal(t, tc.eligible, service.CanRequestExtension(tc.snapshot, rules, today))
		})
	}
}

func Test_EvaluateEligibility_HonorsConfiguredRules(t *testing.T) {
	today := day(2026, 3, 10)
	snap := service.BorrowingSnapshot{
		Status:            model.BorrowingBorrowed,
		CurrentExpiryDate: ptr(day(2026, 3, 20)),
		ExtensionCount:    2,
	}

	strict := service.DefaultRules()
	eligible, _ := service.EvaluateEligibility(snap, strict, today)
	require.False(t, eligible)

	relaxed := service.PortalRules{
		ExtensionDays:       14,
		MaxExtensions:       5,
		MinDaysBeforeExpiry: 30,
		MaxExtensionDays:    14,
	}
	eligible, reason := service.EvaluateEligibility(snap, relaxed, today)
	assert.True(t, eligible)
	assert.Empty(t, reason)
}

func Test_ValidateRequestDates(t *testing.T) {
	rules := service.DefaultRules() // max 14 days
	original := day(2026, 3, 12)

	tests := []struct {
		name      string
		requested time.Time
		wantErr   error
	}{
		{"one_day_later_is_valid", day(2026, 3, 13), nil},
		{"exactly_max_days_is_valid", day(2026, 3, 26), nil},
		{"same_day_is_invalid", day(2026, 3, 12), service.ErrInvalidDateRange},
		{"earlier_date_is_invalid", day(2026, 3, 1), service.ErrInvalidDateRange},
		{"beyond_max_days_is_too_long", day(2026, 3, 27), service.ErrExtensionTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := service.ValidateRequestDates(original, tc.requested, rules)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
