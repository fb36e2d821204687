package service

import (
	"time"

	"github.com/iliyamo/library-portal/internal/model"
)

// BorrowingSnapshot is the read-only view of a borrowing record that the
// eligibility rules operate on.  Callers assemble it from the record row
// and a pending-request lookup; the evaluator itself touches no storage.
type BorrowingSnapshot struct {
	Status            string
	CurrentExpiryDate *time.Time
	ExtensionCount    int
	HasPendingRequest bool
}

// CanRequestExtension reports whether a borrowing record currently
// qualifies for a new extension request.  All of the following must hold:
// the book is still borrowed, the record is not overdue, the member has
// not used up the configured number of extensions, the due date is close
// enough for the request window to be open, and no other request for the
// record is pending.  A record without a current expiry date is never
// eligible.
func CanRequestExtension(s BorrowingSnapshot, rules PortalRules, today time.Time) bool {
	ok, _ := EvaluateEligibility(s, rules, today)
	return ok
}

// EvaluateEligibility is CanRequestExtension with the failing rule
// spelled out, so the detail page can tell the member why the request
// button is unavailable.  The reason is empty when eligible.
func EvaluateEligibility(s BorrowingSnapshot, rules PortalRules, today time.Time) (bool, string) {
	if s.Status != model.BorrowingBorrowed {
		return false, "this book is not currently borrowed"
	}
	if s.CurrentExpiryDate == nil {
		return false, "this borrowing record has no expiry date"
	}
	days := model.DaysBetween(today, *s.CurrentExpiryDate)
	if days < 0 {
		return false, "this book is overdue; extensions cannot be requested for overdue books"
	}
	if s.ExtensionCount >= rules.MaxExtensions {
		return false, "the maximum number of extensions has been used for this borrowing"
	}
	if days > rules.MinDaysBeforeExpiry {
		return false, "extensions can only be requested close to the due date"
	}
	if s.HasPendingRequest {
		return false, "a pending extension request already exists for this borrowing record"
	}
	return true, ""
}

// ValidateRequestDates checks the date constraints on a new request:
// the requested expiry must be strictly after the original expiry, and
// the resulting extension must not exceed the configured maximum length.
func ValidateRequestDates(original, requested time.Time, rules PortalRules) error {
	days := model.DaysBetween(original, requested)
	if days <= 0 {
		return ErrInvalidDateRange
	}
	if days > rules.MaxExtensionDays {
		return ErrExtensionTooLong
	}
	return nil
}
