package model

import "time"

// Extension request statuses stored in extension_requests.status.
// pending is the only non-terminal state; a request leaves it exactly
// once, to approved or rejected.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// ExtensionRequest mirrors the `extension_requests` table.  A request is
// a member-initiated proposal to push back a borrowing record's due date,
// reviewed by a librarian.
//
// Fields:
//
//	ID                  – primary key identifier.
//	Name                – request reference (e.g. EXT00042), assigned at
//	                      creation and immutable.
//	BorrowingRecordID   – owning borrowing record; deleting the record
//	                      cascades to its requests.
//	RequestDate         – when the member submitted the request.
//	OriginalExpiryDate  – effective due date at submission time, frozen.
//	RequestedExpiryDate – proposed new due date.
//	RequestReason       – optional free-text justification.
//	Status              – pending, approved or rejected.
//	ReviewedBy          – librarian who reviewed (nullable until review).
//	ReviewDate          – when the review happened (nullable until review).
//	NewExpiryDate       – granted due date, set only on approval.
//	RejectionReason     – mandatory explanation, set only on rejection.
type ExtensionRequest struct {
	ID                  uint64     // extension_requests.id
	Name                string     // extension_requests.name
	BorrowingRecordID   uint64     // extension_requests.borrowing_record_id
	RequestDate         time.Time  // extension_requests.request_date
	OriginalExpiryDate  time.Time  // extension_requests.original_expiry_date
	RequestedExpiryDate time.Time  // extension_requests.requested_expiry_date
	RequestReason       string     // extension_requests.request_reason
	Status              string     // extension_requests.status
	ReviewedBy          *uint64    // extension_requests.reviewed_by (nullable)
	ReviewDate          *time.Time // extension_requests.review_date (nullable)
	NewExpiryDate       *time.Time // extension_requests.new_expiry_date (nullable)
	RejectionReason     string     // extension_requests.rejection_reason
}

// ExtensionDays returns the number of days between the original and the
// requested expiry dates.  The value is derived, never stored.
func (r ExtensionRequest) ExtensionDays() int {
	return DaysBetween(r.OriginalExpiryDate, r.RequestedExpiryDate)
}

// DaysBetween counts whole calendar days from a to b, ignoring the time
// of day on either side.  Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
