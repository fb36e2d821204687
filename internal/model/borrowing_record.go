package model

import "time"

// Borrowing record statuses stored in borrowing_records.status.  The
// borrowing subsystem owns the transitions between them; the portal only
// reads the status and, on an approved extension, pushes back the
// expected return date.
const (
	BorrowingBorrowed = "borrowed"
	BorrowingOverdue  = "overdue"
	BorrowingReturned = "returned"
)

// BorrowingRecord mirrors the `borrowing_records` table.  It represents
// one member's possession of one book over a date range.  The record is
// created and closed by the borrowing subsystem; the portal extends it
// with the extension-request bookkeeping columns.
//
// Fields:
//
//	ID                 – primary key identifier.
//	Sequence           – human-readable record number, monotonic.
//	MemberID           – borrowing member.
//	BookID             – borrowed book.
//	Status             – borrowed, overdue or returned.
//	BorrowDate         – date the book was taken out.
//	ExpectedReturnDate – due date; rewritten when an extension is approved.
//	CurrentExpiryDate  – effective due date after approved extensions
//	                     (nullable; recomputed inside every approving tx).
//	ExtensionCount     – number of extensions granted so far.
//	AccessToken        – portal share token, generated on demand (nullable).
type BorrowingRecord struct {
	ID                 uint64     // borrowing_records.id
	Sequence           string     // borrowing_records.sequence
	MemberID           uint64     // borrowing_records.member_id
	BookID             uint64     // borrowing_records.book_id
	Status             string     // borrowing_records.status
	BorrowDate         time.Time  // borrowing_records.borrow_date
	ExpectedReturnDate time.Time  // borrowing_records.expected_return_date
	CurrentExpiryDate  *time.Time // borrowing_records.current_expiry_date (nullable)
	ExtensionCount     int        // borrowing_records.extension_count
	AccessToken        *string    // borrowing_records.access_token (nullable)
}
