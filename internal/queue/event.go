// Package queue defines message payloads exchanged over the message broker.
package queue

// ExtensionEvent is published whenever an extension request is submitted,
// approved or rejected.  It carries enough information for downstream
// consumers (the mailer, analytics) to act without querying the primary
// database.  Event is one of the service event names
// (request_submitted, request_approved, request_rejected).
type ExtensionEvent struct {
	Event             string `json:"event"`
	RequestID         uint64 `json:"request_id"`
	RequestName       string `json:"request_name"`
	BorrowingRecordID uint64 `json:"borrowing_record_id"`
	BorrowingSequence string `json:"borrowing_sequence"`
	MemberID          uint64 `json:"member_id"`
	MemberName        string `json:"member_name"`
	BookTitle         string `json:"book_title"`
	RequestedExpiry   string `json:"requested_expiry"`
	Status            string `json:"status"`
	RejectionReason   string `json:"rejection_reason,omitempty"`
	OccurredAt        string `json:"occurred_at"`
}
