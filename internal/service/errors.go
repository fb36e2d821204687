// Package service holds the extension request lifecycle: the eligibility
// rules, the expiry projection and the transactional create/approve/reject
// operations.  Handlers translate the sentinel errors declared here into
// HTTP responses; none of them should ever crash the process.
package service

import "errors"

// ErrNotEligible is returned when a create is attempted for a borrowing
// record that fails the eligibility rules (not borrowed, overdue, outside
// the request window or over the extension limit).
var ErrNotEligible = errors.New("borrowing record is not eligible for extension")

// ErrInvalidDateRange is returned when the requested expiry date is not
// strictly after the record's current expiry date.
var ErrInvalidDateRange = errors.New("requested expiry date must be after current expiry date")

// ErrExtensionTooLong is returned when the requested extension exceeds
// the configured maximum number of days.
var ErrExtensionTooLong = errors.New("requested extension exceeds maximum days")

// ErrDuplicatePending is returned when another request for the same
// borrowing record is still pending.
var ErrDuplicatePending = errors.New("a pending extension request already exists for this borrowing record")

// ErrInvalidStateTransition is returned when approve or reject is
// attempted on a request that already left the pending state.
var ErrInvalidStateTransition = errors.New("only pending requests can be reviewed")

// ErrMissingReason is returned when a rejection arrives without a reason.
var ErrMissingReason = errors.New("rejection reason is required")

// ErrPermissionDenied is returned when the acting user cannot be resolved
// to a reviewer because they lack staff privileges.
var ErrPermissionDenied = errors.New("insufficient privilege to review extension requests")
