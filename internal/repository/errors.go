// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a record owned by someone else, while
// ErrConflict signals that an operation cannot proceed due to the
// current state of dependent records (e.g. reviewing a request that
// has already left the pending state).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// record they do not own. Member-facing handlers translate this into a
// 404 response so record existence is not leaked; staff-facing handlers
// use 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as approving a request that is no longer
// pending. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
