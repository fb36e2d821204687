package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/library-portal/internal/model"
)

// Reviewer resolution is split into three explicit steps: look up an
// existing librarian by email, authorize the actor to become one, and
// only then create a record.  The lifecycle composes them; nothing here
// is hidden behind a single find-or-create helper.

// canActAsReviewer is the authorization step: only staff roles may be
// materialized as reviewers.
func canActAsReviewer(actor Actor) bool {
	return actor.Role == model.RoleLibrarian || actor.Role == model.RoleAdmin
}

// positionFor derives the librarian position from the actor's privilege
// tier.
func positionFor(actor Actor) string {
	if actor.Role == model.RoleAdmin {
		return model.PositionHeadLibrarian
	}
	return model.PositionLibrarian
}

// resolveReviewerTx returns the librarian record for the acting user,
// creating one when the actor is staff and none exists yet.  A non-staff
// actor without an existing record yields ErrPermissionDenied.
func (s *ExtensionService) resolveReviewerTx(ctx context.Context, tx *sql.Tx, actor Actor) (model.Librarian, error) {
	if actor.Email != "" {
		l, err := s.librarians.GetByEmailTx(ctx, tx, actor.Email)
		if err == nil {
			return l, nil
		}
		if err != sql.ErrNoRows {
			return model.Librarian{}, err
		}
	}

	if !canActAsReviewer(actor) {
		return model.Librarian{}, ErrPermissionDenied
	}

	employeeID, err := s.nextEmployeeIDTx(ctx, tx)
	if err != nil {
		return model.Librarian{}, err
	}
	name := actor.Name
	if name == "" {
		name = "System User"
	}
	l := model.Librarian{
		Name:       name,
		EmployeeID: employeeID,
		Email:      actor.Email,
		Department: "administration",
		Position:   positionFor(actor),
	}
	if err := s.librarians.CreateTx(ctx, tx, &l); err != nil {
		return model.Librarian{}, err
	}
	return l, nil
}

// nextEmployeeIDTx generates the next free staff identifier, starting
// from the current row count and probing forward past collisions.
func (s *ExtensionService) nextEmployeeIDTx(ctx context.Context, tx *sql.Tx) (string, error) {
	count, err := s.librarians.CountTx(ctx, tx)
	if err != nil {
		return "", err
	}
	for n := count + 1; ; n++ {
		candidate := FormatEmployeeID(n)
		exists, err := s.librarians.EmployeeIDExistsTx(ctx, tx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

// FormatEmployeeID renders a librarian employee identifier, e.g. 7 ->
// "LIB007".  Values beyond three digits keep growing naturally.
func FormatEmployeeID(n int) string {
	return fmt.Sprintf("LIB%03d", n)
}
