package service

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/library-portal/internal/model"
	"github.com/iliyamo/library-portal/internal/repository"
)

// Notification event names fired by the lifecycle.  Dispatch is
// best-effort: a failed publish is logged and never undoes the committed
// state transition.
const (
	EventRequestSubmitted = "request_submitted"
	EventRequestApproved  = "request_approved"
	EventRequestRejected  = "request_rejected"
)

// Notifier dispatches a named notification event for a request.  The
// queue-backed implementation lives in internal/queue; tests may plug in
// anything.  Implementations must not panic into the lifecycle.
type Notifier interface {
	Send(ctx context.Context, event string, requestID uint64)
}

// Actor identifies the authenticated user performing a lifecycle
// operation, as extracted from the access token.
type Actor struct {
	UserID uint64
	Name   string
	Email  string
	Role   string
}

// ExtensionService owns the extension request state machine.  Each public
// operation runs as a single transaction against the record store: either
// the request row, the borrowing-record row and the derived fields all
// commit together, or nothing does.
type ExtensionService struct {
	db         *sql.DB
	borrowings *repository.BorrowingRepo
	extensions *repository.ExtensionRepo
	librarians *repository.LibrarianRepo
	sequences  *repository.SequenceRepo
	rules      *RulesProvider
	notifier   Notifier
}

// NewExtensionService constructs the lifecycle service.  All storage
// dependencies must be non-nil; notifier may be nil to disable dispatch.
func NewExtensionService(db *sql.DB, borrowings *repository.BorrowingRepo, extensions *repository.ExtensionRepo,
	librarians *repository.LibrarianRepo, sequences *repository.SequenceRepo, rules *RulesProvider, notifier Notifier) *ExtensionService {
	if db == nil || borrowings == nil || extensions == nil || librarians == nil || sequences == nil || rules == nil {
		panic("nil dependency passed to NewExtensionService")
	}
	return &ExtensionService{
		db:         db,
		borrowings: borrowings,
		extensions: extensions,
		librarians: librarians,
		sequences:  sequences,
		rules:      rules,
		notifier:   notifier,
	}
}

// Rules exposes the resolved business-rule values, for the eligibility
// endpoint and the admin settings surface.
func (s *ExtensionService) Rules(ctx context.Context) (PortalRules, error) {
	return s.rules.Load(ctx)
}

// effectiveExpiry returns the record's current expiry date, falling back
// to the expected return date for records that predate the portal and
// have never had the projection persisted.
func effectiveExpiry(rec model.BorrowingRecord) time.Time {
	if rec.CurrentExpiryDate != nil {
		return *rec.CurrentExpiryDate
	}
	return rec.ExpectedReturnDate
}

// Create submits a new extension request for a borrowing record on
// behalf of memberID.  It returns sql.ErrNoRows when the record does not
// exist, repository.ErrForbidden when it belongs to another member, and
// the validation sentinels from errors.go otherwise.  On success the
// pending request is returned and a request_submitted notification is
// dispatched.
func (s *ExtensionService) Create(ctx context.Context, memberID, borrowingID uint64, requestedDate time.Time, reason string) (model.ExtensionRequest, error) {
	rules, err := s.rules.Load(ctx)
	if err != nil {
		return model.ExtensionRequest{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ExtensionRequest{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// The row lock serializes concurrent submissions for the same record;
	// the pending count below therefore sees every committed and in-flight
	// request, closing the two-browser-tabs race.
	rec, err := s.borrowings.GetForUpdateTx(ctx, tx, borrowingID)
	if err != nil {
		return model.ExtensionRequest{}, err
	}
	if rec.MemberID != memberID {
		return model.ExtensionRequest{}, repository.ErrForbidden
	}

	pending, err := s.extensions.CountPendingForRecordTx(ctx, tx, borrowingID)
	if err != nil {
		return model.ExtensionRequest{}, err
	}
	if pending > 0 {
		return model.ExtensionRequest{}, ErrDuplicatePending
	}

	snapshot := BorrowingSnapshot{
		Status:            rec.Status,
		CurrentExpiryDate: rec.CurrentExpiryDate,
		ExtensionCount:    rec.ExtensionCount,
		HasPendingRequest: false,
	}
	if snapshot.CurrentExpiryDate == nil {
		d := rec.ExpectedReturnDate
		snapshot.CurrentExpiryDate = &d
	}
	if !CanRequestExtension(snapshot, rules, time.Now().UTC()) {
		return model.ExtensionRequest{}, ErrNotEligible
	}

	original := effectiveExpiry(rec)
	if err := ValidateRequestDates(original, requestedDate, rules); err != nil {
		return model.ExtensionRequest{}, err
	}

	name, err := s.sequences.NextTx(ctx, tx, repository.ExtensionRequestSeq, "EXT")
	if err != nil {
		return model.ExtensionRequest{}, err
	}

	req := model.ExtensionRequest{
		Name:                name,
		BorrowingRecordID:   borrowingID,
		RequestDate:         time.Now().UTC(),
		OriginalExpiryDate:  original,
		RequestedExpiryDate: requestedDate,
		RequestReason:       strings.TrimSpace(reason),
		Status:              model.RequestPending,
	}
	if err := s.extensions.CreateTx(ctx, tx, &req); err != nil {
		return model.ExtensionRequest{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.ExtensionRequest{}, err
	}
	committed = true

	s.dispatch(ctx, EventRequestSubmitted, req.ID)
	return req, nil
}

// Approve transitions a pending request to approved on behalf of actor:
// the borrowing record's due date becomes the requested date, the
// extension counter is incremented, the current expiry projection is
// recomputed and persisted, and the reviewer identity is attached.  All
// of it commits atomically.  Concurrent reviews of the same request have
// exactly one winner; the loser observes ErrInvalidStateTransition.
func (s *ExtensionService) Approve(ctx context.Context, requestID uint64, actor Actor) (model.ExtensionRequest, error) {
	return s.review(ctx, requestID, actor, "", true)
}

// Reject transitions a pending request to rejected with a mandatory
// reason.  The borrowing record itself is untouched.
func (s *ExtensionService) Reject(ctx context.Context, requestID uint64, actor Actor, reason string) (model.ExtensionRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return model.ExtensionRequest{}, ErrMissingReason
	}
	return s.review(ctx, requestID, actor, strings.TrimSpace(reason), false)
}

func (s *ExtensionService) review(ctx context.Context, requestID uint64, actor Actor, reason string, approve bool) (model.ExtensionRequest, error) {
	borrowingID, err := s.extensions.BorrowingIDOf(ctx, requestID)
	if err != nil {
		return model.ExtensionRequest{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ExtensionRequest{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the parent record first: reviews and submissions for the same
	// borrowing record serialize on this row.
	rec, err := s.borrowings.GetForUpdateTx(ctx, tx, borrowingID)
	if err != nil {
		return model.ExtensionRequest{}, err
	}
	req, err := s.extensions.GetTx(ctx, tx, requestID)
	if err != nil {
		return model.ExtensionRequest{}, err
	}
	if req.Status != model.RequestPending {
		return model.ExtensionRequest{}, ErrInvalidStateTransition
	}

	reviewer, err := s.resolveReviewerTx(ctx, tx, actor)
	if err != nil {
		return model.ExtensionRequest{}, err
	}

	now := time.Now().UTC()
	if approve {
		if err := s.extensions.ApproveTx(ctx, tx, requestID, reviewer.ID, now, req.RequestedExpiryDate); err != nil {
			if err == repository.ErrConflict {
				return model.ExtensionRequest{}, ErrInvalidStateTransition
			}
			return model.ExtensionRequest{}, err
		}
		if err := s.borrowings.ApplyApprovalTx(ctx, tx, borrowingID, req.RequestedExpiryDate); err != nil {
			return model.ExtensionRequest{}, err
		}
		// Recompute the effective due date from the full approval history
		// and persist it in the same transaction.
		approved, err := s.extensions.ApprovedForRecordTx(ctx, tx, borrowingID)
		if err != nil {
			return model.ExtensionRequest{}, err
		}
		projected := ProjectCurrentExpiry(req.RequestedExpiryDate, approved)
		if err := s.borrowings.SetCurrentExpiryTx(ctx, tx, borrowingID, projected); err != nil {
			return model.ExtensionRequest{}, err
		}
		req.Status = model.RequestApproved
		d := req.RequestedExpiryDate
		req.NewExpiryDate = &d
	} else {
		if err := s.extensions.RejectTx(ctx, tx, requestID, reviewer.ID, now, reason); err != nil {
			if err == repository.ErrConflict {
				return model.ExtensionRequest{}, ErrInvalidStateTransition
			}
			return model.ExtensionRequest{}, err
		}
		req.Status = model.RequestRejected
		req.RejectionReason = reason
	}
	req.ReviewedBy = &reviewer.ID
	req.ReviewDate = &now
	_ = rec // locked for serialization only

	if err := tx.Commit(); err != nil {
		return model.ExtensionRequest{}, err
	}
	committed = true

	if approve {
		s.dispatch(ctx, EventRequestApproved, req.ID)
	} else {
		s.dispatch(ctx, EventRequestRejected, req.ID)
	}
	return req, nil
}

func (s *ExtensionService) dispatch(ctx context.Context, event string, requestID uint64) {
	if s.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("notify: dispatch of %s for request %d panicked: %v", event, requestID, r)
		}
	}()
	s.notifier.Send(ctx, event, requestID)
}
