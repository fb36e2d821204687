package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/library-portal/internal/model"
)

// ExtensionRepo provides persistence for extension requests.  Creation and
// review run inside transactions owned by the service layer; the plain
// read methods serve the member and librarian listing pages.
type ExtensionRepo struct {
	db *sql.DB
}

// NewExtensionRepo returns a new ExtensionRepo bound to the given database.
func NewExtensionRepo(db *sql.DB) *ExtensionRepo { return &ExtensionRepo{db: db} }

// ExtensionDetail is an extension request joined with its borrowing
// record, book and reviewer for display.
type ExtensionDetail struct {
	ID                  uint64     `json:"id"`
	Name                string     `json:"name"`
	BorrowingRecordID   uint64     `json:"borrowing_record_id"`
	BorrowingSequence   string     `json:"borrowing_sequence"`
	MemberID            uint64     `json:"member_id"`
	MemberName          string     `json:"member_name"`
	BookTitle           string     `json:"book_title"`
	RequestDate         time.Time  `json:"request_date"`
	OriginalExpiryDate  time.Time  `json:"original_expiry_date"`
	RequestedExpiryDate time.Time  `json:"requested_expiry_date"`
	ExtensionDays       int        `json:"extension_days"`
	RequestReason       string     `json:"request_reason,omitempty"`
	Status              string     `json:"status"`
	ReviewerName        *string    `json:"reviewed_by,omitempty"`
	ReviewDate          *time.Time `json:"review_date,omitempty"`
	NewExpiryDate       *time.Time `json:"new_expiry_date,omitempty"`
	RejectionReason     string     `json:"rejection_reason,omitempty"`
}

var extensionSortOrders = map[string]string{
	"request_date": "er.request_date DESC",
	"status":       "er.status ASC, er.request_date DESC",
	"book_title":   "b.title ASC, er.request_date DESC",
}

const extensionDetailCols = `er.id, er.name, er.borrowing_record_id, br.sequence, br.member_id, m.name, b.title,
	       er.request_date, er.original_expiry_date, er.requested_expiry_date, er.request_reason,
	       er.status, l.name, er.review_date, er.new_expiry_date, er.rejection_reason`

const extensionDetailFrom = ` FROM extension_requests er
	      JOIN borrowing_records br ON br.id = er.borrowing_record_id
	      JOIN members m ON m.id = br.member_id
	      JOIN books b ON b.id = br.book_id
	      LEFT JOIN librarians l ON l.id = er.reviewed_by`

func scanExtensionDetail(row interface{ Scan(...interface{}) error }) (ExtensionDetail, error) {
	var (
		d          ExtensionDetail
		reason     sql.NullString
		reviewer   sql.NullString
		reviewDate sql.NullTime
		newExpiry  sql.NullTime
		rejection  sql.NullString
	)
	err := row.Scan(&d.ID, &d.Name, &d.BorrowingRecordID, &d.BorrowingSequence, &d.MemberID, &d.MemberName,
		&d.BookTitle, &d.RequestDate, &d.OriginalExpiryDate, &d.RequestedExpiryDate, &reason,
		&d.Status, &reviewer, &reviewDate, &newExpiry, &rejection)
	if err != nil {
		return ExtensionDetail{}, err
	}
	d.RequestReason = reason.String
	d.RejectionReason = rejection.String
	if reviewer.Valid {
		s := reviewer.String
		d.ReviewerName = &s
	}
	if reviewDate.Valid {
		t := reviewDate.Time
		d.ReviewDate = &t
	}
	if newExpiry.Valid {
		t := newExpiry.Time
		d.NewExpiryDate = &t
	}
	d.ExtensionDays = model.DaysBetween(d.OriginalExpiryDate, d.RequestedExpiryDate)
	return d, nil
}

// CreateTx inserts a new pending request within the caller's transaction
// and populates the generated ID.  The caller is responsible for the
// duplicate-pending guard (counting under the borrowing-record row lock)
// before the insert.
func (r *ExtensionRepo) CreateTx(ctx context.Context, tx *sql.Tx, req *model.ExtensionRequest) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO extension_requests
		   (name, borrowing_record_id, request_date, original_expiry_date, requested_expiry_date, request_reason, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.Name, req.BorrowingRecordID, req.RequestDate, req.OriginalExpiryDate,
		req.RequestedExpiryDate, req.RequestReason, req.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	req.ID = uint64(id)
	return nil
}

// CountPendingForRecordTx counts pending requests for a borrowing record
// inside the caller's transaction.  Combined with the FOR UPDATE lock on
// the borrowing record row this enforces the at-most-one-pending
// invariant at write time.
func (r *ExtensionRepo) CountPendingForRecordTx(ctx context.Context, tx *sql.Tx, borrowingID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM extension_requests WHERE borrowing_record_id = ? AND status = 'pending'",
		borrowingID).Scan(&n)
	return n, err
}

// HasPendingForRecord reports whether a pending request exists for the
// borrowing record, for eligibility snapshots on the read path.
func (r *ExtensionRepo) HasPendingForRecord(ctx context.Context, borrowingID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM extension_requests WHERE borrowing_record_id = ? AND status = 'pending'",
		borrowingID).Scan(&n)
	return n > 0, err
}

// PendingForRecord returns the pending request for a borrowing record, or
// sql.ErrNoRows when there is none.
func (r *ExtensionRepo) PendingForRecord(ctx context.Context, borrowingID uint64) (ExtensionDetail, error) {
	q := "SELECT " + extensionDetailCols + extensionDetailFrom +
		" WHERE er.borrowing_record_id = ? AND er.status = 'pending' LIMIT 1"
	return scanExtensionDetail(r.db.QueryRowContext(ctx, q, borrowingID))
}

// GetTx loads a request inside a transaction.  The review path re-reads
// the row after taking the borrowing-record lock so its status check sees
// committed state.
func (r *ExtensionRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (model.ExtensionRequest, error) {
	const q = `SELECT id, name, borrowing_record_id, request_date, original_expiry_date,
	                  requested_expiry_date, COALESCE(request_reason, ''), status,
	                  reviewed_by, review_date, new_expiry_date, COALESCE(rejection_reason, '')
	           FROM extension_requests WHERE id = ?`
	var (
		req        model.ExtensionRequest
		reviewedBy sql.NullInt64
		reviewDate sql.NullTime
		newExpiry  sql.NullTime
	)
	err := tx.QueryRowContext(ctx, q, id).Scan(&req.ID, &req.Name, &req.BorrowingRecordID,
		&req.RequestDate, &req.OriginalExpiryDate, &req.RequestedExpiryDate, &req.RequestReason,
		&req.Status, &reviewedBy, &reviewDate, &newExpiry, &req.RejectionReason)
	if err != nil {
		return model.ExtensionRequest{}, err
	}
	if reviewedBy.Valid {
		v := uint64(reviewedBy.Int64)
		req.ReviewedBy = &v
	}
	if reviewDate.Valid {
		t := reviewDate.Time
		req.ReviewDate = &t
	}
	if newExpiry.Valid {
		t := newExpiry.Time
		req.NewExpiryDate = &t
	}
	return req, nil
}

// BorrowingIDOf returns the owning borrowing record id for a request.
// Used by the review path to know which row to lock before re-reading.
func (r *ExtensionRepo) BorrowingIDOf(ctx context.Context, id uint64) (uint64, error) {
	var bid uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT borrowing_record_id FROM extension_requests WHERE id = ?", id).Scan(&bid)
	return bid, err
}

// ApproveTx transitions a pending request to approved.  The WHERE clause
// keys on the pending status so exactly one of two racing reviewers wins;
// the loser sees ErrConflict because no row matched.
func (r *ExtensionRepo) ApproveTx(ctx context.Context, tx *sql.Tx, id, reviewerID uint64, reviewDate, newExpiry time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE extension_requests
		 SET status = 'approved', reviewed_by = ?, review_date = ?, new_expiry_date = ?
		 WHERE id = ? AND status = 'pending'`,
		reviewerID, reviewDate, newExpiry, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// RejectTx transitions a pending request to rejected with the mandatory
// reason, under the same single-winner guard as ApproveTx.
func (r *ExtensionRepo) RejectTx(ctx context.Context, tx *sql.Tx, id, reviewerID uint64, reviewDate time.Time, reason string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE extension_requests
		 SET status = 'rejected', reviewed_by = ?, review_date = ?, rejection_reason = ?
		 WHERE id = ? AND status = 'pending'`,
		reviewerID, reviewDate, reason, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ApprovedForRecordTx returns the approved requests for a borrowing
// record inside the caller's transaction, newest review first.  The
// expiry projection is computed from this set.
func (r *ExtensionRepo) ApprovedForRecordTx(ctx context.Context, tx *sql.Tx, borrowingID uint64) ([]model.ExtensionRequest, error) {
	const q = `SELECT id, new_expiry_date, review_date
	           FROM extension_requests
	           WHERE borrowing_record_id = ? AND status = 'approved'
	           ORDER BY review_date DESC`
	rows, err := tx.QueryContext(ctx, q, borrowingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reqs := make([]model.ExtensionRequest, 0)
	for rows.Next() {
		var (
			req       model.ExtensionRequest
			newExpiry sql.NullTime
			reviewed  sql.NullTime
		)
		if err := rows.Scan(&req.ID, &newExpiry, &reviewed); err != nil {
			return nil, err
		}
		req.Status = model.RequestApproved
		if newExpiry.Valid {
			t := newExpiry.Time
			req.NewExpiryDate = &t
		}
		if reviewed.Valid {
			t := reviewed.Time
			req.ReviewDate = &t
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// GetDetailForMember returns a single request with display joins,
// restricted to the owning member.  Missing and foreign rows are both
// sql.ErrNoRows.
func (r *ExtensionRepo) GetDetailForMember(ctx context.Context, id, memberID uint64) (ExtensionDetail, error) {
	q := "SELECT " + extensionDetailCols + extensionDetailFrom +
		" WHERE er.id = ? AND br.member_id = ?"
	return scanExtensionDetail(r.db.QueryRowContext(ctx, q, id, memberID))
}

// GetDetail returns a single request with display joins for staff views.
func (r *ExtensionRepo) GetDetail(ctx context.Context, id uint64) (ExtensionDetail, error) {
	q := "SELECT " + extensionDetailCols + extensionDetailFrom + " WHERE er.id = ?"
	return scanExtensionDetail(r.db.QueryRowContext(ctx, q, id))
}

// ListByMember returns a page of the member's requests filtered by status
// and ordered by the given sort key.
func (r *ExtensionRepo) ListByMember(ctx context.Context, memberID uint64, filter, sortKey string, limit, offset int) ([]ExtensionDetail, error) {
	order, ok := extensionSortOrders[sortKey]
	if !ok {
		order = extensionSortOrders["request_date"]
	}
	q := "SELECT " + extensionDetailCols + extensionDetailFrom + " WHERE br.member_id = ?"
	args := []interface{}{memberID}
	if clause, ok := extensionFilterClause(filter); ok {
		q += clause
	}
	q += " ORDER BY " + order + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	return r.queryDetails(ctx, q, args...)
}

// CountByMember counts the member's requests under the given filter.
func (r *ExtensionRepo) CountByMember(ctx context.Context, memberID uint64, filter string) (int, error) {
	q := `SELECT COUNT(*) FROM extension_requests er
	      JOIN borrowing_records br ON br.id = er.borrowing_record_id
	      WHERE br.member_id = ?`
	if clause, ok := extensionFilterClause(filter); ok {
		q += clause
	}
	var n int
	err := r.db.QueryRowContext(ctx, q, memberID).Scan(&n)
	return n, err
}

// ListForRecord returns every request for a borrowing record, newest
// first.  Used for the record's printable history.
func (r *ExtensionRepo) ListForRecord(ctx context.Context, borrowingID uint64) ([]ExtensionDetail, error) {
	q := "SELECT " + extensionDetailCols + extensionDetailFrom +
		" WHERE er.borrowing_record_id = ? ORDER BY er.request_date DESC"
	return r.queryDetails(ctx, q, borrowingID)
}

// ListByStatus returns a page of requests in the given status across all
// members, oldest first, for the librarian review queue.
func (r *ExtensionRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]ExtensionDetail, error) {
	q := "SELECT " + extensionDetailCols + extensionDetailFrom +
		" WHERE er.status = ? ORDER BY er.request_date ASC LIMIT ? OFFSET ?"
	return r.queryDetails(ctx, q, status, limit, offset)
}

// CountByStatus counts requests in the given status across all members.
func (r *ExtensionRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM extension_requests WHERE status = ?", status).Scan(&n)
	return n, err
}

func extensionFilterClause(filter string) (string, bool) {
	switch filter {
	case "", "all":
		return "", true
	case model.RequestPending, model.RequestApproved, model.RequestRejected:
		return " AND er.status = '" + filter + "'", true
	}
	return "", false
}

func (r *ExtensionRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]ExtensionDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ExtensionDetail, 0)
	for rows.Next() {
		d, err := scanExtensionDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
