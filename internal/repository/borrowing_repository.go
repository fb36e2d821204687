package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/library-portal/internal/model"
)

// BorrowingRepo provides read access to borrowing records plus the narrow
// write surface the extension workflow needs: rewriting the due date and
// derived fields inside an approving transaction.  Everything else about
// a borrowing record belongs to the borrowing subsystem.
type BorrowingRepo struct {
	db *sql.DB
}

// NewBorrowingRepo returns a new BorrowingRepo bound to the given database.
func NewBorrowingRepo(db *sql.DB) *BorrowingRepo { return &BorrowingRepo{db: db} }

// DB exposes the underlying handle so handlers and services can open
// transactions spanning multiple repositories.
func (r *BorrowingRepo) DB() *sql.DB { return r.db }

// BorrowingDetail is a borrowing record joined with its book, as rendered
// on the member's borrowed-books pages.
type BorrowingDetail struct {
	ID                 uint64     `json:"id"`
	Sequence           string     `json:"sequence"`
	MemberID           uint64     `json:"member_id"`
	BookID             uint64     `json:"book_id"`
	BookTitle          string     `json:"book_title"`
	BookAuthor         string     `json:"book_author"`
	Status             string     `json:"status"`
	BorrowDate         time.Time  `json:"borrow_date"`
	ExpectedReturnDate time.Time  `json:"expected_return_date"`
	CurrentExpiryDate  *time.Time `json:"current_expiry_date"`
	ExtensionCount     int        `json:"extension_count"`
}

// Sort keys accepted by ListByMember.  Unknown keys fall back to the
// record sequence so the ORDER BY clause is always built from this map,
// never from caller input.
var borrowingSortOrders = map[string]string{
	"sequence":             "br.sequence DESC",
	"borrow_date":          "br.borrow_date DESC",
	"expected_return_date": "br.expected_return_date ASC",
	"book_title":           "b.title ASC",
}

func borrowingFilterClause(filter string) (string, bool) {
	switch filter {
	case "", "all":
		return "", true
	case model.BorrowingBorrowed, model.BorrowingOverdue, model.BorrowingReturned:
		return " AND br.status = '" + filter + "'", true
	}
	return "", false
}

const borrowingDetailCols = `br.id, br.sequence, br.member_id, br.book_id, b.title, b.author,
	       br.status, br.borrow_date, br.expected_return_date, br.current_expiry_date, br.extension_count`

func scanBorrowingDetail(row interface{ Scan(...interface{}) error }) (BorrowingDetail, error) {
	var (
		d      BorrowingDetail
		expiry sql.NullTime
	)
	err := row.Scan(&d.ID, &d.Sequence, &d.MemberID, &d.BookID, &d.BookTitle, &d.BookAuthor,
		&d.Status, &d.BorrowDate, &d.ExpectedReturnDate, &expiry, &d.ExtensionCount)
	if err != nil {
		return BorrowingDetail{}, err
	}
	if expiry.Valid {
		t := expiry.Time
		d.CurrentExpiryDate = &t
	}
	return d, nil
}

// GetByIDForMember returns a single borrowing record with book details,
// restricted to the owning member.  sql.ErrNoRows is returned both when
// the record does not exist and when it belongs to another member, so
// callers cannot distinguish the two cases.
func (r *BorrowingRepo) GetByIDForMember(ctx context.Context, id, memberID uint64) (BorrowingDetail, error) {
	q := `SELECT ` + borrowingDetailCols + `
	      FROM borrowing_records br
	      JOIN books b ON b.id = br.book_id
	      WHERE br.id = ? AND br.member_id = ?`
	return scanBorrowingDetail(r.db.QueryRowContext(ctx, q, id, memberID))
}

// ListByMember returns a page of the member's borrowing records with the
// given status filter, title search and sort key.
func (r *BorrowingRepo) ListByMember(ctx context.Context, memberID uint64, filter, search, sortKey string, limit, offset int) ([]BorrowingDetail, error) {
	order, ok := borrowingSortOrders[sortKey]
	if !ok {
		order = borrowingSortOrders["sequence"]
	}
	q := `SELECT ` + borrowingDetailCols + `
	      FROM borrowing_records br
	      JOIN books b ON b.id = br.book_id
	      WHERE br.member_id = ?`
	args := []interface{}{memberID}
	if clause, ok := borrowingFilterClause(filter); ok {
		q += clause
	}
	if s := strings.TrimSpace(search); s != "" {
		q += " AND b.title LIKE ?"
		args = append(args, "%"+s+"%")
	}
	q += " ORDER BY " + order + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BorrowingDetail, 0)
	for rows.Next() {
		d, err := scanBorrowingDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// CountByMember counts the member's borrowing records under the same
// filter and search as ListByMember, for pagination.
func (r *BorrowingRepo) CountByMember(ctx context.Context, memberID uint64, filter, search string) (int, error) {
	q := `SELECT COUNT(*)
	      FROM borrowing_records br
	      JOIN books b ON b.id = br.book_id
	      WHERE br.member_id = ?`
	args := []interface{}{memberID}
	if clause, ok := borrowingFilterClause(filter); ok {
		q += clause
	}
	if s := strings.TrimSpace(search); s != "" {
		q += " AND b.title LIKE ?"
		args = append(args, "%"+s+"%")
	}
	var n int
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

// NeighborIDs returns the previous and next record ids for the member's
// detail-page navigation, following the sequence ordering.  Zero means no
// neighbor on that side.
func (r *BorrowingRepo) NeighborIDs(ctx context.Context, memberID, id uint64) (prev, next uint64, err error) {
	const prevQ = `SELECT br.id FROM borrowing_records br
	               WHERE br.member_id = ? AND br.sequence > (SELECT sequence FROM borrowing_records WHERE id = ?)
	               ORDER BY br.sequence ASC LIMIT 1`
	const nextQ = `SELECT br.id FROM borrowing_records br
	               WHERE br.member_id = ? AND br.sequence < (SELECT sequence FROM borrowing_records WHERE id = ?)
	               ORDER BY br.sequence DESC LIMIT 1`
	if err = r.db.QueryRowContext(ctx, prevQ, memberID, id).Scan(&prev); err != nil {
		if err != sql.ErrNoRows {
			return 0, 0, err
		}
		prev = 0
	}
	if err = r.db.QueryRowContext(ctx, nextQ, memberID, id).Scan(&next); err != nil {
		if err != sql.ErrNoRows {
			return 0, 0, err
		}
		next = 0
	}
	return prev, next, nil
}

// GetByToken returns the borrowing record carrying the given share token.
// sql.ErrNoRows when no record matches.
func (r *BorrowingRepo) GetByToken(ctx context.Context, token string) (BorrowingDetail, error) {
	q := `SELECT ` + borrowingDetailCols + `
	      FROM borrowing_records br
	      JOIN books b ON b.id = br.book_id
	      WHERE br.access_token = ?`
	return scanBorrowingDetail(r.db.QueryRowContext(ctx, q, token))
}

// GetForUpdateTx loads a borrowing record inside a transaction with a row
// lock.  The lock serializes concurrent extension submissions and reviews
// touching the same record, which is what keeps the single-pending-request
// invariant safe under racing requests.
func (r *BorrowingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.BorrowingRecord, error) {
	const q = `SELECT id, sequence, member_id, book_id, status, borrow_date,
	                  expected_return_date, current_expiry_date, extension_count, access_token
	           FROM borrowing_records WHERE id = ? FOR UPDATE`
	var (
		rec    model.BorrowingRecord
		expiry sql.NullTime
		token  sql.NullString
	)
	err := tx.QueryRowContext(ctx, q, id).Scan(&rec.ID, &rec.Sequence, &rec.MemberID, &rec.BookID,
		&rec.Status, &rec.BorrowDate, &rec.ExpectedReturnDate, &expiry, &rec.ExtensionCount, &token)
	if err != nil {
		return model.BorrowingRecord{}, err
	}
	if expiry.Valid {
		t := expiry.Time
		rec.CurrentExpiryDate = &t
	}
	if token.Valid {
		s := token.String
		rec.AccessToken = &s
	}
	return rec, nil
}

// ApplyApprovalTx rewrites the due date and bumps the extension counter
// after an extension is approved.  The projected current_expiry_date is
// written separately via SetCurrentExpiryTx in the same transaction, so
// the record never shows a half-applied extension.
func (r *BorrowingRepo) ApplyApprovalTx(ctx context.Context, tx *sql.Tx, id uint64, newDate time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE borrowing_records
		 SET expected_return_date = ?, extension_count = extension_count + 1
		 WHERE id = ?`,
		newDate, id)
	return err
}

// SetCurrentExpiryTx persists a freshly projected current expiry date.
func (r *BorrowingRepo) SetCurrentExpiryTx(ctx context.Context, tx *sql.Tx, id uint64, date time.Time) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE borrowing_records SET current_expiry_date = ? WHERE id = ?", date, id)
	return err
}

// EnsureAccessToken returns the record's portal share token, generating
// and storing one when the column is still null.
func (r *BorrowingRepo) EnsureAccessToken(ctx context.Context, id uint64) (string, error) {
	var token sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT access_token FROM borrowing_records WHERE id = ?", id).Scan(&token)
	if err != nil {
		return "", err
	}
	if token.Valid && token.String != "" {
		return token.String, nil
	}
	fresh := uuid.NewString()
	if _, err := r.db.ExecContext(ctx,
		"UPDATE borrowing_records SET access_token = ? WHERE id = ? AND access_token IS NULL",
		fresh, id); err != nil {
		return "", err
	}
	// Re-read in case a concurrent request won the update.
	if err := r.db.QueryRowContext(ctx,
		"SELECT access_token FROM borrowing_records WHERE id = ?", id).Scan(&token); err != nil {
		return "", err
	}
	return token.String, nil
}
