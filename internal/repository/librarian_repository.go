package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/library-portal/internal/model"
)

// LibrarianRepo provides access to the librarians table.  The extension
// service composes its lookup and creation methods with a separate
// privilege check; this repository deliberately knows nothing about who
// is allowed to become a reviewer.
type LibrarianRepo struct {
	db *sql.DB
}

// NewLibrarianRepo returns a new LibrarianRepo bound to the given database.
func NewLibrarianRepo(db *sql.DB) *LibrarianRepo { return &LibrarianRepo{db: db} }

// GetByEmailTx fetches a librarian by email inside the caller's
// transaction.  sql.ErrNoRows means no reviewer record exists yet.
func (r *LibrarianRepo) GetByEmailTx(ctx context.Context, tx *sql.Tx, email string) (model.Librarian, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `SELECT id, name, employee_id, email, phone, department, position, created_at
	           FROM librarians WHERE email = ? LIMIT 1`
	var l model.Librarian
	err := tx.QueryRowContext(ctx, q, email).Scan(&l.ID, &l.Name, &l.EmployeeID, &l.Email,
		&l.Phone, &l.Department, &l.Position, &l.CreatedAt)
	return l, err
}

// CountTx returns the number of librarian rows, the starting point for
// generating the next employee identifier.
func (r *LibrarianRepo) CountTx(ctx context.Context, tx *sql.Tx) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM librarians").Scan(&n)
	return n, err
}

// EmployeeIDExistsTx reports whether the candidate employee id is taken.
func (r *LibrarianRepo) EmployeeIDExistsTx(ctx context.Context, tx *sql.Tx, employeeID string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM librarians WHERE employee_id = ?", employeeID).Scan(&n)
	return n > 0, err
}

// CreateTx inserts a librarian row inside the caller's transaction and
// populates the generated ID.
func (r *LibrarianRepo) CreateTx(ctx context.Context, tx *sql.Tx, l *model.Librarian) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO librarians (name, employee_id, email, phone, department, position)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		l.Name, l.EmployeeID, strings.ToLower(strings.TrimSpace(l.Email)), l.Phone, l.Department, l.Position)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}
