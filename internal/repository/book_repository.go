package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/library-portal/internal/model"
)

// BookRepo provides read access to the books table.  The portal never
// mutates the catalog; titles are surfaced on borrowing records, request
// listings and the public browse endpoints.
type BookRepo struct {
	db *sql.DB
}

// NewBookRepo returns a new BookRepo bound to the given database.
func NewBookRepo(db *sql.DB) *BookRepo { return &BookRepo{db: db} }

// GetByID fetches a single book.
func (r *BookRepo) GetByID(ctx context.Context, id uint64) (model.Book, error) {
	var b model.Book
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, author, isbn, created_at FROM books WHERE id = ?",
		id).Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.CreatedAt)
	return b, err
}

// Search returns books whose title or author matches the query term,
// ordered by title.  An empty term lists the whole catalog page by page.
func (r *BookRepo) Search(ctx context.Context, term string, limit, offset int) ([]model.Book, error) {
	q := "SELECT id, title, author, isbn, created_at FROM books"
	args := []interface{}{}
	if t := strings.TrimSpace(term); t != "" {
		q += " WHERE title LIKE ? OR author LIKE ?"
		like := "%" + t + "%"
		args = append(args, like, like)
	}
	q += " ORDER BY title ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	books := make([]model.Book, 0)
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.CreatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Count returns the number of books matching the query term.
func (r *BookRepo) Count(ctx context.Context, term string) (int, error) {
	q := "SELECT COUNT(*) FROM books"
	args := []interface{}{}
	if t := strings.TrimSpace(term); t != "" {
		q += " WHERE title LIKE ? OR author LIKE ?"
		like := "%" + t + "%"
		args = append(args, like, like)
	}
	var n int
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}
