package model

import "time"

// Book mirrors the `books` table of the catalog subsystem.  The portal
// only reads books for display and search; catalog maintenance happens
// elsewhere.
//
// Fields:
//
//	ID        – primary key identifier.
//	Title     – book title.
//	Author    – author name.
//	ISBN      – international standard book number (may be empty).
//	CreatedAt – timestamp of creation.
type Book struct {
	ID        uint64    // books.id
	Title     string    // books.title
	Author    string    // books.author
	ISBN      string    // books.isbn
	CreatedAt time.Time // books.created_at
}
