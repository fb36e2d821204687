package model

import "time"

// Librarian positions stored in librarians.position.
const (
	PositionLibrarian     = "librarian"
	PositionHeadLibrarian = "head_librarian"
)

// Librarian mirrors the `librarians` table.  A librarian row is the
// reviewer identity attached to extension requests.  Rows are created
// lazily: the first time a staff user approves or rejects a request, a
// record keyed by their email is synthesized with a generated employee id.
//
// Fields:
//
//	ID         – primary key identifier.
//	Name       – display name.
//	EmployeeID – unique staff identifier (e.g. LIB007).
//	Email      – email used to match the acting user.
//	Phone      – contact phone (may be empty).
//	Department – organizational department.
//	Position   – librarian or head_librarian.
//	CreatedAt  – timestamp of creation.
type Librarian struct {
	ID         uint64    // librarians.id
	Name       string    // librarians.name
	EmployeeID string    // librarians.employee_id
	Email      string    // librarians.email
	Phone      string    // librarians.phone
	Department string    // librarians.department
	Position   string    // librarians.position
	CreatedAt  time.Time // librarians.created_at
}
