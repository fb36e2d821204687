package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// SequenceRepo hands out monotonic reference names from the sequences
// table (one row per sequence key).  NextTx bumps the counter inside the
// caller's transaction, so a rolled-back create releases its value.
// Names are unique and increasing; gaps are allowed.
type SequenceRepo struct {
	db *sql.DB
}

// NewSequenceRepo returns a new SequenceRepo bound to the given database.
func NewSequenceRepo(db *sql.DB) *SequenceRepo { return &SequenceRepo{db: db} }

// ExtensionRequestSeq is the sequence key for extension request names.
const ExtensionRequestSeq = "extension_request"

// NextTx reserves the next value for the given sequence key inside the
// caller's transaction and returns the formatted reference name.  The
// UPDATE takes a row lock, so concurrent transactions serialize here and
// each observes a distinct value.  The row is seeded on first use.
func (r *SequenceRepo) NextTx(ctx context.Context, tx *sql.Tx, key, prefix string) (string, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE sequences SET next_value = next_value + 1 WHERE seq_key = ?", key)
	if err != nil {
		return "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if n == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sequences (seq_key, next_value) VALUES (?, 1)", key); err != nil {
			return "", err
		}
	}
	var value uint64
	if err := tx.QueryRowContext(ctx,
		"SELECT next_value FROM sequences WHERE seq_key = ?", key).Scan(&value); err != nil {
		return "", err
	}
	return FormatSequenceName(prefix, value), nil
}

// FormatSequenceName renders a sequence value as a reference name, e.g.
// ("EXT", 42) -> "EXT00042".
func FormatSequenceName(prefix string, value uint64) string {
	return fmt.Sprintf("%s%05d", prefix, value)
}
