package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/library-portal/internal/model"
)

// MemberRepo provides access to the members table.  Members are the
// library-side identity; a portal user account maps onto a member either
// through the stored user_id link or, failing that, by email match.
type MemberRepo struct {
	db *sql.DB
}

// NewMemberRepo returns a new MemberRepo bound to the given database.
func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

const memberCols = "id, name, email, phone, user_id, is_portal_user, member_status, join_date, last_portal_login"

func scanMember(row interface{ Scan(...interface{}) error }) (model.Member, error) {
	var (
		m         model.Member
		userID    sql.NullInt64
		lastLogin sql.NullTime
	)
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &userID, &m.IsPortalUser, &m.MemberStatus, &m.JoinDate, &lastLogin)
	if err != nil {
		return model.Member{}, err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		m.UserID = &uid
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		m.LastPortalLogin = &t
	}
	return m, nil
}

// Create inserts a member row and returns its ID.  userID may be zero for
// members without a portal account.
func (r *MemberRepo) Create(ctx context.Context, name, email, phone string, userID uint64) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var uid interface{}
	if userID != 0 {
		uid = userID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO members (name, email, phone, user_id, is_portal_user, member_status, join_date)
		 VALUES (?, ?, ?, ?, ?, ?, CURDATE())`,
		name, email, phone, uid, userID != 0, model.MemberActive)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a member by primary key.
func (r *MemberRepo) GetByID(ctx context.Context, id uint64) (model.Member, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+memberCols+" FROM members WHERE id = ?", id)
	return scanMember(row)
}

// GetByUserID fetches the member linked to a portal user account.
func (r *MemberRepo) GetByUserID(ctx context.Context, userID uint64) (model.Member, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+memberCols+" FROM members WHERE user_id = ? LIMIT 1", userID)
	return scanMember(row)
}

// GetPortalByEmail fetches a portal-enabled member by email.  Used to
// backfill the user link for members created before they registered online.
func (r *MemberRepo) GetPortalByEmail(ctx context.Context, email string) (model.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberCols+" FROM members WHERE email = ? AND is_portal_user = TRUE LIMIT 1", email)
	return scanMember(row)
}

// LinkUser attaches a portal user account to an existing member.
func (r *MemberRepo) LinkUser(ctx context.Context, memberID, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE members SET user_id = ?, is_portal_user = TRUE WHERE id = ?", userID, memberID)
	return err
}

// UpdateProfile writes the member-editable profile fields.
func (r *MemberRepo) UpdateProfile(ctx context.Context, id uint64, name, email, phone string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.db.ExecContext(ctx,
		"UPDATE members SET name = ?, email = ?, phone = ? WHERE id = ?", name, email, phone, id)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrEmailExists
	}
	return err
}

// TouchPortalLogin records the time of a successful portal login.
func (r *MemberRepo) TouchPortalLogin(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE members SET last_portal_login = ? WHERE id = ?", at.UTC(), id)
	return err
}

// List returns members ordered by name, optionally filtered by a search
// term matched against name or email.  limit/offset drive pagination.
func (r *MemberRepo) List(ctx context.Context, search string, limit, offset int) ([]model.Member, error) {
	q := "SELECT " + memberCols + " FROM members"
	args := []interface{}{}
	if s := strings.TrimSpace(search); s != "" {
		q += " WHERE name LIKE ? OR email LIKE ?"
		like := "%" + s + "%"
		args = append(args, like, like)
	}
	q += " ORDER BY name ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]model.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Count returns the number of members matching the search term.
func (r *MemberRepo) Count(ctx context.Context, search string) (int, error) {
	q := "SELECT COUNT(*) FROM members"
	args := []interface{}{}
	if s := strings.TrimSpace(search); s != "" {
		q += " WHERE name LIKE ? OR email LIKE ?"
		like := "%" + s + "%"
		args = append(args, like, like)
	}
	var n int
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

// ExtensionStats recomputes the member's extension request counters from
// the extension_requests table.  The counters are derived on demand and
// never stored on the member row.
func (r *MemberRepo) ExtensionStats(ctx context.Context, memberID uint64) (model.MemberExtensionStats, error) {
	const q = `SELECT
	            COUNT(*),
	            COALESCE(SUM(er.status = 'pending'), 0),
	            COALESCE(SUM(er.status = 'approved'), 0)
	           FROM extension_requests er
	           JOIN borrowing_records br ON br.id = er.borrowing_record_id
	           WHERE br.member_id = ?`
	var s model.MemberExtensionStats
	err := r.db.QueryRowContext(ctx, q, memberID).Scan(&s.Total, &s.Pending, &s.Approved)
	return s, err
}
