package model

import "time"

// Member statuses stored in members.member_status.
const (
	MemberActive    = "active"
	MemberSuspended = "suspended"
)

// Member represents a library member as stored in the `members` table.
// A member may optionally be linked to a portal user account; records
// created by librarians before the member registers online have a zero
// UserID until the first login backfills the link by email.
//
// Fields:
//
//	ID              – primary key identifier.
//	Name            – full name of the member.
//	Email           – contact email, used to match a portal account.
//	Phone           – contact phone number (may be empty).
//	UserID          – linked portal user account (nullable).
//	IsPortalUser    – whether this member has portal access.
//	MemberStatus    – membership state (active, suspended).
//	JoinDate        – date the member joined the library.
//	LastPortalLogin – last successful portal login (nullable).
type Member struct {
	ID              uint64     // members.id
	Name            string     // members.name
	Email           string     // members.email
	Phone           string     // members.phone
	UserID          *uint64    // members.user_id (nullable)
	IsPortalUser    bool       // members.is_portal_user
	MemberStatus    string     // members.member_status
	JoinDate        time.Time  // members.join_date
	LastPortalLogin *time.Time // members.last_portal_login (nullable)
}

// MemberExtensionStats aggregates a member's extension request counters.
// The numbers are recomputed on demand from the extension_requests table,
// never stored.
type MemberExtensionStats struct {
	Total    int `json:"total_extension_requests"`
	Pending  int `json:"pending_extension_requests"`
	Approved int `json:"approved_extension_requests"`
}
