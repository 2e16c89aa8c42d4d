/*
Package session contains the core logic for presentation rooms.

This file defines the Room record and the admin authorization predicate.
A Room is owned exclusively by the Store; nothing outside the store mutates
one after creation.
*/
package session

// TeardownCause distinguishes the three paths that destroy a room. All of
// them converge on the same teardown routine.
type TeardownCause int

const (
	// CauseAdminLogout is an explicit adminLogout event.
	CauseAdminLogout TeardownCause = iota

	// CauseAdminDisconnected is the admin's connection dropping.
	CauseAdminDisconnected

	// CauseSessionTimedOut is the room's session timer firing.
	CauseSessionTimedOut
)

// String names the cause for logging.
func (c TeardownCause) String() string {
	switch c {
	case CauseAdminLogout:
		return "admin_logout"
	case CauseAdminDisconnected:
		return "admin_disconnected"
	case CauseSessionTimedOut:
		return "session_timed_out"
	default:
		return "unknown"
	}
}

// Room is the state of one live presentation room.
type Room struct {
	// Code is the 6-digit numeric identifier, unique among live rooms.
	Code string

	// AdminID is the connection that created the room. Sole authority for
	// state mutation; always present in Members while the room exists.
	AdminID string

	// CurrentPage is whatever page the admin last set, starting at 1.
	CurrentPage int

	// CurrentFile is the storage path of the active PDF. Empty until the
	// admin uploads one.
	CurrentFile string

	// Files records the stored name of every file ever associated with the
	// room. It only grows while the room lives and is consumed in full,
	// exactly once, at teardown.
	Files []string

	// Members is the set of joined connection ids, admin included.
	Members map[string]struct{}
}

// MemberIDs returns a snapshot of the member set for fan-out.
func (r *Room) MemberIDs() []string {
	ids := make([]string, 0, len(r.Members))
	for id := range r.Members {
		ids = append(ids, id)
	}
	return ids
}

// IsAdmin is the authorization gate consulted before every mutating room
// operation: only the connection that created the room may mutate it.
func IsAdmin(r *Room, connID string) bool {
	return r.AdminID == connID
}
