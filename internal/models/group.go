package models

// Group represents a fixed set of members sharing expenses.
// Membership is set at creation time and never changes afterwards;
// members can only be flagged as removed, never deleted, so historical
// expenses always resolve to a real member.
type Group struct {
	// ID is the unique identifier for the group.
	ID int64 `json:"id"`

	// Name is the display name of the group (e.g., "Trip", "Roommates").
	// Group names are unique.
	Name string `json:"name"`

	// Members are the group's members in insertion order.
	Members []Member `json:"users"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// Member is a participant who can pay for or owe a share of an expense.
// A member belongs to exactly one group.
type Member struct {
	// ID is the unique identifier for the member. IDs are assigned in
	// insertion order, which also fixes the deterministic order used
	// when distributing rounding remainders.
	ID int64 `json:"id"`

	// GroupID is the group this member belongs to.
	GroupID int64 `json:"-"`

	// Name is the member's display name.
	Name string `json:"name"`

	// Removed marks a member as no longer active. Removed members stay
	// on record so old expenses keep their integrity, but they cannot
	// appear in new expenses.
	Removed bool `json:"removed,omitempty"`
}
