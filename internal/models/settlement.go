package models

import "github.com/evenup/evenup/internal/money"

// Settlement records a direct payment between two group members to
// clear debt. Like expenses, settlements are append-only entries in the
// group ledger and feed into balance computation.
type Settlement struct {
	// ID is the unique identifier for the settlement.
	ID int64 `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID int64 `json:"group_id"`

	// FromMemberID is the member who paid (debtor settling up).
	FromMemberID int64 `json:"from"`

	// ToMemberID is the member who received the payment.
	ToMemberID int64 `json:"to"`

	// Amount is the payment amount. Always positive.
	Amount money.Money `json:"amount"`

	// Note is an optional description for the settlement.
	Note string `json:"note,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"created_at"`
}
