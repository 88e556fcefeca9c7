package models

import "github.com/evenup/evenup/internal/money"

// SplitType selects how an expense is divided among its targets.
type SplitType string

const (
	// SplitEqual divides the amount evenly, with rounding remainders
	// going one cent at a time to the lowest member IDs.
	SplitEqual SplitType = "equal"

	// SplitPercentage divides the amount by explicit percentages that
	// must sum to 100.
	SplitPercentage SplitType = "percentage"
)

// Expense is an immutable record of money spent by one payer, split
// among members of a group. Expenses are never updated or deleted;
// a correction is a new expense or a settlement.
type Expense struct {
	// ID is the unique identifier for the expense.
	ID int64 `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID int64 `json:"group_id"`

	// Description is the human-readable label (e.g., "Dinner").
	Description string `json:"description"`

	// Amount is the full expense amount. Always positive.
	Amount money.Money `json:"amount"`

	// PaidBy is the member who paid the full amount.
	PaidBy int64 `json:"paid_by"`

	// SplitType is how Amount is divided among Splits.
	SplitType SplitType `json:"split_type"`

	// Splits are the per-member obligations. Their amounts always sum
	// to Amount exactly; the split engine guarantees this before the
	// expense is recorded.
	Splits []Split `json:"splits"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	// Together with ID it fixes the total recording order.
	CreatedAt int64 `json:"created_at"`
}

// Split is one member's share of a given expense.
type Split struct {
	// MemberID is the member who owes this share.
	MemberID int64 `json:"user_id"`

	// Amount is the exact share in cents, as computed by the split
	// engine when the expense was recorded.
	Amount money.Money `json:"amount"`

	// Percentage is the explicit percentage for percentage splits,
	// nil for equal splits.
	Percentage *float64 `json:"percentage,omitempty"`
}
