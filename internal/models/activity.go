package models

// Activity item types.
const (
	ActivityExpensePaid = "expense_paid"
	ActivityExpenseOwed = "expense_owed"
)

// ActivityItem is one row of a user's recent-activity feed. It is a read-only
// projection over expenses and shares, never persisted.
type ActivityItem struct {
	// ID is the underlying expense's ID.
	ID string

	// Type is ActivityExpensePaid when the user paid the expense, or
	// ActivityExpenseOwed when the user owes a share of it.
	Type string

	// Description is the expense description.
	Description string

	// Amount is the full expense amount for paid items, or the user's share
	// amount for owed items.
	Amount float64

	// User is a human-readable actor line, e.g. "You paid" or "Alice paid".
	User string

	// Timestamp is the expense date as a Unix timestamp.
	Timestamp int64

	// Status is "Paid" for paid items and "Pending" for owed ones.
	Status string
}

// BalanceSummary is the derived three-number balance view for one user.
// Recomputed on every request; never persisted.
type BalanceSummary struct {
	// TotalOwed is what the user owes others, rounded to 2 decimals.
	TotalOwed float64

	// TotalOwedToYou is what others owe the user, rounded to 2 decimals.
	TotalOwedToYou float64

	// NetBalance is TotalOwedToYou - TotalOwed; positive means the user is a
	// net creditor.
	NetBalance float64
}
