package models

import "errors"

// Expense represents money paid by one party on behalf of several.
//
// Exactly one of PayerUserID and PayerName is set: a registered payer is
// referenced by user ID, an unregistered payer only by display name.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is a non-empty human-readable label. It is the only field
	// the creator may edit after the fact.
	Description string

	// Amount is the total paid, in currency-agnostic units. Always > 0.
	Amount float64

	// Date is the Unix timestamp of when the expense happened.
	Date int64

	// PayerUserID is the registered payer's user ID, or "" if the payer is
	// unregistered.
	PayerUserID string

	// PayerName is the unregistered payer's display name, or "" if the payer
	// is registered.
	PayerName string

	// GroupID scopes the expense to a group, or "" for a direct two-party
	// expense.
	GroupID string

	// CreatedBy is the user who recorded the expense; edits and deletion are
	// restricted to them.
	CreatedBy string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// PaidBy reports whether the expense was paid by the given registered user.
func (e *Expense) PaidBy(userID string) bool {
	return e.PayerUserID != "" && e.PayerUserID == userID
}

// ErrShareParticipant is returned when a share does not reference exactly one
// of a registered user or an unregistered name.
var ErrShareParticipant = errors.New("share must reference exactly one of a user ID or an unregistered name")

// Share is one participant's portion of one Expense.
//
// Exactly one of UserID and ParticipantName is set; NewShare enforces this on
// construction. Shares are created atomically with their expense and are
// immutable afterwards.
type Share struct {
	// ID is the unique identifier for the share (UUID format).
	ID string

	// ExpenseID references the owning expense.
	ExpenseID string

	// UserID is the registered participant's user ID, or "" if unregistered.
	UserID string

	// ParticipantName is the unregistered participant's display name, or ""
	// if the participant is registered.
	ParticipantName string

	// Amount is this participant's portion, rounded to 2 decimal places.
	// Never negative.
	Amount float64

	// Settled is true exactly when this share belongs to the payer of the
	// parent expense: the payer's own portion needs no transfer. Shares never
	// transition to settled after creation.
	Settled bool
}

// NewShare constructs a share, enforcing the one-of participant invariant.
func NewShare(expenseID, userID, participantName string, amount float64, settled bool) (*Share, error) {
	if (userID == "") == (participantName == "") {
		return nil, ErrShareParticipant
	}
	return &Share{
		ExpenseID:       expenseID,
		UserID:          userID,
		ParticipantName: participantName,
		Amount:          amount,
		Settled:         settled,
	}, nil
}

// ShareWithExpense is a share joined with the fields of its parent expense
// that balance and activity projections need.
type ShareWithExpense struct {
	Share

	// ExpenseDescription, ExpenseAmount and ExpenseDate mirror the parent
	// expense.
	ExpenseDescription string
	ExpenseAmount      float64
	ExpenseDate        int64

	// PayerUserID and PayerName mirror the parent expense's payer.
	PayerUserID string
	PayerName   string
}
