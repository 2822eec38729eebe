package calculator

// ShareForBalance is a share with the minimal parent-expense information
// needed for balance calculations.
type ShareForBalance struct {
	// ParticipantUserID is the registered participant's user ID, or "" for an
	// unregistered participant.
	ParticipantUserID string

	// Amount is the share amount.
	Amount float64

	// Settled is the share's settled flag.
	Settled bool

	// PayerUserID is the parent expense's registered payer, or "" when the
	// payer is unregistered.
	PayerUserID string
}

// Summary is the three-number balance view for one user.
type Summary struct {
	TotalOwed      float64
	TotalOwedToYou float64

	// NetBalance is TotalOwedToYou - TotalOwed; positive means the user is a
	// net creditor.
	NetBalance float64
}

// SummarizeBalance reduces the two share scans for a user into a balance
// summary.
//
// owedByUser holds the unsettled shares where the user is the participant;
// only those whose parent expense was paid by someone else count toward
// TotalOwed (a share referencing the payer but incorrectly left unsettled is
// ignored). owedToUser holds the unsettled shares on expenses the user paid;
// every share belonging to a different registered user or to an unregistered
// participant counts toward TotalOwedToYou.
//
// Both totals are rounded to 2 decimals independently before the net is
// taken. Every call recomputes from scratch; there is no caching.
func SummarizeBalance(userID string, owedByUser, owedToUser []ShareForBalance) Summary {
	totalOwed := 0.0
	for _, share := range owedByUser {
		if share.Settled {
			continue
		}
		if share.ParticipantUserID != userID {
			continue
		}
		if share.PayerUserID == userID {
			continue
		}
		totalOwed += share.Amount
	}

	totalOwedToYou := 0.0
	for _, share := range owedToUser {
		if share.Settled {
			continue
		}
		if share.PayerUserID != userID {
			continue
		}
		if share.ParticipantUserID == userID {
			continue
		}
		totalOwedToYou += share.Amount
	}

	totalOwed = Round2(totalOwed)
	totalOwedToYou = Round2(totalOwedToYou)

	return Summary{
		TotalOwed:      totalOwed,
		TotalOwedToYou: totalOwedToYou,
		NetBalance:     Round2(totalOwedToYou - totalOwed),
	}
}
