package service

import (
	"context"

	"github.com/resolveapp/resolve/internal/calculator"
	"github.com/resolveapp/resolve/internal/models"
	"github.com/resolveapp/resolve/internal/storage"
)

// BalanceService reduces a user's outstanding shares to the three-number
// balance summary. Every call re-scans the store; nothing is cached.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a balance service with the given storage backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// Summary computes the balance summary for one user from exactly two storage
// scans: the unsettled shares the user owes and the unsettled shares on
// expenses the user paid.
func (s *BalanceService) Summary(ctx context.Context, userID string) (*models.BalanceSummary, error) {
	owedBy, err := s.store.ListUnsettledSharesByParticipant(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	owedTo, err := s.store.ListUnsettledSharesByPayer(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := calculator.SummarizeBalance(userID, toBalanceShares(owedBy), toBalanceShares(owedTo))
	return &models.BalanceSummary{
		TotalOwed:      summary.TotalOwed,
		TotalOwedToYou: summary.TotalOwedToYou,
		NetBalance:     summary.NetBalance,
	}, nil
}

func toBalanceShares(shares []*models.ShareWithExpense) []calculator.ShareForBalance {
	out := make([]calculator.ShareForBalance, len(shares))
	for i, share := range shares {
		out[i] = calculator.ShareForBalance{
			ParticipantUserID: share.UserID,
			Amount:            share.Amount,
			Settled:           share.Settled,
			PayerUserID:       share.PayerUserID,
		}
	}
	return out
}
