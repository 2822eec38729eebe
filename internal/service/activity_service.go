package service

import (
	"context"
	"sort"

	"github.com/resolveapp/resolve/internal/models"
	"github.com/resolveapp/resolve/internal/storage"
)

// DefaultActivityLimit caps the recent-activity feed length.
const DefaultActivityLimit = 20

// ActivityService composes a user's recent-activity feed: expenses they paid
// merged with expenses they still owe a share of. Purely a read-side
// projection over the expense ledger.
type ActivityService struct {
	store storage.Store
}

// NewActivityService creates an activity service with the given storage
// backend.
func NewActivityService(store storage.Store) *ActivityService {
	return &ActivityService{store: store}
}

// Recent returns up to limit feed items, most recent first. limit <= 0 falls
// back to DefaultActivityLimit.
func (s *ActivityService) Recent(ctx context.Context, userID string, limit int) ([]models.ActivityItem, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	paid, err := s.store.ListExpensesPaidBy(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	owedShares, err := s.store.ListUnsettledSharesByParticipant(ctx, userID, limit*2)
	if err != nil {
		return nil, err
	}

	items := make([]models.ActivityItem, 0, len(paid)+len(owedShares))
	for _, expense := range paid {
		items = append(items, models.ActivityItem{
			ID:          expense.ID,
			Type:        models.ActivityExpensePaid,
			Description: expense.Description,
			Amount:      expense.Amount,
			User:        "You paid",
			Timestamp:   expense.Date,
			Status:      "Paid",
		})
	}

	// Payer display names are looked up once per distinct payer.
	payerNames := make(map[string]string)
	for _, share := range owedShares {
		if share.PayerUserID == userID {
			continue
		}
		items = append(items, models.ActivityItem{
			ID:          share.ExpenseID,
			Type:        models.ActivityExpenseOwed,
			Description: share.ExpenseDescription,
			Amount:      share.Amount,
			User:        s.payerLine(ctx, share, payerNames),
			Timestamp:   share.ExpenseDate,
			Status:      "Pending",
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})
	if len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

func (s *ActivityService) payerLine(ctx context.Context, share *models.ShareWithExpense, cache map[string]string) string {
	name := share.PayerName
	if share.PayerUserID != "" {
		cached, ok := cache[share.PayerUserID]
		if !ok {
			cached = "Someone"
			if user, err := s.store.GetUserByID(ctx, share.PayerUserID); err == nil && user != nil {
				cached = user.DisplayName
			}
			cache[share.PayerUserID] = cached
		}
		name = cached
	}
	if name == "" {
		name = "Someone"
	}
	return name + " paid"
}
