package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/resolveapp/resolve/internal/calculator"
	"github.com/resolveapp/resolve/internal/models"
	"github.com/resolveapp/resolve/internal/storage"
)

// ExpenseService is the expense ledger: it owns creation and mutation of
// expenses and their shares. Split resolution happens here, persistence is a
// single atomic store call.
type ExpenseService struct {
	store  storage.Store
	splits *calculator.SplitResolver
}

// NewExpenseService creates an expense service with the given storage
// backend. The split resolver's directory lookups go through the same store.
func NewExpenseService(store storage.Store) *ExpenseService {
	identities := calculator.NewIdentityResolver(storeDirectory{store})
	return &ExpenseService{
		store:  store,
		splits: calculator.NewSplitResolver(identities),
	}
}

// storeDirectory adapts the storage layer to the calculator's Directory
// interface.
type storeDirectory struct {
	store storage.Store
}

func (d storeDirectory) FindUserIDByName(ctx context.Context, name string) (string, error) {
	return d.store.FindUserIDByName(ctx, name)
}

// CreateExpenseInput is the raw expense form data as submitted by the client.
type CreateExpenseInput struct {
	Description string
	Amount      float64
	PaidBy      string
	Splits      []calculator.RawSplit
	GroupID     string
}

// CreateExpense validates and materializes the input into an expense plus its
// shares and persists both as one atomic unit. On any validation failure
// nothing is persisted and the error is surfaced unchanged.
func (s *ExpenseService) CreateExpense(ctx context.Context, in CreateExpenseInput, creatorUserID string) (*models.Expense, []*models.Share, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, nil, validationErrorf("expense description is required")
	}

	var group *calculator.GroupContext
	if in.GroupID != "" {
		g, err := s.store.GetGroup(ctx, in.GroupID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, nil, validationErrorf("group not found")
			}
			return nil, nil, err
		}
		group = &calculator.GroupContext{Members: g.Members}
	}

	resolved, err := s.splits.Resolve(ctx, in.Amount, in.PaidBy, in.Splits, creatorUserID, group)
	if err != nil {
		return nil, nil, err
	}

	expense := &models.Expense{
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Date:        time.Now().Unix(),
		PayerUserID: resolved.Payer.UserID,
		PayerName:   resolved.Payer.DisplayName,
		GroupID:     in.GroupID,
		CreatedBy:   creatorUserID,
	}

	shares := make([]*models.Share, 0, len(resolved.Shares))
	for _, rs := range resolved.Shares {
		share, err := models.NewShare("", rs.Participant.UserID, rs.Participant.DisplayName, rs.Amount, rs.Settled)
		if err != nil {
			return nil, nil, err
		}
		shares = append(shares, share)
	}

	if err := s.store.CreateExpense(ctx, expense, shares); err != nil {
		slog.Error("CreateExpense failed", "creator", creatorUserID, "error", err)
		return nil, nil, err
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"shares", len(shares),
		"group_id", expense.GroupID,
	)
	return expense, shares, nil
}

// GetExpense retrieves an expense with its shares.
func (s *ExpenseService) GetExpense(ctx context.Context, expenseID string) (*models.Expense, []*models.Share, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	shares, err := s.store.ListShares(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	return expense, shares, nil
}

// UpdateDescription changes an expense's description. Only the creator may
// edit; amount, payer and shares are immutable through this operation.
func (s *ExpenseService) UpdateDescription(ctx context.Context, expenseID, description, requestingUserID string) (*models.Expense, error) {
	if strings.TrimSpace(description) == "" {
		return nil, validationErrorf("expense description is required")
	}

	expense, err := s.store.UpdateExpenseDescription(ctx, expenseID, strings.TrimSpace(description), requestingUserID)
	if err != nil {
		return nil, err
	}

	slog.Info("Expense description updated", "expense_id", expenseID, "user_id", requestingUserID)
	return expense, nil
}

// DeleteExpense removes an expense and its shares. Only the creator may
// delete.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID, requestingUserID string) error {
	if err := s.store.DeleteExpense(ctx, expenseID, requestingUserID); err != nil {
		return err
	}
	slog.Info("Expense deleted", "expense_id", expenseID, "user_id", requestingUserID)
	return nil
}
