package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resolveapp/resolve/internal/models"
	"github.com/resolveapp/resolve/internal/storage"
)

// CreateExpense persists an expense and its shares in one transaction so a
// crash or concurrent read never observes an expense without its shares.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, shares []*models.Share) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.Date == 0 {
		expense.Date = now
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, expense_date, payer_user_id, payer_name, group_id, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount, expense.Date,
		nullable(expense.PayerUserID), nullable(expense.PayerName),
		nullable(expense.GroupID), expense.CreatedBy,
		expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, share := range shares {
		if share.ID == "" {
			share.ID = uuid.New().String()
		}
		share.ExpenseID = expense.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO shares (id, expense_id, user_id, participant_name, amount, settled)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			share.ID, share.ExpenseID,
			nullable(share.UserID), nullable(share.ParticipantName),
			share.Amount, share.Settled,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	expense := &models.Expense{}
	var payerUserID, payerName, groupID sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, description, amount, expense_date, payer_user_id, payer_name, group_id, created_by, created_at, updated_at
		 FROM expenses WHERE id = ?`,
		id,
	).Scan(&expense.ID, &expense.Description, &expense.Amount, &expense.Date,
		&payerUserID, &payerName, &groupID, &expense.CreatedBy,
		&expense.CreatedAt, &expense.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	expense.PayerUserID = fromNull(payerUserID)
	expense.PayerName = fromNull(payerName)
	expense.GroupID = fromNull(groupID)

	return expense, nil
}

// ListShares returns the shares of one expense.
func (s *SQLiteStore) ListShares(ctx context.Context, expenseID string) ([]*models.Share, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, expense_id, user_id, participant_name, amount, settled
		 FROM shares WHERE expense_id = ?`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	var shares []*models.Share
	for rows.Next() {
		share := &models.Share{}
		var userID, participantName sql.NullString
		if err := rows.Scan(&share.ID, &share.ExpenseID, &userID, &participantName,
			&share.Amount, &share.Settled); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		share.UserID = fromNull(userID)
		share.ParticipantName = fromNull(participantName)
		shares = append(shares, share)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return shares, nil
}

// UpdateExpenseDescription mutates only the description, and only for the
// expense's creator. The ownership check lives in the WHERE clause so absent
// and not-owned are indistinguishable.
func (s *SQLiteStore) UpdateExpenseDescription(ctx context.Context, expenseID, description, requestingUserID string) (*models.Expense, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET description = ?, updated_at = ? WHERE id = ? AND created_by = ?",
		description, time.Now().Unix(), expenseID, requestingUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense description: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check expense update: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrNotFound
	}

	return s.GetExpense(ctx, expenseID)
}

// DeleteExpense removes an expense created by requestingUserID; its shares go
// with it via the foreign-key cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID, requestingUserID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND created_by = ?",
		expenseID, requestingUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check expense delete: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

const shareWithExpenseColumns = `
	s.id, s.expense_id, s.user_id, s.participant_name, s.amount, s.settled,
	e.description, e.amount, e.expense_date, e.payer_user_id, e.payer_name
`

func scanShareWithExpense(rows *sql.Rows) (*models.ShareWithExpense, error) {
	share := &models.ShareWithExpense{}
	var userID, participantName, payerUserID, payerName sql.NullString

	if err := rows.Scan(&share.ID, &share.ExpenseID, &userID, &participantName,
		&share.Amount, &share.Settled,
		&share.ExpenseDescription, &share.ExpenseAmount, &share.ExpenseDate,
		&payerUserID, &payerName); err != nil {
		return nil, fmt.Errorf("failed to scan share with expense: %w", err)
	}

	share.UserID = fromNull(userID)
	share.ParticipantName = fromNull(participantName)
	share.PayerUserID = fromNull(payerUserID)
	share.PayerName = fromNull(payerName)

	return share, nil
}

// ListUnsettledSharesByParticipant returns unsettled shares where the user is
// the participant, joined with their parent expenses, most recent first.
func (s *SQLiteStore) ListUnsettledSharesByParticipant(ctx context.Context, userID string, limit int) ([]*models.ShareWithExpense, error) {
	query := `
		SELECT ` + shareWithExpenseColumns + `
		FROM shares s
		JOIN expenses e ON e.id = s.expense_id
		WHERE s.user_id = ? AND s.settled = 0
		ORDER BY e.expense_date DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares by participant: %w", err)
	}
	defer rows.Close()

	return collectSharesWithExpense(rows)
}

// ListUnsettledSharesByPayer returns unsettled shares on expenses the user
// paid, joined with their parent expenses.
func (s *SQLiteStore) ListUnsettledSharesByPayer(ctx context.Context, userID string) ([]*models.ShareWithExpense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+shareWithExpenseColumns+`
		FROM shares s
		JOIN expenses e ON e.id = s.expense_id
		WHERE e.payer_user_id = ? AND s.settled = 0
		ORDER BY e.expense_date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares by payer: %w", err)
	}
	defer rows.Close()

	return collectSharesWithExpense(rows)
}

func collectSharesWithExpense(rows *sql.Rows) ([]*models.ShareWithExpense, error) {
	var shares []*models.ShareWithExpense
	for rows.Next() {
		share, err := scanShareWithExpense(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

// ListExpensesPaidBy returns the limit most recent expenses paid by the user.
func (s *SQLiteStore) ListExpensesPaidBy(ctx context.Context, userID string, limit int) ([]*models.Expense, error) {
	query := `
		SELECT id, description, amount, expense_date, payer_user_id, payer_name, group_id, created_by, created_at, updated_at
		FROM expenses
		WHERE payer_user_id = ?
		ORDER BY expense_date DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by payer: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var payerUserID, payerName, groupID sql.NullString
		if err := rows.Scan(&expense.ID, &expense.Description, &expense.Amount, &expense.Date,
			&payerUserID, &payerName, &groupID, &expense.CreatedBy,
			&expense.CreatedAt, &expense.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.PayerUserID = fromNull(payerUserID)
		expense.PayerName = fromNull(payerName)
		expense.GroupID = fromNull(groupID)
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}
