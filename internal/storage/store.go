// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/resolveapp/resolve/internal/models"
)

// ErrNotFound is returned when an entity does not exist, or when the caller
// is not allowed to touch it. The two cases are deliberately indistinguishable
// so that existence is not leaked.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all persistence operations. This
// abstraction allows swapping storage backends without changing the service
// layer.
type Store interface {
	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no
	// user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// FindUserIDByName returns the ID of the user with the exact display
	// name, or "" when no user matches. A miss is not an error.
	FindUserIDByName(ctx context.Context, name string) (string, error)

	// SearchUsers returns up to limit users whose display name or email
	// contains the query.
	SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error)

	// CreateFriendship inserts a new friendship record.
	CreateFriendship(ctx context.Context, friendship *models.Friendship) error

	// GetFriendship retrieves a friendship by ID.
	// Returns ErrNotFound when absent.
	GetFriendship(ctx context.Context, id string) (*models.Friendship, error)

	// GetFriendshipBetween finds the friendship between two users in either
	// direction. Returns (nil, nil) when none exists.
	GetFriendshipBetween(ctx context.Context, userA, userB string) (*models.Friendship, error)

	// UpdateFriendshipStatus sets the status of a friendship.
	UpdateFriendshipStatus(ctx context.Context, id, status string) error

	// ListFriendships returns all friendships involving the user, most
	// recent first.
	ListFriendships(ctx context.Context, userID string) ([]*models.Friendship, error)

	// CreateGroup persists a new group with its members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its member IDs.
	// Returns ErrNotFound when absent.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroupsForUser returns all groups the user is a member of.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// CreateExpense persists an expense and its shares as a single atomic
	// unit: either everything commits or nothing does.
	CreateExpense(ctx context.Context, expense *models.Expense, shares []*models.Share) error

	// GetExpense retrieves an expense by ID. Returns ErrNotFound when absent.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// ListShares returns the shares of one expense.
	ListShares(ctx context.Context, expenseID string) ([]*models.Share, error)

	// UpdateExpenseDescription mutates only the description, and only when
	// the expense exists and was created by requestingUserID; otherwise it
	// returns ErrNotFound.
	UpdateExpenseDescription(ctx context.Context, expenseID, description, requestingUserID string) (*models.Expense, error)

	// DeleteExpense removes an expense created by requestingUserID along
	// with its shares (cascade). Returns ErrNotFound when absent or not
	// owned.
	DeleteExpense(ctx context.Context, expenseID, requestingUserID string) error

	// ListUnsettledSharesByParticipant returns unsettled shares where the
	// user is the participant, joined with their parent expenses, most
	// recent first. limit <= 0 means no limit.
	ListUnsettledSharesByParticipant(ctx context.Context, userID string, limit int) ([]*models.ShareWithExpense, error)

	// ListUnsettledSharesByPayer returns unsettled shares belonging to
	// expenses the user paid, joined with their parent expenses.
	ListUnsettledSharesByPayer(ctx context.Context, userID string) ([]*models.ShareWithExpense, error)

	// ListExpensesPaidBy returns the limit most recent expenses paid by the
	// user.
	ListExpensesPaidBy(ctx context.Context, userID string, limit int) ([]*models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
