package sqlite

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/resolveapp/resolve/internal/models"
	"github.com/resolveapp/resolve/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "resolve-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func mustShare(t *testing.T, userID, name string, amount float64, settled bool) *models.Share {
	t.Helper()
	share, err := models.NewShare("", userID, name, amount, settled)
	if err != nil {
		t.Fatalf("NewShare failed: %v", err)
	}
	return share
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, alice); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != alice.ID {
			t.Errorf("got %+v, want user %s", got, alice.ID)
		}
	})

	t.Run("GetUserByEmail miss returns nil", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil for unknown email, got %+v", got)
		}
	})

	t.Run("FindUserIDByName", func(t *testing.T) {
		id, err := store.FindUserIDByName(ctx, "Alice")
		if err != nil {
			t.Fatalf("FindUserIDByName failed: %v", err)
		}
		if id != alice.ID {
			t.Errorf("got %s, want %s", id, alice.ID)
		}

		id, err = store.FindUserIDByName(ctx, "Nobody")
		if err != nil {
			t.Fatalf("FindUserIDByName miss failed: %v", err)
		}
		if id != "" {
			t.Errorf("expected empty ID for unknown name, got %s", id)
		}
	})

	t.Run("SearchUsers", func(t *testing.T) {
		users, err := store.SearchUsers(ctx, "ali", 10)
		if err != nil {
			t.Fatalf("SearchUsers failed: %v", err)
		}
		if len(users) != 1 || users[0].ID != alice.ID {
			t.Errorf("got %d users, want Alice", len(users))
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Alice Two", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("expected unique-email violation, got nil")
		}
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payer := models.NewUser("payer@example.com", "Payer", "hash")
	ower := models.NewUser("ower@example.com", "Ower", "hash")
	for _, u := range []*models.User{payer, ower} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	expense := &models.Expense{
		Description: "Dinner",
		Amount:      100,
		PayerUserID: payer.ID,
		CreatedBy:   payer.ID,
	}
	shares := []*models.Share{
		mustShare(t, payer.ID, "", 50, true),
		mustShare(t, ower.ID, "", 25, false),
		mustShare(t, "", "Charlie", 25, false),
	}

	if err := store.CreateExpense(ctx, expense, shares); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if expense.ID == "" {
		t.Fatal("expected expense ID to be generated")
	}

	t.Run("GetExpense and ListShares round-trip", func(t *testing.T) {
		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.PayerUserID != payer.ID || got.PayerName != "" {
			t.Errorf("payer = (%q, %q), want (%q, \"\")", got.PayerUserID, got.PayerName, payer.ID)
		}

		gotShares, err := store.ListShares(ctx, expense.ID)
		if err != nil {
			t.Fatalf("ListShares failed: %v", err)
		}
		if len(gotShares) != 3 {
			t.Fatalf("got %d shares, want 3", len(gotShares))
		}

		sum := 0.0
		for _, share := range gotShares {
			sum += share.Amount
			if (share.UserID == "") == (share.ParticipantName == "") {
				t.Errorf("share %s violates one-of participant invariant", share.ID)
			}
		}
		if math.Abs(sum-expense.Amount) > 0.02 {
			t.Errorf("shares total %v, want %v", sum, expense.Amount)
		}
	})

	t.Run("UpdateExpenseDescription by creator", func(t *testing.T) {
		updated, err := store.UpdateExpenseDescription(ctx, expense.ID, "Team dinner", payer.ID)
		if err != nil {
			t.Fatalf("UpdateExpenseDescription failed: %v", err)
		}
		if updated.Description != "Team dinner" {
			t.Errorf("description = %q, want %q", updated.Description, "Team dinner")
		}
		if updated.Amount != expense.Amount {
			t.Errorf("amount changed: %v", updated.Amount)
		}
	})

	t.Run("UpdateExpenseDescription by non-creator", func(t *testing.T) {
		_, err := store.UpdateExpenseDescription(ctx, expense.ID, "hijacked", ower.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("balance scans", func(t *testing.T) {
		owed, err := store.ListUnsettledSharesByParticipant(ctx, ower.ID, 0)
		if err != nil {
			t.Fatalf("ListUnsettledSharesByParticipant failed: %v", err)
		}
		if len(owed) != 1 || owed[0].PayerUserID != payer.ID {
			t.Fatalf("got %d owed shares, want 1 with payer set", len(owed))
		}

		owedTo, err := store.ListUnsettledSharesByPayer(ctx, payer.ID)
		if err != nil {
			t.Fatalf("ListUnsettledSharesByPayer failed: %v", err)
		}
		// The payer's own share is settled, so only two rows qualify.
		if len(owedTo) != 2 {
			t.Fatalf("got %d owed-to shares, want 2", len(owedTo))
		}
	})

	t.Run("DeleteExpense cascades to shares", func(t *testing.T) {
		doomed := &models.Expense{
			Description: "Cancelled trip",
			Amount:      30,
			PayerUserID: payer.ID,
			CreatedBy:   payer.ID,
		}
		doomedShares := []*models.Share{
			mustShare(t, payer.ID, "", 15, true),
			mustShare(t, ower.ID, "", 15, false),
		}
		if err := store.CreateExpense(ctx, doomed, doomedShares); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		if err := store.DeleteExpense(ctx, doomed.ID, ower.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("non-creator delete: expected ErrNotFound, got %v", err)
		}

		if err := store.DeleteExpense(ctx, doomed.ID, payer.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}

		leftover, err := store.ListShares(ctx, doomed.ID)
		if err != nil {
			t.Fatalf("ListShares failed: %v", err)
		}
		if len(leftover) != 0 {
			t.Errorf("expected cascade to remove shares, found %d", len(leftover))
		}
	})
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := models.NewUser("owner@example.com", "Owner", "hash")
	member := models.NewUser("member@example.com", "Member", "hash")
	for _, u := range []*models.User{owner, member} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	group := &models.Group{
		Name:      "Roommates",
		CreatedBy: owner.ID,
		Members:   []string{owner.ID, member.ID},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	got, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.Members) != 2 {
		t.Errorf("got %d members, want 2", len(got.Members))
	}
	if !got.HasMember(member.ID) {
		t.Error("expected member to be present")
	}

	groups, err := store.ListGroupsForUser(ctx, member.ID)
	if err != nil {
		t.Fatalf("ListGroupsForUser failed: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != group.ID {
		t.Errorf("got %d groups, want the created one", len(groups))
	}

	if _, err := store.GetGroup(ctx, "nonexistent"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_Friendships(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := models.NewUser("a@example.com", "A", "hash")
	b := models.NewUser("b@example.com", "B", "hash")
	for _, u := range []*models.User{a, b} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	friendship := &models.Friendship{
		RequesterID: a.ID,
		RecipientID: b.ID,
		Status:      models.FriendshipPending,
	}
	if err := store.CreateFriendship(ctx, friendship); err != nil {
		t.Fatalf("CreateFriendship failed: %v", err)
	}

	// Lookup works in both directions.
	for _, pair := range [][2]string{{a.ID, b.ID}, {b.ID, a.ID}} {
		got, err := store.GetFriendshipBetween(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("GetFriendshipBetween failed: %v", err)
		}
		if got == nil || got.ID != friendship.ID {
			t.Errorf("GetFriendshipBetween(%s, %s) = %+v, want %s", pair[0], pair[1], got, friendship.ID)
		}
	}

	if err := store.UpdateFriendshipStatus(ctx, friendship.ID, models.FriendshipAccepted); err != nil {
		t.Fatalf("UpdateFriendshipStatus failed: %v", err)
	}

	got, err := store.GetFriendship(ctx, friendship.ID)
	if err != nil {
		t.Fatalf("GetFriendship failed: %v", err)
	}
	if got.Status != models.FriendshipAccepted {
		t.Errorf("status = %s, want accepted", got.Status)
	}

	list, err := store.ListFriendships(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListFriendships failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d friendships, want 1", len(list))
	}
}
