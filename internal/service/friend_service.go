package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/resolveapp/resolve/internal/models"
	"github.com/resolveapp/resolve/internal/storage"
)

// FriendService implements the friend-request workflow: send by email or
// display name, accept or reject as the recipient, list confirmed friends.
type FriendService struct {
	store storage.Store
}

// NewFriendService creates a friend service with the given storage backend.
func NewFriendService(store storage.Store) *FriendService {
	return &FriendService{store: store}
}

// FriendEntry pairs a friendship record with the other user's details.
type FriendEntry struct {
	Friendship *models.Friendship
	Friend     *models.User
}

// SendRequest sends a friend request to the user matching the identifier
// (email, matched lowercase, or exact display name).
func (s *FriendService) SendRequest(ctx context.Context, identifier, requesterID string) (*models.Friendship, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, validationErrorf("identifier (email or name) is required")
	}

	recipient, err := s.store.GetUserByEmail(ctx, strings.ToLower(identifier))
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		recipientID, err := s.store.FindUserIDByName(ctx, identifier)
		if err != nil {
			return nil, err
		}
		if recipientID != "" {
			recipient, err = s.store.GetUserByID(ctx, recipientID)
			if err != nil {
				return nil, err
			}
		}
	}
	if recipient == nil {
		return nil, storage.ErrNotFound
	}

	if recipient.ID == requesterID {
		return nil, validationErrorf("you cannot send a friend request to yourself")
	}

	existing, err := s.store.GetFriendshipBetween(ctx, requesterID, recipient.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendshipAccepted:
			return nil, validationErrorf("you are already friends with this user")
		case models.FriendshipPending:
			if existing.RecipientID == requesterID {
				return nil, validationErrorf("this user has already sent you a friend request; accept it instead")
			}
			return nil, validationErrorf("friend request already pending")
		default:
			return nil, validationErrorf("cannot send request due to a previous %s interaction", existing.Status)
		}
	}

	friendship := &models.Friendship{
		RequesterID: requesterID,
		RecipientID: recipient.ID,
		Status:      models.FriendshipPending,
	}
	if err := s.store.CreateFriendship(ctx, friendship); err != nil {
		slog.Error("SendRequest failed", "requester", requesterID, "error", err)
		return nil, err
	}

	slog.Info("Friend request sent", "friendship_id", friendship.ID, "requester", requesterID, "recipient", recipient.ID)
	return friendship, nil
}

// Respond accepts or rejects a pending request. Only the recipient may
// respond.
func (s *FriendService) Respond(ctx context.Context, friendshipID, userID string, accept bool) (*models.Friendship, error) {
	friendship, err := s.store.GetFriendship(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if friendship.RecipientID != userID {
		return nil, storage.ErrNotFound
	}
	if friendship.Status != models.FriendshipPending {
		return nil, validationErrorf("friend request is no longer pending")
	}

	status := models.FriendshipRejected
	if accept {
		status = models.FriendshipAccepted
	}
	if err := s.store.UpdateFriendshipStatus(ctx, friendshipID, status); err != nil {
		return nil, err
	}
	friendship.Status = status

	slog.Info("Friend request answered", "friendship_id", friendshipID, "status", status)
	return friendship, nil
}

// ListFriends returns the user's accepted friendships with the other user's
// details; friends whose accounts have since disappeared are skipped.
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]FriendEntry, error) {
	friendships, err := s.store.ListFriendships(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]FriendEntry, 0, len(friendships))
	for _, friendship := range friendships {
		if friendship.Status != models.FriendshipAccepted {
			continue
		}
		friend, err := s.store.GetUserByID(ctx, friendship.OtherSide(userID))
		if err != nil {
			return nil, err
		}
		if friend == nil {
			continue
		}
		entries = append(entries, FriendEntry{Friendship: friendship, Friend: friend})
	}

	return entries, nil
}

// PendingRequests returns the pending requests addressed to the user.
func (s *FriendService) PendingRequests(ctx context.Context, userID string) ([]FriendEntry, error) {
	friendships, err := s.store.ListFriendships(ctx, userID)
	if err != nil {
		return nil, err
	}

	var entries []FriendEntry
	for _, friendship := range friendships {
		if friendship.Status != models.FriendshipPending || friendship.RecipientID != userID {
			continue
		}
		requester, err := s.store.GetUserByID(ctx, friendship.RequesterID)
		if err != nil {
			return nil, err
		}
		if requester == nil {
			continue
		}
		entries = append(entries, FriendEntry{Friendship: friendship, Friend: requester})
	}

	return entries, nil
}
