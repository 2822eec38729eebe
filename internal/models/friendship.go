package models

// Friendship status values.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
)

// Friendship represents a friend request between two users. The requester
// initiates; the recipient accepts or rejects. A pair of users has at most one
// friendship record regardless of direction.
type Friendship struct {
	// ID is the unique identifier for the friendship (UUID format).
	ID string

	// RequesterID is the user who sent the request.
	RequesterID string

	// RecipientID is the user who received the request.
	RecipientID string

	// Status is one of FriendshipPending, FriendshipAccepted or
	// FriendshipRejected.
	Status string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// Involves reports whether the given user is either side of the friendship.
func (f *Friendship) Involves(userID string) bool {
	return f.RequesterID == userID || f.RecipientID == userID
}

// OtherSide returns the user ID opposite to the given one.
func (f *Friendship) OtherSide(userID string) string {
	if f.RequesterID == userID {
		return f.RecipientID
	}
	return f.RequesterID
}
