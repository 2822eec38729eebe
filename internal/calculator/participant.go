// Package calculator implements the expense-splitting engine: resolving raw
// split input into concrete per-participant shares and reducing persisted
// shares into balance summaries. It is a pure package; the only external call
// it makes is the Directory lookup.
package calculator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// You is the sentinel identifier meaning "the authenticated requester".
const You = "You"

// ErrDirectoryUnavailable indicates the user directory could not be reached.
// It is fatal for the whole expense-creation request.
var ErrDirectoryUnavailable = errors.New("user directory unavailable")

// ParticipantRef identifies one party of a split: either a registered user
// (by ID) or an unregistered person (by display name). Exactly one field is
// set. Unregistered participants are a first-class, permanent concept, not an
// error state.
type ParticipantRef struct {
	// UserID is the registered user's ID, or "" if unregistered.
	UserID string

	// DisplayName is the unregistered participant's name, or "" if
	// registered.
	DisplayName string
}

// KnownParticipant returns a ref for a registered user.
func KnownParticipant(userID string) ParticipantRef {
	return ParticipantRef{UserID: userID}
}

// UnregisteredParticipant returns a ref for a participant known only by name.
func UnregisteredParticipant(name string) ParticipantRef {
	return ParticipantRef{DisplayName: name}
}

// Registered reports whether the ref points at a registered user.
func (r ParticipantRef) Registered() bool {
	return r.UserID != ""
}

// Equal reports whether two refs identify the same party: the same user ID,
// or the same unregistered display name.
func (r ParticipantRef) Equal(o ParticipantRef) bool {
	return r == o
}

func (r ParticipantRef) String() string {
	if r.Registered() {
		return "user:" + r.UserID
	}
	return "name:" + r.DisplayName
}

// Directory resolves display names to registered user IDs.
type Directory interface {
	// FindUserIDByName returns the user ID for an exact display-name match,
	// or "" when no registered user has that name. A lookup miss is not an
	// error.
	FindUserIDByName(ctx context.Context, name string) (string, error)
}

// IdentityResolver maps raw participant identifiers ("You", a user ID, or a
// display name) to ParticipantRefs. Resolution happens exactly once per
// request at the boundary so downstream logic never re-parses strings.
type IdentityResolver struct {
	dir Directory
}

// NewIdentityResolver creates a resolver backed by the given directory.
func NewIdentityResolver(dir Directory) *IdentityResolver {
	return &IdentityResolver{dir: dir}
}

// Resolve maps an identifier to a ParticipantRef.
//
// "You" resolves to the requesting user. A syntactically valid UUID is
// trusted as an already-resolved user ID. Anything else is looked up by
// display name; a miss yields an unregistered ref.
func (r *IdentityResolver) Resolve(ctx context.Context, identifier, requestingUserID string) (ParticipantRef, error) {
	if identifier == You {
		return KnownParticipant(requestingUserID), nil
	}
	if _, err := uuid.Parse(identifier); err == nil {
		return KnownParticipant(identifier), nil
	}
	userID, err := r.dir.FindUserIDByName(ctx, identifier)
	if err != nil {
		return ParticipantRef{}, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	if userID != "" {
		return KnownParticipant(userID), nil
	}
	return UnregisteredParticipant(identifier), nil
}
