package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/resolveapp/resolve/internal/models"
	"github.com/resolveapp/resolve/internal/storage"
)

// GroupService manages the groups that scope shared expenses. Group
// membership backs the split resolver's member checks.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a group service with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group. The creator is always a member, whether or not
// the submitted member list includes them.
func (s *GroupService) CreateGroup(ctx context.Context, name, description string, memberIDs []string, creatorUserID string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErrorf("group name is required")
	}

	members := []string{creatorUserID}
	seen := map[string]bool{creatorUserID: true}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		user, err := s.store.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, validationErrorf("group member %q is not a registered user", id)
		}
		seen[id] = true
		members = append(members, id)
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   creatorUserID,
		Members:     members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "name", name, "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "members", len(group.Members))
	return group, nil
}

// GetGroup retrieves a group; only members may see it.
func (s *GroupService) GetGroup(ctx context.Context, groupID, requestingUserID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(requestingUserID) {
		return nil, storage.ErrNotFound
	}
	return group, nil
}

// ListGroups returns the groups the user belongs to.
func (s *GroupService) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsForUser(ctx, userID)
}
