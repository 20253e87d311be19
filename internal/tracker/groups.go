package tracker

import (
	"context"
	"sort"

	"github.com/julianstephens/routinelog/internal/constants"
	apperrors "github.com/julianstephens/routinelog/internal/errors"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/validation"
)

func sortGroups(groups []models.Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreatedAt.Before(groups[j].CreatedAt)
	})
}

func (c *Client) AddGroup(ctx context.Context, userID, name, color string) (string, error) {
	name, err := validation.Name(name)
	if err != nil {
		return "", err
	}
	if err := validation.Color(color); err != nil {
		return "", err
	}
	id, err := c.store.AddGroup(ctx, userID, models.Group{Name: name, Color: color})
	if err != nil {
		return "", apperrors.WriteFailed("addGroup", err)
	}
	return id, nil
}

// UpdateGroup changes only the provided fields. Items keep their group
// snapshots until they are re-saved.
func (c *Client) UpdateGroup(ctx context.Context, userID, groupID string, update models.GroupUpdate) error {
	if update.Name != nil {
		name, err := validation.Name(*update.Name)
		if err != nil {
			return err
		}
		update.Name = &name
	}
	if update.Color != nil {
		if err := validation.Color(*update.Color); err != nil {
			return err
		}
	}
	if update.IsEmpty() {
		return nil
	}
	return apperrors.WriteFailed("updateGroup", c.store.UpdateGroup(ctx, userID, groupID, update))
}

// DeleteGroup removes the group only; its items keep the dangling group id.
func (c *Client) DeleteGroup(ctx context.Context, userID, groupID string) error {
	return apperrors.WriteFailed("deleteGroup", c.store.DeleteGroup(ctx, userID, groupID))
}

// GetGroups returns all groups ordered by creation time.
func (c *Client) GetGroups(ctx context.Context, userID string) ([]models.Group, error) {
	groups, err := c.store.ListGroups(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortGroups(groups)
	return groups, nil
}

func (c *Client) SubscribeToGroups(ctx context.Context, userID string, callback func([]models.Group)) *Subscription {
	return watch(ctx, c, userID, constants.CollectionGroups, func(ctx context.Context) ([]models.Group, error) {
		return c.GetGroups(ctx, userID)
	}, callback)
}

// EnsureDefaultGroup returns the id of the group named Genel, else the
// oldest group, else a newly created Genel group.
func (c *Client) EnsureDefaultGroup(ctx context.Context, userID string) (string, error) {
	named, err := c.store.FindGroupsByName(ctx, userID, constants.DefaultGroupName)
	if err != nil {
		return "", err
	}
	if len(named) > 0 {
		sortGroups(named)
		return named[0].ID, nil
	}

	groups, err := c.GetGroups(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(groups) > 0 {
		return groups[0].ID, nil
	}

	return c.AddGroup(ctx, userID, constants.DefaultGroupName, constants.DefaultGroupColor)
}
