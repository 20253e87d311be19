package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/routinelog/internal/constants"
	apperrors "github.com/julianstephens/routinelog/internal/errors"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/storage"
	"github.com/julianstephens/routinelog/internal/validation"
)

// CreateUserProfile stores the searchable profile of a user. A username
// already taken yields an error wrapping storage.ErrConflict.
func (c *Client) CreateUserProfile(ctx context.Context, profile models.UserProfile) error {
	if err := validation.Username(profile.Username); err != nil {
		return err
	}
	return apperrors.WriteFailed("createUserProfile", c.store.SaveProfile(ctx, profile))
}

func (c *Client) GetUserProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	p, err := c.store.GetProfile(ctx, uid)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchUserByUsername finds a profile by exact username, ignoring case.
// It returns nil when nobody has that username.
func (c *Client) SearchUserByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	p, err := c.store.GetProfileByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SendFriendRequest asks to.UID to become friends with from.UID.
func (c *Client) SendFriendRequest(ctx context.Context, from, to models.UserProfile) (string, error) {
	if from.UID == to.UID {
		return "", apperrors.ErrSelfRequest
	}

	if _, err := c.store.GetFriendship(ctx, from.UID, to.UID); err == nil {
		return "", apperrors.ErrAlreadyFriends
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	for _, q := range []models.FriendRequestQuery{
		{FromID: from.UID, ToID: to.UID, Status: constants.FriendRequestPending},
		{FromID: to.UID, ToID: from.UID, Status: constants.FriendRequestPending},
	} {
		pending, err := c.store.ListFriendRequests(ctx, q)
		if err != nil {
			return "", err
		}
		if len(pending) > 0 {
			return "", apperrors.ErrRequestPending
		}
	}

	id, err := c.store.AddFriendRequest(ctx, models.FriendRequest{
		FromID:       from.UID,
		FromUsername: from.Username,
		ToID:         to.UID,
		ToUsername:   to.Username,
		Status:       constants.FriendRequestPending,
	})
	if err != nil {
		return "", apperrors.WriteFailed("sendFriendRequest", err)
	}
	return id, nil
}

// GetIncomingRequests returns the pending requests addressed to uid.
func (c *Client) GetIncomingRequests(ctx context.Context, uid string) ([]models.FriendRequest, error) {
	return c.store.ListFriendRequests(ctx, models.FriendRequestQuery{ToID: uid, Status: constants.FriendRequestPending})
}

func (c *Client) SubscribeToIncomingRequests(ctx context.Context, uid string, callback func([]models.FriendRequest)) *Subscription {
	return watch(ctx, c, uid, constants.CollectionFriendRequests, func(ctx context.Context) ([]models.FriendRequest, error) {
		return c.GetIncomingRequests(ctx, uid)
	}, callback)
}

// RespondToFriendRequest accepts or rejects a pending request addressed to
// uid. Accepting writes a friendship record on each side with the default
// permissions.
func (c *Client) RespondToFriendRequest(ctx context.Context, uid, requestID string, accept bool) error {
	req, err := c.store.GetFriendRequest(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to load friend request: %w", err)
	}
	if req.ToID != uid {
		return fmt.Errorf("friend request %s is not addressed to you: %w", requestID, storage.ErrNotFound)
	}
	if req.Status != constants.FriendRequestPending {
		return apperrors.ErrRequestClosed
	}

	if !accept {
		return apperrors.WriteFailed("rejectFriendRequest", c.store.SetFriendRequestStatus(ctx, requestID, constants.FriendRequestRejected))
	}

	if err := c.store.SetFriendRequestStatus(ctx, requestID, constants.FriendRequestAccepted); err != nil {
		return apperrors.WriteFailed("acceptFriendRequest", err)
	}
	perms := models.DefaultPermissions()
	if err := c.store.SaveFriendship(ctx, req.ToID, models.Friendship{UID: req.FromID, Username: req.FromUsername, Permissions: perms}); err != nil {
		return apperrors.WriteFailed("acceptFriendRequest", err)
	}
	if err := c.store.SaveFriendship(ctx, req.FromID, models.Friendship{UID: req.ToID, Username: req.ToUsername, Permissions: perms}); err != nil {
		return apperrors.WriteFailed("acceptFriendRequest", err)
	}
	return nil
}

// GetFriends lists the friendship records uid has granted.
func (c *Client) GetFriends(ctx context.Context, uid string) ([]models.Friendship, error) {
	return c.store.ListFriendships(ctx, uid)
}

func (c *Client) SubscribeToFriends(ctx context.Context, uid string, callback func([]models.Friendship)) *Subscription {
	return watch(ctx, c, uid, constants.CollectionFriends, func(ctx context.Context) ([]models.Friendship, error) {
		return c.GetFriends(ctx, uid)
	}, callback)
}

// RemoveFriend deletes the friendship records on both sides.
func (c *Client) RemoveFriend(ctx context.Context, uid, friendID string) error {
	if err := c.store.DeleteFriendship(ctx, uid, friendID); err != nil {
		return apperrors.WriteFailed("removeFriend", err)
	}
	return apperrors.WriteFailed("removeFriend", c.store.DeleteFriendship(ctx, friendID, uid))
}

// UpdateFriendPermissions sets what friendID may see of uid's data.
func (c *Client) UpdateFriendPermissions(ctx context.Context, uid, friendID string, perms models.Permissions) error {
	return apperrors.WriteFailed("updateFriendPermissions", c.store.UpdateFriendPermissions(ctx, uid, friendID, perms))
}

// GetFriendshipStatus resolves what viewerUID may see of ownerUID's data:
// the owner's record naming the viewer. No record means apperrors.ErrNotFriends.
func (c *Client) GetFriendshipStatus(ctx context.Context, viewerUID, ownerUID string) (models.Friendship, error) {
	f, err := c.store.GetFriendship(ctx, ownerUID, viewerUID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Friendship{}, apperrors.ErrNotFriends
	}
	return f, err
}

// DeleteAllUserData removes every document of uid along with the friendship
// records and friend requests naming uid.
func (c *Client) DeleteAllUserData(ctx context.Context, uid string) error {
	return apperrors.WriteFailed("deleteAllUserData", c.store.DeleteUserData(ctx, uid))
}
