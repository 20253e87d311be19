package sqlstore

import (
	"context"
	"strings"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/storage"
)

const requestColumns = "id, from_id, from_username, to_id, to_username, status, created_at"

func requestChanges(req models.FriendRequest) []storage.Change {
	return []storage.Change{
		{UserID: req.FromID, Collection: constants.CollectionFriendRequests},
		{UserID: req.ToID, Collection: constants.CollectionFriendRequests},
	}
}

func (s *Store) AddFriendRequest(ctx context.Context, req models.FriendRequest) (string, error) {
	status := req.Status
	if status == "" {
		status = constants.FriendRequestPending
	}
	id := newID()
	_, err := s.exec(ctx, `
		INSERT INTO friend_requests (id, from_id, from_username, to_id, to_username, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, req.FromID, req.FromUsername, req.ToID, req.ToUsername, string(status))
	if err != nil {
		return "", err
	}
	s.notify(ctx, requestChanges(req)...)
	return id, nil
}

func scanRequest(row rowScanner) (models.FriendRequest, error) {
	var r models.FriendRequest
	var status string
	if err := row.Scan(&r.ID, &r.FromID, &r.FromUsername, &r.ToID, &r.ToUsername, &status, scanTime(&r.CreatedAt)); err != nil {
		return models.FriendRequest{}, err
	}
	r.Status = constants.FriendRequestStatus(status)
	return r, nil
}

func (s *Store) GetFriendRequest(ctx context.Context, id string) (models.FriendRequest, error) {
	r, err := scanRequest(s.queryRow(ctx, "SELECT "+requestColumns+" FROM friend_requests WHERE id = ?", id))
	return r, notFound(err)
}

func (s *Store) ListFriendRequests(ctx context.Context, q models.FriendRequestQuery) ([]models.FriendRequest, error) {
	var where []string
	var args []any
	if q.FromID != "" {
		where = append(where, "from_id = ?")
		args = append(args, q.FromID)
	}
	if q.ToID != "" {
		where = append(where, "to_id = ?")
		args = append(args, q.ToID)
	}
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}
	query := "SELECT " + requestColumns + " FROM friend_requests"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq"

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.FriendRequest{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *Store) SetFriendRequestStatus(ctx context.Context, id string, status constants.FriendRequestStatus) error {
	req, err := s.GetFriendRequest(ctx, id)
	if err != nil {
		return err
	}
	if err := s.execOne(ctx, "UPDATE friend_requests SET status = ? WHERE id = ?", string(status), id); err != nil {
		return err
	}
	s.notify(ctx, requestChanges(req)...)
	return nil
}

const friendshipColumns = "friend_id, username, since, view_calendar, view_details, hide_times"

func scanFriendship(row rowScanner) (models.Friendship, error) {
	var f models.Friendship
	err := row.Scan(&f.UID, &f.Username, scanTime(&f.Since),
		&f.Permissions.ViewCalendar, &f.Permissions.ViewDetails, &f.Permissions.HideTimes)
	return f, err
}

// SaveFriendship writes the owner's record naming friendship.UID. Since is
// assigned on first write and kept afterwards.
func (s *Store) SaveFriendship(ctx context.Context, ownerID string, f models.Friendship) error {
	_, err := s.exec(ctx, `
		INSERT INTO friendships (owner_id, friend_id, username, view_calendar, view_details, hide_times)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, friend_id) DO UPDATE SET
			username = excluded.username,
			view_calendar = excluded.view_calendar,
			view_details = excluded.view_details,
			hide_times = excluded.hide_times`,
		ownerID, f.UID, f.Username, f.Permissions.ViewCalendar, f.Permissions.ViewDetails, f.Permissions.HideTimes)
	if err != nil {
		return err
	}
	s.changed(ctx, ownerID, constants.CollectionFriends)
	return nil
}

func (s *Store) GetFriendship(ctx context.Context, ownerID, friendID string) (models.Friendship, error) {
	f, err := scanFriendship(s.queryRow(ctx,
		"SELECT "+friendshipColumns+" FROM friendships WHERE owner_id = ? AND friend_id = ?", ownerID, friendID))
	return f, notFound(err)
}

func (s *Store) ListFriendships(ctx context.Context, ownerID string) ([]models.Friendship, error) {
	rows, err := s.query(ctx, "SELECT "+friendshipColumns+" FROM friendships WHERE owner_id = ? ORDER BY since, friend_id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friends := []models.Friendship{}
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, err
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

func (s *Store) UpdateFriendPermissions(ctx context.Context, ownerID, friendID string, perms models.Permissions) error {
	err := s.execOne(ctx, `
		UPDATE friendships SET view_calendar = ?, view_details = ?, hide_times = ?
		WHERE owner_id = ? AND friend_id = ?`,
		perms.ViewCalendar, perms.ViewDetails, perms.HideTimes, ownerID, friendID)
	if err != nil {
		return err
	}
	s.changed(ctx, ownerID, constants.CollectionFriends)
	return nil
}

// DeleteFriendship removes the owner's record. A missing record is not an error.
func (s *Store) DeleteFriendship(ctx context.Context, ownerID, friendID string) error {
	if _, err := s.exec(ctx, "DELETE FROM friendships WHERE owner_id = ? AND friend_id = ?", ownerID, friendID); err != nil {
		return err
	}
	s.changed(ctx, ownerID, constants.CollectionFriends)
	return nil
}
