package sqlstore

import (
	"context"
	"fmt"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/storage"
)

// CreateAccount stores a credential record and returns its uid. A duplicate
// email yields storage.ErrConflict.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (string, error) {
	uid := account.UID
	if uid == "" {
		uid = newID()
	}
	_, err := s.exec(ctx, "INSERT INTO accounts (uid, email, password_hash) VALUES (?, ?, ?)",
		uid, account.Email, account.PasswordHash)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return "", storage.ErrConflict
		}
		return "", err
	}
	return uid, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	var a models.Account
	err := s.queryRow(ctx, "SELECT uid, email, password_hash, created_at FROM accounts WHERE email = ?", email).
		Scan(&a.UID, &a.Email, &a.PasswordHash, scanTime(&a.CreatedAt))
	if err != nil {
		return models.Account{}, notFound(err)
	}
	return a, nil
}

func (s *Store) DeleteAccount(ctx context.Context, uid string) error {
	return s.execOne(ctx, "DELETE FROM accounts WHERE uid = ?", uid)
}

// DeleteUserData removes the user's groups, items, logs and presets, every
// friendship in either direction, every friend request naming the user and
// the profile, in one transaction.
func (s *Store) DeleteUserData(ctx context.Context, userID string) error {
	friends, err := s.ListFriendships(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list friendships: %w", err)
	}
	requests, err := s.ListFriendRequests(ctx, models.FriendRequestQuery{FromID: userID})
	if err != nil {
		return fmt.Errorf("failed to list friend requests: %w", err)
	}
	incoming, err := s.ListFriendRequests(ctx, models.FriendRequestQuery{ToID: userID})
	if err != nil {
		return fmt.Errorf("failed to list friend requests: %w", err)
	}
	requests = append(requests, incoming...)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmts := []struct {
		query string
		args  []any
	}{
		{"DELETE FROM logs WHERE user_id = ?", []any{userID}},
		{"DELETE FROM items WHERE user_id = ?", []any{userID}},
		{"DELETE FROM item_groups WHERE user_id = ?", []any{userID}},
		{"DELETE FROM presets WHERE user_id = ?", []any{userID}},
		{"DELETE FROM friendships WHERE owner_id = ? OR friend_id = ?", []any{userID, userID}},
		{"DELETE FROM friend_requests WHERE from_id = ? OR to_id = ?", []any{userID, userID}},
		{"DELETE FROM profiles WHERE uid = ?", []any{userID}},
	}
	for _, st := range stmts {
		if _, err := tx.ExecContext(ctx, s.dialect.Rebind(st.query), st.args...); err != nil {
			return fmt.Errorf("failed to delete user data: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion: %w", err)
	}

	changes := []storage.Change{}
	for _, c := range []constants.Collection{
		constants.CollectionGroups, constants.CollectionItems, constants.CollectionLogs,
		constants.CollectionPresets, constants.CollectionFriends, constants.CollectionFriendRequests,
		constants.CollectionProfiles,
	} {
		changes = append(changes, storage.Change{UserID: userID, Collection: c})
	}
	for _, f := range friends {
		changes = append(changes, storage.Change{UserID: f.UID, Collection: constants.CollectionFriends})
	}
	for _, r := range requests {
		other := r.ToID
		if other == userID {
			other = r.FromID
		}
		changes = append(changes, storage.Change{UserID: other, Collection: constants.CollectionFriendRequests})
	}
	s.notify(ctx, changes...)
	return nil
}
