package sqlstore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/storage"
)

const profileColumns = "uid, username, display_name, photo_url, created_at"

// SaveProfile creates or replaces the profile of profile.UID. A username
// already taken by another user (case-insensitively) yields storage.ErrConflict.
func (s *Store) SaveProfile(ctx context.Context, profile models.UserProfile) error {
	_, err := s.exec(ctx, `
		INSERT INTO profiles (uid, username, username_lower, display_name, photo_url)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (uid) DO UPDATE SET
			username = excluded.username,
			username_lower = excluded.username_lower,
			display_name = excluded.display_name,
			photo_url = excluded.photo_url`,
		profile.UID, profile.Username, strings.ToLower(profile.Username),
		nullable(profile.DisplayName), nullable(profile.PhotoURL))
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return storage.ErrConflict
		}
		return err
	}
	s.changed(ctx, profile.UID, constants.CollectionProfiles)
	return nil
}

func (s *Store) GetProfile(ctx context.Context, uid string) (models.UserProfile, error) {
	return s.getProfile(ctx, "SELECT "+profileColumns+" FROM profiles WHERE uid = ?", uid)
}

// GetProfileByUsername matches the username exactly, ignoring case.
func (s *Store) GetProfileByUsername(ctx context.Context, username string) (models.UserProfile, error) {
	return s.getProfile(ctx, "SELECT "+profileColumns+" FROM profiles WHERE username_lower = ?", strings.ToLower(username))
}

func (s *Store) getProfile(ctx context.Context, query string, arg string) (models.UserProfile, error) {
	var p models.UserProfile
	var displayName, photoURL sql.NullString
	err := s.queryRow(ctx, query, arg).Scan(&p.UID, &p.Username, &displayName, &photoURL, scanTime(&p.CreatedAt))
	if err != nil {
		return models.UserProfile{}, notFound(err)
	}
	p.DisplayName = displayName.String
	p.PhotoURL = photoURL.String
	return p, nil
}
