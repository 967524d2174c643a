package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/playperu/pickup/internal/pickup"
)

func (s *Store) CreateProfile(ctx context.Context, username, displayName, avatarURL string) (pickup.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return pickup.User{}, fmt.Errorf("%w: username is required", pickup.ErrValidation)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}
	u := pickup.User{
		ID:          newID(),
		Username:    username,
		DisplayName: strings.TrimSpace(displayName),
		AvatarURL:   avatarURL,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, username, display_name, avatar_url)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Username, u.DisplayName, u.AvatarURL)
	if err != nil {
		return pickup.User{}, fmt.Errorf("inserting profile: %w", err)
	}
	return u, nil
}

// FetchProfileByID returns nil without an error when the profile does not
// exist.
func (s *Store) FetchProfileByID(ctx context.Context, id string) (*pickup.User, error) {
	var u pickup.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, display_name, avatar_url FROM profiles WHERE id = ?
	`, id).Scan(&u.ID, &u.Username, &u.DisplayName, &u.AvatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FetchProfilesByIDs returns the profiles that exist, in no particular order.
func (s *Store) FetchProfilesByIDs(ctx context.Context, ids []string) ([]pickup.User, error) {
	if len(ids) == 0 {
		return []pickup.User{}, nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, display_name, avatar_url FROM profiles WHERE id IN (`+marks+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []pickup.User{}
	for rows.Next() {
		var u pickup.User
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.AvatarURL); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) CountProfiles(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM profiles`).Scan(&n)
	return n, err
}

func (s *Store) CreateSession(ctx context.Context, userID string) (string, error) {
	token := strings.ReplaceAll(newID(), "-", "")
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id) VALUES (?, ?)
	`, token, userID)
	if err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}
	return token, nil
}

func (s *Store) UserFromToken(ctx context.Context, token string) (pickup.User, error) {
	var u pickup.User
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.username, p.display_name, p.avatar_url
		FROM sessions s
		JOIN profiles p ON p.id = s.user_id
		WHERE s.token = ?
	`, token).Scan(&u.ID, &u.Username, &u.DisplayName, &u.AvatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return pickup.User{}, ErrNoSession
	}
	return u, err
}
