package store

import (
	"context"
	"database/sql"
	"errors"
)

// IdentityStore is the read-only boundary the access resolver and the claim
// enricher depend on. It performs no caching and no decision logic; every
// missing row is reported as ErrNotFound.
type IdentityStore struct {
	db *sql.DB
}

func NewIdentityStore(db *sql.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

const userColumns = `id, email, first_name, last_name, password_hash, image,
	is_approver, global_access, role_id, management_level_id, created_at, updated_at`

func (s *IdentityStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *IdentityStore) FindUserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *IdentityStore) FindRoleName(ctx context.Context, roleID string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM roles WHERE id = $1`, roleID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

func (s *IdentityStore) ManagementLevelName(ctx context.Context, id string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM management_levels WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

func (s *IdentityStore) ListTeamMemberships(ctx context.Context, userID string) ([]TeamMembership, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT team_id, user_id, is_admin FROM team_memberships WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TeamMembership
	for rows.Next() {
		var m TeamMembership
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.IsAdmin); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *IdentityStore) CountOwnedFiles(ctx context.Context, userID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM files WHERE owner_id = $1`, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *IdentityStore) FindFileOwner(ctx context.Context, fileID string) (string, error) {
	var owner string
	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM files WHERE id = $1`, fileID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return owner, nil
}

func (s *IdentityStore) HasLinkedAccount(ctx context.Context, userID string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM linked_accounts WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Image,
		&u.IsApprover, &u.GlobalAccess, &u.RoleID, &u.ManagementLevelID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
