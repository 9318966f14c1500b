package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
)

// AdminStore holds the mutations admin actions are allowed to perform on the
// identity data: provisioning, role changes and the approver toggle. Everything
// the resolver reads goes through IdentityStore instead.
type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

func (s *AdminStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Image,
			&u.IsApprover, &u.GlobalAccess, &u.RoleID, &u.ManagementLevelID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *AdminStore) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.Must(uuid.NewV4()).String()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, first_name, last_name, password_hash, image,
			is_approver, global_access, role_id, management_level_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Image,
		u.IsApprover, u.GlobalAccess, u.RoleID, u.ManagementLevelID, u.CreatedAt, u.UpdatedAt)
	return err
}

// SetUserRole assigns the named role, or clears the role when name is empty.
func (s *AdminStore) SetUserRole(ctx context.Context, userID, roleName string) error {
	var roleID *string
	if roleName != "" {
		var id string
		err := s.db.QueryRowContext(ctx, `SELECT id FROM roles WHERE name = $1`, roleName).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		roleID = &id
	}
	return s.updateUser(ctx, userID,
		`UPDATE users SET role_id = $1, updated_at = $2 WHERE id = $3`, roleID)
}

func (s *AdminStore) SetApprover(ctx context.Context, userID string, isApprover bool) error {
	return s.updateUser(ctx, userID,
		`UPDATE users SET is_approver = $1, updated_at = $2 WHERE id = $3`, isApprover)
}

func (s *AdminStore) updateUser(ctx context.Context, userID, query string, value any) error {
	res, err := s.db.ExecContext(ctx, query, value, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AdminStore) CreateTeam(ctx context.Context, t *Team) error {
	if t.ID == "" {
		t.ID = uuid.Must(uuid.NewV4()).String()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO teams (id, name) VALUES ($1, $2)`, t.ID, t.Name)
	return err
}

func (s *AdminStore) AddTeamMember(ctx context.Context, m TeamMembership) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO team_memberships (team_id, user_id, is_admin) VALUES ($1, $2, $3)`,
		m.TeamID, m.UserID, m.IsAdmin)
	return err
}

func (s *AdminStore) CreateFile(ctx context.Context, f *File) error {
	if f.ID == "" {
		f.ID = uuid.Must(uuid.NewV4()).String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (id, name, owner_id, folder, created_at) VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.Name, f.OwnerID, f.Folder, f.CreatedAt)
	return err
}

func (s *AdminStore) LinkAccount(ctx context.Context, a *LinkedAccount) error {
	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV4()).String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO linked_accounts (id, user_id, provider, provider_account_id) VALUES ($1, $2, $3, $4)`,
		a.ID, a.UserID, a.Provider, a.ProviderAccountID)
	return err
}
