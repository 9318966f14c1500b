package store

import "time"

type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	PasswordHash      string    `json:"-"`
	Image             string    `json:"image,omitempty"`
	IsApprover        bool      `json:"is_approver"`
	GlobalAccess      int       `json:"global_access"`
	RoleID            *string   `json:"role_id,omitempty"`
	ManagementLevelID *string   `json:"management_level_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ManagementLevel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamMembership links a user to a team. IsAdmin is scoped to that one team;
// "any team admin" is a derived fact computed by the access resolver.
type TeamMembership struct {
	TeamID  string `json:"team_id"`
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	Folder    string    `json:"folder,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LinkedAccount records an external identity-provider account tied to a user.
// Its existence is what makes a session "oauth" at claim-enrichment time.
type LinkedAccount struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	Provider          string `json:"provider"`
	ProviderAccountID string `json:"provider_account_id"`
}

type AuditEntry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
