package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofrs/uuid/v5"
)

type AuditStore struct {
	db *sql.DB
}

func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Record appends an audit entry. Audit failures are returned but callers
// generally log and continue; the trail is best-effort, not transactional.
func (s *AuditStore) Record(ctx context.Context, actor, action, details string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, actor, action, details, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.Must(uuid.NewV4()).String(), actor, action, details, time.Now().UTC())
	return err
}

func (s *AuditStore) Recent(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, actor, action, details, created_at FROM audit_log ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
