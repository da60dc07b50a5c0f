package repository

import (
	"context"
	"encoding/json"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository records teacher/admin catalog management actions.
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit entry.
func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	detailsJSON, err := json.Marshal(entry.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_log (scope, actor_id, actor_role, action, details)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.Scope, entry.ActorID, entry.ActorRole, entry.Action, detailsJSON)
	return err
}

// Recent returns the latest audit entries for one scope.
func (r *AuditRepository) Recent(ctx context.Context, scope classpath.Scope, limit int) ([]*domain.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, scope, actor_id, actor_role, action, details, created_at
		FROM audit_log
		WHERE scope = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, scope.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

func scanAuditEntries(rows pgx.Rows) ([]*domain.AuditLog, error) {
	var entries []*domain.AuditLog
	for rows.Next() {
		var (
			e           domain.AuditLog
			detailsJSON []byte
		)
		if err := rows.Scan(&e.ID, &e.Scope, &e.ActorID, &e.ActorRole, &e.Action, &detailsJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(detailsJSON) > 0 {
			_ = json.Unmarshal(detailsJSON, &e.Details)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
