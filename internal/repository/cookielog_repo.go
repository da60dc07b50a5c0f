package repository

import (
	"context"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CookieLogRepository manages the append-only spend log. Entries are never
// updated or deleted; balances are always derived by summing them.
type CookieLogRepository struct {
	db *pgxpool.Pool
}

func NewCookieLogRepository(db *pgxpool.Pool) *CookieLogRepository {
	return &CookieLogRepository{db: db}
}

// AppendWithTx writes one log entry inside an existing transaction.
func (r *CookieLogRepository) AppendWithTx(ctx context.Context, tx pgx.Tx, entry *domain.CookieLogEntry) error {
	return tx.QueryRow(ctx, `
		INSERT INTO cookie_log (scope, student_code, amount, kind, item_id, item_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, entry.Scope, entry.Student, entry.Amount, entry.Kind, entry.ItemID, entry.ItemName,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// SumSpent returns the total of all entries for a student, purchases and
// donations alike.
func (r *CookieLogRepository) SumSpent(ctx context.Context, scope classpath.Scope, code string) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM cookie_log
		WHERE scope = $1 AND student_code = $2
	`, scope.String(), code).Scan(&total)
	return total, err
}

// SumDonated returns the donation-only total for a student.
func (r *CookieLogRepository) SumDonated(ctx context.Context, scope classpath.Scope, code string) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM cookie_log
		WHERE scope = $1 AND student_code = $2 AND kind = $3
	`, scope.String(), code, domain.KindDonation).Scan(&total)
	return total, err
}

// History returns recent log entries, newest first.
func (r *CookieLogRepository) History(ctx context.Context, scope classpath.Scope, code string, limit int) ([]*domain.CookieLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, scope, student_code, amount, kind, item_id, item_name, created_at
		FROM cookie_log
		WHERE scope = $1 AND student_code = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, scope.String(), code, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func scanLogEntries(rows pgx.Rows) ([]*domain.CookieLogEntry, error) {
	var entries []*domain.CookieLogEntry
	for rows.Next() {
		var e domain.CookieLogEntry
		if err := rows.Scan(&e.ID, &e.Scope, &e.Student, &e.Amount, &e.Kind, &e.ItemID, &e.ItemName, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
