package repository

import (
	"context"
	"encoding/json"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StudentRepository struct {
	db *pgxpool.Pool
}

func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

// Sync merge-upserts the student account doc. Accounts come into existence
// on first write, there is no explicit create.
func (r *StudentRepository) Sync(ctx context.Context, scope classpath.Scope, code, name string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO students (scope, code, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (scope, code) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
	`, scope.String(), code, name)
	return err
}

// Get returns the account doc or (nil, nil) when the student has never
// written anything in this class.
func (r *StudentRepository) Get(ctx context.Context, scope classpath.Scope, code string) (*domain.Student, error) {
	row := r.db.QueryRow(ctx, `
		SELECT scope, code, name, used_cookies, donated_cookies, updated_at
		FROM students
		WHERE scope = $1 AND code = $2
	`, scope.String(), code)

	var s domain.Student
	if err := row.Scan(&s.Scope, &s.Code, &s.Name, &s.UsedCookies, &s.DonatedCookies, &s.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Equipped returns the student's current avatar configuration.
func (r *StudentRepository) Equipped(ctx context.Context, scope classpath.Scope, code string) (domain.EquippedSet, error) {
	rows, err := r.db.Query(ctx, `
		SELECT category, item
		FROM equipped_items
		WHERE scope = $1 AND student_code = $2
	`, scope.String(), code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(domain.EquippedSet)
	for rows.Next() {
		var (
			category string
			itemJSON []byte
		)
		if err := rows.Scan(&category, &itemJSON); err != nil {
			return nil, err
		}
		var item domain.ShopItem
		if err := json.Unmarshal(itemJSON, &item); err != nil {
			return nil, err
		}
		set[domain.ItemCategory(category)] = item
	}
	return set, rows.Err()
}

// Equip sets the single slot for the item's category, replacing whatever
// was equipped there.
func (r *StudentRepository) Equip(ctx context.Context, scope classpath.Scope, code string, item *domain.ShopItem) error {
	itemJSON, err := json.Marshal(item)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO equipped_items (scope, student_code, category, item)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scope, student_code, category) DO UPDATE SET item = EXCLUDED.item
	`, scope.String(), code, item.Category, itemJSON)
	return err
}

// Unequip clears the slot for a category. Clearing an empty slot is a no-op.
func (r *StudentRepository) Unequip(ctx context.Context, scope classpath.Scope, code string, category domain.ItemCategory) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM equipped_items
		WHERE scope = $1 AND student_code = $2 AND category = $3
	`, scope.String(), code, category)
	return err
}
