package repository

import (
	"context"
	"encoding/json"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InventoryRepository struct {
	db *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// AddWithTx adds one unit of the item to the student's inventory inside an
// existing transaction. Buying the same item again increments the quantity
// of the single existing entry.
func (r *InventoryRepository) AddWithTx(ctx context.Context, tx pgx.Tx, scope classpath.Scope, code string, item *domain.ShopItem) error {
	itemJSON, err := json.Marshal(item)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO inventory (scope, student_code, item_id, item, quantity)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (scope, student_code, item_id) DO UPDATE SET quantity = inventory.quantity + 1
	`, scope.String(), code, item.ID, itemJSON)
	return err
}

// List returns the student's owned items, newest purchases first.
func (r *InventoryRepository) List(ctx context.Context, scope classpath.Scope, code string) ([]*domain.InventoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT item_id, item, quantity, purchased_at
		FROM inventory
		WHERE scope = $1 AND student_code = $2
		ORDER BY purchased_at DESC
	`, scope.String(), code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.InventoryEntry
	for rows.Next() {
		var (
			e        domain.InventoryEntry
			itemJSON []byte
		)
		if err := rows.Scan(&e.ItemID, &itemJSON, &e.Quantity, &e.PurchasedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(itemJSON, &e.Item); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Owns reports whether the student already has the item.
func (r *InventoryRepository) Owns(ctx context.Context, scope classpath.Scope, code, itemID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM inventory
			WHERE scope = $1 AND student_code = $2 AND item_id = $3
		)
	`, scope.String(), code, itemID).Scan(&exists)
	return exists, err
}
