package repository

import (
	"context"
	"encoding/json"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ItemRepository struct {
	db *pgxpool.Pool
}

func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemColumns = `id, scope, name, price, image_url, description, category,
	is_donation, required_level, required_badge, style, created_at, updated_at`

// Create inserts a new item into the given scope and assigns its ID.
func (r *ItemRepository) Create(ctx context.Context, scope classpath.Scope, item *domain.ShopItem) error {
	item.ID = uuid.NewString()
	item.Scope = scope.String()

	styleJSON, err := marshalStyle(item.Style)
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO shop_items (id, scope, name, price, image_url, description,
			category, is_donation, required_level, required_badge, style)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`, item.ID, item.Scope, item.Name, item.Price, item.ImageURL, item.Description,
		item.Category, item.IsDonation, item.RequiredLevel, item.RequiredBadge, styleJSON,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
}

// GetByID returns the item or (nil, nil) when it does not exist in scope.
func (r *ItemRepository) GetByID(ctx context.Context, scope classpath.Scope, id string) (*domain.ShopItem, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM shop_items
		WHERE scope = $1 AND id = $2
	`, scope.String(), id)

	item, err := scanItem(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return item, err
}

// ListByScope returns all items owned by one scope.
func (r *ItemRepository) ListByScope(ctx context.Context, scope classpath.Scope) ([]*domain.ShopItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+itemColumns+`
		FROM shop_items
		WHERE scope = $1
	`, scope.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.ShopItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update rewrites the mutable fields of an item.
func (r *ItemRepository) Update(ctx context.Context, scope classpath.Scope, item *domain.ShopItem) error {
	styleJSON, err := marshalStyle(item.Style)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		UPDATE shop_items
		SET name = $3, price = $4, image_url = $5, description = $6, category = $7,
			is_donation = $8, required_level = $9, required_badge = $10, style = $11,
			updated_at = now()
		WHERE scope = $1 AND id = $2
	`, scope.String(), item.ID, item.Name, item.Price, item.ImageURL, item.Description,
		item.Category, item.IsDonation, item.RequiredLevel, item.RequiredBadge, styleJSON)
	return err
}

// Delete removes an item from its scope.
func (r *ItemRepository) Delete(ctx context.Context, scope classpath.Scope, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM shop_items WHERE scope = $1 AND id = $2`, scope.String(), id)
	return err
}

// HiddenGlobalItems returns the set of global item IDs hidden for scope.
func (r *ItemRepository) HiddenGlobalItems(ctx context.Context, scope classpath.Scope) (map[string]bool, error) {
	rows, err := r.db.Query(ctx, `
		SELECT item_id FROM hidden_global_items WHERE scope = $1
	`, scope.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hidden := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		hidden[id] = true
	}
	return hidden, rows.Err()
}

// HideGlobalItem adds a global item to the scope's hide set. The row set
// makes the toggle atomic, so concurrent teacher edits cannot lose updates.
func (r *ItemRepository) HideGlobalItem(ctx context.Context, scope classpath.Scope, itemID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO hidden_global_items (scope, item_id)
		VALUES ($1, $2)
		ON CONFLICT (scope, item_id) DO NOTHING
	`, scope.String(), itemID)
	return err
}

// UnhideGlobalItem removes a global item from the scope's hide set.
func (r *ItemRepository) UnhideGlobalItem(ctx context.Context, scope classpath.Scope, itemID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM hidden_global_items WHERE scope = $1 AND item_id = $2
	`, scope.String(), itemID)
	return err
}

func marshalStyle(style *domain.ItemStyle) ([]byte, error) {
	if style == nil {
		return nil, nil
	}
	return json.Marshal(style)
}

func scanItem(row pgx.Row) (*domain.ShopItem, error) {
	var (
		item      domain.ShopItem
		styleJSON []byte
	)
	if err := row.Scan(
		&item.ID, &item.Scope, &item.Name, &item.Price, &item.ImageURL,
		&item.Description, &item.Category, &item.IsDonation, &item.RequiredLevel,
		&item.RequiredBadge, &styleJSON, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(styleJSON) > 0 {
		var style domain.ItemStyle
		if err := json.Unmarshal(styleJSON, &style); err == nil {
			item.Style = &style
		}
	}
	item.IsGlobal = classpath.Scope(item.Scope).IsGlobal()
	return &item, nil
}
