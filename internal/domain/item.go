package domain

import "time"

// ItemCategory is the visual slot an item occupies on the avatar.
type ItemCategory string

const (
	CategoryBackground ItemCategory = "background"
	CategoryHair       ItemCategory = "hair"
	CategoryFace       ItemCategory = "face"
	CategoryOutfit     ItemCategory = "outfit"
	CategoryAccessory  ItemCategory = "accessory"
	CategoryOthers     ItemCategory = "others"
)

// Valid reports whether c is one of the known categories.
func (c ItemCategory) Valid() bool {
	switch c {
	case CategoryBackground, CategoryHair, CategoryFace, CategoryOutfit, CategoryAccessory, CategoryOthers:
		return true
	}
	return false
}

// Equippable reports whether items of this category can occupy an avatar slot.
// "others" items are collectibles only.
func (c ItemCategory) Equippable() bool {
	return c.Valid() && c != CategoryOthers
}

// ItemStyle is the visual placement of an item when composed onto the avatar,
// all values in percent of the avatar box.
type ItemStyle struct {
	X     float64 `db:"pos_x" json:"x"`
	Y     float64 `db:"pos_y" json:"y"`
	Width float64 `db:"width" json:"width"`
}

// ShopItem is a purchasable catalog entry. Items are owned either by one
// class (Scope = class scope) or by the platform (Scope = global scope);
// global items can be hidden per class without touching the item itself.
type ShopItem struct {
	ID            string       `db:"id" json:"id"`
	Scope         string       `db:"scope" json:"-"`
	Name          string       `db:"name" json:"name"`
	Price         int64        `db:"price" json:"price"`
	ImageURL      string       `db:"image_url" json:"image_url,omitempty"`
	Description   string       `db:"description" json:"description,omitempty"`
	Category      ItemCategory `db:"category" json:"category"`
	IsDonation    bool         `db:"is_donation" json:"is_donation"`
	RequiredLevel int          `db:"required_level" json:"required_level,omitempty"`
	RequiredBadge string       `db:"required_badge" json:"required_badge,omitempty"`
	Style         *ItemStyle   `db:"style" json:"style,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`

	// Resolved per caller, not stored on the item row.
	IsGlobal bool `json:"is_global"`
	IsHidden bool `json:"is_hidden,omitempty"`
}

// InventoryEntry is an owned item snapshot. Re-purchasing the same item
// increments Quantity instead of adding a second entry.
type InventoryEntry struct {
	ItemID      string    `db:"item_id" json:"item_id"`
	Item        ShopItem  `db:"item" json:"item"`
	Quantity    int       `db:"quantity" json:"quantity"`
	PurchasedAt time.Time `db:"purchased_at" json:"purchased_at"`
}
