package service

import (
	"context"
	"errors"
	"sort"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/dahandin"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrItemNotFound        = errors.New("item not found")
	ErrInsufficientCookies = errors.New("insufficient cookies")
	ErrLevelRequired       = errors.New("level requirement not met")
	ErrBadgeRequired       = errors.New("badge requirement not met")
	ErrAlreadyOwned        = errors.New("item already owned")
	ErrNotDonationItem     = errors.New("item is not a donation item")
	ErrDonationItem        = errors.New("donation items cannot be purchased")
	ErrNotEquippable       = errors.New("item cannot be equipped")
	ErrNotOwned            = errors.New("item not in inventory")
)

// ShopService resolves catalogs and runs the purchase/donation/equip flows.
// All validation happens before any write.
type ShopService struct {
	items     *repository.ItemRepository
	inventory *repository.InventoryRepository
	students  *repository.StudentRepository
	ledger    *LedgerService
}

func NewShopService(db *pgxpool.Pool) *ShopService {
	return &ShopService{
		items:     repository.NewItemRepository(db),
		inventory: repository.NewInventoryRepository(db),
		students:  repository.NewStudentRepository(db),
		ledger:    NewLedgerService(db),
	}
}

// Catalog returns the items visible from one scope: the scope's own items
// plus the global collection with per-class hidden flags resolved. The
// global scope manages only its own collection, nothing is merged in.
// includeHidden keeps hidden globals in the result (teacher view).
func (s *ShopService) Catalog(ctx context.Context, scope classpath.Scope, includeHidden bool) ([]*domain.ShopItem, error) {
	local, err := s.items.ListByScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	items := local
	if !scope.IsGlobal() {
		global, err := s.items.ListByScope(ctx, classpath.GlobalScope)
		if err != nil {
			return nil, err
		}
		hidden, err := s.items.HiddenGlobalItems(ctx, scope)
		if err != nil {
			return nil, err
		}
		for _, item := range global {
			item.IsHidden = hidden[item.ID]
			if item.IsHidden && !includeHidden {
				continue
			}
			items = append(items, item)
		}
	}

	sortCatalog(items)
	return items, nil
}

// visibleItem loads an item the way a student sees the shop: local first,
// then non-hidden globals.
func (s *ShopService) visibleItem(ctx context.Context, scope classpath.Scope, itemID string) (*domain.ShopItem, error) {
	item, err := s.items.GetByID(ctx, scope, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil && !scope.IsGlobal() {
		item, err = s.items.GetByID(ctx, classpath.GlobalScope, itemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			hidden, err := s.items.HiddenGlobalItems(ctx, scope)
			if err != nil {
				return nil, err
			}
			if hidden[item.ID] {
				return nil, ErrItemNotFound
			}
		}
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// Purchase validates the gates and then atomically records the spend and
// adds the item to the inventory.
func (s *ShopService) Purchase(ctx context.Context, scope classpath.Scope, studentCode string, itemID string, total *dahandin.StudentTotal) (*domain.CookieLogEntry, error) {
	item, err := s.visibleItem(ctx, scope, itemID)
	if err != nil {
		return nil, err
	}
	if item.IsDonation {
		return nil, ErrDonationItem
	}

	// Equip-once categories cannot be bought twice; consumable "others"
	// items stack instead.
	if item.Category.Equippable() {
		owned, err := s.inventory.Owns(ctx, scope, studentCode, item.ID)
		if err != nil {
			return nil, err
		}
		if owned {
			return nil, ErrAlreadyOwned
		}
	}

	if err := s.checkGates(ctx, scope, studentCode, item, total); err != nil {
		return nil, err
	}

	return s.ledger.Record(ctx, scope, studentCode, item.Price, domain.KindPurchase, item, func(tx pgx.Tx) error {
		return s.inventory.AddWithTx(ctx, tx, scope, studentCode, item)
	})
}

// Donate validates the balance and records a donation, which also raises
// the class love temperature.
func (s *ShopService) Donate(ctx context.Context, scope classpath.Scope, studentCode string, itemID string, total *dahandin.StudentTotal) (*domain.CookieLogEntry, error) {
	item, err := s.visibleItem(ctx, scope, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsDonation {
		return nil, ErrNotDonationItem
	}

	if err := s.checkGates(ctx, scope, studentCode, item, total); err != nil {
		return nil, err
	}

	return s.ledger.Record(ctx, scope, studentCode, item.Price, domain.KindDonation, item, nil)
}

func (s *ShopService) checkGates(ctx context.Context, scope classpath.Scope, studentCode string, item *domain.ShopItem, total *dahandin.StudentTotal) error {
	balance, err := s.ledger.Balance(ctx, scope, studentCode, total.EarnedTotal())
	if err != nil {
		return err
	}
	return CheckItemGates(item, balance.Spendable, domain.Level(total.EarnedLifetime()), total.HasBadge)
}

// Inventory lists everything the student owns, most recent purchase first.
func (s *ShopService) Inventory(ctx context.Context, scope classpath.Scope, studentCode string) ([]*domain.InventoryEntry, error) {
	return s.inventory.List(ctx, scope, studentCode)
}

// Equip sets the item into its category slot. The item must be owned and
// belong to an equippable category.
func (s *ShopService) Equip(ctx context.Context, scope classpath.Scope, studentCode, itemID string) (domain.EquippedSet, error) {
	owned, err := s.inventory.List(ctx, scope, studentCode)
	if err != nil {
		return nil, err
	}

	var item *domain.ShopItem
	for _, entry := range owned {
		if entry.ItemID == itemID {
			it := entry.Item
			item = &it
			break
		}
	}
	if item == nil {
		return nil, ErrNotOwned
	}
	if !item.Category.Equippable() {
		return nil, ErrNotEquippable
	}

	if err := s.students.Equip(ctx, scope, studentCode, item); err != nil {
		return nil, err
	}
	return s.students.Equipped(ctx, scope, studentCode)
}

// Unequip clears one category slot.
func (s *ShopService) Unequip(ctx context.Context, scope classpath.Scope, studentCode string, category domain.ItemCategory) (domain.EquippedSet, error) {
	if !category.Valid() {
		return nil, ErrNotEquippable
	}
	if err := s.students.Unequip(ctx, scope, studentCode, category); err != nil {
		return nil, err
	}
	return s.students.Equipped(ctx, scope, studentCode)
}

// CheckItemGates enforces the pre-write validation order: balance, level,
// badge. The first failed gate wins.
func CheckItemGates(item *domain.ShopItem, spendable int64, level int, hasBadge func(string) bool) error {
	if spendable < item.Price {
		return ErrInsufficientCookies
	}
	if item.RequiredLevel > 0 && level < item.RequiredLevel {
		return ErrLevelRequired
	}
	if item.RequiredBadge != "" && !hasBadge(item.RequiredBadge) {
		return ErrBadgeRequired
	}
	return nil
}

// sortCatalog orders donation items first, then everything alphabetically.
func sortCatalog(items []*domain.ShopItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsDonation != items[j].IsDonation {
			return items[i].IsDonation
		}
		return items[i].Name < items[j].Name
	})
}
