package service

import (
	"errors"
	"testing"

	"github.com/WooDaeYoon/dahandinworld/internal/domain"
)

func TestSortCatalog(t *testing.T) {
	items := []*domain.ShopItem{
		{Name: "Wizard Hat", IsDonation: false},
		{Name: "Class Party Fund", IsDonation: true},
		{Name: "Blue Hair", IsDonation: false},
		{Name: "Aquarium Trip", IsDonation: true},
	}

	sortCatalog(items)

	want := []string{"Aquarium Trip", "Class Party Fund", "Blue Hair", "Wizard Hat"}
	for i, name := range want {
		if items[i].Name != name {
			t.Fatalf("position %d: got %q, want %q", i, items[i].Name, name)
		}
	}
}

func TestCheckItemGates(t *testing.T) {
	hasBadge := func(title string) bool { return title == "reader" }

	tests := []struct {
		name      string
		item      *domain.ShopItem
		spendable int64
		level     int
		wantErr   error
	}{
		{
			name:      "all gates pass",
			item:      &domain.ShopItem{Price: 10, RequiredLevel: 3, RequiredBadge: "reader"},
			spendable: 15,
			level:     5,
			wantErr:   nil,
		},
		{
			name:      "insufficient cookies",
			item:      &domain.ShopItem{Price: 20},
			spendable: 19,
			wantErr:   ErrInsufficientCookies,
		},
		{
			name:      "exact balance passes",
			item:      &domain.ShopItem{Price: 20},
			spendable: 20,
			wantErr:   nil,
		},
		{
			name:      "level too low",
			item:      &domain.ShopItem{Price: 5, RequiredLevel: 10},
			spendable: 100,
			level:     9,
			wantErr:   ErrLevelRequired,
		},
		{
			name:      "missing badge",
			item:      &domain.ShopItem{Price: 5, RequiredBadge: "mathlete"},
			spendable: 100,
			level:     99,
			wantErr:   ErrBadgeRequired,
		},
		{
			name:      "balance checked before level",
			item:      &domain.ShopItem{Price: 50, RequiredLevel: 10},
			spendable: 0,
			level:     0,
			wantErr:   ErrInsufficientCookies,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckItemGates(tt.item, tt.spendable, tt.level, hasBadge)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComputeBalance(t *testing.T) {
	// A student earned 120 in total and the log shows a 30-cookie purchase
	// and a 20-cookie donation.
	b := ComputeBalance(120, 50, 20)

	if b.Spendable != 70 {
		t.Fatalf("spendable: got %d, want 70", b.Spendable)
	}
	if b.Spent != 50 {
		t.Fatalf("spent: got %d, want 50", b.Spent)
	}
	if b.Donated != 20 {
		t.Fatalf("donated: got %d, want 20", b.Donated)
	}
	if b.EarnedTotal != 120 {
		t.Fatalf("earned total: got %d, want 120", b.EarnedTotal)
	}
}
