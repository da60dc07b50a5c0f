package domain

import "testing"

func TestItemCategoryEquippable(t *testing.T) {
	equippable := []ItemCategory{CategoryBackground, CategoryHair, CategoryFace, CategoryOutfit, CategoryAccessory}
	for _, c := range equippable {
		if !c.Equippable() {
			t.Fatalf("%s should be equippable", c)
		}
	}

	if CategoryOthers.Equippable() {
		t.Fatal("others items are collectibles, not equippable")
	}
	if ItemCategory("hat").Equippable() {
		t.Fatal("unknown category treated as equippable")
	}
	if ItemCategory("hat").Valid() {
		t.Fatal("unknown category treated as valid")
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		earned int64
		want   int
	}{
		{0, 0},
		{9, 0},
		{10, 1},
		{119, 11},
		{120, 12},
		{-5, 0},
	}
	for _, tt := range tests {
		if got := Level(tt.earned); got != tt.want {
			t.Fatalf("Level(%d) = %d, want %d", tt.earned, got, tt.want)
		}
	}
}
