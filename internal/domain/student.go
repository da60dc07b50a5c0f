package domain

import "time"

// Student is the per-class account document. Created implicitly on first
// write; the counters here are advisory caches of the cookie log and must
// never be trusted over it.
type Student struct {
	Scope          string    `db:"scope" json:"-"`
	Code           string    `db:"code" json:"code"`
	Name           string    `db:"name" json:"name"`
	UsedCookies    int64     `db:"used_cookies" json:"used_cookies"`
	DonatedCookies int64     `db:"donated_cookies" json:"donated_cookies"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// EquippedSet maps visual category to the currently equipped item snapshot,
// at most one item per category.
type EquippedSet map[ItemCategory]ShopItem

// Level derives the student level from lifetime earned cookies.
func Level(earnedLifetime int64) int {
	if earnedLifetime < 0 {
		return 0
	}
	return int(earnedLifetime / 10)
}
