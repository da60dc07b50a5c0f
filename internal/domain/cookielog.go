package domain

import "time"

// LogKind classifies a cookie log entry.
type LogKind string

const (
	KindPurchase LogKind = "purchase"
	KindDonation LogKind = "donation"
)

// CookieLogEntry is one immutable spend record. The log is append-only and
// is the source of truth for balances: spendable = earned total from the
// points service minus the sum of all entry amounts for the student.
type CookieLogEntry struct {
	ID        int64     `db:"id" json:"id"`
	Scope     string    `db:"scope" json:"-"`
	Student   string    `db:"student_code" json:"student_code"`
	Amount    int64     `db:"amount" json:"amount"`
	Kind      LogKind   `db:"kind" json:"kind"`
	ItemID    string    `db:"item_id" json:"item_id,omitempty"`
	ItemName  string    `db:"item_name" json:"item_name,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LoveDegreesPerCookie converts donated cookies into love temperature:
// 10 cookies raise the class thermometer by 0.1 degree.
const LoveDegreesPerCookie = 0.01

// Balance is the derived view returned to a student session.
type Balance struct {
	EarnedTotal int64 `json:"earned_total"`
	Spent       int64 `json:"spent"`
	Spendable   int64 `json:"spendable"`
	Donated     int64 `json:"donated"`
}
