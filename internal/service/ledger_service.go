package service

import (
	"context"
	"errors"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/logger"
	"github.com/WooDaeYoon/dahandinworld/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
)

// LedgerService owns the cookie log: it appends immutable spend entries and
// derives balances from them. The mutable counters on the student doc are
// advisory telemetry and are never read back for balance math.
type LedgerService struct {
	db      *pgxpool.Pool
	logRepo *repository.CookieLogRepository
	classes *repository.ClassRepository
}

func NewLedgerService(db *pgxpool.Pool) *LedgerService {
	return &LedgerService{
		db:      db,
		logRepo: repository.NewCookieLogRepository(db),
		classes: repository.NewClassRepository(db),
	}
}

// Record appends one spend entry and updates the advisory counters in a
// single transaction. Donations additionally raise the class thermometer.
// The extra callback runs in the same transaction so purchases can attach
// their inventory write atomically.
func (s *LedgerService) Record(ctx context.Context, scope classpath.Scope, student string,
	amount int64, kind domain.LogKind, item *domain.ShopItem, extra func(pgx.Tx) error) (*domain.CookieLogEntry, error) {

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	entry := &domain.CookieLogEntry{
		Scope:   scope.String(),
		Student: student,
		Amount:  amount,
		Kind:    kind,
	}
	if item != nil {
		entry.ItemID = item.ID
		entry.ItemName = item.Name
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.logRepo.AppendWithTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	// Advisory counters on the account doc. They mirror the log but the
	// log alone is authoritative.
	if kind == domain.KindDonation {
		_, err = tx.Exec(ctx, `
			UPDATE students SET used_cookies = used_cookies + $3, donated_cookies = donated_cookies + $3
			WHERE scope = $1 AND code = $2
		`, scope.String(), student, amount)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE students SET used_cookies = used_cookies + $3
			WHERE scope = $1 AND code = $2
		`, scope.String(), student, amount)
	}
	if err != nil {
		return nil, err
	}

	if kind == domain.KindDonation {
		degrees := float64(amount) * domain.LoveDegreesPerCookie
		if err := s.classes.RaiseLoveTemperatureWithTx(ctx, tx, scope, degrees); err != nil {
			return nil, err
		}
	}

	if extra != nil {
		if err := extra(tx); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

// Balance derives the student's spendable balance. earnedTotal comes from
// the points service; everything else is summed from the log.
func (s *LedgerService) Balance(ctx context.Context, scope classpath.Scope, student string, earnedTotal int64) (*domain.Balance, error) {
	spent, err := s.logRepo.SumSpent(ctx, scope, student)
	if err != nil {
		return nil, err
	}
	donated, err := s.logRepo.SumDonated(ctx, scope, student)
	if err != nil {
		return nil, err
	}
	b := ComputeBalance(earnedTotal, spent, donated)
	return &b, nil
}

// DonatedTotal returns the student's donation sum, degrading to zero on
// read failure (non-critical display value).
func (s *LedgerService) DonatedTotal(ctx context.Context, scope classpath.Scope, student string) int64 {
	donated, err := s.logRepo.SumDonated(ctx, scope, student)
	if err != nil {
		logger.Warn("donation total read failed", "scope", scope.String(), "student", student, "error", err)
		return 0
	}
	return donated
}

// History returns the student's recent spend entries.
func (s *LedgerService) History(ctx context.Context, scope classpath.Scope, student string, limit int) ([]*domain.CookieLogEntry, error) {
	return s.logRepo.History(ctx, scope, student, limit)
}

// ComputeBalance is the balance rule: spendable is the externally earned
// total minus everything the log says was spent or donated.
func ComputeBalance(earnedTotal, spent, donated int64) domain.Balance {
	return domain.Balance{
		EarnedTotal: earnedTotal,
		Spent:       spent,
		Spendable:   earnedTotal - spent,
		Donated:     donated,
	}
}
