package repository

import (
	"context"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClassRepository manages per-class aggregate state (the love thermometer).
type ClassRepository struct {
	db *pgxpool.Pool
}

func NewClassRepository(db *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{db: db}
}

// LoveTemperature returns the class thermometer, zero for classes with no
// donations yet.
func (r *ClassRepository) LoveTemperature(ctx context.Context, scope classpath.Scope) (float64, error) {
	var temp float64
	err := r.db.QueryRow(ctx, `
		SELECT love_temperature FROM classes WHERE scope = $1
	`, scope.String()).Scan(&temp)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	return temp, err
}

// RaiseLoveTemperatureWithTx adds degrees to the class thermometer inside an
// existing transaction, creating the class row on first donation.
func (r *ClassRepository) RaiseLoveTemperatureWithTx(ctx context.Context, tx pgx.Tx, scope classpath.Scope, degrees float64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO classes (scope, love_temperature)
		VALUES ($1, $2)
		ON CONFLICT (scope) DO UPDATE
			SET love_temperature = classes.love_temperature + EXCLUDED.love_temperature,
			    updated_at = now()
	`, scope.String(), degrees)
	return err
}
