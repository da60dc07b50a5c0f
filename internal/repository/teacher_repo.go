package repository

import (
	"context"

	"github.com/WooDaeYoon/dahandinworld/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeacherRepository struct {
	db *pgxpool.Pool
}

func NewTeacherRepository(db *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// Create registers a new teacher account.
func (r *TeacherRepository) Create(ctx context.Context, t *domain.Teacher) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO teachers (id, password_hash, api_key, school_name, teacher_name, class_name, class_scope)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, t.ID, t.PasswordHash, t.APIKey, t.SchoolName, t.TeacherName, t.ClassName, t.ClassScope,
	).Scan(&t.CreatedAt)
}

// GetByID returns the teacher or (nil, nil) when unknown.
func (r *TeacherRepository) GetByID(ctx context.Context, id string) (*domain.Teacher, error) {
	return r.scanOne(r.db.QueryRow(ctx, `
		SELECT id, password_hash, api_key, school_name, teacher_name, class_name, class_scope, created_at
		FROM teachers
		WHERE id = $1
	`, id))
}

// GetByClassScope finds the teacher owning a class partition. Student logins
// use this to borrow the class API key for points-service verification.
func (r *TeacherRepository) GetByClassScope(ctx context.Context, scope string) (*domain.Teacher, error) {
	return r.scanOne(r.db.QueryRow(ctx, `
		SELECT id, password_hash, api_key, school_name, teacher_name, class_name, class_scope, created_at
		FROM teachers
		WHERE class_scope = $1
		LIMIT 1
	`, scope))
}

func (r *TeacherRepository) scanOne(row pgx.Row) (*domain.Teacher, error) {
	var t domain.Teacher
	if err := row.Scan(&t.ID, &t.PasswordHash, &t.APIKey, &t.SchoolName, &t.TeacherName,
		&t.ClassName, &t.ClassScope, &t.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
