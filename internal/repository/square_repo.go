package repository

import (
	"context"
	"encoding/json"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SquareRepository backs the real-time class square: ephemeral presence
// records and the capped chat log.
type SquareRepository struct {
	db *pgxpool.Pool
}

func NewSquareRepository(db *pgxpool.Pool) *SquareRepository {
	return &SquareRepository{db: db}
}

// Enter upserts the student's presence record with a server timestamp.
func (r *SquareRepository) Enter(ctx context.Context, p *domain.Participant) error {
	avatarJSON, err := json.Marshal(p.Avatar)
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO square_presence (scope, student_code, name, avatar, last_active)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (scope, student_code) DO UPDATE
			SET name = EXCLUDED.name, avatar = EXCLUDED.avatar, last_active = now()
		RETURNING last_active
	`, p.Scope, p.Student, p.Name, avatarJSON).Scan(&p.LastActive)
}

// Leave deletes the presence record. Leaving twice is harmless.
func (r *SquareRepository) Leave(ctx context.Context, scope classpath.Scope, code string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM square_presence WHERE scope = $1 AND student_code = $2
	`, scope.String(), code)
	return err
}

// Participants returns everyone currently in the square.
func (r *SquareRepository) Participants(ctx context.Context, scope classpath.Scope) ([]*domain.Participant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT scope, student_code, name, avatar, last_active
		FROM square_presence
		WHERE scope = $1
		ORDER BY last_active
	`, scope.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*domain.Participant
	for rows.Next() {
		var (
			p          domain.Participant
			avatarJSON []byte
		)
		if err := rows.Scan(&p.Scope, &p.Student, &p.Name, &avatarJSON, &p.LastActive); err != nil {
			return nil, err
		}
		if len(avatarJSON) > 0 {
			_ = json.Unmarshal(avatarJSON, &p.Avatar)
		}
		participants = append(participants, &p)
	}
	return participants, rows.Err()
}

// AppendMessage stores one chat message verbatim with a server timestamp.
func (r *SquareRepository) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO square_chat (scope, student_code, student_name, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, msg.Scope, msg.Student, msg.Name, msg.Message).Scan(&msg.ID, &msg.CreatedAt)
}

// RecentMessages returns the most recent messages in display order, oldest
// first. The store is read newest-first with the cap applied, then reversed.
func (r *SquareRepository) RecentMessages(ctx context.Context, scope classpath.Scope, limit int) ([]*domain.ChatMessage, error) {
	if limit <= 0 || limit > domain.ChatHistoryLimit {
		limit = domain.ChatHistoryLimit
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, scope, student_code, student_name, message, created_at
		FROM square_chat
		WHERE scope = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, scope.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func scanMessages(rows pgx.Rows) ([]*domain.ChatMessage, error) {
	var messages []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.Scope, &m.Student, &m.Name, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
