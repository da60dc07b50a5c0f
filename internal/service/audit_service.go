package service

import (
	"context"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/logger"
	"github.com/WooDaeYoon/dahandinworld/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditService records catalog and account changes. Failures are logged
// and swallowed so an audit write never breaks the action it describes.
type AuditService struct {
	repo *repository.AuditRepository
}

func NewAuditService(db *pgxpool.Pool) *AuditService {
	return &AuditService{repo: repository.NewAuditRepository(db)}
}

func (s *AuditService) Log(ctx context.Context, scope classpath.Scope, actorID string, role domain.Role, action string, details map[string]interface{}) {
	entry := &domain.AuditLog{
		Scope:     scope.String(),
		ActorID:   actorID,
		ActorRole: role,
		Action:    action,
		Details:   details,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Error("audit log write failed", "action", action, "scope", scope, "error", err)
	}
}

func (s *AuditService) Recent(ctx context.Context, scope classpath.Scope, limit int) ([]*domain.AuditLog, error) {
	return s.repo.Recent(ctx, scope, limit)
}
