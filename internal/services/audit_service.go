package services

import (
	"context"

	"github.com/prestadero/prestamos-api/internal/models"
	"github.com/prestadero/prestamos-api/internal/repository"
	"github.com/prestadero/prestamos-api/pkg/logger"
)

type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log records an audit entry. Audit failures are logged but never
// propagate: the business operation already succeeded.
func (s *AuditService) Log(ctx context.Context, userID, action, entity, entityID, details, ip, userAgent string) {
	entry := &models.AuditLog{
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Error("failed to record audit entry", "action", action, "entity", entity, "error", err)
	}
}

// List retrieves audit logs, newest first
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	return s.repo.List(ctx, limit, offset)
}
