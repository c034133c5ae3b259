package audit

import (
	"context"
	"time"

	"go-school/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AuditService interface {
	LogChange(ctx context.Context, action models.AuditAction, subject, recordID, actorID string, changes map[string]models.Change) error
	History(ctx context.Context, subject, recordID string) ([]models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo   AuditRepository
	Logger *zap.Logger
}

func NewAuditService(repo AuditRepository, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{
		Repo:   repo,
		Logger: logger,
	}
}

// LogChange records who did what to which record. Approval transitions
// and credential changes all pass through here; failures are logged but
// never fail the calling operation.
func (s *AuditServiceImpl) LogChange(ctx context.Context, action models.AuditAction, subject, recordID, actorID string, changes map[string]models.Change) error {
	entry := &models.AuditLog{
		ID:        primitive.NewObjectID(),
		Action:    action,
		Subject:   subject,
		RecordID:  recordID,
		ActorID:   actorID,
		Changes:   changes,
		Timestamp: time.Now(),
	}

	if err := s.Repo.Create(ctx, entry); err != nil {
		s.Logger.Warn("failed to write audit log",
			zap.String("action", string(action)),
			zap.String("record_id", recordID),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *AuditServiceImpl) History(ctx context.Context, subject, recordID string) ([]models.AuditLog, error) {
	return s.Repo.ListByRecord(ctx, subject, recordID, 100)
}
