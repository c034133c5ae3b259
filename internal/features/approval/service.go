package approval

import (
	"context"
	"strings"
	"time"

	"go-school/internal/common/apperr"
	"go-school/internal/common/models"
	"go-school/internal/features/audit"
	"go-school/internal/features/user"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type ApprovalService interface {
	Approve(ctx context.Context, userID, actingAdminID, notes string) (*models.User, error)
	Reject(ctx context.Context, userID, actingAdminID, reason string) (*models.User, error)
	BulkApprove(ctx context.Context, userIDs []string, actingAdminID, notes string) (int64, error)
	Stats(ctx context.Context) (*ApprovalStats, error)
}

type ApprovalServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewApprovalService(userRepo user.UserRepository, auditService audit.AuditService, logger *zap.Logger) ApprovalService {
	return &ApprovalServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
		Logger:       logger,
	}
}

// Approve admits a pending registration. The underlying update only
// matches documents still pending, so concurrent calls on the same user
// resolve to exactly one success; the loser sees InvalidState.
func (s *ApprovalServiceImpl) Approve(ctx context.Context, userID, actingAdminID, notes string) (*models.User, error) {
	if _, err := s.UserRepo.FindByID(ctx, userID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Wrap(err, "failed to load user")
	}

	modified, err := s.UserRepo.ApproveIfPending(ctx, userID, actingAdminID, notes, time.Now())
	if err != nil {
		return nil, apperr.Wrap(err, "failed to approve user")
	}
	if !modified {
		return nil, s.notPendingErr(ctx, userID)
	}

	updated, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to reload user")
	}

	_ = s.AuditService.LogChange(ctx, models.AuditActionApprove, "users", userID, actingAdminID, map[string]models.Change{
		"approval_status": {Old: models.ApprovalStatusPending, New: models.ApprovalStatusApproved},
		"is_active":       {Old: false, New: true},
	})
	s.Logger.Info("user approved",
		zap.String("user_id", userID),
		zap.String("approved_by", actingAdminID))

	return updated, nil
}

// notPendingErr builds the InvalidState error for a CAS miss. The
// status is re-read after the miss: a concurrent transition may have
// landed between the initial load and the update, and the message must
// name the status that actually blocked the transition.
func (s *ApprovalServiceImpl) notPendingErr(ctx context.Context, userID string) error {
	current, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return apperr.InvalidState("User registration is not pending")
	}
	return apperr.InvalidState("User registration is not pending (current status: " + string(current.ApprovalStatus) + ")")
}

// Reject declines a pending registration. A non-empty reason is
// required; it is stored on the record and surfaced on later login
// attempts.
func (s *ApprovalServiceImpl) Reject(ctx context.Context, userID, actingAdminID, reason string) (*models.User, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperr.Validation("Rejection reason is required")
	}

	if _, err := s.UserRepo.FindByID(ctx, userID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Wrap(err, "failed to load user")
	}

	modified, err := s.UserRepo.RejectIfPending(ctx, userID, actingAdminID, reason, time.Now())
	if err != nil {
		return nil, apperr.Wrap(err, "failed to reject user")
	}
	if !modified {
		return nil, s.notPendingErr(ctx, userID)
	}

	updated, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to reload user")
	}

	_ = s.AuditService.LogChange(ctx, models.AuditActionReject, "users", userID, actingAdminID, map[string]models.Change{
		"approval_status":  {Old: models.ApprovalStatusPending, New: models.ApprovalStatusRejected},
		"rejection_reason": {New: reason},
	})
	s.Logger.Info("user rejected",
		zap.String("user_id", userID),
		zap.String("rejected_by", actingAdminID))

	return updated, nil
}

// BulkApprove applies the approve transition to every listed user still
// pending and returns the count actually modified. Best-effort: ids
// already processed or unknown are silently skipped, the batch never
// fails part-way.
func (s *ApprovalServiceImpl) BulkApprove(ctx context.Context, userIDs []string, actingAdminID, notes string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, apperr.Validation("userIds must not be empty")
	}

	count, err := s.UserRepo.BulkApproveIfPending(ctx, userIDs, actingAdminID, notes, time.Now())
	if err != nil {
		return 0, apperr.Wrap(err, "failed to bulk approve users")
	}

	_ = s.AuditService.LogChange(ctx, models.AuditActionApprove, "users", "bulk", actingAdminID, map[string]models.Change{
		"requested": {New: len(userIDs)},
		"approved":  {New: count},
	})
	s.Logger.Info("bulk approval applied",
		zap.Int("requested", len(userIDs)),
		zap.Int64("approved", count),
		zap.String("approved_by", actingAdminID))

	return count, nil
}

// Stats folds the (userType, approvalStatus) aggregation into overall
// and per-type totals.
func (s *ApprovalServiceImpl) Stats(ctx context.Context) (*ApprovalStats, error) {
	counts, err := s.UserRepo.CountByStatusAndType(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to aggregate approval stats")
	}

	stats := &ApprovalStats{
		ByUserType: make(map[models.UserType]StatusCounts),
	}
	for _, c := range counts {
		byType := stats.ByUserType[c.UserType]
		switch c.Status {
		case models.ApprovalStatusPending:
			stats.Overall.Pending += c.Count
			byType.Pending += c.Count
		case models.ApprovalStatusApproved:
			stats.Overall.Approved += c.Count
			byType.Approved += c.Count
		case models.ApprovalStatusRejected:
			stats.Overall.Rejected += c.Count
			byType.Rejected += c.Count
		}
		stats.ByUserType[c.UserType] = byType
	}

	return stats, nil
}
