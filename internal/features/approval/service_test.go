package approval

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-school/internal/common/apperr"
	"go-school/internal/common/models"
	"go-school/internal/features/user"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type noopAudit struct{}

func (noopAudit) LogChange(ctx context.Context, action models.AuditAction, subject, recordID, actorID string, changes map[string]models.Change) error {
	return nil
}

func (noopAudit) History(ctx context.Context, subject, recordID string) ([]models.AuditLog, error) {
	return nil, nil
}

func newTestService() (ApprovalService, *user.InMemoryUserRepository) {
	repo := user.NewInMemoryUserRepository()
	return NewApprovalService(repo, noopAudit{}, zap.NewNop()), repo
}

func seedUser(t *testing.T, repo *user.InMemoryUserRepository, username string, userType models.UserType, status models.ApprovalStatus) *models.User {
	t.Helper()
	now := time.Now()
	u := &models.User{
		ID:             primitive.NewObjectID(),
		Username:       username,
		Email:          username + "@school.local",
		PasswordHash:   "x",
		RoleID:         primitive.NewObjectID(),
		UserType:       userType,
		ApprovalStatus: status,
		IsActive:       status == models.ApprovalStatusApproved,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if status != models.ApprovalStatusPending {
		adminID := primitive.NewObjectID()
		u.ApprovedBy = &adminID
		u.ApprovedAt = &now
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestApprove(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	admin := primitive.NewObjectID().Hex()

	pending := seedUser(t, repo, "alice", models.UserTypeStudent, models.ApprovalStatusPending)

	approved, err := svc.Approve(ctx, pending.ID.Hex(), admin, "verified documents")
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusApproved, approved.ApprovalStatus)
	require.True(t, approved.IsActive)
	require.NotNil(t, approved.ApprovedBy)
	require.Equal(t, admin, approved.ApprovedBy.Hex())
	require.NotNil(t, approved.ApprovedAt)
	require.Equal(t, "verified documents", approved.ApprovalNotes)
}

func TestApproveIsIdempotentGuarded(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	admin := primitive.NewObjectID().Hex()

	pending := seedUser(t, repo, "bob", models.UserTypeTeacher, models.ApprovalStatusPending)

	first, err := svc.Approve(ctx, pending.ID.Hex(), admin, "")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, pending.ID.Hex(), admin, "")
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	require.Contains(t, err.Error(), "current status: approved")

	// State after both calls equals state after the first call alone.
	after, err := repo.FindByID(ctx, pending.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, first.ApprovalStatus, after.ApprovalStatus)
	require.Equal(t, first.ApprovedAt.Unix(), after.ApprovedAt.Unix())
}

func TestApproveUnknownUser(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Approve(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "")
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// A malformed path id maps to NotFound like an unknown id, never an
// internal error.
func TestApproveRejectMalformedID(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	admin := primitive.NewObjectID().Hex()

	_, err := svc.Approve(ctx, "not-a-hex-id", admin, "")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Reject(ctx, "not-a-hex-id", admin, "some reason")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestReject(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	admin := primitive.NewObjectID().Hex()

	pending := seedUser(t, repo, "carol", models.UserTypeStaff, models.ApprovalStatusPending)

	_, err := svc.Reject(ctx, pending.ID.Hex(), admin, "   ")
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	rejected, err := svc.Reject(ctx, pending.ID.Hex(), admin, "incomplete documents")
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusRejected, rejected.ApprovalStatus)
	require.False(t, rejected.IsActive)
	require.Equal(t, "incomplete documents", rejected.RejectionReason)
	require.NotNil(t, rejected.ApprovedBy)
	require.NotNil(t, rejected.ApprovedAt)

	_, err = svc.Reject(ctx, pending.ID.Hex(), admin, "again")
	require.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestBulkApproveSkipsProcessed(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	admin := primitive.NewObjectID().Hex()

	a := seedUser(t, repo, "a", models.UserTypeStudent, models.ApprovalStatusPending)
	b := seedUser(t, repo, "b", models.UserTypeStudent, models.ApprovalStatusApproved)
	c := seedUser(t, repo, "c", models.UserTypeStudent, models.ApprovalStatusPending)

	count, err := svc.BulkApprove(ctx, []string{a.ID.Hex(), b.ID.Hex(), c.ID.Hex()}, admin, "batch intake")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	// B keeps its original approval audit fields.
	after, err := repo.FindByID(ctx, b.ID.Hex())
	require.NoError(t, err)
	require.NotEqual(t, admin, after.ApprovedBy.Hex())

	for _, id := range []string{a.ID.Hex(), c.ID.Hex()} {
		u, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, models.ApprovalStatusApproved, u.ApprovalStatus)
		require.True(t, u.IsActive)
	}
}

func TestBulkApproveEmptyInput(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.BulkApprove(context.Background(), nil, primitive.NewObjectID().Hex(), "")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestStats(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	seedUser(t, repo, "s1", models.UserTypeStudent, models.ApprovalStatusPending)
	seedUser(t, repo, "s2", models.UserTypeStudent, models.ApprovalStatusPending)
	seedUser(t, repo, "s3", models.UserTypeStudent, models.ApprovalStatusApproved)
	seedUser(t, repo, "t1", models.UserTypeTeacher, models.ApprovalStatusRejected)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Overall.Pending)
	require.Equal(t, int64(1), stats.Overall.Approved)
	require.Equal(t, int64(1), stats.Overall.Rejected)
	require.Equal(t, int64(2), stats.ByUserType[models.UserTypeStudent].Pending)
	require.Equal(t, int64(1), stats.ByUserType[models.UserTypeTeacher].Rejected)
}

func TestConcurrentApproveRejectRace(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	pending := seedUser(t, repo, "raced", models.UserTypeStudent, models.ApprovalStatusPending)
	admin := primitive.NewObjectID().Hex()

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.Approve(ctx, pending.ID.Hex(), admin, "")
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.Reject(ctx, pending.ID.Hex(), admin, "race loser")
	}()
	wg.Wait()

	var successes, invalidState int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperr.KindOf(err) == apperr.KindInvalidState:
			invalidState++
			// The loser reports the status the winner wrote, not the
			// pending state it observed before the race.
			require.NotContains(t, err.Error(), "current status: pending")
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, invalidState)

	after, err := repo.FindByID(ctx, pending.ID.Hex())
	require.NoError(t, err)
	require.NotEqual(t, models.ApprovalStatusPending, after.ApprovalStatus)
}
