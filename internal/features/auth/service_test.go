package auth

import (
	"context"
	"testing"
	"time"

	"go-school/internal/common/apperr"
	"go-school/internal/common/models"
	"go-school/internal/config"
	"go-school/internal/features/role"
	"go-school/internal/features/user"
	"go-school/pkg/utils"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type noopAudit struct{}

func (noopAudit) LogChange(ctx context.Context, action models.AuditAction, subject, recordID, actorID string, changes map[string]models.Change) error {
	return nil
}

func (noopAudit) History(ctx context.Context, subject, recordID string) ([]models.AuditLog, error) {
	return nil, nil
}

func newTestAuth(t *testing.T) (AuthService, *user.InMemoryUserRepository) {
	t.Helper()
	ctx := context.Background()

	roleRepo := role.NewInMemoryRoleRepository()
	for _, name := range []string{role.RoleStudent, role.RoleTeacher, role.RoleStaff, role.RoleAdmin} {
		require.NoError(t, roleRepo.Create(ctx, &role.Role{
			ID:       primitive.NewObjectID(),
			Name:     name,
			IsActive: true,
		}))
	}

	userRepo := user.NewInMemoryUserRepository()
	cfg := &config.Config{BcryptCost: bcrypt.MinCost}
	return NewAuthService(userRepo, roleRepo, noopAudit{}, cfg, zap.NewNop()), userRepo
}

func studentInput(username string) RegisterInput {
	return RegisterInput{
		Username:  username,
		Email:     username + "@Example.Com",
		Password:  "sup3rsecret",
		FirstName: "Test",
		LastName:  "Student",
		UserType:  models.UserTypeStudent,
		Student:   &models.StudentProfile{ClassName: "10-A", AdmissionNumber: "ADM-17"},
	}
}

func TestRegisterCreatesPendingInactiveUser(t *testing.T) {
	svc, _ := newTestAuth(t)

	created, err := svc.Register(context.Background(), studentInput("alice"))
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusPending, created.ApprovalStatus)
	require.False(t, created.IsActive)
	require.Equal(t, "alice@example.com", created.Email)
	require.NotEmpty(t, created.PasswordHash)
	require.NotEqual(t, "sup3rsecret", created.PasswordHash)
	require.False(t, created.RoleID.IsZero())
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, studentInput("alice"))
	require.NoError(t, err)

	dup := studentInput("alice")
	dup.Email = "other@example.com"
	_, err = svc.Register(ctx, dup)
	require.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))

	// Same email with different casing is still a duplicate.
	dup = studentInput("alice2")
	dup.Email = "ALICE@EXAMPLE.COM"
	_, err = svc.Register(ctx, dup)
	require.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
}

func TestRegisterProfileMustMatchUserType(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	missing := studentInput("noprofile")
	missing.Student = nil
	_, err := svc.Register(ctx, missing)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	mixed := studentInput("mixed")
	mixed.Teacher = &models.TeacherProfile{EmployeeID: "T-9"}
	_, err = svc.Register(ctx, mixed)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	admin := RegisterInput{
		Username:  "root2",
		Email:     "root2@example.com",
		Password:  "sup3rsecret",
		FirstName: "Root",
		LastName:  "Admin",
		UserType:  models.UserTypeAdmin,
		Staff:     &models.StaffProfile{EmployeeID: "S-1"},
	}
	_, err = svc.Register(ctx, admin)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestLoginLifecycle(t *testing.T) {
	svc, repo := newTestAuth(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, studentInput("bob"))
	require.NoError(t, err)

	// Pending accounts are refused with a distinct message.
	_, _, err = svc.Login(ctx, "bob", "sup3rsecret")
	require.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))
	require.Contains(t, err.Error(), "pending approval")

	admin := primitive.NewObjectID().Hex()
	modified, err := repo.ApproveIfPending(ctx, created.ID.Hex(), admin, "", time.Now())
	require.NoError(t, err)
	require.True(t, modified)

	account, token, err := svc.Login(ctx, "bob", "sup3rsecret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotNil(t, account.LastLogin)

	claims, err := utils.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, created.ID.Hex(), claims.UserID)

	// Email works as the login identifier, case-insensitively.
	_, _, err = svc.Login(ctx, "BOB@example.com", "sup3rsecret")
	require.NoError(t, err)
}

func TestLoginRejectedAndDeactivated(t *testing.T) {
	svc, repo := newTestAuth(t)
	ctx := context.Background()
	admin := primitive.NewObjectID().Hex()

	rejected, err := svc.Register(ctx, studentInput("rej"))
	require.NoError(t, err)
	_, err = repo.RejectIfPending(ctx, rejected.ID.Hex(), admin, "missing transcript", time.Now())
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "rej", "sup3rsecret")
	require.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))
	require.Contains(t, err.Error(), "missing transcript")

	deactivated, err := svc.Register(ctx, studentInput("gone"))
	require.NoError(t, err)
	_, err = repo.ApproveIfPending(ctx, deactivated.ID.Hex(), admin, "", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(ctx, deactivated.ID.Hex(), false))

	_, _, err = svc.Login(ctx, "gone", "sup3rsecret")
	require.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))
	require.Contains(t, err.Error(), "deactivated")
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	svc, repo := newTestAuth(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, studentInput("probe"))
	require.NoError(t, err)
	_, err = repo.ApproveIfPending(ctx, created.ID.Hex(), primitive.NewObjectID().Hex(), "", time.Now())
	require.NoError(t, err)

	_, _, errUnknown := svc.Login(ctx, "nosuchuser", "whatever123")
	_, _, errWrongPass := svc.Login(ctx, "probe", "wrongpassword")

	require.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(errUnknown))
	require.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(errWrongPass))
	require.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestChangePassword(t *testing.T) {
	svc, repo := newTestAuth(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, studentInput("chg"))
	require.NoError(t, err)
	_, err = repo.ApproveIfPending(ctx, created.ID.Hex(), primitive.NewObjectID().Hex(), "", time.Now())
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, created.ID.Hex(), "nottheoldone", "brandnewpass")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, svc.ChangePassword(ctx, created.ID.Hex(), "sup3rsecret", "brandnewpass"))

	_, _, err = svc.Login(ctx, "chg", "sup3rsecret")
	require.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
	_, _, err = svc.Login(ctx, "chg", "brandnewpass")
	require.NoError(t, err)
}
