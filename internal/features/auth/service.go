package auth

import (
	"context"
	"strings"
	"time"

	"go-school/internal/common/apperr"
	"go-school/internal/common/models"
	"go-school/internal/config"
	"go-school/internal/features/audit"
	"go-school/internal/features/role"
	"go-school/internal/features/user"
	"go-school/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RegisterInput is the registration payload. The profile sub-object
// matching UserType is required for student/teacher/staff registrations;
// the others must be absent.
type RegisterInput struct {
	Username  string                 `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email     string                 `json:"email" validate:"required,email"`
	Password  string                 `json:"password" validate:"required,min=8"`
	FirstName string                 `json:"first_name" validate:"required"`
	LastName  string                 `json:"last_name" validate:"required"`
	UserType  models.UserType        `json:"user_type" validate:"required,oneof=student teacher staff admin"`
	Student   *models.StudentProfile `json:"student,omitempty"`
	Teacher   *models.TeacherProfile `json:"teacher,omitempty"`
	Staff     *models.StaffProfile   `json:"staff,omitempty"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, login, password string) (*models.User, string, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	RoleRepo     role.RoleRepository
	AuditService audit.AuditService
	Config       *config.Config
	Logger       *zap.Logger
}

func NewAuthService(userRepo user.UserRepository, roleRepo role.RoleRepository, auditService audit.AuditService, cfg *config.Config, logger *zap.Logger) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		RoleRepo:     roleRepo,
		AuditService: auditService,
		Config:       cfg,
		Logger:       logger,
	}
}

// roleNameForUserType maps a self-registration user type to its seeded
// role. Principal and parent roles are assigned administratively, never
// through registration.
func roleNameForUserType(t models.UserType) string {
	switch t {
	case models.UserTypeStudent:
		return role.RoleStudent
	case models.UserTypeTeacher:
		return role.RoleTeacher
	case models.UserTypeStaff:
		return role.RoleStaff
	case models.UserTypeAdmin:
		return role.RoleAdmin
	}
	return ""
}

// validateProfile enforces the tagged-union shape of the registration
// payload: exactly the profile matching UserType, nothing else.
func validateProfile(input RegisterInput) error {
	switch input.UserType {
	case models.UserTypeStudent:
		if input.Student == nil {
			return apperr.Validation("student profile is required for student registrations")
		}
		if input.Teacher != nil || input.Staff != nil {
			return apperr.Validation("only the student profile may be supplied for student registrations")
		}
	case models.UserTypeTeacher:
		if input.Teacher == nil {
			return apperr.Validation("teacher profile is required for teacher registrations")
		}
		if input.Student != nil || input.Staff != nil {
			return apperr.Validation("only the teacher profile may be supplied for teacher registrations")
		}
	case models.UserTypeStaff:
		if input.Staff == nil {
			return apperr.Validation("staff profile is required for staff registrations")
		}
		if input.Student != nil || input.Teacher != nil {
			return apperr.Validation("only the staff profile may be supplied for staff registrations")
		}
	case models.UserTypeAdmin:
		if input.Student != nil || input.Teacher != nil || input.Staff != nil {
			return apperr.Validation("admin registrations take no profile payload")
		}
	default:
		return apperr.Validation("unknown user type")
	}
	return nil
}

// Register creates a pending, inactive identity. The account cannot log
// in until an administrator approves it.
func (s *AuthServiceImpl) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if err := validateProfile(input); err != nil {
		return nil, err
	}

	if _, err := s.UserRepo.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperr.Duplicate("Username is already taken")
	} else if err != mongo.ErrNoDocuments {
		return nil, apperr.Wrap(err, "failed to check username")
	}

	email := strings.ToLower(input.Email)
	if _, err := s.UserRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Duplicate("Email is already registered")
	} else if err != mongo.ErrNoDocuments {
		return nil, apperr.Wrap(err, "failed to check email")
	}

	userRole, err := s.RoleRepo.FindByName(ctx, roleNameForUserType(input.UserType))
	if err != nil {
		return nil, apperr.Wrap(err, "failed to resolve role for user type")
	}

	passwordHash, err := utils.HashPassword(input.Password, s.Config.BcryptCost)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to hash password")
	}

	now := time.Now()
	newUser := &models.User{
		ID:             primitive.NewObjectID(),
		Username:       input.Username,
		Email:          email,
		PasswordHash:   passwordHash,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		RoleID:         userRole.ID,
		UserType:       input.UserType,
		ApprovalStatus: models.ApprovalStatusPending,
		IsActive:       false,
		Student:        input.Student,
		Teacher:        input.Teacher,
		Staff:          input.Staff,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.UserRepo.Create(ctx, newUser); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Duplicate("Username or email is already registered")
		}
		return nil, apperr.Wrap(err, "failed to create user")
	}

	_ = s.AuditService.LogChange(ctx, models.AuditActionRegister, "users", newUser.ID.Hex(), newUser.ID.Hex(), map[string]models.Change{
		"username":  {New: newUser.Username},
		"email":     {New: newUser.Email},
		"user_type": {New: newUser.UserType},
	})
	s.Logger.Info("user registered",
		zap.String("user_id", newUser.ID.Hex()),
		zap.String("user_type", string(newUser.UserType)))

	return newUser, nil
}

// Login authenticates by username or email. Unknown identifier and
// wrong password return the same generic error so callers cannot probe
// for accounts; pending/rejected/deactivated states are reported
// distinctly for the support desk.
func (s *AuthServiceImpl) Login(ctx context.Context, login, password string) (*models.User, string, error) {
	account, err := s.UserRepo.FindByLogin(ctx, login)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", apperr.InvalidCredentials("Invalid credentials")
		}
		return nil, "", apperr.Wrap(err, "failed to look up user")
	}

	switch account.ApprovalStatus {
	case models.ApprovalStatusPending:
		return nil, "", apperr.AccessDenied("Your account is pending approval")
	case models.ApprovalStatusRejected:
		msg := "Your registration was rejected"
		if account.RejectionReason != "" {
			msg += ": " + account.RejectionReason
		}
		return nil, "", apperr.AccessDenied(msg)
	}
	if !account.IsActive {
		return nil, "", apperr.AccessDenied("Your account has been deactivated")
	}

	if !utils.CheckPassword(account.PasswordHash, password) {
		return nil, "", apperr.InvalidCredentials("Invalid credentials")
	}

	now := time.Now()
	if err := s.UserRepo.UpdateLastLogin(ctx, account.ID.Hex(), now); err != nil {
		s.Logger.Warn("failed to update last login",
			zap.String("user_id", account.ID.Hex()),
			zap.Error(err))
	}
	account.LastLogin = &now

	token, err := utils.GenerateToken(account.ID)
	if err != nil {
		return nil, "", apperr.Wrap(err, "failed to sign token")
	}

	_ = s.AuditService.LogChange(ctx, models.AuditActionLogin, "users", account.ID.Hex(), account.ID.Hex(), nil)

	return account, token, nil
}

func (s *AuthServiceImpl) Me(ctx context.Context, userID string) (*models.User, error) {
	account, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Wrap(err, "failed to load user")
	}
	return account, nil
}

// ChangePassword re-verifies the current password before accepting the
// new one. The credential is re-hashed on write; no other field is
// touched.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	account, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("User not found")
		}
		return apperr.Wrap(err, "failed to load user")
	}

	if !utils.CheckPassword(account.PasswordHash, currentPassword) {
		return apperr.Validation("Current password is incorrect")
	}

	newHash, err := utils.HashPassword(newPassword, s.Config.BcryptCost)
	if err != nil {
		return apperr.Wrap(err, "failed to hash password")
	}

	if err := s.UserRepo.UpdatePassword(ctx, userID, newHash); err != nil {
		return apperr.Wrap(err, "failed to update password")
	}

	_ = s.AuditService.LogChange(ctx, models.AuditActionPassword, "users", userID, userID, nil)
	return nil
}
