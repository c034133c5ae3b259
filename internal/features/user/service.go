package user

import (
	"context"
	"fmt"

	"go-school/internal/common/apperr"
	"go-school/internal/common/models"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserService interface {
	ListUsers(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]models.User, int64, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ExportUsers(ctx context.Context, filter map[string]interface{}) (*excelize.File, error)
}

type UserServiceImpl struct {
	UserRepo UserRepository
}

func NewUserService(userRepo UserRepository) UserService {
	return &UserServiceImpl{
		UserRepo: userRepo,
	}
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]models.User, int64, error) {
	if filter == nil {
		filter = make(map[string]interface{})
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	offset := (page - 1) * limit
	users, total, err := s.UserRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, apperr.Wrap(err, "failed to list users")
	}

	return users, total, nil
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Wrap(err, "failed to load user")
	}
	return user, nil
}

var exportHeader = []string{"Username", "Email", "Name", "User Type", "Approval Status", "Active", "Approved At", "Last Login"}

// ExportUsers builds an Excel workbook of the matching user records for
// the admin export endpoint. Password hashes are never written out.
func (s *UserServiceImpl) ExportUsers(ctx context.Context, filter map[string]interface{}) (*excelize.File, error) {
	users, _, err := s.UserRepo.List(ctx, filter, 0, 0)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to load users for export")
	}

	f := excelize.NewFile()
	sheet := "Users"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for row, u := range users {
		approvedAt := ""
		if u.ApprovedAt != nil {
			approvedAt = u.ApprovedAt.Format("2006-01-02 15:04:05")
		}
		lastLogin := ""
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Format("2006-01-02 15:04:05")
		}

		values := []interface{}{
			u.Username, u.Email, u.FullName(),
			string(u.UserType), string(u.ApprovalStatus), u.IsActive,
			approvedAt, lastLogin,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.AutoFilter(sheet, fmt.Sprintf("A1:H%d", len(users)+1), nil); err != nil {
		return nil, apperr.Wrap(err, "failed to finalize export sheet")
	}

	return f, nil
}
