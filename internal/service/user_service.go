package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-complaints/backend/internal/dto"
	"campus-complaints/backend/internal/model"
	"campus-complaints/backend/internal/repository"
	pkgerrors "campus-complaints/backend/pkg/errors"
)

// UserService 用户管理业务接口
type UserService interface {
	// 用户列表（仅管理员）
	List(ctx context.Context, req *dto.UserListRequest, callerID, callerRole string) ([]dto.UserResponse, int64, error)
	// 查看用户（本人或管理员）
	Get(ctx context.Context, userID, callerID, callerRole string) (*dto.UserDetailResponse, error)
	// 更新用户资料（本人或管理员）
	Update(ctx context.Context, userID string, req *dto.UpdateUserRequest, callerID, callerRole string) (*dto.UserDetailResponse, error)
	// 重新指派角色（仅管理员）
	AssignRole(ctx context.Context, userID string, req *dto.AssignRoleRequest, callerID, callerRole string) (*dto.UserDetailResponse, error)
	// 教职工列表（仅管理员，用于指派候选）
	ListFaculty(ctx context.Context, callerID, callerRole string) ([]dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func buildUser(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.UserID,
		Name:       u.Name,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
	}
}

func buildUserDetail(u *model.User) *dto.UserDetailResponse {
	return &dto.UserDetailResponse{
		ID:         u.UserID,
		Name:       u.Name,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		Phone:      u.Phone,
		Department: u.Department,
		CreatedAt:  formatTime(u.CreatedAt),
	}
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest, callerID, callerRole string) ([]dto.UserResponse, int64, error) {
	if err := authorize(callerRole, OpManageUsers, callerID, nil); err != nil {
		return nil, 0, err
	}

	filters := &repository.UserListFilters{Role: req.Role, Keyword: req.Keyword}
	users, total, err := s.repo.User.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, buildUser(&users[i]))
	}
	return items, total, nil
}

func (s *userService) Get(ctx context.Context, userID, callerID, callerRole string) (*dto.UserDetailResponse, error) {
	if userID != callerID {
		if err := authorize(callerRole, OpManageUsers, callerID, nil); err != nil {
			return nil, err
		}
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFound("用户", userID)
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	return buildUserDetail(user), nil
}

func (s *userService) Update(ctx context.Context, userID string, req *dto.UpdateUserRequest, callerID, callerRole string) (*dto.UserDetailResponse, error) {
	if userID != callerID {
		if err := authorize(callerRole, OpManageUsers, callerID, nil); err != nil {
			return nil, err
		}
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFound("用户", userID)
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.repo.User.GetByEmail(ctx, *req.Email); err == nil {
			return nil, pkgerrors.NewConflict("邮箱已被注册")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询用户失败", zap.Error(err))
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.NewConflict("邮箱已被注册")
		}
		s.logger.Error("更新用户失败", zap.Error(err))
		return nil, err
	}

	return buildUserDetail(user), nil
}

func (s *userService) AssignRole(ctx context.Context, userID string, req *dto.AssignRoleRequest, callerID, callerRole string) (*dto.UserDetailResponse, error) {
	if err := authorize(callerRole, OpManageUsers, callerID, nil); err != nil {
		return nil, err
	}
	// 管理员不可降级自己，避免系统失去管理入口
	if userID == callerID && req.Role != model.RoleAdmin {
		return nil, pkgerrors.NewValidation("role", "不能变更自己的管理员角色")
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFound("用户", userID)
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	user.Role = req.Role
	user.UpdatedBy = &callerID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户角色失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户角色已变更",
		zap.String("user_id", userID),
		zap.String("role", req.Role),
	)
	return buildUserDetail(user), nil
}

func (s *userService) ListFaculty(ctx context.Context, callerID, callerRole string) ([]dto.UserResponse, error) {
	if err := authorize(callerRole, OpAssignComplaint, callerID, nil); err != nil {
		return nil, err
	}

	users, err := s.repo.User.ListByRole(ctx, model.RoleFaculty)
	if err != nil {
		s.logger.Error("查询教职工列表失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, buildUser(&users[i]))
	}
	return items, nil
}
