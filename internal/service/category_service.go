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

// CategoryService 分类注册表业务接口
// 分类读取对所有角色开放，写操作仅管理员
type CategoryService interface {
	Create(ctx context.Context, req *dto.CreateCategoryRequest, callerID, callerRole string) (*dto.CategoryResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCategoryRequest, callerID, callerRole string) (*dto.CategoryResponse, error)
	Get(ctx context.Context, id string) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	CreateSubcategory(ctx context.Context, categoryID string, req *dto.CreateSubcategoryRequest, callerID, callerRole string) (*dto.CategoryResponse, error)
}

type categoryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCategoryService 创建 CategoryService 实例
func NewCategoryService(repo *repository.Repository, logger *zap.Logger) CategoryService {
	return &categoryService{repo: repo, logger: logger}
}

func buildCategory(c *model.Category) *dto.CategoryResponse {
	resp := &dto.CategoryResponse{
		ID:          c.CategoryID,
		Name:        c.Name,
		Description: c.Description,
	}
	for _, sub := range c.Subcategories {
		resp.Subcategories = append(resp.Subcategories, dto.SubcategoryResponse{
			ID:          sub.SubcategoryID,
			Name:        sub.Name,
			Description: sub.Description,
		})
	}
	return resp
}

func (s *categoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest, callerID, callerRole string) (*dto.CategoryResponse, error) {
	if err := authorize(callerRole, OpManageCategories, callerID, nil); err != nil {
		return nil, err
	}

	// 名称唯一
	if _, err := s.repo.Category.GetByName(ctx, req.Name); err == nil {
		return nil, pkgerrors.NewConflict("分类名称已存在")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询分类失败", zap.Error(err))
		return nil, err
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	category.CreatedBy = &callerID
	category.UpdatedBy = &callerID

	if err := s.repo.Category.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.NewConflict("分类名称已存在")
		}
		s.logger.Error("创建分类失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("分类已创建", zap.String("name", category.Name))
	return buildCategory(category), nil
}

func (s *categoryService) Update(ctx context.Context, id string, req *dto.UpdateCategoryRequest, callerID, callerRole string) (*dto.CategoryResponse, error) {
	if err := authorize(callerRole, OpManageCategories, callerID, nil); err != nil {
		return nil, err
	}

	category, err := s.repo.Category.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFound("分类", id)
		}
		s.logger.Error("查询分类失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	category.UpdatedBy = &callerID

	if err := s.repo.Category.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.NewConflict("分类名称已存在")
		}
		s.logger.Error("更新分类失败", zap.Error(err))
		return nil, err
	}

	return buildCategory(category), nil
}

func (s *categoryService) Get(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := s.repo.Category.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFound("分类", id)
		}
		s.logger.Error("查询分类失败", zap.Error(err))
		return nil, err
	}
	return buildCategory(category), nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		s.logger.Error("查询分类列表失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, *buildCategory(&categories[i]))
	}
	return items, nil
}

func (s *categoryService) CreateSubcategory(ctx context.Context, categoryID string, req *dto.CreateSubcategoryRequest, callerID, callerRole string) (*dto.CategoryResponse, error) {
	if err := authorize(callerRole, OpManageCategories, callerID, nil); err != nil {
		return nil, err
	}

	category, err := s.repo.Category.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFound("分类", categoryID)
		}
		s.logger.Error("查询分类失败", zap.Error(err))
		return nil, err
	}

	sub := &model.Subcategory{
		CategoryID:  category.CategoryID,
		Name:        req.Name,
		Description: req.Description,
	}
	sub.CreatedBy = &callerID
	sub.UpdatedBy = &callerID

	if err := s.repo.Category.CreateSubcategory(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.NewConflict("同一分类下子分类名称已存在")
		}
		s.logger.Error("创建子分类失败", zap.Error(err))
		return nil, err
	}

	// 重新读取带子分类的完整分类
	return s.Get(ctx, category.CategoryID)
}
