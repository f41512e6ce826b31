package service

import (
	"context"
	"errors"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/model"
	"scm_dev_v1_202608/internal/repository"
	"scm_dev_v1_202608/pkg/cache"
)

// ErrCategoryInUse 分类下仍有商品，拒绝删除
var ErrCategoryInUse = errors.New("category still has products")

// ErrCategoryNameTaken 分类名或 slug 已被占用
var ErrCategoryNameTaken = errors.New("category name already exists")

// CategoryService 分类服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	productCache *cache.ProductCache
}

// NewCategoryService 创建分类服务
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	productCache *cache.ProductCache,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		productCache: productCache,
	}
}

// List 全部分类及各自在售商品数
func (s *CategoryService) List(ctx context.Context) ([]repository.CategoryWithCount, error) {
	return s.categoryRepo.ListWithCount(ctx)
}

// Create 新建分类，slug 由名称推导
func (s *CategoryService) Create(ctx context.Context, req *dto.CategoryReq) (*model.Category, error) {
	slug := slugify(req.Name)
	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryNameTaken
	}

	category := &model.Category{
		Name:  req.Name,
		Slug:  slug,
		Color: req.Color,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类，改名时 slug 同步重算
func (s *CategoryService) Update(ctx context.Context, id int64, req *dto.CategoryReq) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, repository.ErrCategoryNotFound
	}

	if req.Name != category.Name {
		slug := slugify(req.Name)
		existing, err := s.categoryRepo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrCategoryNameTaken
		}
		category.Name = req.Name
		category.Slug = slug
	}
	if req.Color != "" {
		category.Color = req.Color
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	s.productCache.Invalidate(ctx)
	return category, nil
}

// Delete 删除分类；分类下还有商品时拒绝，并返回商品数供前端提示
func (s *CategoryService) Delete(ctx context.Context, id int64) (int64, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if category == nil {
		return 0, repository.ErrCategoryNotFound
	}

	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return count, ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return 0, err
	}
	s.productCache.Invalidate(ctx)
	return 0, nil
}
