package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scm_dev_v1_202608/internal/model"
)

// ErrCategoryNotFound 目标分类不存在
var ErrCategoryNotFound = errors.New("category not found")

// ==================== 接口定义 ====================

// CategoryWithCount 分类 + 在售商品数（列表展示用）
type CategoryWithCount struct {
	model.Category
	ProductCount int64 `json:"product_count"`
}

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id int64) error
	ListWithCount(ctx context.Context) ([]CategoryWithCount, error)

	// InsertOrReuse 按 slug 冲突时复用既有行（并发导入同名分类不报错）
	InsertOrReuse(ctx context.Context, category *model.Category) error

	WithTx(tx *gorm.DB) CategoryRepository
}

// ==================== 仓储实现 ====================

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepo{db: tx}
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*model.Category, error) {
	return r.getBy(ctx, "name = ?", name)
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return r.getBy(ctx, "slug = ?", slug)
}

func (r *categoryRepo) getBy(ctx context.Context, cond string, arg interface{}) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where(cond, arg).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepo) ListWithCount(ctx context.Context) ([]CategoryWithCount, error) {
	var rows []CategoryWithCount
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Select("categories.*, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id AND products.is_available = ?", true).
		Group("categories.id").
		Order("categories.id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *categoryRepo) InsertOrReuse(ctx context.Context, category *model.Category) error {
	// slug 唯一索引下 DO NOTHING，随后回读拿到已有行的 ID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).
		Create(category).Error
	if err != nil {
		return err
	}
	if category.ID != 0 {
		return nil
	}
	existing, err := r.GetBySlug(ctx, category.Slug)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New("category insert-or-reuse: row vanished after conflict")
	}
	*category = *existing
	return nil
}
