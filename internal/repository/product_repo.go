package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"scm_dev_v1_202608/internal/model"
)

// ErrProductNotFound 目标商品不存在
var ErrProductNotFound = errors.New("product not found")

// ==================== 接口定义 ====================

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// 基础 CRUD
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)

	// 自然键匹配（导入去重）：同键多条时取最小 ID，保证确定性
	FirstByModelNo(ctx context.Context, modelNo string) (*model.Product, error)
	FirstByModelName(ctx context.Context, modelName string) (*model.Product, error)

	// 删除（均先清理 quote_items 再删商品，同一事务内保证引用完整）
	Delete(ctx context.Context, id int64) error
	DeleteCreatedAfter(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteIDRange(ctx context.Context, startID, endID int64) (int64, error)

	// 筛选辅助
	DistinctBrands(ctx context.Context) ([]string, error)
	DistinctManufacturers(ctx context.Context) ([]string, error)
	DistinctOrigins(ctx context.Context) ([]string, error)
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
	Count(ctx context.Context) (int64, error)

	// 事务
	WithTx(tx *gorm.DB) ProductRepository
}

// ==================== 过滤条件 ====================

// ProductFilter 商品列表过滤条件
type ProductFilter struct {
	CategorySlug       string
	CategoryID         int64
	Keyword            string // brand / model_name / model_no 模糊匹配
	OnlyNew            bool
	IncludeUnavailable bool
	Sort               string // newest | display_order | price_asc | price_desc
	Page               int
	PageSize           int
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{db: tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})

	if !filter.IncludeUnavailable {
		q = q.Where("products.is_available = ?", true)
	}
	if filter.CategorySlug != "" {
		q = q.Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.CategoryID > 0 {
		q = q.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.OnlyNew {
		q = q.Where("products.is_new = ?", true)
	}
	if filter.Keyword != "" {
		kw := "%" + strings.ToLower(filter.Keyword) + "%"
		q = q.Where("LOWER(products.brand) LIKE ? OR LOWER(products.model_name) LIKE ? OR LOWER(products.model_no) LIKE ?", kw, kw, kw)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "display_order":
		q = q.Order("products.display_order DESC, products.created_at DESC")
	case "price_asc":
		q = q.Order("products.b2b_price ASC")
	case "price_desc":
		q = q.Order("products.b2b_price DESC")
	default: // newest
		q = q.Order("products.id DESC")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}

	var products []model.Product
	err := q.Preload("Category").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepo) FirstByModelNo(ctx context.Context, modelNo string) (*model.Product, error) {
	return r.firstBy(ctx, "model_no = ?", modelNo)
}

func (r *productRepo) FirstByModelName(ctx context.Context, modelName string) (*model.Product, error) {
	return r.firstBy(ctx, "model_name = ?", modelName)
}

func (r *productRepo) firstBy(ctx context.Context, cond string, arg string) (*model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("id ASC").
		Limit(1).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// ==================== 删除 ====================

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.QuoteItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

func (r *productRepo) DeleteCreatedAfter(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Model(&model.Product{}).Where("created_at > ?", cutoff).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("product_id IN ?", ids).Delete(&model.QuoteItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&model.Product{})
		if res.Error != nil {
			return res.Error
		}
		count = res.RowsAffected
		return nil
	})
	return count, err
}

func (r *productRepo) DeleteIDRange(ctx context.Context, startID, endID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id IN (?)",
			tx.Model(&model.Product{}).Select("id").Where("id BETWEEN ? AND ?", startID, endID),
		).Delete(&model.QuoteItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id BETWEEN ? AND ?", startID, endID).Delete(&model.Product{})
		if res.Error != nil {
			return res.Error
		}
		count = res.RowsAffected
		return nil
	})
	return count, err
}

// ==================== 筛选辅助 ====================

func (r *productRepo) DistinctBrands(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "brand")
}

func (r *productRepo) DistinctManufacturers(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "manufacturer")
}

func (r *productRepo) DistinctOrigins(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "origin")
}

// distinctColumn 列名只来自上面三个固定调用，不接收外部输入
func (r *productRepo) distinctColumn(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Distinct(column).
		Where(column+" <> ''").
		Order(column + " ASC").
		Pluck(column, &values).Error
	return values, err
}

func (r *productRepo) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}
