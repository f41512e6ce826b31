package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"scm_dev_v1_202608/internal/model"
)

// ErrQuoteNotFound 目标报价单不存在
var ErrQuoteNotFound = errors.New("quote not found")

// ==================== 接口定义 ====================

// QuoteFilter 报价单列表过滤
type QuoteFilter struct {
	MemberID int64 // 0 表示不限（管理员视图）
	Status   string
	Page     int
	PageSize int
}

// QuoteRepository 报价单仓储接口
type QuoteRepository interface {
	Create(ctx context.Context, quote *model.Quote) error
	CreateItems(ctx context.Context, items []model.QuoteItem) error
	GetByID(ctx context.Context, id int64) (*model.Quote, error)
	GetByIDForMember(ctx context.Context, id, memberID int64) (*model.Quote, error)
	List(ctx context.Context, filter QuoteFilter) ([]model.Quote, int64, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	CountByStatus(ctx context.Context) (map[string]int64, error)

	WithTx(tx *gorm.DB) QuoteRepository
	Transaction(ctx context.Context, fn func(txRepo QuoteRepository) error) error
}

// ==================== 仓储实现 ====================

type quoteRepo struct {
	db *gorm.DB
}

// NewQuoteRepository 创建报价单仓储
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepo{db: db}
}

func (r *quoteRepo) WithTx(tx *gorm.DB) QuoteRepository {
	return &quoteRepo{db: tx}
}

func (r *quoteRepo) Transaction(ctx context.Context, fn func(txRepo QuoteRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

func (r *quoteRepo) Create(ctx context.Context, quote *model.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *quoteRepo) CreateItems(ctx context.Context, items []model.QuoteItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *quoteRepo) GetByID(ctx context.Context, id int64) (*model.Quote, error) {
	return r.getBy(ctx, "id = ?", []interface{}{id})
}

func (r *quoteRepo) GetByIDForMember(ctx context.Context, id, memberID int64) (*model.Quote, error) {
	return r.getBy(ctx, "id = ? AND member_id = ?", []interface{}{id, memberID})
}

func (r *quoteRepo) getBy(ctx context.Context, cond string, args []interface{}) (*model.Quote, error) {
	var quote model.Quote
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where(cond, args...).
		First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepo) List(ctx context.Context, filter QuoteFilter) ([]model.Quote, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Quote{})
	if filter.MemberID > 0 {
		q = q.Where("member_id = ?", filter.MemberID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	var quotes []model.Quote
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&quotes).Error
	if err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

func (r *quoteRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Quote{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

func (r *quoteRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Cnt    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Quote{}).
		Select("status, COUNT(*) AS cnt").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, item := range rows {
		result[item.Status] = item.Cnt
	}
	return result, nil
}
