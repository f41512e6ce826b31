package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scm_dev_v1_202608/internal/model"
)

// ErrCartItemNotFound 购物车中没有该商品
var ErrCartItemNotFound = errors.New("cart item not found")

// CartRepository 购物车仓储接口
type CartRepository interface {
	ListByMember(ctx context.Context, memberID int64) ([]model.CartItem, error)
	Upsert(ctx context.Context, item *model.CartItem) error
	UpdateQuantity(ctx context.Context, memberID, productID int64, quantity int) error
	Remove(ctx context.Context, memberID, productID int64) error
	ClearByMember(ctx context.Context, memberID int64) error

	WithTx(tx *gorm.DB) CartRepository
}

type cartRepo struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepo{db: tx}
}

func (r *cartRepo) ListByMember(ctx context.Context, memberID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("member_id = ?", memberID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// Upsert 同一会员重复加购同一商品时累加数量
func (r *cartRepo) Upsert(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"quantity": gorm.Expr("carts.quantity + ?", item.Quantity)}),
		}).
		Create(item).Error
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, memberID, productID int64, quantity int) error {
	res := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("member_id = ? AND product_id = ?", memberID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepo) Remove(ctx context.Context, memberID, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("member_id = ? AND product_id = ?", memberID, productID).
		Delete(&model.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepo) ClearByMember(ctx context.Context, memberID int64) error {
	return r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Delete(&model.CartItem{}).Error
}
