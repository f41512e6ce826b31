package service

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"scm_dev_v1_202608/internal/api/dto"
)

// ==================== 修复阈值 ====================

const (
	// 개별배송비 小于 100원 的正数基本可以断定是千单位被截断的录入
	//（例如 "3" 实际是 3000원；韩국 국내 택배费不可能低于 100원），按 1000 倍还原。
	// 固定常量，不做推断，不自动调整。
	shippingFeeUnitThreshold = 100
	shippingFeeUnitFactor    = 1000
)

// ==================== 服务定义 ====================

// RepairService 历史脏数据批量修复
// 每个任务都是幂等的全表条件更新，单独事务，出错整体回滚
type RepairService struct {
	db *gorm.DB
}

// NewRepairService 创建修复服务
func NewRepairService(db *gorm.DB) *RepairService {
	return &RepairService{db: db}
}

// SwapPrices 互换录反的 실판매가/소비자가
// 실판매가 高于 소비자가 且 소비자가 为正，视为两列录入时互换
func (s *RepairService) SwapPrices(ctx context.Context) (int64, error) {
	return s.execOne(ctx, `
		UPDATE products
		SET b2b_price = consumer_price, consumer_price = b2b_price
		WHERE b2b_price > consumer_price AND consumer_price > 0`)
}

// BackfillSupplyPrice 공급가 为空/零时回填为 실판매가
func (s *RepairService) BackfillSupplyPrice(ctx context.Context) (int64, error) {
	return s.execOne(ctx, `
		UPDATE products
		SET supply_price = b2b_price
		WHERE (supply_price = 0 OR supply_price IS NULL) AND b2b_price > 0`)
}

// FixShippingFeeUnits 还原千单位被截断的개별배송비
func (s *RepairService) FixShippingFeeUnits(ctx context.Context) (int64, error) {
	return s.execOne(ctx, `
		UPDATE products
		SET shipping_fee_individual = shipping_fee_individual * ?
		WHERE shipping_fee_individual > 0 AND shipping_fee_individual < ?`,
		shippingFeeUnitFactor, shippingFeeUnitThreshold)
}

// BackfillShippingFee 개별배송비 为空/零时回填为旧的通用배송비
func (s *RepairService) BackfillShippingFee(ctx context.Context) (int64, error) {
	return s.execOne(ctx, `
		UPDATE products
		SET shipping_fee_individual = shipping_fee
		WHERE (shipping_fee_individual = 0 OR shipping_fee_individual IS NULL) AND shipping_fee > 0`)
}

// RunAll 四项修复按固定顺序跑在同一个事务里（价格互换 -> 공급가回填 -> 운임单位 -> 운임回填）
func (s *RepairService) RunAll(ctx context.Context) (*dto.RepairSummary, error) {
	summary := &dto.RepairSummary{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			out  *int64
			sql  string
			args []interface{}
		}{
			{&summary.Swapped, `
				UPDATE products
				SET b2b_price = consumer_price, consumer_price = b2b_price
				WHERE b2b_price > consumer_price AND consumer_price > 0`, nil},
			{&summary.SyncedSupply, `
				UPDATE products
				SET supply_price = b2b_price
				WHERE (supply_price = 0 OR supply_price IS NULL) AND b2b_price > 0`, nil},
			{&summary.FixedShipping, `
				UPDATE products
				SET shipping_fee_individual = shipping_fee_individual * ?
				WHERE shipping_fee_individual > 0 AND shipping_fee_individual < ?`,
				[]interface{}{shippingFeeUnitFactor, shippingFeeUnitThreshold}},
			{&summary.SyncedShipping, `
				UPDATE products
				SET shipping_fee_individual = shipping_fee
				WHERE (shipping_fee_individual = 0 OR shipping_fee_individual IS NULL) AND shipping_fee > 0`, nil},
		}
		for _, step := range steps {
			res := tx.Exec(step.sql, step.args...)
			if res.Error != nil {
				return res.Error
			}
			*step.out = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.S().Infow("数据修复完成",
		"swapped", summary.Swapped,
		"synced_supply", summary.SyncedSupply,
		"fixed_shipping", summary.FixedShipping,
		"synced_shipping", summary.SyncedShipping,
	)
	return summary, nil
}

// ResetProductSequence 商品 ID 序列重置到当前最大值（仅 Postgres，批量删除后使用）
func (s *RepairService) ResetProductSequence(ctx context.Context) (int64, error) {
	var maxID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(`SELECT COALESCE(MAX(id), 1) FROM products`).Scan(&maxID).Error; err != nil {
			return err
		}
		return tx.Exec(`SELECT setval('products_id_seq', ?)`, maxID).Error
	})
	return maxID, err
}

func (s *RepairService) execOne(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(sql, args...)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}
