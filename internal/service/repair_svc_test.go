package service

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scm_dev_v1_202608/internal/model"
)

func setupRepairTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Product{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func TestSwapPrices(t *testing.T) {
	db := setupRepairTestDB(t)
	svc := NewRepairService(db)

	swapped := &model.Product{ModelName: "A", B2BPrice: 20000, ConsumerPrice: 15000}
	normal := &model.Product{ModelName: "B", B2BPrice: 10000, ConsumerPrice: 15000}
	zeroConsumer := &model.Product{ModelName: "C", B2BPrice: 20000, ConsumerPrice: 0}
	db.Create(swapped)
	db.Create(normal)
	db.Create(zeroConsumer)

	count, err := svc.SwapPrices(context.Background())
	if err != nil {
		t.Fatalf("SwapPrices() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	// 复用同一个 struct 会把上一轮的主键带进 WHERE，必须每次换新的
	var a, b, c model.Product
	db.First(&a, swapped.ID)
	if a.B2BPrice != 15000 || a.ConsumerPrice != 20000 {
		t.Errorf("互换失败: b2b=%d consumer=%d", a.B2BPrice, a.ConsumerPrice)
	}
	db.First(&b, normal.ID)
	if b.B2BPrice != 10000 || b.ConsumerPrice != 15000 {
		t.Errorf("正常行不应被动: b2b=%d consumer=%d", b.B2BPrice, b.ConsumerPrice)
	}
	db.First(&c, zeroConsumer.ID)
	if c.B2BPrice != 20000 {
		t.Errorf("소비자가为零的行不应互换: b2b=%d", c.B2BPrice)
	}
}

func TestSwapPrices_Idempotent(t *testing.T) {
	db := setupRepairTestDB(t)
	svc := NewRepairService(db)
	ctx := context.Background()

	db.Create(&model.Product{ModelName: "A", B2BPrice: 20000, ConsumerPrice: 15000})

	if _, err := svc.SwapPrices(ctx); err != nil {
		t.Fatalf("SwapPrices() error = %v", err)
	}
	count, err := svc.SwapPrices(ctx)
	if err != nil {
		t.Fatalf("SwapPrices() error = %v", err)
	}
	if count != 0 {
		t.Errorf("第二次应无事可做: count = %d", count)
	}
}

func TestBackfillSupplyPrice(t *testing.T) {
	db := setupRepairTestDB(t)
	svc := NewRepairService(db)

	missing := &model.Product{ModelName: "A", B2BPrice: 10000, SupplyPrice: 0}
	present := &model.Product{ModelName: "B", B2BPrice: 10000, SupplyPrice: 8000}
	db.Create(missing)
	db.Create(present)

	count, err := svc.BackfillSupplyPrice(context.Background())
	if err != nil {
		t.Fatalf("BackfillSupplyPrice() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	var filled, kept model.Product
	db.First(&filled, missing.ID)
	if filled.SupplyPrice != 10000 {
		t.Errorf("回填失败: supply=%d", filled.SupplyPrice)
	}
	db.First(&kept, present.ID)
	if kept.SupplyPrice != 8000 {
		t.Errorf("已有공급가不应被覆盖: supply=%d", kept.SupplyPrice)
	}
}

func TestFixShippingFeeUnits(t *testing.T) {
	db := setupRepairTestDB(t)
	svc := NewRepairService(db)

	truncated := &model.Product{ModelName: "A", ShippingFeeIndividual: 5}
	boundary := &model.Product{ModelName: "B", ShippingFeeIndividual: 99}
	normal := &model.Product{ModelName: "C", ShippingFeeIndividual: 150}
	zero := &model.Product{ModelName: "D", ShippingFeeIndividual: 0}
	db.Create(truncated)
	db.Create(boundary)
	db.Create(normal)
	db.Create(zero)

	count, err := svc.FixShippingFeeUnits(context.Background())
	if err != nil {
		t.Fatalf("FixShippingFeeUnits() error = %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	var a, b, c, d model.Product
	db.First(&a, truncated.ID)
	if a.ShippingFeeIndividual != 5000 {
		t.Errorf("5 应还原为 5000: %d", a.ShippingFeeIndividual)
	}
	db.First(&b, boundary.ID)
	if b.ShippingFeeIndividual != 99000 {
		t.Errorf("99 应还原为 99000: %d", b.ShippingFeeIndividual)
	}
	db.First(&c, normal.ID)
	if c.ShippingFeeIndividual != 150 {
		t.Errorf("150 不应被动: %d", c.ShippingFeeIndividual)
	}
	db.First(&d, zero.ID)
	if d.ShippingFeeIndividual != 0 {
		t.Errorf("0 不应被动: %d", d.ShippingFeeIndividual)
	}
}

func TestBackfillShippingFee(t *testing.T) {
	db := setupRepairTestDB(t)
	svc := NewRepairService(db)

	missing := &model.Product{ModelName: "A", ShippingFee: 3000, ShippingFeeIndividual: 0}
	present := &model.Product{ModelName: "B", ShippingFee: 3000, ShippingFeeIndividual: 2500}
	db.Create(missing)
	db.Create(present)

	count, err := svc.BackfillShippingFee(context.Background())
	if err != nil {
		t.Fatalf("BackfillShippingFee() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	var p model.Product
	db.First(&p, missing.ID)
	if p.ShippingFeeIndividual != 3000 {
		t.Errorf("回填失败: %d", p.ShippingFeeIndividual)
	}
}

func TestRunAll(t *testing.T) {
	db := setupRepairTestDB(t)
	svc := NewRepairService(db)

	// 四类脏数据各一条
	db.Create(&model.Product{ModelName: "A", B2BPrice: 20000, ConsumerPrice: 15000, SupplyPrice: 5000})
	db.Create(&model.Product{ModelName: "B", B2BPrice: 10000, SupplyPrice: 0})
	db.Create(&model.Product{ModelName: "C", ShippingFeeIndividual: 3})
	db.Create(&model.Product{ModelName: "D", ShippingFee: 2500, ShippingFeeIndividual: 0})

	summary, err := svc.RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if summary.Swapped != 1 {
		t.Errorf("Swapped = %d, want 1", summary.Swapped)
	}
	if summary.SyncedSupply != 1 {
		t.Errorf("SyncedSupply = %d, want 1", summary.SyncedSupply)
	}
	if summary.FixedShipping != 1 {
		t.Errorf("FixedShipping = %d, want 1", summary.FixedShipping)
	}
	if summary.SyncedShipping != 1 {
		t.Errorf("SyncedShipping = %d, want 1", summary.SyncedShipping)
	}
}
