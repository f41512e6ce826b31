package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scm_dev_v1_202608/internal/model"
)

func setupProductTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	err = db.AutoMigrate(&model.Category{}, &model.Product{}, &model.Quote{}, &model.QuoteItem{})
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

// B2BPrice 不显式指定列名时 NamingStrategy 会迁移成 b2_b_price，
// 所有写死 b2b_price 的原生 SQL（修复任务、价格排序、update 导入）都会打到不存在的列上
func TestProductRepo_B2BPriceColumnName(t *testing.T) {
	db := setupProductTestDB(t)

	if !db.Migrator().HasColumn(&model.Product{}, "b2b_price") {
		t.Fatal("products 表缺少 b2b_price 列")
	}

	db.Create(&model.Product{ModelName: "COL-CHECK", B2BPrice: 12345})
	var got int64
	if err := db.Model(&model.Product{}).Where("model_name = ?", "COL-CHECK").
		Select("b2b_price").Scan(&got).Error; err != nil {
		t.Fatalf("按列名读取失败: %v", err)
	}
	if got != 12345 {
		t.Errorf("b2b_price = %d, want 12345", got)
	}
}

func TestProductRepo_FirstByModelName_LowestID(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	first := &model.Product{ModelName: "MX-DUP"}
	second := &model.Product{ModelName: "MX-DUP"}
	db.Create(first)
	db.Create(second)

	got, err := repo.FirstByModelName(ctx, "MX-DUP")
	if err != nil {
		t.Fatalf("FirstByModelName() error = %v", err)
	}
	if got == nil || got.ID != first.ID {
		t.Errorf("同名多条应取最小 ID: got %+v", got)
	}

	miss, err := repo.FirstByModelName(ctx, "없는모델")
	if err != nil {
		t.Fatalf("FirstByModelName() error = %v", err)
	}
	if miss != nil {
		t.Errorf("miss 应返回 nil，got %+v", miss)
	}
}

func TestProductRepo_Delete_CascadesQuoteItems(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	product := &model.Product{ModelName: "MX-1", B2BPrice: 10000}
	db.Create(product)
	quote := &model.Quote{MemberID: 1, QuoteNumber: "Q1"}
	db.Create(quote)
	db.Create(&model.QuoteItem{QuoteID: quote.ID, ProductID: product.ID, Quantity: 1, UnitPrice: 10000, Subtotal: 10000})

	if err := repo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var itemCount int64
	db.Model(&model.QuoteItem{}).Count(&itemCount)
	if itemCount != 0 {
		t.Errorf("报价明细未连带删除: %d", itemCount)
	}

	if err := repo.Delete(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("重复删除应返回 ErrProductNotFound，got %v", err)
	}
}

func TestProductRepo_DeleteCreatedAfter(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	old := &model.Product{ModelName: "OLD"}
	db.Create(old)
	// 把旧商品的创建时间拨回两天前
	db.Model(old).Update("created_at", time.Now().Add(-48*time.Hour))

	db.Create(&model.Product{ModelName: "NEW-1"})
	db.Create(&model.Product{ModelName: "NEW-2"})

	count, err := repo.DeleteCreatedAfter(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteCreatedAfter() error = %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	var remaining []model.Product
	db.Find(&remaining)
	if len(remaining) != 1 || remaining[0].ModelName != "OLD" {
		t.Errorf("应只剩旧商品: %+v", remaining)
	}
}

func TestProductRepo_List_Filters(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	cat := &model.Category{Name: "주방용품", Slug: "주방용품"}
	db.Create(cat)

	db.Create(&model.Product{ModelName: "Alpha Mixer", Brand: "ACME", CategoryID: &cat.ID, IsAvailable: true, B2BPrice: 100})
	db.Create(&model.Product{ModelName: "Beta Mixer", Brand: "Bosong", IsAvailable: true, B2BPrice: 200})
	db.Create(&model.Product{ModelName: "Hidden", Brand: "ACME", IsAvailable: false})

	// 缺省排除下架
	products, total, err := repo.List(ctx, ProductFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("total=%d len=%d, want 2/2", total, len(products))
	}

	// 分类 slug 过滤
	products, total, err = repo.List(ctx, ProductFilter{CategorySlug: "주방용품"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || products[0].ModelName != "Alpha Mixer" {
		t.Errorf("slug 过滤错误: total=%d", total)
	}

	// 关键字大小写不敏感
	_, total, err = repo.List(ctx, ProductFilter{Keyword: "mixer"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 {
		t.Errorf("keyword total = %d, want 2", total)
	}

	// 管理视图含下架
	_, total, err = repo.List(ctx, ProductFilter{IncludeUnavailable: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 3 {
		t.Errorf("include_unavailable total = %d, want 3", total)
	}

	// 价格升序
	products, _, err = repo.List(ctx, ProductFilter{Sort: "price_asc"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if products[0].B2BPrice != 100 {
		t.Errorf("price_asc 排序错误: 首条 b2b=%d", products[0].B2BPrice)
	}
}
