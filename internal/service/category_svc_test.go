package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/model"
	"scm_dev_v1_202608/internal/repository"
)

func setupCategoryServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	err = db.AutoMigrate(&model.Category{}, &model.Product{}, &model.QuoteItem{})
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func newCategoryService(db *gorm.DB) *CategoryService {
	return NewCategoryService(
		repository.NewCategoryRepository(db),
		repository.NewProductRepository(db),
		nil,
	)
}

func TestCategoryService_Create(t *testing.T) {
	db := setupCategoryServiceTestDB(t)
	svc := newCategoryService(db)
	ctx := context.Background()

	cat, err := svc.Create(ctx, &dto.CategoryReq{Name: "Kitchen Tools", Color: "#ff6600"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if cat.Slug != "kitchen-tools" {
		t.Errorf("Slug = %q, want kitchen-tools", cat.Slug)
	}

	// slug 撞车的名称被拒
	_, err = svc.Create(ctx, &dto.CategoryReq{Name: "kitchen tools"})
	if !errors.Is(err, ErrCategoryNameTaken) {
		t.Fatalf("err = %v, want ErrCategoryNameTaken", err)
	}
}

func TestCategoryService_Delete_Guarded(t *testing.T) {
	db := setupCategoryServiceTestDB(t)
	svc := newCategoryService(db)
	ctx := context.Background()

	cat, err := svc.Create(ctx, &dto.CategoryReq{Name: "주방용품"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	db.Create(&model.Product{ModelName: "MX-1", CategoryID: &cat.ID})
	db.Create(&model.Product{ModelName: "MX-2", CategoryID: &cat.ID})

	count, err := svc.Delete(ctx, cat.ID)
	if !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("err = %v, want ErrCategoryInUse", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	// 分类仍在
	remaining, _ := svc.List(ctx)
	if len(remaining) != 1 {
		t.Fatalf("分类不应被删: %d", len(remaining))
	}

	// 清空商品后可删
	db.Where("1 = 1").Delete(&model.Product{})
	if _, err := svc.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	remaining, _ = svc.List(ctx)
	if len(remaining) != 0 {
		t.Errorf("分类未删除: %d", len(remaining))
	}
}

func TestCategoryService_Update_RenamesSlug(t *testing.T) {
	db := setupCategoryServiceTestDB(t)
	svc := newCategoryService(db)
	ctx := context.Background()

	cat, err := svc.Create(ctx, &dto.CategoryReq{Name: "Old Name"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, cat.ID, &dto.CategoryReq{Name: "New Name", Color: "#123456"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Slug != "new-name" {
		t.Errorf("Slug = %q, want new-name", updated.Slug)
	}
	if updated.Color != "#123456" {
		t.Errorf("Color = %q", updated.Color)
	}
}
