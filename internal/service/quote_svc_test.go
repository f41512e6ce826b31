package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/model"
	"scm_dev_v1_202608/internal/repository"
)

func setupQuoteTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	err = db.AutoMigrate(&model.Product{}, &model.CartItem{}, &model.Quote{}, &model.QuoteItem{})
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func newQuoteService(db *gorm.DB) *QuoteService {
	return NewQuoteService(db,
		repository.NewQuoteRepository(db),
		repository.NewCartRepository(db),
	)
}

func TestCreateFromCart(t *testing.T) {
	db := setupQuoteTestDB(t)
	svc := newQuoteService(db)
	ctx := context.Background()
	const memberID = int64(7)

	p1 := &model.Product{ModelName: "MX-1", B2BPrice: 10000}
	p2 := &model.Product{ModelName: "MX-2", B2BPrice: 5000}
	db.Create(p1)
	db.Create(p2)
	db.Create(&model.CartItem{MemberID: memberID, ProductID: p1.ID, Quantity: 2})
	db.Create(&model.CartItem{MemberID: memberID, ProductID: p2.ID, Quantity: 3})

	quote, err := svc.CreateFromCart(ctx, memberID, &dto.CreateQuoteReq{Notes: "빠른 배송 부탁드립니다"})
	if err != nil {
		t.Fatalf("CreateFromCart() error = %v", err)
	}

	if !strings.HasPrefix(quote.QuoteNumber, "Q") {
		t.Errorf("QuoteNumber = %q, want Q 前缀", quote.QuoteNumber)
	}
	if quote.Status != model.QuoteStatusPending {
		t.Errorf("Status = %q, want pending", quote.Status)
	}
	if len(quote.Items) != 2 {
		t.Fatalf("明细数 = %d, want 2", len(quote.Items))
	}
	// 单价固化为下单时点 B2B 价，总额为小计之和
	if quote.TotalAmount != 2*10000+3*5000 {
		t.Errorf("TotalAmount = %d, want 35000", quote.TotalAmount)
	}
	for _, item := range quote.Items {
		if item.Subtotal != item.UnitPrice*int64(item.Quantity) {
			t.Errorf("小计不一致: %+v", item)
		}
	}

	// 下单后购物车清空
	var cartCount int64
	db.Model(&model.CartItem{}).Where("member_id = ?", memberID).Count(&cartCount)
	if cartCount != 0 {
		t.Errorf("购物车未清空: %d", cartCount)
	}
}

func TestCreateFromCart_Empty(t *testing.T) {
	db := setupQuoteTestDB(t)
	svc := newQuoteService(db)

	_, err := svc.CreateFromCart(context.Background(), 7, &dto.CreateQuoteReq{})
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("err = %v, want ErrCartEmpty", err)
	}

	// 空车下单不应留下半截报价单
	var count int64
	db.Model(&model.Quote{}).Count(&count)
	if count != 0 {
		t.Errorf("报价单数 = %d, want 0", count)
	}
}

func TestCartAdd_Accumulates(t *testing.T) {
	db := setupQuoteTestDB(t)
	svc := newQuoteService(db)
	ctx := context.Background()

	p := &model.Product{ModelName: "MX-1", B2BPrice: 10000}
	db.Create(p)

	req := &dto.CartItemReq{ProductID: p.ID, Quantity: 2}
	if err := svc.CartAdd(ctx, 7, req); err != nil {
		t.Fatalf("CartAdd() error = %v", err)
	}
	if err := svc.CartAdd(ctx, 7, req); err != nil {
		t.Fatalf("CartAdd() error = %v", err)
	}

	items, err := svc.CartList(ctx, 7)
	if err != nil {
		t.Fatalf("CartList() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("行数 = %d, want 1（重复加购合并）", len(items))
	}
	if items[0].Quantity != 4 {
		t.Errorf("Quantity = %d, want 4", items[0].Quantity)
	}
}

func TestUpdateStatus_CancelledLocked(t *testing.T) {
	db := setupQuoteTestDB(t)
	svc := newQuoteService(db)
	ctx := context.Background()

	quote := &model.Quote{MemberID: 7, QuoteNumber: "Q1", Status: model.QuoteStatusCancelled}
	db.Create(quote)

	_, err := svc.UpdateStatus(ctx, quote.ID, model.QuoteStatusConfirmed)
	if !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("err = %v, want ErrInvalidStatusChange", err)
	}
}

func TestSetShipping(t *testing.T) {
	db := setupQuoteTestDB(t)
	svc := newQuoteService(db)
	ctx := context.Background()

	quote := &model.Quote{MemberID: 7, QuoteNumber: "Q2", Status: model.QuoteStatusConfirmed}
	db.Create(quote)

	updated, err := svc.SetShipping(ctx, quote.ID, &dto.QuoteShippingReq{
		Carrier:        "CJ대한통운",
		TrackingNumber: "123456789",
	})
	if err != nil {
		t.Fatalf("SetShipping() error = %v", err)
	}
	if updated.Status != model.QuoteStatusShipped {
		t.Errorf("Status = %q, want shipped", updated.Status)
	}
	if updated.Carrier != "CJ대한통운" || updated.TrackingNumber != "123456789" {
		t.Errorf("发货信息未落库: %+v", updated)
	}
	if updated.ShippedAt == nil {
		t.Error("ShippedAt 未写入")
	}
}
