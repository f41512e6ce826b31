package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/model"
	"scm_dev_v1_202608/internal/repository"
)

// ErrCartEmpty 购物车为空，无法生成报价单
var ErrCartEmpty = errors.New("장바구니가 비어있습니다")

// ErrInvalidStatusChange 不允许的状态变更
var ErrInvalidStatusChange = errors.New("invalid quote status change")

// QuoteService 报价单服务
type QuoteService struct {
	db        *gorm.DB
	quoteRepo repository.QuoteRepository
	cartRepo  repository.CartRepository
}

// NewQuoteService 创建报价单服务
func NewQuoteService(db *gorm.DB, quoteRepo repository.QuoteRepository, cartRepo repository.CartRepository) *QuoteService {
	return &QuoteService{db: db, quoteRepo: quoteRepo, cartRepo: cartRepo}
}

// ==================== 下单 ====================

// CreateFromCart 把会员购物车整车转为报价单，单事务内完成：
// 建单 -> 按当前 B2B 价固化明细 -> 汇总金额 -> 清空购物车
func (s *QuoteService) CreateFromCart(ctx context.Context, memberID int64, req *dto.CreateQuoteReq) (*model.Quote, error) {
	var quoteID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		quoteRepo := s.quoteRepo.WithTx(tx)

		cartItems, err := cartRepo.ListByMember(ctx, memberID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		quote := &model.Quote{
			MemberID:    memberID,
			QuoteNumber: fmt.Sprintf("Q%d", time.Now().UnixMilli()),
			Status:      model.QuoteStatusPending,
			Notes:       req.Notes,
		}
		if req.DeliveryDate != "" {
			if d, err := time.Parse("2006-01-02", req.DeliveryDate); err == nil {
				quote.DeliveryDate = &d
			}
		}
		if err := quoteRepo.Create(ctx, quote); err != nil {
			return err
		}

		items := make([]model.QuoteItem, 0, len(cartItems))
		var total int64
		for _, ci := range cartItems {
			if ci.Product == nil {
				continue // 商品已被删除的残留行，跳过
			}
			subtotal := ci.Product.B2BPrice * int64(ci.Quantity)
			items = append(items, model.QuoteItem{
				QuoteID:   quote.ID,
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				UnitPrice: ci.Product.B2BPrice,
				Subtotal:  subtotal,
			})
			total += subtotal
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}
		if err := quoteRepo.CreateItems(ctx, items); err != nil {
			return err
		}
		if err := quoteRepo.UpdateFields(ctx, quote.ID, map[string]interface{}{"total_amount": total}); err != nil {
			return err
		}
		if err := cartRepo.ClearByMember(ctx, memberID); err != nil {
			return err
		}
		quoteID = quote.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infow("报价单已生成", "quote_id", quoteID, "member_id", memberID)
	return s.quoteRepo.GetByID(ctx, quoteID)
}

// ==================== 查询 ====================

// ListForMember 会员自己的报价单
func (s *QuoteService) ListForMember(ctx context.Context, memberID int64, status string, page, pageSize int) ([]model.Quote, int64, error) {
	return s.quoteRepo.List(ctx, repository.QuoteFilter{
		MemberID: memberID,
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
}

// ListAll 管理员视图
func (s *QuoteService) ListAll(ctx context.Context, status string, page, pageSize int) ([]model.Quote, int64, error) {
	return s.quoteRepo.List(ctx, repository.QuoteFilter{
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetForMember 会员只能看到自己的单
func (s *QuoteService) GetForMember(ctx context.Context, id, memberID int64) (*model.Quote, error) {
	return s.quoteRepo.GetByIDForMember(ctx, id, memberID)
}

// Get 管理员不限归属
func (s *QuoteService) Get(ctx context.Context, id int64) (*model.Quote, error) {
	return s.quoteRepo.GetByID(ctx, id)
}

// ==================== 管理员操作 ====================

// UpdateStatus 更新报价单状态；已取消的单不允许再变更
func (s *QuoteService) UpdateStatus(ctx context.Context, id int64, status string) (*model.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status == model.QuoteStatusCancelled {
		return nil, ErrInvalidStatusChange
	}

	fields := map[string]interface{}{"status": status}
	if status == model.QuoteStatusShipped && quote.ShippedAt == nil {
		now := time.Now()
		fields["shipped_at"] = &now
	}
	if err := s.quoteRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.quoteRepo.GetByID(ctx, id)
}

// SetShipping 登记承运方与运单号，同时将状态置为已发货
func (s *QuoteService) SetShipping(ctx context.Context, id int64, req *dto.QuoteShippingReq) (*model.Quote, error) {
	now := time.Now()
	err := s.quoteRepo.UpdateFields(ctx, id, map[string]interface{}{
		"carrier":         req.Carrier,
		"tracking_number": req.TrackingNumber,
		"status":          model.QuoteStatusShipped,
		"shipped_at":      &now,
	})
	if err != nil {
		return nil, err
	}
	return s.quoteRepo.GetByID(ctx, id)
}

// CancelForMember 会员取消自己的待处理报价单
func (s *QuoteService) CancelForMember(ctx context.Context, id, memberID int64) error {
	quote, err := s.quoteRepo.GetByIDForMember(ctx, id, memberID)
	if err != nil {
		return err
	}
	if quote.Status != model.QuoteStatusPending {
		return ErrInvalidStatusChange
	}
	return s.quoteRepo.UpdateFields(ctx, id, map[string]interface{}{"status": model.QuoteStatusCancelled})
}

// ==================== 购物车 ====================

// CartList 购物车明细（含商品）
func (s *QuoteService) CartList(ctx context.Context, memberID int64) ([]model.CartItem, error) {
	return s.cartRepo.ListByMember(ctx, memberID)
}

// CartAdd 加购；重复加购同一商品累加数量
func (s *QuoteService) CartAdd(ctx context.Context, memberID int64, req *dto.CartItemReq) error {
	return s.cartRepo.Upsert(ctx, &model.CartItem{
		MemberID:  memberID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
}

// CartUpdateQuantity 改数量（覆盖而非累加）
func (s *QuoteService) CartUpdateQuantity(ctx context.Context, memberID int64, req *dto.CartItemReq) error {
	return s.cartRepo.UpdateQuantity(ctx, memberID, req.ProductID, req.Quantity)
}

// CartRemove 移除单个商品
func (s *QuoteService) CartRemove(ctx context.Context, memberID, productID int64) error {
	return s.cartRepo.Remove(ctx, memberID, productID)
}

// CartClear 清空购物车
func (s *QuoteService) CartClear(ctx context.Context, memberID int64) error {
	return s.cartRepo.ClearByMember(ctx, memberID)
}
