package service

import (
	"context"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/repository"
)

// DashboardService 管理后台首页统计
type DashboardService struct {
	productRepo repository.ProductRepository
	memberRepo  repository.MemberRepository
	quoteRepo   repository.QuoteRepository
}

// NewDashboardService 创建统计服务
func NewDashboardService(
	productRepo repository.ProductRepository,
	memberRepo repository.MemberRepository,
	quoteRepo repository.QuoteRepository,
) *DashboardService {
	return &DashboardService{
		productRepo: productRepo,
		memberRepo:  memberRepo,
		quoteRepo:   quoteRepo,
	}
}

// Stats 汇总商品总数、待审批会员数与各状态报价单数
func (s *DashboardService) Stats(ctx context.Context) (*dto.AdminStatsResp, error) {
	productCount, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	pendingMembers, err := s.memberRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	quotesByStatus, err := s.quoteRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AdminStatsResp{
		ProductCount:   productCount,
		PendingMembers: pendingMembers,
		QuotesByStatus: quotesByStatus,
	}, nil
}
