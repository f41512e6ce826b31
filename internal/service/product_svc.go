package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/model"
	"scm_dev_v1_202608/internal/repository"
	"scm_dev_v1_202608/pkg/cache"
)

// ErrImageFetchFailed 远端图片拉取失败
var ErrImageFetchFailed = errors.New("image fetch failed")

// ProductService 商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	productCache *cache.ProductCache
	httpClient   *resty.Client
}

// NewProductService 创建商品服务
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	productCache *cache.ProductCache,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		productCache: productCache,
		httpClient: resty.New().
			SetTimeout(10 * time.Second).
			SetRetryCount(2),
	}
}

// ==================== 列表 ====================

// listCacheKey 由过滤条件推导缓存 key，同条件命中同一份序列化结果
func listCacheKey(filter repository.ProductFilter) string {
	return fmt.Sprintf("list:%s:%d:%s:%t:%t:%s:%d:%d",
		filter.CategorySlug, filter.CategoryID, strings.ToLower(filter.Keyword),
		filter.OnlyNew, filter.IncludeUnavailable, filter.Sort,
		filter.Page, filter.PageSize)
}

// ListJSON 商品列表，返回已序列化的响应体（带旁路缓存）
func (s *ProductService) ListJSON(ctx context.Context, filter repository.ProductFilter) ([]byte, error) {
	key := listCacheKey(filter)
	if data, ok := s.productCache.Get(ctx, key); ok {
		return data, nil
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	body := map[string]interface{}{
		"products": products,
		"pagination": dto.Pagination{
			TotalItems:   total,
			TotalPages:   totalPages,
			CurrentPage:  page,
			ItemsPerPage: pageSize,
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	s.productCache.Set(ctx, key, data)
	return data, nil
}

// GetByID 商品详情
func (s *ProductService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// FilterOptions 品牌/制造商/原产地去重列表，前端筛选框数据源
func (s *ProductService) FilterOptions(ctx context.Context) (map[string][]string, error) {
	brands, err := s.productRepo.DistinctBrands(ctx)
	if err != nil {
		return nil, err
	}
	manufacturers, err := s.productRepo.DistinctManufacturers(ctx)
	if err != nil {
		return nil, err
	}
	origins, err := s.productRepo.DistinctOrigins(ctx)
	if err != nil {
		return nil, err
	}
	return map[string][]string{
		"brands":        brands,
		"manufacturers": manufacturers,
		"origins":       origins,
	}, nil
}

// ==================== 写操作 ====================

// Create 后台单条创建
func (s *ProductService) Create(ctx context.Context, req *dto.ProductReq) (*model.Product, error) {
	product := s.fromReq(req)
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.productCache.Invalidate(ctx)
	return product, nil
}

// Update 后台整条覆盖更新
func (s *ProductService) Update(ctx context.Context, id int64, req *dto.ProductReq) (*model.Product, error) {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product := s.fromReq(req)
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.productCache.Invalidate(ctx)
	return s.productRepo.GetByID(ctx, id)
}

func (s *ProductService) fromReq(req *dto.ProductReq) *model.Product {
	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}
	cartonQty := req.QuantityPerCarton
	if cartonQty < 1 {
		cartonQty = 1
	}
	return &model.Product{
		CategoryID:            req.CategoryID,
		Brand:                 req.Brand,
		ModelName:             req.ModelName,
		ModelNo:               req.ModelNo,
		Description:           req.Description,
		ProductSpec:           req.ProductSpec,
		ProductOptions:        req.ProductOptions,
		Manufacturer:          req.Manufacturer,
		Origin:                req.Origin,
		ImageURL:              req.ImageURL,
		DetailURL:             req.DetailURL,
		Remarks:               req.Remarks,
		ConsumerPrice:         req.ConsumerPrice,
		SupplyPrice:           req.SupplyPrice,
		B2BPrice:              req.B2BPrice,
		UnitCost:              req.UnitCost,
		StockQuantity:         req.StockQuantity,
		QuantityPerCarton:     cartonQty,
		ShippingFee:           req.ShippingFee,
		ShippingFeeIndividual: req.ShippingFeeInd,
		ShippingFeeCarton:     req.ShippingFeeCarton,
		IsTaxFree:             req.IsTaxFree,
		IsAvailable:           isAvailable,
	}
}

// ToggleAvailability 上下架
func (s *ProductService) ToggleAvailability(ctx context.Context, id int64, available bool) error {
	if err := s.productRepo.UpdateFields(ctx, id, map[string]interface{}{"is_available": available}); err != nil {
		return err
	}
	s.productCache.Invalidate(ctx)
	return nil
}

// SetDisplayOrder 调整展示权重
func (s *ProductService) SetDisplayOrder(ctx context.Context, id int64, order int) error {
	if err := s.productRepo.UpdateFields(ctx, id, map[string]interface{}{"display_order": order}); err != nil {
		return err
	}
	s.productCache.Invalidate(ctx)
	return nil
}

// SetNewStatus 新品角标
func (s *ProductService) SetNewStatus(ctx context.Context, id int64, isNew bool) error {
	if err := s.productRepo.UpdateFields(ctx, id, map[string]interface{}{"is_new": isNew}); err != nil {
		return err
	}
	s.productCache.Invalidate(ctx)
	return nil
}

// ==================== 删除 ====================

// Delete 删除单条商品（连带清理报价明细）
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.productCache.Invalidate(ctx)
	return nil
}

// DeleteCreatedAfter 删除指定时刻之后导入的商品，用于回滚误导入批次
func (s *ProductService) DeleteCreatedAfter(ctx context.Context, cutoff time.Time) (int64, error) {
	count, err := s.productRepo.DeleteCreatedAfter(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.productCache.Invalidate(ctx)
	}
	zap.S().Infow("按时间批量删除商品", "cutoff", cutoff, "count", count)
	return count, nil
}

// DeleteIDRange 按 ID 区间删除
func (s *ProductService) DeleteIDRange(ctx context.Context, startID, endID int64) (int64, error) {
	count, err := s.productRepo.DeleteIDRange(ctx, startID, endID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.productCache.Invalidate(ctx)
	}
	zap.S().Infow("按区间批量删除商品", "start", startID, "end", endID, "count", count)
	return count, nil
}

// ==================== 图片代理 ====================

// FetchImage 代理拉取远端商品图，绕开原站的防盗链限制
// 返回图片字节与 Content-Type
func (s *ProductService) FetchImage(ctx context.Context, rawURL string) ([]byte, string, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, "", ErrImageFetchFailed
	}

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("Referer", rawURL).
		Get(rawURL)
	if err != nil {
		zap.S().Warnf("图片代理请求失败 url=%s: %v", rawURL, err)
		return nil, "", ErrImageFetchFailed
	}
	if resp.StatusCode() >= 400 {
		return nil, "", ErrImageFetchFailed
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return resp.Body(), contentType, nil
}
