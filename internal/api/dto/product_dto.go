package dto

// ==================== 请求 DTO ====================

// ProductReq 管理后台创建/更新商品请求
type ProductReq struct {
	CategoryID        *int64 `json:"category_id"`
	Brand             string `json:"brand"`
	ModelName         string `json:"model_name" binding:"required"`
	ModelNo           string `json:"model_no"`
	Description       string `json:"description"`
	ProductSpec       string `json:"product_spec"`
	ProductOptions    string `json:"product_options"`
	Manufacturer      string `json:"manufacturer"`
	Origin            string `json:"origin"`
	ImageURL          string `json:"image_url"`
	DetailURL         string `json:"detail_url"`
	Remarks           string `json:"remarks"`
	ConsumerPrice     int64  `json:"consumer_price"`
	SupplyPrice       int64  `json:"supply_price"`
	B2BPrice          int64  `json:"b2b_price"`
	UnitCost          int64  `json:"unit_cost"`
	StockQuantity     int    `json:"stock_quantity"`
	QuantityPerCarton int    `json:"quantity_per_carton"`
	ShippingFee       int64  `json:"shipping_fee"`
	ShippingFeeInd    int64  `json:"shipping_fee_individual"`
	ShippingFeeCarton int64  `json:"shipping_fee_carton"`
	IsTaxFree         bool   `json:"is_tax_free"`
	IsAvailable       *bool  `json:"is_available"` // 缺省 true
}

// ToggleAvailabilityReq 上下架开关
type ToggleAvailabilityReq struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// DisplayOrderReq 展示权重
type DisplayOrderReq struct {
	DisplayOrder *int `json:"display_order" binding:"required"`
}

// NewStatusReq 新品角标开关
type NewStatusReq struct {
	IsNew *bool `json:"is_new" binding:"required"`
}

// ==================== 响应 DTO ====================

// Pagination 通用分页信息
type Pagination struct {
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int   `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// CountResp 按条件批量删除等操作的响应
type CountResp struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}
