package dto

// CreateQuoteReq 从购物车生成报价单
type CreateQuoteReq struct {
	DeliveryDate string `json:"delivery_date"` // YYYY-MM-DD，可空
	Notes        string `json:"notes"`
}

// QuoteStatusReq 管理员更新报价单状态
type QuoteStatusReq struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed shipped cancelled"`
}

// QuoteShippingReq 管理员登记发货信息
type QuoteShippingReq struct {
	Carrier        string `json:"carrier" binding:"required"`
	TrackingNumber string `json:"tracking_number" binding:"required"`
}

// CartItemReq 加购/改数量
type CartItemReq struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gte=1"`
}
