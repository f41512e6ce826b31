package model

import "time"

// 报价单状态
const (
	QuoteStatusPending   = "pending"
	QuoteStatusConfirmed = "confirmed"
	QuoteStatusShipped   = "shipped"
	QuoteStatusCancelled = "cancelled"
)

// Quote 报价单（B2B 下单前的见积）
type Quote struct {
	BaseModel
	MemberID       int64       `gorm:"index;not null" json:"member_id"`
	QuoteNumber    string      `gorm:"size:40;uniqueIndex;not null" json:"quote_number"`
	Status         string      `gorm:"size:20;default:pending;index" json:"status"`
	DeliveryDate   *time.Time  `json:"delivery_date,omitempty"`
	Notes          string      `gorm:"type:text" json:"notes"`
	TotalAmount    int64       `gorm:"default:0" json:"total_amount"` // 明细小计之和，B2B 单价口径
	Carrier        string      `gorm:"size:100" json:"carrier"`
	TrackingNumber string      `gorm:"size:100" json:"tracking_number"`
	ShippedAt      *time.Time  `json:"shipped_at,omitempty"`
	Items          []QuoteItem `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
}

func (Quote) TableName() string {
	return "quotes"
}

// QuoteItem 报价明细，单价固化为下单时点的 B2B 价
type QuoteItem struct {
	BaseModel
	QuoteID   int64    `gorm:"index;not null" json:"quote_id"`
	ProductID int64    `gorm:"index;not null" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	UnitPrice int64    `gorm:"not null" json:"unit_price"`
	Subtotal  int64    `gorm:"not null" json:"subtotal"`
}

func (QuoteItem) TableName() string {
	return "quote_items"
}
