package model

// CartItem 购物车行，提交报价单时整车转为报价明细并清空
type CartItem struct {
	BaseModel
	MemberID  int64    `gorm:"index:idx_cart_member_product,unique;not null" json:"member_id"`
	ProductID int64    `gorm:"index:idx_cart_member_product,unique;not null" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int      `gorm:"default:1" json:"quantity"`
}

func (CartItem) TableName() string {
	return "carts"
}
