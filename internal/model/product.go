package model

// Product 商品（B2B 批发目录的最小售卖单位）
type Product struct {
	BaseModel

	// --- 分类 ---
	CategoryID *int64    `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// --- 基本信息 ---
	Brand       string `gorm:"size:100;index" json:"brand"`
	ModelName   string `gorm:"size:255;not null;index" json:"model_name"` // 展示名，必填；与 ModelNo 组成去重自然键
	ModelNo     string `gorm:"size:100;index" json:"model_no"`            // 型号编码，可空
	Description string `gorm:"type:text" json:"description"`
	ProductSpec string `gorm:"size:255" json:"product_spec"`

	// --- 价格（单位：원） ---
	ConsumerPrice int64 `gorm:"default:0" json:"consumer_price"` // 소비자가
	SupplyPrice   int64 `gorm:"default:0" json:"supply_price"`   // 공급가，缺省回落到 B2BPrice
	B2BPrice      int64 `gorm:"column:b2b_price;default:0" json:"b2b_price"` // 실판매가；NamingStrategy 会把 B2BPrice 拆成 b2_b_price，必须显式指定列名
	UnitCost      int64 `gorm:"default:0" json:"unit_cost"`      // 推算单件成本

	// --- 库存与包装 ---
	StockQuantity     int `gorm:"default:0" json:"stock_quantity"`
	QuantityPerCarton int `gorm:"default:1" json:"quantity_per_carton"`

	// --- 运费 ---
	ShippingFee           int64 `gorm:"default:0" json:"shipping_fee"`            // 旧的通用배송비字段，仅作回落来源
	ShippingFeeIndividual int64 `gorm:"default:0" json:"shipping_fee_individual"` // 개별배송비
	ShippingFeeCarton     int64 `gorm:"default:0" json:"shipping_fee_carton"`     // 카톤배송비

	// --- 状态开关 ---
	IsTaxFree    bool `gorm:"default:false" json:"is_tax_free"`
	// 不挂 default:true，否则 gorm 建行时会把显式 false 当零值吞掉
	IsAvailable  bool `json:"is_available"`
	IsNew        bool `gorm:"default:false" json:"is_new"`
	DisplayOrder int  `gorm:"default:0;index" json:"display_order"`

	// --- 展示资源 ---
	ImageURL  string `gorm:"size:1024" json:"image_url"`
	DetailURL string `gorm:"type:text" json:"detail_url"` // URL 或原样保留的 HTML 片段

	// --- 其他 ---
	ProductOptions string `gorm:"type:text" json:"product_options"` // 옵션，分隔符自由文本
	Manufacturer   string `gorm:"size:255" json:"manufacturer"`
	Origin         string `gorm:"size:255" json:"origin"`
	Remarks        string `gorm:"type:text" json:"remarks"`
}

func (Product) TableName() string {
	return "products"
}
