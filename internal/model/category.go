package model

// Category 商品分类
// Slug 由名称派生（小写、非字母数字连续段折叠为单个连字符），全表唯一；
// 导入时按 name → slug 顺序查找，找不到则即时创建
type Category struct {
	BaseModel
	Name  string `gorm:"size:100;not null;index" json:"name"`
	Slug  string `gorm:"size:120;uniqueIndex" json:"slug"`
	Color string `gorm:"size:20" json:"color"` // 前端展示用，可空
}

func (Category) TableName() string {
	return "categories"
}
