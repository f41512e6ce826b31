package model

import (
	"time"
)

// BaseModel 公共字段
// 管理后台的删除都是物理删除（商品删除要级联清理报价明细），因此不挂软删除字段
type BaseModel struct {
	ID        int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
