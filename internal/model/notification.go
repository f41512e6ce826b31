package model

import "gorm.io/datatypes"

// Notification 公告，管理员发布，全员可见
type Notification struct {
	BaseModel
	Title    string         `gorm:"size:255;not null" json:"title"`
	Content  string         `gorm:"type:text" json:"content"`
	IsPinned bool           `gorm:"default:false" json:"is_pinned"`
	Meta     datatypes.JSON `gorm:"type:jsonb" json:"meta,omitempty"` // 附加链接/角标等扩展字段
}

func (Notification) TableName() string {
	return "notifications"
}
