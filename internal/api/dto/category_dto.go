package dto

// CategoryReq 创建/更新分类
type CategoryReq struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color"`
}

// NotificationReq 发布/更新公告
type NotificationReq struct {
	Title    string                 `json:"title" binding:"required,max=255"`
	Content  string                 `json:"content"`
	IsPinned bool                   `json:"is_pinned"`
	Meta     map[string]interface{} `json:"meta"`
}
