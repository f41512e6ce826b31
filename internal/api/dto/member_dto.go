package dto

// RegisterReq 合作伙伴注册
type RegisterReq struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=6"`
	CompanyName string `json:"company_name" binding:"required"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
}

// LoginReq 登录
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResp 登录成功响应
type LoginResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	IsApproved   bool   `json:"is_approved"`
}

// ApprovalReq 审批/驳回
type ApprovalReq struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ResetPasswordReq 管理员重置会员密码
type ResetPasswordReq struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// AdminStatsResp 管理后台统计
type AdminStatsResp struct {
	ProductCount   int64            `json:"product_count"`
	PendingMembers int64            `json:"pending_members"`
	QuotesByStatus map[string]int64 `json:"quotes_by_status"`
}
