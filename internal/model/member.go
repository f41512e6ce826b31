package model

import "time"

// 会员角色
const (
	RoleAdmin   = "admin"
	RolePartner = "partner"
)

// Member 合作伙伴账号，注册后需管理员审批才能下单
type Member struct {
	BaseModel
	Username     string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"size:100;not null" json:"-"`
	CompanyName  string     `gorm:"size:255" json:"company_name"`
	ContactName  string     `gorm:"size:100" json:"contact_name"`
	Phone        string     `gorm:"size:50" json:"phone"`
	Email        string     `gorm:"size:255" json:"email"`
	Role         string     `gorm:"size:20;default:partner" json:"role"`
	IsApproved   bool       `gorm:"default:false" json:"is_approved"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
}

func (Member) TableName() string {
	return "members"
}
