package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"scm_dev_v1_202608/internal/model"
)

// ErrMemberNotFound 目标会员不存在
var ErrMemberNotFound = errors.New("member not found")

// MemberRepository 会员仓储接口
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id int64) (*model.Member, error)
	GetByUsername(ctx context.Context, username string) (*model.Member, error)
	List(ctx context.Context, onlyPending bool) ([]model.Member, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	CountPending(ctx context.Context) (int64, error)
}

type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepository 创建会员仓储
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepo) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).First(&member, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) GetByUsername(ctx context.Context, username string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) List(ctx context.Context, onlyPending bool) ([]model.Member, error) {
	q := r.db.WithContext(ctx).Model(&model.Member{})
	if onlyPending {
		q = q.Where("is_approved = ? AND role <> ?", false, model.RoleAdmin)
	}
	var members []model.Member
	err := q.Order("created_at DESC").Find(&members).Error
	return members, err
}

func (r *memberRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Member{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *memberRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Member{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *memberRepo) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("is_approved = ? AND role <> ?", false, model.RoleAdmin).
		Count(&count).Error
	return count, err
}
