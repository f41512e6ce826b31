package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/middleware"
	"scm_dev_v1_202608/internal/model"
	"scm_dev_v1_202608/internal/repository"
)

// ErrUsernameTaken 用户名已被注册
var ErrUsernameTaken = errors.New("이미 사용중인 아이디입니다")

// ErrInvalidCredentials 用户名或密码错误
var ErrInvalidCredentials = errors.New("아이디 또는 비밀번호가 올바르지 않습니다")

// MemberService 会员服务（注册/登录/审批）
type MemberService struct {
	memberRepo repository.MemberRepository
}

// NewMemberService 创建会员服务
func NewMemberService(memberRepo repository.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// ==================== 注册登录 ====================

// Register 合作伙伴注册，默认未审批
func (s *MemberService) Register(ctx context.Context, req *dto.RegisterReq) (*model.Member, error) {
	existing, err := s.memberRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	member := &model.Member{
		Username:     req.Username,
		PasswordHash: string(hash),
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         model.RolePartner,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	zap.S().Infow("新会员注册", "member_id", member.ID, "username", member.Username)
	return member, nil
}

// Login 校验口令并签发 Token 对
func (s *MemberService) Login(ctx context.Context, req *dto.LoginReq) (*dto.LoginResp, error) {
	member, err := s.memberRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(
		member.ID, member.Username, member.Role, member.IsApproved)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResp{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Username:     member.Username,
		Role:         member.Role,
		IsApproved:   member.IsApproved,
	}, nil
}

// Refresh 用 Refresh Token 换新的 Token 对；审批状态取库里最新值
func (s *MemberService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResp, error) {
	claims, err := middleware.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, ErrInvalidCredentials
	}

	member, err := s.memberRepo.GetByID(ctx, claims.MemberID)
	if err != nil {
		return nil, err
	}

	accessToken, newRefresh, err := middleware.GenerateTokenPair(
		member.ID, member.Username, member.Role, member.IsApproved)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResp{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		Username:     member.Username,
		Role:         member.Role,
		IsApproved:   member.IsApproved,
	}, nil
}

// GetProfile 会员本人信息
func (s *MemberService) GetProfile(ctx context.Context, memberID int64) (*model.Member, error) {
	return s.memberRepo.GetByID(ctx, memberID)
}

// ==================== 管理员操作 ====================

// List 会员列表；onlyPending 时只看待审批
func (s *MemberService) List(ctx context.Context, onlyPending bool) ([]model.Member, error) {
	return s.memberRepo.List(ctx, onlyPending)
}

// SetApproval 审批或撤销审批
func (s *MemberService) SetApproval(ctx context.Context, id int64, approved bool) error {
	fields := map[string]interface{}{"is_approved": approved}
	if approved {
		now := time.Now()
		fields["approved_at"] = &now
	} else {
		fields["approved_at"] = nil
	}
	if err := s.memberRepo.UpdateFields(ctx, id, fields); err != nil {
		return err
	}
	zap.S().Infow("会员审批状态变更", "member_id", id, "approved", approved)
	return nil
}

// ResetPassword 管理员重置会员口令
func (s *MemberService) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.memberRepo.UpdateFields(ctx, id, map[string]interface{}{"password_hash": string(hash)})
}

// Delete 删除会员账号
func (s *MemberService) Delete(ctx context.Context, id int64) error {
	return s.memberRepo.Delete(ctx, id)
}

// CountPending 待审批会员数（后台统计用）
func (s *MemberService) CountPending(ctx context.Context) (int64, error) {
	return s.memberRepo.CountPending(ctx)
}
