package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/middleware"
	"scm_dev_v1_202608/internal/model"
	"scm_dev_v1_202608/internal/repository"
)

func setupMemberTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Member{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func TestMemberService_RegisterAndLogin(t *testing.T) {
	db := setupMemberTestDB(t)
	svc := NewMemberService(repository.NewMemberRepository(db))
	ctx := context.Background()

	member, err := svc.Register(ctx, &dto.RegisterReq{
		Username:    "partner01",
		Password:    "secret123",
		CompanyName: "아론테크",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if member.Role != model.RolePartner {
		t.Errorf("Role = %q, want partner", member.Role)
	}
	if member.IsApproved {
		t.Error("注册后应为未审批状态")
	}
	if member.PasswordHash == "secret123" {
		t.Error("口令不应明文落库")
	}

	// 重名注册被拒
	_, err = svc.Register(ctx, &dto.RegisterReq{Username: "partner01", Password: "x12345", CompanyName: "다른회사"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}

	// 正确口令登录
	resp, err := svc.Login(ctx, &dto.LoginReq{Username: "partner01", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("Token 为空")
	}

	claims, err := middleware.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.MemberID != member.ID || claims.Role != model.RolePartner || claims.Approved {
		t.Errorf("claims 不符: %+v", claims)
	}

	// 错误口令
	_, err = svc.Login(ctx, &dto.LoginReq{Username: "partner01", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	// 不存在的账号与错误口令返回同一错误，不泄露注册状态
	_, err = svc.Login(ctx, &dto.LoginReq{Username: "nobody", Password: "x"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestMemberService_SetApproval(t *testing.T) {
	db := setupMemberTestDB(t)
	svc := NewMemberService(repository.NewMemberRepository(db))
	ctx := context.Background()

	member, err := svc.Register(ctx, &dto.RegisterReq{Username: "partner02", Password: "secret123", CompanyName: "회사"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := svc.SetApproval(ctx, member.ID, true); err != nil {
		t.Fatalf("SetApproval() error = %v", err)
	}
	approved, _ := svc.GetProfile(ctx, member.ID)
	if !approved.IsApproved || approved.ApprovedAt == nil {
		t.Errorf("审批未生效: %+v", approved)
	}

	if err := svc.SetApproval(ctx, member.ID, false); err != nil {
		t.Fatalf("SetApproval() error = %v", err)
	}
	revoked, _ := svc.GetProfile(ctx, member.ID)
	if revoked.IsApproved || revoked.ApprovedAt != nil {
		t.Errorf("撤销未生效: %+v", revoked)
	}
}

func TestMemberService_ResetPassword(t *testing.T) {
	db := setupMemberTestDB(t)
	svc := NewMemberService(repository.NewMemberRepository(db))
	ctx := context.Background()

	member, err := svc.Register(ctx, &dto.RegisterReq{Username: "partner03", Password: "oldpass1", CompanyName: "회사"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := svc.ResetPassword(ctx, member.ID, "newpass1"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	if _, err := svc.Login(ctx, &dto.LoginReq{Username: "partner03", Password: "oldpass1"}); err == nil {
		t.Error("旧口令不应再可用")
	}
	if _, err := svc.Login(ctx, &dto.LoginReq{Username: "partner03", Password: "newpass1"}); err != nil {
		t.Errorf("新口令登录失败: %v", err)
	}
}
