package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"scm_dev_v1_202608/internal/model"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateAccessToken(42, "partner01", model.RolePartner, true)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.MemberID != 42 || claims.Username != "partner01" || claims.Role != model.RolePartner {
		t.Errorf("claims 不符: %+v", claims)
	}
	if !claims.Approved {
		t.Error("Approved 标志丢失")
	}
	if claims.Subject != "access" {
		t.Errorf("Subject = %q, want access", claims.Subject)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Fatal("坏 token 应解析失败")
	}
}

func newAuthTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"member_id": GetMemberID(c)})
	})
	r.GET("/protected", chain...)
	return r
}

func TestJWTAuth(t *testing.T) {
	r := newAuthTestRouter(JWTAuth())

	// 无 Token
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("无 Token: code = %d, want 401", w.Code)
	}

	// Refresh Token 不能当 Access 用
	refresh, _ := GenerateRefreshToken(1, "u", model.RolePartner, true)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh 当 access: code = %d, want 401", w.Code)
	}

	// 正常 Token
	access, _ := GenerateAccessToken(1, "u", model.RolePartner, true)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("有效 Token: code = %d, want 200", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r := newAuthTestRouter(JWTAuth(), RequireRole(model.RoleAdmin))

	partnerToken, _ := GenerateAccessToken(1, "partner", model.RolePartner, true)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+partnerToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("partner 访问 admin 接口: code = %d, want 403", w.Code)
	}

	adminToken, _ := GenerateAccessToken(2, "admin", model.RoleAdmin, true)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin 访问: code = %d, want 200", w.Code)
	}
}

func TestRequireApproved(t *testing.T) {
	r := newAuthTestRouter(JWTAuth(), RequireApproved())

	pending, _ := GenerateAccessToken(1, "pending", model.RolePartner, false)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pending)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("未审批会员: code = %d, want 403", w.Code)
	}

	// 管理员不受审批限制
	admin, _ := GenerateAccessToken(2, "admin", model.RoleAdmin, false)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin: code = %d, want 200", w.Code)
	}
}
