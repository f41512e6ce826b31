package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"scm_dev_v1_202608/internal/model"
)

// ==================== JWT 配置 ====================

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey       string        // 签名密钥
	AccessTokenTTL  time.Duration // Access Token 有效期
	RefreshTokenTTL time.Duration // Refresh Token 有效期
	Issuer          string        // 签发者
}

// DefaultJWTConfig 默认配置
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:       "scm-backend-secret-key-change-in-production",
		AccessTokenTTL:  2 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "scm-backend",
	}
}

// 全局配置
var jwtConfig = DefaultJWTConfig()

// SetJWTConfig 设置 JWT 配置
func SetJWTConfig(cfg *JWTConfig) {
	jwtConfig = cfg
}

// ==================== Claims 定义 ====================

// MemberClaims 会员声明；Approved 决定能否下单
type MemberClaims struct {
	MemberID int64  `json:"member_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
	jwt.RegisteredClaims
}

// ==================== Token 生成 ====================

// GenerateAccessToken 生成 Access Token
func GenerateAccessToken(memberID int64, username, role string, approved bool) (string, error) {
	return generateToken(memberID, username, role, approved, "access", jwtConfig.AccessTokenTTL)
}

// GenerateRefreshToken 生成 Refresh Token
func GenerateRefreshToken(memberID int64, username, role string, approved bool) (string, error) {
	return generateToken(memberID, username, role, approved, "refresh", jwtConfig.RefreshTokenTTL)
}

func generateToken(memberID int64, username, role string, approved bool, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &MemberClaims{
		MemberID: memberID,
		Username: username,
		Role:     role,
		Approved: approved,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SecretKey))
}

// GenerateTokenPair 生成 Token 对
func GenerateTokenPair(memberID int64, username, role string, approved bool) (accessToken, refreshToken string, err error) {
	accessToken, err = GenerateAccessToken(memberID, username, role, approved)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = GenerateRefreshToken(memberID, username, role, approved)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// ==================== Token 解析 ====================

// ParseToken 解析 Token
func ParseToken(tokenString string) (*MemberClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &MemberClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*MemberClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeyMemberID = "member_id"
	ContextKeyUsername = "username"
	ContextKeyRole     = "role"
	ContextKeyClaims   = "claims"
)

// JWTAuth JWT 认证中间件
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "未提供认证信息",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "认证格式错误，应为 Bearer {token}",
			})
			c.Abort()
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Token 无效或已过期",
			})
			c.Abort()
			return
		}

		if claims.Subject != "access" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Token 类型错误",
			})
			c.Abort()
			return
		}

		c.Set(ContextKeyMemberID, claims.MemberID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

// RequireRole 角色权限校验中间件
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextKeyRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "未获取到用户角色",
			})
			c.Abort()
			return
		}

		memberRole := role.(string)
		for _, r := range roles {
			if memberRole == r {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": "无权限访问",
		})
		c.Abort()
	}
}

// RequireApproved 下单类接口需要已审批的会员；管理员直接放行
func RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetMemberClaims(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "未获取到会员信息",
			})
			c.Abort()
			return
		}
		if claims.Role == model.RoleAdmin || claims.Approved {
			c.Next()
			return
		}
		c.JSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": "계정 승인 대기중입니다",
		})
		c.Abort()
	}
}

// ==================== 辅助函数 ====================

// GetMemberID 从 Context 获取会员 ID
func GetMemberID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyMemberID); exists {
		return id.(int64)
	}
	return 0
}

// GetUsername 从 Context 获取用户名
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		return name.(string)
	}
	return ""
}

// GetMemberRole 从 Context 获取角色
func GetMemberRole(c *gin.Context) string {
	if role, exists := c.Get(ContextKeyRole); exists {
		return role.(string)
	}
	return ""
}

// GetMemberClaims 从 Context 获取完整 Claims
func GetMemberClaims(c *gin.Context) *MemberClaims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		return claims.(*MemberClaims)
	}
	return nil
}
