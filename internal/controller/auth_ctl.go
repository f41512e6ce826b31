package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/middleware"
	"scm_dev_v1_202608/internal/repository"
	"scm_dev_v1_202608/internal/service"
)

// AuthController 注册登录接口
type AuthController struct {
	memberService *service.MemberService
}

func NewAuthController(memberService *service.MemberService) *AuthController {
	return &AuthController{memberService: memberService}
}

// Register 合作伙伴注册
// @Summary 注册（注册后需管理员审批）
// @Tags Auth
// @Param body body dto.RegisterReq true "注册信息"
// @Router /api/auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	member, err := ctrl.memberService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"code": 409, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "注册失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, member)
}

// Login 登录
// @Summary 登录
// @Tags Auth
// @Param body body dto.LoginReq true "登录信息"
// @Success 200 {object} dto.LoginResp
// @Router /api/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	resp, err := ctrl.memberService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "登录失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh 刷新 Token
// @Summary 用 Refresh Token 换新 Token 对
// @Tags Auth
// @Router /api/auth/refresh [post]
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	resp, err := ctrl.memberService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "Token 무효 또는 만료"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profile 当前会员信息
// @Summary 我的账号信息
// @Tags Auth
// @Router /api/auth/me [get]
func (ctrl *AuthController) Profile(c *gin.Context) {
	member, err := ctrl.memberService.GetProfile(c.Request.Context(), middleware.GetMemberID(c))
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "회원을 찾을 수 없습니다"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, member)
}
