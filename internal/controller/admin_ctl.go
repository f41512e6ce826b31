package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/repository"
	"scm_dev_v1_202608/internal/service"
)

// AdminController 会员管理与后台统计
type AdminController struct {
	memberService    *service.MemberService
	dashboardService *service.DashboardService
}

func NewAdminController(memberService *service.MemberService, dashboardService *service.DashboardService) *AdminController {
	return &AdminController{memberService: memberService, dashboardService: dashboardService}
}

// ==================== 会员管理 ====================

// ListMembers 会员列表
// @Summary 会员列表
// @Tags Admin
// @Param pending query bool false "只看待审批"
// @Router /api/admin/members [get]
func (ctrl *AdminController) ListMembers(c *gin.Context) {
	members, err := ctrl.memberService.List(c.Request.Context(), cast.ToBool(c.Query("pending")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, members)
}

// SetApproval 审批/撤销
// @Summary 会员审批
// @Tags Admin
// @Param id path int true "会员ID"
// @Param body body dto.ApprovalReq true "审批结果"
// @Router /api/admin/members/{id}/approval [patch]
func (ctrl *AdminController) SetApproval(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的会员ID"})
		return
	}
	var req dto.ApprovalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	if err := ctrl.memberService.SetApproval(c.Request.Context(), id, *req.Approved); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "회원을 찾을 수 없습니다"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "审批失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// ResetPassword 重置会员口令
// @Summary 重置会员密码
// @Tags Admin
// @Param id path int true "会员ID"
// @Param body body dto.ResetPasswordReq true "新密码"
// @Router /api/admin/members/{id}/password [patch]
func (ctrl *AdminController) ResetPassword(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的会员ID"})
		return
	}
	var req dto.ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	if err := ctrl.memberService.ResetPassword(c.Request.Context(), id, req.NewPassword); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "회원을 찾을 수 없습니다"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "重置失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// DeleteMember 删除会员
// @Summary 删除会员
// @Tags Admin
// @Param id path int true "会员ID"
// @Router /api/admin/members/{id} [delete]
func (ctrl *AdminController) DeleteMember(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的会员ID"})
		return
	}
	if err := ctrl.memberService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "회원을 찾을 수 없습니다"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "删除失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// ==================== 后台统计 ====================

// Stats 后台首页统计
// @Summary 后台统计（商品数/待审批/报价单状态分布）
// @Tags Admin
// @Success 200 {object} dto.AdminStatsResp
// @Router /api/admin/stats [get]
func (ctrl *AdminController) Stats(c *gin.Context) {
	stats, err := ctrl.dashboardService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
