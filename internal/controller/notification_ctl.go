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

// NotificationController 公告接口
type NotificationController struct {
	notificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// List 公告列表
// @Summary 公告列表（置顶优先）
// @Tags Notification
// @Param limit query int false "条数" default(20)
// @Router /api/notifications [get]
func (ctrl *NotificationController) List(c *gin.Context) {
	notifications, err := ctrl.notificationService.List(c.Request.Context(), cast.ToInt(c.DefaultQuery("limit", "20")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// Create 发布公告
// @Summary 发布公告（管理员）
// @Tags Notification
// @Param body body dto.NotificationReq true "公告内容"
// @Router /api/admin/notifications [post]
func (ctrl *NotificationController) Create(c *gin.Context) {
	var req dto.NotificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	notification, err := ctrl.notificationService.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "发布失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// Update 更新公告
// @Summary 更新公告（管理员）
// @Tags Notification
// @Param id path int true "公告ID"
// @Param body body dto.NotificationReq true "公告内容"
// @Router /api/admin/notifications/{id} [put]
func (ctrl *NotificationController) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的公告ID"})
		return
	}
	var req dto.NotificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	notification, err := ctrl.notificationService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "공지를 찾을 수 없습니다"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, notification)
}

// Delete 删除公告
// @Summary 删除公告（管理员）
// @Tags Notification
// @Param id path int true "公告ID"
// @Router /api/admin/notifications/{id} [delete]
func (ctrl *NotificationController) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的公告ID"})
		return
	}
	if err := ctrl.notificationService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "공지를 찾을 수 없습니다"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "删除失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
