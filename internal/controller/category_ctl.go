package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/repository"
	"scm_dev_v1_202608/internal/service"
)

// CategoryController 分类接口
type CategoryController struct {
	categoryService *service.CategoryService
}

func NewCategoryController(categoryService *service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// List 分类列表（含在售商品数）
// @Summary 分类列表
// @Tags Category
// @Router /api/categories [get]
func (ctrl *CategoryController) List(c *gin.Context) {
	categories, err := ctrl.categoryService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Create 创建分类
// @Summary 创建分类
// @Tags Category
// @Param body body dto.CategoryReq true "分类字段"
// @Router /api/categories [post]
func (ctrl *CategoryController) Create(c *gin.Context) {
	var req dto.CategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	category, err := ctrl.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"code": 409, "message": "이미 존재하는 카테고리입니다"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "创建失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Update 更新分类
// @Summary 更新分类
// @Tags Category
// @Param id path int true "分类ID"
// @Param body body dto.CategoryReq true "分类字段"
// @Router /api/categories/{id} [put]
func (ctrl *CategoryController) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的分类ID"})
		return
	}
	var req dto.CategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	category, err := ctrl.categoryService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "分类不存在"})
		case errors.Is(err, service.ErrCategoryNameTaken):
			c.JSON(http.StatusConflict, gin.H{"code": 409, "message": "이미 존재하는 카테고리입니다"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete 删除分类；分类下还有商品时返回 400 和商品数
// @Summary 删除分类
// @Tags Category
// @Param id path int true "分类ID"
// @Router /api/categories/{id} [delete]
func (ctrl *CategoryController) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的分类ID"})
		return
	}

	count, err := ctrl.categoryService.Delete(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryInUse):
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "카테고리에 속한 상품이 있어 삭제할 수 없습니다",
				"count":   count,
			})
		case errors.Is(err, repository.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "分类不存在"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "删除失败: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
