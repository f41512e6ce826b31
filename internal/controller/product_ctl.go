package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/repository"
	"scm_dev_v1_202608/internal/service"
)

// ProductController 商品接口
type ProductController struct {
	productService *service.ProductService
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// ==================== 查询接口 ====================

// List 商品列表
// @Summary 商品列表（分页 + 筛选）
// @Tags Product
// @Param category query string false "分类 slug"
// @Param keyword query string false "品牌/型号模糊搜索"
// @Param sort query string false "newest|display_order|price_asc|price_desc"
// @Param is_new query bool false "只看新品"
// @Param include_unavailable query bool false "含下架（管理后台）"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Router /api/products [get]
func (ctrl *ProductController) List(c *gin.Context) {
	filter := repository.ProductFilter{
		CategorySlug:       c.Query("category"),
		CategoryID:         cast.ToInt64(c.Query("category_id")),
		Keyword:            c.Query("keyword"),
		OnlyNew:            cast.ToBool(c.Query("is_new")),
		IncludeUnavailable: cast.ToBool(c.Query("include_unavailable")),
		Sort:               c.Query("sort"),
		Page:               cast.ToInt(c.DefaultQuery("page", "1")),
		PageSize:           cast.ToInt(c.DefaultQuery("page_size", "20")),
	}

	data, err := ctrl.productService.ListJSON(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// Get 商品详情
// @Summary 商品详情
// @Tags Product
// @Param id path int true "商品ID"
// @Router /api/products/{id} [get]
func (ctrl *ProductController) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}

	product, err := ctrl.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}

// FilterOptions 筛选框数据源
// @Summary 品牌/制造商/原产地去重列表
// @Tags Product
// @Router /api/products/filters [get]
func (ctrl *ProductController) FilterOptions(c *gin.Context) {
	options, err := ctrl.productService.FilterOptions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, options)
}

// ImageProxy 图片代理
// @Summary 代理拉取远端商品图
// @Tags Product
// @Param url query string true "图片地址"
// @Router /api/products/image-proxy [get]
func (ctrl *ProductController) ImageProxy(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "url 参数缺失"})
		return
	}

	data, contentType, err := ctrl.productService.FetchImage(c.Request.Context(), rawURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"code": 502, "message": "이미지를 불러올 수 없습니다"})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}

// ==================== 管理接口 ====================

// Create 后台创建商品
// @Summary 创建商品
// @Tags Product
// @Param body body dto.ProductReq true "商品字段"
// @Router /api/products [post]
func (ctrl *ProductController) Create(c *gin.Context) {
	var req dto.ProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	product, err := ctrl.productService.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "创建失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Update 后台更新商品
// @Summary 更新商品
// @Tags Product
// @Param id path int true "商品ID"
// @Param body body dto.ProductReq true "商品字段"
// @Router /api/products/{id} [put]
func (ctrl *ProductController) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}

	var req dto.ProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	product, err := ctrl.productService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}

// ToggleAvailability 上下架
// @Summary 上下架开关
// @Tags Product
// @Param id path int true "商品ID"
// @Router /api/products/{id}/availability [patch]
func (ctrl *ProductController) ToggleAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}
	var req dto.ToggleAvailabilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	if err := ctrl.productService.ToggleAvailability(c.Request.Context(), id, *req.IsAvailable); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// SetDisplayOrder 展示权重
// @Summary 调整展示权重
// @Tags Product
// @Param id path int true "商品ID"
// @Router /api/products/{id}/display-order [patch]
func (ctrl *ProductController) SetDisplayOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}
	var req dto.DisplayOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	if err := ctrl.productService.SetDisplayOrder(c.Request.Context(), id, *req.DisplayOrder); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// SetNewStatus 新品角标
// @Summary 新品角标开关
// @Tags Product
// @Param id path int true "商品ID"
// @Router /api/products/{id}/new-status [patch]
func (ctrl *ProductController) SetNewStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}
	var req dto.NewStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	if err := ctrl.productService.SetNewStatus(c.Request.Context(), id, *req.IsNew); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// ==================== 删除接口 ====================

// Delete 删除单条商品
// @Summary 删除商品（连带报价明细）
// @Tags Product
// @Param id path int true "商品ID"
// @Router /api/products/{id} [delete]
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}
	if err := ctrl.productService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "删除失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// DeleteRecent 删除最近 N 小时导入的商品（误导入回滚）
// @Summary 按导入时间窗口批量删除
// @Tags Product
// @Param hours query int false "时间窗口小时数" default(24)
// @Router /api/products/recent [delete]
func (ctrl *ProductController) DeleteRecent(c *gin.Context) {
	hours := cast.ToInt(c.DefaultQuery("hours", "24"))
	if hours < 1 || hours > 24*30 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的 hours"})
		return
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	count, err := ctrl.productService.DeleteCreatedAfter(c.Request.Context(), cutoff)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "删除失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.CountResp{Message: "success", Count: count})
}

// DeleteRange 按 ID 区间删除
// @Summary 按 ID 区间批量删除
// @Tags Product
// @Param start_id query int true "起始ID"
// @Param end_id query int true "结束ID"
// @Router /api/products/range [delete]
func (ctrl *ProductController) DeleteRange(c *gin.Context) {
	startID := cast.ToInt64(c.Query("start_id"))
	endID := cast.ToInt64(c.Query("end_id"))
	if startID <= 0 || endID < startID {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的 ID 区间"})
		return
	}

	count, err := ctrl.productService.DeleteIDRange(c.Request.Context(), startID, endID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "删除失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.CountResp{Message: "success", Count: count})
}
