package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/middleware"
	"scm_dev_v1_202608/internal/model"
	"scm_dev_v1_202608/internal/repository"
	"scm_dev_v1_202608/internal/service"
)

// QuoteController 报价单与购物车接口
type QuoteController struct {
	quoteService *service.QuoteService
}

func NewQuoteController(quoteService *service.QuoteService) *QuoteController {
	return &QuoteController{quoteService: quoteService}
}

// ==================== 购物车 ====================

// CartList 购物车明细
// @Summary 我的购物车
// @Tags Cart
// @Router /api/cart [get]
func (ctrl *QuoteController) CartList(c *gin.Context) {
	items, err := ctrl.quoteService.CartList(c.Request.Context(), middleware.GetMemberID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// CartAdd 加购
// @Summary 加入购物车（重复加购累加数量）
// @Tags Cart
// @Param body body dto.CartItemReq true "商品与数量"
// @Router /api/cart [post]
func (ctrl *QuoteController) CartAdd(c *gin.Context) {
	var req dto.CartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	if err := ctrl.quoteService.CartAdd(c.Request.Context(), middleware.GetMemberID(c), &req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "加购失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// CartUpdate 改数量
// @Summary 修改购物车数量
// @Tags Cart
// @Param body body dto.CartItemReq true "商品与数量"
// @Router /api/cart [put]
func (ctrl *QuoteController) CartUpdate(c *gin.Context) {
	var req dto.CartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	err := ctrl.quoteService.CartUpdateQuantity(c.Request.Context(), middleware.GetMemberID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "장바구니에 없는 상품입니다"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// CartRemove 移除单个商品
// @Summary 从购物车移除商品
// @Tags Cart
// @Param product_id path int true "商品ID"
// @Router /api/cart/{product_id} [delete]
func (ctrl *QuoteController) CartRemove(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}
	if err := ctrl.quoteService.CartRemove(c.Request.Context(), middleware.GetMemberID(c), productID); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "장바구니에 없는 상품입니다"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "删除失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// CartClear 清空购物车
// @Summary 清空购物车
// @Tags Cart
// @Router /api/cart [delete]
func (ctrl *QuoteController) CartClear(c *gin.Context) {
	if err := ctrl.quoteService.CartClear(c.Request.Context(), middleware.GetMemberID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "清空失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// ==================== 报价单（会员侧） ====================

// Create 由购物车生成报价单
// @Summary 提交报价单
// @Tags Quote
// @Param body body dto.CreateQuoteReq true "交期与备注"
// @Router /api/quotes [post]
func (ctrl *QuoteController) Create(c *gin.Context) {
	var req dto.CreateQuoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	quote, err := ctrl.quoteService.CreateFromCart(c.Request.Context(), middleware.GetMemberID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrCartEmpty) {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "下单失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, quote)
}

// MyQuotes 我的报价单
// @Summary 我的报价单列表
// @Tags Quote
// @Param status query string false "状态筛选"
// @Router /api/quotes [get]
func (ctrl *QuoteController) MyQuotes(c *gin.Context) {
	quotes, total, err := ctrl.quoteService.ListForMember(
		c.Request.Context(), middleware.GetMemberID(c),
		c.Query("status"),
		cast.ToInt(c.DefaultQuery("page", "1")),
		cast.ToInt(c.DefaultQuery("page_size", "20")),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes, "total": total})
}

// Get 报价单详情；会员只能看自己的，管理员不限
// @Summary 报价单详情
// @Tags Quote
// @Param id path int true "报价单ID"
// @Router /api/quotes/{id} [get]
func (ctrl *QuoteController) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的报价单ID"})
		return
	}

	var quote *model.Quote
	if middleware.GetMemberRole(c) == model.RoleAdmin {
		quote, err = ctrl.quoteService.Get(c.Request.Context(), id)
	} else {
		quote, err = ctrl.quoteService.GetForMember(c.Request.Context(), id, middleware.GetMemberID(c))
	}
	if err != nil {
		if errors.Is(err, repository.ErrQuoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "견적서를 찾을 수 없습니다"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Cancel 取消自己的待处理报价单
// @Summary 取消报价单
// @Tags Quote
// @Param id path int true "报价单ID"
// @Router /api/quotes/{id}/cancel [post]
func (ctrl *QuoteController) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的报价单ID"})
		return
	}
	err = ctrl.quoteService.CancelForMember(c.Request.Context(), id, middleware.GetMemberID(c))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrQuoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "견적서를 찾을 수 없습니다"})
		case errors.Is(err, service.ErrInvalidStatusChange):
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "대기중인 견적서만 취소할 수 있습니다"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "取消失败: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// ==================== 报价单（管理员侧） ====================

// AdminList 全部报价单
// @Summary 报价单列表（管理员）
// @Tags Quote
// @Param status query string false "状态筛选"
// @Router /api/admin/quotes [get]
func (ctrl *QuoteController) AdminList(c *gin.Context) {
	quotes, total, err := ctrl.quoteService.ListAll(
		c.Request.Context(),
		c.Query("status"),
		cast.ToInt(c.DefaultQuery("page", "1")),
		cast.ToInt(c.DefaultQuery("page_size", "20")),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes, "total": total})
}

// UpdateStatus 更新报价单状态
// @Summary 更新报价单状态（管理员）
// @Tags Quote
// @Param id path int true "报价单ID"
// @Param body body dto.QuoteStatusReq true "目标状态"
// @Router /api/admin/quotes/{id}/status [patch]
func (ctrl *QuoteController) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的报价单ID"})
		return
	}
	var req dto.QuoteStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	quote, err := ctrl.quoteService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrQuoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "견적서를 찾을 수 없습니다"})
		case errors.Is(err, service.ErrInvalidStatusChange):
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "취소된 견적서는 변경할 수 없습니다"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, quote)
}

// SetShipping 登记发货信息
// @Summary 登记承运方与运单号（管理员）
// @Tags Quote
// @Param id path int true "报价单ID"
// @Param body body dto.QuoteShippingReq true "发货信息"
// @Router /api/admin/quotes/{id}/shipping [patch]
func (ctrl *QuoteController) SetShipping(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的报价单ID"})
		return
	}
	var req dto.QuoteShippingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	quote, err := ctrl.quoteService.SetShipping(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrQuoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "견적서를 찾을 수 없습니다"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}
