package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/service"
)

// ExcelController Excel 导入导出与数据修复
type ExcelController struct {
	importService *service.ImportService
	repairService *service.RepairService
	exportService *service.ExportService
}

func NewExcelController(
	importService *service.ImportService,
	repairService *service.RepairService,
	exportService *service.ExportService,
) *ExcelController {
	return &ExcelController{
		importService: importService,
		repairService: repairService,
		exportService: exportService,
	}
}

// ==================== 导入 ====================

// Upload 上传 Excel 批量导入商品
// @Summary 上传 Excel 批量导入商品
// @Tags Excel
// @Accept multipart/form-data
// @Param file formData file true "xlsx 文件"
// @Param mode formData string false "写入模式 new|update|all" default(all)
// @Success 200 {object} dto.ImportResult
// @Router /api/excel/upload [post]
func (ctrl *ExcelController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "업로드된 파일이 없습니다"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "파일을 열 수 없습니다"})
		return
	}
	defer f.Close()

	mode := service.NormalizeImportMode(c.PostForm("mode"))

	result, err := ctrl.importService.ImportWorkbook(c.Request.Context(), f, mode)
	if err != nil {
		zap.S().Errorw("Excel 导入批级失败", "file", fileHeader.Filename, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ==================== 导出 ====================

// Export 导出全部商品为 xlsx
// @Summary 导出商品目录
// @Tags Excel
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /api/excel/export [get]
func (ctrl *ExcelController) Export(c *gin.Context) {
	filename := fmt.Sprintf("products_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	count, err := ctrl.exportService.WriteCatalog(c.Request.Context(), c.Writer)
	if err != nil {
		zap.S().Errorw("Excel 导出失败", "err", err)
		// 头已经写出，只能中断连接
		c.Abort()
		return
	}
	zap.S().Infow("Excel 导出完成", "count", count, "file", filename)
}

// ==================== 数据修复 ====================

// SwapPrices 互换录反的实卖价/消费者价
// @Summary 修复录反的价格列
// @Tags Excel
// @Success 200 {object} dto.RepairCountResp
// @Router /api/excel/swap-prices [post]
func (ctrl *ExcelController) SwapPrices(c *gin.Context) {
	ctrl.runRepair(c, "가격 교정 완료", ctrl.repairService.SwapPrices)
}

// SyncPrices 공급가回填
// @Summary 공급가为零时回填实卖价
// @Tags Excel
// @Success 200 {object} dto.RepairCountResp
// @Router /api/excel/sync-prices [post]
func (ctrl *ExcelController) SyncPrices(c *gin.Context) {
	ctrl.runRepair(c, "공급가 동기화 완료", ctrl.repairService.BackfillSupplyPrice)
}

// SyncShipping 운임回填
// @Summary 개별배송비为零时回填通用배송비
// @Tags Excel
// @Success 200 {object} dto.RepairCountResp
// @Router /api/excel/sync-shipping [post]
func (ctrl *ExcelController) SyncShipping(c *gin.Context) {
	ctrl.runRepair(c, "배송비 동기화 완료", ctrl.repairService.BackfillShippingFee)
}

// FixShippingUnits 还原千单位被截断的운임
// @Summary 운임单位修复
// @Tags Excel
// @Success 200 {object} dto.RepairCountResp
// @Router /api/excel/fix-shipping-units [post]
func (ctrl *ExcelController) FixShippingUnits(c *gin.Context) {
	ctrl.runRepair(c, "배송비 단위 교정 완료", ctrl.repairService.FixShippingFeeUnits)
}

func (ctrl *ExcelController) runRepair(c *gin.Context, message string, fn func(ctx context.Context) (int64, error)) {
	count, err := fn(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "데이터 교정 실패: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.RepairCountResp{Message: message, Count: count})
}

// FixData 四项修复一次跑完
// @Summary 综合数据修复
// @Tags Excel
// @Success 200 {object} dto.RepairSummary
// @Router /api/excel/fix-data [post]
func (ctrl *ExcelController) FixData(c *gin.Context) {
	summary, err := ctrl.repairService.RunAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "데이터 교정 실패: " + err.Error()})
		return
	}
	summary.Message = "데이터 교정 완료"
	c.JSON(http.StatusOK, summary)
}

// ResetSequence 商品 ID 序列重置（批量删除后）
// @Summary 商品 ID 序列重置
// @Tags Excel
// @Success 200 {object} dto.RepairCountResp
// @Router /api/excel/reset-sequence [post]
func (ctrl *ExcelController) ResetSequence(c *gin.Context) {
	value, err := ctrl.repairService.ResetProductSequence(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "시퀀스 초기화 실패: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "시퀀스 초기화 완료", "count": value})
}
